package http

import (
	"go.uber.org/zap"

	"github.com/offerdesk/offer-backend/internal/offers/service"
)

// Handler bundles the dependencies for offer session HTTP endpoints.
type Handler struct {
	sessions *service.Sessions
	log      *zap.Logger
}

func New(sessions *service.Sessions, log *zap.Logger) *Handler {
	return &Handler{sessions: sessions, log: log}
}

type nameReq struct {
	Name string `json:"name"`
}
