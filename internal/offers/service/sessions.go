package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/offerdesk/offer-backend/internal/offers/domain"
	"github.com/offerdesk/offer-backend/internal/offers/repository"
	"github.com/offerdesk/offer-backend/internal/offers/storage"
)

// Sessions hands out one Session per user. The first access restores the
// user's autosave slot; a user with no autosave starts a fresh draft.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*Session

	repo        *repository.DraftRepository
	attachments *storage.AttachmentStore
	log         *zap.Logger
}

// NewSessions creates the session manager.
func NewSessions(repo *repository.DraftRepository, attachments *storage.AttachmentStore, log *zap.Logger) *Sessions {
	return &Sessions{
		sessions:    make(map[string]*Session),
		repo:        repo,
		attachments: attachments,
		log:         log,
	}
}

// Get returns the user's session, creating and restoring it on first use.
func (m *Sessions) Get(ctx context.Context, userID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[userID]; ok {
		return s
	}

	draft, err := m.repo.LoadAutosave(ctx, userID)
	if err != nil {
		m.log.Warn("autosave restore failed, starting fresh draft",
			zap.String("user_id", userID), zap.Error(err))
		draft = nil
	}
	if draft == nil {
		draft = domain.NewDraft()
	} else {
		draft.Step = domain.ClampStep(draft.Step)
		if draft.Attachments == nil {
			draft.Attachments = []domain.Attachment{}
		}
	}

	s := &Session{
		userID:      userID,
		draft:       draft,
		repo:        m.repo,
		attachments: m.attachments,
		log:         m.log,
	}
	m.sessions[userID] = s
	return s
}

// Drop discards a user's in-memory session. The autosave slot is untouched,
// so the next Get restores it.
func (m *Sessions) Drop(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
