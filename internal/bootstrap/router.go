package bootstrap

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httpapi "github.com/offerdesk/offer-backend/internal/api/http"
	"github.com/offerdesk/offer-backend/internal/middleware"
	offershttp "github.com/offerdesk/offer-backend/internal/offers/http"
	"github.com/offerdesk/offer-backend/internal/offers/service"
)

type RouterDeps struct {
	ServiceName  string
	Version      string
	AllowOrigins string
	Redis        *redis.Client
	Sessions     *service.Sessions
	Log          *zap.Logger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if dep.AllowOrigins == "" || dep.AllowOrigins == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = strings.Split(dep.AllowOrigins, ",")
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "X-User-Id", "X-Request-Id")
	r.Use(cors.New(corsCfg))
	r.Use(middleware.RequestID(dep.Log))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")

	offersHandler := offershttp.New(dep.Sessions, dep.Log)
	offersHandler.Register(api.Group("/offers"))

	return r
}
