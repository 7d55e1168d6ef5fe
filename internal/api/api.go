package api

import (
	"context"
	"net/http"
	"time"

	"uni-assistant/internal/auth"
	"uni-assistant/internal/chat"
	"uni-assistant/internal/config"
	"uni-assistant/internal/metrics"
	"uni-assistant/pkg/api"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type BackendService struct {
	db       *gorm.DB
	resolver *auth.Resolver
	auth     *AuthService
	chats    *ChatService
}

func NewBackendService(db *gorm.DB, cfg *config.Config, generator chat.ReplyGenerator) *BackendService {
	codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.SessionTTL)
	resolver := auth.NewResolver(db, codec)

	store := chat.NewStore(db, cfg.ConcealOwnership())
	orchestrator := chat.NewOrchestrator(store, generator, cfg.ReplyTimeout, cfg.ReplyHistoryTurns)

	return &BackendService{
		db:       db,
		resolver: resolver,
		auth:     NewAuthService(auth.NewAuthenticator(db, codec), resolver, codec, cfg.IsProduction()),
		chats:    NewChatService(store, orchestrator),
	}
}

// AddRoutes installs the session gate and every route. It must be called
// before any other route is registered on r.
func (s *BackendService) AddRoutes(r chi.Router) {
	r.Use(auth.Gate)

	r.Get("/healthz", RestHandler(s.Health))
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		s.auth.AddRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(s.resolver.RequireUser)
			s.chats.AddRoutes(r)
		})
	})
}

func (s *BackendService) Health(r *http.Request) (any, error) {
	sqlDB, err := s.db.DB()
	if err != nil {
		return nil, CodedError(http.StatusInternalServerError, err)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, CodedError(http.StatusInternalServerError, err)
	}

	return api.HealthResponse{Status: "ok"}, nil
}
