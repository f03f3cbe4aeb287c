package wire

import (
	"loyalty-rewards/internal/adaptor"
	"loyalty-rewards/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	limiter *middleware.RateLimiter,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)

		// Login is throttled per client IP
		r.With(limiter.Handler).Post("/login", authHandler.Login)
	})
}
