package wire

import (
	"net/http"

	"loyalty-rewards/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireUser configures the signed-in user's own routes
func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	authn func(http.Handler) http.Handler,
) {
	// ==================== PROTECTED USER ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(authn)

		r.Get("/api/user/profile", userHandler.Profile)
		r.Put("/api/user/birthday", userHandler.UpdateBirthday)
		r.Put("/api/user/update", userHandler.UpdateInformation)
	})
}
