package wire

import (
	"net/http"

	"loyalty-rewards/internal/adaptor"
	"loyalty-rewards/internal/data/entity"
	"loyalty-rewards/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wirePoints configures the QR transaction flow
func wirePoints(
	r chi.Router,
	pointsHandler *adaptor.PointsHandler,
	authn func(http.Handler) http.Handler,
	log *zap.Logger,
) {
	// ==================== USER ROUTES ====================
	// GET /api/user/{userId}/generate-qr - bearer session of that user
	r.With(authn).Get("/api/user/{userId}/generate-qr", pointsHandler.GenerateQR)

	// GET /api/user/{userId}/points?token= - any transaction code of that user
	r.With(authn).Get("/api/user/{userId}/points", pointsHandler.ViewPoints)

	// ==================== ADMIN ROUTES ====================
	// Transaction token in the query, admin session in the header
	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Use(middleware.RequireRole(string(entity.RoleAdmin), log))

		r.Get("/api/admin/{userId}/manage-points", pointsHandler.Scan)
		r.Post("/api/admin/{userId}/manage-points", pointsHandler.ManagePoints)
	})
}
