package wire

import (
	"net/http"

	"loyalty-rewards/internal/adaptor"
	"loyalty-rewards/internal/data/entity"
	"loyalty-rewards/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireMenu(
	r chi.Router,
	menuHandler *adaptor.MenuHandler,
	authn func(http.Handler) http.Handler,
	log *zap.Logger,
) {
	// GET /api/user/menu/view - any signed-in account
	r.With(authn).Get("/api/user/menu/view", menuHandler.View)

	// POST /api/admin/menu/upload - admins only, multipart "file"
	r.With(
		authn,
		middleware.RequireRole(string(entity.RoleAdmin), log),
	).Post("/api/admin/menu/upload", menuHandler.Upload)
}
