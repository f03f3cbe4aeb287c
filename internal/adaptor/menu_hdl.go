package adaptor

import (
	"net/http"

	"loyalty-rewards/internal/usecase"
	"loyalty-rewards/pkg/utils"

	"go.uber.org/zap"
)

const menuFileField = "file"

type MenuHandler struct {
	service  usecase.MenuService
	maxBytes int64
	log      *zap.Logger
}

func NewMenuHandler(service usecase.MenuService, maxBytes int64, log *zap.Logger) *MenuHandler {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &MenuHandler{
		service:  service,
		maxBytes: maxBytes,
		log:      log,
	}
}

// Upload handles POST /api/admin/menu/upload
func (h *MenuHandler) Upload(w http.ResponseWriter, r *http.Request) {
	principal, ok := utils.GetPrincipal(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	// The file is fully checked before the service sees it
	file, err := utils.ReadUpload(r, menuFileField, h.maxBytes)
	if err != nil {
		respondError(w, r, h.log, err, "upload menu")
		return
	}

	menu, err := h.service.Upload(r.Context(), principal.SubjectID, file)
	if err != nil {
		respondError(w, r, h.log, err, "upload menu")
		return
	}

	utils.ResponseCreated(w, "Menu uploaded", menu)
}

// View handles GET /api/user/menu/view
func (h *MenuHandler) View(w http.ResponseWriter, r *http.Request) {
	menu, err := h.service.GetLatest(r.Context())
	if err != nil {
		respondError(w, r, h.log, err, "view menu")
		return
	}

	utils.ResponseSuccess(w, "Menu retrieved", menu)
}
