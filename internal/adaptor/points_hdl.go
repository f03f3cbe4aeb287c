package adaptor

import (
	"encoding/json"
	"net/http"

	"loyalty-rewards/internal/dto/request"
	"loyalty-rewards/internal/usecase"
	"loyalty-rewards/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PointsHandler serves the QR transaction routes.
type PointsHandler struct {
	service usecase.QRService
	log     *zap.Logger
}

func NewPointsHandler(service usecase.QRService, log *zap.Logger) *PointsHandler {
	return &PointsHandler{
		service: service,
		log:     log,
	}
}

// GenerateQR handles GET /api/user/{userId}/generate-qr
func (h *PointsHandler) GenerateQR(w http.ResponseWriter, r *http.Request) {
	principal, ok := utils.GetPrincipal(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	code, err := h.service.Issue(r.Context(), principal, chi.URLParam(r, "userId"))
	if err != nil {
		respondError(w, r, h.log, err, "generate QR code")
		return
	}

	utils.ResponseSuccess(w, "QR code generated", code)
}

// Scan handles GET /api/admin/{userId}/manage-points?token=
func (h *PointsHandler) Scan(w http.ResponseWriter, r *http.Request) {
	principal, ok := utils.GetPrincipal(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	snapshot, err := h.service.Scan(r.Context(), principal, chi.URLParam(r, "userId"))
	if err != nil {
		respondError(w, r, h.log, err, "scan code")
		return
	}

	utils.ResponseSuccess(w, "Code verified", snapshot)
}

// ManagePoints handles POST /api/admin/{userId}/manage-points?token=
func (h *PointsHandler) ManagePoints(w http.ResponseWriter, r *http.Request) {
	principal, ok := utils.GetPrincipal(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ManagePointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, utils.ErrInvalidPoints.Error(), nil)
		return
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		utils.ResponseBadRequest(w, utils.ErrInvalidPoints.Error(), errs)
		return
	}

	result, err := h.service.Mutate(r.Context(), principal, chi.URLParam(r, "userId"), *req.Points)
	if err != nil {
		respondError(w, r, h.log, err, "manage points")
		return
	}

	utils.ResponseSuccess(w, "Points updated", result)
}

// ViewPoints handles GET /api/user/{userId}/points?token=
func (h *PointsHandler) ViewPoints(w http.ResponseWriter, r *http.Request) {
	principal, ok := utils.GetPrincipal(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	points, err := h.service.ViewPoints(r.Context(), principal, chi.URLParam(r, "userId"))
	if err != nil {
		respondError(w, r, h.log, err, "view points")
		return
	}

	utils.ResponseSuccess(w, "Points retrieved", points)
}
