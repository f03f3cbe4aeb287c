package adaptor

import (
	"encoding/json"
	"net/http"
	"time"

	"loyalty-rewards/internal/dto/request"
	"loyalty-rewards/internal/usecase"
	"loyalty-rewards/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	ledger  usecase.LedgerService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, ledger usecase.LedgerService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		ledger:  ledger,
		log:     log,
	}
}

// Profile handles GET /api/user/profile
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	principal, ok := utils.GetPrincipal(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), principal.SubjectID)
	if err != nil {
		respondError(w, r, h.log, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved", profile)
}

// UpdateBirthday handles PUT /api/user/birthday
func (h *UserHandler) UpdateBirthday(w http.ResponseWriter, r *http.Request) {
	principal, ok := utils.GetPrincipal(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.BirthdayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		utils.ResponseBadRequest(w, utils.ErrInvalidBirthday.Error(), errs)
		return
	}

	birthday, err := time.Parse("2006-01-02", req.Birthday)
	if err != nil {
		respondError(w, r, h.log, utils.ErrInvalidBirthday, "update birthday")
		return
	}

	userID, err := uuid.Parse(principal.SubjectID)
	if err != nil {
		respondError(w, r, h.log, utils.ErrInvalidUserID, "update birthday")
		return
	}

	result, err := h.ledger.AwardBirthday(r.Context(), userID, birthday)
	if err != nil {
		respondError(w, r, h.log, err, "update birthday")
		return
	}

	message := "Birthday updated"
	if result.Awarded {
		message = "Happy birthday! Bonus points added"
	}
	utils.ResponseSuccess(w, message, result)
}

// UpdateInformation handles PUT /api/user/update
func (h *UserHandler) UpdateInformation(w http.ResponseWriter, r *http.Request) {
	principal, ok := utils.GetPrincipal(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	updated, err := h.service.UpdateInformation(r.Context(), principal.SubjectID, &req)
	if err != nil {
		respondError(w, r, h.log, err, "update information")
		return
	}

	utils.ResponseSuccess(w, "Information updated", updated)
}
