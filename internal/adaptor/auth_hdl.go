package adaptor

import (
	"encoding/json"
	"net/http"

	"loyalty-rewards/internal/dto/request"
	"loyalty-rewards/internal/usecase"
	"loyalty-rewards/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest

	// Decode request body
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Field checks run in the service so their order is fixed
	response, err := h.service.Register(r.Context(), &req)
	if err != nil {
		respondError(w, r, h.log, err, "register")
		return
	}

	utils.ResponseCreated(w, "Registration successful", response)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	response, err := h.service.Login(r.Context(), &req)
	if err != nil {
		respondError(w, r, h.log, err, "login")
		return
	}

	utils.ResponseSuccess(w, "Login successful", response)
}
