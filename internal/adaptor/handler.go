package adaptor

import (
	"errors"
	"net/http"
	"time"

	"loyalty-rewards/internal/usecase"
	"loyalty-rewards/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Auth   *AuthHandler
	User   *UserHandler
	Points *PointsHandler
	Menu   *MenuHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(service.Auth, log),
		User:   NewUserHandler(service.User, service.Ledger, log),
		Points: NewPointsHandler(service.QR, log),
		Menu:   NewMenuHandler(service.Menu, config.Storage.MaxUploadMB<<20, log),
	}
}

// respondError maps service errors onto statuses by category. Anything
// uncategorised is logged with the request context and answered with a
// generic 500.
func respondError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, utils.ErrValidation),
		errors.Is(err, utils.ErrDuplicate),
		errors.Is(err, utils.ErrState):
		log.Warn(operation+" rejected", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, utils.ErrUnauthenticated):
		utils.ResponseUnauthorized(w, err.Error())

	case errors.Is(err, utils.ErrForbidden):
		log.Warn(operation+" forbidden", zap.Error(err), zap.String("path", r.URL.Path))
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, utils.ErrNotFound):
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, utils.ErrRateLimited):
		utils.ResponseTooManyRequests(w, err.Error())

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Any("query", redactedQuery(r)),
			zap.Any("params", routeParams(r)),
			zap.String("body", utils.GetRequestBody(r.Context())),
			zap.Time("timestamp", time.Now()),
		)
		utils.ResponseInternalError(w, "Internal server error")
	}
}

func routeParams(r *http.Request) map[string]string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return nil
	}
	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		params[key] = rctx.URLParams.Values[i]
	}
	return params
}

// redactedQuery drops signed tokens before they reach the error log.
func redactedQuery(r *http.Request) map[string][]string {
	q := r.URL.Query()
	if q.Has("token") {
		q.Set("token", "redacted")
	}
	return q
}
