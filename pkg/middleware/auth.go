package middleware

import (
	"errors"
	"net/http"
	"strings"

	"loyalty-rewards/pkg/token"
	"loyalty-rewards/pkg/utils"

	"go.uber.org/zap"
)

// Routes ending in one of these take their transaction token from ?token=.
var transactionRouteSuffixes = []string{"/manage-points", "/points"}

func isTransactionRoute(path string) bool {
	path = strings.TrimRight(path, "/")
	for _, suffix := range transactionRouteSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// Authenticate verifies the caller's tokens and attaches a token.Principal to
// the request context. Ordinary routes need a bearer session token. On
// transaction routes the query token is required and a bearer token, when
// present, is merged in to supply the role.
// Missing token -> 401, invalid or expired token -> 403.
func Authenticate(tokens *token.Service, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var principal token.Principal

			if isTransactionRoute(r.URL.Path) {
				txToken := r.URL.Query().Get("token")
				if txToken == "" {
					utils.ResponseUnauthorized(w, "Missing transaction token")
					return
				}

				tx, err := tokens.VerifyTransaction(txToken)
				if err != nil {
					rejectToken(w, r, logger, "transaction", err)
					return
				}

				var session *token.SessionClaims
				if r.Header.Get("Authorization") != "" {
					bearer, ok := bearerToken(r)
					if !ok {
						utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
						return
					}
					session, err = tokens.VerifySession(bearer)
					if err != nil {
						rejectToken(w, r, logger, "session", err)
						return
					}
				}

				principal = token.MergePrincipal(tx, session)
			} else {
				if r.Header.Get("Authorization") == "" {
					utils.ResponseUnauthorized(w, "Missing authorization token")
					return
				}
				bearer, ok := bearerToken(r)
				if !ok {
					utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
					return
				}

				session, err := tokens.VerifySession(bearer)
				if err != nil {
					rejectToken(w, r, logger, "session", err)
					return
				}
				principal = token.SessionPrincipal(session)
			}

			ctx := utils.SetPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func rejectToken(w http.ResponseWriter, r *http.Request, logger *zap.Logger, kind string, err error) {
	message := "Invalid token"
	if errors.Is(err, token.ErrExpired) {
		message = "Token expired"
	}

	logger.Warn("Token rejected",
		zap.String("kind", kind),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	utils.ResponseForbidden(w, message)
}

// RequireRole rejects principals whose role differs from role. An empty role
// is an operator mistake and answers 500 rather than blaming the caller.
func RequireRole(role string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if role == "" {
				logger.Error("Role gate mounted without a role", zap.String("path", r.URL.Path))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			principal, ok := utils.GetPrincipal(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if principal.Role != role {
				logger.Warn("Role check failed",
					zap.String("subject_id", principal.SubjectID),
					zap.String("role", principal.Role),
					zap.String("required", role),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, utils.ErrInsufficientPermission.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
