package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"loyalty-rewards/pkg/token"
	"loyalty-rewards/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "middleware-test-secret"

type captured struct {
	called    bool
	principal token.Principal
}

func (c *captured) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.called = true
		c.principal, _ = utils.GetPrincipal(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestAuthenticate_Session(t *testing.T) {
	tokens := token.NewService(testSecret, time.Hour, 15*time.Minute)
	session, _, err := tokens.IssueSession("user-1", "user")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{"missing", "", http.StatusUnauthorized, "Missing authorization token"},
		{"bad scheme", "Token " + session, http.StatusUnauthorized, "Invalid token format. Use: Bearer <token>"},
		{"garbage", "Bearer not.a.jwt", http.StatusForbidden, "Invalid token"},
		{"valid", "Bearer " + session, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c captured
			h := Authenticate(tokens, zap.NewNop())(c.handler())

			req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				assert.False(t, c.called)
				assert.Equal(t, tt.wantMsg, decodeMessage(t, rec))
				return
			}
			assert.Equal(t, "user-1", c.principal.SubjectID)
			assert.Equal(t, "user", c.principal.Role)
		})
	}
}

func TestAuthenticate_ExpiredVsInvalid(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	tokens := token.NewService(testSecret, time.Hour, 15*time.Minute, token.WithClock(func() time.Time { return clock() }))

	tx, err := tokens.IssueTransaction("user-1", 50, 2, token.CapabilityManagePoints)
	require.NoError(t, err)

	clock = func() time.Time { return now.Add(16 * time.Minute) }

	h := Authenticate(tokens, zap.NewNop())(http.NotFoundHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/user-1/manage-points?token="+tx, nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Token expired", decodeMessage(t, rec))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/user-1/manage-points?token="+tx+"x", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Invalid token", decodeMessage(t, rec))
}

func TestAuthenticate_MergesDualTokens(t *testing.T) {
	tokens := token.NewService(testSecret, time.Hour, 15*time.Minute)
	tx, err := tokens.IssueTransaction("user-1", 50, 2, token.CapabilityManagePoints)
	require.NoError(t, err)
	adminSession, _, err := tokens.IssueSession("admin-9", "admin")
	require.NoError(t, err)

	var c captured
	h := Authenticate(tokens, zap.NewNop())(c.handler())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/user-1/manage-points?token="+tx, nil)
	req.Header.Set("Authorization", "Bearer "+adminSession)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", c.principal.SubjectID)
	assert.Equal(t, "admin", c.principal.Role)
	assert.Equal(t, "admin-9", c.principal.ActingAccountID())
	assert.Equal(t, token.CapabilityManagePoints, c.principal.Capability)
	assert.Equal(t, int64(50), c.principal.Points)
	assert.Equal(t, int64(2), c.principal.Generation)
}

func TestAuthenticate_TransactionRouteNeedsQueryToken(t *testing.T) {
	tokens := token.NewService(testSecret, time.Hour, 15*time.Minute)
	adminSession, _, err := tokens.IssueSession("admin-9", "admin")
	require.NoError(t, err)

	var c captured
	h := Authenticate(tokens, zap.NewNop())(c.handler())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/user-1/manage-points", nil)
	req.Header.Set("Authorization", "Bearer "+adminSession)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, c.called)
}

func TestAuthenticate_SessionTokenInQueryRejected(t *testing.T) {
	tokens := token.NewService(testSecret, time.Hour, 15*time.Minute)
	session, _, err := tokens.IssueSession("user-1", "admin")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	Authenticate(tokens, zap.NewNop())(http.NotFoundHandler()).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/user-1/points?token="+session, nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole(t *testing.T) {
	withPrincipal := func(p token.Principal) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/menu/upload", nil)
		return req.WithContext(utils.SetPrincipal(req.Context(), p))
	}

	tests := []struct {
		name       string
		role       string
		req        *http.Request
		wantStatus int
	}{
		{"matching role", "admin", withPrincipal(token.Principal{SubjectID: "a", Role: "admin"}), http.StatusOK},
		{"wrong role", "admin", withPrincipal(token.Principal{SubjectID: "u", Role: "user"}), http.StatusForbidden},
		{"merged without session", "admin", withPrincipal(token.Principal{SubjectID: "u"}), http.StatusForbidden},
		{"no principal", "admin", httptest.NewRequest(http.MethodGet, "/", nil), http.StatusUnauthorized},
		{"role not configured", "", withPrincipal(token.Principal{SubjectID: "a", Role: "admin"}), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c captured
			rec := httptest.NewRecorder()
			RequireRole(tt.role, zap.NewNop())(c.handler()).ServeHTTP(rec, tt.req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, c.called)
		})
	}
}
