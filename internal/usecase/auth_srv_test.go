package usecase

import (
	"context"
	"strings"
	"testing"

	"loyalty-rewards/internal/data/entity"
	"loyalty-rewards/internal/dto/request"
	"loyalty-rewards/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerUser(t *testing.T, env *testEnv, username, email, password string) uuid.UUID {
	t.Helper()

	resp, err := env.service.Auth.Register(context.Background(), &request.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)

	id, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	return id
}

func TestRegister_User(t *testing.T) {
	env := newTestEnv()

	id := registerUser(t, env, "  alice  ", "alice@example.com", "secret1")

	user, err := env.users.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, entity.RoleUser, user.Role)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.True(t, user.VerifyPassword("secret1"))
	assert.Equal(t, int64(0), user.Points)
	assert.Equal(t, int64(1), user.QRRetrievalCount)
	require.NotNil(t, user.QRCode)
	assert.True(t, strings.HasPrefix(*user.QRCode, "data:image/png;base64,"))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	env := newTestEnv()
	registerUser(t, env, "alice", "alice@example.com", "secret1")

	_, err := env.service.Auth.Register(context.Background(), &request.RegisterRequest{
		Username: "alice",
		Email:    "ALICE@other.com",
		Password: "different",
	})
	assert.ErrorIs(t, err, utils.ErrDuplicateUsername)
	assert.ErrorIs(t, err, utils.ErrDuplicate)
}

func TestRegister_CheckOrder(t *testing.T) {
	env := newTestEnv()
	registerUser(t, env, "alice", "alice@example.com", "secret1")

	tests := []struct {
		name string
		req  request.RegisterRequest
		want error
	}{
		{"missing email", request.RegisterRequest{Username: "bob", Password: "secret1"}, utils.ErrMissingFields},
		{"blank username", request.RegisterRequest{Username: "   ", Email: "b@example.com", Password: "secret1"}, utils.ErrMissingFields},
		{"username before email", request.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "x"}, utils.ErrDuplicateUsername},
		{"email before password", request.RegisterRequest{Username: "bobby", Email: "alice@example.com", Password: "x"}, utils.ErrDuplicateEmail},
		{"short password", request.RegisterRequest{Username: "bobby", Email: "bob@example.com", Password: "12345"}, utils.ErrInvalidPasswordLength},
		{"long password", request.RegisterRequest{Username: "bobby", Email: "bob@example.com", Password: strings.Repeat("p", 129)}, utils.ErrInvalidPasswordLength},
		{"short username", request.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "secret1"}, utils.ErrValidation},
		{"bad email", request.RegisterRequest{Username: "bobby", Email: "not-an-email", Password: "secret1"}, utils.ErrValidation},
		{"unknown role", request.RegisterRequest{Username: "bobby", Email: "bob@example.com", Password: "secret1", Role: "owner"}, utils.ErrInvalidRole},
		{"admin registration off", request.RegisterRequest{Username: "bobby", Email: "bob@example.com", Password: "secret1", Role: "admin"}, utils.ErrAdminRegistrationOff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := env.service.Auth.Register(context.Background(), &req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRegister_AdminWhenAllowed(t *testing.T) {
	env := newTestEnv()
	env.config.Auth.AllowAdminRegistration = true

	resp, err := env.service.Auth.Register(context.Background(), &request.RegisterRequest{
		Username: "manager",
		Email:    "manager@example.com",
		Password: "secret1",
		Role:     "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, resp.Role)
	assert.Nil(t, resp.Points)
	assert.Nil(t, resp.QRCode)

	admin, err := env.admins.FindByUsername(context.Background(), "manager")
	require.NoError(t, err)
	assert.NotNil(t, admin)
}

func TestLogin(t *testing.T) {
	env := newTestEnv()
	registerUser(t, env, "alice", "alice@example.com", "secret1")
	require.NoError(t, env.service.Auth.EnsureAdmin(context.Background(), "manager", "manager@example.com", "secret1"))

	t.Run("user by email gets a view code", func(t *testing.T) {
		resp, err := env.service.Auth.Login(context.Background(), &request.LoginRequest{
			Identifier: "alice@example.com",
			Password:   "secret1",
		})
		require.NoError(t, err)
		assert.Equal(t, entity.RoleUser, resp.Role)
		require.NotNil(t, resp.QRCode)

		claims, err := env.tokens.VerifySession(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, resp.AccountID, claims.AccountID)
		assert.Equal(t, "user", claims.Role)
	})

	t.Run("admin gets no code", func(t *testing.T) {
		resp, err := env.service.Auth.Login(context.Background(), &request.LoginRequest{
			Identifier: "manager",
			Password:   "secret1",
		})
		require.NoError(t, err)
		assert.Equal(t, entity.RoleAdmin, resp.Role)
		assert.Nil(t, resp.QRCode)
	})

	t.Run("no account oracle", func(t *testing.T) {
		_, wrongPassword := env.service.Auth.Login(context.Background(), &request.LoginRequest{
			Identifier: "alice",
			Password:   "wrong-password",
		})
		_, unknown := env.service.Auth.Login(context.Background(), &request.LoginRequest{
			Identifier: "nobody",
			Password:   "secret1",
		})
		assert.ErrorIs(t, wrongPassword, utils.ErrInvalidCredentials)
		assert.ErrorIs(t, unknown, utils.ErrInvalidCredentials)
		assert.Equal(t, wrongPassword.Error(), unknown.Error())
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := env.service.Auth.Login(context.Background(), &request.LoginRequest{Identifier: "alice"})
		assert.ErrorIs(t, err, utils.ErrMissingCredentials)
	})
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	env := newTestEnv()

	require.NoError(t, env.service.Auth.EnsureAdmin(context.Background(), "manager", "manager@example.com", "secret1"))
	require.NoError(t, env.service.Auth.EnsureAdmin(context.Background(), "manager", "manager@example.com", "secret1"))

	assert.Len(t, env.admins.byID, 1)
}
