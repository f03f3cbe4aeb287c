package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"loyalty-rewards/internal/data/entity"
	"loyalty-rewards/internal/data/repository"
	"loyalty-rewards/internal/dto/request"
	"loyalty-rewards/internal/dto/response"
	"loyalty-rewards/pkg/token"
	"loyalty-rewards/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 128
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AccountResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	EnsureAdmin(ctx context.Context, username, email, password string) error
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	tokens *token.Service
	codes  *CodeMinter
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	tokens *token.Service,
	codes *CodeMinter,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		tokens: tokens,
		codes:  codes,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AccountResponse, error) {
	role := entity.RoleUser
	if req.Role != "" {
		role = entity.UserRole(req.Role)
	}
	if !role.Valid() {
		return nil, utils.ErrInvalidRole
	}
	if role == entity.RoleAdmin && !s.config.Auth.AllowAdminRegistration {
		s.log.Warn("Admin self-registration refused", zap.String("username", req.Username))
		return nil, utils.ErrAdminRegistrationOff
	}

	account, err := s.createAccount(ctx, req.Username, req.Email, req.Password, role)
	if err != nil {
		return nil, err
	}

	resp := response.AccountToResponse(account)
	return &resp, nil
}

// createAccount runs the registration checks in a fixed order so the same
// input always produces the same error: missing fields, duplicate username,
// duplicate email, password length, then field formats.
func (s *authService) createAccount(ctx context.Context, username, email, password string, role entity.UserRole) (entity.Account, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	// 1. Required fields
	if username == "" || email == "" || password == "" {
		return nil, utils.ErrMissingFields
	}

	// 2. Uniqueness, username first
	if err := checkAvailable(ctx, s.repo, role, uuid.Nil, username, email); err != nil {
		return nil, err
	}

	// 3. Password length
	if err := checkPasswordLength(password); err != nil {
		return nil, err
	}

	// 4. Field formats
	if errs := utils.ValidateStruct(request.AccountFields{Username: username, Email: email}); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, utils.ValidationError(errs)
	}

	// 5. Hash password
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	creds := entity.Credentials{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
	}

	if role == entity.RoleAdmin {
		admin := &entity.Admin{Credentials: creds}
		if err := s.repo.Admin.Create(ctx, admin); err != nil {
			return nil, err
		}
		s.log.Info("Admin registered", zap.String("admin_id", admin.ID.String()), zap.String("username", username))
		return admin, nil
	}

	// 6. New users get a scannable code straight away, as generation 1
	user := &entity.User{
		Credentials:      creds,
		Points:           0,
		QRRetrievalCount: 1,
	}
	qrCode, err := s.codes.Mint(user.ID, user.Points, user.QRRetrievalCount, token.CapabilityManagePoints)
	if err != nil {
		s.log.Error("Failed to provision QR code", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, err
	}
	user.QRCode = &qrCode

	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return user, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	// 1. Validasi
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" || req.Password == "" {
		return nil, utils.ErrMissingCredentials
	}

	// 2. Users first, then admins
	account, err := s.repo.Account.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	// 3. Same error for unknown account and wrong password
	if account == nil {
		s.log.Warn("Account not found for login", zap.String("identifier", identifier))
		return nil, utils.ErrInvalidCredentials
	}
	if !account.VerifyPassword(req.Password) {
		s.log.Warn("Invalid password", zap.String("account_id", account.AccountID().String()))
		return nil, utils.ErrInvalidCredentials
	}

	// 4. Session token
	accountID := account.AccountID()
	signed, expiresAt, err := s.tokens.IssueSession(accountID.String(), string(account.AccountRole()))
	if err != nil {
		s.log.Error("Failed to issue session token", zap.Error(err), zap.String("account_id", accountID.String()))
		return nil, err
	}

	resp := &response.AuthResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		AccountID: accountID.String(),
		Username:  account.Creds().Username,
		Role:      account.AccountRole(),
	}

	// 5. Users also get a read-only code for their points screen
	if user, ok := account.(*entity.User); ok {
		qrCode, err := s.codes.Mint(user.ID, user.Points, user.QRRetrievalCount, token.CapabilityView)
		if err != nil {
			s.log.Error("Failed to render view code", zap.Error(err), zap.String("user_id", user.ID.String()))
			return nil, err
		}
		resp.QRCode = &qrCode
	}

	s.log.Info("Account logged in",
		zap.String("account_id", accountID.String()),
		zap.String("role", string(account.AccountRole())))

	return resp, nil
}

// EnsureAdmin creates the seed admin unless an admin with that username
// already exists.
func (s *authService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	existing, err := s.repo.Admin.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return err
	}
	if existing != nil {
		s.log.Debug("Seed admin already present", zap.String("username", username))
		return nil
	}

	if _, err := s.createAccount(ctx, username, email, password, entity.RoleAdmin); err != nil {
		return fmt.Errorf("seed admin %s: %w", username, err)
	}
	return nil
}

// ==================== HELPERS ====================

func checkPasswordLength(password string) error {
	n := utf8.RuneCountInString(password)
	if n < minPasswordLength || n > maxPasswordLength {
		return utils.ErrInvalidPasswordLength
	}
	return nil
}

// checkAvailable reports a duplicate when another account in the role's own
// collection already holds username or email. self is skipped so an update
// may keep its current values. Empty values are not checked.
func checkAvailable(ctx context.Context, repo *repository.Repository, role entity.UserRole, self uuid.UUID, username, email string) error {
	if username != "" {
		owner, err := findOwner(ctx, repo, role, username, true)
		if err != nil {
			return err
		}
		if owner != uuid.Nil && owner != self {
			return utils.ErrDuplicateUsername
		}
	}

	if email != "" {
		owner, err := findOwner(ctx, repo, role, email, false)
		if err != nil {
			return err
		}
		if owner != uuid.Nil && owner != self {
			return utils.ErrDuplicateEmail
		}
	}

	return nil
}

// findOwner returns the id of the account holding value, or uuid.Nil.
func findOwner(ctx context.Context, repo *repository.Repository, role entity.UserRole, value string, byUsername bool) (uuid.UUID, error) {
	if role == entity.RoleAdmin {
		find := repo.Admin.FindByEmail
		if byUsername {
			find = repo.Admin.FindByUsername
		}
		admin, err := find(ctx, value)
		if err != nil || admin == nil {
			return uuid.Nil, err
		}
		return admin.ID, nil
	}

	find := repo.User.FindByEmail
	if byUsername {
		find = repo.User.FindByUsername
	}
	user, err := find(ctx, value)
	if err != nil || user == nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}
