package usecase

import (
	"context"
	"fmt"
	"strings"

	"loyalty-rewards/internal/data/entity"
	"loyalty-rewards/internal/data/repository"
	"loyalty-rewards/internal/dto/request"
	"loyalty-rewards/internal/dto/response"
	"loyalty-rewards/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, accountID string) (*response.AccountResponse, error)
	UpdateInformation(ctx context.Context, accountID string, req *request.UpdateRequest) (*response.AccountResponse, error)
}

type userService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		log:  log.With(zap.String("service", "user")),
	}
}

func (us *userService) findAccount(ctx context.Context, accountID string) (entity.Account, error) {
	id, err := uuid.Parse(accountID)
	if err != nil {
		us.log.Warn("Invalid account ID", zap.String("account_id", accountID), zap.Error(err))
		return nil, utils.ErrInvalidUserID
	}

	account, err := us.repo.Account.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}
	return account, nil
}

func (us *userService) GetProfile(ctx context.Context, accountID string) (*response.AccountResponse, error) {
	account, err := us.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	resp := response.AccountToResponse(account)
	return &resp, nil
}

// UpdateInformation applies the registration field rules to whatever the
// caller changes, after re-checking the current password.
func (us *userService) UpdateInformation(ctx context.Context, accountID string, req *request.UpdateRequest) (*response.AccountResponse, error) {
	if req.OldPassword == "" {
		return nil, utils.ErrOldPasswordRequired
	}

	account, err := us.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.VerifyPassword(req.OldPassword) {
		us.log.Warn("Old password mismatch on update", zap.String("account_id", accountID))
		return nil, utils.ErrOldPasswordIncorrect
	}

	creds := account.Creds()
	var newUsername, newEmail string
	if req.Username != nil {
		if u := strings.TrimSpace(*req.Username); u != creds.Username {
			newUsername = u
		}
	}
	if req.Email != nil {
		if e := strings.TrimSpace(*req.Email); e != creds.Email {
			newEmail = e
		}
	}

	if err := checkAvailable(ctx, us.repo, creds.Role, creds.ID, newUsername, newEmail); err != nil {
		return nil, err
	}

	if req.Password != nil {
		if err := checkPasswordLength(*req.Password); err != nil {
			return nil, err
		}
	}

	if newUsername != "" {
		creds.Username = newUsername
	}
	if newEmail != "" {
		creds.Email = newEmail
	}
	if errs := utils.ValidateStruct(request.AccountFields{Username: creds.Username, Email: creds.Email}); len(errs) > 0 {
		us.log.Warn("Update validation failed", zap.Any("errors", errs))
		return nil, utils.ValidationError(errs)
	}

	if req.Password != nil {
		hashed, err := utils.HashPassword(*req.Password)
		if err != nil {
			us.log.Error("Failed to hash password", zap.Error(err))
			return nil, fmt.Errorf("hash password: %w", err)
		}
		creds.PasswordHash = hashed
	}

	if err := us.repo.Account.UpdateCredentials(ctx, account); err != nil {
		return nil, err
	}

	us.log.Info("Account information updated",
		zap.String("account_id", accountID),
		zap.Bool("username_changed", newUsername != ""),
		zap.Bool("email_changed", newEmail != ""),
		zap.Bool("password_changed", req.Password != nil),
	)

	resp := response.AccountToResponse(account)
	return &resp, nil
}
