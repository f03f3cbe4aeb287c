package repository

import (
	"context"
	"fmt"

	"loyalty-rewards/internal/data/entity"

	"github.com/google/uuid"
)

// AccountRepository resolves accounts across both tables, users first.
type AccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (entity.Account, error)
	FindByIdentifier(ctx context.Context, identifier string) (entity.Account, error)
	UpdateCredentials(ctx context.Context, account entity.Account) error
}

type accountRepository struct {
	users  UserRepository
	admins AdminRepository
}

func NewAccountRepository(users UserRepository, admins AdminRepository) AccountRepository {
	return &accountRepository{users: users, admins: admins}
}

// FindByID returns nil, nil when neither table has the id.
func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (entity.Account, error) {
	user, err := r.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	admin, err := r.admins.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if admin != nil {
		return admin, nil
	}

	return nil, nil
}

func (r *accountRepository) FindByIdentifier(ctx context.Context, identifier string) (entity.Account, error) {
	user, err := r.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	admin, err := r.admins.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if admin != nil {
		return admin, nil
	}

	return nil, nil
}

func (r *accountRepository) UpdateCredentials(ctx context.Context, account entity.Account) error {
	switch a := account.(type) {
	case *entity.User:
		return r.users.UpdateCredentials(ctx, a)
	case *entity.Admin:
		return r.admins.UpdateCredentials(ctx, a)
	default:
		return fmt.Errorf("unsupported account type %T", account)
	}
}
