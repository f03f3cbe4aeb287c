package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"loyalty-rewards/internal/data/entity"
	"loyalty-rewards/pkg/database"
	"loyalty-rewards/pkg/utils"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type Repository struct {
	User    UserRepository
	Admin   AdminRepository
	Account AccountRepository
	Menu    MenuRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	users := NewUserRepository(db, log)
	admins := NewAdminRepository(db, log)

	return &Repository{
		User:    users,
		Admin:   admins,
		Account: NewAccountRepository(users, admins),
		Menu:    NewMenuRepository(db, log),
	}
}

const (
	pgUniqueViolation   = "23505"
	pgNumericOutOfRange = "22003"
)

// uniqueViolation turns a username/email constraint failure into the matching
// duplicate error. Uniqueness is checked before writes, this covers the race
// between the check and the insert.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return nil
	}

	switch pgErr.ConstraintName {
	case "users_username_key", "admins_username_key":
		return utils.ErrDuplicateUsername
	case "users_email_key", "admins_email_key":
		return utils.ErrDuplicateEmail
	default:
		return nil
	}
}

// updateCredentials rewrites username, email and password hash of one account
// row in table, which is always a package constant.
func updateCredentials(ctx context.Context, db database.PgxIface, log *zap.Logger, table string, c *entity.Credentials) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET username = $2, email = $3, password = $4, updated_at = $5
		WHERE id = $1
	`, table)

	c.UpdatedAt = time.Now()

	result, err := db.Exec(ctx, query, c.ID, c.Username, c.Email, c.PasswordHash, c.UpdatedAt)
	if err != nil {
		if dup := uniqueViolation(err); dup != nil {
			return dup
		}
		log.Error("Failed to update credentials",
			zap.Error(err),
			zap.String("table", table),
			zap.String("account_id", c.ID.String()),
		)
		return fmt.Errorf("update %s %s: %w", table, c.ID, err)
	}

	if result.RowsAffected() == 0 {
		return utils.ErrAccountNotFound
	}

	return nil
}
