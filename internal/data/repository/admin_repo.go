package repository

import (
	"context"
	"errors"
	"fmt"

	"loyalty-rewards/internal/data/entity"
	"loyalty-rewards/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AdminRepository interface {
	Create(ctx context.Context, admin *entity.Admin) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Admin, error)
	FindByUsername(ctx context.Context, username string) (*entity.Admin, error)
	FindByEmail(ctx context.Context, email string) (*entity.Admin, error)
	FindByIdentifier(ctx context.Context, identifier string) (*entity.Admin, error)
	UpdateCredentials(ctx context.Context, admin *entity.Admin) error
}

type adminRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAdminRepository(db database.PgxIface, log *zap.Logger) AdminRepository {
	return &adminRepository{
		db:  db,
		log: log.With(zap.String("repository", "admin")),
	}
}

func (r *adminRepository) Create(ctx context.Context, admin *entity.Admin) error {
	query := `
		INSERT INTO admins (id, username, email, password, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		admin.ID,
		admin.Username,
		admin.Email,
		admin.PasswordHash,
		admin.Role,
		admin.CreatedAt,
		admin.UpdatedAt,
	)

	if err != nil {
		if dup := uniqueViolation(err); dup != nil {
			return dup
		}
		r.log.Error("Failed to create admin",
			zap.Error(err),
			zap.String("username", admin.Username),
		)
		return fmt.Errorf("create admin %s: %w", admin.Username, err)
	}

	return nil
}

func (r *adminRepository) findOne(ctx context.Context, where string, arg any) (*entity.Admin, error) {
	query := `
		SELECT id, username, email, password, role, created_at, updated_at
		FROM admins
		WHERE ` + where

	var admin entity.Admin
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&admin.ID,
		&admin.Username,
		&admin.Email,
		&admin.PasswordHash,
		&admin.Role,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find admin", zap.Error(err), zap.String("where", where))
		return nil, fmt.Errorf("find admin where %s: %w", where, err)
	}

	return &admin, nil
}

func (r *adminRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Admin, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *adminRepository) FindByUsername(ctx context.Context, username string) (*entity.Admin, error) {
	return r.findOne(ctx, "username = $1", username)
}

func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*entity.Admin, error) {
	return r.findOne(ctx, "email = $1", email)
}

func (r *adminRepository) FindByIdentifier(ctx context.Context, identifier string) (*entity.Admin, error) {
	return r.findOne(ctx, "(username = $1 OR email = $1) ORDER BY (username = $1) DESC LIMIT 1", identifier)
}

func (r *adminRepository) UpdateCredentials(ctx context.Context, admin *entity.Admin) error {
	return updateCredentials(ctx, r.db, r.log, "admins", &admin.Credentials)
}
