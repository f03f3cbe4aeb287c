package repository

import (
	"context"
	"errors"
	"fmt"

	"loyalty-rewards/internal/data/entity"
	"loyalty-rewards/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MenuRepository interface {
	Create(ctx context.Context, menu *entity.Menu) error
	FindLatest(ctx context.Context) (*entity.Menu, error)
}

type menuRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMenuRepository(db database.PgxIface, log *zap.Logger) MenuRepository {
	return &menuRepository{
		db:  db,
		log: log.With(zap.String("repository", "menu")),
	}
}

func (r *menuRepository) Create(ctx context.Context, menu *entity.Menu) error {
	query := `
		INSERT INTO menus (id, url, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query, menu.ID, menu.URL, menu.UploadedBy, menu.CreatedAt)
	if err != nil {
		r.log.Error("Failed to create menu",
			zap.Error(err),
			zap.String("url", menu.URL),
			zap.String("uploaded_by", menu.UploadedBy.String()),
		)
		return fmt.Errorf("create menu %s: %w", menu.ID, err)
	}

	return nil
}

// FindLatest returns the newest menu, or nil when none was uploaded yet.
func (r *menuRepository) FindLatest(ctx context.Context) (*entity.Menu, error) {
	query := `
		SELECT id, url, uploaded_by, created_at
		FROM menus
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var menu entity.Menu
	err := r.db.QueryRow(ctx, query).Scan(&menu.ID, &menu.URL, &menu.UploadedBy, &menu.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find latest menu", zap.Error(err))
		return nil, fmt.Errorf("find latest menu: %w", err)
	}

	return &menu, nil
}
