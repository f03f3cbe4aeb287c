package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"loyalty-rewards/internal/data/entity"
	"loyalty-rewards/pkg/database"
	"loyalty-rewards/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByIdentifier(ctx context.Context, identifier string) (*entity.User, error)
	UpdateCredentials(ctx context.Context, user *entity.User) error

	// Ledger queries. Each one is a single conditional statement.
	GetPoints(ctx context.Context, id uuid.UUID) (int64, error)
	AdjustPoints(ctx context.Context, id uuid.UUID, delta int64) (int64, error)
	NextGeneration(ctx context.Context, id uuid.UUID) (points int64, generation int64, err error)
	SaveQRCode(ctx context.Context, id uuid.UUID, qrCode string) error
	SetBirthday(ctx context.Context, id uuid.UUID, birthday time.Time) error
	AwardBirthdayBonus(ctx context.Context, id uuid.UUID, bonus int64, today, cutoff time.Time) (int64, bool, error)
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `id, username, email, password, role, points, qr_code,
		       qr_retrieval_count, birthday, last_birthday_award, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Points,
		&user.QRCode,
		&user.QRRetrievalCount,
		&user.Birthday,
		&user.LastBirthdayAward,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user record into the database
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, username, email, password, role, points, qr_code,
		                   qr_retrieval_count, birthday, last_birthday_award, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Points,
		user.QRCode,
		user.QRRetrievalCount,
		user.Birthday,
		user.LastBirthdayAward,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if dup := uniqueViolation(err); dup != nil {
			return dup
		}
		r.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
			zap.String("username", user.Username),
		)
		return fmt.Errorf("create user %s: %w", user.Username, err)
	}

	return nil
}

func (r *userRepository) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where

	user, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find user", zap.Error(err), zap.String("where", where))
		return nil, fmt.Errorf("find user where %s: %w", where, err)
	}

	return user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, "username = $1", username)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "email = $1", email)
}

// FindByIdentifier matches either username or email.
func (r *userRepository) FindByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	return r.findOne(ctx, "(username = $1 OR email = $1) ORDER BY (username = $1) DESC LIMIT 1", identifier)
}

func (r *userRepository) UpdateCredentials(ctx context.Context, user *entity.User) error {
	return updateCredentials(ctx, r.db, r.log, "users", &user.Credentials)
}

func (r *userRepository) GetPoints(ctx context.Context, id uuid.UUID) (int64, error) {
	var points int64
	err := r.db.QueryRow(ctx, `SELECT points FROM users WHERE id = $1`, id).Scan(&points)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, utils.ErrAccountNotFound
	}
	if err != nil {
		r.log.Error("Failed to get points", zap.Error(err), zap.String("user_id", id.String()))
		return 0, fmt.Errorf("get points %s: %w", id, err)
	}
	return points, nil
}

// AdjustPoints applies delta only when the result stays non-negative. The
// check and the write happen in one statement so concurrent scans of the same
// account cannot lose updates.
func (r *userRepository) AdjustPoints(ctx context.Context, id uuid.UUID, delta int64) (int64, error) {
	query := `
		UPDATE users
		SET points = points + $2, updated_at = NOW()
		WHERE id = $1 AND points + $2 >= 0
		RETURNING points
	`

	var points int64
	err := r.db.QueryRow(ctx, query, id, delta).Scan(&points)
	if err == nil {
		return points, nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgNumericOutOfRange {
		return 0, utils.ErrPointsOutOfRange
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.log.Error("Failed to adjust points",
			zap.Error(err),
			zap.String("user_id", id.String()),
			zap.Int64("delta", delta),
		)
		return 0, fmt.Errorf("adjust points %s by %d: %w", id, delta, err)
	}

	// nothing updated: either no such user or the balance would go negative
	exists, err := r.exists(ctx, id)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, utils.ErrAccountNotFound
	}
	return 0, utils.ErrNegativeBalance
}

// NextGeneration bumps the QR retrieval counter and returns it together with
// the balance it was bumped against.
func (r *userRepository) NextGeneration(ctx context.Context, id uuid.UUID) (int64, int64, error) {
	query := `
		UPDATE users
		SET qr_retrieval_count = qr_retrieval_count + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING points, qr_retrieval_count
	`

	var points, generation int64
	err := r.db.QueryRow(ctx, query, id).Scan(&points, &generation)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, utils.ErrAccountNotFound
	}
	if err != nil {
		r.log.Error("Failed to bump QR generation", zap.Error(err), zap.String("user_id", id.String()))
		return 0, 0, fmt.Errorf("next generation %s: %w", id, err)
	}

	return points, generation, nil
}

func (r *userRepository) SaveQRCode(ctx context.Context, id uuid.UUID, qrCode string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE users SET qr_code = $2, updated_at = NOW() WHERE id = $1`, id, qrCode)
	if err != nil {
		r.log.Error("Failed to save QR code", zap.Error(err), zap.String("user_id", id.String()))
		return fmt.Errorf("save qr code %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return utils.ErrAccountNotFound
	}
	return nil
}

func (r *userRepository) SetBirthday(ctx context.Context, id uuid.UUID, birthday time.Time) error {
	result, err := r.db.Exec(ctx,
		`UPDATE users SET birthday = $2, updated_at = NOW() WHERE id = $1`, id, birthday)
	if err != nil {
		r.log.Error("Failed to set birthday", zap.Error(err), zap.String("user_id", id.String()))
		return fmt.Errorf("set birthday %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return utils.ErrAccountNotFound
	}
	return nil
}

// AwardBirthdayBonus credits bonus unless an award was already made after
// cutoff. The bool reports whether this call granted it.
func (r *userRepository) AwardBirthdayBonus(ctx context.Context, id uuid.UUID, bonus int64, today, cutoff time.Time) (int64, bool, error) {
	query := `
		UPDATE users
		SET points = points + $2, last_birthday_award = $3, updated_at = NOW()
		WHERE id = $1 AND (last_birthday_award IS NULL OR last_birthday_award <= $4)
		RETURNING points
	`

	var points int64
	err := r.db.QueryRow(ctx, query, id, bonus, today, cutoff).Scan(&points)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		r.log.Error("Failed to award birthday bonus", zap.Error(err), zap.String("user_id", id.String()))
		return 0, false, fmt.Errorf("award birthday %s: %w", id, err)
	}

	return points, true, nil
}

func (r *userRepository) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user %s exists: %w", id, err)
	}
	return exists, nil
}
