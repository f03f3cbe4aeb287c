package usecase

import (
	"context"
	"errors"
	"time"

	"loyalty-rewards/internal/data/repository"
	"loyalty-rewards/internal/dto/response"
	"loyalty-rewards/pkg/metrics"
	"loyalty-rewards/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	BirthdayBonus      = 100
	birthdayWindowDays = 365
)

// LedgerService owns every change to a user's points balance.
type LedgerService interface {
	GetPoints(ctx context.Context, userID uuid.UUID) (int64, error)
	AdjustPoints(ctx context.Context, userID uuid.UUID, delta int64) (int64, error)
	AwardBirthday(ctx context.Context, userID uuid.UUID, birthday time.Time) (*response.BirthdayResponse, error)
}

type ledgerService struct {
	users   repository.UserRepository
	metrics *metrics.Metrics
	now     func() time.Time
	log     *zap.Logger
}

func NewLedgerService(users repository.UserRepository, m *metrics.Metrics, log *zap.Logger) LedgerService {
	return &ledgerService{
		users:   users,
		metrics: m,
		now:     time.Now,
		log:     log.With(zap.String("service", "ledger")),
	}
}

func (s *ledgerService) GetPoints(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.users.GetPoints(ctx, userID)
}

// AdjustPoints rejects, never clamps, a delta that would take the balance
// below zero.
func (s *ledgerService) AdjustPoints(ctx context.Context, userID uuid.UUID, delta int64) (int64, error) {
	points, err := s.users.AdjustPoints(ctx, userID, delta)
	if err != nil {
		if errors.Is(err, utils.ErrNegativeBalance) {
			s.metrics.RecordAdjustment(delta, false)
			s.log.Warn("Adjustment would go negative",
				zap.String("user_id", userID.String()),
				zap.Int64("delta", delta))
		}
		return 0, err
	}

	s.metrics.RecordAdjustment(delta, true)
	s.log.Info("Points adjusted",
		zap.String("user_id", userID.String()),
		zap.Int64("delta", delta),
		zap.Int64("points", points))

	return points, nil
}

// AwardBirthday stores the birthday and grants the bonus when it falls on
// today, at most once per 365 days.
func (s *ledgerService) AwardBirthday(ctx context.Context, userID uuid.UUID, birthday time.Time) (*response.BirthdayResponse, error) {
	if err := s.users.SetBirthday(ctx, userID, birthday); err != nil {
		return nil, err
	}

	today := truncateToDate(s.now().UTC())
	if birthday.Month() == today.Month() && birthday.Day() == today.Day() {
		cutoff := today.AddDate(0, 0, -birthdayWindowDays)
		points, awarded, err := s.users.AwardBirthdayBonus(ctx, userID, BirthdayBonus, today, cutoff)
		if err != nil {
			return nil, err
		}
		if awarded {
			s.metrics.RecordBirthdayAward()
			s.log.Info("Birthday bonus awarded",
				zap.String("user_id", userID.String()),
				zap.Int64("points", points))
			return &response.BirthdayResponse{Awarded: true, Points: points}, nil
		}
	}

	points, err := s.users.GetPoints(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &response.BirthdayResponse{Awarded: false, Points: points}, nil
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
