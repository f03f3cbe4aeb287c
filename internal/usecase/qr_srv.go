package usecase

import (
	"context"

	"loyalty-rewards/internal/data/entity"
	"loyalty-rewards/internal/data/repository"
	"loyalty-rewards/internal/dto/response"
	"loyalty-rewards/pkg/token"
	"loyalty-rewards/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QRService drives the transaction code flow: a user issues a code, an admin
// scans it and may then adjust points, which reissues the code.
type QRService interface {
	Issue(ctx context.Context, caller token.Principal, userID string) (*response.QRResponse, error)
	Scan(ctx context.Context, p token.Principal, userID string) (*response.ScanResponse, error)
	Mutate(ctx context.Context, p token.Principal, userID string, delta int64) (*response.ManagePointsResponse, error)
	ViewPoints(ctx context.Context, p token.Principal, userID string) (*response.PointsResponse, error)
}

type qrService struct {
	repo   *repository.Repository
	ledger LedgerService
	codes  *CodeMinter
	log    *zap.Logger
}

func NewQRService(repo *repository.Repository, ledger LedgerService, codes *CodeMinter, log *zap.Logger) QRService {
	return &qrService{
		repo:   repo,
		ledger: ledger,
		codes:  codes,
		log:    log.With(zap.String("service", "qr")),
	}
}

// Issue mints a new manage-points code for the caller's own account.
func (s *qrService) Issue(ctx context.Context, caller token.Principal, userID string) (*response.QRResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, utils.ErrInvalidUserID
	}
	if caller.SubjectID != id.String() {
		s.log.Warn("QR requested for another account",
			zap.String("caller_id", caller.SubjectID),
			zap.String("user_id", userID))
		return nil, utils.ErrInsufficientPermission
	}

	account, err := s.repo.Account.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}
	if account.AccountRole() != entity.RoleUser {
		return nil, utils.ErrQROnlyForUsers
	}

	return s.reissue(ctx, id)
}

// Scan echoes the snapshot signed into the code back to the admin.
func (s *qrService) Scan(ctx context.Context, p token.Principal, userID string) (*response.ScanResponse, error) {
	id, err := s.checkTransaction(p, userID, token.CapabilityManagePoints)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.ErrAccountNotFound
	}

	s.log.Info("Code scanned",
		zap.String("user_id", userID),
		zap.String("admin_id", p.ActingAccountID()),
		zap.Int64("generation", p.Generation))

	return &response.ScanResponse{
		UserID:          id.String(),
		Points:          p.Points,
		GenerationCount: p.Generation,
	}, nil
}

// Mutate applies delta and immediately reissues the user's code so the admin
// and the user never hold a stale snapshot.
func (s *qrService) Mutate(ctx context.Context, p token.Principal, userID string, delta int64) (*response.ManagePointsResponse, error) {
	if p.Session == nil || p.Session.Role != string(entity.RoleAdmin) {
		return nil, utils.ErrInsufficientPermission
	}

	id, err := s.checkTransaction(p, userID, token.CapabilityManagePoints)
	if err != nil {
		return nil, err
	}

	points, err := s.ledger.AdjustPoints(ctx, id, delta)
	if err != nil {
		return nil, err
	}

	code, err := s.reissue(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Info("Points managed",
		zap.String("user_id", userID),
		zap.String("admin_id", p.ActingAccountID()),
		zap.Int64("delta", delta),
		zap.Int64("points", points),
		zap.Int64("generation", code.GenerationCount))

	return &response.ManagePointsResponse{
		UserID:          id.String(),
		Points:          points,
		QRCode:          code.QRCode,
		GenerationCount: code.GenerationCount,
	}, nil
}

// ViewPoints reads the live balance for any transaction code of that user.
func (s *qrService) ViewPoints(ctx context.Context, p token.Principal, userID string) (*response.PointsResponse, error) {
	id, err := s.checkTransaction(p, userID, "")
	if err != nil {
		return nil, err
	}

	points, err := s.ledger.GetPoints(ctx, id)
	if err != nil {
		return nil, err
	}

	return &response.PointsResponse{UserID: id.String(), Points: points}, nil
}

// checkTransaction verifies that p came from a transaction token for userID
// with the required capability. An empty capability accepts any.
func (s *qrService) checkTransaction(p token.Principal, userID string, required token.Capability) (uuid.UUID, error) {
	if p.Transaction == nil {
		return uuid.Nil, utils.ErrInsufficientPermission
	}
	if required != "" && p.Capability != required {
		s.log.Warn("Transaction token lacks capability",
			zap.String("capability", string(p.Capability)),
			zap.String("required", string(required)))
		return uuid.Nil, utils.ErrInsufficientPermission
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, utils.ErrInvalidUserID
	}
	if p.SubjectID != id.String() {
		return uuid.Nil, utils.ErrTokenSubjectMismatch
	}
	return id, nil
}

// reissue bumps the generation and stores a fresh manage-points code.
func (s *qrService) reissue(ctx context.Context, id uuid.UUID) (*response.QRResponse, error) {
	points, generation, err := s.repo.User.NextGeneration(ctx, id)
	if err != nil {
		return nil, err
	}

	qrCode, err := s.codes.Mint(id, points, generation, token.CapabilityManagePoints)
	if err != nil {
		s.log.Error("Failed to render QR code", zap.Error(err), zap.String("user_id", id.String()))
		return nil, err
	}

	if err := s.repo.User.SaveQRCode(ctx, id, qrCode); err != nil {
		return nil, err
	}

	return &response.QRResponse{QRCode: qrCode, GenerationCount: generation}, nil
}
