package usecase

import (
	"loyalty-rewards/internal/data/repository"
	"loyalty-rewards/pkg/metrics"
	"loyalty-rewards/pkg/qr"
	"loyalty-rewards/pkg/storage"
	"loyalty-rewards/pkg/token"
	"loyalty-rewards/pkg/utils"

	"go.uber.org/zap"
)

const qrImageSize = 256

type Service struct {
	Auth   AuthService
	User   UserService
	Ledger LedgerService
	QR     QRService
	Menu   MenuService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	tokens *token.Service,
	store storage.FileStore,
	m *metrics.Metrics,
	log *zap.Logger,
) *Service {
	codes := NewCodeMinter(tokens, qr.NewRenderer(qrImageSize), config.App.PublicURL, m)
	ledger := NewLedgerService(repo.User, m, log)

	return &Service{
		Auth:   NewAuthService(repo, config, tokens, codes, log),
		User:   NewUserService(repo, log),
		Ledger: ledger,
		QR:     NewQRService(repo, ledger, codes, log),
		Menu:   NewMenuService(repo.Menu, store, log),
	}
}
