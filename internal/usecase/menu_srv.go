package usecase

import (
	"context"
	"time"

	"loyalty-rewards/internal/data/entity"
	"loyalty-rewards/internal/data/repository"
	"loyalty-rewards/internal/dto/response"
	"loyalty-rewards/pkg/storage"
	"loyalty-rewards/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MenuService interface {
	Upload(ctx context.Context, uploaderID string, file *utils.UploadedFile) (*response.MenuResponse, error)
	GetLatest(ctx context.Context) (*response.MenuResponse, error)
}

type menuService struct {
	menus repository.MenuRepository
	store storage.FileStore
	log   *zap.Logger
}

func NewMenuService(menus repository.MenuRepository, store storage.FileStore, log *zap.Logger) MenuService {
	return &menuService{
		menus: menus,
		store: store,
		log:   log.With(zap.String("service", "menu")),
	}
}

func (s *menuService) Upload(ctx context.Context, uploaderID string, file *utils.UploadedFile) (*response.MenuResponse, error) {
	uploader, err := uuid.Parse(uploaderID)
	if err != nil || uploader == uuid.Nil {
		return nil, utils.ErrMissingUploader
	}
	if file == nil || len(file.Data) == 0 {
		return nil, utils.ErrNoFile
	}
	if file.ContentType != utils.MimePNG {
		return nil, utils.ErrWrongMimeType
	}

	now := time.Now()
	url, err := s.store.Save(ctx, utils.GenerateMenuKey(now), file.ContentType, file.Data)
	if err != nil {
		s.log.Error("Failed to store menu file", zap.Error(err), zap.String("filename", file.Filename))
		return nil, err
	}

	menu := &entity.Menu{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		URL:        url,
		UploadedBy: uploader,
	}
	if err := s.menus.Create(ctx, menu); err != nil {
		return nil, err
	}

	s.log.Info("Menu uploaded",
		zap.String("menu_id", menu.ID.String()),
		zap.String("url", url),
		zap.String("uploaded_by", uploaderID))

	resp := response.MenuToResponse(menu)
	return &resp, nil
}

func (s *menuService) GetLatest(ctx context.Context) (*response.MenuResponse, error) {
	menu, err := s.menus.FindLatest(ctx)
	if err != nil {
		return nil, err
	}
	if menu == nil {
		return nil, utils.ErrMenuNotFound
	}

	resp := response.MenuToResponse(menu)
	return &resp, nil
}
