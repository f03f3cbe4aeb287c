package usecase

import (
	"context"
	"sync"
	"time"

	"loyalty-rewards/internal/data/entity"
	"loyalty-rewards/internal/data/repository"
	"loyalty-rewards/pkg/metrics"
	"loyalty-rewards/pkg/qr"
	"loyalty-rewards/pkg/token"
	"loyalty-rewards/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory repositories with the same not-found and conflict behaviour as
// the SQL ones.

type fakeUsers struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]entity.User
	saves int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: make(map[uuid.UUID]entity.User)}
}

func (f *fakeUsers) Create(_ context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Username == user.Username {
			return utils.ErrDuplicateUsername
		}
		if u.Email == user.Email {
			return utils.ErrDuplicateEmail
		}
	}
	f.byID[user.ID] = *user
	return nil
}

func (f *fakeUsers) find(match func(entity.User) bool) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return f.find(func(u entity.User) bool { return u.ID == id })
}

func (f *fakeUsers) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return f.find(func(u entity.User) bool { return u.Username == username })
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return f.find(func(u entity.User) bool { return u.Email == email })
}

func (f *fakeUsers) FindByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	if u, _ := f.FindByUsername(ctx, identifier); u != nil {
		return u, nil
	}
	return f.FindByEmail(ctx, identifier)
}

func (f *fakeUsers) UpdateCredentials(_ context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.byID[user.ID]
	if !ok {
		return utils.ErrAccountNotFound
	}
	stored.Credentials = user.Credentials
	f.byID[user.ID] = stored
	return nil
}

func (f *fakeUsers) update(id uuid.UUID, fn func(*entity.User) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return utils.ErrAccountNotFound
	}
	if err := fn(&u); err != nil {
		return err
	}
	f.byID[id] = u
	return nil
}

func (f *fakeUsers) GetPoints(_ context.Context, id uuid.UUID) (int64, error) {
	var points int64
	err := f.update(id, func(u *entity.User) error { points = u.Points; return nil })
	return points, err
}

func (f *fakeUsers) AdjustPoints(_ context.Context, id uuid.UUID, delta int64) (int64, error) {
	var points int64
	err := f.update(id, func(u *entity.User) error {
		if u.Points+delta < 0 {
			return utils.ErrNegativeBalance
		}
		u.Points += delta
		points = u.Points
		return nil
	})
	return points, err
}

func (f *fakeUsers) NextGeneration(_ context.Context, id uuid.UUID) (int64, int64, error) {
	var points, generation int64
	err := f.update(id, func(u *entity.User) error {
		u.QRRetrievalCount++
		points, generation = u.Points, u.QRRetrievalCount
		return nil
	})
	return points, generation, err
}

func (f *fakeUsers) SaveQRCode(_ context.Context, id uuid.UUID, qrCode string) error {
	return f.update(id, func(u *entity.User) error {
		u.QRCode = &qrCode
		f.saves++
		return nil
	})
}

func (f *fakeUsers) SetBirthday(_ context.Context, id uuid.UUID, birthday time.Time) error {
	return f.update(id, func(u *entity.User) error { u.Birthday = &birthday; return nil })
}

func (f *fakeUsers) AwardBirthdayBonus(_ context.Context, id uuid.UUID, bonus int64, today, cutoff time.Time) (int64, bool, error) {
	var points int64
	var awarded bool
	err := f.update(id, func(u *entity.User) error {
		if u.LastBirthdayAward != nil && u.LastBirthdayAward.After(cutoff) {
			return nil
		}
		u.Points += bonus
		u.LastBirthdayAward = &today
		points, awarded = u.Points, true
		return nil
	})
	return points, awarded, err
}

type fakeAdmins struct {
	mu   sync.Mutex
	byID map[uuid.UUID]entity.Admin
}

func newFakeAdmins() *fakeAdmins {
	return &fakeAdmins{byID: make(map[uuid.UUID]entity.Admin)}
}

func (f *fakeAdmins) Create(_ context.Context, admin *entity.Admin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Username == admin.Username {
			return utils.ErrDuplicateUsername
		}
	}
	f.byID[admin.ID] = *admin
	return nil
}

func (f *fakeAdmins) find(match func(entity.Admin) bool) (*entity.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if match(a) {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeAdmins) FindByID(_ context.Context, id uuid.UUID) (*entity.Admin, error) {
	return f.find(func(a entity.Admin) bool { return a.ID == id })
}

func (f *fakeAdmins) FindByUsername(_ context.Context, username string) (*entity.Admin, error) {
	return f.find(func(a entity.Admin) bool { return a.Username == username })
}

func (f *fakeAdmins) FindByEmail(_ context.Context, email string) (*entity.Admin, error) {
	return f.find(func(a entity.Admin) bool { return a.Email == email })
}

func (f *fakeAdmins) FindByIdentifier(_ context.Context, identifier string) (*entity.Admin, error) {
	return f.find(func(a entity.Admin) bool { return a.Username == identifier || a.Email == identifier })
}

func (f *fakeAdmins) UpdateCredentials(_ context.Context, admin *entity.Admin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[admin.ID]; !ok {
		return utils.ErrAccountNotFound
	}
	f.byID[admin.ID] = *admin
	return nil
}

type fakeMenus struct {
	mu    sync.Mutex
	menus []entity.Menu
}

func (f *fakeMenus) Create(_ context.Context, menu *entity.Menu) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.menus = append(f.menus, *menu)
	return nil
}

func (f *fakeMenus) FindLatest(_ context.Context) (*entity.Menu, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *entity.Menu
	for i := range f.menus {
		if latest == nil || !f.menus[i].CreatedAt.Before(latest.CreatedAt) {
			latest = &f.menus[i]
		}
	}
	if latest == nil {
		return nil, nil
	}
	found := *latest
	return &found, nil
}

type fakeStore struct {
	mu    sync.Mutex
	saved map[string][]byte
}

func (f *fakeStore) Save(_ context.Context, key, _ string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saved == nil {
		f.saved = make(map[string][]byte)
	}
	f.saved[key] = data
	return "/uploads/" + key, nil
}

type testEnv struct {
	users   *fakeUsers
	admins  *fakeAdmins
	menus   *fakeMenus
	store   *fakeStore
	tokens  *token.Service
	config  *utils.Config
	repo    *repository.Repository
	service *Service
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:  newFakeUsers(),
		admins: newFakeAdmins(),
		menus:  &fakeMenus{},
		store:  &fakeStore{},
		tokens: token.NewService("test-secret", time.Hour, 15*time.Minute),
		config: &utils.Config{
			App: utils.AppConfig{PublicURL: "http://loyalty.test"},
		},
	}
	env.repo = &repository.Repository{
		User:    env.users,
		Admin:   env.admins,
		Account: repository.NewAccountRepository(env.users, env.admins),
		Menu:    env.menus,
	}
	env.service = NewService(env.repo, env.config, env.tokens, env.store, metrics.New(), zap.NewNop())
	return env
}

func (env *testEnv) minter() *CodeMinter {
	return NewCodeMinter(env.tokens, qr.NewRenderer(64), env.config.App.PublicURL, metrics.New())
}
