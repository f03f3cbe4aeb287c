package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"loyalty-rewards/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestMenuUpload_RejectsBeforePersisting(t *testing.T) {
	env := newTestEnv()
	admin := uuid.NewString()

	tests := []struct {
		name     string
		uploader string
		file     *utils.UploadedFile
		want     error
	}{
		{"no file", admin, nil, utils.ErrNoFile},
		{"empty file", admin, &utils.UploadedFile{Filename: "menu.png", ContentType: utils.MimePNG}, utils.ErrNoFile},
		{"jpeg", admin, &utils.UploadedFile{Filename: "menu.jpg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8}}, utils.ErrWrongMimeType},
		{"no uploader", "", &utils.UploadedFile{Filename: "menu.png", ContentType: utils.MimePNG, Data: pngBytes}, utils.ErrMissingUploader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.Menu.Upload(context.Background(), tt.uploader, tt.file)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Empty(t, env.store.saved)
	assert.Empty(t, env.menus.menus)
}

func TestMenuGetLatest(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	admin := uuid.NewString()

	_, err := env.service.Menu.GetLatest(ctx)
	assert.ErrorIs(t, err, utils.ErrMenuNotFound)

	first, err := env.service.Menu.Upload(ctx, admin, &utils.UploadedFile{Filename: "first.png", ContentType: utils.MimePNG, Data: pngBytes})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := env.service.Menu.Upload(ctx, admin, &utils.UploadedFile{Filename: "second.png", ContentType: utils.MimePNG, Data: pngBytes})
	require.NoError(t, err)
	assert.NotEqual(t, first.URL, second.URL)

	latest, err := env.service.Menu.GetLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, admin, latest.UploadedBy)
	assert.Len(t, env.store.saved, 2)
}

func TestMenuUpload_StoresAsPNGWhateverTheFilename(t *testing.T) {
	env := newTestEnv()

	resp, err := env.service.Menu.Upload(context.Background(), uuid.NewString(),
		&utils.UploadedFile{Filename: "menu.html", ContentType: utils.MimePNG, Data: pngBytes})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(resp.URL, ".png"), resp.URL)

	require.Len(t, env.store.saved, 1)
	for key := range env.store.saved {
		assert.True(t, strings.HasSuffix(key, ".png"), key)
	}
}
