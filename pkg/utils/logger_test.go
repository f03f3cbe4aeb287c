package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_ErrorSink(t *testing.T) {
	dir := t.TempDir()

	logger, err := InitLogger(dir, false)
	require.NoError(t, err)

	logger.Info("points adjusted")
	logger.Error("adjust points failed")

	app, err := os.ReadFile(filepath.Join(dir, "loyalty-rewards.log"))
	require.NoError(t, err)
	assert.Contains(t, string(app), "points adjusted")
	assert.Contains(t, string(app), "adjust points failed")

	errs, err := os.ReadFile(filepath.Join(dir, "error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errs), "adjust points failed")
	assert.NotContains(t, string(errs), "points adjusted")
}
