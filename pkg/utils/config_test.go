package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"JWT_SECRET=from-file\n"+
			"APP_ENV=production\n"+
			"DATABASE_URL_DEV=postgres://dev\n"+
			"DATABASE_URL_PROD=postgres://prod\n"+
			"PUBLIC_URL=https://loyalty.example.com/\n"+
			"CORS_ALLOWED_ORIGINS=https://a.example.com, https://b.example.com\n",
	), 0600))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", config.JWT.Secret)
	assert.Equal(t, "postgres://prod", config.Database.DSN())
	assert.Equal(t, "https://loyalty.example.com", config.App.PublicURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, config.App.CORSOrigins)
	assert.Equal(t, time.Hour, config.JWT.SessionTTL)
	assert.Equal(t, 15*time.Minute, config.JWT.TransactionTTL)
	assert.Equal(t, StorageLocal, config.Storage.Driver)
	assert.False(t, config.Auth.AllowAdminRegistration)
}

func TestLoadConfig_MissingFileUsesEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATABASE_URL_DEV", "postgres://dev")

	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "from-env", config.JWT.Secret)
	assert.Equal(t, "postgres://dev", config.Database.DSN())
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			JWT:     JWTConfig{Secret: "s", SessionTTL: time.Hour, TransactionTTL: time.Minute},
			Storage: StorageConfig{Driver: StorageLocal, UploadDir: "uploads"},
		}
	}

	require.NoError(t, valid().Validate())

	noSecret := valid()
	noSecret.JWT.Secret = ""
	assert.Error(t, noSecret.Validate())

	badDriver := valid()
	badDriver.Storage.Driver = "ftp"
	assert.Error(t, badDriver.Validate())

	s3NoBucket := valid()
	s3NoBucket.Storage.Driver = StorageS3
	assert.Error(t, s3NoBucket.Validate())
}

func TestDSNFallsBackToParts(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", Name: "loyalty", User: "app", Password: "pw"}
	assert.Equal(t, "user=app password=pw dbname=loyalty sslmode=disable host=db port=5432", c.DSN())
}
