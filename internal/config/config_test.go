package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "host=localhost dbname=games")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBType)
	assert.Equal(t, "host=localhost dbname=games", cfg.DatabaseURL)
	assert.Equal(t, 10, cfg.DBMaxOpenConns)
	assert.Equal(t, 5, cfg.DBMaxIdleConns)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.True(t, cfg.SeedReferenceData)
	assert.True(t, cfg.DetailIncludePlatforms)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	env := "DB_TYPE=sqlite\nDATABASE_URL=games.db\nPORT=9090\nSEED_REFERENCE_DATA=false\nCORS_ALLOW_ORIGINS=http://a.test,http://b.test\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, "games.db", cfg.DatabaseURL)
	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.SeedReferenceData)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowOrigins)
	assert.Equal(t, filepath.Join(dir, ".env"), cfg.ConfigFile)
}

func TestEnvironmentOverridesEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_URL=file.db\nPORT=9090\n"), 0o600))
	t.Setenv("PORT", "7070")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "file.db", cfg.DatabaseURL)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load(t.TempDir())
	assert.EqualError(t, err, "DATABASE_URL is required")
}

func TestValidateRejectsUnknownDBType(t *testing.T) {
	cfg := &Config{Port: "8080", DBType: "oracle", DatabaseURL: "x"}
	assert.EqualError(t, cfg.Validate(), `unsupported DB_TYPE "oracle"`)
}
