package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-crawler-client/internal/config"
)

func TestDefaults(t *testing.T) {
	t.Setenv("SITECRAWLER_DATA_DIR", t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000", cfg.APIURL)
	require.Equal(t, 10*time.Second, cfg.LoginTimeout)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
	require.Equal(t, "warn", cfg.LogLevel)
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("SITECRAWLER_DATA_DIR", dataDir)

	contents := "api_url: https://crawler.example.com\nlogin_timeout: 5s\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "config.yaml"), []byte(contents), 0o600))

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "https://crawler.example.com", cfg.APIURL)
	require.Equal(t, 5*time.Second, cfg.LoginTimeout)
	require.Equal(t, "debug", cfg.LogLevel)

	// Fields the file omits keep their defaults.
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestEnvOverridesConfigFile(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("SITECRAWLER_DATA_DIR", dataDir)
	t.Setenv("SITECRAWLER_API_URL", "https://env.example.com")
	t.Setenv("SITECRAWLER_REQUEST_TIMEOUT", "45s")

	contents := "api_url: https://file.example.com\nrequest_timeout: 60s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "config.yaml"), []byte(contents), 0o600))

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "https://env.example.com", cfg.APIURL)
	require.Equal(t, 45*time.Second, cfg.RequestTimeout)
	require.Equal(t, dataDir, cfg.DataDir)
}

func TestMalformedDurationInConfigFile(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("SITECRAWLER_DATA_DIR", dataDir)

	contents := "login_timeout: not-a-duration\n"
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "config.yaml"), []byte(contents), 0o600))

	_, err := config.Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "login_timeout")
}

func TestLogLevelFromConfigFile(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("SITECRAWLER_DATA_DIR", dataDir)

	contents := "log_level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "config.yaml"), []byte(contents), 0o600))

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, zerolog.DebugLevel, cfg.ZerologLevel())
}

func TestZerologLevelFallsBackToWarn(t *testing.T) {
	require.Equal(t, zerolog.WarnLevel, config.Config{LogLevel: "nonsense"}.ZerologLevel())
	require.Equal(t, zerolog.WarnLevel, config.Config{}.ZerologLevel())
	require.Equal(t, zerolog.InfoLevel, config.Config{LogLevel: "info"}.ZerologLevel())
}

func TestMissingConfigFileIsNotAnError(t *testing.T) {
	t.Setenv("SITECRAWLER_DATA_DIR", filepath.Join(t.TempDir(), "does-not-exist"))

	_, err := config.Load()
	require.NoError(t, err)
}
