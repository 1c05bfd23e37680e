// Package config resolves client configuration from three layers with
// increasing precedence: built-in defaults, an optional config.yaml in the
// data directory, and SITECRAWLER_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/jrsteele09/go-crawler-client/internal/errors"
)

const (
	defaultAPIURL         = "http://localhost:8000"
	defaultLoginTimeout   = 10 * time.Second
	defaultRequestTimeout = 30 * time.Second
	defaultLogLevel       = "warn"

	configFileName = "config.yaml"
	appDirName     = "sitecrawler"
)

// Config is the resolved client configuration.
type Config struct {
	APIURL         string        // Base URL of the Site Crawler API
	DataDir        string        // Directory holding the session store and config file
	LoginTimeout   time.Duration // Bound on the login network call
	RequestTimeout time.Duration // Bound on every other API call
	LogLevel       string        // zerolog level name
}

// ZerologLevel parses the resolved LogLevel into a zerolog level, falling
// back to warn when the name is empty or unknown.
func (c Config) ZerologLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.WarnLevel
	}
	return level
}

// fileConfig holds raw values from config.yaml. Pointer fields distinguish
// "absent" from "explicitly zero".
type fileConfig struct {
	APIURL         *string `yaml:"api_url"`
	LoginTimeout   *string `yaml:"login_timeout"`   // duration string, e.g. "10s"
	RequestTimeout *string `yaml:"request_timeout"` // duration string, e.g. "30s"
	LogLevel       *string `yaml:"log_level"`
}

// envConfig holds raw environment values, again with pointer fields so an
// unset variable leaves the lower layers untouched.
type envConfig struct {
	APIURL         *string        `env:"SITECRAWLER_API_URL"`
	DataDir        *string        `env:"SITECRAWLER_DATA_DIR"`
	LoginTimeout   *time.Duration `env:"SITECRAWLER_LOGIN_TIMEOUT"`
	RequestTimeout *time.Duration `env:"SITECRAWLER_REQUEST_TIMEOUT"`
	LogLevel       *string        `env:"SITECRAWLER_LOG_LEVEL"`
}

// Default returns the built-in configuration. The data directory lives
// under the user config dir, falling back to a dot directory in the
// working directory when the platform offers none.
func Default() Config {
	dataDir := "." + appDirName
	if configDir, err := os.UserConfigDir(); err == nil {
		dataDir = filepath.Join(configDir, appDirName)
	}
	return Config{
		APIURL:         defaultAPIURL,
		DataDir:        dataDir,
		LoginTimeout:   defaultLoginTimeout,
		RequestTimeout: defaultRequestTimeout,
		LogLevel:       defaultLogLevel,
	}
}

// Load resolves the configuration. A missing config file is not an error;
// a malformed one is.
func Load() (Config, error) {
	cfg := Default()

	var envVars envConfig
	if err := env.Parse(&envVars); err != nil {
		return Config{}, errors.Wrapf(err, "[config Load] parse environment")
	}

	// The data dir env var decides where the config file is looked up, so
	// it applies before the file layer.
	if envVars.DataDir != nil {
		cfg.DataDir = *envVars.DataDir
	}

	if err := applyFile(&cfg, filepath.Join(cfg.DataDir, configFileName)); err != nil {
		return Config{}, err
	}

	if envVars.APIURL != nil {
		cfg.APIURL = *envVars.APIURL
	}
	if envVars.LoginTimeout != nil {
		cfg.LoginTimeout = *envVars.LoginTimeout
	}
	if envVars.RequestTimeout != nil {
		cfg.RequestTimeout = *envVars.RequestTimeout
	}
	if envVars.LogLevel != nil {
		cfg.LogLevel = *envVars.LogLevel
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "[config applyFile] read %s", path)
	}

	var file fileConfig
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return errors.Wrapf(err, "[config applyFile] parse %s", path)
	}

	if file.APIURL != nil {
		cfg.APIURL = *file.APIURL
	}
	if file.LoginTimeout != nil {
		timeout, err := time.ParseDuration(*file.LoginTimeout)
		if err != nil {
			return errors.Wrapf(err, "[config applyFile] login_timeout")
		}
		cfg.LoginTimeout = timeout
	}
	if file.RequestTimeout != nil {
		timeout, err := time.ParseDuration(*file.RequestTimeout)
		if err != nil {
			return errors.Wrapf(err, "[config applyFile] request_timeout")
		}
		cfg.RequestTimeout = timeout
	}
	if file.LogLevel != nil {
		cfg.LogLevel = *file.LogLevel
	}
	return nil
}
