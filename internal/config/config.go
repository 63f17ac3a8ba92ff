package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	cliconfig "github.com/networth-tracker/networth/internal/cli/config"
	"github.com/networth-tracker/networth/internal/cli/storage"
)

// Defaults
const (
	DefaultAPIURL = "http://localhost:8000"
	DefaultAppURL = "http://localhost:3000"
)

// Config holds all configuration for the CLI
type Config struct {
	// API Configuration
	API APIConfig

	// Session Configuration
	Session SessionConfig

	// Logging Configuration
	Logging LoggingConfig

	// File is the networth.yaml that was read, empty when none was found
	File string
}

// APIConfig holds the backend endpoints
type APIConfig struct {
	URL    string
	AppURL string // Web app, linked from command output
}

// SessionConfig holds where the session and preferences are kept
type SessionConfig struct {
	StateDir string
	Storage  string // keyring, file
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load reads .env files, the nearest networth.yaml and NETWORTH_*
// variables, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom is Load with the networth.yaml search starting at dir
func LoadFrom(dir string) (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	cfg := &Config{
		API: APIConfig{
			URL:    DefaultAPIURL,
			AppURL: DefaultAppURL,
		},
		Session: SessionConfig{
			StateDir: defaultStateDir(),
			Storage:  cliconfig.StorageKeyring,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}

	path, err := cliconfig.Find(dir)
	switch {
	case err == nil:
		file, err := cliconfig.Load(path)
		if err != nil {
			return nil, err
		}
		cfg.File = path
		cfg.apply(file)
	case !errors.Is(err, cliconfig.ErrNotFound):
		return nil, err
	}

	cfg.apply(&cliconfig.File{
		APIURL:         os.Getenv("NETWORTH_API_URL"),
		AppURL:         os.Getenv("NETWORTH_APP_URL"),
		StateDir:       os.Getenv("NETWORTH_STATE_DIR"),
		SessionStorage: os.Getenv("NETWORTH_SESSION_STORAGE"),
		LogLevel:       os.Getenv("NETWORTH_LOG_LEVEL"),
		LogFormat:      os.Getenv("NETWORTH_LOG_FORMAT"),
	})

	return cfg, nil
}

func (c *Config) apply(f *cliconfig.File) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.API.URL, f.APIURL)
	set(&c.API.AppURL, f.AppURL)
	set(&c.Session.StateDir, f.StateDir)
	set(&c.Session.Storage, f.SessionStorage)
	set(&c.Logging.Level, f.LogLevel)
	set(&c.Logging.Format, f.LogFormat)
}

func defaultStateDir() string {
	if dir, err := storage.DefaultDir(); err == nil {
		return dir
	}
	return filepath.Join(os.TempDir(), "networth")
}
