package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const FileName = "networth.yaml"

// Session storage backends
const (
	StorageKeyring = "keyring"
	StorageFile    = "file"
)

// ErrNotFound is returned when no project file exists up the tree
var ErrNotFound = errors.New(FileName + " not found")

// File is the project configuration written by `networth init`. Empty fields
// fall back to the environment and built-in defaults.
type File struct {
	APIURL         string `yaml:"api_url" validate:"omitempty,http_url"`
	AppURL         string `yaml:"app_url,omitempty" validate:"omitempty,http_url"`
	StateDir       string `yaml:"state_dir,omitempty"`
	SessionStorage string `yaml:"session_storage,omitempty" validate:"omitempty,oneof=keyring file"`
	LogLevel       string `yaml:"log_level,omitempty" validate:"omitempty,oneof=trace debug info warn warning error disabled off"`
	LogFormat      string `yaml:"log_format,omitempty" validate:"omitempty,oneof=console json"`
}

var validate = validator.New()

// Validate reports the first invalid field
func (f *File) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("invalid %s %q in %s", yamlName(fe.Field()), fe.Value(), FileName)
	}
	return err
}

func yamlName(field string) string {
	switch field {
	case "APIURL":
		return "api_url"
	case "AppURL":
		return "app_url"
	case "SessionStorage":
		return "session_storage"
	case "LogLevel":
		return "log_level"
	case "LogFormat":
		return "log_format"
	default:
		return strings.ToLower(field)
	}
}

// Find searches for networth.yaml in dir and its parents
func Find(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		dir = wd
	}

	start := dir
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w in %s or any parent directory", ErrNotFound, start)
}

// Load reads and validates a project file
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Save writes f to path
func Save(path string, f *File) error {
	if err := f.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
