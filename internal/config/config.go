// Package config resolves settings from flags, ABT_* environment variables and
// an optional abt.yaml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abtkit/abt/internal/filesystem"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "ABT"
	FileName  = "abt"

	KeyConfigFile       = "config"
	KeyRegistryDir      = "registry-dir"
	KeyVerbose          = "verbose"
	KeyNoSpinner        = "no-spinner"
	KeyPgyerBaseURL     = "pgyer.base-url"
	KeyPgyerMaxAttempts = "pgyer.max-attempts"
	KeyGitHubBaseURL    = "github.base-url"

	defaultPgyerBaseURL     = "https://api.pgyer.com"
	defaultPgyerMaxAttempts = 60
)

// Config is the resolved configuration.
type Config struct {
	RegistryDir string
	Verbose     bool
	NoSpinner   bool

	PgyerBaseURL     string
	PgyerMaxAttempts int

	// GitHubBaseURL targets GitHub Enterprise; empty means github.com
	GitHubBaseURL string

	// File is the config file that was read, if any
	File string
}

// userConfigDir is replaced in tests.
var userConfigDir = os.UserConfigDir

// New returns a viper instance with defaults and environment binding.
// ABT_REGISTRY_DIR, ABT_PGYER_BASE_URL and so on override file values.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyPgyerBaseURL, defaultPgyerBaseURL)
	v.SetDefault(KeyPgyerMaxAttempts, defaultPgyerMaxAttempts)
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyNoSpinner, false)
	return v
}

// Load reads the config file (explicit path, or abt.yaml in the working
// directory or user config dir) and resolves defaults that depend on the
// filesystem.
func Load(v *viper.Viper, fs filesystem.FileSystem) (*Config, error) {
	cwd, err := fs.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	if file := v.GetString(KeyConfigFile); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(cwd)
		if dir, err := userConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "abt"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{
		RegistryDir:      v.GetString(KeyRegistryDir),
		Verbose:          v.GetBool(KeyVerbose),
		NoSpinner:        v.GetBool(KeyNoSpinner),
		PgyerBaseURL:     v.GetString(KeyPgyerBaseURL),
		PgyerMaxAttempts: v.GetInt(KeyPgyerMaxAttempts),
		GitHubBaseURL:    v.GetString(KeyGitHubBaseURL),
		File:             v.ConfigFileUsed(),
	}

	if cfg.RegistryDir == "" {
		cfg.RegistryDir, err = defaultRegistryDir(fs, cwd)
		if err != nil {
			return nil, err
		}
	}
	if cfg.PgyerMaxAttempts < 1 {
		return nil, fmt.Errorf("%s must be at least 1, got %d", KeyPgyerMaxAttempts, cfg.PgyerMaxAttempts)
	}

	return cfg, nil
}

// defaultRegistryDir prefers ./config when it exists, then the user config
// directory.
func defaultRegistryDir(fs filesystem.FileSystem, cwd string) (string, error) {
	local := filepath.Join(cwd, "config")
	if info, err := fs.Stat(local); err == nil && info.IsDir() {
		return local, nil
	}

	dir, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory, set --registry-dir: %w", err)
	}
	return filepath.Join(dir, "abt"), nil
}
