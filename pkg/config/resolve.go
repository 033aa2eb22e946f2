/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Scalar keys that can be overridden from the environment and flags.
const (
	KeyGlobDirectory   = "globDirectory"
	KeySwDest          = "swDest"
	KeyMaximumFileSize = "maximumFileSizeToCacheInBytes"
	KeyFormat          = "format"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "PRECACHE"

var envNames = map[string]string{
	KeyGlobDirectory:   EnvPrefix + "_GLOB_DIRECTORY",
	KeySwDest:          EnvPrefix + "_SW_DEST",
	KeyMaximumFileSize: EnvPrefix + "_MAXIMUM_FILE_SIZE",
	KeyFormat:          EnvPrefix + "_FORMAT",
}

// Sources says where Resolve looks for configuration.
type Sources struct {
	// ConfigFile is an explicit path. Empty means search SearchPaths.
	ConfigFile string
	// SearchPaths overrides the default search path list.
	SearchPaths []string
	// Flags maps scalar keys to command-line flags.
	Flags map[string]*pflag.Flag
}

// DefaultSearchPaths returns the directories searched for precache.{yaml,yml,toml,json}.
func DefaultSearchPaths() []string {
	return []string{".", filepath.Join(xdg.ConfigHome, "precache")}
}

// Resolve finds and loads the config file, then applies environment and flag
// overrides. Precedence: flags, environment, file, defaults.
func Resolve(src Sources) (*Config, error) {
	v := viper.New()

	for key, env := range envNames {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}
	for key, flag := range src.Flags {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag.Name, err)
		}
	}

	path, err := findConfigFile(src)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if path != "" {
		if cfg, err = NewLoader().Load(path); err != nil {
			return nil, err
		}
	}

	if err := applyOverrides(v, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile returns the file viper would read, or "" when none exists.
func findConfigFile(src Sources) (string, error) {
	if src.ConfigFile != "" {
		return src.ConfigFile, nil
	}

	search := src.SearchPaths
	if search == nil {
		search = DefaultSearchPaths()
	}

	v := viper.New()
	v.SetConfigName("precache")
	for _, p := range search {
		v.AddConfigPath(p)
	}

	err := v.ReadInConfig()
	if err == nil {
		return v.ConfigFileUsed(), nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return "", nil
	}

	// Parse errors are reported by the loader with our sentinels
	if used := v.ConfigFileUsed(); used != "" {
		return used, nil
	}
	return "", fmt.Errorf("failed to locate config file: %w", err)
}

func applyOverrides(v *viper.Viper, cfg *Config) error {
	if v.IsSet(KeyGlobDirectory) {
		cfg.GlobDirectory = v.GetString(KeyGlobDirectory)
	}
	if v.IsSet(KeySwDest) {
		cfg.SwDest = v.GetString(KeySwDest)
	}
	if v.IsSet(KeyFormat) {
		cfg.Format = strings.ToLower(v.GetString(KeyFormat))
	}
	if v.IsSet(KeyMaximumFileSize) {
		raw := v.GetString(KeyMaximumFileSize)
		max := v.GetInt64(KeyMaximumFileSize)
		if max == 0 && strings.TrimSpace(raw) != "0" {
			return fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidConfig, KeyMaximumFileSize, raw)
		}
		cfg.MaximumFileSizeToCacheInBytes = &max
	}
	return nil
}
