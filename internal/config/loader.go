package config

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory.
const DefaultConfigFile = ".image-redact.yaml"

// UserConfigFile is looked up in XDGConfigDir.
const UserConfigFile = "config.yaml"

// Environment overrides, applied after the file is read.
const (
	EnvVisionAPIKey   = "IMAGE_REDACT_VISION_API_KEY"
	EnvVisionEndpoint = "IMAGE_REDACT_VISION_ENDPOINT"
	EnvVisionModel    = "IMAGE_REDACT_VISION_MODEL"
)

//go:embed templates/config.yaml
var templateFS embed.FS

// Template returns the commented default configuration written by init.
func Template() ([]byte, error) {
	return templateFS.ReadFile("templates/config.yaml")
}

// FindConfigFile searches for the configuration file in the following order:
//  1. configPath, if given
//  2. DefaultConfigFile in the current directory
//  3. UserConfigFile in XDGConfigDir
//
// It returns "" when nothing is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	p := filepath.Join(XDGConfigDir(), UserConfigFile)
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}

// LoadFile reads path over the defaults. Fields missing from the file keep
// their default values. It returns ErrConfigNotFound if path does not exist.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// Load resolves the configuration: the file found by FindConfigFile (or the
// defaults when there is none), then environment overrides, then Validate.
// An explicit configPath that does not exist is an error.
func Load(configPath string) (*Config, error) {
	cfg := Default()
	if path := FindConfigFile(configPath); path != "" {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if configPath != "" {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
	}

	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvVisionAPIKey); ok {
		c.Vision.APIKey = v
	}
	if v, ok := lookup(EnvVisionEndpoint); ok && v != "" {
		c.Vision.Endpoint = v
	}
	if v, ok := lookup(EnvVisionModel); ok && v != "" {
		c.Vision.Model = v
	}
}

// WriteTemplate writes the default configuration to path. It refuses to
// overwrite an existing file unless force is set.
func WriteTemplate(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	content, err := Template()
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}
