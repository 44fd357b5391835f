package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ironsheep/image-redact-mcp/internal/imaging"
	"github.com/ironsheep/image-redact-mcp/internal/redact"
	"github.com/ironsheep/image-redact-mcp/internal/vision"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	p, err := cfg.Parameters()
	if err != nil {
		t.Fatal(err)
	}
	if p != redact.DefaultParameters() {
		t.Errorf("Parameters() = %+v, want %+v", p, redact.DefaultParameters())
	}
	if opts := cfg.DetectionOptions(); opts.GridSize != 5 || opts.Threshold.R != 150 {
		t.Errorf("DetectionOptions() = %+v", opts)
	}
	if cfg.VisionClient() != nil {
		t.Error("VisionClient() without api key should be nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"grid size", func(c *Config) { c.Detection.GridSize = 0 }, ErrInvalidGridSize},
		{"threshold", func(c *Config) { c.Detection.Threshold.G = 300 }, ErrInvalidThreshold},
		{"style", func(c *Config) { c.Render.Style = "swirl" }, ErrInvalidStyle},
		{"block size low", func(c *Config) { c.Render.BlockSize = 1 }, ErrInvalidBlockSize},
		{"block size high", func(c *Config) { c.Render.BlockSize = 51 }, ErrInvalidBlockSize},
		{"opacity", func(c *Config) { c.Render.Opacity = 1.5 }, ErrInvalidOpacity},
		{"solid color", func(c *Config) { c.Render.SolidColor = "not-a-color" }, ErrInvalidSolidColor},
		{"timeout", func(c *Config) { c.Vision.Timeout = 0 }, ErrInvalidTimeout},
		{"endpoint", func(c *Config) { c.Vision.Endpoint = "ftp://example.com" }, ErrInvalidEndpoint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParameters_SolidColor(t *testing.T) {
	cfg := Default()
	cfg.Render.SolidColor = "black"
	cfg.Render.Opacity = 0.5
	p, err := cfg.Parameters()
	if err != nil {
		t.Fatal(err)
	}
	if p.SolidColor == nil || *p.SolidColor != (imaging.RGBColor{}) {
		t.Errorf("SolidColor = %v", p.SolidColor)
	}
	if p.Mode() != redact.ModeSolid || p.Opacity != 0.5 {
		t.Errorf("params = %+v", p)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
render:
  style: blur
  block_size: 20
vision:
  model: qwen-vl-plus
  timeout: 15s
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Render.Style != "blur" || cfg.Render.BlockSize != 20 {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Vision.Model != "qwen-vl-plus" || cfg.Vision.Timeout != 15*time.Second {
		t.Errorf("vision = %+v", cfg.Vision)
	}
	// Unset fields keep their defaults.
	if cfg.Detection.GridSize != 5 || cfg.Render.Opacity != 1 || cfg.Vision.Endpoint != vision.DefaultEndpoint {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("missing file err = %v, want ErrConfigNotFound", err)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("render: [unclosed"), 0o600)
	if _, err := LoadFile(path); err == nil {
		t.Error("malformed YAML should fail")
	}
}

func TestLoad_ExplicitMissingPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("err = %v, want ErrConfigNotFound", err)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("render:\n  block_size: 99\n"), 0o600)
	if _, err := Load(path); !errors.Is(err, ErrInvalidBlockSize) {
		t.Errorf("err = %v, want ErrInvalidBlockSize", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvVisionAPIKey:   "sk-test",
		EnvVisionEndpoint: "http://localhost:9999/v1/chat/completions",
		EnvVisionModel:    "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	cfg.applyEnv(lookup)
	if cfg.Vision.APIKey != "sk-test" {
		t.Errorf("APIKey = %q", cfg.Vision.APIKey)
	}
	if cfg.Vision.Endpoint != env[EnvVisionEndpoint] {
		t.Errorf("Endpoint = %q", cfg.Vision.Endpoint)
	}
	// An empty override does not clear the model.
	if cfg.Vision.Model != vision.DefaultModel {
		t.Errorf("Model = %q", cfg.Vision.Model)
	}

	client := cfg.VisionClient()
	if client == nil {
		t.Fatal("VisionClient() = nil with api key set")
	}
	if client.Endpoint != env[EnvVisionEndpoint] || client.HTTP.Timeout != vision.DefaultTimeout {
		t.Errorf("client = %+v", client)
	}
}

func TestTemplate_MatchesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	if err := WriteTemplate(path, false); err != nil {
		t.Fatalf("WriteTemplate: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *Default() {
		t.Errorf("template config = %+v, want defaults %+v", cfg, Default())
	}

	err = WriteTemplate(path, false)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second write err = %v, want already exists", err)
	}
	if err := WriteTemplate(path, true); err != nil {
		t.Errorf("forced write: %v", err)
	}
}

func TestFindConfigFile_Explicit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	os.WriteFile(path, []byte("{}"), 0o600)
	if got := FindConfigFile(path); got != path {
		t.Errorf("FindConfigFile(%q) = %q", path, got)
	}
	if got := FindConfigFile(path + ".missing"); got != "" {
		t.Errorf("missing explicit path = %q, want empty", got)
	}
}
