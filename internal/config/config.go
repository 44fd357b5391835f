package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/ironsheep/image-redact-mcp/internal/detection"
	"github.com/ironsheep/image-redact-mcp/internal/imaging"
	"github.com/ironsheep/image-redact-mcp/internal/redact"
	"github.com/ironsheep/image-redact-mcp/internal/vision"
)

// AppName names the XDG config directory.
const AppName = "image-redact"

// Config is the on-disk configuration.
type Config struct {
	Detection DetectionConfig `yaml:"detection"`
	Render    RenderConfig    `yaml:"render"`
	Vision    VisionConfig    `yaml:"vision"`
}

// DetectionConfig tunes the local red-frame detector.
type DetectionConfig struct {
	GridSize  int             `yaml:"grid_size"`
	Threshold ThresholdConfig `yaml:"threshold"`
}

// ThresholdConfig is the red predicate: r above R, g below G, b below B.
// Values are ints so out-of-range entries can be reported instead of
// silently wrapping.
type ThresholdConfig struct {
	R int `yaml:"r"`
	G int `yaml:"g"`
	B int `yaml:"b"`
}

// RenderConfig holds the default redaction parameters.
type RenderConfig struct {
	Style     string `yaml:"style"`
	BlockSize int    `yaml:"block_size"`

	// SolidColor is a swatch name or hex color. Empty means no solid fill.
	SolidColor string  `yaml:"solid_color"`
	Opacity    float64 `yaml:"opacity"`
}

// VisionConfig points at the hosted annotation model.
type VisionConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"api_key"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	t := imaging.DefaultThreshold
	return &Config{
		Detection: DetectionConfig{
			GridSize:  detection.DefaultGridSize,
			Threshold: ThresholdConfig{R: int(t.R), G: int(t.G), B: int(t.B)},
		},
		Render: RenderConfig{
			Style:     string(redact.StylePixelate),
			BlockSize: redact.DefaultBlockSize,
			Opacity:   1.0,
		},
		Vision: VisionConfig{
			Endpoint: vision.DefaultEndpoint,
			Model:    vision.DefaultModel,
			Timeout:  vision.DefaultTimeout,
		},
	}
}

// XDGConfigDir returns the per-user config directory.
// On Linux: ~/.config/image-redact
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks every field and returns the first problem found.
func (c *Config) Validate() error {
	if c.Detection.GridSize < 1 {
		return fmt.Errorf("%w (got %d)", ErrInvalidGridSize, c.Detection.GridSize)
	}
	for _, v := range []int{c.Detection.Threshold.R, c.Detection.Threshold.G, c.Detection.Threshold.B} {
		if v < 0 || v > 255 {
			return fmt.Errorf("%w (got %d)", ErrInvalidThreshold, v)
		}
	}

	switch redact.Style(c.Render.Style) {
	case redact.StylePixelate, redact.StyleBlur:
	default:
		return fmt.Errorf("%w (got %q)", ErrInvalidStyle, c.Render.Style)
	}
	if c.Render.BlockSize < redact.MinBlockSize || c.Render.BlockSize > redact.MaxBlockSize {
		return fmt.Errorf("%w (got %d)", ErrInvalidBlockSize, c.Render.BlockSize)
	}
	if !(c.Render.Opacity >= 0 && c.Render.Opacity <= 1) {
		return fmt.Errorf("%w (got %v)", ErrInvalidOpacity, c.Render.Opacity)
	}
	if c.Render.SolidColor != "" {
		if _, err := imaging.ParseColor(c.Render.SolidColor); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSolidColor, err)
		}
	}

	if c.Vision.Timeout <= 0 {
		return fmt.Errorf("%w (got %s)", ErrInvalidTimeout, c.Vision.Timeout)
	}
	u, err := url.Parse(c.Vision.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w (got %q)", ErrInvalidEndpoint, c.Vision.Endpoint)
	}
	return nil
}

// Parameters converts the render section to redaction parameters.
// The config must have passed Validate.
func (c *Config) Parameters() (redact.Parameters, error) {
	p := redact.Parameters{
		Style:     redact.Style(c.Render.Style),
		BlockSize: c.Render.BlockSize,
		Opacity:   c.Render.Opacity,
		Threshold: c.threshold(),
	}
	if c.Render.SolidColor != "" {
		col, err := imaging.ParseColor(c.Render.SolidColor)
		if err != nil {
			return redact.Parameters{}, fmt.Errorf("%w: %v", ErrInvalidSolidColor, err)
		}
		p.SolidColor = &col
	}
	return p, nil
}

// DetectionOptions converts the detection section.
func (c *Config) DetectionOptions() detection.Options {
	return detection.Options{GridSize: c.Detection.GridSize, Threshold: c.threshold()}
}

// VisionClient builds a client for the vision section. It returns nil when
// no API key is configured.
func (c *Config) VisionClient() *vision.Client {
	if c.Vision.APIKey == "" {
		return nil
	}
	client := vision.NewClient(c.Vision.APIKey)
	client.Endpoint = c.Vision.Endpoint
	client.Model = c.Vision.Model
	client.HTTP.Timeout = c.Vision.Timeout
	return client
}

func (c *Config) threshold() imaging.Threshold {
	t := c.Detection.Threshold
	return imaging.Threshold{R: uint8(t.R), G: uint8(t.G), B: uint8(t.B)}
}
