package redact

import (
	"fmt"
	"math"

	"github.com/ironsheep/image-redact-mcp/internal/imaging"
)

// Style is the user-facing redaction style.
type Style string

const (
	// StylePixelate averages fixed-size blocks (mosaic), or fills with a
	// solid color when Parameters.SolidColor is set.
	StylePixelate Style = "pixelate"
	// StyleBlur applies a Gaussian blur.
	StyleBlur Style = "blur"
)

// Mode is the transform a render pass actually applies.
type Mode string

const (
	ModeMosaic Mode = "mosaic"
	ModeBlur   Mode = "blur"
	ModeSolid  Mode = "solid"
)

// Padding is how far every region is grown on each side before a transform
// is applied, so the annotation stroke around it is covered too.
const Padding = 2

// Block size range offered to users.
const (
	DefaultBlockSize = 12
	MinBlockSize     = 2
	MaxBlockSize     = 50
)

// Parameters is an immutable snapshot of the settings for one render pass.
type Parameters struct {
	// Style selects pixelate or blur.
	Style Style `json:"style"`

	// BlockSize is the mosaic block edge in pixels. For blur it sets the
	// kernel radius to max(1, BlockSize/2).
	BlockSize int `json:"block_size"`

	// SolidColor switches pixelate to a flat fill. It is ignored for blur.
	SolidColor *imaging.RGBColor `json:"solid_color,omitempty"`

	// Opacity of the solid fill, in [0,1].
	Opacity float64 `json:"opacity"`

	// Threshold is the red predicate used when a region ignores red pixels.
	Threshold imaging.Threshold `json:"threshold"`
}

// DefaultParameters returns a standard mosaic at the default block size.
func DefaultParameters() Parameters {
	return Parameters{
		Style:     StylePixelate,
		BlockSize: DefaultBlockSize,
		Opacity:   1.0,
		Threshold: imaging.DefaultThreshold,
	}
}

// Mode resolves Style and SolidColor to the transform that will run.
func (p Parameters) Mode() Mode {
	switch {
	case p.Style == StyleBlur:
		return ModeBlur
	case p.SolidColor != nil:
		return ModeSolid
	default:
		return ModeMosaic
	}
}

// BlurRadius is the Gaussian sigma used for blur: max(1, BlockSize/2).
func (p Parameters) BlurRadius() float64 {
	return math.Max(1, float64(p.BlockSize)/2)
}

// Validate reports settings that a render pass cannot honor.
func (p Parameters) Validate() error {
	switch p.Style {
	case StylePixelate, StyleBlur:
	default:
		return fmt.Errorf("unknown style %q: want %q or %q", p.Style, StylePixelate, StyleBlur)
	}
	if p.BlockSize < MinBlockSize || p.BlockSize > MaxBlockSize {
		return fmt.Errorf("block size %d out of range [%d,%d]", p.BlockSize, MinBlockSize, MaxBlockSize)
	}
	if math.IsNaN(p.Opacity) || p.Opacity < 0 || p.Opacity > 1 {
		return fmt.Errorf("opacity %v out of range [0,1]", p.Opacity)
	}
	return nil
}

// normalized guards the render loops against values that would stall or
// index out of range. Validation errors are the caller's concern.
func (p Parameters) normalized() Parameters {
	if p.BlockSize < 1 {
		p.BlockSize = 1
	}
	if math.IsNaN(p.Opacity) {
		p.Opacity = 0
	}
	p.Opacity = math.Min(1, math.Max(0, p.Opacity))
	return p
}
