package redact

import (
	"context"
	"math"

	"github.com/anthonynsimon/bild/convolution"

	"github.com/ironsheep/image-redact-mcp/internal/imaging"
	"github.com/ironsheep/image-redact-mcp/internal/region"
)

// Render redacts regions of src and returns the composed result.
//
// src is never modified. The output always has the same dimensions as src
// and is computed from src alone, so rendering the same inputs twice gives
// the same bytes no matter what was rendered before.
func Render(src *imaging.Buffer, regions []region.Region, p Parameters) *imaging.Buffer {
	out, _ := RenderContext(context.Background(), src, regions, p)
	return out
}

// RenderContext is Render with cancellation. The pass checks ctx between
// rows of work and abandons the output with ctx.Err() once ctx is done, so a
// newer render can supersede one in flight.
func RenderContext(ctx context.Context, src *imaging.Buffer, regions []region.Region, p Parameters) (*imaging.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p = p.normalized()
	dst := src.Clone()
	if len(regions) == 0 {
		return dst, nil
	}

	var err error
	switch p.Mode() {
	case ModeBlur:
		err = blur(ctx, dst, src, regions, p.BlurRadius())
	case ModeSolid:
		err = solid(ctx, dst, regions, *p.SolidColor, p.Opacity)
	default:
		err = pixelate(ctx, dst, src, regions, p.BlockSize, p.Threshold)
	}
	if err != nil {
		return nil, err
	}
	return dst, nil
}

// pixelate replaces each padded region with flat blocks of its average color.
//
// Blocks are aligned to the padded region's top-left corner and clipped to
// it. Fully transparent pixels, and red pixels when the region ignores red,
// do not contribute to the average. A block with no contributing pixels
// takes the color of the source pixel just left of it.
func pixelate(ctx context.Context, dst, src *imaging.Buffer, regions []region.Region, blockSize int, t imaging.Threshold) error {
	for _, r := range regions {
		pr := r.Rect.Pad(Padding, src.Width, src.Height)
		x1, y1 := pr.X+pr.W, pr.Y+pr.H

		for by := pr.Y; by < y1; by += blockSize {
			if err := ctx.Err(); err != nil {
				return err
			}
			bh := min(blockSize, y1-by)
			for bx := pr.X; bx < x1; bx += blockSize {
				bw := min(blockSize, x1-bx)

				var sumR, sumG, sumB, count int
				for y := by; y < by+bh; y++ {
					for x := bx; x < bx+bw; x++ {
						cr, cg, cb, ca := src.RGBA(x, y)
						if ca == 0 {
							continue
						}
						if r.IgnoreRed && t.IsRed(cr, cg, cb) {
							continue
						}
						sumR += int(cr)
						sumG += int(cg)
						sumB += int(cb)
						count++
					}
				}

				var fr, fg, fb uint8
				if count > 0 {
					fr = roundMean(sumR, count)
					fg = roundMean(sumG, count)
					fb = roundMean(sumB, count)
				} else {
					fr, fg, fb, _ = src.RGBA(max(0, bx-1), by)
				}

				for y := by; y < by+bh; y++ {
					for x := bx; x < bx+bw; x++ {
						dst.SetRGBA(x, y, fr, fg, fb, 255)
					}
				}
			}
		}
	}
	return nil
}

// roundMean returns sum/count rounded half up.
func roundMean(sum, count int) uint8 {
	return uint8((2*sum + count) / (2 * count))
}

// blur replaces the union of the padded regions with a Gaussian-blurred
// copy of src, using a separable kernel with sigma equal to radius.
//
// Each region is blurred from a crop of src that extends past it by the
// kernel reach, so pixels inside the region see the same neighbourhood they
// would in a full-image pass. At the image border, edge pixels are extended.
// Only the color channels are blurred; every pixel keeps its source alpha.
// Overlapping regions write identical values, so the result does not depend
// on region order.
func blur(ctx context.Context, dst, src *imaging.Buffer, regions []region.Region, radius float64) error {
	k := gaussianKernel(radius)
	reach := k.MaxX()/2 + 1
	opts := &convolution.Options{Bias: 0.5, Wrap: false, KeepAlpha: true}

	for _, r := range regions {
		if err := ctx.Err(); err != nil {
			return err
		}
		pr := r.Rect.Pad(Padding, src.Width, src.Height).Rectangle()
		if pr.Empty() {
			continue
		}
		area := pr.Inset(-reach).Intersect(src.Bounds())

		// Convolve straight color values: with alpha forced opaque the
		// premultiplied pixels bild works on equal the stored ones.
		crop := src.Crop(area)
		for i := 3; i < len(crop.Pix); i += 4 {
			crop.Pix[i] = 255
		}
		blurred := convolution.Convolve(crop, k, opts)
		blurred = convolution.Convolve(blurred, k.Transposed(), opts)
		dst.CopyRGB(blurred, pr, area.Min)
	}
	return nil
}

// gaussianKernel returns a normalized horizontal Gaussian kernel with the
// given sigma, truncated at three sigma on each side.
func gaussianKernel(sigma float64) convolution.Matrix {
	half := int(math.Ceil(3 * sigma))
	k := convolution.NewKernel(2*half+1, 1)
	for i := range k.Matrix {
		x := float64(i - half)
		k.Matrix[i] = math.Exp(-x * x / (2 * sigma * sigma))
	}
	return k.Normalized()
}

// solid blends a flat color over each padded region in turn. Where regions
// overlap the color is blended again over the already blended pixels.
// Alpha is left unchanged.
func solid(ctx context.Context, dst *imaging.Buffer, regions []region.Region, c imaging.RGBColor, opacity float64) error {
	if opacity <= 0 {
		return ctx.Err()
	}

	for _, r := range regions {
		if err := ctx.Err(); err != nil {
			return err
		}
		pr := r.Rect.Pad(Padding, dst.Width, dst.Height)
		for y := pr.Y; y < pr.Y+pr.H; y++ {
			for x := pr.X; x < pr.X+pr.W; x++ {
				er, eg, eb, _ := dst.RGBA(x, y)
				out := c.Blend(imaging.RGBColor{R: er, G: eg, B: eb}, opacity)
				dst.SetRGB(x, y, out.R, out.G, out.B)
			}
		}
	}
	return nil
}
