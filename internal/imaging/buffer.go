package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Buffer is a width x height raster of non-premultiplied 8-bit RGBA pixels.
//
// Pixels are stored row-major in Pix, four bytes per pixel, with no padding
// between rows (stride is always 4*Width). The origin is the top-left corner.
//
// A Buffer is owned by whoever created it. Detection and rendering read a
// Buffer and return new values; they never resize or mutate their input.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewBuffer allocates a fully transparent buffer of the given size.
// Negative dimensions are treated as zero.
func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, 4*width*height),
	}
}

// FromImage converts any decoded image into a Buffer.
//
// The conversion goes through imaging.Clone, which normalizes the bounds to
// start at (0,0) and un-premultiplies alpha.
func FromImage(img image.Image) *Buffer {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	buf := NewBuffer(b.Dx(), b.Dy())
	rowLen := 4 * buf.Width
	for y := 0; y < buf.Height; y++ {
		copy(buf.Pix[y*rowLen:(y+1)*rowLen], nrgba.Pix[y*nrgba.Stride:y*nrgba.Stride+rowLen])
	}
	return buf
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// Bounds returns the buffer rectangle, always anchored at (0,0).
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// Offset returns the index of the first byte of pixel (x, y) in Pix.
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * 4
}

// In reports whether (x, y) lies inside the buffer.
func (b *Buffer) In(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// RGBA returns the channels of pixel (x, y). The caller must ensure the
// coordinate is in bounds.
func (b *Buffer) RGBA(x, y int) (r, g, bl, a uint8) {
	i := b.Offset(x, y)
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

// SetRGB overwrites the color channels of pixel (x, y), leaving alpha as is.
func (b *Buffer) SetRGB(x, y int, r, g, bl uint8) {
	i := b.Offset(x, y)
	b.Pix[i] = r
	b.Pix[i+1] = g
	b.Pix[i+2] = bl
}

// SetRGBA overwrites all four channels of pixel (x, y).
func (b *Buffer) SetRGBA(x, y int, r, g, bl, a uint8) {
	i := b.Offset(x, y)
	b.Pix[i] = r
	b.Pix[i+1] = g
	b.Pix[i+2] = bl
	b.Pix[i+3] = a
}

// Image exposes the buffer as an *image.NRGBA sharing the same pixel memory.
// Writes through the returned image are visible in the buffer.
func (b *Buffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: 4 * b.Width,
		Rect:   b.Bounds(),
	}
}

// Crop returns a copy of the pixels inside r, clipped to the buffer, as an
// image anchored at (0,0).
func (b *Buffer) Crop(r image.Rectangle) *image.NRGBA {
	return imaging.Crop(b.Image(), r.Intersect(b.Bounds()))
}

// CopyRGB copies the color channels of src that fall inside r into b,
// leaving the alpha of b untouched. Colors are read from src at
// (x-origin.X, y-origin.Y) for each (x, y) in r, so src may be a crop whose
// top-left corner corresponds to origin in b.
func (b *Buffer) CopyRGB(src image.Image, r image.Rectangle, origin image.Point) {
	r = r.Intersect(b.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x-origin.X, y-origin.Y)).(color.NRGBA)
			b.SetRGB(x, y, c.R, c.G, c.B)
		}
	}
}
