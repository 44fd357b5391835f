package region

import (
	"testing"

	"github.com/ironsheep/image-redact-mcp/internal/imaging"
)

func isOutline(b *imaging.Buffer, x, y int) bool {
	r, g, bl, _ := b.RGBA(x, y)
	return r == OutlineColor.R && g == OutlineColor.G && bl == OutlineColor.B
}

func TestDrawSelection(t *testing.T) {
	base := imaging.NewBuffer(40, 40)
	out := DrawSelection(base, imaging.Rect{X: 5, Y: 5, W: 20, H: 20})

	for i, px := range base.Pix {
		if px != 0 {
			t.Fatalf("base modified at byte %d", i)
		}
	}

	// First dash on the top edge, two pixels thick.
	if !isOutline(out, 5, 5) || !isOutline(out, 9, 5) || !isOutline(out, 5, 6) {
		t.Error("expected first dash at the top-left")
	}
	// Gap after the first dash.
	if isOutline(out, 10, 5) || isOutline(out, 14, 5) {
		t.Error("expected a gap after the first dash")
	}
	if !isOutline(out, 15, 5) {
		t.Error("expected the second dash to start at x=15")
	}
	// Interior untouched.
	if isOutline(out, 15, 15) {
		t.Error("interior should not be painted")
	}
}

func TestDrawSelection_OutOfBoundsIsClipped(t *testing.T) {
	base := imaging.NewBuffer(10, 10)
	out := DrawSelection(base, imaging.Rect{X: -5, Y: -5, W: 30, H: 30})
	if out.Width != base.Width || out.Height != base.Height {
		t.Error("preview must keep the buffer size")
	}
}

func TestDrawSelection_EmptyRect(t *testing.T) {
	base := imaging.NewBuffer(10, 10)
	out := DrawSelection(base, imaging.Rect{X: 2, Y: 2})
	for i, px := range out.Pix {
		if px != 0 {
			t.Fatalf("empty rect painted byte %d", i)
		}
	}
}
