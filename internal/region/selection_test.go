package region

import (
	"testing"

	"github.com/ironsheep/image-redact-mcp/internal/imaging"
)

func TestViewport_BottomRightCorner(t *testing.T) {
	tests := []struct {
		name string
		v    Viewport
	}{
		{"downscaled", Viewport{BufferWidth: 1920, BufferHeight: 1080, DisplayWidth: 800, DisplayHeight: 450}},
		{"upscaled", Viewport{BufferWidth: 300, BufferHeight: 200, DisplayWidth: 900, DisplayHeight: 600}},
		{"fractional", Viewport{BufferWidth: 1001, BufferHeight: 777, DisplayWidth: 640.5, DisplayHeight: 497.3}},
		{"natural size", Viewport{BufferWidth: 64, BufferHeight: 48}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dw, dh := tt.v.DisplayWidth, tt.v.DisplayHeight
			if dw == 0 {
				dw, dh = float64(tt.v.BufferWidth), float64(tt.v.BufferHeight)
			}
			x, y := tt.v.Pixel(Point{X: dw, Y: dh})
			if x != tt.v.BufferWidth-1 || y != tt.v.BufferHeight-1 {
				t.Errorf("got (%d,%d), want (%d,%d)", x, y, tt.v.BufferWidth-1, tt.v.BufferHeight-1)
			}

			b := tt.v.ToBuffer(Point{X: dw, Y: dh})
			if b.X < float64(tt.v.BufferWidth)-1 || b.X > float64(tt.v.BufferWidth)+1 {
				t.Errorf("ToBuffer x: got %v, want within 1px of %d", b.X, tt.v.BufferWidth)
			}
		})
	}
}

func TestViewport_Scale(t *testing.T) {
	v := Viewport{BufferWidth: 1000, BufferHeight: 500, DisplayWidth: 500, DisplayHeight: 250}
	got := v.ToBuffer(Point{X: 100, Y: 50})
	if got.X != 200 || got.Y != 100 {
		t.Errorf("got %+v, want {200 100}", got)
	}
}

func TestNormalizeDrag(t *testing.T) {
	want := imaging.Rect{X: 10, Y: 20, W: 30, H: 40}
	corners := [][2]Point{
		{{10, 20}, {40, 60}},
		{{40, 60}, {10, 20}},
		{{40, 20}, {10, 60}},
		{{10, 60}, {40, 20}},
	}
	for _, c := range corners {
		if got := NormalizeDrag(c[0], c[1]); got != want {
			t.Errorf("NormalizeDrag(%v, %v): got %+v, want %+v", c[0], c[1], got, want)
		}
	}
}

func TestSelector_DragAppends(t *testing.T) {
	var s Selector
	if !s.Down(Point{50, 50}, true) {
		t.Fatal("Down should start a drag")
	}
	if s.State() != Dragging {
		t.Fatalf("state: got %v, want dragging", s.State())
	}

	prev, ok := s.Move(Point{30, 80})
	if !ok {
		t.Fatal("Move should report a preview while dragging")
	}
	if want := (imaging.Rect{X: 30, Y: 50, W: 20, H: 30}); prev != want {
		t.Errorf("preview: got %+v, want %+v", prev, want)
	}

	r, ok := s.Up(Point{20, 90})
	if !ok {
		t.Fatal("Up should accept a large drag")
	}
	if want := (imaging.Rect{X: 20, Y: 50, W: 30, H: 40}); r != want {
		t.Errorf("selection: got %+v, want %+v", r, want)
	}
	if s.State() != Idle {
		t.Errorf("state after Up: got %v, want idle", s.State())
	}
}

func TestSelector_SmallDragIsDiscarded(t *testing.T) {
	tests := []struct {
		name     string
		from, to Point
	}{
		{"click", Point{10, 10}, Point{10, 10}},
		{"exactly five", Point{10, 10}, Point{15, 15}},
		{"thin horizontal", Point{10, 10}, Point{60, 14}},
		{"thin vertical", Point{10, 10}, Point{13, 80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Selector
			s.Down(tt.from, true)
			if _, ok := s.Up(tt.to); ok {
				t.Error("small drag should be discarded")
			}
			if s.State() != Idle {
				t.Error("selector should return to idle")
			}
		})
	}
}

func TestSelector_DownWithoutBaseIsIgnored(t *testing.T) {
	var s Selector
	if s.Down(Point{1, 1}, false) {
		t.Error("Down without a base snapshot should be ignored")
	}
	if s.State() != Idle {
		t.Error("state should stay idle")
	}
	if _, ok := s.Move(Point{50, 50}); ok {
		t.Error("Move while idle should not report a preview")
	}
	if _, ok := s.Up(Point{50, 50}); ok {
		t.Error("Up while idle should not produce a selection")
	}
}

func TestSelector_Cancel(t *testing.T) {
	var s Selector
	s.Down(Point{0, 0}, true)
	s.Cancel()
	if _, ok := s.Preview(); ok {
		t.Error("Preview after Cancel should report false")
	}
}
