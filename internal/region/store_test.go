package region

import (
	"reflect"
	"testing"

	"github.com/ironsheep/image-redact-mcp/internal/imaging"
)

func rects(rs []Region) []imaging.Rect {
	out := make([]imaging.Rect, len(rs))
	for i, r := range rs {
		out[i] = r.Rect
	}
	return out
}

func TestStore_UndoOrdering(t *testing.T) {
	s := NewStore(100, 100)
	r1 := imaging.Rect{X: 1, Y: 1, W: 10, H: 10}
	r2 := imaging.Rect{X: 20, Y: 20, W: 10, H: 10}
	r3 := imaging.Rect{X: 40, Y: 40, W: 10, H: 10}
	for _, r := range []imaging.Rect{r1, r2, r3} {
		if _, ok := s.Add(Manual(r)); !ok {
			t.Fatalf("Add(%+v) failed", r)
		}
	}

	if last, ok := s.Undo(); !ok || last.Rect != r3 {
		t.Errorf("first Undo: got %+v %v, want %+v", last, ok, r3)
	}
	if last, ok := s.Undo(); !ok || last.Rect != r2 {
		t.Errorf("second Undo: got %+v %v, want %+v", last, ok, r2)
	}
	if got := rects(s.Regions()); !reflect.DeepEqual(got, []imaging.Rect{r1}) {
		t.Errorf("remaining: got %+v, want [%+v]", got, r1)
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Clear left %d regions", s.Len())
	}
}

func TestStore_EmptyOperationsAreNoOps(t *testing.T) {
	s := NewStore(10, 10)
	if _, ok := s.Undo(); ok {
		t.Error("Undo on empty store should report false")
	}
	s.Clear()
	s.Clear()
	if _, ok := s.Undo(); ok {
		t.Error("Undo after Clear should report false")
	}
	if s.Len() != 0 {
		t.Errorf("Len: got %d, want 0", s.Len())
	}
}

func TestStore_AddClamps(t *testing.T) {
	tests := []struct {
		name   string
		in     imaging.Rect
		want   imaging.Rect
		wantOK bool
	}{
		{"in bounds", imaging.Rect{X: 5, Y: 5, W: 10, H: 10}, imaging.Rect{X: 5, Y: 5, W: 10, H: 10}, true},
		{"overflow", imaging.Rect{X: 45, Y: 40, W: 20, H: 20}, imaging.Rect{X: 45, Y: 40, W: 5, H: 10}, true},
		{"negative origin", imaging.Rect{X: -10, Y: -2, W: 20, H: 10}, imaging.Rect{X: 0, Y: 0, W: 10, H: 8}, true},
		{"negative width", imaging.Rect{X: 5, Y: 5, W: -10, H: 10}, imaging.Rect{}, false},
		{"outside", imaging.Rect{X: 60, Y: 60, W: 5, H: 5}, imaging.Rect{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(50, 50)
			added, ok := s.Add(Manual(tt.in))
			if ok != tt.wantOK {
				t.Fatalf("Add: got %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				if s.Len() != 0 {
					t.Error("rejected region was stored")
				}
				return
			}
			if got := s.Regions()[0]; got != added {
				t.Errorf("Add returned %+v, store holds %+v", added, got)
			}
			if added.Rect != tt.want {
				t.Errorf("got %+v, want %+v", added.Rect, tt.want)
			}
		})
	}
}

func TestStore_Replace(t *testing.T) {
	s := NewStore(100, 100)
	m1 := imaging.Rect{X: 0, Y: 0, W: 10, H: 10}
	d1 := imaging.Rect{X: 50, Y: 50, W: 10, H: 10}
	m2 := imaging.Rect{X: 20, Y: 0, W: 10, H: 10}
	s.Add(Manual(m1))
	s.Add(Annotation(d1, SourceDetected))
	s.Add(Manual(m2))

	d2 := imaging.Rect{X: 70, Y: 70, W: 10, H: 10}
	n := s.Replace(SourceDetected, []Region{
		Annotation(d2, SourceDetected),
		Annotation(imaging.Rect{X: 500, Y: 500, W: 5, H: 5}, SourceDetected),
	})
	if n != 1 {
		t.Errorf("Replace added %d, want 1", n)
	}

	want := []imaging.Rect{m1, m2, d2}
	if got := rects(s.Regions()); !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
	for i, want := range []Source{SourceManual, SourceManual, SourceDetected} {
		if got := s.Regions()[i].Source; got != want {
			t.Errorf("region %d source: got %q, want %q", i, got, want)
		}
	}
	if !s.Regions()[2].IgnoreRed {
		t.Error("annotation regions should ignore red")
	}
}

func TestStore_RegionsIsACopy(t *testing.T) {
	s := NewStore(100, 100)
	s.Add(Manual(imaging.Rect{X: 1, Y: 1, W: 10, H: 10}))

	rs := s.Regions()
	rs[0].X = 99
	if s.Regions()[0].X != 1 {
		t.Error("mutating the returned slice changed the store")
	}
}
