package imaging

import "testing"

func TestRect_Clamp(t *testing.T) {
	tests := []struct {
		name   string
		in     Rect
		want   Rect
		wantOK bool
	}{
		{"inside", Rect{10, 10, 20, 20}, Rect{10, 10, 20, 20}, true},
		{"overflows right and bottom", Rect{90, 80, 30, 30}, Rect{90, 80, 10, 20}, true},
		{"negative origin", Rect{-5, -5, 20, 20}, Rect{0, 0, 15, 15}, true},
		{"fully outside", Rect{200, 200, 10, 10}, Rect{}, false},
		{"zero width", Rect{10, 10, 0, 10}, Rect{}, false},
		{"negative height", Rect{10, 10, 10, -3}, Rect{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.in.Clamp(100, 100)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRect_Pad(t *testing.T) {
	tests := []struct {
		name string
		in   Rect
		want Rect
	}{
		{"interior", Rect{20, 20, 30, 30}, Rect{18, 18, 34, 34}},
		{"touches origin", Rect{0, 1, 10, 10}, Rect{0, 0, 12, 13}},
		{"touches far edge", Rect{90, 95, 10, 5}, Rect{88, 93, 12, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Pad(2, 100, 100); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUnion(t *testing.T) {
	if _, ok := Union(nil); ok {
		t.Error("Union of nothing should report false")
	}

	got, ok := Union([]Rect{{10, 10, 5, 5}, {30, 0, 10, 40}})
	if !ok {
		t.Fatal("Union should report true")
	}
	if want := (Rect{10, 0, 30, 40}); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
