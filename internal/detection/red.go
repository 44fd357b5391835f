package detection

import (
	"sort"

	"github.com/ironsheep/image-redact-mcp/internal/imaging"
)

// DefaultGridSize is the side length, in pixels, of one detection grid cell.
const DefaultGridSize = 5

// Options controls red annotation detection.
type Options struct {
	// GridSize is the cell size used to coarsen the image before labeling.
	// Values below 1 fall back to DefaultGridSize.
	GridSize int `json:"grid_size"`

	// Threshold is the red predicate applied to every pixel.
	Threshold imaging.Threshold `json:"threshold"`
}

// DefaultOptions returns the detection settings tuned for hand-drawn red frames.
func DefaultOptions() Options {
	return Options{GridSize: DefaultGridSize, Threshold: imaging.DefaultThreshold}
}

// componentBounds is the grid-space bounding box of one connected component.
type componentBounds struct {
	minGX, maxGX int
	minGY, maxGY int
}

// gridMask flags every cell that contains at least one red pixel.
type gridMask struct {
	w, h  int
	cells []bool
}

func buildGridMask(buf *imaging.Buffer, gridSize int, t imaging.Threshold) *gridMask {
	m := &gridMask{
		w: (buf.Width + gridSize - 1) / gridSize,
		h: (buf.Height + gridSize - 1) / gridSize,
	}
	m.cells = make([]bool, m.w*m.h)

	pix := buf.Pix
	for y := 0; y < buf.Height; y++ {
		row := (y / gridSize) * m.w
		for x := 0; x < buf.Width; x++ {
			i := (y*buf.Width + x) * 4
			if t.IsRed(pix[i], pix[i+1], pix[i+2]) {
				m.cells[row+x/gridSize] = true
			}
		}
	}
	return m
}

// label merges flagged cells into 8-connected components. Each flagged cell
// is joined with its flagged right, bottom, bottom-right and bottom-left
// neighbours in a single forward scan; the other four directions are covered
// when the neighbour itself is visited.
func (m *gridMask) label() *unionFind {
	uf := newUnionFind(len(m.cells))
	for gy := 0; gy < m.h; gy++ {
		for gx := 0; gx < m.w; gx++ {
			idx := gy*m.w + gx
			if !m.cells[idx] {
				continue
			}
			right := gx+1 < m.w
			below := gy+1 < m.h
			if right && m.cells[idx+1] {
				uf.union(idx, idx+1)
			}
			if below && m.cells[idx+m.w] {
				uf.union(idx, idx+m.w)
			}
			if right && below && m.cells[idx+m.w+1] {
				uf.union(idx, idx+m.w+1)
			}
			if gx > 0 && below && m.cells[idx+m.w-1] {
				uf.union(idx, idx+m.w-1)
			}
		}
	}
	return uf
}

// components groups flagged cells by root and returns their bounds in
// order of first appearance in a row-major scan.
func (m *gridMask) components(uf *unionFind) []componentBounds {
	index := make(map[int]int)
	var out []componentBounds
	for gy := 0; gy < m.h; gy++ {
		for gx := 0; gx < m.w; gx++ {
			idx := gy*m.w + gx
			if !m.cells[idx] {
				continue
			}
			root := uf.find(idx)
			i, ok := index[root]
			if !ok {
				index[root] = len(out)
				out = append(out, componentBounds{minGX: gx, maxGX: gx, minGY: gy, maxGY: gy})
				continue
			}
			b := &out[i]
			b.minGX = min(b.minGX, gx)
			b.maxGX = max(b.maxGX, gx)
			b.minGY = min(b.minGY, gy)
			b.maxGY = max(b.maxGY, gy)
		}
	}
	return out
}

// DetectRedBoxes finds regions enclosed by red annotation strokes.
//
// The image is split into GridSize x GridSize cells and a cell is flagged if
// any pixel inside it passes the red predicate. Flagged cells are merged into
// 8-connected components, and each component's grid bounding box is projected
// back to pixel space and clipped to the image. Components whose width or
// height does not exceed one cell are dropped as noise.
//
// The result is sorted by (Y, X) ascending so repeated calls on the same
// buffer return identical slices. An image without red pixels yields an
// empty slice.
func DetectRedBoxes(buf *imaging.Buffer, opts Options) []imaging.Rect {
	gridSize := opts.GridSize
	if gridSize < 1 {
		gridSize = DefaultGridSize
	}
	if buf == nil || buf.Width == 0 || buf.Height == 0 {
		return []imaging.Rect{}
	}

	mask := buildGridMask(buf, gridSize, opts.Threshold)
	comps := mask.components(mask.label())

	rects := make([]imaging.Rect, 0, len(comps))
	for _, b := range comps {
		x := b.minGX * gridSize
		y := b.minGY * gridSize
		w := min((b.maxGX-b.minGX+1)*gridSize, buf.Width-x)
		h := min((b.maxGY-b.minGY+1)*gridSize, buf.Height-y)
		if w <= gridSize || h <= gridSize {
			continue
		}
		rects = append(rects, imaging.Rect{X: x, Y: y, W: w, H: h})
	}

	sort.Slice(rects, func(i, j int) bool {
		a, b := rects[i], rects[j]
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.X != b.X {
			return a.X < b.X
		}
		if a.H != b.H {
			return a.H < b.H
		}
		return a.W < b.W
	})
	return rects
}

// DetectRedBox merges every detected box into one enclosing rectangle.
// It reports false when nothing was detected.
func DetectRedBox(buf *imaging.Buffer, opts Options) (imaging.Rect, bool) {
	return imaging.Union(DetectRedBoxes(buf, opts))
}
