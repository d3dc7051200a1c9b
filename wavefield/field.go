package wavefield

import (
	"runtime"
	"sync"
)

// Field is a dense row-major grid of instantaneous field values. Only the
// leftmost Cols columns carry computed values; the rest stay zero.
type Field struct {
	Width  int
	Height int
	Cols   int
	Values []float64
}

func NewField(width, height, cols int) *Field {
	cols = max(0, min(cols, width))
	return &Field{
		Width:  width,
		Height: height,
		Cols:   cols,
		Values: make([]float64, width*height),
	}
}

func (f *Field) At(x, y int) float64 {
	return f.Values[y*f.Width+x]
}

// Computed reports whether column x carries a computed value.
func (f *Field) Computed(x int) bool {
	return x >= 0 && x < f.Cols
}

// ParallelRows calls fn over disjoint row bands [y0, y1) covering
// [0, height). workers <= 0 uses one band per CPU; 1 runs serially.
func ParallelRows(height, workers int, fn func(y0, y1 int)) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, height)
	if workers <= 1 {
		fn(0, height)
		return
	}
	band := (height + workers - 1) / workers

	var wg sync.WaitGroup
	for y0 := 0; y0 < height; y0 += band {
		y1 := min(y0+band, height)
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(y0, y1)
		}()
	}
	wg.Wait()
}
