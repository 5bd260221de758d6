package isosurface

import (
	"errors"
	"fmt"
	"math"
)

// ErrShapeMismatch is returned when a sample or data buffer length does not
// match the product of the grid dimensions. Use errors.Is to test for it.
var ErrShapeMismatch = errors.New("buffer length does not match grid dimensions")

// checkShape verifies that a buffer of n elements matches dim.
func checkShape(name string, n int, dim ...int) error {
	want := 1
	for _, d := range dim {
		if d < 0 {
			return fmt.Errorf("%s: negative dimension in %v: %w", name, dim, ErrShapeMismatch)
		}
		if d == 0 {
			want = 0
		}
	}
	for _, d := range dim {
		if want == 0 {
			break
		}
		if want > math.MaxInt/d {
			return fmt.Errorf("%s: dimensions %v overflow int: %w", name, dim, ErrShapeMismatch)
		}
		want *= d
	}
	if n != want {
		return fmt.Errorf("%s has %d elements, dimensions %v require %d: %w", name, n, dim, want, ErrShapeMismatch)
	}
	return nil
}
