// Package soundboard holds the button-grid layout logic and the
// configuration document consumed by the playback front end.
package soundboard

import "math"

// Layout is a rows x cols button grid. Rows and cols are always positive.
type Layout struct {
	Rows int
	Cols int
}

// Slots returns the total button capacity.
func (l Layout) Slots() int {
	return l.Rows * l.Cols
}

// IsZero reports whether the layout is unset.
func (l Layout) IsZero() bool {
	return l.Rows == 0 && l.Cols == 0
}

// PlanGrid computes the grid for n clips. The result is taller than wide or
// square (rows >= cols), never more than two rows taller than its column
// count, holds all n clips, and wastes the fewest slots subject to those
// constraints. Ties go to the first candidate found, i.e. fewer columns.
//
// The column search bound of sqrt(n)+5 is a heuristic: ample for the
// clip counts this tool sees (validated up to n=200 in tests), not proven
// for arbitrary n.
func PlanGrid(n int) Layout {
	if n <= 1 {
		return Layout{Rows: 1, Cols: 1}
	}

	best := Layout{Rows: n, Cols: 1}
	minSlots := math.MaxInt

	maxCols := int(math.Sqrt(float64(n))) + 5
	for cols := 1; cols <= maxCols; cols++ {
		for rows := cols; rows <= cols+2; rows++ {
			slots := rows * cols
			if slots >= n && slots < minSlots {
				best = Layout{Rows: rows, Cols: cols}
				minSlots = slots
			}
		}
	}

	return best
}
