package spritepane

import (
	"image"
	"math"
)

// Layout is the grid arrangement of a resolution set. Images fill rows
// left to right in input order; each row is as tall as its tallest image.
type Layout struct {
	Columns    int
	Rows       int
	RowWidths  []int
	RowHeights []int

	// Cells holds the top-left corner of each image, by input index
	Cells []image.Point

	// Size is the size of the pane
	Size image.Point
}

// columns returns floor(sqrt(n)) without trusting floating point rounding
func columns(n int) int {
	c := int(math.Sqrt(float64(n)))
	for c*c > n {
		c--
	}
	for (c+1)*(c+1) <= n {
		c++
	}
	return c
}

// NewLayout computes the layout for images of the given sizes. The grid
// always has floor(sqrt(n)) columns so that coordinates stay stable for a
// given input order.
func NewLayout(sizes []image.Point) (*Layout, error) {
	n := len(sizes)
	if n == 0 {
		return nil, ErrNoImages
	}

	l := &Layout{
		Columns: columns(n),
		Cells:   make([]image.Point, n),
	}
	l.Rows = (n + l.Columns - 1) / l.Columns
	l.RowWidths = make([]int, l.Rows)
	l.RowHeights = make([]int, l.Rows)

	for i, s := range sizes {
		row := i / l.Columns
		if s.Y > l.RowHeights[row] {
			l.RowHeights[row] = s.Y
		}
		l.RowWidths[row] += s.X
	}

	for row := 0; row < l.Rows; row++ {
		if l.RowWidths[row] > l.Size.X {
			l.Size.X = l.RowWidths[row]
		}
		l.Size.Y += l.RowHeights[row]
	}

	var x, y int
	for i, s := range sizes {
		l.Cells[i] = image.Pt(x, y)
		x += s.X
		if i%l.Columns == l.Columns-1 {
			x = 0
			y += l.RowHeights[i/l.Columns]
		}
	}

	return l, nil
}
