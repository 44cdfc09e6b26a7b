// Package coords provides page-space geometry for the viewer core:
// points, rectangles and affine transforms used for placement,
// hit-testing and render requests.
package coords

import (
	"errors"
	"math"
)

// Point is a location in PDF page coordinates.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in page coordinates.
// Llx/Lly is the lower-left corner, Urx/Ury the upper-right.
type Rect struct {
	Llx, Lly, Urx, Ury float64
}

// NewRect returns the rectangle spanning the two corner points,
// normalized so that Llx <= Urx and Lly <= Ury.
func NewRect(x0, y0, x1, y1 float64) Rect {
	return Rect{
		Llx: math.Min(x0, x1),
		Lly: math.Min(y0, y1),
		Urx: math.Max(x0, x1),
		Ury: math.Max(y0, y1),
	}
}

func (r Rect) Width() float64  { return r.Urx - r.Llx }
func (r Rect) Height() float64 { return r.Ury - r.Lly }

// Contains reports whether the point lies inside the rectangle.
// Points on the boundary are inside.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Llx && p.X <= r.Urx && p.Y >= r.Lly && p.Y <= r.Ury
}

// Intersects reports whether the two rectangles overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.Llx <= o.Urx && o.Llx <= r.Urx && r.Lly <= o.Ury && o.Lly <= r.Ury
}

// Matrix is a PDF-style affine transform [a b c d e f].
type Matrix [6]float64

// Identity returns the identity transform.
func Identity() Matrix { return Matrix{1, 0, 0, 1, 0, 0} }

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Matrix { return Matrix{1, 0, 0, 1, tx, ty} }

// Scale returns a scale by (sx, sy).
func Scale(sx, sy float64) Matrix { return Matrix{sx, 0, 0, sy, 0, 0} }

// Rotate returns a counterclockwise rotation by angle radians.
func Rotate(angle float64) Matrix {
	c := math.Cos(angle)
	s := math.Sin(angle)
	return Matrix{c, s, -s, c, 0, 0}
}

// Multiply returns m followed by o.
func (m Matrix) Multiply(o Matrix) Matrix {
	return Matrix{
		m[0]*o[0] + m[1]*o[2],
		m[0]*o[1] + m[1]*o[3],
		m[2]*o[0] + m[3]*o[2],
		m[2]*o[1] + m[3]*o[3],
		m[4]*o[0] + m[5]*o[2] + o[4],
		m[4]*o[1] + m[5]*o[3] + o[5],
	}
}

// Transform applies the matrix to a point.
func (m Matrix) Transform(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// TransformRect applies the matrix to a rectangle, returning the
// axis-aligned bounding box of the transformed corners.
func (m Matrix) TransformRect(r Rect) Rect {
	corners := [4]Point{
		{r.Llx, r.Lly},
		{r.Urx, r.Lly},
		{r.Llx, r.Ury},
		{r.Urx, r.Ury},
	}
	out := Rect{Llx: math.Inf(1), Lly: math.Inf(1), Urx: math.Inf(-1), Ury: math.Inf(-1)}
	for _, c := range corners {
		p := m.Transform(c)
		out.Llx = math.Min(out.Llx, p.X)
		out.Lly = math.Min(out.Lly, p.Y)
		out.Urx = math.Max(out.Urx, p.X)
		out.Ury = math.Max(out.Ury, p.Y)
	}
	return out
}

// ErrSingular is returned by Inverse for non-invertible matrices.
var ErrSingular = errors.New("matrix singular")

// Inverse returns the inverse transform.
func (m Matrix) Inverse() (Matrix, error) {
	det := m[0]*m[3] - m[1]*m[2]
	if math.Abs(det) < 1e-10 {
		return Matrix{}, ErrSingular
	}
	return Matrix{
		m[3] / det,
		-m[1] / det,
		-m[2] / det,
		m[0] / det,
		(m[2]*m[5] - m[3]*m[4]) / det,
		(m[1]*m[4] - m[0]*m[5]) / det,
	}, nil
}
