/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package transform

import (
	"fmt"
	"math"
)

// Point defines a point (X,Y) in Cartesian coordinates.
type Point struct {
	X float64
	Y float64
}

// NewPoint returns a Point at `(x,y)`.
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Set mutates `p` and sets to coordinates `(x, y)`.
func (p *Point) Set(x, y float64) {
	p.X, p.Y = x, y
}

// Displace returns a new Point at location `p` + `delta`.
func (p Point) Displace(delta Point) Point {
	return Point{p.X + delta.X, p.Y + delta.Y}
}

// Distance returns the distance between `a` and `b`.
func (a Point) Distance(b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Interpolate does linear interpolation between point `a` and `b` for value `t`.
func (a Point) Interpolate(b Point, t float64) Point {
	return Point{
		X: (1-t)*a.X + t*b.X,
		Y: (1-t)*a.Y + t*b.Y,
	}
}

// String returns a string describing `p`.
func (p Point) String() string {
	return fmt.Sprintf("(%.2f,%.2f)", p.X, p.Y)
}
