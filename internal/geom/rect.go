package geom

import "fmt"

// Vec2 is a world-space position or offset.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * k
func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

// Neg returns -v
func (v Vec2) Neg() Vec2 {
	return Vec2{X: -v.X, Y: -v.Y}
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

// GridCell is an integer coordinate identifying one room's logical slot.
type GridCell struct {
	X, Y int
}

// Add returns the cell offset by step.
func (c GridCell) Add(step GridCell) GridCell {
	return GridCell{X: c.X + step.X, Y: c.Y + step.Y}
}

// Neighbor returns the adjacent cell in direction d.
func (c GridCell) Neighbor(d DoorDirection) GridCell {
	return c.Add(d.Vector())
}

// Less orders cells by X then Y.
func (c GridCell) Less(o GridCell) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	return c.Y < o.Y
}

// ToVec2 converts the cell to a world-space vector.
func (c GridCell) ToVec2() Vec2 {
	return Vec2{X: float64(c.X), Y: float64(c.Y)}
}

func (c GridCell) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// Rect is an axis-aligned rectangle given by its min corner and size.
type Rect struct {
	X, Y float64
	W, H float64
}

// RectFrom builds a rectangle from a min corner and a size.
func RectFrom(corner, size Vec2) Rect {
	return Rect{X: corner.X, Y: corner.Y, W: size.X, H: size.Y}
}

func (r Rect) XMin() float64 { return r.X }
func (r Rect) XMax() float64 { return r.X + r.W }
func (r Rect) YMin() float64 { return r.Y }
func (r Rect) YMax() float64 { return r.Y + r.H }

// Min returns the min corner.
func (r Rect) Min() Vec2 { return Vec2{X: r.X, Y: r.Y} }

// Size returns the width and height.
func (r Rect) Size() Vec2 { return Vec2{X: r.W, Y: r.H} }

// Center returns the midpoint.
func (r Rect) Center() Vec2 { return Vec2{X: r.X + r.W/2, Y: r.Y + r.H/2} }

// SetXMin moves the left edge, keeping the right edge in place.
func (r *Rect) SetXMin(v float64) {
	right := r.XMax()
	r.X = v
	r.W = right - v
}

// SetXMax moves the right edge, keeping the left edge in place.
func (r *Rect) SetXMax(v float64) {
	r.W = v - r.X
}

// SetYMin moves the bottom edge, keeping the top edge in place.
func (r *Rect) SetYMin(v float64) {
	top := r.YMax()
	r.Y = v
	r.H = top - v
}

// SetYMax moves the top edge, keeping the bottom edge in place.
func (r *Rect) SetYMax(v float64) {
	r.H = v - r.Y
}

// Translate returns the rectangle moved by offset.
func (r Rect) Translate(offset Vec2) Rect {
	return Rect{X: r.X + offset.X, Y: r.Y + offset.Y, W: r.W, H: r.H}
}

// Contains reports whether other lies fully inside r. Shared edges count as inside.
func (r Rect) Contains(other Rect) bool {
	return r.XMin() <= other.XMin() &&
		other.XMax() <= r.XMax() &&
		r.YMin() <= other.YMin() &&
		other.YMax() <= r.YMax()
}

// ContainsPoint reports whether p lies inside r. The min edges are inclusive,
// the max edges exclusive.
func (r Rect) ContainsPoint(p Vec2) bool {
	return p.X >= r.XMin() && p.X < r.XMax() && p.Y >= r.YMin() && p.Y < r.YMax()
}

func (r Rect) String() string {
	return fmt.Sprintf("[x=%g y=%g w=%g h=%g]", r.X, r.Y, r.W, r.H)
}
