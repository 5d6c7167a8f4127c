// Package geom provides integer schematic coordinates and the orientation
// transforms (mirror, rotate) applied to symbol pin offsets.
package geom

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidRotation is returned for rotations other than 0, 90, 180 or 270.
var ErrInvalidRotation = errors.New("geom: invalid rotation")

// Point is a position in schematic units. Y grows downward.
type Point struct {
	X int
	Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale multiplies both coordinates by k.
func (p Point) Scale(k int) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Orientation is a 90°-multiple rotation with an optional horizontal mirror.
type Orientation struct {
	Rotation int  // 0, 90, 180 or 270 degrees
	Mirror   bool // mirror about the local vertical axis, applied before rotation
}

// CheckRotation returns ErrInvalidRotation unless deg is 0, 90, 180 or 270.
func CheckRotation(deg int) error {
	switch deg {
	case 0, 90, 180, 270:
		return nil
	}
	return fmt.Errorf("%w: %d (must be 0, 90, 180 or 270)", ErrInvalidRotation, deg)
}

// Valid reports whether the rotation is a supported value.
func (o Orientation) Valid() bool {
	return CheckRotation(o.Rotation) == nil
}

// Apply transforms a symbol-local offset: mirror first, then rotate about
// the symbol origin. The order is fixed; swapping it changes every pin.
func (o Orientation) Apply(offset Point) Point {
	x, y := offset.X, offset.Y
	if o.Mirror {
		x = -x
	}
	switch o.Rotation {
	case 90:
		x, y = -y, x
	case 180:
		x, y = -x, -y
	case 270:
		x, y = y, -x
	}
	return Point{X: x, Y: y}
}

// Code returns the LTspice orientation token (R0..R270, M0..M270).
func (o Orientation) Code() string {
	prefix := "R"
	if o.Mirror {
		prefix = "M"
	}
	return fmt.Sprintf("%s%d", prefix, o.Rotation)
}

func (o Orientation) String() string {
	return o.Code()
}

// ParseOrientation is the inverse of Orientation.Code.
func ParseOrientation(code string) (Orientation, error) {
	if len(code) < 2 {
		return Orientation{}, fmt.Errorf("geom: bad orientation code %q", code)
	}
	var o Orientation
	switch code[0] {
	case 'R':
	case 'M':
		o.Mirror = true
	default:
		return Orientation{}, fmt.Errorf("geom: bad orientation code %q", code)
	}
	deg, err := strconv.Atoi(code[1:])
	if err != nil {
		return Orientation{}, fmt.Errorf("geom: bad orientation code %q: %w", code, err)
	}
	if err := CheckRotation(deg); err != nil {
		return Orientation{}, err
	}
	o.Rotation = deg
	return o, nil
}
