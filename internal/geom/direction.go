package geom

import (
	"errors"
	"fmt"
)

// ErrDiagonal is returned when a vector that is not a unit cardinal step is
// used where a door direction is required.
var ErrDiagonal = errors.New("geom: direction can not be diagonal")

// DoorDirection is one of the four sides a door can face. The value is also
// the bit position used in a ConnectionPattern.
type DoorDirection int

const (
	Up DoorDirection = iota
	Right
	Down
	Left
)

// Directions lists the unit grid steps in door-direction order (Up, Right, Down, Left).
var Directions = [4]GridCell{
	{X: 0, Y: 1},
	{X: 1, Y: 0},
	{X: 0, Y: -1},
	{X: -1, Y: 0},
}

// AllDirections returns the four door directions in bit order
func AllDirections() []DoorDirection {
	return []DoorDirection{Up, Right, Down, Left}
}

// String returns the string representation of a DoorDirection
func (d DoorDirection) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// Opposite returns the direction facing the other way.
func (d DoorDirection) Opposite() DoorDirection {
	return d ^ 2
}

// Bit returns the pattern bit for this direction.
func (d DoorDirection) Bit() ConnectionPattern {
	return ConnectionPattern(1) << uint(d)
}

// Vector returns the unit grid step for this direction.
func (d DoorDirection) Vector() GridCell {
	return Directions[d&3]
}

// IsVertical reports whether the direction runs along the Y axis.
func (d DoorDirection) IsVertical() bool {
	return d == Up || d == Down
}

// DirectionOf converts a unit grid step into a door direction.
func DirectionOf(step GridCell) (DoorDirection, error) {
	switch step {
	case GridCell{X: 1, Y: 0}:
		return Right, nil
	case GridCell{X: -1, Y: 0}:
		return Left, nil
	case GridCell{X: 0, Y: 1}:
		return Up, nil
	case GridCell{X: 0, Y: -1}:
		return Down, nil
	default:
		return 0, fmt.Errorf("%w: (%d, %d)", ErrDiagonal, step.X, step.Y)
	}
}

// ParseDirection converts a string to a DoorDirection
func ParseDirection(s string) (DoorDirection, bool) {
	switch s {
	case "up", "north":
		return Up, true
	case "right", "east":
		return Right, true
	case "down", "south":
		return Down, true
	case "left", "west":
		return Left, true
	default:
		return Up, false
	}
}
