package geom

import (
	"fmt"
	"math/bits"
)

// ConnectionPattern is a 4-bit mask of the sides that carry a door.
// Bit d is set when a door faces DoorDirection d.
type ConnectionPattern uint8

// Canonical corridor patterns
const (
	PatternVertical    ConnectionPattern = 0b0101
	PatternHorizontal  ConnectionPattern = 0b1010
	PatternTopLeft     ConnectionPattern = 0b1001
	PatternTopRight    ConnectionPattern = 0b0011
	PatternBottomLeft  ConnectionPattern = 0b1100
	PatternBottomRight ConnectionPattern = 0b0110
)

// PatternOf builds a pattern from a list of door directions.
func PatternOf(dirs ...DoorDirection) ConnectionPattern {
	var p ConnectionPattern
	for _, d := range dirs {
		p |= d.Bit()
	}
	return p
}

// Has reports whether a door faces d.
func (p ConnectionPattern) Has(d DoorDirection) bool {
	return p&d.Bit() != 0
}

// With returns the pattern with a door added on side d.
func (p ConnectionPattern) With(d DoorDirection) ConnectionPattern {
	return p | d.Bit()
}

// DoorCount returns the number of doors in the pattern.
func (p ConnectionPattern) DoorCount() int {
	return bits.OnesCount8(uint8(p & 0b1111))
}

// IsDeadEnd reports whether exactly one door is present.
func (p ConnectionPattern) IsDeadEnd() bool {
	return p.DoorCount() == 1
}

// Directions returns the door directions present, in bit order.
func (p ConnectionPattern) Directions() []DoorDirection {
	var dirs []DoorDirection
	for _, d := range AllDirections() {
		if p.Has(d) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// StraightPattern returns the straight corridor pattern running along d.
func StraightPattern(d DoorDirection) ConnectionPattern {
	if d.IsVertical() {
		return PatternVertical
	}
	return PatternHorizontal
}

// String renders the mask as four binary digits, Left bit first.
func (p ConnectionPattern) String() string {
	return fmt.Sprintf("%04b", uint8(p&0b1111))
}
