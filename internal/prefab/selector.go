// Package prefab assigns a room template to every cell of a level graph.
package prefab

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/lawnchairsociety/roomforge/internal/catalog"
	"github.com/lawnchairsociety/roomforge/internal/geom"
	"github.com/lawnchairsociety/roomforge/internal/layout"
)

// ErrNoTemplate is returned when the catalog has no template for a cell's
// role and door pattern.
var ErrNoTemplate = errors.New("prefab: no template for role and pattern")

// Selection maps each graph cell to its chosen template.
type Selection map[geom.GridCell]*catalog.RoomTemplate

// RoleOf returns the role a cell plays in the graph.
func RoleOf(graph *layout.LevelGraph, cell geom.GridCell) catalog.Role {
	switch cell {
	case graph.Start:
		return catalog.RoleStart
	case graph.End:
		return catalog.RoleEnd
	default:
		return catalog.RoleRegular
	}
}

// Select picks a template uniformly among the catalog entries matching each
// cell's role and realized door pattern. Cells are visited in graph order so
// a given seed always yields the same selection.
func Select(graph *layout.LevelGraph, c *catalog.Catalog, rng *rand.Rand) (Selection, error) {
	selection := make(Selection, len(graph.Cells))

	for _, cell := range graph.Cells {
		role := RoleOf(graph, cell)
		pattern := graph.Pattern(cell)

		candidates := c.Match(role, pattern)
		if len(candidates) == 0 {
			return nil, fmt.Errorf("%w: cell %s needs a %s template with pattern %s",
				ErrNoTemplate, cell, role, pattern)
		}

		selection[cell] = candidates[rng.Intn(len(candidates))]
	}

	return selection, nil
}
