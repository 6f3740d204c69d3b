// Package catalog holds the room and corridor templates a level is built from.
package catalog

import (
	"fmt"
	"sort"

	"github.com/lawnchairsociety/roomforge/internal/geom"
	"github.com/zyedidia/generic/mapset"
)

// Catalog indexes templates by role and corridors by door pattern.
type Catalog struct {
	byID      map[string]*RoomTemplate
	rooms     map[Role][]*RoomTemplate
	corridors map[geom.ConnectionPattern][]*CorridorTemplate
	order     []*RoomTemplate
}

// New creates an empty catalog
func New() *Catalog {
	return &Catalog{
		byID:      make(map[string]*RoomTemplate),
		rooms:     make(map[Role][]*RoomTemplate),
		corridors: make(map[geom.ConnectionPattern][]*CorridorTemplate),
	}
}

// Add registers a template. Corridor templates must have exactly two doors.
func (c *Catalog) Add(t *RoomTemplate) error {
	if _, exists := c.byID[t.ID]; exists {
		return fmt.Errorf("%w: duplicate id %s", ErrInvalidTemplate, t.ID)
	}

	if t.Role == RoleCorridor {
		corridor, err := NewCorridorTemplate(t)
		if err != nil {
			return err
		}
		c.corridors[t.Pattern()] = append(c.corridors[t.Pattern()], corridor)
	}

	c.byID[t.ID] = t
	c.rooms[t.Role] = append(c.rooms[t.Role], t)
	c.order = append(c.order, t)
	return nil
}

// Get returns the template with the given id, or nil.
func (c *Catalog) Get(id string) *RoomTemplate {
	return c.byID[id]
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	return len(c.order)
}

// All returns every template in insertion order.
func (c *Catalog) All() []*RoomTemplate {
	return c.order
}

// Templates returns the templates of a role in insertion order.
func (c *Catalog) Templates(role Role) []*RoomTemplate {
	return c.rooms[role]
}

// Match returns the templates of a role whose door pattern equals pattern.
func (c *Catalog) Match(role Role, pattern geom.ConnectionPattern) []*RoomTemplate {
	var out []*RoomTemplate
	for _, t := range c.rooms[role] {
		if t.Pattern() == pattern {
			out = append(out, t)
		}
	}
	return out
}

// Corridors returns the corridor templates with the given pattern.
func (c *Catalog) Corridors(pattern geom.ConnectionPattern) []*CorridorTemplate {
	return c.corridors[pattern]
}

// AllCorridors returns every corridor template ordered by pattern, then insertion.
func (c *Catalog) AllCorridors() []*CorridorTemplate {
	patterns := make([]geom.ConnectionPattern, 0, len(c.corridors))
	for p := range c.corridors {
		patterns = append(patterns, p)
	}
	sort.Slice(patterns, func(i, j int) bool { return patterns[i] < patterns[j] })

	var out []*CorridorTemplate
	for _, p := range patterns {
		out = append(out, c.corridors[p]...)
	}
	return out
}

// AllowedPatterns returns the door patterns of every start, regular and end
// template. Corridor patterns are left out so each allowed pattern has a room.
func (c *Catalog) AllowedPatterns() mapset.Set[geom.ConnectionPattern] {
	allowed := mapset.New[geom.ConnectionPattern]()
	for _, t := range c.order {
		if t.Role.IsRoom() {
			allowed.Put(t.Pattern())
		}
	}
	return allowed
}

// Validate checks that a level can be started from this catalog.
func (c *Catalog) Validate() error {
	starts := c.rooms[RoleStart]
	if len(starts) == 0 {
		return fmt.Errorf("%w: catalog has no start templates", ErrInvalidTemplate)
	}
	for _, t := range starts {
		if t.Spawnpoint == nil {
			return fmt.Errorf("%w: start template %s has no spawnpoint", ErrInvalidTemplate, t.ID)
		}
	}

	for p, list := range c.corridors {
		if p.DoorCount() != 2 {
			return fmt.Errorf("%w: corridor %s has pattern %s", ErrInvalidTemplate, list[0].ID, p)
		}
	}
	return nil
}
