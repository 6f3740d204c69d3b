// Package dungeon runs the full level pipeline: room graph, template
// selection, placement and encounters.
package dungeon

import (
	"fmt"
	"math/rand"

	"github.com/lawnchairsociety/roomforge/internal/catalog"
	"github.com/lawnchairsociety/roomforge/internal/config"
	"github.com/lawnchairsociety/roomforge/internal/encounter"
	"github.com/lawnchairsociety/roomforge/internal/layout"
	"github.com/lawnchairsociety/roomforge/internal/logger"
	"github.com/lawnchairsociety/roomforge/internal/placement"
	"github.com/lawnchairsociety/roomforge/internal/prefab"
	"github.com/lawnchairsociety/roomforge/internal/world"
)

// Level is a generated level with its live scene.
type Level struct {
	Seed int64

	Layout     layout.Result
	Graph      *layout.LevelGraph
	Selection  prefab.Selection
	Placement  *placement.Result
	Plans      []encounter.RoomPlan
	Encounters []*encounter.RoomEncounter

	World   *world.World
	Session *encounter.Session

	// Warnings lists every degradation the pipeline recovered from.
	Warnings []string
}

// EnemyCount returns the number of enemies planned across the level.
func (l *Level) EnemyCount() int {
	n := 0
	for _, p := range l.Plans {
		n += p.EnemyCount()
	}
	return n
}

// Generator builds levels from one configuration and catalog.
type Generator struct {
	cfg        *config.Config
	catalog    *catalog.Catalog
	encounters *encounter.Generator
}

// NewGenerator checks the configuration and the catalog and prepares the
// enemy tables.
func NewGenerator(cfg *config.Config, c *catalog.Catalog) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	enc, err := encounter.NewGenerator(cfg.Encounters)
	if err != nil {
		return nil, fmt.Errorf("failed to build encounter tables: %w", err)
	}
	return &Generator{cfg: cfg, catalog: c, encounters: enc}, nil
}

// RoomCounts draws the room and extra connection targets. The start and exit
// rooms come on top of the configured range. An inverted range yields MinRooms.
func RoomCounts(rng *rand.Rand, gen config.GenerationConfig) (rooms, extra int) {
	rooms = gen.MinRooms + rng.Intn(max(gen.MaxRooms-gen.MinRooms, 0)+1) + 2
	fraction := gen.MinExtraConnections + rng.Float64()*(gen.MaxExtraConnections-gen.MinExtraConnections)
	extra = int(float64(rooms) * fraction)
	return rooms, extra
}

// Generate builds a level. Configuration errors abort; shortfalls are
// collected in Level.Warnings.
func (g *Generator) Generate(seed int64) (*Level, error) {
	rng := rand.New(rand.NewSource(seed))
	level := &Level{Seed: seed}

	logger.Info("Generating level", "seed", seed)

	// Room graph
	rooms, extra := RoomCounts(rng, g.cfg.Generation)
	level.Layout = layout.Generate(rng, rooms, extra, g.catalog.AllowedPatterns())
	level.Graph = level.Layout.Graph

	if level.Layout.RoomsGenerated < level.Layout.RoomsRequested {
		level.warn("generated %d of %d rooms", level.Layout.RoomsGenerated, level.Layout.RoomsRequested)
	}
	if level.Layout.ExtraAdded < level.Layout.ExtraRequested {
		level.warn("added %d of %d extra connections", level.Layout.ExtraAdded, level.Layout.ExtraRequested)
	}

	// Templates
	selection, err := prefab.Select(level.Graph, g.catalog, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to select templates: %w", err)
	}
	level.Selection = selection

	// Scene and placement
	level.World = world.NewWorld(seed)
	level.Session = encounter.NewSession()
	level.World.SetBus(level.Session.Bus)

	placed, err := placement.NewInstantiator(g.catalog, level.World, rng).Place(level.Graph, selection)
	if err != nil {
		return nil, fmt.Errorf("failed to place level: %w", err)
	}
	level.Placement = placed

	for _, route := range placed.CappedRoutes() {
		level.warn("corridor %s -> %s hit the %d segment cap", route.From, route.To, placement.MaxCorridorSegments)
	}

	// Encounters
	level.Plans = g.encounters.Generate(rng, placed)
	for _, plan := range level.Plans {
		if plan.Truncated > 0 {
			level.warn("room %s dropped %d enemies for lack of floor", plan.Cell, plan.Truncated)
		}
	}
	level.Encounters = encounter.Attach(level.Session, level.Plans, level.World, level.World.Doors)

	logger.Info("Level generated",
		"seed", seed,
		"rooms", len(placed.Rooms),
		"corridors", placed.CorridorCount(),
		"encounters", len(level.Encounters),
		"warnings", len(level.Warnings))

	return level, nil
}

// warn records a degradation. The stage that hit it has already logged it.
func (l *Level) warn(format string, args ...any) {
	l.Warnings = append(l.Warnings, fmt.Sprintf(format, args...))
}
