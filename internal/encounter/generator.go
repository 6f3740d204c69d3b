// Package encounter composes enemy waves for regular rooms and runs them in
// sequence once the player walks in.
package encounter

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/lawnchairsociety/roomforge/internal/catalog"
	"github.com/lawnchairsociety/roomforge/internal/config"
	"github.com/lawnchairsociety/roomforge/internal/geom"
	"github.com/lawnchairsociety/roomforge/internal/logger"
	"github.com/lawnchairsociety/roomforge/internal/placement"
)

var (
	// ErrUnknownCategory is returned for an enemy whose category has no limits.
	ErrUnknownCategory = errors.New("encounter: unknown enemy category")
	// ErrNoRoomTypes is returned when no room difficulty is configured.
	ErrNoRoomTypes = errors.New("encounter: no room types configured")
	// ErrBadLimit is returned for a wave or enemy maximum below 1.
	ErrBadLimit = errors.New("encounter: limit must be at least 1")
)

// Spawn is one enemy of a wave.
type Spawn struct {
	EnemyID  string
	Category string
	Position geom.Vec2
}

// WaveSpec lists the enemies of one wave.
type WaveSpec struct {
	Spawns []Spawn
}

// Size returns the number of enemies in the wave.
func (w WaveSpec) Size() int {
	return len(w.Spawns)
}

// RoomPlan is the encounter composed for one regular room.
type RoomPlan struct {
	Cell     geom.GridCell
	Template string
	RoomType string
	Waves    []WaveSpec

	// Truncated counts enemies dropped for lack of floor tiles.
	Truncated int
}

// EnemyCount returns the number of enemies across every wave.
func (p RoomPlan) EnemyCount() int {
	n := 0
	for _, w := range p.Waves {
		n += w.Size()
	}
	return n
}

// Generator composes waves from the configured enemy tables.
type Generator struct {
	pools      map[string]*Picker
	categories []string
	maxEnemies map[string]int
	roomTypes  []config.RoomTypeConfig
}

// NewGenerator groups the enemy table by category and builds a weighted pool
// for each non-empty category.
func NewGenerator(cfg config.EncounterConfig) (*Generator, error) {
	if len(cfg.RoomTypes) == 0 {
		return nil, ErrNoRoomTypes
	}

	for _, rt := range cfg.RoomTypes {
		if rt.MaxWaves < 1 {
			return nil, fmt.Errorf("%w: room type %s has max_waves %d", ErrBadLimit, rt.Name, rt.MaxWaves)
		}
	}

	g := &Generator{
		pools:      make(map[string]*Picker),
		maxEnemies: make(map[string]int, len(cfg.Categories)),
		roomTypes:  append([]config.RoomTypeConfig(nil), cfg.RoomTypes...),
	}
	for _, c := range cfg.Categories {
		if c.MaxEnemies < 1 {
			return nil, fmt.Errorf("%w: category %s has max_enemies %d", ErrBadLimit, c.Name, c.MaxEnemies)
		}
		g.maxEnemies[c.Name] = c.MaxEnemies
	}

	ids := make(map[string][]string)
	weights := make(map[string][]float64)
	for _, e := range cfg.Enemies {
		if _, ok := g.maxEnemies[e.Category]; !ok {
			return nil, fmt.Errorf("%w: %s (enemy %s)", ErrUnknownCategory, e.Category, e.ID)
		}
		ids[e.Category] = append(ids[e.Category], e.ID)
		weights[e.Category] = append(weights[e.Category], e.Weight)
	}

	// Categories keep their configured order; empty ones are never drawn.
	for _, c := range cfg.Categories {
		if len(ids[c.Name]) == 0 {
			continue
		}
		p, err := NewPicker(ids[c.Name], weights[c.Name])
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", c.Name, err)
		}
		g.pools[c.Name] = p
		g.categories = append(g.categories, c.Name)
	}

	return g, nil
}

// Categories returns the categories that have at least one enemy.
func (g *Generator) Categories() []string {
	return append([]string(nil), g.categories...)
}

// Generate plans an encounter for every regular room of a placed level.
func (g *Generator) Generate(rng *rand.Rand, placed *placement.Result) []RoomPlan {
	var plans []RoomPlan
	for _, room := range placed.Rooms {
		if room.Template.Role != catalog.RoleRegular {
			continue
		}
		plan := g.Plan(rng, room)
		if len(plan.Waves) == 0 {
			continue
		}
		plans = append(plans, plan)
	}

	logger.Info("encounters generated", "rooms", len(plans))
	return plans
}

// Plan composes the waves of a single room.
func (g *Generator) Plan(rng *rand.Rand, room *placement.PlacedRoom) RoomPlan {
	roomType := g.roomTypes[rng.Intn(len(g.roomTypes))]
	plan := RoomPlan{
		Cell:     room.Cell,
		Template: room.Template.ID,
		RoomType: roomType.Name,
	}

	tiles := room.Template.FloorTiles()
	if len(tiles) == 0 || len(g.categories) == 0 {
		logger.Warning("room has nothing to spawn",
			"cell", room.Cell.String(),
			"template", room.Template.ID,
			"floor_tiles", len(tiles),
			"categories", len(g.categories))
		return plan
	}

	count := 1 + rng.Intn(roomType.MaxWaves)
	for i := 0; i < count; i++ {
		wave, dropped := g.wave(rng, room, tiles)
		if dropped > 0 {
			logger.Warning("wave larger than the room floor",
				"cell", room.Cell.String(),
				"wave", i,
				"dropped", dropped,
				"floor_tiles", len(tiles))
		}
		plan.Truncated += dropped
		plan.Waves = append(plan.Waves, wave)
	}

	logger.Debug("room encounter planned",
		"cell", room.Cell.String(),
		"room_type", plan.RoomType,
		"waves", len(plan.Waves),
		"enemies", plan.EnemyCount())
	return plan
}

// wave draws distinct categories, a quantity per category and a weighted
// enemy per slot, then scatters them over shuffled floor tiles.
func (g *Generator) wave(rng *rand.Rand, room *placement.PlacedRoom, tiles []geom.GridCell) (WaveSpec, int) {
	categories := g.Categories()
	geom.Shuffle(rng, categories)
	categories = categories[:1+rng.Intn(len(categories))]

	var spawns []Spawn
	for _, category := range categories {
		quantity := 1 + rng.Intn(g.maxEnemies[category])
		pool := g.pools[category]
		for j := 0; j < quantity; j++ {
			spawns = append(spawns, Spawn{
				EnemyID:  pool.Pick(rng),
				Category: category,
			})
		}
	}

	spots := append([]geom.GridCell(nil), tiles...)
	geom.Shuffle(rng, spots)

	dropped := 0
	if len(spawns) > len(spots) {
		dropped = len(spawns) - len(spots)
		spawns = spawns[:len(spots)]
	}

	half := geom.Vec2{X: 0.5, Y: 0.5}
	for i := range spawns {
		spawns[i].Position = room.Position.Add(spots[i].ToVec2()).Add(half)
	}

	return WaveSpec{Spawns: spawns}, dropped
}
