// Package config loads level generation settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate for out-of-range or inconsistent settings.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config holds every setting the level generator reads.
type Config struct {
	// Catalog is the path of the room/corridor template YAML file.
	Catalog string `yaml:"catalog"`

	Generation GenerationConfig `yaml:"generation"`
	Encounters EncounterConfig  `yaml:"encounters"`
	RunLog     RunLogConfig     `yaml:"runlog"`
}

// GenerationConfig bounds the size of the room graph.
type GenerationConfig struct {
	// Seed drives every random choice. 0 means derive one from the clock.
	Seed int64 `yaml:"seed"`

	// MinRooms and MaxRooms bound the regular room count. The start and
	// exit rooms are added on top.
	MinRooms int `yaml:"min_rooms"`
	MaxRooms int `yaml:"max_rooms"`

	// Extra connections are a fraction of the room count.
	MinExtraConnections float64 `yaml:"min_extra_connections"`
	MaxExtraConnections float64 `yaml:"max_extra_connections"`
}

// EncounterConfig holds the enemy tables.
type EncounterConfig struct {
	Enemies    []EnemyConfig    `yaml:"enemies"`
	RoomTypes  []RoomTypeConfig `yaml:"room_types"`
	Categories []CategoryConfig `yaml:"categories"`
}

// EnemyConfig is one weighted entry of a category's enemy pool.
type EnemyConfig struct {
	ID       string  `yaml:"id"`
	Category string  `yaml:"category"`
	Weight   float64 `yaml:"weight"`
}

// RoomTypeConfig caps the wave count of a room difficulty.
type RoomTypeConfig struct {
	Name     string `yaml:"name"`
	MaxWaves int    `yaml:"max_waves"`
}

// CategoryConfig caps how many enemies of one category a wave may hold.
type CategoryConfig struct {
	Name       string `yaml:"name"`
	MaxEnemies int    `yaml:"max_enemies"`
}

// RunLogConfig selects the generation run ledger backend.
type RunLogConfig struct {
	Enabled bool `yaml:"enabled"`

	// Driver is "sqlite" or "postgres".
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlite_path"`

	// DSN is the PostgreSQL connection string.
	DSN string `yaml:"dsn"`
}

// DefaultConfig returns a small level with a single easy enemy category.
func DefaultConfig() *Config {
	return &Config{
		Catalog: "data/catalog.yaml",
		Generation: GenerationConfig{
			MinRooms:            5,
			MaxRooms:            8,
			MinExtraConnections: 0.1,
			MaxExtraConnections: 0.3,
		},
		Encounters: EncounterConfig{
			Enemies: []EnemyConfig{
				{ID: "slime", Category: "easy", Weight: 2},
				{ID: "bat", Category: "easy", Weight: 1},
			},
			RoomTypes: []RoomTypeConfig{
				{Name: "easy", MaxWaves: 3},
			},
			Categories: []CategoryConfig{
				{Name: "easy", MaxEnemies: 4},
			},
		},
		RunLog: RunLogConfig{
			Enabled:    false,
			Driver:     "sqlite",
			SQLitePath: "data/runs.db",
		},
	}
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, returns the default config with env overrides applied.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			config.applyEnv()
			return config, nil
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse %s: %w", path, err)
	}

	config.applyEnv()
	return config, nil
}

func (c *Config) applyEnv() {
	if seed := os.Getenv("LEVELGEN_SEED"); seed != "" {
		if v, err := strconv.ParseInt(seed, 10, 64); err == nil {
			c.Generation.Seed = v
		}
	}
	if catalog := os.Getenv("LEVELGEN_CATALOG"); catalog != "" {
		c.Catalog = catalog
	}
}

// Validate checks ranges and cross references between the enemy tables.
func (c *Config) Validate() error {
	g := c.Generation
	if g.MinRooms < 0 || g.MaxRooms < g.MinRooms {
		return fmt.Errorf("%w: room range [%d, %d]", ErrInvalidConfig, g.MinRooms, g.MaxRooms)
	}
	if g.MinExtraConnections < 0 || g.MaxExtraConnections < g.MinExtraConnections {
		return fmt.Errorf("%w: extra connection range [%g, %g]",
			ErrInvalidConfig, g.MinExtraConnections, g.MaxExtraConnections)
	}

	categories := make(map[string]bool, len(c.Encounters.Categories))
	for _, cat := range c.Encounters.Categories {
		if cat.Name == "" {
			return fmt.Errorf("%w: category without a name", ErrInvalidConfig)
		}
		if cat.MaxEnemies < 1 {
			return fmt.Errorf("%w: category %q max_enemies must be at least 1", ErrInvalidConfig, cat.Name)
		}
		categories[cat.Name] = true
	}

	for _, e := range c.Encounters.Enemies {
		if e.ID == "" {
			return fmt.Errorf("%w: enemy without an id", ErrInvalidConfig)
		}
		if !categories[e.Category] {
			return fmt.Errorf("%w: enemy %q has unknown category %q", ErrInvalidConfig, e.ID, e.Category)
		}
		if e.Weight <= 0 {
			return fmt.Errorf("%w: enemy %q weight must be positive", ErrInvalidConfig, e.ID)
		}
	}

	for _, rt := range c.Encounters.RoomTypes {
		if rt.MaxWaves < 1 {
			return fmt.Errorf("%w: room type %q max_waves must be at least 1", ErrInvalidConfig, rt.Name)
		}
	}

	if c.RunLog.Enabled {
		switch c.RunLog.Driver {
		case "sqlite":
			if c.RunLog.SQLitePath == "" {
				return fmt.Errorf("%w: runlog sqlite_path is empty", ErrInvalidConfig)
			}
		case "postgres":
			if c.RunLog.DSN == "" {
				return fmt.Errorf("%w: runlog dsn is empty", ErrInvalidConfig)
			}
		default:
			return fmt.Errorf("%w: unknown runlog driver %q", ErrInvalidConfig, c.RunLog.Driver)
		}
	}

	return nil
}
