package catalog

import (
	"fmt"
	"os"

	"github.com/lawnchairsociety/roomforge/internal/geom"
	"gopkg.in/yaml.v3"
)

// CatalogYAML is the on-disk template list
type CatalogYAML struct {
	Templates []TemplateYAML `yaml:"templates"`
}

// TemplateYAML represents one template loaded from YAML
type TemplateYAML struct {
	ID         string      `yaml:"id"`
	Role       string      `yaml:"role"`
	Prefab     string      `yaml:"prefab"`
	Spawnpoint *VecYAML    `yaml:"spawnpoint"`
	Abyss      bool        `yaml:"abyss"`
	Doors      []DoorYAML  `yaml:"doors"`
	Layers     []LayerYAML `yaml:"layers"`
}

// DoorYAML represents a door loaded from YAML
type DoorYAML struct {
	Direction string   `yaml:"direction"`
	Position  VecYAML  `yaml:"position"`
	Blockers  []string `yaml:"blockers"`
}

// LayerYAML lists occupied tiles either one by one or as filled rectangles.
type LayerYAML struct {
	Name  string     `yaml:"name"`
	Fill  []FillYAML `yaml:"fill"`
	Tiles []CellYAML `yaml:"tiles"`
}

// FillYAML marks every tile in [x, x+w) x [y, y+h) as occupied.
type FillYAML struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// CellYAML is a single tile coordinate
type CellYAML struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// VecYAML is a template-local position
type VecYAML struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// LoadCatalog loads templates from a YAML file
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog builds a catalog from YAML bytes
func ParseCatalog(data []byte) (*Catalog, error) {
	var catalogYAML CatalogYAML
	if err := yaml.Unmarshal(data, &catalogYAML); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	return catalogYAML.ToCatalog()
}

// ToCatalog converts the YAML representation to a Catalog
func (cy *CatalogYAML) ToCatalog() (*Catalog, error) {
	c := New()
	for i := range cy.Templates {
		t, err := cy.Templates[i].toTemplate()
		if err != nil {
			return nil, err
		}
		if err := c.Add(t); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (ty *TemplateYAML) toTemplate() (*RoomTemplate, error) {
	role, ok := ParseRole(ty.Role)
	if !ok {
		return nil, fmt.Errorf("%w: %s has unknown role %q", ErrInvalidTemplate, ty.ID, ty.Role)
	}

	doors := make([]Door, 0, len(ty.Doors))
	for _, dy := range ty.Doors {
		dir, ok := geom.ParseDirection(dy.Direction)
		if !ok {
			return nil, fmt.Errorf("%w: %s has unknown door direction %q", ErrInvalidTemplate, ty.ID, dy.Direction)
		}
		doors = append(doors, Door{
			Direction: dir,
			Position:  geom.Vec2{X: dy.Position.X, Y: dy.Position.Y},
			Blockers:  dy.Blockers,
		})
	}

	layers := make([]TileLayer, 0, len(ty.Layers))
	for _, ly := range ty.Layers {
		layers = append(layers, ly.toLayer())
	}

	t, err := NewRoomTemplate(ty.ID, role, doors, layers)
	if err != nil {
		return nil, err
	}

	t.Prefab = ty.Prefab
	if t.Prefab == "" {
		t.Prefab = ty.ID
	}
	if ty.Spawnpoint != nil {
		t.Spawnpoint = &geom.Vec2{X: ty.Spawnpoint.X, Y: ty.Spawnpoint.Y}
	}
	t.HasAbyss = ty.Abyss

	return t, nil
}

// toLayer expands fills and explicit tiles, dropping repeats.
func (ly *LayerYAML) toLayer() TileLayer {
	layer := TileLayer{Name: ly.Name}
	seen := make(map[geom.GridCell]bool)

	add := func(c geom.GridCell) {
		if !seen[c] {
			seen[c] = true
			layer.Tiles = append(layer.Tiles, c)
		}
	}

	for _, f := range ly.Fill {
		for x := f.X; x < f.X+f.W; x++ {
			for y := f.Y; y < f.Y+f.H; y++ {
				add(geom.GridCell{X: x, Y: y})
			}
		}
	}
	for _, c := range ly.Tiles {
		add(geom.GridCell{X: c.X, Y: c.Y})
	}
	return layer
}

// CatalogFileExists checks if a catalog YAML file exists
func CatalogFileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
