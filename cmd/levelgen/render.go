package main

import (
	"fmt"
	"strings"

	"github.com/lawnchairsociety/roomforge/internal/catalog"
	"github.com/lawnchairsociety/roomforge/internal/dungeon"
	"github.com/lawnchairsociety/roomforge/internal/geom"
	"github.com/lawnchairsociety/roomforge/internal/layout"
	"github.com/lawnchairsociety/roomforge/internal/prefab"
)

// renderLevel writes the full text report of a level.
func renderLevel(output *strings.Builder, level *dungeon.Level) {
	output.WriteString(fmt.Sprintf("Level (Seed: %d)\n", level.Seed))
	output.WriteString(fmt.Sprintf("Rooms: %d of %d, extra connections: %d of %d\n",
		level.Layout.RoomsGenerated, level.Layout.RoomsRequested,
		level.Layout.ExtraAdded, level.Layout.ExtraRequested))
	output.WriteString(strings.Repeat("=", 60) + "\n\n")

	renderGraph(output, level.Graph)
	output.WriteString("\n")
	renderPlacement(output, level)
	output.WriteString("\n")
	renderEncounters(output, level)

	if len(level.Warnings) > 0 {
		output.WriteString("\nWarnings:\n")
		for _, w := range level.Warnings {
			output.WriteString("  - " + w + "\n")
		}
	}
}

// renderGraph draws the room graph with up at the top. Each cell is 5 chars
// wide and 3 rows tall:
//
//	  |
//	-[S]-
//	  |
func renderGraph(output *strings.Builder, graph *layout.LevelGraph) {
	if graph == nil || graph.Size() == 0 {
		output.WriteString("  (No rooms to display)\n")
		return
	}

	lo, hi := graph.Bounds()
	for y := hi.Y; y >= lo.Y; y-- {
		var top, mid, bottom strings.Builder
		for x := lo.X; x <= hi.X; x++ {
			cell := geom.GridCell{X: x, Y: y}
			if !graph.HasCell(cell) {
				top.WriteString("     ")
				mid.WriteString("     ")
				bottom.WriteString("     ")
				continue
			}
			p := graph.Pattern(cell)

			top.WriteString(connector(p.Has(geom.Up), "  |  ", "     "))
			mid.WriteString(connector(p.Has(geom.Left), "-", " "))
			mid.WriteString("[" + roleSymbol(prefab.RoleOf(graph, cell)) + "]")
			mid.WriteString(connector(p.Has(geom.Right), "-", " "))
			bottom.WriteString(connector(p.Has(geom.Down), "  |  ", "     "))
		}
		output.WriteString(strings.TrimRight(top.String(), " ") + "\n")
		output.WriteString(strings.TrimRight(mid.String(), " ") + "\n")
		output.WriteString(strings.TrimRight(bottom.String(), " ") + "\n")
	}
	output.WriteString(getLegend())
}

func connector(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}

func roleSymbol(role catalog.Role) string {
	switch role {
	case catalog.RoleStart:
		return "S"
	case catalog.RoleEnd:
		return "E"
	default:
		return "#"
	}
}

func renderPlacement(output *strings.Builder, level *dungeon.Level) {
	if level.Placement == nil {
		return
	}
	p := level.Placement

	output.WriteString(fmt.Sprintf("Placement (slot %s, spawn %s, %d corridors)\n",
		p.Area, p.PlayerSpawn, p.CorridorCount()))
	output.WriteString(strings.Repeat("-", 40) + "\n")
	for _, room := range p.Rooms {
		output.WriteString(fmt.Sprintf("  %-8s %-18s at %s\n", room.Cell, room.Template.ID, room.Position))
		output.WriteString(fmt.Sprintf("           bounds  %s\n", room.WorldBounds()))
		output.WriteString(fmt.Sprintf("           slot    %s\n", room.Desired))
	}

	if len(p.Routes) > 0 {
		output.WriteString("\nRoutes:\n")
		for _, route := range p.Routes {
			flags := ""
			if route.Turned {
				flags += " turned"
			}
			if route.Capped {
				flags += " CAPPED"
			}
			output.WriteString(fmt.Sprintf("  %s -> %s: %d segments%s\n", route.From, route.To, route.Segments, flags))
		}
	}
}

func renderEncounters(output *strings.Builder, level *dungeon.Level) {
	output.WriteString(fmt.Sprintf("Encounters (%d rooms, %d enemies)\n", len(level.Plans), level.EnemyCount()))
	output.WriteString(strings.Repeat("-", 40) + "\n")
	if len(level.Plans) == 0 {
		output.WriteString("  (No encounters)\n")
		return
	}

	for _, plan := range level.Plans {
		output.WriteString(fmt.Sprintf("  %s %s (%s)\n", plan.Cell, plan.Template, plan.RoomType))
		for i, wave := range plan.Waves {
			counts := make(map[string]int)
			var order []string
			for _, s := range wave.Spawns {
				if counts[s.EnemyID] == 0 {
					order = append(order, s.EnemyID)
				}
				counts[s.EnemyID]++
			}
			parts := make([]string, len(order))
			for j, id := range order {
				parts[j] = fmt.Sprintf("%dx %s", counts[id], id)
			}
			output.WriteString(fmt.Sprintf("    wave %d: %s\n", i+1, strings.Join(parts, ", ")))
		}
	}
}

func getLegend() string {
	return `
Legend:
  [S] Start room (player spawn)
  [E] Exit room
  [#] Encounter room

  Connections:
  -   Horizontal corridor (left-right)
  |   Vertical corridor (up-down)
`
}
