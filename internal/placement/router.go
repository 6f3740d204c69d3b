package placement

import (
	"fmt"
	"math/rand"

	"github.com/lawnchairsociety/roomforge/internal/catalog"
	"github.com/lawnchairsociety/roomforge/internal/geom"
	"github.com/lawnchairsociety/roomforge/internal/logger"
	"github.com/lawnchairsociety/roomforge/internal/prefab"
)

// router lays corridor chains from a placed neighbour's door toward the slot
// of the room being placed. The running point always sits on the open door
// at the end of the chain.
type router struct {
	catalog   *catalog.Catalog
	sink      Sink
	rng       *rand.Rand
	selection prefab.Selection
}

// connect routes from neighbour to current, where d is the step from current
// to neighbour, and returns the position for the current room.
func (r *router) connect(current geom.GridCell, d geom.DoorDirection, neighbour *PlacedRoom, desired geom.Rect) (geom.Vec2, RouteReport, error) {
	report := RouteReport{From: neighbour.Cell, To: current}

	currentDoorDir := d
	neighbourDoorDir := d.Opposite()

	currentDoor, err := r.selection[current].DoorPosition(currentDoorDir)
	if err != nil {
		return geom.Vec2{}, report, err
	}

	running, err := r.turn(current, currentDoorDir, currentDoor, neighbour, desired, &report)
	if err != nil {
		return geom.Vec2{}, report, err
	}

	straight, err := r.randomCorridor(geom.StraightPattern(d))
	if err != nil {
		return geom.Vec2{}, report, err
	}

	for i := 0; ; i++ {
		if desired.ContainsPoint(running) {
			break
		}
		if i == MaxCorridorSegments {
			logger.Error("corridor chain never reached its slot",
				"from", neighbour.Cell.String(),
				"to", current.String(),
				"segments", report.Segments)
			report.Capped = true
			return running.Sub(currentDoor), report, nil
		}
		running = r.chain(straight, neighbourDoorDir, running, &report)
	}

	return running.Sub(currentDoor), report, nil
}

// turn checks whether the current room, aligned door to door with the
// neighbour, fits its slot. If not, it lays a turn-in corridor, a run of
// tangent corridors and a turn-out corridor to shift the chain sideways.
func (r *router) turn(current geom.GridCell, currentDoorDir geom.DoorDirection, currentDoor geom.Vec2, neighbour *PlacedRoom, desired geom.Rect, report *RouteReport) (geom.Vec2, error) {
	neighbourDoorDir := currentDoorDir.Opposite()

	neighbourDoor, err := neighbour.Template.DoorPosition(neighbourDoorDir)
	if err != nil {
		return geom.Vec2{}, err
	}
	running := neighbour.Position.Add(neighbourDoor)

	projected := r.selection[current].Bounds
	var correcting geom.DoorDirection

	switch neighbourDoorDir {
	case geom.Left:
		projected.X += desired.XMax() - projected.XMax()
		projected.Y = running.Y - (currentDoor.Y - projected.YMin())
		correcting = pick(projected.YMin() < desired.YMin(), geom.Up, geom.Down)
	case geom.Right:
		projected.X += desired.XMin() - projected.XMin()
		projected.Y = running.Y - (currentDoor.Y - projected.YMin())
		correcting = pick(projected.YMin() < desired.YMin(), geom.Up, geom.Down)
	case geom.Up:
		projected.Y += desired.YMin() - projected.YMin()
		projected.X = running.X - (currentDoor.X - projected.XMin())
		correcting = pick(projected.XMin() < desired.XMin(), geom.Right, geom.Left)
	case geom.Down:
		projected.Y += desired.YMax() - projected.YMax()
		projected.X = running.X - (currentDoor.X - projected.XMin())
		correcting = pick(projected.XMin() < desired.XMin(), geom.Right, geom.Left)
	}

	report.Projected = projected
	if desired.Contains(projected) {
		return running, nil
	}

	logger.Debug("corridor needs correction",
		"from", neighbour.Cell.String(),
		"to", current.String(),
		"towards", correcting.String())
	report.Turned = true

	tangent := correcting
	first, err := r.randomCorridor(geom.PatternOf(currentDoorDir, tangent))
	if err != nil {
		return geom.Vec2{}, err
	}
	side, err := r.randomCorridor(geom.StraightPattern(tangent))
	if err != nil {
		return geom.Vec2{}, err
	}
	second, err := r.randomCorridor(geom.PatternOf(neighbourDoorDir, tangent.Opposite()))
	if err != nil {
		return geom.Vec2{}, err
	}

	running = r.chain(first, tangent, running, report)

	sideExit := side.Exit(tangent)
	for i := 0; ; i++ {
		next := geom.RectFrom(running.Sub(sideExit).Add(side.Bounds.Min()), side.Bounds.Size())

		// Stretch the segment back to the slot edge facing the neighbour so
		// only the cross axis decides containment.
		switch neighbourDoorDir {
		case geom.Left:
			next.SetXMax(desired.XMax())
		case geom.Right:
			next.SetXMin(desired.XMin())
		case geom.Up:
			next.SetYMin(desired.YMin())
		case geom.Down:
			next.SetYMax(desired.YMax())
		}

		if desired.Contains(next) {
			break
		}
		if i == MaxCorridorSegments {
			logger.Error("tangent corridor run never reached its slot",
				"from", neighbour.Cell.String(),
				"to", current.String(),
				"segments", report.Segments)
			report.Capped = true
			return running, nil
		}
		running = r.chain(side, tangent, running, report)
	}

	return r.chain(second, neighbourDoorDir, running, report), nil
}

// chain places c with its exit door on the running point and returns the
// point of its entry door.
func (r *router) chain(c *catalog.CorridorTemplate, d geom.DoorDirection, running geom.Vec2, report *RouteReport) geom.Vec2 {
	exit := c.Exit(d)
	r.sink.InstantiateCorridor(c, running.Sub(exit))
	report.Segments++
	return running.Add(c.Entry(d).Sub(exit))
}

// randomCorridor picks uniformly among the corridors with pattern p.
func (r *router) randomCorridor(p geom.ConnectionPattern) (*catalog.CorridorTemplate, error) {
	candidates := r.catalog.Corridors(p)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCorridor, p)
	}
	return candidates[r.rng.Intn(len(candidates))], nil
}

func pick(cond bool, a, b geom.DoorDirection) geom.DoorDirection {
	if cond {
		return a
	}
	return b
}
