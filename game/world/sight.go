package world

import (
	"math"

	"github.com/toyraid/engine/config"
	"github.com/toyraid/engine/game/geom"
)

// SightEngine answers line-of-sight queries against the room/door topology.
// All queries are pure; the engine holds only immutable references.
type SightEngine struct {
	grid Grid
	cfg  config.SightConfig
}

// NewSightEngine creates a SightEngine over the given floor plan.
func NewSightEngine(grid Grid, cfg config.SightConfig) *SightEngine {
	if cfg.RayStep <= 0 {
		cfg.RayStep = 0.25
	}
	return &SightEngine{grid: grid, cfg: cfg}
}

// HasLineOfSight reports whether a straight line from `from` to `to` stays
// inside rooms connected by door openings. Two points in the same room always
// see each other; walls without doors, and crossings outside a door window,
// break sight. Either endpoint off-grid means no sight.
func (s *SightEngine) HasLineOfSight(from, to geom.Vec2) bool {
	fromRoom := s.grid.RoomAt(from.X, from.Z)
	toRoom := s.grid.RoomAt(to.X, to.Z)
	if fromRoom == nil || toRoom == nil {
		return false
	}
	if fromRoom == toRoom {
		return true
	}

	delta := to.Sub(from)
	dist := delta.Len()
	if dist == 0 {
		return true
	}
	dir := delta.Scale(1 / dist)

	prev := fromRoom
	steps := int(math.Ceil(dist / s.cfg.RayStep))
	for i := 1; i <= steps; i++ {
		t := math.Min(float64(i)*s.cfg.RayStep, dist)
		p := from.Add(dir.Scale(t))
		room := s.grid.RoomAt(p.X, p.Z)
		if room == nil {
			return false
		}
		if room != prev {
			if !s.validDoorCrossing(prev, room, p) {
				return false
			}
			prev = room
		}
	}
	return true
}

// validDoorCrossing checks that moving from prev into next at point p passes
// through an open door window. Diagonal cell changes are never valid; the ray
// step is small enough that a legal crossing advances one cell on one axis.
func (s *SightEngine) validDoorCrossing(prev, next *Room, p geom.Vec2) bool {
	dgx := next.GridX - prev.GridX
	dgz := next.GridZ - prev.GridZ
	if abs(dgx)+abs(dgz) != 1 {
		return false
	}

	var door Door
	switch {
	case dgx == 1:
		door = DoorEast
	case dgx == -1:
		door = DoorWest
	case dgz == 1:
		door = DoorSouth
	default:
		door = DoorNorth
	}
	if !prev.HasDoor(door) {
		return false
	}

	// The crossing point must fall inside the door window along the wall.
	window := s.grid.DoorHalfWidth() + s.cfg.DoorTolerance
	center := DoorCenter(s.grid, prev, door)
	if door == DoorEast || door == DoorWest {
		return math.Abs(p.Z-center.Z) <= window
	}
	return math.Abs(p.X-center.X) <= window
}

// HasLineOfSightWithBlockers is HasLineOfSight plus dynamic blockers: any
// live obstacle or shelf footprint crossing the segment breaks sight.
// selfRadius widens the obstacle test so a fat requester does not think it
// can see through a gap it cannot shoot through.
func (s *SightEngine) HasLineOfSightWithBlockers(from, to geom.Vec2, selfRadius float64, obstacles []*Obstacle, shelves []*Shelf) bool {
	if !s.HasLineOfSight(from, to) {
		return false
	}
	pad := selfRadius * s.cfg.RadiusFactor
	for _, o := range obstacles {
		if !o.Blocks() {
			continue
		}
		if geom.SegmentIntersectsCircle(from, to, o.Pos, o.Radius+pad) {
			return false
		}
	}
	for _, sh := range shelves {
		if sh == nil {
			continue
		}
		if geom.SegmentIntersectsRect(from, to, sh.Footprint()) {
			return false
		}
	}
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
