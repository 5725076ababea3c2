package world

import (
	"math"

	"github.com/toyraid/engine/config"
	"github.com/toyraid/engine/game/geom"
)

// Result carries per-axis blocking flags. Keeping the axes independent lets
// an entity slide along a wall instead of stopping dead.
type Result struct {
	BlockedX bool
	BlockedZ bool
}

// Blocked reports whether movement is blocked on either axis.
func (r Result) Blocked() bool { return r.BlockedX || r.BlockedZ }

func (r Result) or(o Result) Result {
	return Result{BlockedX: r.BlockedX || o.BlockedX, BlockedZ: r.BlockedZ || o.BlockedZ}
}

// Resolver adjudicates movement against walls, obstacles and shelves.
// Sources are evaluated walls first, then obstacles, then shelves, and their
// flags combine with OR per axis; no source can unblock another.
type Resolver struct {
	grid Grid
	cfg  config.CollisionConfig
}

// NewResolver creates a Resolver over the given floor plan.
func NewResolver(grid Grid, cfg config.CollisionConfig) *Resolver {
	return &Resolver{grid: grid, cfg: cfg}
}

// Grid returns the floor plan the resolver adjudicates against.
func (rs *Resolver) Grid() Grid { return rs.grid }

// WallCollision tests the new position against the walls of its room.
// An off-grid position is fully blocked. A wall within margin blocks its axis
// unless the wall has a door and the perpendicular coordinate falls inside
// the door window shrunk by margin.
func (rs *Resolver) WallCollision(newPos, oldPos geom.Vec2, margin float64) Result {
	room := rs.grid.RoomAt(newPos.X, newPos.Z)
	if room == nil {
		return Result{BlockedX: true, BlockedZ: true}
	}

	b := Bounds(rs.grid, room)
	cx := (b.MinX + b.MaxX) / 2
	cz := (b.MinZ + b.MaxZ) / 2
	window := rs.grid.DoorHalfWidth() - margin

	inDoorEW := math.Abs(newPos.Z-cz) < window // east/west doors span Z
	inDoorNS := math.Abs(newPos.X-cx) < window // north/south doors span X

	var res Result
	if newPos.X < b.MinX+margin && !(room.HasDoor(DoorWest) && inDoorEW) {
		res.BlockedX = true
	}
	if newPos.X > b.MaxX-margin && !(room.HasDoor(DoorEast) && inDoorEW) {
		res.BlockedX = true
	}
	if newPos.Z < b.MinZ+margin && !(room.HasDoor(DoorNorth) && inDoorNS) {
		res.BlockedZ = true
	}
	if newPos.Z > b.MaxZ-margin && !(room.HasDoor(DoorSouth) && inDoorNS) {
		res.BlockedZ = true
	}
	return res
}

// ObstacleCollision tests per-axis movement against live obstacles. An axis
// blocks only when moving on it alone lands inside the combined radius AND
// the motion brings the entity closer on that axis; receding movement is
// always allowed so nothing gets trapped inside a blocker.
func (rs *Resolver) ObstacleCollision(newPos, oldPos geom.Vec2, selfRadius float64, obstacles []*Obstacle) Result {
	var res Result
	for _, o := range obstacles {
		if !o.Blocks() {
			continue
		}
		combined := o.Radius + selfRadius + rs.cfg.ObstacleMargin

		xOnly := geom.Vec2{X: newPos.X, Z: oldPos.Z}
		blockedX := geom.DistSq(xOnly, o.Pos) < combined*combined &&
			math.Abs(newPos.X-o.Pos.X) < math.Abs(oldPos.X-o.Pos.X)

		zOnly := geom.Vec2{X: oldPos.X, Z: newPos.Z}
		blockedZ := geom.DistSq(zOnly, o.Pos) < combined*combined &&
			math.Abs(newPos.Z-o.Pos.Z) < math.Abs(oldPos.Z-o.Pos.Z)

		if blockedX && blockedZ {
			// Already deep inside the combined radius: free the tangential
			// axis (the one with the smaller offset from the center) so the
			// entity slides around the blocker instead of sticking to it.
			if geom.Dist(oldPos, o.Pos) < combined*rs.cfg.DeepOverlapFactor {
				if math.Abs(oldPos.X-o.Pos.X) >= math.Abs(oldPos.Z-o.Pos.Z) {
					blockedZ = false
				} else {
					blockedX = false
				}
			}
		}
		res.BlockedX = res.BlockedX || blockedX
		res.BlockedZ = res.BlockedZ || blockedZ
	}
	return res
}

// ShelfCollision tests per-axis movement against shelf footprints, using the
// same decreasing-distance scheme as obstacles with the box expanded by the
// entity radius.
func (rs *Resolver) ShelfCollision(newPos, oldPos geom.Vec2, selfRadius float64, shelves []*Shelf) Result {
	var res Result
	for _, sh := range shelves {
		if sh == nil {
			continue
		}
		rect := sh.Footprint().Expand(selfRadius + rs.cfg.ShelfMargin)

		xOnly := geom.Vec2{X: newPos.X, Z: oldPos.Z}
		blockedX := rect.Contains(xOnly) &&
			math.Abs(newPos.X-sh.Pos.X) < math.Abs(oldPos.X-sh.Pos.X)

		zOnly := geom.Vec2{X: oldPos.X, Z: newPos.Z}
		blockedZ := rect.Contains(zOnly) &&
			math.Abs(newPos.Z-sh.Pos.Z) < math.Abs(oldPos.Z-sh.Pos.Z)

		if blockedX && blockedZ && rect.Contains(oldPos) {
			if math.Abs(oldPos.X-sh.Pos.X) >= math.Abs(oldPos.Z-sh.Pos.Z) {
				blockedZ = false
			} else {
				blockedX = false
			}
		}
		res.BlockedX = res.BlockedX || blockedX
		res.BlockedZ = res.BlockedZ || blockedZ
	}
	return res
}

// Collide runs all three collision sources and ORs their per-axis flags.
func (rs *Resolver) Collide(newPos, oldPos geom.Vec2, selfRadius, wallMargin float64, obstacles []*Obstacle, shelves []*Shelf) Result {
	res := rs.WallCollision(newPos, oldPos, wallMargin)
	res = res.or(rs.ObstacleCollision(newPos, oldPos, selfRadius, obstacles))
	res = res.or(rs.ShelfCollision(newPos, oldPos, selfRadius, shelves))
	return res
}

// PushOut displaces a position out of any blocker it overlaps: radially for
// obstacle circles, along the smaller-overlap axis for shelf boxes. Run after
// movement as a correction; the per-axis tests keep most frames from ever
// needing it.
func (rs *Resolver) PushOut(pos geom.Vec2, selfRadius float64, obstacles []*Obstacle, shelves []*Shelf) geom.Vec2 {
	const skin = 0.01

	for _, o := range obstacles {
		if !o.Blocks() {
			continue
		}
		combined := o.Radius + selfRadius
		d := pos.Sub(o.Pos)
		dist := d.Len()
		if dist >= combined {
			continue
		}
		if dist == 0 {
			// Dead center: pick an arbitrary exit direction.
			d = geom.Vec2{X: 1}
			dist = 1
		}
		pos = o.Pos.Add(d.Scale((combined + skin) / dist))
	}

	for _, sh := range shelves {
		if sh == nil {
			continue
		}
		rect := sh.Footprint().Expand(selfRadius)
		if !rect.Contains(pos) {
			continue
		}
		left := pos.X - rect.MinX
		right := rect.MaxX - pos.X
		up := pos.Z - rect.MinZ
		down := rect.MaxZ - pos.Z

		minX, dx := left, -left-skin
		if right < left {
			minX, dx = right, right+skin
		}
		minZ, dz := up, -up-skin
		if down < up {
			minZ, dz = down, down+skin
		}
		if minX < minZ {
			pos.X += dx
		} else {
			pos.Z += dz
		}
	}
	return pos
}

// ClampToRoom hard-limits a position to its room interior minus margin. A
// coordinate inside a doorway window is left alone on the door's axis so
// entities can stand in the opening. Off-grid positions snap to the nearest
// valid cell center. This is the safety net behind the per-axis tests, not
// the primary collision response.
func (rs *Resolver) ClampToRoom(pos geom.Vec2, margin float64) geom.Vec2 {
	room := rs.grid.RoomAt(pos.X, pos.Z)
	if room == nil {
		return NearestCellCenter(rs.grid, pos.X, pos.Z)
	}

	b := Bounds(rs.grid, room)
	cx := (b.MinX + b.MaxX) / 2
	cz := (b.MinZ + b.MaxZ) / 2
	window := rs.grid.DoorHalfWidth() - margin
	inDoorEW := math.Abs(pos.Z-cz) < window
	inDoorNS := math.Abs(pos.X-cx) < window

	// Each bound is skipped only for its own wall's doorway, so a door on one
	// side never unclamps the opposite wall.
	clamped := pos
	if !(room.HasDoor(DoorWest) && inDoorEW) {
		clamped.X = math.Max(clamped.X, b.MinX+margin)
	}
	if !(room.HasDoor(DoorEast) && inDoorEW) {
		clamped.X = math.Min(clamped.X, b.MaxX-margin)
	}
	if !(room.HasDoor(DoorNorth) && inDoorNS) {
		clamped.Z = math.Max(clamped.Z, b.MinZ+margin)
	}
	if !(room.HasDoor(DoorSouth) && inDoorNS) {
		clamped.Z = math.Min(clamped.Z, b.MaxZ-margin)
	}
	return clamped
}

// HittingWall reports whether a point sits against a wall outside any door
// window. Unlike WallCollision the axes are not independent: any wall contact
// counts. Used with a tight margin to decide that a projectile struck a wall.
func (rs *Resolver) HittingWall(pos geom.Vec2, margin float64) bool {
	room := rs.grid.RoomAt(pos.X, pos.Z)
	if room == nil {
		return true
	}

	b := Bounds(rs.grid, room)
	cx := (b.MinX + b.MaxX) / 2
	cz := (b.MinZ + b.MaxZ) / 2
	window := rs.grid.DoorHalfWidth() - margin
	inDoorEW := math.Abs(pos.Z-cz) < window
	inDoorNS := math.Abs(pos.X-cx) < window

	if pos.X < b.MinX+margin && !(room.HasDoor(DoorWest) && inDoorEW) {
		return true
	}
	if pos.X > b.MaxX-margin && !(room.HasDoor(DoorEast) && inDoorEW) {
		return true
	}
	if pos.Z < b.MinZ+margin && !(room.HasDoor(DoorNorth) && inDoorNS) {
		return true
	}
	if pos.Z > b.MaxZ-margin && !(room.HasDoor(DoorSouth) && inDoorNS) {
		return true
	}
	return false
}
