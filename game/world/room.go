package world

import (
	"math"

	"github.com/toyraid/engine/game/geom"
)

// Door identifies one of the four walls of a room.
type Door int

const (
	DoorNorth Door = iota // -Z wall
	DoorSouth             // +Z wall
	DoorEast              // +X wall
	DoorWest              // -X wall
)

func (d Door) String() string {
	switch d {
	case DoorNorth:
		return "north"
	case DoorSouth:
		return "south"
	case DoorEast:
		return "east"
	case DoorWest:
		return "west"
	}
	return "unknown"
}

// Opposite returns the wall a neighbouring room shares with this one.
func (d Door) Opposite() Door {
	switch d {
	case DoorNorth:
		return DoorSouth
	case DoorSouth:
		return DoorNorth
	case DoorEast:
		return DoorWest
	default:
		return DoorEast
	}
}

// Room is one cell of the store floor plan. Immutable after construction.
type Room struct {
	GridX, GridZ int
	Doors        map[Door]bool
}

// HasDoor reports whether the given wall has an opening.
func (r *Room) HasDoor(d Door) bool { return r != nil && r.Doors[d] }

// Grid resolves world coordinates to rooms. The engine only consumes this
// interface; the concrete floor plan is owned by the level builder.
type Grid interface {
	// RoomAt returns the room containing the world point, or nil off-grid.
	RoomAt(x, z float64) *Room
	// Size returns the grid extent in cells.
	Size() (w, h int)
	// RoomSpan is the world-space side length of one room cell.
	RoomSpan() float64
	// DoorHalfWidth is half the lateral span of every door opening.
	DoorHalfWidth() float64
}

// Bounds returns the world-space extent of a room on g.
func Bounds(g Grid, r *Room) geom.Rect {
	span := g.RoomSpan()
	return geom.Rect{
		MinX: float64(r.GridX) * span,
		MinZ: float64(r.GridZ) * span,
		MaxX: float64(r.GridX+1) * span,
		MaxZ: float64(r.GridZ+1) * span,
	}
}

// DoorCenter returns the midpoint of the given wall of a room.
func DoorCenter(g Grid, r *Room, d Door) geom.Vec2 {
	b := Bounds(g, r)
	cx := (b.MinX + b.MaxX) / 2
	cz := (b.MinZ + b.MaxZ) / 2
	switch d {
	case DoorNorth:
		return geom.Vec2{X: cx, Z: b.MinZ}
	case DoorSouth:
		return geom.Vec2{X: cx, Z: b.MaxZ}
	case DoorEast:
		return geom.Vec2{X: b.MaxX, Z: cz}
	default:
		return geom.Vec2{X: b.MinX, Z: cz}
	}
}

// GridMap is the standard Grid implementation: a dense rectangle of rooms.
type GridMap struct {
	width, height int
	span          float64
	doorHalfWidth float64
	rooms         map[[2]int]*Room
}

// NewGridMap creates an empty floor plan of width×height cells.
func NewGridMap(width, height int, span, doorHalfWidth float64) *GridMap {
	return &GridMap{
		width:         width,
		height:        height,
		span:          span,
		doorHalfWidth: doorHalfWidth,
		rooms:         make(map[[2]int]*Room),
	}
}

// AddRoom registers a room at (gx, gz) with the given door set. Rooms outside
// the grid extent are ignored.
func (g *GridMap) AddRoom(gx, gz int, doors ...Door) *Room {
	if gx < 0 || gx >= g.width || gz < 0 || gz >= g.height {
		return nil
	}
	r := &Room{GridX: gx, GridZ: gz, Doors: make(map[Door]bool, len(doors))}
	for _, d := range doors {
		r.Doors[d] = true
	}
	g.rooms[[2]int{gx, gz}] = r
	return r
}

// RoomAt implements Grid.
func (g *GridMap) RoomAt(x, z float64) *Room {
	gx := int(math.Floor(x / g.span))
	gz := int(math.Floor(z / g.span))
	return g.rooms[[2]int{gx, gz}]
}

// RoomAtCell returns the room at grid coordinates, or nil.
func (g *GridMap) RoomAtCell(gx, gz int) *Room {
	return g.rooms[[2]int{gx, gz}]
}

// Size implements Grid.
func (g *GridMap) Size() (int, int) { return g.width, g.height }

// RoomSpan implements Grid.
func (g *GridMap) RoomSpan() float64 { return g.span }

// DoorHalfWidth implements Grid.
func (g *GridMap) DoorHalfWidth() float64 { return g.doorHalfWidth }

// CellCenter returns the world-space center of cell (gx, gz).
func CellCenter(g Grid, gx, gz int) geom.Vec2 {
	span := g.RoomSpan()
	return geom.Vec2{
		X: (float64(gx) + 0.5) * span,
		Z: (float64(gz) + 0.5) * span,
	}
}

// NearestCellCenter snaps an arbitrary world point to the center of the
// closest in-bounds cell. Used as the last resort for off-grid positions.
func NearestCellCenter(g Grid, x, z float64) geom.Vec2 {
	w, h := g.Size()
	span := g.RoomSpan()
	gx := int(math.Floor(x / span))
	gz := int(math.Floor(z / span))
	if gx < 0 {
		gx = 0
	}
	if gx >= w {
		gx = w - 1
	}
	if gz < 0 {
		gz = 0
	}
	if gz >= h {
		gz = h - 1
	}
	return CellCenter(g, gx, gz)
}
