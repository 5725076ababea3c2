package world

import "github.com/toyraid/engine/game/geom"

// Obstacle is a dynamic round blocker (crate, barrel, stacked boxes). The
// engine reads everything and writes only Hit, which a projectile sets once;
// a hit obstacle is inert for both movement and sight.
type Obstacle struct {
	ID     string
	Pos    geom.Vec2
	Radius float64
	Active bool
	Hit    bool
}

// Blocks reports whether the obstacle currently blocks movement and sight.
func (o *Obstacle) Blocks() bool { return o != nil && o.Active && !o.Hit }

// Shelf is a static axis-aligned blocker, immutable during simulation.
// Pos is the footprint center; Height gates whether projectiles fly over it.
type Shelf struct {
	Pos    geom.Vec2
	Width  float64
	Depth  float64
	Height float64
}

// Footprint returns the shelf's ground rectangle.
func (s *Shelf) Footprint() geom.Rect {
	return geom.Rect{
		MinX: s.Pos.X - s.Width/2,
		MinZ: s.Pos.Z - s.Depth/2,
		MaxX: s.Pos.X + s.Width/2,
		MaxZ: s.Pos.Z + s.Depth/2,
	}
}
