package combat

import (
	"github.com/toyraid/engine/game/geom"
	"github.com/toyraid/engine/resource"
)

// Projectile is one shot in flight. Prev/Pos bracket the distance covered
// since the last tick; the processor sweeps that segment so fast shots cannot
// tunnel through a target between frames. Active flips to false exactly once,
// on the first hit of any kind.
type Projectile struct {
	ID     string
	Type   *resource.ProjectileType
	Prev   geom.Vec2
	Pos    geom.Vec2
	Y      float64 // height above the floor, gates shelf overflight
	Active bool
}

// NewProjectile creates an active projectile starting at (x, z).
func NewProjectile(id string, t *resource.ProjectileType, x, z, y float64) *Projectile {
	p := geom.Vec2{X: x, Z: z}
	return &Projectile{ID: id, Type: t, Prev: p, Pos: p, Y: y, Active: true}
}
