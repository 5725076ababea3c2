package enemy

import (
	"github.com/toyraid/engine/game/geom"
	"github.com/toyraid/engine/game/world"
)

// bypassCandidate is one evaluated waypoint to the side of the direct heading.
type bypassCandidate struct {
	point      geom.Vec2
	opensSight bool
	distToGoal float64
	sign       float64
}

// better reports whether c should be preferred over other. Candidates that
// reopen line of sight to the target win outright; ties break on proximity
// to the target.
func (c bypassCandidate) better(other bypassCandidate) bool {
	if c.opensSight != other.opensSight {
		return c.opensSight
	}
	return c.distToGoal < other.distToGoal
}

// selectBypass evaluates lateral waypoints around the direct heading and
// returns the best viable one, or nil when every candidate is blocked.
//
// Candidates on the previously chosen strafe side are tried first so
// consecutive replans keep routing around the same side of a blocker instead
// of oscillating. The chosen waypoint is only verified to be immediately
// enterable; whether a collision-free path to it exists is not checked, so a
// temporarily unreachable waypoint can be selected. The bypass duration cap
// bounds the cost of that.
func (be *BehaviorEngine) selectBypass(e *Enemy, st *chaseState, target geom.Vec2, obstacles []*world.Obstacle, shelves []*world.Shelf) *geom.Vec2 {
	heading := target.Sub(e.Pos).Normalize()
	if heading.X == 0 && heading.Z == 0 {
		return nil
	}
	perp := heading.Perp()
	forward := heading.Scale(be.cfg.Chase.BypassForwardBias)

	preferred := st.StrafeSign
	if preferred == 0 {
		preferred = 1
	}
	signs := [2]float64{preferred, -preferred}
	laterals := [2]float64{be.cfg.Chase.BypassDistance, be.cfg.Chase.BypassDistance * 0.55}

	var best *bypassCandidate
	for _, sign := range signs {
		for _, lat := range laterals {
			p := e.Pos.Add(forward).Add(perp.Scale(sign * lat))
			res := be.resolver.Collide(p, e.Pos, e.Type.Radius, be.cfg.Collision.WallMargin, obstacles, shelves)
			if res.BlockedX && res.BlockedZ {
				continue
			}
			c := bypassCandidate{
				point:      p,
				opensSight: be.sight.HasLineOfSightWithBlockers(p, target, e.Type.Radius, obstacles, shelves),
				distToGoal: geom.Dist(p, target),
				sign:       sign,
			}
			if best == nil || c.better(*best) {
				candidate := c
				best = &candidate
			}
		}
	}
	if best == nil {
		return nil
	}
	st.StrafeSign = best.sign
	wp := best.point
	return &wp
}
