package enemy

import (
	"math"
	"math/rand"
	"time"

	"github.com/toyraid/engine/config"
	"github.com/toyraid/engine/game/geom"
	"github.com/toyraid/engine/game/world"
	"github.com/toyraid/engine/resource"
)

// BehaviorEngine executes one behavior step per enemy per tick. It moves the
// enemy through the collision resolver, so a step can never walk through a
// wall even before the orchestrator's relaxation passes run.
type BehaviorEngine struct {
	sight    *world.SightEngine
	resolver *world.Resolver
	cfg      *config.Engine
	rng      *rand.Rand
}

// NewBehaviorEngine wires the engine to its collaborators. rng may be seeded
// deterministically for reproducible simulations.
func NewBehaviorEngine(sight *world.SightEngine, resolver *world.Resolver, cfg *config.Engine, rng *rand.Rand) *BehaviorEngine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &BehaviorEngine{sight: sight, resolver: resolver, cfg: cfg, rng: rng}
}

// Step advances one enemy by dt seconds toward/away from the target position.
func (be *BehaviorEngine) Step(e *Enemy, target geom.Vec2, dt float64, now time.Time, obstacles []*world.Obstacle, shelves []*world.Shelf) {
	if e == nil || !e.Active || dt <= 0 {
		return
	}
	if e.state == nil {
		e.setBehavior(e.Type.Behavior)
	}

	visible := be.sight.HasLineOfSightWithBlockers(e.Pos, target, e.Type.Radius, obstacles, shelves)
	if visible {
		seen := target
		e.LastSeen = &seen
		e.LostSight = 0
	} else {
		e.LostSight += dt
	}

	// Expired slow debuffs are cleared here rather than by the combat layer,
	// so a slowed enemy recovers even if no further projectiles fly.
	if !e.SlowedUntil.IsZero() && !now.Before(e.SlowedUntil) {
		e.SlowedUntil = time.Time{}
		e.SlowFactor = 0
	}

	switch st := e.state.(type) {
	case *chaseState:
		be.stepChase(e, st, target, visible, dt, obstacles, shelves, now)
	case *fleeState:
		be.stepFlee(e, st, target, visible, dt, obstacles, shelves, now)
	case *wanderState:
		be.stepWander(e, st, target, visible, dt, obstacles, shelves, now)
	case *patrolState:
		be.stepPatrol(e, st, dt, obstacles, shelves, now)
	case *stationaryState:
		// No movement.
	}

	be.applyDrift(e, visible, dt, obstacles, shelves)
}

// speed returns the current speed in units/second for the given behavior
// multiplier, with the slow debuff applied.
func (be *BehaviorEngine) speed(e *Enemy, multiplier float64, now time.Time) float64 {
	s := e.baseSpeed(be.cfg.Enemy.BaseSpeed) * e.Type.SpeedFactor * multiplier
	if e.Slowed(now) && e.SlowFactor > 0 {
		s *= e.SlowFactor
	}
	return s
}

// move attempts a displacement, reverting each blocked axis, and returns the
// collision result so the caller can arm its mode-specific timers.
func (be *BehaviorEngine) move(e *Enemy, delta geom.Vec2, obstacles []*world.Obstacle, shelves []*world.Shelf) world.Result {
	if delta.X == 0 && delta.Z == 0 {
		return world.Result{}
	}
	next := e.Pos.Add(delta)
	res := be.resolver.Collide(next, e.Pos, e.Type.Radius, be.cfg.Collision.WallMargin, obstacles, shelves)
	if res.BlockedX {
		next.X = e.Pos.X
	}
	if res.BlockedZ {
		next.Z = e.Pos.Z
	}
	e.Pos = next
	return res
}

// ---- Chase ----

func (be *BehaviorEngine) stepChase(e *Enemy, st *chaseState, target geom.Vec2, visible bool, dt float64, obstacles []*world.Obstacle, shelves []*world.Shelf, now time.Time) {
	st.BlockedTimer = math.Max(0, st.BlockedTimer-dt)
	st.ReplanCooldown = math.Max(0, st.ReplanCooldown-dt)

	grace := e.LostSight < be.cfg.LostSight.Timeout.Seconds()
	if !visible && !grace {
		// Target is gone: fall into wandering until sight is regained.
		e.setBehavior(resource.BehaviorWander)
		return
	}

	pursue := target
	if !visible && e.LastSeen != nil {
		pursue = *e.LastSeen
	}
	speed := be.speed(e, 1.0, now)
	if !visible {
		// Pursuing a memory, not a sighting: move at the lost-sight factor.
		speed *= be.cfg.LostSight.SlowFactor
	}

	if st.BypassTarget != nil {
		be.stepBypassing(e, st, pursue, visible, speed, dt, obstacles, shelves)
		return
	}

	dist := geom.Dist(e.Pos, pursue)
	if dist > be.cfg.Chase.MinDistance {
		dir := pursue.Sub(e.Pos).Normalize()
		res := be.move(e, dir.Scale(speed*dt), obstacles, shelves)
		if res.Blocked() {
			st.BlockedTimer = be.cfg.Chase.BlockedCooldown.Seconds()
			if st.StrafeSign == 0 {
				st.StrafeSign = 1
			}
			st.StrafeSign = -st.StrafeSign
		}
	}

	// Stuck detection: the distance to the target must shrink by a
	// speed-scaled epsilon each tick or the no-progress timer accumulates.
	newDist := geom.Dist(e.Pos, pursue)
	if st.LastDist > 0 && newDist > be.cfg.Chase.MinDistance &&
		st.LastDist-newDist < speed*dt*be.cfg.Chase.ProgressEpsilon {
		st.NoProgress += dt
	} else {
		st.NoProgress = 0
	}
	st.LastDist = newDist

	directBlocked := be.directStepBlocked(e, pursue, speed, dt, obstacles, shelves)
	needBypass := !visible || directBlocked || st.BlockedTimer > 0 ||
		st.NoProgress > be.cfg.Chase.StuckTimeout.Seconds()
	if needBypass && st.ReplanCooldown <= 0 {
		if wp := be.selectBypass(e, st, pursue, obstacles, shelves); wp != nil {
			st.BypassTarget = wp
			st.BypassTimer = 0
			st.NoProgress = 0
		} else {
			// Nothing viable this tick: take one short wander step and retry
			// once the replan cooldown allows.
			be.move(e, be.randomHeading().Scale(be.speed(e, be.cfg.Wander.Speed, now)*dt), obstacles, shelves)
			st.ReplanCooldown = be.cfg.Chase.ReplanCooldown.Seconds()
		}
	}
}

func (be *BehaviorEngine) stepBypassing(e *Enemy, st *chaseState, pursue geom.Vec2, visible bool, speed, dt float64, obstacles []*world.Obstacle, shelves []*world.Shelf) {
	st.BypassTimer += dt

	// Hard cap: a waypoint is abandoned after BypassDuration even if never
	// reached, so a bad candidate cannot trap the enemy.
	if st.BypassTimer > be.cfg.Chase.BypassDuration.Seconds() ||
		geom.Dist(e.Pos, *st.BypassTarget) < be.cfg.Chase.BypassArrive {
		st.BypassTarget = nil
		st.ReplanCooldown = be.cfg.Chase.ReplanCooldown.Seconds()
		return
	}

	// Early abandon: the direct route reopened.
	if visible && st.BlockedTimer <= 0 &&
		!be.directStepBlocked(e, pursue, speed, dt, obstacles, shelves) {
		st.BypassTarget = nil
		return
	}

	dir := st.BypassTarget.Sub(e.Pos).Normalize()
	res := be.move(e, dir.Scale(speed*dt), obstacles, shelves)
	if res.Blocked() {
		st.BlockedTimer = be.cfg.Chase.BlockedCooldown.Seconds()
	}
}

// directStepBlocked probes whether the next direct step toward the target
// would be blocked on both axes, without moving the enemy.
func (be *BehaviorEngine) directStepBlocked(e *Enemy, target geom.Vec2, speed, dt float64, obstacles []*world.Obstacle, shelves []*world.Shelf) bool {
	dir := target.Sub(e.Pos).Normalize()
	if dir.X == 0 && dir.Z == 0 {
		return false
	}
	next := e.Pos.Add(dir.Scale(speed * dt))
	res := be.resolver.Collide(next, e.Pos, e.Type.Radius, be.cfg.Collision.WallMargin, obstacles, shelves)
	return res.BlockedX && res.BlockedZ
}

// ---- Flee ----

func (be *BehaviorEngine) stepFlee(e *Enemy, st *fleeState, target geom.Vec2, visible bool, dt float64, obstacles []*world.Obstacle, shelves []*world.Shelf, now time.Time) {
	st.WallHitCooldown = math.Max(0, st.WallHitCooldown-dt)

	if !visible && e.LostSight >= be.cfg.LostSight.Timeout.Seconds() {
		e.setBehavior(resource.BehaviorWander)
		return
	}

	dist := geom.Dist(e.Pos, target)
	if dist > be.cfg.Flee.StopDistance {
		e.setBehavior(resource.BehaviorWander)
		return
	}

	if st.WallHitCooldown > 0 {
		// Just rammed something while fleeing; wander briefly instead of
		// pushing into the same blocker again.
		be.move(e, be.randomHeading().Scale(be.speed(e, be.cfg.Wander.Speed, now)*dt), obstacles, shelves)
		return
	}

	away := e.Pos.Sub(target).Normalize()
	if away.X == 0 && away.Z == 0 {
		away = be.randomHeading()
	}
	multiplier := be.cfg.Flee.SpeedFactor
	if dist < be.cfg.Flee.MinDistance {
		multiplier *= be.cfg.Flee.PanicFactor
	}
	res := be.move(e, away.Scale(be.speed(e, multiplier, now)*dt), obstacles, shelves)
	if res.Blocked() {
		st.WallHitCooldown = be.cfg.Flee.WallHitCooldown.Seconds()
	}
}

// ---- Wander ----

func (be *BehaviorEngine) stepWander(e *Enemy, st *wanderState, target geom.Vec2, visible bool, dt float64, obstacles []*world.Obstacle, shelves []*world.Shelf, now time.Time) {
	// Sight regained: hand control back to the enemy's home behavior.
	if visible {
		switch e.Type.Behavior {
		case resource.BehaviorChase:
			e.setBehavior(resource.BehaviorChase)
			return
		case resource.BehaviorFlee:
			if geom.Dist(e.Pos, target) < be.cfg.Flee.StopDistance {
				e.setBehavior(resource.BehaviorFlee)
				return
			}
		}
	}

	// Priority 1: too far from home, walk straight back.
	if geom.Dist(e.Pos, e.Home) > be.cfg.Wander.HomeRadius {
		dir := e.Home.Sub(e.Pos).Normalize()
		be.move(e, dir.Scale(be.speed(e, be.cfg.Wander.HomeReturnSpeed, now)*dt), obstacles, shelves)
		return
	}

	// Priority 2: occasionally reorient toward where the target was last seen.
	if e.LastSeen != nil && be.rng.Float64() < be.cfg.Wander.SearchLastSeenChance &&
		geom.Dist(e.Pos, *e.LastSeen) > be.cfg.Wander.SearchMinDistance {
		st.Heading = e.LastSeen.Sub(e.Pos).Normalize()
		st.Timer = be.cfg.Wander.Interval.Seconds()
	}

	// Priority 3: hold a random heading, refreshed on a fixed interval.
	st.Timer -= dt
	if st.Timer <= 0 || (st.Heading.X == 0 && st.Heading.Z == 0) {
		st.Heading = be.randomHeading()
		st.Timer = be.cfg.Wander.Interval.Seconds()
	}

	res := be.move(e, st.Heading.Scale(be.speed(e, be.cfg.Wander.Speed, now)*dt), obstacles, shelves)
	if res.Blocked() {
		// Walking into a wall: turn immediately instead of waiting out the interval.
		st.Timer = 0
	}
}

// ---- Patrol ----

func (be *BehaviorEngine) stepPatrol(e *Enemy, st *patrolState, dt float64, obstacles []*world.Obstacle, shelves []*world.Shelf, now time.Time) {
	st.Timer += dt
	sign := 1.0
	if math.Sin(st.Timer*be.cfg.Patrol.Frequency) < 0 {
		sign = -1.0
	}
	delta := geom.Vec2{X: sign * be.speed(e, be.cfg.Patrol.Speed, now) * dt}
	be.move(e, delta, obstacles, shelves)
}

// ---- Drift ----

// applyDrift adds a small lateral jitter so idle behaviors do not track
// perfectly straight lines. Suppressed during chase and without sight.
func (be *BehaviorEngine) applyDrift(e *Enemy, visible bool, dt float64, obstacles []*world.Obstacle, shelves []*world.Shelf) {
	if !visible || e.Behavior() == resource.BehaviorChase {
		return
	}
	e.driftTimer -= dt
	if e.driftTimer <= 0 {
		e.drift = be.randomHeading()
		e.driftTimer = be.cfg.Enemy.DriftInterval.Seconds()
	}
	be.move(e, e.drift.Scale(be.cfg.Enemy.DriftSpeed*dt), obstacles, shelves)
}

func (be *BehaviorEngine) randomHeading() geom.Vec2 {
	angle := be.rng.Float64() * 2 * math.Pi
	return geom.Vec2{X: math.Cos(angle), Z: math.Sin(angle)}
}
