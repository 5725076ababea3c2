package enemy

import (
	"time"

	"github.com/toyraid/engine/game/geom"
	"github.com/toyraid/engine/resource"
)

// Enemy is the runtime state of one live enemy instance. It is owned
// exclusively by the Orchestrator and mutated in place each tick by the
// behavior engine and collision passes; external callers must treat it as
// read-only between ticks.
type Enemy struct {
	ID   string
	Type *resource.EnemyType

	Pos       geom.Vec2
	Active    bool
	Destroyed bool
	Health    int
	MaxHealth int

	// HitFlash is a render marker set on damage and decayed per tick.
	HitFlash float64

	// Home is the spawn position; wandering enemies are pulled back toward it.
	Home geom.Vec2

	// Target tracking shared by every behavior.
	LastSeen  *geom.Vec2
	LostSight float64 // seconds without line of sight

	// Slow debuff, set by projectile hits and cleared once expired.
	SlowedUntil time.Time
	SlowFactor  float64

	// Drift jitter applied to non-chase behaviors.
	drift      geom.Vec2
	driftTimer float64

	state behaviorState
}

// Behavior returns the currently active behavior tag.
func (e *Enemy) Behavior() resource.Behavior {
	if e.state == nil {
		return resource.BehaviorStationary
	}
	return e.state.tag()
}

// setBehavior swaps the active behavior state wholesale. Exactly one mode is
// live at a time; every transient that belongs to the old mode is dropped
// with it.
func (e *Enemy) setBehavior(b resource.Behavior) {
	e.state = newBehaviorState(b)
}

// Slowed reports whether a slow debuff is active at the given time.
func (e *Enemy) Slowed(now time.Time) bool {
	return !e.SlowedUntil.IsZero() && now.Before(e.SlowedUntil)
}

// baseSpeed returns the enemy's unscaled speed in world units per second.
func (e *Enemy) baseSpeed(fallback float64) float64 {
	if e.Type != nil && e.Type.BaseSpeed > 0 {
		return e.Type.BaseSpeed
	}
	return fallback
}

// DamageResult is the breakdown returned by Orchestrator.Damage.
type DamageResult struct {
	Hit            bool
	Destroyed      bool
	ScoreOnHit     int
	ScoreOnDestroy int
	TotalScore     int
}
