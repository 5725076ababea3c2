package enemy

import (
	"github.com/toyraid/engine/game/geom"
	"github.com/toyraid/engine/resource"
)

// behaviorState is the sealed sum type over per-behavior transient state.
// Each variant carries only the fields its own mode uses; switching modes
// replaces the whole value, so stale transients cannot leak across modes.
type behaviorState interface {
	tag() resource.Behavior
}

// chaseState backs both direct pursuit and the bypassing sub-mode: a non-nil
// BypassTarget means the enemy is routing around a blocker.
type chaseState struct {
	BypassTarget   *geom.Vec2
	BypassTimer    float64 // seconds committed to the current bypass
	NoProgress     float64 // seconds without meaningful closing distance
	LastDist       float64 // distance to target at the previous tick (0 = unset)
	BlockedTimer   float64 // countdown armed when movement was blocked
	ReplanCooldown float64 // countdown before another bypass may be planned
	StrafeSign     float64 // preferred lateral side, +1 or -1 (0 = no preference)
}

func (*chaseState) tag() resource.Behavior { return resource.BehaviorChase }

type fleeState struct {
	WallHitCooldown float64 // countdown forcing wander after ramming a blocker
}

func (*fleeState) tag() resource.Behavior { return resource.BehaviorFlee }

type patrolState struct {
	Timer float64 // phase accumulator for the oscillation
}

func (*patrolState) tag() resource.Behavior { return resource.BehaviorPatrol }

type wanderState struct {
	Heading geom.Vec2
	Timer   float64 // countdown to the next heading refresh
}

func (*wanderState) tag() resource.Behavior { return resource.BehaviorWander }

type stationaryState struct{}

func (*stationaryState) tag() resource.Behavior { return resource.BehaviorStationary }

func newBehaviorState(b resource.Behavior) behaviorState {
	switch b {
	case resource.BehaviorChase:
		return &chaseState{}
	case resource.BehaviorFlee:
		return &fleeState{}
	case resource.BehaviorPatrol:
		return &patrolState{}
	case resource.BehaviorWander:
		return &wanderState{}
	default:
		return &stationaryState{}
	}
}
