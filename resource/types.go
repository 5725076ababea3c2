package resource

import (
	"fmt"
	"time"
)

// Behavior is the closed set of top-level enemy behaviors. Wander is not
// assignable from data; enemies fall into it at runtime when they lose track
// of the player.
type Behavior int

const (
	BehaviorChase Behavior = iota
	BehaviorFlee
	BehaviorPatrol
	BehaviorStationary
	BehaviorWander
)

var behaviorNames = map[string]Behavior{
	"chase":      BehaviorChase,
	"flee":       BehaviorFlee,
	"patrol":     BehaviorPatrol,
	"stationary": BehaviorStationary,
	"default":    BehaviorChase,
}

// ParseBehavior converts a data-file behavior tag into its enum value.
func ParseBehavior(s string) (Behavior, error) {
	b, ok := behaviorNames[s]
	if !ok {
		return 0, fmt.Errorf("unknown behavior tag %q", s)
	}
	return b, nil
}

func (b Behavior) String() string {
	switch b {
	case BehaviorChase:
		return "chase"
	case BehaviorFlee:
		return "flee"
	case BehaviorPatrol:
		return "patrol"
	case BehaviorStationary:
		return "stationary"
	case BehaviorWander:
		return "wander"
	}
	return "unknown"
}

// EnemyType is the static template an enemy instance is stamped from.
type EnemyType struct {
	ID             string
	Name           string
	MaxHealth      int
	BaseSpeed      float64 // world units per second; 0 means use the engine default
	SpeedFactor    float64
	Radius         float64
	Behavior       Behavior
	ScoreOnHit     int
	ScoreOnDestroy int
	// Collectible marks the "toy" variant: touching the player collects it
	// instead of dealing contact damage.
	Collectible bool
}

// SplashSpec declares area damage around a projectile impact.
type SplashSpec struct {
	Radius float64
	Damage int
}

// SlowSpec declares a movement debuff applied on a non-lethal hit.
type SlowSpec struct {
	Factor   float64
	Duration time.Duration
}

// ProjectileType is the static template describing how a projectile hits.
type ProjectileType struct {
	ID        string
	Damage    int
	HitRadius float64
	Splash    *SplashSpec
	Slow      *SlowSpec
	// Transform marks the non-lethal capture shot: the target is converted
	// instead of damaged.
	Transform bool
}
