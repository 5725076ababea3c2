package resource

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownType is returned when a type ID has no registered template.
var ErrUnknownType = errors.New("unknown type id")

// Registry resolves enemy and projectile type IDs to their templates. It is
// built once at startup and injected wherever type lookup is needed; nothing
// in the engine consults a global table.
type Registry struct {
	enemies     map[string]*EnemyType
	projectiles map[string]*ProjectileType
}

// NewRegistry builds a registry from explicit template lists. Duplicate IDs
// are an error so data-file mistakes surface at startup, not mid-game.
func NewRegistry(enemies []*EnemyType, projectiles []*ProjectileType) (*Registry, error) {
	r := &Registry{
		enemies:     make(map[string]*EnemyType, len(enemies)),
		projectiles: make(map[string]*ProjectileType, len(projectiles)),
	}
	for _, e := range enemies {
		if e == nil || e.ID == "" {
			return nil, errors.New("enemy type missing id")
		}
		if _, dup := r.enemies[e.ID]; dup {
			return nil, fmt.Errorf("duplicate enemy type %q", e.ID)
		}
		r.enemies[e.ID] = e
	}
	for _, p := range projectiles {
		if p == nil || p.ID == "" {
			return nil, errors.New("projectile type missing id")
		}
		if _, dup := r.projectiles[p.ID]; dup {
			return nil, fmt.Errorf("duplicate projectile type %q", p.ID)
		}
		r.projectiles[p.ID] = p
	}
	return r, nil
}

// EnemyType returns the template for id, or ErrUnknownType.
func (r *Registry) EnemyType(id string) (*EnemyType, error) {
	t, ok := r.enemies[id]
	if !ok {
		return nil, fmt.Errorf("enemy %q: %w", id, ErrUnknownType)
	}
	return t, nil
}

// ProjectileType returns the template for id, or ErrUnknownType.
func (r *Registry) ProjectileType(id string) (*ProjectileType, error) {
	t, ok := r.projectiles[id]
	if !ok {
		return nil, fmt.Errorf("projectile %q: %w", id, ErrUnknownType)
	}
	return t, nil
}

// EnemyTypeIDs lists the registered enemy type IDs (order unspecified).
func (r *Registry) EnemyTypeIDs() []string {
	ids := make([]string, 0, len(r.enemies))
	for id := range r.enemies {
		ids = append(ids, id)
	}
	return ids
}

// DefaultRegistry returns the stock bestiary used by the headless simulator
// and as a fallback when no data files are shipped.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		[]*EnemyType{
			{ID: "grunt", Name: "Grunt", MaxHealth: 3, SpeedFactor: 1.0, Radius: 0.45,
				Behavior: BehaviorChase, ScoreOnHit: 10, ScoreOnDestroy: 50},
			{ID: "skitter", Name: "Skitter", MaxHealth: 1, SpeedFactor: 1.4, Radius: 0.35,
				Behavior: BehaviorFlee, ScoreOnHit: 5, ScoreOnDestroy: 25},
			{ID: "sentry", Name: "Sentry", MaxHealth: 5, SpeedFactor: 0.0, Radius: 0.5,
				Behavior: BehaviorStationary, ScoreOnHit: 10, ScoreOnDestroy: 100},
			{ID: "pacer", Name: "Pacer", MaxHealth: 2, SpeedFactor: 0.8, Radius: 0.4,
				Behavior: BehaviorPatrol, ScoreOnHit: 10, ScoreOnDestroy: 40},
			{ID: "toy", Name: "Lost Toy", MaxHealth: 1, SpeedFactor: 0.6, Radius: 0.4,
				Behavior: BehaviorFlee, Collectible: true},
		},
		[]*ProjectileType{
			{ID: "dart", Damage: 1, HitRadius: 0.55},
			{ID: "boomball", Damage: 2, HitRadius: 0.6,
				Splash: &SplashSpec{Radius: 2.5, Damage: 2}},
			{ID: "gluegun", Damage: 1, HitRadius: 0.55,
				Slow: &SlowSpec{Factor: 0.5, Duration: 2 * time.Second}},
			{ID: "capture-net", Damage: 0, HitRadius: 0.7, Transform: true},
		},
	)
	if err != nil {
		// The stock tables are compile-time constants; a failure here is a
		// programming error.
		panic(err)
	}
	return r
}
