package enemy

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/toyraid/engine/config"
	"github.com/toyraid/engine/game/geom"
	"github.com/toyraid/engine/game/world"
	"github.com/toyraid/engine/resource"
)

// ErrAtCapacity is returned by Spawn when the active-enemy limit is reached.
var ErrAtCapacity = errors.New("enemy capacity reached")

// Hooks are the callbacks the orchestrator fires into the surrounding game.
// Nil hooks are skipped.
type Hooks struct {
	// OnPlayerCollision fires when a hostile enemy touches the player.
	OnPlayerCollision func(e *Enemy)
	// OnToyCollected fires instead when a collectible enemy touches the player.
	OnToyCollected func(e *Enemy)
}

// Orchestrator owns the enemy collection: spawn, despawn, damage and the
// per-tick update sequence. Everything runs synchronously inside Update;
// callers must not mutate the collections while a tick is in progress.
type Orchestrator struct {
	resolver *world.Resolver
	behavior *BehaviorEngine
	registry *resource.Registry
	cfg      *config.Engine
	logger   *zap.Logger
	hooks    Hooks

	// VisualHook, when set, is called for every live enemy after collision
	// resolution so the render layer can sync meshes and animations.
	VisualHook func(e *Enemy, dt float64)

	// PlayerRadius is the player's collision radius for the contact test.
	PlayerRadius float64

	enemies []*Enemy
	active  int

	clampWarn rate.Sometimes
}

// NewOrchestrator wires the orchestrator to its collaborators. All
// dependencies are explicit; nothing is discovered through globals.
func NewOrchestrator(resolver *world.Resolver, behavior *BehaviorEngine, registry *resource.Registry, cfg *config.Engine, logger *zap.Logger, hooks Hooks) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		resolver:     resolver,
		behavior:     behavior,
		registry:     registry,
		cfg:          cfg,
		logger:       logger,
		hooks:        hooks,
		PlayerRadius: 0.5,
		clampWarn:    rate.Sometimes{Interval: time.Second},
	}
}

// Spawn creates a fresh enemy of the given type at (x, z). It fails with
// ErrAtCapacity at the configured limit and resource.ErrUnknownType for
// unregistered IDs.
func (o *Orchestrator) Spawn(typeID string, x, z float64) (*Enemy, error) {
	if o.active >= o.cfg.Enemy.MaxCount {
		return nil, fmt.Errorf("spawn %q: %w", typeID, ErrAtCapacity)
	}
	t, err := o.registry.EnemyType(typeID)
	if err != nil {
		return nil, err
	}

	e := &Enemy{
		ID:        uuid.NewString(),
		Type:      t,
		Pos:       geom.Vec2{X: x, Z: z},
		Home:      geom.Vec2{X: x, Z: z},
		Active:    true,
		Health:    t.MaxHealth,
		MaxHealth: t.MaxHealth,
		state:     newBehaviorState(t.Behavior),
	}
	o.enemies = append(o.enemies, e)
	o.active++
	o.logger.Debug("enemy spawned",
		zap.String("id", e.ID),
		zap.String("type", t.ID),
		zap.Float64("x", x), zap.Float64("z", z),
		zap.Int("active", o.active))
	return e, nil
}

// Despawn deactivates an enemy and removes it from the active collection.
// Safe to call twice.
func (o *Orchestrator) Despawn(e *Enemy) {
	if e == nil || !e.Active {
		return
	}
	e.Active = false
	o.remove(e)
}

func (o *Orchestrator) remove(e *Enemy) {
	for i, cur := range o.enemies {
		if cur == e {
			o.enemies = append(o.enemies[:i], o.enemies[i+1:]...)
			o.active--
			return
		}
	}
}

// Damage applies amount to an enemy and returns the score breakdown. Health
// clamps at zero; a kill deactivates the enemy and marks it destroyed. Each
// call is one hit event — the combat layer guarantees a projectile produces
// at most one.
func (o *Orchestrator) Damage(e *Enemy, amount int) DamageResult {
	if e == nil || !e.Active || amount <= 0 {
		return DamageResult{}
	}

	e.Health -= amount
	e.HitFlash = 1.0
	result := DamageResult{
		Hit:        true,
		ScoreOnHit: e.Type.ScoreOnHit,
		TotalScore: e.Type.ScoreOnHit,
	}
	if e.Health <= 0 {
		e.Health = 0
		e.Destroyed = true
		result.Destroyed = true
		result.ScoreOnDestroy = e.Type.ScoreOnDestroy
		result.TotalScore += e.Type.ScoreOnDestroy
		o.Despawn(e)
		o.logger.Debug("enemy destroyed",
			zap.String("id", e.ID),
			zap.String("type", e.Type.ID),
			zap.Int("active", o.active))
	}
	return result
}

// Update runs one simulation tick for every active enemy: behavior step,
// bounded collision relaxation, hard clamp, visual hook, player contact, and
// finally the despawn sweep for enemies that fell behind the camera.
func (o *Orchestrator) Update(dt float64, player geom.Vec2, now time.Time, obstacles []*world.Obstacle, shelves []*world.Shelf) {
	// Snapshot: hooks may spawn or despawn mid-tick.
	snapshot := make([]*Enemy, len(o.enemies))
	copy(snapshot, o.enemies)

	for _, e := range snapshot {
		if !e.Active {
			continue
		}

		o.behavior.Step(e, player, dt, now, obstacles, shelves)

		// Bounded relaxation: pushing out of one blocker can land inside the
		// next, so the pass count trades exactness for stability.
		for pass := 0; pass < o.cfg.Collision.Passes; pass++ {
			pushed := o.resolver.PushOut(e.Pos, e.Type.Radius, obstacles, shelves)
			wall := o.resolver.WallCollision(pushed, e.Pos, o.cfg.Collision.WallMargin)
			if wall.BlockedX {
				pushed.X = e.Pos.X
			}
			if wall.BlockedZ {
				pushed.Z = e.Pos.Z
			}
			if pushed == e.Pos {
				break
			}
			e.Pos = pushed
		}

		o.clampPosition(e)

		if e.HitFlash > 0 {
			e.HitFlash -= o.cfg.Enemy.HitFlashDecay * dt
			if e.HitFlash < 0 {
				e.HitFlash = 0
			}
		}

		if o.VisualHook != nil {
			o.VisualHook(e, dt)
		}

		o.checkPlayerContact(e, player)

		if e.Active && e.Pos.Z-player.Z > o.cfg.Enemy.DespawnBehind {
			o.logger.Debug("enemy despawned behind camera", zap.String("id", e.ID))
			o.Despawn(e)
		}
	}
}

// clampPosition is the last-resort position fix after the relaxation passes.
func (o *Orchestrator) clampPosition(e *Enemy) {
	clamped := o.resolver.ClampToRoom(e.Pos, o.cfg.Collision.WallMargin)
	if clamped != e.Pos {
		if geom.Dist(clamped, e.Pos) > o.resolver.Grid().RoomSpan()/2 {
			// Snapped across cells: the enemy was off-grid entirely.
			o.clampWarn.Do(func() {
				o.logger.Warn("enemy clamped from off-grid position",
					zap.String("id", e.ID),
					zap.Float64("x", e.Pos.X), zap.Float64("z", e.Pos.Z))
			})
		}
		e.Pos = clamped
	}
}

func (o *Orchestrator) checkPlayerContact(e *Enemy, player geom.Vec2) {
	if !e.Active {
		return
	}
	if geom.Dist(e.Pos, player) > e.Type.Radius+o.PlayerRadius {
		return
	}
	if e.Type.Collectible {
		if o.hooks.OnToyCollected != nil {
			o.hooks.OnToyCollected(e)
		}
		o.Despawn(e)
		return
	}
	if o.hooks.OnPlayerCollision != nil {
		o.hooks.OnPlayerCollision(e)
	}
}

// ActiveEnemies returns a snapshot slice of the live enemies.
func (o *Orchestrator) ActiveEnemies() []*Enemy {
	out := make([]*Enemy, len(o.enemies))
	copy(out, o.enemies)
	return out
}

// ActiveCount returns the number of live enemies.
func (o *Orchestrator) ActiveCount() int { return o.active }
