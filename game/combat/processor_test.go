package combat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyraid/engine/config"
	"github.com/toyraid/engine/game/enemy"
	"github.com/toyraid/engine/game/geom"
	"github.com/toyraid/engine/game/world"
	"github.com/toyraid/engine/resource"
)

// combatFixture wires a processor over a 2x1 floor plan with a centered door
// between the rooms, using the stock type registry.
type combatFixture struct {
	cfg      *config.Engine
	sight    *world.SightEngine
	resolver *world.Resolver
	registry *resource.Registry
	orch     *enemy.Orchestrator
}

func newFixture(t *testing.T) *combatFixture {
	t.Helper()
	g := world.NewGridMap(2, 1, 10, 2)
	g.AddRoom(0, 0, world.DoorEast)
	g.AddRoom(1, 0, world.DoorWest)

	cfg := config.Default()
	sight := world.NewSightEngine(g, cfg.Sight)
	resolver := world.NewResolver(g, cfg.Collision)
	behavior := enemy.NewBehaviorEngine(sight, resolver, cfg, nil)
	orch := enemy.NewOrchestrator(resolver, behavior, resource.DefaultRegistry(), cfg, nil, enemy.Hooks{})
	return &combatFixture{
		cfg:      cfg,
		sight:    sight,
		resolver: resolver,
		registry: resource.DefaultRegistry(),
		orch:     orch,
	}
}

func (f *combatFixture) processor(hooks Hooks) *Processor {
	return NewProcessor(f.sight, f.resolver, f.orch, f.cfg, hooks)
}

func (f *combatFixture) spawn(t *testing.T, typeID string, x, z float64) *enemy.Enemy {
	t.Helper()
	e, err := f.orch.Spawn(typeID, x, z)
	require.NoError(t, err)
	return e
}

// sweep builds a projectile whose last tick covered prev -> pos.
func sweep(t *testing.T, f *combatFixture, typeID string, prev, pos geom.Vec2, y float64) *Projectile {
	t.Helper()
	typ, err := f.registry.ProjectileType(typeID)
	require.NoError(t, err)
	p := NewProjectile("p-1", typ, prev.X, prev.Z, y)
	p.Pos = pos
	return p
}

// ---- Walls and doors ----

// Wall impact outranks an enemy further along the sweep: the shot dies at the
// wall and the enemy is untouched.
func TestProcess_WallHitTakesPriority(t *testing.T) {
	f := newFixture(t)
	var wallHits, enemyHits int
	proc := f.processor(Hooks{
		OnWallHit:  func(geom.Vec2) { wallHits++ },
		OnEnemyHit: func(*enemy.Enemy, int, geom.Vec2, enemy.DamageResult) { enemyHits++ },
	})

	grunt := f.spawn(t, "grunt", 5, 1.5)
	p := sweep(t, f, "dart", geom.Vec2{X: 5, Z: 3}, geom.Vec2{X: 5, Z: 0.05}, 1)

	proc.Process([]*Projectile{p}, f.orch.ActiveEnemies(), nil, nil, time.Unix(0, 0))
	assert.False(t, p.Active)
	assert.Equal(t, 1, wallHits)
	assert.Zero(t, enemyHits)
	assert.Equal(t, 3, grunt.Health)
}

func TestProcess_DoorCrossing(t *testing.T) {
	f := newFixture(t)
	var wallHits int
	proc := f.processor(Hooks{OnWallHit: func(geom.Vec2) { wallHits++ }})

	// Through the door window: survives, sweep origin advances.
	through := sweep(t, f, "dart", geom.Vec2{X: 9, Z: 5}, geom.Vec2{X: 11, Z: 5}, 1)
	// Across the shared wall outside the window: dies.
	blocked := sweep(t, f, "dart", geom.Vec2{X: 9, Z: 8}, geom.Vec2{X: 11, Z: 8}, 1)

	proc.Process([]*Projectile{through, blocked}, nil, nil, nil, time.Unix(0, 0))
	assert.True(t, through.Active)
	assert.Equal(t, through.Pos, through.Prev)
	assert.False(t, blocked.Active)
	assert.Equal(t, 1, wallHits)
}

// ---- Shelves ----

func TestProcess_ShelfGatedByHeight(t *testing.T) {
	f := newFixture(t)
	var wallHits int
	proc := f.processor(Hooks{OnWallHit: func(geom.Vec2) { wallHits++ }})

	shelf := &world.Shelf{Pos: geom.Vec2{X: 15, Z: 5}, Width: 2, Depth: 2, Height: 1.8}
	low := sweep(t, f, "dart", geom.Vec2{X: 12, Z: 5}, geom.Vec2{X: 18, Z: 5}, 1.0)
	high := sweep(t, f, "dart", geom.Vec2{X: 12, Z: 5}, geom.Vec2{X: 18, Z: 5}, 2.5)

	proc.Process([]*Projectile{low, high}, nil, nil, []*world.Shelf{shelf}, time.Unix(0, 0))
	assert.False(t, low.Active, "below shelf height the footprint is solid")
	assert.True(t, high.Active, "above shelf height the shot flies over")
	assert.Equal(t, 1, wallHits)
}

// ---- Enemies ----

func TestProcess_NearestEnemyAlongSweepWins(t *testing.T) {
	f := newFixture(t)
	var enemyHits int
	proc := f.processor(Hooks{
		OnEnemyHit: func(*enemy.Enemy, int, geom.Vec2, enemy.DamageResult) { enemyHits++ },
	})

	near := f.spawn(t, "grunt", 14, 5)
	far := f.spawn(t, "grunt", 16, 5)
	p := sweep(t, f, "dart", geom.Vec2{X: 11, Z: 5}, geom.Vec2{X: 18, Z: 5}, 1)

	proc.Process([]*Projectile{p}, f.orch.ActiveEnemies(), nil, nil, time.Unix(0, 0))
	assert.False(t, p.Active)
	assert.Equal(t, 1, enemyHits, "one projectile, one hit")
	assert.Equal(t, 2, near.Health)
	assert.Equal(t, 3, far.Health)
}

func TestProcess_EnemyOutranksObstacle(t *testing.T) {
	f := newFixture(t)
	var enemyHits, obstacleHits int
	proc := f.processor(Hooks{
		OnEnemyHit:    func(*enemy.Enemy, int, geom.Vec2, enemy.DamageResult) { enemyHits++ },
		OnObstacleHit: func(*world.Obstacle, geom.Vec2) { obstacleHits++ },
	})

	crate := &world.Obstacle{ID: "crate", Pos: geom.Vec2{X: 13, Z: 5}, Radius: 0.8, Active: true}
	grunt := f.spawn(t, "grunt", 15, 5)
	p := sweep(t, f, "dart", geom.Vec2{X: 11, Z: 5}, geom.Vec2{X: 18, Z: 5}, 1)

	proc.Process([]*Projectile{p}, f.orch.ActiveEnemies(), []*world.Obstacle{crate}, nil, time.Unix(0, 0))
	assert.Equal(t, 1, enemyHits)
	assert.Zero(t, obstacleHits)
	assert.False(t, crate.Hit, "the crate stays intact when an enemy takes the shot")
	assert.Equal(t, 2, grunt.Health)
}

func TestProcess_TransformHitsWithoutDamage(t *testing.T) {
	f := newFixture(t)
	var transforms, enemyHits int
	proc := f.processor(Hooks{
		OnTransformHit: func(*enemy.Enemy, geom.Vec2) { transforms++ },
		OnEnemyHit:     func(*enemy.Enemy, int, geom.Vec2, enemy.DamageResult) { enemyHits++ },
	})

	grunt := f.spawn(t, "grunt", 14, 5)
	p := sweep(t, f, "capture-net", geom.Vec2{X: 11, Z: 5}, geom.Vec2{X: 18, Z: 5}, 1)

	proc.Process([]*Projectile{p}, f.orch.ActiveEnemies(), nil, nil, time.Unix(0, 0))
	assert.False(t, p.Active)
	assert.Equal(t, 1, transforms)
	assert.Zero(t, enemyHits)
	assert.Equal(t, 3, grunt.Health, "capture shots never damage")
	assert.False(t, grunt.Destroyed, "captured, not destroyed")
	assert.False(t, grunt.Active, "a captured enemy leaves play")
	assert.Zero(t, f.orch.ActiveCount())
}

func TestProcess_SlowAppliedOnNonLethalHitOnly(t *testing.T) {
	f := newFixture(t)
	proc := f.processor(Hooks{})
	now := time.Unix(100, 0)

	grunt := f.spawn(t, "grunt", 14, 5) // 3 health, survives
	p := sweep(t, f, "gluegun", geom.Vec2{X: 11, Z: 5}, geom.Vec2{X: 18, Z: 5}, 1)
	proc.Process([]*Projectile{p}, f.orch.ActiveEnemies(), nil, nil, now)

	assert.Equal(t, 2, grunt.Health)
	assert.Equal(t, now.Add(2*time.Second), grunt.SlowedUntil)
	assert.Equal(t, 0.5, grunt.SlowFactor)

	skitter := f.spawn(t, "skitter", 13, 5) // 1 health, dies to the hit; nearer than the grunt
	p2 := sweep(t, f, "gluegun", geom.Vec2{X: 11, Z: 5}, geom.Vec2{X: 18, Z: 5}, 1)
	proc.Process([]*Projectile{p2}, f.orch.ActiveEnemies(), nil, nil, now)

	assert.True(t, skitter.Destroyed)
	assert.True(t, skitter.SlowedUntil.IsZero(), "no debuff on a lethal hit")
}

// ---- Obstacles ----

func TestProcess_ObstacleConsumedOnHit(t *testing.T) {
	f := newFixture(t)
	var obstacleHits int
	proc := f.processor(Hooks{OnObstacleHit: func(*world.Obstacle, geom.Vec2) { obstacleHits++ }})

	crate := &world.Obstacle{ID: "crate", Pos: geom.Vec2{X: 14, Z: 5}, Radius: 0.8, Active: true}
	p := sweep(t, f, "dart", geom.Vec2{X: 11, Z: 5}, geom.Vec2{X: 18, Z: 5}, 1)

	proc.Process([]*Projectile{p}, nil, []*world.Obstacle{crate}, nil, time.Unix(0, 0))
	assert.False(t, p.Active)
	assert.True(t, crate.Hit)
	assert.False(t, crate.Blocks(), "a struck crate no longer blocks anything")
	assert.Equal(t, 1, obstacleHits)

	// A second shot sails straight through the consumed crate.
	p2 := sweep(t, f, "dart", geom.Vec2{X: 11, Z: 5}, geom.Vec2{X: 18, Z: 5}, 1)
	proc.Process([]*Projectile{p2}, nil, []*world.Obstacle{crate}, nil, time.Unix(0, 0))
	assert.True(t, p2.Active)
}

// ---- Splash ----

func TestProcess_SplashFallsOffWithDistance(t *testing.T) {
	f := newFixture(t)
	var splashHits int
	proc := f.processor(Hooks{
		OnSplashHit: func(*enemy.Enemy, int, geom.Vec2, enemy.DamageResult) { splashHits++ },
	})

	direct := f.spawn(t, "grunt", 14, 5)     // direct hit, excluded from splash
	bystander := f.spawn(t, "sentry", 14, 7) // 2.0 from the impact
	fringe := f.spawn(t, "sentry", 16.5, 5)  // exactly at the splash radius

	p := sweep(t, f, "boomball", geom.Vec2{X: 11, Z: 5}, geom.Vec2{X: 18, Z: 5}, 1)
	proc.Process([]*Projectile{p}, f.orch.ActiveEnemies(), nil, nil, time.Unix(0, 0))

	assert.Equal(t, 1, direct.Health, "direct hit takes full damage, no splash on top")
	assert.Equal(t, 4, bystander.Health, "ceil(2 * (1 - 2/2.5)) = 1")
	assert.Equal(t, 5, fringe.Health, "at the radius edge splash is zero")
	assert.Equal(t, 1, splashHits)
}

func TestProcess_WallImpactStillSplashes(t *testing.T) {
	f := newFixture(t)
	proc := f.processor(Hooks{})

	sentry := f.spawn(t, "sentry", 15, 2)
	p := sweep(t, f, "boomball", geom.Vec2{X: 15, Z: 3}, geom.Vec2{X: 15, Z: 0.05}, 1)

	proc.Process([]*Projectile{p}, f.orch.ActiveEnemies(), nil, nil, time.Unix(0, 0))
	assert.False(t, p.Active)
	assert.Equal(t, 4, sentry.Health, "splash radiates from the wall impact")
}

// ---- Bookkeeping ----

func TestProcess_InactiveProjectileSkipped(t *testing.T) {
	f := newFixture(t)
	proc := f.processor(Hooks{})

	p := sweep(t, f, "dart", geom.Vec2{X: 11, Z: 5}, geom.Vec2{X: 18, Z: 5}, 1)
	p.Active = false
	proc.Process([]*Projectile{p}, nil, nil, nil, time.Unix(0, 0))
	assert.Equal(t, geom.Vec2{X: 11, Z: 5}, p.Prev, "inactive shots are not advanced")
}
