package combat

import (
	"math"
	"time"

	"github.com/toyraid/engine/config"
	"github.com/toyraid/engine/game/enemy"
	"github.com/toyraid/engine/game/geom"
	"github.com/toyraid/engine/game/world"
)

// DamageSink applies projectile outcomes to an enemy: damage for normal
// shots, removal for capture shots. Implemented by enemy.Orchestrator;
// declared here so the combat layer receives it explicitly instead of
// reaching for the orchestrator itself.
type DamageSink interface {
	Damage(e *enemy.Enemy, amount int) enemy.DamageResult
	Despawn(e *enemy.Enemy)
}

// Hooks are the per-impact callbacks fired into the surrounding game
// (effects, audio, scoring). Nil hooks are skipped.
type Hooks struct {
	OnEnemyHit     func(e *enemy.Enemy, damage int, point geom.Vec2, result enemy.DamageResult)
	OnTransformHit func(e *enemy.Enemy, point geom.Vec2)
	OnObstacleHit  func(o *world.Obstacle, point geom.Vec2)
	OnWallHit      func(point geom.Vec2)
	OnSplashHit    func(e *enemy.Enemy, damage int, point geom.Vec2, result enemy.DamageResult)
}

// Processor resolves projectile impacts once per tick. Collision sources are
// checked in fixed priority over the swept segment: walls and doors, shelves,
// enemies, obstacles. The first hit deactivates the projectile; splash then
// radiates from the impact point.
type Processor struct {
	sight    *world.SightEngine
	resolver *world.Resolver
	sink     DamageSink
	cfg      *config.Engine
	hooks    Hooks
}

// NewProcessor wires the processor to its collaborators.
func NewProcessor(sight *world.SightEngine, resolver *world.Resolver, sink DamageSink, cfg *config.Engine, hooks Hooks) *Processor {
	return &Processor{sight: sight, resolver: resolver, sink: sink, cfg: cfg, hooks: hooks}
}

// Process sweeps every active projectile against the world and stores each
// projectile's current position as the start of next tick's sweep.
func (p *Processor) Process(projectiles []*Projectile, enemies []*enemy.Enemy, obstacles []*world.Obstacle, shelves []*world.Shelf, now time.Time) {
	for _, proj := range projectiles {
		if proj == nil || !proj.Active {
			continue
		}
		p.processOne(proj, enemies, obstacles, shelves, now)
		proj.Prev = proj.Pos
	}
}

func (p *Processor) processOne(proj *Projectile, enemies []*enemy.Enemy, obstacles []*world.Obstacle, shelves []*world.Shelf, now time.Time) {
	// 1. Wall/door: a room transition without a valid door window, or ending
	// the tick pressed against a wall, kills the shot.
	if !p.sight.HasLineOfSight(proj.Prev, proj.Pos) ||
		p.resolver.HittingWall(proj.Pos, p.cfg.Collision.ProjectileWallMargin) {
		proj.Active = false
		if p.hooks.OnWallHit != nil {
			p.hooks.OnWallHit(proj.Pos)
		}
		p.applySplash(proj, proj.Pos, nil, enemies)
		return
	}

	// 2. Shelves: solid below their height, open air above.
	for _, sh := range shelves {
		if sh == nil || proj.Y >= sh.Height {
			continue
		}
		if geom.SegmentIntersectsRect(proj.Prev, proj.Pos, sh.Footprint()) {
			proj.Active = false
			impact := sh.Footprint().ClosestPoint(proj.Pos)
			if p.hooks.OnWallHit != nil {
				p.hooks.OnWallHit(impact)
			}
			p.applySplash(proj, impact, nil, enemies)
			return
		}
	}

	// 3. Enemies: closest-point test on the sweep, nearest hit along the
	// segment wins so a shot through a crowd strikes the first body.
	if hit, impact := p.findEnemyHit(proj, enemies); hit != nil {
		proj.Active = false
		if proj.Type.Transform {
			if p.hooks.OnTransformHit != nil {
				p.hooks.OnTransformHit(hit, impact)
			}
			// Captured, not destroyed: no damage, no score, gone from play.
			p.sink.Despawn(hit)
			return
		}
		result := p.sink.Damage(hit, proj.Type.Damage)
		if !result.Destroyed && proj.Type.Slow != nil {
			hit.SlowedUntil = now.Add(proj.Type.Slow.Duration)
			hit.SlowFactor = proj.Type.Slow.Factor
		}
		if p.hooks.OnEnemyHit != nil {
			p.hooks.OnEnemyHit(hit, proj.Type.Damage, impact, result)
		}
		p.applySplash(proj, impact, hit, enemies)
		return
	}

	// 4. Obstacles: hit cylinders; a struck obstacle is consumed and inert.
	for _, o := range obstacles {
		if !o.Blocks() {
			continue
		}
		closest, _ := geom.ClosestPointOnSegment(proj.Prev, proj.Pos, o.Pos)
		if geom.Dist(closest, o.Pos) <= o.Radius+proj.Type.HitRadius {
			o.Hit = true
			proj.Active = false
			if p.hooks.OnObstacleHit != nil {
				p.hooks.OnObstacleHit(o, closest)
			}
			p.applySplash(proj, closest, nil, enemies)
			return
		}
	}
}

// findEnemyHit returns the active enemy struck first along the sweep, if any,
// with the impact point.
func (p *Processor) findEnemyHit(proj *Projectile, enemies []*enemy.Enemy) (*enemy.Enemy, geom.Vec2) {
	sweepLen := geom.Dist(proj.Prev, proj.Pos)

	var best *enemy.Enemy
	var bestT float64
	var bestImpact geom.Vec2
	for _, e := range enemies {
		if e == nil || !e.Active {
			continue
		}
		hitRadius := proj.Type.HitRadius + e.Type.Radius

		// Cheap pre-filter before the segment math.
		reach := sweepLen + hitRadius
		if geom.DistSq(e.Pos, proj.Prev) > reach*reach {
			continue
		}

		closest, t := geom.ClosestPointOnSegment(proj.Prev, proj.Pos, e.Pos)
		if geom.Dist(closest, e.Pos) > hitRadius {
			continue
		}
		if best == nil || t < bestT {
			best = e
			bestT = t
			bestImpact = closest
		}
	}
	return best, bestImpact
}

// applySplash radiates area damage from the impact point with linear distance
// falloff, skipping the directly hit enemy. Damage rounds up, so anything
// strictly inside the radius takes at least one point.
func (p *Processor) applySplash(proj *Projectile, impact geom.Vec2, direct *enemy.Enemy, enemies []*enemy.Enemy) {
	sp := proj.Type.Splash
	if sp == nil || sp.Radius <= 0 {
		return
	}
	for _, e := range enemies {
		if e == nil || e == direct || !e.Active {
			continue
		}
		d := geom.Dist(e.Pos, impact)
		if d >= sp.Radius {
			continue
		}
		dmg := int(math.Ceil(float64(sp.Damage) * (1 - d/sp.Radius)))
		if dmg <= 0 {
			continue
		}
		result := p.sink.Damage(e, dmg)
		if p.hooks.OnSplashHit != nil {
			p.hooks.OnSplashHit(e, dmg, impact, result)
		}
	}
}
