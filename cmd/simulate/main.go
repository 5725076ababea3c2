// Command simulate runs the engine headless: it builds a small store floor
// plan, spawns the stock bestiary, moves a scripted player through it and
// reports what happened. Useful for tuning config values and for smoke
// testing behavior changes without the game client.
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/toyraid/engine/config"
	"github.com/toyraid/engine/game/combat"
	"github.com/toyraid/engine/game/enemy"
	"github.com/toyraid/engine/game/geom"
	"github.com/toyraid/engine/game/world"
	"github.com/toyraid/engine/resource"
)

func main() {
	var (
		configPath = flag.String("config", "", "engine config YAML (defaults used when empty)")
		dataDir    = flag.String("data", "", "directory with Enemies.json/Projectiles.json (stock bestiary when empty)")
		ticks      = flag.Int("ticks", 600, "simulation ticks to run")
		seed       = flag.Int64("seed", 1, "RNG seed")
		debug      = flag.Bool("debug", false, "verbose logging")
	)
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := config.Default()
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			logger.Fatal("load config", zap.Error(err))
		}
	}

	registry := resource.DefaultRegistry()
	if *dataDir != "" {
		registry, err = resource.Load(*dataDir)
		if err != nil {
			logger.Fatal("load type data", zap.Error(err))
		}
	}

	if err := run(cfg, registry, logger, *ticks, *seed); err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// run builds a 3x1 corridor of rooms with doors between them, scatters
// blockers, and ticks the engine at 60 Hz simulated time.
func run(cfg *config.Engine, registry *resource.Registry, logger *zap.Logger, ticks int, seed int64) error {
	grid := world.NewGridMap(3, 1, 10, 2)
	grid.AddRoom(0, 0, world.DoorEast)
	grid.AddRoom(1, 0, world.DoorWest, world.DoorEast)
	grid.AddRoom(2, 0, world.DoorWest)

	sight := world.NewSightEngine(grid, cfg.Sight)
	resolver := world.NewResolver(grid, cfg.Collision)
	rng := rand.New(rand.NewSource(seed))
	behavior := enemy.NewBehaviorEngine(sight, resolver, cfg, rng)

	var collisions, collected int
	orch := enemy.NewOrchestrator(resolver, behavior, registry, cfg, logger, enemy.Hooks{
		OnPlayerCollision: func(*enemy.Enemy) { collisions++ },
		OnToyCollected:    func(*enemy.Enemy) { collected++ },
	})

	obstacles := []*world.Obstacle{
		{ID: "crate-1", Pos: geom.Vec2{X: 13, Z: 3}, Radius: 0.8, Active: true},
		{ID: "crate-2", Pos: geom.Vec2{X: 17, Z: 7}, Radius: 0.8, Active: true},
	}
	shelves := []*world.Shelf{
		{Pos: geom.Vec2{X: 15, Z: 5}, Width: 4, Depth: 1.2, Height: 1.8},
	}

	for _, spawn := range []struct {
		typeID string
		x, z   float64
	}{
		{"grunt", 22, 3}, {"grunt", 25, 7}, {"skitter", 24, 5},
		{"pacer", 14, 8}, {"sentry", 15, 2}, {"toy", 26, 2},
	} {
		if _, err := orch.Spawn(spawn.typeID, spawn.x, spawn.z); err != nil {
			return err
		}
	}

	dartType, err := registry.ProjectileType("dart")
	if err != nil {
		return err
	}

	var wallHits, enemyHits int
	processor := combat.NewProcessor(sight, resolver, orch, cfg, combat.Hooks{
		OnEnemyHit: func(e *enemy.Enemy, damage int, point geom.Vec2, result enemy.DamageResult) {
			enemyHits++
		},
		OnWallHit: func(point geom.Vec2) { wallHits++ },
	})

	const dt = 1.0 / 60.0
	var projectiles []*combat.Projectile
	now := time.Unix(0, 0)
	player := geom.Vec2{X: 5, Z: 5}

	for i := 0; i < ticks; i++ {
		now = now.Add(time.Second / 60)

		// Scripted player: walk east through the doors, weaving slightly.
		player.X = math.Min(player.X+1.5*dt, 27)
		player.Z = 5 + 2*math.Sin(float64(i)*dt)

		// Fire a dart east every half second.
		if i%30 == 0 {
			projectiles = append(projectiles,
				combat.NewProjectile(fmt.Sprintf("dart-%d", i), dartType, player.X, player.Z, 1.0))
		}
		for _, p := range projectiles {
			if p.Active {
				p.Pos.X += 20 * dt
			}
		}

		orch.Update(dt, player, now, obstacles, shelves)
		processor.Process(projectiles, orch.ActiveEnemies(), obstacles, shelves, now)
	}

	logger.Info("simulation finished",
		zap.Int("ticks", ticks),
		zap.Int("enemies_alive", orch.ActiveCount()),
		zap.Int("enemy_hits", enemyHits),
		zap.Int("wall_hits", wallHits),
		zap.Int("player_collisions", collisions),
		zap.Int("toys_collected", collected))
	return nil
}
