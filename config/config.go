package config

import (
	"time"

	"github.com/spf13/viper"
)

// Engine holds every tunable of the simulation core. All values are
// overridable from a YAML file; missing keys fall back to the defaults set
// below rather than failing.
type Engine struct {
	Collision CollisionConfig `mapstructure:"collision"`
	Sight     SightConfig     `mapstructure:"sight"`
	Chase     ChaseConfig     `mapstructure:"chase"`
	LostSight LostSightConfig `mapstructure:"lost_sight"`
	Wander    WanderConfig    `mapstructure:"wander"`
	Patrol    PatrolConfig    `mapstructure:"patrol"`
	Flee      FleeConfig      `mapstructure:"flee"`
	Enemy     EnemyConfig     `mapstructure:"enemy"`
}

type CollisionConfig struct {
	WallMargin           float64 `mapstructure:"wall_margin"`
	ObstacleMargin       float64 `mapstructure:"obstacle_margin"`
	ShelfMargin          float64 `mapstructure:"shelf_margin"`
	ProjectileWallMargin float64 `mapstructure:"projectile_wall_margin"`
	DeepOverlapFactor    float64 `mapstructure:"deep_overlap_factor"`
	// Passes is the fixed number of relaxation rounds run per enemy per tick.
	// True convergence is not guaranteed and not required; the bound exists
	// for visual stability among stacked blockers.
	Passes int `mapstructure:"passes"`
}

type SightConfig struct {
	RayStep       float64 `mapstructure:"ray_step"`
	DoorTolerance float64 `mapstructure:"door_tolerance"`
	RadiusFactor  float64 `mapstructure:"radius_factor"`
}

type ChaseConfig struct {
	MinDistance       float64       `mapstructure:"min_distance"`
	StuckTimeout      time.Duration `mapstructure:"stuck_timeout"`
	ProgressEpsilon   float64       `mapstructure:"progress_epsilon"`
	BypassDuration    time.Duration `mapstructure:"bypass_duration"`
	BypassDistance    float64       `mapstructure:"bypass_distance"`
	BypassForwardBias float64       `mapstructure:"bypass_forward_bias"`
	BypassArrive      float64       `mapstructure:"bypass_arrive"`
	ReplanCooldown    time.Duration `mapstructure:"replan_cooldown"`
	BlockedCooldown   time.Duration `mapstructure:"blocked_cooldown"`
}

type LostSightConfig struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	SlowFactor float64       `mapstructure:"slow_factor"`
}

type WanderConfig struct {
	Interval             time.Duration `mapstructure:"interval"`
	Speed                float64       `mapstructure:"speed"`
	HomeRadius           float64       `mapstructure:"home_radius"`
	HomeReturnSpeed      float64       `mapstructure:"home_return_speed"`
	SearchLastSeenChance float64       `mapstructure:"search_last_seen_chance"`
	SearchMinDistance    float64       `mapstructure:"search_min_distance"`
}

type PatrolConfig struct {
	Speed     float64 `mapstructure:"speed"`
	Frequency float64 `mapstructure:"frequency"`
}

type FleeConfig struct {
	MinDistance     float64       `mapstructure:"min_distance"`
	StopDistance    float64       `mapstructure:"stop_distance"`
	SpeedFactor     float64       `mapstructure:"speed_factor"`
	PanicFactor     float64       `mapstructure:"panic_factor"`
	WallHitCooldown time.Duration `mapstructure:"wall_hit_cooldown"`
}

type EnemyConfig struct {
	MaxCount      int           `mapstructure:"max_count"`
	BaseSpeed     float64       `mapstructure:"base_speed"`
	HitFlashDecay float64       `mapstructure:"hit_flash_decay"`
	DespawnBehind float64       `mapstructure:"despawn_behind"`
	DriftSpeed    float64       `mapstructure:"drift_speed"`
	DriftInterval time.Duration `mapstructure:"drift_interval"`
}

// setDefaults registers the documented default for every knob.
func setDefaults(v *viper.Viper) {
	v.SetDefault("collision.wall_margin", 0.4)
	v.SetDefault("collision.obstacle_margin", 0.1)
	v.SetDefault("collision.shelf_margin", 0.1)
	v.SetDefault("collision.projectile_wall_margin", 0.15)
	v.SetDefault("collision.deep_overlap_factor", 0.8)
	v.SetDefault("collision.passes", 3)

	v.SetDefault("sight.ray_step", 0.25)
	v.SetDefault("sight.door_tolerance", 0.2)
	v.SetDefault("sight.radius_factor", 0.5)

	v.SetDefault("chase.min_distance", 1.1)
	v.SetDefault("chase.stuck_timeout", "700ms")
	v.SetDefault("chase.progress_epsilon", 0.25)
	v.SetDefault("chase.bypass_duration", "2500ms")
	v.SetDefault("chase.bypass_distance", 2.2)
	v.SetDefault("chase.bypass_forward_bias", 1.2)
	v.SetDefault("chase.bypass_arrive", 0.45)
	v.SetDefault("chase.replan_cooldown", "400ms")
	v.SetDefault("chase.blocked_cooldown", "350ms")

	v.SetDefault("lost_sight.timeout", "1500ms")
	v.SetDefault("lost_sight.slow_factor", 0.6)

	v.SetDefault("wander.interval", "1800ms")
	v.SetDefault("wander.speed", 0.45)
	v.SetDefault("wander.home_radius", 6.0)
	v.SetDefault("wander.home_return_speed", 0.7)
	v.SetDefault("wander.search_last_seen_chance", 0.012)
	v.SetDefault("wander.search_min_distance", 2.5)

	v.SetDefault("patrol.speed", 0.55)
	v.SetDefault("patrol.frequency", 1.4)

	v.SetDefault("flee.min_distance", 2.0)
	v.SetDefault("flee.stop_distance", 9.0)
	v.SetDefault("flee.speed_factor", 1.35)
	v.SetDefault("flee.panic_factor", 1.6)
	v.SetDefault("flee.wall_hit_cooldown", "600ms")

	v.SetDefault("enemy.max_count", 24)
	v.SetDefault("enemy.base_speed", 2.4)
	v.SetDefault("enemy.hit_flash_decay", 4.0)
	v.SetDefault("enemy.despawn_behind", 14.0)
	v.SetDefault("enemy.drift_speed", 0.25)
	v.SetDefault("enemy.drift_interval", "900ms")
}

// Load reads engine config from the given YAML file path.
func Load(path string) (*Engine, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Engine{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the engine config with every knob at its default value,
// without touching the filesystem. Library consumers and tests start here.
func Default() *Engine {
	v := viper.New()
	setDefaults(v)
	cfg := &Engine{}
	// Unmarshal over pure defaults cannot fail; keep the signature simple.
	_ = v.Unmarshal(cfg)
	return cfg
}
