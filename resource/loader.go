package resource

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ---- Data file structures ----

type enemyTypeData struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	MaxHealth      int     `json:"maxHealth"`
	BaseSpeed      float64 `json:"baseSpeed"`
	SpeedFactor    float64 `json:"speedFactor"`
	Radius         float64 `json:"radius"`
	Behavior       string  `json:"behavior"`
	ScoreOnHit     int     `json:"scoreOnHit"`
	ScoreOnDestroy int     `json:"scoreOnDestroy"`
	Collectible    bool    `json:"collectible"`
}

type splashData struct {
	Radius float64 `json:"radius"`
	Damage int     `json:"damage"`
}

type slowData struct {
	Factor     float64 `json:"factor"`
	DurationMS int     `json:"durationMs"`
}

type projectileTypeData struct {
	ID        string      `json:"id"`
	Damage    int         `json:"damage"`
	HitRadius float64     `json:"hitRadius"`
	Splash    *splashData `json:"splash,omitempty"`
	Slow      *slowData   `json:"slow,omitempty"`
	Transform bool        `json:"transform"`
}

// Load reads Enemies.json and Projectiles.json from dir and builds a Registry.
// Fields left out of the data files keep their zero value; behavior tags must
// parse or loading fails.
func Load(dir string) (*Registry, error) {
	var enemyData []*enemyTypeData
	if err := readJSON(filepath.Join(dir, "Enemies.json"), &enemyData); err != nil {
		return nil, err
	}
	var projData []*projectileTypeData
	if err := readJSON(filepath.Join(dir, "Projectiles.json"), &projData); err != nil {
		return nil, err
	}

	enemies := make([]*EnemyType, 0, len(enemyData))
	for _, d := range enemyData {
		if d == nil {
			continue
		}
		behavior, err := ParseBehavior(d.Behavior)
		if err != nil {
			return nil, fmt.Errorf("enemy %q: %w", d.ID, err)
		}
		enemies = append(enemies, &EnemyType{
			ID:             d.ID,
			Name:           d.Name,
			MaxHealth:      d.MaxHealth,
			BaseSpeed:      d.BaseSpeed,
			SpeedFactor:    d.SpeedFactor,
			Radius:         d.Radius,
			Behavior:       behavior,
			ScoreOnHit:     d.ScoreOnHit,
			ScoreOnDestroy: d.ScoreOnDestroy,
			Collectible:    d.Collectible,
		})
	}

	projectiles := make([]*ProjectileType, 0, len(projData))
	for _, d := range projData {
		if d == nil {
			continue
		}
		p := &ProjectileType{
			ID:        d.ID,
			Damage:    d.Damage,
			HitRadius: d.HitRadius,
			Transform: d.Transform,
		}
		if d.Splash != nil {
			p.Splash = &SplashSpec{Radius: d.Splash.Radius, Damage: d.Splash.Damage}
		}
		if d.Slow != nil {
			p.Slow = &SlowSpec{
				Factor:   d.Slow.Factor,
				Duration: time.Duration(d.Slow.DurationMS) * time.Millisecond,
			}
		}
		projectiles = append(projectiles, p)
	}

	return NewRegistry(enemies, projectiles)
}

func readJSON(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
