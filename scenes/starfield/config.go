package starfield

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables of the scene. Sizes and speeds are in world units.
type Config struct {
	PlayerSpeed float32 `yaml:"player_speed"`
	PlayerSize  float32 `yaml:"player_size"`

	EnemyCount int     `yaml:"enemy_count"`
	EnemySpeed float32 `yaml:"enemy_speed"`
	EnemySize  float32 `yaml:"enemy_size"`

	StarCount int     `yaml:"star_count"`
	StarSize  float32 `yaml:"star_size"`

	StarSpawnInterval  time.Duration `yaml:"star_spawn_interval"`
	EnemySpawnInterval time.Duration `yaml:"enemy_spawn_interval"`
}

func DefaultConfig() Config {
	return Config{
		PlayerSpeed:        500,
		PlayerSize:         64,
		EnemyCount:         4,
		EnemySpeed:         200,
		EnemySize:          64,
		StarCount:          10,
		StarSize:           30,
		StarSpawnInterval:  time.Second,
		EnemySpawnInterval: 5 * time.Second,
	}
}

var ErrInvalidConfig = errors.New("invalid starfield config")

func (c Config) Validate() error {
	var errs []error
	if c.PlayerSpeed <= 0 || c.EnemySpeed <= 0 {
		errs = append(errs, fmt.Errorf("%w: speeds must be positive", ErrInvalidConfig))
	}
	if c.PlayerSize <= 0 || c.EnemySize <= 0 || c.StarSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: sizes must be positive", ErrInvalidConfig))
	}
	if c.EnemyCount < 0 || c.StarCount < 0 {
		errs = append(errs, fmt.Errorf("%w: counts must not be negative", ErrInvalidConfig))
	}
	if c.StarSpawnInterval <= 0 || c.EnemySpawnInterval <= 0 {
		errs = append(errs, fmt.Errorf("%w: spawn intervals must be positive", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

// LoadConfig reads a YAML file over the defaults. Keys missing from the file
// keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
