// Package config provides configuration loading and access for the grid
// engine and narrowband-FLIP core.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every option the core reads at runtime (§6).
type Config struct {
	Grid      GridConfig      `yaml:"grid"`
	FLIP      FLIPConfig      `yaml:"flip"`
	Sizing    SizingConfig    `yaml:"sizing"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	Derived DerivedConfig `yaml:"-"`
}

// GridConfig configures the sparse grid engine (§6).
type GridConfig struct {
	Backend     string `yaml:"backend"`      // "dense", "flat-tiled", "tree", "tree-bit", or "*"
	TileSize    int32  `yaml:"tile_size"`    // tile/leaf side Z, power of two
	MaxDepth    int    `yaml:"max_depth"`    // 0 = derive from shape
	MaxBuffer   int    `yaml:"max_buffer"`   // passed to the tree back-end, which does not read it
	EnableCache bool   `yaml:"enable_cache"` // tree per-caller traversal cache
}

// FLIPConfig configures the narrowband-FLIP particle/grid core (§4.6, §6).
type FLIPConfig struct {
	APIC                bool    `yaml:"apic"`
	Narrowband          int     `yaml:"narrowband"`
	CorrectDepth        int     `yaml:"correct_depth"`
	FitParticleDist     float64 `yaml:"fit_particle_dist"`
	RKOrder             int     `yaml:"rk_order"` // {1,2,4}
	Erosion             float64 `yaml:"erosion"`
	MinParticlesPerCell int     `yaml:"min_particles_per_cell"`
	MaxParticlesPerCell int     `yaml:"max_particles_per_cell"`
	MinimalLiveCount    int     `yaml:"minimal_live_count"`
	CorrectStiff        float64 `yaml:"correct_stiff"`
	VelocityCorrection  bool    `yaml:"velocity_correction"`
	BulletMaximalTime   float64 `yaml:"bullet_maximal_time"`
	LooseInterior       bool    `yaml:"loose_interior"`
	PICFLIP             float64 `yaml:"pic_flip"` // blend alpha, in [0,1]
}

// SizingConfig configures the extended sizing function (§4.6.7, §6).
type SizingConfig struct {
	Mode        string  `yaml:"mode"` // "both", "velocity", "geometry"
	BlurRadius  int     `yaml:"blur_radius"`
	ThresholdU  float64 `yaml:"threshold_u"`
	ThresholdG  float64 `yaml:"threshold_g"`
	Amplification float64 `yaml:"amplification"`
	DiffuseCount  int     `yaml:"diffuse_count"`
	DiffuseRate   float64 `yaml:"diffuse_rate"`
}

// TelemetryConfig configures diagnostic output (§4.9, added).
type TelemetryConfig struct {
	Enabled    bool   `yaml:"enabled"`
	CSVPath    string `yaml:"csv_path"`
	DumpPath   string `yaml:"dump_path"`
	LogLevel   string `yaml:"log_level"` // "debug", "info", "warn", "error"
}

// DerivedConfig holds values computed once after loading, so hot paths
// never recompute them per frame.
type DerivedConfig struct {
	PICFLIP32 float32 // FLIP.PICFLIP as float32
	Erosion32 float32 // FLIP.Erosion as float32
}

var global *Config

// Init loads configuration from the given path, or uses embedded defaults
// if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

// validate checks the option ranges the core asserts on at load time
// rather than on every frame (§4.8: PICFLIP in [0,1], RK_Order in
// {1,2,4}).
func (c *Config) validate() error {
	if c.FLIP.PICFLIP < 0 || c.FLIP.PICFLIP > 1 {
		return fmt.Errorf("config: flip.pic_flip must be in [0,1], got %v", c.FLIP.PICFLIP)
	}
	switch c.FLIP.RKOrder {
	case 1, 2, 4:
	default:
		return fmt.Errorf("config: flip.rk_order must be 1, 2 or 4, got %d", c.FLIP.RKOrder)
	}
	if c.Grid.TileSize <= 0 || c.Grid.TileSize&(c.Grid.TileSize-1) != 0 {
		return fmt.Errorf("config: grid.tile_size must be a positive power of two, got %d", c.Grid.TileSize)
	}
	return nil
}

func (c *Config) computeDerived() {
	c.Derived.PICFLIP32 = float32(c.FLIP.PICFLIP)
	c.Derived.Erosion32 = float32(c.FLIP.Erosion)
}

// WriteYAML serializes the configuration to path, for capturing the
// effective settings alongside a run's telemetry.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
