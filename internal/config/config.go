package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ambient/internal/ambient"
)

const (
	DefaultPalette       = "ember-sea"
	DefaultBars          = ambient.DefaultBarCount
	DefaultViewportWidth = 1200.0
	DefaultPeriod        = ambient.DefaultPeriod
	DefaultStepSize      = ambient.DefaultStepSize
	DefaultGradientSpeed = ambient.DefaultGradientSpeed
	DefaultFPS           = 60
	DefaultFrequency     = 4.0
	DefaultDamping       = 0.8
	DefaultDataDir       = ".ambient"
)

// Duration is a time.Duration written as a string such as "10ms".
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	Palette          string          `yaml:"palette" toml:"palette"`
	Colors           []string        `yaml:"colors,omitempty" toml:"colors,omitempty"`
	Bars             int             `yaml:"bars" toml:"bars"`
	ViewportWidth    float64         `yaml:"viewport_width" toml:"viewport_width"`
	Period           int             `yaml:"period" toml:"period"`
	StepSize         float64         `yaml:"step_size" toml:"step_size"`
	GradientSpeed    float64         `yaml:"gradient_speed" toml:"gradient_speed"`
	GradientInterval Duration        `yaml:"gradient_interval" toml:"gradient_interval"`
	BarInterval      Duration        `yaml:"bar_interval" toml:"bar_interval"`
	Seed             int64           `yaml:"seed" toml:"seed"`
	FPS              int             `yaml:"fps" toml:"fps"`
	Smoothing        SmoothingConfig `yaml:"smoothing" toml:"smoothing"`
	DataDir          string          `yaml:"data_dir" toml:"data_dir"`
	LogLevel         string          `yaml:"log_level" toml:"log_level"`
}

// SmoothingConfig tunes the springs that ease bars between logical steps.
type SmoothingConfig struct {
	Frequency float64 `yaml:"frequency" toml:"frequency"`
	Damping   float64 `yaml:"damping" toml:"damping"`
}

func DefaultConfig() *Config {
	return &Config{
		Palette:          DefaultPalette,
		Bars:             DefaultBars,
		ViewportWidth:    DefaultViewportWidth,
		Period:           DefaultPeriod,
		StepSize:         DefaultStepSize,
		GradientSpeed:    DefaultGradientSpeed,
		GradientInterval: Duration(ambient.DefaultGradientInterval),
		BarInterval:      Duration(ambient.DefaultBarInterval),
		FPS:              DefaultFPS,
		Smoothing: SmoothingConfig{
			Frequency: DefaultFrequency,
			Damping:   DefaultDamping,
		},
		DataDir:  DefaultDataDir,
		LogLevel: "info",
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a yaml or toml file over the defaults. The format follows the
// file extension; anything but .toml is read as yaml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		var b strings.Builder
		err = toml.NewEncoder(&b).Encode(cfg)
		data = []byte(b.String())
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolvePalette returns the explicit colors if any, else the named palette.
func (c *Config) ResolvePalette() (ambient.Palette, error) {
	if len(c.Colors) > 0 {
		return ambient.ParsePalette(c.Colors...)
	}
	name := c.Palette
	if name == "" {
		name = DefaultPalette
	}
	hex, ok := Palettes[name]
	if !ok {
		return ambient.Palette{}, fmt.Errorf("unknown palette %q", name)
	}
	return ambient.ParsePalette(hex...)
}

// Options converts the config into engine options and validates them.
func (c *Config) Options() (ambient.Options, error) {
	p, err := c.ResolvePalette()
	if err != nil {
		return ambient.Options{}, err
	}
	opts := ambient.Options{
		Palette:          p,
		Bars:             c.Bars,
		ViewportWidth:    c.ViewportWidth,
		Period:           c.Period,
		StepSize:         c.StepSize,
		GradientSpeed:    c.GradientSpeed,
		GradientInterval: c.GradientInterval.Std(),
		BarInterval:      c.BarInterval.Std(),
		Seed:             c.Seed,
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if err := opts.Validate(); err != nil {
		return ambient.Options{}, err
	}
	return opts, nil
}

func (c *Config) Tuning() ambient.Tuning {
	return ambient.Tuning{Period: c.Period, StepSize: c.StepSize, GradientSpeed: c.GradientSpeed}
}

// Validate checks the engine options plus the render settings.
func (c *Config) Validate() error {
	if _, err := c.Options(); err != nil {
		return err
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.Smoothing.Frequency <= 0 {
		return fmt.Errorf("smoothing frequency must be positive, got %f", c.Smoothing.Frequency)
	}
	if c.Smoothing.Damping < 0 {
		return fmt.Errorf("smoothing damping must not be negative, got %f", c.Smoothing.Damping)
	}
	return nil
}
