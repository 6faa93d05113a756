package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/san-kum/orbsim/internal/orbit"
	"github.com/san-kum/orbsim/internal/pcg"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth        = 768.0
	DefaultHeight       = 768.0
	DefaultCount        = 32
	DefaultIncrement    = 0.005
	DefaultTrail        = 4.0
	DefaultFPS          = 60
	DefaultResetSeconds = 8.0
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Variant      string      `yaml:"variant"`
	Width        float64     `yaml:"width"`
	Height       float64     `yaml:"height"`
	Count        int         `yaml:"count"`
	Increment    float64     `yaml:"increment"`
	Mode         string      `yaml:"mode"`
	Stepper      string      `yaml:"stepper"`
	FPS          int         `yaml:"fps"`
	ResetSeconds float64     `yaml:"reset_seconds"`
	RNG          string      `yaml:"rng"`
	Seed         int64       `yaml:"seed"`
	ShowFPS      bool        `yaml:"show_fps"`
	Sound        string      `yaml:"sound"`
	Theme        string      `yaml:"theme"`
	Style        StyleConfig `yaml:"style"`
}

type StyleConfig struct {
	Trail     float64 `yaml:"trail"`
	Thickness float64 `yaml:"thickness"`
	Tracked   int     `yaml:"tracked"`
}

func DefaultConfig() *Config {
	return &Config{
		Variant:      "classic",
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		Count:        DefaultCount,
		Increment:    DefaultIncrement,
		Mode:         "repel",
		Stepper:      "accumulate",
		FPS:          DefaultFPS,
		ResetSeconds: DefaultResetSeconds,
		RNG:          "std",
		Theme:        "cyberpunk",
		Style: StyleConfig{
			Trail:     DefaultTrail,
			Thickness: 1,
			Tracked:   -1,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) Validate() error {
	if c.Count <= 0 {
		return fmt.Errorf("%w: count must be positive, got %d", ErrInvalid, c.Count)
	}
	if !(c.Increment >= 0) || math.IsInf(c.Increment, 1) {
		return fmt.Errorf("%w: increment must be finite and non-negative, got %g", ErrInvalid, c.Increment)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalid, c.FPS)
	}
	if !(c.ResetSeconds >= 0) || float64(c.FPS)*c.ResetSeconds > orbit.MaxThreshold {
		return fmt.Errorf("%w: reset_seconds must be non-negative and at most %d frames at %d fps, got %g",
			ErrInvalid, orbit.MaxThreshold, c.FPS, c.ResetSeconds)
	}
	if err := c.Bounds().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := orbit.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := orbit.NewStepper(c.Stepper); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch c.RNG {
	case "", "std", "pcg":
	default:
		return fmt.Errorf("%w: rng must be std or pcg, got %q", ErrInvalid, c.RNG)
	}
	switch c.Sound {
	case "", "off", "cue", "pad":
	default:
		return fmt.Errorf("%w: sound must be off, cue or pad, got %q", ErrInvalid, c.Sound)
	}
	if c.Style.Tracked >= c.Count {
		return fmt.Errorf("%w: tracked orbiter %d outside field of %d", ErrInvalid, c.Style.Tracked, c.Count)
	}
	return nil
}

func (c *Config) Bounds() orbit.Bounds {
	return orbit.Bounds{Width: c.Width, Height: c.Height}
}

func (c *Config) Threshold() int {
	return orbit.ThresholdFor(c.FPS, c.ResetSeconds)
}

func (c *Config) RenderStyle() orbit.Style {
	return orbit.Style{
		Trail:     c.Style.Trail,
		Thickness: c.Style.Thickness,
		Tracked:   c.Style.Tracked,
	}
}

// NewField builds the field with its coupling mode and stepper applied.
func (c *Config) NewField() (*orbit.Field, error) {
	f, err := orbit.NewField(c.Count, c.Increment)
	if err != nil {
		return nil, err
	}
	mode, err := orbit.ParseMode(c.Mode)
	if err != nil {
		return nil, err
	}
	st, err := orbit.NewStepper(c.Stepper)
	if err != nil {
		return nil, err
	}
	f.SetMode(mode)
	f.SetStepper(st)
	return f, nil
}

// NewSampler returns the reset sampler and the seed it was built from. A zero
// seed means wall-clock seeding: whole seconds for pcg, nanoseconds for std.
func (c *Config) NewSampler(now time.Time) (orbit.Sampler, int64) {
	seed := c.Seed
	if c.RNG == "pcg" {
		if seed == 0 {
			seed = now.Unix()
		}
		return pcg.New(uint64(seed), uint64(seed)), seed
	}
	if seed == 0 {
		seed = now.UnixNano()
	}
	return orbit.NewRandSampler(seed), seed
}
