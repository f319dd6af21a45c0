// Package config loads the landing settings from the environment and command-line flags
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/warmcontact/warm-contact/constant"
	"github.com/warmcontact/warm-contact/landing"
	"github.com/warmcontact/warm-contact/rain"
	"github.com/warmcontact/warm-contact/render"
)

// Config is the full runtime configuration
// Environment supplies defaults, flags override them
type Config struct {
	CellSize       int           `env:"WARM_CONTACT_CELL_SIZE"`
	TickInterval   time.Duration `env:"WARM_CONTACT_INTERVAL"`
	DrawChance     float64       `env:"WARM_CONTACT_DRAW_CHANCE"`
	ResetThreshold float64       `env:"WARM_CONTACT_RESET_THRESHOLD"`
	Increment      float64       `env:"WARM_CONTACT_INCREMENT"`
	Alphabet       string        `env:"WARM_CONTACT_ALPHABET"`
	GlyphColor     string        `env:"WARM_CONTACT_COLOR"`
	FadeColor      string        `env:"WARM_CONTACT_FADE_COLOR"`
	FadeAlpha      float64       `env:"WARM_CONTACT_FADE_ALPHA"`
	ResizePolicy   string        `env:"WARM_CONTACT_RESIZE"`
	BubbleDelay    time.Duration `env:"WARM_CONTACT_BUBBLE_DELAY"`
	Sound          bool          `env:"WARM_CONTACT_SOUND"`
	Seed           uint64        `env:"WARM_CONTACT_SEED"`
	Debug          bool          `env:"WARM_CONTACT_DEBUG"`
}

// Default returns the stock configuration
func Default() Config {
	return Config{
		CellSize:       constant.CellSize,
		TickInterval:   constant.TickInterval,
		DrawChance:     constant.DrawChance,
		ResetThreshold: constant.ResetThreshold,
		Increment:      constant.FallIncrement,
		Alphabet:       constant.Alphabet,
		GlyphColor:     constant.GlyphColor,
		FadeColor:      constant.FadeColor,
		FadeAlpha:      constant.FadeAlpha,
		ResizePolicy:   rain.ResizeReallocate.String(),
		BubbleDelay:    constant.BubbleDelay,
	}
}

// Load applies environment variables over the defaults, then the flags in args
func Load(args []string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	opts := env.Options{}
	if lookup != nil {
		environ := make(map[string]string)
		for _, key := range envKeys() {
			if v, ok := lookup(key); ok {
				environ[key] = v
			}
		}
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("warm-contact", flag.ContinueOnError)
	cfg.bindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envKeys lists the variables Config reads
func envKeys() []string {
	return []string{
		"WARM_CONTACT_CELL_SIZE", "WARM_CONTACT_INTERVAL", "WARM_CONTACT_DRAW_CHANCE",
		"WARM_CONTACT_RESET_THRESHOLD", "WARM_CONTACT_INCREMENT", "WARM_CONTACT_ALPHABET",
		"WARM_CONTACT_COLOR", "WARM_CONTACT_FADE_COLOR", "WARM_CONTACT_FADE_ALPHA",
		"WARM_CONTACT_RESIZE", "WARM_CONTACT_BUBBLE_DELAY", "WARM_CONTACT_SOUND",
		"WARM_CONTACT_SEED", "WARM_CONTACT_DEBUG",
	}
}

// bindFlags registers one flag per field, current values become the flag defaults
func (c *Config) bindFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.CellSize, "cell", c.CellSize, "glyph cell size in pixels")
	fs.DurationVar(&c.TickInterval, "interval", c.TickInterval, "tick period")
	fs.Float64Var(&c.DrawChance, "draw-chance", c.DrawChance, "per-column glyph probability per tick")
	fs.Float64Var(&c.ResetThreshold, "reset-threshold", c.ResetThreshold, "random draw a finished column must exceed to restart")
	fs.Float64Var(&c.Increment, "increment", c.Increment, "fall per tick in cells")
	fs.StringVar(&c.Alphabet, "alphabet", c.Alphabet, "glyphs to rain")
	fs.StringVar(&c.GlyphColor, "color", c.GlyphColor, "glyph color, hex")
	fs.StringVar(&c.FadeColor, "fade-color", c.FadeColor, "trail fill color, hex")
	fs.Float64Var(&c.FadeAlpha, "fade-alpha", c.FadeAlpha, "trail fill opacity")
	fs.StringVar(&c.ResizePolicy, "resize", c.ResizePolicy, "column policy on resize: reallocate, keep")
	fs.DurationVar(&c.BubbleDelay, "bubble-delay", c.BubbleDelay, "delay before the speech bubble")
	fs.BoolVar(&c.Sound, "sound", c.Sound, "play a drip when a column restarts")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "random seed, 0 picks one")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "write logs to the logs directory")
}

// Validate reports every invalid field at once
func (c Config) Validate() error {
	var errs []error
	if c.CellSize < 1 {
		errs = append(errs, fmt.Errorf("cell size must be at least 1, got %d", c.CellSize))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("interval must be positive, got %v", c.TickInterval))
	}
	if c.DrawChance < 0 || c.DrawChance > 1 {
		errs = append(errs, fmt.Errorf("draw chance must be in [0,1], got %v", c.DrawChance))
	}
	if c.ResetThreshold < 0 || c.ResetThreshold > 1 {
		errs = append(errs, fmt.Errorf("reset threshold must be in [0,1], got %v", c.ResetThreshold))
	}
	if c.Increment <= 0 {
		errs = append(errs, fmt.Errorf("increment must be positive, got %v", c.Increment))
	}
	if c.Alphabet == "" {
		errs = append(errs, errors.New("alphabet must not be empty"))
	}
	if c.FadeAlpha <= 0 || c.FadeAlpha > 1 {
		errs = append(errs, fmt.Errorf("fade alpha must be in (0,1], got %v", c.FadeAlpha))
	}
	if _, err := ParseResizePolicy(c.ResizePolicy); err != nil {
		errs = append(errs, err)
	}
	if _, err := render.ParseHex(c.GlyphColor); err != nil {
		errs = append(errs, err)
	}
	if _, err := render.ParseHex(c.FadeColor); err != nil {
		errs = append(errs, err)
	}
	if c.BubbleDelay < 0 {
		errs = append(errs, fmt.Errorf("bubble delay must not be negative, got %v", c.BubbleDelay))
	}
	return errors.Join(errs...)
}

// ParseResizePolicy maps a policy name to its value
func ParseResizePolicy(s string) (rain.ResizePolicy, error) {
	switch s {
	case rain.ResizeReallocate.String():
		return rain.ResizeReallocate, nil
	case rain.ResizeKeepStale.String():
		return rain.ResizeKeepStale, nil
	default:
		return 0, fmt.Errorf("unknown resize policy %q", s)
	}
}

// Settings converts a validated config into scene settings
func (c Config) Settings() (landing.Settings, error) {
	glyph, err := render.ParseHex(c.GlyphColor)
	if err != nil {
		return landing.Settings{}, err
	}
	fade, err := render.ParseHex(c.FadeColor)
	if err != nil {
		return landing.Settings{}, err
	}
	policy, err := ParseResizePolicy(c.ResizePolicy)
	if err != nil {
		return landing.Settings{}, err
	}

	return landing.Settings{
		Rain: rain.Options{
			CellSize:       c.CellSize,
			DrawChance:     c.DrawChance,
			ResetThreshold: c.ResetThreshold,
			Increment:      c.Increment,
			Alphabet:       c.Alphabet,
			ResizePolicy:   policy,
		},
		Style: render.CanvasStyle{
			Glyph:     glyph,
			FadeColor: fade,
			FadeAlpha: c.FadeAlpha,
			FadeFloor: constant.FadeFloor,
		},
		Background:  fade,
		BubbleDelay: c.BubbleDelay,
	}, nil
}
