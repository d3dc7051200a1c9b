// Package config loads run settings from YAML or TOML files on top of
// the built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/AnkushinDaniil/hologram/entity/format"
	"github.com/AnkushinDaniil/hologram/entity/parameters"
	"github.com/AnkushinDaniil/hologram/render"
)

type Config struct {
	Params parameters.Parameters `yaml:"params" toml:"params"`

	// Canvas sizes in pixels.
	Width           int `yaml:"width" toml:"width"`
	Height          int `yaml:"height" toml:"height"`
	InspectorHeight int `yaml:"inspector_height" toml:"inspector_height"`

	Frames   int           `yaml:"frames" toml:"frames"`
	Interval time.Duration `yaml:"interval" toml:"interval"` // 0 renders frames back to back
	Workers  int           `yaml:"workers" toml:"workers"`

	Grain              float64 `yaml:"grain" toml:"grain"`
	ExactNormalization bool    `yaml:"exact_normalization" toml:"exact_normalization"`

	Output   string   `yaml:"output" toml:"output"`
	Formats  []string `yaml:"formats" toml:"formats"`
	GIFDelay int      `yaml:"gif_delay" toml:"gif_delay"` // 100ths of a second

	LogLevel string `yaml:"log_level" toml:"log_level"`
}

func Default() *Config {
	return &Config{
		Params:          parameters.Default(),
		Width:           600,
		Height:          320,
		InspectorHeight: render.InspectorHeight,
		Frames:          60,
		Workers:         0,
		Grain:           render.DefaultGrain,
		Output:          "out",
		Formats:         []string{"png", "gif", "html"},
		GIFDelay:        4,
		LogLevel:        "info",
	}
}

// Load reads path over the defaults. The decoder is chosen by extension.
func Load(path string) (*Config, error) {
	conf := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config: %w", err)
		}
		defer f.Close()
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(conf); err != nil {
			return nil, fmt.Errorf("failed to decode yaml config: %w", err)
		}
	case ".toml":
		md, err := toml.DecodeFile(path, conf)
		if err != nil {
			return nil, fmt.Errorf("failed to decode toml config: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown config keys: %v", undecoded)
		}
	default:
		return nil, fmt.Errorf("unsupported config extension: %q", ext)
	}
	log.WithField("path", path).Debug("Config loaded")
	return conf, nil
}

// Validate checks the run settings and clamps the experiment controls into
// their declared ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Width < 100 || c.Height < 50 {
		errs = append(errs, fmt.Errorf("canvas %dx%d is too small", c.Width, c.Height))
	}
	if c.InspectorHeight < render.GraphBottom+10 {
		errs = append(errs, fmt.Errorf("inspector height %d is too small", c.InspectorHeight))
	}
	if c.Frames < 1 {
		errs = append(errs, fmt.Errorf("frames must be positive, got %d", c.Frames))
	}
	if c.Interval < 0 {
		errs = append(errs, fmt.Errorf("interval must not be negative, got %v", c.Interval))
	}
	if c.Grain < 0 {
		errs = append(errs, fmt.Errorf("grain must not be negative, got %v", c.Grain))
	}
	if c.GIFDelay < 1 {
		errs = append(errs, fmt.Errorf("gif delay must be positive, got %d", c.GIFDelay))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output directory is empty"))
	}
	if _, err := c.ParsedFormats(); err != nil {
		errs = append(errs, err)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	clamped := c.Params.Clamp()
	if clamped != c.Params {
		log.WithFields(log.Fields{
			"given":   c.Params,
			"clamped": clamped,
		}).Warn("Parameters clamped into range")
	}
	c.Params = clamped
	return nil
}

func (c *Config) ParsedFormats() ([]format.Format, error) {
	return format.ParseList(strings.Join(c.Formats, ","))
}
