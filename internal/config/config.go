// Package config loads host settings for barface from flags, environment
// variables and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"barface/tickos/tasks/watchface"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BARFACE_CLOCK_24H.
const EnvPrefix = "BARFACE"

// Host run modes.
const (
	ModeWindow   = "window"
	ModeHeadless = "headless"
	ModeTUI      = "tui"
)

// Bar scaling modes.
const (
	BarsSource = "source"
	BarsExact  = "exact"
)

// Config holds all host settings.
type Config struct {
	Clock ClockConfig `mapstructure:"clock"`
	Face  FaceConfig  `mapstructure:"face"`
	Sync  SyncConfig  `mapstructure:"sync"`
	Log   LogConfig   `mapstructure:"log"`
	Host  HostConfig  `mapstructure:"host"`
}

// ClockConfig holds the wall clock display preference.
type ClockConfig struct {
	Is24Hour bool   `mapstructure:"24h"`
	Zone     string `mapstructure:"zone"`
}

// FaceConfig holds watch face options.
type FaceConfig struct {
	Status bool   `mapstructure:"status"`
	Bars   string `mapstructure:"bars"`
}

// SyncConfig holds the companion link source. "-" is stdin.
type SyncConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	File  string `mapstructure:"file"`
	Debug bool   `mapstructure:"debug"`
}

// HostConfig holds desktop runner settings.
type HostConfig struct {
	Mode  string `mapstructure:"mode"`
	Hz    int    `mapstructure:"hz"`
	Ticks uint64 `mapstructure:"ticks"`
	Scale int    `mapstructure:"scale"`
}

// New returns a viper instance with defaults and environment overrides set.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("clock.24h", true)
	v.SetDefault("clock.zone", "")

	v.SetDefault("face.status", false)
	v.SetDefault("face.bars", BarsSource)

	v.SetDefault("sync.path", "-")

	v.SetDefault("log.file", "")
	v.SetDefault("log.debug", false)

	v.SetDefault("host.mode", ModeWindow)
	v.SetDefault("host.hz", 60)
	v.SetDefault("host.ticks", 0)
	v.SetDefault("host.scale", 3)
}

// Load reads path (or barface.yaml from the working directory and
// $HOME/.config/barface when path is empty) into v and decodes it.
// A missing default config file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("barface")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/barface")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return Decode(v)
}

// Decode unmarshals and validates the current settings in v.
func Decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := c.Face.Divisors(); err != nil {
		return err
	}
	if _, err := c.Clock.Location(); err != nil {
		return err
	}
	switch c.Host.Mode {
	case ModeWindow, ModeHeadless, ModeTUI:
	default:
		return fmt.Errorf("host.mode %q: want %s, %s or %s", c.Host.Mode, ModeWindow, ModeHeadless, ModeTUI)
	}
	if c.Host.Hz <= 0 {
		return fmt.Errorf("host.hz must be positive, got %d", c.Host.Hz)
	}
	return nil
}

// Divisors maps face.bars onto bar scaling.
func (f FaceConfig) Divisors() (watchface.Divisors, error) {
	switch f.Bars {
	case "", BarsSource:
		return watchface.SourceDivisors, nil
	case BarsExact:
		return watchface.ExactDivisors, nil
	default:
		return watchface.Divisors{}, fmt.Errorf("face.bars %q: want %s or %s", f.Bars, BarsSource, BarsExact)
	}
}

// Location resolves clock.zone. Empty means the local zone.
func (c ClockConfig) Location() (*time.Location, error) {
	if c.Zone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Zone)
	if err != nil {
		return nil, fmt.Errorf("clock.zone: %w", err)
	}
	return loc, nil
}

// Watch re-decodes the config file whenever it changes and hands the result to
// onChange. Invalid edits go to onError and the previous settings stay.
func Watch(v *viper.Viper, onChange func(*Config), onError func(error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		cfg, err := Decode(v)
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("%s: %w", e.Name, err))
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}
