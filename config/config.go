// SPDX-License-Identifier: EPL-2.0

// Package config loads audstream settings from a YAML file, AUDSTREAM_*
// environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/logger"
	"github.com/ik5/audstream/output"
	"github.com/ik5/audstream/player"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Output   OutputConfig   `mapstructure:"output"`
	Playback PlaybackConfig `mapstructure:"playback"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// OutputConfig selects the audio device
type OutputConfig struct {
	Backend    string        `mapstructure:"backend"`
	SampleRate int           `mapstructure:"sample_rate"`
	Channels   int           `mapstructure:"channels"`
	Buffer     time.Duration `mapstructure:"buffer"`
}

// PlaybackConfig tunes the decode pipeline
type PlaybackConfig struct {
	RingCapacity    int           `mapstructure:"ring_capacity"`
	MaxPacketFrames int           `mapstructure:"max_packet_frames"`
	RetryDelay      time.Duration `mapstructure:"retry_delay"`
	ReportInterval  time.Duration `mapstructure:"report_interval"`
	Quality         string        `mapstructure:"quality"`
	NormFactor      float64       `mapstructure:"norm_factor"`
	Downmix         bool          `mapstructure:"downmix"`
	Volume          float64       `mapstructure:"volume"`
	EventBuffer     int           `mapstructure:"event_buffer"`
	Realtime        bool          `mapstructure:"realtime"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

// New returns a viper instance carrying the defaults, the search paths and
// the environment binding. Callers may bind flags to it before Load.
func New(file string) *viper.Viper {
	v := viper.New()

	v.SetDefault("output.backend", string(output.BackendSpeaker))
	v.SetDefault("output.sample_rate", 48000)
	v.SetDefault("output.channels", 2)
	v.SetDefault("output.buffer", "100ms")

	v.SetDefault("playback.ring_capacity", 131072)
	v.SetDefault("playback.max_packet_frames", 8192)
	v.SetDefault("playback.retry_delay", "500ms")
	v.SetDefault("playback.report_interval", "900ms")
	v.SetDefault("playback.quality", audio.QualityMedium.String())
	v.SetDefault("playback.norm_factor", 1.0)
	v.SetDefault("playback.downmix", false)
	v.SetDefault("playback.volume", 1.0)
	v.SetDefault("playback.event_buffer", 64)
	v.SetDefault("playback.realtime", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("audstream")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/audstream")
		v.AddConfigPath("/etc/audstream")
	}

	v.SetEnvPrefix("AUDSTREAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the configuration known to v. A missing config file is not an
// error when none was requested explicitly.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		slog.Debug("No config file found, using defaults and environment variables")
	} else {
		slog.Debug("Using config file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return &cfg, nil
}

// LoadConfig loads configuration from file (or the default search paths)
// and environment variables.
func LoadConfig(file string) (*Config, error) {
	return Load(New(file))
}

// Validate checks the values that cannot be corrected silently.
func (c *Config) Validate() error {
	switch output.Backend(c.Output.Backend) {
	case output.BackendSpeaker, output.BackendOto, output.BackendNull:
	default:
		return &ConfigError{Field: "output.backend", Message: "must be speaker, oto or null"}
	}
	if c.Output.SampleRate <= 0 {
		return &ConfigError{Field: "output.sample_rate", Message: "must be positive"}
	}
	if c.Output.Channels <= 0 {
		return &ConfigError{Field: "output.channels", Message: "must be positive"}
	}
	if output.Backend(c.Output.Backend) == output.BackendSpeaker && c.Output.Channels != 2 {
		return &ConfigError{Field: "output.channels", Message: "the speaker backend is stereo only"}
	}
	if c.Output.Buffer <= 0 {
		return &ConfigError{Field: "output.buffer", Message: "must be positive"}
	}

	if c.Playback.RingCapacity <= 0 {
		return &ConfigError{Field: "playback.ring_capacity", Message: "must be positive"}
	}
	if c.Playback.MaxPacketFrames <= 0 {
		return &ConfigError{Field: "playback.max_packet_frames", Message: "must be positive"}
	}
	if c.Playback.RetryDelay <= 0 {
		return &ConfigError{Field: "playback.retry_delay", Message: "must be positive"}
	}
	if c.Playback.ReportInterval <= 0 {
		return &ConfigError{Field: "playback.report_interval", Message: "must be positive"}
	}
	if _, err := audio.ParseQuality(c.Playback.Quality); err != nil {
		return &ConfigError{Field: "playback.quality", Message: "must be cubic, fast, medium or best"}
	}
	if c.Playback.NormFactor <= 0 {
		return &ConfigError{Field: "playback.norm_factor", Message: "must be positive"}
	}
	if c.Playback.Volume < 0 {
		return &ConfigError{Field: "playback.volume", Message: "must not be negative"}
	}
	if c.Playback.EventBuffer <= 0 {
		return &ConfigError{Field: "playback.event_buffer", Message: "must be positive"}
	}

	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return &ConfigError{Field: "logging.level", Message: err.Error()}
	}

	return nil
}

// OutputConfig converts the output section for output.Open.
func (c *Config) OutputConfig() output.Config {
	return output.Config{
		Backend:    output.Backend(c.Output.Backend),
		SampleRate: c.Output.SampleRate,
		Channels:   c.Output.Channels,
		Buffer:     c.Output.Buffer,
	}
}

// PlayerOptions converts the playback section. Call Validate first.
func (c *Config) PlayerOptions() player.Options {
	q, err := audio.ParseQuality(c.Playback.Quality)
	if err != nil {
		q = audio.QualityMedium
	}

	policy := audio.MapKeepFirst
	if c.Playback.Downmix {
		policy = audio.MapDownmix
	}

	return player.Options{
		RingCapacity:    c.Playback.RingCapacity,
		MaxPacketFrames: c.Playback.MaxPacketFrames,
		RetryDelay:      c.Playback.RetryDelay,
		ReportInterval:  c.Playback.ReportInterval,
		Quality:         q,
		NormFactor:      float32(c.Playback.NormFactor),
		Policy:          policy,
		EventBuffer:     c.Playback.EventBuffer,
		Realtime:        c.Playback.Realtime,
	}
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
