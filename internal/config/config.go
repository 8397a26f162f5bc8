// Package config handles configuration loading using viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"firestige.xyz/stomptap/pkg/log"
)

// Config is the top-level stomptap configuration. Every field has a
// usable default, so running without a config file works.
type Config struct {
	Log       log.Config      `mapstructure:"log"`
	Decode    DecodeConfig    `mapstructure:"decode"`
	Capture   CaptureConfig   `mapstructure:"capture"`
	Reporters ReportersConfig `mapstructure:"reporters"`
}

// DecodeConfig contains defaults for the decode command.
type DecodeConfig struct {
	Binary    bool `mapstructure:"binary"`     // force the binary pipeline
	ChunkSize int  `mapstructure:"chunk_size"` // read size in bytes per Unmarshal call
}

// CaptureConfig contains defaults for the pcap command.
type CaptureConfig struct {
	Port    int           `mapstructure:"port"`     // TCP port carrying STOMP traffic; 0 = all
	FlowTTL time.Duration `mapstructure:"flow_ttl"` // idle flow eviction
}

// ReportersConfig selects where decoded frames go.
type ReportersConfig struct {
	Console ConsoleConfig `mapstructure:"console"`
	Kafka   KafkaConfig   `mapstructure:"kafka"`
}

// ConsoleConfig is the stdout reporter configuration.
type ConsoleConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Format  string `mapstructure:"format"` // text | json
}

// KafkaConfig is the Kafka reporter configuration.
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	Compression  string        `mapstructure:"compression"` // none|gzip|snappy|lz4
	BatchSize    int           `mapstructure:"batch_size"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log: log.Config{
			Level:  "info",
			Format: "text",
		},
		Decode: DecodeConfig{
			ChunkSize: 4096,
		},
		Capture: CaptureConfig{
			Port:    61613,
			FlowTTL: 5 * time.Minute,
		},
		Reporters: ReportersConfig{
			Console: ConsoleConfig{
				Enabled: true,
				Format:  "text",
			},
			Kafka: KafkaConfig{
				Compression:  "snappy",
				BatchSize:    100,
				BatchTimeout: 100 * time.Millisecond,
				MaxAttempts:  3,
			},
		},
	}
}

// Validate checks cross-field constraints and rejects values the rest of
// the program cannot act on.
func (c *Config) Validate() error {
	switch c.Reporters.Console.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("reporters.console.format must be text or json, got %q", c.Reporters.Console.Format)
	}

	if c.Reporters.Kafka.Enabled {
		if len(c.Reporters.Kafka.Brokers) == 0 {
			return fmt.Errorf("reporters.kafka.brokers is required when kafka reporter is enabled")
		}
		if c.Reporters.Kafka.Topic == "" {
			return fmt.Errorf("reporters.kafka.topic is required when kafka reporter is enabled")
		}
	}
	switch strings.ToLower(c.Reporters.Kafka.Compression) {
	case "", "none", "gzip", "snappy", "lz4":
	default:
		return fmt.Errorf("reporters.kafka.compression must be none, gzip, snappy or lz4, got %q",
			c.Reporters.Kafka.Compression)
	}

	if c.Capture.Port < 0 || c.Capture.Port > 65535 {
		return fmt.Errorf("capture.port out of range: %d", c.Capture.Port)
	}
	if c.Decode.ChunkSize <= 0 {
		return fmt.Errorf("decode.chunk_size must be positive, got %d", c.Decode.ChunkSize)
	}
	return nil
}
