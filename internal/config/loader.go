package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Load reads the configuration file at path, applies environment
// overrides (STOMPTAP_ prefix, dots replaced by underscores, e.g.
// STOMPTAP_LOG_LEVEL) and validates the result. An empty path returns
// the defaults with environment overrides only.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("stomptap")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		// Lets STOMPTAP_REPORTERS_KAFKA_BROKERS hold a comma-separated list.
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers the Default() values with viper so partial
// config files and env-only runs resolve sensibly.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("decode.binary", d.Decode.Binary)
	v.SetDefault("decode.chunk_size", d.Decode.ChunkSize)

	v.SetDefault("capture.port", d.Capture.Port)
	v.SetDefault("capture.flow_ttl", d.Capture.FlowTTL)

	v.SetDefault("reporters.console.enabled", d.Reporters.Console.Enabled)
	v.SetDefault("reporters.console.format", d.Reporters.Console.Format)
	v.SetDefault("reporters.kafka.enabled", d.Reporters.Kafka.Enabled)
	v.SetDefault("reporters.kafka.compression", d.Reporters.Kafka.Compression)
	v.SetDefault("reporters.kafka.batch_size", d.Reporters.Kafka.BatchSize)
	v.SetDefault("reporters.kafka.batch_timeout", d.Reporters.Kafka.BatchTimeout)
	v.SetDefault("reporters.kafka.max_attempts", d.Reporters.Kafka.MaxAttempts)
}
