package reporter

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"

	"firestige.xyz/stomptap/internal/config"
	"firestige.xyz/stomptap/pkg/frame"
	"firestige.xyz/stomptap/pkg/log"
)

// Kafka publishes decoded frames to a Kafka topic as JSON, batched and
// compressed. Heartbeats are liveness noise and are not published.
type Kafka struct {
	writer   *kafka.Writer
	reported atomic.Uint64
	errored  atomic.Uint64
}

// NewKafka creates a Kafka reporter from validated configuration.
func NewKafka(cfg config.KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	compression, err := parseCompression(cfg.Compression)
	if err != nil {
		return nil, err
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		MaxAttempts:  cfg.MaxAttempts,
		Compression:  compression,
		RequiredAcks: kafka.RequireOne,
	}
	return &Kafka{writer: writer}, nil
}

// parseCompression maps the config value to a kafka-go codec.
func parseCompression(name string) (kafka.Compression, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return 0, nil
	case "gzip":
		return kafka.Compression(compress.Gzip), nil
	case "snappy":
		return kafka.Compression(compress.Snappy), nil
	case "lz4":
		return kafka.Compression(compress.Lz4), nil
	default:
		return 0, fmt.Errorf("unsupported compression %q", name)
	}
}

// Report publishes one decoded frame.
func (k *Kafka) Report(ctx context.Context, msg frame.Message) error {
	f, ok := msg.(*frame.Frame)
	if !ok {
		return nil
	}

	value, err := encodeJSON(f)
	if err != nil {
		k.errored.Add(1)
		return err
	}
	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(f.Command),
		Value: value,
	})
	if err != nil {
		k.errored.Add(1)
		return fmt.Errorf("kafka write failed: %w", err)
	}
	k.reported.Add(1)
	return nil
}

// Close flushes pending batches and releases the writer.
func (k *Kafka) Close() error {
	log.GetLogger().WithFields(map[string]interface{}{
		"reported": k.reported.Load(),
		"errors":   k.errored.Load(),
	}).Debug("kafka reporter closed")
	return k.writer.Close()
}
