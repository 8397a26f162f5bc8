// Package reporter delivers decoded frames to output backends.
package reporter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"firestige.xyz/stomptap/internal/config"
	"firestige.xyz/stomptap/pkg/frame"
)

// Reporter receives every decoded message of a stream in order.
type Reporter interface {
	Report(ctx context.Context, msg frame.Message) error
	Close() error
}

// New builds the reporter chain selected by the configuration. With
// several backends enabled the returned reporter fans out to all of
// them; with none enabled it falls back to the text console so decoded
// frames are never silently dropped.
func New(cfg config.ReportersConfig) (Reporter, error) {
	var reporters []Reporter

	if cfg.Console.Enabled {
		reporters = append(reporters, NewConsole(cfg.Console, os.Stdout))
	}
	if cfg.Kafka.Enabled {
		k, err := NewKafka(cfg.Kafka)
		if err != nil {
			return nil, fmt.Errorf("kafka reporter: %w", err)
		}
		reporters = append(reporters, k)
	}

	if len(reporters) == 0 {
		reporters = append(reporters, NewConsole(config.ConsoleConfig{Format: "text"}, os.Stdout))
	}
	if len(reporters) == 1 {
		return reporters[0], nil
	}
	return &multi{reporters: reporters}, nil
}

// multi fans a message out to every backend. All backends see every
// message even when one fails; errors are joined.
type multi struct {
	reporters []Reporter
}

func (m *multi) Report(ctx context.Context, msg frame.Message) error {
	var errs []error
	for _, r := range m.reporters {
		if err := r.Report(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *multi) Close() error {
	var errs []error
	for _, r := range m.reporters {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// encodeJSON renders one decoded message as a JSON line shared by the
// console and Kafka backends. Bodies that are not valid UTF-8 are
// reported by length only.
func encodeJSON(msg frame.Message) ([]byte, error) {
	switch m := msg.(type) {
	case frame.Heartbeat:
		return json.Marshal(map[string]any{"heartbeat": true})
	case *frame.Frame:
		out := map[string]any{
			"command":  m.Command,
			"headers":  m.Header.Map(),
			"body_len": len(m.Body),
		}
		if utf8.Valid(m.Body) {
			out["body"] = string(m.Body)
		}
		return json.Marshal(out)
	default:
		return nil, fmt.Errorf("unknown message type %T", msg)
	}
}
