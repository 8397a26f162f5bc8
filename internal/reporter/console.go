package reporter

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"unicode/utf8"

	"firestige.xyz/stomptap/internal/config"
	"firestige.xyz/stomptap/pkg/frame"
	"firestige.xyz/stomptap/pkg/log"
)

// Console writes decoded frames to a writer in human-readable text or
// JSON lines.
type Console struct {
	format   string
	out      io.Writer
	reported atomic.Uint64
}

// NewConsole creates a console reporter. An empty format means text.
func NewConsole(cfg config.ConsoleConfig, out io.Writer) *Console {
	format := cfg.Format
	if format == "" {
		format = "text"
	}
	return &Console{
		format: format,
		out:    out,
	}
}

// Report outputs one decoded message.
func (c *Console) Report(_ context.Context, msg frame.Message) error {
	c.reported.Add(1)
	if c.format == "json" {
		data, err := encodeJSON(msg)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.out, string(data))
		return err
	}
	return c.reportText(msg)
}

func (c *Console) reportText(msg frame.Message) error {
	switch m := msg.(type) {
	case frame.Heartbeat:
		_, err := fmt.Fprintln(c.out, "[heartbeat]")
		return err
	case *frame.Frame:
		if _, err := fmt.Fprintf(c.out, "%s", m.Command); err != nil {
			return err
		}
		for _, name := range m.Header.Names() {
			value, _ := m.Header.Get(name)
			if _, err := fmt.Fprintf(c.out, " %s=%s", name, value); err != nil {
				return err
			}
		}
		if utf8.Valid(m.Body) {
			_, err := fmt.Fprintf(c.out, " body=%q\n", m.Body)
			return err
		}
		_, err := fmt.Fprintf(c.out, " body_len=%d (binary)\n", len(m.Body))
		return err
	default:
		return fmt.Errorf("unknown message type %T", msg)
	}
}

// Close logs the totals; the writer is not owned by the reporter.
func (c *Console) Close() error {
	log.GetLogger().WithField("reported", c.reported.Load()).Debug("console reporter closed")
	return nil
}
