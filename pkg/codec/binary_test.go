package codec

import (
	"bytes"
	"testing"

	"firestige.xyz/stomptap/pkg/frame"
)

func TestUnmarshalBinarySingle(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		command string
		headers map[string]string
		body    []byte
	}{
		{
			name:    "frame with binary body",
			input:   []byte("MESSAGE\ndestination:/queue/a\n\n\x01\x02\x03\xff"),
			command: "MESSAGE",
			headers: map[string]string{"destination": "/queue/a"},
			body:    []byte{0x01, 0x02, 0x03, 0xff},
		},
		{
			name:    "trailing NUL excluded from body",
			input:   []byte("MESSAGE\n\nhello\x00"),
			command: "MESSAGE",
			headers: map[string]string{},
			body:    []byte("hello"),
		},
		{
			name:    "header values not trimmed",
			input:   []byte("MESSAGE\nname: spaced \n\nx"),
			command: "MESSAGE",
			headers: map[string]string{"name": " spaced "},
			body:    []byte("x"),
		},
		{
			name:    "duplicate header keeps last occurrence",
			input:   []byte("MESSAGE\nfoo:first\nfoo:second\n\nx"),
			command: "MESSAGE",
			headers: map[string]string{"foo": "second"},
			body:    []byte("x"),
		},
		{
			name:    "header line without colon keeps name with empty value",
			input:   []byte("MESSAGE\nbroken\n\nx"),
			command: "MESSAGE",
			headers: map[string]string{"broken": ""},
			body:    []byte("x"),
		},
		{
			name:    "no blank line means no body",
			input:   []byte("DISCONNECT\nreceipt:5"),
			command: "DISCONNECT",
			headers: map[string]string{"receipt": "5"},
			body:    []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := UnmarshalBinarySingle(tt.input)
			if f.Command != tt.command {
				t.Errorf("command = %q, expected %q", f.Command, tt.command)
			}
			for name, want := range tt.headers {
				got, ok := f.Header.Get(name)
				if !ok || got != want {
					t.Errorf("header %q = %q (present=%v), expected %q", name, got, ok, want)
				}
			}
			if !bytes.Equal(f.Body, tt.body) {
				t.Errorf("body = %v, expected %v", f.Body, tt.body)
			}
		})
	}
}

func TestUnmarshalBinaryHeartbeat(t *testing.T) {
	res := UnmarshalBinary(nil, []byte{'\n'})
	if len(res.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(res.Messages))
	}
	if _, ok := res.Messages[0].(frame.Heartbeat); !ok {
		t.Errorf("expected heartbeat, got %T", res.Messages[0])
	}
	if len(res.Partial) != 0 {
		t.Errorf("expected empty partial, got %v", res.Partial)
	}
}

func TestUnmarshalBinaryInterleavedHeartbeat(t *testing.T) {
	wire := append([]byte{'\n'}, []byte("MESSAGE\n\nhello\x00")...)

	res := UnmarshalBinary(nil, wire)
	if len(res.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(res.Messages))
	}
	if _, ok := res.Messages[0].(frame.Heartbeat); !ok {
		t.Errorf("expected leading heartbeat, got %T", res.Messages[0])
	}
	f := res.Messages[1].(*frame.Frame)
	if f.Command != "MESSAGE" || string(f.Body) != "hello" {
		t.Errorf("frame = %q body %q", f.Command, f.Body)
	}
}

func TestUnmarshalBinaryMultipleAndPartial(t *testing.T) {
	wire := []byte("CONNECTED\nversion:1.2\n\n\x00MESSAGE\n\nhello\x00SEND\ndest")

	res := UnmarshalBinary(nil, wire)
	if len(res.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(res.Messages))
	}
	if string(res.Partial) != "SEND\ndest" {
		t.Errorf("partial = %q, expected %q", res.Partial, "SEND\ndest")
	}
}

func TestUnmarshalBinaryContentLengthBody(t *testing.T) {
	// Body contains a NUL; content-length keeps the scanner from
	// slicing the frame there.
	body := []byte("bin\x00ary")
	wire := []byte("MESSAGE\ncontent-length:7\n\n")
	wire = append(wire, body...)
	wire = append(wire, 0)
	wire = append(wire, []byte("RECEIPT\n\n\x00")...)

	res := UnmarshalBinary(nil, wire)
	if len(res.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(res.Messages))
	}
	f := res.Messages[0].(*frame.Frame)
	if !bytes.Equal(f.Body, body) {
		t.Errorf("body = %v, expected %v", f.Body, body)
	}
	if res.Messages[1].(*frame.Frame).Command != "RECEIPT" {
		t.Errorf("second command = %q", res.Messages[1].(*frame.Frame).Command)
	}
	if len(res.Partial) != 0 {
		t.Errorf("expected empty partial, got %v", res.Partial)
	}
}

func TestUnmarshalBinaryContentLengthBodyEndingInNUL(t *testing.T) {
	// The body's own last byte is a NUL; only the frame terminator
	// after it must be stripped.
	body := []byte("bin\x00")
	wire := []byte("MESSAGE\ncontent-length:4\n\n")
	wire = append(wire, body...)
	wire = append(wire, 0)

	res := UnmarshalBinary(nil, wire)
	if len(res.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(res.Messages))
	}
	f := res.Messages[0].(*frame.Frame)
	if !bytes.Equal(f.Body, body) {
		t.Errorf("body = %v (len %d), expected %v (len %d)", f.Body, len(f.Body), body, len(body))
	}
	if len(res.Partial) != 0 {
		t.Errorf("expected empty partial, got %v", res.Partial)
	}
}

func TestUnmarshalBinaryIncompleteContentLength(t *testing.T) {
	// Header advertises more body bytes than the buffer holds.
	wire := []byte("MESSAGE\ncontent-length:100\n\nshort")

	res := UnmarshalBinary(nil, wire)
	if len(res.Messages) != 0 {
		t.Fatalf("expected no messages, got %d", len(res.Messages))
	}
	if !bytes.Equal(res.Partial, wire) {
		t.Errorf("partial = %q, expected the whole input", res.Partial)
	}
}

func TestUnmarshalBinaryPartialThreading(t *testing.T) {
	wire := []byte("MESSAGE\ncontent-length:7\n\nbin\x00ary\x00")

	// First call sees half the frame, second call the rest.
	first := UnmarshalBinary(nil, wire[:9])
	if len(first.Messages) != 0 {
		t.Fatalf("expected no messages from the first chunk, got %d", len(first.Messages))
	}

	second := UnmarshalBinary(first.Partial, wire[9:])
	if len(second.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(second.Messages))
	}
	f := second.Messages[0].(*frame.Frame)
	if !bytes.Equal(f.Body, []byte("bin\x00ary")) {
		t.Errorf("body = %v", f.Body)
	}
	if len(second.Partial) != 0 {
		t.Errorf("expected empty partial, got %v", second.Partial)
	}
}

func TestUnmarshalBinaryBodyDoesNotAliasInput(t *testing.T) {
	wire := []byte("MESSAGE\n\nhello\x00")

	res := UnmarshalBinary(nil, wire)
	f := res.Messages[0].(*frame.Frame)
	wire[10] = 'X'
	if string(f.Body) != "hello" {
		t.Errorf("body changed with the input buffer: %q", f.Body)
	}
}
