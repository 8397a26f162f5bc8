package frame

import (
	"bytes"
	"testing"
)

func TestMarshal(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		header   func() *Header
		body     []byte
		expected string
	}{
		{
			name:    "body with auto content-length",
			command: "SEND",
			header: func() *Header {
				h := NewHeader()
				h.Set("destination", "/queue/a")
				return h
			},
			body:     []byte("hello"),
			expected: "SEND\ndestination:/queue/a\ncontent-length:5\n\nhello\x00",
		},
		{
			name:    "empty body emits no content-length",
			command: "CONNECT",
			header: func() *Header {
				h := NewHeader()
				h.Set("accept-version", "1.2")
				return h
			},
			body:     nil,
			expected: "CONNECT\naccept-version:1.2\n\n\x00",
		},
		{
			name:    "sentinel suppresses content-length and never hits the wire",
			command: "SEND",
			header: func() *Header {
				h := NewHeader()
				h.Set("destination", "/queue/a")
				h.Set(ContentLength, NoContentLength)
				return h
			},
			body:     []byte("hello"),
			expected: "SEND\ndestination:/queue/a\n\nhello\x00",
		},
		{
			name:     "multi-byte body measured in encoded bytes",
			command:  "SEND",
			header:   NewHeader,
			body:     []byte("héllo"),
			expected: "SEND\ncontent-length:6\n\nhéllo\x00",
		},
		{
			name:    "caller content-length replaced in place",
			command: "SEND",
			header: func() *Header {
				h := NewHeader()
				h.Set(ContentLength, "1")
				h.Set("foo", "bar")
				return h
			},
			body:     []byte("hello"),
			expected: "SEND\ncontent-length:5\nfoo:bar\n\nhello\x00",
		},
		{
			name:     "no headers no body",
			command:  "DISCONNECT",
			header:   func() *Header { return nil },
			body:     nil,
			expected: "DISCONNECT\n\n\x00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Marshal(tt.command, tt.header(), tt.body)
			if !bytes.Equal(got, []byte(tt.expected)) {
				t.Errorf("Marshal() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestMarshalDoesNotMutateHeader(t *testing.T) {
	h := NewHeader()
	h.Set("destination", "/queue/a")
	f := New("SEND", h, []byte("hello"))

	f.Marshal()

	if h.Has(ContentLength) {
		t.Error("Marshal() must not write content-length into the caller's header set")
	}
}

func TestNewDefaults(t *testing.T) {
	f := New("SEND", nil, nil)
	if f.Header == nil {
		t.Fatal("New() returned nil header")
	}
	if f.Body == nil {
		t.Fatal("New() returned nil body")
	}
	if f.Header.Len() != 0 {
		t.Errorf("expected empty header set, got %d entries", f.Header.Len())
	}
}
