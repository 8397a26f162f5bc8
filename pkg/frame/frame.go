// Package frame models STOMP protocol frames and their wire serialization.
//
// Wire layout of one serialized frame:
//
//	COMMAND<LF>
//	name1:value1<LF>
//	name2:value2<LF>
//	<LF>
//	body<NUL>
//
// A lone LF on the wire is a heartbeat, not a frame. The body length in
// bytes is advertised in a content-length header so bodies may contain
// embedded NUL bytes.
package frame

import (
	"bytes"
	"strconv"
)

const (
	// ContentLength is the header carrying the body byte length.
	ContentLength = "content-length"

	// NoContentLength is the reserved content-length value that tells the
	// serializer not to emit an automatic content-length header. It is
	// stripped from the header set and never appears on the wire.
	NoContentLength = "false"
)

// Message is one decoded wire element: either a *Frame or a Heartbeat.
type Message interface {
	message()
}

// Heartbeat marks a liveness ping (a lone LF on the wire). It carries
// no command, headers or body.
type Heartbeat struct{}

func (Heartbeat) message() {}

// Frame is one logical protocol message.
type Frame struct {
	Command string
	Header  *Header
	Body    []byte
}

func (*Frame) message() {}

// New builds a frame, substituting an empty header set and empty body
// for nil arguments. The header is used as given, not copied.
func New(command string, header *Header, body []byte) *Frame {
	if header == nil {
		header = NewHeader()
	}
	if body == nil {
		body = []byte{}
	}
	return &Frame{
		Command: command,
		Header:  header,
		Body:    body,
	}
}

// Marshal is shorthand for New(command, header, body).Marshal().
func Marshal(command string, header *Header, body []byte) []byte {
	return New(command, header, body).Marshal()
}

// Marshal serializes the frame to its wire representation, including
// the trailing NUL terminator.
//
// When the body is non-empty a content-length header with the body's
// byte length is emitted, unless the caller set content-length to the
// NoContentLength sentinel. The sentinel itself never reaches the wire.
// A caller-supplied numeric content-length is replaced by the computed
// byte length but keeps its position in the header order.
func (f *Frame) Marshal() []byte {
	header := f.Header
	if header == nil {
		header = NewHeader()
	} else {
		header = header.Clone()
	}

	if v, ok := header.Get(ContentLength); ok && v == NoContentLength {
		header.Del(ContentLength)
	} else if len(f.Body) > 0 {
		header.Set(ContentLength, strconv.Itoa(len(f.Body)))
	}

	var buf bytes.Buffer
	buf.Grow(len(f.Command) + header.Len()*16 + len(f.Body) + 8)
	buf.WriteString(f.Command)
	buf.WriteByte('\n')
	for _, name := range header.Names() {
		value, _ := header.Get(name)
		buf.WriteString(name)
		buf.WriteByte(':')
		buf.WriteString(value)
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.Write(f.Body)
	buf.WriteByte(0)
	return buf.Bytes()
}
