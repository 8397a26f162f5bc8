package codec

import (
	"bytes"
	"strconv"

	"firestige.xyz/stomptap/pkg/frame"
)

var headerBodyDivider = []byte("\n\n")

// UnmarshalBinarySingle parses one complete frame out of raw wire bytes.
// The input may or may not include the trailing NUL terminator.
//
// Bytes up to and including the first LF of the blank line form the
// header block; the body starts two bytes past the divider. Header lines
// are decoded as-is: split on the first colon, no trimming, and a
// repeated name keeps its last value. Binary bodies pass through
// untouched.
func UnmarshalBinarySingle(data []byte) *frame.Frame {
	headerBlock := data
	var body []byte
	if divider := bytes.Index(data, headerBodyDivider); divider >= 0 {
		headerBlock = data[:divider+1]
		body = data[divider+2:]
		if n := len(body); n > 0 && body[n-1] == 0 {
			body = body[:n-1]
		}
	}

	lines := bytes.Split(headerBlock, []byte{'\n'})
	f := frame.New(string(lines[0]), nil, nil)
	for _, line := range lines[1:] {
		if len(line) == 0 {
			continue
		}
		name, value, _ := bytes.Cut(line, []byte{':'})
		f.Header.Set(string(name), string(value))
	}

	// Copy so the frame does not alias the caller's read buffer.
	f.Body = append(make([]byte, 0, len(body)), body...)
	return f
}

// UnmarshalBinary parses frames out of carried-over partial bytes plus a
// new chunk. A buffer of exactly one LF byte is a heartbeat; a lone LF
// sitting on a frame boundary inside the stream is reported as a
// heartbeat too. Whatever follows the last complete frame is returned
// as the new partial.
func UnmarshalBinary(partial, data []byte) Result {
	buf := make([]byte, 0, len(partial)+len(data))
	buf = append(buf, partial...)
	buf = append(buf, data...)

	res := Result{Partial: []byte{}}
	if len(buf) == 1 && buf[0] == '\n' {
		res.Messages = append(res.Messages, frame.Heartbeat{})
		return res
	}

	pos := 0
	for pos < len(buf) {
		if buf[pos] == '\n' {
			res.Messages = append(res.Messages, frame.Heartbeat{})
			pos++
			continue
		}
		next, ok := scanFrame(buf[pos:])
		if !ok {
			break
		}
		// Hand over the terminator-inclusive slice; the strip in
		// UnmarshalBinarySingle removes the terminator and nothing
		// else, so a body whose last byte is NUL stays intact.
		res.Messages = append(res.Messages, UnmarshalBinarySingle(buf[pos:pos+next]))
		pos += next
	}
	res.Partial = append(res.Partial, buf[pos:]...)
	return res
}

// scanFrame locates the end of the frame starting at buf[0] using a
// two-phase scan: first find the blank line closing the header block,
// then find the body end — skipping exactly content-length bytes when
// the header advertises one (so embedded NUL bytes do not truncate the
// body), otherwise scanning to the next NUL.
//
// next is the offset just past the NUL terminator. ok is false while
// the buffer does not yet hold the complete frame.
func scanFrame(buf []byte) (next int, ok bool) {
	divider := bytes.Index(buf, headerBodyDivider)
	if divider < 0 {
		return 0, false
	}
	bodyStart := divider + 2

	if length, found := contentLengthOf(buf[:divider+1]); found {
		end := bodyStart + length
		if end < len(buf) && buf[end] == 0 {
			return end + 1, true
		}
		if end >= len(buf) {
			return 0, false
		}
		// Advertised length disagrees with the terminator position;
		// degrade to terminator scanning below.
	}

	i := bytes.IndexByte(buf[bodyStart:], 0)
	if i < 0 {
		return 0, false
	}
	return bodyStart + i + 1, true
}

// contentLengthOf reads a content-length value out of raw header bytes.
func contentLengthOf(headerBlock []byte) (int, bool) {
	for _, line := range bytes.Split(headerBlock, []byte{'\n'}) {
		name, value, found := bytes.Cut(line, []byte{':'})
		if !found || string(bytes.TrimSpace(name)) != frame.ContentLength {
			continue
		}
		n, err := strconv.Atoi(string(bytes.TrimSpace(value)))
		if err != nil || n < 0 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
