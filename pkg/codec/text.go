package codec

import (
	"regexp"
	"strconv"
	"strings"

	"firestige.xyz/stomptap/pkg/frame"
)

// frameSeparator splits a buffer of concatenated frames. Frames end with
// a NUL terminator that may be followed by line-terminator padding.
var frameSeparator = regexp.MustCompile("\x00\n*")

// UnmarshalTextSingle parses one complete frame out of wire text. The
// input must not include the trailing NUL terminator.
//
// The header block ends at the first empty line. Header lines split on
// the first colon with both sides trimmed; when a name repeats, the
// first occurrence wins. The body is taken content-length-exact when
// that header is present (so it may contain embedded NUL bytes),
// otherwise it runs up to the first NUL or the end of input.
func UnmarshalTextSingle(data string) *frame.Frame {
	headerBlock := data
	bodyStart := len(data)
	if divider := strings.Index(data, "\n\n"); divider >= 0 {
		headerBlock = data[:divider]
		bodyStart = divider + 2
	}

	lines := strings.Split(headerBlock, "\n")
	f := frame.New(lines[0], nil, nil)
	for _, line := range lines[1:] {
		name, value, _ := strings.Cut(line, ":")
		f.Header.SetIfAbsent(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	f.Body = []byte(textBody(data, bodyStart, f.Header))
	return f
}

// textBody extracts the body starting at offset start.
func textBody(data string, start int, header *frame.Header) string {
	if v, ok := header.Get(frame.ContentLength); ok {
		if length, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && length >= 0 {
			end := start + length
			if end > len(data) {
				end = len(data)
			}
			return data[start:end]
		}
	}
	rest := data[start:]
	if i := strings.IndexByte(rest, 0); i >= 0 {
		return rest[:i]
	}
	return rest
}

// UnmarshalText parses a chunk that may contain zero, one or many
// frames plus a possibly incomplete trailing frame.
func UnmarshalText(data string) Result {
	res := Result{Partial: []byte{}}

	if data == "\n" {
		res.Messages = append(res.Messages, frame.Heartbeat{})
		return res
	}

	chunks := frameSeparator.Split(data, -1)
	for _, chunk := range chunks[:len(chunks)-1] {
		res.Messages = append(res.Messages, UnmarshalTextSingle(chunk))
	}

	// The splitter consumes every terminator, so a non-empty final
	// segment is always an incomplete frame to carry over.
	if last := chunks[len(chunks)-1]; last != "" {
		res.Partial = []byte(last)
	}
	return res
}
