// Package codec decodes STOMP wire bytes back into frames.
//
// Transport message boundaries do not line up with frame boundaries: one
// read may carry several frames, and one frame may be split across reads.
// The codec is therefore stateless by design — every decode call returns
// the complete frames it found plus the unconsumed trailing bytes, and
// the caller prepends those bytes to the next chunk of the same stream.
// Concurrent decoding of independent streams needs no coordination; calls
// against one stream's partial buffer must be serialized by the caller.
//
// Two pipelines exist. The text pipeline treats input as a character
// buffer and trims header whitespace; the binary pipeline works on raw
// bytes so binary bodies survive undecoded. Parsing never fails: a header
// line without a colon keeps its name with an empty value, and incomplete
// trailing input is surfaced as the partial, not as an error.
package codec

import "firestige.xyz/stomptap/pkg/frame"

// Result is the outcome of one decode call.
type Result struct {
	// Messages holds the complete frames and heartbeats found, in wire
	// order.
	Messages []frame.Message

	// Partial holds trailing bytes that do not yet form a complete
	// frame. The caller must pass them back on the next call for the
	// same stream. Empty when the input ended on a frame boundary.
	Partial []byte
}

// Unmarshal decodes one inbound chunk, selecting the binary or text
// pipeline. partial is the leftover returned by the previous call for
// this stream (nil on the first call).
func Unmarshal(partial, data []byte, binary bool) Result {
	if binary {
		return UnmarshalBinary(partial, data)
	}
	return UnmarshalText(string(partial) + string(data))
}
