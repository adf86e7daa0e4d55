// Package sse decodes newline-delimited server-sent event frames from an
// incremental byte stream.
//
// The decoder makes no assumption that frame boundaries align with transport
// chunk boundaries: bytes are accumulated in a carry-over buffer and only
// complete lines are processed, so a frame split across reads (including in
// the middle of a multi-byte UTF-8 sequence) is held until it completes.
package sse

import (
	"bytes"
	"strings"
)

const (
	eventPrefix = "event: "
	dataPrefix  = "data: "
)

// Frame is a single decoded event/data pair. Event is the most recent event
// name seen before the data line; it may be empty if no event line preceded.
type Frame struct {
	Event string
	Data  []byte
}

// Decoder is an incremental SSE frame decoder. The zero value is ready to use.
type Decoder struct {
	buf   []byte
	event string
}

// Feed appends p to the internal buffer and returns all frames completed by
// it. A trailing partial line is retained for the next call.
func (d *Decoder) Feed(p []byte) []Frame {
	d.buf = append(d.buf, p...)

	var frames []Frame
	for {
		i := bytes.IndexByte(d.buf, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimSuffix(string(d.buf[:i]), "\r")
		d.buf = d.buf[i+1:]

		switch {
		case strings.HasPrefix(line, eventPrefix):
			d.event = strings.TrimSpace(line[len(eventPrefix):])
		case strings.HasPrefix(line, dataPrefix):
			frames = append(frames, Frame{Event: d.event, Data: []byte(line[len(dataPrefix):])})
		}
		// Blank lines and comment lines carry no payload.
	}
	return frames
}

// Buffered reports how many bytes of an incomplete line are pending.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}
