package sse

import "testing"

func TestFeedCompleteFrames(t *testing.T) {
	var d Decoder
	frames := d.Feed([]byte("event: text\ndata: {\"text\":\"hi\"}\n"))
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if frames[0].Event != "text" {
		t.Errorf("event = %q, want %q", frames[0].Event, "text")
	}
	if string(frames[0].Data) != `{"text":"hi"}` {
		t.Errorf("data = %q", frames[0].Data)
	}
}

func TestFeedAcrossChunkBoundaries(t *testing.T) {
	var d Decoder

	// A data line split mid-line must not be processed until completed.
	frames := d.Feed([]byte("data: {\"text\":\"Hel"))
	if len(frames) != 0 {
		t.Fatalf("partial line produced %d frames", len(frames))
	}
	if d.Buffered() == 0 {
		t.Error("expected partial line to be retained")
	}

	frames = d.Feed([]byte("lo\"}\n"))
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame after completion, got %d", len(frames))
	}
	if string(frames[0].Data) != `{"text":"Hello"}` {
		t.Errorf("data = %q", frames[0].Data)
	}
}

func TestFeedMultiByteRuneSplit(t *testing.T) {
	var d Decoder
	payload := []byte("data: {\"text\":\"héllo\"}\n")

	// Split in the middle of the two-byte é sequence.
	cut := 0
	for i, b := range payload {
		if b >= 0xC0 {
			cut = i + 1
			break
		}
	}
	if cut == 0 {
		t.Fatal("no multi-byte rune in payload")
	}

	if frames := d.Feed(payload[:cut]); len(frames) != 0 {
		t.Fatalf("expected no frames before line end, got %d", len(frames))
	}
	frames := d.Feed(payload[cut:])
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if string(frames[0].Data) != `{"text":"héllo"}` {
		t.Errorf("data = %q", frames[0].Data)
	}
}

func TestEventNamePersistsUntilOverwritten(t *testing.T) {
	var d Decoder
	frames := d.Feed([]byte("event: text\ndata: a\ndata: b\nevent: result\ndata: c\n"))
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	for i, want := range []string{"text", "text", "result"} {
		if frames[i].Event != want {
			t.Errorf("frame %d event = %q, want %q", i, frames[i].Event, want)
		}
	}
}

func TestCRLFLineEndings(t *testing.T) {
	var d Decoder
	frames := d.Feed([]byte("event: text\r\ndata: {\"x\":1}\r\n"))
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if frames[0].Event != "text" {
		t.Errorf("event = %q", frames[0].Event)
	}
	if string(frames[0].Data) != `{"x":1}` {
		t.Errorf("data = %q", frames[0].Data)
	}
}

func TestIgnoresBlankAndUnknownLines(t *testing.T) {
	var d Decoder
	frames := d.Feed([]byte("\n: comment\nretry: 500\ndata: x\n\n"))
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if string(frames[0].Data) != "x" {
		t.Errorf("data = %q", frames[0].Data)
	}
}
