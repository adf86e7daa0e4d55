package agent

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, zerolog.Nop())
}

func TestStatus(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/agent/status" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"available": true}`)
	}))

	available, err := c.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !available {
		t.Error("expected available")
	}
}

func TestStatusUnreachable(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second, zerolog.Nop())
	if _, err := c.Status(context.Background()); err == nil {
		t.Error("expected error for unreachable server")
	}
}

func TestUploadSendsMultipart(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(16 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "cv.pdf" {
			t.Errorf("filename = %q", header.Filename)
		}
		if ct := header.Header.Get("Content-Type"); ct != "application/pdf" {
			t.Errorf("part content type = %q", ct)
		}
		if sid := r.FormValue("session_id"); sid != "s1" {
			t.Errorf("session_id = %q", sid)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "%PDF-1.4" {
			t.Errorf("file data = %q", data)
		}
		fmt.Fprint(w, `{"session_id":"s2","filename":"cv.pdf","has_content":true,"disciplines_of_interest":["Family Medicine"]}`)
	}))

	result, err := c.Upload(context.Background(), UploadInput{
		Filename:  "cv.pdf",
		Data:      []byte("%PDF-1.4"),
		SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if result.SessionID != "s2" {
		t.Errorf("session = %q, want s2", result.SessionID)
	}
	if len(result.DisciplinesOfInterest) != 1 || result.DisciplinesOfInterest[0] != "Family Medicine" {
		t.Errorf("disciplines = %v", result.DisciplinesOfInterest)
	}
}

func TestUploadErrorDetail(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"detail":"File does not appear to be a valid PDF."}`)
	}))

	_, err := c.Upload(context.Background(), UploadInput{Filename: "x.pdf", Data: []byte("x")})
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Detail != "File does not appear to be a valid PDF." {
		t.Errorf("detail = %q", apiErr.Detail)
	}
}

func TestUploadErrorGenericFallback(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "gateway blew up")
	}))

	_, err := c.Upload(context.Background(), UploadInput{Filename: "x.pdf", Data: []byte("x")})
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Error() != "server returned status 502" {
		t.Errorf("error = %q", apiErr.Error())
	}
}

func TestChatStreamEvents(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")
		// Tokens split across flushes; the trailing frame crosses a
		// write boundary mid-line.
		io.WriteString(w, "event: text\ndata: {\"text\":\"Hel\"}\n")
		flusher.Flush()
		io.WriteString(w, "data: {\"text\":\"lo\"}\nevent: tool_use\ndata: {\"tool\":\"mcp__carms__search_programs\"}\nevent: res")
		flusher.Flush()
		io.WriteString(w, "ult\ndata: {\"session_id\":\"s9\",\"is_error\":false}\n")
	}))

	stream, err := c.Chat(context.Background(), "find programs", "")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	defer stream.Close()

	var events []Event
	for {
		ev, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Recv: %v", err)
		}
		events = append(events, ev)
	}

	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d: %v", len(events), events)
	}
	if ev := events[0].(TextEvent); ev.Text != "Hel" {
		t.Errorf("event 0 = %+v", ev)
	}
	if ev := events[1].(TextEvent); ev.Text != "lo" {
		t.Errorf("event 1 = %+v", ev)
	}
	if ev := events[2].(ToolEvent); ev.Tool != "mcp__carms__search_programs" {
		t.Errorf("event 2 = %+v", ev)
	}
	if ev := events[3].(ResultEvent); ev.SessionID != "s9" {
		t.Errorf("event 3 = %+v", ev)
	}
}

func TestChatSkipsMalformedData(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "data: {not json\ndata: {\"text\":\"ok\"}\ndata: {\"unknown\":1}\n")
	}))

	stream, err := c.Chat(context.Background(), "hi", "")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	defer stream.Close()

	ev, err := stream.Recv()
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if text, ok := ev.(TextEvent); !ok || text.Text != "ok" {
		t.Errorf("event = %#v", ev)
	}
	if _, err := stream.Recv(); err != io.EOF {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestChatSendsSessionID(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"message":"hi","session_id":"s1"}` {
			t.Errorf("body = %s", body)
		}
	}))
	stream, err := c.Chat(context.Background(), "hi", "s1")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	stream.Close()
}

func TestChatNullSessionID(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"message":"hi","session_id":null}` {
			t.Errorf("body = %s", body)
		}
	}))
	stream, err := c.Chat(context.Background(), "hi", "")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	stream.Close()
}

func TestDeleteSession(t *testing.T) {
	var gotPath string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		fmt.Fprint(w, `{"status":"ok"}`)
	}))

	if err := c.DeleteSession(context.Background(), "s1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if gotPath != "DELETE /agent/session/s1" {
		t.Errorf("request = %q", gotPath)
	}
}

func TestToolLabel(t *testing.T) {
	if got := ToolLabel("mcp__carms__compare_programs"); got != "Comparing programs..." {
		t.Errorf("known tool label = %q", got)
	}
	if got := ToolLabel("mcp__other__thing"); got != "Using mcp__other__thing..." {
		t.Errorf("unknown tool label = %q", got)
	}
}
