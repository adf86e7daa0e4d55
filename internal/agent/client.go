// Package agent is the HTTP/SSE client for the CaRMS agent API. It covers the
// four endpoints the server exposes: availability probe, PDF upload, streaming
// chat, and session deletion.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/carmscli/carmscli/internal/sse"
)

// Client talks to the agent API. Unary calls use a timeout; the chat stream
// deliberately has none, since a response may stream for as long as the agent
// works (cancellation is the caller's context).
type Client struct {
	baseURL string
	unary   *http.Client
	stream  *http.Client
	log     zerolog.Logger
}

// New creates a client for the API at baseURL.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		unary:   &http.Client{Timeout: timeout},
		stream:  &http.Client{},
		log:     log,
	}
}

// APIError is a non-2xx response from the server, carrying the structured
// detail message when the body had one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// apiError builds an APIError from a response body, falling back to a generic
// message when the body carries no detail.
func apiError(status int, body []byte) *APIError {
	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		return &APIError{StatusCode: status, Detail: detail.Detail}
	}
	return &APIError{StatusCode: status}
}

// Status queries agent availability. A transport error means the server is
// unreachable; a successful response reports whether the agent is configured.
func (c *Client) Status(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/agent/status", nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.unary.Do(req)
	if err != nil {
		return false, fmt.Errorf("reach server: %w", err)
	}
	defer resp.Body.Close()

	var status struct {
		Available bool `json:"available"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return false, fmt.Errorf("decode status response: %w", err)
	}
	c.log.Debug().Bool("available", status.Available).Msg("agent status")
	return status.Available, nil
}

// UploadInput is one document upload: the raw PDF bytes, the name to report,
// and the session to associate the extracted profile with (empty for a new
// session).
type UploadInput struct {
	Filename  string
	Data      []byte
	SessionID string
}

// UploadResult is the profile-extraction outcome for an uploaded document.
type UploadResult struct {
	SessionID             string   `json:"session_id"`
	Filename              string   `json:"filename"`
	HasContent            bool     `json:"has_content"`
	IsRelevant            *bool    `json:"is_relevant"`
	DocumentType          string   `json:"document_type"`
	DisciplinesOfInterest []string `json:"disciplines_of_interest"`
	GeographicPreferences []string `json:"geographic_preferences"`
	TrainingInterests     []string `json:"training_interests"`
	ResearchExperience    string   `json:"research_experience"`
	ClinicalExperience    string   `json:"clinical_experience"`
	Education             string   `json:"education"`
	Languages             []string `json:"languages"`
	CareerGoals           string   `json:"career_goals"`
	Strengths             []string `json:"strengths"`
	Summary               string   `json:"summary"`
}

// Upload posts a PDF for profile extraction.
func (c *Client) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, in.Filename))
	hdr.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return nil, fmt.Errorf("create form part: %w", err)
	}
	if _, err := part.Write(in.Data); err != nil {
		return nil, fmt.Errorf("write form part: %w", err)
	}
	if in.SessionID != "" {
		if err := mw.WriteField("session_id", in.SessionID); err != nil {
			return nil, fmt.Errorf("write session field: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/agent/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.unary.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upload response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiError(resp.StatusCode, respBody)
	}

	var result UploadResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	c.log.Info().Str("session_id", result.SessionID).Bool("has_content", result.HasContent).Msg("upload complete")
	return &result, nil
}

// chatRequest is the body for POST /agent/chat. SessionID serializes as null
// when no session exists yet.
type chatRequest struct {
	Message   string  `json:"message"`
	SessionID *string `json:"session_id"`
}

// Chat sends a message and opens the event stream for the response.
func (c *Client) Chat(ctx context.Context, message, sessionID string) (*Stream, error) {
	reqBody := chatRequest{Message: message}
	if sessionID != "" {
		reqBody.SessionID = &sessionID
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/agent/chat", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.stream.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, apiError(resp.StatusCode, respBody)
	}
	return &Stream{body: resp.Body}, nil
}

// DeleteSession removes a session server-side. Callers treat this as
// best-effort cleanup.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/agent/session/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.unary.Do(req)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode}
	}
	return nil
}

// Stream is the decoded event stream of one chat response.
type Stream struct {
	body    io.ReadCloser
	dec     sse.Decoder
	pending []Event
	buf     [4096]byte
}

// Recv returns the next event. It returns io.EOF when the stream ends and any
// transport error otherwise. Frames that fail to decode are skipped.
func (s *Stream) Recv() (Event, error) {
	for {
		if len(s.pending) > 0 {
			ev := s.pending[0]
			s.pending = s.pending[1:]
			return ev, nil
		}

		n, err := s.body.Read(s.buf[:])
		if n > 0 {
			for _, frame := range s.dec.Feed(s.buf[:n]) {
				if ev := interpretFrame(frame); ev != nil {
					s.pending = append(s.pending, ev)
				}
			}
		}
		if err != nil {
			if len(s.pending) > 0 {
				continue
			}
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("read stream: %w", err)
		}
	}
}

// Close releases the underlying connection.
func (s *Stream) Close() error {
	return s.body.Close()
}
