// Package chat talks to the agent backend: it sends a user query and
// incrementally decodes the streamed response, separating visible text,
// transient status lines, and the trailing metadata block.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// EventType discriminates the events emitted while a search streams.
type EventType string

const (
	// EventContent carries a fragment of the user-facing response text.
	EventContent EventType = "content"
	// EventStatus carries the latest transient status annotation.
	EventStatus EventType = "status"
	// EventMetadata carries the parsed metadata block; at most one is
	// emitted, always last.
	EventMetadata EventType = "metadata"
	// EventError carries a mid-stream transport failure.
	EventError EventType = "error"
)

// Event is one decoded element of the response stream.
type Event struct {
	Type     EventType
	Content  string
	Status   string
	Metadata *Metadata
	Err      error
}

// Client is the transport client for the agent backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClientParams configures a Client.
type NewClientParams struct {
	// BaseURL is the agent backend root, e.g. "http://localhost:8000".
	BaseURL string
	// HTTPClient overrides the default client. Streams have no deadline,
	// so the default carries no timeout; cancellation happens through the
	// request context.
	HTTPClient *http.Client
}

// NewClient creates a Client for the given backend.
func NewClient(params NewClientParams) *Client {
	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 0}
	}
	return &Client{
		baseURL:    params.BaseURL,
		httpClient: httpClient,
	}
}

type searchRequest struct {
	Query string `json:"query"`
}

// Search sends the query and returns a channel of stream events. The
// channel closes when the stream ends or ctx is canceled. A rejected
// request (network failure, non-2xx status) is returned as an error
// immediately; failures after streaming has begun arrive as a final
// EventError. Metadata parse failures produce no event at all: the
// visible text already delivered stands on its own.
func (c *Client) Search(ctx context.Context, query string) (<-chan Event, error) {
	payload, err := json.Marshal(searchRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/client/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		resp.Body.Close()
		return nil, fmt.Errorf("search request rejected: status %d", resp.StatusCode)
	}

	events := make(chan Event)
	go c.decode(ctx, resp.Body, events)
	return events, nil
}

func (c *Client) decode(ctx context.Context, body io.ReadCloser, events chan<- Event) {
	defer close(events)
	defer body.Close()

	send := func(ev Event) error {
		select {
		case events <- ev:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	onContent := func(content string) error {
		return send(Event{Type: EventContent, Content: content})
	}
	onStatus := func(status string) error {
		return send(Event{Type: EventStatus, Status: status})
	}

	parser := &StreamParser{}
	buf := make([]byte, 4096)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			if perr := parser.Consume(string(buf[:n]), onContent, onStatus); perr != nil {
				return
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			send(Event{Type: EventError, Err: fmt.Errorf("stream read failed: %w", err)})
			return
		}
	}

	if err := parser.Flush(onContent, onStatus); err != nil {
		return
	}

	raw, _ := parser.Metadata()
	if meta, ok := ParseMetadata(raw); ok {
		send(Event{Type: EventMetadata, Metadata: meta})
	}
}

// Collected is the fully drained result of one search stream.
type Collected struct {
	Text       string
	LastStatus string
	Metadata   *Metadata
}

// Collect drains a Search event channel into its final form, for callers
// that do not need progressive delivery. Returns the first mid-stream
// error encountered, with whatever was collected before it.
func Collect(events <-chan Event) (Collected, error) {
	var out Collected
	var buf bytes.Buffer

	for ev := range events {
		switch ev.Type {
		case EventContent:
			buf.WriteString(ev.Content)
		case EventStatus:
			out.LastStatus = ev.Status
		case EventMetadata:
			out.Metadata = ev.Metadata
		case EventError:
			out.Text = buf.String()
			return out, ev.Err
		}
	}
	out.Text = buf.String()
	return out, nil
}
