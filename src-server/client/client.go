// Package client talks to the events REST API and satisfies
// store.EventStore, so the calendar can render against a remote server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"calgrid/src-server/model"
	"calgrid/src-server/store"

	"github.com/samber/mo"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// baseURL is the API root, e.g. http://localhost:8080
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ store.EventStore = (*Client)(nil)

type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) ListEvents(ctx context.Context, date mo.Option[string]) ([]model.Event, error) {
	endpoint := c.baseURL + "/events"
	if d, ok := date.Get(); ok {
		endpoint += "?" + url.Values{"date": {d}}.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("(*Client).ListEvents: %w", err)
	}

	events := make([]model.Event, 0)
	if err := c.do(req, http.StatusOK, &events); err != nil {
		return nil, wrapOp("(*Client).ListEvents", err)
	}
	return events, nil
}

func (c *Client) CreateEvent(ctx context.Context, in store.NewEvent) (model.Event, error) {
	// checked here as well so an invalid form never costs a round trip
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return model.Event{}, err
	}

	body, err := json.Marshal(in)
	if err != nil {
		return model.Event{}, fmt.Errorf("(*Client).CreateEvent: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/events", bytes.NewReader(body))
	if err != nil {
		return model.Event{}, fmt.Errorf("(*Client).CreateEvent: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var created model.Event
	if err := c.do(req, http.StatusCreated, &created); err != nil {
		return model.Event{}, wrapOp("(*Client).CreateEvent", err)
	}
	return created, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/events/"+url.PathEscape(id), nil)
	if err != nil {
		return fmt.Errorf("(*Client).DeleteEvent: %w", err)
	}
	if err := c.do(req, http.StatusOK, nil); err != nil {
		var notFound *store.NotFoundError
		if errors.As(err, &notFound) {
			notFound.ID = id
		}
		return wrapOp("(*Client).DeleteEvent", err)
	}
	return nil
}

// do sends req and decodes the body into out when the status is want.
// Other statuses become the store's error types.
func (c *Client) do(req *http.Request, want int, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &store.UnavailableError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &store.UnavailableError{Err: err}
	}

	if resp.StatusCode != want {
		var body errorBody
		_ = json.Unmarshal(raw, &body)
		switch resp.StatusCode {
		case http.StatusBadRequest:
			return &store.ValidationError{Msg: body.Error}
		case http.StatusNotFound:
			return &store.NotFoundError{}
		default:
			msg := body.Error
			if msg == "" {
				msg = resp.Status
			}
			return &store.UnavailableError{Err: fmt.Errorf("%s %s: %s", req.Method, req.URL.Path, msg)}
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &store.UnavailableError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func wrapOp(op string, err error) error {
	var unavailable *store.UnavailableError
	if errors.As(err, &unavailable) {
		unavailable.Op = op
	}
	return err
}
