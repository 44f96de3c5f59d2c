// Package hamalert is a client for the HamAlert trigger API
// (https://hamalert.org). It speaks the same endpoints as the hosted web UI:
// a form login that establishes a cookie session, a JSON trigger listing,
// and form/JSON mutation endpoints.
package hamalert

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/hamal/pkg/log"
	"github.com/macropower/hamal/pkg/trigger"
)

// DefaultBaseURL is the hosted HamAlert endpoint.
const DefaultBaseURL = "https://hamalert.org"

// ErrLogin is returned when the login request is rejected.
var ErrLogin = errors.New("login failed")

// StatusError is an opaque remote failure carrying the HTTP status.
type StatusError struct {
	Op         string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: remote status %d (%s)", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
}

// Client talks to the HamAlert API. Call [Client.Login] once before any
// other method; the session cookie lives in the client's jar.
//
// Client implements the reconcile engine's Source.
type Client struct {
	httpClient *http.Client
	tracer     trace.Tracer
	baseURL    string
	username   string
	password   string
}

// ClientOpt configures a [Client].
type ClientOpt func(*Client)

// WithBaseURL overrides [DefaultBaseURL]. Used by tests and self-hosted
// deployments.
func WithBaseURL(u string) ClientOpt {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// WithTimeout overrides the default 30s request timeout.
func WithTimeout(d time.Duration) ClientOpt {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a [Client] for the given account.
func NewClient(username, password string, opts ...ClientOpt) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	c := &Client{
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
		tracer:   otel.Tracer("hamalert"),
		baseURL:  DefaultBaseURL,
		username: username,
		password: password,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Login establishes the session. The server replies with a session cookie
// that the client's jar carries on every later call.
func (c *Client) Login(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "login", trace.WithAttributes(
		attribute.String("url", c.baseURL+"/login"),
	))
	defer span.End()

	form := url.Values{
		"username": {c.username},
		"password": {c.password},
	}

	resp, err := c.postForm(ctx, "/login", form)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLogin, err)
	}
	defer closeBody(ctx, resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %w", ErrLogin, &StatusError{Op: "login", StatusCode: resp.StatusCode})
	}

	log.WithContext(ctx).DebugContext(ctx, "logged in",
		slog.String("username", c.username),
	)

	return nil
}

// Fetch returns every trigger on the account, with remote identities.
func (c *Client) Fetch(ctx context.Context) ([]trigger.Remote, error) {
	ctx, span := c.tracer.Start(ctx, "fetch", trace.WithAttributes(
		attribute.String("url", c.baseURL+"/ajax/triggers"),
	))
	defer span.End()

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ajax/triggers", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch triggers: %w", err)
	}
	defer closeBody(ctx, resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Op: "fetch triggers", StatusCode: resp.StatusCode}
	}

	var triggers []trigger.Remote

	err = json.NewDecoder(resp.Body).Decode(&triggers)
	if err != nil {
		return nil, fmt.Errorf("decode triggers: %w", err)
	}

	log.WithContext(ctx).DebugContext(ctx, "fetched triggers",
		slog.Int("count", len(triggers)),
		slog.Duration("duration", time.Since(start)),
	)

	return triggers, nil
}

// updatePayload is the trigger_update wire shape. An absent _id creates a
// new trigger; a present _id updates it.
type updatePayload struct {
	ID         string           `json:"_id,omitempty"`
	Conditions trigger.Document `json:"conditions"`
	Actions    []string         `json:"actions"`
	Comment    string           `json:"comment"`
	Options    trigger.Document `json:"options"`
}

// updateResponse covers the fields we care about in trigger_update replies.
type updateResponse struct {
	ID string `json:"_id"`
}

// Create submits a new trigger and returns the server-assigned identity.
// Some deployments reply with an empty body; the returned id is then empty.
func (c *Client) Create(ctx context.Context, t trigger.Trigger) (string, error) {
	ctx, span := c.tracer.Start(ctx, "create", trace.WithAttributes(
		attribute.String("trigger", t.Display()),
	))
	defer span.End()

	payload := updatePayload{
		Conditions: t.Conditions,
		Actions:    t.Actions,
		Comment:    t.Comment,
		Options:    optionsOrEmpty(t.Options),
	}

	resp, err := c.postJSON(ctx, "/ajax/trigger_update", payload)
	if err != nil {
		return "", fmt.Errorf("create trigger: %w", err)
	}
	defer closeBody(ctx, resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{Op: "create trigger", StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var ur updateResponse
	if len(body) > 0 {
		// Best effort: the id is informational, the server assigned it
		// either way.
		_ = json.Unmarshal(body, &ur)
	}

	log.WithContext(ctx).DebugContext(ctx, "created trigger",
		slog.String("id", ur.ID),
		slog.String("trigger", t.Display()),
	)

	return ur.ID, nil
}

// Update rewrites an existing trigger in place, keyed by its remote identity.
func (c *Client) Update(ctx context.Context, r trigger.Remote) error {
	ctx, span := c.tracer.Start(ctx, "update", trace.WithAttributes(
		attribute.String("id", r.ID),
	))
	defer span.End()

	payload := updatePayload{
		ID:         r.ID,
		Conditions: r.Conditions,
		Actions:    r.Actions,
		Comment:    r.Comment,
		Options:    optionsOrEmpty(r.Options),
	}

	resp, err := c.postJSON(ctx, "/ajax/trigger_update", payload)
	if err != nil {
		return fmt.Errorf("update trigger: %w", err)
	}
	defer closeBody(ctx, resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Op: "update trigger", StatusCode: resp.StatusCode}
	}

	return nil
}

// Delete removes one trigger by remote identity.
func (c *Client) Delete(ctx context.Context, id string) error {
	ctx, span := c.tracer.Start(ctx, "delete", trace.WithAttributes(
		attribute.String("id", id),
	))
	defer span.End()

	resp, err := c.postForm(ctx, "/ajax/trigger_delete", url.Values{"id": {id}})
	if err != nil {
		return fmt.Errorf("delete trigger: %w", err)
	}
	defer closeBody(ctx, resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Op: "delete trigger", StatusCode: resp.StatusCode}
	}

	return nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post form: %w", err)
	}

	return resp, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post json: %w", err)
	}

	return resp, nil
}

func optionsOrEmpty(d *trigger.Document) trigger.Document {
	if d == nil || d.IsZero() {
		return trigger.MustNewDocument(map[string]any{})
	}

	return *d
}

func closeBody(ctx context.Context, resp *http.Response) {
	err := resp.Body.Close()
	if err != nil {
		log.WithContext(ctx).DebugContext(ctx, "close response body", slog.Any("error", err))
	}
}
