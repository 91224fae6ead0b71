// Package gateway wraps the appraisal backend's REST contract with bearer
// token injection, failure classification and a one-shot retry, reading the
// session slot on every call.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/facultyms/appraise/session"
	"github.com/facultyms/appraise/token"
)

const (
	defaultTimeout = 30 * time.Second
	retryBackoff   = time.Second
	loginPath      = "/login"
)

// Navigator lets the gateway bounce the UI to the login view after an auth
// rejection. Implementations report the current location and perform the
// move; the gateway never navigates on its own otherwise.
type Navigator interface {
	Location() string
	NavigateTo(path string)
}

// Notifier receives the user-facing summary of a failed call, toast-style.
// Unauthorized redirects stay silent.
type Notifier interface {
	Notify(message string)
}

// Client is the HTTP gateway to the appraisal API.
type Client struct {
	baseURL  string
	httpc    *http.Client
	store    session.Store
	nav      Navigator
	notifier Notifier
	log      *slog.Logger
	validate *validator.Validate
	backoff  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default 30-second-timeout HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithNavigator installs the redirect hook used on 401 responses.
func WithNavigator(nav Navigator) Option {
	return func(c *Client) { c.nav = nav }
}

// WithNotifier installs the failure-message hook.
func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithLogger sets the structured logger for request logging.
// If not set, a default JSON logger writing to stderr is used.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New builds a Client for the API at baseURL, reading the session slot from
// store before every request.
func New(baseURL string, store session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		httpc:    &http.Client{Timeout: defaultTimeout},
		store:    store,
		validate: validator.New(),
		backoff:  retryBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return c
}

// validateInput checks a request payload against its struct tags before it
// leaves the client.
func (c *Client) validateInput(v any) error {
	if err := c.validate.Struct(v); err != nil {
		return fmt.Errorf("validating request: %w", err)
	}
	return nil
}

func (c *Client) toast(msg string) {
	if c.notifier != nil {
		c.notifier.Notify(msg)
	}
}

// authHeader runs the pre-send stage: no session or no token sends the
// request bare; an unusable token clears the slot and aborts before the
// transport is touched.
func (c *Client) authHeader() (string, *Error) {
	rec := c.store.Load()
	if rec == nil || rec.Token == "" {
		return "", nil
	}
	switch token.Inspect(rec.Token) {
	case token.StatusMalformed:
		_ = c.store.Clear()
		return "", &Error{Kind: KindMalformedToken, Message: msgExpired}
	case token.StatusExpired:
		_ = c.store.Clear()
		return "", &Error{Kind: KindExpiredToken, Message: msgExpired}
	}
	return "Bearer " + rec.Token, nil
}

// do issues one logical API call: marshal body, run the request stage, send,
// run the response stage (with at most one retry), decode into out. A nil
// out discards the response body; an *[]byte out receives it raw.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("serializing request body: %w", err)
		}
	}

	authz, gerr := c.authHeader()
	if gerr != nil {
		c.log.Warn("request aborted before send",
			"method", method, "path", path, "kind", string(gerr.Kind))
		c.toast(gerr.Message)
		return gerr
	}

	requestID := uuid.NewString()
	retried := false

	for {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Request-ID", requestID)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			// Transport failure: no response at all.
			c.log.Warn("request failed", "method", method, "path", path,
				"request_id", requestID, "error", err)
			c.toast(msgNetwork)
			return &Error{Kind: KindNetwork, Message: msgNetwork, cause: err}
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			c.toast(msgNetwork)
			return &Error{Kind: KindNetwork, Message: msgNetwork, cause: err}
		}

		c.log.Debug("response", "method", method, "path", path,
			"request_id", requestID, "status", resp.StatusCode, "retried", retried)

		if resp.StatusCode < http.StatusMultipleChoices {
			return decodeInto(out, respBody)
		}

		gerr := c.classify(resp.StatusCode, respBody, retried)
		if gerr == nil {
			// One transient failure gets one identical resend after a fixed
			// backoff; a second failure of any kind propagates.
			retried = true
			select {
			case <-time.After(c.backoff):
			case <-ctx.Done():
				c.toast(msgNetwork)
				return &Error{Kind: KindNetwork, Message: msgNetwork, cause: ctx.Err()}
			}
			continue
		}
		return gerr
	}
}

// classify maps a non-2xx status to the failure taxonomy, applying the
// session-invalidating side effects. A nil return means "retry this one".
func (c *Client) classify(status int, body []byte, retried bool) *Error {
	switch {
	case status == http.StatusUnauthorized:
		// The slot never survives a rejected credential. The redirect is
		// silent, and skipped when the client is already on the login view.
		_ = c.store.Clear()
		if c.nav != nil && c.nav.Location() != loginPath {
			c.nav.NavigateTo(loginPath)
		}
		msg, ok := apiMessage(body)
		if !ok {
			msg = http.StatusText(status)
		}
		return &Error{Kind: KindUnauthorized, Status: status, Message: msg, Body: body}

	case (status == http.StatusRequestTimeout || status == http.StatusServiceUnavailable) && !retried:
		return nil

	case status >= http.StatusInternalServerError:
		// Covers a 503 whose one retry is already spent.
		c.toast(msgServer)
		return &Error{Kind: KindServer, Status: status, Message: msgServer, Body: body, Retried: retried}

	case status == http.StatusRequestTimeout:
		msg, ok := apiMessage(body)
		if !ok {
			msg = http.StatusText(status)
		}
		c.toast(msg)
		return &Error{Kind: KindTransient, Status: status, Message: msg, Body: body, Retried: true}

	default:
		msg, ok := apiMessage(body)
		kind := KindUnknown
		if ok && status >= http.StatusBadRequest && status < http.StatusInternalServerError {
			kind = KindValidation
		}
		if !ok {
			msg = http.StatusText(status)
		}
		c.toast(msg)
		return &Error{Kind: kind, Status: status, Message: msg, Body: body}
	}
}

func decodeInto(out any, body []byte) error {
	switch dst := out.(type) {
	case nil:
		return nil
	case *[]byte:
		*dst = body
		return nil
	default:
		if len(body) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decoding response body: %w", err)
		}
		return nil
	}
}
