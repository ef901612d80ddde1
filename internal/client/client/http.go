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
	"strings"
	"time"

	"github.com/dmitrijs2005/lingokeeper/internal/logging"
)

// MethodSpec describes one remote call relative to the base URL.
type MethodSpec struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	// Anonymous calls are sent without the credential.
	Anonymous bool
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) ok() bool {
	return e.Code == 0 || e.Code == 200
}

type HTTPClient struct {
	baseURL  string
	timeout  time.Duration
	creds    CredentialStore
	http     *http.Client
	notifier Notifier
	log      logging.Logger
	now      func() time.Time

	onUnauthenticated func(ctx context.Context)
}

type Option func(*HTTPClient)

func WithNotifier(n Notifier) Option {
	return func(c *HTTPClient) { c.notifier = n }
}

// WithUnauthenticatedHandler registers fn to run after the credential has
// been cleared because of an authentication failure.
func WithUnauthenticatedHandler(fn func(ctx context.Context)) Option {
	return func(c *HTTPClient) { c.onUnauthenticated = fn }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// WithRoundTripper replaces the network transport below the credential layer.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(c *HTTPClient) { c.http.Transport = rt }
}

func WithClock(now func() time.Time) Option {
	return func(c *HTTPClient) { c.now = now }
}

// NewHTTPClient builds the pipeline. Every call is bounded by timeout.
func NewHTTPClient(baseURL string, timeout time.Duration, creds CredentialStore, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		timeout:  timeout,
		creds:    creds,
		http:     &http.Client{Transport: http.DefaultTransport},
		notifier: nopNotifier{},
		log:      logging.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.Transport = &bearerTransport{base: c.http.Transport, creds: creds, now: c.now}
	return c
}

// Send performs spec and decodes the envelope data into out (which may be
// nil). Any failure is classified into an *Error; the matching notice is
// raised before Send returns.
func (c *HTTPClient) Send(ctx context.Context, spec MethodSpec, out any) error {
	started := c.now()

	resp, body, err := c.do(ctx, spec)
	if err != nil {
		return c.fail(ctx, spec, err)
	}

	c.log.Debug(ctx, "remote call",
		"method", spec.Method, "path", spec.Path,
		"status", resp.StatusCode, "duration", c.now().Sub(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(ctx, spec, statusError(resp.StatusCode, body))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return c.fail(ctx, spec, &Error{Kind: ErrDecode, Status: resp.StatusCode, Message: "Invalid response from server", Err: err})
	}
	if !env.ok() {
		msg := env.Message
		if msg == "" {
			msg = MsgRequestFailed
		}
		return c.fail(ctx, spec, &Error{Kind: ErrBusiness, Status: resp.StatusCode, Code: env.Code, Message: msg})
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return c.fail(ctx, spec, &Error{Kind: ErrDecode, Status: resp.StatusCode, Message: "Invalid response from server", Err: err})
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, spec MethodSpec) (*http.Response, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if spec.Anonymous {
		ctx = withoutCredential(ctx)
	}

	u := c.baseURL + spec.Path
	if len(spec.Query) > 0 {
		u += "?" + spec.Query.Encode()
	}

	var reader io.Reader
	if spec.Body != nil {
		b, err := json.Marshal(spec.Body)
		if err != nil {
			return nil, nil, &Error{Kind: ErrRequestFailed, Message: MsgRequestFailed, Err: err}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, spec.Method, u, reader)
	if err != nil {
		return nil, nil, &Error{Kind: ErrRequestFailed, Message: MsgRequestFailed, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, c.transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, c.transportError(err)
	}
	return resp, body, nil
}

// transportError classifies a failure where no HTTP status is available.
func (c *HTTPClient) transportError(err error) *Error {
	if errors.Is(err, errCredentialExpired) {
		return &Error{Kind: ErrUnauthorized, Message: MsgSessionExpired, Err: err}
	}

	msg := MsgNetworkError
	var uerr *url.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		msg = fmt.Sprintf("timeout of %s exceeded", c.timeout)
	case errors.As(err, &uerr) && uerr.Err != nil:
		msg = uerr.Err.Error()
	case err.Error() != "":
		msg = err.Error()
	}
	return &Error{Kind: ErrUnavailable, Message: msg, Err: err}
}

// statusError classifies a non-2xx response. The server's envelope message
// is preferred when the body carries one.
func statusError(status int, body []byte) *Error {
	var env envelope
	msg := ""
	if json.Unmarshal(body, &env) == nil {
		msg = env.Message
	}
	if msg == "" {
		msg = fmt.Sprintf("Request failed with status code %d", status)
	}
	return &Error{Kind: kindForStatus(status), Status: status, Code: env.Code, Message: msg}
}

func (c *HTTPClient) fail(ctx context.Context, spec MethodSpec, err error) error {
	var e *Error
	if !errors.As(err, &e) {
		e = &Error{Kind: ErrRequestFailed, Message: MsgRequestFailed, Err: err}
	}

	if e.Kind == ErrUnauthorized {
		c.log.Warn(ctx, "authentication failure, clearing credential", "method", spec.Method, "path", spec.Path)
		if cerr := c.creds.Clear(ctx); cerr != nil {
			c.log.Error(ctx, "failed to clear credential", "error", cerr)
		}
	} else {
		c.log.Warn(ctx, "remote call failed", "method", spec.Method, "path", spec.Path, "error", e.Detail())
	}

	c.notifier.Notify(ctx, noticeFor(e))

	if e.Kind == ErrUnauthorized && c.onUnauthenticated != nil {
		c.onUnauthenticated(ctx)
	}
	return e
}
