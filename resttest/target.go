package resttest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"
)

const readyPollInterval = time.Millisecond * 100

// Target is anything that scenario requests can be dispatched against.
type Target interface {
	Do(req *http.Request) (Response, error)
}

// Resetter is implemented by targets that can reset their state between scenarios,
// so that scenarios stay independent of each other.
type Resetter interface {
	Reset() error
}

// ResetTarget resets the target's state if the target supports that, and is a no-op
// otherwise.
func ResetTarget(target Target) error {
	if r, ok := target.(Resetter); ok {
		return r.Reset()
	}
	return nil
}

// HandlerTarget dispatches scenario requests directly to an http.Handler in
// process, without opening any sockets.
type HandlerTarget struct {
	Handler http.Handler

	// ResetFunc, if non-nil, is called between scenarios to reset whatever state
	// the handler owns.
	ResetFunc func() error
}

// NewHandlerTarget wraps an http.Handler as a Target.
func NewHandlerTarget(handler http.Handler) *HandlerTarget {
	return &HandlerTarget{Handler: handler}
}

func (t *HandlerTarget) Do(req *http.Request) (Response, error) {
	// give the relative request the shape of a server-side request
	serverReq := httptest.NewRequest(req.Method, req.URL.RequestURI(), req.Body)
	for name, values := range req.Header {
		serverReq.Header[name] = values
	}

	rec := httptest.NewRecorder()
	t.Handler.ServeHTTP(rec, serverReq)

	result := rec.Result()
	body, err := io.ReadAll(result.Body)
	result.Body.Close()
	if err != nil {
		return Response{}, fmt.Errorf("cannot read recorded response body: %w", err)
	}
	return Response{StatusCode: result.StatusCode, Header: result.Header, Body: body}, nil
}

func (t *HandlerTarget) Reset() error {
	if t.ResetFunc == nil {
		return nil
	}
	return t.ResetFunc()
}

// RemoteTarget dispatches scenario requests to a live service over HTTP.
type RemoteTarget struct {
	// BaseURL is the address of the service under test. Scenario paths are
	// appended to any path component it has.
	BaseURL string

	// ResetURL, if set, receives a POST between scenarios to reset service state.
	ResetURL string

	// Client is the HTTP client to use; http.DefaultClient if nil.
	Client *http.Client
}

func (t *RemoteTarget) client() *http.Client {
	if t.Client != nil {
		return t.Client
	}
	return http.DefaultClient
}

func (t *RemoteTarget) Do(req *http.Request) (Response, error) {
	base, err := url.Parse(t.BaseURL)
	if err != nil {
		return Response{}, fmt.Errorf("invalid base URL %q: %w", t.BaseURL, err)
	}

	absolute := *base
	absolute.Path = strings.TrimSuffix(base.Path, "/") + req.URL.Path
	// keep percent-escaped path parameters escaped on the wire
	absolute.RawPath = strings.TrimSuffix(base.EscapedPath(), "/") + req.URL.EscapedPath()
	absolute.RawQuery = req.URL.RawQuery

	outReq := req.Clone(req.Context())
	outReq.URL = &absolute
	outReq.Host = ""

	resp, err := t.client().Do(outReq)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("cannot read response body: %w", err)
	}
	return Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// Reset sends a POST to the configured reset URL, if any.
func (t *RemoteTarget) Reset() error {
	if t.ResetURL == "" {
		return nil
	}
	resp, err := t.client().Post(t.ResetURL, "application/json", nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("reset request to %s returned status %d", t.ResetURL, resp.StatusCode)
	}
	return nil
}

// WaitUntilReady polls the base URL until the service answers, regardless of status
// code, or until the timeout elapses. Progress dots are written to output, which
// may be nil.
func (t *RemoteTarget) WaitUntilReady(timeout time.Duration, output io.Writer) error {
	if output == nil {
		output = io.Discard
	}
	fmt.Fprintf(output, "Waiting for test target at %s", t.BaseURL)

	deadline := time.Now().Add(timeout)
	for {
		fmt.Fprintf(output, ".")
		resp, err := t.client().Get(t.BaseURL)
		if err == nil {
			resp.Body.Close()
			fmt.Fprintln(output)
			return nil
		}
		if !time.Now().Before(deadline) {
			fmt.Fprintln(output)
			return fmt.Errorf("timed out waiting for %s, last error was: %w", t.BaseURL, err)
		}
		time.Sleep(readyPollInterval)
	}
}
