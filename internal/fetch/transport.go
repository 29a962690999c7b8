package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// ErrTransport wraps probe and fetch failures so callers can distinguish
// transient network conditions from structural resolution errors.
var ErrTransport = errors.New("transport failure")

// Transport is the narrow HTTP surface the orchestrator consumes: a HEAD
// reachability probe and a streaming GET. Tests substitute in-memory
// implementations.
type Transport interface {
	Probe(ctx context.Context, rawurl string) (bool, error)
	Fetch(ctx context.Context, rawurl, dest string) error
}

// HTTPTransport talks to real hosts with a standard client. Redirects follow
// the client's default policy, which matters for the GitHub release hosts the
// manifests point at.
type HTTPTransport struct {
	Client    *http.Client
	UserAgent string
}

// NewHTTPTransport returns a transport with the default client.
func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{Client: http.DefaultClient, UserAgent: "miner/1.0"}
}

// Probe issues a HEAD request and reports whether the URL answered with a
// 2xx status. A failed connection is a transport error; a non-2xx answer is
// an unreachable result, not an error.
func (t *HTTPTransport) Probe(ctx context.Context, rawurl string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawurl, nil)
	if err != nil {
		return false, fmt.Errorf("%w: probe %s: %v", ErrTransport, rawurl, err)
	}
	req.Header.Set("User-Agent", t.UserAgent)

	resp, err := t.Client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: probe %s: %v", ErrTransport, rawurl, err)
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

// Fetch streams the URL body to a temporary file beside dest and renames it
// into place once fully written, so a partial download never lands at the
// final name.
func (t *HTTPTransport) Fetch(ctx context.Context, rawurl, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return fmt.Errorf("%w: fetch %s: %v", ErrTransport, rawurl, err)
	}
	req.Header.Set("User-Agent", t.UserAgent)

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: fetch %s: %v", ErrTransport, rawurl, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: fetch %s: unexpected status %s", ErrTransport, rawurl, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("prepare download destination: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: fetch %s: %v", ErrTransport, rawurl, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("finalize download: %w", err)
	}
	return nil
}
