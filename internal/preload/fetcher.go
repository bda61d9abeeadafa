package preload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/Iron-Ham/folio/internal/errors"
)

// Fetcher performs the load for an asset resource.
type Fetcher interface {
	Fetch(ctx context.Context, locator string, kind Kind) error
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, locator string, kind Kind) error

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, locator string, kind Kind) error {
	return f(ctx, locator, kind)
}

// HTTPFetcher loads http(s) locators over the network and checks local
// paths (plain or file://) with os.Stat.
//
// Per kind:
//   - image, font: GET, body drained
//   - video: GET of the first byte only (Range: bytes=0-0)
//   - document: HEAD
//
// Any status >= 400 is a failure. A request that gets no answer at all
// fails with errors.ErrOffline.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher creates a fetcher. A nil client uses http.DefaultClient;
// the preloader's context carries the timeout.
func NewHTTPFetcher(client *http.Client, userAgent string) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{client: client, userAgent: userAgent}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, locator string, kind Kind) error {
	u, err := url.Parse(locator)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrLoadFailed, err)
	}

	switch u.Scheme {
	case "http", "https":
		return f.fetchHTTP(ctx, u.String(), kind)
	case "file":
		return statFile(u.Path)
	case "":
		return statFile(locator)
	default:
		return fmt.Errorf("%w: unsupported scheme %q", errors.ErrLoadFailed, u.Scheme)
	}
}

func (f *HTTPFetcher) fetchHTTP(ctx context.Context, target string, kind Kind) error {
	method := http.MethodGet
	if kind == KindDocument {
		method = http.MethodHead
	}

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrLoadFailed, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	if kind == KindVideo {
		req.Header.Set("Range", "bytes=0-0")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		return errors.Join(errors.ErrOffline, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: %s returned %d", errors.ErrLoadFailed, target, resp.StatusCode)
	}

	if method == http.MethodGet && kind != KindVideo {
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			return err
		}
	}
	return nil
}

func statFile(p string) error {
	info, err := os.Stat(p)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrLoadFailed, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", errors.ErrLoadFailed, p)
	}
	return nil
}
