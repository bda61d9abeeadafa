package preload

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Iron-Ham/folio/internal/errors"
)

type seenRequest struct {
	method string
	rng    string
	agent  string
}

func recordingServer(t *testing.T, status int) (*httptest.Server, func() []seenRequest) {
	t.Helper()
	var mu sync.Mutex
	var seen []seenRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, seenRequest{r.Method, r.Header.Get("Range"), r.Header.Get("User-Agent")})
		mu.Unlock()
		w.WriteHeader(status)
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte("payload"))
		}
	}))
	t.Cleanup(srv.Close)
	return srv, func() []seenRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]seenRequest(nil), seen...)
	}
}

func TestHTTPFetcher_RequestPerKind(t *testing.T) {
	tests := []struct {
		kind       Kind
		wantMethod string
		wantRange  string
	}{
		{KindImage, http.MethodGet, ""},
		{KindFont, http.MethodGet, ""},
		{KindVideo, http.MethodGet, "bytes=0-0"},
		{KindDocument, http.MethodHead, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			srv, seen := recordingServer(t, http.StatusOK)
			f := NewHTTPFetcher(srv.Client(), "folio-test")

			if err := f.Fetch(context.Background(), srv.URL+"/asset", tt.kind); err != nil {
				t.Fatalf("Fetch() = %v", err)
			}

			reqs := seen()
			if len(reqs) != 1 {
				t.Fatalf("requests = %d, want 1", len(reqs))
			}
			if reqs[0].method != tt.wantMethod || reqs[0].rng != tt.wantRange {
				t.Errorf("request = %+v, want method %s range %q", reqs[0], tt.wantMethod, tt.wantRange)
			}
			if reqs[0].agent != "folio-test" {
				t.Errorf("User-Agent = %q", reqs[0].agent)
			}
		})
	}
}

func TestHTTPFetcher_ErrorStatus(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusNotFound)
	f := NewHTTPFetcher(srv.Client(), "")

	err := f.Fetch(context.Background(), srv.URL+"/missing.png", KindImage)
	if !errors.Is(err, errors.ErrLoadFailed) {
		t.Errorf("Fetch() = %v, want ErrLoadFailed", err)
	}
}

func TestHTTPFetcher_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := NewHTTPFetcher(nil, "").Fetch(context.Background(), url+"/a.png", KindImage)
	if !errors.Is(err, errors.ErrOffline) {
		t.Errorf("Fetch() = %v, want ErrOffline", err)
	}
}

func TestHTTPFetcher_LocalFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "resume.pdf")
	if err := os.WriteFile(file, []byte("%PDF"), 0o644); err != nil {
		t.Fatal(err)
	}

	f := NewHTTPFetcher(nil, "")
	ctx := context.Background()

	if err := f.Fetch(ctx, file, KindDocument); err != nil {
		t.Errorf("plain path: %v", err)
	}
	if err := f.Fetch(ctx, "file://"+file, KindDocument); err != nil {
		t.Errorf("file URL: %v", err)
	}
	if err := f.Fetch(ctx, filepath.Join(dir, "nope.png"), KindImage); !errors.Is(err, errors.ErrLoadFailed) {
		t.Errorf("missing file = %v, want ErrLoadFailed", err)
	}
	if err := f.Fetch(ctx, dir, KindImage); !errors.Is(err, errors.ErrLoadFailed) {
		t.Errorf("directory = %v, want ErrLoadFailed", err)
	}
	if err := f.Fetch(ctx, "ftp://example.com/x.png", KindImage); !errors.Is(err, errors.ErrLoadFailed) {
		t.Errorf("ftp scheme = %v, want ErrLoadFailed", err)
	}
}

func TestHTTPFetcher_WithPreloader(t *testing.T) {
	ok, _ := recordingServer(t, http.StatusOK)
	bad, _ := recordingServer(t, http.StatusInternalServerError)

	p := New(WithFetcher(NewHTTPFetcher(ok.Client(), "")))
	mustRegister(t, p.RegisterAsset(ok.URL+"/logo.png", KindImage, true))
	mustRegister(t, p.RegisterAsset(bad.URL+"/resume.pdf", KindDocument, true))

	if err := p.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	st := p.Status()
	if !st.Complete || st.Loaded != 2 || st.Failed != 1 {
		t.Errorf("Status() = %+v", st)
	}
}
