package httpds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func peekClient() *Client {
	c := NewClient(Config{
		Timeout:        2 * time.Second,
		InitialBackoff: 10 * time.Millisecond,
		MaxBackoff:     20 * time.Millisecond,
	})
	c.sleep = func(time.Duration) {}
	return c
}

// The cap holds even when the server ignores the Range header and streams the
// full body: sampling the head of a large export must never download all of it.
func TestFetchFirstBytes_LimitsToN(t *testing.T) {
	t.Parallel()

	const body = "Invoice ID,Branch,City\n"
	const n = 10

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	got, err := peekClient().FetchFirstBytes(context.Background(), srv.URL, n)
	if err != nil {
		t.Fatalf("FetchFirstBytes: %v", err)
	}
	if string(got) != body[:n] {
		t.Fatalf("got %q, want %q", got, body[:n])
	}
}

func TestFetchFirstBytes_SendsRangeHeader(t *testing.T) {
	t.Parallel()

	var sawRange string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawRange = r.Header.Get("Range")
		w.Write([]byte("abcdefg"))
	}))
	defer srv.Close()

	got, err := peekClient().FetchFirstBytes(context.Background(), srv.URL, 5)
	if err != nil {
		t.Fatalf("FetchFirstBytes: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d bytes, want 5", len(got))
	}
	if sawRange != "bytes=0-4" {
		t.Fatalf("Range header = %q, want %q", sawRange, "bytes=0-4")
	}
}

func TestFetchFirstBytes_InvalidN(t *testing.T) {
	t.Parallel()

	if _, err := peekClient().FetchFirstBytes(context.Background(), "http://example.com", 0); err == nil {
		t.Fatal("FetchFirstBytes accepted n <= 0")
	}
}

func TestFetchFirstBytes_ContextCanceled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := peekClient().FetchFirstBytes(ctx, srv.URL, 10); err == nil {
		t.Fatal("FetchFirstBytes succeeded on canceled context")
	}
}
