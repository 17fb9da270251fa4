package httpds

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRemote_Open(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		w.Write([]byte("Invoice ID,City\nx,Yangon\n"))
	}))
	defer srv.Close()

	src := NewRemote(nil, srv.URL)
	body, err := src.Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(data) != "Invoice ID,City\nx,Yangon\n" {
		t.Errorf("body = %q", data)
	}
}

func TestRemote_OpenNon2xx(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := NewRemote(nil, srv.URL).Open(context.Background()); err == nil {
		t.Fatal("Open succeeded on 404")
	}
}
