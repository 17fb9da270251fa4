package httpds

import (
	"context"
	"fmt"
	"io"

	"salespipe/internal/datasource"
)

// Remote is a datasource.Source backed by an HTTP endpoint. Opening it issues
// a GET for the configured URL and streams the response body.
type Remote struct {
	client *Client
	url    string
}

// NewRemote returns a Remote source that fetches url with the given client.
// A nil client gets the package defaults.
func NewRemote(client *Client, url string) *Remote {
	if client == nil {
		client = NewClient(Config{})
	}
	return &Remote{client: client, url: url}
}

// Open fetches the URL and returns the response body for streaming. A
// non-2xx final status is an error; the body is closed before returning it.
func (r *Remote) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := r.client.Get(ctx, r.url, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("httpds: unexpected status %d from GET %s", resp.StatusCode, r.url)
	}
	return resp.Body, nil
}

var _ datasource.Source = (*Remote)(nil)
