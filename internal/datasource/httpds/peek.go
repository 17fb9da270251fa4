package httpds

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// FetchFirstBytes samples the head of a remote export: at most n bytes via
// GET. It asks for a Range ("bytes=0-(n-1)") and additionally caps the read
// client-side, so servers that ignore Range still cost at most n bytes. The
// probe uses this to inspect a header row without downloading the export.
func (c *Client) FetchFirstBytes(ctx context.Context, url string, n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("httpds: n must be > 0")
	}

	h := make(http.Header)
	h.Set("Range", fmt.Sprintf("bytes=0-%d", n-1))

	resp, err := c.Do(ctx, http.MethodGet, url, h)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	lr := &io.LimitedReader{R: resp.Body, N: int64(n)}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(lr); err != nil && err != io.EOF {
		return nil, err
	}
	return buf.Bytes(), nil
}
