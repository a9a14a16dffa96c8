package attachment

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/attachment"
)

type HTTPDownloader struct {
	client *http.Client
}

func NewHTTPDownloader(timeout time.Duration) *HTTPDownloader {
	return &HTTPDownloader{client: &http.Client{Timeout: timeout}}
}

func (d *HTTPDownloader) Download(ctx context.Context, url string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download attachment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("attachment download returned status %d", resp.StatusCode)
	}
	if resp.ContentLength > limit {
		return nil, attachment.ErrTooLarge
	}
	// One extra byte tells an exact-limit body apart from an oversized one.
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, attachment.ErrTooLarge
	}
	return data, nil
}
