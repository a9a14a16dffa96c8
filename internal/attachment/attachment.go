package attachment

import (
	"context"
	"errors"
)

var ErrTooLarge = errors.New("attachment exceeds size limit")

type Downloader interface {
	// Download returns ErrTooLarge when the body is longer than limit bytes.
	Download(ctx context.Context, url string, limit int64) ([]byte, error)
}
