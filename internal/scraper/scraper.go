package scraper

import (
	"context"
	"fmt"
)

// MaxTextLength caps the text extracted from a single page.
const MaxTextLength = 5000

type Scraper interface {
	// Fetch returns the readable text of the page at url, at most
	// MaxTextLength characters.
	Fetch(ctx context.Context, url string) (string, error)
}

// StatusError reports a non-200 response from the scraped page.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected http status %d", e.StatusCode)
}
