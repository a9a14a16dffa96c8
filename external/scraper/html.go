package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/scraper"
	"golang.org/x/net/html"
)

const (
	userAgent = "Mozilla/5.0 (compatible; DiscordBot/1.0)"
	// Pages larger than this are truncated before parsing.
	maxBodyBytes = 4 << 20
)

var contentTags = map[string]struct{}{
	"p": {}, "h1": {}, "h2": {}, "h3": {}, "article": {}, "main": {},
}

type HTMLScraper struct {
	client *http.Client
}

func NewHTMLScraper(timeout time.Duration) *HTMLScraper {
	return &HTMLScraper{client: &http.Client{Timeout: timeout}}
}

func (s *HTMLScraper) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &scraper.StatusError{StatusCode: resp.StatusCode}
	}
	doc, err := html.Parse(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}
	return truncateRunes(extractContent(doc), scraper.MaxTextLength), nil
}

// extractContent visits content elements in document order. Nested content
// elements contribute their text again, once per matching ancestor.
func extractContent(doc *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, ok := contentTags[n.Data]; ok {
				if text := strings.TrimSpace(textContent(n)); text != "" {
					sb.WriteString(text)
					sb.WriteByte('\n')
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return sb.String()
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
