package prompt

import (
	"net/url"
	"regexp"
	"strings"
)

// MaxScrapedURLs bounds how many plain links of one message are fetched.
const MaxScrapedURLs = 3

var (
	youtubePatterns = []*regexp.Regexp{
		regexp.MustCompile(`https?://(?:www\.)?youtube\.com/watch\?v=[\w-]+`),
		regexp.MustCompile(`https?://youtu\.be/[\w-]+`),
		regexp.MustCompile(`https?://(?:www\.)?youtube\.com/embed/[\w-]+`),
	}
	tenorPattern = regexp.MustCompile(`https?://tenor\.com/view/[\w-]+`)
	urlPattern   = regexp.MustCompile(`https?://[^\s<>]+`)
)

// ExtractYouTubeURL returns the first match of the watch, short-link and
// embed forms, checked in that order.
func ExtractYouTubeURL(text string) string {
	for _, p := range youtubePatterns {
		if m := p.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

func ExtractTenorURL(text string) string {
	return tenorPattern.FindString(text)
}

// ExtractPageURLs returns distinct links that are neither video nor GIF
// links, in order of appearance, at most MaxScrapedURLs of them.
func ExtractPageURLs(text string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, raw := range urlPattern.FindAllString(text, -1) {
		u := strings.TrimRight(raw, ".,;:!?)]}'\"*_`>")
		if u == "" || isMediaHost(u) {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
		if len(out) == MaxScrapedURLs {
			break
		}
	}
	return out
}

func isMediaHost(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return true
	}
	switch strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.") {
	case "youtube.com", "youtu.be", "m.youtube.com", "tenor.com", "media.tenor.com":
		return true
	}
	return false
}
