// Package prompt turns one user turn into ordered model content parts and
// the model answer into reply text.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/llm"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/scraper"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/search"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/session"
)

const (
	maxSearchResults   = 5
	maxTitleLength     = 100
	maxSnippetLength   = 200
	pdfMIMEType        = "application/pdf"
	defaultMaxFileSize = 25 * 1024 * 1024
)

var (
	ErrFileTooLarge = errors.New("file exceeds size limit")
	ErrPDFTooLarge  = errors.New("pdf exceeds size limit")
)

type Media struct {
	Data     []byte
	MIMEType string
}

// Request is one turn. An empty Prompt is only sent with Media.
type Request struct {
	ChannelID   string
	Prompt      string
	SearchQuery string
	Media       *Media
	VideoURL    string
	GIFURL      string
	PageURLs    []string
	// Deep selects the reasoning model when the turn creates the session.
	Deep bool
}

type Settings struct {
	Model             string
	DeepModel         string
	SystemInstruction string
	Temperature       float32
	MaxOutputTokens   int32
	MaxFileSize       int64
	URLContext        bool
	RequestTimeout    time.Duration
}

type Assembler struct {
	chat     llm.ChatService
	sessions *session.Store
	searcher search.Searcher
	scraper  scraper.Scraper
	settings Settings
}

func NewAssembler(chat llm.ChatService, sessions *session.Store, searcher search.Searcher, sc scraper.Scraper, settings Settings) *Assembler {
	if settings.MaxFileSize <= 0 {
		settings.MaxFileSize = defaultMaxFileSize
	}
	if settings.SystemInstruction == "" {
		settings.SystemInstruction = DefaultSystemInstruction
	}
	return &Assembler{
		chat:     chat,
		sessions: sessions,
		searcher: searcher,
		scraper:  sc,
		settings: settings,
	}
}

// CheckMedia enforces the per-part size limit without any network call.
func (a *Assembler) CheckMedia(m *Media) error {
	if m == nil || int64(len(m.Data)) <= a.settings.MaxFileSize {
		return nil
	}
	if normalizeMIMEType(m.MIMEType) == pdfMIMEType {
		return ErrPDFTooLarge
	}
	return ErrFileTooLarge
}

// Assemble builds the parts in their fixed order: prompt, search results,
// media, video link, GIF link, then one part per scraped page.
func (a *Assembler) Assemble(ctx context.Context, req Request) ([]llm.Part, error) {
	if err := a.CheckMedia(req.Media); err != nil {
		return nil, err
	}

	var parts []llm.Part
	if req.Prompt != "" {
		parts = append(parts, llm.TextPart(req.Prompt))
	}
	if req.SearchQuery != "" {
		parts = append(parts, llm.TextPart(a.searchBlock(ctx, req.SearchQuery)))
	}
	if req.Media != nil {
		p, err := a.mediaPart(ctx, req.Media)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	if req.VideoURL != "" {
		parts = append(parts, llm.VideoPart(req.VideoURL))
	}
	if req.GIFURL != "" {
		parts = append(parts, llm.TextPart(req.GIFURL))
	}
	for _, u := range req.PageURLs {
		parts = append(parts, llm.TextPart(fmt.Sprintf(pageContentFormat, u, a.scrape(ctx, u))))
	}
	return parts, nil
}

func (a *Assembler) mediaPart(ctx context.Context, m *Media) (llm.Part, error) {
	mimeType := normalizeMIMEType(m.MIMEType)
	if mimeType != pdfMIMEType {
		return llm.BlobPart(m.Data, mimeType), nil
	}
	ref, err := a.chat.UploadFile(ctx, m.Data, pdfMIMEType)
	if err != nil {
		return llm.Part{}, fmt.Errorf("failed to upload pdf: %w", err)
	}
	return llm.FilePart(ref), nil
}

func (a *Assembler) searchBlock(ctx context.Context, query string) string {
	results, err := a.searcher.Search(ctx, query)
	if err != nil {
		slog.Error("search failed", "error", err, "query", query)
		return searchFailed
	}
	if len(results) == 0 {
		return searchNoResults
	}
	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}

	var sb strings.Builder
	sb.WriteString(searchHeader)
	for i, r := range results {
		title := r.Title
		if title == "" {
			title = "No Title"
		}
		snippet := r.Snippet
		if snippet == "" {
			snippet = "No description"
		}
		fmt.Fprintf(&sb, searchItemFormat, i+1, truncate(title, maxTitleLength), truncate(snippet, maxSnippetLength), r.Link)
	}
	first := results[0].Link
	fmt.Fprintf(&sb, pageContentFormat, first, a.scrape(ctx, first))
	return sb.String()
}

// scrape never fails; errors become inline notices for the model.
func (a *Assembler) scrape(ctx context.Context, url string) string {
	text, err := a.scraper.Fetch(ctx, url)
	if err != nil {
		slog.Warn("scrape failed", "error", err, "url", url)
		return scrapeErrorText(url, err)
	}
	if strings.TrimSpace(text) == "" {
		return scrapeEmpty
	}
	return text
}

func scrapeErrorText(url string, err error) string {
	var statusErr *scraper.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf(scrapeStatusFormat, statusErr.StatusCode, url)
	}
	if isTimeout(err) {
		return fmt.Sprintf(scrapeTimeoutFormat, url)
	}
	return fmt.Sprintf(scrapeFailedFormat, url)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// SessionConfigFor decides the configuration a session created by req gets.
func (a *Assembler) SessionConfigFor(req Request) llm.SessionConfig {
	model := a.settings.Model
	if req.Deep && a.settings.DeepModel != "" {
		model = a.settings.DeepModel
	}
	return llm.SessionConfig{
		Model:             model,
		SystemInstruction: a.settings.SystemInstruction,
		Temperature:       a.settings.Temperature,
		MaxOutputTokens:   a.settings.MaxOutputTokens,
		GoogleSearch:      req.SearchQuery != "",
		URLContext:        a.settings.URLContext && len(req.PageURLs) > 0,
	}
}

// Respond runs one turn in the channel's session and always returns text
// suitable for the channel, including for failures.
func (a *Assembler) Respond(ctx context.Context, req Request) string {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	parts, err := a.Assemble(ctx, req)
	if err != nil {
		return a.failure(err, req.ChannelID)
	}
	sess, created, err := a.sessions.GetOrCreate(ctx, req.ChannelID, a.SessionConfigFor(req))
	if err != nil {
		return a.failure(err, req.ChannelID)
	}
	if created {
		slog.Debug("new session for turn", "channel_id", req.ChannelID, "deep", req.Deep)
	}
	reply, err := sess.Send(ctx, parts)
	if err != nil {
		return a.failure(err, req.ChannelID)
	}
	return FormatReply(reply)
}

// RespondOnce sends prompt to a fresh session that is not stored.
func (a *Assembler) RespondOnce(ctx context.Context, prompt string) string {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	sess, err := a.chat.CreateSession(ctx, a.SessionConfigFor(Request{}))
	if err != nil {
		return a.failure(err, "")
	}
	reply, err := sess.Send(ctx, []llm.Part{llm.TextPart(prompt)})
	if err != nil {
		return a.failure(err, "")
	}
	return FormatReply(reply)
}

func (a *Assembler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.settings.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.settings.RequestTimeout)
}

func (a *Assembler) failure(err error, channelID string) string {
	if msg := a.errorMessage(err); msg != "" {
		return msg
	}
	if isTimeout(err) {
		slog.Warn("model request timed out", "error", err, "channel_id", channelID)
		return MessageTimeout
	}
	slog.Error("model request failed", "error", err, "channel_id", channelID)
	return MessageGenerationError
}

func (a *Assembler) errorMessage(err error) string {
	switch {
	case errors.Is(err, ErrPDFTooLarge):
		return SizeLimitMessage(pdfMIMEType, a.settings.MaxFileSize)
	case errors.Is(err, ErrFileTooLarge):
		return SizeLimitMessage("", a.settings.MaxFileSize)
	}
	return ""
}

// SizeLimitMessage is the reply for an attachment above limit bytes.
func SizeLimitMessage(mimeType string, limit int64) string {
	mb := limit / (1024 * 1024)
	if normalizeMIMEType(mimeType) == pdfMIMEType {
		return fmt.Sprintf(messagePDFTooLarge, mb)
	}
	return fmt.Sprintf(messageFileTooLarge, mb)
}

// FormatReply normalises plain answers into paragraphs and appends the
// grounding sources.
func FormatReply(reply llm.Reply) string {
	text := strings.TrimSpace(reply.Text)
	if text == "" {
		return MessageEmptyResponse
	}
	text = Normalize(text)
	if len(reply.Sources) == 0 {
		return text
	}
	var sb strings.Builder
	sb.WriteString(text)
	sb.WriteString("\n\n")
	sb.WriteString(sourcesHeader)
	for _, s := range reply.Sources {
		sb.WriteString("\n- <")
		sb.WriteString(s)
		sb.WriteString(">")
	}
	return sb.String()
}

// Normalize rewrites text without headings, bullets or code fences into
// blank-line separated paragraphs.
func Normalize(text string) string {
	if strings.Contains(text, "#") || strings.Contains(text, "-") || strings.Contains(text, "```") {
		return text
	}
	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
