// Package chunk splits long Markdown replies into Discord-sized messages
// without leaving a code fence open in any single message.
package chunk

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxLength leaves headroom below Discord's 2000 character cap.
const DefaultMaxLength = 1900

const (
	fenceMarker = "```"
	// "\n```" appended when a chunk ends inside a fence.
	fenceCloseLen = 4
)

// Split returns the chunks of text in order. Lengths are counted in runes.
// A maxLength of zero or less selects DefaultMaxLength.
func Split(text string, maxLength int) []string {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	if utf8.RuneCountInString(text) <= maxLength {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		if !endsInsideFence(trimmed) {
			return []string{trimmed}
		}
		if utf8.RuneCountInString(trimmed)+fenceCloseLen <= maxLength {
			return []string{trimmed + "\n" + fenceMarker}
		}
	}

	s := &splitter{max: maxLength}
	for _, line := range strings.Split(text, "\n") {
		s.addLine(line)
	}
	s.finish()
	return s.chunks
}

type splitter struct {
	max    int
	chunks []string

	buf    strings.Builder
	bufLen int
	// fresh marks a buffer that holds only the reopened fence header.
	fresh bool
	// fenceOnly marks a buffer that holds only an opening fence line.
	fenceOnly bool

	inFence bool
	lang    string
	// suppressed marks an open fence whose header is too wide to reopen;
	// its remaining content is emitted without fence markers.
	suppressed bool
}

func isFenceLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), fenceMarker)
}

// endsInsideFence reports whether text leaves a code block open, as a reply
// cut off by the output token limit does.
func endsInsideFence(text string) bool {
	open := false
	for _, line := range strings.Split(text, "\n") {
		if isFenceLine(line) {
			open = !open
		}
	}
	return open
}

func (s *splitter) addLine(line string) {
	if isFenceLine(line) {
		if s.inFence {
			s.closeFence(line)
			return
		}
		if s.openFence(line) {
			return
		}
		// The header can never be reopened, so the block is written
		// without markers and its closing line is dropped.
		s.inFence = true
		s.suppressed = true
		line = strings.TrimLeft(strings.TrimSpace(line), "`")
	}
	s.addText(line, s.closeReserve())
}

func (s *splitter) closeReserve() int {
	if s.inFence && !s.suppressed {
		return fenceCloseLen
	}
	return 0
}

// openFence reports false when the fence line cannot fit in any chunk.
func (s *splitter) openFence(line string) bool {
	n := utf8.RuneCountInString(line)
	if n+fenceCloseLen > s.max {
		return false
	}
	if !s.fits(n, fenceCloseLen) {
		s.flush()
	}
	s.appendFence(line, n)
	s.inFence = true
	s.lang = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fenceMarker))
	return true
}

func (s *splitter) closeFence(line string) {
	n := utf8.RuneCountInString(line)
	if s.suppressed {
		s.inFence = false
		s.suppressed = false
		return
	}
	if s.fresh {
		// Nothing was written after the reopened header; drop the empty block.
		s.resetBuffer()
		s.inFence = false
		return
	}
	if s.fits(n, 0) {
		s.append(line, n)
		s.inFence = false
		return
	}
	// The reserved room always fits a bare closing fence.
	s.buf.WriteString("\n" + fenceMarker)
	s.inFence = false
	s.push()
}

func (s *splitter) addText(line string, reserve int) {
	n := utf8.RuneCountInString(line)
	if s.fits(n, reserve) {
		s.append(line, n)
		return
	}
	if s.bufLen > 0 && !s.fresh && !s.fenceOnly {
		s.flush()
		if s.fits(n, reserve) {
			s.append(line, n)
			return
		}
	}
	s.hardSplit(line, reserve)
}

// hardSplit cuts a line that cannot fit into fixed-size pieces. Every full
// piece becomes its own chunk; the remainder stays buffered.
func (s *splitter) hardSplit(line string, reserve int) {
	runes := []rune(line)
	for len(runes) > 0 {
		room := s.max - s.bufLen - s.separatorLen() - reserve
		if room <= 0 {
			if s.bufLen > 0 && !s.fresh {
				s.flush()
				continue
			}
			s.resetBuffer()
			s.suppressed = s.inFence
			reserve = 0
			room = s.max
		}
		take := min(room, len(runes))
		s.append(string(runes[:take]), take)
		runes = runes[take:]
		if len(runes) > 0 {
			s.flush()
		}
	}
}

func (s *splitter) separatorLen() int {
	if s.bufLen > 0 {
		return 1
	}
	return 0
}

func (s *splitter) fits(n, reserve int) bool {
	return s.bufLen+s.separatorLen()+n+reserve <= s.max
}

func (s *splitter) append(text string, n int) {
	if s.bufLen > 0 {
		s.buf.WriteByte('\n')
		s.bufLen++
	}
	s.buf.WriteString(text)
	s.bufLen += n
	s.fresh = false
	s.fenceOnly = false
}

func (s *splitter) appendFence(line string, n int) {
	wasEmpty := s.bufLen == 0
	s.append(line, n)
	s.fenceOnly = wasEmpty
}

// flush closes an open fence, emits the buffer and reopens the fence with
// the same language tag in the next buffer.
func (s *splitter) flush() {
	if s.fresh {
		return
	}
	fenced := s.inFence && !s.suppressed
	if fenced {
		s.buf.WriteString("\n" + fenceMarker)
	}
	s.push()
	if !fenced {
		return
	}
	header := fenceMarker + s.lang
	n := utf8.RuneCountInString(header)
	if n+1+fenceCloseLen >= s.max {
		s.suppressed = true
		return
	}
	s.buf.WriteString(header)
	s.bufLen = n
	s.fresh = true
}

func (s *splitter) push() {
	if chunk := strings.TrimSpace(s.buf.String()); chunk != "" {
		s.chunks = append(s.chunks, chunk)
	}
	s.resetBuffer()
}

func (s *splitter) resetBuffer() {
	s.buf.Reset()
	s.bufLen = 0
	s.fresh = false
	s.fenceOnly = false
}

func (s *splitter) finish() {
	if s.fresh {
		s.resetBuffer()
		return
	}
	if s.inFence && !s.suppressed && s.bufLen > 0 {
		s.buf.WriteString("\n" + fenceMarker)
	}
	s.push()
}
