package chunk

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertChunkInvariants(t *testing.T, chunks []string, maxLength int) {
	t.Helper()
	for i, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), maxLength, "chunk %d too long: %q", i, c)
		assert.NotEmpty(t, strings.TrimSpace(c), "chunk %d is blank", i)
		assert.Equal(t, 0, strings.Count(c, fenceMarker)%2, "chunk %d has an unterminated fence: %q", i, c)
	}
}

func TestSplit_ShortTextIsSingleChunk(t *testing.T) {
	chunks := Split("  halo dunia  ", 1900)
	assert.Equal(t, []string{"halo dunia"}, chunks)
}

func TestSplit_BlankTextYieldsNothing(t *testing.T) {
	assert.Empty(t, Split(" \n\t ", 10))
	assert.Empty(t, Split("", 10))
}

func TestSplit_DefaultMaxLength(t *testing.T) {
	text := strings.Repeat("a", DefaultMaxLength+10)
	chunks := Split(text, 0)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], DefaultMaxLength)
	assert.Len(t, chunks[1], 10)
}

func TestSplit_BreaksOnLines(t *testing.T) {
	text := "satu\ndua\ntiga\nempat"
	chunks := Split(text, 9)
	assert.Equal(t, []string{"satu\ndua", "tiga", "empat"}, chunks)
	assertChunkInvariants(t, chunks, 9)
}

func TestSplit_HardSplitsLongLine(t *testing.T) {
	text := "intro\n" + strings.Repeat("x", 25)
	chunks := Split(text, 10)
	assert.Equal(t, []string{"intro", "xxxxxxxxxx", "xxxxxxxxxx", "xxxxx"}, chunks)
	assertChunkInvariants(t, chunks, 10)
}

func TestSplit_HardSplitDoesNotBreakRunes(t *testing.T) {
	text := strings.Repeat("é", 12)
	chunks := Split(text, 5)
	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c))
	}
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestSplit_ClosesAndReopensFenceAcrossBoundary(t *testing.T) {
	lines := []string{"Contoh kode:", "```python"}
	for i := 0; i < 6; i++ {
		lines = append(lines, "print('baris nomor "+strings.Repeat("9", i)+"')")
	}
	lines = append(lines, "```", "Selesai.")
	text := strings.Join(lines, "\n")

	chunks := Split(text, 60)
	require.Greater(t, len(chunks), 1)
	assertChunkInvariants(t, chunks, 60)

	assert.True(t, strings.HasSuffix(chunks[0], "\n```"), "first chunk should be closed: %q", chunks[0])
	assert.True(t, strings.HasPrefix(chunks[1], "```python\n"), "second chunk should reopen with language: %q", chunks[1])
	assert.Contains(t, chunks[len(chunks)-1], "Selesai.")
}

func TestSplit_PreservesContentModuloFences(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("# Judul\n\nParagraf pembuka.\n```go\n")
	for i := 0; i < 40; i++ {
		sb.WriteString("fmt.Println(\"baris\")\n")
	}
	sb.WriteString("```\n- poin satu\n- poin dua")
	text := sb.String()

	chunks := Split(text, 120)
	assertChunkInvariants(t, chunks, 120)

	original := contentLines(text)
	var rebuilt []string
	for _, c := range chunks {
		rebuilt = append(rebuilt, contentLines(c)...)
	}
	assert.Equal(t, original, rebuilt)
}

func TestSplit_UnterminatedFenceIsClosed(t *testing.T) {
	text := "```js\n" + strings.Repeat("let a = 1;\n", 10)
	chunks := Split(text, 50)
	assertChunkInvariants(t, chunks, 50)
	last := chunks[len(chunks)-1]
	assert.True(t, strings.HasSuffix(last, fenceMarker))
}

func TestSplit_LongLineInsideFenceStaysFenced(t *testing.T) {
	text := "```\n" + strings.Repeat("z", 70) + "\n```"
	chunks := Split(text, 30)
	assertChunkInvariants(t, chunks, 30)
	for _, c := range chunks {
		assert.True(t, strings.HasPrefix(c, fenceMarker), "chunk should start fenced: %q", c)
	}
}

func TestSplit_TinyMaxLengthKeepsLengthBound(t *testing.T) {
	text := "```python\nprint(1)\nprint(2)\n```\nakhir"
	for maxLength := 1; maxLength <= 12; maxLength++ {
		chunks := Split(text, maxLength)
		for _, c := range chunks {
			assert.LessOrEqual(t, utf8.RuneCountInString(c), maxLength, "max=%d chunk=%q", maxLength, c)
			assert.NotEmpty(t, strings.TrimSpace(c))
		}
	}
}

// contentLines drops fence lines and blank lines so chunked and original
// text can be compared.
func contentLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, fenceMarker) {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

func TestSplit_ShortTextEndingInsideFenceIsClosed(t *testing.T) {
	chunks := Split("```go\nx := 1", 1900)
	assert.Equal(t, []string{"```go\nx := 1\n```"}, chunks)
	assertChunkInvariants(t, chunks, 1900)

	assert.Equal(t, []string{"```go\nx := 1\n```"}, Split("```go\nx := 1\n```", 1900))
}

func TestSplit_ShortTextWithoutRoomForClosingFence(t *testing.T) {
	text := "```go\nx := 1"
	chunks := Split(text, utf8.RuneCountInString(text))
	assertChunkInvariants(t, chunks, utf8.RuneCountInString(text))
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.True(t, strings.HasPrefix(c, "```go\n"), "chunk should reopen the block: %q", c)
	}
}

func TestSplit_FenceHeaderWiderThanChunkIsNeutralised(t *testing.T) {
	text := "```javascriptverylonglanguagetag\nx := 1\n```\nsetelah blok"
	chunks := Split(text, 28)
	assertChunkInvariants(t, chunks, 28)
	assert.Equal(t, []string{"javascriptverylonglanguageta", "g\nx := 1\nsetelah blok"}, chunks)
}
