package bot

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/repository"
)

const trendTimeLayout = "2006-01-02 15:04:05"

const trendInstruction = `Berikut adalah percakapan terbaru di sebuah channel Discord.
Analisis topik yang sedang tren, siapa yang paling aktif, dan suasana percakapannya.
Buat ringkasan singkat dalam bentuk poin-poin.`

type participant struct {
	UserID      string
	DisplayName string
}

func buildTrendPrompt(channelID string, messages []repository.TrackedMessage, loc *time.Location) string {
	return trendInstruction + "\n\n" + buildTrendTranscript(channelID, messages, loc)
}

// buildTrendTranscript expects messages in chronological order.
func buildTrendTranscript(channelID string, messages []repository.TrackedMessage, loc *time.Location) string {
	loc = safeLocation(loc)
	participants := canonicalParticipants(messages)
	names := make([]string, 0, len(participants))
	nameByID := make(map[string]string, len(participants))
	for _, p := range participants {
		names = append(names, p.DisplayName)
		nameByID[p.UserID] = p.DisplayName
	}

	lines := []string{fmt.Sprintf("Channel: <#%s>", channelID)}
	if len(messages) > 0 {
		start := messages[0].SentAt.In(loc).Format(trendTimeLayout)
		end := messages[len(messages)-1].SentAt.In(loc).Format(trendTimeLayout)
		lines = append(lines, fmt.Sprintf("Periode: %s ~ %s (%s)", start, end, loc.String()))
	}
	lines = append(lines, fmt.Sprintf("Peserta: %s", strings.Join(names, ", ")), "")

	for _, m := range messages {
		name := nameByID[m.AuthorID]
		if name == "" {
			name = m.AuthorName
		}
		content := strings.ReplaceAll(strings.TrimSpace(m.Content), "\n", " ")
		lines = append(lines, fmt.Sprintf("%s %s: %s", m.SentAt.In(loc).Format(time.TimeOnly), name, content))
	}
	return strings.Join(lines, "\n")
}

// canonicalParticipants collapses messages to one entry per author, keeping
// the most recent non-empty display name, sorted case-insensitively.
func canonicalParticipants(messages []repository.TrackedMessage) []participant {
	byUserID := make(map[string]participant, len(messages))
	for _, m := range messages {
		if strings.TrimSpace(m.AuthorID) == "" {
			continue
		}
		p := byUserID[m.AuthorID]
		p.UserID = m.AuthorID
		if m.AuthorName != "" {
			p.DisplayName = m.AuthorName
		}
		byUserID[m.AuthorID] = p
	}

	list := make([]participant, 0, len(byUserID))
	for _, p := range byUserID {
		if p.DisplayName == "" {
			p.DisplayName = p.UserID
		}
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		in := strings.ToLower(list[i].DisplayName)
		jn := strings.ToLower(list[j].DisplayName)
		if in != jn {
			return in < jn
		}
		return list[i].UserID < list[j].UserID
	})
	return list
}

func safeLocation(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
