package webhook

import (
	"context"
	"time"
)

// TrendReport is the JSON body posted after a trend summary is shared in a
// channel.
type TrendReport struct {
	ChannelID    string    `json:"channel_id"`
	RequestedBy  string    `json:"requested_by"`
	MessageCount int       `json:"message_count"`
	PeriodStart  time.Time `json:"period_start"`
	PeriodEnd    time.Time `json:"period_end"`
	Timezone     string    `json:"timezone"`
	Summary      string    `json:"summary"`
	GeneratedAt  time.Time `json:"generated_at"`
}

type Sender interface {
	SendTrendReport(ctx context.Context, report TrendReport) error
}
