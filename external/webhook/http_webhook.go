package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/webhook"
)

const trendReportEvent = "trend_report"

type HTTPSender struct {
	webhookURL string
	client     *http.Client
}

// NewHTTPSender returns a sender that does nothing when webhookURL is empty.
func NewHTTPSender(webhookURL string, timeout time.Duration) webhook.Sender {
	return &HTTPSender{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: timeout},
	}
}

// SendTrendReport posts report as JSON. The X-Event header lets one
// endpoint receive several kinds of bot events.
func (s *HTTPSender) SendTrendReport(ctx context.Context, report webhook.TrendReport) error {
	if s.webhookURL == "" {
		return nil
	}
	if report.Summary == "" {
		return fmt.Errorf("trend report for channel %s has an empty summary", report.ChannelID)
	}

	b, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode trend report for channel %s: %w", report.ChannelID, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event", trendReportEvent)
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post trend report for channel %s: %w", report.ChannelID, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if !isHTTPSuccessStatus(resp.StatusCode) {
		return fmt.Errorf("trend report for channel %s: webhook returned status %d", report.ChannelID, resp.StatusCode)
	}
	slog.Info("trend report published", "channel_id", report.ChannelID, "message_count", report.MessageCount, "status", resp.StatusCode)
	return nil
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
