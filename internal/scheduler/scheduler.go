// Package scheduler runs the bot's background loops on fixed intervals.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/robfig/cron/v3"
)

// Job runs every Every. A run that is still going when the next one is due
// causes that next run to be skipped.
type Job struct {
	Name  string
	Every time.Duration
	Run   func(ctx context.Context) error
}

type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

func New(jobs ...Job) (*Scheduler, error) {
	logger := slogLogger{}
	c := cron.New(cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{cron: c, ctx: ctx, cancel: cancel}

	for _, job := range jobs {
		if job.Every <= 0 {
			cancel()
			return nil, fmt.Errorf("job %q has a non-positive interval %s", job.Name, job.Every)
		}
		j := job
		if _, err := c.AddFunc("@every "+j.Every.String(), func() { s.run(j) }); err != nil {
			cancel()
			return nil, fmt.Errorf("failed to schedule job %q: %w", j.Name, err)
		}
		slog.Info("scheduled job", "name", j.Name, "every", j.Every.String())
	}
	return s, nil
}

// run logs a failed or panicking iteration; the job stays scheduled.
func (s *Scheduler) run(job Job) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("scheduled job panicked", "name", job.Name, "panic", r, "stack", string(debug.Stack()))
		}
	}()
	if err := job.Run(s.ctx); err != nil {
		slog.Error("scheduled job failed", "name", job.Name, "error", err)
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels the context given to running jobs and waits for them to
// return or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		slog.Warn("scheduler stop timed out; jobs still running")
	}
}

type slogLogger struct{}

func (slogLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug(msg, keysAndValues...)
}

func (slogLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error(msg, append([]any{"error", err}, keysAndValues...)...)
}
