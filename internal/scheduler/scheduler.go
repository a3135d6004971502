package scheduler

import (
	"context"
	"log/slog"
	"time"

	"citizenportal/internal/domains"
)

type ContentLister interface {
	List(ctx context.Context, kind domains.Kind, statuses []domains.Status, query string) ([]domains.ServiceEntity, error)
}

type TicketLister interface {
	List(ctx context.Context, kind domains.TicketKind, statuses []domains.TicketStatus) ([]domains.Ticket, error)
}

type BacklogSink interface {
	SetBacklog(kind, status string, n int)
}

// BacklogReporter periodically counts content waiting for review and tickets
// nobody has resolved yet.
type BacklogReporter struct {
	content  ContentLister
	tickets  TicketLister
	sink     BacklogSink
	interval time.Duration
}

func NewBacklogReporter(content ContentLister, tickets TicketLister, sink BacklogSink, interval time.Duration) *BacklogReporter {
	if interval <= 0 {
		interval = time.Minute
	}
	return &BacklogReporter{content: content, tickets: tickets, sink: sink, interval: interval}
}

func (s *BacklogReporter) Start(ctx context.Context) {
	if s.sink == nil {
		slog.Warn("backlog reporter skipped: no sink configured")
		return
	}
	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		s.Run(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Run(ctx)
			}
		}
	}()
}

// Run takes a single snapshot.
func (s *BacklogReporter) Run(ctx context.Context) {
	for _, schema := range domains.Schemas() {
		for _, status := range []domains.Status{domains.StatusDraft, domains.StatusPending} {
			items, err := s.content.List(ctx, schema.Kind, []domains.Status{status}, "")
			if err != nil {
				slog.Error("count content backlog failed", "kind", schema.Kind, "err", err)
				continue
			}
			s.sink.SetBacklog(string(schema.Kind), string(status), len(items))
		}
	}

	for _, schema := range domains.TicketSchemas() {
		for _, status := range []domains.TicketStatus{domains.TicketNew, domains.TicketPending} {
			items, err := s.tickets.List(ctx, schema.Kind, []domains.TicketStatus{status})
			if err != nil {
				slog.Error("count ticket backlog failed", "kind", schema.Kind, "err", err)
				continue
			}
			s.sink.SetBacklog(string(schema.Kind), string(status), len(items))
		}
	}
}
