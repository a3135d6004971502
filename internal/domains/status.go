package domains

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of admin-managed content. Only published
// content is visible to citizens.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusPublished Status = "published"
)

func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusDraft, StatusPending, StatusPublished:
		return s, nil
	default:
		return "", fmt.Errorf("unknown status %q", raw)
	}
}

func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// TicketStatus is the triage state of a citizen submission.
type TicketStatus string

const (
	TicketNew      TicketStatus = "new"
	TicketPending  TicketStatus = "pending"
	TicketResolved TicketStatus = "resolved"
)

// ParseTicketStatus accepts "solved" as a synonym of resolved.
func ParseTicketStatus(raw string) (TicketStatus, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "solved" {
		return TicketResolved, nil
	}
	switch ts := TicketStatus(s); ts {
	case TicketNew, TicketPending, TicketResolved:
		return ts, nil
	default:
		return "", fmt.Errorf("unknown ticket status %q", raw)
	}
}
