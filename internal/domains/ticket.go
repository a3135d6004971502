package domains

import (
	"fmt"
	"strings"
	"time"
)

type TicketKind string

const (
	TicketGrievance TicketKind = "grievance"
	TicketFeedback  TicketKind = "feedback"
)

type TicketSchema struct {
	Kind     TicketKind
	Segment  string
	Singular string
	Plural   string
}

var ticketSchemas = []TicketSchema{
	{Kind: TicketGrievance, Segment: "grievances", Singular: "grievance", Plural: "grievances"},
	{Kind: TicketFeedback, Segment: "feedback", Singular: "feedback", Plural: "feedbackList"},
}

func TicketSchemas() []TicketSchema {
	return append([]TicketSchema{}, ticketSchemas...)
}

func ParseTicketKind(raw string) (TicketKind, error) {
	k := TicketKind(strings.ToLower(strings.TrimSpace(raw)))
	for _, s := range ticketSchemas {
		if s.Kind == k {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown ticket kind %q", raw)
}

// Ticket is a grievance or a piece of feedback submitted by a citizen.
type Ticket struct {
	ID             int64        `json:"id"`
	Kind           TicketKind   `json:"kind"`
	Status         TicketStatus `json:"status"`
	Subject        string       `json:"subject,omitempty"`
	Message        string       `json:"message"`
	Category       string       `json:"category,omitempty"`
	CitizenName    string       `json:"citizen_name,omitempty"`
	Email          string       `json:"email,omitempty"`
	Phone          string       `json:"phone,omitempty"`
	Rating         *int         `json:"rating,omitempty"`
	ServiceID      *int64       `json:"service_id,omitempty"`
	ResolutionNote string       `json:"resolution_note,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	ResolvedAt     *time.Time   `json:"resolved_at,omitempty"`
}

type TicketPatch struct {
	Category       *string
	ResolutionNote *string
	Status         *TicketStatus
}

type TicketFilter struct {
	Kind     TicketKind
	Statuses []TicketStatus
}
