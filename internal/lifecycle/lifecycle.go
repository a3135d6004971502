// Package lifecycle holds the allowed status moves for content and tickets.
package lifecycle

import (
	"errors"
	"fmt"

	"citizenportal/internal/domains"
)

var ErrInvalidTransition = errors.New("invalid status transition")

var contentMoves = map[domains.Status][]domains.Status{
	domains.StatusDraft:     {domains.StatusPending, domains.StatusPublished},
	domains.StatusPending:   {domains.StatusDraft, domains.StatusPublished},
	domains.StatusPublished: {},
}

var ticketMoves = map[domains.TicketStatus][]domains.TicketStatus{
	domains.TicketNew:      {domains.TicketPending, domains.TicketResolved},
	domains.TicketPending:  {domains.TicketResolved},
	domains.TicketResolved: {},
}

// InitialStatus is the status a newly created entity gets. Content can only
// start out unpublished.
func InitialStatus(requested string) (domains.Status, error) {
	if requested == "" {
		return domains.StatusDraft, nil
	}
	s, err := domains.ParseStatus(requested)
	if err != nil {
		return "", err
	}
	if s == domains.StatusPublished {
		return "", fmt.Errorf("%w: content is created as draft or pending", ErrInvalidTransition)
	}
	return s, nil
}

func CanTransition(from, to domains.Status) bool {
	if from == to {
		return from.Valid()
	}
	for _, s := range contentMoves[from] {
		if s == to {
			return true
		}
	}
	return false
}

func Transition(from, to domains.Status) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

func CanTransitionTicket(from, to domains.TicketStatus) bool {
	if from == to {
		_, known := ticketMoves[from]
		return known
	}
	for _, s := range ticketMoves[from] {
		if s == to {
			return true
		}
	}
	return false
}

func TransitionTicket(from, to domains.TicketStatus) error {
	if !CanTransitionTicket(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
