package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"citizenportal/internal/domains"
	"citizenportal/internal/lifecycle"
	"citizenportal/internal/storage"
)

type TicketStore interface {
	CreateTicket(ctx context.Context, t domains.Ticket) (domains.Ticket, error)
	GetTicket(ctx context.Context, kind domains.TicketKind, id int64) (domains.Ticket, error)
	ListTickets(ctx context.Context, filter domains.TicketFilter) ([]domains.Ticket, error)
	UpdateTicket(ctx context.Context, kind domains.TicketKind, id int64, patch domains.TicketPatch) (domains.Ticket, error)
	DeleteTicket(ctx context.Context, kind domains.TicketKind, id int64) error
	ServiceStatus(ctx context.Context, id int64) (domains.Status, error)
}

type TicketService struct {
	store TicketStore
	rec   Recorder
}

func NewTicketService(store TicketStore, rec Recorder) *TicketService {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &TicketService{store: store, rec: rec}
}

// Submit stores a citizen submission. It always starts out as new.
func (s *TicketService) Submit(ctx context.Context, kind domains.TicketKind, t domains.Ticket) (domains.Ticket, error) {
	t.Status = domains.TicketNew
	created, err := s.create(ctx, kind, t, true)
	if err != nil {
		return domains.Ticket{}, err
	}
	s.rec.TicketSubmitted(kind)
	return created, nil
}

// Create lets an admin record a ticket on a citizen's behalf, optionally
// already in pending.
func (s *TicketService) Create(ctx context.Context, kind domains.TicketKind, t domains.Ticket) (domains.Ticket, error) {
	if t.Status == "" {
		t.Status = domains.TicketNew
	}
	if t.Status == domains.TicketResolved {
		return domains.Ticket{}, domains.Invalid("status", "a ticket cannot be created resolved", t.Status)
	}
	return s.create(ctx, kind, t, false)
}

// create stores t. Citizens may only refer to published services; admins may
// refer to any stored one.
func (s *TicketService) create(ctx context.Context, kind domains.TicketKind, t domains.Ticket, public bool) (domains.Ticket, error) {
	t.ID = 0
	t.Kind = kind
	t.ResolvedAt = nil
	t.ResolutionNote = ""
	t.Subject = strings.TrimSpace(t.Subject)
	t.Message = strings.TrimSpace(t.Message)
	t.Category = strings.TrimSpace(t.Category)
	t.CitizenName = strings.TrimSpace(t.CitizenName)

	if err := validateTicket(t).Err(); err != nil {
		return domains.Ticket{}, err
	}
	if err := s.checkServiceRef(ctx, t.ServiceID, public); err != nil {
		return domains.Ticket{}, err
	}

	created, err := s.store.CreateTicket(ctx, t)
	if err != nil {
		if !errors.Is(err, storage.ErrConflict) {
			slog.Error("create ticket failed", "kind", kind, "err", err)
		}
		return domains.Ticket{}, err
	}
	return created, nil
}

func (s *TicketService) checkServiceRef(ctx context.Context, id *int64, public bool) error {
	if id == nil {
		return nil
	}
	status, err := s.store.ServiceStatus(ctx, *id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domains.Invalid("service_id", "service does not exist", *id)
		}
		slog.Error("look up ticket service failed", "service_id", *id, "err", err)
		return err
	}
	if public && status != domains.StatusPublished {
		return domains.Invalid("service_id", "service does not exist", *id)
	}
	return nil
}

func (s *TicketService) Get(ctx context.Context, kind domains.TicketKind, id int64) (domains.Ticket, error) {
	return s.store.GetTicket(ctx, kind, id)
}

func (s *TicketService) List(ctx context.Context, kind domains.TicketKind, statuses []domains.TicketStatus) ([]domains.Ticket, error) {
	items, err := s.store.ListTickets(ctx, domains.TicketFilter{Kind: kind, Statuses: statuses})
	if err != nil {
		slog.Error("list tickets failed", "kind", kind, "err", err)
		return nil, err
	}
	return items, nil
}

func (s *TicketService) Update(ctx context.Context, kind domains.TicketKind, id int64, patch domains.TicketPatch) (domains.Ticket, error) {
	current, err := s.store.GetTicket(ctx, kind, id)
	if err != nil {
		return domains.Ticket{}, err
	}
	if patch.Status != nil {
		if err := lifecycle.TransitionTicket(current.Status, *patch.Status); err != nil {
			return domains.Ticket{}, domains.Invalid("status",
				"cannot move a ticket from "+string(current.Status)+" to "+string(*patch.Status), *patch.Status)
		}
	}
	if patch.Category != nil {
		trimmed := strings.TrimSpace(*patch.Category)
		patch.Category = &trimmed
	}
	if patch.ResolutionNote != nil {
		trimmed := strings.TrimSpace(*patch.ResolutionNote)
		patch.ResolutionNote = &trimmed
	}

	updated, err := s.store.UpdateTicket(ctx, kind, id, patch)
	if err != nil {
		slog.Error("update ticket failed", "kind", kind, "id", id, "err", err)
		return domains.Ticket{}, err
	}
	return updated, nil
}

// Resolve closes a ticket with an optional note. Resolving twice is a no-op.
func (s *TicketService) Resolve(ctx context.Context, kind domains.TicketKind, id int64, note string) (domains.Ticket, error) {
	resolved := domains.TicketResolved
	patch := domains.TicketPatch{Status: &resolved}
	if note = strings.TrimSpace(note); note != "" {
		patch.ResolutionNote = &note
	}
	return s.Update(ctx, kind, id, patch)
}

func (s *TicketService) Delete(ctx context.Context, kind domains.TicketKind, id int64) error {
	if err := s.store.DeleteTicket(ctx, kind, id); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Error("delete ticket failed", "kind", kind, "id", id, "err", err)
		}
		return err
	}
	return nil
}

func validateTicket(t domains.Ticket) domains.ValidationErrors {
	var errs domains.ValidationErrors
	if t.Message == "" {
		errs.Add("message", "message is required", t.Message)
	}
	if t.Kind == domains.TicketGrievance && t.Subject == "" {
		errs.Add("subject", "subject is required", t.Subject)
	}
	if t.Rating != nil {
		if t.Kind != domains.TicketFeedback {
			errs.Add("rating", "only feedback carries a rating", *t.Rating)
		} else if *t.Rating < 1 || *t.Rating > 5 {
			errs.Add("rating", "rating must be between 1 and 5", *t.Rating)
		}
	}
	return errs
}
