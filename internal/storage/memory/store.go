// Package memory is a process-local store with the same contract as the
// Postgres providers. It backs the memory storage driver and the tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"citizenportal/internal/domains"
	"citizenportal/internal/storage"
)

type Store struct {
	mu       sync.RWMutex
	now      func() time.Time
	nextID   int64
	services map[int64]domains.ServiceEntity
	tickets  map[int64]domains.Ticket
	admins   map[int64]domains.Admin
}

func New() *Store {
	return &Store{
		now:      func() time.Time { return time.Now().UTC() },
		services: make(map[int64]domains.ServiceEntity),
		tickets:  make(map[int64]domains.Ticket),
		admins:   make(map[int64]domains.Admin),
	}
}

// WithClock replaces the time source. Used by tests that assert timestamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) CreateService(_ context.Context, e domains.ServiceEntity) (domains.ServiceEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e = normalize(e.Clone())
	e.ID = s.id()
	e.CreatedAt = now
	e.UpdatedAt = now
	e.PublishedAt = nil
	if e.Status == domains.StatusPublished {
		e.PublishedAt = &now
	}
	s.services[e.ID] = e
	return e.Clone(), nil
}

func (s *Store) GetService(_ context.Context, kind domains.Kind, id int64) (domains.ServiceEntity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.services[id]
	if !ok || e.Kind != kind {
		return domains.ServiceEntity{}, fmt.Errorf("get service: %w", storage.ErrNotFound)
	}
	return e.Clone(), nil
}

func (s *Store) ListServices(_ context.Context, filter domains.ServiceFilter) ([]domains.ServiceEntity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	term := strings.ToLower(strings.TrimSpace(filter.Query))
	out := make([]domains.ServiceEntity, 0)
	for _, e := range s.services {
		if filter.Kind != "" && e.Kind != filter.Kind {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, e.Status) {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(e.Name), term) {
			continue
		}
		out = append(out, e.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) UpdateService(_ context.Context, kind domains.Kind, id int64, patch domains.ServicePatch) (domains.ServiceEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.services[id]
	if !ok || e.Kind != kind {
		return domains.ServiceEntity{}, fmt.Errorf("update service: %w", storage.ErrNotFound)
	}
	now := s.now()
	patch.ApplyTo(&e)
	e.UpdatedAt = now
	if e.Status == domains.StatusPublished && e.PublishedAt == nil {
		e.PublishedAt = &now
	}
	e = normalize(e)
	s.services[id] = e
	return e.Clone(), nil
}

func (s *Store) DeleteService(_ context.Context, kind domains.Kind, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.services[id]
	if !ok || e.Kind != kind {
		return fmt.Errorf("delete service: %w", storage.ErrNotFound)
	}
	delete(s.services, id)
	for tid, t := range s.tickets {
		if t.ServiceID != nil && *t.ServiceID == id {
			t.ServiceID = nil
			s.tickets[tid] = t
		}
	}
	return nil
}

func (s *Store) CreateTicket(_ context.Context, t domains.Ticket) (domains.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ServiceID != nil {
		if _, ok := s.services[*t.ServiceID]; !ok {
			return domains.Ticket{}, fmt.Errorf("create ticket: service %d is gone: %w", *t.ServiceID, storage.ErrConflict)
		}
	}
	now := s.now()
	t.ID = s.id()
	t.CreatedAt = now
	t.UpdatedAt = now
	s.tickets[t.ID] = t
	return t, nil
}

func (s *Store) ServiceStatus(_ context.Context, id int64) (domains.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.services[id]
	if !ok {
		return "", fmt.Errorf("service status: %w", storage.ErrNotFound)
	}
	return e.Status, nil
}

func (s *Store) GetTicket(_ context.Context, kind domains.TicketKind, id int64) (domains.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tickets[id]
	if !ok || t.Kind != kind {
		return domains.Ticket{}, fmt.Errorf("get ticket: %w", storage.ErrNotFound)
	}
	return t, nil
}

func (s *Store) ListTickets(_ context.Context, filter domains.TicketFilter) ([]domains.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domains.Ticket, 0)
	for _, t := range s.tickets {
		if filter.Kind != "" && t.Kind != filter.Kind {
			continue
		}
		if len(filter.Statuses) > 0 && !containsTicketStatus(filter.Statuses, t.Status) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) UpdateTicket(_ context.Context, kind domains.TicketKind, id int64, patch domains.TicketPatch) (domains.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok || t.Kind != kind {
		return domains.Ticket{}, fmt.Errorf("update ticket: %w", storage.ErrNotFound)
	}
	now := s.now()
	if patch.Category != nil {
		t.Category = *patch.Category
	}
	if patch.ResolutionNote != nil {
		t.ResolutionNote = *patch.ResolutionNote
	}
	if patch.Status != nil {
		t.Status = *patch.Status
		if t.Status == domains.TicketResolved && t.ResolvedAt == nil {
			t.ResolvedAt = &now
		}
	}
	t.UpdatedAt = now
	s.tickets[id] = t
	return t, nil
}

func (s *Store) DeleteTicket(_ context.Context, kind domains.TicketKind, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok || t.Kind != kind {
		return fmt.Errorf("delete ticket: %w", storage.ErrNotFound)
	}
	delete(s.tickets, id)
	return nil
}

func (s *Store) SaveAdmin(_ context.Context, passHash string, admin domains.AdminCreate) (domains.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.admins {
		if strings.EqualFold(a.Email, admin.Email) {
			return domains.Admin{}, storage.ErrAdminExists
		}
	}
	created := domains.Admin{
		ID:        s.id(),
		FullName:  admin.FullName,
		Email:     admin.Email,
		PassHash:  passHash,
		CreatedAt: s.now(),
	}
	s.admins[created.ID] = created
	return created, nil
}

func (s *Store) GetAdminByEmail(_ context.Context, email string) (domains.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.admins {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return domains.Admin{}, storage.ErrAdminNotFound
}

func (s *Store) GetAdminByID(_ context.Context, id int64) (domains.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.admins[id]
	if !ok {
		return domains.Admin{}, storage.ErrAdminNotFound
	}
	return a, nil
}

func (s *Store) ListAdmins(_ context.Context) ([]domains.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domains.Admin, 0, len(s.admins))
	for _, a := range s.admins {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SetAdminDisabled(_ context.Context, email string, disabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, a := range s.admins {
		if !strings.EqualFold(a.Email, email) {
			continue
		}
		if disabled && a.DisabledAt == nil {
			now := s.now()
			a.DisabledAt = &now
		} else if !disabled {
			a.DisabledAt = nil
		}
		s.admins[id] = a
		return nil
	}
	return storage.ErrAdminNotFound
}

// normalize mirrors what a round trip through Postgres yields: non-nil
// collections and no empty details map.
func normalize(e domains.ServiceEntity) domains.ServiceEntity {
	if e.ProcessSteps == nil {
		e.ProcessSteps = []domains.ProcessStep{}
	}
	if e.Documents == nil {
		e.Documents = []domains.Document{}
	}
	if e.Contacts == nil {
		e.Contacts = []domains.ContactPerson{}
	}
	if e.Eligibility == nil {
		e.Eligibility = []domains.EligibilityItem{}
	}
	if len(e.Details) == 0 {
		e.Details = nil
	}
	return e
}

func containsStatus(list []domains.Status, s domains.Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsTicketStatus(list []domains.TicketStatus, s domains.TicketStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
