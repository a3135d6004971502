package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"citizenportal/internal/domains"
	"citizenportal/internal/lifecycle"
	"citizenportal/internal/search"
	"citizenportal/internal/storage"
)

type ContentStore interface {
	CreateService(ctx context.Context, e domains.ServiceEntity) (domains.ServiceEntity, error)
	GetService(ctx context.Context, kind domains.Kind, id int64) (domains.ServiceEntity, error)
	ListServices(ctx context.Context, filter domains.ServiceFilter) ([]domains.ServiceEntity, error)
	UpdateService(ctx context.Context, kind domains.Kind, id int64, patch domains.ServicePatch) (domains.ServiceEntity, error)
	DeleteService(ctx context.Context, kind domains.Kind, id int64) error
}

// Recorder receives lifecycle events for metrics.
type Recorder interface {
	ContentCreated(kind domains.Kind)
	ContentPublished(kind domains.Kind)
	ContentDeleted(kind domains.Kind)
	TicketSubmitted(kind domains.TicketKind)
}

type nopRecorder struct{}

func (nopRecorder) ContentCreated(domains.Kind)        {}
func (nopRecorder) ContentPublished(domains.Kind)      {}
func (nopRecorder) ContentDeleted(domains.Kind)        {}
func (nopRecorder) TicketSubmitted(domains.TicketKind) {}

type ContentService struct {
	store ContentStore
	rec   Recorder
}

func NewContentService(store ContentStore, rec Recorder) *ContentService {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &ContentService{store: store, rec: rec}
}

// Create stores a new entity. It starts out as draft unless pending is asked
// for; published content only comes out of Publish.
func (s *ContentService) Create(ctx context.Context, kind domains.Kind, e domains.ServiceEntity) (domains.ServiceEntity, error) {
	schema, err := domains.SchemaFor(kind)
	if err != nil {
		return domains.ServiceEntity{}, err
	}

	status, err := lifecycle.InitialStatus(string(e.Status))
	if err != nil {
		return domains.ServiceEntity{}, domains.Invalid("status", "status must be draft or pending", e.Status)
	}

	e.ID = 0
	e.Kind = kind
	e.Status = status
	e.WizardStep = ""
	trimEntity(&e)
	if err := schema.Validate(e).Err(); err != nil {
		return domains.ServiceEntity{}, err
	}

	created, err := s.store.CreateService(ctx, e)
	if err != nil {
		slog.Error("create content failed", "kind", kind, "err", err)
		return domains.ServiceEntity{}, err
	}
	s.rec.ContentCreated(kind)
	return created, nil
}

func (s *ContentService) Get(ctx context.Context, kind domains.Kind, id int64) (domains.ServiceEntity, error) {
	return s.store.GetService(ctx, kind, id)
}

func (s *ContentService) List(ctx context.Context, kind domains.Kind, statuses []domains.Status, query string) ([]domains.ServiceEntity, error) {
	items, err := s.store.ListServices(ctx, domains.ServiceFilter{Kind: kind, Statuses: statuses, Query: query})
	if err != nil {
		slog.Error("list content failed", "kind", kind, "err", err)
		return nil, err
	}
	return items, nil
}

// Update applies a partial patch. Collections present in the patch replace
// the stored ones wholesale.
func (s *ContentService) Update(ctx context.Context, kind domains.Kind, id int64, patch domains.ServicePatch) (domains.ServiceEntity, error) {
	schema, err := domains.SchemaFor(kind)
	if err != nil {
		return domains.ServiceEntity{}, err
	}

	current, err := s.store.GetService(ctx, kind, id)
	if err != nil {
		return domains.ServiceEntity{}, err
	}

	trimPatch(&patch)
	if patch.Status != nil {
		if err := lifecycle.Transition(current.Status, *patch.Status); err != nil {
			return domains.ServiceEntity{}, domains.Invalid("status", transitionMessage(current.Status, *patch.Status), *patch.Status)
		}
	}

	next := current.Clone()
	patch.ApplyTo(&next)
	if err := s.check(schema, next).Err(); err != nil {
		return domains.ServiceEntity{}, err
	}

	updated, err := s.store.UpdateService(ctx, kind, id, patch)
	if err != nil {
		slog.Error("update content failed", "kind", kind, "id", id, "err", err)
		return domains.ServiceEntity{}, err
	}
	if current.Status != domains.StatusPublished && updated.Status == domains.StatusPublished {
		s.rec.ContentPublished(kind)
	}
	return updated, nil
}

// Publish makes an entity public. Publishing twice is a no-op.
func (s *ContentService) Publish(ctx context.Context, kind domains.Kind, id int64) (domains.ServiceEntity, error) {
	schema, err := domains.SchemaFor(kind)
	if err != nil {
		return domains.ServiceEntity{}, err
	}

	current, err := s.store.GetService(ctx, kind, id)
	if err != nil {
		return domains.ServiceEntity{}, err
	}
	if current.Status == domains.StatusPublished {
		return current, nil
	}

	next := current.Clone()
	next.Status = domains.StatusPublished
	if err := schema.PublishErrors(next).Err(); err != nil {
		return domains.ServiceEntity{}, err
	}

	published := domains.StatusPublished
	updated, err := s.store.UpdateService(ctx, kind, id, domains.ServicePatch{Status: &published})
	if err != nil {
		slog.Error("publish content failed", "kind", kind, "id", id, "err", err)
		return domains.ServiceEntity{}, err
	}
	s.rec.ContentPublished(kind)
	return updated, nil
}

func (s *ContentService) Delete(ctx context.Context, kind domains.Kind, id int64) error {
	if err := s.store.DeleteService(ctx, kind, id); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Error("delete content failed", "kind", kind, "id", id, "err", err)
		}
		return err
	}
	s.rec.ContentDeleted(kind)
	return nil
}

// ListPublished is the citizen view: only published entities, narrowed by q.
func (s *ContentService) ListPublished(ctx context.Context, kind domains.Kind, q domains.PublicQuery) ([]domains.ServiceEntity, error) {
	items, err := s.store.ListServices(ctx, domains.ServiceFilter{
		Kind:     kind,
		Statuses: []domains.Status{domains.StatusPublished},
	})
	if err != nil {
		slog.Error("list published content failed", "kind", kind, "err", err)
		return nil, err
	}
	return search.Public(items, q), nil
}

func (s *ContentService) GetPublished(ctx context.Context, kind domains.Kind, id int64) (domains.ServiceEntity, error) {
	e, err := s.store.GetService(ctx, kind, id)
	if err != nil {
		return domains.ServiceEntity{}, err
	}
	if !e.Visible() {
		return domains.ServiceEntity{}, fmt.Errorf("get published %s %d: %w", kind, id, storage.ErrNotFound)
	}
	return e, nil
}

// check validates e against the rules of its status: published content must
// keep everything publishing required.
func (s *ContentService) check(schema domains.Schema, e domains.ServiceEntity) domains.ValidationErrors {
	if e.Status == domains.StatusPublished {
		return schema.PublishErrors(e)
	}
	return schema.Validate(e)
}

func transitionMessage(from, to domains.Status) string {
	if from == domains.StatusPublished {
		return "published content cannot move back to " + string(to)
	}
	return fmt.Sprintf("cannot move from %s to %s", from, to)
}

func trimEntity(e *domains.ServiceEntity) {
	e.Name = strings.TrimSpace(e.Name)
	e.Summary = strings.TrimSpace(e.Summary)
	e.Department = strings.TrimSpace(e.Department)
	e.Category = strings.TrimSpace(e.Category)
}

func trimPatch(p *domains.ServicePatch) {
	for _, f := range []*string{p.Name, p.Summary, p.Department, p.Category} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}
