package httptransport

import (
	"context"
	"net/http"

	"citizenportal/internal/domains"
	"citizenportal/internal/httpx"
)

type TicketServices interface {
	Submit(ctx context.Context, kind domains.TicketKind, t domains.Ticket) (domains.Ticket, error)
	Create(ctx context.Context, kind domains.TicketKind, t domains.Ticket) (domains.Ticket, error)
	Get(ctx context.Context, kind domains.TicketKind, id int64) (domains.Ticket, error)
	List(ctx context.Context, kind domains.TicketKind, statuses []domains.TicketStatus) ([]domains.Ticket, error)
	Update(ctx context.Context, kind domains.TicketKind, id int64, patch domains.TicketPatch) (domains.Ticket, error)
	Resolve(ctx context.Context, kind domains.TicketKind, id int64, note string) (domains.Ticket, error)
	Delete(ctx context.Context, kind domains.TicketKind, id int64) error
}

type TicketHandlers struct {
	responder
	service TicketServices
	schema  domains.TicketSchema
}

func NewTicketHandlers(service TicketServices, schema domains.TicketSchema, prod bool) *TicketHandlers {
	return &TicketHandlers{responder: responder{prod: prod}, service: service, schema: schema}
}

// Submit is the public entry point for citizens.
func (h *TicketHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	req, err := httpx.ReadBody[ticketSubmitRequest](w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	created, err := h.service.Submit(r.Context(), h.schema.Kind, req.ticket())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Success(w, http.StatusCreated, h.schema.Singular, created)
}

func (h *TicketHandlers) Create(w http.ResponseWriter, r *http.Request) {
	req, err := httpx.ReadBody[ticketSubmitRequest](w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	t := req.ticket()
	if req.Status != "" {
		if t.Status, err = domains.ParseTicketStatus(req.Status); err != nil {
			h.fail(w, r, domains.Invalid("status", "status must be new or pending", req.Status))
			return
		}
	}

	created, err := h.service.Create(r.Context(), h.schema.Kind, t)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Success(w, http.StatusCreated, h.schema.Singular, created)
}

func (h *TicketHandlers) List(w http.ResponseWriter, r *http.Request) {
	statuses, err := parseTicketStatuses(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	items, err := h.service.List(r.Context(), h.schema.Kind, statuses)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Success(w, http.StatusOK, h.schema.Plural, items)
}

func (h *TicketHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.GetId(w, r)
	if !ok {
		return
	}
	t, err := h.service.Get(r.Context(), h.schema.Kind, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Success(w, http.StatusOK, h.schema.Singular, t)
}

func (h *TicketHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.GetId(w, r)
	if !ok {
		return
	}
	req, err := httpx.ReadBody[ticketPatchRequest](w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	patch, err := req.patch()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	updated, err := h.service.Update(r.Context(), h.schema.Kind, id, patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Success(w, http.StatusOK, h.schema.Singular, updated)
}

// Resolve takes an optional {"resolution_note": ...} body.
func (h *TicketHandlers) Resolve(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.GetId(w, r)
	if !ok {
		return
	}
	req, _, err := httpx.ReadOptionalBody[resolveRequest](w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resolved, err := h.service.Resolve(r.Context(), h.schema.Kind, id, req.ResolutionNote)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Success(w, http.StatusOK, h.schema.Singular, resolved)
}

func (h *TicketHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.GetId(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), h.schema.Kind, id); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, h.schema.Singular+" deleted")
}
