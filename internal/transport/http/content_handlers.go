package httptransport

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"citizenportal/internal/domains"
	"citizenportal/internal/httpx"
	"citizenportal/internal/wizard"
)

type ContentServices interface {
	Create(ctx context.Context, kind domains.Kind, e domains.ServiceEntity) (domains.ServiceEntity, error)
	Get(ctx context.Context, kind domains.Kind, id int64) (domains.ServiceEntity, error)
	List(ctx context.Context, kind domains.Kind, statuses []domains.Status, query string) ([]domains.ServiceEntity, error)
	Update(ctx context.Context, kind domains.Kind, id int64, patch domains.ServicePatch) (domains.ServiceEntity, error)
	Publish(ctx context.Context, kind domains.Kind, id int64) (domains.ServiceEntity, error)
	Delete(ctx context.Context, kind domains.Kind, id int64) error
	ListPublished(ctx context.Context, kind domains.Kind, q domains.PublicQuery) ([]domains.ServiceEntity, error)
	GetPublished(ctx context.Context, kind domains.Kind, id int64) (domains.ServiceEntity, error)

	Flow(kind domains.Kind) (wizard.Flow, error)
	WizardStep(ctx context.Context, kind domains.Kind, id int64, key string) (domains.WizardView, error)
	ReplaceStepRows(ctx context.Context, kind domains.Kind, id int64, key string, rows json.RawMessage, action domains.WizardAction) (domains.ServiceEntity, error)
	ApplyRowOps(ctx context.Context, kind domains.Kind, id int64, key string, ops []domains.RowOp, action domains.WizardAction) (domains.ServiceEntity, error)
	SaveStepFields(ctx context.Context, kind domains.Kind, id int64, key string, fields domains.ServiceFields, action domains.WizardAction) (domains.ServiceEntity, error)
}

// ContentHandlers serves one content kind. The router mounts one instance per
// schema under its URL segment.
type ContentHandlers struct {
	responder
	service ContentServices
	schema  domains.Schema
}

func NewContentHandlers(service ContentServices, schema domains.Schema, prod bool) *ContentHandlers {
	return &ContentHandlers{responder: responder{prod: prod}, service: service, schema: schema}
}

func (h *ContentHandlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	statuses, err := parseStatuses(q)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	items, err := h.service.List(r.Context(), h.schema.Kind, statuses, q.Get("q"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Success(w, http.StatusOK, h.schema.Plural, items)
}

func (h *ContentHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.GetId(w, r)
	if !ok {
		return
	}
	e, err := h.service.Get(r.Context(), h.schema.Kind, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Success(w, http.StatusOK, h.schema.Singular, e)
}

func (h *ContentHandlers) Create(w http.ResponseWriter, r *http.Request) {
	req, err := httpx.ReadBody[contentCreateRequest](w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var status domains.Status
	if req.Status != "" {
		if status, err = domains.ParseStatus(req.Status); err != nil {
			h.fail(w, r, domains.Invalid("status", "status must be draft or pending", req.Status))
			return
		}
	}

	created, err := h.service.Create(r.Context(), h.schema.Kind, req.entity(status))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Success(w, http.StatusCreated, h.schema.Singular, created)
}

func (h *ContentHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.GetId(w, r)
	if !ok {
		return
	}
	req, err := httpx.ReadBody[contentPatchRequest](w, r)
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

func (h *ContentHandlers) Publish(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.GetId(w, r)
	if !ok {
		return
	}
	published, err := h.service.Publish(r.Context(), h.schema.Kind, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Success(w, http.StatusOK, h.schema.Singular, published)
}

func (h *ContentHandlers) Delete(w http.ResponseWriter, r *http.Request) {
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

func (h *ContentHandlers) PublicList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.service.ListPublished(r.Context(), h.schema.Kind, domains.PublicQuery{
		Query:           q.Get("q"),
		Category:        q.Get("category"),
		Department:      q.Get("department"),
		ApplicationType: q.Get("application_type"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Success(w, http.StatusOK, h.schema.Plural, items)
}

func (h *ContentHandlers) PublicGet(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.GetId(w, r)
	if !ok {
		return
	}
	e, err := h.service.GetPublished(r.Context(), h.schema.Kind, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Success(w, http.StatusOK, h.schema.Singular, e)
}

func (h *ContentHandlers) Flow(w http.ResponseWriter, r *http.Request) {
	flow, err := h.service.Flow(h.schema.Kind)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	steps := flow.Steps()
	resp := flowResponse{AllowJump: flow.AllowJump(), Steps: make([]domains.StepView, 0, len(steps))}
	for i, s := range steps {
		view := domains.StepView{
			Key:        s.Key,
			Title:      s.Title,
			Collection: s.Collection,
			MinRows:    s.RequiredRows(),
			Index:      i,
			Total:      len(steps),
		}
		if i > 0 {
			view.Prev = steps[i-1].Key
		}
		if i < len(steps)-1 {
			view.Next = steps[i+1].Key
		}
		resp.Steps = append(resp.Steps, view)
	}
	httpx.Success(w, http.StatusOK, "wizard", resp)
}

func (h *ContentHandlers) WizardStep(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.GetId(w, r)
	if !ok {
		return
	}
	view, err := h.service.WizardStep(r.Context(), h.schema.Kind, id, r.URL.Query().Get("step"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Success(w, http.StatusOK, "wizard", view)
}

// SaveStep saves a whole step: the full row list of a collection step or the
// fields of the publish step.
func (h *ContentHandlers) SaveStep(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.GetId(w, r)
	if !ok {
		return
	}
	key := mux.Vars(r)["step"]
	req, err := httpx.ReadBody[stepSaveRequest](w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	step, found := h.schema.Flow.Step(key)
	if !found {
		h.fail(w, r, domains.Invalid("step", "unknown wizard step", key))
		return
	}

	var saved domains.ServiceEntity
	action := domains.WizardAction(req.Action)
	if step.EditsFields() {
		saved, err = h.service.SaveStepFields(r.Context(), h.schema.Kind, id, key, req.fields(), action)
	} else {
		if len(req.Rows) == 0 {
			h.fail(w, r, domains.Invalid("rows", "rows are required", nil))
			return
		}
		saved, err = h.service.ReplaceStepRows(r.Context(), h.schema.Kind, id, key, req.Rows, action)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Success(w, http.StatusOK, h.schema.Singular, saved)
}

func (h *ContentHandlers) StepRowOps(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.GetId(w, r)
	if !ok {
		return
	}
	req, err := httpx.ReadBody[rowOpsRequest](w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	saved, err := h.service.ApplyRowOps(r.Context(), h.schema.Kind, id, mux.Vars(r)["step"], req.Ops, domains.WizardAction(req.Action))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Success(w, http.StatusOK, h.schema.Singular, saved)
}
