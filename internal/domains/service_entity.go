package domains

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type ProcessStep struct {
	ApplicationType string `json:"application_type,omitempty"`
	Title           string `json:"title" validate:"required"`
	Description     string `json:"description,omitempty"`
}

type Document struct {
	ApplicationType string `json:"application_type,omitempty"`
	Name            string `json:"name" validate:"required"`
	Description     string `json:"description,omitempty"`
	Mandatory       bool   `json:"mandatory"`
}

type ContactPerson struct {
	ApplicationType string `json:"application_type,omitempty"`
	Name            string `json:"name" validate:"required"`
	Designation     string `json:"designation,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Email           string `json:"email,omitempty" validate:"omitempty,email"`
	Office          string `json:"office,omitempty"`
}

type EligibilityItem struct {
	Criterion string `json:"criterion" validate:"required"`
}

// ServiceEntity is one piece of admin-managed content: a scheme, a
// certificate, a contact department or an emergency service.
type ServiceEntity struct {
	ID           int64             `json:"id"`
	Kind         Kind              `json:"kind"`
	Status       Status            `json:"status"`
	Name         string            `json:"name"`
	Summary      string            `json:"summary"`
	Department   string            `json:"department,omitempty"`
	Category     string            `json:"category,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
	WizardStep   string            `json:"wizard_step,omitempty"`
	ProcessSteps []ProcessStep     `json:"process_steps"`
	Documents    []Document        `json:"documents"`
	Contacts     []ContactPerson   `json:"contacts"`
	Eligibility  []EligibilityItem `json:"eligibility"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	PublishedAt  *time.Time        `json:"published_at,omitempty"`
}

func (e ServiceEntity) Visible() bool {
	return e.Status == StatusPublished
}

func (e ServiceEntity) RowCount(c Collection) int {
	switch c {
	case CollectionProcessSteps:
		return len(e.ProcessSteps)
	case CollectionDocuments:
		return len(e.Documents)
	case CollectionContacts:
		return len(e.Contacts)
	case CollectionEligibility:
		return len(e.Eligibility)
	}
	return 0
}

// HasApplicationType reports whether e serves applications of type tag. An
// entity that tags none of its keyed rows serves every type; one that tags
// any row serves only the tags it uses. Entities without keyed rows never
// match.
func (e ServiceEntity) HasApplicationType(tag string) bool {
	tag = strings.TrimSpace(tag)
	var tags []string
	for _, r := range e.ProcessSteps {
		tags = append(tags, r.ApplicationType)
	}
	for _, r := range e.Documents {
		tags = append(tags, r.ApplicationType)
	}
	for _, r := range e.Contacts {
		tags = append(tags, r.ApplicationType)
	}
	if len(tags) == 0 {
		return false
	}
	tagged := false
	for _, t := range tags {
		if t == tag {
			return true
		}
		if t != "" {
			tagged = true
		}
	}
	return !tagged
}

// Clone returns a copy that shares no slices or maps with e.
func (e ServiceEntity) Clone() ServiceEntity {
	out := e
	out.ProcessSteps = append([]ProcessStep{}, e.ProcessSteps...)
	out.Documents = append([]Document{}, e.Documents...)
	out.Contacts = append([]ContactPerson{}, e.Contacts...)
	out.Eligibility = append([]EligibilityItem{}, e.Eligibility...)
	if e.Details != nil {
		out.Details = make(map[string]string, len(e.Details))
		for k, v := range e.Details {
			out.Details[k] = v
		}
	}
	if e.PublishedAt != nil {
		t := *e.PublishedAt
		out.PublishedAt = &t
	}
	return out
}

// Collections carries replacement child collections. A nil pointer leaves the
// stored collection untouched; a non-nil pointer replaces it entirely.
type Collections struct {
	ProcessSteps *[]ProcessStep
	Documents    *[]Document
	Contacts     *[]ContactPerson
	Eligibility  *[]EligibilityItem
}

func (c Collections) Present() []Collection {
	var out []Collection
	if c.ProcessSteps != nil {
		out = append(out, CollectionProcessSteps)
	}
	if c.Documents != nil {
		out = append(out, CollectionDocuments)
	}
	if c.Contacts != nil {
		out = append(out, CollectionContacts)
	}
	if c.Eligibility != nil {
		out = append(out, CollectionEligibility)
	}
	return out
}

func (c Collections) Empty() bool {
	return len(c.Present()) == 0
}

func (c Collections) ApplyTo(e *ServiceEntity) {
	if c.ProcessSteps != nil {
		e.ProcessSteps = append([]ProcessStep{}, *c.ProcessSteps...)
	}
	if c.Documents != nil {
		e.Documents = append([]Document{}, *c.Documents...)
	}
	if c.Contacts != nil {
		e.Contacts = append([]ContactPerson{}, *c.Contacts...)
	}
	if c.Eligibility != nil {
		e.Eligibility = append([]EligibilityItem{}, *c.Eligibility...)
	}
}

// DecodeRows parses a JSON array of rows for collection c into a replacement
// set holding only that collection.
func DecodeRows(c Collection, raw json.RawMessage) (Collections, int, error) {
	var out Collections
	switch c {
	case CollectionProcessSteps:
		rows, err := decodeSlice[ProcessStep](raw)
		if err != nil {
			return out, 0, err
		}
		out.ProcessSteps = &rows
		return out, len(rows), nil
	case CollectionDocuments:
		rows, err := decodeSlice[Document](raw)
		if err != nil {
			return out, 0, err
		}
		out.Documents = &rows
		return out, len(rows), nil
	case CollectionContacts:
		rows, err := decodeSlice[ContactPerson](raw)
		if err != nil {
			return out, 0, err
		}
		out.Contacts = &rows
		return out, len(rows), nil
	case CollectionEligibility:
		rows, err := decodeSlice[EligibilityItem](raw)
		if err != nil {
			return out, 0, err
		}
		out.Eligibility = &rows
		return out, len(rows), nil
	}
	return out, 0, fmt.Errorf("unknown collection %q", c)
}

func decodeSlice[T any](raw json.RawMessage) ([]T, error) {
	rows := []T{}
	if len(raw) == 0 {
		return rows, nil
	}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

type ServiceFields struct {
	Name       *string           `json:"name,omitempty"`
	Summary    *string           `json:"summary,omitempty"`
	Department *string           `json:"department,omitempty"`
	Category   *string           `json:"category,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
}

// ServicePatch is a partial update. Nil fields are left as stored.
type ServicePatch struct {
	ServiceFields
	Status      *Status
	WizardStep  *string
	Collections Collections
}

func (p ServicePatch) ApplyTo(e *ServiceEntity) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Summary != nil {
		e.Summary = *p.Summary
	}
	if p.Department != nil {
		e.Department = *p.Department
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Details != nil {
		e.Details = make(map[string]string, len(p.Details))
		for k, v := range p.Details {
			e.Details[k] = v
		}
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.WizardStep != nil {
		e.WizardStep = *p.WizardStep
	}
	p.Collections.ApplyTo(e)
}

type ServiceFilter struct {
	Kind     Kind
	Statuses []Status
	Query    string
}

// PublicQuery narrows the citizen-facing lists.
type PublicQuery struct {
	Query           string
	Category        string
	Department      string
	ApplicationType string
}

type WizardAction string

const (
	ActionSave    WizardAction = "save"
	ActionPublish WizardAction = "publish"
)

type RowOp struct {
	Op    string          `json:"op" validate:"required,oneof=add edit remove"`
	Index int             `json:"index"`
	Row   json.RawMessage `json:"row,omitempty"`
}

// WizardView is one step of an entity's wizard as rendered to the admin UI.
type WizardView struct {
	Entity    ServiceEntity `json:"entity"`
	Step      StepView      `json:"step"`
	Rows      any           `json:"rows,omitempty"`
	Fields    *EntityFields `json:"fields,omitempty"`
	AllowJump bool          `json:"allow_jump"`
}

type StepView struct {
	Key        string `json:"key"`
	Title      string `json:"title"`
	Collection string `json:"collection,omitempty"`
	MinRows    int    `json:"min_rows"`
	Index      int    `json:"index"`
	Total      int    `json:"total"`
	Prev       string `json:"prev,omitempty"`
	Next       string `json:"next,omitempty"`
}

type EntityFields struct {
	Name       string            `json:"name"`
	Summary    string            `json:"summary"`
	Department string            `json:"department,omitempty"`
	Category   string            `json:"category,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
}
