package httptransport

import (
	"encoding/json"
	"net/url"
	"strings"

	"citizenportal/internal/domains"
)

type LoginData struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenRefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokensResponse struct {
	Success      bool   `json:"success"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type contentCreateRequest struct {
	Name         string                    `json:"name" validate:"required,max=200"`
	Summary      string                    `json:"summary" validate:"required,max=2000"`
	Department   string                    `json:"department" validate:"max=200"`
	Category     string                    `json:"category" validate:"max=200"`
	Status       string                    `json:"status"`
	Details      map[string]string         `json:"details"`
	ProcessSteps []domains.ProcessStep     `json:"process_steps" validate:"omitempty,dive"`
	Documents    []domains.Document        `json:"documents" validate:"omitempty,dive"`
	Contacts     []domains.ContactPerson   `json:"contacts" validate:"omitempty,dive"`
	Eligibility  []domains.EligibilityItem `json:"eligibility" validate:"omitempty,dive"`
}

func (req contentCreateRequest) entity(status domains.Status) domains.ServiceEntity {
	return domains.ServiceEntity{
		Status:       status,
		Name:         req.Name,
		Summary:      req.Summary,
		Department:   req.Department,
		Category:     req.Category,
		Details:      req.Details,
		ProcessSteps: req.ProcessSteps,
		Documents:    req.Documents,
		Contacts:     req.Contacts,
		Eligibility:  req.Eligibility,
	}
}

// contentPatchRequest distinguishes an absent collection (nil pointer) from
// an explicit empty one.
type contentPatchRequest struct {
	Name         *string                    `json:"name" validate:"omitempty,max=200"`
	Summary      *string                    `json:"summary" validate:"omitempty,max=2000"`
	Department   *string                    `json:"department" validate:"omitempty,max=200"`
	Category     *string                    `json:"category" validate:"omitempty,max=200"`
	Status       *string                    `json:"status"`
	Details      map[string]string          `json:"details"`
	ProcessSteps *[]domains.ProcessStep     `json:"process_steps" validate:"omitempty,dive"`
	Documents    *[]domains.Document        `json:"documents" validate:"omitempty,dive"`
	Contacts     *[]domains.ContactPerson   `json:"contacts" validate:"omitempty,dive"`
	Eligibility  *[]domains.EligibilityItem `json:"eligibility" validate:"omitempty,dive"`
}

func (req contentPatchRequest) patch() (domains.ServicePatch, error) {
	p := domains.ServicePatch{
		ServiceFields: domains.ServiceFields{
			Name:       req.Name,
			Summary:    req.Summary,
			Department: req.Department,
			Category:   req.Category,
			Details:    req.Details,
		},
		Collections: domains.Collections{
			ProcessSteps: req.ProcessSteps,
			Documents:    req.Documents,
			Contacts:     req.Contacts,
			Eligibility:  req.Eligibility,
		},
	}
	if req.Status != nil {
		status, err := domains.ParseStatus(*req.Status)
		if err != nil {
			return p, domains.Invalid("status", "status must be one of draft, pending, published", *req.Status)
		}
		p.Status = &status
	}
	return p, nil
}

// stepSaveRequest carries either rows (collection steps) or fields (the
// publish step), plus the save action.
type stepSaveRequest struct {
	Action     string            `json:"action" validate:"omitempty,oneof=save publish"`
	Rows       json.RawMessage   `json:"rows"`
	Name       *string           `json:"name" validate:"omitempty,max=200"`
	Summary    *string           `json:"summary" validate:"omitempty,max=2000"`
	Department *string           `json:"department" validate:"omitempty,max=200"`
	Category   *string           `json:"category" validate:"omitempty,max=200"`
	Details    map[string]string `json:"details"`
}

func (req stepSaveRequest) fields() domains.ServiceFields {
	return domains.ServiceFields{
		Name:       req.Name,
		Summary:    req.Summary,
		Department: req.Department,
		Category:   req.Category,
		Details:    req.Details,
	}
}

type rowOpsRequest struct {
	Action string          `json:"action" validate:"omitempty,oneof=save publish"`
	Ops    []domains.RowOp `json:"ops" validate:"required,min=1,dive"`
}

type ticketSubmitRequest struct {
	Subject     string `json:"subject" validate:"max=200"`
	Message     string `json:"message" validate:"required,max=5000"`
	Category    string `json:"category" validate:"max=100"`
	CitizenName string `json:"citizen_name" validate:"max=200"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"max=32"`
	Rating      *int   `json:"rating" validate:"omitempty,min=1,max=5"`
	ServiceID   *int64 `json:"service_id" validate:"omitempty,gt=0"`
	Status      string `json:"status"`
}

func (req ticketSubmitRequest) ticket() domains.Ticket {
	return domains.Ticket{
		Subject:     req.Subject,
		Message:     req.Message,
		Category:    req.Category,
		CitizenName: req.CitizenName,
		Email:       req.Email,
		Phone:       req.Phone,
		Rating:      req.Rating,
		ServiceID:   req.ServiceID,
	}
}

type ticketPatchRequest struct {
	Category       *string `json:"category" validate:"omitempty,max=100"`
	ResolutionNote *string `json:"resolution_note" validate:"omitempty,max=2000"`
	Status         *string `json:"status"`
}

func (req ticketPatchRequest) patch() (domains.TicketPatch, error) {
	p := domains.TicketPatch{Category: req.Category, ResolutionNote: req.ResolutionNote}
	if req.Status != nil {
		status, err := domains.ParseTicketStatus(*req.Status)
		if err != nil {
			return p, domains.Invalid("status", "status must be one of new, pending, resolved", *req.Status)
		}
		p.Status = &status
	}
	return p, nil
}

type resolveRequest struct {
	ResolutionNote string `json:"resolution_note" validate:"max=2000"`
}

type flowResponse struct {
	AllowJump bool               `json:"allow_jump"`
	Steps     []domains.StepView `json:"steps"`
}

// queryList reads a repeatable, comma separated query parameter.
func queryList(q url.Values, key string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func parseStatuses(q url.Values) ([]domains.Status, error) {
	raw := queryList(q, "status")
	out := make([]domains.Status, 0, len(raw))
	for _, v := range raw {
		s, err := domains.ParseStatus(v)
		if err != nil {
			return nil, domains.Invalid("status", "status must be one of draft, pending, published", v)
		}
		out = append(out, s)
	}
	return out, nil
}

func parseTicketStatuses(q url.Values) ([]domains.TicketStatus, error) {
	raw := queryList(q, "status")
	out := make([]domains.TicketStatus, 0, len(raw))
	for _, v := range raw {
		s, err := domains.ParseTicketStatus(v)
		if err != nil {
			return nil, domains.Invalid("status", "status must be one of new, pending, resolved", v)
		}
		out = append(out, s)
	}
	return out, nil
}
