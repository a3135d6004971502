package domains

import (
	"fmt"
	"strings"
)

// FieldError is the wire shape of one validation failure.
type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param"`
	Value any    `json:"value,omitempty"`
}

type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Param+": "+fe.Msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v *ValidationErrors) Add(param, msg string, value any) {
	*v = append(*v, FieldError{Msg: msg, Param: param, Value: value})
}

// Err returns nil when nothing was collected, so callers never hand back a
// typed nil inside an error.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func Invalid(param, msg string, value any) ValidationErrors {
	return ValidationErrors{{Msg: msg, Param: param, Value: value}}
}

// Validate checks the shape rules every stored entity of this kind obeys,
// whatever its status.
func (s Schema) Validate(e ServiceEntity) ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(e.Name) == "" {
		errs.Add("name", "name is required", e.Name)
	}
	if strings.TrimSpace(e.Summary) == "" {
		errs.Add("summary", "summary is required", e.Summary)
	}
	if !e.Status.Valid() {
		errs.Add("status", "status must be one of draft, pending, published", e.Status)
	}
	for key := range e.Details {
		if !s.AcceptsDetail(key) {
			errs.Add("details."+key, fmt.Sprintf("%s does not accept detail %q", s.Kind, key), key)
		}
	}
	for _, c := range []Collection{CollectionProcessSteps, CollectionDocuments, CollectionContacts, CollectionEligibility} {
		if e.RowCount(c) > 0 && !s.HasCollection(c) {
			errs.Add(string(c), fmt.Sprintf("%s does not carry %s", s.Kind, c), nil)
		}
	}
	for i, r := range e.ProcessSteps {
		s.checkAppType(&errs, CollectionProcessSteps, i, r.ApplicationType)
		requireRowField(&errs, CollectionProcessSteps, i, "title", r.Title)
	}
	for i, r := range e.Documents {
		s.checkAppType(&errs, CollectionDocuments, i, r.ApplicationType)
		requireRowField(&errs, CollectionDocuments, i, "name", r.Name)
	}
	for i, r := range e.Contacts {
		s.checkAppType(&errs, CollectionContacts, i, r.ApplicationType)
		requireRowField(&errs, CollectionContacts, i, "name", r.Name)
	}
	for i, r := range e.Eligibility {
		requireRowField(&errs, CollectionEligibility, i, "criterion", r.Criterion)
	}
	return errs
}

func requireRowField(errs *ValidationErrors, c Collection, i int, field, value string) {
	if strings.TrimSpace(value) == "" {
		errs.Add(fmt.Sprintf("%s[%d].%s", c, i, field), field+" is required", value)
	}
}

func (s Schema) checkAppType(errs *ValidationErrors, c Collection, i int, tag string) {
	if !s.AcceptsApplicationType(tag) {
		errs.Add(fmt.Sprintf("%s[%d].application_type", c, i), "unknown application type", tag)
	}
}

// PublishErrors lists what is missing before e may become public.
func (s Schema) PublishErrors(e ServiceEntity) ValidationErrors {
	errs := s.Validate(e)
	for _, c := range s.RequiredToPublish {
		if e.RowCount(c) == 0 {
			errs.Add(string(c), fmt.Sprintf("at least one row in %s is required to publish", c), nil)
		}
	}
	for _, key := range s.RequiredDetails {
		if strings.TrimSpace(e.Details[key]) == "" {
			errs.Add("details."+key, fmt.Sprintf("%s is required to publish", key), nil)
		}
	}
	return errs
}

// RequiresCollection reports whether c must stay non-empty once published.
func (s Schema) RequiresCollection(c Collection) bool {
	for _, r := range s.RequiredToPublish {
		if r == c {
			return true
		}
	}
	return false
}
