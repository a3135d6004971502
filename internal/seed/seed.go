// Package seed loads demo content from YAML fixtures and pushes it through the
// services, so seeded rows pass the same checks as admin input.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"citizenportal/internal/domains"
)

type ContentCreator interface {
	Create(ctx context.Context, kind domains.Kind, e domains.ServiceEntity) (domains.ServiceEntity, error)
	Publish(ctx context.Context, kind domains.Kind, id int64) (domains.ServiceEntity, error)
}

type TicketSubmitter interface {
	Submit(ctx context.Context, kind domains.TicketKind, t domains.Ticket) (domains.Ticket, error)
}

type Fixtures struct {
	Content []ContentFixture `yaml:"content"`
	Tickets []TicketFixture  `yaml:"tickets"`
}

type ContentFixture struct {
	Kind         string            `yaml:"kind"`
	Publish      bool              `yaml:"publish"`
	Name         string            `yaml:"name"`
	Summary      string            `yaml:"summary"`
	Department   string            `yaml:"department"`
	Category     string            `yaml:"category"`
	Details      map[string]string `yaml:"details"`
	ProcessSteps []StepFixture     `yaml:"process_steps"`
	Documents    []DocumentFixture `yaml:"documents"`
	Contacts     []ContactFixture  `yaml:"contacts"`
	Eligibility  []string          `yaml:"eligibility"`
}

type StepFixture struct {
	ApplicationType string `yaml:"application_type"`
	Title           string `yaml:"title"`
	Description     string `yaml:"description"`
}

type DocumentFixture struct {
	ApplicationType string `yaml:"application_type"`
	Name            string `yaml:"name"`
	Description     string `yaml:"description"`
	Mandatory       bool   `yaml:"mandatory"`
}

type ContactFixture struct {
	ApplicationType string `yaml:"application_type"`
	Name            string `yaml:"name"`
	Designation     string `yaml:"designation"`
	Phone           string `yaml:"phone"`
	Email           string `yaml:"email"`
	Office          string `yaml:"office"`
}

type TicketFixture struct {
	Kind        string `yaml:"kind"`
	Subject     string `yaml:"subject"`
	Message     string `yaml:"message"`
	Category    string `yaml:"category"`
	CitizenName string `yaml:"citizen_name"`
	Email       string `yaml:"email"`
	Rating      *int   `yaml:"rating"`
}

type Result struct {
	Created   int
	Published int
	Tickets   int
}

// Load decodes fixtures, rejecting unknown keys.
func Load(r io.Reader) (Fixtures, error) {
	var f Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return Fixtures{}, nil
		}
		return Fixtures{}, fmt.Errorf("decode fixtures: %w", err)
	}
	return f, nil
}

func LoadFile(path string) (Fixtures, error) {
	file, err := os.Open(path)
	if err != nil {
		return Fixtures{}, err
	}
	defer file.Close()
	return Load(file)
}

// Apply creates every fixture in order and stops at the first failure. The
// result counts what was stored before that point.
func (f Fixtures) Apply(ctx context.Context, content ContentCreator, tickets TicketSubmitter) (Result, error) {
	var res Result
	for i, c := range f.Content {
		kind, err := domains.ParseKind(c.Kind)
		if err != nil {
			return res, fmt.Errorf("content[%d]: %w", i, err)
		}
		created, err := content.Create(ctx, kind, c.entity())
		if err != nil {
			return res, fmt.Errorf("content[%d] %q: %w", i, c.Name, err)
		}
		res.Created++
		if !c.Publish {
			continue
		}
		if _, err := content.Publish(ctx, kind, created.ID); err != nil {
			return res, fmt.Errorf("publish content[%d] %q: %w", i, c.Name, err)
		}
		res.Published++
	}

	for i, t := range f.Tickets {
		kind, err := domains.ParseTicketKind(t.Kind)
		if err != nil {
			return res, fmt.Errorf("tickets[%d]: %w", i, err)
		}
		if _, err := tickets.Submit(ctx, kind, t.ticket()); err != nil {
			return res, fmt.Errorf("tickets[%d]: %w", i, err)
		}
		res.Tickets++
	}
	return res, nil
}

func (c ContentFixture) entity() domains.ServiceEntity {
	e := domains.ServiceEntity{
		Name:       c.Name,
		Summary:    c.Summary,
		Department: c.Department,
		Category:   c.Category,
		Details:    c.Details,
	}
	for _, s := range c.ProcessSteps {
		e.ProcessSteps = append(e.ProcessSteps, domains.ProcessStep{
			ApplicationType: s.ApplicationType,
			Title:           s.Title,
			Description:     s.Description,
		})
	}
	for _, d := range c.Documents {
		e.Documents = append(e.Documents, domains.Document{
			ApplicationType: d.ApplicationType,
			Name:            d.Name,
			Description:     d.Description,
			Mandatory:       d.Mandatory,
		})
	}
	for _, p := range c.Contacts {
		e.Contacts = append(e.Contacts, domains.ContactPerson{
			ApplicationType: p.ApplicationType,
			Name:            p.Name,
			Designation:     p.Designation,
			Phone:           p.Phone,
			Email:           p.Email,
			Office:          p.Office,
		})
	}
	for _, crit := range c.Eligibility {
		e.Eligibility = append(e.Eligibility, domains.EligibilityItem{Criterion: crit})
	}
	return e
}

func (t TicketFixture) ticket() domains.Ticket {
	return domains.Ticket{
		Subject:     t.Subject,
		Message:     t.Message,
		Category:    t.Category,
		CitizenName: t.CitizenName,
		Email:       t.Email,
		Rating:      t.Rating,
	}
}
