package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"citizenportal/internal/domains"
	"citizenportal/internal/lifecycle"
	"citizenportal/internal/wizard"
)

func (s *ContentService) Flow(kind domains.Kind) (wizard.Flow, error) {
	schema, err := domains.SchemaFor(kind)
	if err != nil {
		return wizard.Flow{}, err
	}
	return schema.Flow, nil
}

// WizardStep renders one step of the entity's wizard. An empty key resumes
// where the last save left off.
func (s *ContentService) WizardStep(ctx context.Context, kind domains.Kind, id int64, key string) (domains.WizardView, error) {
	schema, e, cur, err := s.reach(ctx, kind, id, key)
	if err != nil {
		return domains.WizardView{}, err
	}
	return stepView(schema, e, cur), nil
}

// ReplaceStepRows swaps the collection behind a step for rows.
func (s *ContentService) ReplaceStepRows(ctx context.Context, kind domains.Kind, id int64, key string, rows json.RawMessage, action domains.WizardAction) (domains.ServiceEntity, error) {
	schema, e, cur, err := s.reach(ctx, kind, id, key)
	if err != nil {
		return domains.ServiceEntity{}, err
	}
	step := cur.Current()
	if step.EditsFields() {
		return domains.ServiceEntity{}, domains.Invalid("step", "step does not hold rows", step.Key)
	}

	set, n, err := domains.DecodeRows(domains.Collection(step.Collection), rows)
	if err != nil {
		return domains.ServiceEntity{}, domains.Invalid("rows", "rows are malformed", nil)
	}
	if n < step.RequiredRows() {
		return domains.ServiceEntity{}, domains.Invalid(step.Collection,
			fmt.Sprintf("at least %d row(s) must be kept", step.RequiredRows()), n)
	}
	if err := checkRows(set, "rows"); err != nil {
		return domains.ServiceEntity{}, err
	}

	return s.saveStep(ctx, schema, e, cur, domains.ServicePatch{Collections: set}, action)
}

// ApplyRowOps edits the stored rows of a step one operation at a time. The
// last row can never be removed.
func (s *ContentService) ApplyRowOps(ctx context.Context, kind domains.Kind, id int64, key string, ops []domains.RowOp, action domains.WizardAction) (domains.ServiceEntity, error) {
	schema, e, cur, err := s.reach(ctx, kind, id, key)
	if err != nil {
		return domains.ServiceEntity{}, err
	}
	step := cur.Current()
	if step.EditsFields() {
		return domains.ServiceEntity{}, domains.Invalid("step", "step does not hold rows", step.Key)
	}

	var set domains.Collections
	min := step.RequiredRows()
	switch domains.Collection(step.Collection) {
	case domains.CollectionProcessSteps:
		rows, err := applyOps(e.ProcessSteps, min, ops)
		if err != nil {
			return domains.ServiceEntity{}, err
		}
		set.ProcessSteps = &rows
	case domains.CollectionDocuments:
		rows, err := applyOps(e.Documents, min, ops)
		if err != nil {
			return domains.ServiceEntity{}, err
		}
		set.Documents = &rows
	case domains.CollectionContacts:
		rows, err := applyOps(e.Contacts, min, ops)
		if err != nil {
			return domains.ServiceEntity{}, err
		}
		set.Contacts = &rows
	case domains.CollectionEligibility:
		rows, err := applyOps(e.Eligibility, min, ops)
		if err != nil {
			return domains.ServiceEntity{}, err
		}
		set.Eligibility = &rows
	default:
		return domains.ServiceEntity{}, fmt.Errorf("step %s edits unknown collection %q", step.Key, step.Collection)
	}

	return s.saveStep(ctx, schema, e, cur, domains.ServicePatch{Collections: set}, action)
}

// SaveStepFields saves the publish-level fields step.
func (s *ContentService) SaveStepFields(ctx context.Context, kind domains.Kind, id int64, key string, fields domains.ServiceFields, action domains.WizardAction) (domains.ServiceEntity, error) {
	schema, e, cur, err := s.reach(ctx, kind, id, key)
	if err != nil {
		return domains.ServiceEntity{}, err
	}
	if !cur.Current().EditsFields() {
		return domains.ServiceEntity{}, domains.Invalid("step", "step holds rows, not fields", cur.Current().Key)
	}

	patch := domains.ServicePatch{ServiceFields: fields}
	trimPatch(&patch)
	return s.saveStep(ctx, schema, e, cur, patch, action)
}

// reach loads the entity and moves its wizard cursor to key, honouring the
// flow's jump rules.
func (s *ContentService) reach(ctx context.Context, kind domains.Kind, id int64, key string) (domains.Schema, domains.ServiceEntity, *wizard.Cursor, error) {
	schema, err := domains.SchemaFor(kind)
	if err != nil {
		return domains.Schema{}, domains.ServiceEntity{}, nil, err
	}
	e, err := s.store.GetService(ctx, kind, id)
	if err != nil {
		return domains.Schema{}, domains.ServiceEntity{}, nil, err
	}

	cur := schema.Flow.CursorAt(e.WizardStep)
	if key == "" {
		return schema, e, cur, nil
	}
	if err := cur.JumpTo(key); err != nil {
		switch {
		case errors.Is(err, wizard.ErrUnknownStep):
			return domains.Schema{}, domains.ServiceEntity{}, nil, domains.Invalid("step", "unknown wizard step", key)
		case errors.Is(err, wizard.ErrJumpNotAllowed):
			return domains.Schema{}, domains.ServiceEntity{}, nil, domains.Invalid("step", "step is not reachable from the current step", key)
		}
		return domains.Schema{}, domains.ServiceEntity{}, nil, err
	}
	return schema, e, cur, nil
}

// saveStep persists patch. Save keeps the status and advances the resume
// point; publish also moves the entity to published.
func (s *ContentService) saveStep(ctx context.Context, schema domains.Schema, e domains.ServiceEntity, cur *wizard.Cursor, patch domains.ServicePatch, action domains.WizardAction) (domains.ServiceEntity, error) {
	resume := cur.Current().Key
	publishing := false

	switch action {
	case "", domains.ActionSave:
		if following, ok := cur.Following(); ok {
			resume = following.Key
		}
	case domains.ActionPublish:
		if e.Status != domains.StatusPublished {
			if err := lifecycle.Transition(e.Status, domains.StatusPublished); err != nil {
				return domains.ServiceEntity{}, domains.Invalid("status", transitionMessage(e.Status, domains.StatusPublished), e.Status)
			}
			published := domains.StatusPublished
			patch.Status = &published
			publishing = true
		}
	default:
		return domains.ServiceEntity{}, domains.Invalid("action", "action must be save or publish", action)
	}
	patch.WizardStep = &resume

	next := e.Clone()
	patch.ApplyTo(&next)
	if err := s.check(schema, next).Err(); err != nil {
		return domains.ServiceEntity{}, err
	}

	updated, err := s.store.UpdateService(ctx, e.Kind, e.ID, patch)
	if err != nil {
		slog.Error("save wizard step failed", "kind", e.Kind, "id", e.ID, "step", cur.Current().Key, "err", err)
		return domains.ServiceEntity{}, err
	}
	if publishing {
		s.rec.ContentPublished(e.Kind)
	}
	return updated, nil
}

func applyOps[T any](current []T, min int, ops []domains.RowOp) ([]T, error) {
	rows := wizard.NewRows(min, current)
	for i, op := range ops {
		param := fmt.Sprintf("ops[%d]", i)
		switch op.Op {
		case "add":
			row, err := decodeRow[T](op.Row, param+".row")
			if err != nil {
				return nil, err
			}
			rows.Add(row)
		case "edit":
			row, err := decodeRow[T](op.Row, param+".row")
			if err != nil {
				return nil, err
			}
			if err := rows.Edit(op.Index, row); err != nil {
				return nil, domains.Invalid(param+".index", "row index out of range", op.Index)
			}
		case "remove":
			if err := rows.Remove(op.Index); err != nil {
				if errors.Is(err, wizard.ErrLastRow) {
					return nil, domains.Invalid(param, "the last row cannot be removed", op.Index)
				}
				return nil, domains.Invalid(param+".index", "row index out of range", op.Index)
			}
		default:
			return nil, domains.Invalid(param+".op", "op must be add, edit or remove", op.Op)
		}
	}
	if !rows.Complete() {
		return nil, domains.Invalid("rows", fmt.Sprintf("at least %d row(s) must be kept", min), rows.Len())
	}
	return rows.Items(), nil
}

// decodeRow parses one op row and runs its validate tags under param.
func decodeRow[T any](raw json.RawMessage, param string) (T, error) {
	var row T
	if err := json.Unmarshal(raw, &row); err != nil {
		return row, domains.Invalid(param, "row is malformed", nil)
	}
	if err := domains.CheckTags(row, param); err != nil {
		return row, err
	}
	return row, nil
}

// checkRows runs the validate tags of every row in set, reporting each
// failure as prefix[i].field.
func checkRows(set domains.Collections, prefix string) error {
	var errs domains.ValidationErrors
	var err error
	if set.ProcessSteps != nil {
		if errs, err = appendRowErrors(errs, *set.ProcessSteps, prefix); err != nil {
			return err
		}
	}
	if set.Documents != nil {
		if errs, err = appendRowErrors(errs, *set.Documents, prefix); err != nil {
			return err
		}
	}
	if set.Contacts != nil {
		if errs, err = appendRowErrors(errs, *set.Contacts, prefix); err != nil {
			return err
		}
	}
	if set.Eligibility != nil {
		if errs, err = appendRowErrors(errs, *set.Eligibility, prefix); err != nil {
			return err
		}
	}
	return errs.Err()
}

func appendRowErrors[T any](errs domains.ValidationErrors, rows []T, prefix string) (domains.ValidationErrors, error) {
	for i, r := range rows {
		err := domains.CheckTags(r, fmt.Sprintf("%s[%d]", prefix, i))
		if err == nil {
			continue
		}
		var verrs domains.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		errs = append(errs, verrs...)
	}
	return errs, nil
}

func stepView(schema domains.Schema, e domains.ServiceEntity, cur *wizard.Cursor) domains.WizardView {
	step := cur.Current()
	view := domains.WizardView{
		Entity: e,
		Step: domains.StepView{
			Key:        step.Key,
			Title:      step.Title,
			Collection: step.Collection,
			MinRows:    step.RequiredRows(),
			Index:      cur.Index(),
			Total:      schema.Flow.Len(),
		},
		AllowJump: schema.Flow.AllowJump(),
	}
	if prev, ok := cur.Prev(); ok {
		view.Step.Prev = prev.Key
	}
	if next, ok := cur.Following(); ok {
		view.Step.Next = next.Key
	}

	if step.EditsFields() {
		view.Fields = &domains.EntityFields{
			Name:       e.Name,
			Summary:    e.Summary,
			Department: e.Department,
			Category:   e.Category,
			Details:    e.Details,
		}
		return view
	}
	switch domains.Collection(step.Collection) {
	case domains.CollectionProcessSteps:
		view.Rows = e.ProcessSteps
	case domains.CollectionDocuments:
		view.Rows = e.Documents
	case domains.CollectionContacts:
		view.Rows = e.Contacts
	case domains.CollectionEligibility:
		view.Rows = e.Eligibility
	}
	return view
}
