package providers

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"citizenportal/internal/domains"
)

// replaceChildren swaps every collection present in cols for its new rows.
// Absent collections are not touched.
func replaceChildren(ctx context.Context, tx pgx.Tx, serviceID int64, cols domains.Collections) error {
	if cols.ProcessSteps != nil {
		rows := *cols.ProcessSteps
		if err := replaceRows(ctx, tx, "service_process_steps",
			[]string{"application_type", "title", "description"}, serviceID, len(rows),
			func(i int) []any { return []any{rows[i].ApplicationType, rows[i].Title, rows[i].Description} },
		); err != nil {
			return err
		}
	}
	if cols.Documents != nil {
		rows := *cols.Documents
		if err := replaceRows(ctx, tx, "service_documents",
			[]string{"application_type", "name", "description", "mandatory"}, serviceID, len(rows),
			func(i int) []any {
				return []any{rows[i].ApplicationType, rows[i].Name, rows[i].Description, rows[i].Mandatory}
			},
		); err != nil {
			return err
		}
	}
	if cols.Contacts != nil {
		rows := *cols.Contacts
		if err := replaceRows(ctx, tx, "service_contacts",
			[]string{"application_type", "name", "designation", "phone", "email", "office"}, serviceID, len(rows),
			func(i int) []any {
				r := rows[i]
				return []any{r.ApplicationType, r.Name, r.Designation, r.Phone, r.Email, r.Office}
			},
		); err != nil {
			return err
		}
	}
	if cols.Eligibility != nil {
		rows := *cols.Eligibility
		if err := replaceRows(ctx, tx, "service_eligibility",
			[]string{"criterion"}, serviceID, len(rows),
			func(i int) []any { return []any{rows[i].Criterion} },
		); err != nil {
			return err
		}
	}
	return nil
}

func replaceRows(ctx context.Context, tx pgx.Tx, table string, columns []string, serviceID int64, n int, row func(i int) []any) error {
	if _, err := tx.Exec(ctx, "DELETE FROM "+table+" WHERE service_id = $1", serviceID); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	if n == 0 {
		return nil
	}

	cols := append([]string{"service_id", "position"}, columns...)
	_, err := tx.CopyFrom(ctx, pgx.Identifier{table}, cols, pgx.CopyFromSlice(n, func(i int) ([]any, error) {
		return append([]any{serviceID, int32(i)}, row(i)...), nil
	}))
	if err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// loadChildren fills the child collections of entities in place. Every
// collection ends up non-nil so empty lists serialize as [].
func loadChildren(ctx context.Context, q querier, entities []domains.ServiceEntity) error {
	if len(entities) == 0 {
		return nil
	}

	ids := make([]int64, len(entities))
	index := make(map[int64]int, len(entities))
	for i := range entities {
		ids[i] = entities[i].ID
		index[entities[i].ID] = i
		entities[i].ProcessSteps = []domains.ProcessStep{}
		entities[i].Documents = []domains.Document{}
		entities[i].Contacts = []domains.ContactPerson{}
		entities[i].Eligibility = []domains.EligibilityItem{}
	}

	var (
		sid  int64
		step domains.ProcessStep
		doc  domains.Document
		cp   domains.ContactPerson
		item domains.EligibilityItem
	)

	if err := forEachChild(ctx, q, `
		SELECT service_id, application_type, title, description
		FROM service_process_steps
		WHERE service_id = ANY($1)
		ORDER BY service_id, position`, ids,
		[]any{&sid, &step.ApplicationType, &step.Title, &step.Description},
		func() {
			e := &entities[index[sid]]
			e.ProcessSteps = append(e.ProcessSteps, step)
		},
	); err != nil {
		return fmt.Errorf("load process steps: %w", err)
	}

	if err := forEachChild(ctx, q, `
		SELECT service_id, application_type, name, description, mandatory
		FROM service_documents
		WHERE service_id = ANY($1)
		ORDER BY service_id, position`, ids,
		[]any{&sid, &doc.ApplicationType, &doc.Name, &doc.Description, &doc.Mandatory},
		func() {
			e := &entities[index[sid]]
			e.Documents = append(e.Documents, doc)
		},
	); err != nil {
		return fmt.Errorf("load documents: %w", err)
	}

	if err := forEachChild(ctx, q, `
		SELECT service_id, application_type, name, designation, phone, email, office
		FROM service_contacts
		WHERE service_id = ANY($1)
		ORDER BY service_id, position`, ids,
		[]any{&sid, &cp.ApplicationType, &cp.Name, &cp.Designation, &cp.Phone, &cp.Email, &cp.Office},
		func() {
			e := &entities[index[sid]]
			e.Contacts = append(e.Contacts, cp)
		},
	); err != nil {
		return fmt.Errorf("load contacts: %w", err)
	}

	if err := forEachChild(ctx, q, `
		SELECT service_id, criterion
		FROM service_eligibility
		WHERE service_id = ANY($1)
		ORDER BY service_id, position`, ids,
		[]any{&sid, &item.Criterion},
		func() {
			e := &entities[index[sid]]
			e.Eligibility = append(e.Eligibility, item)
		},
	); err != nil {
		return fmt.Errorf("load eligibility: %w", err)
	}

	return nil
}

func forEachChild(ctx context.Context, q querier, query string, ids []int64, scans []any, fn func()) error {
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	_, err = pgx.ForEachRow(rows, scans, func() error {
		fn()
		return nil
	})
	return err
}
