package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"citizenportal/internal/domains"
	"citizenportal/internal/storage"
)

var serviceColumns = []string{
	"id", "kind", "status", "name", "summary", "department", "category",
	"details", "wizard_step", "created_at", "updated_at", "published_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type ContentProvider struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewContentProvider(db *pgxpool.Pool) *ContentProvider {
	return &ContentProvider{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (p *ContentProvider) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

func (p *ContentProvider) CreateService(ctx context.Context, e domains.ServiceEntity) (domains.ServiceEntity, error) {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return domains.ServiceEntity{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var publishedAt any
	if e.Status == domains.StatusPublished {
		publishedAt = sq.Expr("now()")
	}

	query, args, err := p.sb.
		Insert("services").
		Columns("kind", "status", "name", "summary", "department", "category", "details", "wizard_step", "published_at").
		Values(string(e.Kind), string(e.Status), e.Name, e.Summary, e.Department, e.Category,
			detailsOrEmpty(e.Details), e.WizardStep, publishedAt).
		Suffix("RETURNING " + strings.Join(serviceColumns, ", ")).
		ToSql()
	if err != nil {
		return domains.ServiceEntity{}, fmt.Errorf("build insert service: %w", err)
	}

	created, err := scanService(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return domains.ServiceEntity{}, fmt.Errorf("insert service: %w", err)
	}

	if err := replaceChildren(ctx, tx, created.ID, allCollections(e)); err != nil {
		return domains.ServiceEntity{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domains.ServiceEntity{}, fmt.Errorf("commit: %w", err)
	}

	allCollections(e).ApplyTo(&created)
	return created, nil
}

func (p *ContentProvider) GetService(ctx context.Context, kind domains.Kind, id int64) (domains.ServiceEntity, error) {
	query, args, err := p.sb.
		Select(serviceColumns...).
		From("services").
		Where(sq.Eq{"id": id, "kind": string(kind)}).
		ToSql()
	if err != nil {
		return domains.ServiceEntity{}, fmt.Errorf("build get service: %w", err)
	}

	e, err := scanService(p.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.ServiceEntity{}, fmt.Errorf("get service: %w", storage.ErrNotFound)
		}
		return domains.ServiceEntity{}, fmt.Errorf("get service: %w", err)
	}

	entities := []domains.ServiceEntity{e}
	if err := loadChildren(ctx, p.db, entities); err != nil {
		return domains.ServiceEntity{}, err
	}
	return entities[0], nil
}

func (p *ContentProvider) ListServices(ctx context.Context, filter domains.ServiceFilter) ([]domains.ServiceEntity, error) {
	q := p.sb.
		Select(serviceColumns...).
		From("services").
		OrderBy("created_at DESC", "id DESC")

	if filter.Kind != "" {
		q = q.Where(sq.Eq{"kind": string(filter.Kind)})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		q = q.Where(sq.Eq{"status": statuses})
	}
	if term := strings.TrimSpace(filter.Query); term != "" {
		q = q.Where(sq.ILike{"name": "%" + likeEscaper.Replace(term) + "%"})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list services: %w", err)
	}

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	entities, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domains.ServiceEntity, error) {
		return scanService(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan services: %w", err)
	}

	if err := loadChildren(ctx, p.db, entities); err != nil {
		return nil, err
	}
	return entities, nil
}

func (p *ContentProvider) UpdateService(ctx context.Context, kind domains.Kind, id int64, patch domains.ServicePatch) (domains.ServiceEntity, error) {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return domains.ServiceEntity{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	ub := p.sb.
		Update("services").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id, "kind": string(kind)}).
		Suffix("RETURNING " + strings.Join(serviceColumns, ", "))

	if patch.Name != nil {
		ub = ub.Set("name", *patch.Name)
	}
	if patch.Summary != nil {
		ub = ub.Set("summary", *patch.Summary)
	}
	if patch.Department != nil {
		ub = ub.Set("department", *patch.Department)
	}
	if patch.Category != nil {
		ub = ub.Set("category", *patch.Category)
	}
	if patch.Details != nil {
		ub = ub.Set("details", patch.Details)
	}
	if patch.WizardStep != nil {
		ub = ub.Set("wizard_step", *patch.WizardStep)
	}
	if patch.Status != nil {
		ub = ub.Set("status", string(*patch.Status))
		if *patch.Status == domains.StatusPublished {
			ub = ub.Set("published_at", sq.Expr("COALESCE(published_at, now())"))
		}
	}

	query, args, err := ub.ToSql()
	if err != nil {
		return domains.ServiceEntity{}, fmt.Errorf("build update service: %w", err)
	}

	updated, err := scanService(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.ServiceEntity{}, fmt.Errorf("update service: %w", storage.ErrNotFound)
		}
		return domains.ServiceEntity{}, fmt.Errorf("update service: %w", err)
	}

	if err := replaceChildren(ctx, tx, id, patch.Collections); err != nil {
		return domains.ServiceEntity{}, err
	}

	entities := []domains.ServiceEntity{updated}
	if err := loadChildren(ctx, tx, entities); err != nil {
		return domains.ServiceEntity{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domains.ServiceEntity{}, fmt.Errorf("commit: %w", err)
	}
	return entities[0], nil
}

func (p *ContentProvider) DeleteService(ctx context.Context, kind domains.Kind, id int64) error {
	query, args, err := p.sb.
		Delete("services").
		Where(sq.Eq{"id": id, "kind": string(kind)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete service: %w", err)
	}

	tag, err := p.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete service: %w", storage.ErrNotFound)
	}
	return nil
}

func scanService(row pgx.Row) (domains.ServiceEntity, error) {
	var (
		e      domains.ServiceEntity
		kind   string
		status string
	)
	if err := row.Scan(
		&e.ID,
		&kind,
		&status,
		&e.Name,
		&e.Summary,
		&e.Department,
		&e.Category,
		&e.Details,
		&e.WizardStep,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.PublishedAt,
	); err != nil {
		return domains.ServiceEntity{}, err
	}
	e.Kind = domains.Kind(kind)
	e.Status = domains.Status(status)
	if len(e.Details) == 0 {
		e.Details = nil
	}
	return e, nil
}

func detailsOrEmpty(details map[string]string) map[string]string {
	if details == nil {
		return map[string]string{}
	}
	return details
}

func allCollections(e domains.ServiceEntity) domains.Collections {
	steps := append([]domains.ProcessStep{}, e.ProcessSteps...)
	docs := append([]domains.Document{}, e.Documents...)
	contacts := append([]domains.ContactPerson{}, e.Contacts...)
	eligibility := append([]domains.EligibilityItem{}, e.Eligibility...)
	return domains.Collections{
		ProcessSteps: &steps,
		Documents:    &docs,
		Contacts:     &contacts,
		Eligibility:  &eligibility,
	}
}
