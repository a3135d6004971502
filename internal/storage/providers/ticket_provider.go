package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"citizenportal/internal/domains"
	"citizenportal/internal/storage"
)

var ticketColumns = []string{
	"id", "kind", "status", "subject", "message", "category", "citizen_name",
	"email", "phone", "rating", "service_id", "resolution_note",
	"created_at", "updated_at", "resolved_at",
}

type TicketProvider struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewTicketProvider(db *pgxpool.Pool) *TicketProvider {
	return &TicketProvider{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (p *TicketProvider) CreateTicket(ctx context.Context, t domains.Ticket) (domains.Ticket, error) {
	query, args, err := p.sb.
		Insert("tickets").
		Columns("kind", "status", "subject", "message", "category", "citizen_name", "email", "phone", "rating", "service_id").
		Values(string(t.Kind), string(t.Status), t.Subject, t.Message, t.Category, t.CitizenName, t.Email, t.Phone, t.Rating, t.ServiceID).
		Suffix("RETURNING " + strings.Join(ticketColumns, ", ")).
		ToSql()
	if err != nil {
		return domains.Ticket{}, fmt.Errorf("build insert ticket: %w", err)
	}

	created, err := scanTicket(p.db.QueryRow(ctx, query, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == storage.ForeignKeyViolation {
			return domains.Ticket{}, fmt.Errorf("insert ticket: referenced service is gone: %w", storage.ErrConflict)
		}
		return domains.Ticket{}, fmt.Errorf("insert ticket: %w", err)
	}
	return created, nil
}

// ServiceStatus reports the status of the service a ticket refers to.
func (p *TicketProvider) ServiceStatus(ctx context.Context, id int64) (domains.Status, error) {
	var status string
	err := p.db.QueryRow(ctx, `SELECT status FROM services WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("service status: %w", storage.ErrNotFound)
		}
		return "", fmt.Errorf("service status: %w", err)
	}
	return domains.Status(status), nil
}

func (p *TicketProvider) GetTicket(ctx context.Context, kind domains.TicketKind, id int64) (domains.Ticket, error) {
	query, args, err := p.sb.
		Select(ticketColumns...).
		From("tickets").
		Where(sq.Eq{"id": id, "kind": string(kind)}).
		ToSql()
	if err != nil {
		return domains.Ticket{}, fmt.Errorf("build get ticket: %w", err)
	}

	t, err := scanTicket(p.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.Ticket{}, fmt.Errorf("get ticket: %w", storage.ErrNotFound)
		}
		return domains.Ticket{}, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}

func (p *TicketProvider) ListTickets(ctx context.Context, filter domains.TicketFilter) ([]domains.Ticket, error) {
	q := p.sb.
		Select(ticketColumns...).
		From("tickets").
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

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list tickets: %w", err)
	}

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	tickets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domains.Ticket, error) {
		return scanTicket(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan tickets: %w", err)
	}
	return tickets, nil
}

func (p *TicketProvider) UpdateTicket(ctx context.Context, kind domains.TicketKind, id int64, patch domains.TicketPatch) (domains.Ticket, error) {
	ub := p.sb.
		Update("tickets").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id, "kind": string(kind)}).
		Suffix("RETURNING " + strings.Join(ticketColumns, ", "))

	if patch.Category != nil {
		ub = ub.Set("category", *patch.Category)
	}
	if patch.ResolutionNote != nil {
		ub = ub.Set("resolution_note", *patch.ResolutionNote)
	}
	if patch.Status != nil {
		ub = ub.Set("status", string(*patch.Status))
		if *patch.Status == domains.TicketResolved {
			ub = ub.Set("resolved_at", sq.Expr("COALESCE(resolved_at, now())"))
		}
	}

	query, args, err := ub.ToSql()
	if err != nil {
		return domains.Ticket{}, fmt.Errorf("build update ticket: %w", err)
	}

	updated, err := scanTicket(p.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.Ticket{}, fmt.Errorf("update ticket: %w", storage.ErrNotFound)
		}
		return domains.Ticket{}, fmt.Errorf("update ticket: %w", err)
	}
	return updated, nil
}

func (p *TicketProvider) DeleteTicket(ctx context.Context, kind domains.TicketKind, id int64) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM tickets WHERE id = $1 AND kind = $2`, id, string(kind))
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete ticket: %w", storage.ErrNotFound)
	}
	return nil
}

func scanTicket(row pgx.Row) (domains.Ticket, error) {
	var (
		t      domains.Ticket
		kind   string
		status string
		rating *int16
	)
	if err := row.Scan(
		&t.ID,
		&kind,
		&status,
		&t.Subject,
		&t.Message,
		&t.Category,
		&t.CitizenName,
		&t.Email,
		&t.Phone,
		&rating,
		&t.ServiceID,
		&t.ResolutionNote,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.ResolvedAt,
	); err != nil {
		return domains.Ticket{}, err
	}
	t.Kind = domains.TicketKind(kind)
	t.Status = domains.TicketStatus(status)
	if rating != nil {
		r := int(*rating)
		t.Rating = &r
	}
	return t, nil
}
