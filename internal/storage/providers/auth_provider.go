package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"citizenportal/internal/domains"
	"citizenportal/internal/storage"
)

type AuthProvider struct {
	db *pgxpool.Pool
}

func NewAuthProvider(pg *pgxpool.Pool) *AuthProvider {
	return &AuthProvider{
		db: pg,
	}
}

const adminColumns = `id, full_name, email, passhash, created_at, disabled_at`

func (s *AuthProvider) SaveAdmin(ctx context.Context, passHash string, admin domains.AdminCreate) (domains.Admin, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domains.Admin{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	created, err := scanAdmin(tx.QueryRow(ctx,
		`INSERT INTO admins (full_name, email, passhash, created_at)
         VALUES ($1, $2, $3, NOW())
         RETURNING `+adminColumns, admin.FullName, admin.Email, passHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == storage.UniqueViolation {
			return domains.Admin{}, storage.ErrAdminExists
		}
		return domains.Admin{}, fmt.Errorf("insert admin: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domains.Admin{}, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

func (s *AuthProvider) GetAdminByEmail(ctx context.Context, email string) (domains.Admin, error) {
	admin, err := scanAdmin(s.db.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE lower(email) = lower($1)`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.Admin{}, storage.ErrAdminNotFound
		}
		return domains.Admin{}, fmt.Errorf("get admin by email: %w", err)
	}
	return admin, nil
}

func (s *AuthProvider) GetAdminByID(ctx context.Context, id int64) (domains.Admin, error) {
	admin, err := scanAdmin(s.db.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.Admin{}, storage.ErrAdminNotFound
		}
		return domains.Admin{}, fmt.Errorf("get admin by id: %w", err)
	}
	return admin, nil
}

func (s *AuthProvider) ListAdmins(ctx context.Context) ([]domains.Admin, error) {
	rows, err := s.db.Query(ctx, `SELECT `+adminColumns+` FROM admins ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	admins, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domains.Admin, error) {
		return scanAdmin(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan admins: %w", err)
	}
	return admins, nil
}

func (s *AuthProvider) SetAdminDisabled(ctx context.Context, email string, disabled bool) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE admins
         SET disabled_at = CASE WHEN $2 THEN COALESCE(disabled_at, NOW()) ELSE NULL END
         WHERE lower(email) = lower($1)`, email, disabled)
	if err != nil {
		return fmt.Errorf("disable admin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrAdminNotFound
	}
	return nil
}

func scanAdmin(row pgx.Row) (domains.Admin, error) {
	var a domains.Admin
	err := row.Scan(&a.ID, &a.FullName, &a.Email, &a.PassHash, &a.CreatedAt, &a.DisabledAt)
	return a, err
}
