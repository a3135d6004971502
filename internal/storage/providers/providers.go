package providers

import "github.com/jackc/pgx/v5/pgxpool"

type Providers struct {
	AuthProvider    *AuthProvider
	ContentProvider *ContentProvider
	TicketProvider  *TicketProvider
}

func New(db *pgxpool.Pool) *Providers {
	return &Providers{
		AuthProvider:    NewAuthProvider(db),
		ContentProvider: NewContentProvider(db),
		TicketProvider:  NewTicketProvider(db),
	}
}
