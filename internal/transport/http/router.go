package httptransport

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"citizenportal/internal/domains"
	"citizenportal/internal/httpx"
	"citizenportal/internal/metrics"
	"citizenportal/internal/service"
	"citizenportal/internal/tokens"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps is everything the router wires into handlers. Metrics may be nil, in
// which case /metrics is not mounted.
type Deps struct {
	Content    *service.ContentService
	Tickets    *service.TicketService
	Auth       *service.AuthService
	Issuer     *tokens.Issuer
	Store      Pinger
	Metrics    *metrics.Metrics
	RefreshTTL time.Duration
	Prod       bool
}

func Router(deps Deps) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.Error(w, http.StatusNotFound, "not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	router.Use(httpx.RequestID, httpx.Instrument(deps.Metrics), httpx.Recover)

	router.HandleFunc("/healthz", health(deps.Store)).Methods(http.MethodGet)
	if deps.Metrics != nil {
		router.Handle("/metrics", deps.Metrics.Handler()).Methods(http.MethodGet)
	}

	api := router.PathPrefix("/api").Subrouter()

	authHandler := NewAuthHandlers(deps.Auth, deps.RefreshTTL, deps.Prod)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh", authHandler.Refresh).Methods(http.MethodPost)
	auth.HandleFunc("/me", authHandler.Me).Methods(http.MethodGet)

	public := api.PathPrefix("/public").Subrouter()
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(httpx.Protected(deps.Issuer), httpx.CurrentAdmin(deps.Auth))

	for _, schema := range domains.Schemas() {
		h := NewContentHandlers(deps.Content, schema, deps.Prod)

		p := admin.PathPrefix("/" + schema.Segment).Subrouter()
		p.HandleFunc("", h.List).Methods(http.MethodGet)
		p.HandleFunc("", h.Create).Methods(http.MethodPost)
		p.HandleFunc("/wizard", h.Flow).Methods(http.MethodGet)
		p.HandleFunc("/{id:[0-9]+}", h.Get).Methods(http.MethodGet)
		p.HandleFunc("/{id:[0-9]+}", h.Update).Methods(http.MethodPatch)
		p.HandleFunc("/{id:[0-9]+}", h.Delete).Methods(http.MethodDelete)
		p.HandleFunc("/{id:[0-9]+}/publish", h.Publish).Methods(http.MethodPatch)
		p.HandleFunc("/{id:[0-9]+}/wizard", h.WizardStep).Methods(http.MethodGet)
		p.HandleFunc("/{id:[0-9]+}/wizard/{step}", h.SaveStep).Methods(http.MethodPut)
		p.HandleFunc("/{id:[0-9]+}/wizard/{step}/rows", h.StepRowOps).Methods(http.MethodPost)

		pub := public.PathPrefix("/" + schema.Segment).Subrouter()
		pub.HandleFunc("", h.PublicList).Methods(http.MethodGet)
		pub.HandleFunc("/{id:[0-9]+}", h.PublicGet).Methods(http.MethodGet)
	}

	for _, schema := range domains.TicketSchemas() {
		h := NewTicketHandlers(deps.Tickets, schema, deps.Prod)

		t := admin.PathPrefix("/" + schema.Segment).Subrouter()
		t.HandleFunc("", h.List).Methods(http.MethodGet)
		t.HandleFunc("", h.Create).Methods(http.MethodPost)
		t.HandleFunc("/{id:[0-9]+}", h.Get).Methods(http.MethodGet)
		t.HandleFunc("/{id:[0-9]+}", h.Update).Methods(http.MethodPatch)
		t.HandleFunc("/{id:[0-9]+}", h.Delete).Methods(http.MethodDelete)
		t.HandleFunc("/{id:[0-9]+}/resolve", h.Resolve).Methods(http.MethodPatch)

		public.HandleFunc("/"+schema.Segment, h.Submit).Methods(http.MethodPost)
	}

	return router
}

func health(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			httpx.Error(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "status": "ok"})
	}
}
