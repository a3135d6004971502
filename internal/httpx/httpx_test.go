package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citizenportal/internal/domains"
	"citizenportal/internal/tokens"
)

type loginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type rowsBody struct {
	Rows []domains.Document `json:"rows" validate:"required,min=1,dive"`
}

func TestReadBodyValidates(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope","password":"short"}`))
	_, err := ReadBody[loginBody](httptest.NewRecorder(), r)

	var verrs domains.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 2)
	assert.Equal(t, "email", verrs[0].Param)
	assert.Equal(t, "must be a valid email address", verrs[0].Msg)
	assert.Equal(t, "nope", verrs[0].Value)
	assert.Equal(t, "password", verrs[1].Param)
	assert.Equal(t, "must be at least 8 characters", verrs[1].Msg)
}

func TestReadBodyNestedParams(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"rows":[{"name":"Aadhaar"},{"name":""}]}`))
	_, err := ReadBody[rowsBody](httptest.NewRecorder(), r)

	var verrs domains.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "rows[1].name", verrs[0].Param)
	assert.Equal(t, "name is required", verrs[0].Msg)
}

func TestReadBodyRejectsMalformedJSON(t *testing.T) {
	for _, body := range []string{"", "{", `{"email": 3}`} {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		_, err := ReadBody[loginBody](httptest.NewRecorder(), r)
		var verrs domains.ValidationErrors
		require.ErrorAs(t, err, &verrs, body)
		assert.Equal(t, "body", verrs[0].Param)
	}
}

func TestReadOptionalBodyToleratesChunkedEmptyBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	r.ContentLength = -1
	_, ok, err := ReadOptionalBody[loginBody](httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.False(t, ok)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.in","password":"longenough"}`))
	r.ContentLength = -1
	got, ok, err := ReadOptionalBody[loginBody](httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a@b.in", got.Email)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	_, _, err = ReadOptionalBody[loginBody](httptest.NewRecorder(), r)
	assert.Error(t, err)
}

func TestEnvelopes(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusCreated, "scheme", map[string]string{"name": "Old Age Pension"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true,"scheme":{"name":"Old Age Pension"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	Invalid(rec, domains.Invalid("name", "name is required", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"errors":[{"msg":"name is required","param":"name"}]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	Internal(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: relation missing"), true)
	assert.JSONEq(t, `{"success":false,"error":"internal server error"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	Internal(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: relation missing"), false)
	assert.JSONEq(t, `{"success":false,"error":"pq: relation missing"}`, rec.Body.String())
}

func TestGetId(t *testing.T) {
	r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "12"})
	id, ok := GetId(httptest.NewRecorder(), r)
	assert.True(t, ok)
	assert.Equal(t, int64(12), id)

	rec := httptest.NewRecorder()
	r = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "abc"})
	_, ok = GetId(rec, r)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProtected(t *testing.T) {
	iss := tokens.NewIssuer("secret", time.Minute, time.Hour)
	access, refresh, err := iss.Issue(9)
	require.NoError(t, err)

	var seen int64
	h := Protected(iss)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = AdminIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, header := range []string{"", "Basic abc", "Bearer ", "Bearer garbage", "Bearer " + refresh} {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}
	assert.Zero(t, seen)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(9), seen)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, "abc-123", seen)
}

type observed struct {
	route  string
	status int
}

type fakeObserver struct{ got []observed }

func (f *fakeObserver) ObserveRequest(route, _ string, status int, _ time.Duration) {
	f.got = append(f.got, observed{route: route, status: status})
}

func TestInstrumentUsesRouteTemplate(t *testing.T) {
	obs := &fakeObserver{}
	router := mux.NewRouter()
	router.Use(Instrument(obs), Recover)
	router.HandleFunc("/api/public/schemes/{id}", func(w http.ResponseWriter, r *http.Request) {
		Error(w, http.StatusNotFound, "not found")
	})
	router.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/public/schemes/42", nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)

	require.Len(t, obs.got, 2)
	assert.Equal(t, observed{route: "/api/public/schemes/{id}", status: http.StatusNotFound}, obs.got[0])
	assert.Equal(t, observed{route: "/boom", status: http.StatusInternalServerError}, obs.got[1])
}
