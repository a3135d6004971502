package httptransport

import (
	"context"
	"net/http"
	"time"

	"citizenportal/internal/domains"
	"citizenportal/internal/httpx"
	"citizenportal/internal/service"
)

const refreshCookie = "refreshToken"

type AuthHandlers struct {
	responder
	service    AuthServices
	refreshTTL time.Duration
}

type AuthServices interface {
	Login(ctx context.Context, email string, password string) (string, string, error)
	Refresh(ctx context.Context, token string) (string, string, error)
	Me(ctx context.Context, token string) (domains.Admin, error)
}

func NewAuthHandlers(service AuthServices, refreshTTL time.Duration, prod bool) *AuthHandlers {
	return &AuthHandlers{
		responder:  responder{prod: prod},
		service:    service,
		refreshTTL: refreshTTL,
	}
}

func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	loginData, err := httpx.ReadBody[LoginData](w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	accessToken, refreshToken, err := h.service.Login(r.Context(), loginData.Email, loginData.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeTokens(w, accessToken, refreshToken)
}

// Refresh accepts the refresh token from the JSON body or the refreshToken
// cookie set at login.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	req, _, err := httpx.ReadOptionalBody[TokenRefreshRequest](w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	token := req.RefreshToken
	if token == "" {
		if c, err := r.Cookie(refreshCookie); err == nil {
			token = c.Value
		}
	}
	if token == "" {
		h.fail(w, r, domains.Invalid("refresh_token", "refresh token is required", nil))
		return
	}

	accessToken, refreshToken, err := h.service.Refresh(r.Context(), token)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeTokens(w, accessToken, refreshToken)
}

func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	tokenString, ok := httpx.BearerToken(r)
	if !ok {
		h.fail(w, r, service.ErrTokenIncorrect)
		return
	}

	admin, err := h.service.Me(r.Context(), tokenString)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Success(w, http.StatusOK, "admin", admin)
}

func (h *AuthHandlers) writeTokens(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    refreshToken,
		Path:     "/api/auth",
		MaxAge:   int(h.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.prod,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.JSON(w, http.StatusOK, tokensResponse{
		Success:      true,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}
