package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"citizenportal/internal/domains"
	"citizenportal/internal/storage"
	"citizenportal/internal/tokens"
)

type AuthService struct {
	provider AuthProvider
	issuer   *tokens.Issuer
}

type AuthProvider interface {
	SaveAdmin(ctx context.Context, passHash string, admin domains.AdminCreate) (domains.Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (domains.Admin, error)
	GetAdminByID(ctx context.Context, id int64) (domains.Admin, error)
}

func NewAuthService(provider AuthProvider, issuer *tokens.Issuer) *AuthService {
	return &AuthService{
		provider: provider,
		issuer:   issuer,
	}
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (string, string, error) {
	admin, err := s.provider.GetAdminByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, storage.ErrAdminNotFound) {
			return "", "", ErrPasswordIncorrect
		}
		slog.Error("fetch admin failed", "err", err)
		return "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PassHash), []byte(password)); err != nil {
		return "", "", ErrPasswordIncorrect
	}
	if !admin.Active() {
		return "", "", ErrAdminDisabled
	}

	accessToken, refreshToken, err := s.issuer.Issue(admin.ID)
	if err != nil {
		slog.Error("auth: failed to generate tokens", "err", err)
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// CreateAdmin hashes the password and stores a new admin account.
func (s *AuthService) CreateAdmin(ctx context.Context, admin domains.AdminCreate) (domains.Admin, error) {
	passHash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("hash password failed", "err", err)
		return domains.Admin{}, err
	}

	admin.Email = strings.TrimSpace(admin.Email)
	created, err := s.provider.SaveAdmin(ctx, string(passHash), admin)
	if err != nil {
		if !errors.Is(err, storage.ErrAdminExists) {
			slog.Error("save admin failed", "err", err)
		}
		return domains.Admin{}, err
	}
	return created, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	id, err := s.issuer.Parse(refreshToken, tokens.TypeRefresh)
	if err != nil {
		return "", "", ErrTokenIncorrect
	}

	admin, err := s.activeAdmin(ctx, id)
	if err != nil {
		return "", "", err
	}
	return s.issuer.Issue(admin.ID)
}

func (s *AuthService) Me(ctx context.Context, accessToken string) (domains.Admin, error) {
	id, err := s.issuer.Parse(accessToken, tokens.TypeAccess)
	if err != nil {
		return domains.Admin{}, ErrTokenIncorrect
	}
	return s.activeAdmin(ctx, id)
}

// Authenticate resolves the admin behind an already verified token subject.
func (s *AuthService) Authenticate(ctx context.Context, adminID int64) (domains.Admin, error) {
	return s.activeAdmin(ctx, adminID)
}

func (s *AuthService) activeAdmin(ctx context.Context, id int64) (domains.Admin, error) {
	admin, err := s.provider.GetAdminByID(ctx, id)
	if err != nil {
		return domains.Admin{}, err
	}
	if !admin.Active() {
		return domains.Admin{}, ErrAdminDisabled
	}
	return admin, nil
}
