package usecase

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/polkiloo/palmwine/internal/config"
	domainErrors "github.com/polkiloo/palmwine/internal/domain/errors"
	pkgAuth "github.com/polkiloo/palmwine/internal/pkg/auth"
)

// AuthUseCase authenticates the single shop administrator.
type AuthUseCase struct {
	username     string
	passwordHash string
	hasher       pkgAuth.PasswordHasher
	tokens       pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase. An empty password hash disables admin login.
func NewAuthUseCase(cfg *config.Config, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{
		username:     cfg.AdminUsername,
		passwordHash: cfg.AdminPasswordHash,
		hasher:       hasher,
		tokens:       strategy,
	}
}

// Login validates admin credentials and returns a session token.
func (u *AuthUseCase) Login(_ context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if u.passwordHash == "" || username == "" || password == "" {
		return "", domainErrors.ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(u.username)) != 1 {
		return "", domainErrors.ErrInvalidCredentials
	}
	if err := u.hasher.Compare(u.passwordHash, password); err != nil {
		return "", domainErrors.ErrInvalidCredentials
	}
	return u.tokens.IssueToken(username)
}

// ParseToken returns the admin subject encoded in token.
func (u *AuthUseCase) ParseToken(token string) (string, error) {
	if token == "" {
		return "", pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}
