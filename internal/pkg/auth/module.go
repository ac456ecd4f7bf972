package auth

import (
	"log/slog"

	"go.uber.org/fx"
	"golang.org/x/crypto/bcrypt"

	"github.com/polkiloo/palmwine/internal/config"
)

// Module provides the admin password hasher and token strategy via fx.
var Module = fx.Options(
	fx.Provide(newPasswordHasher),
	fx.Provide(newTokenStrategy),
	fx.Invoke(checkAdminCredentials),
)

func newPasswordHasher() PasswordHasher {
	return NewBcryptHasher(0)
}

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newTokenStrategy(p strategyParams) Strategy {
	return NewHMACStrategy(p.Config.JWTSecret, Options{})
}

type checkParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// checkAdminCredentials warns at startup when admin login cannot succeed.
func checkAdminCredentials(p checkParams) {
	if p.Config.AdminPasswordHash == "" {
		p.Logger.Warn("admin login disabled: ADMIN_PASSWORD_HASH is not set")
		return
	}
	cost, err := ValidateHash(p.Config.AdminPasswordHash)
	if err != nil {
		p.Logger.Error("admin login disabled: ADMIN_PASSWORD_HASH is not a bcrypt hash", slog.Any("error", err))
		return
	}
	if cost < bcrypt.DefaultCost {
		p.Logger.Warn("admin password hash uses a low bcrypt cost", slog.Int("cost", cost))
	}
}
