package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/wanderlog/internal/client/auth"
	"github.com/dmitrijs2005/wanderlog/internal/client/repositories/kv"
	"github.com/dmitrijs2005/wanderlog/internal/common"
	"github.com/dmitrijs2005/wanderlog/internal/logging"
)

// AuthService keeps the session token and turns it into a user id.
//
// Contract:
//   - Login: validate token, persist it, return its user id.
//   - Restore: user id of the persisted token, "" when there is none or it
//     no longer validates (the stale token is removed).
//   - Logout: forget the persisted token.
type AuthService interface {
	Login(ctx context.Context, token string) (string, error)
	Restore(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
}

type authService struct {
	repo   kv.Repository
	secret []byte
	log    logging.Logger
}

// NewAuthService stores the session under common.SessionCacheKey in repo and
// verifies tokens with secret.
func NewAuthService(repo kv.Repository, secret []byte, log logging.Logger) AuthService {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &authService{repo: repo, secret: secret, log: log}
}

// Login rejects invalid tokens without touching the stored session.
func (a *authService) Login(ctx context.Context, token string) (string, error) {
	userID, err := auth.UserIDFromToken(token, a.secret)
	if err != nil {
		return "", err
	}
	if err := a.repo.Set(ctx, common.SessionCacheKey, []byte(token)); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	a.log.Info(ctx, "logged in", "user", userID)
	return userID, nil
}

func (a *authService) Restore(ctx context.Context) (string, error) {
	token, err := a.repo.Get(ctx, common.SessionCacheKey)
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}
	if len(token) == 0 {
		return "", nil
	}

	userID, err := auth.UserIDFromToken(string(token), a.secret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			a.log.Warn(ctx, "stored session expired")
		} else {
			a.log.Warn(ctx, "stored session rejected", "err", err)
		}
		if err := a.repo.Delete(ctx, common.SessionCacheKey); err != nil {
			return "", fmt.Errorf("clear session: %w", err)
		}
		return "", nil
	}
	return userID, nil
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.repo.Delete(ctx, common.SessionCacheKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
