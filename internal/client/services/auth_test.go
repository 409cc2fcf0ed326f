package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/wanderlog/internal/client/auth"
	"github.com/dmitrijs2005/wanderlog/internal/client/repositories/kv"
	"github.com/dmitrijs2005/wanderlog/internal/common"
	"github.com/dmitrijs2005/wanderlog/internal/logging"
)

var testSecret = []byte("test-secret")

func newAuth(t *testing.T) (AuthService, *kv.SQLiteRepository) {
	t.Helper()
	repo := kv.NewSQLiteRepository(openCacheDB(t))
	return NewAuthService(repo, testSecret, logging.NewNopLogger()), repo
}

func TestAuthService_LoginPersistsToken(t *testing.T) {
	ctx := context.Background()
	svc, repo := newAuth(t)

	token, err := auth.GenerateToken("user-42", testSecret, time.Hour)
	require.NoError(t, err)

	userID, err := svc.Login(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)

	stored, err := repo.Get(ctx, common.SessionCacheKey)
	require.NoError(t, err)
	assert.Equal(t, token, string(stored))

	restored, err := svc.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-42", restored)
}

func TestAuthService_LoginRejectsBadToken(t *testing.T) {
	ctx := context.Background()
	svc, repo := newAuth(t)

	token, err := auth.GenerateToken("user-42", []byte("other"), time.Hour)
	require.NoError(t, err)

	_, err = svc.Login(ctx, token)
	require.ErrorIs(t, err, common.ErrInvalidToken)

	stored, err := repo.Get(ctx, common.SessionCacheKey)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestAuthService_RestoreWithoutSession(t *testing.T) {
	svc, _ := newAuth(t)

	userID, err := svc.Restore(context.Background())
	require.NoError(t, err)
	assert.Empty(t, userID)
}

func TestAuthService_RestoreClearsExpiredToken(t *testing.T) {
	ctx := context.Background()
	svc, repo := newAuth(t)

	token, err := auth.GenerateToken("user-42", testSecret, -time.Minute)
	require.NoError(t, err)
	require.NoError(t, repo.Set(ctx, common.SessionCacheKey, []byte(token)))

	userID, err := svc.Restore(ctx)
	require.NoError(t, err)
	assert.Empty(t, userID)

	stored, err := repo.Get(ctx, common.SessionCacheKey)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuth(t)

	token, err := auth.GenerateToken("user-42", testSecret, time.Hour)
	require.NoError(t, err)
	_, err = svc.Login(ctx, token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx))
	userID, err := svc.Restore(ctx)
	require.NoError(t, err)
	assert.Empty(t, userID)
}
