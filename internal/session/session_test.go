package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueParse(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, "warbler")
	token, claims, err := m.Issue("user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, claims.SessionID)

	got, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, claims.SessionID, got.SessionID)
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, "warbler")
	token, _, err := m.Issue("user-1")
	require.NoError(t, err)

	_, err = NewTokenManager("other", time.Hour, "warbler").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenManager("secret", time.Hour, "someone-else").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenManager("secret", time.Minute, "warbler")
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, _, err := expired.Issue("user-1")
	require.NoError(t, err)
	_, err = m.Parse(old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "u", SessionID: "s"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func newRedis(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewRedisStore(newRedis(t))
	m := NewTokenManager("secret", time.Hour, "")

	_, c1, err := m.Issue("user-1")
	require.NoError(t, err)
	_, c2, err := m.Issue("user-1")
	require.NoError(t, err)

	ok, err := store.Active(ctx, c1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(ctx, c1))
	require.NoError(t, store.Save(ctx, c2))
	ok, err = store.Active(ctx, c1)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Revoke(ctx, c1))
	ok, err = store.Active(ctx, c1)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = store.Active(ctx, c2)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.RevokeUser(ctx, "user-1"))
	ok, err = store.Active(ctx, c2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_MismatchedUser(t *testing.T) {
	ctx := context.Background()
	store := NewRedisStore(newRedis(t))
	_, c, err := NewTokenManager("secret", time.Hour, "").Issue("user-1")
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, c))

	forged := *c
	forged.UserID = "user-2"
	ok, err := store.Active(ctx, &forged)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNopStore(t *testing.T) {
	ok, err := NopStore{}.Active(context.Background(), &Claims{})
	require.NoError(t, err)
	assert.True(t, ok)
}
