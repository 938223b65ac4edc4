package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mansoorceksport/mealturn/internal/domain"
	"github.com/mansoorceksport/mealturn/internal/guard"
	"github.com/mansoorceksport/mealturn/internal/ordering"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func setupStore(t *testing.T) (*Store, *miniredis.Miniredis, *time.Time) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	now := baseTime
	store := NewStore(client, 24*time.Hour, 5*time.Minute)
	store.now = func() time.Time { return now }
	return store, mr, &now
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := tokenClaims{
		UserID: "u1",
		Role:   domain.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func TestEmptySessionIsNotStored(t *testing.T) {
	store, mr, _ := setupStore(t)
	ctx := context.Background()

	sess := store.New()
	require.NoError(t, store.Save(ctx, sess))
	assert.False(t, mr.Exists(keyPrefix+sess.ID))

	sess.Error("❌ Đăng nhập thất bại", "Sai mật khẩu")
	require.NoError(t, store.Save(ctx, sess))
	assert.True(t, mr.Exists(keyPrefix+sess.ID))

	loaded, err := store.Load(ctx, sess.ID)
	require.NoError(t, err)
	flashes := loaded.PopFlashes()
	require.Len(t, flashes, 1)
	assert.Equal(t, FlashError, flashes[0].Kind)
	assert.Empty(t, loaded.Flashes)

	require.NoError(t, store.Save(ctx, loaded))
	assert.False(t, mr.Exists(keyPrefix+sess.ID), "consumed flashes leave nothing to keep")
}

func TestSaveAndLoadSignedIn(t *testing.T) {
	store, mr, _ := setupStore(t)
	ctx := context.Background()

	sess := store.New()
	sess.SignIn("opaque-token", domain.User{ID: "u1", Name: "An", Role: domain.RoleUser}, baseTime, store.Expiry("opaque-token"))
	sess.Selection().Toggle("item-1")
	require.NoError(t, store.Save(ctx, sess))

	assert.Equal(t, 24*time.Hour, mr.TTL(keyPrefix+sess.ID))

	loaded, err := store.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, loaded.IsAuthenticated)
	assert.False(t, loaded.IsLoading)
	assert.Equal(t, "u1", loaded.UserID())
	assert.Equal(t, "opaque-token", loaded.Token)
	require.NotNil(t, loaded.Draft)
	assert.True(t, loaded.Draft.Has("item-1"))
}

func TestExpiryCappedByTokenExp(t *testing.T) {
	store, _, _ := setupStore(t)

	soon := baseTime.Add(2 * time.Hour)
	assert.Equal(t, soon.Unix(), store.Expiry(signedToken(t, soon)).Unix())

	late := baseTime.Add(30 * 24 * time.Hour)
	assert.Equal(t, baseTime.Add(24*time.Hour), store.Expiry(signedToken(t, late)))

	assert.Equal(t, baseTime.Add(24*time.Hour), store.Expiry("not-a-jwt"))
}

func TestLoadMarksStaleSessionLoading(t *testing.T) {
	store, _, now := setupStore(t)
	ctx := context.Background()

	sess := store.New()
	sess.SignIn("tok", domain.User{ID: "u1"}, baseTime, store.Expiry("tok"))
	require.NoError(t, store.Save(ctx, sess))

	*now = baseTime.Add(4 * time.Minute)
	loaded, err := store.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.False(t, loaded.IsLoading)

	*now = baseTime.Add(5 * time.Minute)
	loaded, err = store.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, loaded.IsLoading)
	assert.Equal(t, guard.State{IsAuthenticated: true, IsLoading: true}, loaded.State())
}

func TestLoadUnknownAndExpired(t *testing.T) {
	store, _, now := setupStore(t)
	ctx := context.Background()

	_, err := store.Load(ctx, "")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Load(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	sess := store.New()
	sess.Draft = ordering.NewSelection()
	require.NoError(t, store.Save(ctx, sess))

	*now = sess.ExpiresAt
	_, err = store.Load(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
