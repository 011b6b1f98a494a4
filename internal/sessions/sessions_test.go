package sessions_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"philcali.me/recipebot/internal/sessions"
)

func RunStore(t *testing.T, store sessions.Store) {
	ctx := context.Background()

	t.Run("UnknownUserStartsAtMain", func(t *testing.T) {
		session, err := store.Get(ctx, "1", 10)
		require.NoError(t, err)
		assert.Equal(t, sessions.StateMain, session.State)
		assert.Equal(t, "1", session.UserId)
		assert.Equal(t, int64(10), session.ChatId)
	})

	t.Run("SaveThenGet", func(t *testing.T) {
		session, err := store.Get(ctx, "2", 20)
		require.NoError(t, err)
		session.Transition(sessions.StateWaitingForSearch)
		require.NoError(t, store.Save(ctx, session))

		loaded, err := store.Get(ctx, "2", 21)
		require.NoError(t, err)
		assert.Equal(t, sessions.StateWaitingForSearch, loaded.State)
		assert.Equal(t, int64(21), loaded.ChatId)
		assert.False(t, loaded.UpdatedAt.IsZero())
	})

	t.Run("UsersAreIsolated", func(t *testing.T) {
		a, _ := store.Get(ctx, "3", 30)
		a.Transition(sessions.StateFavorites)
		require.NoError(t, store.Save(ctx, a))

		b, err := store.Get(ctx, "4", 40)
		require.NoError(t, err)
		assert.Equal(t, sessions.StateMain, b.State)
	})
}

func TestMemoryStore(t *testing.T) {
	store := sessions.NewMemoryStore(time.Minute)
	RunStore(t, store)

	t.Run("Expires", func(t *testing.T) {
		now := time.Now()
		store.Now = func() time.Time { return now }
		session, _ := store.Get(context.Background(), "5", 50)
		session.Transition(sessions.StateSearchResults)
		require.NoError(t, store.Save(context.Background(), session))

		store.Now = func() time.Time { return now.Add(2 * time.Minute) }
		loaded, err := store.Get(context.Background(), "5", 50)
		require.NoError(t, err)
		assert.Equal(t, sessions.StateMain, loaded.State)
	})
}

func TestRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	store, err := sessions.NewRedisStore(context.Background(), mr.Addr(), "", 0, time.Minute, zap.NewNop())
	require.NoError(t, err)
	RunStore(t, store)

	t.Run("Expires", func(t *testing.T) {
		session, _ := store.Get(context.Background(), "6", 60)
		session.Transition(sessions.StateSearchOptions)
		require.NoError(t, store.Save(context.Background(), session))
		assert.True(t, mr.Exists(sessions.KEY_PREFIX+"6"))

		mr.FastForward(2 * time.Minute)
		loaded, err := store.Get(context.Background(), "6", 60)
		require.NoError(t, err)
		assert.Equal(t, sessions.StateMain, loaded.State)
	})

	t.Run("CorruptPayload", func(t *testing.T) {
		require.NoError(t, mr.Set(sessions.KEY_PREFIX+"7", "{not json"))
		loaded, err := store.Get(context.Background(), "7", 70)
		require.NoError(t, err)
		assert.Equal(t, sessions.StateMain, loaded.State)
	})

	t.Run("Unreachable", func(t *testing.T) {
		_, err := sessions.NewRedisStore(context.Background(), "127.0.0.1:1", "", 0, time.Minute, zap.NewNop())
		assert.Error(t, err)
	})
}
