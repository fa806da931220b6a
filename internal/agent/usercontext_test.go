package agent

import (
	"context"
	"testing"
	"time"

	"shoken-assist/backend/internal/model"
	"shoken-assist/backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContext_APIKey(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()

	uc := NewUserContext("u1", kv, "")
	key, err := uc.APIKey(ctx)
	require.NoError(t, err)
	assert.Empty(t, key)

	withFallback := NewUserContext("u1", kv, "server-key")
	key, err = withFallback.APIKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, "server-key", key)

	require.NoError(t, uc.SaveAPIKey(ctx, "  user-key \n"))
	key, err = withFallback.APIKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-key", key)

	other := NewUserContext("u2", kv, "")
	saved, err := other.HasAPIKey(ctx)
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestUserContext_SaveAPIKey_Empty(t *testing.T) {
	uc := NewUserContext("u1", store.NewMemoryStore(), "")
	err := uc.SaveAPIKey(context.Background(), "   ")
	var empty *model.EmptyInputError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, "APIキーが空です。", err.Error())
	assert.ErrorIs(t, err, model.ErrInsufficientInput)
}

func TestUserContext_StyleProfile(t *testing.T) {
	ctx := context.Background()
	uc := NewUserContext("u1", store.NewMemoryStore(), "")

	p, err := uc.StyleProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)

	stamp := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, uc.SaveStyleProfile(ctx, &model.StyleProfile{
		SentenceStructure: "短文",
		OverallTone:       "丁寧",
		UpdatedAt:         stamp,
	}))

	p, err = uc.StyleProfile(ctx)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "丁寧", p.OverallTone)
	assert.Equal(t, []string{}, p.Dos)
	assert.True(t, stamp.Equal(p.UpdatedAt))

	require.NoError(t, uc.ResetStyleProfile(ctx))
	p, err = uc.StyleProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestUserContext_CorruptProfile(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, "u1:"+PropStyleProfile, "{not json"))

	_, err := NewUserContext("u1", kv, "").StyleProfile(ctx)
	var loadErr *model.ProfileLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestUserContext_Samples(t *testing.T) {
	ctx := context.Background()
	uc := NewUserContext("u1", store.NewMemoryStore(), "")

	samples, err := uc.Samples(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{}, samples)

	kept, err := uc.SaveSamples(ctx, []string{" 一件目 ", "", "\n", "二件目"})
	require.NoError(t, err)
	assert.Equal(t, []string{"一件目", "二件目"}, kept)

	samples, err = uc.Samples(ctx)
	require.NoError(t, err)
	assert.Equal(t, kept, samples)
}
