package store

import (
	"context"
	"testing"
	"time"

	"tillpoint/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_LoadFailSoftOnCorruptKey(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, fs.Put(ctx, KeyProducts, []byte(`[{"id":"p1","name":"Coffee","price":"4.5","stock":3,"active":true}]`)))
	require.NoError(t, fs.Put(ctx, KeySales, []byte(`{{{not json`)))

	state := NewState(fs)
	state.Load(ctx)

	state.View(func(d *Data) {
		require.Len(t, d.Products, 1, "valid key loads")
		assert.Empty(t, d.Sales, "corrupt key falls back to default")
		assert.Equal(t, model.DefaultSettings(), d.Settings, "missing key keeps default")
	})
}

func TestState_FlushOnlyDirtyKeys(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	state := NewState(fs)
	state.Update(func(d *Data) []string {
		d.DarkMode = true
		return []string{KeyDarkMode}
	})
	require.NoError(t, state.Flush(ctx))

	got, err := fs.Get(ctx, KeyDarkMode)
	require.NoError(t, err)
	assert.Equal(t, "true", string(got))

	_, err = fs.Get(ctx, KeyProducts)
	assert.ErrorIs(t, err, ErrNotFound, "clean keys are not written")
}

func TestState_FlushAllWritesEveryKey(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	state := NewState(fs)
	require.NoError(t, state.FlushAll(ctx))

	for _, key := range AllKeys {
		_, err := fs.Get(ctx, key)
		assert.NoError(t, err, "key %s", key)
	}
}

func TestState_RoundTripThroughBackend(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	first := NewState(fs)
	first.Update(func(d *Data) []string {
		d.Products = append(d.Products, model.Product{
			ID: "p1", Name: "Coffee", Price: decimal.RequireFromString("4.50"),
			Stock: 3, Active: true,
		})
		d.DarkMode = true
		return []string{KeyProducts, KeyDarkMode}
	})
	require.NoError(t, first.Flush(ctx))

	second := NewState(fs)
	second.Load(ctx)
	second.View(func(d *Data) {
		require.Len(t, d.Products, 1)
		assert.Equal(t, "Coffee", d.Products[0].Name)
		assert.True(t, d.Products[0].Price.Equal(decimal.RequireFromString("4.50")))
		assert.True(t, d.DarkMode)
	})
}

func TestState_CartIsNeverPersisted(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	state := NewState(fs)
	state.Update(func(d *Data) []string {
		d.Cart.Lines = append(d.Cart.Lines, model.CartLine{ProductID: "p1", Quantity: 2})
		return nil
	})
	require.NoError(t, state.FlushAll(ctx))

	second := NewState(fs)
	second.Load(ctx)
	second.View(func(d *Data) {
		assert.Empty(t, d.Cart.Lines, "cart is transient")
	})
}

func TestState_ExpireStaleSession(t *testing.T) {
	state := NewState(nil)
	state.Update(func(d *Data) []string {
		d.CurrentUser = "u1"
		d.LoginTime = time.Now().Add(-9 * time.Hour)
		return nil
	})

	state.ExpireStaleSession(8 * time.Hour)
	state.View(func(d *Data) {
		assert.Empty(t, d.CurrentUser)
		assert.True(t, d.LoginTime.IsZero())
	})
}

func TestState_FreshSessionSurvivesExpiry(t *testing.T) {
	state := NewState(nil)
	state.Update(func(d *Data) []string {
		d.CurrentUser = "u1"
		d.LoginTime = time.Now().Add(-1 * time.Hour)
		return nil
	})

	state.ExpireStaleSession(8 * time.Hour)
	state.View(func(d *Data) {
		assert.Equal(t, "u1", d.CurrentUser)
	})
}

func TestState_NilBackendFlushIsNoop(t *testing.T) {
	state := NewState(nil)
	state.Update(func(d *Data) []string {
		d.DarkMode = true
		return []string{KeyDarkMode}
	})
	assert.NoError(t, state.Flush(context.Background()))
	assert.NoError(t, state.FlushAll(context.Background()))
}

func TestState_SnapshotCoversAllKeys(t *testing.T) {
	state := NewState(nil)
	snap, err := state.Snapshot()
	require.NoError(t, err)
	assert.Len(t, snap, len(AllKeys))
	for _, key := range AllKeys {
		assert.Contains(t, snap, key)
	}
}
