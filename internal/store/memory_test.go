package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	data, err := m.Load(ctx, "sitters")
	require.NoError(t, err)
	assert.Nil(t, data, "unsaved collection loads as nil")

	require.NoError(t, m.Save(ctx, "sitters", []byte(`[{"name":"amy"}]`)))

	data, err = m.Load(ctx, "sitters")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"amy"}]`, string(data))

	// Save replaces, never merges.
	require.NoError(t, m.Save(ctx, "sitters", []byte(`[]`)))
	data, err = m.Load(ctx, "sitters")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestMemory_LoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Save(ctx, "bookings", []byte(`[]`)))

	data, err := m.Load(ctx, "bookings")
	require.NoError(t, err)
	data[0] = 'x'

	again, err := m.Load(ctx, "bookings")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(again))
}
