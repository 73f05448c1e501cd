package timeparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/sitterbot/internal/bookings"
)

var base = time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)

func TestWindow(t *testing.T) {
	w, err := Window("tomorrow 5pm to 10pm", base)
	require.NoError(t, err)

	assert.Equal(t, 2, w.Start.Day())
	assert.Equal(t, time.June, w.Start.Month())
	assert.Equal(t, 17, w.Start.Hour())
	assert.Equal(t, bookings.TimeOfDay{Hour: 22}, w.End)
}

func TestWindow_Minutes(t *testing.T) {
	w, err := Window("tomorrow 5pm to 10:30pm", base)
	require.NoError(t, err)
	assert.Equal(t, bookings.TimeOfDay{Hour: 22, Minute: 30}, w.End)
}

func TestWindow_NoEndTime(t *testing.T) {
	_, err := Window("tomorrow 5pm", base)
	assert.ErrorIs(t, err, ErrNoEndTime)
}

func TestWindow_Gibberish(t *testing.T) {
	_, err := Window("xyzzy to plugh", base)
	assert.Error(t, err)
}
