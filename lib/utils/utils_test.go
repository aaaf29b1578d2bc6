package utils

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColourParse(t *testing.T) {
	c, err := ColourParse("#FF0080ff")
	require.NoError(t, err)
	assert.InDelta(t, 1, c[0], 1e-6)
	assert.InDelta(t, 0, c[1], 1e-6)
	assert.InDelta(t, 128.0/255, c[2], 1e-6)
	assert.InDelta(t, 1, c[3], 1e-6)

	for _, bad := range []string{"", "#fff", "FF0080FF", "#FF0080FF00", "#GG0080FF"} {
		assert.False(t, ColourValidate(bad), bad)
		_, err := ColourParse(bad)
		assert.Error(t, err, bad)
	}
	c, err = ColourParse("#00000000")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec4{}, c)
}

func TestDeltaTimer(t *testing.T) {
	base := time.Date(2024, 2, 3, 9, 0, 0, 0, time.UTC)
	ticks := []time.Time{base, base.Add(16 * time.Millisecond), base.Add(50 * time.Millisecond)}
	d := &DeltaTimer{now: func() time.Time {
		now := ticks[0]
		ticks = ticks[1:]
		return now
	}}

	assert.Zero(t, d.Seconds())
	assert.Zero(t, d.Next())
	assert.Equal(t, 16*time.Millisecond, d.Next())
	assert.Equal(t, 34*time.Millisecond, d.Next())
	assert.InDelta(t, 0.05, d.Seconds(), 1e-6)
}
