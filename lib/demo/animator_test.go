package demo

import (
	"io"
	"log/slog"
	"testing"

	"github.com/fosdem/shadermgr/lib/glapi"
	"github.com/fosdem/shadermgr/lib/glapi/glapitest"
	"github.com/fosdem/shadermgr/lib/shadermgr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lightsLayout() glapi.ProgramLayout {
	none := glapi.InvalidIndex
	return glapi.ProgramLayout{
		Uniforms: []glapi.ActiveUniform{
			{Name: "time", Type: glapi.Float, Size: 1, Location: 0, BlockIndex: none, Offset: -1, ArrayStride: -1},
			{Name: "resolution", Type: glapi.FloatVec2, Size: 1, Location: 1, BlockIndex: none, Offset: -1, ArrayStride: -1},
			{Name: "ambient", Type: glapi.FloatVec4, Size: 1, Location: -1, BlockIndex: 0, Offset: 0},
			{Name: "intensity[0]", Type: glapi.Float, Size: 8, Location: -1, BlockIndex: 0, Offset: 16, ArrayStride: 16},
			{Name: "exposure", Type: glapi.Float, Size: 1, Location: -1, BlockIndex: 0, Offset: 144},
		},
		Attributes: []glapi.ActiveAttrib{
			{Name: "tint", Type: glapi.FloatVec4, Size: 1, Location: 0},
		},
		Blocks: []glapi.ActiveBlock{
			{Name: "Lights", Index: 0, DataSize: 148, Binding: 0},
		},
	}
}

func newAnimator(t *testing.T) (*Animator, *shadermgr.Manager, *glapitest.Driver) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	drv := glapitest.New()
	drv.SetLayout(1, lightsLayout())
	drv.SetLayout(2, glapi.ProgramLayout{})
	m := shadermgr.New(drv, shadermgr.WithLogger(logger))
	require.NoError(t, m.BindUniformBuffer(0, 64))
	require.NoError(t, m.Register("lights", 1))
	require.NoError(t, m.Register("empty", 2))
	drv.Reset()
	return New(m, logger), m, drv
}

func TestFrameWritesEverythingDeclared(t *testing.T) {
	a, m, drv := newAnimator(t)

	require.NoError(t, a.Frame("lights", 2, 640, 480))
	assert.Equal(t, []string{"UniformFloats", "UniformFloats", "VertexAttrib"}, drv.Ops())
	assert.Equal(t, []float32{2}, drv.Calls[0].Floats)
	assert.Equal(t, []float32{640, 480}, drv.Calls[1].Floats)
	assert.Equal(t, Tint[:], drv.Calls[2].Floats)

	data, ok := m.UniformBufferData(0)
	require.True(t, ok)
	assert.Equal(t, Ambient[:], data[0:4])
	want := Intensities(2, 7)
	for i, v := range want {
		assert.Equal(t, v, data[4+i*4], "light %d", i)
	}
	assert.Zero(t, data[4+7*4], "last light is left alone")
	assert.Equal(t, float32(Exposure), data[36])
	assert.Empty(t, m.LastError())
}

func TestFrameSkipsUndeclared(t *testing.T) {
	a, m, drv := newAnimator(t)

	require.NoError(t, a.Frame("empty", 1, 10, 10))
	assert.Empty(t, drv.Calls)
	assert.Empty(t, m.LastError())

	assert.ErrorIs(t, a.Frame("gone", 1, 10, 10), shadermgr.ErrUnknownShader)
}

func TestPlanFollowsReregistration(t *testing.T) {
	a, m, drv := newAnimator(t)
	require.NoError(t, a.Frame("empty", 1, 10, 10))

	require.NoError(t, m.Unregister(shadermgr.Named("empty")))
	drv.SetLayout(3, lightsLayout())
	require.NoError(t, m.Register("empty", 3))
	drv.Reset()

	require.NoError(t, a.Frame("empty", 1, 10, 10))
	assert.Contains(t, drv.Ops(), "UniformFloats")
}

func TestIntensities(t *testing.T) {
	values := Intensities(3.5, 5)
	require.Len(t, values, 5)
	for _, v := range values {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}
	assert.NotEqual(t, values[0], values[1])
	assert.Empty(t, Intensities(0, 0))
}
