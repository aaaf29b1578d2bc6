package shadermgr

import (
	"testing"

	"github.com/fosdem/shadermgr/lib/glapi/glapitest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lightsFloats = 64

func newBoundManager(t *testing.T) (*Manager, *glapitest.Driver) {
	t.Helper()
	m, drv := newTestManager(t)
	require.NoError(t, m.BindUniformBuffer(0, lightsFloats))
	require.Equal(t, lightsFloats, m.FlushAll())
	drv.Reset()
	return m, drv
}

func bufferData(t *testing.T, m *Manager, binding uint32) []float32 {
	t.Helper()
	data, ok := m.UniformBufferData(binding)
	require.True(t, ok)
	return data
}

func TestIsUniformInNamedBlock(t *testing.T) {
	m, _ := newTestManager(t)

	cases := []struct {
		ref  ShaderRef
		name string
		want bool
	}{
		{Named("basic"), "exposure", true},
		{ID(basicID), "intensity", true},
		{Named("basic"), "intensity[0]", true},
		{Named("basic"), "ambient", true},
		{Named("basic"), "time", false},
		{Named("basic"), "weights", false},
		{Named("basic"), "nope", false},
		{Named("nope"), "exposure", false},
		{ID(42), "exposure", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, m.IsUniformInNamedBlock(c.ref, c.name), "%s %s", c.ref, c.name)
	}
	assert.Empty(t, m.LastError())
}

func TestNamedBlockWriteNeedsBuffer(t *testing.T) {
	m, drv := newTestManager(t)

	err := m.SetUniform1fNamedBlock(Named("basic"), "exposure", 1)
	assert.ErrorIs(t, err, ErrInvalidBinding)
	assert.Contains(t, err.Error(), "binding point 0")
	assert.Empty(t, drv.Calls)
}

func TestSetUniform1fNamedBlock(t *testing.T) {
	m, drv := newBoundManager(t)

	require.NoError(t, m.SetUniform1fNamedBlock(Named("basic"), "exposure", 2.5))

	want := make([]float32, lightsFloats)
	want[37] = 2.5
	assert.Equal(t, want, bufferData(t, m, 0))
	assert.Empty(t, drv.Calls, "block writes stay client side until flushed")

	n, err := m.Flush(0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, drv.Calls, 1)
	assert.Equal(t, glapitest.Call{Op: "UniformBufferSubData", Program: 1, Size: 37 * 4, Floats: []float32{2.5}}, drv.Calls[0])
	assert.Equal(t, float32(2.5), drv.Buffers[1][37])

	n, err = m.Flush(0)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNamedBlockWriteFailures(t *testing.T) {
	m, _ := newBoundManager(t)
	basic := Named("basic")
	before := bufferData(t, m, 0)

	assert.ErrorIs(t, m.SetUniform1fNamedBlock(basic, "nope", 1), ErrUnknownUniform)
	assert.ErrorIs(t, m.SetUniform1fNamedBlock(basic, "time", 1), ErrNotInNamedBlock)
	assert.ErrorIs(t, m.SetUniform1fNamedBlock(basic, "count", 1), ErrTypeMismatch)
	assert.Contains(t, m.LastError(), "is int, not float")
	assert.ErrorIs(t, m.SetUniform1fNamedBlock(basic, "ambient", 1), ErrTypeMismatch)
	assert.ErrorIs(t, m.SetUniform1fNamedBlockArray(basic, "count", []float32{1}), ErrTypeMismatch)
	assert.ErrorIs(t, m.SetUniform1fNamedBlockArray(basic, "exposure", []float32{1}), ErrNotAnArray)
	assert.ErrorIs(t, m.SetUniformVec4NamedBlock(basic, "exposure", mgl32.Vec4{}), ErrTypeMismatch)

	assert.Equal(t, before, bufferData(t, m, 0))
	assert.Zero(t, m.FlushAll())
}

func TestNamedBlockWriteUnassignedBinding(t *testing.T) {
	m, drv := newBoundManager(t)
	layout := basicLayout()
	layout.Blocks[0].Binding = -1
	drv.SetLayout(basicID+1, layout)
	require.NoError(t, m.Register("unbound", basicID+1))
	unbound := Named("unbound")

	err := m.SetUniform1fNamedBlock(unbound, "exposure", 1)
	assert.ErrorIs(t, err, ErrInvalidBinding)
	assert.Contains(t, m.LastError(), "block 'Lights' of shader 'unbound'")
	assert.Contains(t, m.LastError(), "is not bound")
	assert.ErrorIs(t, m.SetUniform1fNamedBlockArray(unbound, "intensity", []float32{1}), ErrInvalidBinding)
	assert.ErrorIs(t, m.SetUniformVec4NamedBlock(unbound, "ambient", mgl32.Vec4{1, 1, 1, 1}), ErrInvalidBinding)
	assert.Equal(t, make([]float32, lightsFloats), bufferData(t, m, 0))
	assert.Zero(t, m.FlushAll())

	require.NoError(t, m.BindBlock(unbound, "Lights", 0))
	require.NoError(t, m.SetUniform1fNamedBlock(unbound, "exposure", 1))
	assert.Equal(t, float32(1), bufferData(t, m, 0)[37])
}

func TestNamedBlockArrayBounds(t *testing.T) {
	m, _ := newBoundManager(t)
	basic := Named("basic")

	for _, count := range []int{8, 9, 20} {
		err := m.SetUniform1fNamedBlockArray(basic, "intensity", make([]float32, count))
		assert.ErrorIs(t, err, ErrArrayBounds, "count %d", count)
	}
	assert.Equal(t, make([]float32, lightsFloats), bufferData(t, m, 0))

	require.NoError(t, m.SetUniform1fNamedBlockArray(basic, "intensity", make([]float32, 7)))
	require.NoError(t, m.SetUniform1fNamedBlockArray(basic, "intensity", nil))
}

func TestNamedBlockArrayStridedWrite(t *testing.T) {
	m, drv := newBoundManager(t)

	require.NoError(t, m.SetUniform1fNamedBlockArray(ID(basicID), "intensity", []float32{1, 2, 3}))

	want := make([]float32, lightsFloats)
	want[4] = 1
	want[8] = 2
	want[12] = 3
	assert.Equal(t, want, bufferData(t, m, 0))

	n, err := m.Flush(0)
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	require.Len(t, drv.Calls, 1)
	assert.Equal(t, 4*4, drv.Calls[0].Size)
	assert.Equal(t, []float32{1, 0, 0, 0, 2, 0, 0, 0, 3}, drv.Calls[0].Floats)
}

func TestSetUniformVec4NamedBlock(t *testing.T) {
	m, _ := newBoundManager(t)

	require.NoError(t, m.SetUniformVec4NamedBlock(Named("basic"), "ambient", mgl32.Vec4{0.1, 0.2, 0.3, 1}))
	data := bufferData(t, m, 0)
	assert.Equal(t, []float32{0.1, 0.2, 0.3, 1}, data[0:4])
	assert.Zero(t, data[4])
}

func TestNamedBlockWriteOutsideStorage(t *testing.T) {
	m, drv := newTestManager(t)
	require.NoError(t, m.BindUniformBuffer(0, 16))
	drv.Reset()

	assert.ErrorIs(t, m.SetUniform1fNamedBlock(Named("basic"), "exposure", 1), ErrOutOfStorage)
	assert.ErrorIs(t, m.SetUniform1fNamedBlockArray(Named("basic"), "intensity", []float32{1, 2, 3, 4}), ErrOutOfStorage)
	require.NoError(t, m.SetUniformVec4NamedBlock(Named("basic"), "ambient", mgl32.Vec4{1, 1, 1, 1}))
	assert.Equal(t, make([]float32, 12), bufferData(t, m, 0)[4:])
}

func TestBindBlock(t *testing.T) {
	m, drv := newBoundManager(t)
	require.NoError(t, m.BindUniformBuffer(1, lightsFloats))
	drv.Reset()

	assert.ErrorIs(t, m.BindBlock(Named("basic"), "Nope", 1), ErrUnknownBlock)
	require.NoError(t, m.BindBlock(Named("basic"), "Lights", 1))
	require.Len(t, drv.Calls, 1)
	assert.Equal(t, glapitest.Call{Op: "UniformBlockBinding", Program: basicID, Location: 0, Count: 1}, drv.Calls[0])

	desc, err := m.Describe(Named("basic"))
	require.NoError(t, err)
	assert.Equal(t, int32(1), desc.NamedBlocks[0].BindingPoint)

	require.NoError(t, m.SetUniform1fNamedBlock(Named("basic"), "exposure", 4))
	assert.Equal(t, float32(4), bufferData(t, m, 1)[37])
	assert.Zero(t, bufferData(t, m, 0)[37])
}

func TestBindUniformBuffer(t *testing.T) {
	m, drv := newTestManager(t)

	require.NoError(t, m.BindUniformBuffer(2, 8))
	assert.Equal(t, []string{"CreateUniformBuffer", "BindBufferBase"}, drv.Ops())
	assert.Equal(t, 8*4, drv.Calls[0].Size)

	assert.ErrorIs(t, m.BindUniformBuffer(2, 8), ErrInvalidBinding)
	assert.ErrorIs(t, m.BindUniformBuffer(3, 0), ErrOutOfStorage)
	assert.Equal(t, []UniformBufferInfo{{Binding: 2, BufferID: 1, SizeFloats: 8, Dirty: true}}, m.UniformBuffers())

	_, err := m.Flush(5)
	assert.ErrorIs(t, err, ErrInvalidBinding)

	require.NoError(t, m.UnbindUniformBuffer(2))
	assert.ErrorIs(t, m.UnbindUniformBuffer(2), ErrInvalidBinding)
	_, ok := m.UniformBufferData(2)
	assert.False(t, ok)
}

func TestCloseDeletesBuffers(t *testing.T) {
	m, drv := newBoundManager(t)
	require.NoError(t, m.BindUniformBuffer(3, 4))
	drv.Reset()

	m.Close()
	assert.Equal(t, []string{"DeleteBuffer", "DeleteBuffer"}, drv.Ops())
	assert.Empty(t, m.Shaders())
	assert.Empty(t, m.UniformBuffers())
	assert.ErrorIs(t, m.SetUniform1f(Named("basic"), "time", 1), ErrUnknownShader)
}
