package shadermgr

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/fosdem/shadermgr/lib/metrics"
)

// uniformBuffer mirrors a GPU uniform buffer in client memory. Writes
// widen the dirty range [dirtyLo, dirtyHi); Flush uploads only that.
type uniformBuffer struct {
	binding  uint32
	bufferID uint32
	data     []float32

	dirtyLo int
	dirtyHi int
}

func (b *uniformBuffer) markDirty(lo, hi int) {
	if b.dirtyLo >= b.dirtyHi {
		b.dirtyLo, b.dirtyHi = lo, hi
		return
	}
	b.dirtyLo = min(b.dirtyLo, lo)
	b.dirtyHi = max(b.dirtyHi, hi)
}

func (b *uniformBuffer) dirty() bool {
	return b.dirtyLo < b.dirtyHi
}

// UniformBufferInfo describes a bound uniform buffer.
type UniformBufferInfo struct {
	Binding    uint32 `json:"binding"`
	BufferID   uint32 `json:"buffer_id"`
	SizeFloats int    `json:"size_floats"`
	Dirty      bool   `json:"dirty"`
}

// BindUniformBuffer allocates a GPU uniform buffer of sizeFloats floats
// plus its client-side mirror, and binds it to the binding point. The
// whole buffer starts out dirty so the first flush uploads zeroes.
func (m *Manager) BindUniformBuffer(binding uint32, sizeFloats int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	const op = "BindUniformBuffer"
	if sizeFloats <= 0 {
		return m.fail(op, fmt.Errorf("%s: %w: size %d for binding point %d", op, ErrOutOfStorage, sizeFloats, binding))
	}
	if b, ok := m.buffers[binding]; ok {
		return m.fail(op, fmt.Errorf("%s: %w: binding point %d already holds buffer %d", op, ErrInvalidBinding, binding, b.bufferID))
	}

	b := &uniformBuffer{
		binding:  binding,
		bufferID: m.driver.CreateUniformBuffer(sizeFloats * f32),
		data:     make([]float32, sizeFloats),
	}
	b.markDirty(0, sizeFloats)
	m.driver.BindBufferBase(binding, b.bufferID)
	m.buffers[binding] = b
	return nil
}

// UnbindUniformBuffer deletes the buffer at a binding point.
func (m *Manager) UnbindUniformBuffer(binding uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buffers[binding]
	if !ok {
		return m.fail("UnbindUniformBuffer", fmt.Errorf("UnbindUniformBuffer: %w: nothing bound at %d", ErrInvalidBinding, binding))
	}
	m.driver.DeleteBuffer(b.bufferID)
	delete(m.buffers, binding)
	return nil
}

// UniformBufferData returns a copy of the client-side storage.
func (m *Manager) UniformBufferData(binding uint32) ([]float32, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buffers[binding]
	if !ok {
		return nil, false
	}
	return slices.Clone(b.data), true
}

func (m *Manager) UniformBuffers() []UniformBufferInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	var infos []UniformBufferInfo
	for _, binding := range slices.Sorted(maps.Keys(m.buffers)) {
		b := m.buffers[binding]
		infos = append(infos, UniformBufferInfo{
			Binding:    b.binding,
			BufferID:   b.bufferID,
			SizeFloats: len(b.data),
			Dirty:      b.dirty(),
		})
	}
	return infos
}

// Flush uploads the dirty part of the buffer at binding and reports how
// many floats went to the GPU.
func (m *Manager) Flush(binding uint32) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buffers[binding]
	if !ok {
		return 0, m.fail("Flush", fmt.Errorf("Flush: %w: nothing bound at %d", ErrInvalidBinding, binding))
	}
	return m.flush(b), nil
}

func (m *Manager) FlushAll() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, binding := range slices.Sorted(maps.Keys(m.buffers)) {
		total += m.flush(m.buffers[binding])
	}
	return total
}

func (m *Manager) flush(b *uniformBuffer) int {
	if !b.dirty() {
		return 0
	}
	n := b.dirtyHi - b.dirtyLo
	m.driver.UniformBufferSubData(b.bufferID, b.dirtyLo*f32, b.data[b.dirtyLo:b.dirtyHi])
	b.dirtyLo, b.dirtyHi = 0, 0

	metrics.BufferUploads.WithLabelValues(strconv.FormatUint(uint64(b.binding), 10)).Add(float64(n))
	m.Stats.Uploaded(n)
	return n
}
