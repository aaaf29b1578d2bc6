package shadermgr

import (
	"fmt"

	"github.com/fosdem/shadermgr/lib/glapi"
	"github.com/go-gl/mathgl/mgl32"
)

// IsUniformInNamedBlock is true iff the shader is registered, has an
// active uniform called name, and that uniform is not in the default
// block. It never records an error.
func (m *Manager) IsUniformInNamedBlock(ref ShaderRef, name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.find(ref)
	if p == nil {
		return false
	}
	u, ok := p.desc.Uniform(name)
	if !ok {
		return false
	}
	return !u.InDefaultBlock
}

// BindBlock points a named block of the shader at a binding point.
func (m *Manager) BindBlock(ref ShaderRef, blockName string, binding uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	const op = "BindBlock"
	p, err := m.lookup(op, ref)
	if err != nil {
		return err
	}
	i, ok := p.desc.Block(blockName)
	if !ok {
		return m.fail(op, fmt.Errorf("%s: %w '%s' in %s", op, ErrUnknownBlock, blockName, p))
	}
	m.bindBlock(p, i, binding)
	return nil
}

func (m *Manager) bindBlock(p *program, i int, binding uint32) {
	block := &p.desc.NamedBlocks[i]
	m.driver.UniformBlockBinding(p.desc.ID, block.Index, binding)
	block.BindingPoint = int32(binding)
	m.log.Debug(fmt.Sprintf("Bound block '%s' of %s to binding point %d", block.Name, p, binding))
}

// blockTarget resolves a named-block uniform to its descriptor and the
// buffer bound at its block's binding point. Callers hold m.mu.
func (m *Manager) blockTarget(op string, ref ShaderRef, name string) (*program, UniformDescription, *uniformBuffer, error) {
	p, err := m.lookup(op, ref)
	if err != nil {
		return nil, UniformDescription{}, nil, err
	}
	u, ok := p.desc.Uniform(name)
	if !ok {
		return nil, u, nil, m.fail(op, fmt.Errorf("%s: %w '%s' in %s", op, ErrUnknownUniform, name, p))
	}
	if u.InDefaultBlock {
		return nil, u, nil, m.fail(op, fmt.Errorf("%s: %w: '%s' in %s is in the default block", op, ErrNotInNamedBlock, name, p))
	}
	block := p.desc.NamedBlocks[u.Block]
	if block.BindingPoint < 0 {
		return nil, u, nil, m.fail(op, fmt.Errorf("%s: %w: block '%s' of %s is not bound", op, ErrInvalidBinding, block.Name, p))
	}
	buf, ok := m.buffers[uint32(block.BindingPoint)]
	if !ok {
		return nil, u, nil, m.fail(op, fmt.Errorf("%s: %w: no uniform buffer at binding point %d for block '%s' of %s",
			op, ErrInvalidBinding, block.BindingPoint, block.Name, p))
	}
	return p, u, buf, nil
}

func (m *Manager) checkType(op string, p *program, u UniformDescription, want glapi.Type) error {
	if u.Type != want {
		return m.fail(op, fmt.Errorf("%s: %w: '%s' in %s is %s, not %s", op, ErrTypeMismatch, u.Name, p, u.Type, want))
	}
	return nil
}

// checkStorage makes sure count elements of components floats each,
// starting at u's offset, fit inside buf.
func (m *Manager) checkStorage(op string, p *program, u UniformDescription, buf *uniformBuffer, count, components int) error {
	last := u.OffsetInFloats + (count-1)*u.StrideInFloats + components
	if u.OffsetInFloats < 0 || last > len(buf.data) {
		return m.fail(op, fmt.Errorf("%s: %w: '%s' in %s needs %d floats, binding point %d holds %d",
			op, ErrOutOfStorage, u.Name, p, last, buf.binding, len(buf.data)))
	}
	return nil
}

func (m *Manager) blockWrote(p *program, buf *uniformBuffer, lo, hi int) {
	buf.markDirty(lo, hi)
	p.metrics.BlockWrites.Inc()
	m.Stats.BlockWrite()
}

// SetUniform1fNamedBlock writes a float member of a named block into the
// client-side storage of the block's buffer.
func (m *Manager) SetUniform1fNamedBlock(ref ShaderRef, name string, v float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	const op = "SetUniform1fNamedBlock"
	p, u, buf, err := m.blockTarget(op, ref, name)
	if err != nil {
		return err
	}
	if err := m.checkType(op, p, u, glapi.Float); err != nil {
		return err
	}
	n := u.Type.Components()
	if err := m.checkStorage(op, p, u, buf, 1, n); err != nil {
		return err
	}

	buf.data[u.OffsetInFloats] = v
	m.blockWrote(p, buf, u.OffsetInFloats, u.OffsetInFloats+n)
	return nil
}

// SetUniform1fNamedBlockArray writes values[i] at
// offset + i*stride. The array's declared size must be strictly greater
// than len(values).
func (m *Manager) SetUniform1fNamedBlockArray(ref ShaderRef, name string, values []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	const op = "SetUniform1fNamedBlockArray"
	p, u, buf, err := m.blockTarget(op, ref, name)
	if err != nil {
		return err
	}
	if err := m.checkType(op, p, u, glapi.Float); err != nil {
		return err
	}
	if !u.IsArray {
		return m.fail(op, fmt.Errorf("%s: %w: '%s' in %s", op, ErrNotAnArray, name, p))
	}
	// TODO: this rejects writing the full array (len(values) == Size);
	// relax to > once callers confirm that is what they want.
	if len(values) >= int(u.Size) {
		return m.fail(op, fmt.Errorf("%s: %w: %d values for '%s[%d]' in %s", op, ErrArrayBounds, len(values), name, u.Size, p))
	}
	if len(values) == 0 {
		return nil
	}
	n := u.Type.Components()
	if err := m.checkStorage(op, p, u, buf, len(values), n); err != nil {
		return err
	}

	offset := u.OffsetInFloats
	for _, v := range values {
		buf.data[offset] = v
		offset += u.StrideInFloats
	}
	m.blockWrote(p, buf, u.OffsetInFloats, u.OffsetInFloats+(len(values)-1)*u.StrideInFloats+n)
	return nil
}

// SetUniformVec4NamedBlock writes a vec4 member of a named block.
func (m *Manager) SetUniformVec4NamedBlock(ref ShaderRef, name string, v mgl32.Vec4) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	const op = "SetUniformVec4NamedBlock"
	p, u, buf, err := m.blockTarget(op, ref, name)
	if err != nil {
		return err
	}
	if err := m.checkType(op, p, u, glapi.FloatVec4); err != nil {
		return err
	}
	n := u.Type.Components()
	if err := m.checkStorage(op, p, u, buf, 1, n); err != nil {
		return err
	}

	copy(buf.data[u.OffsetInFloats:u.OffsetInFloats+n], v[:])
	m.blockWrote(p, buf, u.OffsetInFloats, u.OffsetInFloats+n)
	return nil
}
