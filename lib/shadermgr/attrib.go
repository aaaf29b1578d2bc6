package shadermgr

import "fmt"

// Generic vertex attributes, used when an attribute array is disabled
// and the shader should see a constant value.

func (m *Manager) setAttrib(op string, ref ShaderRef, name string, values ...float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.lookup(op, ref)
	if err != nil {
		return err
	}
	loc, ok := p.attribLocations[name]
	if !ok {
		loc = m.driver.AttribLocation(p.desc.ID, name)
		p.attribLocations[name] = loc
	}
	if loc < 0 {
		return m.fail(op, fmt.Errorf("%s: %w '%s' in %s", op, ErrUnknownAttribute, name, p))
	}
	m.driver.VertexAttribFloats(uint32(loc), values)
	m.wrote(p)
	return nil
}

func (m *Manager) SetVertexAttrib1f(ref ShaderRef, name string, x float32) error {
	return m.setAttrib("SetVertexAttrib1f", ref, name, x)
}

func (m *Manager) SetVertexAttrib2f(ref ShaderRef, name string, x, y float32) error {
	return m.setAttrib("SetVertexAttrib2f", ref, name, x, y)
}

func (m *Manager) SetVertexAttrib3f(ref ShaderRef, name string, x, y, z float32) error {
	return m.setAttrib("SetVertexAttrib3f", ref, name, x, y, z)
}

func (m *Manager) SetVertexAttrib4f(ref ShaderRef, name string, x, y, z, w float32) error {
	return m.setAttrib("SetVertexAttrib4f", ref, name, x, y, z, w)
}
