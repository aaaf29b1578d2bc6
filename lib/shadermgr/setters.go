package shadermgr

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// uniformLocation validates the shader before asking the driver
// anything, so unknown shaders never cause a native call.
func (m *Manager) uniformLocation(op string, ref ShaderRef, name string) (*program, int32, error) {
	p, err := m.lookup(op, ref)
	if err != nil {
		return nil, -1, err
	}

	loc, ok := p.locations[name]
	if !ok {
		loc = m.driver.UniformLocation(p.desc.ID, name)
		p.locations[name] = loc
	}
	if loc < 0 {
		if u, ok := p.desc.Uniform(name); ok && !u.InDefaultBlock {
			block := p.desc.NamedBlocks[u.Block].Name
			return nil, -1, m.fail(op, fmt.Errorf("%s: %w: '%s' in %s is a member of block '%s'", op, ErrInNamedBlock, name, p, block))
		}
		return nil, -1, m.fail(op, fmt.Errorf("%s: %w '%s' in %s", op, ErrUnknownUniform, name, p))
	}
	return p, loc, nil
}

func (m *Manager) wrote(p *program) {
	p.metrics.UniformWrites.Inc()
	m.Stats.UniformWrite()
}

func (m *Manager) setFloats(op string, ref ShaderRef, name string, components int, values []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, loc, err := m.uniformLocation(op, ref, name)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return m.fail(op, fmt.Errorf("%s: %w for '%s' in %s", op, ErrNoValues, name, p))
	}
	m.driver.UniformFloats(loc, components, int32(len(values)/components), values)
	m.wrote(p)
	return nil
}

func (m *Manager) setInts(op string, ref ShaderRef, name string, components int, values []int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, loc, err := m.uniformLocation(op, ref, name)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return m.fail(op, fmt.Errorf("%s: %w for '%s' in %s", op, ErrNoValues, name, p))
	}
	m.driver.UniformInts(loc, components, int32(len(values)/components), values)
	m.wrote(p)
	return nil
}

func (m *Manager) setUints(op string, ref ShaderRef, name string, components int, values []uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, loc, err := m.uniformLocation(op, ref, name)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return m.fail(op, fmt.Errorf("%s: %w for '%s' in %s", op, ErrNoValues, name, p))
	}
	m.driver.UniformUints(loc, components, int32(len(values)/components), values)
	m.wrote(p)
	return nil
}

func (m *Manager) setMatrices(op string, ref ShaderRef, name string, dim int, transpose bool, count int, values []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, loc, err := m.uniformLocation(op, ref, name)
	if err != nil {
		return err
	}
	if count == 0 {
		return m.fail(op, fmt.Errorf("%s: %w for '%s' in %s", op, ErrNoValues, name, p))
	}
	m.driver.UniformMatrix(loc, dim, int32(count), transpose, values)
	m.wrote(p)
	return nil
}

// glUniform1f...

func (m *Manager) SetUniform1f(ref ShaderRef, name string, v float32) error {
	return m.setFloats("SetUniform1f", ref, name, 1, []float32{v})
}

func (m *Manager) SetUniform1i(ref ShaderRef, name string, v int32) error {
	return m.setInts("SetUniform1i", ref, name, 1, []int32{v})
}

func (m *Manager) SetUniform1ui(ref ShaderRef, name string, v uint32) error {
	return m.setUints("SetUniform1ui", ref, name, 1, []uint32{v})
}

// glUniform2f...

func (m *Manager) SetUniform2f(ref ShaderRef, name string, v1, v2 float32) error {
	return m.setFloats("SetUniform2f", ref, name, 2, []float32{v1, v2})
}

func (m *Manager) SetUniformVec2(ref ShaderRef, name string, v mgl32.Vec2) error {
	return m.setFloats("SetUniformVec2", ref, name, 2, v[:])
}

func (m *Manager) SetUniform2i(ref ShaderRef, name string, v1, v2 int32) error {
	return m.setInts("SetUniform2i", ref, name, 2, []int32{v1, v2})
}

func (m *Manager) SetUniformIVec2(ref ShaderRef, name string, v [2]int32) error {
	return m.setInts("SetUniformIVec2", ref, name, 2, v[:])
}

func (m *Manager) SetUniform2ui(ref ShaderRef, name string, v1, v2 uint32) error {
	return m.setUints("SetUniform2ui", ref, name, 2, []uint32{v1, v2})
}

func (m *Manager) SetUniformUVec2(ref ShaderRef, name string, v [2]uint32) error {
	return m.setUints("SetUniformUVec2", ref, name, 2, v[:])
}

// glUniform3f...

func (m *Manager) SetUniform3f(ref ShaderRef, name string, v1, v2, v3 float32) error {
	return m.setFloats("SetUniform3f", ref, name, 3, []float32{v1, v2, v3})
}

func (m *Manager) SetUniformVec3(ref ShaderRef, name string, v mgl32.Vec3) error {
	return m.setFloats("SetUniformVec3", ref, name, 3, v[:])
}

func (m *Manager) SetUniform3i(ref ShaderRef, name string, v1, v2, v3 int32) error {
	return m.setInts("SetUniform3i", ref, name, 3, []int32{v1, v2, v3})
}

func (m *Manager) SetUniformIVec3(ref ShaderRef, name string, v [3]int32) error {
	return m.setInts("SetUniformIVec3", ref, name, 3, v[:])
}

func (m *Manager) SetUniform3ui(ref ShaderRef, name string, v1, v2, v3 uint32) error {
	return m.setUints("SetUniform3ui", ref, name, 3, []uint32{v1, v2, v3})
}

func (m *Manager) SetUniformUVec3(ref ShaderRef, name string, v [3]uint32) error {
	return m.setUints("SetUniformUVec3", ref, name, 3, v[:])
}

// glUniform4f...

func (m *Manager) SetUniform4f(ref ShaderRef, name string, v1, v2, v3, v4 float32) error {
	return m.setFloats("SetUniform4f", ref, name, 4, []float32{v1, v2, v3, v4})
}

func (m *Manager) SetUniformVec4(ref ShaderRef, name string, v mgl32.Vec4) error {
	return m.setFloats("SetUniformVec4", ref, name, 4, v[:])
}

func (m *Manager) SetUniform4i(ref ShaderRef, name string, v1, v2, v3, v4 int32) error {
	return m.setInts("SetUniform4i", ref, name, 4, []int32{v1, v2, v3, v4})
}

func (m *Manager) SetUniformIVec4(ref ShaderRef, name string, v [4]int32) error {
	return m.setInts("SetUniformIVec4", ref, name, 4, v[:])
}

func (m *Manager) SetUniform4ui(ref ShaderRef, name string, v1, v2, v3, v4 uint32) error {
	return m.setUints("SetUniform4ui", ref, name, 4, []uint32{v1, v2, v3, v4})
}

func (m *Manager) SetUniformUVec4(ref ShaderRef, name string, v [4]uint32) error {
	return m.setUints("SetUniformUVec4", ref, name, 4, v[:])
}

// Arrays in the default block. count is len(values).

func (m *Manager) SetUniform1fv(ref ShaderRef, name string, values []float32) error {
	return m.setFloats("SetUniform1fv", ref, name, 1, values)
}

func (m *Manager) SetUniform1iv(ref ShaderRef, name string, values []int32) error {
	return m.setInts("SetUniform1iv", ref, name, 1, values)
}

func (m *Manager) SetUniform1uiv(ref ShaderRef, name string, values []uint32) error {
	return m.setUints("SetUniform1uiv", ref, name, 1, values)
}

func (m *Manager) SetUniform4fv(ref ShaderRef, name string, values []mgl32.Vec4) error {
	flat := make([]float32, 0, len(values)*4)
	for _, v := range values {
		flat = append(flat, v[:]...)
	}
	return m.setFloats("SetUniform4fv", ref, name, 4, flat)
}

// Matrices. mgl32 matrices are column-major, so transpose is normally
// false.

func (m *Manager) SetUniformMatrix4fv(ref ShaderRef, name string, transpose bool, mats ...mgl32.Mat4) error {
	flat := make([]float32, 0, len(mats)*16)
	for _, mat := range mats {
		flat = append(flat, mat[:]...)
	}
	return m.setMatrices("SetUniformMatrix4fv", ref, name, 4, transpose, len(mats), flat)
}

func (m *Manager) SetUniformMatrix3fv(ref ShaderRef, name string, transpose bool, mats ...mgl32.Mat3) error {
	flat := make([]float32, 0, len(mats)*9)
	for _, mat := range mats {
		flat = append(flat, mat[:]...)
	}
	return m.setMatrices("SetUniformMatrix3fv", ref, name, 3, transpose, len(mats), flat)
}

func (m *Manager) SetUniformMatrix2fv(ref ShaderRef, name string, transpose bool, mats ...mgl32.Mat2) error {
	flat := make([]float32, 0, len(mats)*4)
	for _, mat := range mats {
		flat = append(flat, mat[:]...)
	}
	return m.setMatrices("SetUniformMatrix2fv", ref, name, 2, transpose, len(mats), flat)
}
