// Package gldriver implements glapi.Driver on top of go-gl. All calls
// require a current OpenGL 4.1 core context on the calling thread.
package gldriver

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/fosdem/shadermgr/lib/glapi"
	"github.com/go-gl/gl/v4.1-core/gl"
)

const f32 = 4

// Driver is bound to the GL context that was current when New ran.
type Driver struct {
	log       *slog.Logger
	userParam unsafe.Pointer
}

// New also installs GL debug output for the current context, logging
// through logger. Call Close before the context goes away.
func New(logger *slog.Logger) (*Driver, error) {
	if gl.GetString(gl.VERSION) == nil {
		return nil, fmt.Errorf("no current OpenGL context (did you call rendering.Init?)")
	}
	d := &Driver{log: logger.With("module", "gl")}
	d.enableDebugOutput()
	return d, nil
}

func (d *Driver) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *Driver) AttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (d *Driver) UniformFloats(location int32, components int, count int32, values []float32) {
	switch components {
	case 1:
		gl.Uniform1fv(location, count, &values[0])
	case 2:
		gl.Uniform2fv(location, count, &values[0])
	case 3:
		gl.Uniform3fv(location, count, &values[0])
	case 4:
		gl.Uniform4fv(location, count, &values[0])
	default:
		panic(fmt.Sprintf("invalid component count %d", components))
	}
}

func (d *Driver) UniformInts(location int32, components int, count int32, values []int32) {
	switch components {
	case 1:
		gl.Uniform1iv(location, count, &values[0])
	case 2:
		gl.Uniform2iv(location, count, &values[0])
	case 3:
		gl.Uniform3iv(location, count, &values[0])
	case 4:
		gl.Uniform4iv(location, count, &values[0])
	default:
		panic(fmt.Sprintf("invalid component count %d", components))
	}
}

func (d *Driver) UniformUints(location int32, components int, count int32, values []uint32) {
	switch components {
	case 1:
		gl.Uniform1uiv(location, count, &values[0])
	case 2:
		gl.Uniform2uiv(location, count, &values[0])
	case 3:
		gl.Uniform3uiv(location, count, &values[0])
	case 4:
		gl.Uniform4uiv(location, count, &values[0])
	default:
		panic(fmt.Sprintf("invalid component count %d", components))
	}
}

func (d *Driver) UniformMatrix(location int32, dim int, count int32, transpose bool, values []float32) {
	switch dim {
	case 2:
		gl.UniformMatrix2fv(location, count, transpose, &values[0])
	case 3:
		gl.UniformMatrix3fv(location, count, transpose, &values[0])
	case 4:
		gl.UniformMatrix4fv(location, count, transpose, &values[0])
	default:
		panic(fmt.Sprintf("invalid matrix dimension %d", dim))
	}
}

func (d *Driver) VertexAttribFloats(index uint32, values []float32) {
	switch len(values) {
	case 1:
		gl.VertexAttrib1f(index, values[0])
	case 2:
		gl.VertexAttrib2f(index, values[0], values[1])
	case 3:
		gl.VertexAttrib3f(index, values[0], values[1], values[2])
	case 4:
		gl.VertexAttrib4f(index, values[0], values[1], values[2], values[3])
	default:
		panic(fmt.Sprintf("invalid attribute component count %d", len(values)))
	}
}

func (d *Driver) UniformBlockBinding(program uint32, blockIndex uint32, binding uint32) {
	gl.UniformBlockBinding(program, blockIndex, binding)
}

func (d *Driver) CreateUniformBuffer(sizeBytes int) uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.UNIFORM_BUFFER, id)
	gl.BufferData(gl.UNIFORM_BUFFER, sizeBytes, gl.Ptr(nil), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	return id
}

func (d *Driver) BindBufferBase(binding uint32, buffer uint32) {
	gl.BindBufferBase(gl.UNIFORM_BUFFER, binding, buffer)
}

func (d *Driver) UniformBufferSubData(buffer uint32, offsetBytes int, values []float32) {
	if len(values) == 0 {
		return
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, buffer)
	gl.BufferSubData(gl.UNIFORM_BUFFER, offsetBytes, len(values)*f32, gl.Ptr(&values[0]))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

func (d *Driver) DeleteBuffer(buffer uint32) {
	gl.DeleteBuffers(1, &buffer)
}

var _ glapi.Driver = (*Driver)(nil)
