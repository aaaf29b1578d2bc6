// Package glapitest provides a glapi.Driver that records calls instead of
// talking to a GPU.
package glapitest

import (
	"slices"

	"github.com/fosdem/shadermgr/lib/glapi"
)

// Call is one recorded driver invocation.
type Call struct {
	Op        string
	Program   uint32
	Location  int32
	Count     int32
	Size      int // components, matrix dim or byte size depending on Op
	Transpose bool
	Floats    []float32
	Ints      []int32
	Uints     []uint32
	Name      string
}

// Driver serves the layouts registered with SetLayout. Uniform and
// attribute locations are taken from those layouts; anything else
// resolves to -1.
type Driver struct {
	Calls   []Call
	Buffers map[uint32][]float32

	layouts    map[uint32]glapi.ProgramLayout
	nextBuffer uint32
}

func New() *Driver {
	return &Driver{
		Buffers: make(map[uint32][]float32),
		layouts: make(map[uint32]glapi.ProgramLayout),
	}
}

func (d *Driver) SetLayout(program uint32, layout glapi.ProgramLayout) {
	d.layouts[program] = layout
}

// Reset forgets recorded calls.
func (d *Driver) Reset() {
	d.Calls = nil
}

// Ops lists the Op of every recorded call.
func (d *Driver) Ops() []string {
	ops := make([]string, len(d.Calls))
	for i, c := range d.Calls {
		ops[i] = c.Op
	}
	return ops
}

func (d *Driver) record(c Call) {
	d.Calls = append(d.Calls, c)
}

func (d *Driver) UniformLocation(program uint32, name string) int32 {
	d.record(Call{Op: "GetUniformLocation", Program: program, Name: name})
	for _, u := range d.layouts[program].Uniforms {
		if u.Name == name {
			return u.Location
		}
	}
	return -1
}

func (d *Driver) AttribLocation(program uint32, name string) int32 {
	d.record(Call{Op: "GetAttribLocation", Program: program, Name: name})
	for _, a := range d.layouts[program].Attributes {
		if a.Name == name {
			return a.Location
		}
	}
	return -1
}

func (d *Driver) UniformFloats(location int32, components int, count int32, values []float32) {
	d.record(Call{Op: "UniformFloats", Location: location, Size: components, Count: count, Floats: slices.Clone(values)})
}

func (d *Driver) UniformInts(location int32, components int, count int32, values []int32) {
	d.record(Call{Op: "UniformInts", Location: location, Size: components, Count: count, Ints: slices.Clone(values)})
}

func (d *Driver) UniformUints(location int32, components int, count int32, values []uint32) {
	d.record(Call{Op: "UniformUints", Location: location, Size: components, Count: count, Uints: slices.Clone(values)})
}

func (d *Driver) UniformMatrix(location int32, dim int, count int32, transpose bool, values []float32) {
	d.record(Call{Op: "UniformMatrix", Location: location, Size: dim, Count: count, Transpose: transpose, Floats: slices.Clone(values)})
}

func (d *Driver) VertexAttribFloats(index uint32, values []float32) {
	d.record(Call{Op: "VertexAttrib", Location: int32(index), Size: len(values), Floats: slices.Clone(values)})
}

func (d *Driver) DescribeProgram(program uint32) glapi.ProgramLayout {
	d.record(Call{Op: "DescribeProgram", Program: program})
	return d.layouts[program]
}

func (d *Driver) UniformBlockBinding(program uint32, blockIndex uint32, binding uint32) {
	d.record(Call{Op: "UniformBlockBinding", Program: program, Location: int32(blockIndex), Count: int32(binding)})
}

func (d *Driver) CreateUniformBuffer(sizeBytes int) uint32 {
	d.nextBuffer++
	d.Buffers[d.nextBuffer] = make([]float32, sizeBytes/4)
	d.record(Call{Op: "CreateUniformBuffer", Program: d.nextBuffer, Size: sizeBytes})
	return d.nextBuffer
}

func (d *Driver) BindBufferBase(binding uint32, buffer uint32) {
	d.record(Call{Op: "BindBufferBase", Program: buffer, Count: int32(binding)})
}

func (d *Driver) UniformBufferSubData(buffer uint32, offsetBytes int, values []float32) {
	d.record(Call{Op: "UniformBufferSubData", Program: buffer, Size: offsetBytes, Floats: slices.Clone(values)})
	if buf, ok := d.Buffers[buffer]; ok {
		copy(buf[offsetBytes/4:], values)
	}
}

func (d *Driver) DeleteBuffer(buffer uint32) {
	d.record(Call{Op: "DeleteBuffer", Program: buffer})
	delete(d.Buffers, buffer)
}

var _ glapi.Driver = (*Driver)(nil)
