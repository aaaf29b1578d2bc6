// Package glapi describes the slice of the OpenGL shader API that the
// shader manager talks to. The go-gl backed implementation lives in
// gldriver; glapitest has a recording fake.
package glapi

// Driver forwards to the native graphics API. Every method maps onto a
// single GL entry point (or, for DescribeProgram, a fixed series of
// introspection queries) and must be called on the thread that owns the
// GL context.
type Driver interface {
	// UniformLocation returns -1 when the program has no such uniform.
	UniformLocation(program uint32, name string) int32
	// AttribLocation returns -1 when the program has no such attribute.
	AttribLocation(program uint32, name string) int32

	// UniformFloats, UniformInts and UniformUints dispatch to
	// glUniform{components}{f,i,ui}v. len(values) == components*count.
	UniformFloats(location int32, components int, count int32, values []float32)
	UniformInts(location int32, components int, count int32, values []int32)
	UniformUints(location int32, components int, count int32, values []uint32)
	// UniformMatrix dispatches to glUniformMatrix{dim}fv.
	UniformMatrix(location int32, dim int, count int32, transpose bool, values []float32)

	// VertexAttribFloats dispatches to glVertexAttrib{len(values)}f.
	VertexAttribFloats(index uint32, values []float32)

	DescribeProgram(program uint32) ProgramLayout
	UniformBlockBinding(program uint32, blockIndex uint32, binding uint32)

	CreateUniformBuffer(sizeBytes int) uint32
	BindBufferBase(binding uint32, buffer uint32)
	UniformBufferSubData(buffer uint32, offsetBytes int, values []float32)
	DeleteBuffer(buffer uint32)
}

// InvalidIndex mirrors GL_INVALID_INDEX, reported as the block index of
// uniforms that live in the default block.
const InvalidIndex = ^uint32(0)

// ActiveUniform is one entry of GL_ACTIVE_UNIFORMS.
type ActiveUniform struct {
	Name        string
	Type        Type
	Size        int32
	Location    int32
	BlockIndex  uint32
	Offset      int32
	ArrayStride int32
}

// ActiveAttrib is one entry of GL_ACTIVE_ATTRIBUTES.
type ActiveAttrib struct {
	Name     string
	Type     Type
	Size     int32
	Location int32
}

// ActiveBlock is one entry of GL_ACTIVE_UNIFORM_BLOCKS.
type ActiveBlock struct {
	Name     string
	Index    uint32
	DataSize int32
	Binding  int32
}

type ProgramLayout struct {
	Uniforms   []ActiveUniform
	Attributes []ActiveAttrib
	Blocks     []ActiveBlock
}
