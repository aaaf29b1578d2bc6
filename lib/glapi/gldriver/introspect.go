package gldriver

import (
	"github.com/fosdem/shadermgr/lib/glapi"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// DescribeProgram runs the glGetActive* queries on a linked program.
func (d *Driver) DescribeProgram(program uint32) glapi.ProgramLayout {
	return glapi.ProgramLayout{
		Uniforms:   activeUniforms(program),
		Attributes: activeAttribs(program),
		Blocks:     activeBlocks(program),
	}
}

func activeUniforms(program uint32) []glapi.ActiveUniform {
	var numUniforms, bufSize int32
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORMS, &numUniforms)
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORM_MAX_LENGTH, &bufSize)
	if numUniforms == 0 {
		return nil
	}

	indices := make([]uint32, numUniforms)
	for i := range indices {
		indices[i] = uint32(i)
	}
	blockIndices := make([]int32, numUniforms)
	offsets := make([]int32, numUniforms)
	strides := make([]int32, numUniforms)
	gl.GetActiveUniformsiv(program, numUniforms, &indices[0], gl.UNIFORM_BLOCK_INDEX, &blockIndices[0])
	gl.GetActiveUniformsiv(program, numUniforms, &indices[0], gl.UNIFORM_OFFSET, &offsets[0])
	gl.GetActiveUniformsiv(program, numUniforms, &indices[0], gl.UNIFORM_ARRAY_STRIDE, &strides[0])

	uniforms := make([]glapi.ActiveUniform, 0, numUniforms)
	nameBuf := make([]uint8, bufSize+1)
	for i := range uint32(numUniforms) {
		var length, size int32
		var typ uint32
		gl.GetActiveUniform(program, i, bufSize, &length, &size, &typ, &nameBuf[0])
		name := string(nameBuf[:length])

		u := glapi.ActiveUniform{
			Name:        name,
			Type:        glapi.Type(typ),
			Size:        size,
			Location:    gl.GetUniformLocation(program, gl.Str(name+"\x00")),
			BlockIndex:  uint32(blockIndices[i]),
			Offset:      offsets[i],
			ArrayStride: strides[i],
		}
		if blockIndices[i] < 0 {
			u.BlockIndex = glapi.InvalidIndex
		}
		uniforms = append(uniforms, u)
	}
	return uniforms
}

func activeAttribs(program uint32) []glapi.ActiveAttrib {
	var numAttribs, bufSize int32
	gl.GetProgramiv(program, gl.ACTIVE_ATTRIBUTES, &numAttribs)
	gl.GetProgramiv(program, gl.ACTIVE_ATTRIBUTE_MAX_LENGTH, &bufSize)
	if numAttribs == 0 {
		return nil
	}

	attribs := make([]glapi.ActiveAttrib, 0, numAttribs)
	nameBuf := make([]uint8, bufSize+1)
	for i := range uint32(numAttribs) {
		var length, size int32
		var typ uint32
		gl.GetActiveAttrib(program, i, bufSize, &length, &size, &typ, &nameBuf[0])
		name := string(nameBuf[:length])
		attribs = append(attribs, glapi.ActiveAttrib{
			Name:     name,
			Type:     glapi.Type(typ),
			Size:     size,
			Location: gl.GetAttribLocation(program, gl.Str(name+"\x00")),
		})
	}
	return attribs
}

func activeBlocks(program uint32) []glapi.ActiveBlock {
	var numBlocks, bufSize int32
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORM_BLOCKS, &numBlocks)
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORM_BLOCK_MAX_NAME_LENGTH, &bufSize)
	if numBlocks == 0 {
		return nil
	}

	blocks := make([]glapi.ActiveBlock, 0, numBlocks)
	nameBuf := make([]uint8, bufSize+1)
	for i := range uint32(numBlocks) {
		var length, dataSize, binding int32
		gl.GetActiveUniformBlockName(program, i, bufSize, &length, &nameBuf[0])
		gl.GetActiveUniformBlockiv(program, i, gl.UNIFORM_BLOCK_DATA_SIZE, &dataSize)
		gl.GetActiveUniformBlockiv(program, i, gl.UNIFORM_BLOCK_BINDING, &binding)
		blocks = append(blocks, glapi.ActiveBlock{
			Name:     string(nameBuf[:length]),
			Index:    i,
			DataSize: dataSize,
			Binding:  binding,
		})
	}
	return blocks
}
