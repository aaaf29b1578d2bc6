package shadermgr

import (
	"slices"
	"strings"

	"github.com/fosdem/shadermgr/lib/glapi"
)

const f32 = 4

// UniformDescription is what introspection learned about one active
// uniform. BlockOffset and ArrayStride (and their float counterparts)
// only mean something when InDefaultBlock is false.
type UniformDescription struct {
	Name           string     `json:"name"`
	Type           glapi.Type `json:"type"`
	IsArray        bool       `json:"is_array"`
	Size           int32      `json:"size"`
	Location       int32      `json:"location"`
	InDefaultBlock bool       `json:"in_default_block"`
	// Block indexes ProgramDescription.NamedBlocks, or is -1.
	Block          int   `json:"block"`
	BlockOffset    int32 `json:"block_offset"`
	OffsetInFloats int   `json:"offset_in_floats"`
	ArrayStride    int32 `json:"array_stride"`
	StrideInFloats int   `json:"stride_in_floats"`
}

type AttributeDescription struct {
	Name     string     `json:"name"`
	Type     glapi.Type `json:"type"`
	Size     int32      `json:"size"`
	Location int32      `json:"location"`
}

type NamedBlockDescription struct {
	Name     string   `json:"name"`
	Index    uint32   `json:"index"`
	DataSize int32    `json:"data_size"`
	Members  []string `json:"members"`
	// BindingPoint is -1 until the block is bound.
	BindingPoint int32 `json:"binding_point"`
}

// ProgramDescription holds the introspected layout of a registered
// program.
type ProgramDescription struct {
	Name        string                  `json:"name"`
	ID          uint32                  `json:"id"`
	Uniforms    []UniformDescription    `json:"uniforms"`
	Attributes  []AttributeDescription  `json:"attributes"`
	NamedBlocks []NamedBlockDescription `json:"named_blocks"`

	uniformIndex map[string]int
	attribIndex  map[string]int
}

func (p *ProgramDescription) Uniform(name string) (UniformDescription, bool) {
	i, ok := p.uniformIndex[name]
	if !ok {
		return UniformDescription{}, false
	}
	return p.Uniforms[i], true
}

func (p *ProgramDescription) Attribute(name string) (AttributeDescription, bool) {
	i, ok := p.attribIndex[name]
	if !ok {
		return AttributeDescription{}, false
	}
	return p.Attributes[i], true
}

func (p *ProgramDescription) Block(name string) (int, bool) {
	for i, b := range p.NamedBlocks {
		if b.Name == name {
			return i, true
		}
	}
	return -1, false
}

func (p ProgramDescription) clone() ProgramDescription {
	c := p
	c.Uniforms = slices.Clone(p.Uniforms)
	c.Attributes = slices.Clone(p.Attributes)
	c.NamedBlocks = make([]NamedBlockDescription, len(p.NamedBlocks))
	for i, b := range p.NamedBlocks {
		b.Members = slices.Clone(b.Members)
		c.NamedBlocks[i] = b
	}
	return c
}

// baseName strips the [0] suffix GL puts on array uniforms.
func baseName(name string) (string, bool) {
	if strings.HasSuffix(name, "[0]") {
		return strings.TrimSuffix(name, "[0]"), true
	}
	return name, false
}

func describeProgram(name string, id uint32, layout glapi.ProgramLayout) ProgramDescription {
	p := ProgramDescription{
		Name:         name,
		ID:           id,
		uniformIndex: make(map[string]int),
		attribIndex:  make(map[string]int),
	}

	blockPos := make(map[uint32]int, len(layout.Blocks))
	for _, b := range layout.Blocks {
		blockPos[b.Index] = len(p.NamedBlocks)
		p.NamedBlocks = append(p.NamedBlocks, NamedBlockDescription{
			Name:         b.Name,
			Index:        b.Index,
			DataSize:     b.DataSize,
			BindingPoint: b.Binding,
		})
	}

	for _, au := range layout.Uniforms {
		base, suffixed := baseName(au.Name)
		u := UniformDescription{
			Name:     base,
			Type:     au.Type,
			IsArray:  suffixed || au.Size > 1,
			Size:     au.Size,
			Location: au.Location,
			Block:    -1,
		}
		pos, inBlock := blockPos[au.BlockIndex]
		if au.BlockIndex == glapi.InvalidIndex || !inBlock {
			u.InDefaultBlock = true
		} else {
			u.Block = pos
			u.BlockOffset = au.Offset
			u.OffsetInFloats = int(au.Offset) / f32
			u.ArrayStride = au.ArrayStride
			u.StrideInFloats = int(au.ArrayStride) / f32
			p.NamedBlocks[pos].Members = append(p.NamedBlocks[pos].Members, base)
		}

		p.uniformIndex[base] = len(p.Uniforms)
		if suffixed {
			p.uniformIndex[au.Name] = len(p.Uniforms)
		}
		p.Uniforms = append(p.Uniforms, u)
	}

	for _, aa := range layout.Attributes {
		p.attribIndex[aa.Name] = len(p.Attributes)
		p.Attributes = append(p.Attributes, AttributeDescription{
			Name:     aa.Name,
			Type:     aa.Type,
			Size:     aa.Size,
			Location: aa.Location,
		})
	}

	return p
}
