package rendering

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Pass draws one full-screen triangle per program. The vertex shader
// derives positions from gl_VertexID, so the VAO has no arrays enabled
// and attributes read their generic (constant) values.
type Pass struct {
	VAO uint32
}

func NewPass() *Pass {
	p := &Pass{}
	gl.GenVertexArrays(1, &p.VAO)
	return p
}

func (p *Pass) StartFrame(width, height int, clear mgl32.Vec4) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(clear[0], clear[1], clear[2], clear[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.BindVertexArray(p.VAO)
}

// Use makes program current; default-block uniform writes go to the
// current program.
func (p *Pass) Use(program uint32) {
	gl.UseProgram(program)
}

func (p *Pass) Draw() {
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
}

func (p *Pass) Delete() {
	gl.DeleteVertexArrays(1, &p.VAO)
}
