package shaders

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Sources returns the vertex and fragment source for a shader. An empty
// path selects the built-in template for that stage.
func (s *Shaderer) Sources(vertexPath, fragmentPath string, data *ShaderData) (string, string, error) {
	load := func(path, builtin string) (string, error) {
		if path == "" {
			return s.GetShaderSource(builtin, data)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("could not read shader source: %w", err)
		}
		return string(b), nil
	}

	vertex, err := load(vertexPath, DefaultVertex)
	if err != nil {
		return "", "", fmt.Errorf("could not get vertex shader: %w", err)
	}
	fragment, err := load(fragmentPath, DefaultFragment)
	if err != nil {
		return "", "", fmt.Errorf("could not get fragment shader: %w", err)
	}
	return vertex, fragment, nil
}

// BuildGLProgram compiles and links a program. The shader objects are
// deleted once linked.
func BuildGLProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()

	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		logmsg := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logmsg))
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("failed to link program: %v", strings.TrimRight(logmsg, "\x00"))
	}

	gl.DetachShader(program, vertexShader)
	gl.DetachShader(program, fragmentShader)
	return program, nil
}

func DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
	size := int32(len(source))
	gl.ShaderSource(shader, 1, csources, &size)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		clog := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(clog))
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("failed to compile: %v", strings.TrimRight(clog, "\x00"))
	}

	return shader, nil
}
