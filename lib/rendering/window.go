package rendering

import (
	"fmt"

	"github.com/fosdem/shadermgr/lib/config"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// NewWindow opens a window with a 4.1 core context and makes that
// context current. Call Terminate when done.
func NewWindow(cfg config.WindowCfg) (*glfw.Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLDebugContext, glfw.True)
	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("could not create window: %w", err)
	}

	window.MakeContextCurrent()
	glfw.SwapInterval(1)
	return window, nil
}

func Terminate() {
	glfw.Terminate()
}
