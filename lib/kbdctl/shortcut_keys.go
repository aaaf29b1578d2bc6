package kbdctl

import (
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Actions are what the viewer's shortcut keys trigger. They run on the
// thread that calls Poll.
type Actions struct {
	Reload func()
	Quit   func()
}

func SetupShortcutKeys(window *glfw.Window, actions Actions, logger *slog.Logger) {
	window.SetKeyCallback(keyCallback(actions, logger.With("module", "kbdctl")))
}

func Poll() {
	glfw.PollEvents()
}

func keyCallback(actions Actions, log *slog.Logger) glfw.KeyCallback {
	return func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		handleKey(actions, log, key, action, mods)
	}
}

func handleKey(actions Actions, log *slog.Logger, key glfw.Key, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Release {
		if key == glfw.KeyQ &&
			mods&glfw.ModControl != 0 &&
			mods&glfw.ModShift != 0 {
			log.Info("told to quit, exiting")
			if actions.Quit != nil {
				actions.Quit()
			}
		}
	}
	if action == glfw.Press && key == glfw.KeyF5 {
		log.Info("reloading all shaders")
		if actions.Reload != nil {
			actions.Reload()
		}
	}
}
