package viewer

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/fosdem/shadermgr/lib/api"
	"github.com/fosdem/shadermgr/lib/config"
	"github.com/fosdem/shadermgr/lib/demo"
	"github.com/fosdem/shadermgr/lib/glapi/gldriver"
	"github.com/fosdem/shadermgr/lib/kbdctl"
	"github.com/fosdem/shadermgr/lib/rendering"
	"github.com/fosdem/shadermgr/lib/rendering/shaders"
	"github.com/fosdem/shadermgr/lib/shadermgr"
	"github.com/fosdem/shadermgr/lib/utils"
	"github.com/fosdem/shadermgr/lib/watch"
)

type shader struct {
	name    string
	cfg     *config.ShaderCfg
	program uint32
}

// Viewer owns the GL context. Everything that touches GL, the Manager
// included, runs on the goroutine that called MakeWindowAndRun.
type Viewer struct {
	cfg      *config.Config
	log      *slog.Logger
	m        *shadermgr.Manager
	animator *demo.Animator
	shaderer *shaders.Shaderer

	shaders map[string]*shader
	order   []string

	reloads           chan string
	frameErrors       map[string]string
	ShutdownRequested bool
}

// MakeWindowAndRun opens the window, registers every configured shader
// and renders until asked to quit.
func MakeWindowAndRun(cfg *config.Config, logger *slog.Logger) error {
	window, err := rendering.NewWindow(cfg.Window)
	if err != nil {
		return err
	}
	defer rendering.Terminate()

	if err := rendering.Init(logger); err != nil {
		return fmt.Errorf("could not initialise renderer: %w", err)
	}
	driver, err := gldriver.New(logger)
	if err != nil {
		return err
	}
	defer driver.Close()

	shaderer, err := shaders.NewShaderer()
	if err != nil {
		return fmt.Errorf("could not get shaders: %w", err)
	}
	clearColour, err := utils.ColourParse(cfg.ClearColour)
	if err != nil {
		return err
	}

	m := shadermgr.New(driver, shadermgr.WithLogger(logger))
	defer m.Close()

	v := &Viewer{
		cfg:         cfg,
		log:         logger.With("module", "viewer"),
		m:           m,
		animator:    demo.New(m, logger),
		shaderer:    shaderer,
		shaders:     make(map[string]*shader),
		order:       slices.Sorted(maps.Keys(cfg.Shaders)),
		reloads:     make(chan string, 16),
		frameErrors: make(map[string]string),
	}

	for _, ub := range cfg.UniformBuffers {
		if err := m.BindUniformBuffer(ub.Binding, ub.SizeFloats); err != nil {
			return err
		}
	}
	for _, name := range v.order {
		v.shaders[name] = &shader{name: name, cfg: cfg.Shaders[name]}
		if err := v.load(name); err != nil {
			return fmt.Errorf("could not load shader %s: %w", name, err)
		}
	}
	defer v.deletePrograms()

	var fileReloads <-chan string
	if w, err := v.watchSources(); err != nil {
		return err
	} else if w != nil {
		defer w.Close()
		fileReloads = w.Reloads()
	}

	if theApi := api.ServeInBackground(m, cfg.Api, logger); theApi != nil {
		theApi.Reload = v.requestReload
	}

	kbdctl.SetupShortcutKeys(window, kbdctl.Actions{
		Reload: v.reloadAll,
		Quit:   func() { v.ShutdownRequested = true },
	}, logger)

	pass := rendering.NewPass()
	defer pass.Delete()

	timer := utils.NewDeltaTimer()
	for !v.ShutdownRequested {
		timer.Next()
		v.drainReloads(fileReloads)

		width, height := window.GetFramebufferSize()
		pass.StartFrame(width, height, clearColour)
		for _, name := range v.order {
			s := v.shaders[name]
			if s.program == 0 {
				continue
			}
			pass.Use(s.program)
			v.reportFrameError(name, v.animator.Frame(name, timer.Seconds(), width, height))
			m.FlushAll()
			pass.Draw()
		}

		window.SwapBuffers()
		if window.ShouldClose() {
			v.ShutdownRequested = true
		}

		// Maintenance
		m.Stats.Frame()
		kbdctl.Poll()
	}
	return nil
}

func (v *Viewer) watchSources() (*watch.Watcher, error) {
	var w *watch.Watcher
	for _, name := range v.order {
		s := v.shaders[name]
		if !s.cfg.Inotify {
			continue
		}
		if w == nil {
			var err error
			if w, err = watch.New(v.log); err != nil {
				return nil, err
			}
		}
		if err := w.Add(name, string(s.cfg.Vertex), string(s.cfg.Fragment)); err != nil {
			w.Close()
			return nil, err
		}
	}
	return w, nil
}

// load builds the program for a shader and registers it, replacing the
// previous build. A failed build keeps the previous program running.
func (v *Viewer) load(name string) error {
	s := v.shaders[name]
	vertex, fragment, err := v.shaderer.Sources(string(s.cfg.Vertex), string(s.cfg.Fragment), &shaders.DefaultShaderData)
	if err != nil {
		return err
	}
	program, err := shaders.BuildGLProgram(vertex, fragment)
	if err != nil {
		return err
	}

	if err := v.m.Replace(name, program, s.cfg.Blocks); err != nil {
		shaders.DeleteProgram(program)
		return err
	}
	if s.program != 0 {
		shaders.DeleteProgram(s.program)
		v.animator.Forget(name)
	}
	s.program = program
	delete(v.frameErrors, name)
	return nil
}

func (v *Viewer) reload(name string) {
	if _, ok := v.shaders[name]; !ok {
		v.log.Warn("asked to reload unknown shader", "shader", name)
		return
	}
	if err := v.load(name); err != nil {
		v.log.Error("reload failed, keeping previous build", "shader", name, "err", err)
		return
	}
	v.log.Info("reloaded", "shader", name)
}

func (v *Viewer) reloadAll() {
	for _, name := range v.order {
		v.reload(name)
	}
}

// requestReload is called by the api from its own goroutine.
func (v *Viewer) requestReload(name string) error {
	select {
	case v.reloads <- name:
		return nil
	default:
		return errors.New("reload queue is full")
	}
}

func (v *Viewer) drainReloads(fileReloads <-chan string) {
	for {
		select {
		case name := <-v.reloads:
			v.reload(name)
		case name := <-fileReloads:
			v.reload(name)
		default:
			return
		}
	}
}

// reportFrameError logs a failing frame once per distinct message.
func (v *Viewer) reportFrameError(name string, err error) {
	if err == nil {
		delete(v.frameErrors, name)
		return
	}
	if v.frameErrors[name] == err.Error() {
		return
	}
	v.frameErrors[name] = err.Error()
	v.log.Warn("could not update uniforms", "shader", name, "err", err)
}

func (v *Viewer) deletePrograms() {
	for _, s := range v.shaders {
		if s.program != 0 {
			shaders.DeleteProgram(s.program)
		}
	}
}
