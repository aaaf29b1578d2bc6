// Package demo drives the uniforms of the viewer's shaders through a
// shadermgr.Manager: time and resolution in the default block, a tint
// attribute, and the Lights block (ambient, intensity[], exposure).
//
// Shaders only get the values they declare; the rest are skipped.
package demo

import (
	"log/slog"
	"math"

	"github.com/fosdem/shadermgr/lib/glapi"
	"github.com/fosdem/shadermgr/lib/shadermgr"
	"github.com/go-gl/mathgl/mgl32"
)

const Exposure = 1.2

var (
	Ambient = mgl32.Vec4{0.02, 0.02, 0.04, 1}
	Tint    = mgl32.Vec4{1, 1, 1, 1}
)

type plan struct {
	id         uint32
	time       bool
	resolution bool
	tint       bool
	ambient    bool
	exposure   bool
	lights     int
}

type Animator struct {
	m     *shadermgr.Manager
	log   *slog.Logger
	plans map[string]plan
}

func New(m *shadermgr.Manager, logger *slog.Logger) *Animator {
	return &Animator{
		m:     m,
		log:   logger.With("module", "demo"),
		plans: make(map[string]plan),
	}
}

func (a *Animator) planFor(shader string) (plan, error) {
	id, ok := a.m.ShaderID(shader)
	if p, cached := a.plans[shader]; ok && cached && p.id == id {
		return p, nil
	}

	desc, err := a.m.Describe(shadermgr.Named(shader))
	if err != nil {
		return plan{}, err
	}
	has := func(name string, typ glapi.Type, inDefault bool) bool {
		u, ok := desc.Uniform(name)
		return ok && u.Type == typ && u.InDefaultBlock == inDefault
	}

	p := plan{
		id:         desc.ID,
		time:       has("time", glapi.Float, true),
		resolution: has("resolution", glapi.FloatVec2, true),
		ambient:    has("ambient", glapi.FloatVec4, false),
		exposure:   has("exposure", glapi.Float, false),
	}
	if _, ok := desc.Attribute("tint"); ok {
		p.tint = true
	}
	if u, ok := desc.Uniform("intensity"); ok && u.IsArray && u.Type == glapi.Float && !u.InDefaultBlock {
		// The block writer rejects writing every element, so the last
		// light keeps its initial value.
		p.lights = int(u.Size) - 1
	}
	a.plans[shader] = p
	a.log.Debug("planned uniforms", "shader", shader, "lights", p.lights)
	return p, nil
}

// Frame writes this frame's values for shader. The program must be
// current for the default-block writes to land in it.
func (a *Animator) Frame(shader string, t float32, width, height int) error {
	p, err := a.planFor(shader)
	if err != nil {
		return err
	}
	ref := shadermgr.Named(shader)

	if p.time {
		if err := a.m.SetUniform1f(ref, "time", t); err != nil {
			return err
		}
	}
	if p.resolution {
		if err := a.m.SetUniform2f(ref, "resolution", float32(width), float32(height)); err != nil {
			return err
		}
	}
	if p.tint {
		if err := a.m.SetVertexAttrib4f(ref, "tint", Tint[0], Tint[1], Tint[2], Tint[3]); err != nil {
			return err
		}
	}
	if p.ambient {
		if err := a.m.SetUniformVec4NamedBlock(ref, "ambient", Ambient); err != nil {
			return err
		}
	}
	if p.lights > 0 {
		if err := a.m.SetUniform1fNamedBlockArray(ref, "intensity", Intensities(t, p.lights)); err != nil {
			return err
		}
	}
	if p.exposure {
		if err := a.m.SetUniform1fNamedBlock(ref, "exposure", Exposure); err != nil {
			return err
		}
	}
	return nil
}

// Intensities pulses n lights out of phase, each in [0, 1].
func Intensities(t float32, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		phase := float64(t)*1.3 + float64(i)*0.9
		out[i] = float32(0.5 + 0.5*math.Sin(phase))
	}
	return out
}

// Forget drops the cached plan, e.g. after the shader was unregistered.
func (a *Animator) Forget(shader string) {
	delete(a.plans, shader)
}
