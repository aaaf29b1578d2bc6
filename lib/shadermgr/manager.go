// Package shadermgr maps human-readable shader names to linked GL
// programs and sets their uniforms by name.
//
// Uniforms in the default block are forwarded to the driver's
// glUniform* entry points. Uniforms that live in a named uniform block
// are written into client-side storage attached to the block's binding
// point; the caller flushes that storage with Flush or FlushAll.
//
// Every failing call returns an error and also overwrites a single
// last-error slot, readable through LastError.
package shadermgr

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/fosdem/shadermgr/lib/glapi"
	"github.com/fosdem/shadermgr/lib/metrics"
	"github.com/fosdem/shadermgr/lib/stats"
)

// ShaderRef selects a registered shader either by name or by program ID.
type ShaderRef struct {
	name string
	id   uint32
	byID bool
}

func Named(name string) ShaderRef { return ShaderRef{name: name} }
func ID(id uint32) ShaderRef      { return ShaderRef{id: id, byID: true} }

func (r ShaderRef) String() string {
	if r.byID {
		return fmt.Sprintf("ID '%d'", r.id)
	}
	return fmt.Sprintf("'%s'", r.name)
}

type program struct {
	desc            ProgramDescription
	locations       map[string]int32
	attribLocations map[string]int32
	metrics         metrics.ShaderMetrics
}

func (p *program) String() string {
	return fmt.Sprintf("shader '%s' (id %d)", p.desc.Name, p.desc.ID)
}

type Manager struct {
	mu     sync.Mutex
	driver glapi.Driver
	log    *slog.Logger

	nameToID map[string]uint32
	programs map[uint32]*program
	buffers  map[uint32]*uniformBuffer

	lastError string
	listener  map[string][]EventListener

	Stats *stats.Stats
}

type Option func(*Manager)

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.log = l
	}
}

func WithStats(s *stats.Stats) Option {
	return func(m *Manager) {
		m.Stats = s
	}
}

func New(driver glapi.Driver, opts ...Option) *Manager {
	m := &Manager{
		driver:   driver,
		log:      slog.Default(),
		nameToID: make(map[string]uint32),
		programs: make(map[uint32]*program),
		buffers:  make(map[uint32]*uniformBuffer),
		listener: make(map[string][]EventListener),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.Stats == nil {
		m.Stats = stats.New()
	}
	m.log = m.log.With(slog.String("module", "shadermgr"))
	return m
}

// Register introspects a linked program and makes it addressable by
// name. Names and program IDs must both be unique.
func (m *Manager) Register(name string, programID uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkRegister("Register", name, programID, false); err != nil {
		return err
	}
	m.add(m.newProgram(name, programID))
	return nil
}

// Replace registers programID under name in place of whatever program
// held that name before, then binds the new program's blocks. Nothing
// changes unless the new program declares every block in blocks.
func (m *Manager) Replace(name string, programID uint32, blocks map[string]uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	const op = "Replace"
	if err := m.checkRegister(op, name, programID, true); err != nil {
		return err
	}
	p := m.newProgram(name, programID)
	names := slices.Sorted(maps.Keys(blocks))
	for _, block := range names {
		if _, ok := p.desc.Block(block); !ok {
			return m.fail(op, fmt.Errorf("%s: %w '%s' in %s", op, ErrUnknownBlock, block, p))
		}
	}

	if old := m.find(Named(name)); old != nil {
		m.remove(old)
	}
	m.add(p)
	for _, block := range names {
		i, _ := p.desc.Block(block)
		m.bindBlock(p, i, blocks[block])
	}
	return nil
}

// checkRegister validates a name and program ID before registration.
// When replacing, name may already be taken, and programID may already
// be registered under that same name.
func (m *Manager) checkRegister(op string, name string, programID uint32, replacing bool) error {
	if name == "" {
		return m.fail(op, fmt.Errorf("%s: %w: empty shader name", op, ErrInvalidProgram))
	}
	if programID == 0 {
		return m.fail(op, fmt.Errorf("%s: %w: shader '%s' has program ID 0", op, ErrInvalidProgram, name))
	}
	if id, ok := m.nameToID[name]; ok && !replacing {
		return m.fail(op, fmt.Errorf("%s: %w: name '%s' is taken by ID '%d'", op, ErrDuplicateShader, name, id))
	}
	if p, ok := m.programs[programID]; ok && (!replacing || p.desc.Name != name) {
		return m.fail(op, fmt.Errorf("%s: %w: ID '%d' is already registered as '%s'", op, ErrDuplicateShader, programID, p.desc.Name))
	}
	return nil
}

func (m *Manager) newProgram(name string, programID uint32) *program {
	desc := describeProgram(name, programID, m.driver.DescribeProgram(programID))
	p := &program{
		desc:            desc,
		locations:       make(map[string]int32),
		attribLocations: make(map[string]int32),
		metrics:         metrics.NewShaderMetrics(name),
	}
	for _, u := range desc.Uniforms {
		if u.InDefaultBlock {
			p.locations[u.Name] = u.Location
		}
	}
	for _, a := range desc.Attributes {
		p.attribLocations[a.Name] = a.Location
	}
	return p
}

func (m *Manager) add(p *program) {
	m.nameToID[p.desc.Name] = p.desc.ID
	m.programs[p.desc.ID] = p
	metrics.RegisteredShaders.Set(float64(len(m.programs)))

	desc := &p.desc
	m.log.Info(fmt.Sprintf("Registered %s: %d uniforms, %d attributes, %d named blocks",
		p, len(desc.Uniforms), len(desc.Attributes), len(desc.NamedBlocks)),
		slog.String("shader", desc.Name))
	m.invoke("register", EventDataShader{Event: "register", Shader: desc.Name, ID: desc.ID})
}

func (m *Manager) remove(p *program) {
	delete(m.nameToID, p.desc.Name)
	delete(m.programs, p.desc.ID)
	metrics.RegisteredShaders.Set(float64(len(m.programs)))

	m.log.Info(fmt.Sprintf("Unregistered %s", p), slog.String("shader", p.desc.Name))
	m.invoke("unregister", EventDataShader{Event: "unregister", Shader: p.desc.Name, ID: p.desc.ID})
}

func (m *Manager) Unregister(ref ShaderRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.lookup("Unregister", ref)
	if err != nil {
		return err
	}
	m.remove(p)
	return nil
}

// Exists never touches the last-error slot.
func (m *Manager) Exists(ref ShaderRef) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(ref) != nil
}

func (m *Manager) ShaderID(name string) (uint32, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.nameToID[name]
	return id, ok
}

// Describe returns a copy of the shader's introspected layout.
func (m *Manager) Describe(ref ShaderRef) (ProgramDescription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.lookup("Describe", ref)
	if err != nil {
		return ProgramDescription{}, err
	}
	return p.desc.clone(), nil
}

func (m *Manager) Shaders() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Sorted(maps.Keys(m.nameToID))
}

// LastError holds the message of the most recent failure. It is
// overwritten by every failing call and never cleared by a successful
// one, so check it straight after the call that failed.
func (m *Manager) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastError
}

// Close deletes all uniform buffers and forgets every shader.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, binding := range slices.Sorted(maps.Keys(m.buffers)) {
		m.driver.DeleteBuffer(m.buffers[binding].bufferID)
	}
	clear(m.buffers)
	clear(m.nameToID)
	clear(m.programs)
	metrics.RegisteredShaders.Set(0)
}

func (m *Manager) find(ref ShaderRef) *program {
	if ref.byID {
		return m.programs[ref.id]
	}
	id, ok := m.nameToID[ref.name]
	if !ok {
		return nil
	}
	return m.programs[id]
}

func (m *Manager) lookup(op string, ref ShaderRef) (*program, error) {
	p := m.find(ref)
	if p == nil {
		return nil, m.fail(op, fmt.Errorf("%s: %w %s", op, ErrUnknownShader, ref))
	}
	return p, nil
}

// fail records err in the last-error slot. Callers hold m.mu.
func (m *Manager) fail(op string, err error) error {
	m.lastError = err.Error()
	metrics.Failures.WithLabelValues(reasonOf(err)).Inc()
	m.Stats.Failure()
	m.log.Debug(m.lastError, slog.String("op", op))
	m.invoke("error", EventDataError{Event: "error", Op: op, Message: m.lastError})
	return err
}
