package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/pprof"
	"slices"
	"sync"
	"time"

	_ "github.com/fosdem/shadermgr/lib/api/docs"
	"github.com/fosdem/shadermgr/lib/config"
	"github.com/fosdem/shadermgr/lib/glapi"
	"github.com/fosdem/shadermgr/lib/metrics"
	"github.com/fosdem/shadermgr/lib/shadermgr"
	"github.com/fosdem/shadermgr/lib/stats"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:generate go tool swag init --generalInfo api.go --dir .,../shadermgr,../stats --output docs --outputTypes go --parseDependency=false

//	@title			shadermgr inspector
//	@version		1.0
//	@description	Read-only view of registered shader programs, their uniforms and uniform buffers.
//	@BasePath		/

// Api is a read-only HTTP view on a Manager. The only mutation it offers
// is asking the owner of the GL context to reload a shader.
type Api struct {
	srv     http.Server
	mux     *http.ServeMux
	cfg     *config.ApiCfg
	manager *shadermgr.Manager
	log     *slog.Logger

	Stats *stats.Stats

	// Reload is called from the handler goroutine; it must hand the
	// work over to the GL thread.
	Reload func(shader string) error

	wsMutex   sync.Mutex
	wsClients map[*wsClient]bool
}

func New(cfg *config.ApiCfg, m *shadermgr.Manager, logger *slog.Logger) *Api {
	a := &Api{
		mux:       http.NewServeMux(),
		cfg:       cfg,
		manager:   m,
		log:       logger.With("module", "api"),
		Stats:     m.Stats,
		wsClients: make(map[*wsClient]bool),
	}
	a.srv.Addr = cfg.Bind
	a.srv.Handler = a.mux
	a.routes()

	forward := func(_ *shadermgr.Manager, data interface{}) {
		a.broadcast(data)
	}
	m.AddEventListener("register", forward)
	m.AddEventListener("unregister", forward)
	m.AddEventListener("error", forward)
	return a
}

func (a *Api) routes() {
	if a.cfg.EnableProfiler {
		a.mux.HandleFunc("/prof", a.profileCPU)
	}
	a.mux.HandleFunc("GET /api/shaders", a.listShaders)
	a.mux.HandleFunc("GET /api/shaders/{name}", a.describeShader)
	a.mux.HandleFunc("POST /api/shaders/{name}/reload", a.reloadShader)
	a.mux.HandleFunc("GET /api/buffers", a.listBuffers)
	a.mux.HandleFunc("GET /api/stats", a.getStats)
	a.mux.HandleFunc("GET /api/last-error", a.getLastError)
	a.mux.HandleFunc("/api/ws", a.handleWebsocket)
	a.mux.Handle("/metrics", metrics.Handler())
	a.mux.Handle("/api/docs/", httpSwagger.Handler(httpSwagger.URL("/api/docs/doc.json")))
}

func (a *Api) Handler() http.Handler {
	return a.mux
}

func (a *Api) Serve() error {
	return a.srv.ListenAndServe()
}

func (a *Api) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.Warn("could not write response", "err", err)
	}
}

type ShaderEntry struct {
	Name string `json:"name"`
	ID   uint32 `json:"id"`
}

// @Summary	List registered shaders
// @Router		/api/shaders [get]
// @Tags		shaders
// @Success	200	{array}	ShaderEntry
func (a *Api) listShaders(w http.ResponseWriter, _ *http.Request) {
	entries := []ShaderEntry{}
	for _, name := range a.manager.Shaders() {
		id, ok := a.manager.ShaderID(name)
		if !ok {
			continue
		}
		entries = append(entries, ShaderEntry{Name: name, ID: id})
	}
	a.writeJSON(w, entries)
}

// @Summary	Describe the active uniforms, attributes and blocks of a shader
// @Router		/api/shaders/{name} [get]
// @Tags		shaders
// @Param		name	path	string	true	"Name the shader was registered under"
// @Param		type	query	string	false	"Only list uniforms of this GLSL type, e.g. vec4"
// @Success	200	{object}	shadermgr.ProgramDescription
// @Failure	400	{string}	string	"Unknown type"
// @Failure	404	{string}	string	"No such shader"
func (a *Api) describeShader(w http.ResponseWriter, req *http.Request) {
	name := req.PathValue("name")
	var filter glapi.Type
	if q := req.URL.Query().Get("type"); q != "" {
		if err := filter.UnmarshalText([]byte(q)); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if !a.manager.Exists(shadermgr.Named(name)) {
		http.Error(w, fmt.Sprintf("shader '%s' is not registered", name), http.StatusNotFound)
		return
	}
	desc, err := a.manager.Describe(shadermgr.Named(name))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if filter != 0 {
		desc.Uniforms = slices.DeleteFunc(desc.Uniforms, func(u shadermgr.UniformDescription) bool {
			return u.Type != filter
		})
	}
	a.writeJSON(w, desc)
}

// @Summary	Rebuild a shader from its sources and register it again
// @Router		/api/shaders/{name}/reload [post]
// @Tags		shaders
// @Param		name	path	string	true	"Name the shader was registered under"
// @Success	200
// @Failure	404	{string}	string	"No such shader"
// @Failure	501	{string}	string	"Reloading is not available"
func (a *Api) reloadShader(w http.ResponseWriter, req *http.Request) {
	name := req.PathValue("name")
	if a.Reload == nil {
		http.Error(w, "reloading is not available", http.StatusNotImplemented)
		return
	}
	if !a.manager.Exists(shadermgr.Named(name)) {
		http.Error(w, fmt.Sprintf("shader '%s' is not registered", name), http.StatusNotFound)
		return
	}
	if err := a.Reload(name); err != nil {
		http.Error(w, fmt.Sprintf("could not reload: %s", err), http.StatusUnprocessableEntity)
		return
	}
	a.log.Info("Reload requested over the api", "shader", name)
	a.writeJSON(w, "ok")
}

// @Summary	List uniform buffers and their binding points
// @Router		/api/buffers [get]
// @Tags		buffers
// @Success	200	{array}	shadermgr.UniformBufferInfo
func (a *Api) listBuffers(w http.ResponseWriter, _ *http.Request) {
	infos := a.manager.UniformBuffers()
	if infos == nil {
		infos = []shadermgr.UniformBufferInfo{}
	}
	a.writeJSON(w, infos)
}

// @Summary	Get counters
// @Router		/api/stats [get]
// @Tags		base
// @Success	200	{object}	stats.Snapshot
func (a *Api) getStats(w http.ResponseWriter, _ *http.Request) {
	a.writeJSON(w, a.Stats.Snapshot())
}

type LastError struct {
	Message string `json:"message"`
}

// @Summary	Get the message of the most recent failed operation
// @Router		/api/last-error [get]
// @Tags		base
// @Success	200	{object}	LastError
func (a *Api) getLastError(w http.ResponseWriter, _ *http.Request) {
	a.writeJSON(w, LastError{Message: a.manager.LastError()})
}

func (a *Api) profileCPU(w http.ResponseWriter, _ *http.Request) {
	err := pprof.StartCPUProfile(w)
	if err != nil {
		http.Error(w, fmt.Sprintf("Could not start CPU profile: %s", err), http.StatusInternalServerError)
		return
	}
	time.Sleep(10 * time.Second)
	pprof.StopCPUProfile()
}

// ServeInBackground starts the inspector if cfg is set; it returns nil
// otherwise.
func ServeInBackground(m *shadermgr.Manager, cfg *config.ApiCfg, logger *slog.Logger) *Api {
	if cfg == nil {
		return nil
	}
	theApi := New(cfg, m, logger)

	theApi.log.Info("starting web server", "bind", cfg.Bind)
	go func() {
		if err := theApi.Serve(); err != nil && err != http.ErrServerClosed {
			theApi.log.Error("could not start web server", "err", err)
		}
	}()
	return theApi
}
