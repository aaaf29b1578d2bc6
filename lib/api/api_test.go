package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fosdem/shadermgr/lib/config"
	"github.com/fosdem/shadermgr/lib/glapi"
	"github.com/fosdem/shadermgr/lib/glapi/glapitest"
	"github.com/fosdem/shadermgr/lib/shadermgr"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApi(t *testing.T) (*Api, *shadermgr.Manager, *glapitest.Driver) {
	t.Helper()
	drv := glapitest.New()
	drv.SetLayout(5, glapi.ProgramLayout{
		Uniforms: []glapi.ActiveUniform{
			{Name: "time", Type: glapi.Float, Size: 1, Location: 0, BlockIndex: glapi.InvalidIndex, Offset: -1, ArrayStride: -1},
		},
	})
	drv.SetLayout(6, glapi.ProgramLayout{})
	m := shadermgr.New(drv, shadermgr.WithLogger(quietLogger()))
	a := New(&config.ApiCfg{Bind: "127.0.0.1:0"}, m, quietLogger())
	return a, m, drv
}

func get(t *testing.T, a *Api, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestListAndDescribeShaders(t *testing.T) {
	a, m, _ := newTestApi(t)

	rec := get(t, a, "/api/shaders")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	require.NoError(t, m.Register("wave", 5))
	rec = get(t, a, "/api/shaders")
	assert.JSONEq(t, `[{"name":"wave","id":5}]`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = get(t, a, "/api/shaders/wave")
	require.Equal(t, http.StatusOK, rec.Code)
	var desc shadermgr.ProgramDescription
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &desc))
	assert.Equal(t, "wave", desc.Name)
	require.Len(t, desc.Uniforms, 1)
	assert.Equal(t, glapi.Float, desc.Uniforms[0].Type)

	rec = get(t, a, "/api/shaders/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, m.LastError(), "a 404 must not clobber the last error")
}

func TestDescribeShaderFiltersByType(t *testing.T) {
	a, m, _ := newTestApi(t)
	require.NoError(t, m.Register("wave", 5))

	describe := func(path string) shadermgr.ProgramDescription {
		rec := get(t, a, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		var desc shadermgr.ProgramDescription
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &desc))
		return desc
	}

	assert.Len(t, describe("/api/shaders/wave?type=float").Uniforms, 1)
	assert.Empty(t, describe("/api/shaders/wave?type=vec4").Uniforms)

	rec := get(t, a, "/api/shaders/wave?type=vec5")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `unknown GLSL type "vec5"`)

	full, err := m.Describe(shadermgr.Named("wave"))
	require.NoError(t, err)
	assert.Len(t, full.Uniforms, 1)
}

func TestLastErrorAndStats(t *testing.T) {
	a, m, _ := newTestApi(t)
	require.NoError(t, m.Register("wave", 5))

	assert.Error(t, m.SetUniform1f(shadermgr.Named("wave"), "nope", 1))
	require.NoError(t, m.SetUniform1f(shadermgr.Named("wave"), "time", 1))

	rec := get(t, a, "/api/last-error")
	var lastErr LastError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lastErr))
	assert.Contains(t, lastErr.Message, "can't find uniform variable 'nope'")

	rec = get(t, a, "/api/stats")
	var snap map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.EqualValues(t, 1, snap["uniform_writes"])
	assert.EqualValues(t, 1, snap["failures"])
}

func TestListBuffers(t *testing.T) {
	a, m, _ := newTestApi(t)

	assert.JSONEq(t, `[]`, get(t, a, "/api/buffers").Body.String())
	require.NoError(t, m.BindUniformBuffer(0, 16))
	assert.JSONEq(t, `[{"binding":0,"buffer_id":1,"size_floats":16,"dirty":true}]`, get(t, a, "/api/buffers").Body.String())
}

func TestReloadShader(t *testing.T) {
	a, m, _ := newTestApi(t)
	require.NoError(t, m.Register("wave", 5))

	post := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		return rec
	}

	assert.Equal(t, http.StatusNotImplemented, post("/api/shaders/wave/reload").Code)

	var reloaded []string
	a.Reload = func(shader string) error {
		reloaded = append(reloaded, shader)
		if shader == "wave" && len(reloaded) > 1 {
			return errors.New("compile error")
		}
		return nil
	}
	assert.Equal(t, http.StatusOK, post("/api/shaders/wave/reload").Code)
	assert.Equal(t, http.StatusNotFound, post("/api/shaders/nope/reload").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, post("/api/shaders/wave/reload").Code)
	assert.Equal(t, []string{"wave", "wave"}, reloaded)
}

func TestMetricsEndpoint(t *testing.T) {
	a, m, _ := newTestApi(t)
	require.NoError(t, m.Register("metered", 5))
	require.NoError(t, m.SetUniform1f(shadermgr.Named("metered"), "time", 1))

	rec := get(t, a, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `shadermgr_uniform_writes_total{shader="metered"} 1`)
}

func TestProfilerIsOptIn(t *testing.T) {
	a, _, _ := newTestApi(t)
	assert.Equal(t, http.StatusNotFound, get(t, a, "/prof").Code)
}

type wsMessage struct {
	Event   string `json:"event"`
	Shader  string `json:"shader"`
	Message string `json:"message"`
}

func TestWebsocketPushesStatsAndEvents(t *testing.T) {
	a, m, _ := newTestApi(t)
	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()

	read := func() wsMessage {
		require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
		var msg wsMessage
		require.NoError(t, ws.ReadJSON(&msg))
		return msg
	}

	assert.Equal(t, "stats", read().Event)
	assert.EqualValues(t, 1, a.Stats.Snapshot().WsClients)

	require.NoError(t, m.Register("wave", 5))
	msg := read()
	for msg.Event == "stats" {
		msg = read()
	}
	assert.Equal(t, wsMessage{Event: "register", Shader: "wave"}, msg)

	assert.Error(t, m.Register("wave", 6))
	msg = read()
	for msg.Event == "stats" {
		msg = read()
	}
	assert.Equal(t, "error", msg.Event)
	assert.Contains(t, msg.Message, "already registered")
}

func TestSwaggerDocs(t *testing.T) {
	a, _, _ := newTestApi(t)

	rec := get(t, a, "/api/docs/doc.json")
	require.Equal(t, http.StatusOK, rec.Code)
	var doc struct {
		Swagger string                    `json:"swagger"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Contains(t, doc.Paths, "/api/shaders/{name}")
	assert.Contains(t, doc.Paths["/api/shaders/{name}/reload"], "post")
}
