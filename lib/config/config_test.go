package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoConfig = `
api:
  bind: 127.0.0.1:8000
log_level: debug
window:
  width: 640
  height: 480
uniform_buffers:
  - binding: 0
    size_floats: 64
shaders:
  lights:
    fragment: shaders/lights.frag
    inotify: true
    blocks:
      Lights: 0
  plain: {}
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParse(t *testing.T) {
	path := writeConfig(t, demoConfig)

	cfg, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8000", cfg.Api.Bind)
	assert.Equal(t, WindowCfg{Width: 640, Height: 480, Title: "shadermgr"}, cfg.Window)
	assert.Equal(t, "#000000FF", cfg.ClearColour)
	require.Len(t, cfg.UniformBuffers, 1)
	assert.Equal(t, 64, cfg.UniformBuffers[0].SizeFloats)

	lights := cfg.Shaders["lights"]
	require.NotNil(t, lights)
	assert.Equal(t, CfgPath(filepath.Join(filepath.Dir(path), "shaders/lights.frag")), lights.Fragment)
	assert.Empty(t, lights.Vertex)
	assert.Equal(t, map[string]uint32{"Lights": 0}, lights.Blocks)

	summary := cfg.String()
	assert.Contains(t, summary, "lights (vertex: built-in, fragment: ")
	assert.Contains(t, summary, "block Lights -> 0")
	assert.Contains(t, summary, "binding 0: 64 floats")
}

func TestParseAbsolutePath(t *testing.T) {
	cfg, err := Parse(writeConfig(t, "shaders:\n  x:\n    vertex: /srv/x.vert\n"))
	require.NoError(t, err)
	assert.Equal(t, CfgPath("/srv/x.vert"), cfg.Shaders["x"].Vertex)
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"no shaders":       "log_level: info\n",
		"bad level":        "log_level: chatty\nshaders:\n  x: {}\n",
		"bad colour":       "clear_colour: red\nshaders:\n  x: {}\n",
		"empty buffer":     "uniform_buffers:\n  - binding: 0\nshaders:\n  x: {}\n",
		"binding twice":    "uniform_buffers:\n  - {binding: 1, size_floats: 4}\n  - {binding: 1, size_floats: 4}\nshaders:\n  x: {}\n",
		"unbound block":    "shaders:\n  x:\n    blocks:\n      Lights: 2\n",
		"inotify, no path": "shaders:\n  x:\n    inotify: true\n",
	}
	for name, body := range cases {
		_, err := Parse(writeConfig(t, body))
		assert.Error(t, err, name)
	}
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "could not open")
}
