package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fosdem/shadermgr/lib/log"
	"github.com/fosdem/shadermgr/lib/utils"
	yaml "github.com/goccy/go-yaml"
)

type Config struct {
	Api            *ApiCfg
	LogLevel       string `yaml:"log_level"`
	ClearColour    string `yaml:"clear_colour"`
	Window         WindowCfg
	UniformBuffers []*UniformBufferCfg `yaml:"uniform_buffers"`
	Shaders        map[string]*ShaderCfg
}

type ApiCfg struct {
	Bind           string
	EnableProfiler bool `yaml:"enable_profiler"`
}

type WindowCfg struct {
	Width  int
	Height int
	Title  string
}

type UniformBufferCfg struct {
	Binding    uint32
	SizeFloats int `yaml:"size_floats"`
}

// ShaderCfg names the sources of one program. An empty path selects the
// built-in demo source for that stage.
type ShaderCfg struct {
	Vertex   CfgPath
	Fragment CfgPath
	Inotify  bool
	Blocks   map[string]uint32
}

func Parse(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %s", filename, err)
	}
	defer f.Close()

	absFilename, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("somehow, %s is malformed: %w", filename, err)
	}
	UnmarshalBase = filepath.Dir(absFilename)

	cfg := &Config{}
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Window.Width == 0 {
		c.Window.Width = 1280
	}
	if c.Window.Height == 0 {
		c.Window.Height = 720
	}
	if c.Window.Title == "" {
		c.Window.Title = "shadermgr"
	}
	if c.ClearColour == "" {
		c.ClearColour = "#000000FF"
	}
}

func (c *Config) Validate() error {
	if len(c.Shaders) < 1 {
		return fmt.Errorf("at least one shader should be defined")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if !utils.ColourValidate(c.ClearColour) {
		return fmt.Errorf("%s is not a valid RGBA hex colour", c.ClearColour)
	}
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("window size %dx%d is invalid", c.Window.Width, c.Window.Height)
	}

	bound := make(map[uint32]bool)
	for i, b := range c.UniformBuffers {
		if b.SizeFloats <= 0 {
			return fmt.Errorf("uniform buffer %d: size_floats must be positive", i)
		}
		if bound[b.Binding] {
			return fmt.Errorf("uniform buffer %d: binding point %d is used twice", i, b.Binding)
		}
		bound[b.Binding] = true
	}

	for name, s := range c.Shaders {
		if name == "" {
			return fmt.Errorf("shader names cannot be empty")
		}
		if s == nil {
			return fmt.Errorf("shader %s has no configuration", name)
		}
		if s.Inotify && s.Vertex == "" && s.Fragment == "" {
			return fmt.Errorf("shader %s: cannot enable inotify for a shader without source paths", name)
		}
		for block, binding := range s.Blocks {
			if !bound[binding] {
				return fmt.Errorf("shader %s: block %s wants binding point %d, but no uniform buffer is configured there", name, block, binding)
			}
		}
	}
	return nil
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Shaders:\n")
	for _, name := range slices.Sorted(maps.Keys(c.Shaders)) {
		s := c.Shaders[name]
		b.WriteString(fmt.Sprintf("  %s (vertex: %s, fragment: %s)\n", name, orBuiltin(s.Vertex), orBuiltin(s.Fragment)))
		for _, block := range slices.Sorted(maps.Keys(s.Blocks)) {
			b.WriteString(fmt.Sprintf("    block %s -> %d\n", block, s.Blocks[block]))
		}
	}

	b.WriteString("\nUniform buffers:\n")
	for _, u := range c.UniformBuffers {
		b.WriteString(fmt.Sprintf("  binding %d: %d floats\n", u.Binding, u.SizeFloats))
	}

	b.WriteString(fmt.Sprintf("\nWindow: %dx%d %q\n", c.Window.Width, c.Window.Height, c.Window.Title))
	return b.String()
}

func orBuiltin(p CfgPath) string {
	if p == "" {
		return "built-in"
	}
	return string(p)
}
