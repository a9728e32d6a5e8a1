package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ikemen-engine/glvbo/packages/vbo"
	"gopkg.in/yaml.v3"
)

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

type Config struct {
	Window     WindowConfig `yaml:"window"`
	LogLevel   string       `yaml:"logLevel"`
	ShaderDir  string       `yaml:"shaderDir"`
	Screenshot string       `yaml:"screenshot"`
	ExportOBJ  string       `yaml:"exportObj"`
	ExportSTL  string       `yaml:"exportStl"`
	VBO        vbo.Config   `yaml:"vbo"`
}

func defaultConfig() Config {
	return Config{
		Window:     WindowConfig{Width: scr_width, Height: scr_height, Title: "glvbo", VSync: true},
		LogLevel:   "info",
		ShaderDir:  "shaders",
		Screenshot: "screenshot.png",
		ExportOBJ:  "scene.obj",
		ExportSTL:  "scene.stl",
		VBO:        vbo.DefaultConfig(),
	}
}

// loadConfig reads path over the defaults. A missing file is not an error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	} else if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		cfg.Window.Width, cfg.Window.Height = scr_width, scr_height
	}
	// normalize the vbo section the same way vbo.ParseConfig does
	vcfg, err := yaml.Marshal(cfg.VBO)
	if err != nil {
		return cfg, err
	}
	if cfg.VBO, err = vbo.ParseConfig(vcfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) slogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
