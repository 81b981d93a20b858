// Package config loads the interview CLI configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	PathEnv = "INTERVIEW_CONFIG"

	BackendMiniaudio = "miniaudio"
	BackendPortaudio = "portaudio"
)

type Role struct {
	Title        string `yaml:"title"`
	Requirements string `yaml:"requirements"`
}

type Gemini struct {
	APIKey          string `yaml:"api_key"`
	BaseURL         string `yaml:"base_url"`
	LiveModel       string `yaml:"live_model"`
	EvaluationModel string `yaml:"evaluation_model"`
}

type Deepgram struct {
	Enabled bool   `yaml:"enabled"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

type Audio struct {
	Backend         string `yaml:"backend"`
	FramesPerBuffer int    `yaml:"frames_per_buffer"`
}

type Report struct {
	Path string `yaml:"path"`
}

type Root struct {
	Organization string   `yaml:"organization"`
	Voice        string   `yaml:"voice"`
	Role         Role     `yaml:"role"`
	Gemini       Gemini   `yaml:"gemini"`
	Deepgram     Deepgram `yaml:"deepgram"`
	Audio        Audio    `yaml:"audio"`
	Report       Report   `yaml:"report"`
}

func Default() Root {
	return Root{
		Organization: "Teachmint",
		Voice:        "Kore",
		Audio:        Audio{Backend: BackendMiniaudio, FramesPerBuffer: 4096},
		Report:       Report{Path: "hiring_report.csv"},
	}
}

// Load reads path, or the file named by INTERVIEW_CONFIG when path is
// empty, over the defaults. Without either only defaults and environment
// overrides apply.
func Load(path string) (*Root, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config: %w", err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Root) applyEnv() {
	if key := firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
	if key := os.Getenv("DEEPGRAM_API_KEY"); key != "" {
		c.Deepgram.APIKey = key
	}
}

func (c *Root) Validate() error {
	switch c.Audio.Backend {
	case BackendMiniaudio, BackendPortaudio:
	default:
		return fmt.Errorf("unknown audio backend %q", c.Audio.Backend)
	}
	if c.Audio.FramesPerBuffer < 0 {
		return fmt.Errorf("frames_per_buffer must not be negative")
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}
