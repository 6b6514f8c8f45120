package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File holds flag defaults read from config.yaml.
// Nil fields were not set in the file and leave the built-in default alone.
type File struct {
	SVDepth          *int    `yaml:"svdepth"`
	Status           *bool   `yaml:"status"`
	Style            *int    `yaml:"style"`
	Color            *string `yaml:"color"`
	MaxProcs         *int    `yaml:"max_procs"`
	GraphMarginLeft  *int    `yaml:"graph_margin_left"`
	GraphMarginRight *int    `yaml:"graph_margin_right"`
	Symbols          Symbols `yaml:"symbols"`
}

// Symbols overrides individual graph glyphs. Empty strings keep the style's glyph.
type Symbols struct {
	Commit   string `yaml:"commit"`
	Merge    string `yaml:"merge"`
	Overpass string `yaml:"overpass"`
	Root     string `yaml:"root"`
	Tip      string `yaml:"tip"`
}

// Load reads the config file at path.
// A missing file yields an empty File. Unknown keys are rejected.
func Load(path string) (*File, error) {
	if path == "" {
		return &File{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes config file contents.
func Parse(data []byte) (*File, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &file, nil
}
