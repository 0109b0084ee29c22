// Package config loads the reindent.toml project manifest and resolves the
// effective settings for a document.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file name searched for when resolving a project.
const ManifestName = "reindent.toml"

// Config is the decoded manifest.
type Config struct {
	Project ProjectSection `toml:"project"`
	Editor  EditorSection  `toml:"editor"`
	Format  FormatSection  `toml:"format"`
}

type ProjectSection struct {
	Name    string   `toml:"name"`
	Defines []string `toml:"defines"`
}

type EditorSection struct {
	IndentStyle IndentStyle `toml:"indent_style"`
}

type FormatSection struct {
	IndentWidth int      `toml:"indent_width"`
	UseTabs     bool     `toml:"use_tabs"`
	Extensions  []string `toml:"extensions"`
}

// Defaults returns the settings used when no manifest is found.
func Defaults() Config {
	return Config{
		Editor: EditorSection{IndentStyle: IndentStyleSmart},
		Format: FormatSection{
			IndentWidth: 4,
			Extensions:  []string{".sg"},
		},
	}
}

// Manifest is a loaded reindent.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// FindManifest walks up from startDir looking for reindent.toml.
func FindManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest finds and loads the manifest governing startDir.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadFile decodes and validates a manifest. Missing keys take their defaults.
func LoadFile(path string) (Config, error) {
	cfg := Defaults()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Format.IndentWidth < 1 || c.Format.IndentWidth > 16 {
		return fmt.Errorf("[format].indent_width must be between 1 and 16, got %d", c.Format.IndentWidth)
	}
	for i, ext := range c.Format.Extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return fmt.Errorf("[format].extensions[%d] is empty", i)
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Format.Extensions[i] = ext
	}
	for i, name := range c.Project.Defines {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("[project].defines[%d] is empty", i)
		}
	}
	return nil
}

// HasExtension reports whether path has one of the configured extensions.
func (c Config) HasExtension(path string) bool {
	ext := filepath.Ext(path)
	for _, want := range c.Format.Extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}
