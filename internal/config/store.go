package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ProjectOptions are the per-document settings the formatting pipeline needs.
type ProjectOptions struct {
	Name        string
	Root        string // directory of the manifest, "" without one
	Defines     []string
	IndentWidth int
	UseTabs     bool
}

// Overrides come from the editor and win over the manifest.
// Nil fields leave the manifest value in place.
type Overrides struct {
	IndentStyle *IndentStyle
	Defines     []string
}

// Store resolves settings for documents, caching manifests by path and
// reloading one when its modification time changes. It is safe for
// concurrent use.
type Store struct {
	mu        sync.Mutex
	overrides Overrides
	dirs      map[string]string // directory -> manifest path ("" if none)
	manifests map[string]cachedManifest
}

type cachedManifest struct {
	modTime time.Time
	cfg     Config
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		dirs:      make(map[string]string),
		manifests: make(map[string]cachedManifest),
	}
}

// SetOverrides replaces the editor overrides.
func (s *Store) SetOverrides(o Overrides) {
	s.mu.Lock()
	s.overrides = o
	s.mu.Unlock()
}

// Resolve returns the manifest config governing docPath with overrides
// applied, and the manifest path ("" when defaults are used).
func (s *Store) Resolve(docPath string) (Config, string, error) {
	dir := filepath.Dir(docPath)

	s.mu.Lock()
	manifestPath, known := s.dirs[dir]
	overrides := s.overrides
	s.mu.Unlock()

	if !known {
		path, ok, err := FindManifest(dir)
		if err != nil {
			return Config{}, "", err
		}
		if !ok {
			path = ""
		}
		manifestPath = path
		s.mu.Lock()
		s.dirs[dir] = manifestPath
		s.mu.Unlock()
	}

	cfg := Defaults()
	if manifestPath != "" {
		loaded, err := s.load(manifestPath)
		if err != nil {
			return Config{}, manifestPath, err
		}
		cfg = loaded
	}
	if overrides.IndentStyle != nil {
		cfg.Editor.IndentStyle = *overrides.IndentStyle
	}
	if overrides.Defines != nil {
		cfg.Project.Defines = append([]string(nil), overrides.Defines...)
	}
	return cfg, manifestPath, nil
}

func (s *Store) load(path string) (Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		// манифест удалили: забываем кэш директорий
		s.mu.Lock()
		s.dirs = make(map[string]string)
		delete(s.manifests, path)
		s.mu.Unlock()
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return Config{}, err
	}

	s.mu.Lock()
	cached, ok := s.manifests[path]
	s.mu.Unlock()
	if ok && cached.modTime.Equal(info.ModTime()) {
		return cached.cfg, nil
	}

	cfg, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	s.mu.Lock()
	s.manifests[path] = cachedManifest{modTime: info.ModTime(), cfg: cfg}
	s.mu.Unlock()
	return cfg, nil
}

// Forget drops cached lookups so new or deleted manifests are noticed.
func (s *Store) Forget() {
	s.mu.Lock()
	s.dirs = make(map[string]string)
	s.manifests = make(map[string]cachedManifest)
	s.mu.Unlock()
}

// IndentStyle returns the indent style for the document at docPath.
func (s *Store) IndentStyle(ctx context.Context, docPath string) (IndentStyle, error) {
	if err := ctx.Err(); err != nil {
		return IndentStyleNone, err
	}
	cfg, _, err := s.Resolve(docPath)
	if err != nil {
		return IndentStyleNone, err
	}
	return cfg.Editor.IndentStyle, nil
}

// ProjectOptions returns the project options for the document at docPath.
func (s *Store) ProjectOptions(ctx context.Context, docPath string) (ProjectOptions, error) {
	if err := ctx.Err(); err != nil {
		return ProjectOptions{}, err
	}
	cfg, manifestPath, err := s.Resolve(docPath)
	if err != nil {
		return ProjectOptions{}, err
	}
	opts := ProjectOptions{
		Name:        cfg.Project.Name,
		Defines:     cfg.Project.Defines,
		IndentWidth: cfg.Format.IndentWidth,
		UseTabs:     cfg.Format.UseTabs,
	}
	if manifestPath != "" {
		opts.Root = filepath.Dir(manifestPath)
	}
	return opts, nil
}
