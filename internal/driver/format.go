package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"reindent/internal/config"
	"reindent/internal/fix"
	"reindent/internal/format"
	"reindent/internal/formatting"
	"reindent/internal/logging"
	"reindent/internal/observ"
	"reindent/internal/source"
)

// ErrNoFiles is returned when the paths contain no source files.
var ErrNoFiles = errors.New("format: no source files found")

// FormatOptions configures code formatting.
type FormatOptions struct {
	Check  bool // report only, never write
	Stdout bool // return formatted content instead of writing
	Verify bool // run the round-trip check on every result
	Jobs   int
	Store  *config.Store
	// Events receives progress; FormatPaths closes it when done.
	Events chan<- Event
	// Timings, when set, collects per-stage durations of every file.
	Timings *observ.Totals
}

// FormatResult captures the result of formatting a single file.
type FormatResult struct {
	Path      string
	Changed   bool
	Err       error
	Formatted []byte
}

// FormatPaths formats provided files or directories (recursively collecting
// files whose extension the governing manifest lists). When opts.Check is
// true, files are not modified; Changed indicates whether formatting would
// update the file contents. When opts.Stdout is true, formatted content is
// returned in the results without touching files on disk.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) ([]FormatResult, error) {
	if opts.Events != nil {
		defer close(opts.Events)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	store := opts.Store
	if store == nil {
		store = config.NewStore()
	}

	files, err := CollectSourceFiles(ctx, store, paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	for _, path := range files {
		emit(opts.Events, Event{File: path, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	logger := logging.FromContext(ctx)
	logger.Debug("formatting", logging.FieldFiles, len(files), logging.FieldJobs, jobs)

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]FormatResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = formatOne(gctx, store, path, opts)
			logger.Debug("formatted", logging.FieldPath, path, logging.FieldChanged, results[i].Changed)
			status := StatusUnchanged
			switch {
			case results[i].Err != nil:
				status = StatusError
			case results[i].Changed:
				status = StatusDone
			}
			emit(opts.Events, Event{File: path, Status: status})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func formatOne(ctx context.Context, store *config.Store, path string, opts FormatOptions) FormatResult {
	result := FormatResult{Path: path}
	var timer *observ.Timer
	if opts.Timings != nil {
		timer = observ.NewTimer()
		defer opts.Timings.Add(timer)
	}

	emit(opts.Events, Event{File: path, Stage: StageRead, Status: StatusWorking})
	phase := timer.Begin(StageRead.String())
	fileSet := source.NewFileSet()
	id, err := fileSet.Load(path)
	if err != nil {
		result.Err = err
		return result
	}
	sf := fileSet.Get(id)
	project, err := store.ProjectOptions(ctx, path)
	timer.End(phase)
	if err != nil {
		result.Err = err
		return result
	}

	emit(opts.Events, Event{File: path, Stage: StageFormat, Status: StatusWorking})
	phase = timer.Begin(StageFormat.String())
	formatOpts := formatting.FormatOptions(project)
	formatted, err := format.FormatFile(sf, formatOpts)
	timer.End(phase)
	if err != nil {
		result.Err = fmt.Errorf("%s: %w", path, err)
		return result
	}
	if opts.Verify {
		phase = timer.Begin("verifying")
		ok, msg := format.CheckRoundTrip(sf, formatOpts)
		timer.End(phase)
		if !ok {
			result.Err = fmt.Errorf("%s: %s", path, msg)
			return result
		}
	}
	result.Changed = !bytes.Equal(sf.Content, formatted)

	switch {
	case opts.Check:
	case opts.Stdout:
		result.Formatted = formatted
	case result.Changed:
		emit(opts.Events, Event{File: path, Stage: StageWrite, Status: StatusWorking})
		phase = timer.Begin(StageWrite.String())
		if _, err := fix.WriteFile(sf, []fix.TextEdit{fix.ReplaceFile(sf, formatted)}); err != nil {
			result.Err = err
		}
		timer.End(phase)
	}
	return result
}

// CollectSourceFiles expands directories into the files their manifests
// cover. Files named explicitly are always included. The result is sorted
// and free of duplicates.
func CollectSourceFiles(ctx context.Context, store *config.Store, paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	addFile := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			addFile(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && len(d.Name()) > 1 && d.Name()[0] == '.' {
					return filepath.SkipDir
				}
				return nil
			}
			cfg, _, err := store.Resolve(path)
			if err != nil {
				return err
			}
			if cfg.HasExtension(path) {
				addFile(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}
