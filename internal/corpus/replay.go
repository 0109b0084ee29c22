package corpus

import (
	"context"
	"fmt"

	"reindent/internal/config"
	"reindent/internal/formatting"
	"reindent/internal/source"
)

// ServiceFactory builds the service a case is replayed against.
type ServiceFactory func(docs formatting.DocumentSource, cfg formatting.ConfigProvider, project formatting.ProjectProvider) *formatting.Service

// Mismatch is a case whose replayed answer differs from the recorded one.
type Mismatch struct {
	Case Case
	Got  []Edit
	Err  error
}

func (m Mismatch) String() string {
	if m.Err != nil {
		return fmt.Sprintf("%s: %v", m.Case.Name, m.Err)
	}
	return fmt.Sprintf("%s: recorded %s, got %s", m.Case.Name, describe(m.Case.Edits), describe(m.Got))
}

func describe(edits []Edit) string {
	if len(edits) == 0 {
		return "no edit"
	}
	out := ""
	for i, e := range edits {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("[%d,%d)=%q", e.Start, e.End, e.NewText)
	}
	return out
}

// Replay runs every case against a fresh service and returns the ones that
// answer differently. A nil factory uses formatting.NewService. Only context
// errors abort the replay.
func Replay(ctx context.Context, cases []Case, newService ServiceFactory) ([]Mismatch, error) {
	if newService == nil {
		newService = func(docs formatting.DocumentSource, cfg formatting.ConfigProvider, project formatting.ProjectProvider) *formatting.Service {
			return formatting.NewService(docs, cfg, project)
		}
	}
	var mismatches []Mismatch
	for i := range cases {
		c := cases[i]
		got, err := replayOne(ctx, c, newService)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return mismatches, ctxErr
		}
		if err != nil {
			mismatches = append(mismatches, Mismatch{Case: c, Err: err})
			continue
		}
		if !sameEdits(c.Edits, got) {
			mismatches = append(mismatches, Mismatch{Case: c, Got: got})
		}
	}
	return mismatches, nil
}

func replayOne(ctx context.Context, c Case, newService ServiceFactory) ([]Edit, error) {
	trig, err := c.BuildTrigger()
	if err != nil {
		return nil, err
	}
	style, err := config.ParseIndentStyle(c.IndentStyle)
	if err != nil {
		return nil, fmt.Errorf("case %q: %w", c.Name, err)
	}
	env := &caseEnv{
		file:  source.NewVirtualFile(c.Path, []byte(c.Text)),
		style: style,
		opts:  c.Options(),
	}
	edits, err := newService(env, env, env).Format(ctx, c.Path, trig, c.Position)
	if err != nil {
		return nil, err
	}
	return FromTextEdits(edits), nil
}

func sameEdits(a, b []Edit) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// caseEnv serves one recorded document and its settings.
type caseEnv struct {
	file  *source.File
	style config.IndentStyle
	opts  config.ProjectOptions
}

func (e *caseEnv) Snapshot(ctx context.Context, _ string) (*source.File, error) {
	return e.file, ctx.Err()
}

func (e *caseEnv) IndentStyle(ctx context.Context, _ string) (config.IndentStyle, error) {
	return e.style, ctx.Err()
}

func (e *caseEnv) ProjectOptions(ctx context.Context, _ string) (config.ProjectOptions, error) {
	return e.opts, ctx.Err()
}
