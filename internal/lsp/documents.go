package lsp

import (
	"context"
	"fmt"
	"sync"

	"reindent/internal/source"
)

type document struct {
	uri     string
	text    string
	version int
}

// documents holds the open editor buffers keyed by file path. Snapshots are
// taken under the lock and are immutable afterwards.
type documents struct {
	mu     sync.Mutex
	byPath map[string]*document
}

func newDocuments() *documents {
	return &documents{byPath: make(map[string]*document)}
}

func (d *documents) open(uri, path, text string, version int) {
	d.mu.Lock()
	d.byPath[path] = &document{uri: uri, text: text, version: version}
	d.mu.Unlock()
}

func (d *documents) change(path string, version int, changes []textDocumentContentChangeEvent) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc, ok := d.byPath[path]
	if !ok {
		return false
	}
	doc.text = applyChanges(doc.text, changes)
	doc.version = version
	return true
}

func (d *documents) replace(path, text string) {
	d.mu.Lock()
	if doc, ok := d.byPath[path]; ok {
		doc.text = text
	}
	d.mu.Unlock()
}

func (d *documents) close(path string) {
	d.mu.Lock()
	delete(d.byPath, path)
	d.mu.Unlock()
}

func (d *documents) version(path string) (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc, ok := d.byPath[path]
	if !ok {
		return 0, false
	}
	return doc.version, true
}

// Snapshot implements formatting.DocumentSource.
func (d *documents) Snapshot(ctx context.Context, path string) (*source.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	doc, ok := d.byPath[path]
	var text string
	if ok {
		text = doc.text
	}
	d.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("document %s is not open", path)
	}
	return source.NewVirtualFile(path, []byte(text)), nil
}
