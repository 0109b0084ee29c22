package lsp

import "reindent/internal/source"

// applyChanges applies incremental (or full, when Range is nil) content
// changes in order. Ranges are resolved against the text as it stands before
// each change.
func applyChanges(text string, changes []textDocumentContentChangeEvent) string {
	for _, change := range changes {
		if change.Range == nil {
			text = change.Text
			continue
		}
		snapshot := source.NewVirtualFile("", []byte(text))
		span := spanForRange(snapshot, *change.Range)
		text = text[:span.Start] + change.Text + text[span.End:]
	}
	return text
}
