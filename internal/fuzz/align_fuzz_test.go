package fuzztests

import (
	"context"
	"testing"

	"reindent/internal/indent"
	"reindent/internal/source"
	"reindent/internal/testkit"
)

func FuzzAlignerEdit(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s), uint32(len(s)))
	}
	f.Add([]byte("if (x) {\n    y()\n    }"), uint32(22))
	aligner := indent.Default()
	f.Fuzz(func(t *testing.T, input []byte, pos uint32) {
		file := source.NewVirtualFile("fuzz.sg", clamp(input))
		pos %= uint32(len(file.Content)) + 1
		edit, ok, err := aligner.Align(context.Background(), file, file.Path, pos, nil)
		if err != nil {
			t.Fatalf("align %q at %d: %v", input, pos, err)
		}
		if !ok {
			return
		}
		if err := testkit.CheckIndentEdit(file, pos, edit); err != nil {
			t.Fatalf("align %q at %d: %v", input, pos, err)
		}
	})
}
