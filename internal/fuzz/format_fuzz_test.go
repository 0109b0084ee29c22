package fuzztests

import (
	"testing"

	"reindent/internal/format"
	"reindent/internal/source"
)

func FuzzFormatRoundTrip(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		file := source.NewVirtualFile("fuzz.sg", clamp(input))
		// невалидный вход пропускаем
		if _, err := format.FormatFile(file, format.Options{}); err != nil {
			return
		}
		if ok, msg := format.CheckRoundTrip(file, format.Options{}); !ok {
			t.Fatalf("%q: %s", input, msg)
		}
	})
}
