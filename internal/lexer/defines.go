package lexer

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Defines is the set of active conditional-compilation symbols.
// Names are stored and looked up in NFC form so that visually identical
// symbols typed with different Unicode compositions match.
type Defines map[string]struct{}

// NewDefines builds a define set, dropping blank names.
func NewDefines(names ...string) Defines {
	d := make(Defines, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		d[norm.NFC.String(name)] = struct{}{}
	}
	return d
}

// Has reports whether name is defined.
func (d Defines) Has(name string) bool {
	if len(d) == 0 {
		return false
	}
	_, ok := d[norm.NFC.String(name)]
	return ok
}

// Names returns the defined symbols in sorted order.
func (d Defines) Names() []string {
	out := make([]string, 0, len(d))
	for name := range d {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
