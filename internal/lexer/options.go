package lexer

import (
	"reindent/internal/source"
)

// Reporter: тонкий интерфейс, форматирование диагностик живёт снаружи.
// Лексер **только вызывает** его с параметрами; форматирует внешний слой.
type Reporter interface {
	Report(kind string, span source.Span, msg string)
}

type Options struct {
	Reporter Reporter // может быть nil, тогда ошибки игнорируем (но продолжаем лексить)
	Defines  Defines  // активные символы для #if
}

func (lx *Lexer) report(kind string, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(kind, sp, msg)
	}
}

// Diagnostic is a problem reported while lexing.
type Diagnostic struct {
	Kind    string
	Span    source.Span
	Message string
}

// Collector is a Reporter that keeps every diagnostic it receives.
type Collector struct {
	Items []Diagnostic
}

// Report implements Reporter.
func (c *Collector) Report(kind string, span source.Span, msg string) {
	c.Items = append(c.Items, Diagnostic{Kind: kind, Span: span, Message: msg})
}

// Has reports whether a diagnostic of the given kind was collected.
func (c *Collector) Has(kind string) bool {
	for _, d := range c.Items {
		if d.Kind == kind {
			return true
		}
	}
	return false
}
