package formatting

import (
	"fmt"

	"reindent/internal/config"
	"reindent/internal/source"
)

// TriggerKind is the editor action that asked for formatting.
type TriggerKind uint8

const (
	TriggerChar TriggerKind = iota + 1
	TriggerReturn
	TriggerPaste
	TriggerFormat
)

func (k TriggerKind) String() string {
	switch k {
	case TriggerChar:
		return "char"
	case TriggerReturn:
		return "return"
	case TriggerPaste:
		return "paste"
	case TriggerFormat:
		return "format"
	default:
		return fmt.Sprintf("TriggerKind(%d)", uint8(k))
	}
}

// Trigger is one of OnChar, OnReturn, OnPaste or OnFormat.
type Trigger struct {
	Kind TriggerKind
	Char rune         // TriggerChar
	Span *source.Span // TriggerPaste (always set), TriggerFormat (nil = whole document)
}

// OnChar is a character typed by the user.
func OnChar(r rune) Trigger { return Trigger{Kind: TriggerChar, Char: r} }

// OnReturn is a newline inserted by the user.
func OnReturn() Trigger { return Trigger{Kind: TriggerReturn} }

// OnPaste covers the span of freshly pasted text.
func OnPaste(span source.Span) Trigger { return Trigger{Kind: TriggerPaste, Span: &span} }

// OnFormat formats the whole document when span is nil and the selection otherwise.
func OnFormat(span *source.Span) Trigger { return Trigger{Kind: TriggerFormat, Span: span} }

func (t Trigger) String() string {
	switch t.Kind {
	case TriggerChar:
		return fmt.Sprintf("char %q", t.Char)
	case TriggerFormat:
		if t.Span != nil {
			return "format selection"
		}
		return "format document"
	default:
		return t.Kind.String()
	}
}

// needsStyle reports whether the decision depends on the indent style.
func (t Trigger) needsStyle() bool {
	return t.Kind == TriggerChar || t.Kind == TriggerReturn
}

// Decision is what the service does for a trigger.
type Decision uint8

const (
	DecisionSkip Decision = iota
	DecisionAlign
	DecisionPrettyPrint
)

func (d Decision) String() string {
	switch d {
	case DecisionSkip:
		return "skip"
	case DecisionAlign:
		return "align"
	case DecisionPrettyPrint:
		return "pretty-print"
	default:
		return fmt.Sprintf("Decision(%d)", uint8(d))
	}
}

// Gate decides whether a trigger reaches the aligner, the pretty-printer or
// nothing. For typed characters and return the style is checked first.
func Gate(t Trigger, style config.IndentStyle) Decision {
	switch t.Kind {
	case TriggerChar:
		if style != config.IndentStyleSmart || !SupportsFormattingOnTypedCharacter(t.Char) {
			return DecisionSkip
		}
		return DecisionAlign
	case TriggerReturn:
		if style != config.IndentStyleSmart {
			return DecisionSkip
		}
		return DecisionAlign
	case TriggerFormat:
		if t.Span != nil {
			return DecisionSkip
		}
		return DecisionPrettyPrint
	default:
		return DecisionSkip
	}
}

// SupportsFormatDocument reports whether whole-document formatting is offered.
func SupportsFormatDocument() bool { return true }

// SupportsFormatSelection is false: a selection is never reformatted.
func SupportsFormatSelection() bool { return false }

// SupportsFormatOnPaste is false: pasted text is left as is.
func SupportsFormatOnPaste() bool { return false }

// SupportsFormatOnReturn reports whether a newline triggers alignment.
func SupportsFormatOnReturn() bool { return true }

// SupportsFormattingOnTypedCharacter is true only for closing brackets.
func SupportsFormattingOnTypedCharacter(r rune) bool {
	switch r {
	case ')', ']', '}':
		return true
	default:
		return false
	}
}

// TriggerCharacters lists the typed characters that reach the aligner.
func TriggerCharacters() []string {
	return []string{"}", ")", "]"}
}
