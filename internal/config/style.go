package config

import (
	"fmt"
	"strings"
)

// IndentStyle is the editor's indentation mode. Only IndentStyleSmart enables
// the closing-bracket aligner.
type IndentStyle uint8

const (
	IndentStyleNone IndentStyle = iota
	IndentStyleBlock
	IndentStyleSmart
)

func (s IndentStyle) String() string {
	switch s {
	case IndentStyleNone:
		return "none"
	case IndentStyleBlock:
		return "block"
	case IndentStyleSmart:
		return "smart"
	default:
		return fmt.Sprintf("IndentStyle(%d)", uint8(s))
	}
}

// ParseIndentStyle converts a name into an IndentStyle.
func ParseIndentStyle(s string) (IndentStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return IndentStyleNone, nil
	case "block":
		return IndentStyleBlock, nil
	case "smart", "":
		return IndentStyleSmart, nil
	default:
		return IndentStyleSmart, fmt.Errorf("invalid indent style %q (expected: none|block|smart)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s IndentStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler; used by both TOML and JSON decoding.
func (s *IndentStyle) UnmarshalText(text []byte) error {
	v, err := ParseIndentStyle(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
