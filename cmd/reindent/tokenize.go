package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"reindent/internal/config"
	"reindent/internal/driver"
	"reindent/internal/token"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file",
	Short: "Print the tokens of a file or of one line",
	Long:  `Tokenize lexes a file with the defines of its project and prints every token.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Int("line", 0, "tokenize only this 1-based line")
	tokenizeCmd.Flags().Bool("braces", false, "also print bracket pairs")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	line, err := cmd.Flags().GetInt("line")
	if err != nil {
		return fmt.Errorf("failed to get line flag: %w", err)
	}
	braces, err := cmd.Flags().GetBool("braces")
	if err != nil {
		return fmt.Errorf("failed to get braces flag: %w", err)
	}

	result, err := driver.Tokenize(cmd.Context(), args[0], driver.TokenizeOptions{
		Line:   line,
		Braces: braces,
		Store:  config.NewStore(),
	})
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Диагностика в stderr
	warn := color.New(color.FgYellow).SprintFunc()
	for _, d := range result.Diagnostics {
		pos := result.File.Position(d.Span.Start)
		fmt.Fprintf(os.Stderr, "%s:%d:%d: %s %s\n", result.File.Path, pos.Line, pos.Col, warn(d.Kind), d.Message)
	}

	switch format {
	case "pretty":
		return formatTokensPretty(os.Stdout, result)
	case "json":
		return formatTokensJSON(os.Stdout, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// formatTokensPretty выводит токены в человекочитаемом формате
func formatTokensPretty(w io.Writer, res *driver.TokenizeResult) error {
	if names := res.Defines.Names(); len(names) > 0 {
		fmt.Fprintf(w, "defines: %s\n", strings.Join(names, ", "))
	}
	kindColor := color.New(color.FgCyan).SprintFunc()
	for i, tok := range res.Tokens {
		start := res.File.Position(tok.Span.Start)
		end := res.File.Position(tok.Span.End)
		kind := runewidth.FillRight(tok.Kind.String(), 15)
		fmt.Fprintf(w, "%3d: %s", i+1, kindColor(kind))
		if tok.Text != "" && !tok.IsTrivia() {
			fmt.Fprintf(w, " %s", runewidth.FillRight(fmt.Sprintf("%q", tok.Text), 12))
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d\n", start.Line, start.Col, end.Line, end.Col)
		if tok.Kind == token.EOF {
			break
		}
	}
	if res.Braces == nil {
		return nil
	}
	fmt.Fprintln(w, "brackets:")
	for _, p := range res.Braces.Pairs {
		fmt.Fprintf(w, "  %s %d:%d .. %d:%d\n", p.Kind, p.OpenPos.Line, p.OpenPos.Col, p.ClosePos.Line, p.ClosePos.Col)
	}
	bad := color.New(color.FgRed).SprintFunc()
	for _, sp := range res.Braces.Unmatched {
		pos := res.File.Position(sp.Start)
		fmt.Fprintf(w, "  %s %q at %d:%d\n", bad("unmatched"), string(res.File.Content[sp.Start:sp.End]), pos.Line, pos.Col)
	}
	return nil
}

type tokenOutput struct {
	Kind  string `json:"kind"`
	Text  string `json:"text"`
	Line  uint32 `json:"line"`
	Col   uint32 `json:"col"`
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

type pairOutput struct {
	Kind  string `json:"kind"`
	Open  uint32 `json:"open"`
	Close uint32 `json:"close"`
}

type tokenizeOutput struct {
	File      string        `json:"file"`
	Defines   []string      `json:"defines,omitempty"`
	Tokens    []tokenOutput `json:"tokens"`
	Pairs     []pairOutput  `json:"pairs,omitempty"`
	Unmatched []uint32      `json:"unmatched,omitempty"`
}

// formatTokensJSON выводит токены в JSON формате
func formatTokensJSON(w io.Writer, res *driver.TokenizeResult) error {
	out := tokenizeOutput{
		File:    res.File.Path,
		Defines: res.Defines.Names(),
		Tokens:  make([]tokenOutput, 0, len(res.Tokens)),
	}
	for _, tok := range res.Tokens {
		out.Tokens = append(out.Tokens, tokenOutput{
			Kind:  tok.Kind.String(),
			Text:  tok.Text,
			Line:  tok.Line,
			Col:   tok.Col,
			Start: tok.Span.Start,
			End:   tok.Span.End,
		})
	}
	if res.Braces != nil {
		for _, p := range res.Braces.Pairs {
			out.Pairs = append(out.Pairs, pairOutput{Kind: p.Kind.String(), Open: p.Open.Start, Close: p.Close.Start})
		}
		for _, sp := range res.Braces.Unmatched {
			out.Unmatched = append(out.Unmatched, sp.Start)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
