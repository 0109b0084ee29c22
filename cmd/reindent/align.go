package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"reindent/internal/config"
	"reindent/internal/driver"
	"reindent/internal/formatting"
)

var alignCmd = &cobra.Command{
	Use:   "align [flags] file",
	Short: "Simulate a typed character or Return at a caret and print the edits",
	Long: `align loads a file, places the caret at --line/--col and asks the
formatting service what an editor would change after the given key.`,
	Args: cobra.ExactArgs(1),
	RunE: runAlign,
}

func init() {
	alignCmd.Flags().Int("line", 0, "1-based caret line")
	alignCmd.Flags().Int("col", 1, "1-based byte column of the caret")
	alignCmd.Flags().String("char", "}", "typed character")
	alignCmd.Flags().Bool("return", false, "simulate Return instead of a typed character")
	alignCmd.Flags().Bool("apply", false, "write the result back to the file")
	alignCmd.Flags().Bool("print", false, "print the resulting file instead of the edits")
	_ = alignCmd.MarkFlagRequired("line")
}

func runAlign(cmd *cobra.Command, args []string) error {
	line, err := cmd.Flags().GetInt("line")
	if err != nil {
		return err
	}
	col, err := cmd.Flags().GetInt("col")
	if err != nil {
		return err
	}
	charFlag, err := cmd.Flags().GetString("char")
	if err != nil {
		return err
	}
	onReturn, err := cmd.Flags().GetBool("return")
	if err != nil {
		return err
	}
	apply, err := cmd.Flags().GetBool("apply")
	if err != nil {
		return err
	}
	printFile, err := cmd.Flags().GetBool("print")
	if err != nil {
		return err
	}

	trigger := formatting.OnReturn()
	if !onReturn {
		r, size := utf8.DecodeRuneInString(charFlag)
		if r == utf8.RuneError || size != len(charFlag) {
			return errors.New("align: --char must be exactly one character")
		}
		trigger = formatting.OnChar(r)
	}

	res, err := driver.Align(cmd.Context(), args[0], driver.AlignOptions{
		Line:    line,
		Col:     col,
		Trigger: trigger,
		Apply:   apply,
		Store:   config.NewStore(),
	})
	if err != nil {
		return err
	}
	if printFile {
		_, err = os.Stdout.Write(res.Output)
		return err
	}
	return renderAlign(os.Stdout, res, quietFlag(cmd))
}

func renderAlign(w io.Writer, res *driver.AlignResult, quiet bool) error {
	if len(res.Edits) == 0 {
		if !quiet {
			_, err := fmt.Fprintln(w, "no edit")
			return err
		}
		return nil
	}
	dim := color.New(color.Faint).SprintFunc()
	for _, e := range res.Edits {
		start := res.File.Position(e.Span.Start)
		end := res.File.Position(e.Span.End)
		if _, err := fmt.Fprintf(w, "%d:%d-%d:%d %q -> %q", start.Line, start.Col, end.Line, end.Col, e.OldText, e.NewText); err != nil {
			return err
		}
		if e.Noop() {
			fmt.Fprint(w, dim(" (unchanged)"))
		}
		fmt.Fprintln(w)
	}
	if res.Written && !quiet {
		fmt.Fprintf(w, "wrote %s\n", res.File.Path)
	}
	return nil
}
