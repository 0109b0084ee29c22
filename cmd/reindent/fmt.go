package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"reindent/internal/config"
	"reindent/internal/driver"
	"reindent/internal/observ"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] <path> [path...]",
	Short: "Reformat source files with the pretty-printer",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFmt,
}

func init() {
	fmtCmd.Flags().Bool("check", false, "report files that need formatting without rewriting them")
	fmtCmd.Flags().String("format", "text", "output format (text|json)")
	fmtCmd.Flags().Bool("stdout", false, "print formatted code to stdout instead of rewriting files")
	fmtCmd.Flags().Bool("verify", false, "check that formatting is idempotent and token-preserving")
	fmtCmd.Flags().Int("jobs", 0, "parallel jobs (0 = GOMAXPROCS)")
	fmtCmd.Flags().String("ui", "off", "progress display (auto|on|off)")
	fmtCmd.Flags().Bool("timings", false, "print per-stage timings to stderr")
}

func runFmt(cmd *cobra.Command, args []string) error {
	cmd.SilenceErrors = true

	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	outputFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	writeToStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return err
	}
	verify, err := cmd.Flags().GetBool("verify")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	timings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return err
	}

	if writeToStdout && check {
		return errors.New("fmt: --stdout cannot be used with --check")
	}
	if writeToStdout && outputFormat != "text" {
		return errors.New("fmt: --stdout is only supported with text output")
	}
	quiet := quietFlag(cmd)

	opts := driver.FormatOptions{
		Check:  check,
		Stdout: writeToStdout,
		Verify: verify,
		Jobs:   jobs,
		Store:  config.NewStore(),
	}
	if timings {
		opts.Timings = observ.NewTotals()
		defer func() { fmt.Fprint(os.Stderr, opts.Timings.Report().Summary()) }()
	}

	var results []driver.FormatResult
	// прогресс только когда stdout свободен
	if !writeToStdout && !quiet && outputFormat == "text" && shouldUseTUI(mode) {
		files, collectErr := driver.CollectSourceFiles(cmd.Context(), opts.Store, args)
		if collectErr != nil {
			return collectErr
		}
		if len(files) == 0 {
			return driver.ErrNoFiles
		}
		results, err = runFormatWithUI(cmd.Context(), files, opts)
	} else {
		results, err = driver.FormatPaths(cmd.Context(), args, opts)
	}
	if err != nil {
		return err
	}

	var hasErrors, hasChanges bool
	switch outputFormat {
	case "text":
		if writeToStdout {
			hasErrors = renderFmtStdout(os.Stdout, results)
			break
		}
		hasErrors, hasChanges = renderFmtText(os.Stdout, results, check, quiet)
	case "json":
		hasErrors, hasChanges, err = renderFmtJSON(os.Stdout, results, check)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("fmt: unsupported output format %q", outputFormat)
	}

	if hasErrors {
		return errors.New("fmt: failed to format some files")
	}
	if check && hasChanges {
		return errors.New("fmt: formatting changes required")
	}
	return nil
}

func renderFmtStdout(w io.Writer, results []driver.FormatResult) (hasErrors bool) {
	for _, res := range results {
		if res.Err != nil {
			hasErrors = true
			fmt.Fprintf(os.Stderr, "fmt: %v\n", res.Err)
			continue
		}
		_, _ = w.Write(res.Formatted)
	}
	return hasErrors
}

func renderFmtText(w io.Writer, results []driver.FormatResult, check, quiet bool) (hasErrors, hasChanges bool) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	for _, res := range results {
		if res.Err != nil {
			hasErrors = true
			fmt.Fprintf(os.Stderr, "%s %v\n", red("fmt:"), res.Err)
			continue
		}
		if !res.Changed {
			continue
		}
		hasChanges = true
		if quiet {
			continue
		}
		if check {
			fmt.Fprintln(w, res.Path)
			continue
		}
		fmt.Fprintf(w, "%s %s\n", yellow("reformatted"), res.Path)
	}
	return hasErrors, hasChanges
}

func renderFmtJSON(w io.Writer, results []driver.FormatResult, check bool) (hasErrors, hasChanges bool, err error) {
	type jsonResult struct {
		Path     string `json:"path"`
		Changed  bool   `json:"changed"`
		Error    string `json:"error,omitempty"`
		CheckRun bool   `json:"check"`
	}
	out := make([]jsonResult, 0, len(results))
	for _, res := range results {
		item := jsonResult{Path: res.Path, Changed: res.Changed, CheckRun: check}
		if res.Err != nil {
			item.Error = res.Err.Error()
			hasErrors = true
		}
		if res.Changed {
			hasChanges = true
		}
		out = append(out, item)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return hasErrors, hasChanges, enc.Encode(out)
}
