package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"reindent/internal/corpus"
)

var replayCmd = &cobra.Command{
	Use:   "replay [flags] corpus [corpus...]",
	Short: "Replay recorded formatting requests and report answers that changed",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runReplay,
}

func runReplay(cmd *cobra.Command, args []string) error {
	cmd.SilenceErrors = true
	out := cmd.OutOrStdout()
	red := color.New(color.FgRed).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	var total, failed int
	for _, path := range args {
		cases, err := corpus.ReadFile(path)
		if err != nil {
			return err
		}
		mismatches, err := corpus.Replay(cmd.Context(), cases, nil)
		if err != nil {
			return err
		}
		total += len(cases)
		failed += len(mismatches)
		for _, m := range mismatches {
			fmt.Fprintf(out, "%s %s: %s\n", red("FAIL"), path, m)
		}
	}

	if failed > 0 {
		return fmt.Errorf("replay: %d of %d cases changed", failed, total)
	}
	if !quietFlag(cmd) {
		fmt.Fprintf(out, "%s %d cases\n", green("ok"), total)
	}
	return nil
}
