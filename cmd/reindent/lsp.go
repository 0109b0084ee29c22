package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"reindent/internal/corpus"
	"reindent/internal/logging"
	"reindent/internal/lsp"
	"reindent/internal/version"
)

var lspCmd = &cobra.Command{
	Use:          "lsp",
	Short:        "Run the formatting language server over stdio",
	SilenceUsage: true,
	RunE:         runLSP,
}

func init() {
	lspCmd.Flags().String("record", "", "append every answered formatting request to this corpus file")
}

func runLSP(cmd *cobra.Command, _ []string) error {
	record, err := cmd.Flags().GetString("record")
	if err != nil {
		return err
	}
	logger := logging.FromContext(cmd.Context())

	opts := lsp.ServerOptions{Logger: logger, Version: version.Version}
	if record != "" {
		w, err := corpus.Create(record)
		if err != nil {
			return err
		}
		defer func() {
			if err := w.Close(); err != nil {
				logger.Error("closing corpus", logging.FieldPath, record, logging.FieldError, err)
			}
			logger.Info("corpus recorded", logging.FieldPath, record, "cases", w.Count())
		}()
		opts.Recorder = w
	}

	server := lsp.NewServer(os.Stdin, os.Stdout, opts)
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		return err
	}
	return nil
}
