package main

import (
	"encoding/json"
	"io"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/octobees/contact-enricher/internal/dto"
	"github.com/octobees/contact-enricher/internal/enrichment"
)

var (
	runUser     string
	runServices []string
	runFrom     string
	runMaxPages int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Page through a user's contacts until the enrichment job reports done",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnrichment(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		req := dto.BulkEnrichRequest{LastID: runFrom, Services: runServices}
		out := cmd.OutOrStdout()
		var writeErr error
		cursor, err := env.Service.RunUntilDone(ctx, runUser, req, runMaxPages, func(page *enrichment.BatchResult) {
			if writeErr == nil {
				writeErr = writePage(out, page)
			}
		})
		if err != nil {
			zap.L().Error("enrichment run stopped", zap.String("cursor", cursor), zap.Error(err))
			return eris.Wrapf(err, "run: stopped at cursor %q", cursor)
		}
		if writeErr != nil {
			return eris.Wrap(writeErr, "run: write page")
		}

		zap.L().Info("enrichment run finished", zap.String("cursor", cursor))
		return nil
	},
}

// writePage emits one batch result as a single JSON line.
func writePage(w io.Writer, page *enrichment.BatchResult) error {
	return json.NewEncoder(w).Encode(page)
}

func init() {
	runCmd.Flags().StringVar(&runUser, "user", "", "owner id whose contacts are enriched")
	runCmd.Flags().StringSliceVar(&runServices, "services", nil, "providers to run (hunter, apollo, lusha); empty means all")
	runCmd.Flags().StringVar(&runFrom, "from", "", "resume after this contact id")
	runCmd.Flags().IntVar(&runMaxPages, "max-pages", 0, "stop after this many pages (0 means until done)")
	_ = runCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(runCmd)
}
