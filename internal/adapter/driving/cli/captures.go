package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/formpanel/internal/domain/model"
)

const capturedAtDisplayLayout = "2006-01-02 15:04:05"

func (a *app) newCapturesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "captures",
		Short: "Inspect and prune the capture log",
	}

	cmd.AddCommand(
		a.newCapturesListCommand(),
		a.newCapturesStatsCommand(),
		a.newCapturesPurgeCommand(),
	)
	return cmd
}

func (a *app) newCapturesListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the most recent capture records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 1 {
				return errors.New("--limit must be at least 1")
			}

			log, closeLog, err := a.openLog(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLog() //nolint:errcheck

			recs, err := log.ListRecent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list captures: %w", err)
			}

			p := a.printer(cmd)
			if len(recs) == 0 {
				p.Print("No captures recorded.")
				return nil
			}

			rows := make([][]string, 0, len(recs))
			for _, rec := range recs {
				rows = append(rows, captureRow(p, rec))
			}
			return renderTable(cmd.OutOrStdout(), []string{"ID", "Form", "Identifier", "Secret", "Captured At"}, rows)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of records to show")
	return cmd
}

func captureRow(p *printer, rec model.CaptureRecord) []string {
	secret := rec.Secret
	switch {
	case rec.SecretUnreadable:
		secret = p.Dim(secret + " (unreadable)")
	case rec.SecretRedacted:
		secret = p.Dim(secret)
	}
	return []string{
		rec.ID.String(),
		string(rec.Form),
		rec.Identifier,
		secret,
		rec.CapturedAt.Local().Format(capturedAtDisplayLayout),
	}
}

func (a *app) newCapturesStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count capture records per form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, closeLog, err := a.openLog(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLog() //nolint:errcheck

			stats, err := log.CountByForm(cmd.Context())
			if err != nil {
				return fmt.Errorf("count captures: %w", err)
			}

			rows := [][]string{
				{model.FormSignUp.Label(), strconv.FormatInt(stats.SignUp, 10)},
				{model.FormLogIn.Label(), strconv.FormatInt(stats.LogIn, 10)},
			}
			return renderTable(cmd.OutOrStdout(), []string{"Form", "Captures"}, rows)
		},
	}
}

func (a *app) newCapturesPurgeCommand() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete capture records older than a duration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if olderThan <= 0 {
				return errors.New("--older-than must be positive")
			}

			log, closeLog, err := a.openLog(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLog() //nolint:errcheck

			n, err := log.Purge(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return fmt.Errorf("purge captures: %w", err)
			}

			a.printer(cmd).Success("purged %d capture records", n)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 720*time.Hour, "age beyond which records are deleted")
	return cmd
}
