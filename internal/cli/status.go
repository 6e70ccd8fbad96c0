package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"earnings-bot/internal/store"
)

func newStatusCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show processed-event records",
		Long:  "Status lists the earnings events that have already been posted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			s, err := store.Open(app.Config.Store.Backend, app.Config.Store.Path)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer s.Close()

			records := s.Records()
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"total":   len(records),
					"records": records,
				})
			}

			output.Info("Processed events: %d", len(records))
			start := 0
			if limit > 0 && len(records) > limit {
				start = len(records) - limit
				output.Dim("(showing last %d)", limit)
			}
			for _, r := range records[start:] {
				output.Printf("  %-8s %s %d  %s\n",
					r.Ticker, r.Period, r.FiscalYear,
					r.ProcessedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "show at most this many recent records (0 for all)")

	return cmd
}
