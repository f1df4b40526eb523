package main

import (
	"fmt"

	"github.com/phil-crm/phil-console/internal/models"
	"github.com/spf13/cobra"
)

func (c *cli) statsCmd() *cobra.Command {
	var period, platform string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the dashboard numbers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if platform != "" {
				result, err := c.app.stats.Platform(ctx, models.Platform(platform), models.ParseStatsPeriod(period))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s, last %s: %d links\n", result.Platform, result.Period, result.Total)
				t := newTable(out)
				t.row("ACTIVE", "REMOVED", "IN WORK", "PENDING", "CANCELLED")
				t.row(result.Active, result.Removed, result.InWork, result.Pending, result.Cancelled)
				return t.Flush()
			}
			dashboard, err := c.app.stats.Dashboard(ctx, models.ParseStatsPeriod(period))
			if err != nil {
				return err
			}
			fmt.Fprintf(
				out,
				"last %s: %d links, %d new, %d removed\n",
				dashboard.Period,
				dashboard.Total,
				dashboard.NewInPeriod,
				dashboard.RemovedInPeriod,
			)
			t := newTable(out)
			t.row("PLATFORM", "TOTAL", "ACTIVE", "REMOVED", "IN WORK", "PENDING", "CANCELLED")
			for _, p := range dashboard.Platforms {
				t.row(p.Platform, p.Total, p.Active, p.Removed, p.InWork, p.Pending, p.Cancelled)
			}
			return t.Flush()
		},
	}
	cmd.Flags().StringVar(&period, "period", string(models.Period30Days), "1d, 7d or 30d")
	cmd.Flags().StringVar(&platform, "platform", "", "show a single platform")
	return cmd
}
