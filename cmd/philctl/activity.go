package main

import (
	"fmt"

	"github.com/phil-crm/phil-console/internal/activity"
	"github.com/phil-crm/phil-console/internal/models"
	"github.com/spf13/cobra"
)

func (c *cli) activityCmd() *cobra.Command {
	var linkID, action, entityType string
	var pages int
	filter := activity.Filter{}
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the audit log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			filter.Action = models.ActivityAction(action)
			filter.EntityType = models.EntityType(entityType)
			pager := c.app.activity.NewPager(filter)
			if linkID != "" {
				pager = c.app.activity.NewLinkPager(linkID)
			}
			err := pager.Load(ctx)
			if err != nil {
				return err
			}
			for loaded := 1; loaded < pages && pager.HasMore(); loaded++ {
				if err := pager.LoadMore(ctx); err != nil {
					return err
				}
			}
			t := newTable(cmd.OutOrStdout())
			t.row("TIME", "USER", "ACTION", "ENTITY", "ID")
			for _, record := range pager.Items() {
				t.row(record.Timestamp, record.Username, record.Action, record.EntityType, record.EntityID)
			}
			if err := t.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d records\n", len(pager.Items()), pager.Count())
			return nil
		},
	}
	cmd.Flags().StringVar(&linkID, "link", "", "only the history of this link")
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load")
	cmd.Flags().Int64Var(&filter.User, "user", 0, "only actions of this user id")
	cmd.Flags().StringVar(&action, "action", "", "only this action")
	cmd.Flags().StringVar(&entityType, "entity", "", "only this entity type (link or manager)")
	cmd.Flags().StringVar(&filter.DateFrom, "from", "", "on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&filter.DateTo, "to", "", "on or before this date (YYYY-MM-DD)")
	return cmd
}
