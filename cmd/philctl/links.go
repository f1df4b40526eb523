package main

import (
	"fmt"

	"github.com/phil-crm/phil-console/internal/links"
	"github.com/phil-crm/phil-console/internal/models"
	"github.com/spf13/cobra"
)

func (c *cli) linksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links",
		Short: "List and update tracked links",
	}
	cmd.AddCommand(c.linksListCmd(), c.linksMoveCmd(), c.linksBulkStatusCmd(), c.linksBulkAssignCmd())
	return cmd
}

func (c *cli) linksListCmd() *cobra.Command {
	var platform, status, priority string
	var board bool
	filter := links.Filter{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List links matching the filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter.Platform = models.Platform(platform)
			filter.Status = models.Status(status)
			filter.Priority = models.Priority(priority)
			view, err := c.app.linksView(filter)
			if err != nil {
				return err
			}
			err = view.Refetch(cmd.Context())
			if err != nil {
				return err
			}
			if !board {
				return writeLinks(cmd.OutOrStdout(), view.Links())
			}
			columns := view.ByStatus()
			for _, status := range models.Statuses {
				fmt.Fprintf(cmd.OutOrStdout(), "== %s (%d)\n", status, len(columns[status]))
				if err := writeLinks(cmd.OutOrStdout(), columns[status]); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&platform, "platform", "", "only links of this platform")
	cmd.Flags().StringVar(&status, "status", "", "only links with this status")
	cmd.Flags().StringVar(&priority, "priority", "", "only links with this priority")
	cmd.Flags().StringVar(&filter.ManagerID, "manager", "", "only links assigned to this manager id")
	cmd.Flags().StringVar(&filter.Search, "search", "", "only links whose URL contains this text")
	cmd.Flags().StringVar(&filter.DateFrom, "from", "", "detected on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&filter.DateTo, "to", "", "detected on or before this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&board, "board", false, "group the links by status")
	return cmd
}

func (c *cli) linksMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <status>",
		Short: "Move a link to another status",
		Long: `Move a link to another status. The change is shown right away and confirmed by the
backend afterwards. When the backend rejects it the links are reloaded and printed as
the backend has them.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			view, err := c.app.linksView(links.Filter{})
			if err != nil {
				return err
			}
			err = view.Refetch(ctx)
			if err != nil {
				return err
			}
			if _, found := view.Link(args[0]); !found {
				return fmt.Errorf("link %s: %w", args[0], errLinkNotListed)
			}
			updated, err := view.MoveStatus(ctx, args[0], models.Status(args[1]))
			if err != nil {
				current, _ := view.Link(args[0])
				fmt.Fprintf(cmd.ErrOrStderr(), "move rejected, link %s is %s\n", current.ID, current.Status)
				return err
			}
			return writeLinks(cmd.OutOrStdout(), []models.Link{updated})
		},
	}
}

func (c *cli) linksBulkStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bulk-status <status> <id>...",
		Short: "Set the status of several links",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := c.app.linksView(links.Filter{})
			if err != nil {
				return err
			}
			err = view.BulkUpdateStatus(cmd.Context(), args[1:], models.Status(args[0]))
			if err != nil {
				return err
			}
			return writeLinks(cmd.OutOrStdout(), selected(view.Links(), args[1:]))
		},
	}
}

func (c *cli) linksBulkAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bulk-assign <manager-id> <id>...",
		Short: "Assign several links to a manager",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := c.app.linksView(links.Filter{})
			if err != nil {
				return err
			}
			err = view.BulkAssignManager(cmd.Context(), args[1:], args[0])
			if err != nil {
				return err
			}
			return writeLinks(cmd.OutOrStdout(), selected(view.Links(), args[1:]))
		},
	}
}

var errLinkNotListed = fmt.Errorf("not found in the current links")

func selected(all []models.Link, ids []string) []models.Link {
	wanted := map[string]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	result := []models.Link{}
	for _, link := range all {
		if wanted[link.ID] {
			result = append(result, link)
		}
	}
	return result
}
