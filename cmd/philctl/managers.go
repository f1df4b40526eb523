package main

import (
	"github.com/phil-crm/phil-console/internal/managers"
	"github.com/spf13/cobra"
)

func (c *cli) managersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "managers",
		Short: "Manage the people links are assigned to",
	}
	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List the active managers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.app.managers.List(cmd.Context())
			if err != nil {
				return err
			}
			if !all {
				result = managers.Active(result)
			}
			t := newTable(cmd.OutOrStdout())
			t.row("ID", "NAME", "EMAIL", "ACTIVE")
			for _, manager := range result {
				t.row(manager.ID, manager.Name, manager.Email, manager.IsActive)
			}
			return t.Flush()
		},
	}
	list.Flags().BoolVar(&all, "all", false, "include deactivated managers")
	cmd.AddCommand(list)
	return cmd
}
