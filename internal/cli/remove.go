package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/BurakErdilli/biznet-analyzer/pkg/client"
)

// newRemoveCmd creates the remove command. A single argument removes one
// leaf node; multiple arguments are removed as one atomic batch, so either
// all of them disappear or none do.
func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID...",
		Short: "Remove leaf nodes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd.Context(), args)
		},
	}
}

func runRemove(ctx context.Context, ids []string) error {
	c, err := client.New(serverFlag)
	if err != nil {
		return err
	}

	if len(ids) == 1 {
		if err := c.RemoveNode(ctx, ids[0]); err != nil {
			return err
		}
		printSuccess("Removed %s", ids[0])
		return nil
	}

	if err := c.BulkDelete(ctx, ids); err != nil {
		return err
	}
	printSuccess("Removed %d nodes", len(ids))
	return nil
}
