package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BurakErdilli/biznet-analyzer/pkg/client"
)

// newStatsCmd creates the stats command that prints global network
// statistics, or the full analytics of a single node when an ID is given.
func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [node-id]",
		Short: "Show network or node statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return runStats(cmd.Context(), id)
		},
	}
}

func runStats(ctx context.Context, id string) error {
	c, err := client.New(serverFlag)
	if err != nil {
		return err
	}

	if id != "" {
		return printNodeStats(ctx, c, id)
	}

	stop := spinner(ctx, "Fetching network...")
	state, err := c.FetchNetwork(ctx)
	stop()
	if err != nil {
		return err
	}

	printHeader("Network")
	printKeyValue("Nodes", "%d", state.Stats.TotalNodes)
	printKeyValue("Edges", "%d", state.Stats.TotalEdges)
	printKeyValue("Max depth", "%d", state.Stats.MaxDepth)
	printKeyValue("Total value", "%.2f", state.Stats.TotalValue)
	printKeyValue("Total profit", "%.2f", state.Stats.TotalProfit)

	chokepoints := 0
	for _, n := range state.Network.Nodes() {
		if n.IsChokepoint {
			chokepoints++
		}
	}
	printKeyValue("Chokepoints", "%d", chokepoints)
	return nil
}

func printNodeStats(ctx context.Context, c *client.Client, id string) error {
	node, err := c.Insight(ctx, id)
	if err != nil {
		return err
	}

	printHeader(node.ID)
	printKeyValue("Value", "%.2f", node.Value)
	printKeyValue("Profit", "%.2f", node.Profit)
	printKeyValue("Depth", "%d", node.Depth)
	printKeyValue("Children", "%d (subtree %d)", node.ChildrenCount, node.TotalChildren)
	printKeyValue("Criticality", "%.3f", node.Criticality)
	printKeyValue("Balance", "%.3f", node.BalanceScore)
	if node.IsChokepoint {
		printWarning("chokepoint: needs %d more children", node.NeededChildren)
	} else {
		printDetail("not a chokepoint")
	}
	if len(node.Parents) > 0 {
		printKeyValue("Parents", "%s", fmt.Sprint(node.Parents))
	}
	return nil
}
