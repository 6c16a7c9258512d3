package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/BurakErdilli/biznet-analyzer/pkg/client"
)

// addOpts holds the command-line flags for the add command.
type addOpts struct {
	parent  string  // parent node ID; empty targets the root slot
	id      string  // explicit node ID; empty lets the server generate one
	value   float64 // business value
	hasVal  bool    // whether --value was given
	subtree string  // path to a JSON payload to graft instead of a single node
}

// newAddCmd creates the add command. Without flags it creates the network
// root; with --parent it attaches a child. A JSON file given via --subtree
// is grafted wholesale under the parent.
func newAddCmd() *cobra.Command {
	var opts addOpts

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a node or graft a subtree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.hasVal = cmd.Flags().Changed("value")
			return runAdd(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.parent, "parent", "p", "", "parent node ID (empty creates the root)")
	cmd.Flags().StringVar(&opts.id, "id", "", "node ID (generated when empty)")
	cmd.Flags().Float64Var(&opts.value, "value", 0, "business value of the node")
	cmd.Flags().StringVar(&opts.subtree, "subtree", "", "JSON payload file to graft under --parent")

	return cmd
}

func runAdd(ctx context.Context, opts *addOpts) error {
	c, err := client.New(serverFlag)
	if err != nil {
		return err
	}

	if opts.subtree != "" {
		if opts.parent == "" {
			return fmt.Errorf("--subtree requires --parent")
		}
		data, err := os.ReadFile(opts.subtree)
		if err != nil {
			return err
		}
		if err := c.AddSubtree(ctx, opts.parent, data); err != nil {
			return err
		}
		printSuccess("Grafted %s under %s", opts.subtree, opts.parent)
		return nil
	}

	var value *float64
	if opts.hasVal {
		value = &opts.value
	}
	id, err := c.AddNode(ctx, opts.parent, opts.id, value)
	if err != nil {
		return err
	}
	printSuccess("Added %s", id)
	return nil
}
