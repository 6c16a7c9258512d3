package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/BurakErdilli/biznet-analyzer/internal/config"
	"github.com/BurakErdilli/biznet-analyzer/pkg/client"
	"github.com/BurakErdilli/biznet-analyzer/pkg/layout"
	"github.com/BurakErdilli/biznet-analyzer/pkg/view"
)

// newViewCmd creates the view command that opens an interactive terminal
// browser for the network hierarchy. Subtrees can be grabbed and dragged
// around; positions live only in the session and are never sent back.
//
// Layout defaults come from the [render] section of the config file;
// --direction overrides the configured direction.
func newViewCmd() *cobra.Command {
	var configPath, direction string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse the network tree interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("direction") {
				direction = ""
			}
			return runView(cmd.Context(), configPath, direction)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
	cmd.Flags().StringVarP(&direction, "direction", "d", "TB", "layout direction: TB (default), LR")

	return cmd
}

func runView(ctx context.Context, configPath, direction string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	c, err := client.New(serverFlag)
	if err != nil {
		return err
	}

	stop := spinner(ctx, "Fetching network...")
	state, err := c.FetchNetwork(ctx)
	stop()
	if err != nil {
		return err
	}

	opts := cfg.LayoutOptions()
	if direction != "" {
		opts.Direction = layout.ParseDirection(direction)
	}

	m := view.New(opts)
	m.Apply(m.NextSeq(), state.Network)

	_, err = tea.NewProgram(newTreeModel(m)).Run()
	return err
}
