package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BurakErdilli/biznet-analyzer/pkg/client"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string // output file path; derived from format when empty
	direction string // hierarchy direction: "TB" or "LR"
	format    string // output format: "svg" or "png"
	detailed  bool   // include metrics in node labels
}

// newRenderCmd creates the render command that asks the server for a
// drawing of the current network and writes it to a file.
func newRenderCmd() *cobra.Command {
	opts := renderOpts{direction: "TB", format: "svg"}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the network to SVG or PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.format = strings.ToLower(opts.format)
			if opts.format != "svg" && opts.format != "png" {
				return fmt.Errorf("invalid format: %s (must be 'svg' or 'png')", opts.format)
			}
			return runRenderCmd(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default network.<format>)")
	cmd.Flags().StringVarP(&opts.direction, "direction", "d", opts.direction, "layout direction: TB (default), LR")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), png")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include value, profit and criticality in labels")

	return cmd
}

func runRenderCmd(ctx context.Context, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	c, err := client.New(serverFlag)
	if err != nil {
		return err
	}

	stop := spinner(ctx, "Rendering network...")
	p := newProgress(logger)
	data, err := c.Render(ctx, client.RenderOptions{
		Direction: opts.direction,
		Format:    opts.format,
		Detailed:  opts.detailed,
	})
	stop()
	if err != nil {
		return err
	}
	p.done("Rendered")
	logger.Debugf("Received %d bytes", len(data))

	path := opts.output
	if path == "" {
		path = "network." + opts.format
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	printSuccess("Generated %s", path)
	return nil
}
