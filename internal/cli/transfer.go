package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/BurakErdilli/biznet-analyzer/pkg/client"
)

// newExportCmd creates the export command that downloads the current
// network snapshot. With no --output the snapshot goes to stdout.
func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the network snapshot as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func runExport(ctx context.Context, output string) error {
	c, err := client.New(serverFlag)
	if err != nil {
		return err
	}

	data, err := c.Export(ctx)
	if err != nil {
		return err
	}

	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return err
	}
	printSuccess("Exported %s", output)
	return nil
}

// newImportCmd creates the import command that replaces the server's
// network with a snapshot file. The previous network is discarded, so the
// server validates the file before committing.
func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the network from a snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), args[0])
		},
	}
}

func runImport(ctx context.Context, path string) error {
	c, err := client.New(serverFlag)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := c.Import(ctx, data); err != nil {
		return err
	}
	printSuccess("Imported %s", path)
	return nil
}
