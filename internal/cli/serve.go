package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/BurakErdilli/biznet-analyzer/internal/config"
	"github.com/BurakErdilli/biznet-analyzer/internal/server"
	"github.com/BurakErdilli/biznet-analyzer/pkg/store"
)

// newServeCmd creates the serve command that runs the HTTP API server.
//
// Configuration is read from a TOML file when --config is given; otherwise
// built-in defaults apply (listen on :8080, file storage in network.json).
// The --addr flag overrides the configured listen address.
func newServeCmd() *cobra.Command {
	var configPath, addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the analyzer HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath, addr)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

func runServe(ctx context.Context, configPath, addr string) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	st, err := store.Open(ctx, cfg.StoreConfig())
	if err != nil {
		return err
	}
	defer st.Close()
	logger.Debugf("Opened %s storage", cfg.Storage.Backend)

	srv, err := server.New(ctx, cfg, st, logger)
	if err != nil {
		return err
	}

	logger.Infof("Listening on %s", cfg.Server.Addr)
	return srv.ListenAndServe(ctx)
}
