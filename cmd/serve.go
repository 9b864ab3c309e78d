package cmd

import (
	"github.com/spf13/cobra"

	"github.com/signalnine/algolens/internal/server"
)

var flagAddr string

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			addr := a.cfg.Server.Addr
			if flagAddr != "" {
				addr = flagAddr
			}
			ctx, stop := withInterrupt(cmd.Context())
			defer stop()
			return server.New(a.newPipeline(a.cfg.Server.APIDelays), a.advisor, a.metrics, a.logger.Named("server")).Run(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (default: from config)")
	return cmd
}
