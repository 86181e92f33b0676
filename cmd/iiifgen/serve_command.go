package main

import (
	"strings"

	"github.com/spf13/cobra"

	"iiifgen/internal/preview"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated output tree for local preview",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			addr := strings.TrimSpace(bind)
			if addr == "" {
				addr = cfg.Serve.Bind
			}
			server, err := preview.New(addr, cfg.Paths.OutputDir, logger)
			if err != nil {
				return err
			}

			runCtx, cancel := signalContext()
			defer cancel()
			return server.ListenAndServe(runCtx)
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (defaults to serve.bind from config)")
	return cmd
}
