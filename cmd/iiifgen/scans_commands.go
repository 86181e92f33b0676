package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"iiifgen/internal/mets"
)

func newScansCommand(ctx *commandContext) *cobra.Command {
	scansCmd := &cobra.Command{
		Use:   "scans",
		Short: "Inspect and manage the METS scan cache",
	}

	scansCmd.AddCommand(newScansListCommand(ctx))
	scansCmd.AddCommand(newScansClearCommand(ctx))
	scansCmd.AddCommand(newScansFetchCommand(ctx))
	return scansCmd
}

func newScansListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached METS documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			ids, err := mets.NewCache(cfg.Paths.METSCacheDir).List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintln(out, "Cache is empty")
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			fmt.Fprintf(out, "%d cached document(s)\n", len(ids))
			return nil
		},
	}
}

func newScansClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached METS documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cache := mets.NewCache(cfg.Paths.METSCacheDir)
			ids, err := cache.List()
			if err != nil {
				return err
			}
			if err := cache.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached document(s)\n", len(ids))
			return nil
		},
	}
}

func newScansFetchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <mets-id>",
		Short: "Resolve and display the scans of one METS document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			client, err := mets.NewClient(cfg.METS.BaseURL,
				mets.WithTimeout(time.Duration(cfg.METS.TimeoutSeconds)*time.Second),
				mets.WithRateLimit(cfg.METS.RequestsPerSecond),
			)
			if err != nil {
				return err
			}
			resolver := mets.NewResolver(client, mets.NewCache(cfg.Paths.METSCacheDir), logger)

			runCtx, cancel := signalContext()
			defer cancel()

			scans, err := resolver.Scans(runCtx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(scans) == 0 {
				fmt.Fprintln(out, "No scans")
				return nil
			}
			rows := make([][]string, 0, len(scans))
			for i, scan := range scans {
				rows = append(rows, []string{
					fmt.Sprintf("%d", i+1),
					scan.FileName,
					scan.ImageServiceURL,
				})
			}
			headers := []string{"#", "File", "Image service"}
			aligns := []columnAlignment{alignRight, alignLeft, alignLeft}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}
}
