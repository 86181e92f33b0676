package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"iiifgen/internal/generate"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var filterPath string
	var dimensionsPath string

	cmd := &cobra.Command{
		Use:   "generate <ead-file>",
		Short: "Generate the collection hierarchy and inventory manifests from an EAD finding aid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, closeGen, err := newGenerator(ctx)
			if err != nil {
				return err
			}
			defer closeGen()

			runCtx, cancel := signalContext()
			defer cancel()

			result, err := gen.Run(runCtx, generate.Options{
				EADPath:        args[0],
				FilterPath:     filterPath,
				DimensionsPath: dimensionsPath,
			})
			if err != nil {
				return err
			}
			printRunSummary(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&filterPath, "filter", "", "JSON array of inventory numbers to include")
	cmd.Flags().StringVar(&dimensionsPath, "dimensions", "", "Scan dimension dataset (JSON, optionally gzipped)")
	return cmd
}

func newDocumentsCommand(ctx *commandContext) *cobra.Command {
	var dimensionsPath string

	cmd := &cobra.Command{
		Use:   "documents <csv-file>",
		Short: "Generate document manifests from a document metadata CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, closeGen, err := newGenerator(ctx)
			if err != nil {
				return err
			}
			defer closeGen()

			runCtx, cancel := signalContext()
			defer cancel()

			result, err := gen.Run(runCtx, generate.Options{
				CSVPath:        args[0],
				DimensionsPath: dimensionsPath,
			})
			if err != nil {
				return err
			}
			printRunSummary(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&dimensionsPath, "dimensions", "", "Scan dimension dataset (JSON, optionally gzipped)")
	return cmd
}

func newGenerator(ctx *commandContext) (*generate.Generator, func(), error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	led, err := ctx.openLedger()
	if err != nil {
		return nil, nil, err
	}
	gen, err := generate.New(cfg, led, logger)
	if err != nil {
		_ = led.Close()
		return nil, nil, err
	}
	return gen, func() { _ = led.Close() }, nil
}

func printRunSummary(cmd *cobra.Command, result generate.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s completed\n", result.RunID)
	fmt.Fprintf(out, "  collections: %d\n", result.Counts.Collections)
	fmt.Fprintf(out, "  manifests:   %d (%d reused)\n", result.Counts.Manifests, result.Counts.Reused)
	fmt.Fprintf(out, "  canvases:    %d\n", result.Counts.Canvases)
}
