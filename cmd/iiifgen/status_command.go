package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"iiifgen/internal/ledger"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recent generation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			led, err := ctx.openLedger()
			if err != nil {
				return err
			}
			defer led.Close()

			if runID != "" {
				return printRunResources(cmd, led, runID)
			}
			return printRecentRuns(cmd, led, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of runs to show")
	cmd.Flags().StringVar(&runID, "run", "", "Show the resources one run emitted")
	return cmd
}

func printRecentRuns(cmd *cobra.Command, led *ledger.Store, limit int) error {
	runs, err := led.RecentRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			run.Mode,
			run.Status,
			run.StartedAt.Local().Format(time.DateTime),
			formatElapsed(run),
			strconv.Itoa(run.Collections),
			strconv.Itoa(run.Manifests),
			strconv.Itoa(run.Reused),
			strconv.Itoa(run.Canvases),
		})
	}
	headers := []string{"Run", "Mode", "Status", "Started", "Elapsed", "Colls", "Manifests", "Reused", "Canvases"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight}
	fmt.Fprintln(out, renderTable(headers, rows, aligns))

	for _, run := range runs {
		if run.Error != "" {
			fmt.Fprintf(out, "Run %s failed: %s\n", run.ID, run.Error)
		}
	}
	return nil
}

func printRunResources(cmd *cobra.Command, led *ledger.Store, runID string) error {
	resources, err := led.RunResources(cmd.Context(), runID)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(resources) == 0 {
		fmt.Fprintf(out, "No resources recorded for run %s\n", runID)
		return nil
	}

	rows := make([][]string, 0, len(resources))
	for _, res := range resources {
		rows = append(rows, []string{
			res.Path,
			res.Kind,
			res.Code,
			strconv.Itoa(res.Canvases),
			yesNo(res.Reused),
		})
	}
	headers := []string{"Path", "Kind", "Code", "Canvases", "Reused"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
	fmt.Fprintln(out, renderTable(headers, rows, aligns))
	return nil
}

func formatElapsed(run ledger.Run) string {
	if run.FinishedAt.IsZero() {
		return "-"
	}
	return run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
