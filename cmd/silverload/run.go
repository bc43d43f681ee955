package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/silverload/internal/core"
)

var errRefreshFailed = errors.New("refresh failed")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one full refresh and print the per-table report",
	Long: `Run rebuilds every registered silver table once, in refresh order, and
prints one line per table. The exit status is 1 when any table failed.`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

var runFlags struct {
	parallel        bool
	continueOnError bool
	json            bool
}

func init() {
	runCmd.Flags().BoolVar(&runFlags.parallel, "parallel", false, "Refresh all tables concurrently (overrides REFRESH_PARALLEL)")
	runCmd.Flags().BoolVar(&runFlags.continueOnError, "continue-on-error", false, "Keep refreshing after a table fails (overrides REFRESH_CONTINUE_ON_ERROR)")
	runCmd.Flags().BoolVar(&runFlags.json, "json", false, "Print the run result as JSON")

	rootCmd.AddCommand(runCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := openPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	opts := serviceOptions(cfg)
	if cmd.Flags().Changed("parallel") {
		opts.Parallel = runFlags.parallel
	}
	if cmd.Flags().Changed("continue-on-error") {
		opts.ContinueOnError = runFlags.continueOnError
	}

	service := core.NewService(pool, opts)
	res := service.RunFullRefresh(ctx)

	out := cmd.OutOrStdout()
	if runFlags.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	} else {
		printReport(out, res)
	}

	if res.Failed() {
		_, failed, _ := res.Counts()
		return fmt.Errorf("%w: %d of %d tables failed", errRefreshFailed, failed, len(res.Tables))
	}
	return nil
}

// printReport writes one aligned line per table plus a total.
func printReport(w io.Writer, res core.RunResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TABLE\tSTATUS\tEXTRACTED\tLOADED\tSECONDS\tERROR")
	for _, t := range res.Tables {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.3f\t%s\n",
			t.Table, t.Status, t.Extracted, t.Loaded, t.ElapsedSeconds, t.Description())
	}
	tw.Flush()

	succeeded, failed, skipped := res.Counts()
	fmt.Fprintf(w, "\nrun %s: %d succeeded, %d failed, %d skipped in %.3fs\n",
		res.RunID, succeeded, failed, skipped, res.ElapsedSeconds)
}
