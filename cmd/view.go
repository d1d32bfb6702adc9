package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/franq/internal/aggregate"
	"github.com/derickschaefer/franq/internal/app"
	"github.com/derickschaefer/franq/internal/catalog"
	"github.com/derickschaefer/franq/internal/model"
	"github.com/derickschaefer/franq/internal/orchestrate"
	"github.com/derickschaefer/franq/internal/render"
)

var (
	viewStores  string
	viewStart   string
	viewEnd     string
	viewRange   string
	viewFlatten bool
)

var viewCmd = &cobra.Command{
	Use:   "view <report>",
	Short: "Fetch a report for the selected stores and print the results",
	Long: `Fetch one report for a set of stores and a date range, streaming each
store's result as it completes. Stores owned by several accounts are fetched
once. Failed stores appear inline as labeled error entries; they never abort
the rest of the batch.`,
	Example: `  franq view sales-summary --range today
  franq view daily-timeclock --stores 10001,10002 --range yesterday
  franq view transaction-summary --start 2026-08-01 --end 2026-08-07 --flatten
  franq view sales-summary --range past-7 --format json --out batch.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		return runView(cmd.Context(), deps, viewParams{
			Report:  args[0],
			Stores:  viewStores,
			Start:   viewStart,
			End:     viewEnd,
			Range:   viewRange,
			Flatten: viewFlatten,
		})
	},
}

// viewParams carries one view invocation; snapshot run replays a saved set.
type viewParams struct {
	Report  string
	Stores  string
	Start   string
	End     string
	Range   string
	Flatten bool
}

// runView is the whole batch-view flow: validate the report, bootstrap the
// directory, resolve the selection, dispatch, and stream results.
func runView(ctx context.Context, deps *app.Deps, p viewParams) error {
	// Reject an unknown report before any network work.
	endpoint, err := catalog.Lookup(p.Report)
	if err != nil {
		return err
	}
	if err := deps.Config.Validate(); err != nil {
		return err
	}

	startDate, endDate, err := resolveRange(p.Range, p.Start, p.End)
	if err != nil {
		return err
	}

	began := time.Now()
	accounts, dir := bootstrapDirectory(ctx, deps)
	sel, warnings := resolveSelection(p.Stores, dir)
	if len(sel) == 0 {
		fmt.Fprintln(os.Stdout, "No stores selected.")
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "⚠  %s\n", w)
		}
		return nil
	}

	items, dispatched, err := orchestrate.FetchMany(
		ctx, deps.Client, p.Report, sel, startDate, endDate,
		accounts, deps.Config.Concurrency,
	)
	if err != nil {
		return err
	}
	if dispatched == 0 {
		fmt.Fprintln(os.Stdout, "No selected store is known to any account.")
		return nil
	}

	out := io.Writer(os.Stdout)
	var outFile *os.File
	if globalFlags.Out != "" {
		outFile, err = os.Create(globalFlags.Out)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer outFile.Close()
		out = outFile
	}

	format := resolveFormat(deps.Config.Format)
	if format == render.FormatJSON {
		// Collect fully, then emit one envelope.
		batch := aggregate.Collect(items, p.Flatten, nil)
		result := batchResult(p, endpoint, batch, warnings, began)
		return render.Render(out, result, render.FormatJSON)
	}

	// Text mode streams entries in completion order.
	render.ViewHeader(out, endpoint.Title, startDate, endDate, selectionIDs(sel))
	batch := aggregate.Collect(items, p.Flatten, func(e aggregate.Entry) {
		render.ViewEntry(out, e)
	})

	result := batchResult(p, endpoint, batch, warnings, began)
	render.PrintFooter(os.Stderr, result, deps.Config.Verbose)
	return nil
}

func batchResult(p viewParams, endpoint catalog.Endpoint, batch *aggregate.Batch, warnings []string, began time.Time) *model.Result {
	return &model.Result{
		Kind:        model.KindBatch,
		GeneratedAt: time.Now(),
		Command:     fmt.Sprintf("view %s", endpoint.Name),
		Data:        batch.Entries,
		Warnings:    warnings,
		Stats: model.ResultStats{
			DurationMs: time.Since(began).Milliseconds(),
			Items:      len(batch.Entries),
			Errors:     len(batch.Errors()),
		},
	}
}

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().StringVar(&viewStores, "stores", "all",
		"store selection: all, or a comma-separated list of store ids")
	viewCmd.Flags().StringVar(&viewStart, "start", "", "start date (YYYY-MM-DD)")
	viewCmd.Flags().StringVar(&viewEnd, "end", "", "end date (YYYY-MM-DD)")
	viewCmd.Flags().StringVar(&viewRange, "range", "",
		"date preset: today|yesterday|past-N (ignored when --start/--end given)")
	viewCmd.Flags().BoolVar(&viewFlatten, "flatten", false,
		"print payloads as dotted-path value lines instead of JSON")
}
