package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/franq/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run auxiliary report views",
	Long: `Auxiliary views are small purpose-built summaries (net sales per store,
who is clocked in) registered alongside the generic batch view. They reuse
the same fetch client, store directory, and selection handling.`,
}

var reportListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List registered auxiliary views",
	Example: `  franq report list`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printSimpleTable(cmd.OutOrStdout(), []string{"NAME", "DESCRIPTION"}, func(add func(...string)) {
			for _, r := range report.All() {
				add(r.Name(), r.Description())
			}
		})
		return nil
	},
}

var (
	reportRunStores string
	reportRunStart  string
	reportRunEnd    string
	reportRunRange  string
)

var reportRunCmd = &cobra.Command{
	Use:   "run <name>",
	Short: "Run one auxiliary view",
	Example: `  franq report run sales-today
  franq report run clockins --stores 10001,10002
  franq report run sales-today --range past-7`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, ok := report.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown auxiliary view %q (run 'franq report list')", args[0])
		}

		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()
		if err := deps.Config.Validate(); err != nil {
			return err
		}

		startDate, endDate, err := resolveRange(reportRunRange, reportRunStart, reportRunEnd)
		if err != nil {
			return err
		}

		accounts, dir := bootstrapDirectory(cmd.Context(), deps)
		sel, warnings := resolveSelection(reportRunStores, dir)
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "⚠  %s\n", w)
		}

		out := io.Writer(cmd.OutOrStdout())
		if globalFlags.Out != "" {
			f, err := os.Create(globalFlags.Out)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		return r.Run(cmd.Context(), report.Caps{
			Client:      deps.Client,
			Accounts:    accounts,
			Directory:   dir,
			Selection:   sel,
			Start:       startDate,
			End:         endDate,
			Concurrency: deps.Config.Concurrency,
			Out:         out,
			Diag:        deps.Diag,
		})
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportRunCmd)

	reportRunCmd.Flags().StringVar(&reportRunStores, "stores", "all",
		"store selection: all, or a comma-separated list of store ids")
	reportRunCmd.Flags().StringVar(&reportRunStart, "start", "", "start date (YYYY-MM-DD)")
	reportRunCmd.Flags().StringVar(&reportRunEnd, "end", "", "end date (YYYY-MM-DD)")
	reportRunCmd.Flags().StringVar(&reportRunRange, "range", "",
		"date preset: today|yesterday|past-N (default: today)")
}
