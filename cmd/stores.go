package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/franq/internal/model"
	"github.com/derickschaefer/franq/internal/render"
)

var storesOffline bool

var storesCmd = &cobra.Command{
	Use:   "stores",
	Short: "Discover and list stores per account",
	Long: `Run store discovery for every configured account and print the resulting
directory: one row per account with its status (OK, EMPTY, ERROR) and the
stores it owns. Accounts whose discovery fails stay in the listing with
status ERROR; the run continues with whatever accounts answered.

With --offline, print the directory persisted by the last successful
discovery instead of calling the API.`,
	Example: `  franq stores
  franq stores --format json
  franq stores --offline`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		began := time.Now()
		var dirData *render.Directory

		if storesOffline {
			if err := deps.RequireStore(); err != nil {
				return err
			}
			snap, found, err := deps.Store.GetDirectory()
			if err != nil {
				return fmt.Errorf("reading directory snapshot: %w", err)
			}
			if !found {
				return fmt.Errorf("no directory snapshot saved yet (run 'franq stores' online first)")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Directory as of %s\n\n", snap.FetchedAt.Format(time.RFC3339))
			dirData = &render.Directory{Accounts: snap.Accounts, AllStores: snap.AllStores}
		} else {
			if err := deps.Config.Validate(); err != nil {
				return err
			}
			accounts, dir := bootstrapDirectory(cmd.Context(), deps)
			dirData = render.NewDirectory(accounts, dir)
		}

		result := &model.Result{
			Kind:        model.KindDirectory,
			GeneratedAt: time.Now(),
			Command:     "stores",
			Data:        dirData,
			Stats: model.ResultStats{
				DurationMs: time.Since(began).Milliseconds(),
				Items:      len(dirData.AllStores),
			},
		}
		return render.RenderTo(globalFlags.Out, result, resolveFormat(deps.Config.Format))
	},
}

func init() {
	rootCmd.AddCommand(storesCmd)
	storesCmd.Flags().BoolVar(&storesOffline, "offline", false,
		"print the last persisted directory instead of discovering")
}
