package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/derickschaefer/franq/internal/store"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save and replay view invocations",
	Long: `Snapshots save the parameters of a view (report, stores, date range,
flatten) under a name so the same batch can be replayed later. Only the
parameters are stored; the data is re-fetched on every run.

  franq snapshot save --name weekly-sales --report sales-summary --range past-7
  franq snapshot list
  franq snapshot run weekly-sales`,
}

// ─── snapshot save ────────────────────────────────────────────────────────────

var (
	snapshotSaveName    string
	snapshotSaveReport  string
	snapshotSaveStores  string
	snapshotSaveStart   string
	snapshotSaveEnd     string
	snapshotSaveRange   string
	snapshotSaveFlatten bool
)

var snapshotSaveCommand = &cobra.Command{
	Use:   "save",
	Short: "Save a view invocation as a named snapshot",
	Example: `  franq snapshot save --name weekly-sales --report sales-summary --range past-7
  franq snapshot save --name two-stores --report daily-timeclock --stores 10001,10002 --flatten`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if snapshotSaveName == "" {
			return fmt.Errorf("--name is required")
		}
		if snapshotSaveReport == "" {
			return fmt.Errorf("--report is required")
		}

		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()
		if err := deps.RequireStore(); err != nil {
			return err
		}

		var stores []string
		if s := strings.TrimSpace(snapshotSaveStores); s != "" && !strings.EqualFold(s, "all") {
			for _, part := range strings.Split(s, ",") {
				if id := strings.TrimSpace(part); id != "" {
					stores = append(stores, id)
				}
			}
		}

		id := newSnapshotID()
		snap := store.ViewSnapshot{
			ID:        id,
			Name:      snapshotSaveName,
			Report:    snapshotSaveReport,
			Stores:    stores,
			Range:     snapshotSaveRange,
			Start:     snapshotSaveStart,
			End:       snapshotSaveEnd,
			Flatten:   snapshotSaveFlatten,
			CreatedAt: time.Now().UTC(),
		}
		if err := deps.Store.PutSnapshot(snap); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved snapshot %s  (%s)\n", id, snapshotSaveName)
		return nil
	},
}

// ─── snapshot list ────────────────────────────────────────────────────────────

var snapshotListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List all saved snapshots",
	Example: `  franq snapshot list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()
		if err := deps.RequireStore(); err != nil {
			return err
		}

		snaps, err := deps.Store.ListSnapshots()
		if err != nil {
			return fmt.Errorf("listing snapshots: %w", err)
		}
		if len(snaps) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No snapshots saved.")
			fmt.Fprintln(cmd.OutOrStdout(), "  Use: franq snapshot save --name <name> --report <report> ...")
			return nil
		}

		printSimpleTable(cmd.OutOrStdout(), []string{"ID", "NAME", "REPORT", "STORES", "RANGE", "CREATED"}, func(add func(...string)) {
			for _, s := range snaps {
				stores := "all"
				if len(s.Stores) > 0 {
					stores = strings.Join(s.Stores, ",")
					if len(stores) > 30 {
						stores = stores[:27] + "..."
					}
				}
				dates := s.Range
				if dates == "" {
					dates = s.Start + ".." + s.End
				}
				add(s.ID, s.Name, s.Report, stores, dates, s.CreatedAt.Format("2006-01-02 15:04"))
			}
		})
		return nil
	},
}

// ─── snapshot run ─────────────────────────────────────────────────────────────

var snapshotRunCmd = &cobra.Command{
	Use:     "run <id-or-name>",
	Short:   "Replay a saved snapshot",
	Example: `  franq snapshot run weekly-sales`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()
		if err := deps.RequireStore(); err != nil {
			return err
		}

		snap, found, err := deps.Store.GetSnapshot(args[0])
		if err != nil {
			return fmt.Errorf("loading snapshot: %w", err)
		}
		if !found {
			return fmt.Errorf("snapshot %q not found", args[0])
		}

		stores := "all"
		if len(snap.Stores) > 0 {
			stores = strings.Join(snap.Stores, ",")
		}
		return runView(cmd.Context(), deps, viewParams{
			Report:  snap.Report,
			Stores:  stores,
			Start:   snap.Start,
			End:     snap.End,
			Range:   snap.Range,
			Flatten: snap.Flatten,
		})
	},
}

// ─── snapshot delete ──────────────────────────────────────────────────────────

var snapshotDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Short:   "Delete a saved snapshot",
	Example: `  franq snapshot delete 1a2b3c4d`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()
		if err := deps.RequireStore(); err != nil {
			return err
		}

		existed, err := deps.Store.DeleteSnapshot(args[0])
		if err != nil {
			return fmt.Errorf("deleting snapshot: %w", err)
		}
		if !existed {
			return fmt.Errorf("snapshot %q not found", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted snapshot %s\n", args[0])
		return nil
	},
}

// newSnapshotID returns a short random id; the full UUID is overkill for a
// handful of saved snapshots.
func newSnapshotID() string {
	return uuid.NewString()[:8]
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotSaveCommand)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotRunCmd)
	snapshotCmd.AddCommand(snapshotDeleteCmd)

	f := snapshotSaveCommand.Flags()
	f.StringVar(&snapshotSaveName, "name", "", "snapshot name (required)")
	f.StringVar(&snapshotSaveReport, "report", "", "report to fetch (required)")
	f.StringVar(&snapshotSaveStores, "stores", "all", "store selection")
	f.StringVar(&snapshotSaveStart, "start", "", "start date (YYYY-MM-DD)")
	f.StringVar(&snapshotSaveEnd, "end", "", "end date (YYYY-MM-DD)")
	f.StringVar(&snapshotSaveRange, "range", "", "date preset: today|yesterday|past-N")
	f.BoolVar(&snapshotSaveFlatten, "flatten", false, "flatten payloads on replay")
}
