package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/derickschaefer/franq/internal/app"
	"github.com/derickschaefer/franq/internal/directory"
	"github.com/derickschaefer/franq/internal/model"
	"github.com/derickschaefer/franq/internal/render"
	"github.com/derickschaefer/franq/internal/store"
	"github.com/derickschaefer/franq/internal/util"
)

// resolveFormat returns the effective format string, falling back to "text".
func resolveFormat(cfgFormat string) string {
	if globalFlags.Format != "" {
		return globalFlags.Format
	}
	if cfgFormat != "" {
		return cfgFormat
	}
	return render.FormatText
}

// resolveRange turns the --range / --start / --end flag combination into a
// concrete date pair. Explicit --start/--end wins over a preset; a bare
// --start fills --end with the same day and vice versa.
func resolveRange(rangePreset, start, end string) (string, string, error) {
	if start == "" && end == "" {
		if rangePreset == "" {
			rangePreset = "today"
		}
		return util.ResolveRange(rangePreset, time.Now())
	}
	if start == "" {
		start = end
	}
	if end == "" {
		end = start
	}
	s, err := util.ParseDate(start)
	if err != nil {
		return "", "", err
	}
	e, err := util.ParseDate(end)
	if err != nil {
		return "", "", err
	}
	if e.Before(s) {
		return "", "", fmt.Errorf("end date %s is before start date %s", end, start)
	}
	return util.FormatDate(s), util.FormatDate(e), nil
}

// bootstrapDirectory runs store discovery and best-effort persists the
// outcome so `franq stores --offline` has something to show later. A store
// that cannot be opened (locked by another franq) only costs the snapshot.
func bootstrapDirectory(ctx context.Context, deps *app.Deps) ([]model.Account, model.StoreDirectory) {
	accounts, dir := directory.Bootstrap(ctx, deps.Client, deps.Config.Accounts, deps.Diag)

	if err := deps.RequireStore(); err == nil {
		d := render.NewDirectory(accounts, dir)
		snap := store.DirectorySnapshot{Accounts: accounts, AllStores: d.AllStores}
		if err := deps.Store.PutDirectory(snap); err != nil {
			deps.Diag.Printf("Persisting directory snapshot failed: %v", err)
		}
	} else {
		deps.Diag.Printf("Local store unavailable, directory snapshot skipped: %v", err)
	}
	return accounts, dir
}

// resolveSelection parses the --stores flag against the directory.
// "all" selects every known store; otherwise a comma-separated id list.
// Ids unknown to every account are returned as warnings, not errors — the
// known part of the selection still runs.
func resolveSelection(storesFlag string, dir model.StoreDirectory) (model.Selection, []string) {
	flag := strings.TrimSpace(storesFlag)
	if flag == "" || strings.EqualFold(flag, "all") {
		sel := model.NewSelection()
		for id := range dir.AllStores {
			sel.Add(id)
		}
		return sel, nil
	}

	sel := model.NewSelection()
	var warnings []string
	for _, part := range strings.Split(flag, ",") {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		if !dir.Has(id) {
			warnings = append(warnings, fmt.Sprintf("store %s is not known to any account", id))
			continue
		}
		sel.Add(id)
	}
	return sel, warnings
}

// selectionIDs returns the selection as a numerically sorted slice.
func selectionIDs(sel model.Selection) []string {
	ids := make([]string, 0, len(sel))
	for id := range sel {
		ids = append(ids, id)
	}
	util.SortStoreIDs(ids)
	return ids
}

// printSimpleTable renders a simple table with headers using tablewriter.
// The fill callback is called with an appender taking row values.
func printSimpleTable(w io.Writer, headers []string, fill func(add func(...string))) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(headers)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)

	fill(func(cols ...string) {
		tw.Append(cols)
	})
	tw.Render()
}
