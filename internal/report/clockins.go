package report

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/derickschaefer/franq/internal/flatten"
	"github.com/derickschaefer/franq/internal/orchestrate"
)

type clockIns struct{}

func init() { Register(clockIns{}) }

func (clockIns) Name() string { return "clockins" }

func (clockIns) Description() string {
	return "Employees clocked in per selected store, earliest clock-in first seen"
}

func (clockIns) Run(ctx context.Context, caps Caps) error {
	if len(caps.Selection) == 0 {
		fmt.Fprintln(caps.Out, "No stores selected.")
		return nil
	}

	items, dispatched, err := orchestrate.FetchMany(
		ctx, caps.Client, "daily-timeclock", caps.Selection,
		caps.Start, caps.End, caps.Accounts, caps.Concurrency,
	)
	if err != nil {
		return err
	}
	if dispatched == 0 {
		fmt.Fprintln(caps.Out, "No selected store is known to any account.")
		return nil
	}

	fmt.Fprintf(caps.Out, "Clock-ins  %s -> %s\n", caps.Start, caps.End)

	for it := range items {
		if it.Result.Failed() {
			fmt.Fprintf(caps.Out, "\nStore %s  (Acct: %s)  ERROR: %s\n", it.StoreID, it.Account, it.Result.Err)
			continue
		}
		fmt.Fprintf(caps.Out, "\nStore %s  (Acct: %s)\n", it.StoreID, it.Account)
		printClockins(caps, it.Result.Raw)
	}
	return nil
}

type clockinRow struct {
	clockIn string
	job     string
}

func printClockins(caps Caps, raw json.RawMessage) {
	// Keep the earliest clock-in per employee name.
	unique := make(map[string]clockinRow)
	for _, rec := range flatten.Records(raw) {
		var entry map[string]any
		if err := json.Unmarshal(rec, &entry); err != nil {
			continue
		}
		name := str(entry, "employeeName")
		if name == "" {
			name = "<unknown>"
		}
		in := str(entry, "clockInDateTime")
		if in == "" {
			in = str(entry, "clockIn")
		}
		job := str(entry, "jobDescription")
		if job == "" {
			job = str(entry, "jobCode")
		}
		prev, seen := unique[name]
		if !seen || (in != "" && in < prev.clockIn) {
			unique[name] = clockinRow{clockIn: in, job: job}
		}
	}

	if len(unique) == 0 {
		fmt.Fprintln(caps.Out, "   - no clock-ins recorded -")
		return
	}

	names := make([]string, 0, len(unique))
	for n := range unique {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	for _, n := range names {
		row := unique[n]
		fmt.Fprintf(caps.Out, "   %s  |  In: %s  |  %s\n", n, row.clockIn, row.job)
	}
}

func str(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
