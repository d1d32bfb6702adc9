// Package render converts Result values and batch entries into
// human-readable or machine-parseable output. The view's text mode is
// streamed entry by entry (ViewHeader + ViewEntry) so partial batches render
// as they arrive; everything else goes through the Render dispatcher.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/derickschaefer/franq/internal/aggregate"
	"github.com/derickschaefer/franq/internal/catalog"
	"github.com/derickschaefer/franq/internal/flatten"
	"github.com/derickschaefer/franq/internal/model"
	"github.com/derickschaefer/franq/internal/util"
)

// Format constants matching --format flag values.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Render writes result to w in the specified format.
func Render(w io.Writer, result *model.Result, format string) error {
	if format == FormatJSON {
		return renderJSON(w, result)
	}
	switch result.Kind {
	case model.KindDirectory:
		d, ok := result.Data.(*Directory)
		if !ok {
			return fmt.Errorf("unexpected data type for directory")
		}
		return renderDirectoryTable(w, d)
	case model.KindCatalog:
		return renderCatalogTable(w)
	default:
		return renderJSON(w, result)
	}
}

// RenderTo writes to stdout by default; if path is non-empty, writes to file.
func RenderTo(path string, result *model.Result, format string) error {
	if path == "" {
		return Render(os.Stdout, result, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()
	return Render(f, result, format)
}

func renderJSON(w io.Writer, result *model.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// ─── Directory ────────────────────────────────────────────────────────────────

// Directory is the renderable shape of the bootstrap outcome.
type Directory struct {
	Accounts  []model.Account `json:"accounts"`
	AllStores []string        `json:"all_stores"`
}

// NewDirectory bundles accounts with the sorted global store set.
func NewDirectory(accounts []model.Account, dir model.StoreDirectory) *Directory {
	stores := make([]string, 0, len(dir.AllStores))
	for id := range dir.AllStores {
		stores = append(stores, id)
	}
	util.SortStoreIDs(stores)
	return &Directory{Accounts: accounts, AllStores: stores}
}

func renderDirectoryTable(w io.Writer, d *Directory) error {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"ACCOUNT", "STATUS", "STORES", "STORE IDS"})
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)

	for _, a := range d.Accounts {
		preview := strings.Join(a.StoreIDs, ", ")
		if len(preview) > 60 {
			preview = preview[:57] + "..."
		}
		tw.Append([]string{
			a.Name,
			string(a.Status),
			fmt.Sprintf("%d", len(a.StoreIDs)),
			preview,
		})
	}
	tw.Render()
	fmt.Fprintf(w, "\n%d stores across %d accounts\n", len(d.AllStores), len(d.Accounts))
	return nil
}

// ─── Catalog ─────────────────────────────────────────────────────────────────

func renderCatalogTable(w io.Writer) error {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"NAME", "TITLE", "PATH"})
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)

	for _, e := range catalog.All() {
		tw.Append([]string{e.Name, e.Title, e.Path})
	}
	tw.Render()
	return nil
}

// ─── Batch View (streamed text) ───────────────────────────────────────────────

// ViewHeader writes the banner block preceding a batch's streamed results.
func ViewHeader(w io.Writer, reportTitle, startDate, endDate string, stores []string) {
	fmt.Fprintf(w, "Report  : %s\n", reportTitle)
	fmt.Fprintf(w, "Range   : %s -> %s\n", startDate, endDate)
	fmt.Fprintf(w, "Stores  : %s\n", strings.Join(stores, ", "))
}

// ViewEntry writes one store's outcome. Error entries are labeled inline,
// never omitted. Flattened payloads print one path/value line per scalar;
// structured payloads pretty-print as JSON.
func ViewEntry(w io.Writer, e aggregate.Entry) {
	fmt.Fprintf(w, "\n### %s - Store %s ###\n", e.Account, e.StoreID)
	if e.Failed() {
		fmt.Fprintf(w, "ERROR: %s\n", e.Err)
		return
	}
	if e.Flat != nil {
		for i, record := range e.Flat {
			fmt.Fprintf(w, "-- Entry %d --\n", i+1)
			for _, p := range record {
				fmt.Fprintf(w, "%-40s : %s\n", p.Path, flatten.FormatValue(p.Value))
			}
		}
		return
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, e.Raw, "", "  "); err != nil {
		fmt.Fprintf(w, "%s\n", e.Raw)
		return
	}
	fmt.Fprintf(w, "%s\n", buf.String())
}

// PrintFooter writes warnings always and timing stats when verbose.
func PrintFooter(w io.Writer, result *model.Result, verbose bool) {
	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "⚠  %s\n", warn)
	}
	if verbose {
		fmt.Fprintf(w, "\n[%d items • %d errors • %dms]\n",
			result.Stats.Items,
			result.Stats.Errors,
			result.Stats.DurationMs,
		)
	}
}
