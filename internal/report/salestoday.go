package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/derickschaefer/franq/internal/flatten"
	"github.com/derickschaefer/franq/internal/orchestrate"
	"github.com/derickschaefer/franq/internal/util"
)

// netSalesKeys are the field names observed across LiveIQ sales summary
// payload versions, probed in order.
var netSalesKeys = []string{"netSales", "netSale", "netSalesTotal", "netSalesAmount"}

type salesToday struct{}

func init() { Register(salesToday{}) }

func (salesToday) Name() string { return "sales-today" }

func (salesToday) Description() string {
	return "Net sales per selected store for the chosen date range"
}

func (salesToday) Run(ctx context.Context, caps Caps) error {
	if len(caps.Selection) == 0 {
		fmt.Fprintln(caps.Out, "No stores selected.")
		return nil
	}

	items, dispatched, err := orchestrate.FetchMany(
		ctx, caps.Client, "sales-summary", caps.Selection,
		caps.Start, caps.End, caps.Accounts, caps.Concurrency,
	)
	if err != nil {
		return err
	}
	if dispatched == 0 {
		fmt.Fprintln(caps.Out, "No selected store is known to any account.")
		return nil
	}

	fmt.Fprintf(caps.Out, "Net Sales  %s -> %s\n\n", caps.Start, caps.End)

	sales := make(map[string]string, dispatched)
	for it := range items {
		if it.Result.Failed() {
			sales[it.StoreID] = "ERROR: " + it.Result.Err
			continue
		}
		sales[it.StoreID] = netSalesCell(it.Result.Raw)
	}

	stores := make([]string, 0, len(sales))
	for sid := range sales {
		stores = append(stores, sid)
	}
	util.SortStoreIDs(stores)

	tw := tablewriter.NewWriter(caps.Out)
	tw.SetHeader([]string{"STORE", "NET SALES"})
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	tw.SetAutoWrapText(false)
	for _, sid := range stores {
		tw.Append([]string{sid, sales[sid]})
	}
	tw.Render()
	return nil
}

// netSalesCell extracts the net sales figure from a payload. The summary is
// usually a one-element list for the day; a bare object is accepted too.
func netSalesCell(raw json.RawMessage) string {
	records := flatten.Records(raw)
	if len(records) == 0 {
		return "N/A"
	}
	dec := json.NewDecoder(strings.NewReader(string(records[0])))
	dec.UseNumber()
	var summary map[string]any
	if err := dec.Decode(&summary); err != nil {
		return "N/A"
	}
	for _, key := range netSalesKeys {
		if v, ok := summary[key]; ok {
			if n, ok := v.(json.Number); ok {
				if f, err := n.Float64(); err == nil {
					return Money(f)
				}
			}
			return fmt.Sprint(v)
		}
	}
	return "N/A"
}

// Money formats a dollar amount with thousands separators: 12345.6 →
// "$12,345.60".
func Money(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	dot := strings.IndexByte(s, '.')
	intPart, fracPart := s[:dot], s[dot:]
	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	out := "$" + b.String() + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
