// Package aggregate collects orchestrator results keyed by (account, store),
// separating error entries from payloads, in arrival order. It exposes a
// push model: a sink callback sees every entry as it arrives, so a
// long-running batch renders partial output instead of waiting for the end.
package aggregate

import (
	"encoding/json"

	"github.com/derickschaefer/franq/internal/flatten"
	"github.com/derickschaefer/franq/internal/model"
	"github.com/derickschaefer/franq/internal/orchestrate"
)

// Entry is one store's outcome within a batch.
type Entry struct {
	Account string          `json:"account"`
	StoreID string          `json:"store_id"`
	Err     string          `json:"error,omitempty"`
	Raw     json.RawMessage `json:"data,omitempty"`
	// Flat holds per-record flattened pairs when flattening was requested:
	// one inner slice per record of the payload (top-level arrays are split
	// so each record's fields stay grouped).
	Flat [][]model.FlatEntry `json:"flat,omitempty"`
}

// Failed reports whether this entry is an error entry.
func (e Entry) Failed() bool { return e.Err != "" }

type entryKey struct {
	account string
	store   string
}

// Batch is the accumulated result of one view.
type Batch struct {
	Entries []Entry
	index   map[entryKey]int
}

// Sink receives each entry as it arrives. May be nil.
type Sink func(Entry)

// Collect drains the orchestrator's stream. When flattenPayloads is set,
// successful payloads are flattened per record; a payload that fails to
// flatten becomes an error entry for that store only. Each consumed item is
// routed to exactly one entry.
func Collect(items <-chan orchestrate.Item, flattenPayloads bool, sink Sink) *Batch {
	b := &Batch{index: make(map[entryKey]int)}
	for it := range items {
		e := Entry{Account: it.Account, StoreID: it.StoreID}
		if it.Result.Failed() {
			e.Err = it.Result.Err
		} else {
			e.Raw = it.Result.Raw
			if flattenPayloads {
				for _, rec := range flatten.Records(it.Result.Raw) {
					entries, err := flatten.Flatten(rec)
					if err != nil {
						e.Err = err.Error()
						e.Raw = nil
						e.Flat = nil
						break
					}
					e.Flat = append(e.Flat, entries)
				}
			}
		}
		b.add(e)
		if sink != nil {
			sink(e)
		}
	}
	return b
}

func (b *Batch) add(e Entry) {
	b.index[entryKey{e.Account, e.StoreID}] = len(b.Entries)
	b.Entries = append(b.Entries, e)
}

// Get looks up the entry for (account, store).
func (b *Batch) Get(account, storeID string) (Entry, bool) {
	i, ok := b.index[entryKey{account, storeID}]
	if !ok {
		return Entry{}, false
	}
	return b.Entries[i], true
}

// Errors returns the error entries in arrival order.
func (b *Batch) Errors() []Entry {
	var out []Entry
	for _, e := range b.Entries {
		if e.Failed() {
			out = append(out, e)
		}
	}
	return out
}

// Successes returns the payload entries in arrival order.
func (b *Batch) Successes() []Entry {
	var out []Entry
	for _, e := range b.Entries {
		if !e.Failed() {
			out = append(out, e)
		}
	}
	return out
}
