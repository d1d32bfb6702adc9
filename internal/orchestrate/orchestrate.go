// Package orchestrate fans one report request out across the selected
// stores. It is the only component in franq that spawns concurrent work.
package orchestrate

import (
	"context"
	"sync"

	"github.com/derickschaefer/franq/internal/catalog"
	"github.com/derickschaefer/franq/internal/liveiq"
	"github.com/derickschaefer/franq/internal/model"
)

// DefaultConcurrency bounds in-flight requests per batch. This bound is the
// system's only backpressure mechanism.
const DefaultConcurrency = 10

// Item is one completed fetch, tagged with the account and store it was
// issued for. Items arrive in completion order, not submission order;
// callers must key on (Account, StoreID), never on position.
type Item struct {
	Account string
	StoreID string
	Result  model.FetchResult
}

type request struct {
	account   string
	clientID  string
	clientKey string
	storeID   string
}

// FetchMany dispatches one fetch per selected store and returns a channel
// that yields results as they complete, plus the number of requests
// dispatched. A zero count with a nil error means no selected store was
// known to any account — the caller reports "no stores selected", it is not
// an error.
//
// Stores reachable through more than one account are fetched exactly once,
// using whichever account appears first in the accounts slice
// (first-account-wins). An alternative would be to fetch once per distinct
// (account, store) pair and label both results; the current behavior matches
// the operator expectation that a store is one physical location.
//
// An unknown report name is rejected here, before any work is dispatched.
// Cancelling ctx stops in-flight and queued work; the channel still closes.
func FetchMany(ctx context.Context, client *liveiq.Client, report string, selected model.Selection, startDate, endDate string, accounts []model.Account, concurrency int) (<-chan Item, int, error) {
	if _, err := catalog.Lookup(report); err != nil {
		return nil, 0, err
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	// Build the work list in stable account order, deduplicating stores
	// that appear under more than one account.
	var work []request
	enqueued := make(map[string]struct{})
	for _, a := range accounts {
		for _, sid := range a.StoreIDs {
			if !selected.Has(sid) {
				continue
			}
			if _, dup := enqueued[sid]; dup {
				continue
			}
			enqueued[sid] = struct{}{}
			work = append(work, request{
				account:   a.Name,
				clientID:  a.ClientID,
				clientKey: a.ClientKey,
				storeID:   sid,
			})
		}
	}

	out := make(chan Item)
	if len(work) == 0 {
		close(out)
		return out, 0, nil
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for _, req := range work {
		wg.Add(1)
		go func(req request) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}
			res := client.FetchReport(ctx, report, req.storeID, startDate, endDate, req.clientID, req.clientKey)
			select {
			case out <- Item{Account: req.account, StoreID: req.storeID, Result: res}:
			case <-ctx.Done():
			}
		}(req)
	}

	go func() {
		wg.Wait()
		close(out)
	}()
	return out, len(work), nil
}
