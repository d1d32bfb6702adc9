// Package directory builds the account → store mapping at startup.
// Discovery runs concurrently across accounts (there is no ordering
// dependency between them) but the directory itself is merged in config-file
// order, so first-account-wins semantics downstream are deterministic.
package directory

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/derickschaefer/franq/internal/config"
	"github.com/derickschaefer/franq/internal/diaglog"
	"github.com/derickschaefer/franq/internal/liveiq"
	"github.com/derickschaefer/franq/internal/model"
)

// Bootstrap discovers the stores owned by each configured account and
// returns the resolved accounts plus the aggregate directory.
//
// Partial availability is the normal operating mode: a malformed entry is
// skipped, a failed discovery call leaves that account in ERROR with no
// stores, and neither aborts the run. Only accounts whose discovery
// succeeded (OK or EMPTY) contribute to the directory.
func Bootstrap(ctx context.Context, client *liveiq.Client, entries []config.AccountEntry, diag *diaglog.Log) ([]model.Account, model.StoreDirectory) {
	if diag == nil {
		diag = diaglog.Nop()
	}

	accounts := make([]model.Account, 0, len(entries))
	for _, e := range entries {
		if err := config.ValidateEntry(e); err != nil {
			diag.Printf("Malformed account entry: %v", err)
			continue
		}
		accounts = append(accounts, model.Account{
			Name:      e.Name,
			ClientID:  e.ClientID,
			ClientKey: e.ClientKEY,
			Status:    model.StatusError, // pessimistic default
		})
	}

	var g errgroup.Group
	for i := range accounts {
		a := &accounts[i]
		g.Go(func() error {
			stores, err := client.ListStores(ctx, a.ClientID, a.ClientKey)
			if err != nil {
				diag.Printf("%s store fetch failed: %v", a.Name, err)
				return nil // failure is recorded in status, never propagated
			}
			a.StoreIDs = stores
			if len(stores) > 0 {
				a.Status = model.StatusOK
			} else {
				a.Status = model.StatusEmpty
			}
			return nil
		})
	}
	_ = g.Wait()

	dir := model.NewStoreDirectory()
	seen := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		if a.Status == model.StatusError {
			continue
		}
		if seen[a.Name] {
			diag.Printf("Duplicate account name %q: keeping last entry in directory", a.Name)
		}
		seen[a.Name] = true
		dir.Merge(a.Name, a.StoreIDs)
	}
	return accounts, dir
}
