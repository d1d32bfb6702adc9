// Package app wires configuration, the API client, the diagnostic log, and
// the local store into a single Deps struct that commands receive at runtime.
package app

import (
	"github.com/derickschaefer/franq/internal/config"
	"github.com/derickschaefer/franq/internal/diaglog"
	"github.com/derickschaefer/franq/internal/liveiq"
	"github.com/derickschaefer/franq/internal/store"
)

// Deps holds all runtime dependencies injected into command Run functions.
// Store is opened lazily via RequireStore; most commands never touch it.
type Deps struct {
	Config *config.Config
	Client *liveiq.Client
	Diag   *diaglog.Log
	Store  *store.Store
}

// New builds a Deps from resolved config.
func New(cfg *config.Config) *Deps {
	diag := diaglog.Open(cfg.LogFile)
	client := liveiq.NewClient(cfg.BaseURL, cfg.Timeout, diag, cfg.Debug)
	return &Deps{
		Config: cfg,
		Client: client,
		Diag:   diag,
	}
}

// RequireStore opens the bbolt store if it is not open yet.
func (d *Deps) RequireStore() error {
	if d.Store != nil {
		return nil
	}
	s, err := store.Open(d.Config.DBPath)
	if err != nil {
		return err
	}
	d.Store = s
	return nil
}

// Close releases the store and the diagnostic log.
func (d *Deps) Close() {
	if d.Store != nil {
		_ = d.Store.Close()
		d.Store = nil
	}
	if d.Diag != nil {
		d.Diag.Close()
	}
}
