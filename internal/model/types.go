// Package model defines the canonical data types used throughout franq.
// These types are the single source of truth for accounts, the store
// directory, fetch results, and the result envelope every command returns.
package model

import (
	"encoding/json"
	"time"
)

// ─── Accounts ─────────────────────────────────────────────────────────────────

// AccountStatus is the outcome of an account's store discovery call.
type AccountStatus string

const (
	// StatusOK means discovery succeeded and returned at least one store.
	StatusOK AccountStatus = "OK"
	// StatusEmpty means discovery succeeded but the account owns no stores.
	StatusEmpty AccountStatus = "EMPTY"
	// StatusError is the pessimistic default: discovery failed or never ran.
	StatusError AccountStatus = "ERROR"
)

// Account is one franchisee credential set and its discovered stores.
// Status and StoreIDs are written once by directory bootstrap and never
// mutated afterwards during a run. Credentials are never serialized.
type Account struct {
	Name      string        `json:"name"`
	ClientID  string        `json:"-"`
	ClientKey string        `json:"-"`
	Status    AccountStatus `json:"status"`
	StoreIDs  []string      `json:"store_ids"`
}

// ─── Store Directory ──────────────────────────────────────────────────────────

// StoreDirectory is the aggregate of all accounts' discovery results.
// It is built once at startup and treated as read-only for the rest of the
// run; concurrent fetch workers only read it, so no locking is needed.
//
// A store id may legitimately appear under more than one account (shared
// ownership); the directory does not assume exclusivity.
type StoreDirectory struct {
	AccountStores map[string][]string
	AllStores     map[string]struct{}
}

// NewStoreDirectory returns an empty directory ready for merging.
func NewStoreDirectory() StoreDirectory {
	return StoreDirectory{
		AccountStores: make(map[string][]string),
		AllStores:     make(map[string]struct{}),
	}
}

// Merge records an account's stores under its name and folds them into the
// global store set. EMPTY accounts contribute the empty set.
func (d StoreDirectory) Merge(accountName string, storeIDs []string) {
	ids := make([]string, len(storeIDs))
	copy(ids, storeIDs)
	d.AccountStores[accountName] = ids
	for _, id := range ids {
		d.AllStores[id] = struct{}{}
	}
}

// Has reports whether any account owns the given store.
func (d StoreDirectory) Has(storeID string) bool {
	_, ok := d.AllStores[storeID]
	return ok
}

// ─── Selection ────────────────────────────────────────────────────────────────

// Selection is the set of store ids the operator has checked. Selection
// changes go through Add/Remove rather than ambient shared state.
type Selection map[string]struct{}

// NewSelection builds a selection from explicit store ids.
func NewSelection(ids ...string) Selection {
	s := make(Selection, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts a store id into the selection.
func (s Selection) Add(id string) { s[id] = struct{}{} }

// Remove deletes a store id from the selection.
func (s Selection) Remove(id string) { delete(s, id) }

// Has reports whether the store id is selected.
func (s Selection) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// ─── Fetch Results ────────────────────────────────────────────────────────────

// FetchResult is the tagged outcome of one report fetch for one store.
// Exactly one of Raw / Err is set. Raw preserves the response body verbatim
// (envelope already unwrapped) so downstream flattening can keep the
// document's own field order.
type FetchResult struct {
	Raw json.RawMessage `json:"data,omitempty"`
	Err string          `json:"error,omitempty"`
}

// Failed reports whether the fetch produced an error instead of a payload.
func (r FetchResult) Failed() bool { return r.Err != "" }

// FlatEntry is one path/scalar pair produced by flattening a JSON document.
// Path uses "." to descend into objects and "[i]" into arrays, with no
// leading separator. Value is string, bool, json.Number, or nil.
type FlatEntry struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// ─── Result Envelope ─────────────────────────────────────────────────────────

// ResultStats carries timing and size metadata for a command result.
type ResultStats struct {
	DurationMs int64 `json:"duration_ms"`
	Items      int   `json:"items"`
	Errors     int   `json:"errors,omitempty"`
}

// Result is the uniform envelope returned by every command. Renderers switch
// on Kind to format the Data payload appropriately.
type Result struct {
	Kind        string      `json:"kind"`
	GeneratedAt time.Time   `json:"generated_at"`
	Command     string      `json:"command"`
	Data        interface{} `json:"data"`
	Warnings    []string    `json:"warnings,omitempty"`
	Stats       ResultStats `json:"stats"`
}

// Kind constants for Result.Kind.
const (
	KindDirectory = "directory"
	KindCatalog   = "catalog"
	KindBatch     = "batch"
	KindSnapshot  = "snapshot"
	KindReport    = "report"
)
