// Package report hosts auxiliary report views. Instead of loading arbitrary
// code at runtime, views implement the Report interface and register
// themselves in a static registry; the host hands each view an explicit
// capability struct rather than ambient globals, so a view can run anywhere
// the core's fetch/flatten/directory accessors are available.
package report

import (
	"context"
	"fmt"
	"io"

	"github.com/derickschaefer/franq/internal/diaglog"
	"github.com/derickschaefer/franq/internal/liveiq"
	"github.com/derickschaefer/franq/internal/model"
)

// Caps is the capability set a view receives: the shared fetch client, the
// resolved directory and selection, the date range, and an output writer.
// Views never duplicate fetch or flatten logic; they go through these.
type Caps struct {
	Client      *liveiq.Client
	Accounts    []model.Account
	Directory   model.StoreDirectory
	Selection   model.Selection
	Start       string
	End         string
	Concurrency int
	Out         io.Writer
	Diag        *diaglog.Log
}

// Report is one auxiliary view.
type Report interface {
	Name() string
	Description() string
	Run(ctx context.Context, caps Caps) error
}

var (
	registry = map[string]Report{}
	order    []string
)

// Register adds a report to the registry. Called from init; duplicate names
// are a programming error.
func Register(r Report) {
	if _, dup := registry[r.Name()]; dup {
		panic(fmt.Sprintf("report %q registered twice", r.Name()))
	}
	registry[r.Name()] = r
	order = append(order, r.Name())
}

// Lookup returns the report registered under name.
func Lookup(name string) (Report, bool) {
	r, ok := registry[name]
	return r, ok
}

// All returns registered reports in registration order.
func All() []Report {
	out := make([]Report, 0, len(order))
	for _, n := range order {
		out = append(out, registry[n])
	}
	return out
}
