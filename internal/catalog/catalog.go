// Package catalog is the static registry of LiveIQ report endpoints.
// It is the single source of truth for which reports exist: adding a report
// means adding one table entry, nothing else.
package catalog

import "fmt"

// Endpoint describes one report endpoint. Path is a URL path template with
// three positional parameters: store id, start date, end date (YYYY-MM-DD).
type Endpoint struct {
	Name  string // CLI name, stable key
	Title string // human-readable title
	Path  string // path template with %s placeholders
}

// StoreListPath is the store-discovery endpoint; it takes only credentials.
const StoreListPath = "/api/Restaurants"

// endpoints maps report names to their URL templates. names preserves
// declaration order for listings.
var (
	endpoints = map[string]Endpoint{}
	names     []string
)

func register(e Endpoint) {
	endpoints[e.Name] = e
	names = append(names, e.Name)
}

func init() {
	register(Endpoint{"sales-summary", "Sales Summary", "/api/SalesSummary/%s/startDate/%s/endDate/%s"})
	register(Endpoint{"daily-sales-summary", "Daily Sales Summary", "/api/DailySalesSummary/%s/startDate/%s/endDate/%s"})
	register(Endpoint{"daily-timeclock", "Daily Timeclock", "/api/DailyTimeclock/%s/startDate/%s/endDate/%s"})
	register(Endpoint{"third-party-sales-summary", "Third Party Sales Summary", "/api/ThirdPartySalesSummary/%s/startDate/%s/endDate/%s"})
	register(Endpoint{"third-party-transaction-summary", "Third Party Transaction Summary", "/api/ThirdPartyTransactionSummary/%s/startDate/%s/endDate/%s"})
	register(Endpoint{"transaction-summary", "Transaction Summary", "/api/TransactionSummary/%s/startDate/%s/endDate/%s"})
	register(Endpoint{"transaction-details", "Transaction Details", "/api/TransactionDetails/%s/startDate/%s/endDate/%s"})
}

// UnknownReportError is returned when a report name is not registered.
// Callers reject it before dispatching any work.
type UnknownReportError struct {
	Name string
}

func (e *UnknownReportError) Error() string {
	return fmt.Sprintf("unknown report %q (run 'franq reports' to list available reports)", e.Name)
}

// Lookup returns the endpoint registered under name.
func Lookup(name string) (Endpoint, error) {
	e, ok := endpoints[name]
	if !ok {
		return Endpoint{}, &UnknownReportError{Name: name}
	}
	return e, nil
}

// Resolve builds the request path for a report. Pure function, no state
// beyond the static table.
func Resolve(name, storeID, startDate, endDate string) (string, error) {
	e, err := Lookup(name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(e.Path, storeID, startDate, endDate), nil
}

// Names returns all report names in declaration order.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// All returns all endpoints in declaration order.
func All() []Endpoint {
	out := make([]Endpoint, 0, len(names))
	for _, n := range names {
		out = append(out, endpoints[n])
	}
	return out
}
