package directory_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/derickschaefer/franq/internal/config"
	"github.com/derickschaefer/franq/internal/directory"
	"github.com/derickschaefer/franq/internal/liveiq"
	"github.com/derickschaefer/franq/internal/model"
)

// discoveryServer answers the store-listing endpoint per account, keyed by
// the api-client header.
func discoveryServer(t *testing.T, responses map[string]string) *liveiq.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := responses[r.Header.Get("api-client")]
		if !ok {
			http.Error(w, "unknown client", http.StatusUnauthorized)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return liveiq.NewClient(srv.URL, 5*time.Second, nil, false)
}

func entry(name, id string) config.AccountEntry {
	return config.AccountEntry{Name: name, ClientID: id, ClientKEY: "key-" + id}
}

func TestBootstrapHappyPath(t *testing.T) {
	client := discoveryServer(t, map[string]string{
		"id-a": `[{"restaurantNumber": "10001"}, {"restaurantNumber": "10002"}]`,
		"id-b": `[{"restaurantNumber": "20001"}]`,
	})
	entries := []config.AccountEntry{entry("Alpha", "id-a"), entry("Beta", "id-b")}

	accounts, dir := directory.Bootstrap(context.Background(), client, entries, nil)
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	for _, a := range accounts {
		if a.Status != model.StatusOK {
			t.Errorf("%s: expected OK, got %s", a.Name, a.Status)
		}
	}
	if len(dir.AllStores) != 3 {
		t.Errorf("expected 3 stores in directory, got %d", len(dir.AllStores))
	}
	if !dir.Has("20001") {
		t.Error("directory missing Beta's store")
	}
	if got := dir.AccountStores["Alpha"]; len(got) != 2 {
		t.Errorf("Alpha should own 2 stores, got %v", got)
	}
}

func TestBootstrapFailedAccountIsolated(t *testing.T) {
	// Beta's credentials are unknown to the server; Alpha must be unaffected.
	client := discoveryServer(t, map[string]string{
		"id-a": `[{"restaurantNumber": "10001"}]`,
	})
	entries := []config.AccountEntry{entry("Alpha", "id-a"), entry("Beta", "id-b")}

	accounts, dir := directory.Bootstrap(context.Background(), client, entries, nil)
	if accounts[0].Status != model.StatusOK {
		t.Errorf("Alpha: expected OK, got %s", accounts[0].Status)
	}
	if accounts[1].Status != model.StatusError {
		t.Errorf("Beta: expected ERROR, got %s", accounts[1].Status)
	}
	if _, ok := dir.AccountStores["Beta"]; ok {
		t.Error("failed account must not contribute to the directory")
	}
	if len(dir.AllStores) != 1 {
		t.Errorf("expected 1 store, got %d", len(dir.AllStores))
	}
}

func TestBootstrapEmptyAccount(t *testing.T) {
	client := discoveryServer(t, map[string]string{"id-a": `[]`})
	accounts, dir := directory.Bootstrap(context.Background(), client,
		[]config.AccountEntry{entry("Alpha", "id-a")}, nil)

	if accounts[0].Status != model.StatusEmpty {
		t.Errorf("expected EMPTY, got %s", accounts[0].Status)
	}
	// EMPTY still contributes: the account is known, it just owns nothing.
	if _, ok := dir.AccountStores["Alpha"]; !ok {
		t.Error("EMPTY account should appear in the directory")
	}
	if len(dir.AllStores) != 0 {
		t.Errorf("expected empty store set, got %v", dir.AllStores)
	}
}

func TestBootstrapSkipsMalformedEntries(t *testing.T) {
	client := discoveryServer(t, map[string]string{
		"id-a": `[{"restaurantNumber": "10001"}]`,
	})
	entries := []config.AccountEntry{
		{Name: "NoCreds"}, // missing id and key
		entry("Alpha", "id-a"),
	}

	accounts, dir := directory.Bootstrap(context.Background(), client, entries, nil)
	if len(accounts) != 1 {
		t.Fatalf("malformed entry should be skipped, got %d accounts", len(accounts))
	}
	if accounts[0].Name != "Alpha" {
		t.Errorf("expected Alpha, got %s", accounts[0].Name)
	}
	if len(dir.AllStores) != 1 {
		t.Errorf("expected 1 store, got %d", len(dir.AllStores))
	}
}

func TestBootstrapSharedStoreAcrossAccounts(t *testing.T) {
	client := discoveryServer(t, map[string]string{
		"id-a": `[{"restaurantNumber": "10001"}]`,
		"id-b": `[{"restaurantNumber": "10001"}, {"restaurantNumber": "20001"}]`,
	})
	entries := []config.AccountEntry{entry("Alpha", "id-a"), entry("Beta", "id-b")}

	_, dir := directory.Bootstrap(context.Background(), client, entries, nil)
	if len(dir.AllStores) != 2 {
		t.Errorf("shared store should appear once in the global set, got %d", len(dir.AllStores))
	}
	if len(dir.AccountStores["Alpha"]) != 1 || len(dir.AccountStores["Beta"]) != 2 {
		t.Errorf("per-account lists wrong: %v", dir.AccountStores)
	}
}
