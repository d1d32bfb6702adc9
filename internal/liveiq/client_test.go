package liveiq_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/derickschaefer/franq/internal/liveiq"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *liveiq.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return liveiq.NewClient(srv.URL, 5*time.Second, nil, false)
}

// ─── Store Discovery ──────────────────────────────────────────────────────────

func TestListStoresSendsCredentialHeaders(t *testing.T) {
	var gotClient, gotKey, gotAccept string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotClient = r.Header.Get("api-client")
		gotKey = r.Header.Get("api-key")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`[]`))
	})

	if _, err := c.ListStores(context.Background(), "id-1", "key-1"); err != nil {
		t.Fatalf("ListStores: %v", err)
	}
	if gotClient != "id-1" || gotKey != "key-1" {
		t.Errorf("credential headers: got client=%q key=%q", gotClient, gotKey)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept header: got %q", gotAccept)
	}
}

func TestListStoresNormalizesAndDrops(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/Restaurants" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		// Mix of string ids, numeric ids, and a record with no id at all.
		w.Write([]byte(`[
			{"restaurantNumber": "10001", "city": "Lincoln"},
			{"restaurantNumber": 10002},
			{"city": "Omaha"}
		]`))
	})

	stores, err := c.ListStores(context.Background(), "id", "key")
	if err != nil {
		t.Fatalf("ListStores: %v", err)
	}
	want := []string{"10001", "10002"}
	if len(stores) != len(want) {
		t.Fatalf("expected %v, got %v", want, stores)
	}
	for i := range want {
		if stores[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, stores)
		}
	}
}

func TestListStoresHTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
	if _, err := c.ListStores(context.Background(), "id", "key"); err == nil {
		t.Fatal("expected error for HTTP 401")
	} else if !strings.Contains(err.Error(), "HTTP 401") {
		t.Errorf("error should name the status: %v", err)
	}
}

// ─── Report Fetch ─────────────────────────────────────────────────────────────

func TestFetchReportBuildsCatalogPath(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"netSales": 100}`))
	})

	res := c.FetchReport(context.Background(), "sales-summary", "10001", "2026-08-01", "2026-08-07", "id", "key")
	if res.Failed() {
		t.Fatalf("unexpected failure: %s", res.Err)
	}
	want := "/api/SalesSummary/10001/startDate/2026-08-01/endDate/2026-08-07"
	if gotPath != want {
		t.Errorf("path: expected %q, got %q", want, gotPath)
	}
}

func TestFetchReportUnwrapsDataEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"day": 1}]}`))
	})
	res := c.FetchReport(context.Background(), "sales-summary", "10001", "2026-08-01", "2026-08-01", "id", "key")
	if res.Failed() {
		t.Fatalf("unexpected failure: %s", res.Err)
	}
	if string(res.Raw) != `[{"day": 1}]` {
		t.Errorf("envelope not unwrapped: %s", res.Raw)
	}
}

func TestFetchReportKeepsBodyWithoutEnvelope(t *testing.T) {
	body := `{"netSales": 42, "units": 7}`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})
	res := c.FetchReport(context.Background(), "sales-summary", "10001", "2026-08-01", "2026-08-01", "id", "key")
	if string(res.Raw) != body {
		t.Errorf("body altered: %s", res.Raw)
	}
}

func TestFetchReportFailureIsValueNotError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	res := c.FetchReport(context.Background(), "sales-summary", "10001", "2026-08-01", "2026-08-01", "id", "key")
	if !res.Failed() {
		t.Fatal("expected failure result")
	}
	if !strings.Contains(res.Err, "HTTP 500") {
		t.Errorf("failure should carry the status: %q", res.Err)
	}
	if res.Raw != nil {
		t.Errorf("failed result must not carry a payload: %s", res.Raw)
	}
}

func TestFetchReportInvalidJSONBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance page</html>`))
	})
	res := c.FetchReport(context.Background(), "sales-summary", "10001", "2026-08-01", "2026-08-01", "id", "key")
	if !res.Failed() {
		t.Fatal("expected failure for non-JSON body")
	}
	if !strings.Contains(res.Err, "invalid JSON") {
		t.Errorf("failure should say the body was not JSON: %q", res.Err)
	}
}

func TestFetchReportUnknownReport(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	res := c.FetchReport(context.Background(), "bogus", "10001", "2026-08-01", "2026-08-01", "id", "key")
	if !res.Failed() {
		t.Fatal("expected failure for unknown report")
	}
	if called {
		t.Error("unknown report must not reach the server")
	}
}

func TestFetchReportContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := c.FetchReport(ctx, "sales-summary", "10001", "2026-08-01", "2026-08-01", "id", "key")
	if !res.Failed() {
		t.Fatal("expected failure for cancelled context")
	}
}
