package querylog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/ziadkadry99/finquery/internal/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestRecordAndRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entries := []Entry{
		{SessionID: "s1", Query: "how is AAPL doing", Mode: "quick", Answer: "fine", Providers: []string{"quote", "search"}, LatencyMS: 420, InputTokens: 900, OutputTokens: 300},
		{SessionID: "s1", Query: "compare AAPL and MSFT", Mode: "deep", Answer: "both strong", Providers: []string{"comparison"}, LatencyMS: 2100, InputTokens: 2500, OutputTokens: 800},
	}
	for _, e := range entries {
		if err := store.Record(ctx, e, "gpt-4o"); err != nil {
			t.Fatalf("Record() error: %v", err)
		}
	}

	got, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}

	for _, e := range got {
		if e.ID == "" {
			t.Error("entry ID should be generated")
		}
		if e.EstCostUSD <= 0 {
			t.Errorf("entry %q: cost should be estimated from tokens", e.Query)
		}
	}

	var comparison *Entry
	for i := range got {
		if got[i].Mode == "deep" {
			comparison = &got[i]
		}
	}
	if comparison == nil {
		t.Fatal("deep-mode entry not returned")
	}
	if len(comparison.Providers) != 1 || comparison.Providers[0] != "comparison" {
		t.Errorf("providers = %v", comparison.Providers)
	}
}

func TestRecentLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := store.Record(ctx, Entry{SessionID: "s", Query: "q"}, "gpt-4o"); err != nil {
			t.Fatalf("Record() error: %v", err)
		}
	}

	got, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d entries, want 3", len(got))
	}
}

func TestLogEndpoint(t *testing.T) {
	store := newTestStore(t)
	if err := store.Record(context.Background(), Entry{SessionID: "s", Query: "q", Answer: "a"}, "gpt-4o"); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	r := chi.NewRouter()
	RegisterRoutes(r, store)

	req := httptest.NewRequest(http.MethodGet, "/api/log?limit=10", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var entries []Entry
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(entries) != 1 || entries[0].Query != "q" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestLogEndpointEmpty(t *testing.T) {
	store := newTestStore(t)

	r := chi.NewRouter()
	RegisterRoutes(r, store)

	req := httptest.NewRequest(http.MethodGet, "/api/log", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); body == "null\n" {
		t.Error("empty log should encode as [], not null")
	}
}
