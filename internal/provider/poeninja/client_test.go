package poeninja

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/exilewatch/exilewatch/internal/core"
	"github.com/exilewatch/exilewatch/internal/retry"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	policy := retry.Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
	}
	return NewClient(srv.URL, 5*time.Second, policy, nil, zap.NewNop()), srv
}

func TestClient_CurrencyOverview(t *testing.T) {
	var gotLeague, gotType string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != pathCurrencyOverview {
			t.Errorf("path = %q, want %q", r.URL.Path, pathCurrencyOverview)
		}
		gotLeague = r.URL.Query().Get("league")
		gotType = r.URL.Query().Get("type")
		w.Write([]byte(`{"lines":[{"currencyTypeName":"Divine Orb","chaosEquivalent":210.5},{"currencyTypeName":"Exalted Orb"}]}`))
	}))

	ov, err := c.CurrencyOverview(context.Background(), "Settlers")
	if err != nil {
		t.Fatalf("CurrencyOverview: %v", err)
	}
	if gotLeague != "Settlers" || gotType != "Currency" {
		t.Errorf("query league=%q type=%q, want Settlers/Currency", gotLeague, gotType)
	}
	if len(ov.Lines) != 2 {
		t.Errorf("len(Lines) = %d, want 2", len(ov.Lines))
	}
	if len(ov.Raw) == 0 {
		t.Error("Raw payload not kept")
	}
}

func TestClient_CardOverviewQuery(t *testing.T) {
	var gotPath, gotType string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.URL.Query().Get("type")
		w.Write([]byte(`{"lines":[]}`))
	}))

	if _, err := c.CardOverview(context.Background(), "Settlers"); err != nil {
		t.Fatalf("CardOverview: %v", err)
	}
	if gotPath != pathCardOverview {
		t.Errorf("path = %q, want %q", gotPath, pathCardOverview)
	}
	if gotType != "DivinationCard" {
		t.Errorf("type = %q, want DivinationCard", gotType)
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"lines":[]}`))
	}))

	if _, err := c.ItemOverview(context.Background(), "Settlers"); err != nil {
		t.Fatalf("ItemOverview: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestClient_DoesNotRetryNotFound(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.HistoricalDump(context.Background(), "Ancestor")
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if !errors.Is(err, core.ErrTransport) {
		t.Errorf("err = %v, want core.ErrTransport", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on 404)", calls)
	}
}

func TestClient_ExhaustsRetries(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := c.CurrencyOverview(context.Background(), "Settlers")
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !errors.Is(err, core.ErrTransport) {
		t.Errorf("err = %v, want core.ErrTransport", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestClient_LeagueNames(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != pathIndexState {
			t.Errorf("path = %q, want %q", r.URL.Path, pathIndexState)
		}
		w.Write([]byte(`{"economyLeagues":[
			{"name":"Settlers","indexed":true},
			{"name":"Necropolis","indexed":false},
			{"name":"Standard","indexed":true}
		]}`))
	}))

	names, err := c.LeagueNames(context.Background())
	if err != nil {
		t.Fatalf("LeagueNames: %v", err)
	}
	want := []string{"Settlers", "Standard"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestClient_MalformedJSON(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"lines":`))
	}))

	_, err := c.CurrencyOverview(context.Background(), "Settlers")
	if !errors.Is(err, core.ErrTransport) {
		t.Errorf("err = %v, want core.ErrTransport", err)
	}
}
