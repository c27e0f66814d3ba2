package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/kanatype/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "kanatype.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func insert(t *testing.T, st *Store, minute int, keys []model.KeyStats) int64 {
	t.Helper()
	start := time.Date(2024, 1, 1, 10, minute, 0, 0, time.UTC)
	id, err := st.InsertSession(context.Background(), model.SessionStats{
		StartedAt:   start,
		EndedAt:     start.Add(20 * time.Second),
		Dicts:       "basic",
		RomanCount:  200,
		IdealKeys:   100,
		ActualKeys:  110,
		MissCount:   3,
		DurationMs:  20000,
		DisplayText: "学校",
	}, keys)
	if err != nil {
		t.Fatalf("insert session: %v", err)
	}
	return id
}

func TestInsertAndListSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	first := insert(t, st, 1, []model.KeyStats{{Key: "k", Correct: 3, Incorrect: 1, LatencySumMs: 300, LatencyCount: 3}})
	second := insert(t, st, 2, nil)

	sessions, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].SessionID != first || sessions[1].SessionID != second {
		t.Fatalf("unexpected order: %+v", sessions)
	}
	got := sessions[0]
	if got.IdealKeys != 100 || got.ActualKeys != 110 || got.MissCount != 3 || got.DurationMs != 20000 {
		t.Fatalf("unexpected aggregate: %+v", got)
	}

	since := time.Date(2024, 1, 1, 10, 2, 0, 0, time.UTC)
	filtered, err := st.ListSessions(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list sessions since: %v", err)
	}
	if len(filtered) != 1 || filtered[0].SessionID != second {
		t.Fatalf("unexpected filtered sessions: %+v", filtered)
	}
}

func TestKeyAggregates(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	a := insert(t, st, 1, []model.KeyStats{
		{Key: "k", Correct: 3, Incorrect: 1, LatencySumMs: 300, LatencyCount: 3},
		{Key: " ", Correct: 2},
	})
	b := insert(t, st, 2, []model.KeyStats{
		{Key: "k", Correct: 1, Incorrect: 2, LatencySumMs: 100, LatencyCount: 1},
	})

	aggs, err := st.ListKeyAggregatesForSessions(ctx, []int64{a, b})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	byKey := map[string]model.KeyAggregate{}
	for _, agg := range aggs {
		byKey[agg.Key] = agg
	}
	k := byKey["k"]
	if k.Correct != 4 || k.Incorrect != 3 || k.LatencySumMs != 400 || k.LatencyCount != 4 {
		t.Fatalf("unexpected k aggregate: %+v", k)
	}
	if byKey[" "].Correct != 2 {
		t.Fatalf("expected space aggregate, got %+v", byKey[" "])
	}

	weak, err := st.GetWeakKeys(ctx, 1)
	if err != nil {
		t.Fatalf("weak keys: %v", err)
	}
	if len(weak) != 1 || weak[0].Key != "k" || weak[0].Incorrect != 2 {
		t.Fatalf("expected only the latest session, got %+v", weak)
	}

	perSession, err := st.ListKeyStatsForSessions(ctx, []int64{a, b}, []string{"k"})
	if err != nil {
		t.Fatalf("per session: %v", err)
	}
	if perSession[a]["k"].Correct != 3 || perSession[b]["k"].Correct != 1 {
		t.Fatalf("unexpected per-session stats: %+v", perSession)
	}
	if _, ok := perSession[a][" "]; ok {
		t.Fatalf("unexpected unselected key in per-session stats")
	}
}

func TestEmptyInputs(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	aggs, err := st.ListKeyAggregatesForSessions(ctx, nil)
	if err != nil || aggs != nil {
		t.Fatalf("expected nil aggregates, got %v %v", aggs, err)
	}
	weak, err := st.GetWeakKeys(ctx, 0)
	if err != nil || weak != nil {
		t.Fatalf("expected nil weak keys, got %v %v", weak, err)
	}
}
