package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "kanatype.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		end := start.Add(30 * time.Second)
		stats := model.SessionStats{
			StartedAt:   start,
			EndedAt:     end,
			Dicts:       "basic",
			RomanCount:  200,
			IdealKeys:   200,
			ActualKeys:  204,
			MissCount:   5,
			DurationMs:  end.Sub(start).Milliseconds(),
			DisplayText: "今日 学校",
		}
		keyStats := []model.KeyStats{
			{Key: "k", Correct: 5, Incorrect: 0},
			{Key: "y", Correct: 4, Incorrect: 1},
		}
		id, err := st.InsertSession(ctx, stats, keyStats)
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		ids = append(ids, id)
	}

	cfg := model.StatsConfig{
		Last:        2,
		CurveWindow: 2,
		Keys:        "k,y",
	}
	report, err := BuildReport(ctx, st, cfg)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].SessionID != ids[1] || report.Sessions[1].SessionID != ids[2] {
		t.Fatalf("unexpected session ids: %+v", report.Sessions)
	}
	if len(report.WindowSessionIDs) != 2 {
		t.Fatalf("expected 2 window session ids, got %d", len(report.WindowSessionIDs))
	}
	if len(report.KeyAggsAll) != 2 {
		t.Fatalf("expected key aggregates for all sessions, got %d", len(report.KeyAggsAll))
	}
	if len(report.KeyAggsWindow) == 0 {
		t.Fatalf("expected key aggregates for window sessions")
	}

	var buf bytes.Buffer
	if err := RenderSummary(&buf, report.Sessions, false); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if err := RenderCurves(&buf, report.Sessions, 2, 80, false); err != nil {
		t.Fatalf("render curves: %v", err)
	}
	if err := RenderKeyTable(&buf, report.KeyAggsWindow); err != nil {
		t.Fatalf("render key table: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sessions: 2", "Best WPM: 408", "Learning Curves", "Per-Key (Windowed)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{1, 1, 1}); got != "+++" {
		t.Fatalf("unexpected flat sparkline: %q", got)
	}
	if got := Sparkline([]float64{0, 10}); got != " @" {
		t.Fatalf("unexpected sparkline: %q", got)
	}
}
