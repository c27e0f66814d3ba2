package stats

import (
	"testing"

	"github.com/verte-zerg/kanatype/internal/model"
)

func TestLayoutTableAlignsColumns(t *testing.T) {
	cols := []column{{header: "Key"}, {header: "Accuracy", right: true}, {header: "Correct", right: true}}
	rows := [][]string{
		{"a", "97.50%", "12"},
		{"<space>", "8.00%", "3"},
	}

	lines := layoutTable(cols, rows)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Key     Accuracy Correct" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "a         97.50%      12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "<space>    8.00%       3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestLayoutTableWideCells(t *testing.T) {
	lines := layoutTable([]column{{header: "Word"}, {header: "Keys", right: true}}, [][]string{{"漢字", "4"}})
	if lines[1] != "漢字    4" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
}

func TestLayoutTableShortRows(t *testing.T) {
	lines := layoutTable([]column{{header: "A"}, {header: "B", right: true}}, [][]string{{"x"}, {"y", "1", "extra"}})
	if lines[1] != "x  " || lines[2] != "y 1" {
		t.Fatalf("unexpected rows: %q", lines[1:])
	}
}

func TestKeyRow(t *testing.T) {
	row := keyRow(model.KeyAggregate{Key: " ", Correct: 3, Incorrect: 1, LatencySumMs: 300, LatencyCount: 2})
	want := []string{KeyLabel(" "), "75.00%", "150.0", "3", "1"}
	for i := range want {
		if row[i] != want[i] {
			t.Fatalf("cell %d: expected %q, got %q", i, want[i], row[i])
		}
	}
}
