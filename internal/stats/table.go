package stats

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/samber/lo"

	"github.com/verte-zerg/kanatype/internal/model"
)

type column struct {
	header string
	right  bool
}

var keyColumns = []column{
	{header: "Key"},
	{header: "Accuracy", right: true},
	{header: "Avg Latency (ms)", right: true},
	{header: "Correct", right: true},
	{header: "Incorrect", right: true},
}

// keyRow formats one aggregate in keyColumns order.
func keyRow(a model.KeyAggregate) []string {
	lat := 0.0
	if a.LatencyCount > 0 {
		lat = float64(a.LatencySumMs) / float64(a.LatencyCount)
	}
	return []string{
		KeyLabel(a.Key),
		fmt.Sprintf("%.2f%%", KeyAccuracy(a)*100),
		fmt.Sprintf("%.1f", lat),
		fmt.Sprintf("%d", a.Correct),
		fmt.Sprintf("%d", a.Incorrect),
	}
}

// layoutTable pads every cell to its column width in terminal cells, so
// full-width kana line up with ASCII. Cells past the last column are dropped.
func layoutTable(cols []column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}
	widths := lo.Map(cols, func(c column, _ int) int { return runewidth.StringWidth(c.header) })
	for _, row := range rows {
		for i := range cols {
			widths[i] = max(widths[i], runewidth.StringWidth(cellAt(row, i)))
		}
	}

	header := lo.Map(cols, func(c column, _ int) string { return c.header })
	lines := make([]string, 0, len(rows)+1)
	for _, row := range append([][]string{header}, rows...) {
		cells := make([]string, len(cols))
		for i, c := range cols {
			if c.right {
				cells[i] = runewidth.FillLeft(cellAt(row, i), widths[i])
			} else {
				cells[i] = runewidth.FillRight(cellAt(row, i), widths[i])
			}
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return lines
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
