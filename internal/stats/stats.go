// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/term"

	"github.com/verte-zerg/kanatype/internal/model"
)

const (
	sparkChars          = " .:-=+*#%@"
	curveLabelWidth     = 10
	minSparkWidth       = 10
	terminalWidthBackup = 80
)

// SessionMetrics computes display metrics for a stored session.
func SessionMetrics(s model.SessionAggregate, ideal bool) Metrics {
	return Summary{
		IdealKeyCount:  s.IdealKeys,
		ActualKeyCount: s.ActualKeys,
		MissCount:      s.MissCount,
		TotalTimeMs:    s.DurationMs,
	}.Metrics(ideal)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := minMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func minMax(values []float64) (float64, float64) {
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

// SparkWidthFor returns the sparkline width that fits a curve line in
// totalWidth columns.
func SparkWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		totalWidth = TerminalWidth()
	}
	w := totalWidth - curveLabelWidth - 40
	if w < minSparkWidth {
		w = minSparkWidth
	}
	return w
}

// TerminalWidth returns the stdout terminal width or a fallback.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// RenderSummary prints a summary for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate, ideal bool) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalWPM, totalAcc, totalScore float64
	bestWPM, bestScore := 0, 0
	for _, s := range sessions {
		m := SessionMetrics(s, ideal)
		totalWPM += float64(m.WPM)
		totalAcc += m.Accuracy
		totalScore += float64(m.Score)
		bestWPM = max(bestWPM, m.WPM)
		bestScore = max(bestScore, m.Score)
	}
	count := float64(len(sessions))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Avg WPM: %.1f", totalWPM/count),
		fmt.Sprintf("Best WPM: %d", bestWPM),
		fmt.Sprintf("Avg Accuracy: %.2f%%", totalAcc/count),
		fmt.Sprintf("Avg Score: %.1f", totalScore/count),
		fmt.Sprintf("Best Score: %d", bestScore),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints moving-average sparklines of WPM, accuracy and score.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window, totalWidth int, ideal bool) error {
	if len(sessions) == 0 {
		return nil
	}
	wpms := make([]float64, len(sessions))
	accs := make([]float64, len(sessions))
	scores := make([]float64, len(sessions))
	for i, s := range sessions {
		m := SessionMetrics(s, ideal)
		wpms[i] = float64(m.WPM)
		accs[i] = m.Accuracy
		scores[i] = float64(m.Score)
	}
	if _, err := fmt.Fprintf(w, "Learning Curves (window %d)\n", window); err != nil {
		return err
	}
	width := SparkWidthFor(totalWidth)
	for _, c := range []struct {
		name   string
		values []float64
	}{
		{"WPM", wpms},
		{"Accuracy", accs},
		{"Score", scores},
	} {
		if err := renderCurveLine(w, c.name, MovingAverage(c.values, window), width); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func renderCurveLine(w io.Writer, name string, values []float64, width int) error {
	if len(values) > width {
		values = values[len(values)-width:]
	}
	minVal, maxVal := minMax(values)
	_, err := fmt.Fprintf(w, "%-*s |%s| min %.1f max %.1f last %.1f\n",
		curveLabelWidth, name, Sparkline(values), minVal, maxVal, values[len(values)-1])
	return err
}

// KeyLabel returns a printable label for a key.
func KeyLabel(key string) string {
	if key == " " {
		return "<space>"
	}
	return key
}

// KeyAccuracy returns the hit ratio of an aggregate, 1 when unseen.
func KeyAccuracy(agg model.KeyAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}

// RenderKeyTable prints per-key aggregates, least accurate first.
func RenderKeyTable(w io.Writer, aggs []model.KeyAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No key stats found.")
		return err
	}
	rows := make([]model.KeyAggregate, len(aggs))
	copy(rows, aggs)
	sort.Slice(rows, func(i, j int) bool {
		ai, aj := KeyAccuracy(rows[i]), KeyAccuracy(rows[j])
		if ai == aj {
			return rows[i].Key < rows[j].Key
		}
		return ai < aj
	})

	if _, err := fmt.Fprintln(w, "Per-Key (Windowed)"); err != nil {
		return err
	}
	tableRows := lo.Map(rows, func(r model.KeyAggregate, _ int) []string { return keyRow(r) })
	for _, line := range layoutTable(keyColumns, tableRows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderKeyCurves prints per-key accuracy sparklines across sessions.
func RenderKeyCurves(w io.Writer, sessions []model.SessionAggregate, perSession map[int64]map[string]model.KeyAggregate, keys []string, window, totalWidth int) error {
	if len(keys) == 0 || len(sessions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Per-Key Accuracy"); err != nil {
		return err
	}
	width := SparkWidthFor(totalWidth)
	for _, key := range keys {
		series := make([]float64, len(sessions))
		for i, s := range sessions {
			series[i] = 100
			if agg, ok := perSession[s.SessionID][key]; ok {
				series[i] = KeyAccuracy(agg) * 100
			}
		}
		if err := renderCurveLine(w, "Key "+KeyLabel(key), MovingAverage(series, window), width); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
