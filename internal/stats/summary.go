package stats

import (
	"math"
	"sort"

	"github.com/verte-zerg/kanatype/internal/engine"
	"github.com/verte-zerg/kanatype/internal/model"
)

// Summary holds the raw counts of a finished session.
type Summary struct {
	IdealKeyCount  int
	ActualKeyCount int
	MissCount      int
	TotalTimeMs    int64
}

// Metrics are the derived display values of a Summary.
type Metrics struct {
	KeyCount int
	WPM      int
	Accuracy float64
	Score    int
}

// Summarize computes the summary counts of a typing result.
func Summarize(result engine.TypingResult) Summary {
	var s Summary
	for _, c := range result.ConfirmedChunks {
		s.IdealKeyCount += c.MinSpellingLength
		s.ActualKeyCount += c.Candidate.Len()
		for _, k := range c.Keystrokes {
			s.TotalTimeMs = k.ElapsedMs
			if !k.IsHit {
				s.MissCount++
			}
		}
	}
	return s
}

// Metrics derives WPM, accuracy and score using the ideal or the actual key
// count.
func (s Summary) Metrics(ideal bool) Metrics {
	keys := s.ActualKeyCount
	if ideal {
		keys = s.IdealKeyCount
	}
	return ComputeMetrics(keys, s.MissCount, s.TotalTimeMs)
}

// ComputeMetrics derives display metrics from a key count, a miss count and
// the total time.
func ComputeMetrics(keys, misses int, totalMs int64) Metrics {
	m := Metrics{KeyCount: keys}
	if totalMs > 0 {
		m.WPM = int(int64(keys) * 60000 / totalMs)
	}
	if keys > 0 {
		m.Accuracy = float64(max(0, keys-misses)) / float64(keys) * 100
	}
	m.Score = int(math.Floor(float64(m.WPM) * math.Pow(m.Accuracy/100, 3)))
	return m
}

// KeyStats derives per-key hit, miss and latency counts from a typing
// result. Every hit of a confirmed chunk typed the next key of its confirmed
// candidate, so a miss is charged to the key expected at that position.
func KeyStats(result engine.TypingResult) []model.KeyStats {
	byKey := map[byte]*model.KeyStats{}
	entry := func(k byte) *model.KeyStats {
		e, ok := byKey[k]
		if !ok {
			e = &model.KeyStats{Key: string(k)}
			byKey[k] = e
		}
		return e
	}
	var prevHit int64 = -1
	for _, c := range result.ConfirmedChunks {
		pos := 0
		for _, k := range c.Keystrokes {
			if pos >= c.Candidate.Len() {
				break
			}
			expected := c.Candidate.At(pos)
			e := entry(expected)
			if !k.IsHit {
				e.Incorrect++
				continue
			}
			e.Correct++
			if prevHit >= 0 {
				e.LatencySumMs += k.ElapsedMs - prevHit
				e.LatencyCount++
			}
			prevHit = k.ElapsedMs
			pos++
		}
	}
	out := make([]model.KeyStats, 0, len(byKey))
	for _, e := range byKey {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
