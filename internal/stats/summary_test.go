package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/kanatype/internal/engine"
	"github.com/verte-zerg/kanatype/internal/romaji"
)

func play(t *testing.T, text string, keys string, stepMs int64) engine.TypingResult {
	t.Helper()
	chunks, err := romaji.Chunkify(text)
	require.NoError(t, err)
	s, err := engine.NewSession(chunks)
	require.NoError(t, err)
	var tr engine.Transition
	for i := 0; i < len(keys); i++ {
		tr, err = s.Input(keys[i], int64(i+1)*stepMs)
		require.NoError(t, err)
	}
	require.Equal(t, engine.Finished, tr.State)
	return *tr.Result
}

func TestSummarizeKyou(t *testing.T) {
	sum := Summarize(play(t, "きょう", "kyou", 250))
	assert.Equal(t, Summary{IdealKeyCount: 4, ActualKeyCount: 4, MissCount: 0, TotalTimeMs: 1000}, sum)
}

func TestSummarizeLongerSpellingAndMisses(t *testing.T) {
	sum := Summarize(play(t, "きょう", "kiqlyoxu", 100))
	assert.Equal(t, 4, sum.IdealKeyCount)
	assert.Equal(t, 6, sum.ActualKeyCount)
	assert.Equal(t, 2, sum.MissCount)
	assert.Equal(t, int64(800), sum.TotalTimeMs)
}

func TestMetrics(t *testing.T) {
	sum := Summary{IdealKeyCount: 4, ActualKeyCount: 6, MissCount: 2, TotalTimeMs: 800}

	actual := sum.Metrics(false)
	assert.Equal(t, 6, actual.KeyCount)
	assert.Equal(t, 450, actual.WPM)
	assert.InDelta(t, 66.666, actual.Accuracy, 0.01)
	assert.Equal(t, 133, actual.Score)

	ideal := sum.Metrics(true)
	assert.Equal(t, 4, ideal.KeyCount)
	assert.Equal(t, 300, ideal.WPM)
	assert.InDelta(t, 50.0, ideal.Accuracy, 1e-9)
	assert.Equal(t, 37, ideal.Score)
}

func TestMetricsClampsAccuracy(t *testing.T) {
	m := ComputeMetrics(2, 5, 1000)
	assert.Zero(t, m.Accuracy)
	assert.Zero(t, m.Score)
	assert.Equal(t, 120, m.WPM)
}

func TestMetricsZeroTime(t *testing.T) {
	m := ComputeMetrics(0, 0, 0)
	assert.Equal(t, Metrics{}, m)
}

func TestKeyStats(t *testing.T) {
	keys := KeyStats(play(t, "かか", "kxaka", 100))
	byKey := map[string]int{}
	for i, k := range keys {
		byKey[k.Key] = i
	}
	require.Contains(t, byKey, "k")
	require.Contains(t, byKey, "a")
	k := keys[byKey["k"]]
	a := keys[byKey["a"]]
	assert.Equal(t, 2, k.Correct)
	assert.Equal(t, 0, k.Incorrect)
	assert.Equal(t, 2, a.Correct)
	assert.Equal(t, 1, a.Incorrect)
	assert.Equal(t, int64(3), k.LatencyCount+a.LatencyCount)
	assert.Equal(t, int64(300), a.LatencySumMs)
	assert.Equal(t, int64(100), k.LatencySumMs)
}
