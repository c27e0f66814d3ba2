package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/kanatype/internal/romaji"
)

func TestProjectionInitial(t *testing.T) {
	s := newSession(t, "がっこう")
	p := s.Projection()
	assert.Equal(t, "gakkou", p.Roman)
	assert.Equal(t, 0, p.Cursor)
	assert.Empty(t, p.RomanMisses)
	assert.Equal(t, []int{0}, p.KanaCursor)
	assert.Equal(t, []int{5}, p.LapEnds)
	assert.Zero(t, p.Progress)
}

func TestProjectionFollowsTypedCandidate(t *testing.T) {
	s := newSession(t, "きょう")
	typeString(t, s, "kil", 0)
	p := s.Projection()
	assert.Equal(t, "kilyou", p.Roman)
	assert.Equal(t, 3, p.Cursor)
	assert.Equal(t, []int{1}, p.KanaCursor)
	assert.InDelta(t, 0.5, p.Progress, 1e-9)
}

func TestProjectionConstraintAwareLookahead(t *testing.T) {
	s := newSession(t, "あっち")
	_, err := s.Input('a', 1)
	require.NoError(t, err)
	p := s.Projection()
	assert.Equal(t, "atti", p.Roman)

	_, err = s.Input('c', 2)
	require.NoError(t, err)
	p = s.Projection()
	assert.Equal(t, "acchi", p.Roman)
	assert.Equal(t, 2, p.Cursor)
}

func TestProjectionMisses(t *testing.T) {
	s := newSession(t, "きょう")
	for _, k := range []struct {
		c byte
		t int64
	}{{'k', 1}, {'x', 2}, {'x', 3}, {'y', 4}, {'o', 5}, {'a', 6}} {
		_, err := s.Input(k.c, k.t)
		require.NoError(t, err)
	}
	p := s.Projection()
	assert.Equal(t, "kyou", p.Roman)
	assert.Equal(t, []int{1, 3}, p.RomanMisses)
	// combined spelling of a two-kana chunk marks both kana
	assert.Equal(t, []int{0, 1, 2}, p.KanaMisses)
}

func TestProjectionMissInSplitCandidate(t *testing.T) {
	s := newSession(t, "きょ")
	typeString(t, s, "kil", 0)
	_, err := s.Input('q', 10)
	require.NoError(t, err)
	p := s.Projection()
	assert.Equal(t, []int{3}, p.RomanMisses)
	assert.Equal(t, []int{1}, p.KanaMisses)
}

func TestProjectionIdempotent(t *testing.T) {
	s := newSession(t, "ちょっと まって")
	typeString(t, s, "choxt", 0)
	assert.Equal(t, s.Projection(), s.Projection())
}

func TestProjectionFinished(t *testing.T) {
	s := newSession(t, "かな")
	typeString(t, s, "kana", 0)
	p := s.Projection()
	assert.Equal(t, "kana", p.Roman)
	assert.Equal(t, 4, p.Cursor)
	assert.InDelta(t, 1.0, p.Progress, 1e-9)
	assert.Nil(t, p.KanaCursor)
}

func TestProjectionLaps(t *testing.T) {
	text := strings.Repeat("か", 7)
	s := newSession(t, text, WithLapLength(5))
	p := s.Projection()
	assert.Equal(t, []int{4, 9, 13}, p.LapEnds)

	typeString(t, s, "kakakaka", 100)
	p = s.Projection()
	require.Len(t, p.LapElapsedMs, 1)
	assert.Equal(t, int64(500), p.LapElapsedMs[0])

	typeString(t, s, "kakaka", 900)
	p = s.Projection()
	assert.Equal(t, []int64{500, 1000, 1400}, p.LapElapsedMs)
	assert.Equal(t, []int64{500, 500, 400}, p.LapSplits())
}

func TestProjectionLapInsideLongerCandidate(t *testing.T) {
	chunks, err := romaji.Chunkify("かきょ")
	require.NoError(t, err)
	// ka(2) + kyo(3); a lap of 3 ends on the first key of kyo
	p := Project(chunks, nil, nil, 3)
	assert.Equal(t, []int{2, 4}, p.LapEnds)

	s, err := NewSession(chunks, WithLapLength(4))
	require.NoError(t, err)
	typeString(t, s, "kaki", 0)
	p = s.Projection()
	// the lap closes on the y of kyo, shown as the i of kilyo
	assert.Equal(t, "kakilyo", p.Roman)
	assert.Equal(t, []int{3, 6}, p.LapEnds)
}

func TestLapIndexInChunk(t *testing.T) {
	assert.Equal(t, 0, lapIndexInChunk(3, 2, 5))
	assert.Equal(t, 4, lapIndexInChunk(3, 0, 5))
	assert.Equal(t, 1, lapIndexInChunk(3, 1, 5))
}
