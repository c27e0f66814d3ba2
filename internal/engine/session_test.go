package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/kanatype/internal/romaji"
)

func newSession(t *testing.T, text string, opts ...Option) *Session {
	t.Helper()
	chunks, err := romaji.Chunkify(text)
	require.NoError(t, err)
	s, err := NewSession(chunks, opts...)
	require.NoError(t, err)
	return s
}

func typeString(t *testing.T, s *Session, keys string, start int64) Transition {
	t.Helper()
	var last Transition
	for i := 0; i < len(keys); i++ {
		tr, err := s.Input(keys[i], start+int64(i)*100)
		require.NoError(t, err, "key %d %q", i, keys[i])
		last = tr
	}
	return last
}

func TestSessionKyou(t *testing.T) {
	s := newSession(t, "きょう")
	tr := typeString(t, s, "kyou", 100)

	assert.Equal(t, Finished, tr.State)
	require.NotNil(t, tr.Result)
	assert.Len(t, tr.Result.ConfirmedChunks, 2)
	assert.Nil(t, tr.Projection)
	assert.Equal(t, Finished, s.State())

	res, ok := s.Result()
	require.True(t, ok)
	assert.Same(t, tr.Result, res)
	first := res.ConfirmedChunks[0]
	assert.Equal(t, 0, first.ID)
	assert.Equal(t, "kyo", first.Candidate.Spelling())
	assert.Equal(t, 3, first.MinSpellingLength)
	assert.Len(t, first.Keystrokes, 3)
}

func TestSessionGeminateDoubling(t *testing.T) {
	s := newSession(t, "って")

	tr, err := s.Input('t', 10)
	require.NoError(t, err)
	assert.True(t, tr.Hit)
	require.NotNil(t, tr.Confirmed)
	assert.Equal(t, []string{"t"}, tr.Confirmed.Candidate.Elements)
	assert.Equal(t, "t", tr.Confirmed.Candidate.NextHeadConstraint)

	tr, err = s.Input('t', 20)
	require.NoError(t, err)
	assert.True(t, tr.Hit)
	assert.Nil(t, tr.Confirmed)

	tr, err = s.Input('e', 30)
	require.NoError(t, err)
	require.NotNil(t, tr.Confirmed)
	assert.Equal(t, "te", tr.Confirmed.Candidate.Spelling())
	assert.Equal(t, Finished, tr.State)
	assert.Len(t, tr.Result.ConfirmedChunks, 2)
}

func TestSessionGeminateNarrowsNextChunk(t *testing.T) {
	s := newSession(t, "っち")
	_, err := s.Input('c', 10)
	require.NoError(t, err)
	require.Equal(t, 1, s.inflight.ID)
	require.Len(t, s.inflight.Candidates, 1)
	assert.Equal(t, "chi", s.inflight.Candidates[0].Spelling())

	tr := typeString(t, s, "chi", 20)
	assert.Equal(t, Finished, tr.State)
}

func TestSessionConstraintUnsatisfiable(t *testing.T) {
	chunks := []romaji.Chunk{
		{Text: "っ", MinSpelling: "k", Candidates: []romaji.Candidate{{Elements: []string{"k"}, NextHeadConstraint: "k"}}},
		{Text: "て", MinSpelling: "te", Candidates: []romaji.Candidate{{Elements: []string{"te"}}}},
	}
	s, err := NewSession(chunks)
	require.NoError(t, err)
	_, err = s.Input('k', 10)
	assert.ErrorIs(t, err, ErrConstraintUnsatisfiable)

	assert.Equal(t, Active, s.State())
	assert.Empty(t, s.Confirmed())
	assert.Empty(t, s.inflight.Keystrokes)
	assert.Equal(t, []int{0}, s.inflight.Cursors)
}

func TestSessionAmbiguousCompletion(t *testing.T) {
	chunks := []romaji.Chunk{{
		Text:        "ゔゅ",
		MinSpelling: "vyu",
		Candidates: []romaji.Candidate{
			{Elements: []string{"vyu"}},
			{Elements: []string{"vyu"}},
		},
	}}
	s, err := NewSession(chunks)
	require.NoError(t, err)
	_, err = s.Input('v', 1)
	require.NoError(t, err)
	_, err = s.Input('y', 2)
	require.NoError(t, err)
	_, err = s.Input('u', 3)
	assert.ErrorIs(t, err, ErrAmbiguousCompletion)

	assert.Equal(t, Active, s.State())
	assert.Len(t, s.inflight.Keystrokes, 2)
	assert.Equal(t, []int{2, 2}, s.inflight.Cursors)
}

func TestSessionMissKeepsCandidates(t *testing.T) {
	s := newSession(t, "し")
	before := len(s.inflight.Candidates)

	tr, err := s.Input('x', 5)
	require.NoError(t, err)
	assert.False(t, tr.Hit)
	assert.Equal(t, Active, tr.State)
	assert.Len(t, s.inflight.Candidates, before)
	assert.Equal(t, 0, s.inflight.Cursor())

	tr = typeString(t, s, "shi", 10)
	assert.Equal(t, Finished, tr.State)
	ks := tr.Result.ConfirmedChunks[0].Keystrokes
	require.Len(t, ks, 4)
	assert.False(t, ks[0].IsHit)
	assert.Equal(t, byte('x'), ks[0].Char)
	assert.Equal(t, int64(5), ks[0].ElapsedMs)
}

func TestSessionNarrowsOnHit(t *testing.T) {
	s := newSession(t, "しゃ")
	_, err := s.Input('s', 1)
	require.NoError(t, err)
	_, err = s.Input('h', 2)
	require.NoError(t, err)
	for i, c := range s.inflight.Candidates {
		assert.Equal(t, byte('h'), c.At(1))
		assert.Equal(t, 2, s.inflight.Cursors[i])
	}
	assert.Equal(t, "sha", s.inflight.Candidates[0].Spelling())
}

func TestSessionTwoElementCandidate(t *testing.T) {
	s := newSession(t, "きょう")
	tr := typeString(t, s, "kilyou", 0)
	require.Equal(t, Finished, tr.State)
	first := tr.Result.ConfirmedChunks[0]
	assert.Equal(t, []string{"ki", "lyo"}, first.Candidate.Elements)
	assert.Equal(t, 3, first.MinSpellingLength)
}

func TestSessionRejectsInputAfterFinish(t *testing.T) {
	s := newSession(t, "a")
	_, err := s.Input('a', 1)
	require.NoError(t, err)
	_, err = s.Input('a', 2)
	assert.ErrorIs(t, err, ErrSessionFinished)
}

func TestSessionRejectsNonPrintable(t *testing.T) {
	s := newSession(t, "a")
	_, err := s.Input('\n', 1)
	assert.ErrorIs(t, err, ErrNonPrintable)
	_, err = s.Input(0x7f, 1)
	assert.ErrorIs(t, err, ErrNonPrintable)
}

func TestNewSessionEmpty(t *testing.T) {
	_, err := NewSession(nil)
	assert.ErrorIs(t, err, ErrNoChunks)
}

func TestSessionMinimalTypingProperty(t *testing.T) {
	for _, text := range []string{"がっこう", "しんぶん", "ちょっと まって", "きゃんぷ", "ふぁいる 2こ", "でぃすく、ください。"} {
		chunks, err := romaji.Chunkify(text)
		require.NoError(t, err)
		s, err := NewSession(chunks)
		require.NoError(t, err)

		var tr Transition
		for _, c := range chunks {
			tr = typeString(t, s, c.MinSpelling, 0)
		}
		require.Equal(t, Finished, tr.State, text)
		require.Len(t, tr.Result.ConfirmedChunks, len(chunks), text)
		for _, cc := range tr.Result.ConfirmedChunks {
			assert.Equal(t, cc.MinSpellingLength, cc.Candidate.Len(), text)
			for _, k := range cc.Keystrokes {
				assert.True(t, k.IsHit, text)
			}
		}
	}
}
