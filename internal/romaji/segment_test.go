package romaji

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentPrefersBigram(t *testing.T) {
	units, err := Segment("きょう")
	require.NoError(t, err)
	assert.Equal(t, []string{"きょ", "う"}, units)
}

func TestSegmentMixedASCII(t *testing.T) {
	units, err := Segment("ひじょうに big")
	require.NoError(t, err)
	assert.Equal(t, []string{"ひ", "じょ", "う", "に", " ", "b", "i", "g"}, units)
}

func TestSegmentIsLossless(t *testing.T) {
	inputs := []string{
		"",
		"きょう",
		"がっこう",
		"ちょっと まって!",
		"しんぶん、ください。",
		"ふぁいる 2こ",
		"ゔぃゔぁるでぃ",
	}
	for _, in := range inputs {
		units, err := Segment(in)
		require.NoError(t, err, in)
		assert.Equal(t, in, Join(units), in)
		for _, u := range units {
			assert.NotEmpty(t, u)
		}
	}
}

func TestSegmentUnknownKana(t *testing.T) {
	_, err := Segment("かタ")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownKana)
	assert.Contains(t, err.Error(), "タ")
}

func TestSegmentDoesNotCombineASCII(t *testing.T) {
	units, err := Segment("ab")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, units)
}
