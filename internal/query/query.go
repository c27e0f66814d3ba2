// Package query assembles a practice query from vocabulary entries.
package query

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/verte-zerg/kanatype/internal/romaji"
	"github.com/verte-zerg/kanatype/internal/vocabulary"
)

// DefaultRomanCount is the default minimal key count of a query.
const DefaultRomanCount = 200

var (
	// ErrLengthMismatch is returned for an entry whose reading count differs
	// from its display length.
	ErrLengthMismatch = errors.New("display and reading length mismatch")
	// ErrEmptyVocabulary is returned when there is nothing to pick from.
	ErrEmptyVocabulary = errors.New("empty vocabulary")
)

// Picker chooses an index in [0, n).
type Picker interface {
	Pick(n int) int
}

// Query is the text of one practice session.
type Query struct {
	DisplayText string
	Kana        string
	// DisplayPosOfKana maps each kana rune index to a display rune index.
	DisplayPosOfKana []int
	Chunks           []romaji.Chunk
	// RomanCount is the summed minimal spelling length of Chunks.
	RomanCount int
}

// DisplayIndices maps kana rune indices to distinct display rune indices.
func (q Query) DisplayIndices(kana []int) []int {
	out := make([]int, 0, len(kana))
	for _, k := range kana {
		if k >= 0 && k < len(q.DisplayPosOfKana) {
			out = append(out, q.DisplayPosOfKana[k])
		}
	}
	return lo.Uniq(out)
}

var space = vocabulary.Entry{Display: " ", Phonetic: []string{" "}}

// Build alternates randomly picked entries with single spaces until the
// chunks reach threshold minimal keys. The last entry contributes chunks
// only up to the threshold but its display text is kept whole. Candidates are
// built over the cut unit list so the final chunk sees the end of text.
func Build(entries []vocabulary.Entry, threshold int, picker Picker) (Query, error) {
	if len(entries) == 0 {
		return Query{}, ErrEmptyVocabulary
	}
	if threshold <= 0 {
		threshold = DefaultRomanCount
	}

	var q Query
	var display, kana strings.Builder
	var units []string
	displayLen := 0
	keys := 0
	prevWord := false
	for keys < threshold {
		entry := space
		if !prevWord {
			entry = entries[picker.Pick(len(entries))]
		}
		prevWord = !prevWord

		if !entry.Valid() {
			return Query{}, fmt.Errorf("%w: %q", ErrLengthMismatch, entry.Display)
		}
		wordKana := entry.Kana()
		chunks, err := romaji.Chunkify(wordKana)
		if err != nil {
			return Query{}, fmt.Errorf("entry %q: %w", entry.Display, err)
		}
		for _, c := range chunks {
			keys += len(c.MinSpelling)
			units = append(units, c.Text)
			if keys >= threshold {
				break
			}
		}

		for i, p := range entry.Phonetic {
			for range utf8.RuneCountInString(p) {
				q.DisplayPosOfKana = append(q.DisplayPosOfKana, displayLen+i)
			}
		}
		display.WriteString(entry.Display)
		kana.WriteString(wordKana)
		displayLen += utf8.RuneCountInString(entry.Display)
	}
	chunks, err := romaji.BuildChunks(units)
	if err != nil {
		return Query{}, err
	}
	q.Chunks = chunks
	q.RomanCount = lo.SumBy(chunks, func(c romaji.Chunk) int { return len(c.MinSpelling) })
	q.DisplayText = display.String()
	q.Kana = kana.String()
	return q, nil
}

// MinSpellings returns the minimal Latin spelling of each entry.
func MinSpellings(entries []vocabulary.Entry) ([]string, error) {
	out := make([]string, len(entries))
	for i, e := range entries {
		chunks, err := romaji.Chunkify(e.Kana())
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", e.Display, err)
		}
		out[i] = strings.Join(lo.Map(chunks, func(c romaji.Chunk, _ int) string {
			return c.MinSpelling
		}), "")
	}
	return out, nil
}
