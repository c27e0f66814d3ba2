package romaji

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// shortNasalBlockers are the units after which "n" alone would be read as
// part of the next syllable.
var shortNasalBlockers = map[string]struct{}{
	"あ": {}, "い": {}, "う": {}, "え": {}, "お": {},
	"な": {}, "に": {}, "ぬ": {}, "ね": {}, "の": {},
	"にゃ": {}, "にぃ": {}, "にゅ": {}, "にぇ": {}, "にょ": {},
	"や": {}, "ゆ": {}, "よ": {},
	Nasal: {},
}

// allowShortNasal reports whether the nasal unit may be typed as a single "n"
// given the text of the following chunk.
func allowShortNasal(next string, isLast bool) bool {
	if isLast {
		return false
	}
	if len(next) == 1 && IsPrintableASCII(rune(next[0])) {
		return false
	}
	_, blocked := shortNasalBlockers[next]
	return !blocked
}

// Chunkify segments text and builds candidates for every unit.
func Chunkify(text string) ([]Chunk, error) {
	units, err := Segment(text)
	if err != nil {
		return nil, err
	}
	return BuildChunks(units)
}

// BuildChunks enumerates candidates for each unit. Units are processed from
// last to first so the nasal and geminate rules can look at the next chunk.
func BuildChunks(units []string) ([]Chunk, error) {
	chunks := make([]Chunk, len(units))

	nextText := ""
	var nextRepeatHeads []string

	for i := len(units) - 1; i >= 0; i-- {
		text := units[i]
		ascii := len(text) == 1 && IsPrintableASCII(rune(text[0]))

		var cands []Candidate
		switch {
		case ascii:
			cands = []Candidate{{Elements: []string{text}}}

		case text == Nasal:
			isLast := i == len(units)-1
			for _, s := range table[Nasal] {
				if s == "n" && !allowShortNasal(nextText, isLast) {
					continue
				}
				cands = append(cands, Candidate{Elements: []string{s}})
			}

		case text == Geminate:
			for _, s := range table[Geminate] {
				cands = append(cands, Candidate{Elements: []string{s}})
			}
			for _, head := range nextRepeatHeads {
				cands = append(cands, Candidate{Elements: []string{head}, NextHeadConstraint: head})
			}

		case len([]rune(text)) == 2:
			combined, ok := table[text]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownKana, text)
			}
			for _, s := range combined {
				cands = append(cands, Candidate{Elements: []string{s}})
			}
			pair := []rune(text)
			first, ok := table[string(pair[0])]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownKana, string(pair[0]))
			}
			second, ok := table[string(pair[1])]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownKana, string(pair[1]))
			}
			for _, f := range first {
				for _, s := range second {
					cands = append(cands, Candidate{Elements: []string{f, s}})
				}
			}

		default:
			spellings, ok := table[text]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownKana, text)
			}
			for _, s := range spellings {
				cands = append(cands, Candidate{Elements: []string{s}})
			}
		}

		// Equal lengths keep enumeration order; the per-chunk minimum only
		// composes into a sequence-wide minimum under a stable sort.
		slices.SortStableFunc(cands, func(a, b Candidate) int {
			return a.Len() - b.Len()
		})

		chunks[i] = Chunk{
			Text:        text,
			MinSpelling: cands[0].Spelling(),
			Candidates:  cands,
		}

		nextText = text
		nextRepeatHeads = nil
		if !ascii {
			nextRepeatHeads = repeatHeads(cands)
		}
	}
	return chunks, nil
}

// repeatHeads collects the distinct consonant heads a preceding geminate
// marker may double.
func repeatHeads(cands []Candidate) []string {
	heads := make([]string, 0, len(cands))
	for _, c := range cands {
		h := c.Head()
		if h < 'a' || h > 'z' {
			continue
		}
		switch h {
		case 'a', 'i', 'u', 'e', 'o', 'n':
			continue
		}
		heads = append(heads, string(h))
	}
	return lo.Uniq(heads)
}
