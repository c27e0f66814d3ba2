package romaji

import (
	"strings"
	"unicode/utf8"
)

// Candidate is one complete way to type a chunk.
type Candidate struct {
	// Elements concatenate to the spelling. A two-kana chunk typed as two
	// independent units keeps one element per kana.
	Elements []string
	// NextHeadConstraint, when set, is the only head the following chunk's
	// candidate may start with.
	NextHeadConstraint string
}

// Spelling returns the concatenated elements.
func (c Candidate) Spelling() string {
	if len(c.Elements) == 1 {
		return c.Elements[0]
	}
	return strings.Join(c.Elements, "")
}

// Len returns the spelling length in keystrokes.
func (c Candidate) Len() int {
	n := 0
	for _, e := range c.Elements {
		n += len(e)
	}
	return n
}

// At returns the key at position pos of the spelling.
func (c Candidate) At(pos int) byte {
	for _, e := range c.Elements {
		if pos < len(e) {
			return e[pos]
		}
		pos -= len(e)
	}
	return 0
}

// Head returns the first key of the spelling.
func (c Candidate) Head() byte {
	return c.At(0)
}

// ElementIndex returns which element holds spelling position pos.
// Ex. position 2 of ["ki", "lyo"] is in element 1.
func (c Candidate) ElementIndex(pos int) int {
	for i, e := range c.Elements {
		if pos < len(e) {
			return i
		}
		pos -= len(e)
	}
	return len(c.Elements) - 1
}

// Chunk is a segmentation unit together with its ordered candidates.
type Chunk struct {
	Text        string
	MinSpelling string
	Candidates  []Candidate
}

// KanaLen returns the number of characters in the chunk text.
func (c Chunk) KanaLen() int {
	return utf8.RuneCountInString(c.Text)
}

// IsASCII reports whether the chunk is a single printable ASCII character.
func (c Chunk) IsASCII() bool {
	r, size := utf8.DecodeRuneInString(c.Text)
	return size == len(c.Text) && IsPrintableASCII(r)
}

// Constrained returns the candidates whose head matches head, preserving order.
func (c Chunk) Constrained(head string) []Candidate {
	if head == "" {
		return c.Candidates
	}
	out := make([]Candidate, 0, len(c.Candidates))
	for _, cand := range c.Candidates {
		if cand.Head() == head[0] {
			out = append(out, cand)
		}
	}
	return out
}
