// Package engine drives typing of a chunk sequence one keystroke at a time.
package engine

import "github.com/verte-zerg/kanatype/internal/romaji"

// Keystroke records one key event of a session.
type Keystroke struct {
	ElapsedMs int64
	Char      byte
	IsHit     bool
}

// ConfirmedChunk is a chunk whose candidate has been fully typed.
type ConfirmedChunk struct {
	ID                int
	Candidate         romaji.Candidate
	MinSpellingLength int
	Keystrokes        []Keystroke
}

// HitCount returns the number of hit keystrokes.
func (c ConfirmedChunk) HitCount() int {
	n := 0
	for _, k := range c.Keystrokes {
		if k.IsHit {
			n++
		}
	}
	return n
}

// InflightChunk is the chunk currently being typed. Its candidates shrink as
// keys are accepted; Cursors holds one position per surviving candidate.
type InflightChunk struct {
	ID          int
	Text        string
	MinSpelling string
	Candidates  []romaji.Candidate
	Cursors     []int
	Keystrokes  []Keystroke
}

// Cursor returns the shared cursor position of the surviving candidates.
func (c *InflightChunk) Cursor() int {
	if len(c.Cursors) == 0 {
		return 0
	}
	return c.Cursors[0]
}

// TypingResult is the terminal product of a finished session.
type TypingResult struct {
	ConfirmedChunks []ConfirmedChunk
}

// State is the automaton state.
type State int

const (
	// Active means a chunk is in flight.
	Active State = iota
	// Finished means every chunk has been confirmed.
	Finished
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}
