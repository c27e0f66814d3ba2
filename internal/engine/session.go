package engine

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/kanatype/internal/romaji"
)

var (
	// ErrNoChunks is returned when a session is built from an empty chunk list.
	ErrNoChunks = errors.New("no chunks to type")
	// ErrSessionFinished is returned for input after the last chunk confirmed.
	ErrSessionFinished = errors.New("session already finished")
	// ErrNonPrintable is returned for keys outside printable ASCII.
	ErrNonPrintable = errors.New("key is not printable ASCII")
	// ErrAmbiguousCompletion means more than one candidate completed on the
	// same keystroke.
	ErrAmbiguousCompletion = errors.New("multiple candidates completed at once")
	// ErrConstraintUnsatisfiable means a head constraint removed every
	// candidate of the next chunk.
	ErrConstraintUnsatisfiable = errors.New("head constraint leaves no candidate")
)

// DefaultLapLength is the number of Latin keys per lap.
const DefaultLapLength = 50

// Transition is the outcome of one keystroke.
type Transition struct {
	State State
	Hit   bool
	// Confirmed is set when the keystroke completed a chunk.
	Confirmed *ConfirmedChunk
	// Projection is the rendering payload while the session is active.
	Projection *Projection
	// Result is set once the session finishes.
	Result *TypingResult
}

// Option configures a Session.
type Option func(*Session)

// WithLapLength sets the lap length used for projections.
func WithLapLength(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.lapLength = n
		}
	}
}

// Session is the input automaton for one chunk sequence. It is not safe for
// concurrent use; callers serialize Input and Projection.
type Session struct {
	chunks    []romaji.Chunk
	confirmed []ConfirmedChunk
	inflight  InflightChunk
	state     State
	result    *TypingResult
	lapLength int
}

// NewSession starts a session at the first chunk.
func NewSession(chunks []romaji.Chunk, opts ...Option) (*Session, error) {
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}
	s := &Session{
		chunks:    chunks,
		confirmed: make([]ConfirmedChunk, 0, len(chunks)),
		lapLength: DefaultLapLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.inflight = newInflight(0, chunks[0], chunks[0].Candidates)
	return s, nil
}

func newInflight(id int, chunk romaji.Chunk, cands []romaji.Candidate) InflightChunk {
	owned := make([]romaji.Candidate, len(cands))
	copy(owned, cands)
	return InflightChunk{
		ID:          id,
		Text:        chunk.Text,
		MinSpelling: chunk.MinSpelling,
		Candidates:  owned,
		Cursors:     make([]int, len(owned)),
	}
}

// State returns the current automaton state.
func (s *Session) State() State {
	return s.state
}

// Chunks returns the chunk sequence being typed.
func (s *Session) Chunks() []romaji.Chunk {
	return s.chunks
}

// Confirmed returns the chunks confirmed so far.
func (s *Session) Confirmed() []ConfirmedChunk {
	return s.confirmed
}

// Result returns the typing result once finished.
func (s *Session) Result() (*TypingResult, bool) {
	return s.result, s.state == Finished
}

// Projection derives the current rendering payload.
func (s *Session) Projection() Projection {
	var inflight *InflightChunk
	if s.state == Active {
		inflight = &s.inflight
	}
	return Project(s.chunks, s.confirmed, inflight, s.lapLength)
}

// Input consumes one keystroke typed at elapsedMs since the session start.
func (s *Session) Input(c byte, elapsedMs int64) (Transition, error) {
	if s.state == Finished {
		return Transition{}, ErrSessionFinished
	}
	if !romaji.IsPrintableASCII(rune(c)) {
		return Transition{}, fmt.Errorf("%w: %#x", ErrNonPrintable, c)
	}

	in := &s.inflight
	cands, cursors := in.Candidates, in.Cursors
	hitCands := make([]romaji.Candidate, 0, len(cands))
	hitCursors := make([]int, 0, len(cursors))
	for i, cand := range cands {
		if cand.At(cursors[i]) == c {
			hitCands = append(hitCands, cand)
			hitCursors = append(hitCursors, cursors[i]+1)
		}
	}
	hit := len(hitCands) > 0
	if hit {
		cands, cursors = hitCands, hitCursors
	}
	keys := append(in.Keystrokes[:len(in.Keystrokes):len(in.Keystrokes)],
		Keystroke{ElapsedMs: elapsedMs, Char: c, IsHit: hit})

	done := -1
	for i, cand := range cands {
		if cursors[i] != cand.Len() {
			continue
		}
		if done >= 0 {
			return Transition{}, fmt.Errorf("%w: chunk %d %q (%q, %q)", ErrAmbiguousCompletion,
				in.ID, in.Text, cands[done].Spelling(), cand.Spelling())
		}
		done = i
	}

	if done < 0 {
		in.Candidates, in.Cursors, in.Keystrokes = cands, cursors, keys
		proj := s.Projection()
		return Transition{State: Active, Hit: hit, Projection: &proj}, nil
	}

	confirmed, err := s.confirm(cands[done], keys)
	if err != nil {
		return Transition{}, err
	}
	t := Transition{State: s.state, Hit: hit, Confirmed: &confirmed}
	if s.state == Finished {
		t.Result = s.result
		return t, nil
	}
	proj := s.Projection()
	t.Projection = &proj
	return t, nil
}

// confirm closes the in-flight chunk with cand. State is left untouched when
// an error is returned.
func (s *Session) confirm(cand romaji.Candidate, keys []Keystroke) (ConfirmedChunk, error) {
	in := &s.inflight
	confirmed := ConfirmedChunk{
		ID:                in.ID,
		Candidate:         cand,
		MinSpellingLength: len(in.MinSpelling),
		Keystrokes:        keys,
	}

	nextID := in.ID + 1
	if nextID == len(s.chunks) {
		s.confirmed = append(s.confirmed, confirmed)
		s.state = Finished
		s.result = &TypingResult{ConfirmedChunks: s.confirmed}
		s.inflight = InflightChunk{}
		return confirmed, nil
	}

	next := s.chunks[nextID]
	cands := next.Candidates
	if cand.NextHeadConstraint != "" {
		cands = next.Constrained(cand.NextHeadConstraint)
		if len(cands) == 0 {
			return ConfirmedChunk{}, fmt.Errorf("%w: %q after %q", ErrConstraintUnsatisfiable,
				next.Text, cand.NextHeadConstraint)
		}
	}
	s.confirmed = append(s.confirmed, confirmed)
	s.inflight = newInflight(nextID, next, cands)
	return confirmed, nil
}
