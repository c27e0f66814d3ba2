package engine

import (
	"strings"

	"github.com/verte-zerg/kanatype/internal/romaji"
)

// Projection is the rendering payload derived from engine state.
type Projection struct {
	// Roman is the full expected Latin string.
	Roman string
	// Cursor is the index in Roman of the next expected key.
	Cursor int
	// RomanMisses are indices in Roman where a miss was typed.
	RomanMisses []int
	// KanaMisses are indices in the kana text of the typed chunks where a
	// miss was typed.
	KanaMisses []int
	// KanaCursor holds the kana indices currently being typed.
	KanaCursor []int
	// LapEnds are indices in Roman that close a lap.
	LapEnds []int
	// LapElapsedMs holds the elapsed time at each lap end reached so far.
	LapElapsedMs []int64
	// Progress is the typed fraction of Roman in [0, 1].
	Progress float64
}

// LapSplits returns the duration of each completed lap.
func (p Projection) LapSplits() []int64 {
	out := make([]int64, len(p.LapElapsedMs))
	var prev int64
	for i, t := range p.LapElapsedMs {
		out[i] = t - prev
		prev = t
	}
	return out
}

// chunkView is one chunk as laid out in the projected strings.
type chunkView struct {
	cand       romaji.Candidate
	romanStart int
	kanaStart  int
	kanaLen    int
	effective  int
	keystrokes []Keystroke
}

// Project derives a projection from the chunk sequence, the chunks confirmed
// so far and the in-flight chunk (nil once finished). It does not modify
// its arguments.
func Project(chunks []romaji.Chunk, confirmed []ConfirmedChunk, inflight *InflightChunk, lapLength int) Projection {
	if lapLength <= 0 {
		lapLength = DefaultLapLength
	}
	views := make([]chunkView, 0, len(chunks))
	romanPos, kanaPos := 0, 0
	add := func(chunk romaji.Chunk, cand romaji.Candidate, keys []Keystroke) {
		v := chunkView{
			cand:       cand,
			romanStart: romanPos,
			kanaStart:  kanaPos,
			kanaLen:    chunk.KanaLen(),
			effective:  len(chunk.MinSpelling),
			keystrokes: keys,
		}
		views = append(views, v)
		romanPos += cand.Len()
		kanaPos += v.kanaLen
	}

	for _, c := range confirmed {
		add(chunks[c.ID], c.Candidate, c.Keystrokes)
	}
	var p Projection
	var prev romaji.Candidate
	next := len(confirmed)
	if inflight != nil && len(inflight.Candidates) > 0 {
		add(chunks[inflight.ID], inflight.Candidates[0], inflight.Keystrokes)
		prev = inflight.Candidates[0]
		next = inflight.ID + 1
		p.Cursor = views[len(views)-1].romanStart + inflight.Cursor()
		p.KanaCursor = kanaAt(views[len(views)-1], inflight.Cursor())
	}
	for i := next; i < len(chunks); i++ {
		cand := chunks[i].Candidates[0]
		if prev.NextHeadConstraint != "" {
			if cs := chunks[i].Constrained(prev.NextHeadConstraint); len(cs) > 0 {
				cand = cs[0]
			}
		}
		add(chunks[i], cand, nil)
		prev = cand
	}
	if inflight == nil {
		p.Cursor = romanPos
	}

	var b strings.Builder
	b.Grow(romanPos)
	for _, v := range views {
		for _, e := range v.cand.Elements {
			b.WriteString(e)
		}
	}
	p.Roman = b.String()
	if romanPos > 0 {
		p.Progress = float64(p.Cursor) / float64(romanPos)
	}

	p.RomanMisses, p.KanaMisses = misses(views)
	p.LapEnds = lapEnds(views, lapLength, romanPos)
	p.LapElapsedMs = lapTimes(views, p.LapEnds)
	return p
}

// kanaAt maps a position in a chunk's spelling to kana indices. A two-kana
// chunk typed with its combined spelling covers both kana.
func kanaAt(v chunkView, pos int) []int {
	if v.kanaLen == 2 && len(v.cand.Elements) == 1 {
		return []int{v.kanaStart, v.kanaStart + 1}
	}
	idx := v.cand.ElementIndex(pos)
	if idx >= v.kanaLen {
		idx = v.kanaLen - 1
	}
	return []int{v.kanaStart + idx}
}

func misses(views []chunkView) (roman, kana []int) {
	seenRoman := map[int]struct{}{}
	seenKana := map[int]struct{}{}
	for _, v := range views {
		pos := 0
		for _, k := range v.keystrokes {
			if k.IsHit {
				pos++
				continue
			}
			if _, ok := seenRoman[v.romanStart+pos]; !ok {
				seenRoman[v.romanStart+pos] = struct{}{}
				roman = append(roman, v.romanStart+pos)
			}
			for _, ki := range kanaAt(v, pos) {
				if _, ok := seenKana[ki]; !ok {
					seenKana[ki] = struct{}{}
					kana = append(kana, ki)
				}
			}
		}
	}
	return roman, kana
}

// lapEnds counts each chunk by its minimal spelling length and places a lap
// end every lapLength keys. An end falling inside a chunk maps onto the
// displayed candidate: the first key stays first, the last stays last.
func lapEnds(views []chunkView, lapLength, total int) []int {
	var ends []int
	count := 0
	for _, v := range views {
		count += v.effective
		for count >= lapLength {
			count -= lapLength
			ends = append(ends, v.romanStart+lapIndexInChunk(v.effective, count, v.cand.Len()))
		}
	}
	if total > 0 && (len(ends) == 0 || ends[len(ends)-1] != total-1) {
		ends = append(ends, total-1)
	}
	return ends
}

func lapIndexInChunk(effective, overflow, actual int) int {
	last := effective - overflow - 1
	switch {
	case last <= 0:
		return 0
	case last == effective-1:
		return actual - 1
	case last >= actual:
		return actual - 1
	default:
		return last
	}
}

// lapTimes returns the elapsed time of the hit keystroke that typed each
// lap end, for the ends reached so far.
func lapTimes(views []chunkView, ends []int) []int64 {
	if len(ends) == 0 {
		return nil
	}
	var times []int64
	next := 0
	for _, v := range views {
		pos := 0
		for _, k := range v.keystrokes {
			if !k.IsHit {
				continue
			}
			idx := v.romanStart + pos
			pos++
			for next < len(ends) && ends[next] < idx {
				next++
			}
			if next < len(ends) && ends[next] == idx {
				times = append(times, k.ElapsedMs)
				next++
			}
			if next == len(ends) {
				return times
			}
		}
	}
	return times
}
