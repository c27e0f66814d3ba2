package romaji

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKana is returned when a kana unit has no table entry.
var ErrUnknownKana = errors.New("kana is not in romanization table")

// Segment splits text into chunk units, preferring two-kana units the table
// knows. Printable ASCII always forms a single-character unit.
func Segment(text string) ([]string, error) {
	runes := []rune(text)
	units := make([]string, 0, len(runes))
	for i := 0; i < len(runes); {
		if IsPrintableASCII(runes[i]) {
			units = append(units, string(runes[i]))
			i++
			continue
		}
		if i+1 < len(runes) {
			bi := string(runes[i : i+2])
			if _, ok := table[bi]; ok {
				units = append(units, bi)
				i += 2
				continue
			}
		}
		uni := string(runes[i])
		if _, ok := table[uni]; !ok {
			return nil, fmt.Errorf("%w: %q at %d", ErrUnknownKana, uni, i)
		}
		units = append(units, uni)
		i++
	}
	return units, nil
}

// Join reassembles unit texts into the original string.
func Join(units []string) string {
	return strings.Join(units, "")
}
