// Package vocabulary loads kana dictionaries from a library directory.
//
// A dictionary is a UTF-8 text file whose lines have the form
//
//	display:reading,reading,...
//
// with exactly one reading per display character, e.g. 漢字:かん,じ.
// Blank lines and lines starting with # are ignored.
package vocabulary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/kanatype/internal/romaji"
)

// Extension is the file extension of dictionary files.
const Extension = ".txt"

var (
	// ErrNoDictionaries is returned when no usable dictionary is selected.
	ErrNoDictionaries = errors.New("no usable dictionaries")
	// ErrUnknownDictionary is returned when a selected dictionary does not exist.
	ErrUnknownDictionary = errors.New("unknown dictionary")
)

// Entry is one vocabulary item: a display string and the kana reading of
// each of its characters.
type Entry struct {
	Display  string
	Phonetic []string
}

// Kana returns the full reading of the entry.
func (e Entry) Kana() string {
	return strings.Join(e.Phonetic, "")
}

// Valid reports whether the entry has one reading per display character.
func (e Entry) Valid() bool {
	return e.Display != "" && utf8.RuneCountInString(e.Display) == len(e.Phonetic)
}

// Dictionary is a parsed dictionary file.
type Dictionary struct {
	Name    string
	Path    string
	ModTime time.Time
	Entries []Entry
	// ErrorLines holds 1-based line numbers that were skipped as malformed.
	ErrorLines []int
}

// ParseDictionary reads dictionary lines from r.
func ParseDictionary(name string, r io.Reader) (Dictionary, error) {
	dict := Dictionary{Name: name}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, ok := parseLine(line)
		if !ok {
			dict.ErrorLines = append(dict.ErrorLines, lineNo)
			continue
		}
		dict.Entries = append(dict.Entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return Dictionary{}, fmt.Errorf("read dictionary %s: %w", name, err)
	}
	return dict, nil
}

func parseLine(line string) (Entry, bool) {
	display, reading, ok := strings.Cut(line, ":")
	if !ok || display == "" || reading == "" {
		return Entry{}, false
	}
	entry := Entry{Display: display, Phonetic: strings.Split(reading, ",")}
	for _, p := range entry.Phonetic {
		if p == "" {
			return Entry{}, false
		}
	}
	if !entry.Valid() {
		return Entry{}, false
	}
	if _, err := romaji.Segment(entry.Kana()); err != nil {
		return Entry{}, false
	}
	return entry, true
}

// LoadDictionary reads and parses the dictionary file at path. The
// dictionary is named after the file without its extension.
func LoadDictionary(path string) (Dictionary, error) {
	file, err := os.Open(path)
	if err != nil {
		return Dictionary{}, err
	}
	defer func() {
		_ = file.Close()
	}()

	info, err := file.Stat()
	if err != nil {
		return Dictionary{}, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dict, err := ParseDictionary(name, file)
	if err != nil {
		return Dictionary{}, err
	}
	dict.Path = path
	dict.ModTime = info.ModTime()
	return dict, nil
}
