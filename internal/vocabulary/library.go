package vocabulary

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const loadConcurrency = 4

// Library holds the non-empty dictionaries of a directory keyed by name.
type Library struct {
	dicts map[string]Dictionary
}

// NewLibrary builds a library from already parsed dictionaries. Empty
// dictionaries are dropped.
func NewLibrary(dicts ...Dictionary) *Library {
	lib := &Library{dicts: map[string]Dictionary{}}
	for _, d := range dicts {
		if len(d.Entries) == 0 {
			continue
		}
		lib.dicts[d.Name] = d
	}
	return lib
}

// LoadLibrary loads every dictionary file in dir concurrently. A file that
// fails to load is logged and skipped. A missing directory yields an empty
// library.
func LoadLibrary(ctx context.Context, dir string, log *slog.Logger) (*Library, error) {
	if log == nil {
		log = slog.Default()
	}
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return NewLibrary(), nil
		}
		return nil, fmt.Errorf("read dictionary dir: %w", err)
	}
	paths := lo.FilterMap(files, func(f os.DirEntry, _ int) (string, bool) {
		if f.IsDir() || !strings.EqualFold(filepath.Ext(f.Name()), Extension) {
			return "", false
		}
		return filepath.Join(dir, f.Name()), true
	})

	loaded := make([]*Dictionary, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			dict, err := LoadDictionary(path)
			if err != nil {
				log.Warn("skipping dictionary", "path", path, "error", err)
				return nil
			}
			if len(dict.ErrorLines) > 0 {
				log.Warn("dictionary has malformed lines", "dict", dict.Name, "lines", dict.ErrorLines)
			}
			if len(dict.Entries) == 0 {
				log.Warn("dictionary is empty", "dict", dict.Name)
			}
			loaded[i] = &dict
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lib := NewLibrary(lo.FilterMap(loaded, func(d *Dictionary, _ int) (Dictionary, bool) {
		if d == nil {
			return Dictionary{}, false
		}
		return *d, true
	})...)
	log.Debug("dictionaries loaded", "dir", dir, "count", len(lib.dicts))
	return lib, nil
}

// Names returns the dictionary names in sorted order.
func (l *Library) Names() []string {
	names := lo.Keys(l.dicts)
	slices.Sort(names)
	return names
}

// Dictionaries returns the dictionaries in name order.
func (l *Library) Dictionaries() []Dictionary {
	return lo.Map(l.Names(), func(name string, _ int) Dictionary {
		return l.dicts[name]
	})
}

// Entries concatenates the entries of the named dictionaries in the given
// order. No names selects every dictionary.
func (l *Library) Entries(names ...string) ([]Entry, error) {
	if len(names) == 0 {
		names = l.Names()
	}
	var entries []Entry
	for _, name := range names {
		dict, ok := l.dicts[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDictionary, name)
		}
		entries = append(entries, dict.Entries...)
	}
	if len(entries) == 0 {
		return nil, ErrNoDictionaries
	}
	return entries, nil
}
