package vocabulary

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

// StarterName is the name of the embedded starter dictionary.
const StarterName = "basic"

//go:embed starter/basic.txt
var starter []byte

// Install writes the starter dictionary into dir and returns its path. An
// existing file is only replaced when overwrite is set.
func Install(dir string, overwrite bool) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, StarterName+Extension)
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("dictionary already exists: %s: %w", path, os.ErrExist)
		}
	}
	if err := os.WriteFile(path, starter, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
