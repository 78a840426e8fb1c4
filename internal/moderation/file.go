package moderation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// wordsFile is the on-disk YAML layout:
//
//	words:
//	  - damn
//	  - jerk
type wordsFile struct {
	Words []string `yaml:"words"`
}

// LoadFile reads a banned-word YAML file.
func LoadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading words file: %w", err)
	}

	var f wordsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing words file %s: %w", path, err)
	}

	return f.Words, nil
}

// SaveFile writes words to path, replacing it atomically.
func SaveFile(path string, words []string) error {
	data, err := yaml.Marshal(wordsFile{Words: words})
	if err != nil {
		return fmt.Errorf("encoding words file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".words-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp words file: %w", err)
	}

	_, werr := tmp.Write(data)
	cerr := tmp.Close()

	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing words file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replacing words file: %w", err)
	}

	return nil
}
