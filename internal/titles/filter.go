package titles

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Filter restricts a run to a subset of input titles. A nil Filter selects
// everything.
type Filter struct {
	normalized map[string]struct{}
}

// LoadFilter builds a Filter from the first usable source: an explicit
// file passed on the command line, then the configured default file. An
// empty or missing configured file yields no filter; an explicit file
// must exist.
func LoadFilter(explicitPath, configuredPath string) (*Filter, error) {
	if explicitPath != "" {
		entries, err := ParseFile(explicitPath)
		if err != nil {
			return nil, err
		}
		return newFilter(entries), nil
	}
	if configuredPath == "" {
		return nil, nil
	}
	entries, err := ParseFile(configuredPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return newFilter(entries), nil
}

func newFilter(entries []InputTitle) *Filter {
	filter := &Filter{normalized: make(map[string]struct{}, len(entries))}
	for _, entry := range entries {
		filter.normalized[entry.Normalized] = struct{}{}
	}
	return filter
}

// Match reports whether the entry is selected. A nil Filter matches all.
func (f *Filter) Match(entry InputTitle) bool {
	if f == nil {
		return true
	}
	_, ok := f.normalized[entry.Normalized]
	return ok
}

// Len returns the number of distinct titles in the filter.
func (f *Filter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.normalized)
}

// Apply returns the entries selected by the filter, preserving input order.
func (f *Filter) Apply(entries []InputTitle) []InputTitle {
	if f == nil {
		return entries
	}
	selected := make([]InputTitle, 0, len(entries))
	for _, entry := range entries {
		if f.Match(entry) {
			selected = append(selected, entry)
		}
	}
	return selected
}

// WriteUnmatched appends titles to the unmatched report file, one per line.
func WriteUnmatched(path string, failed []InputTitle) error {
	if len(failed) == 0 {
		return nil
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open unmatched file: %w", err)
	}
	defer file.Close()
	for _, entry := range failed {
		if _, err := fmt.Fprintln(file, entry.Raw); err != nil {
			return fmt.Errorf("write unmatched file: %w", err)
		}
	}
	return nil
}
