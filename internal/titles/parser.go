package titles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// InputTitle is a single entry from an input list.
type InputTitle struct {
	// Raw is the line as it appeared in the input, trimmed.
	Raw string
	// Display is the title with any season marker stripped.
	Display string
	// Normalized is the canonical lookup form of Display.
	Normalized string
	// Season is the parsed season number, or 0 when no marker was present.
	Season int
}

// seasonMarker matches a trailing season annotation such as "(S2)" or "(s12)".
var seasonMarker = regexp.MustCompile(`(?i)\(\s*s(\d+)\s*\)\s*$`)

// Parse splits a title list into entries. Blank lines and lines holding
// only a comment marker are skipped. A malformed season marker is kept as
// part of the title rather than rejected.
func Parse(r io.Reader) ([]InputTitle, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)

	var entries []InputTitle
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, ParseLine(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read title list: %w", err)
	}
	return entries, nil
}

// ParseLine parses a single already-trimmed input line.
func ParseLine(line string) InputTitle {
	entry := InputTitle{Raw: line, Display: line}
	if match := seasonMarker.FindStringSubmatch(line); match != nil {
		if season, err := strconv.Atoi(match[1]); err == nil && season > 0 {
			entry.Season = season
			entry.Display = strings.TrimSpace(line[:len(line)-len(match[0])])
		}
	}
	if entry.Display == "" {
		entry.Display = entry.Raw
		entry.Season = 0
	}
	entry.Normalized = Normalize(entry.Display)
	return entry
}

// ParseFile reads and parses a title list from disk.
func ParseFile(path string) ([]InputTitle, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open title list: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

// Normalize produces the canonical form used for cache keys and title
// comparison: Unicode compatibility normalization, lowercasing, and
// whitespace collapse. Two spellings of the same title normalize equal.
func Normalize(title string) string {
	folded := norm.NFKC.String(title)
	folded = strings.ToLower(folded)
	return strings.Join(strings.Fields(folded), " ")
}
