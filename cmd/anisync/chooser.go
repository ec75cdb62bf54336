package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"anisync/internal/anilist"
	"anisync/internal/formatter"
	"anisync/internal/resolver"
	"anisync/internal/titles"
)

// consoleChooser presents ambiguous candidates on the terminal and
// reads the user's selection. An empty answer skips the title.
type consoleChooser struct {
	in  *bufio.Reader
	out io.Writer
}

func newConsoleChooser(in io.Reader, out io.Writer) *consoleChooser {
	return &consoleChooser{in: bufio.NewReader(in), out: out}
}

func (c *consoleChooser) Choose(entry titles.InputTitle, candidates []resolver.Candidate) (*anilist.Media, error) {
	fmt.Fprintf(c.out, "\nAmbiguous title %q:\n", entry.Display)

	rows := make([][]string, 0, len(candidates))
	for i, cand := range candidates {
		year := ""
		if y := cand.Media.Year(); y > 0 {
			year = strconv.Itoa(y)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			cand.Media.PreferredTitle(entry.Display),
			formatter.FormatName(cand.Media.Format),
			year,
			fmt.Sprintf("%.2f", cand.Score),
		})
	}
	fmt.Fprintln(c.out, renderTable(
		[]string{"#", "Title", "Format", "Year", "Score"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight},
	))

	for {
		fmt.Fprintf(c.out, "Select 1-%d, or press Enter to skip: ", len(candidates))
		line, err := c.in.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				return nil, nil
			}
			return nil, fmt.Errorf("read selection: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return nil, nil
		}
		choice, convErr := strconv.Atoi(line)
		if convErr != nil || choice < 1 || choice > len(candidates) {
			fmt.Fprintln(c.out, "Invalid selection.")
			continue
		}
		media := candidates[choice-1].Media
		return &media, nil
	}
}
