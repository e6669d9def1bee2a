package batch

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// PhraseEntry is one phrase read from a batch file
type PhraseEntry struct {
	Line int
	Text string
}

// ReadBatchFile reads phrases from a file, one per line.
// Blank lines and lines starting with '#' are skipped, and runs of
// whitespace inside a phrase collapse to a single space.
func ReadBatchFile(filename string) ([]PhraseEntry, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer file.Close()

	var entries []PhraseEntry
	scanner := bufio.NewScanner(file)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, PhraseEntry{
			Line: lineNo,
			Text: strings.Join(strings.Fields(line), " "),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	return entries, nil
}
