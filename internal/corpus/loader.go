// Package corpus loads the example/response corpus and builds the
// in-memory similarity index over it.
package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"faqbot/internal/domain"
)

// ErrEmptyCorpus is returned when the source yields no usable entries.
var ErrEmptyCorpus = errors.New("corpus: no usable entries")

// Load reads corpus entries from a CSV file. The file must carry
// "example" and "response" columns; "follow_up_yes" and "follow_up_no"
// are optional. Rows missing a required value are dropped.
func Load(path string) ([]domain.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: open %s: %w", path, err)
	}
	defer f.Close()
	entries, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("corpus: parse %s: %w", path, err)
	}
	return entries, nil
}

// Parse reads CSV corpus records from r. The first record is the header.
func Parse(r io.Reader) ([]domain.Entry, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyCorpus
	}
	if err != nil {
		return nil, err
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"example", "response"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	var entries []domain.Entry
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		entry := domain.Entry{
			Example:     field(record, cols, "example"),
			Response:    field(record, cols, "response"),
			FollowupYes: field(record, cols, "follow_up_yes"),
			FollowupNo:  field(record, cols, "follow_up_no"),
		}
		// Incomplete rows are dropped rather than rejected, so a sparse
		// sheet can still serve the rows that are filled in.
		if entry.Example == "" || entry.Response == "" {
			continue
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyCorpus
	}
	return entries, nil
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
