package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/identity"
)

// Warning is a non-fatal issue found while parsing a report.
type Warning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ParseResult holds the parsed records and any warnings.
type ParseResult struct {
	Records  []identity.RosterRecord `json:"records"`
	Warnings []Warning               `json:"warnings,omitempty"`
}

// Log writes one warning line per parse warning and a debug summary.
func (r *ParseResult) Log(logger *zerolog.Logger, source string) {
	for _, w := range r.Warnings {
		logger.Warn().
			Str("source", source).
			Int("row", w.Row).
			Msg(w.Message)
	}
	logger.Debug().
		Str("source", source).
		Int("records", len(r.Records)).
		Msg("Parsed report")
}

// Parse reads a CSV report. The input is decoded as UTF-8 unless a byte order
// mark says otherwise, and the mark itself is dropped. Rows with an empty key
// are skipped with a warning. A header without the key column is an error, and
// so is any read or syntax error: a report that cannot be read completely is
// never returned as a shorter roster.
func Parse(r io.Reader, cols Columns) (*ParseResult, error) {
	cols = cols.WithDefaults()

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := csv.NewReader(transform.NewReader(r, decoder))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewParseError("csv", "", "empty report: no header row", err)
	}
	if err != nil {
		return nil, errors.WrapParse("csv", "", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToUpper(strings.TrimSpace(h))] = i
	}
	column := func(name string) int {
		if i, ok := index[strings.ToUpper(name)]; ok {
			return i
		}
		return -1
	}

	keyCol := column(cols.Key)
	if keyCol < 0 {
		return nil, errors.NewParseError("csv", "", fmt.Sprintf("missing key column %q", cols.Key), nil)
	}
	secondaryCol := column(cols.SecondaryID)
	firstCol := column(cols.FirstName)
	lastCol := column(cols.LastName)

	result := &ParseResult{Records: []identity.RosterRecord{}}
	row := 1
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, &errors.ParseError{Format: "csv", Line: row, Message: err.Error(), Err: err}
		}

		field := func(i int) string {
			if i < 0 || i >= len(fields) {
				return ""
			}
			return strings.TrimSpace(fields[i])
		}

		key := identity.NormalizeKey(field(keyCol))
		if key == "" {
			result.Warnings = append(result.Warnings, Warning{Row: row, Message: "empty key, row skipped"})
			continue
		}
		result.Records = append(result.Records, identity.RosterRecord{
			Key:         key,
			SecondaryID: field(secondaryCol),
			FirstName:   field(firstCol),
			LastName:    field(lastCol),
		})
	}

	return result, nil
}
