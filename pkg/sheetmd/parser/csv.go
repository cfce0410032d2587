package parser

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/ukaji3/sheetmd-go/pkg/sheetmd/models"
)

// delimiterCandidates are tried in fixed preference order; ties between
// equally consistent candidates resolve to the earliest entry.
var delimiterCandidates = []rune{',', ';', '\t'}

// delimiterSampleLines is how many leading lines are sampled for
// delimiter inference.
const delimiterSampleLines = 10

// ReadCSV decodes a CSV file into a single logical table. The text
// encoding is auto-detected unless charset is non-empty; the delimiter is
// inferred from the first lines of the decoded text.
func ReadCSV(path, charset string) (models.Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.Table{}, err
	}

	if charset == "" {
		charset, _ = DetectEncoding(raw)
	}
	text := DecodeText(raw, charset)

	delim, err := InferDelimiter(text)
	if err != nil {
		return models.Table{}, err
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return models.Table{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	return tableFromRecords(records), nil
}

// InferDelimiter samples the first lines of decoded CSV text and picks
// the candidate delimiter that splits every sampled row into more than
// one column, scoring candidates by how many rows share the modal
// column count. Ragged input is accepted; normalization pads or
// truncates the odd rows later. Among equally consistent candidates the
// widest wins; remaining ties break in candidate preference order. No
// usable candidate means the input is malformed.
func InferDelimiter(text string) (rune, error) {
	sample := sampleLines(text, delimiterSampleLines)
	if len(sample) == 0 {
		return 0, fmt.Errorf("%w: no content to sample", ErrMalformedInput)
	}

	best := rune(0)
	bestScore, bestWidth := 0, 0
	for _, cand := range delimiterCandidates {
		score, width, ok := delimiterScore(sample, cand)
		if !ok {
			continue
		}
		if score > bestScore || (score == bestScore && width > bestWidth) {
			best, bestScore, bestWidth = cand, score, width
		}
	}

	if best == 0 {
		return 0, fmt.Errorf("%w: no delimiter yields more than one column", ErrMalformedInput)
	}
	return best, nil
}

// sampleLines returns up to max non-empty leading lines of text.
func sampleLines(text string, max int) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == max {
			break
		}
	}
	return lines
}

// delimiterScore parses the sampled lines with the candidate delimiter
// and reports how many rows share the modal column count plus that
// count. ok=false when any row collapses to a single column, so a
// candidate must split every sampled row to qualify at all.
func delimiterScore(sample []string, delim rune) (score, width int, ok bool) {
	r := csv.NewReader(strings.NewReader(strings.Join(sample, "\n")))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil || len(records) == 0 {
		return 0, 0, false
	}

	counts := make(map[int]int)
	for _, rec := range records {
		if len(rec) < 2 {
			return 0, 0, false
		}
		counts[len(rec)]++
	}
	for w, n := range counts {
		if n > score || (n == score && w > width) {
			score, width = n, w
		}
	}
	return score, width, true
}

// tableFromRecords splits parsed records into header and data rows.
func tableFromRecords(records [][]string) models.Table {
	if len(records) == 0 {
		return models.Table{}
	}
	return models.Table{
		Headers: records[0],
		Rows:    records[1:],
	}
}
