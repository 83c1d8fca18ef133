// Package roster reads member registers exported from spreadsheets.
package roster

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var ErrUnknownFormat = errors.New("no matching roster format found")

// Row is one member read from a roster.
type Row struct {
	Line          int
	Name          string
	Age           int
	GuardianName  string
	Phone         string
	Number        string
	AdmissionDate time.Time
	NationalID    string
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "02-01-2006", "2/1/2006"}

// Parse detects the encoding, delimiter and column layout of r and returns
// its member rows. Blank lines are skipped; malformed rows are errors.
func Parse(r io.Reader) ([]Row, error) {
	utf8r, err := utf8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	for _, comma := range []rune{',', ';', '\t'} {
		records, err := readAll(data, comma)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := detectProfile(records)
		if profile == nil {
			continue
		}

		return parseRows(profile, cols, records[headerIdx+1:], headerIdx+1)
	}

	return nil, ErrUnknownFormat
}

func readAll(data []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

type colIndex map[string]int

func detectProfile(records [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range records {
		cols := make(colIndex)

		for i, cell := range row {
			if name := normalizeHeader(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

func parseRows(p *Profile, cols colIndex, records [][]string, headerRowNum int) ([]Row, error) {
	var rows []Row

	for i, record := range records {
		line := headerRowNum + i + 1

		if blank(record) {
			continue
		}

		age, err := strconv.Atoi(cellValue(record, cols, p.AgeCol))
		if err != nil || age <= 0 {
			return nil, fmt.Errorf("line %d: invalid age %q", line, cellValue(record, cols, p.AgeCol))
		}

		admission, ok := parseDate(cellValue(record, cols, p.AdmissionCol))
		if !ok {
			return nil, fmt.Errorf("line %d: invalid admission date %q", line, cellValue(record, cols, p.AdmissionCol))
		}

		rows = append(rows, Row{
			Line:          line,
			Name:          cellValue(record, cols, p.NameCol),
			Age:           age,
			GuardianName:  cellValue(record, cols, p.GuardianCol),
			Phone:         cellValue(record, cols, p.PhoneCol),
			Number:        cellValue(record, cols, p.NumberCol),
			AdmissionDate: admission,
			NationalID:    cellValue(record, cols, p.NationalIDCol),
		})
	}

	return rows, nil
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func cellValue(record []string, cols colIndex, col string) string {
	idx, ok := cols[col]
	if !ok || idx >= len(record) {
		return ""
	}

	return strings.TrimSpace(record[idx])
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
