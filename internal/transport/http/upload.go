package httptransport

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// idsFromUpload extracts ID numbers from an uploaded CSV or XLSX file.
func idsFromUpload(filename string, r io.Reader) ([]string, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return idsFromXLSX(r)
	}
	return idsFromCSV(r)
}

func idsFromCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV file: %v", err)
	}
	return idsFromRows(rows), nil
}

func idsFromXLSX(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid XLSX file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("invalid XLSX file: %v", err)
	}
	return idsFromRows(rows), nil
}

// idsFromRows picks the ID column and collects its non-empty values. A header
// row is detected either by a recognized column name or by the first cell not
// looking like an ID number; headerless single-column exports work too.
func idsFromRows(rows [][]string) []string {
	if len(rows) == 0 {
		return nil
	}

	col := 0
	start := 0
	if c, ok := detectIDColumn(rows[0]); ok {
		col = c
		start = 1
	} else if len(rows[0]) > 0 && !looksLikeID(strings.TrimSpace(rows[0][0])) {
		start = 1
	}

	var ids []string
	for _, row := range rows[start:] {
		if col >= len(row) {
			continue
		}
		id := strings.TrimSpace(row[col])
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

var idHeaderNames = map[string]bool{
	"id":             true,
	"idnumber":       true,
	"idno":           true,
	"rsaid":          true,
	"rsaidnumber":    true,
	"identity":       true,
	"identitynumber": true,
}

func detectIDColumn(header []string) (int, bool) {
	for i, cell := range header {
		name := strings.ToLower(cell)
		name = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(name)
		if idHeaderNames[name] {
			return i, true
		}
	}
	return 0, false
}

func looksLikeID(s string) bool {
	if len(s) < 6 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
