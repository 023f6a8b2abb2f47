package main

import (
	"encoding/csv"
	"io"
	"strings"
)

// readIDs reads ID numbers from the first CSV column, skipping a header row
// when the first cell does not look like an ID number.
func readIDs(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var ids []string
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		id := strings.TrimSpace(row[0])
		if id == "" {
			continue
		}
		if i == 0 && !allDigits(id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
