package domain

import (
	"strings"

	"github.com/couchcryptid/climate-format-etl/internal/format"
)

// dateHeaders name the column carrying the record date.
var dateHeaders = []string{"date", "timestep", "time"}

// MatchColumns assigns header columns to variables using the profile's
// trigger words. Unrecognised columns are left out of the map.
func MatchColumns(header []string, p *format.Profile) ColumnMap {
	cols := make(ColumnMap)
	claimed := make([]bool, len(header))
	if dc := DateColumn(header); dc >= 0 {
		claimed[dc] = true
	}

	for _, kind := range format.Variables() {
		if idx := matchWords(header, claimed, p.TriggerWords(kind)); idx >= 0 {
			cols[kind] = idx
			claimed[idx] = true
		}
	}
	return cols
}

func matchWords(header []string, claimed []bool, words []string) int {
	for _, w := range words {
		for i, h := range header {
			if !claimed[i] && strings.EqualFold(strings.TrimSpace(h), w) {
				return i
			}
		}
	}
	return -1
}

// DateColumn returns the index of the date column, or -1 if the header has none.
func DateColumn(header []string) int {
	for i, h := range header {
		h = strings.TrimSpace(h)
		for _, d := range dateHeaders {
			if strings.EqualFold(h, d) {
				return i
			}
		}
	}
	return -1
}
