package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/couchcryptid/climate-format-etl/internal/format"
)

// Normalize converts a raw value of the given variable into canonical units.
func Normalize(kind format.VariableKind, raw float64, p *format.Profile) float64 {
	switch kind {
	case format.MaxTemp, format.MinTemp, format.Temperature:
		return raw + p.TemperatureTransformation()
	case format.Precip:
		return raw * p.PrecipTransformation()
	case format.WindSpeed:
		return raw * p.WindSpeedTransformation()
	case format.WindDirection:
		return wrapDegrees(raw + p.WindDirectionTransformation())
	default:
		return raw
	}
}

// wrapDegrees folds an angle into [0, 360).
func wrapDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// ParseRow builds a normalized record from one CSV row. dateCol may be -1.
func ParseRow(fields []string, cols ColumnMap, dateCol int, p *format.Profile) (ClimateRecord, error) {
	values := make(map[format.VariableKind]float64, len(cols))
	for _, kind := range format.Variables() {
		idx, ok := cols[kind]
		if !ok {
			continue
		}
		if idx >= len(fields) {
			return ClimateRecord{}, fmt.Errorf("row has %d fields, %s expects column %d", len(fields), kind, idx)
		}
		cell := strings.TrimSpace(fields[idx])
		if isMissing(cell) {
			continue
		}
		raw, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return ClimateRecord{}, fmt.Errorf("parse %s in column %d: %w", kind, idx, err)
		}
		values[kind] = Normalize(kind, raw, p)
	}

	var date string
	if dateCol >= 0 && dateCol < len(fields) {
		date = strings.TrimSpace(fields[dateCol])
	}

	return ClimateRecord{
		ID:          generateID(p.Format(), date, values),
		Format:      p.Format(),
		TimeStep:    p.TimeStep(),
		Date:        date,
		Values:      values,
		ProcessedAt: clock.Now(),
	}, nil
}

func isMissing(cell string) bool {
	return cell == "" || strings.EqualFold(cell, "NA")
}

// generateID produces a deterministic ID from the record's format, date and
// normalized values, so re-ingesting a file yields the same keys.
func generateID(formatName, date string, values map[format.VariableKind]float64) string {
	kinds := make([]format.VariableKind, 0, len(values))
	for k := range values {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s", strings.ToLower(formatName), date)
	for _, k := range kinds {
		fmt.Fprintf(&b, "|%s=%g", k, values[k])
	}
	hash := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(hash[:8])
}
