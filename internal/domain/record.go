package domain

import (
	"time"

	"github.com/couchcryptid/climate-format-etl/internal/format"
)

// ClimateRecord is one input row with every recognised variable converted to
// canonical units.
type ClimateRecord struct {
	ID          string                          `json:"id"`
	Format      string                          `json:"format"`
	TimeStep    format.TemporalGranularity      `json:"time_step"`
	Date        string                          `json:"date,omitempty"`
	Values      map[format.VariableKind]float64 `json:"values"`
	ProcessedAt time.Time                       `json:"processed_at"`
}

// ColumnMap maps a variable to the index of the header column holding it.
type ColumnMap map[format.VariableKind]int
