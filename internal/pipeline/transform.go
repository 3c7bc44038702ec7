package pipeline

import (
	"github.com/couchcryptid/climate-format-etl/internal/domain"
	"github.com/couchcryptid/climate-format-etl/internal/format"
)

// RowTransformer turns CSV rows into normalized records for one file, with
// its header already matched against the profile's trigger words.
type RowTransformer struct {
	profile *format.Profile
	columns domain.ColumnMap
	dateCol int
}

// NewTransformer matches header against the profile once so every row
// reuses the same column assignment.
func NewTransformer(profile *format.Profile, header []string) *RowTransformer {
	return &RowTransformer{
		profile: profile,
		columns: domain.MatchColumns(header, profile),
		dateCol: domain.DateColumn(header),
	}
}

// Columns returns the variables recognised in the header.
func (t *RowTransformer) Columns() domain.ColumnMap { return t.columns }

func (t *RowTransformer) Transform(fields []string) (domain.ClimateRecord, error) {
	return domain.ParseRow(fields, t.columns, t.dateCol, t.profile)
}
