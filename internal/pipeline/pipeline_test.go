package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/climate-format-etl/internal/domain"
	"github.com/couchcryptid/climate-format-etl/internal/format"
	"github.com/couchcryptid/climate-format-etl/internal/observability"
	"github.com/couchcryptid/climate-format-etl/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockLoader struct {
	mu      sync.Mutex
	batches [][]domain.ClimateRecord
	err     error
}

func (m *mockLoader) LoadBatch(_ context.Context, records []domain.ClimateRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.batches = append(m.batches, append([]domain.ClimateRecord(nil), records...))
	return nil
}

func (m *mockLoader) records() []domain.ClimateRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ClimateRecord
	for _, b := range m.batches {
		out = append(out, b...)
	}
	return out
}

// failingReader serves data once and then fails every read after it.
type failingReader struct {
	data []byte
	err  error
}

func (f *failingReader) Read(p []byte) (int, error) {
	if len(f.data) > 0 {
		n := copy(p, f.data)
		f.data = f.data[n:]
		return n, nil
	}
	return 0, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func resolve(t *testing.T, name string) *format.Profile {
	t.Helper()
	p, err := format.NewResolver(discardLogger(), nil).Resolve(name)
	require.NoError(t, err)
	return p
}

// --- tests ---

func TestIngest_Fixture(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.April, 29, 0, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })

	f, err := os.Open("testdata/daily_temp-k_precip-kgm2sec.csv")
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()
	ing := pipeline.New(resolve(t, "daily_temp-k_precip-kgm2sec"), ldr, discardLogger(), metrics, 2)

	require.Error(t, ing.CheckReadiness(context.Background()))

	result, err := ing.Ingest(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, pipeline.IngestResult{Total: 5, Loaded: 4, Failed: 1}, result)
	require.NoError(t, ing.CheckReadiness(context.Background()))

	assert.Len(t, ldr.batches, 2)
	recs := ldr.records()
	require.Len(t, recs, 4)

	first := recs[0]
	assert.Equal(t, "2024-04-24", first.Date)
	assert.Equal(t, format.Daily, first.TimeStep)
	assert.InDelta(t, 20.0, first.Values[format.MaxTemp], 1e-9)
	assert.InDelta(t, 7.0, first.Values[format.MinTemp], 1e-9)
	assert.InDelta(t, 0.1728, first.Values[format.Precip], 1e-9)
	assert.InDelta(t, 90.0, first.Values[format.WindDirection], 1e-9)
	assert.InDelta(t, 16.2, first.Values[format.WindSpeed], 1e-9)
	assert.InDelta(t, 61.0, first.Values[format.RelativeHumidity], 1e-9)
	assert.InDelta(t, 210.4, first.Values[format.ShortWaveRadiation], 1e-9)

	// NA and empty cells leave MaxTemp and WindSpeed out of the third row.
	third := recs[2]
	assert.Equal(t, "2024-04-26", third.Date)
	assert.NotContains(t, third.Values, format.MaxTemp)
	assert.NotContains(t, third.Values, format.WindSpeed)

	assert.Equal(t, 5.0, testutil.ToFloat64(metrics.RowsRead))
	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.RowsLoaded))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RowErrors))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.IngestRunning))
}

func TestIngest_Reproducible(t *testing.T) {
	input := "date,tmax,ppt\n2024-01-01,12.5,3\n2024-01-02,13,0\n"
	p := resolve(t, "daily_temp-c_precip-mmday")

	run := func() []domain.ClimateRecord {
		ldr := &mockLoader{}
		_, err := pipeline.New(p, ldr, discardLogger(), observability.NewMetricsForTesting(), 10).
			Ingest(context.Background(), strings.NewReader(input))
		require.NoError(t, err)
		return ldr.records()
	}

	a, b := run(), run()
	ids := func(rs []domain.ClimateRecord) []string {
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = r.ID
		}
		return out
	}
	if diff := cmp.Diff(ids(a), ids(b)); diff != "" {
		t.Errorf("record IDs differ between runs (-first +second):\n%s", diff)
	}
}

func TestIngest_EmptyInput(t *testing.T) {
	ldr := &mockLoader{}
	ing := pipeline.New(resolve(t, "daily_temp-c_precip-mmday"), ldr, discardLogger(), observability.NewMetricsForTesting(), 10)

	result, err := ing.Ingest(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, pipeline.IngestResult{}, result)
	assert.Empty(t, ldr.batches)
}

func TestIngest_NoRecognisedColumns(t *testing.T) {
	ing := pipeline.New(resolve(t, "daily_temp-c_precip-mmday"), &mockLoader{}, discardLogger(), observability.NewMetricsForTesting(), 10)

	_, err := ing.Ingest(context.Background(), strings.NewReader("date,foo,bar\n2024-01-01,1,2\n"))
	require.ErrorIs(t, err, pipeline.ErrNoVariables)
	assert.Error(t, ing.CheckReadiness(context.Background()))
}

func TestIngest_ContextCancelled(t *testing.T) {
	ldr := &mockLoader{}
	ing := pipeline.New(resolve(t, "daily_temp-c_precip-mmday"), ldr, discardLogger(), observability.NewMetricsForTesting(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ing.Ingest(ctx, strings.NewReader("date,Tmax\n2024-01-01,1\n"))
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ldr.batches)
}

func TestIngest_LoadFailsAfterCancel(t *testing.T) {
	ldr := &mockLoader{err: errors.New("broker unavailable")}
	ing := pipeline.New(resolve(t, "daily_temp-c_precip-mmday"), ldr, discardLogger(), observability.NewMetricsForTesting(), 1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := ing.Ingest(ctx, strings.NewReader("date,Tmax\n2024-01-01,1\n"))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Error(t, ing.CheckReadiness(context.Background()))
}

func TestIngest_ReadErrorStopsIngest(t *testing.T) {
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()
	ing := pipeline.New(resolve(t, "daily_temp-c_precip-mmday"), ldr, discardLogger(), metrics, 10)

	diskErr := errors.New("disk read failed")
	r := &failingReader{data: []byte("date,Tmax\n2024-01-01,1\n"), err: diskErr}

	result, err := ing.Ingest(context.Background(), r)
	require.ErrorIs(t, err, diskErr)
	assert.Contains(t, err.Error(), "read csv row")
	assert.Equal(t, pipeline.IngestResult{Total: 1}, result)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.RowErrors))
	assert.Empty(t, ldr.batches)
	assert.Error(t, ing.CheckReadiness(context.Background()))
}

func TestIngest_MalformedRowSkipped(t *testing.T) {
	ldr := &mockLoader{}
	ing := pipeline.New(resolve(t, "daily_temp-c_precip-mmday"), ldr, discardLogger(), observability.NewMetricsForTesting(), 10)

	input := "date,Tmax\n2024-01-01,1\n2024-01-02,1\"2\n2024-01-03,3\n"
	result, err := ing.Ingest(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, pipeline.IngestResult{Total: 3, Loaded: 2, Failed: 1}, result)
}

func TestIngest_ShortRowsFail(t *testing.T) {
	ldr := &mockLoader{}
	ing := pipeline.New(resolve(t, "daily_temp-c_precip-mmday"), ldr, discardLogger(), observability.NewMetricsForTesting(), 10)

	input := "date,Tmax,Tmin,ppt\n2024-01-01,20\n2024-01-02\n2024-01-03,20,10,5\n"
	result, err := ing.Ingest(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, pipeline.IngestResult{Total: 3, Loaded: 1, Failed: 2}, result)

	recs := ldr.records()
	require.Len(t, recs, 1)
	assert.Equal(t, "2024-01-03", recs[0].Date)
}

func TestMarkReady(t *testing.T) {
	ing := pipeline.New(resolve(t, "daily_temp-c_precip-mmday"), &mockLoader{}, discardLogger(), observability.NewMetricsForTesting(), 10)
	ing.MarkReady()
	assert.NoError(t, ing.CheckReadiness(context.Background()))
}

func TestRowTransformer(t *testing.T) {
	p := resolve(t, "monthly_temp-c_precip-mmmonth")
	tfm := pipeline.NewTransformer(p, []string{"TimeStep", "ppt", "CO2"})

	assert.Equal(t, domain.ColumnMap{format.Precip: 1, format.CO2: 2}, tfm.Columns())

	rec, err := tfm.Transform([]string{"2024-03", "55", "421.1"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03", rec.Date)
	assert.Equal(t, format.Monthly, rec.TimeStep)
	assert.InDelta(t, 5.5, rec.Values[format.Precip], 1e-9)
	assert.InDelta(t, 421.1, rec.Values[format.CO2], 1e-9)
}
