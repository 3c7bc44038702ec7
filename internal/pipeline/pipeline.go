package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/climate-format-etl/internal/domain"
	"github.com/couchcryptid/climate-format-etl/internal/format"
	"github.com/couchcryptid/climate-format-etl/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
)

// ErrNoVariables is returned when no header column matches any trigger word.
var ErrNoVariables = errors.New("no climate variables recognised in header")

// BatchLoader writes multiple normalized records to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, records []domain.ClimateRecord) error
}

// IngestResult counts the data rows of one ingested file.
type IngestResult struct {
	Total  int
	Loaded int
	Failed int
}

const maxLoadAttempts = 5

// Ingestor reads climate CSV files with a resolved profile and loads the
// normalized records in batches.
type Ingestor struct {
	profile   *format.Profile
	loader    BatchLoader
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
	batchSize int

	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// New creates an Ingestor for the given profile and sink.
func New(profile *format.Profile, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Ingestor {
	return &Ingestor{
		profile:        profile,
		loader:         l,
		logger:         logger,
		metrics:        metrics,
		batchSize:      batchSize,
		initialBackoff: 200 * time.Millisecond,
		maxBackoff:     5 * time.Second,
	}
}

// MarkReady flags the ingestor ready without ingesting, for runs with no input file.
func (i *Ingestor) MarkReady() { i.ready.Store(true) }

// CheckReadiness returns nil once an ingest has completed or MarkReady was called.
func (i *Ingestor) CheckReadiness(_ context.Context) error {
	if !i.ready.Load() {
		return errors.New("climate input has not been ingested yet")
	}
	return nil
}

// Ingest reads a CSV stream with a header row and loads every parseable row.
// Bad rows are skipped and counted; a load failure that outlives its retries
// or context cancellation stops the ingest.
func (i *Ingestor) Ingest(ctx context.Context, r io.Reader) (IngestResult, error) {
	var result IngestResult

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return result, nil
		}
		return result, fmt.Errorf("read csv header: %w", err)
	}

	tfm := NewTransformer(i.profile, header)
	if len(tfm.Columns()) == 0 {
		return result, ErrNoVariables
	}
	i.logger.Info("ingest started",
		"format", i.profile.Format(),
		"time_step", i.profile.TimeStep().String(),
		"columns", len(tfm.Columns()),
		"batch_size", i.batchSize,
	)
	i.metrics.IngestRunning.Set(1)
	defer i.metrics.IngestRunning.Set(0)

	batch := make([]domain.ClimateRecord, 0, i.batchSize)
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return result, fmt.Errorf("read csv row: %w", err)
			}
		}
		result.Total++
		i.metrics.RowsRead.Inc()
		if err != nil {
			i.skipRow(&result, err)
			continue
		}

		rec, err := tfm.Transform(fields)
		if err != nil {
			i.skipRow(&result, err)
			continue
		}
		batch = append(batch, rec)

		if len(batch) >= i.batchSize {
			if err := i.loadWithRetry(ctx, batch); err != nil {
				return result, err
			}
			result.Loaded += len(batch)
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := i.loadWithRetry(ctx, batch); err != nil {
			return result, err
		}
		result.Loaded += len(batch)
	}

	i.ready.Store(true)
	i.logger.Info("ingest finished", "total", result.Total, "loaded", result.Loaded, "failed", result.Failed)
	return result, nil
}

func (i *Ingestor) skipRow(result *IngestResult, err error) {
	result.Failed++
	i.metrics.RowErrors.Inc()
	// +1 for the header row.
	i.logger.Warn("row skipped", "line", result.Total+1, "error", err)
}

// loadWithRetry loads a batch, backing off between failed attempts.
func (i *Ingestor) loadWithRetry(ctx context.Context, batch []domain.ClimateRecord) error {
	backoff := i.initialBackoff
	var err error
	for attempt := 1; attempt <= maxLoadAttempts; attempt++ {
		if err = i.loader.LoadBatch(ctx, batch); err == nil {
			i.metrics.BatchSize.Observe(float64(len(batch)))
			i.metrics.RowsLoaded.Add(float64(len(batch)))
			return nil
		}
		i.metrics.BatchLoadErrors.Inc()
		i.logger.Error("load batch failed", "error", err, "batch_size", len(batch), "attempt", attempt)

		if attempt == maxLoadAttempts || !retry.SleepWithContext(ctx, backoff) {
			break
		}
		backoff = retry.NextBackoff(backoff, i.maxBackoff)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("load batch: %w", err)
}
