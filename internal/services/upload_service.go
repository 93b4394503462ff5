package services

import (
	"context"
	"fmt"
	"io"

	"salesdash/internal/core"
	"salesdash/internal/ingest"
	applog "salesdash/internal/log"
)

// DatasetWriter persists one normalized upload atomically.
type DatasetWriter interface {
	CreateDataset(ctx context.Context, name string, records []core.SalesRecord) (core.Dataset, error)
}

// EventPublisher announces committed uploads to downstream consumers.
type EventPublisher interface {
	PublishDatasetIngested(ctx context.Context, id int64, name string, rowCount, rowsDropped int) error
}

// UploadService orchestrates an upload: decode, normalize, persist, announce.
type UploadService struct {
	store     DatasetWriter
	publisher EventPublisher
	log       *applog.Logger
}

func NewUploadService(store DatasetWriter, publisher EventPublisher) *UploadService {
	return &UploadService{
		store:     store,
		publisher: publisher,
		log:       applog.Default(applog.ComponentUpload),
	}
}

// UploadResult reports what an accepted upload actually persisted.
type UploadResult struct {
	Dataset      core.Dataset
	RowsIngested int
	// RowsDropped counts input rows excluded for unparseable order dates.
	RowsDropped int
}

// Upload runs the full ingestion pass for one uploaded file. The dataset name
// must be unused; the filename's extension selects the decoder.
func (s *UploadService) Upload(ctx context.Context, name, filename string, r io.Reader) (UploadResult, error) {
	if err := core.ValidateDatasetName(name); err != nil {
		return UploadResult{}, err
	}

	table, err := ingest.Decode(r, ingest.DeclaredExtension(filename))
	if err != nil {
		return UploadResult{}, fmt.Errorf("decode %q: %w", filename, err)
	}

	normalized, err := ingest.Normalize(table)
	if err != nil {
		return UploadResult{}, err
	}

	if normalized.Dropped > 0 {
		// The drop policy is keep-what-parses; the count is at least reported
		s.log.WarnContext(ctx, "Dropped rows with unparseable order dates",
			applog.FieldDataset, name,
			applog.FieldDropped, normalized.Dropped,
			applog.FieldRows, len(normalized.Records))
	}

	ds, err := s.store.CreateDataset(ctx, name, normalized.Records)
	if err != nil {
		return UploadResult{}, err
	}

	if err := s.publishIngested(ctx, ds, len(normalized.Records), normalized.Dropped); err != nil {
		s.log.ErrorContext(ctx, "Failed to publish dataset ingested event",
			applog.FieldDatasetID, ds.ID, applog.FieldError, err)
		// The upload is committed; event delivery is best effort
	}

	return UploadResult{
		Dataset:      ds,
		RowsIngested: len(normalized.Records),
		RowsDropped:  normalized.Dropped,
	}, nil
}

func (s *UploadService) publishIngested(ctx context.Context, ds core.Dataset, rows, dropped int) error {
	if s.publisher == nil {
		return nil
	}
	return s.publisher.PublishDatasetIngested(ctx, ds.ID, ds.Name, rows, dropped)
}
