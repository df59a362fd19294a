package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BerylCAtieno/dataset-summarizer-api/internal/analyzer"
	"github.com/BerylCAtieno/dataset-summarizer-api/internal/config"
	"github.com/BerylCAtieno/dataset-summarizer-api/internal/extractor"
	"github.com/BerylCAtieno/dataset-summarizer-api/internal/identity"
	"github.com/BerylCAtieno/dataset-summarizer-api/internal/models"
	"github.com/BerylCAtieno/dataset-summarizer-api/internal/repository"
	"github.com/BerylCAtieno/dataset-summarizer-api/internal/storage"
	"github.com/BerylCAtieno/dataset-summarizer-api/internal/utils"
)

const defaultListLimit = 50

type DatasetService interface {
	Preview(ctx context.Context, req *models.UploadRequest) (*models.PreviewResponse, error)
	Summarize(ctx context.Context, req *models.SummarizeRequest) (*models.SummaryResponse, error)
	GetDataset(ctx context.Context, id string) (*models.DatasetRecord, error)
	ListDatasets(ctx context.Context, limit int) ([]models.DatasetRecord, error)
	SummarizeDataset(ctx context.Context, id, identityToken string) (*models.SummaryResponse, error)
	DeleteDataset(ctx context.Context, id string) error
}

// Archive holds the backends that keep uploads for later summaries.
type Archive struct {
	Repo    repository.Repository
	Storage storage.Storage
}

type datasetService struct {
	archive      *Archive
	identity     analyzer.IdentityResolver
	previewLimit int
	logger       *utils.Logger
}

// NewService wires the dataset service. A nil archive disables the
// /datasets endpoints.
func NewService(cfg *config.Config, archive *Archive, logger *utils.Logger) DatasetService {
	return &datasetService{
		archive:      archive,
		identity:     identity.NewGitHubClient(cfg.GitHubAPIURL, cfg.IdentityTimeout, logger),
		previewLimit: cfg.PreviewRowLimit,
		logger:       logger,
	}
}

func (s *datasetService) Preview(ctx context.Context, req *models.UploadRequest) (*models.PreviewResponse, error) {
	res, err := s.ingest(req.File, req.Filename)
	if err != nil {
		return nil, err
	}

	resp := &models.PreviewResponse{
		Filename:    req.Filename,
		Encoding:    res.Encoding,
		Preview:     extractor.PreviewRows(res.Table, s.previewLimit),
		Columns:     res.Table.ColumnNames(),
		RowCount:    res.Table.Rows,
		ColumnCount: len(res.Table.Columns),
	}

	if s.archive != nil {
		rec, err := s.store(ctx, req, res)
		if err != nil {
			return nil, err
		}
		resp.DatasetID = rec.ID
	}

	s.logger.Info("Dataset previewed",
		"filename", req.Filename,
		"encoding", res.Encoding,
		"compression", res.Compression,
		"rows", resp.RowCount,
		"columns", resp.ColumnCount,
		"dataset_id", resp.DatasetID)

	return resp, nil
}

func (s *datasetService) Summarize(ctx context.Context, req *models.SummarizeRequest) (*models.SummaryResponse, error) {
	res, err := s.ingest(req.File, req.Filename)
	if err != nil {
		return nil, err
	}

	return s.summarize(ctx, res, req.Filename, req.IdentityToken), nil
}

func (s *datasetService) GetDataset(ctx context.Context, id string) (*models.DatasetRecord, error) {
	if s.archive == nil {
		return nil, errArchiveDisabled
	}

	rec, err := s.archive.Repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get dataset", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve dataset")
	}
	if rec == nil {
		return nil, utils.NewNotFoundError("Dataset not found")
	}

	return rec, nil
}

func (s *datasetService) ListDatasets(ctx context.Context, limit int) ([]models.DatasetRecord, error) {
	if s.archive == nil {
		return nil, errArchiveDisabled
	}
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	records, err := s.archive.Repo.List(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to list datasets", "error", err)
		return nil, utils.NewInternalError("Failed to list datasets")
	}

	return records, nil
}

func (s *datasetService) SummarizeDataset(ctx context.Context, id, identityToken string) (*models.SummaryResponse, error) {
	rec, err := s.GetDataset(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := s.archive.Storage.Download(ctx, rec.S3Key)
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("Dataset file missing", "id", id, "s3_key", rec.S3Key)
		return nil, utils.NewNotFoundError("Dataset file not found")
	}
	if err != nil {
		s.logger.Error("Failed to download dataset", "error", err, "id", id, "s3_key", rec.S3Key)
		return nil, utils.NewInternalError("Failed to retrieve dataset file")
	}

	res, err := s.ingest(data, rec.Filename)
	if err != nil {
		return nil, err
	}

	return s.summarize(ctx, res, rec.Filename, identityToken), nil
}

func (s *datasetService) DeleteDataset(ctx context.Context, id string) error {
	rec, err := s.GetDataset(ctx, id)
	if err != nil {
		return err
	}

	if err := s.archive.Storage.Delete(ctx, rec.S3Key); err != nil {
		s.logger.Error("Failed to delete dataset file", "error", err, "id", id, "s3_key", rec.S3Key)
		return utils.NewInternalError("Failed to delete dataset file")
	}

	if err := s.archive.Repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete dataset record", "error", err, "id", id)
		return utils.NewInternalError("Failed to delete dataset")
	}

	s.logger.Info("Dataset deleted", "id", id)
	return nil
}

var errArchiveDisabled = utils.NewNotFoundError("Dataset archive is not enabled")

func (s *datasetService) ingest(data []byte, filename string) (*extractor.Result, error) {
	res, err := extractor.Ingest(data)
	if errors.Is(err, extractor.ErrEmptyFile) {
		s.logger.Warn("Empty dataset", "filename", filename)
		return nil, utils.NewBadRequestError("Uploaded file is empty")
	}
	if err != nil {
		s.logger.Warn("Failed to read dataset", "error", err, "filename", filename)
		return nil, utils.NewUnprocessableError(fmt.Sprintf("Could not read file as CSV: %v", err), err)
	}
	return res, nil
}

func (s *datasetService) summarize(ctx context.Context, res *extractor.Result, filename, identityToken string) *models.SummaryResponse {
	// Rand stays nil: requests run concurrently and only the global source
	// is safe to share.
	summary := analyzer.Profile(ctx, res.Table, analyzer.Options{
		Identity:      s.identity,
		IdentityToken: identityToken,
	})

	s.logger.Info("Dataset summarized",
		"filename", filename,
		"rows", res.Table.Rows,
		"columns", len(res.Table.Columns),
		"sections", len(summary.Sections))

	return &models.SummaryResponse{Summary: summary.String()}
}

// store archives the raw upload and its metadata. The object is removed
// again if the metadata cannot be saved.
func (s *datasetService) store(ctx context.Context, req *models.UploadRequest, res *extractor.Result) (*models.DatasetRecord, error) {
	id := utils.GenerateID()
	key := storage.DatasetKey(id, req.Filename)

	if err := s.archive.Storage.Upload(ctx, key, req.File, req.ContentType); err != nil {
		s.logger.Error("Failed to upload to S3", "error", err, "s3_key", key)
		return nil, utils.NewInternalError("Failed to store dataset")
	}

	rec := &models.DatasetRecord{
		ID:          id,
		Filename:    req.Filename,
		FileSize:    int64(len(req.File)),
		ContentType: req.ContentType,
		Encoding:    res.Encoding,
		RowCount:    res.Table.Rows,
		ColumnCount: len(res.Table.Columns),
		S3Key:       key,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.archive.Repo.Create(ctx, rec); err != nil {
		s.logger.Error("Failed to save dataset to database", "error", err, "id", id)
		_ = s.archive.Storage.Delete(ctx, key)
		return nil, utils.NewInternalError("Failed to save dataset metadata")
	}

	return rec, nil
}
