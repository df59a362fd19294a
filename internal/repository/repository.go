package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/BerylCAtieno/dataset-summarizer-api/internal/models"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, rec *models.DatasetRecord) error
	GetByID(ctx context.Context, id string) (*models.DatasetRecord, error)
	List(ctx context.Context, limit int) ([]models.DatasetRecord, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const datasetColumns = `id, filename, file_size, content_type, encoding, row_count, column_count, s3_key, created_at`

func (r *repository) Create(ctx context.Context, rec *models.DatasetRecord) error {
	query := `
		INSERT INTO datasets (` + datasetColumns + `)
		VALUES (:id, :filename, :file_size, :content_type, :encoding, :row_count, :column_count, :s3_key, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, rec)
	return err
}

// GetByID returns nil without an error when no dataset has the id.
func (r *repository) GetByID(ctx context.Context, id string) (*models.DatasetRecord, error) {
	var rec models.DatasetRecord

	query := `SELECT ` + datasetColumns + ` FROM datasets WHERE id = ?`

	err := r.db.GetContext(ctx, &rec, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// List returns the most recent datasets first.
func (r *repository) List(ctx context.Context, limit int) ([]models.DatasetRecord, error) {
	records := []models.DatasetRecord{}

	query := `SELECT ` + datasetColumns + ` FROM datasets ORDER BY created_at DESC, id LIMIT ?`

	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = ?`, id)
	return err
}
