// Package storage persists datasets and their sales rows in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"salesdash/internal/core"
	applog "salesdash/internal/log"

	_ "modernc.org/sqlite"
)

// insertBatchSize bounds the number of rows per bulk INSERT statement.
// SQLite caps bound parameters per statement; 200 rows x 9 columns stays
// well under the default limit.
const insertBatchSize = 200

const uploadDateLayout = "2006-01-02 15:04:05"

type SQLiteRepository struct {
	db  *sql.DB
	log *applog.Logger
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// Single writer; avoids SQLITE_BUSY under the synchronous access model
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// Run migrations; a schema-setup failure here is fatal to construction
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, log: applog.Default(applog.ComponentStorage)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateDataset registers a dataset and appends all of its rows in one
// transaction: either the registry row and every record are written, or
// nothing is. A name collision surfaces as core.ErrDuplicateDatasetName.
func (r *SQLiteRepository) CreateDataset(ctx context.Context, name string, records []core.SalesRecord) (core.Dataset, error) {
	if err := core.ValidateDatasetName(name); err != nil {
		return core.Dataset{}, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	uploadDate := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO datasets (name, upload_date) VALUES (?, ?)`,
		name, uploadDate.Format(uploadDateLayout))
	if err != nil {
		if isUniqueViolation(err) {
			return core.Dataset{}, core.ErrDuplicateDatasetName
		}
		return core.Dataset{}, fmt.Errorf("insert dataset: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Dataset{}, fmt.Errorf("dataset id: %w", err)
	}

	for start := 0; start < len(records); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(records) {
			end = len(records)
		}
		if err := insertBatch(ctx, tx, id, records[start:end]); err != nil {
			return core.Dataset{}, fmt.Errorf("append sales rows: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return core.Dataset{}, fmt.Errorf("commit dataset: %w", err)
	}

	r.log.InfoContext(ctx, "Dataset persisted",
		applog.FieldDatasetID, id,
		applog.FieldDataset, name,
		applog.FieldRows, len(records))

	return core.Dataset{ID: id, Name: name, UploadDate: uploadDate}, nil
}

func insertBatch(ctx context.Context, tx *sql.Tx, datasetID int64, records []core.SalesRecord) error {
	if len(records) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO sales_data
		(dataset_id, order_date, sales, profit, category, region, sub_category, quantity, discount)
		VALUES `)

	args := make([]any, 0, len(records)*9)
	for i, rec := range records {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			datasetID,
			rec.OrderDate.Format(core.DateLayout),
			rec.Sales,
			rec.Profit,
			rec.Category,
			rec.Region,
			rec.SubCategory,
			rec.Quantity,
			rec.Discount,
		)
	}

	_, err := tx.ExecContext(ctx, sb.String(), args...)
	return err
}

// ListDatasetNames returns all registered dataset names in registry order.
func (r *SQLiteRepository) ListDatasetNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM datasets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan dataset name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// FetchRecords returns every sales row of the named dataset, or
// core.ErrDatasetNotFound for an unknown name.
func (r *SQLiteRepository) FetchRecords(ctx context.Context, name string) ([]core.SalesRecord, error) {
	var datasetID int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM datasets WHERE name = ?`, name).Scan(&datasetID)
	if err == sql.ErrNoRows {
		return nil, core.ErrDatasetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve dataset %q: %w", name, err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, dataset_id, order_date, sales, profit, category, region, sub_category, quantity, discount
		FROM sales_data
		WHERE dataset_id = ?
		ORDER BY id`, datasetID)
	if err != nil {
		return nil, fmt.Errorf("query sales rows: %w", err)
	}
	defer rows.Close()

	var records []core.SalesRecord
	for rows.Next() {
		var (
			rec       core.SalesRecord
			orderDate string
		)
		if err := rows.Scan(&rec.ID, &rec.DatasetID, &orderDate, &rec.Sales, &rec.Profit,
			&rec.Category, &rec.Region, &rec.SubCategory, &rec.Quantity, &rec.Discount); err != nil {
			return nil, fmt.Errorf("scan sales row: %w", err)
		}
		rec.OrderDate, err = time.Parse(core.DateLayout, orderDate)
		if err != nil {
			return nil, fmt.Errorf("stored order date %q: %w", orderDate, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
