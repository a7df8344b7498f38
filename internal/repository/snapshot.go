package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"microsite-console/internal/constants"
	"microsite-console/internal/store"

	"github.com/rs/zerolog"
)

// Resource names under which collections are snapshotted.
const (
	ResourceDocuments  = "documents"
	ResourceInvoices   = "invoices"
	ResourceMessages   = "messages"
	ResourceNews       = "news"
	ResourceMicrosite  = "microsite"
	ResourceStatistics = "statistics"
)

// Record is one snapshotted entity: its id plus the JSON payload exactly
// as it will be restored.
type Record struct {
	ID      string
	Payload []byte
}

// SnapshotRepository persists the last reconciled copy of each collection
// so a restarted console can render before its first fetch. Row order
// (position) preserves the server-provided list order.
type SnapshotRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSnapshotRepository(db *sql.DB, logger zerolog.Logger) *SnapshotRepository {
	return &SnapshotRepository{db: db, logger: logger}
}

// ReplaceAll swaps the whole snapshot of one resource, mirroring the
// store's replace-no-merge semantics.
func (r *SnapshotRepository) ReplaceAll(ctx context.Context, resource string, records []Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE resource = ?`, resource); err != nil {
		return fmt.Errorf("failed to clear %s snapshots: %w", resource, err)
	}

	now := time.Now()
	for i := 0; i < len(records); i += constants.DBBatchSize {
		end := i + constants.DBBatchSize
		if end > len(records) {
			end = len(records)
		}

		for pos, rec := range records[i:end] {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO snapshots (resource, entity_id, position, payload, updated_at) VALUES (?, ?, ?, ?, ?)`,
				resource, rec.ID, i+pos, string(rec.Payload), now)
			if err != nil {
				return fmt.Errorf("failed to insert snapshot %s/%s: %w", resource, rec.ID, err)
			}
		}
	}

	return tx.Commit()
}

// Put upserts a single entity snapshot, keeping its list position when the
// row already exists.
func (r *SnapshotRepository) Put(ctx context.Context, resource string, rec Record) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO snapshots (resource, entity_id, position, payload, updated_at) VALUES (?, ?, 0, ?, ?)
		 ON CONFLICT (resource, entity_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		resource, rec.ID, string(rec.Payload), time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot %s/%s: %w", resource, rec.ID, err)
	}
	return nil
}

func (r *SnapshotRepository) Delete(ctx context.Context, resource, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE resource = ? AND entity_id = ?`, resource, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot %s/%s: %w", resource, id, err)
	}
	return nil
}

// LoadAll returns the snapshot of one resource in stored order.
func (r *SnapshotRepository) LoadAll(ctx context.Context, resource string) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT entity_id, payload FROM snapshots WHERE resource = ? ORDER BY position`, resource)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s snapshots: %w", resource, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var payload string
		if err := rows.Scan(&rec.ID, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		rec.Payload = []byte(payload)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Marshal converts a collection into snapshot records.
func Marshal[T store.Entity](items []T) ([]Record, error) {
	records := make([]Record, 0, len(items))
	for _, item := range items {
		payload, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
		}
		records = append(records, Record{ID: item.EntityID(), Payload: payload})
	}
	return records, nil
}

// Unmarshal restores a collection from snapshot records, skipping rows
// that no longer decode against the current entity shape.
func Unmarshal[T any](logger zerolog.Logger, records []Record) []T {
	items := make([]T, 0, len(records))
	for _, rec := range records {
		var item T
		if err := json.Unmarshal(rec.Payload, &item); err != nil {
			logger.Warn().Err(err).Str("entity_id", rec.ID).Msg("skipping undecodable snapshot")
			continue
		}
		items = append(items, item)
	}
	return items
}
