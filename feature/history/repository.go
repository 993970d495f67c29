package history

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrRunNotFound is returned when a run id is unknown.
var ErrRunNotFound = errors.New("audit run not found")

// Repository stores and reads audit runs.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository on an open connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the history tables.
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&RunRecord{}, &ViolationRecord{}); err != nil {
		return fmt.Errorf("failed to migrate history tables: %w", err)
	}
	return nil
}

// Save records a run together with its violations in one transaction.
func (r *Repository) Save(ctx context.Context, run Run) (*RunRecord, error) {
	record := newRunRecord(run)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := record.Items
		record.Items = nil
		if err := tx.Omit("Items").Create(&record).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.CreateInBatches(items, 500).Error; err != nil {
				return err
			}
		}
		record.Items = items
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record audit run %s: %w", run.ID, err)
	}
	return &record, nil
}

// List returns the most recent runs first, without their violations.
func (r *Repository) List(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	var runs []RunRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit runs: %w", err)
	}
	return runs, nil
}

// Get returns one run with its violations in report order.
func (r *Repository) Get(ctx context.Context, id string) (*RunRecord, error) {
	var run RunRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load audit run %s: %w", id, err)
	}
	return &run, nil
}
