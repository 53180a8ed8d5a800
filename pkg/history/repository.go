package history

import (
	"context"

	"gorm.io/gorm"

	"github.com/pitabwire/frame/datastore/pool"
)

// Repository provides persistence for conversion records.
type Repository struct {
	pool pool.Pool
}

// NewRepository creates a new history repository.
func NewRepository(pool pool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) db(ctx context.Context, readOnly bool) *gorm.DB {
	return r.pool.DB(ctx, readOnly)
}

// Create persists a new conversion record.
func (r *Repository) Create(ctx context.Context, c *Conversion) error {
	return r.db(ctx, false).Create(c).Error
}

// GetByID returns a conversion record by ID.
func (r *Repository) GetByID(ctx context.Context, id string) (*Conversion, error) {
	var c Conversion
	err := r.db(ctx, true).Where("id = ?", id).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListRecent returns conversion records, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit, offset int) ([]Conversion, error) {
	var records []Conversion
	q := r.db(ctx, true).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	err := q.Find(&records).Error
	return records, err
}

// CountByStatus returns how many conversions ended in the given status.
func (r *Repository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db(ctx, true).Model(&Conversion{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
