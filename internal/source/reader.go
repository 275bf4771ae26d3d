package source

import (
	"context"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/EDEN0412/techquiz/internal/schema"
)

// Reader reads identifiers and rows from the source of record through the
// backend's own ORM connection. Source and mirror share table names, so the
// entity descriptor's table is also the source table.
type Reader struct {
	db *gorm.DB
}

// Open connects to the source-of-record database.
func Open(dsn string) (*Reader, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open source database: %w", err)
	}
	return &Reader{db: db}, nil
}

// NewReader wraps an existing ORM handle, for the backend process that
// already owns one.
func NewReader(db *gorm.DB) *Reader { return &Reader{db: db} }

// IDs returns every primary-key value for the entity, ascending.
func (r *Reader) IDs(ctx context.Context, e *schema.Entity) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Table(e.Table).
		Order(e.PrimaryKey).
		Pluck(e.PrimaryKey, &ids).Error
	if err != nil {
		return nil, fmt.Errorf("read %s ids: %w", e.Table, err)
	}
	return ids, nil
}

// Row returns one source row keyed by column name.
func (r *Reader) Row(ctx context.Context, e *schema.Entity, id int64) (map[string]any, error) {
	row := map[string]any{}
	err := r.db.WithContext(ctx).
		Table(e.Table).
		Where(fmt.Sprintf("%s = ?", e.PrimaryKey), id).
		Take(&row).Error
	if err != nil {
		return nil, fmt.Errorf("read %s row %d: %w", e.Table, id, err)
	}
	return row, nil
}

// Close releases the underlying connection pool.
func (r *Reader) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
