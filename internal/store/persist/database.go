// internal/store/persist/database.go
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Snapshot is the Postgres row backing one persisted store. Alongside the
// raw JSON blob it keeps the SKUs contained in the snapshot as a text array,
// so merchandising can query abandoned carts by SKU without unpacking JSON.
type Snapshot struct {
	Key       string         `json:"key" gorm:"primaryKey;size:255"`
	Data      []byte         `json:"data" gorm:"type:jsonb;not null"`
	SKUs      pq.StringArray `json:"skus" gorm:"type:text[]"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Database persists snapshots in a Postgres table via GORM.
type Database struct {
	db *gorm.DB
}

func NewDatabase(dsn string) (*Database, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&Snapshot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate snapshot table: %w", err)
	}

	return &Database{db: db}, nil
}

func (d *Database) Load(ctx context.Context, key string) ([]byte, error) {
	var row Snapshot
	if err := d.db.WithContext(ctx).First(&row, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}
	return row.Data, nil
}

func (d *Database) Save(ctx context.Context, key string, data []byte) error {
	row := Snapshot{
		Key:       key,
		Data:      data,
		SKUs:      extractSKUs(data),
		UpdatedAt: time.Now(),
	}

	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "skus", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", key, err)
	}
	return nil
}

// extractSKUs pulls product SKUs out of a snapshot blob. Items are either
// bare products (compare) or {product, quantity} line items (cart). A blob
// that does not match yields an empty list, never an error.
func extractSKUs(data []byte) pq.StringArray {
	var envelope struct {
		State struct {
			Items []json.RawMessage `json:"items"`
		} `json:"state"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil
	}

	var skus pq.StringArray
	for _, raw := range envelope.State.Items {
		var item struct {
			SKU     string `json:"sku"`
			Product struct {
				SKU string `json:"sku"`
			} `json:"product"`
		}
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		if item.SKU != "" {
			skus = append(skus, item.SKU)
		} else if item.Product.SKU != "" {
			skus = append(skus, item.Product.SKU)
		}
	}
	return skus
}
