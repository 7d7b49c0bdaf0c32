// Package kv provides the SQLite-backed key-value store.
//
// # Usage
//
//	repo := kv.NewRepository(db)
//	err := repo.Set(ctx, "favoriteCocktails", "[]")
package kv

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/cocktails/internal/entities"
	"github.com/mrlokans/cocktails/internal/kvstore"
)

// Repository handles key-value entry database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new key-value repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ kvstore.Store = (*Repository)(nil)

// Get retrieves the value stored under key.
func (r *Repository) Get(ctx context.Context, key string) (string, bool, error) {
	var entry entities.KVEntry
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

// Set creates or replaces the value under key in a single statement.
func (r *Repository) Set(ctx context.Context, key, value string) error {
	entry := entities.KVEntry{Key: key, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"value":      value,
			"updated_at": time.Now(),
		}),
	}).Create(&entry).Error
}

// Delete removes the entry under key. Deleting a missing key is not an error.
func (r *Repository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&entities.KVEntry{}).Error
}

// Keys lists all stored keys in insertion order.
func (r *Repository) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).Model(&entities.KVEntry{}).Order("id").Pluck("key", &keys).Error
	return keys, err
}
