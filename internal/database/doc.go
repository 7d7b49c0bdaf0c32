// Package database provides the SQLite connection and migrations.
//
// Storage access lives in sub-packages that take the *gorm.DB:
//
//	database/
//	├── database.go  # Connection setup, migrations
//	└── kv/          # Key-value entries (favorites blob)
//
// Usage:
//
//	db, err := database.NewDatabase("./cocktails.db")
//	store := kv.NewRepository(db.DB)
//	value, found, err := store.Get(ctx, entities.KeyFavoriteCocktails)
package database
