// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Storage
//
//   - kvstore.Store: string blobs by key (internal/kvstore/store.go), backed by
//     the kv_entries table or by memory
//   - http.FavoritesManager: favorites reads and writes (internal/http/favorites.go)
//   - screens.FavoritesStore, screens.FavoriteAdder: what the screens need from
//     the favorites store (internal/screens)
//
// ## Remote Catalog
//
//   - screens.CategoryLister, screens.DrinkLister, screens.DrinkGetter: the three
//     catalog reads, one per screen
//   - http.CatalogReader: all three at once
//
// ## Background Work
//
//   - tasks.Enqueuer, scheduler.Enqueuer: persist tasks on the queue
//   - tasks.ThumbnailCache, http.ThumbnailSource: the thumbnail cache
//
// # Adding a New Storage Backend
//
// To keep favorites somewhere other than SQLite:
//
//  1. Implement kvstore.Store:
//
//     type RedisStore struct { client *redis.Client }
//
//     func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error)
//     func (s *RedisStore) Set(ctx context.Context, key, value string) error
//     func (s *RedisStore) Delete(ctx context.Context, key string) error
//
//  2. Add a compile-time check to checks.go
//
//  3. Pass it to favorites.NewStore in entrypoint.go
//
// # Compile-Time Interface Checks
//
// Implementations are checked against their interfaces in checks.go:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
package interfaces
