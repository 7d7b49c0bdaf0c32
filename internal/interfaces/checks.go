package interfaces

// This file contains compile-time interface implementation checks.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/cocktails/internal/catalog"
	"github.com/mrlokans/cocktails/internal/database/kv"
	"github.com/mrlokans/cocktails/internal/favorites"
	"github.com/mrlokans/cocktails/internal/http"
	"github.com/mrlokans/cocktails/internal/kvstore"
	"github.com/mrlokans/cocktails/internal/notices"
	"github.com/mrlokans/cocktails/internal/scheduler"
	"github.com/mrlokans/cocktails/internal/screens"
	"github.com/mrlokans/cocktails/internal/tasks"
	"github.com/mrlokans/cocktails/internal/thumbnails"
)

// =============================================================================
// Storage
// =============================================================================

var _ kvstore.Store = (*kv.Repository)(nil)
var _ kvstore.Store = (*kvstore.Memory)(nil)

var _ http.FavoritesManager = (*favorites.Store)(nil)
var _ screens.FavoritesStore = (*favorites.Store)(nil)
var _ screens.FavoriteAdder = (*favorites.Store)(nil)
var _ tasks.FavoritesLoader = (*favorites.Store)(nil)

// =============================================================================
// Remote Catalog
// =============================================================================

var _ http.CatalogReader = (*catalog.Client)(nil)
var _ screens.CategoryLister = (*catalog.Client)(nil)
var _ screens.DrinkLister = (*catalog.Client)(nil)
var _ screens.DrinkGetter = (*catalog.Client)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ tasks.Enqueuer = (*tasks.Client)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
var _ http.TaskStatusReader = (*tasks.Client)(nil)
var _ http.SweepRunner = (*scheduler.ThumbnailSweepScheduler)(nil)

var _ tasks.ThumbnailCache = (*thumbnails.Cache)(nil)
var _ http.ThumbnailSource = (*thumbnails.Cache)(nil)

// =============================================================================
// Sessions
// =============================================================================

var _ http.SessionNotices = (*notices.Manager)(nil)
