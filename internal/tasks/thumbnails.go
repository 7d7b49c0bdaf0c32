package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/cocktails/internal/entities"
	"github.com/mrlokans/cocktails/internal/favorites"
)

// ThumbnailCache is the subset of the thumbnail cache the tasks use.
type ThumbnailCache interface {
	Get(ctx context.Context, drinkID, thumbURL string) (string, error)
	Lookup(drinkID, thumbURL string) (string, bool)
	Invalidate(drinkID string) error
	Purge(keep map[string]bool) (int, error)
	Allowed(thumbURL string) bool
}

// FavoritesLoader reads the current favorites collection.
type FavoritesLoader interface {
	LoadAll(ctx context.Context) ([]entities.Drink, error)
}

// Enqueuer persists new tasks.
type Enqueuer interface {
	Enqueue(ctx context.Context, tasks ...backlite.Task) ([]string, error)
}

// CacheThumbnailTask downloads the thumbnail of one favorite.
type CacheThumbnailTask struct {
	DrinkID string `json:"drink_id"`
	URL     string `json:"url"`
}

// Config returns the queue configuration for thumbnail downloads.
func (t CacheThumbnailTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cache_thumbnail",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: true,
		},
	}
}

// CacheThumbnailProcessor fetches the thumbnail into cache.
func CacheThumbnailProcessor(cache ThumbnailCache) backlite.QueueProcessor[CacheThumbnailTask] {
	return func(ctx context.Context, task CacheThumbnailTask) error {
		if cache == nil {
			return errors.New("thumbnail cache not configured")
		}
		if task.URL == "" {
			return nil
		}

		path, err := cache.Get(ctx, task.DrinkID, task.URL)
		if err != nil {
			return fmt.Errorf("cache thumbnail for drink %s: %w", task.DrinkID, err)
		}
		log.Printf("[TASK] Cached thumbnail for drink %s at %s", task.DrinkID, path)
		return nil
	}
}

// NewCacheThumbnailQueue creates the backlite queue for thumbnail downloads.
func NewCacheThumbnailQueue(cache ThumbnailCache) backlite.Queue {
	return backlite.NewQueue(CacheThumbnailProcessor(cache))
}

// SweepThumbnailsTask reconciles the thumbnail cache with the favorites:
// missing thumbnails are queued for download and thumbnails of drinks that
// are no longer favorites are removed.
type SweepThumbnailsTask struct{}

// Config returns the queue configuration for the sweep.
func (t SweepThumbnailsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "sweep_thumbnails",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// SweepResult summarizes one sweep.
type SweepResult struct {
	Favorites int
	Queued    int
	Purged    int
}

// Sweep performs the reconciliation synchronously.
func Sweep(ctx context.Context, store FavoritesLoader, cache ThumbnailCache, queue Enqueuer) (SweepResult, error) {
	drinks, err := store.LoadAll(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("load favorites: %w", err)
	}

	result := SweepResult{Favorites: len(drinks)}
	keep := make(map[string]bool, len(drinks))
	var pending []backlite.Task
	for _, d := range drinks {
		keep[d.ID] = true
		if d.Thumbnail == "" || !cache.Allowed(d.Thumbnail) {
			continue
		}
		if _, ok := cache.Lookup(d.ID, d.Thumbnail); ok {
			continue
		}
		pending = append(pending, CacheThumbnailTask{DrinkID: d.ID, URL: d.Thumbnail})
	}

	if len(pending) > 0 {
		if _, err := queue.Enqueue(ctx, pending...); err != nil {
			return result, fmt.Errorf("enqueue thumbnails: %w", err)
		}
		result.Queued = len(pending)
	}

	purged, err := cache.Purge(keep)
	result.Purged = purged
	if err != nil {
		return result, fmt.Errorf("purge thumbnails: %w", err)
	}
	return result, nil
}

// SweepThumbnailsProcessor runs Sweep as a task.
func SweepThumbnailsProcessor(store FavoritesLoader, cache ThumbnailCache, queue Enqueuer) backlite.QueueProcessor[SweepThumbnailsTask] {
	return func(ctx context.Context, task SweepThumbnailsTask) error {
		if store == nil || cache == nil || queue == nil {
			return errors.New("thumbnail sweep not configured")
		}

		result, err := Sweep(ctx, store, cache, queue)
		if err != nil {
			return err
		}
		log.Printf("[TASK] Thumbnail sweep: %d favorites, %d queued, %d purged",
			result.Favorites, result.Queued, result.Purged)
		return nil
	}
}

// NewSweepThumbnailsQueue creates the backlite queue for sweeps.
func NewSweepThumbnailsQueue(store FavoritesLoader, cache ThumbnailCache, queue Enqueuer) backlite.Queue {
	return backlite.NewQueue(SweepThumbnailsProcessor(store, cache, queue))
}

// ThumbnailHook keeps the cache in step with favorites changes: an added
// favorite queues its thumbnail, a removed one drops it, a reset drops all.
func ThumbnailHook(queue Enqueuer, cache ThumbnailCache) func(favorites.Event) {
	return func(e favorites.Event) {
		switch e.Kind {
		case favorites.EventAdded:
			if e.Drink.Thumbnail == "" || queue == nil {
				return
			}
			if cache != nil && !cache.Allowed(e.Drink.Thumbnail) {
				log.Printf("[TASK] Skipping thumbnail for drink %s: host not allowed", e.Drink.ID)
				return
			}
			task := CacheThumbnailTask{DrinkID: e.Drink.ID, URL: e.Drink.Thumbnail}
			if _, err := queue.Enqueue(context.Background(), task); err != nil {
				log.Printf("[TASK ERROR] Enqueue thumbnail for drink %s: %v", e.Drink.ID, err)
			}
		case favorites.EventRemoved:
			if cache == nil {
				return
			}
			if err := cache.Invalidate(e.Drink.ID); err != nil {
				log.Printf("Thumbnail invalidation for drink %s failed: %v", e.Drink.ID, err)
			}
		case favorites.EventReset:
			if cache == nil {
				return
			}
			if _, err := cache.Purge(nil); err != nil {
				log.Printf("Thumbnail purge failed: %v", err)
			}
		}
	}
}
