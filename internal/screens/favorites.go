package screens

import (
	"context"
	"errors"
	"log"

	"github.com/mrlokans/cocktails/internal/entities"
	"github.com/mrlokans/cocktails/internal/favorites"
)

// FavoritesStore is the favorites access used by the favorites screen.
type FavoritesStore interface {
	LoadAll(ctx context.Context) ([]entities.Drink, error)
	Remove(ctx context.Context, id string) (favorites.RemoveOutcome, error)
	Reset(ctx context.Context) error
}

// Favorites lists the saved drinks. It reloads every time it gains focus so
// changes made from other screens show up.
type Favorites struct {
	store FavoritesStore
	l     *loader[[]entities.Drink]
}

func NewFavorites(store FavoritesStore) *Favorites {
	f := &Favorites{
		store: store,
		l:     newLoader("Could not load favorites", store.LoadAll),
	}
	f.l.describe = func(err error) string {
		if errors.Is(err, favorites.ErrStorageCorrupt) {
			return "Favorites data is corrupt"
		}
		return ""
	}
	return f
}

// Focus loads the collection. Call it on every return to the screen.
func (f *Favorites) Focus(ctx context.Context) ViewState[[]entities.Drink] {
	return f.l.load(ctx)
}

// Activate is Focus; the favorites screen has no separate first-mount read.
func (f *Favorites) Activate(ctx context.Context) ViewState[[]entities.Drink] {
	return f.Focus(ctx)
}

func (f *Favorites) Retry(ctx context.Context) ViewState[[]entities.Drink] {
	return f.Focus(ctx)
}

func (f *Favorites) Deactivate() {
	f.l.deactivate()
}

func (f *Favorites) State() ViewState[[]entities.Drink] {
	return f.l.current()
}

// CanReset reports whether the screen is showing a corrupt collection that
// the user may discard.
func (f *Favorites) CanReset() bool {
	state := f.l.current()
	return state.Failed() && errors.Is(state.Err, favorites.ErrStorageCorrupt)
}

// Remove deletes a favorite and refreshes the list. The caller is expected to
// have confirmed the removal with the user.
func (f *Favorites) Remove(ctx context.Context, id string) entities.Notice {
	outcome, err := f.store.Remove(ctx, id)
	if err != nil {
		log.Printf("Favorites: remove %s failed: %v", id, err)
		return entities.NewErrorNotice("Could not remove the cocktail from favorites.")
	}
	if f.l.isActive() {
		f.Focus(ctx)
	}
	if outcome == favorites.NotPresent {
		return entities.NewErrorNotice("The cocktail is no longer in your favorites.")
	}
	return entities.NewFavoriteRemovedNotice(id)
}

// Reset clears the collection and reloads the screen.
func (f *Favorites) Reset(ctx context.Context) entities.Notice {
	if err := f.store.Reset(ctx); err != nil {
		log.Printf("Favorites: reset failed: %v", err)
		return entities.NewErrorNotice("Could not reset favorites.")
	}
	if f.l.isActive() {
		f.Focus(ctx)
	}
	return entities.NewFavoritesResetNotice()
}
