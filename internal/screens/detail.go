package screens

import (
	"context"
	"errors"
	"log"

	"github.com/mrlokans/cocktails/internal/catalog"
	"github.com/mrlokans/cocktails/internal/entities"
	"github.com/mrlokans/cocktails/internal/favorites"
)

// DrinkGetter is the catalog read used by the detail screen.
type DrinkGetter interface {
	GetDrinkByID(ctx context.Context, id string) (*entities.Drink, error)
}

// FavoriteAdder is the favorites write used by the detail screen.
type FavoriteAdder interface {
	Add(ctx context.Context, drink entities.Drink) (favorites.AddOutcome, error)
	Contains(ctx context.Context, id string) (bool, error)
}

// DetailData is what the detail screen renders. Drink is nil when the
// catalog has no drink for the identifier.
type DetailData struct {
	Drink       *entities.Drink
	Ingredients []entities.Ingredient
	IsFavorite  bool
}

// Detail shows one drink and lets the user save it as a favorite.
type Detail struct {
	id        string
	favorites FavoriteAdder
	l         *loader[DetailData]
}

func NewDetail(catalogClient DrinkGetter, store FavoriteAdder, id string) *Detail {
	d := &Detail{id: id, favorites: store}
	d.l = newLoader("Could not load drink details", func(ctx context.Context) (DetailData, error) {
		drink, err := catalogClient.GetDrinkByID(ctx, id)
		if err != nil {
			return DetailData{}, err
		}
		if drink == nil {
			return DetailData{}, catalog.ErrNotFound
		}
		data := DetailData{Drink: drink, Ingredients: drink.Ingredients()}
		if store != nil {
			isFavorite, err := store.Contains(ctx, id)
			if err != nil {
				log.Printf("Detail %s: favorite lookup failed: %v", id, err)
			}
			data.IsFavorite = isFavorite
		}
		return data, nil
	})
	d.l.classify = func(err error) (DetailData, string, bool) {
		if errors.Is(err, catalog.ErrNotFound) {
			return DetailData{}, "Drink not found", true
		}
		return DetailData{}, "", false
	}
	return d
}

// ID is the drink identifier the screen shows.
func (d *Detail) ID() string {
	return d.id
}

func (d *Detail) Activate(ctx context.Context) ViewState[DetailData] {
	return d.l.load(ctx)
}

func (d *Detail) Retry(ctx context.Context) ViewState[DetailData] {
	return d.l.load(ctx)
}

func (d *Detail) Deactivate() {
	d.l.deactivate()
}

func (d *Detail) State() ViewState[DetailData] {
	return d.l.current()
}

// AddToFavorites saves the loaded drink. A drink that is already saved yields
// a duplicate notice, which is informational and not an error.
func (d *Detail) AddToFavorites(ctx context.Context) entities.Notice {
	state := d.l.current()
	if !state.Loaded() || state.Data.Drink == nil {
		return entities.NewErrorNotice("Nothing to add: the drink is not loaded.")
	}
	if d.favorites == nil {
		return entities.NewErrorNotice("Favorites are not available.")
	}

	drink := *state.Data.Drink
	outcome, err := d.favorites.Add(ctx, drink)
	if err != nil {
		log.Printf("Detail %s: add to favorites failed: %v", d.id, err)
		if errors.Is(err, favorites.ErrStorageCorrupt) {
			return entities.NewErrorNotice("Favorites data is corrupt. Reset it from the favorites screen.")
		}
		return entities.NewErrorNotice("Could not add the cocktail to favorites.")
	}

	d.l.mu.Lock()
	if d.l.state.Loaded() && d.l.state.Data.Drink != nil {
		d.l.state.Data.IsFavorite = true
	}
	d.l.mu.Unlock()

	if outcome == favorites.AlreadyExists {
		return entities.NewDuplicateFavoriteNotice(drink.ID)
	}
	return entities.NewFavoriteAddedNotice(drink.ID)
}
