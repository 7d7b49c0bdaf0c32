package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/cocktails/internal/entities"
	"github.com/mrlokans/cocktails/internal/favorites"
	"github.com/mrlokans/cocktails/internal/screens"
)

const maxFavoriteBodyBytes = 1 << 20

// FavoritesManager defines the favorites operations exposed over HTTP.
type FavoritesManager interface {
	LoadAll(ctx context.Context) ([]entities.Drink, error)
	Contains(ctx context.Context, id string) (bool, error)
	Add(ctx context.Context, drink entities.Drink) (favorites.AddOutcome, error)
	Remove(ctx context.Context, id string) (favorites.RemoveOutcome, error)
	Reset(ctx context.Context) error
}

// NoticePusher queues a notice for the current visitor.
type NoticePusher interface {
	Push(ctx context.Context, notice entities.Notice)
}

// FavoriteMutation describes the result of a favorites write.
type FavoriteMutation struct {
	Outcome string          `json:"outcome"`
	Notice  entities.Notice `json:"notice"`
	Drink   *entities.Drink `json:"drink,omitempty"`
}

type FavoritesController struct {
	store   FavoritesManager
	catalog CatalogReader
	notices NoticePusher
}

// NewFavoritesController creates a controller. catalog is used to fetch a
// fresh snapshot when a favorite is added by id; notices may be nil.
func NewFavoritesController(store FavoritesManager, catalog CatalogReader, notices NoticePusher) *FavoritesController {
	return &FavoritesController{store: store, catalog: catalog, notices: notices}
}

type addFavoriteRequest struct {
	ID string `json:"id"`
}

// ListFavorites returns the saved drinks in insertion order.
// GET /api/favorites
func (fc *FavoritesController) ListFavorites(c *gin.Context) {
	screen := screens.NewFavorites(fc.store)
	state := screen.Focus(c.Request.Context())
	if state.Failed() {
		if screen.CanReset() {
			respondStorageCorrupt(c, state.Err)
			return
		}
		respondFailure(c, state.Err, state.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"favorites": state.Data,
		"count":     len(state.Data),
	})
}

// AddFavorite saves a drink. The body is either {"id": "..."}, in which case
// the drink is looked up in the catalog, or a full drink record.
// POST /api/favorites
func (fc *FavoritesController) AddFavorite(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxFavoriteBodyBytes))
	if err != nil {
		respondBadRequest(c, "could not read request body")
		return
	}

	var req addFavoriteRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondBadRequest(c, "request body must be a JSON object")
		return
	}

	var drink entities.Drink
	if id := strings.TrimSpace(req.ID); id != "" {
		if fc.catalog == nil {
			respondBadRequest(c, "adding by id requires the catalog")
			return
		}
		fetched, err := fc.catalog.GetDrinkByID(ctx, id)
		if err != nil {
			respondFailure(c, err, "Could not load drink details")
			return
		}
		if fetched == nil {
			respondNotFound(c, "drink")
			return
		}
		drink = *fetched
	} else if err := json.Unmarshal(body, &drink); err != nil {
		respondBadRequest(c, "invalid drink: "+err.Error())
		return
	}

	outcome, err := fc.store.Add(ctx, drink)
	if err != nil {
		if errors.Is(err, favorites.ErrInvalidDrink) {
			respondBadRequest(c, "drink idDrink is required")
			return
		}
		respondFailure(c, err, "add favorite")
		return
	}

	if outcome == favorites.AlreadyExists {
		notice := entities.NewDuplicateFavoriteNotice(drink.ID)
		fc.push(ctx, notice)
		respondSuccess(c, "already in favorites", FavoriteMutation{
			Outcome: outcome.String(),
			Notice:  notice,
			Drink:   &drink,
		})
		return
	}

	notice := entities.NewFavoriteAddedNotice(drink.ID)
	fc.push(ctx, notice)
	respondCreated(c, "favorite added", FavoriteMutation{
		Outcome: outcome.String(),
		Notice:  notice,
		Drink:   &drink,
	})
}

// RemoveFavorite deletes a saved drink.
// DELETE /api/favorites/:id
func (fc *FavoritesController) RemoveFavorite(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondBadRequest(c, "drink id is required")
		return
	}

	outcome, err := fc.store.Remove(c.Request.Context(), id)
	if err != nil {
		respondFailure(c, err, "remove favorite")
		return
	}
	if outcome == favorites.NotPresent {
		respondNotFound(c, "favorite")
		return
	}

	notice := entities.NewFavoriteRemovedNotice(id)
	fc.push(c.Request.Context(), notice)
	respondSuccess(c, "favorite removed", FavoriteMutation{
		Outcome: outcome.String(),
		Notice:  notice,
	})
}

// ResetFavorites discards the stored collection, including a corrupt one.
// POST /api/favorites/reset
func (fc *FavoritesController) ResetFavorites(c *gin.Context) {
	if err := fc.store.Reset(c.Request.Context()); err != nil {
		respondInternalError(c, err, "reset favorites")
		return
	}

	notice := entities.NewFavoritesResetNotice()
	fc.push(c.Request.Context(), notice)
	respondSuccess(c, "favorites reset", FavoriteMutation{
		Outcome: "reset",
		Notice:  notice,
	})
}

func (fc *FavoritesController) push(ctx context.Context, notice entities.Notice) {
	if fc.notices != nil {
		fc.notices.Push(ctx, notice)
	}
}
