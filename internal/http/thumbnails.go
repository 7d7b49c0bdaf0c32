package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/cocktails/internal/entities"
)

// ThumbnailSource returns a local copy of a drink thumbnail, fetching it if needed.
type ThumbnailSource interface {
	Get(ctx context.Context, drinkID, thumbURL string) (string, error)
	Allowed(thumbURL string) bool
}

// FavoritesLister lists the saved drinks.
type FavoritesLister interface {
	LoadAll(ctx context.Context) ([]entities.Drink, error)
}

// ThumbnailsController serves cached thumbnails of saved drinks.
type ThumbnailsController struct {
	cache ThumbnailSource
	store FavoritesLister
}

func NewThumbnailsController(cache ThumbnailSource, store FavoritesLister) *ThumbnailsController {
	return &ThumbnailsController{cache: cache, store: store}
}

// GetThumbnail serves the cached thumbnail of a favorite, or redirects to the
// remote image when it cannot be cached. Images outside the allowed hosts are
// neither fetched nor redirected to.
// GET /api/favorites/:id/thumbnail
func (tc *ThumbnailsController) GetThumbnail(c *gin.Context) {
	id := c.Param("id")

	drinks, err := tc.store.LoadAll(c.Request.Context())
	if err != nil {
		respondFailure(c, err, "load favorites")
		return
	}

	var thumbURL string
	found := false
	for _, d := range drinks {
		if d.ID == id {
			thumbURL = d.Thumbnail
			found = true
			break
		}
	}
	if !found {
		respondNotFound(c, "favorite")
		return
	}
	if thumbURL == "" || !tc.cache.Allowed(thumbURL) {
		respondNotFound(c, "thumbnail")
		return
	}

	cachePath, err := tc.cache.Get(c.Request.Context(), id, thumbURL)
	if err != nil || cachePath == "" {
		c.Redirect(http.StatusTemporaryRedirect, thumbURL)
		return
	}

	c.File(cachePath)
}
