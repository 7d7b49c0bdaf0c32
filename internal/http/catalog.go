package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/cocktails/internal/entities"
	"github.com/mrlokans/cocktails/internal/screens"
)

// CatalogReader is the catalog access the HTTP surface needs.
type CatalogReader interface {
	ListCategories(ctx context.Context) ([]entities.Category, error)
	ListDrinksByCategory(ctx context.Context, category string) ([]entities.Drink, error)
	GetDrinkByID(ctx context.Context, id string) (*entities.Drink, error)
}

// DrinkResponse is a drink together with its paired ingredients.
type DrinkResponse struct {
	Drink       *entities.Drink       `json:"drink"`
	Ingredients []entities.Ingredient `json:"ingredients"`
	IsFavorite  bool                  `json:"is_favorite"`
}

// CatalogController serves the browse screens over HTTP. Every request runs
// the screen's load once.
type CatalogController struct {
	catalog   CatalogReader
	favorites screens.FavoriteAdder
}

func NewCatalogController(catalog CatalogReader, favorites screens.FavoriteAdder) *CatalogController {
	return &CatalogController{catalog: catalog, favorites: favorites}
}

// ListCategories returns the drink categories.
// GET /api/categories
func (cc *CatalogController) ListCategories(c *gin.Context) {
	state := screens.NewHome(cc.catalog).Activate(c.Request.Context())
	if state.Failed() {
		respondFailure(c, state.Err, state.Message)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": state.Data})
}

// ListDrinks returns the drink summaries of one category.
// GET /api/categories/:name/drinks
func (cc *CatalogController) ListDrinks(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		respondBadRequest(c, "category name is required")
		return
	}

	screen := screens.NewCategory(cc.catalog, name)
	state := screen.Activate(c.Request.Context())
	if state.Failed() {
		respondFailure(c, state.Err, state.Message)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": screen.Name(), "drinks": state.Data})
}

// GetDrink returns the full record of one drink.
// GET /api/drinks/:id
func (cc *CatalogController) GetDrink(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondBadRequest(c, "drink id is required")
		return
	}

	state := screens.NewDetail(cc.catalog, cc.favorites, id).Activate(c.Request.Context())
	if state.Failed() {
		respondFailure(c, state.Err, state.Message)
		return
	}
	if state.Data.Drink == nil {
		respondNotFound(c, "drink")
		return
	}

	c.JSON(http.StatusOK, DrinkResponse{
		Drink:       state.Data.Drink,
		Ingredients: state.Data.Ingredients,
		IsFavorite:  state.Data.IsFavorite,
	})
}
