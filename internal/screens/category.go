package screens

import (
	"context"

	"github.com/mrlokans/cocktails/internal/entities"
)

// DrinkLister is the catalog read used by the category screen.
type DrinkLister interface {
	ListDrinksByCategory(ctx context.Context, category string) ([]entities.Drink, error)
}

// Category lists the drinks of one category.
type Category struct {
	name string
	l    *loader[[]entities.Drink]
}

func NewCategory(catalog DrinkLister, name string) *Category {
	return &Category{
		name: name,
		l: newLoader("Could not load drinks", func(ctx context.Context) ([]entities.Drink, error) {
			return catalog.ListDrinksByCategory(ctx, name)
		}),
	}
}

// Name is the category the screen shows.
func (c *Category) Name() string {
	return c.name
}

func (c *Category) Activate(ctx context.Context) ViewState[[]entities.Drink] {
	return c.l.load(ctx)
}

func (c *Category) Retry(ctx context.Context) ViewState[[]entities.Drink] {
	return c.l.load(ctx)
}

func (c *Category) Deactivate() {
	c.l.deactivate()
}

func (c *Category) State() ViewState[[]entities.Drink] {
	return c.l.current()
}
