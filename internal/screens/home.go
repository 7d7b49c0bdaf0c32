package screens

import (
	"context"

	"github.com/mrlokans/cocktails/internal/entities"
)

// CategoryLister is the catalog read used by the home screen.
type CategoryLister interface {
	ListCategories(ctx context.Context) ([]entities.Category, error)
}

// Home lists the drink categories.
type Home struct {
	l *loader[[]entities.Category]
}

func NewHome(catalog CategoryLister) *Home {
	return &Home{
		l: newLoader("Could not load categories", catalog.ListCategories),
	}
}

// Activate loads the categories.
func (h *Home) Activate(ctx context.Context) ViewState[[]entities.Category] {
	return h.l.load(ctx)
}

// Retry re-issues the category read.
func (h *Home) Retry(ctx context.Context) ViewState[[]entities.Category] {
	return h.l.load(ctx)
}

// Deactivate drops any read still in flight.
func (h *Home) Deactivate() {
	h.l.deactivate()
}

func (h *Home) State() ViewState[[]entities.Category] {
	return h.l.current()
}
