package screens

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/cocktails/internal/catalog"
	"github.com/mrlokans/cocktails/internal/entities"
	"github.com/mrlokans/cocktails/internal/favorites"
	"github.com/mrlokans/cocktails/internal/kvstore"
)

type mockCatalog struct {
	mu         sync.Mutex
	categories []entities.Category
	drinks     map[string][]entities.Drink
	byID       map[string]entities.Drink
	err        error
	calls      int
	lastArg    string
	block      chan struct{}
}

func (m *mockCatalog) record(arg string) error {
	m.mu.Lock()
	m.calls++
	m.lastArg = arg
	block := m.block
	err := m.err
	m.mu.Unlock()
	if block != nil {
		<-block
	}
	return err
}

func (m *mockCatalog) ListCategories(ctx context.Context) ([]entities.Category, error) {
	if err := m.record(""); err != nil {
		return nil, err
	}
	return m.categories, nil
}

func (m *mockCatalog) ListDrinksByCategory(ctx context.Context, category string) ([]entities.Drink, error) {
	if err := m.record(category); err != nil {
		return nil, err
	}
	return m.drinks[category], nil
}

func (m *mockCatalog) GetDrinkByID(ctx context.Context, id string) (*entities.Drink, error) {
	if err := m.record(id); err != nil {
		return nil, err
	}
	d, ok := m.byID[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &d, nil
}

func (m *mockCatalog) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

var errOffline = &catalog.NetworkError{Op: "test", Err: errors.New("offline")}

func margarita() entities.Drink {
	return entities.Drink{
		ID:           "11007",
		Name:         "Margarita",
		Instructions: "Shake with ice.",
		Extra: map[string]json.RawMessage{
			"strIngredient1": json.RawMessage(`"Tequila"`),
			"strMeasure1":    json.RawMessage(`"1 1/2 oz"`),
		},
	}
}

func TestHome(t *testing.T) {
	ctx := context.Background()

	t.Run("loads categories", func(t *testing.T) {
		cat := &mockCatalog{categories: []entities.Category{{Name: "Cocktail"}, {Name: "Shot"}}}
		home := NewHome(cat)
		assert.Equal(t, StatusIdle, home.State().Status)

		state := home.Activate(ctx)
		assert.True(t, state.Loaded())
		assert.Len(t, state.Data, 2)
		assert.Equal(t, 1, cat.calls)
		assert.Equal(t, state, home.State())
	})

	t.Run("network error shows message and retry recovers", func(t *testing.T) {
		cat := &mockCatalog{categories: []entities.Category{{Name: "Cocktail"}}, err: errOffline}
		home := NewHome(cat)

		state := home.Activate(ctx)
		assert.True(t, state.Failed())
		assert.Equal(t, "Could not load categories", state.Message)
		assert.ErrorIs(t, state.Err, catalog.ErrNetwork)

		cat.setErr(nil)
		state = home.Retry(ctx)
		assert.True(t, state.Loaded())
		assert.Equal(t, 2, cat.calls)
	})

	t.Run("result arriving after deactivate is discarded", func(t *testing.T) {
		cat := &mockCatalog{categories: []entities.Category{{Name: "Cocktail"}}, block: make(chan struct{})}
		home := NewHome(cat)

		done := make(chan ViewState[[]entities.Category])
		go func() { done <- home.Activate(ctx) }()

		require.Eventually(t, func() bool { return home.State().Loading() }, time.Second, 5*time.Millisecond)
		home.Deactivate()
		close(cat.block)

		state := <-done
		assert.Equal(t, StatusIdle, state.Status)
		assert.Equal(t, StatusIdle, home.State().Status)
	})
}

func TestCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("passes category to catalog", func(t *testing.T) {
		cat := &mockCatalog{drinks: map[string][]entities.Drink{"Ordinary Drink": {margarita()}}}
		screen := NewCategory(cat, "Ordinary Drink")

		state := screen.Activate(ctx)
		assert.True(t, state.Loaded())
		require.Len(t, state.Data, 1)
		assert.Equal(t, "Margarita", state.Data[0].Name)
		assert.Equal(t, "Ordinary Drink", cat.lastArg)
		assert.Equal(t, "Ordinary Drink", screen.Name())
	})

	t.Run("retry re-issues the same call", func(t *testing.T) {
		cat := &mockCatalog{err: errOffline}
		screen := NewCategory(cat, "Shot")

		state := screen.Activate(ctx)
		assert.Equal(t, "Could not load drinks", state.Message)

		screen.Retry(ctx)
		assert.Equal(t, 2, cat.calls)
		assert.Equal(t, "Shot", cat.lastArg)
	})

	t.Run("empty category is loaded", func(t *testing.T) {
		screen := NewCategory(&mockCatalog{}, "Nothing")
		state := screen.Activate(ctx)
		assert.True(t, state.Loaded())
		assert.Empty(t, state.Data)
	})
}

func TestDetail(t *testing.T) {
	ctx := context.Background()

	newDetail := func(t *testing.T, id string) (*Detail, *favorites.Store, *mockCatalog) {
		t.Helper()
		cat := &mockCatalog{byID: map[string]entities.Drink{"11007": margarita()}}
		store := favorites.NewStore(kvstore.NewMemory())
		return NewDetail(cat, store, id), store, cat
	}

	t.Run("loads drink with ingredients", func(t *testing.T) {
		detail, _, _ := newDetail(t, "11007")

		state := detail.Activate(ctx)
		require.True(t, state.Loaded())
		require.NotNil(t, state.Data.Drink)
		assert.Equal(t, "Margarita", state.Data.Drink.Name)
		assert.Equal(t, []entities.Ingredient{{Name: "Tequila", Measure: "1 1/2 oz"}}, state.Data.Ingredients)
		assert.False(t, state.Data.IsFavorite)
	})

	t.Run("not found is an empty loaded view", func(t *testing.T) {
		detail, _, _ := newDetail(t, "doesnotexist")

		state := detail.Activate(ctx)
		assert.True(t, state.Loaded())
		assert.Nil(t, state.Data.Drink)
		assert.Nil(t, state.Err)
	})

	t.Run("network error can be retried", func(t *testing.T) {
		detail, _, cat := newDetail(t, "11007")
		cat.setErr(errOffline)

		state := detail.Activate(ctx)
		assert.True(t, state.Failed())
		assert.Equal(t, "Could not load drink details", state.Message)

		cat.setErr(nil)
		state = detail.Retry(ctx)
		assert.True(t, state.Loaded())
	})

	t.Run("add then duplicate", func(t *testing.T) {
		detail, store, _ := newDetail(t, "11007")
		detail.Activate(ctx)

		notice := detail.AddToFavorites(ctx)
		assert.Equal(t, entities.NoticeFavoriteAdded, notice.Kind)
		assert.True(t, detail.State().Data.IsFavorite)

		notice = detail.AddToFavorites(ctx)
		assert.Equal(t, entities.NoticeDuplicateFavorite, notice.Kind)
		assert.Equal(t, "Already in favorites", notice.Title)

		drinks, err := store.LoadAll(ctx)
		require.NoError(t, err)
		assert.Len(t, drinks, 1)
	})

	t.Run("marks already saved drink", func(t *testing.T) {
		detail, store, _ := newDetail(t, "11007")
		_, err := store.Add(ctx, margarita())
		require.NoError(t, err)

		state := detail.Activate(ctx)
		assert.True(t, state.Data.IsFavorite)
	})

	t.Run("add without loaded drink is an error notice", func(t *testing.T) {
		detail, store, _ := newDetail(t, "doesnotexist")
		detail.Activate(ctx)

		notice := detail.AddToFavorites(ctx)
		assert.Equal(t, entities.NoticeError, notice.Kind)

		drinks, _ := store.LoadAll(ctx)
		assert.Empty(t, drinks)
	})

	t.Run("corrupt storage is an error notice", func(t *testing.T) {
		mem := kvstore.NewMemory()
		require.NoError(t, mem.Set(ctx, favorites.DefaultKey, "{"))
		cat := &mockCatalog{byID: map[string]entities.Drink{"11007": margarita()}}
		detail := NewDetail(cat, favorites.NewStore(mem), "11007")

		state := detail.Activate(ctx)
		require.True(t, state.Loaded())

		notice := detail.AddToFavorites(ctx)
		assert.Equal(t, entities.NoticeError, notice.Kind)
		assert.Contains(t, notice.Message, "corrupt")
	})
}

func TestFavorites(t *testing.T) {
	ctx := context.Background()

	t.Run("empty collection is loaded", func(t *testing.T) {
		screen := NewFavorites(favorites.NewStore(kvstore.NewMemory()))

		state := screen.Focus(ctx)
		assert.True(t, state.Loaded())
		assert.Empty(t, state.Data)
	})

	t.Run("refocus reflects changes made elsewhere", func(t *testing.T) {
		store := favorites.NewStore(kvstore.NewMemory())
		screen := NewFavorites(store)
		assert.Empty(t, screen.Focus(ctx).Data)

		_, err := store.Add(ctx, margarita())
		require.NoError(t, err)

		state := screen.Focus(ctx)
		require.Len(t, state.Data, 1)
		assert.Equal(t, "11007", state.Data[0].ID)
	})

	t.Run("remove refreshes the list", func(t *testing.T) {
		store := favorites.NewStore(kvstore.NewMemory())
		_, err := store.Add(ctx, margarita())
		require.NoError(t, err)
		screen := NewFavorites(store)
		screen.Focus(ctx)

		notice := screen.Remove(ctx, "11007")
		assert.Equal(t, entities.NoticeFavoriteRemoved, notice.Kind)
		assert.Empty(t, screen.State().Data)
	})

	t.Run("remove of missing favorite is reported", func(t *testing.T) {
		screen := NewFavorites(favorites.NewStore(kvstore.NewMemory()))
		screen.Focus(ctx)

		notice := screen.Remove(ctx, "nope")
		assert.Equal(t, entities.NoticeError, notice.Kind)
	})

	t.Run("corrupt storage offers reset", func(t *testing.T) {
		mem := kvstore.NewMemory()
		require.NoError(t, mem.Set(ctx, favorites.DefaultKey, "not json"))
		screen := NewFavorites(favorites.NewStore(mem))

		state := screen.Focus(ctx)
		assert.True(t, state.Failed())
		assert.Equal(t, "Favorites data is corrupt", state.Message)
		assert.True(t, screen.CanReset())

		notice := screen.Reset(ctx)
		assert.Equal(t, entities.NoticeFavoritesReset, notice.Kind)
		assert.False(t, screen.CanReset())
		assert.True(t, screen.State().Loaded())
		assert.Empty(t, screen.State().Data)
	})

	t.Run("deactivated screen is not reloaded by remove", func(t *testing.T) {
		store := favorites.NewStore(kvstore.NewMemory())
		_, err := store.Add(ctx, margarita())
		require.NoError(t, err)
		screen := NewFavorites(store)
		screen.Focus(ctx)
		screen.Deactivate()

		screen.Remove(ctx, "11007")
		assert.Equal(t, StatusIdle, screen.State().Status)
	})
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "loading", StatusLoading.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "loaded", StatusLoaded.String())
}
