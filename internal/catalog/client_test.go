package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const margaritaLookup = `{"drinks":[{
	"idDrink":"11007",
	"strDrink":"Margarita",
	"strDrinkThumb":"https://www.thecocktaildb.com/images/media/drink/5noda61589575158.jpg",
	"strInstructions":"Rub the rim of the glass with the lime slice to make the salt stick to it.",
	"strCategory":"Ordinary Drink",
	"strIngredient1":"Tequila",
	"strMeasure1":"1 1/2 oz "
}]}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Options{BaseURL: server.URL, Timeout: 2 * time.Second})
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Options{})
	assert.Equal(t, DefaultBaseURL, client.BaseURL())

	client = NewClient(Options{BaseURL: "http://example.test/api/"})
	assert.Equal(t, "http://example.test/api", client.BaseURL())
}

func TestListCategories(t *testing.T) {
	t.Run("returns categories in order", func(t *testing.T) {
		var gotPath, gotQuery string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.Query().Get("c")
			jsonHandler(`{"drinks":[{"strCategory":"Ordinary Drink"},{"strCategory":"Cocktail"},{"strCategory":"Shake"}]}`)(w, r)
		})

		categories, err := client.ListCategories(context.Background())
		require.NoError(t, err)
		require.Len(t, categories, 3)
		assert.Equal(t, "Ordinary Drink", categories[0].Name)
		assert.Equal(t, "Cocktail", categories[1].Name)
		assert.Equal(t, "Shake", categories[2].Name)
		assert.Equal(t, "/list.php", gotPath)
		assert.Equal(t, "list", gotQuery)
	})

	t.Run("null drinks is empty", func(t *testing.T) {
		client := newTestClient(t, jsonHandler(`{"drinks":null}`))

		categories, err := client.ListCategories(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, categories)
		assert.Empty(t, categories)
	})

	t.Run("server error is a network error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.ListCategories(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNetwork)

		var netErr *NetworkError
		require.True(t, errors.As(err, &netErr))
		assert.Equal(t, http.StatusInternalServerError, netErr.StatusCode)
		assert.Equal(t, "list categories", netErr.Op)
	})

	t.Run("non-JSON body is a network error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html>maintenance</html>"))
		})

		_, err := client.ListCategories(context.Background())
		assert.ErrorIs(t, err, ErrNetwork)
	})

	t.Run("unreachable host is a network error", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()
		client := NewClient(Options{BaseURL: server.URL, Timeout: time.Second})

		_, err := client.ListCategories(context.Background())
		assert.ErrorIs(t, err, ErrNetwork)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestListDrinksByCategory(t *testing.T) {
	t.Run("encodes category with spaces", func(t *testing.T) {
		var gotCategory, gotRawQuery string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotCategory = r.URL.Query().Get("c")
			gotRawQuery = r.URL.RawQuery
			jsonHandler(`{"drinks":[{"strDrink":"Margarita","strDrinkThumb":"https://example.test/m.jpg","idDrink":"11007"}]}`)(w, r)
		})

		drinks, err := client.ListDrinksByCategory(context.Background(), "Ordinary Drink")
		require.NoError(t, err)
		require.Len(t, drinks, 1)
		assert.Equal(t, "11007", drinks[0].ID)
		assert.Equal(t, "Margarita", drinks[0].Name)
		assert.Equal(t, "https://example.test/m.jpg", drinks[0].Thumbnail)
		assert.Equal(t, "Ordinary Drink", gotCategory)
		assert.NotContains(t, gotRawQuery, " ")
	})

	t.Run("encodes reserved characters", func(t *testing.T) {
		var gotCategory string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotCategory = r.URL.Query().Get("c")
			jsonHandler(`{"drinks":[]}`)(w, r)
		})

		_, err := client.ListDrinksByCategory(context.Background(), "Punch / Party Drink&more")
		require.NoError(t, err)
		assert.Equal(t, "Punch / Party Drink&more", gotCategory)
	})

	t.Run("absent drinks field is empty", func(t *testing.T) {
		client := newTestClient(t, jsonHandler(`{}`))

		drinks, err := client.ListDrinksByCategory(context.Background(), "Unknown")
		require.NoError(t, err)
		assert.Empty(t, drinks)
	})

	t.Run("string drinks field is empty", func(t *testing.T) {
		client := newTestClient(t, jsonHandler(`{"drinks":"no data found"}`))

		drinks, err := client.ListDrinksByCategory(context.Background(), "Unknown")
		require.NoError(t, err)
		assert.Empty(t, drinks)
	})

	t.Run("not found status is a network error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := client.ListDrinksByCategory(context.Background(), "Cocktail")
		assert.ErrorIs(t, err, ErrNetwork)
	})
}

func TestGetDrinkByID(t *testing.T) {
	t.Run("returns full drink", func(t *testing.T) {
		var gotID string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/lookup.php", r.URL.Path)
			gotID = r.URL.Query().Get("i")
			jsonHandler(margaritaLookup)(w, r)
		})

		drink, err := client.GetDrinkByID(context.Background(), "11007")
		require.NoError(t, err)
		require.NotNil(t, drink)
		assert.Equal(t, "11007", gotID)
		assert.Equal(t, "Margarita", drink.Name)
		assert.Contains(t, drink.Instructions, "Rub the rim")
		assert.Equal(t, "Tequila", drink.Ingredients()[0].Name)
	})

	t.Run("empty array is not found", func(t *testing.T) {
		client := newTestClient(t, jsonHandler(`{"drinks":[]}`))

		drink, err := client.GetDrinkByID(context.Background(), "doesnotexist")
		assert.Nil(t, drink)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrNetwork)
	})

	t.Run("null drinks is not found", func(t *testing.T) {
		client := newTestClient(t, jsonHandler(`{"drinks":null}`))

		_, err := client.GetDrinkByID(context.Background(), "0")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("malformed drink entry is a network error", func(t *testing.T) {
		client := newTestClient(t, jsonHandler(`{"drinks":[{"idDrink":{"x":1}}]}`))

		_, err := client.GetDrinkByID(context.Background(), "1")
		assert.ErrorIs(t, err, ErrNetwork)
	})

	t.Run("cancelled context is a network error", func(t *testing.T) {
		client := newTestClient(t, jsonHandler(margaritaLookup))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.GetDrinkByID(ctx, "11007")
		assert.ErrorIs(t, err, ErrNetwork)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestClient_CoalescesConcurrentRequests(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		jsonHandler(margaritaLookup)(w, r)
	})

	var wg sync.WaitGroup
	results := make([]error, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = client.GetDrinkByID(context.Background(), "11007")
		}(i)
	}

	// Let all callers join the in-flight request before the server answers.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, err := range results {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_CancelledCallerDoesNotFailOthers(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		jsonHandler(`{"drinks":[{"strCategory":"Cocktail"}]}`)(w, r)
	})

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := client.ListCategories(firstCtx)
		firstErr <- err
	}()

	// Let the first caller start the shared request.
	time.Sleep(50 * time.Millisecond)

	type result struct {
		categories int
		err        error
	}
	second := make(chan result, 1)
	go func() {
		categories, err := client.ListCategories(context.Background())
		second <- result{len(categories), err}
	}()

	time.Sleep(50 * time.Millisecond)
	cancelFirst()

	err := <-firstErr
	assert.ErrorIs(t, err, ErrNetwork)
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, 1, res.categories)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_RateLimit(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(func() http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			jsonHandler(`{"drinks":[]}`)(w, r)
		}
	}())
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL, RequestsPerSecond: 10, Burst: 1})

	start := time.Now()
	for _, category := range []string{"a", "b", "c"} {
		_, err := client.ListDrinksByCategory(context.Background(), category)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(3), hits.Load())
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}

func TestNetworkError(t *testing.T) {
	err := &NetworkError{Op: "lookup drink", StatusCode: 503}
	assert.Equal(t, "catalog lookup drink: HTTP 503", err.Error())
	assert.True(t, errors.Is(err, ErrNetwork))

	cause := errors.New("connection reset")
	err = &NetworkError{Op: "list drinks", Err: cause}
	assert.Equal(t, "catalog list drinks: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
}
