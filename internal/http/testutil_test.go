package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/cocktails/internal/catalog"
	"github.com/mrlokans/cocktails/internal/database"
	"github.com/mrlokans/cocktails/internal/database/kv"
	"github.com/mrlokans/cocktails/internal/favorites"
)

const (
	categoriesBody = `{"drinks":[{"strCategory":"Ordinary Drink"},{"strCategory":"Cocktail"}]}`
	cocktailsBody  = `{"drinks":[
		{"idDrink":"17222","strDrink":"A1","strDrinkThumb":"%s/images/a1.jpg"},
		{"idDrink":"11007","strDrink":"Margarita","strDrinkThumb":"%s/images/margarita.jpg"}]}`
	margaritaBody = `{"drinks":[{
		"idDrink":"11007",
		"strDrink":"Margarita",
		"strDrinkThumb":"%s/images/margarita.jpg",
		"strInstructions":"Shake and strain.",
		"strCategory":"Ordinary Drink",
		"strIngredient1":"Tequila","strMeasure1":"1 1/2 oz ",
		"strIngredient2":"Lime juice","strMeasure2":"1 oz",
		"strIngredient3":null,"strMeasure3":null}]}`
)

// fakeCatalog imitates the catalog API. Categories other than "Cocktail"
// are empty, lookups other than 11007 find nothing.
type fakeCatalog struct {
	server *httptest.Server
	hits   atomic.Int32
	down   atomic.Bool
}

func newFakeCatalog(t *testing.T) *fakeCatalog {
	t.Helper()
	fc := &fakeCatalog{}
	fc.server = httptest.NewServer(http.HandlerFunc(fc.serve))
	t.Cleanup(fc.server.Close)
	return fc
}

func (fc *fakeCatalog) serve(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/images/") {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("\xff\xd8\xff\xe0fake-jpeg"))
		return
	}

	fc.hits.Add(1)
	if fc.down.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	base := fc.server.URL
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/list.php"):
		_, _ = w.Write([]byte(categoriesBody))
	case strings.HasSuffix(r.URL.Path, "/filter.php"):
		if r.URL.Query().Get("c") == "Cocktail" {
			_, _ = w.Write([]byte(strings.ReplaceAll(cocktailsBody, "%s", base)))
			return
		}
		_, _ = w.Write([]byte(`{"drinks":"no data found"}`))
	case strings.HasSuffix(r.URL.Path, "/lookup.php"):
		if r.URL.Query().Get("i") == "11007" {
			_, _ = w.Write([]byte(strings.ReplaceAll(margaritaBody, "%s", base)))
			return
		}
		_, _ = w.Write([]byte(`{"drinks":null}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (fc *fakeCatalog) client() *catalog.Client {
	return catalog.NewClient(catalog.Options{BaseURL: fc.server.URL + "/api/json/v1/1", Timeout: 2 * time.Second})
}

func setupTestDB(t *testing.T) (*database.Database, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

// testEnv is a router wired to a real favorites store and a fake catalog.
type testEnv struct {
	router  *gin.Engine
	db      *database.Database
	kv      *kv.Repository
	store   *favorites.Store
	catalog *fakeCatalog
}

func newTestEnv(t *testing.T, mutate func(cfg *RouterConfig)) *testEnv {
	t.Helper()
	db, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)

	repo := kv.NewRepository(db.DB)
	env := &testEnv{
		db:      db,
		kv:      repo,
		store:   favorites.NewStore(repo),
		catalog: newFakeCatalog(t),
	}

	cfg := RouterConfig{
		Database:  db,
		Catalog:   env.catalog.client(),
		Favorites: env.store,
		Version:   "test",
	}
	if mutate != nil {
		mutate(&cfg)
	}
	env.router = NewRouter(cfg)
	return env
}

func (env *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, jsonReader(t, body))
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// jsonReader encodes body as JSON; strings are sent verbatim.
func jsonReader(t *testing.T, body any) io.Reader {
	t.Helper()
	switch b := body.(type) {
	case nil:
		return bytes.NewReader(nil)
	case string:
		return strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		return bytes.NewReader(data)
	}
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
