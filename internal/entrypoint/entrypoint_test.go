package entrypoint

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/cocktails/internal/config"
	"github.com/mrlokans/cocktails/internal/tasks"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	return &config.Config{
		Database:   config.Database{Path: filepath.Join(dir, "cocktails.db")},
		Catalog:    config.Catalog{BaseURL: "http://127.0.0.1:1", Timeout: time.Second},
		Thumbnails: config.Thumbnails{Dir: filepath.Join(dir, "thumbs")},
		Session:    config.Session{Lifetime: time.Hour},
		Global:     config.Global{ShutdownTimeoutInSeconds: 1},
	}
}

func serve(app *App, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	app.Router.ServeHTTP(w, req)
	return w
}

func TestBuild_WithoutTasks(t *testing.T) {
	app, err := Build(testConfig(t), "test")
	require.NoError(t, err)
	defer app.Close()

	w := serve(app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(app, http.MethodPost, "/api/favorites", `{"idDrink":"11007","strDrink":"Margarita"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = serve(app, http.MethodGet, "/api/tasks/sweep", "")
	assert.Equal(t, http.StatusNotFound, w.Code, "task routes need the queue")

	w = serve(app, http.MethodGet, "/api/categories", "")
	assert.Equal(t, http.StatusBadGateway, w.Code, "unreachable catalog")

	app.Shutdown(context.Background())
}

func TestBuild_WithTasksAndSweep(t *testing.T) {
	cfg := testConfig(t)
	cfg.Tasks = config.Tasks{Enabled: true, Workers: 1, ReleaseAfter: time.Minute, CleanupInterval: time.Hour}
	cfg.Sweep = config.Sweep{Enabled: true, Schedule: "0 */6 * * *"}

	app, err := Build(cfg, "test")
	require.NoError(t, err)
	defer app.Close()

	assert.FileExists(t, tasks.TasksDBPath(cfg.Database.Path))

	w := serve(app, http.MethodGet, "/api/tasks/sweep", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"enabled":true`)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	app.Shutdown(ctx)
}

func TestBuild_CSRFSecret(t *testing.T) {
	cfg := testConfig(t)
	cfg.CSRF.Secret = "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"

	app, err := Build(cfg, "test")
	require.NoError(t, err)
	defer app.Close()

	w := serve(app, http.MethodPost, "/api/favorites", `{"idDrink":"11007"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCSRFSecret(t *testing.T) {
	assert.Nil(t, csrfSecret(""))
	assert.Equal(t, []byte{0xde, 0xad}, csrfSecret("dead"))
	assert.Equal(t, []byte("not-hex!"), csrfSecret("not-hex!"))
}

func TestBuild_ThumbnailsLimitedToCatalogHost(t *testing.T) {
	app, err := Build(testConfig(t), "test")
	require.NoError(t, err)
	defer app.Close()

	w := serve(app, http.MethodPost, "/api/favorites",
		`{"idDrink":"1","strDrink":"Foreign","strDrinkThumb":"http://169.254.169.254/latest/meta-data"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w = serve(app, http.MethodPost, "/api/favorites",
		`{"idDrink":"2","strDrink":"Catalog","strDrinkThumb":"http://127.0.0.1:1/images/2.jpg"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = serve(app, http.MethodGet, "/api/favorites/1/thumbnail", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Header().Get("Location"))

	// The catalog host is unreachable, so the allowed image falls back to a redirect.
	w = serve(app, http.MethodGet, "/api/favorites/2/thumbnail", "")
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "http://127.0.0.1:1/images/2.jpg", w.Header().Get("Location"))
}
