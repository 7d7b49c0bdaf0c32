package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/cocktails/internal/database"
	"github.com/mrlokans/cocktails/internal/favorites"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

type HealthResponse struct {
	Status    string            `json:"status"`
	Time      string            `json:"time"`
	Version   string            `json:"version,omitempty"`
	Favorites *int              `json:"favorites,omitempty"`
	Checks    map[string]string `json:"checks"`
}

// HealthController reports whether the database answers and the saved
// favorites can still be read.
type HealthController struct {
	db        *database.Database
	favorites FavoritesLister
	version   string
}

func NewHealthController(db *database.Database, store FavoritesLister, version string) *HealthController {
	return &HealthController{
		db:        db,
		favorites: store,
		version:   version,
	}
}

// Status answers 503 when the database is down or favorites fail to load for
// any reason other than a corrupt collection, which only degrades the report
// since the user can reset it.
// GET /health
func (h *HealthController) Status(c *gin.Context) {
	health := HealthResponse{
		Status:  statusHealthy,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  make(map[string]string),
	}

	if h.db == nil {
		health.Checks["database"] = "not configured"
	} else if err := h.db.Ping(); err != nil {
		health.Checks["database"] = "error: " + err.Error()
		health.Status = statusUnhealthy
	} else {
		health.Checks["database"] = "ok"
	}

	if h.favorites != nil && health.Status != statusUnhealthy {
		drinks, err := h.favorites.LoadAll(c.Request.Context())
		switch {
		case err == nil:
			count := len(drinks)
			health.Favorites = &count
			health.Checks["favorites"] = fmt.Sprintf("ok (%d saved)", count)
		case errors.Is(err, favorites.ErrStorageCorrupt):
			health.Checks["favorites"] = "corrupt: reset required"
			health.Status = statusDegraded
		default:
			health.Checks["favorites"] = "error: " + err.Error()
			health.Status = statusUnhealthy
		}
	}

	statusCode := http.StatusOK
	if health.Status == statusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
