package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const backendCheckTimeout = 3 * time.Second

// Pinger is satisfied by the database handle.
type Pinger interface {
	Ping() error
}

// BookCounter reports how many books the backend holds.
type BookCounter interface {
	Count() (int64, error)
}

// BackendPinger is satisfied by the REST client the UI talks through.
type BackendPinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthController reports on whatever the running command depends on: the
// database and stored books for the REST backend, the backend itself for the UI.
type HealthController struct {
	db      Pinger
	books   BookCounter
	backend BackendPinger
	remote  bool
	version string
}

func NewAPIHealthController(db Pinger, books BookCounter, version string) *HealthController {
	return &HealthController{db: db, books: books, version: version}
}

func NewUIHealthController(backend BackendPinger, version string) *HealthController {
	return &HealthController{backend: backend, remote: true, version: version}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	healthy := true

	record := func(name, detail string, err error) {
		if err != nil {
			checks[name] = "error: " + err.Error()
			healthy = false
			return
		}
		checks[name] = detail
	}

	if h.remote {
		if h.backend != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), backendCheckTimeout)
			record("backend", "ok", h.backend.Ping(ctx))
			cancel()
		} else {
			checks["backend"] = "not configured"
		}
	} else {
		if h.db != nil {
			record("database", "ok", h.db.Ping())
		} else {
			checks["database"] = "not configured"
		}
		if h.books != nil {
			n, err := h.books.Count()
			record("books", fmt.Sprintf("%d stored", n), err)
		}
	}

	status := "healthy"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, HealthResponse{
		Status:  status,
		Time:    time.Now().UTC().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	})
}
