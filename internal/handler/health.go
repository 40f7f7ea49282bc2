package handler

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
)

// healthEnvVars are the configuration variables whose presence the
// health endpoint reports. Values are never exposed, only whether they
// are set.
var healthEnvVars = []string{
	"SANDBOX_API_KEY",
	"AI_API_KEY",
	"JWT_SECRET",
	"AUTH_URL",
	"APP_URL",
}

// HealthHandler reports process status. It deliberately has no
// dependency on the user store: a broken database must not make the
// service look dead.
type HealthHandler struct {
	environment string
	startedAt   time.Time
}

// NewHealthHandler creates a HealthHandler; uptime is measured from now.
func NewHealthHandler(environment string) *HealthHandler {
	return &HealthHandler{environment: environment, startedAt: time.Now()}
}

type memorySnapshot struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"total_alloc"`
	Sys        uint64 `json:"sys"`
	NumGC      uint32 `json:"num_gc"`
}

type healthResponse struct {
	Status      string          `json:"status"`
	Timestamp   string          `json:"timestamp"`
	Environment string          `json:"environment"`
	Uptime      float64         `json:"uptime"`
	Memory      memorySnapshot  `json:"memory"`
	Env         map[string]bool `json:"env"`
}

// Check returns the process health snapshot.
func (h *HealthHandler) Check(c echo.Context) error {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	env := make(map[string]bool, len(healthEnvVars))
	for _, key := range healthEnvVars {
		env[key] = os.Getenv(key) != ""
	}

	return c.JSON(http.StatusOK, healthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Environment: h.environment,
		Uptime:      time.Since(h.startedAt).Seconds(),
		Memory: memorySnapshot{
			Alloc:      ms.Alloc,
			TotalAlloc: ms.TotalAlloc,
			Sys:        ms.Sys,
			NumGC:      ms.NumGC,
		},
		Env: env,
	})
}
