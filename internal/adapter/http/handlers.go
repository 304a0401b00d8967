package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const probeTimeout = 2 * time.Second

// Probe checks one backing service. A nil error means healthy.
type Probe func(ctx context.Context) error

// Handler serves /health. Any failing probe turns the answer into a 503.
type Handler struct {
	probes map[string]Probe
}

func NewHandler(probes map[string]Probe) *Handler { return &Handler{probes: probes} }

type healthResp struct {
	Status string            `json:"status"`
	Time   string            `json:"time"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), probeTimeout)
	defer cancel()

	out := healthResp{Status: "ok"}
	code := http.StatusOK
	if len(h.probes) > 0 {
		out.Checks = make(map[string]string, len(h.probes))
	}
	for name, p := range h.probes {
		if err := p(ctx); err != nil {
			out.Checks[name] = err.Error()
			out.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		out.Checks[name] = "ok"
	}
	out.Time = time.Now().UTC().Format(time.RFC3339Nano)
	return c.JSON(code, out)
}
