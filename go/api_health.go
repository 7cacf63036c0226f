package storeserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/storefront-api/internal/shared/errors"
)

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

// HealthAPI answers liveness probes.
type HealthAPI struct {
	ping Pinger
}

// NewHealthAPI wires an optional store ping.
func NewHealthAPI(ping Pinger) HealthAPI {
	return HealthAPI{ping: ping}
}

// Get /healthz
func (api *HealthAPI) Healthz(c *gin.Context) {
	if api.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := api.ping(ctx); err != nil {
			respondProblem(c, apierrors.ErrInternal.WithDetail("store unreachable: "+err.Error()))
			return
		}
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
