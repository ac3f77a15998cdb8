package marketserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/platform/failover"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/shared/envelope"
)

// StorageStatus is implemented by *failover.Router.
type StorageStatus interface {
	Mode() failover.Mode
	Degraded() bool
}

type HealthAPI struct {
	orders  StorageStatus
	catalog StorageStatus
	now     func() time.Time
}

func NewHealthAPI(orders, catalog StorageStatus) HealthAPI {
	return HealthAPI{orders: orders, catalog: catalog, now: time.Now}
}

type healthData struct {
	Timestamp time.Time         `json:"timestamp"`
	Storage   map[string]string `json:"storage"`
}

// Get /api/health
func (api *HealthAPI) Health(c *gin.Context) {
	orders, catalog := storageState(api.orders), storageState(api.catalog)
	message := "API is healthy"
	if orders != string(failover.ModeDurable) || catalog != string(failover.ModeDurable) {
		message = "API is healthy (In-Memory Mode)"
	}
	now := time.Now
	if api.now != nil {
		now = api.now
	}
	c.JSON(http.StatusOK, envelope.OK(healthData{
		Timestamp: now().UTC(),
		Storage:   map[string]string{"orders": orders, "catalog": catalog},
	}, message))
}

// storageState is durable, volatile, or degraded (durable-bound but serving from memory).
func storageState(s StorageStatus) string {
	if s == nil {
		return string(failover.ModeVolatile)
	}
	if s.Mode() == failover.ModeDurable && s.Degraded() {
		return "degraded"
	}
	return string(s.Mode())
}
