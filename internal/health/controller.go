package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	startedAt time.Time
}

// NewHealthController reports uptime relative to startedAt, captured once at boot.
func NewHealthController(startedAt time.Time) *HealthController {
	return &HealthController{startedAt: startedAt}
}

func (ctrl *HealthController) RegisterRoutes(rg *gin.RouterGroup) {
	healthGroup := rg.Group("/health")
	{
		healthGroup.GET("", ctrl.Check)
	}
}

func (ctrl *HealthController) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok!",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(ctrl.startedAt).Seconds(),
	})
}
