package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Drago-03/Documentation.AI/internal/pkg/response"
	"github.com/Drago-03/Documentation.AI/internal/service"
)

type HealthHandler struct {
	health *service.HealthService
}

func NewHealthHandler(health *service.HealthService) *HealthHandler {
	return &HealthHandler{health: health}
}

// Health always answers 200; degradation is reported in the body.
func (h *HealthHandler) Health(c *gin.Context) {
	response.Success(c, h.health.Check(c.Request.Context()))
}
