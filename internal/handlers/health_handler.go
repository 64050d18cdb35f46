package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthResponse is the liveness probe body.
type HealthResponse struct {
	OK bool `json:"ok"`
}

// Health reports that the process is serving requests
// @Summary     Liveness probe
// @Tags        health
// @Produce     json
// @Success     200 {object} HealthResponse
// @Router      /healthz [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{OK: true})
}
