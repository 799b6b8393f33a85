package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Ping is the liveness probe the mobile client hits on launch.
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
