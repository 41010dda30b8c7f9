package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/contracts-extractor/internal/repository"
)

// Health reports liveness plus the state of the task store. The status is 200 even when the
// database is down.
func (s *Server) Health(c *gin.Context) {
	db := "ok"
	if s.tasks == nil {
		db = "error"
	} else if err := repository.HealthCheck(c.Request.Context(), s.tasks, s.health, s.logger); err != nil {
		db = "error"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"service":  "contracts-extractor",
		"database": db,
	})
}
