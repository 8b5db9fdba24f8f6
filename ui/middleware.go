package ui

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// maxUploadSize caps multipart bodies on the import route
const maxUploadSize = 50 << 20

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())
	s.router.MaxMultipartMemory = 8 << 20
}

// requestLogger writes one debug line per request through the app logger
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		if c.Request.Method == http.MethodPost {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
		}
		c.Next()
		s.logger.Debug("%s %s -> %d (%.2fms)", c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), float64(time.Since(start).Nanoseconds())/1e6)
	}
}
