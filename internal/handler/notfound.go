package handler

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
)

func availableEndpoints() []string {
	out := make([]string, 0, len(PublicEndpoints))
	for _, path := range PublicEndpoints {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// NotFound replaces gin's plain-text 404 for unmatched routes with a JSON
// body. It must be installed as a global middleware so it also runs on the
// no-route chain.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.FullPath() != "" || c.Writer.Written() || c.Writer.Status() != http.StatusNotFound {
			return
		}
		c.JSON(http.StatusNotFound, gin.H{
			"error":               "Endpoint not found",
			"message":             "The requested resource does not exist",
			"available_endpoints": availableEndpoints(),
		})
	}
}
