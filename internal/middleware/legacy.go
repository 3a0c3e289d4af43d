package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

const legacyRouteContextKey = "legacy_route"

// LegacyRoute marks a route kept only for clients of the previous deployment.
// Responses carry a Deprecation header and, when successor is set, a Link
// header pointing at the replacement.
func LegacyRoute(successor string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Deprecation", "true")
		if successor != "" {
			c.Writer.Header().Set("Link", fmt.Sprintf("<%s>; rel=\"successor-version\"", successor))
		}
		c.Set(legacyRouteContextKey, true)
		c.Next()
	}
}

// IsLegacyRoute reports whether the request went through LegacyRoute.
func IsLegacyRoute(c *gin.Context) bool {
	v, ok := c.Get(legacyRouteContextKey)
	if !ok {
		return false
	}
	flag, _ := v.(bool)
	return flag
}
