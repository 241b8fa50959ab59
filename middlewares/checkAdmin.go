package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CheckAdmin lets only admin accounts through. Members may read but not change anything.
func CheckAdmin(c *gin.Context) {
	isAdmin := c.GetBool("admin")

	if !isAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	c.Next()
}
