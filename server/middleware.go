package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const SessionCookie = "XSRF-TOKEN"

// RequireSession rejects requests that do not carry the site session cookie.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := c.Cookie(SessionCookie); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Authorization error"})
			c.Abort()
			return
		}
		c.Next()
	}
}
