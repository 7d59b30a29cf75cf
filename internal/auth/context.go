package auth

import "github.com/gin-gonic/gin"

const (
	subjectKey = "authSubject"
	roleKey    = "authRole"
)

// GetSubject returns the authenticated caller's subject or empty string.
func GetSubject(c *gin.Context) string {
	return c.GetString(subjectKey)
}

// GetRole returns the authenticated caller's role or empty string.
func GetRole(c *gin.Context) string {
	return c.GetString(roleKey)
}
