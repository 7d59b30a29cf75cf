package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/campsite-booking-backend/internal/auth"
)

// adminOnly returns the chain guarding admin routes: a valid token, then the admin role.
func adminOnly(jwtManager *auth.JWTManager) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		auth.AuthRequired(jwtManager),
		auth.RequireAdmin(),
	}
}
