package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chatly/internal/domain"
	"chatly/internal/service"
)

const currentUserKey = "current_user"

// RequireAuth extrae el token de la cookie de sesion, lo valida y carga el
// usuario (sin hash) en el contexto del request.
func RequireAuth(jwtSvc *service.JWTService, userSvc *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtSvc == nil || userSvc == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
			c.Abort()
			return
		}

		token, err := c.Cookie(service.SessionCookieName)
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no token provided"})
			c.Abort()
			return
		}

		userID, err := jwtSvc.Parse(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		user, err := userSvc.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				c.Abort()
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// GetCurrentUser obtiene el usuario autenticado desde el contexto.
func GetCurrentUser(c *gin.Context) (domain.User, bool) {
	val, ok := c.Get(currentUserKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := val.(domain.User)
	return user, ok
}
