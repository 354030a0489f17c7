package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/surveyforge/survey-service/internal/services"
)

const (
	contextSessionKey  = "session_id"
	contextUserIDKey   = "user_id"
	contextNicknameKey = "nickname"
)

// CORS allows the configured frontend origins to call the API from the
// browser.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Session-ID, X-Entry-Reason")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Auth resolves the bearer token, if any, into a user on the context. With
// required=true requests without a valid token are rejected; otherwise a
// missing or invalid token simply leaves the request anonymous.
func Auth(auth services.AuthService, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Not authenticated"})
				return
			}
			c.Next()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		user, err := auth.UserFromToken(c.Request.Context(), token)
		if err != nil {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid token"})
				return
			}
			c.Next()
			return
		}

		c.Set(contextUserIDKey, user.ID)
		c.Set(contextNicknameKey, user.Nickname)
		c.Next()
	}
}

// Session resolves the draft session for the request: the X-Session-ID
// header when present, otherwise the authenticated user. One session is one
// page context; requests without either have no draft state to operate on.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		if session := c.GetHeader("X-Session-ID"); session != "" {
			c.Set(contextSessionKey, session)
			c.Next()
			return
		}
		if userID, exists := c.Get(contextUserIDKey); exists {
			c.Set(contextSessionKey, "user:"+strconv.FormatUint(uint64(userID.(uint)), 10))
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Message: "Missing X-Session-ID header"})
	}
}
