package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const requesterKey = "requesterEmail"

// authRequired resolves the bearer token to the requesting client and
// stores its email as the ownership key for downstream handlers.
func authRequired(svc clientService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
			return
		}
		client, err := svc.LookupByToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}
		c.Set(requesterKey, client.Email)
		c.Next()
	}
}

func requesterEmail(c *gin.Context) string {
	return c.GetString(requesterKey)
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
