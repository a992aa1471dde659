package middleware

import "github.com/gin-gonic/gin"

const userIDKey = contextKey("userID")

// actorHeader carries the acting user's identifier. Authentication itself is
// handled upstream of this service; requests arriving without the header are
// attributed to the system actor.
const actorHeader = "X-User-ID"

// systemActorID attributes unattended writes (periodic runs, anonymous calls).
const systemActorID = "system"

// ActorMiddleware resolves the acting user for audit attribution and stores
// it in the Gin context.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader(actorHeader)
		if actor == "" {
			actor = systemActorID
		}
		c.Set(string(userIDKey), actor)
		c.Next()
	}
}

// GetUserIDFromContext retrieves the acting user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}
	return userID, true
}
