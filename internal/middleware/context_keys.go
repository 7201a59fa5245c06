package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key under which the identity middleware stores the acting
// user's ID. Using a custom type prevents collisions.
const userIDKey = contextKey("userID")

// GetUserIDFromContext retrieves the acting user ID placed by the identity
// middleware. It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		// check in the request context as well
		userIdVal := c.Request.Context().Value(userIDKey)
		if userIdVal != nil {
			return userIdVal.(string), true
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		// Only reachable if something other than the identity middleware
		// wrote this key.
		return "", false
	}

	return userID, true
}
