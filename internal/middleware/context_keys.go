package middleware

import "github.com/gin-gonic/gin"

// actorHeader carries the acting user's ID on every request. The suite's
// gateway authenticates users and forwards their identity in this header;
// this service only records it on audit fields.
const actorHeader = "X-Actor-ID"

// defaultActor is recorded when no actor header is present, e.g. postings
// triggered by internal jobs.
const defaultActor = "system"

// GetTenantID retrieves the tenant ID from the route path.
// It returns the tenant ID and a boolean indicating if it was found.
func GetTenantID(c *gin.Context) (string, bool) {
	tenantID := c.Param("tenant_id")
	return tenantID, tenantID != ""
}

// GetActorID retrieves the acting user's ID from the request header,
// falling back to the system actor.
func GetActorID(c *gin.Context) string {
	if actor := c.GetHeader(actorHeader); actor != "" {
		return actor
	}
	return defaultActor
}
