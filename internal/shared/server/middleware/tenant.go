package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assess-backend/internal/shared/server/respond"
)

const tenantIDKey = "tenantId"

// Tenant resolves the tenant from the X-Tenant-ID header. How rows are
// scoped to the tenant is the repositories' concern; this middleware only
// selects which tenant the request operates on.
func Tenant(defaultTenant string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Tenant-ID")
		if id == "" {
			id = defaultTenant
		}
		if id == "" {
			respond.Error(c, http.StatusBadRequest, "tenant_required", "X-Tenant-ID header is required", nil)
			return
		}
		c.Set(tenantIDKey, id)
		c.Next()
	}
}

// TenantIDFromContext fetches the tenant ID stored by Tenant middleware.
func TenantIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(tenantIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
