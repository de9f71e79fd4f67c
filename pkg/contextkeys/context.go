package contextkeys

// Custom type to avoid collisions with other context values.
type contextKey string

// DBContextKey holds the tenant-bound *gorm.DB for the current request.
const DBContextKey = contextKey("db")

// TenantContextKey holds the resolved tenant identifier.
const TenantContextKey = contextKey("tenant")
