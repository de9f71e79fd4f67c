package tenant

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Resolver maps a tenant identifier to its isolated data store. The
// fulfillment engine itself is tenant-agnostic: by the time a service runs
// it is already bound to the correct store.
type Resolver interface {
	DB(ctx context.Context, tenantID string) (*gorm.DB, error)
}

// StaticResolver serves a fixed set of stores, with a default for requests
// that carry no tenant header. Single-tenant deployments register only the
// default.
type StaticResolver struct {
	defaultDB *gorm.DB
	stores    map[string]*gorm.DB
}

func NewStaticResolver(defaultDB *gorm.DB) *StaticResolver {
	return &StaticResolver{
		defaultDB: defaultDB,
		stores:    make(map[string]*gorm.DB),
	}
}

func (r *StaticResolver) Register(tenantID string, db *gorm.DB) {
	r.stores[tenantID] = db
}

func (r *StaticResolver) DB(ctx context.Context, tenantID string) (*gorm.DB, error) {
	if tenantID == "" {
		return r.defaultDB, nil
	}
	if db, ok := r.stores[tenantID]; ok {
		return db, nil
	}
	return nil, fmt.Errorf("unknown tenant: %s", tenantID)
}
