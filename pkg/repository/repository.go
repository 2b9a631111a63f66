package repository

import (
	"context"
)

// Repository is a generic gorm-backed lookup store keyed by struct
// filters. Domain-specific queries live in each domain's own repository;
// this covers the plain point lookups that need no custom clauses.
type Repository[T any] interface {
	// FindOne returns the first match or (nil, nil) when none exists.
	FindOne(ctx context.Context, query *T) (*T, error)
}
