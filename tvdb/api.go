package tvdb

import (
	"context"
)

// API defines the interface for TheTVDB operations
type API interface {
	// Login verifies the credentials, caching the resulting token
	Login(ctx context.Context) error

	// Get fetches a resource using its kind's default variant
	Get(ctx context.Context, kind Kind, id ID, params ...Param) (Record, error)

	// Translation fetches a resource translation
	Translation(ctx context.Context, kind Kind, id ID, lang string) (Record, error)

	// Full fetches an extended resource together with a translation
	Full(ctx context.Context, kind Kind, id ID, lang string) (*FullRecord, error)

	// Search runs a free-text search
	Search(ctx context.Context, query string, opts SearchOptions) ([]Record, error)

	// SeriesByName resolves a series by name and fetches it
	SeriesByName(ctx context.Context, name string) (Record, error)

	// FetchTypes lists the type enumeration of a kind
	FetchTypes(ctx context.Context, kind Kind) ([]Record, error)

	// FetchStatuses lists the status enumeration of a kind
	FetchStatuses(ctx context.Context, kind Kind) ([]Record, error)
}

var _ API = (*Client)(nil)
