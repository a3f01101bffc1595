package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	// FindTypesByIDs returns the service types matching the given ids.
	// Ids with no matching row are omitted from the result, not errors.
	FindTypesByIDs(ctx context.Context, ids []snowflake.ID) ([]ServiceType, error)
}
