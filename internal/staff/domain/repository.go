package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Repository is the staff directory consumed by the booking workflows.
// FindByID resolves the staff type and specialization in one read.
type Repository interface {
	FindByID(ctx context.Context, id snowflake.ID) (*Staff, error)
}
