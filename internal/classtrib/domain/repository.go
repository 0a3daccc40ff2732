package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	ListByNcmID(ctx context.Context, ncmID snowflake.ID) ([]ClassTrib, error)
	ListByNcmIDs(ctx context.Context, ncmIDs []snowflake.ID) (map[snowflake.ID][]ClassTrib, error)
}
