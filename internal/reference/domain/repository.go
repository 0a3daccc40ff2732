package domain

import (
	"context"

	ncmdomain "github.com/fiscalbr/classtrib/internal/ncm/domain"
)

type Repository interface {
	ListChapters(ctx context.Context) ([]ncmdomain.Chapter, error)
	ListPositions(ctx context.Context) ([]ncmdomain.Position, error)
	ListSubpositions(ctx context.Context) ([]ncmdomain.Subposition, error)
}

// Service serves the NCM hierarchy with caching in front of storage.
type Service interface {
	Chapters(ctx context.Context) ([]ncmdomain.Chapter, error)
	Positions(ctx context.Context) ([]ncmdomain.Position, error)
	Subpositions(ctx context.Context) ([]ncmdomain.Subposition, error)
}
