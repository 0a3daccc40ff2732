package reference

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fiscalbr/classtrib/internal/cache"
	ncmdomain "github.com/fiscalbr/classtrib/internal/ncm/domain"
	"github.com/fiscalbr/classtrib/internal/reference/domain"
)

type serviceParams struct {
	fx.In

	Log   *zap.Logger
	Repo  domain.Repository
	Cache cache.ReferenceCache
}

type service struct {
	log   *zap.Logger
	repo  domain.Repository
	cache cache.ReferenceCache
}

func NewService(p serviceParams) domain.Service {
	return &service{
		log:   p.Log.Named("reference.service"),
		repo:  p.Repo,
		cache: p.Cache,
	}
}

func (s *service) Chapters(ctx context.Context) ([]ncmdomain.Chapter, error) {
	if cached, ok := s.cache.GetChapters(); ok {
		return cached, nil
	}

	items, err := s.repo.ListChapters(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetChapters(items)
	return items, nil
}

func (s *service) Positions(ctx context.Context) ([]ncmdomain.Position, error) {
	if cached, ok := s.cache.GetPositions(); ok {
		return cached, nil
	}

	items, err := s.repo.ListPositions(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetPositions(items)
	return items, nil
}

func (s *service) Subpositions(ctx context.Context) ([]ncmdomain.Subposition, error) {
	if cached, ok := s.cache.GetSubpositions(); ok {
		return cached, nil
	}

	items, err := s.repo.ListSubpositions(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetSubpositions(items)
	return items, nil
}
