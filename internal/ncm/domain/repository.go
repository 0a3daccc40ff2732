package domain

import "context"

type SearchRequest struct {
	Query string
	Page  int
	Size  int
}

type Repository interface {
	Search(ctx context.Context, req SearchRequest) ([]Ncm, int64, error)
	FindByCode(ctx context.Context, code string) (*Ncm, error)
	FindByCodes(ctx context.Context, codes []string) ([]Ncm, error)
}
