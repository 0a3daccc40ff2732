package reference

import (
	"context"

	"gorm.io/gorm"

	ncmdomain "github.com/fiscalbr/classtrib/internal/ncm/domain"
	"github.com/fiscalbr/classtrib/internal/reference/domain"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) ListChapters(ctx context.Context) ([]ncmdomain.Chapter, error) {
	var items []ncmdomain.Chapter
	err := r.db.WithContext(ctx).
		Raw(`SELECT code, description FROM chapters ORDER BY code`).
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListPositions(ctx context.Context) ([]ncmdomain.Position, error) {
	var items []ncmdomain.Position
	err := r.db.WithContext(ctx).
		Raw(`SELECT code, description FROM positions ORDER BY code`).
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListSubpositions(ctx context.Context) ([]ncmdomain.Subposition, error) {
	var items []ncmdomain.Subposition
	err := r.db.WithContext(ctx).
		Raw(`SELECT code, description FROM subpositions ORDER BY code`).
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
