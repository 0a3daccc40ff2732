package repository

import (
	"context"
	"strings"

	ncmdomain "github.com/fiscalbr/classtrib/internal/ncm/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ncmdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Search(ctx context.Context, req ncmdomain.SearchRequest) ([]ncmdomain.Ncm, int64, error) {
	stmt := r.db.WithContext(ctx).Model(&ncmdomain.Ncm{})

	query := strings.TrimSpace(req.Query)
	if query != "" {
		if isNumeric(query) {
			stmt = stmt.Where("code LIKE ?", query+"%")
		} else {
			stmt = stmt.Where("LOWER(description) LIKE ?", "%"+strings.ToLower(query)+"%")
		}
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []ncmdomain.Ncm
	err := stmt.
		Order("code ASC").
		Offset((req.Page - 1) * req.Size).
		Limit(req.Size).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *repository) FindByCode(ctx context.Context, code string) (*ncmdomain.Ncm, error) {
	var item ncmdomain.Ncm
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, code, description, chapter_code, position_code, subposition_code, created_at, updated_at
		 FROM ncms
		 WHERE code = ?`,
		code,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repository) FindByCodes(ctx context.Context, codes []string) ([]ncmdomain.Ncm, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	var items []ncmdomain.Ncm
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, code, description, chapter_code, position_code, subposition_code, created_at, updated_at
		 FROM ncms
		 WHERE code IN ?
		 ORDER BY code ASC`,
		codes,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
