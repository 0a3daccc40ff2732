package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	classtribdomain "github.com/fiscalbr/classtrib/internal/classtrib/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) classtribdomain.Repository {
	return &repository{db: db}
}

func (r *repository) ListByNcmID(ctx context.Context, ncmID snowflake.ID) ([]classtribdomain.ClassTrib, error) {
	var items []classtribdomain.ClassTrib
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, ncm_id, code, cst_ibs_cbs, description, p_red_ibs, p_red_cbs, legal_reference, created_at, updated_at
		 FROM class_tribs
		 WHERE ncm_id = ?
		 ORDER BY code ASC`,
		ncmID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListByNcmIDs(ctx context.Context, ncmIDs []snowflake.ID) (map[snowflake.ID][]classtribdomain.ClassTrib, error) {
	out := make(map[snowflake.ID][]classtribdomain.ClassTrib, len(ncmIDs))
	if len(ncmIDs) == 0 {
		return out, nil
	}

	var items []classtribdomain.ClassTrib
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, ncm_id, code, cst_ibs_cbs, description, p_red_ibs, p_red_cbs, legal_reference, created_at, updated_at
		 FROM class_tribs
		 WHERE ncm_id IN ?
		 ORDER BY ncm_id ASC, code ASC`,
		ncmIDs,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		out[item.NcmID] = append(out[item.NcmID], item)
	}
	return out, nil
}
