package repository

import (
	"context"

	reportdomain "github.com/fiscalbr/classtrib/internal/report/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) reportdomain.Repository {
	return &repository{db: db}
}

func (r *repository) FetchRows(ctx context.Context, codes []string) ([]reportdomain.SourceRow, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	type row struct {
		NcmCode        string  `gorm:"column:ncm_code"`
		NcmDescription string  `gorm:"column:ncm_description"`
		ClassCode      int64   `gorm:"column:class_code"`
		Cst            string  `gorm:"column:cst"`
		PRedIBS        float64 `gorm:"column:p_red_ibs"`
		PRedCBS        float64 `gorm:"column:p_red_cbs"`
	}

	var rows []row
	err := r.db.WithContext(ctx).Raw(
		`SELECT n.code AS ncm_code,
		        n.description AS ncm_description,
		        c.code AS class_code,
		        c.cst_ibs_cbs AS cst,
		        c.p_red_ibs,
		        c.p_red_cbs
		 FROM ncms n
		 INNER JOIN class_tribs c ON c.ncm_id = n.id
		 WHERE n.code IN ?
		 ORDER BY n.code ASC, c.code ASC`,
		codes,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]reportdomain.SourceRow, 0, len(rows))
	for _, item := range rows {
		out = append(out, reportdomain.SourceRow{
			NcmCode:        item.NcmCode,
			NcmDescription: item.NcmDescription,
			ClassCode:      item.ClassCode,
			Cst:            item.Cst,
			PRedIBS:        item.PRedIBS,
			PRedCBS:        item.PRedCBS,
		})
	}
	return out, nil
}
