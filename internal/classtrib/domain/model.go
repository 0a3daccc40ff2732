package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ClassTrib is a tax-treatment classification attached to an NCM. Code is
// displayed zero-padded to 6 digits; PRedIBS/PRedCBS are percentage
// reductions (0-100) applied to the IBS/CBS base rates.
type ClassTrib struct {
	ID    snowflake.ID `gorm:"primaryKey"`
	NcmID snowflake.ID `gorm:"column:ncm_id;not null;index"`

	Code           int64   `gorm:"not null"`
	CstIbsCbs      string  `gorm:"column:cst_ibs_cbs;type:varchar(3);not null"`
	Description    string  `gorm:"type:text;not null"`
	PRedIBS        float64 `gorm:"column:p_red_ibs;not null;default:0"`
	PRedCBS        float64 `gorm:"column:p_red_cbs;not null;default:0"`
	LegalReference string  `gorm:"column:legal_reference;type:text"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ClassTrib) TableName() string { return "class_tribs" }
