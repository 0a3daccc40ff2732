package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Ncm is one entry of the Brazilian customs nomenclature. The code is the
// 8-digit identifier users search by; chapter/position/subposition codes are
// denormalized prefixes kept for the reference lookups.
type Ncm struct {
	ID   snowflake.ID `gorm:"primaryKey"`
	Code string       `gorm:"type:varchar(8);not null;uniqueIndex"`

	Description     string `gorm:"type:text;not null"`
	ChapterCode     string `gorm:"type:varchar(2);index"`
	PositionCode    string `gorm:"type:varchar(4);index"`
	SubpositionCode string `gorm:"type:varchar(6);index"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Ncm) TableName() string { return "ncms" }

type Chapter struct {
	Code        string `json:"codigo" gorm:"type:varchar(2);primaryKey"`
	Description string `json:"descricao" gorm:"type:text;not null"`
}

func (Chapter) TableName() string { return "chapters" }

type Position struct {
	Code        string `json:"codigo" gorm:"type:varchar(4);primaryKey"`
	Description string `json:"descricao" gorm:"type:text;not null"`
}

func (Position) TableName() string { return "positions" }

type Subposition struct {
	Code        string `json:"codigo" gorm:"type:varchar(6);primaryKey"`
	Description string `json:"descricao" gorm:"type:text;not null"`
}

func (Subposition) TableName() string { return "subpositions" }
