package domain

import "context"

type Service interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
	GetByCode(ctx context.Context, code string) (*DetailResponse, error)
	Lookup(ctx context.Context, codes []string) (*LookupResponse, error)
}

type NcmView struct {
	Code        string `json:"codigo"`
	Description string `json:"descricao"`
}

type SearchResponse struct {
	Items []NcmView `json:"items"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
}

// ClassificationView is the dashboard projection of one ClassTrib row with
// its computed rates.
type ClassificationView struct {
	Code           string  `json:"codigo"`
	Cst            string  `json:"cst"`
	Description    string  `json:"descricao"`
	PRedIBS        float64 `json:"pRedIBS"`
	PRedCBS        float64 `json:"pRedCBS"`
	LegalReference string  `json:"linkLegislacao,omitempty"`
	IbsRate        string  `json:"aliquotaIBS"`
	CbsRate        string  `json:"aliquotaCBS"`
	IsExempt       bool    `json:"isento"`
}

type DetailResponse struct {
	Code            string               `json:"codigo"`
	Description     string               `json:"descricao"`
	Classifications []ClassificationView `json:"classificacoes"`
}

type LookupRequest struct {
	Codes []string `json:"codigos" binding:"required,min=1"`
}

// LookupEntry is one matched code in a batch lookup, with its
// classifications and computed rates.
type LookupEntry struct {
	Code            string               `json:"codigo"`
	Description     string               `json:"descricao"`
	Classifications []ClassificationView `json:"classificacoes"`
}

type LookupResponse struct {
	Found   []LookupEntry `json:"encontrados"`
	Missing []string      `json:"naoEncontrados"`
}
