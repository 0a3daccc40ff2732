package domain

import "context"

// SourceRow is one joined (NCM, classification) record as fetched from
// storage, before rate computation and selection filtering.
type SourceRow struct {
	NcmCode        string
	NcmDescription string
	ClassCode      int64
	Cst            string
	PRedIBS        float64
	PRedCBS        float64
}

// Repository is the single data-access handle the orchestrator receives at
// construction time.
type Repository interface {
	// FetchRows returns every classification row of the requested NCM
	// codes, ordered by NCM code then classification code ascending.
	// NCM codes with no classification rows do not appear.
	FetchRows(ctx context.Context, codes []string) ([]SourceRow, error)
}

type Service interface {
	Generate(ctx context.Context, req Request) (*Document, error)
}
