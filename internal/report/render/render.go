package render

import (
	"time"

	reportdomain "github.com/fiscalbr/classtrib/internal/report/domain"
)

// Input carries the ordered, filtered, rate-annotated rows plus the header
// metadata every renderer shares.
type Input struct {
	Title        string
	Organization string
	User         *reportdomain.RequestingUser
	Rows         []reportdomain.Row
	GeneratedAt  time.Time
}

// Renderer serializes rows into one output format.
type Renderer interface {
	Render(in Input) ([]byte, error)
}

var columnTitles = []string{"NCM", "Descrição", "CST", "ClassTrib", "Alíquota IBS", "Alíquota CBS"}
