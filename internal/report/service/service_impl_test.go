package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	classtribdomain "github.com/fiscalbr/classtrib/internal/classtrib/domain"
	"github.com/fiscalbr/classtrib/internal/clock"
	"github.com/fiscalbr/classtrib/internal/config"
	ncmdomain "github.com/fiscalbr/classtrib/internal/ncm/domain"
	"github.com/fiscalbr/classtrib/internal/report/domain"
	"github.com/fiscalbr/classtrib/internal/report/repository"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&ncmdomain.Ncm{}, &classtribdomain.ClassTrib{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	horse := ncmdomain.Ncm{ID: node.Generate(), Code: "01012100", Description: "Cavalos reprodutores de raça pura"}
	beer := ncmdomain.Ncm{ID: node.Generate(), Code: "22030000", Description: "Cervejas de malte"}
	require.NoError(t, db.Create(&horse).Error)
	require.NoError(t, db.Create(&beer).Error)

	classes := []classtribdomain.ClassTrib{
		{ID: node.Generate(), NcmID: horse.ID, Code: 1, CstIbsCbs: "000", Description: "Tributação integral"},
		{ID: node.Generate(), NcmID: horse.ID, Code: 7, CstIbsCbs: "200", Description: "Redução de alíquota", PRedIBS: 50, PRedCBS: 50},
		{ID: node.Generate(), NcmID: beer.ID, Code: 200, CstIbsCbs: "400", Description: "Isenção"},
	}
	for i := range classes {
		require.NoError(t, db.Create(&classes[i]).Error)
	}

	return NewService(serviceParams{
		Log:       zaptest.NewLogger(t),
		Repo:      repository.NewRepository(db),
		Clock:     clock.NewFakeClock(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)),
		ReportCfg: config.NewStaticReportConfigHolder(config.DefaultReportConfig()),
	})
}

func TestGenerate_Text(t *testing.T) {
	svc := newTestService(t)

	doc, err := svc.Generate(context.Background(), domain.Request{
		Codes:  []string{"0101.21.00", "22030000"},
		Format: domain.FormatTXT,
	})
	require.NoError(t, err)

	assert.Equal(t, "text/plain; charset=utf-8", doc.ContentType)
	assert.Equal(t, "relatorio-classtrib-20260314-093000.txt", doc.Filename)

	text := string(doc.Bytes)
	assert.Contains(t, text, "01012100 | Cavalos reprodutores de raça pura | 000 | 000001 | 10.00% | 90.00%")
	assert.Contains(t, text, "01012100 | Cavalos reprodutores de raça pura | 200 | 000007 | 5.00% | 45.00%")
	assert.Contains(t, text, "22030000 | Cervejas de malte | 400 | 000200 | 0% | 0%")
	assert.Contains(t, text, "Gerado em: 14/03/2026 09:30:00")
}

func TestGenerate_DefaultFormatIsPDF(t *testing.T) {
	svc := newTestService(t)

	format, ok := domain.ParseFormat("")
	require.True(t, ok)

	doc, err := svc.Generate(context.Background(), domain.Request{
		Codes:  []string{"01012100"},
		Format: format,
	})
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, "%PDF", string(doc.Bytes[:4]))
	assert.True(t, strings.HasSuffix(doc.Filename, ".pdf"))
}

func TestGenerate_XLSX(t *testing.T) {
	svc := newTestService(t)

	doc, err := svc.Generate(context.Background(), domain.Request{
		Codes:  []string{"01012100"},
		Format: domain.FormatXLSX,
	})
	require.NoError(t, err)

	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", doc.ContentType)
	assert.NotEmpty(t, doc.Bytes)
	// xlsx files are zip archives.
	assert.Equal(t, "PK", string(doc.Bytes[:2]))
}

func TestGenerate_SelectionFiltersRows(t *testing.T) {
	svc := newTestService(t)

	doc, err := svc.Generate(context.Background(), domain.Request{
		Codes:     []string{"01012100", "22030000"},
		Format:    domain.FormatTXT,
		Selection: domain.ParseSelection([]string{"01012100-000007"}),
	})
	require.NoError(t, err)

	text := string(doc.Bytes)
	assert.Contains(t, text, "000007")
	assert.NotContains(t, text, "000001")
	assert.NotContains(t, text, "Cervejas")
}

func TestGenerate_SelectionAll(t *testing.T) {
	svc := newTestService(t)

	doc, err := svc.Generate(context.Background(), domain.Request{
		Codes:     []string{"01012100", "22030000"},
		Format:    domain.FormatTXT,
		Selection: domain.ParseSelection([]string{"22030000-ALL"}),
	})
	require.NoError(t, err)

	text := string(doc.Bytes)
	assert.Contains(t, text, "Cervejas de malte")
	assert.NotContains(t, text, "Cavalos")
}

func TestGenerate_SelectionExcludesEverything(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Generate(context.Background(), domain.Request{
		Codes:     []string{"01012100"},
		Format:    domain.FormatTXT,
		Selection: domain.ParseSelection([]string{"99999999-ALL"}),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGenerate_UnknownCodes(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Generate(context.Background(), domain.Request{
		Codes:  []string{"99999999"},
		Format: domain.FormatTXT,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGenerate_NoValidCodes(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Generate(context.Background(), domain.Request{
		Codes:  []string{"", "abc"},
		Format: domain.FormatTXT,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestGenerate_InvalidFormat(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Generate(context.Background(), domain.Request{
		Codes:  []string{"01012100"},
		Format: domain.Format("docx"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
}

func TestGenerate_UserStamp(t *testing.T) {
	svc := newTestService(t)

	doc, err := svc.Generate(context.Background(), domain.Request{
		Codes:  []string{"01012100"},
		Format: domain.FormatTXT,
		User:   &domain.RequestingUser{Name: "Maria Souza", TaxID: "123.456.789-00"},
	})
	require.NoError(t, err)

	text := string(doc.Bytes)
	assert.Contains(t, text, "Gerado por: Maria Souza")
	assert.Contains(t, text, "CPF/CNPJ: 123.456.789-00")
}

func TestGenerate_DeduplicatesCodes(t *testing.T) {
	svc := newTestService(t)

	doc, err := svc.Generate(context.Background(), domain.Request{
		Codes:  []string{"01012100", "0101.21.00", "01012100"},
		Format: domain.FormatTXT,
	})
	require.NoError(t, err)

	text := string(doc.Bytes)
	assert.Equal(t, 1, strings.Count(text, "000001 | 10.00%"))
}
