package service

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fiscalbr/classtrib/internal/classtrib/rates"
	"github.com/fiscalbr/classtrib/internal/clock"
	"github.com/fiscalbr/classtrib/internal/config"
	ncmdomain "github.com/fiscalbr/classtrib/internal/ncm/domain"
	"github.com/fiscalbr/classtrib/internal/report/domain"
	"github.com/fiscalbr/classtrib/internal/report/render"
)

type serviceParams struct {
	fx.In

	Log       *zap.Logger
	Repo      domain.Repository
	Clock     clock.Clock
	ReportCfg *config.ReportConfigHolder
}

type reportService struct {
	log       *zap.Logger
	repo      domain.Repository
	clock     clock.Clock
	reportCfg *config.ReportConfigHolder
}

func NewService(p serviceParams) domain.Service {
	return &reportService{
		log:       p.Log.Named("report.service"),
		repo:      p.Repo,
		clock:     p.Clock,
		reportCfg: p.ReportCfg,
	}
}

const reportTitle = "Relatório de Alíquotas IBS/CBS por NCM"

func (s *reportService) Generate(ctx context.Context, req domain.Request) (*domain.Document, error) {
	codes := normalizeCodes(req.Codes)
	if len(codes) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	switch req.Format {
	case domain.FormatPDF, domain.FormatXLSX, domain.FormatTXT:
	default:
		return nil, domain.ErrInvalidFormat
	}

	source, err := s.repo.FetchRows(ctx, codes)
	if err != nil {
		return nil, err
	}
	if len(source) == 0 {
		return nil, domain.ErrNotFound
	}

	cfg := s.reportCfg.Get()
	policy := rates.NewPolicy(cfg.ReportExemptCSTs, cfg.IBSBaseRate, cfg.CBSBaseRate, false)

	rows := make([]domain.Row, 0, len(source))
	for _, src := range source {
		classCode := rates.FormatClassCode(src.ClassCode)
		if !req.Selection.Includes(src.NcmCode, classCode) {
			continue
		}
		result := policy.Compute(src.Cst, src.PRedIBS, src.PRedCBS)
		rows = append(rows, domain.Row{
			NcmCode:        src.NcmCode,
			NcmDescription: src.NcmDescription,
			Cst:            src.Cst,
			ClassCode:      classCode,
			IbsRate:        result.IBS,
			CbsRate:        result.CBS,
		})
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}

	now := s.clock.Now()
	in := render.Input{
		Title:        reportTitle,
		Organization: cfg.Organization,
		User:         req.User,
		Rows:         rows,
		GeneratedAt:  now,
	}

	out, err := s.renderer(req.Format, cfg).Render(in)
	if err != nil {
		s.log.Error("report render failed",
			zap.String("format", string(req.Format)),
			zap.Int("rows", len(rows)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}

	s.log.Info("report generated",
		zap.String("format", string(req.Format)),
		zap.Int("codes", len(codes)),
		zap.Int("rows", len(rows)),
	)

	return &domain.Document{
		Bytes:       out,
		ContentType: contentType(req.Format),
		Filename:    fmt.Sprintf("relatorio-classtrib-%s.%s", now.Format("20060102-150405"), req.Format),
	}, nil
}

func (s *reportService) renderer(format domain.Format, cfg config.ReportConfig) render.Renderer {
	switch format {
	case domain.FormatXLSX:
		return render.NewXLSXRenderer(s.log, cfg.TemplatePath)
	case domain.FormatTXT:
		return render.NewTextRenderer()
	default:
		return render.NewPDFRenderer(s.log, cfg.LogoPath)
	}
}

func contentType(format domain.Format) string {
	switch format {
	case domain.FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case domain.FormatTXT:
		return "text/plain; charset=utf-8"
	default:
		return "application/pdf"
	}
}

// normalizeCodes strips formatting from each NCM code, drops invalid ones
// and deduplicates while preserving order.
func normalizeCodes(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, code := range raw {
		normalized := ncmdomain.NormalizeCode(code)
		if !ncmdomain.ValidCode(normalized) {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}
