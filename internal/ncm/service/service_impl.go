package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"

	classtribdomain "github.com/fiscalbr/classtrib/internal/classtrib/domain"
	"github.com/fiscalbr/classtrib/internal/classtrib/rates"
	"github.com/fiscalbr/classtrib/internal/config"
	ncmdomain "github.com/fiscalbr/classtrib/internal/ncm/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type serviceParams struct {
	fx.In

	Log       *zap.Logger
	Repo      ncmdomain.Repository
	ClassRepo classtribdomain.Repository
	ReportCfg *config.ReportConfigHolder
}

type Service struct {
	log       *zap.Logger
	repo      ncmdomain.Repository
	classRepo classtribdomain.Repository
	reportCfg *config.ReportConfigHolder
}

func NewService(p serviceParams) ncmdomain.Service {
	return &Service{
		log:       p.Log.Named("ncm.service"),
		repo:      p.Repo,
		classRepo: p.ClassRepo,
		reportCfg: p.ReportCfg,
	}
}

func (s *Service) Search(ctx context.Context, req ncmdomain.SearchRequest) (*ncmdomain.SearchResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Size < 1 {
		req.Size = defaultPageSize
	}
	if req.Size > maxPageSize {
		req.Size = maxPageSize
	}
	req.Query = strings.TrimSpace(req.Query)

	items, total, err := s.repo.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	views := make([]ncmdomain.NcmView, 0, len(items))
	for _, item := range items {
		views = append(views, ncmdomain.NcmView{
			Code:        item.Code,
			Description: item.Description,
		})
	}

	return &ncmdomain.SearchResponse{
		Items: views,
		Total: total,
		Page:  req.Page,
		Size:  req.Size,
	}, nil
}

func (s *Service) GetByCode(ctx context.Context, code string) (*ncmdomain.DetailResponse, error) {
	normalized := ncmdomain.NormalizeCode(code)
	if normalized == "" {
		return nil, ncmdomain.ErrInvalidCode
	}

	item, err := s.repo.FindByCode(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ncmdomain.ErrNotFound
	}

	classes, err := s.classRepo.ListByNcmID(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	return &ncmdomain.DetailResponse{
		Code:            item.Code,
		Description:     item.Description,
		Classifications: s.classificationViews(classes),
	}, nil
}

func (s *Service) classificationViews(classes []classtribdomain.ClassTrib) []ncmdomain.ClassificationView {
	cfg := s.reportCfg.Get()
	policy := rates.NewPolicy(cfg.DashboardExemptCSTs, cfg.IBSBaseRate, cfg.CBSBaseRate, true)

	views := make([]ncmdomain.ClassificationView, 0, len(classes))
	for _, class := range classes {
		res := policy.Compute(class.CstIbsCbs, class.PRedIBS, class.PRedCBS)
		views = append(views, ncmdomain.ClassificationView{
			Code:           rates.FormatClassCode(class.Code),
			Cst:            class.CstIbsCbs,
			Description:    class.Description,
			PRedIBS:        class.PRedIBS,
			PRedCBS:        class.PRedCBS,
			LegalReference: class.LegalReference,
			IbsRate:        res.IBS,
			CbsRate:        res.CBS,
			IsExempt:       res.Exempt,
		})
	}
	return views
}

func (s *Service) Lookup(ctx context.Context, codes []string) (*ncmdomain.LookupResponse, error) {
	normalized := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		c := ncmdomain.NormalizeCode(code)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		normalized = append(normalized, c)
	}
	if len(normalized) == 0 {
		return &ncmdomain.LookupResponse{Found: []ncmdomain.LookupEntry{}, Missing: []string{}}, nil
	}

	items, err := s.repo.FindByCodes(ctx, normalized)
	if err != nil {
		return nil, err
	}

	ids := make([]snowflake.ID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	classesByNcm, err := s.classRepo.ListByNcmIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	found := make([]ncmdomain.LookupEntry, 0, len(items))
	foundSet := make(map[string]struct{}, len(items))
	for _, item := range items {
		foundSet[item.Code] = struct{}{}
		found = append(found, ncmdomain.LookupEntry{
			Code:            item.Code,
			Description:     item.Description,
			Classifications: s.classificationViews(classesByNcm[item.ID]),
		})
	}

	missing := make([]string, 0)
	for _, code := range normalized {
		if _, ok := foundSet[code]; !ok {
			missing = append(missing, code)
		}
	}

	return &ncmdomain.LookupResponse{Found: found, Missing: missing}, nil
}
