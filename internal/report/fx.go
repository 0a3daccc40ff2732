package report

import (
	"github.com/fiscalbr/classtrib/internal/report/repository"
	"github.com/fiscalbr/classtrib/internal/report/service"
	"go.uber.org/fx"
)

var Module = fx.Module("report.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
