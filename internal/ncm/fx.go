package ncm

import (
	"github.com/fiscalbr/classtrib/internal/ncm/repository"
	"github.com/fiscalbr/classtrib/internal/ncm/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ncm.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
