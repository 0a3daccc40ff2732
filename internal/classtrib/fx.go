package classtrib

import (
	"github.com/fiscalbr/classtrib/internal/classtrib/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("classtrib",
	fx.Provide(repository.NewRepository),
)
