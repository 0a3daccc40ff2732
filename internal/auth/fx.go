package auth

import (
	"go.uber.org/fx"

	"github.com/fiscalbr/classtrib/internal/auth/repository"
	"github.com/fiscalbr/classtrib/internal/auth/service"
	"github.com/fiscalbr/classtrib/internal/auth/token"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(token.NewManager),
	fx.Provide(service.New),
)
