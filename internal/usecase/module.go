package usecase

import (
	"go.uber.org/fx"

	"github.com/pointsmall/pointsmall/internal/adapter/wechat"
	"github.com/pointsmall/pointsmall/internal/config"
	"github.com/pointsmall/pointsmall/internal/domain/repository"
	pkgAuth "github.com/pointsmall/pointsmall/internal/pkg/auth"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newAuthUseCase,
	NewPointsUseCase,
	NewCatalogUseCase,
	NewOrderUseCase,
)

type authParams struct {
	fx.In

	Users    repository.UserRepository
	Resolver wechat.Resolver
	Hasher   pkgAuth.PasswordHasher
	Tokens   pkgAuth.Strategy
	Config   *config.Config
}

// The admin password is hashed once at startup so only the bcrypt hash is
// kept in memory afterwards.
func newAuthUseCase(p authParams) (*AuthUseCase, error) {
	hash, err := p.Hasher.Hash(p.Config.AdminPassword)
	if err != nil {
		return nil, err
	}
	return NewAuthUseCase(p.Users, p.Resolver, p.Hasher, p.Tokens, p.Config.AdminUsername, hash), nil
}
