package usecase

import (
	"context"
	"strings"

	"github.com/pointsmall/pointsmall/internal/adapter/wechat"
	domainErrors "github.com/pointsmall/pointsmall/internal/domain/errors"
	"github.com/pointsmall/pointsmall/internal/domain/model"
	"github.com/pointsmall/pointsmall/internal/domain/repository"
	pkgAuth "github.com/pointsmall/pointsmall/internal/pkg/auth"
)

// AuthUseCase handles identity resolution, token management, and the user
// registry. Credentials themselves are validated by WeChat; the service only
// ever stores the resolved openid.
type AuthUseCase struct {
	users         repository.UserRepository
	resolver      wechat.Resolver
	hasher        pkgAuth.PasswordHasher
	tokens        pkgAuth.Strategy
	adminUsername string
	adminHash     string
}

// NewAuthUseCase constructs AuthUseCase. adminHash is the bcrypt hash of the
// admin password.
func NewAuthUseCase(users repository.UserRepository, resolver wechat.Resolver, hasher pkgAuth.PasswordHasher, tokens pkgAuth.Strategy, adminUsername, adminHash string) *AuthUseCase {
	return &AuthUseCase{
		users:         users,
		resolver:      resolver,
		hasher:        hasher,
		tokens:        tokens,
		adminUsername: adminUsername,
		adminHash:     adminHash,
	}
}

// LoginWithCode exchanges a mini-program login code for a session token,
// creating the user on first login.
func (u *AuthUseCase) LoginWithCode(ctx context.Context, code string) (*model.User, string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	session, err := u.resolver.Resolve(ctx, code)
	if err != nil {
		return nil, "", err
	}

	usr, err := u.users.GetOrCreate(ctx, session.OpenID)
	if err != nil {
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(usr.OpenID, pkgAuth.TokenKindUser)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// AdminLogin validates the configured admin credentials and returns an admin
// token.
func (u *AuthUseCase) AdminLogin(ctx context.Context, username, password string) (string, error) {
	if username != u.adminUsername {
		return "", domainErrors.ErrInvalidCredentials
	}
	if err := u.hasher.Compare(u.adminHash, password); err != nil {
		return "", domainErrors.ErrInvalidCredentials
	}
	return u.tokens.IssueToken(username, pkgAuth.TokenKindAdmin)
}

// ParseUserToken validates a session token and returns the openid, checking
// that the user still exists.
func (u *AuthUseCase) ParseUserToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", pkgAuth.ErrInvalidToken
	}
	openID, err := u.tokens.ParseToken(token, pkgAuth.TokenKindUser)
	if err != nil {
		return "", err
	}
	if _, err := u.users.GetByOpenID(ctx, openID); err != nil {
		return "", pkgAuth.ErrInvalidToken
	}
	return openID, nil
}

// ParseAdminToken validates an admin token and returns the admin username.
func (u *AuthUseCase) ParseAdminToken(token string) (string, error) {
	if token == "" {
		return "", pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token, pkgAuth.TokenKindAdmin)
}

// Profile fetches a user by openid.
func (u *AuthUseCase) Profile(ctx context.Context, openID string) (*model.User, error) {
	return u.users.GetByOpenID(ctx, openID)
}

// Users returns a page of users matching keyword over openid/nickname.
func (u *AuthUseCase) Users(ctx context.Context, keyword string, page, pageSize int) ([]model.User, int64, error) {
	page, pageSize = NormalizePage(page, pageSize)
	return u.users.List(ctx, keyword, page, pageSize)
}
