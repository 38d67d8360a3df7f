package test

import (
	"context"
	"errors"

	"github.com/pointsmall/pointsmall/internal/adapter/wechat"
	pkgAuth "github.com/pointsmall/pointsmall/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(string, pkgAuth.TokenKind) (string, error)
	ParseFn func(string, pkgAuth.TokenKind) (string, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(subject string, kind pkgAuth.TokenKind) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(subject, kind)
	}
	return string(kind) + ":" + subject, nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string, kind pkgAuth.TokenKind) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token, kind)
	}
	prefix := string(kind) + ":"
	if len(token) > len(prefix) && token[:len(prefix)] == prefix {
		return token[len(prefix):], nil
	}
	return "", pkgAuth.ErrInvalidToken
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// ResolverStub simulates the WeChat code exchange.
type ResolverStub struct {
	Session *wechat.Session
	Err     error
	Calls   []string
}

// Resolve returns the configured session or error.
func (s *ResolverStub) Resolve(ctx context.Context, code string) (*wechat.Session, error) {
	s.Calls = append(s.Calls, code)
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Session != nil {
		return s.Session, nil
	}
	return &wechat.Session{OpenID: "openid-" + code, SessionKey: "key"}, nil
}

var (
	_ pkgAuth.PasswordHasher = HasherStub{}
	_ pkgAuth.Strategy       = StrategyStub{}
	_ wechat.Resolver        = (*ResolverStub)(nil)
)
