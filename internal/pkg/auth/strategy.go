package auth

import "time"

// TokenKind separates the two token audiences. A user token never grants
// admin access and vice versa.
type TokenKind string

const (
	TokenKindUser  TokenKind = "user"
	TokenKindAdmin TokenKind = "admin"
)

// Strategy issues and verifies auth tokens.
type Strategy interface {
	IssueToken(subject string, kind TokenKind) (string, error)
	ParseToken(token string, kind TokenKind) (string, error)
	Name() string
}

// Options tunes token issuance.
type Options struct {
	TTL time.Duration
}
