package domain

import "time"

// Identity is anything a token can be issued for.
type Identity interface {
	GetClientID() string
}

// TokenCategory selects the lifetime of an issued token.
type TokenCategory string

const (
	TokenCategoryAccess  TokenCategory = "access"
	TokenCategoryRefresh TokenCategory = "refresh"
)

// Valid reports whether the category is one of the known values.
func (c TokenCategory) Valid() bool {
	return c == TokenCategoryAccess || c == TokenCategoryRefresh
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}
