// Package chatx issues user tokens for the hosted chat provider.
package chatx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoSecret = errors.New("chatx: provider secret is not configured")

// Issuer mints tokens the chat provider accepts for a user.
type Issuer interface {
	Token(userID string) (string, error)
}

// HS256Issuer signs {"user_id": id} with the provider's API secret, which
// is the token format the provider's server SDKs produce.
type HS256Issuer struct {
	secret []byte
}

func NewIssuer(secret string) *HS256Issuer {
	return &HS256Issuer{secret: []byte(secret)}
}

func (i *HS256Issuer) Token(userID string) (string, error) {
	if len(i.secret) == 0 {
		return "", ErrNoSecret
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": userID}).SignedString(i.secret)
}
