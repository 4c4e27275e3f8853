package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Provider resolves an opaque bearer token into a Session. Implementations
// verify tokens only; credential issuance belongs to the external identity
// provider.
type Provider interface {
	Verify(token string) (Session, error)
}

// Claims are the token claims this service understands. The subject claim
// carries the opaque user id.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenProvider verifies HMAC-signed JWTs issued by the identity provider.
type TokenProvider struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewTokenProvider creates a TokenProvider with the shared signing secret.
func NewTokenProvider(secret string, ttl time.Duration) *TokenProvider {
	return &TokenProvider{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "linguaflash",
	}
}

// Verify parses and validates the token and returns the session it encodes.
func (p *TokenProvider) Verify(tokenStr string) (Session, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return Anonymous, fmt.Errorf("verify token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return Anonymous, fmt.Errorf("token has no subject")
	}
	return Session{UserID: claims.Subject}, nil
}

// Issue mints a token for the given user id. Exposed for the dev-only
// token endpoint and for tests; production identities come from the
// external provider.
func (p *TokenProvider) Issue(userID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}
