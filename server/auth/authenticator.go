// Package auth validates bearer access tokens and resolves them to a user id.
package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	// Issuer is written into every token this server mints.
	Issuer = "forkful"
	// AccessTokenDuration is the default token lifetime.
	AccessTokenDuration = 7 * 24 * time.Hour
)

// Authenticator verifies HMAC-signed access tokens.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// AuthenticateToUserID extracts the bearer token from an Authorization header
// and returns the user id it was issued to.
func (a *Authenticator) AuthenticateToUserID(authHeader string) (string, error) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", errors.New("missing bearer token")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", errors.New("missing bearer token")
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithIssuer(Issuer))
	if err != nil {
		return "", errors.Wrap(err, "invalid access token")
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", errors.New("invalid access token")
	}
	return claims.Subject, nil
}

// GenerateAccessToken mints a token for userID, signed with the server secret.
func (a *Authenticator) GenerateAccessToken(userID string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenDuration)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign access token")
	}
	return signed, nil
}
