// Package auth implements issuing and verifying the signed tokens that
// gate the mutating API routes.
//
// Verification is a pure function of (token, secret, now): no server-side
// session state is kept, and a token's lifetime is fixed at issuance.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verification failures, one per 401 variant exposed by the API.
var (
	// ErrMissingToken is returned when no token was supplied at all.
	ErrMissingToken = errors.New("token não encontrado")

	// ErrMalformedToken is returned when the token cannot be decoded
	// into its expected parts.
	ErrMalformedToken = errors.New("token malformado")

	// ErrExpiredToken is returned when now is at or past the token's
	// embedded expiry.
	ErrExpiredToken = errors.New("token expirou")

	// ErrInvalidToken covers every other signature or format mismatch.
	ErrInvalidToken = errors.New("token inválido")
)

// Claims are the registered claims carried by an issued token.
type Claims struct {
	jwt.RegisteredClaims
}

// Issue signs a token for subject with the given lifetime. The expiry is
// fixed at issuance; tokens are never refreshed.
func Issue(subject string, secret []byte, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Validate checks token against secret at the given instant and returns
// the embedded claims. The failure mode distinguishes missing, malformed,
// expired and otherwise-invalid tokens so callers can surface distinct
// unauthorized responses.
func Validate(token string, secret []byte, now time.Time) (*Claims, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		default:
			return nil, ErrInvalidToken
		}
	}

	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
