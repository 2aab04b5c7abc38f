package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingActor is returned for a token whose subject is empty.
var ErrMissingActor = errors.New("token has no subject")

// IssueActorToken signs an HS256 token whose subject is the actor recorded on ledger writes.
// Operators use it for service accounts and local testing; users get tokens from the identity provider.
func IssueActorToken(actor string, secret string, ttl time.Duration, issuer string) (string, error) {
	if actor == "" {
		return "", ErrMissingActor
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   actor,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseActorToken validates the signature and standard claims of tokenString and returns
// its actor.
func ParseActorToken(tokenString string, secretKey string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenSignatureInvalid
	}
	if claims.Subject == "" {
		return "", ErrMissingActor
	}
	return claims.Subject, nil
}
