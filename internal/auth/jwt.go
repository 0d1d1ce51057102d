package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "marketledger-auth"

type TokenMaker struct {
	secret []byte
}

func NewTokenMaker(secret string) *TokenMaker {
	return &TokenMaker{secret: []byte(secret)}
}

// Claims carry the caller's ledger account in the subject.
type Claims struct {
	Account string `json:"account"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

func (t *TokenMaker) New(account, email string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		Account: account,
		Email:   email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

func (t *TokenMaker) Parse(tokenStr string) (Claims, error) {
	var c Claims

	token, err := jwt.ParseWithClaims(tokenStr, &c, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return Claims{}, errors.New("invalid token")
	}

	if c.Issuer != "" && c.Issuer != issuer {
		return Claims{}, errors.New("invalid issuer")
	}
	if c.Account == "" {
		return Claims{}, errors.New("missing account")
	}

	return c, nil
}
