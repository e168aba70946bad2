// Package auth implements the credential primitives: signed bearer tokens
// and one-way password hashing. Verification is fully stateless; the server
// keeps no per-token record.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authvault/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the identity attributes embedded in a token: the standard
// registered claims plus the account id and email.
type Claims struct {
	jwt.RegisteredClaims
	AccountID int64  `json:"uid"`
	Email     string `json:"email"`
}

// GenerateToken issues an HS256-signed token for the given account, valid for
// ttl from now.
func GenerateToken(accountID int64, email string, secretKey []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		AccountID: accountID,
		Email:     email,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry of tokenString and returns the
// embedded claims. The signature is checked before any claim is trusted.
// Expired tokens surface as common.ErrTokenExpired; every other failure as
// common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
