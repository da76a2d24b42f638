package auth

import (
	"crypto/ecdsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ISSUER  = "github.com/avinassh/rtiman"
	SUBJECT = "SESSION"

	// TokenLifetime bounds how long a session cookie stays valid.
	TokenLifetime = 30 * time.Minute
)

// SessionClaims identify the logged-in user. Credits is a cached copy of the
// balance at issue time, kept only so pages can display it without a store
// read; the funding service never trusts it.
type SessionClaims struct {
	Username string `json:"username"`
	Credits  int64  `json:"credits"`
	jwt.RegisteredClaims
}

// CreateToken signs a session token for the given user carrying their
// last-known credit balance.
func CreateToken(username string, credits int64, privateKey *ecdsa.PrivateKey) (string, error) {
	claims := SessionClaims{
		Username: username,
		Credits:  credits,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    ISSUER,
			Subject:   SUBJECT,
			Audience:  []string{"api" + ISSUER},
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)

	signToken, err := token.SignedString(privateKey)
	if err != nil {
		return "", err
	}

	return signToken, nil
}

// VerifyToken parses and validates a session token. A forged, expired or
// malformed token returns an error, which callers treat as "no actor".
func VerifyToken(tokenString string, publicKey *ecdsa.PublicKey) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token parsing error: %v", err)
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token or claims")
}
