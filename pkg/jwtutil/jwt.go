package jwtutil

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaims is the token payload issued by the auth service. The core only
// reads identity and role; it never issues credentials outside of tooling.
type UserClaims struct {
	UserID  string  `json:"user_id"`
	Role    string  `json:"role"`
	StoreID *string `json:"store_id,omitempty"`
	jwt.RegisteredClaims
}

func ValidateToken(tokenString, secret string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}

// GenerateToken signs a token for the given identity. Used by tests and
// local tooling; production tokens come from the auth service.
func GenerateToken(userID, role string, storeID *string, secret string, ttl time.Duration) (string, error) {
	claims := &UserClaims{
		UserID:  userID,
		Role:    role,
		StoreID: storeID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
