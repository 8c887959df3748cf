// Package service contains the business logic for the auction service.
package service

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// minSecretLength is the minimum number of bytes required for the HS256
// signing secret.
const minSecretLength = 32

var (
	ErrSecretTooShort = errors.New("jwt secret must be at least 32 bytes")
	ErrInvalidToken   = errors.New("invalid token")
)

// Claims represents the JWT claims carried by issued tokens. The account id
// doubles as the registered subject claim.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTService defines token signing and verification operations.
type JWTService interface {
	GenerateToken(userID int64) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
	Expiry() time.Duration
}

type jwtService struct {
	secret []byte
	expiry time.Duration
}

// NewJWTService creates a new JWTService instance. The secret is required;
// there is no built-in fallback.
func NewJWTService(secret string, expiry time.Duration) (JWTService, error) {
	if len(secret) < minSecretLength {
		return nil, ErrSecretTooShort
	}
	return &jwtService{secret: []byte(secret), expiry: expiry}, nil
}

func (s *jwtService) GenerateToken(userID int64) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *jwtService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

func (s *jwtService) Expiry() time.Duration {
	return s.expiry
}
