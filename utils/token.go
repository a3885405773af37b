package utils

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	models "github.com/pmsss/scholarship-portal-go/models"
)

var (
	ErrSigningKeyMissing = errors.New("JWT_SECRET is not configured")
	ErrInvalidToken      = errors.New("invalid token")
)

// Claims carried in access tokens: subject account id plus the externally
// visible role name.
type Claims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func jwtSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrSigningKeyMissing
	}
	return []byte(secret), nil
}

// TokenExpiry reads JWT_EXPIRE (days) from the environment, defaulting to 30.
func TokenExpiry() time.Duration {
	days := 30
	if v := os.Getenv("JWT_EXPIRE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}
	return time.Duration(days) * 24 * time.Hour
}

// SignToken issues a signed token for an account. The stored role is mapped
// to its external name through the shared role table.
func SignToken(account *models.Account) (string, error) {
	secret, err := jwtSecret()
	if err != nil {
		return "", err
	}

	external := models.ExternalRole(account.Role)
	if external == "" {
		return "", errors.New("unknown account role: " + account.Role)
	}

	now := time.Now()
	claims := Claims{
		ID:   account.ID.Hex(),
		Role: external,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry())),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyToken checks signature and expiry and returns the claims. Any
// mismatch (including a bad signing method) yields ErrInvalidToken.
func VerifyToken(tokenString string) (*Claims, error) {
	secret, err := jwtSecret()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		},
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if models.InternalRole(claims.Role) == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
