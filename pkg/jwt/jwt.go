// Package jwt emite y verifica los tokens de sesión de la API (HS256).
//
// El token solo identifica al usuario y su empresa. El rol viaja como dato informativo para el
// cliente; los permisos vigentes se leen de la base en cada petición.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmptySecret  = errors.New("jwt: secret vacío")
	ErrTokenExpired = errors.New("jwt: token expirado")
	ErrInvalidToken = errors.New("jwt: token inválido")
)

// Identity lo que la API necesita saber del portador del token.
type Identity struct {
	UserID    string
	CompanyID string
	Role      string
}

// Claims registrados más empresa y rol. El usuario va en sub.
type Claims struct {
	jwt.RegisteredClaims
	CompanyID string `json:"empresa_id"`
	Role      string `json:"rol,omitempty"`
}

// Issue firma un token para id con vigencia ttl.
func Issue(secret, issuer string, id Identity, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	if id.UserID == "" || id.CompanyID == "" {
		return "", fmt.Errorf("%w: usuario y empresa son obligatorios", ErrInvalidToken)
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		CompanyID: id.CompanyID,
		Role:      id.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Verify valida firma, algoritmo y vencimiento. Devuelve ErrTokenExpired o ErrInvalidToken envolviendo la causa.
func Verify(secret, token string) (Identity, error) {
	if secret == "" {
		return Identity{}, ErrEmptySecret
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Identity{}, fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case err != nil:
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.CompanyID == "" {
		return Identity{}, fmt.Errorf("%w: faltan sub o empresa_id", ErrInvalidToken)
	}
	return Identity{UserID: claims.Subject, CompanyID: claims.CompanyID, Role: claims.Role}, nil
}
