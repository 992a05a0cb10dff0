// Package jwt emite y valida los tokens de sesión del CRM (HS256).
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingSecret se devuelve si el servidor arrancó sin JWT_SECRET.
	ErrMissingSecret = errors.New("jwt: secret vacío")
	// ErrInvalidToken agrupa firma incorrecta, expiración y claims incompletos.
	ErrInvalidToken = errors.New("jwt: token inválido")
)

// Identity es quién hace la petición: usuario, empresa (tenant) y rol CRM.
type Identity struct {
	UserID    string
	CompanyID string
	Role      string // admin | comercial | contador
}

// claims viaja firmado dentro del token; el usuario va en "sub".
type claims struct {
	jwt.RegisteredClaims
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
}

// Generate firma un token para id que vence en ttl.
func Generate(secret string, id Identity, issuer string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrMissingSecret
	}
	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		CompanyID: id.CompanyID,
		Role:      id.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

// Parse valida firma y expiración y devuelve la identidad. Un token sin usuario o sin
// empresa no sirve para un CRM multiempresa y se rechaza. El rol puede venir vacío:
// eso lo resuelve RequireRole.
func Parse(secret, token string) (Identity, error) {
	if secret == "" {
		return Identity{}, ErrMissingSecret
	}
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if c.Subject == "" || c.CompanyID == "" {
		return Identity{}, fmt.Errorf("%w: faltan sub o company_id", ErrInvalidToken)
	}
	return Identity{UserID: c.Subject, CompanyID: c.CompanyID, Role: c.Role}, nil
}
