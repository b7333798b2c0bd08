package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName nombre de la cookie HTTP-only que transporta el token de sesión.
const CookieName = "jwt_token"

// Claims incluye los claims estándar JWT más el rol de la aplicación.
// El Subject es el username del cliente; Role viaja en el token para que el
// middleware no tenga que consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"` // "Customer"
}

// Generate genera un token JWT HS256 con username como subject y el rol como claim.
func Generate(secret, username, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		Role: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma y expiración y devuelve username y rol.
// IsExpired(err) permite distinguir un token vencido de uno malformado o con
// firma incorrecta.
func Parse(secret, tokenString string) (username, role string, err error) {
	if secret == "" {
		return "", "", fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("claims inválidos")
	}
	return claims.Subject, claims.Role, nil
}

// IsExpired reporta si el error de Parse corresponde a un token vencido.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
