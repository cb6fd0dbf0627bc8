package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles de cliente.
const (
	RoleHospital = "hospital" // formularios de captura: envíos e inventario
	RoleAdmin    = "admin"    // consulta de envíos y reportes
)

// Claims incluye los claims estándar JWT más el hospital que emite los envíos.
type Claims struct {
	jwt.RegisteredClaims
	HospitalClave string `json:"hospital_clave,omitempty"`
	Role          string `json:"role"`
}

// Generate genera un token HS256 para subject. expMinutes <= 0 emite un token sin expiración.
func Generate(secret, subject, hospitalClave, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			Subject:  subject,
			IssuedAt: jwt.NewNumericDate(now),
		},
		HospitalClave: hospitalClave,
		Role:          role,
	}
	if expMinutes > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma, expiración y, si issuer no es vacío, el emisor.
func Parse(secret, issuer, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}
