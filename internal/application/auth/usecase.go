package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/jhoicas/estomatologia-api/internal/domain"
	"github.com/jhoicas/estomatologia-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// Config credenciales aceptadas por el gate.
type Config struct {
	APIToken     string
	APITokenHash string // bcrypt
	JWTSecret    string
	Issuer       string
	ExpMinutes   int
}

// Principal quién hizo la petición.
type Principal struct {
	Subject       string
	HospitalClave string
	Role          string
	Static        bool // token estático API_TOKEN
}

// Anonymous principal cuando el gate no tiene credenciales configuradas.
var Anonymous = &Principal{Subject: "anonymous", Role: jwt.RoleAdmin}

// Gate decide si una credencial autoriza la petición: token estático (en claro o bcrypt)
// o JWT HS256 firmado con JWTSecret.
type Gate struct {
	cfg Config
}

// NewGate construye el gate.
func NewGate(cfg Config) *Gate {
	return &Gate{cfg: cfg}
}

// Enabled indica si hay alguna credencial configurada; si no, todo pasa.
func (g *Gate) Enabled() bool {
	return g.cfg.APIToken != "" || g.cfg.APITokenHash != "" || g.cfg.JWTSecret != ""
}

// Authorize valida la credencial. Devuelve domain.ErrUnauthorized si no es válida.
func (g *Gate) Authorize(credential string) (*Principal, error) {
	if !g.Enabled() {
		return Anonymous, nil
	}
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, fmt.Errorf("%w: token requerido", domain.ErrUnauthorized)
	}
	if g.cfg.APIToken != "" && subtle.ConstantTimeCompare([]byte(credential), []byte(g.cfg.APIToken)) == 1 {
		return &Principal{Subject: "api-token", Role: jwt.RoleAdmin, Static: true}, nil
	}
	if g.cfg.APITokenHash != "" && bcrypt.CompareHashAndPassword([]byte(g.cfg.APITokenHash), []byte(credential)) == nil {
		return &Principal{Subject: "api-token", Role: jwt.RoleAdmin, Static: true}, nil
	}
	if g.cfg.JWTSecret != "" {
		claims, err := jwt.Parse(g.cfg.JWTSecret, g.cfg.Issuer, credential)
		if err == nil {
			return &Principal{Subject: claims.Subject, HospitalClave: claims.HospitalClave, Role: claims.Role}, nil
		}
	}
	return nil, fmt.Errorf("%w: token inválido", domain.ErrUnauthorized)
}

// IssueToken emite un JWT para un cliente (formulario de hospital o administrador).
func (g *Gate) IssueToken(subject, hospitalClave, role string) (string, error) {
	if g.cfg.JWTSecret == "" {
		return "", fmt.Errorf("%w: JWT_SECRET no configurado", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(subject) == "" {
		return "", fmt.Errorf("%w: subject requerido", domain.ErrInvalidInput)
	}
	switch role {
	case jwt.RoleHospital, jwt.RoleAdmin:
	default:
		return "", fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, role)
	}
	return jwt.Generate(g.cfg.JWTSecret, subject, hospitalClave, role, g.cfg.Issuer, g.cfg.ExpMinutes)
}

// HashToken devuelve el hash bcrypt de un token estático para API_TOKEN_HASH.
func HashToken(token string, cost int) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("%w: token vacío", domain.ErrInvalidInput)
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
