package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/estomatologia-api/internal/application/auth"
	"github.com/jhoicas/estomatologia-api/internal/domain"
	pkgjwt "github.com/jhoicas/estomatologia-api/pkg/jwt"
)

func TestGate_SinCredencialesTodoPasa(t *testing.T) {
	g := auth.NewGate(auth.Config{})
	assert.False(t, g.Enabled())
	p, err := g.Authorize("")
	require.NoError(t, err)
	assert.Equal(t, auth.Anonymous, p)
}

func TestGate_TokenEstatico(t *testing.T) {
	g := auth.NewGate(auth.Config{APIToken: "s3creto"})

	p, err := g.Authorize(" s3creto ")
	require.NoError(t, err)
	assert.True(t, p.Static)
	assert.Equal(t, pkgjwt.RoleAdmin, p.Role)

	_, err = g.Authorize("otro")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = g.Authorize("")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestGate_TokenHasheado(t *testing.T) {
	hash, err := auth.HashToken("s3creto", bcrypt.MinCost)
	require.NoError(t, err)
	g := auth.NewGate(auth.Config{APITokenHash: hash})

	_, err = g.Authorize("s3creto")
	assert.NoError(t, err)
	_, err = g.Authorize("s3cret")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = auth.HashToken(" ", bcrypt.MinCost)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGate_JWT(t *testing.T) {
	g := auth.NewGate(auth.Config{JWTSecret: "jwt-secret", Issuer: "estomatologia-api", ExpMinutes: 10})

	tok, err := g.IssueToken("formulario", "VZIM002330", pkgjwt.RoleHospital)
	require.NoError(t, err)

	p, err := g.Authorize(tok)
	require.NoError(t, err)
	assert.Equal(t, "formulario", p.Subject)
	assert.Equal(t, "VZIM002330", p.HospitalClave)
	assert.Equal(t, pkgjwt.RoleHospital, p.Role)
	assert.False(t, p.Static)

	other := auth.NewGate(auth.Config{JWTSecret: "otro", Issuer: "estomatologia-api"})
	_, err = other.Authorize(tok)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestGate_IssueTokenValidacion(t *testing.T) {
	_, err := auth.NewGate(auth.Config{}).IssueToken("s", "", pkgjwt.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	g := auth.NewGate(auth.Config{JWTSecret: "x"})
	_, err = g.IssueToken(" ", "", pkgjwt.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = g.IssueToken("s", "", "root")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
