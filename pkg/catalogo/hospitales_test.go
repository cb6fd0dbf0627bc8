package catalogo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estomatologia-api/pkg/catalogo"
)

func TestHospitales_DirectorioCompleto(t *testing.T) {
	list := catalogo.Hospitales()
	require.Len(t, list, 59)
	assert.Equal(t, "VZIM002330", list[0].Clave)

	seen := map[string]bool{}
	for _, h := range list {
		assert.False(t, seen[h.Clave], "clave repetida %s", h.Clave)
		seen[h.Clave] = true
	}
}

func TestBuscar_VacioDevuelveTodo(t *testing.T) {
	assert.Len(t, catalogo.Buscar("   "), len(catalogo.Hospitales()))
}

func TestBuscar_SinAcentosNiMayusculas(t *testing.T) {
	got := catalogo.Buscar("PENA")
	require.Len(t, got, 1)
	assert.Equal(t, "VZIM004913", got[0].Clave)

	got = catalogo.Buscar("mascareñas")
	require.Len(t, got, 1)
	assert.Equal(t, "VZIM004085", got[0].Clave)
}

func TestBuscar_PorClave(t *testing.T) {
	got := catalogo.Buscar("vzim000230")
	require.Len(t, got, 1)
	assert.Equal(t, "Hospital General Altotonga Eufrosina Camacho", got[0].Nombre)

	assert.Empty(t, catalogo.Buscar("no existe"))
}

func TestBuscarPorClave(t *testing.T) {
	h, ok := catalogo.BuscarPorClave(" vzim000254 ")
	require.True(t, ok)
	assert.Equal(t, "Hospital de la Comunidad de Alvarado", h.Nombre)

	_, ok = catalogo.BuscarPorClave("X")
	assert.False(t, ok)
}

func TestHospitales_CopiaIndependiente(t *testing.T) {
	list := catalogo.Hospitales()
	list[0].Nombre = "modificado"
	assert.NotEqual(t, "modificado", catalogo.Hospitales()[0].Nombre)
}
