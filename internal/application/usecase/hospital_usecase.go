package usecase

import (
	"github.com/jhoicas/estomatologia-api/pkg/catalogo"
)

// HospitalUseCase consulta el directorio fijo de hospitales.
type HospitalUseCase struct {
	search func(q string) []catalogo.Hospital
}

// NewHospitalUseCase construye el caso de uso sobre el catálogo embebido.
func NewHospitalUseCase() *HospitalUseCase {
	return &HospitalUseCase{search: catalogo.Buscar}
}

// Search devuelve los hospitales cuyo nombre o clave contiene q; q vacío devuelve todos.
func (uc *HospitalUseCase) Search(q string) []catalogo.Hospital {
	return uc.search(q)
}

// Known indica si la clave pertenece al directorio. Los envíos no se validan contra él;
// solo se usa para advertir en el log.
func (uc *HospitalUseCase) Known(clave string) bool {
	_, ok := catalogo.BuscarPorClave(clave)
	return ok
}
