package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/estomatologia-api/internal/application/usecase"
)

// HospitalHandler directorio público de hospitales.
type HospitalHandler struct {
	uc *usecase.HospitalUseCase
}

// NewHospitalHandler construye el handler.
func NewHospitalHandler(uc *usecase.HospitalUseCase) *HospitalHandler {
	return &HospitalHandler{uc: uc}
}

// List godoc
// @Summary      Buscar hospitales
// @Tags         hospitales
// @Produce      json
// @Param        q    query     string  false  "Texto en nombre o clave, sin distinguir acentos"
// @Success      200  {array}   catalogo.Hospital
// @Router       /hospitales [get]
func (h *HospitalHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.uc.Search(c.Query("q")))
}
