package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/estomatologia-api/internal/application/dto"
	"github.com/jhoicas/estomatologia-api/internal/application/inventory"
	"github.com/jhoicas/estomatologia-api/pkg/logger"
)

// InventoryHandler maneja el snapshot vigente de inventario por hospital y categoría.
type InventoryHandler struct {
	manager *inventory.Manager
	log     *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(manager *inventory.Manager, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{manager: manager, log: log}
}

// Save godoc
// @Summary      Guardar inventario vigente
// @Description  Reemplaza el snapshot de (hospitalClave|hospitalNombre, categoria). Asigna uid a los ítems sin uid.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SaveInventoryRequest  true  "hospitalClave, hospitalNombre, categoria, items"
// @Success      200   {object}  dto.SaveInventoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /inventory [post]
func (h *InventoryHandler) Save(c *fiber.Ctx) error {
	var in dto.SaveInventoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.manager.SaveInventory(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(res)
}

// Get godoc
// @Summary      Consultar inventario vigente
// @Description  Devuelve el snapshot más reciente; {} si no hay datos o faltan parámetros.
// @Tags         inventory
// @Produce      json
// @Param        hospitalClave   query  string  false  "Clave del hospital"
// @Param        hospitalNombre  query  string  false  "Nombre del hospital (si no hay clave)"
// @Param        categoria       query  string  true   "Categoría"
// @Success      200  {object}  entity.InventorySnapshot
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /inventory [get]
func (h *InventoryHandler) Get(c *fiber.Ctx) error {
	q := dto.InventoryQuery{
		HospitalClave:  c.Query("hospitalClave"),
		HospitalNombre: c.Query("hospitalNombre"),
		Categoria:      c.Query("categoria"),
	}
	snap, err := h.manager.GetInventory(c.UserContext(), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if snap == nil {
		return c.JSON(fiber.Map{})
	}
	return c.JSON(snap)
}

// DeleteItems godoc
// @Summary      Eliminar ítems del inventario vigente
// @Description  Quita los ítems cuyos uid se indican. Corrige el snapshot en sitio, sin crear historial.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.DeleteItemsRequest  true  "hospitalClave|hospitalNombre, categoria, uids"
// @Success      200   {object}  dto.DeleteItemsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /inventory/items [delete]
func (h *InventoryHandler) DeleteItems(c *fiber.Ctx) error {
	var in dto.DeleteItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.manager.DeleteInventoryItems(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(res)
}
