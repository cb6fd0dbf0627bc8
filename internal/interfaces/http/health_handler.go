package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/estomatologia-api/internal/application/dto"
	"github.com/jhoicas/estomatologia-api/internal/application/inventory"
)

// Health godoc
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /health [get]
func Health(manager *inventory.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{
			OK:      true,
			TS:      time.Now().UTC().Format(inventory.TimeLayout),
			Storage: manager.Driver(),
		})
	}
}
