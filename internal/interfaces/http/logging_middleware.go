package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/estomatologia-api/pkg/logger"
)

// RequestLogger una línea estructurada por petición. Los errores de la cadena se resuelven
// aquí con el ErrorHandler de la app para registrar el estado real.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Msg("request")
		return nil
	}
}
