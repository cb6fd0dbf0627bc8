package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/estomatologia-api/internal/application/dto"
	"github.com/jhoicas/estomatologia-api/internal/domain"
	"github.com/jhoicas/estomatologia-api/pkg/logger"
)

// respondError traduce los errores de dominio a estado HTTP y dto.ErrorResponse.
// Los 500 se registran con la causa; al cliente solo le llega un mensaje genérico.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autorizado"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "no encontrado"})
	}

	code, msg := "INTERNAL", "error interno"
	switch {
	case errors.Is(err, domain.ErrStorageWrite):
		code, msg = "STORAGE_WRITE", "error guardando datos"
	case errors.Is(err, domain.ErrStorageRead), errors.Is(err, domain.ErrMalformedData):
		code, msg = "STORAGE_READ", "error leyendo datos"
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg(msg)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// ErrorHandler manejador de errores de Fiber (rutas inexistentes, cuerpo demasiado grande, panics recuperados).
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: statusCode(fe.Code), Message: fe.Message})
		}
		return respondError(c, log, err)
	}
}

func statusCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	default:
		return "HTTP_ERROR"
	}
}
