package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/estomatologia-api/internal/application/inventory"
	"github.com/jhoicas/estomatologia-api/pkg/logger"
)

// ReportHandler descarga del reporte de envíos.
type ReportHandler struct {
	uc  *inventory.ReportUseCase
	log *logger.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *inventory.ReportUseCase, log *logger.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, log: log}
}

// Download godoc
// @Summary      Reporte de envíos
// @Description  Una fila por ítem. 204 si no hay envíos.
// @Tags         report
// @Security     Bearer
// @Produce      text/csv
// @Produce      application/json
// @Produce      application/pdf
// @Param        format  query  string  false  "csv (por defecto), json o pdf"
// @Success      200
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /report [get]
func (h *ReportHandler) Download(c *fiber.Ctx) error {
	rep, err := h.uc.Generate(c.UserContext(), c.Query("format"))
	if errors.Is(err, inventory.ErrEmptyReport) {
		return c.SendStatus(fiber.StatusNoContent)
	}
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, rep.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+rep.Filename+`"`)
	return c.Send(rep.Data)
}
