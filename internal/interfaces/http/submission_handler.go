package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/estomatologia-api/internal/application/dto"
	"github.com/jhoicas/estomatologia-api/internal/application/inventory"
	"github.com/jhoicas/estomatologia-api/internal/application/usecase"
	"github.com/jhoicas/estomatologia-api/pkg/logger"
)

// SubmissionHandler envíos históricos de inventario.
type SubmissionHandler struct {
	manager   *inventory.Manager
	hospitals *usecase.HospitalUseCase
	log       *logger.Logger
}

// NewSubmissionHandler construye el handler.
func NewSubmissionHandler(manager *inventory.Manager, hospitals *usecase.HospitalUseCase, log *logger.Logger) *SubmissionHandler {
	return &SubmissionHandler{manager: manager, hospitals: hospitals, log: log}
}

// Submit godoc
// @Summary      Registrar envío de inventario
// @Tags         submissions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SubmitRequest  true  "hospitalClave, hospitalNombre, categoria, fechaEnvio, items"
// @Success      200   {object}  dto.SubmitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /submit [post]
func (h *SubmissionHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "payload inválido"})
	}
	res, err := h.manager.Submit(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if in.HospitalClave != "" && !h.hospitals.Known(in.HospitalClave) {
		h.log.Warn().Str("submission_id", res.ID).Str("hospital_clave", in.HospitalClave).
			Msg("clave de hospital fuera del directorio")
	}
	return c.JSON(res)
}

// List godoc
// @Summary      Listar envíos
// @Description  Del más reciente al más antiguo.
// @Tags         submissions
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   entity.Submission
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /submissions [get]
func (h *SubmissionHandler) List(c *fiber.Ctx) error {
	list, err := h.manager.ListSubmissions(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener envío por id
// @Tags         submissions
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del envío"
// @Success      200  {object}  entity.Submission
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /submissions/{id} [get]
func (h *SubmissionHandler) GetByID(c *fiber.Ctx) error {
	sub, err := h.manager.GetSubmission(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(sub)
}
