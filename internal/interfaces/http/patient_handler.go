package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/application/usecase"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

// PatientHandler maneja las peticiones HTTP de pacientes (por franquicia).
type PatientHandler struct {
	uc  *usecase.PatientUseCase
	log *logger.Logger
}

// NewPatientHandler construye el handler.
func NewPatientHandler(uc *usecase.PatientUseCase, log *logger.Logger) *PatientHandler {
	return &PatientHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Registrar paciente
// @Description  El código <FRANQUICIA>-000001 se genera en el servidor.
// @Tags         patients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePatientRequest  true  "Datos del paciente"
// @Success      201   {object}  dto.PatientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/patients [post]
func (h *PatientHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePatientRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener paciente
// @Tags         patients
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del paciente"
// @Success      200  {object}  dto.PatientResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/patients/{id} [get]
func (h *PatientHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historia del paciente
// @Description  Citas, consultas y facturas del paciente.
// @Tags         patients
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del paciente"
// @Success      200  {object}  dto.PatientHistoryResponse
// @Router       /api/patients/{id}/history [get]
func (h *PatientHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar pacientes
// @Tags         patients
// @Security     Bearer
// @Produce      json
// @Param        search        query  string  false  "Nombre, teléfono o código"
// @Param        franchise_id  query  string  false  "Solo admin"
// @Success      200  {object}  dto.ListResponse[dto.PatientResponse]
// @Router       /api/patients [get]
func (h *PatientHandler) List(c *fiber.Ctx) error {
	q, err := pageQuery(c)
	if err != nil {
		return invalidParams(c, err.Error())
	}
	out, err := h.uc.List(c.UserContext(), actorFrom(c), q, c.Query("franchise_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *PatientHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePatientRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *PatientHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), actorFrom(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
