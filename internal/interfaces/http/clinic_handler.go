package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clinic-franchise-api/internal/application/clinic"
	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

// ── Citas ─────────────────────────────────────────────────────────────────────

// AppointmentHandler agenda de citas por franquicia.
type AppointmentHandler struct {
	uc  *clinic.AppointmentUseCase
	log *logger.Logger
}

func NewAppointmentHandler(uc *clinic.AppointmentUseCase, log *logger.Logger) *AppointmentHandler {
	return &AppointmentHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Agendar cita
// @Description  Rechaza solapamientos con otra cita vigente del mismo profesional (409).
// @Tags         appointments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAppointmentRequest  true  "Cita"
// @Success      201   {object}  dto.AppointmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/appointments [post]
func (h *AppointmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAppointmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *AppointmentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// List GET /api/appointments?from=&to=&team_id=&patient_id=&status=
func (h *AppointmentHandler) List(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return invalidParams(c, err.Error())
	}
	from, to, err := dateRangeQuery(c)
	if err != nil {
		return invalidParams(c, err.Error())
	}
	out, err := h.uc.List(c.UserContext(), actorFrom(c), clinic.AppointmentQuery{
		FranchiseID: c.Query("franchise_id"),
		TeamID:      c.Query("team_id"),
		PatientID:   c.Query("patient_id"),
		Status:      c.Query("status"),
		From:        from,
		To:          to,
		Page:        page,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *AppointmentHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateAppointmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateStatus PATCH /api/appointments/:id/status
func (h *AppointmentHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateAppointmentStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *AppointmentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), actorFrom(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Consultas ─────────────────────────────────────────────────────────────────

// ConsultationHandler consultas médicas.
type ConsultationHandler struct {
	uc  *clinic.ConsultationUseCase
	log *logger.Logger
}

func NewConsultationHandler(uc *clinic.ConsultationUseCase, log *logger.Logger) *ConsultationHandler {
	return &ConsultationHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Registrar consulta
// @Description  Completa la cita vinculada, emite el recibo y agenda el control si hay next_follow_up.
// @Tags         consultations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateConsultationRequest  true  "Consulta"
// @Success      201   {object}  dto.ConsultationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/consultations [post]
func (h *ConsultationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateConsultationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *ConsultationHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *ConsultationHandler) List(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return invalidParams(c, err.Error())
	}
	from, to, err := dateRangeQuery(c)
	if err != nil {
		return invalidParams(c, err.Error())
	}
	out, err := h.uc.List(c.UserContext(), actorFrom(c), clinic.ConsultationQuery{
		FranchiseID: c.Query("franchise_id"),
		PatientID:   c.Query("patient_id"),
		TeamID:      c.Query("team_id"),
		From:        from,
		To:          to,
		Page:        page,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *ConsultationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateConsultationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *ConsultationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), actorFrom(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Recordatorios ─────────────────────────────────────────────────────────────

// RecallHandler controles programados y su aviso por correo.
type RecallHandler struct {
	uc  *clinic.RecallUseCase
	log *logger.Logger
}

func NewRecallHandler(uc *clinic.RecallUseCase, log *logger.Logger) *RecallHandler {
	return &RecallHandler{uc: uc, log: log}
}

func (h *RecallHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRecallRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *RecallHandler) List(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return invalidParams(c, err.Error())
	}
	from, to, err := dateRangeQuery(c)
	if err != nil {
		return invalidParams(c, err.Error())
	}
	out, err := h.uc.List(c.UserContext(), actorFrom(c), clinic.RecallQuery{
		FranchiseID: c.Query("franchise_id"),
		PatientID:   c.Query("patient_id"),
		Status:      c.Query("status"),
		From:        from,
		To:          to,
		Page:        page,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateStatus PATCH /api/recalls/:id/status
func (h *RecallHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateRecallStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Notify godoc
// @Summary      Enviar recordatorio por correo
// @Description  Solo controles pendientes de pacientes con email; marca notified_at.
// @Tags         recalls
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del recordatorio"
// @Success      200  {object}  dto.RecallResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/recalls/{id}/notify [post]
func (h *RecallHandler) Notify(c *fiber.Ctx) error {
	out, err := h.uc.Notify(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
