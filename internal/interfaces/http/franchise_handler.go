package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/application/usecase"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

// FranchiseHandler maneja las peticiones HTTP de franquicias (solo admin).
type FranchiseHandler struct {
	uc  *usecase.FranchiseUseCase
	log *logger.Logger
}

// NewFranchiseHandler construye el handler.
func NewFranchiseHandler(uc *usecase.FranchiseUseCase, log *logger.Logger) *FranchiseHandler {
	return &FranchiseHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear franquicia
// @Description  Opcionalmente crea el acceso (rol franchise) en la misma transacción.
// @Tags         franchises
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateFranchiseRequest  true  "Datos de la franquicia"
// @Success      201   {object}  dto.FranchiseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/franchises [post]
func (h *FranchiseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateFranchiseRequest
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
// @Summary      Obtener franquicia por ID
// @Tags         franchises
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la franquicia"
// @Success      200  {object}  dto.FranchiseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/franchises/{id} [get]
func (h *FranchiseHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar franquicias
// @Tags         franchises
// @Security     Bearer
// @Produce      json
// @Param        page     query  int     false  "Página"          default(1)
// @Param        perPage  query  int     false  "Tamaño de página" default(20)
// @Param        search   query  string  false  "Nombre, código o ciudad"
// @Param        status   query  string  false  "active | inactive"
// @Router       /api/franchises [get]
func (h *FranchiseHandler) List(c *fiber.Ctx) error {
	q, err := pageQuery(c)
	if err != nil {
		return invalidParams(c, err.Error())
	}
	out, err := h.uc.List(c.UserContext(), actorFrom(c), q, c.Query("status"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update PUT /api/franchises/:id
func (h *FranchiseHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateFranchiseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/franchises/:id. 409 si la franquicia tiene registros.
func (h *FranchiseHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), actorFrom(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
