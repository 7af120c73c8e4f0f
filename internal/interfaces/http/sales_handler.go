package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/application/sales"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

// SaleHandler ventas de la central a franquicias (solo admin).
type SaleHandler struct {
	uc  *sales.SaleUseCase
	log *logger.Logger
}

func NewSaleHandler(uc *sales.SaleUseCase, log *logger.Logger) *SaleHandler {
	return &SaleHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear venta a franquicia
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Venta con ítems"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID incluye despachado y pendiente por línea.
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *SaleHandler) List(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return invalidParams(c, err.Error())
	}
	from, to, err := dateRangeQuery(c)
	if err != nil {
		return invalidParams(c, err.Error())
	}
	out, err := h.uc.List(c.UserContext(), actorFrom(c), sales.SaleQuery{
		FranchiseID:    c.Query("franchise_id"),
		DispatchStatus: c.Query("dispatch_status"),
		From:           from,
		To:             to,
		Page:           page,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Modificar venta
// @Description  Ninguna línea puede quedar por debajo de lo ya despachado (409).
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la venta"
// @Param        body  body  dto.UpdateSaleRequest  true  "Ítems"
// @Success      200   {object}  dto.SaleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [patch]
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete 409 si la venta tiene algún despacho.
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), actorFrom(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// TransportHandler despachos contra una venta.
type TransportHandler struct {
	uc  *sales.TransportUseCase
	log *logger.Logger
}

func NewTransportHandler(uc *sales.TransportUseCase, log *logger.Logger) *TransportHandler {
	return &TransportHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Despachar stock a la franquicia
// @Description  La suma pedida por medicamento debe ser > 0 y no superar lo pendiente de la venta.
// @Tags         transports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransportRequest  true  "sale_id, líneas con lote"
// @Success      201   {object}  dto.TransportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transports [post]
func (h *TransportHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransportRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Receive POST /api/transports/:id/receive (franquicia destino o admin).
func (h *TransportHandler) Receive(c *fiber.Ctx) error {
	out, err := h.uc.Receive(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Cancel POST /api/transports/:id/cancel (admin, solo despachos no recibidos).
func (h *TransportHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *TransportHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *TransportHandler) List(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return invalidParams(c, err.Error())
	}
	from, to, err := dateRangeQuery(c)
	if err != nil {
		return invalidParams(c, err.Error())
	}
	out, err := h.uc.List(c.UserContext(), actorFrom(c), sales.TransportQuery{
		FranchiseID: c.Query("franchise_id"),
		SaleID:      c.Query("sale_id"),
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

// ChallanPDF GET /api/transports/:id/challan.pdf
func (h *TransportHandler) ChallanPDF(c *fiber.Ctx) error {
	data, filename, err := h.uc.ChallanPDF(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return sendFile(c, mimePDF, filename, data)
}
