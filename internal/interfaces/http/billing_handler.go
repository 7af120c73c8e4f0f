package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clinic-franchise-api/internal/application/billing"
	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

// BillHandler maneja las peticiones HTTP de facturas de medicamentos.
type BillHandler struct {
	uc  *billing.MedicineBillUseCase
	pdf *billing.PDFUseCase
	log *logger.Logger
}

// NewBillHandler construye el handler.
func NewBillHandler(uc *billing.MedicineBillUseCase, pdf *billing.PDFUseCase, log *logger.Logger) *BillHandler {
	return &BillHandler{uc: uc, pdf: pdf, log: log}
}

// Create godoc
// @Summary      Facturar medicamentos a un paciente
// @Description  Asigna lotes FEFO (vencimiento más próximo primero) salvo que se indique el lote,
//
//	descuenta el stock de la franquicia y emite el recibo en la misma transacción.
//
// @Tags         medicine-bills
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMedicineBillRequest  true  "Factura"
// @Success      201   {object}  dto.MedicineBillResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/medicine-bills [post]
func (h *BillHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMedicineBillRequest
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
// @Summary      Obtener factura
// @Tags         medicine-bills
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.MedicineBillResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/medicine-bills/{id} [get]
func (h *BillHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *BillHandler) List(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return invalidParams(c, err.Error())
	}
	from, to, err := dateRangeQuery(c)
	if err != nil {
		return invalidParams(c, err.Error())
	}
	out, err := h.uc.List(c.UserContext(), actorFrom(c), billing.BillQuery{
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

// Cancel POST /api/medicine-bills/:id/cancel. Devuelve el stock a los lotes originales.
func (h *BillHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// DownloadPDF godoc
// @Summary      Descargar PDF de la factura
// @Tags         medicine-bills
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/medicine-bills/{id}/pdf [get]
func (h *BillHandler) DownloadPDF(c *fiber.Ctx) error {
	data, filename, err := h.pdf.DownloadBillPDF(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return sendFile(c, mimePDF, filename, data)
}

// ReceiptHandler recibos de caja.
type ReceiptHandler struct {
	uc  *billing.ReceiptUseCase
	log *logger.Logger
}

func NewReceiptHandler(uc *billing.ReceiptUseCase, log *logger.Logger) *ReceiptHandler {
	return &ReceiptHandler{uc: uc, log: log}
}

// Create recibo manual (kind package u other).
func (h *ReceiptHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *ReceiptHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *ReceiptHandler) List(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return invalidParams(c, err.Error())
	}
	from, to, err := dateRangeQuery(c)
	if err != nil {
		return invalidParams(c, err.Error())
	}
	out, err := h.uc.List(c.UserContext(), actorFrom(c), billing.ReceiptQuery{
		FranchiseID: c.Query("franchise_id"),
		PatientID:   c.Query("patient_id"),
		Kind:        c.Query("kind"),
		From:        from,
		To:          to,
		Page:        page,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
