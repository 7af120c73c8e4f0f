package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/application/inventory"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

// StockHandler maneja las peticiones HTTP de existencias, kardex y reposición.
type StockHandler struct {
	uc            *inventory.StockUseCase
	replenishment *inventory.ReplenishmentUseCase
	log           *logger.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockUseCase, replenishment *inventory.ReplenishmentUseCase, log *logger.Logger) *StockHandler {
	return &StockHandler{uc: uc, replenishment: replenishment, log: log}
}

// owner ?owner= (o ?franchise_id=). Vacío = central para el admin, la propia para el resto.
func owner(c *fiber.Ctx) string {
	if o := c.Query("owner"); o != "" {
		return o
	}
	return c.Query("franchise_id")
}

// Purchase godoc
// @Summary      Registrar compra al almacén central
// @Description  Ingresa un lote a la central y recalcula el costo promedio ponderado.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PurchaseRequest  true  "medicine_id, batch_no, expiry_date, quantity, unit_cost"
// @Success      201   {object}  dto.StockBatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/purchases [post]
func (h *StockHandler) Purchase(c *fiber.Ctx) error {
	var in dto.PurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Purchase(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Adjust godoc
// @Summary      Ajuste de inventario
// @Description  Cantidad con signo sobre un dueño y lote. Nunca deja el lote en negativo (409).
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "owner, medicine_id, batch_no, quantity, reason"
// @Success      201   {object}  dto.StockBatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjustments [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Adjust(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Balances GET /api/stock/balances?owner=&low_stock=true&search=
func (h *StockHandler) Balances(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return invalidParams(c, err.Error())
	}
	out, err := h.uc.ListBalances(c.UserContext(), actorFrom(c), inventory.BalanceQuery{
		Owner:        owner(c),
		LowStockOnly: c.QueryBool("low_stock"),
		Page:         page,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Batches GET /api/stock/batches?owner=&medicine_id=
func (h *StockHandler) Batches(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return invalidParams(c, err.Error())
	}
	out, err := h.uc.ListBatches(c.UserContext(), actorFrom(c), inventory.BatchQuery{
		Owner:      owner(c),
		MedicineID: c.Query("medicine_id"),
		Page:       page,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Ledger GET /api/stock/ledger?owner=&medicine_id=&type=&from=&to=
func (h *StockHandler) Ledger(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return invalidParams(c, err.Error())
	}
	from, to, err := dateRangeQuery(c)
	if err != nil {
		return invalidParams(c, err.Error())
	}
	out, err := h.uc.ListLedger(c.UserContext(), actorFrom(c), inventory.LedgerQuery{
		Owner:      owner(c),
		MedicineID: c.Query("medicine_id"),
		Type:       c.Query("type"),
		From:       from,
		To:         to,
		Page:       page,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Lista de reposición del almacén central
// @Description  Medicamentos en o bajo su nivel de reorden con la cantidad sugerida de compra,
//
//	priorizados por consumo de pacientes de los últimos 90 días.
//
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/stock/replenishment [get]
func (h *StockHandler) Replenishment(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateList(c.UserContext(), actorFrom(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}
