package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/application/usecase"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

// CatalogHandler catálogo global: medicamentos, servicios y paquetes.
// Escrituras solo admin (lo valida el router y el caso de uso); lecturas para todos.
type CatalogHandler struct {
	uc  *usecase.CatalogUseCase
	log *logger.Logger
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *usecase.CatalogUseCase, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{uc: uc, log: log}
}

// ── Medicamentos ──────────────────────────────────────────────────────────────

// CreateMedicine godoc
// @Summary      Crear medicamento
// @Tags         medicines
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MedicineRequest  true  "Medicamento"
// @Success      201   {object}  dto.MedicineResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/medicines [post]
func (h *CatalogHandler) CreateMedicine(c *fiber.Ctx) error {
	var in dto.MedicineRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateMedicine(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *CatalogHandler) GetMedicine(c *fiber.Ctx) error {
	out, err := h.uc.GetMedicine(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListMedicines godoc
// @Summary      Listar medicamentos
// @Tags         medicines
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Nombre o código"
// @Param        status  query  string  false  "active | inactive"
// @Router       /api/medicines [get]
func (h *CatalogHandler) ListMedicines(c *fiber.Ctx) error {
	q, err := pageQuery(c)
	if err != nil {
		return invalidParams(c, err.Error())
	}
	out, err := h.uc.ListMedicines(c.UserContext(), q, c.Query("status"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *CatalogHandler) UpdateMedicine(c *fiber.Ctx) error {
	var in dto.MedicineRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateMedicine(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *CatalogHandler) DeleteMedicine(c *fiber.Ctx) error {
	if err := h.uc.DeleteMedicine(c.UserContext(), actorFrom(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MedicineOptions GET /api/medicines/options (cacheado en Redis).
func (h *CatalogHandler) MedicineOptions(c *fiber.Ctx) error {
	out, err := h.uc.MedicineOptions(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ── Servicios ─────────────────────────────────────────────────────────────────

func (h *CatalogHandler) CreateService(c *fiber.Ctx) error {
	var in dto.ServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateService(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *CatalogHandler) GetService(c *fiber.Ctx) error {
	out, err := h.uc.GetService(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *CatalogHandler) ListServices(c *fiber.Ctx) error {
	q, err := pageQuery(c)
	if err != nil {
		return invalidParams(c, err.Error())
	}
	out, err := h.uc.ListServices(c.UserContext(), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *CatalogHandler) UpdateService(c *fiber.Ctx) error {
	var in dto.ServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateService(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *CatalogHandler) DeleteService(c *fiber.Ctx) error {
	if err := h.uc.DeleteService(c.UserContext(), actorFrom(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CatalogHandler) ServiceOptions(c *fiber.Ctx) error {
	out, err := h.uc.ServiceOptions(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ── Paquetes ──────────────────────────────────────────────────────────────────

func (h *CatalogHandler) CreatePackage(c *fiber.Ctx) error {
	var in dto.PackageRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreatePackage(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *CatalogHandler) GetPackage(c *fiber.Ctx) error {
	out, err := h.uc.GetPackage(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *CatalogHandler) ListPackages(c *fiber.Ctx) error {
	q, err := pageQuery(c)
	if err != nil {
		return invalidParams(c, err.Error())
	}
	out, err := h.uc.ListPackages(c.UserContext(), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *CatalogHandler) UpdatePackage(c *fiber.Ctx) error {
	var in dto.PackageRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdatePackage(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *CatalogHandler) DeletePackage(c *fiber.Ctx) error {
	if err := h.uc.DeletePackage(c.UserContext(), actorFrom(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CatalogHandler) PackageOptions(c *fiber.Ctx) error {
	out, err := h.uc.PackageOptions(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
