package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/application/usecase"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

// UploadHandler subida y descarga de archivos (fotos de pacientes, adjuntos).
type UploadHandler struct {
	uc  *usecase.UploadUseCase
	log *logger.Logger
}

func NewUploadHandler(uc *usecase.UploadUseCase, log *logger.Logger) *UploadHandler {
	return &UploadHandler{uc: uc, log: log}
}

// Upload godoc
// @Summary      Subir archivo
// @Description  multipart/form-data con el campo "file". Imágenes o PDF; el tipo se detecta por contenido.
// @Tags         uploads
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Archivo"
// @Success      201   {object}  dto.UploadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/uploads [post]
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "campo file requerido"})
	}
	src, err := fh.Open()
	if err != nil {
		return writeError(c, h.log, err)
	}
	defer src.Close()

	out, err := h.uc.Upload(c.UserContext(), fh.Filename, fh.Size, src)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Download GET /api/uploads/:name
func (h *UploadHandler) Download(c *fiber.Ctx) error {
	path, err := h.uc.Path(c.Params("name"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendFile(path)
}
