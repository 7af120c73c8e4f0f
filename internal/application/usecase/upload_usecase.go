package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/application/ports"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

// sniffLen bytes leídos para detectar el tipo real del archivo.
const sniffLen = 512

var uploadExtensions = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"image/bmp":       ".bmp",
	"application/pdf": ".pdf",
}

// UploadUseCase guarda fotos de pacientes y documentos adjuntos.
type UploadUseCase struct {
	store    ports.FileStore
	maxBytes int64
	log      *logger.Logger
}

// NewUploadUseCase construye el caso de uso; maxMB es el tamaño máximo por archivo.
func NewUploadUseCase(store ports.FileStore, maxMB int, log *logger.Logger) *UploadUseCase {
	return &UploadUseCase{store: store, maxBytes: int64(maxMB) << 20, log: log.Component("uploads")}
}

// Upload valida tamaño y tipo (detectado por contenido, no por el nombre) y guarda el
// archivo con un nombre aleatorio.
func (uc *UploadUseCase) Upload(ctx context.Context, originalName string, size int64, src io.Reader) (*dto.UploadResponse, error) {
	if size > uc.maxBytes {
		return nil, uc.tooLarge()
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("upload: leer archivo: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return nil, domain.NewValidationError(map[string]string{"file": "archivo vacío"})
	}
	contentType := http.DetectContentType(head)
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	ext, ok := uploadExtensions[contentType]
	if !ok {
		return nil, domain.NewValidationError(map[string]string{"file": "tipo no permitido: " + contentType})
	}

	name := uuid.New().String() + ext
	body := io.LimitReader(io.MultiReader(bytes.NewReader(head), src), uc.maxBytes+1)
	written, err := uc.store.Save(ctx, name, body)
	if err != nil {
		return nil, fmt.Errorf("upload: guardar: %w", err)
	}
	if written > uc.maxBytes {
		if rmErr := uc.store.Remove(name); rmErr != nil {
			uc.log.Warn().Err(rmErr).Str("name", name).Msg("no se pudo borrar archivo excedido")
		}
		return nil, uc.tooLarge()
	}

	uc.log.Info().Str("name", name).Str("content_type", contentType).Int64("size", written).Msg("archivo subido")
	return &dto.UploadResponse{
		Name:         name,
		OriginalName: filepath.Base(originalName),
		ContentType:  contentType,
		Size:         written,
		URL:          "/api/uploads/" + name,
	}, nil
}

func (uc *UploadUseCase) tooLarge() error {
	return domain.NewValidationError(map[string]string{"file": fmt.Sprintf("supera el máximo de %d MB", uc.maxBytes>>20)})
}

// Path ruta del archivo guardado para servirlo.
func (uc *UploadUseCase) Path(name string) (string, error) {
	return uc.store.Path(name)
}
