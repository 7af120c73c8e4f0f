package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
)

const dateLayout = "2006-01-02"

// pageQuery lee ?page=&perPage=&search=&sort=&order=. La normalización la hace el caso de uso.
func pageQuery(c *fiber.Ctx) (dto.PageQuery, error) {
	var q dto.PageQuery
	if err := c.QueryParser(&q); err != nil {
		return q, fmt.Errorf("parámetros de paginación inválidos")
	}
	return q, nil
}

// dateQuery fecha opcional YYYY-MM-DD; nil si no viene.
func dateQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%s debe tener formato YYYY-MM-DD", key)
	}
	return &t, nil
}

// dateRangeQuery ?from=&to=
func dateRangeQuery(c *fiber.Ctx) (from, to *time.Time, err error) {
	if from, err = dateQuery(c, "from"); err != nil {
		return nil, nil, err
	}
	if to, err = dateQuery(c, "to"); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// sendFile responde un adjunto binario (PDF, XLSX).
func sendFile(c *fiber.Ctx, contentType, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}

const (
	mimePDF  = "application/pdf"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)
