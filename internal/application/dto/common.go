package dto

import "strings"

// Límites de paginación.
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// PageQuery parámetros de listado (?page=&perPage=&search=&sort=&order=).
type PageQuery struct {
	Page    int    `query:"page"`
	PerPage int    `query:"perPage"`
	Search  string `query:"search"`
	Sort    string `query:"sort"`
	Order   string `query:"order"`
}

// Normalize aplica valores por defecto y límites.
func (p *PageQuery) Normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	p.Search = strings.TrimSpace(p.Search)
	p.Order = strings.ToLower(strings.TrimSpace(p.Order))
	if p.Order != "asc" {
		p.Order = "desc"
	}
}

// Offset desplazamiento para SQL.
func (p PageQuery) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPageResponse calcula el total de páginas.
func NewPageResponse(q PageQuery, total int) PageResponse {
	pages := 0
	if q.PerPage > 0 {
		pages = (total + q.PerPage - 1) / q.PerPage
	}
	return PageResponse{Page: q.Page, PerPage: q.PerPage, Total: total, TotalPages: pages}
}

// ListResponse lista paginada genérica.
type ListResponse[T any] struct {
	Items []T          `json:"items"`
	Page  PageResponse `json:"page"`
}

// NewListResponse arma la respuesta garantizando items != nil (JSON [] en vez de null).
func NewListResponse[T any](items []T, q PageQuery, total int) *ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return &ListResponse[T]{Items: items, Page: NewPageResponse(q, total)}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// MessageResponse respuesta simple de confirmación.
type MessageResponse struct {
	Message string `json:"message"`
}
