package apptest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/application/ports"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
)

// Cache CatalogCache en memoria que serializa a JSON como lo haría Redis.
type Cache struct {
	mu    sync.Mutex
	data  map[string][]byte
	Hits  int
	Fails bool // todas las operaciones devuelven error
}

// NewCache crea una caché vacía.
func NewCache() *Cache { return &Cache{data: map[string][]byte{}} }

var errCacheDown = errors.New("caché no disponible")

func (c *Cache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fails {
		return false, errCacheDown
	}
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.Hits++
	return true, json.Unmarshal(raw, dest)
}

func (c *Cache) Set(_ context.Context, key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fails {
		return errCacheDown
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *Cache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fails {
		return errCacheDown
	}
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

// Has indica si la clave está cacheada.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

// Notifier registra los avisos enviados; Err se devuelve en cada envío si no es nil.
type Notifier struct {
	mu   sync.Mutex
	Sent []ports.RecallNotice
	Err  error
}

func (n *Notifier) SendRecall(_ context.Context, notice ports.RecallNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.Sent = append(n.Sent, notice)
	return nil
}

// PDF generador falso que devuelve un marcador por documento y guarda el último recibido.
type PDF struct {
	LastBill    *ports.BillDocument
	LastChallan *ports.ChallanDocument
	LastTitle   string
}

func (p *PDF) BillPDF(doc ports.BillDocument) ([]byte, error) {
	p.LastBill = &doc
	return []byte("%PDF-bill"), nil
}

func (p *PDF) ChallanPDF(doc ports.ChallanDocument) ([]byte, error) {
	p.LastChallan = &doc
	return []byte("%PDF-challan"), nil
}

func (p *PDF) DayBookPDF(_ dto.DayBookResponse, title string) ([]byte, error) {
	p.LastTitle = title
	return []byte("%PDF-daybook"), nil
}

// XLSX exportador falso que guarda el último libro y reporte recibidos.
type XLSX struct {
	LastDayBook *dto.DayBookResponse
	LastStock   *dto.StockReportResponse
}

func (x *XLSX) DayBookXLSX(book dto.DayBookResponse) ([]byte, error) {
	x.LastDayBook = &book
	return []byte("PK-daybook"), nil
}

func (x *XLSX) StockXLSX(report dto.StockReportResponse) ([]byte, error) {
	x.LastStock = &report
	return []byte("PK-stock"), nil
}

// Files almacenamiento de archivos en memoria.
type Files struct {
	mu    sync.Mutex
	Saved map[string][]byte
}

// NewFiles crea un almacenamiento vacío.
func NewFiles() *Files { return &Files{Saved: map[string][]byte{}} }

func (f *Files) Save(_ context.Context, name string, src io.Reader) (int64, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return 0, err
	}
	f.mu.Lock()
	f.Saved[name] = data
	f.mu.Unlock()
	return int64(len(data)), nil
}

func (f *Files) Path(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Saved[name]; !ok {
		return "", domain.ErrNotFound
	}
	return "/mem/" + name, nil
}

func (f *Files) Remove(name string) error {
	f.mu.Lock()
	delete(f.Saved, name)
	f.mu.Unlock()
	return nil
}
