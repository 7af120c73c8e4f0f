// seed_medicines genera un script SQL idempotente para cargar el catálogo de medicamentos
// a partir de un CSV exportado del sistema anterior.
//
// Uso: go run ./cmd/seed_medicines [ruta/medicamentos.csv]
// Por defecto busca medicamentos.csv en el directorio actual.
// Columnas: code, name, manufacturer, unit, hsn_code, mrp, purchase_rate, tax_rate, reorder_level
// (separador , o ;). Acepta UTF-8 o ISO-8859-1.
// Escribe: migrations/900_seed_medicines.sql
package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var columns = []string{"code", "name", "manufacturer", "unit", "hsn_code", "mrp", "purchase_rate", "tax_rate", "reorder_level"}

type medicineRow struct {
	Code         string
	Name         string
	Manufacturer string
	Unit         string
	HSNCode      string
	MRP          decimal.Decimal
	PurchaseRate decimal.Decimal
	TaxRate      decimal.Decimal
	ReorderLevel decimal.Decimal
}

func main() {
	csvPath := "medicamentos.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}

	rows, skipped, err := parseCSV(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	for _, s := range skipped {
		fmt.Fprintf(os.Stderr, "omitida: %s\n", s)
	}

	outPath := filepath.Join(findModuleRoot(), "migrations", "900_seed_medicines.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, filepath.Base(csvPath), rows); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d medicamentos, %d filas omitidas\n", outPath, len(rows), len(skipped))
}

// decode convierte a UTF-8 los archivos exportados en Latin-1.
func decode(raw []byte) ([]byte, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return raw, nil
	}
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("decodificar ISO-8859-1: %w", err)
	}
	return out, nil
}

// parseCSV devuelve las filas válidas (la última gana si un código se repite) y
// una descripción de cada fila omitida.
func parseCSV(raw []byte) ([]medicineRow, []string, error) {
	data, err := decode(raw)
	if err != nil {
		return nil, nil, err
	}
	r := csv.NewReader(bytes.NewReader(data))
	if firstLine, _, _ := bytes.Cut(data, []byte("\n")); bytes.Count(firstLine, []byte(";")) > bytes.Count(firstLine, []byte(",")) {
		r.Comma = ';'
	}
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("cabecera: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range []string{"code", "name"} {
		if _, ok := idx[c]; !ok {
			return nil, nil, fmt.Errorf("falta la columna %q", c)
		}
	}

	byCode := make(map[string]medicineRow)
	var skipped []string
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, nil, fmt.Errorf("línea %d: %w", line, err)
		}
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		row := medicineRow{
			Code:         strings.ToUpper(get("code")),
			Name:         get("name"),
			Manufacturer: get("manufacturer"),
			Unit:         get("unit"),
			HSNCode:      get("hsn_code"),
		}
		if row.Code == "" || row.Name == "" {
			skipped = append(skipped, fmt.Sprintf("línea %d: código o nombre vacío", line))
			continue
		}
		var bad string
		for _, f := range []struct {
			col string
			dst *decimal.Decimal
		}{
			{"mrp", &row.MRP},
			{"purchase_rate", &row.PurchaseRate},
			{"tax_rate", &row.TaxRate},
			{"reorder_level", &row.ReorderLevel},
		} {
			v := strings.ReplaceAll(get(f.col), ",", ".")
			if v == "" {
				continue
			}
			d, err := decimal.NewFromString(v)
			if err != nil || d.IsNegative() {
				bad = f.col
				break
			}
			*f.dst = d
		}
		if bad != "" {
			skipped = append(skipped, fmt.Sprintf("línea %d (%s): %s inválido", line, row.Code, bad))
			continue
		}
		byCode[row.Code] = row
	}

	rows := make([]medicineRow, 0, len(byCode))
	for _, row := range byCode {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Code < rows[j].Code })
	return rows, skipped, nil
}

// writeSQL un INSERT ... ON CONFLICT por medicamento; volver a aplicarlo solo actualiza datos
// de catálogo y nunca toca avg_cost ni el estado.
func writeSQL(w io.Writer, source string, rows []medicineRow) error {
	var b strings.Builder
	b.WriteString("-- Catálogo de medicamentos\n")
	fmt.Fprintf(&b, "-- Generado desde %s\n\n", source)
	for _, m := range rows {
		fmt.Fprintf(&b, "INSERT INTO medicines (id, code, name, manufacturer, unit, hsn_code, mrp, purchase_rate, tax_rate, reorder_level)\n")
		fmt.Fprintf(&b, "VALUES ('%s', '%s', '%s', '%s', '%s', '%s', %s, %s, %s, %s)\n",
			uuid.New().String(),
			escapeSQL(m.Code), escapeSQL(m.Name), escapeSQL(m.Manufacturer), escapeSQL(m.Unit), escapeSQL(m.HSNCode),
			m.MRP.StringFixed(2), m.PurchaseRate.StringFixed(2), m.TaxRate.StringFixed(2), m.ReorderLevel.String())
		b.WriteString("ON CONFLICT ((upper(code))) DO UPDATE SET name = EXCLUDED.name, manufacturer = EXCLUDED.manufacturer,\n")
		b.WriteString("  unit = EXCLUDED.unit, hsn_code = EXCLUDED.hsn_code, mrp = EXCLUDED.mrp, purchase_rate = EXCLUDED.purchase_rate,\n")
		b.WriteString("  tax_rate = EXCLUDED.tax_rate, reorder_level = EXCLUDED.reorder_level, updated_at = now();\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
