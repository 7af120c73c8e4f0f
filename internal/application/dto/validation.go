package dto

import (
	"errors"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinic-franchise-api/internal/domain"
)

// Formatos de fecha aceptados en requests.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = time.RFC3339
)

var (
	errNotPositive = validation.NewError("validation_not_positive", "debe ser mayor a cero")
	errNegative    = validation.NewError("validation_negative", "no puede ser negativo")
)

// positive regla ozzo para decimal.Decimal > 0.
var positive = validation.By(func(v interface{}) error {
	d, ok := asDecimal(v)
	if ok && !d.IsPositive() {
		return errNotPositive
	}
	return nil
})

// nonNegative regla ozzo para decimal.Decimal >= 0.
var nonNegative = validation.By(func(v interface{}) error {
	d, ok := asDecimal(v)
	if ok && d.IsNegative() {
		return errNegative
	}
	return nil
})

func asDecimal(v interface{}) (decimal.Decimal, bool) {
	switch d := v.(type) {
	case decimal.Decimal:
		return d, true
	case *decimal.Decimal:
		if d == nil {
			return decimal.Zero, false
		}
		return *d, true
	}
	return decimal.Zero, false
}

// paymentModes regla In para formas de pago.
var paymentModes = validation.In("cash", "card", "upi", "online", "credit")

// FromValidation convierte los errores de ozzo-validation en domain.ValidationError.
// Los errores anidados (slices de items) se aplanan como "items.0.quantity".
// Errores internos de ozzo se devuelven tal cual.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return err
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return domain.NewValidationError(map[string]string{"_": err.Error()})
	}
	fields := make(map[string]string)
	flatten("", verrs, fields)
	return domain.NewValidationError(fields)
}

func flatten(prefix string, errs validation.Errors, out map[string]string) {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		var nested validation.Errors
		if errors.As(errs[k], &nested) {
			flatten(name, nested, out)
			continue
		}
		out[name] = errs[k].Error()
	}
}

// ParseDate interpreta una fecha YYYY-MM-DD; vacío devuelve nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// DateOr interpreta s o devuelve def si viene vacío o es inválido (ya validado por ozzo).
func DateOr(s string, def time.Time) time.Time {
	t, err := ParseDate(s)
	if err != nil || t == nil {
		return def
	}
	return *t
}

// DatePtr igual que ParseDate pero ignora errores (campos ya validados).
func DatePtr(s string) *time.Time {
	t, _ := ParseDate(s)
	return t
}
