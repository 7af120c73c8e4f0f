package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV_UTF8(t *testing.T) {
	in := "code,name,manufacturer,unit,hsn_code,mrp,purchase_rate,tax_rate,reorder_level\n" +
		"arn30,Arnica 30C,SBL,ml,3004,120,80.5,12,10\n" +
		"BEL200,Belladonna 200,,ml,3004,abc,0,12,5\n" +
		",Sin código,,,,1,1,1,1\n" +
		"ARN30,Arnica 30C (nuevo),SBL,ml,3004,125,82,12,10\n"

	rows, skipped, err := parseCSV([]byte(in))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ARN30", rows[0].Code)
	assert.Equal(t, "Arnica 30C (nuevo)", rows[0].Name, "el último código repetido gana")
	assert.Equal(t, "125", rows[0].MRP.String())
	assert.Len(t, skipped, 2)
	assert.Contains(t, skipped[0], "mrp")
}

func TestParseCSV_Latin1YPuntoYComa(t *testing.T) {
	// "Caléndula" en ISO-8859-1: é = 0xE9
	in := []byte("code;name;mrp;tax_rate\nCAL;Cal\xe9ndula Q;45,50;5\n")

	rows, skipped, err := parseCSV(in)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, rows, 1)
	assert.Equal(t, "Caléndula Q", rows[0].Name)
	assert.Equal(t, "45.5", rows[0].MRP.String())
}

func TestParseCSV_FaltaColumna(t *testing.T) {
	_, _, err := parseCSV([]byte("codigo,nombre\nA,B\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code")
}

func TestWriteSQL_EscapaEIdempotente(t *testing.T) {
	rows, _, err := parseCSV([]byte("code,name\nDR1,Dr. Reckeweg's R1\n"))
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, writeSQL(&b, "x.csv", rows))
	sql := b.String()
	assert.Contains(t, sql, "'Dr. Reckeweg''s R1'")
	assert.Contains(t, sql, "ON CONFLICT ((upper(code))) DO UPDATE")
	assert.NotContains(t, sql, "avg_cost")
}
