package indec_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/rentbook/internal/importer/indec"
	"github.com/MrJamesThe3rd/rentbook/internal/inflation"
	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertRecords(t *testing.T, want map[ledger.YearMonth]string, got []inflation.Record) {
	t.Helper()

	require.Len(t, got, len(want))

	for _, r := range got {
		rate, ok := want[r.Month]
		require.True(t, ok, "unexpected month %s", r.Month)
		assert.True(t, r.Rate.Equal(dec(rate)), "%s: got %s want %s", r.Month, r.Rate, rate)
	}
}

func TestParser_INDEC(t *testing.T) {
	csv := `Índice de precios al consumidor (IPC). Total nacional
Base diciembre 2016 = 100

Período;Variación mensual (%);Variación interanual (%)
2024-01;20,6;254,2
2024-02;13,2;276,2
2024-03;11,0;287,9

Fuente: INDEC
`

	records, err := indec.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)

	assertRecords(t, map[ledger.YearMonth]string{
		"2024-01": "20.6",
		"2024-02": "13.2",
		"2024-03": "11",
	}, records)
}

func TestParser_MesTasa(t *testing.T) {
	csv := `Mes;Tasa
01/2024;20,6 %
02/2024;13,2%
3/2024;-0,3
`

	records, err := indec.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)

	assertRecords(t, map[ledger.YearMonth]string{
		"2024-01": "20.6",
		"2024-02": "13.2",
		"2024-03": "-0.3",
	}, records)
}

func TestParser_FechaIPCCommaDelimited(t *testing.T) {
	csv := `fecha,ipc mensual,ipc acumulado
2024-05-01,4.2,71.9
2024-06-01,4.6,79.8
`

	records, err := indec.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)

	assertRecords(t, map[ledger.YearMonth]string{
		"2024-05": "4.2",
		"2024-06": "4.6",
	}, records)
}

func TestParser_SpanishMonthNames(t *testing.T) {
	csv := `Período;Variación mensual
ene-24;20,6
Febrero 2024;13,2
mar.-2024;11
`

	records, err := indec.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)

	assertRecords(t, map[ledger.YearMonth]string{
		"2024-01": "20.6",
		"2024-02": "13.2",
		"2024-03": "11",
	}, records)
}

func TestParser_Latin1Encoding(t *testing.T) {
	utf8CSV := "Período;Variación mensual\n2024-07;4,0\n"

	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	records, err := indec.NewParser().Parse(bytes.NewReader(latin1))
	require.NoError(t, err)

	assertRecords(t, map[ledger.YearMonth]string{"2024-07": "4"}, records)
}

func TestParser_SkipsBlankRates(t *testing.T) {
	csv := `Mes;Tasa
2024-08;3,5
2024-09;
2024-10;-
`

	records, err := indec.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)

	assertRecords(t, map[ledger.YearMonth]string{"2024-08": "3.5"}, records)
}

func TestParser_ThousandsSeparator(t *testing.T) {
	csv := `Mes;Tasa
1989-07;1.234,5
`

	records, err := indec.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)

	assertRecords(t, map[ledger.YearMonth]string{"1989-07": "1234.5"}, records)
}

func TestParser_InvalidRate(t *testing.T) {
	csv := `Mes;Tasa
2024-08;abc
`

	_, err := indec.NewParser().Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestParser_UnknownFormat(t *testing.T) {
	_, err := indec.NewParser().Parse(strings.NewReader("Data mov.;Descrição;Montante\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no matching inflation format")
}

func TestParser_EmptyFile(t *testing.T) {
	_, err := indec.NewParser().Parse(strings.NewReader(""))
	assert.Error(t, err)
}

func TestParser_HeaderOnly(t *testing.T) {
	records, err := indec.NewParser().Parse(strings.NewReader("Mes;Tasa"))
	require.NoError(t, err)
	assert.Empty(t, records)
}
