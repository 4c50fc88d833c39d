package balancete

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Balancete"

var exportColumns = []struct {
	header string
	width  float64
}{
	{"Conta", 15},
	{"Descrição", 40},
	{"Saldo Anterior", 15},
	{"Débito", 15},
	{"Crédito", 15},
	{"Saldo Atual", 15},
	{"Classe", 12},
	{"Grupo", 20},
	{"Comparativo", 15},
	{"Responsável", 15},
	{"Data Conciliação", 18},
	{"Status", 15},
}

// ExportXLSX serializes accounts to the 12-column "Balancete" spreadsheet and
// returns the period-derived filename plus the file bytes. Callers pass the
// currently visible (filtered) rows, never the full working set. Monetary
// columns are written as numbers; unparsable values become 0.
func ExportXLSX(accounts []Account, mes, ano string) (string, []byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return "", nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, col := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return "", nil, err
		}
		if err := f.SetCellValue(exportSheet, cell, col.header); err != nil {
			return "", nil, err
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return "", nil, err
		}
		if err := f.SetColWidth(exportSheet, name, name, col.width); err != nil {
			return "", nil, err
		}
	}

	for r, acc := range accounts {
		values := []any{
			acc.Conta,
			acc.Descricao,
			MonetaryValue(acc.SaldoAnterior),
			MonetaryValue(acc.Debito),
			MonetaryValue(acc.Credito),
			MonetaryValue(acc.SaldoAtual),
			acc.Classe,
			acc.Grupo,
			acc.Comparativo,
			acc.Responsavel,
			acc.DataConciliacao,
			string(acc.StatusConciliacao),
		}
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return "", nil, err
			}
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return "", nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return "", nil, fmt.Errorf("failed to write spreadsheet: %w", err)
	}

	if mes == "" {
		mes = "XX"
	}
	if ano == "" {
		ano = "XXXX"
	}
	return fmt.Sprintf("balancete_%s_%s.xlsx", mes, ano), buf.Bytes(), nil
}
