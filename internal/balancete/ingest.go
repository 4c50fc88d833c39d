package balancete

import (
	"encoding/json"
	"fmt"
	"time"
)

// Ingestion is the result of parsing one uploaded ledger export: the analytic
// accounts that survived filtering plus the row counts of the source file.
type Ingestion struct {
	Accounts         []Account
	TotalContas      int
	ContasAnaliticas int
}

// Ingest parses an uploaded JSON export and keeps only analytic accounts.
//
// The payload must be a JSON array of objects. Rows whose CLASSE is not
// exactly "ANALITICA" are dropped silently; that includes synthetic accounts
// and unrecognized class values. Each surviving row gets a synthetic id of
// "<CONTA>-<i>" where i is its position in the filtered subsequence, so
// duplicate account codes stay addressable, and fresh default reconciliation
// fields. TotalContas counts every row of the source file, analytic or not.
func Ingest(data []byte) (*Ingestion, error) {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, NewParseError(err)
	}

	rows, ok := probe.([]any)
	if !ok {
		return nil, NewShapeError()
	}
	for _, row := range rows {
		if _, ok := row.(map[string]any); !ok {
			return nil, NewShapeError()
		}
	}

	var parsed []Account
	if err := json.Unmarshal(data, &parsed); err != nil {
		// Syntax was fine, so this is a field-level type mismatch.
		return nil, NewShapeError()
	}

	analiticas := make([]Account, 0, len(parsed))
	for _, acc := range parsed {
		if acc.Classe != ClasseAnalitica {
			continue
		}
		acc.ID = fmt.Sprintf("%s-%d", acc.Conta, len(analiticas))
		acc.Responsavel = ""
		acc.DataConciliacao = ""
		acc.StatusConciliacao = StatusPendente
		analiticas = append(analiticas, acc)
	}

	return &Ingestion{
		Accounts:         analiticas,
		TotalContas:      len(parsed),
		ContasAnaliticas: len(analiticas),
	}, nil
}

// NewPeriod builds the period record for a first upload. UploadDate is fixed
// here and never overwritten afterwards.
func NewPeriod(mes, ano, fileName string, ing *Ingestion, now time.Time) *Period {
	return &Period{
		Mes:              mes,
		Ano:              ano,
		MesAno:           PeriodKey(ano, mes),
		FileName:         fileName,
		UploadDate:       now.UTC().Format(time.RFC3339),
		TotalContas:      ing.TotalContas,
		ContasAnaliticas: ing.ContasAnaliticas,
		Contas:           ing.Accounts,
	}
}
