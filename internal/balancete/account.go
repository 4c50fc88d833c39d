// Package balancete implements the monthly trial-balance ("balancete")
// reconciliation domain: ingestion of ledger JSON exports, the
// annotation-preserving merge used by re-uploads, the dashboard filter
// engine, draft reconciliation edits and the spreadsheet export.
package balancete

import (
	"encoding/json"
	"sort"
)

// Account classes as exported by the accounting system. Only analytic (leaf)
// accounts carry real balances and survive ingestion.
const (
	ClasseAnalitica = "ANALITICA"
	ClasseSintetica = "SINTETICA"
)

const (
	ComparativoOK   = "OK"
	ComparativoErro = "ERRO"
)

// Status is the reconciliation state of one account. It is derived from the
// reconciliation date: a dated account is reconciled, an undated one pending.
type Status string

const (
	StatusPendente   Status = "Pendente"
	StatusConciliado Status = "Conciliado"
)

// Responsaveis is the fixed roster of people accounts can be assigned to.
var Responsaveis = []string{"DANIEL", "RIOS", "JEFFERSON", "HUGO", "RAFAEL", "RENATO"}

// Monetary holds a monetary figure exactly as the accounting system exported
// it: "1.234,56 C", "0,00" or a bare number. Some exports emit raw JSON
// numbers for zero balances, so both encodings unmarshal to the source text.
type Monetary string

func (m *Monetary) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*m = Monetary(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*m = Monetary(n.String())
	return nil
}

// Account is one ledger account line within one reconciliation period. The
// upper-case fields come from the uploaded export and keep its exact names;
// the lower-case ones are owned by this application. Field names with spaces
// are part of the persisted record layout and are preserved verbatim.
type Account struct {
	ID                string   `json:"id" firestore:"id"`
	Conta             string   `json:"CONTA" firestore:"CONTA"`
	Descricao         string   `json:"DESCRICAO" firestore:"DESCRICAO"`
	SaldoAnterior     Monetary `json:"SALDO ANTERIOR" firestore:"SALDO ANTERIOR"`
	Debito            Monetary `json:"DEBITO" firestore:"DEBITO"`
	Credito           Monetary `json:"CREDITO" firestore:"CREDITO"`
	SaldoAtual        Monetary `json:"SALDO ATUAL" firestore:"SALDO ATUAL"`
	Classe            string   `json:"CLASSE" firestore:"CLASSE"`
	Grupo             string   `json:"GRUPO" firestore:"GRUPO"`
	Comparativo       string   `json:"COMPARATIVO" firestore:"COMPARATIVO"`
	Responsavel       string   `json:"responsavel" firestore:"responsavel"`
	DataConciliacao   string   `json:"dataConciliacao" firestore:"dataConciliacao"`
	StatusConciliacao Status   `json:"statusConciliacao" firestore:"statusConciliacao"`
}

// Period is one stored reconciliation period for one user, keyed by
// "<ano>-<mes>". UploadDate is set once at creation; UpdateDate exists only
// after at least one update through the merge path.
type Period struct {
	Mes              string    `json:"mes" firestore:"mes"`
	Ano              string    `json:"ano" firestore:"ano"`
	MesAno           string    `json:"mesAno" firestore:"mesAno"`
	FileName         string    `json:"fileName" firestore:"fileName"`
	UploadDate       string    `json:"uploadDate" firestore:"uploadDate"`
	UpdateDate       string    `json:"updateDate,omitempty" firestore:"updateDate,omitempty"`
	TotalContas      int       `json:"totalContas" firestore:"totalContas"`
	ContasAnaliticas int       `json:"contasAnaliticas" firestore:"contasAnaliticas"`
	Contas           []Account `json:"contas" firestore:"contas"`
}

// PeriodKey builds the composite period key.
func PeriodKey(ano, mes string) string {
	return ano + "-" + mes
}

// Key returns the period's storage key.
func (p *Period) Key() string {
	return p.MesAno
}

// SortPeriodsDesc orders periods most recent first. Keys are "YYYY-MM", so
// lexicographic order is chronological order.
func SortPeriodsDesc(periods []*Period) {
	sort.SliceStable(periods, func(i, j int) bool {
		return periods[i].Key() > periods[j].Key()
	})
}
