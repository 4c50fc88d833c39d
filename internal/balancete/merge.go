package balancete

import "time"

// annotations are the user-entered reconciliation fields carried across
// re-uploads of the same period.
type annotations struct {
	responsavel     string
	dataConciliacao string
	status          Status
}

// MergeAccounts carries reconciliation annotations from a previously stored
// account list onto a freshly ingested one.
//
// The lookup is keyed by CONTA, not by the synthetic id; if a code repeats in
// the old data the last occurrence wins. Financial fields always come from
// the new upload. New rows whose CONTA has no old counterpart keep their
// ingestion defaults.
func MergeAccounts(prev, next []Account) []Account {
	byConta := make(map[string]annotations, len(prev))
	for _, acc := range prev {
		st := acc.StatusConciliacao
		if st == "" {
			st = StatusPendente
		}
		byConta[acc.Conta] = annotations{
			responsavel:     acc.Responsavel,
			dataConciliacao: acc.DataConciliacao,
			status:          st,
		}
	}

	merged := make([]Account, len(next))
	copy(merged, next)
	for i := range merged {
		ann, ok := byConta[merged[i].Conta]
		if !ok {
			continue
		}
		merged[i].Responsavel = ann.responsavel
		merged[i].DataConciliacao = ann.dataConciliacao
		merged[i].StatusConciliacao = ann.status
	}
	return merged
}

// ApplyUpdate rebuilds a stored period from a new upload, preserving the
// annotations of accounts present in both and the original UploadDate. The
// result is a full replacement of the stored record: counts and financial
// figures come entirely from the new ingestion, and UpdateDate is set to now.
func ApplyUpdate(old *Period, ing *Ingestion, mes, ano, fileName string, now time.Time) *Period {
	updated := NewPeriod(mes, ano, fileName, ing, now)
	updated.MesAno = old.Key()
	updated.Contas = MergeAccounts(old.Contas, ing.Accounts)
	updated.UploadDate = old.UploadDate
	updated.UpdateDate = now.UTC().Format(time.RFC3339)
	return updated
}
