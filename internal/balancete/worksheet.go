package balancete

import (
	"errors"
	"sort"
	"sync"
)

// ErrAccountNotFound is returned when an edit addresses an id that is not in
// the worksheet.
var ErrAccountNotFound = errors.New("account not found in worksheet")

// Worksheet is one dashboard session over a loaded period: the working set of
// analytic accounts plus the draft reconciliation edits made while viewing.
// Edits mutate this local state only and are never written back to storage;
// the update upload path is the only durable write, and the spreadsheet
// export is the durable artifact of a session.
//
// A worksheet is shared by every request touching the same session, so all
// accessors synchronize on the internal lock.
type Worksheet struct {
	mu       sync.RWMutex
	accounts []Account
}

// NewWorksheet copies the period's account list into a fresh working set.
func NewWorksheet(accounts []Account) *Worksheet {
	working := make([]Account, len(accounts))
	copy(working, accounts)
	return &Worksheet{accounts: working}
}

// index locates an account by id. Callers hold mu.
func (w *Worksheet) index(id string) int {
	for i := range w.accounts {
		if w.accounts[i].ID == id {
			return i
		}
	}
	return -1
}

// SetOwner assigns the account's responsible person. It does not touch the
// reconciliation date or status.
func (w *Worksheet) SetOwner(id, owner string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.index(id)
	if i < 0 {
		return ErrAccountNotFound
	}
	w.accounts[i].Responsavel = owner
	return nil
}

// SetReconciliationDate sets the account's reconciliation date and derives
// the status from it: any non-empty date marks the account reconciled, an
// empty one resets it to pending. This is the only place status is derived,
// and it overrides whatever status the row carried before.
func (w *Worksheet) SetReconciliationDate(id, date string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.index(id)
	if i < 0 {
		return ErrAccountNotFound
	}
	w.accounts[i].DataConciliacao = date
	if date != "" {
		w.accounts[i].StatusConciliacao = StatusConciliado
	} else {
		w.accounts[i].StatusConciliacao = StatusPendente
	}
	return nil
}

// Account returns the current state of one row.
func (w *Worksheet) Account(id string) (Account, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	i := w.index(id)
	if i < 0 {
		return Account{}, false
	}
	return w.accounts[i], true
}

// Accounts returns a copy of the full working set in ingestion order.
func (w *Worksheet) Accounts() []Account {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]Account, len(w.accounts))
	copy(out, w.accounts)
	return out
}

// Visible returns the subset of the working set passing the filter.
func (w *Worksheet) Visible(f Filter) []Account {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return f.Apply(w.accounts)
}

// Summary are the dashboard's headline counts.
type Summary struct {
	TotalContas    int `json:"totalContas"`
	SemResponsavel int `json:"semResponsavel"`
	Pendentes      int `json:"pendentes"`
	Conciliadas    int `json:"conciliadas"`
}

// Summary counts the working set for the dashboard cards. Counts cover the
// whole working set, not the filtered view.
func (w *Worksheet) Summary() Summary {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s := Summary{TotalContas: len(w.accounts)}
	for _, a := range w.accounts {
		if a.Responsavel == "" {
			s.SemResponsavel++
		}
		if a.StatusConciliacao == StatusConciliado {
			s.Conciliadas++
		} else {
			s.Pendentes++
		}
	}
	return s
}

// Groups returns the sorted distinct GRUPO values of the working set, which
// feed the group filter dropdown.
func (w *Worksheet) Groups() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	seen := make(map[string]bool)
	var groups []string
	for _, a := range w.accounts {
		if !seen[a.Grupo] {
			seen[a.Grupo] = true
			groups = append(groups, a.Grupo)
		}
	}
	sort.Strings(groups)
	return groups
}
