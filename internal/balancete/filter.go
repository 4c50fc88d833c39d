package balancete

import "strings"

// Filter sentinels. FilterAll (or an empty value) disables an exact-match
// predicate; FilterSemResponsavel matches only accounts with no owner.
const (
	FilterAll            = "all"
	FilterSemResponsavel = "sem"
)

// Filter holds the seven independent column predicates of the reconciliation
// dashboard. The zero value matches every account. Filters are ephemeral
// viewing state and are never persisted.
type Filter struct {
	Conta       string
	Descricao   string
	Classe      string
	Grupo       string
	Comparativo string
	Responsavel string
	Status      string
}

func neutral(v string) bool {
	return v == "" || v == FilterAll
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Matches reports whether the account passes all seven predicates.
func (f Filter) Matches(a Account) bool {
	if f.Conta != "" && !containsFold(a.Conta, f.Conta) {
		return false
	}
	if f.Descricao != "" && !containsFold(a.Descricao, f.Descricao) {
		return false
	}
	if !neutral(f.Classe) && a.Classe != f.Classe {
		return false
	}
	if !neutral(f.Grupo) && a.Grupo != f.Grupo {
		return false
	}
	if !neutral(f.Comparativo) && a.Comparativo != f.Comparativo {
		return false
	}
	if !neutral(f.Responsavel) {
		if f.Responsavel == FilterSemResponsavel {
			if a.Responsavel != "" {
				return false
			}
		} else if a.Responsavel != f.Responsavel {
			return false
		}
	}
	if !neutral(f.Status) && string(a.StatusConciliacao) != f.Status {
		return false
	}
	return true
}

// Apply returns the accounts passing the filter, preserving input order.
// It is a pure function of its inputs; the visible set is always recomputed
// from scratch rather than cached incrementally.
func (f Filter) Apply(accounts []Account) []Account {
	visible := make([]Account, 0, len(accounts))
	for _, a := range accounts {
		if f.Matches(a) {
			visible = append(visible, a)
		}
	}
	return visible
}
