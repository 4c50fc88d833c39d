package service

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the reconciliation endpoints. Everything under /v1 requires
// authentication; /health stays public for load balancer probes.
func NewRouter(svc *BalanceteService, authMiddleware func(http.Handler) http.Handler) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.Use(mux.MiddlewareFunc(authMiddleware))

	v1.HandleFunc("/balancetes", svc.RegisterBalancete).Methods(http.MethodPost)
	v1.HandleFunc("/balancetes", svc.ListBalancetes).Methods(http.MethodGet)
	// Registered before the {id} routes so "watch" is not taken as a key.
	v1.HandleFunc("/balancetes/watch", svc.WatchBalancetes).Methods(http.MethodGet)
	v1.HandleFunc("/balancetes/{id}", svc.GetBalancete).Methods(http.MethodGet)
	v1.HandleFunc("/balancetes/{id}", svc.UpdateBalancete).Methods(http.MethodPut)
	v1.HandleFunc("/balancetes/{id}", svc.DeleteBalancete).Methods(http.MethodDelete)
	v1.HandleFunc("/balancetes/{id}/contas", svc.ListContas).Methods(http.MethodGet)
	v1.HandleFunc("/balancetes/{id}/contas/{contaId}", svc.UpdateConta).Methods(http.MethodPatch)
	v1.HandleFunc("/balancetes/{id}/export", svc.ExportBalancete).Methods(http.MethodGet)

	return r
}
