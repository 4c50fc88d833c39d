// Package service exposes the reconciliation workflow over HTTP: period
// uploads and updates, the live period list, the filterable dashboard with
// draft edits, and the spreadsheet export.
package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/conciliar/balancete/backend/internal/auth"
	"github.com/conciliar/balancete/backend/internal/balancete"
	"github.com/conciliar/balancete/backend/internal/store"
)

// maxUploadSize bounds the multipart form held in memory per upload.
const maxUploadSize = 32 << 20

// BalanceteService handles the reconciliation endpoints. Worksheet sessions
// hold draft edits per user and period; they live in memory only and are
// dropped whenever the underlying period is re-uploaded or deleted. There is
// no idle eviction: the registry is bounded by the periods a user opens,
// which is at most a handful per year of history.
//
// mu guards the session registry; each Worksheet synchronizes its own state.
type BalanceteService struct {
	store store.Store

	mu         sync.Mutex
	worksheets map[string]*worksheetSession
}

type worksheetSession struct {
	mes string
	ano string
	ws  *balancete.Worksheet
}

// NewBalanceteService creates the service on top of a Store.
func NewBalanceteService(s store.Store) *BalanceteService {
	return &BalanceteService{
		store:      s,
		worksheets: make(map[string]*worksheetSession),
	}
}

// periodSummary is one row of the period list. Contas are omitted; clients
// load them through the dashboard endpoints.
type periodSummary struct {
	Mes              string `json:"mes"`
	MesNome          string `json:"mesNome"`
	Ano              string `json:"ano"`
	MesAno           string `json:"mesAno"`
	FileName         string `json:"fileName"`
	UploadDate       string `json:"uploadDate"`
	RegistradoEm     string `json:"registradoEm"`
	UpdateDate       string `json:"updateDate,omitempty"`
	AtualizadoEm     string `json:"atualizadoEm,omitempty"`
	TotalContas      int    `json:"totalContas"`
	ContasAnaliticas int    `json:"contasAnaliticas"`
}

func summarize(p *balancete.Period) periodSummary {
	s := periodSummary{
		Mes:              p.Mes,
		MesNome:          balancete.MonthName(p.Mes),
		Ano:              p.Ano,
		MesAno:           p.MesAno,
		FileName:         p.FileName,
		UploadDate:       p.UploadDate,
		RegistradoEm:     balancete.FormatTimestamp(p.UploadDate),
		TotalContas:      p.TotalContas,
		ContasAnaliticas: p.ContasAnaliticas,
	}
	if p.UpdateDate != "" {
		s.UpdateDate = p.UpdateDate
		s.AtualizadoEm = balancete.FormatTimestamp(p.UpdateDate)
	}
	return s
}

func summarizeAll(periods []*balancete.Period) []periodSummary {
	summaries := make([]periodSummary, 0, len(periods))
	for _, p := range periods {
		summaries = append(summaries, summarize(p))
	}
	return summaries
}

// RegisterBalancete handles the first upload of a period: parse the JSON
// export, keep the analytic accounts and persist the new period record.
func (s *BalanceteService) RegisterBalancete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	mes, ano, data, fileName, ok := s.readUploadForm(w, r)
	if !ok {
		return
	}

	ing, err := balancete.Ingest(data)
	if err != nil {
		writeError(w, err)
		return
	}

	period := balancete.NewPeriod(mes, ano, fileName, ing, time.Now())
	if err := s.store.CreatePeriod(r.Context(), userID, period); err != nil {
		writeError(w, balancete.NewPersistenceError("Erro ao salvar balancete. Tente novamente.", err))
		return
	}

	log.Printf("registered period %s for user %s (%d/%d analytic accounts)",
		period.Key(), userID, period.ContasAnaliticas, period.TotalContas)
	writeJSON(w, http.StatusCreated, summarize(period))
}

// UpdateBalancete re-uploads an existing period. Reconciliation annotations
// of accounts present in both versions survive; everything else comes from
// the new file.
func (s *BalanceteService) UpdateBalancete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}
	key := mux.Vars(r)["id"]

	old, err := s.store.GetPeriod(r.Context(), userID, key)
	if err != nil {
		if errors.Is(err, store.ErrPeriodNotFound) {
			writeError(w, balancete.NewNotFoundError())
		} else {
			writeError(w, balancete.NewPersistenceError("Erro ao carregar balancete", err))
		}
		return
	}

	mes, ano, data, fileName, ok := s.readUploadForm(w, r)
	if !ok {
		return
	}

	ing, err := balancete.Ingest(data)
	if err != nil {
		writeError(w, err)
		return
	}

	updated := balancete.ApplyUpdate(old, ing, mes, ano, fileName, time.Now())
	if err := s.store.UpdatePeriod(r.Context(), userID, updated); err != nil {
		writeError(w, balancete.NewPersistenceError("Erro ao atualizar balancete. Tente novamente.", err))
		return
	}

	// Any open dashboard session is now stale.
	s.dropWorksheet(userID, key)

	log.Printf("updated period %s for user %s", key, userID)
	writeJSON(w, http.StatusOK, summarize(updated))
}

// ListBalancetes returns the user's period list, most recent first.
func (s *BalanceteService) ListBalancetes(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	periods, err := s.store.ListPeriods(r.Context(), userID)
	if err != nil {
		writeError(w, balancete.NewPersistenceError("Erro ao carregar balancetes", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"balancetes": summarizeAll(periods)})
}

// GetBalancete returns one full period record including its accounts.
func (s *BalanceteService) GetBalancete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	period, err := s.store.GetPeriod(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, store.ErrPeriodNotFound) {
			writeError(w, balancete.NewNotFoundError())
		} else {
			writeError(w, balancete.NewPersistenceError("Erro ao carregar balancete", err))
		}
		return
	}

	writeJSON(w, http.StatusOK, period)
}

// DeleteBalancete removes a period and its dashboard session.
func (s *BalanceteService) DeleteBalancete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}
	key := mux.Vars(r)["id"]

	if err := s.store.DeletePeriod(r.Context(), userID, key); err != nil {
		writeError(w, balancete.NewPersistenceError("Erro ao excluir balancete. Tente novamente.", err))
		return
	}
	s.dropWorksheet(userID, key)

	log.Printf("deleted period %s for user %s", key, userID)
	w.WriteHeader(http.StatusNoContent)
}

// WatchBalancetes streams the period list as server-sent events. Every
// mutation produces a full replacement snapshot.
func (s *BalanceteService) WatchBalancetes(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	snapshots, err := s.store.WatchPeriods(r.Context(), userID)
	if err != nil {
		writeError(w, balancete.NewPersistenceError("Erro ao carregar balancetes", err))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case periods, open := <-snapshots:
			if !open {
				return
			}
			payload, err := json.Marshal(map[string]any{"balancetes": summarizeAll(periods)})
			if err != nil {
				log.Printf("failed to encode watch snapshot: %v", err)
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

// ListContas serves the dashboard view: the filtered working set plus the
// headline counts, the group dropdown values and the owner roster.
func (s *BalanceteService) ListContas(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	session, err := s.worksheet(r, userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	filter := filterFromQuery(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"mes":          session.mes,
		"mesNome":      balancete.MonthName(session.mes),
		"ano":          session.ano,
		"contas":       session.ws.Visible(filter),
		"summary":      session.ws.Summary(),
		"grupos":       session.ws.Groups(),
		"responsaveis": balancete.Responsaveis,
	})
}

// contaUpdateRequest carries a draft edit. Pointers distinguish "not sent"
// from "set to empty": clearing the date is a meaningful edit.
type contaUpdateRequest struct {
	Responsavel     *string `json:"responsavel"`
	DataConciliacao *string `json:"dataConciliacao"`
}

// UpdateConta applies a draft edit to the dashboard session. Edits are never
// written to storage; re-uploading the period is the only durable write.
func (s *BalanceteService) UpdateConta(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}
	vars := mux.Vars(r)

	session, err := s.worksheet(r, userID, vars["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	var req contaUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Requisição inválida")
		return
	}

	contaID := vars["contaId"]
	if req.Responsavel != nil {
		err = session.ws.SetOwner(contaID, *req.Responsavel)
	}
	if err == nil && req.DataConciliacao != nil {
		err = session.ws.SetReconciliationDate(contaID, *req.DataConciliacao)
	}

	if errors.Is(err, balancete.ErrAccountNotFound) {
		writeError(w, balancete.NewNotFoundError())
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	acc, _ := session.ws.Account(contaID)
	writeJSON(w, http.StatusOK, acc)
}

// ExportBalancete writes the currently visible rows as an xlsx download.
func (s *BalanceteService) ExportBalancete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	session, err := s.worksheet(r, userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	visible := session.ws.Visible(filterFromQuery(r))
	name, data, err := balancete.ExportXLSX(visible, session.mes, session.ano)
	if err != nil {
		writeError(w, balancete.NewPersistenceError("Erro ao exportar arquivo. Tente novamente.", err))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("failed to write export: %v", err)
	}
}

// worksheet returns the user's dashboard session for a period, loading it
// from storage on first access.
func (s *BalanceteService) worksheet(r *http.Request, userID, key string) (*worksheetSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := userID + "|" + key
	if session, ok := s.worksheets[id]; ok {
		return session, nil
	}

	period, err := s.store.GetPeriod(r.Context(), userID, key)
	if err != nil {
		if errors.Is(err, store.ErrPeriodNotFound) {
			return nil, balancete.NewNotFoundError()
		}
		return nil, balancete.NewPersistenceError("Erro ao carregar balancete", err)
	}

	session := &worksheetSession{
		mes: period.Mes,
		ano: period.Ano,
		ws:  balancete.NewWorksheet(period.Contas),
	}
	s.worksheets[id] = session
	return session, nil
}

func (s *BalanceteService) dropWorksheet(userID, key string) {
	s.mu.Lock()
	delete(s.worksheets, userID+"|"+key)
	s.mu.Unlock()
}

// readUploadForm parses the multipart upload form shared by register and
// update. It writes the error response itself and reports success via ok.
func (s *BalanceteService) readUploadForm(w http.ResponseWriter, r *http.Request) (mes, ano string, data []byte, fileName string, ok bool) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Por favor, preencha todos os campos")
		return
	}

	mes = r.FormValue("mes")
	ano = r.FormValue("ano")
	file, header, err := r.FormFile("file")
	if mes == "" || ano == "" || err != nil {
		writeJSONError(w, http.StatusBadRequest, "Por favor, preencha todos os campos")
		return
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Por favor, preencha todos os campos")
		return
	}
	return mes, ano, data, header.Filename, true
}

func filterFromQuery(r *http.Request) balancete.Filter {
	q := r.URL.Query()
	return balancete.Filter{
		Conta:       q.Get("conta"),
		Descricao:   q.Get("descricao"),
		Classe:      q.Get("classe"),
		Grupo:       q.Get("grupo"),
		Comparativo: q.Get("comparativo"),
		Responsavel: q.Get("responsavel"),
		Status:      q.Get("status"),
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeUnauthenticated(w http.ResponseWriter) {
	writeJSONError(w, http.StatusUnauthorized, "Falha na autenticação. Tente novamente.")
}

// writeError maps a domain error to its HTTP status and user-facing message.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch balancete.CodeOf(err) {
	case balancete.CodeParse, balancete.CodeShape:
		status = http.StatusBadRequest
	case balancete.CodeNotFound:
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
	}
	writeJSONError(w, status, balancete.MessageOf(err))
}
