package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"

	"github.com/conciliar/balancete/backend/internal/auth"
	"github.com/conciliar/balancete/backend/internal/balancete"
	"github.com/conciliar/balancete/backend/internal/store"
)

const sampleLedger = `[
	{"CONTA":"1.1","DESCRICAO":"ATIVO CIRCULANTE","CLASSE":"SINTETICA","GRUPO":"Ativo","COMPARATIVO":"OK"},
	{"CONTA":"1.1.01","DESCRICAO":"Caixa Geral","SALDO ANTERIOR":"1.000,00 D","DEBITO":"250,00","CREDITO":"0,00","SALDO ATUAL":"1.250,00 D","CLASSE":"ANALITICA","GRUPO":"Ativo","COMPARATIVO":"OK"},
	{"CONTA":"2.1.01","DESCRICAO":"Fornecedores","SALDO ANTERIOR":"500,00 C","DEBITO":"0,00","CREDITO":"100,00","SALDO ATUAL":"600,00 C","CLASSE":"ANALITICA","GRUPO":"Passivo","COMPARATIVO":"ERRO"}
]`

func newTestServer(t *testing.T) (*httptest.Server, *store.MemoryStore) {
	t.Helper()
	memStore := store.NewMemoryStore()
	svc := NewBalanceteService(memStore)
	srv := httptest.NewServer(NewRouter(svc, auth.LocalDevMiddleware()))
	t.Cleanup(srv.Close)
	return srv, memStore
}

func uploadRequest(t *testing.T, method, url, mes, ano, fileName, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("mes", mes))
	require.NoError(t, mw.WriteField("ano", ano))
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(method, url, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func doJSON(t *testing.T, req *http.Request, out any) int {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestRegisterAndListFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	var created periodSummary
	code := doJSON(t, uploadRequest(t, http.MethodPost, srv.URL+"/v1/balancetes", "06", "2025", "junho.json", sampleLedger), &created)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "2025-06", created.MesAno)
	assert.Equal(t, "Junho", created.MesNome)
	assert.Equal(t, 3, created.TotalContas)
	assert.Equal(t, 2, created.ContasAnaliticas)
	assert.NotEmpty(t, created.RegistradoEm)
	assert.Empty(t, created.UpdateDate)

	var list struct {
		Balancetes []periodSummary `json:"balancetes"`
	}
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/v1/balancetes", nil)
	code = doJSON(t, req, &list)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, list.Balancetes, 1)
	assert.Equal(t, "junho.json", list.Balancetes[0].FileName)

	var period balancete.Period
	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/v1/balancetes/2025-06", nil)
	code = doJSON(t, req, &period)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, period.Contas, 2)
	assert.Equal(t, "1.1.01-0", period.Contas[0].ID)
	assert.Equal(t, balancete.StatusPendente, period.Contas[0].StatusConciliacao)
}

func TestRegisterValidation(t *testing.T) {
	srv, memStore := newTestServer(t)

	t.Run("missing fields", func(t *testing.T) {
		var body map[string]string
		code := doJSON(t, uploadRequest(t, http.MethodPost, srv.URL+"/v1/balancetes", "", "2025", "x.json", sampleLedger), &body)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Por favor, preencha todos os campos", body["error"])
	})

	t.Run("missing file", func(t *testing.T) {
		var body map[string]string
		code := doJSON(t, uploadRequest(t, http.MethodPost, srv.URL+"/v1/balancetes", "06", "2025", "", ""), &body)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Por favor, preencha todos os campos", body["error"])
	})

	t.Run("invalid json", func(t *testing.T) {
		var body map[string]string
		code := doJSON(t, uploadRequest(t, http.MethodPost, srv.URL+"/v1/balancetes", "06", "2025", "x.json", "{broken"), &body)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Arquivo JSON inválido. Verifique o formato.", body["error"])
	})

	t.Run("wrong shape", func(t *testing.T) {
		var body map[string]string
		code := doJSON(t, uploadRequest(t, http.MethodPost, srv.URL+"/v1/balancetes", "06", "2025", "x.json", `{"contas":[]}`), &body)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "O arquivo JSON deve conter um array de contas", body["error"])
	})

	// None of the rejected uploads may leave a record behind.
	periods, err := memStore.ListPeriods(t.Context(), "local-dev-user")
	require.NoError(t, err)
	assert.Empty(t, periods)
}

func TestUpdatePreservesStoredAnnotations(t *testing.T) {
	srv, memStore := newTestServer(t)

	code := doJSON(t, uploadRequest(t, http.MethodPost, srv.URL+"/v1/balancetes", "06", "2025", "v1.json", sampleLedger), nil)
	require.Equal(t, http.StatusCreated, code)

	// Simulate annotations persisted by an earlier version of the record.
	period, err := memStore.GetPeriod(t.Context(), "local-dev-user", "2025-06")
	require.NoError(t, err)
	period.Contas[0].Responsavel = "DANIEL"
	period.Contas[0].DataConciliacao = "2025-06-30"
	period.Contas[0].StatusConciliacao = balancete.StatusConciliado
	require.NoError(t, memStore.UpdatePeriod(t.Context(), "local-dev-user", period))

	newLedger := `[
		{"CONTA":"1.1.01","DESCRICAO":"Caixa Geral","SALDO ATUAL":"9.999,99 D","CLASSE":"ANALITICA","GRUPO":"Ativo","COMPARATIVO":"OK"},
		{"CONTA":"3.1.01","DESCRICAO":"Receitas","CLASSE":"ANALITICA","GRUPO":"Receita","COMPARATIVO":"OK"}
	]`
	var updated periodSummary
	code = doJSON(t, uploadRequest(t, http.MethodPut, srv.URL+"/v1/balancetes/2025-06", "06", "2025", "v2.json", newLedger), &updated)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "v2.json", updated.FileName)
	assert.NotEmpty(t, updated.UpdateDate)
	assert.NotEmpty(t, updated.AtualizadoEm)

	stored, err := memStore.GetPeriod(t.Context(), "local-dev-user", "2025-06")
	require.NoError(t, err)
	require.Len(t, stored.Contas, 2)
	assert.Equal(t, "DANIEL", stored.Contas[0].Responsavel)
	assert.Equal(t, balancete.StatusConciliado, stored.Contas[0].StatusConciliacao)
	assert.Equal(t, balancete.Monetary("9.999,99 D"), stored.Contas[0].SaldoAtual)
	assert.Empty(t, stored.Contas[1].Responsavel)
}

func TestUpdateUnknownPeriod(t *testing.T) {
	srv, _ := newTestServer(t)

	var body map[string]string
	code := doJSON(t, uploadRequest(t, http.MethodPut, srv.URL+"/v1/balancetes/2030-01", "01", "2030", "x.json", sampleLedger), &body)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Balancete não encontrado", body["error"])
}

func TestDeleteBalancete(t *testing.T) {
	srv, _ := newTestServer(t)

	code := doJSON(t, uploadRequest(t, http.MethodPost, srv.URL+"/v1/balancetes", "06", "2025", "junho.json", sampleLedger), nil)
	require.Equal(t, http.StatusCreated, code)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/v1/balancetes/2025-06", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/v1/balancetes/2025-06", nil)
	var body map[string]string
	code = doJSON(t, req, &body)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDashboardFilteringAndSummary(t *testing.T) {
	srv, _ := newTestServer(t)

	code := doJSON(t, uploadRequest(t, http.MethodPost, srv.URL+"/v1/balancetes", "06", "2025", "junho.json", sampleLedger), nil)
	require.Equal(t, http.StatusCreated, code)

	type contasResponse struct {
		Mes          string              `json:"mes"`
		MesNome      string              `json:"mesNome"`
		Contas       []balancete.Account `json:"contas"`
		Summary      balancete.Summary   `json:"summary"`
		Grupos       []string            `json:"grupos"`
		Responsaveis []string            `json:"responsaveis"`
	}

	var all contasResponse
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/v1/balancetes/2025-06/contas", nil)
	code = doJSON(t, req, &all)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Junho", all.MesNome)
	assert.Len(t, all.Contas, 2)
	assert.Equal(t, balancete.Summary{TotalContas: 2, SemResponsavel: 2, Pendentes: 2}, all.Summary)
	assert.Equal(t, []string{"Ativo", "Passivo"}, all.Grupos)
	assert.Equal(t, balancete.Responsaveis, all.Responsaveis)

	var filtered contasResponse
	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/v1/balancetes/2025-06/contas?grupo=Passivo&comparativo=ERRO", nil)
	code = doJSON(t, req, &filtered)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, filtered.Contas, 1)
	assert.Equal(t, "2.1.01", filtered.Contas[0].Conta)
	// The summary always covers the whole working set.
	assert.Equal(t, all.Summary, filtered.Summary)
}

func TestDraftEditsAreNotPersisted(t *testing.T) {
	srv, memStore := newTestServer(t)

	code := doJSON(t, uploadRequest(t, http.MethodPost, srv.URL+"/v1/balancetes", "06", "2025", "junho.json", sampleLedger), nil)
	require.Equal(t, http.StatusCreated, code)

	patch := func(contaID, body string) (int, balancete.Account) {
		req, err := http.NewRequest(http.MethodPatch,
			fmt.Sprintf("%s/v1/balancetes/2025-06/contas/%s", srv.URL, contaID),
			strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		var acc balancete.Account
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&acc))
		}
		return resp.StatusCode, acc
	}

	status, acc := patch("1.1.01-0", `{"responsavel":"RIOS"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "RIOS", acc.Responsavel)
	assert.Equal(t, balancete.StatusPendente, acc.StatusConciliacao)

	status, acc = patch("1.1.01-0", `{"dataConciliacao":"2025-07-01"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, balancete.StatusConciliado, acc.StatusConciliacao)

	status, acc = patch("1.1.01-0", `{"dataConciliacao":""}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, balancete.StatusPendente, acc.StatusConciliacao)

	status, _ = patch("nope", `{"responsavel":"RIOS"}`)
	assert.Equal(t, http.StatusNotFound, status)

	// Edits live in the dashboard session only.
	stored, err := memStore.GetPeriod(t.Context(), "local-dev-user", "2025-06")
	require.NoError(t, err)
	assert.Empty(t, stored.Contas[0].Responsavel)
	assert.Equal(t, balancete.StatusPendente, stored.Contas[0].StatusConciliacao)
}

func TestExportBalancete(t *testing.T) {
	srv, _ := newTestServer(t)

	code := doJSON(t, uploadRequest(t, http.MethodPost, srv.URL+"/v1/balancetes", "06", "2025", "junho.json", sampleLedger), nil)
	require.Equal(t, http.StatusCreated, code)

	resp, err := http.Get(srv.URL + "/v1/balancetes/2025-06/export?grupo=Ativo")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "balancete_06_2025.xlsx")

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Balancete")
	require.NoError(t, err)
	// Header plus the single Ativo row; the filtered-out Passivo row is absent.
	require.Len(t, rows, 2)
	assert.Equal(t, "1.1.01", rows[1][0])
}

func TestWorksheetSessionDroppedOnUpdate(t *testing.T) {
	srv, _ := newTestServer(t)

	code := doJSON(t, uploadRequest(t, http.MethodPost, srv.URL+"/v1/balancetes", "06", "2025", "v1.json", sampleLedger), nil)
	require.Equal(t, http.StatusCreated, code)

	// Open a session and make a draft edit.
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/v1/balancetes/2025-06/contas", nil)
	require.Equal(t, http.StatusOK, doJSON(t, req, nil))
	patchReq, _ := http.NewRequest(http.MethodPatch, srv.URL+"/v1/balancetes/2025-06/contas/1.1.01-0", strings.NewReader(`{"responsavel":"HUGO"}`))
	patchReq.Header.Set("Content-Type", "application/json")
	require.Equal(t, http.StatusOK, doJSON(t, patchReq, nil))

	// Re-upload drops the session and its draft edits.
	code = doJSON(t, uploadRequest(t, http.MethodPut, srv.URL+"/v1/balancetes/2025-06", "06", "2025", "v2.json", sampleLedger), nil)
	require.Equal(t, http.StatusOK, code)

	var view struct {
		Contas []balancete.Account `json:"contas"`
	}
	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/v1/balancetes/2025-06/contas", nil)
	require.Equal(t, http.StatusOK, doJSON(t, req, &view))
	require.NotEmpty(t, view.Contas)
	assert.Empty(t, view.Contas[0].Responsavel)
}

func TestHealthIsPublic(t *testing.T) {
	memStore := store.NewMemoryStore()
	svc := NewBalanceteService(memStore)
	// Production middleware shape: everything under /v1 would require a token.
	srv := httptest.NewServer(NewRouter(svc, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		})
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/v1/balancetes")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStoreFailuresSurfaceAsPersistenceErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := store.NewMockStore(ctrl)
	svc := NewBalanceteService(mockStore)
	srv := httptest.NewServer(NewRouter(svc, auth.LocalDevMiddleware()))
	defer srv.Close()

	t.Run("create fails", func(t *testing.T) {
		mockStore.EXPECT().
			CreatePeriod(gomock.Any(), "local-dev-user", gomock.Any()).
			Return(assert.AnError)

		var body map[string]string
		code := doJSON(t, uploadRequest(t, http.MethodPost, srv.URL+"/v1/balancetes", "06", "2025", "x.json", sampleLedger), &body)
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "Erro ao salvar balancete. Tente novamente.", body["error"])
	})

	t.Run("list fails", func(t *testing.T) {
		mockStore.EXPECT().
			ListPeriods(gomock.Any(), "local-dev-user").
			Return(nil, assert.AnError)

		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/v1/balancetes", nil)
		var body map[string]string
		code := doJSON(t, req, &body)
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "Erro ao carregar balancetes", body["error"])
	})

	t.Run("delete fails", func(t *testing.T) {
		mockStore.EXPECT().
			DeletePeriod(gomock.Any(), "local-dev-user", "2025-06").
			Return(assert.AnError)

		req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/v1/balancetes/2025-06", nil)
		var body map[string]string
		code := doJSON(t, req, &body)
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "Erro ao excluir balancete. Tente novamente.", body["error"])
	})
}

func TestWatchBalancetesStreamsSnapshots(t *testing.T) {
	srv, memStore := newTestServer(t)

	require.NoError(t, memStore.CreatePeriod(t.Context(), "local-dev-user", &balancete.Period{
		Mes: "05", Ano: "2025", MesAno: "2025-05", FileName: "maio.json",
		UploadDate: "2025-06-01T08:00:00Z",
	}))

	resp, err := http.Get(srv.URL + "/v1/balancetes/watch")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// The first event carries the current list.
	buf := make([]byte, 4096)
	n, err := resp.Body.Read(buf)
	require.NoError(t, err)
	event := string(buf[:n])
	assert.True(t, strings.HasPrefix(event, "data: "), "event = %q", event)
	assert.Contains(t, event, "2025-05")
}
