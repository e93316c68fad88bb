package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"gabinete/internal/config"
	"gabinete/internal/db"
	"gabinete/internal/domain"
	"gabinete/internal/engine"
	"gabinete/internal/migrate"
)

type testServer struct {
	URL    string
	client *http.Client
	close  func()
}

func (s *testServer) Client() *http.Client { return s.client }
func (s *testServer) Close()               { s.close() }

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Operator.Name = "Fulano Operador"
	cfg.Operator.Matricula = "12345"
	cfg.Operator.Role = "Oficial de Promotoria I"
	cfg.Operator.Unit = "4ª PJCrim"
	cfg.Oficio.Destinatarios = map[string]config.Destinatario{
		"dp": {
			Orgao:    "Defensoria Pública do Estado de São Paulo",
			Contato:  "Defensor(a) responsável",
			Endereco: "Rua Boa Vista, 103",
			Email:    "atendimento@defensoria.sp.def.br",
		},
	}
	return cfg
}

func newTestServer(t *testing.T) (*testServer, func()) {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	e := engine.New(conn, testConfig(), nil)
	e.Now = func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) }
	handler, err := New(Config{Engine: e, BasePath: "/v0"})
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: handler}
	go srv.Serve(ln)
	testSrv := &testServer{
		URL:    "http://" + ln.Addr().String(),
		client: &http.Client{},
		close: func() {
			srv.Shutdown(context.Background())
			ln.Close()
			conn.Close()
		},
	}
	return testSrv, func() { testSrv.Close() }
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, data
}

func TestHealth(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	res, data := doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/health", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("health status %d: %s", res.StatusCode, string(data))
	}
	var body map[string]string
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("unmarshal health: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("expected status ok, got %q", body["status"])
	}
}

func TestActivityLifecycle(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()

	createRes, data := doJSON(t, client, http.MethodPost, srv.URL+"/v0/activities", map[string]any{
		"numero_processo": "1500123-45.2024.8.26.0050",
		"data":            "2024-06-10",
		"status":          "PENDENTE",
		"tipo":            "ANPP - Dados Bancários",
		"cargo":           "64º Promotor de Justiça Criminal",
	})
	if createRes.StatusCode != http.StatusCreated {
		t.Fatalf("create status %d: %s", createRes.StatusCode, string(data))
	}
	var created domain.Activity
	if err := json.Unmarshal(data, &created); err != nil {
		t.Fatalf("unmarshal activity: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.Promotor != "Pedro Henrique Pavanelli Lima" {
		t.Fatalf("expected roster stamp, got %q", created.Promotor)
	}

	getRes, getBody := doJSON(t, client, http.MethodGet, srv.URL+"/v0/activities/"+created.ID, nil)
	if getRes.StatusCode != http.StatusOK {
		t.Fatalf("get status %d: %s", getRes.StatusCode, string(getBody))
	}

	statusRes, statusBody := doJSON(t, client, http.MethodPost, srv.URL+"/v0/activities/"+created.ID+"/status", map[string]any{
		"status": "CONCLUIDO",
	})
	if statusRes.StatusCode != http.StatusOK {
		t.Fatalf("quick status %d: %s", statusRes.StatusCode, string(statusBody))
	}
	var updated domain.Activity
	_ = json.Unmarshal(statusBody, &updated)
	if updated.Status != domain.StatusConcluido {
		t.Fatalf("expected CONCLUIDO, got %s", updated.Status)
	}

	openRes, openBody := doJSON(t, client, http.MethodPost, srv.URL+"/v0/activities/"+created.ID+"/open", nil)
	if openRes.StatusCode != http.StatusOK {
		t.Fatalf("open status %d: %s", openRes.StatusCode, string(openBody))
	}
	var opened engine.OpenResult
	if err := json.Unmarshal(openBody, &opened); err != nil {
		t.Fatalf("unmarshal open: %v", err)
	}
	if opened.Screen != domain.ScreenANPP {
		t.Fatalf("expected anpp screen, got %s", opened.Screen)
	}
	if opened.CaseData.NumeroProcesso != created.NumeroProcesso {
		t.Fatalf("case data not carried: %+v", opened.CaseData)
	}

	metricsRes, metricsBody := doJSON(t, client, http.MethodGet, srv.URL+"/v0/activities/metrics", nil)
	if metricsRes.StatusCode != http.StatusOK {
		t.Fatalf("metrics status %d: %s", metricsRes.StatusCode, string(metricsBody))
	}
	var m domain.Metrics
	_ = json.Unmarshal(metricsBody, &m)
	if m.Total != 1 || m.Completed != 1 {
		t.Fatalf("unexpected metrics: %+v", m)
	}

	delRes, delBody := doJSON(t, client, http.MethodDelete, srv.URL+"/v0/activities/"+created.ID, nil)
	if delRes.StatusCode != http.StatusOK {
		t.Fatalf("delete status %d: %s", delRes.StatusCode, string(delBody))
	}
	missRes, _ := doJSON(t, client, http.MethodGet, srv.URL+"/v0/activities/"+created.ID, nil)
	if missRes.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", missRes.StatusCode)
	}
}

func TestSaveActivityValidationEnvelope(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/activities", map[string]any{
		"data":   "2024-06-10",
		"status": "PENDENTE",
		"tipo":   "Outros",
		"cargo":  "62º Promotor de Justiça Criminal",
	})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", res.StatusCode, string(data))
	}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if envelope.Error.Code != "bad_request" {
		t.Fatalf("expected bad_request, got %q", envelope.Error.Code)
	}
	if !strings.Contains(envelope.Error.Message, "numero_processo") {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestListActivitiesCursor(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()

	for i, data := range []string{"2024-06-01", "2024-06-02", "2024-06-03"} {
		res, body := doJSON(t, client, http.MethodPost, srv.URL+"/v0/activities", map[string]any{
			"numero_processo": "1500123-45.2024.8.26.005" + string(rune('0'+i)),
			"data":            data,
			"status":          "PENDENTE",
			"tipo":            "Outros",
			"cargo":           "62º Promotor de Justiça Criminal",
		})
		if res.StatusCode != http.StatusCreated {
			t.Fatalf("create %d: %d %s", i, res.StatusCode, string(body))
		}
	}

	res, data := doJSON(t, client, http.MethodGet, srv.URL+"/v0/activities?limit=2", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("list status %d: %s", res.StatusCode, string(data))
	}
	var page ActivityListResponse
	if err := json.Unmarshal(data, &page); err != nil {
		t.Fatalf("unmarshal page: %v", err)
	}
	if len(page.Activities) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(page.Activities))
	}
	if page.Activities[0].Data != "2024-06-03" {
		t.Fatalf("expected newest first, got %s", page.Activities[0].Data)
	}
	if page.NextData == "" || page.NextID == "" {
		t.Fatal("expected cursor on full page")
	}

	res, data = doJSON(t, client, http.MethodGet,
		srv.URL+"/v0/activities?limit=2&cursor_data="+page.NextData+"&cursor_id="+page.NextID, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("second page status %d: %s", res.StatusCode, string(data))
	}
	var rest ActivityListResponse
	_ = json.Unmarshal(data, &rest)
	if len(rest.Activities) != 1 || rest.Activities[0].Data != "2024-06-01" {
		t.Fatalf("unexpected second page: %+v", rest.Activities)
	}
}

func TestSearchActivities(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()

	res, body := doJSON(t, client, http.MethodPost, srv.URL+"/v0/activities", map[string]any{
		"numero_processo": "1500999-11.2024.8.26.0050",
		"data":            "2024-06-10",
		"status":          "EM_ANDAMENTO",
		"tipo":            "Ofícios",
		"cargo":           "61º Promotor de Justiça Criminal",
		"observacao":      "aguardando DENARC",
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create: %d %s", res.StatusCode, string(body))
	}

	res, data := doJSON(t, client, http.MethodGet, srv.URL+"/v0/activities/search?q=denarc", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("search status %d: %s", res.StatusCode, string(data))
	}
	var items []domain.Activity
	if err := json.Unmarshal(data, &items); err != nil {
		t.Fatalf("unmarshal search: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(items))
	}
}

func TestSyncWithoutRemote(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/activities/sync", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("sync status %d: %s", res.StatusCode, string(data))
	}
	var out SyncResponse
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal sync: %v", err)
	}
	if out.Pushed != 0 || out.Mode != "offline" {
		t.Fatalf("unexpected sync result: %+v", out)
	}
}

func TestEsajEndpoint(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	res, data := doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/esaj?processo=1500123-45.2024.8.26.0050", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("esaj status %d: %s", res.StatusCode, string(data))
	}
	var out EsajResponse
	_ = json.Unmarshal(data, &out)
	if !strings.Contains(out.URL, "esaj.tjsp.jus.br") || !strings.Contains(out.URL, "tipoNuProcesso=SAJ") {
		t.Fatalf("unexpected esaj url %q", out.URL)
	}
}

func TestRosterResolve(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()

	res, data := doJSON(t, client, http.MethodGet, srv.URL+"/v0/roster", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("roster status %d: %s", res.StatusCode, string(data))
	}
	var posts []RosterPost
	if err := json.Unmarshal(data, &posts); err != nil {
		t.Fatalf("unmarshal roster: %v", err)
	}
	if len(posts) != 20 {
		t.Fatalf("expected 20 posts, got %d", len(posts))
	}

	res, data = doJSON(t, client, http.MethodGet,
		srv.URL+"/v0/roster/resolve?cargo=64%C2%BA+Promotor+de+Justi%C3%A7a+Criminal&data=2024-06-10", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("resolve status %d: %s", res.StatusCode, string(data))
	}
	var out ResolveResponse
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal resolve: %v", err)
	}
	if out.Promotor != "Pedro Henrique Pavanelli Lima" {
		t.Fatalf("unexpected promotor %q", out.Promotor)
	}
	if out.Honorific != "Dr." {
		t.Fatalf("unexpected honorific %q", out.Honorific)
	}
	if out.CargoCode != "(C.64)" {
		t.Fatalf("unexpected cargo code %q", out.CargoCode)
	}
}

func TestValidatePerson(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()

	res, data := doJSON(t, client, http.MethodPost, srv.URL+"/v0/people/validate", map[string]any{
		"person": map[string]any{
			"nome": "João da Silva",
			"cpf":  "52998224725",
		},
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("validate status %d: %s", res.StatusCode, string(data))
	}
	var out ValidatePersonResponse
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal person: %v", err)
	}
	if out.Person.CPF != "529.982.247-25" {
		t.Fatalf("expected formatted cpf, got %q", out.Person.CPF)
	}

	res, data = doJSON(t, client, http.MethodPost, srv.URL+"/v0/people/validate", map[string]any{
		"person": map[string]any{
			"nome": "João da Silva",
			"cpf":  "52998224724",
		},
	})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad cpf, got %d: %s", res.StatusCode, string(data))
	}
}

func TestRenderTermo(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/render/termo", map[string]any{
		"termo":    "CONCLUSAO",
		"cargo":    "61º Promotor de Justiça Criminal",
		"doc_id":   "1234.0001234/2024",
		"tipo_doc": "NF",
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("termo status %d: %s", res.StatusCode, string(data))
	}
	var out TermoRenderResponse
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal termo: %v", err)
	}
	if !strings.Contains(out.Document.HTML, "TERMO DE CONCLUS") {
		t.Fatalf("missing title in %q", out.Document.Title)
	}
	if !strings.Contains(out.Document.HTML, "Fulano Operador") {
		t.Fatal("operator not stamped")
	}
	if !strings.Contains(out.Message, "Dra. Nina") {
		t.Fatalf("unexpected message %q", out.Message)
	}
}

func TestRenderOficioWithCatalog(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()

	res, data := doJSON(t, client, http.MethodPost, srv.URL+"/v0/render/oficio", map[string]any{
		"template":         "GERAL_DP",
		"cargo":            "62º Promotor de Justiça Criminal",
		"processo":         "1500123-45.2024.8.26.0050",
		"numero_oficio":    "123",
		"destinatario_key": "dp",
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("oficio status %d: %s", res.StatusCode, string(data))
	}
	var doc struct {
		HTML string `json:"html"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal oficio: %v", err)
	}
	if !strings.Contains(doc.HTML, "Defensoria Pública do Estado de São Paulo") {
		t.Fatal("catalog addressee not applied")
	}
	if !strings.Contains(doc.HTML, "atendimento@defensoria.sp.def.br") {
		t.Fatal("catalog email not applied")
	}

	res, data = doJSON(t, client, http.MethodPost, srv.URL+"/v0/render/oficio", map[string]any{
		"template":         "GERAL_DP",
		"destinatario_key": "nope",
	})
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown catalog key, got %d: %s", res.StatusCode, string(data))
	}
}

func TestAIUnavailable(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/ai/extract-person", map[string]any{
		"text": "João da Silva, CPF 529.982.247-25",
	})
	if res.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", res.StatusCode, string(data))
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if envelope.Error.Code != "ai_unavailable" {
		t.Fatalf("expected ai_unavailable, got %q", envelope.Error.Code)
	}
}

func TestCargosOverHTTP(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()

	res, data := doJSON(t, client, http.MethodPost, srv.URL+"/v0/cargos", map[string]any{
		"cargo_nome":    "5ª Promotoria de Justiça Criminal",
		"eh_acumulacao": true,
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create cargo status %d: %s", res.StatusCode, string(data))
	}
	var created domain.CargoAcumulacao
	if err := json.Unmarshal(data, &created); err != nil {
		t.Fatalf("unmarshal cargo: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}

	res, data = doJSON(t, client, http.MethodGet, srv.URL+"/v0/cargos", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("list cargos status %d: %s", res.StatusCode, string(data))
	}
	var items []domain.CargoAcumulacao
	_ = json.Unmarshal(data, &items)
	if len(items) != 1 {
		t.Fatalf("expected 1 cargo, got %d", len(items))
	}

	res, data = doJSON(t, client, http.MethodDelete, srv.URL+"/v0/cargos/"+strconv.FormatInt(created.ID, 10), nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("delete cargo status %d: %s", res.StatusCode, string(data))
	}
}
