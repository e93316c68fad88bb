package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gabinete/internal/db"
	"gabinete/internal/domain"
	"gabinete/internal/migrate"
	"gabinete/internal/repo"
)

func testEngine(t *testing.T) Engine {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatal(err)
	}
	e := New(conn, nil, nil)
	e.Now = func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) }
	return e
}

func save(t *testing.T, e Engine, opts ActivitySaveOptions) domain.Activity {
	t.Helper()
	if opts.Status == "" {
		opts.Status = domain.StatusPendente
	}
	if opts.NumeroProcesso == "" {
		opts.NumeroProcesso = "1500123-45.2024.8.26.0050"
	}
	if opts.Data == "" {
		opts.Data = "2024-06-10"
	}
	if opts.Tipo == "" {
		opts.Tipo = "Outros"
	}
	if opts.Cargo == "" {
		opts.Cargo = "62º Promotor de Justiça Criminal"
	}
	a, err := e.SaveActivity(context.Background(), opts)
	if err != nil {
		t.Fatalf("SaveActivity: %v", err)
	}
	return a
}

func TestSaveActivityStampsPromotor(t *testing.T) {
	e := testEngine(t)
	ctx := context.Background()

	a := save(t, e, ActivitySaveOptions{Cargo: "64º Promotor de Justiça Criminal", Data: "2024-06-10"})
	if a.Promotor != "Pedro Henrique Pavanelli Lima" {
		t.Errorf("promotor = %q, want roster entry for day 10", a.Promotor)
	}

	// Days 1 to 6 are uncovered on post 64; the record still saves.
	b := save(t, e, ActivitySaveOptions{Cargo: "64º Promotor de Justiça Criminal", Data: "2024-06-03"})
	if b.Promotor != "Não identificado" {
		t.Errorf("uncovered day promotor = %q", b.Promotor)
	}

	// An explicit promotor wins over the roster.
	c := save(t, e, ActivitySaveOptions{Promotor: "Fulano de Tal"})
	if c.Promotor != "Fulano de Tal" {
		t.Errorf("explicit promotor overridden: %q", c.Promotor)
	}

	// Later updates re-resolve against the data then on the record.
	got, err := e.Repo.GetActivity(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Promotor != a.Promotor {
		t.Errorf("stored promotor = %q", got.Promotor)
	}
}

func TestSaveActivityValidation(t *testing.T) {
	e := testEngine(t)
	ctx := context.Background()

	_, err := e.SaveActivity(ctx, ActivitySaveOptions{Data: "2024-06-10", Tipo: "Outros", Cargo: "x", Status: domain.StatusPendente})
	if err == nil {
		t.Errorf("missing numero_processo accepted")
	}
	_, err = e.SaveActivity(ctx, ActivitySaveOptions{NumeroProcesso: "1", Data: "2024-06-10", Tipo: "Outros", Cargo: "x", Status: "BOGUS"})
	if err == nil {
		t.Errorf("unknown status accepted")
	}
}

func TestMetrics(t *testing.T) {
	e := testEngine(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		save(t, e, ActivitySaveOptions{Status: domain.StatusConcluido, Tipo: "Multa Penal"})
	}
	save(t, e, ActivitySaveOptions{Status: domain.StatusFinalizado})
	save(t, e, ActivitySaveOptions{Status: domain.StatusPendente})
	save(t, e, ActivitySaveOptions{Status: domain.StatusRevisar})
	save(t, e, ActivitySaveOptions{Status: domain.StatusEmAndamento})
	save(t, e, ActivitySaveOptions{Status: domain.StatusAguardando})
	save(t, e, ActivitySaveOptions{Status: domain.StatusFinalizadoNaoConcluido})

	m, err := e.Metrics(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if m.Total != 10 || m.Completed != 5 || m.Pending != 5 || m.CompletionRate != 50 {
		t.Errorf("metrics = %+v, want 10/5/5/50", m)
	}
	if m.TopType != "Multa Penal" {
		t.Errorf("top type = %q", m.TopType)
	}
}

func TestMetricsEmpty(t *testing.T) {
	e := testEngine(t)
	m, err := e.Metrics(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if m.Total != 0 || m.CompletionRate != 0 {
		t.Errorf("empty metrics = %+v", m)
	}
}

func TestListOrderIsDataDescending(t *testing.T) {
	e := testEngine(t)
	ctx := context.Background()

	save(t, e, ActivitySaveOptions{Data: "2024-01-01", NumeroProcesso: "AAA"})
	save(t, e, ActivitySaveOptions{Data: "2024-06-15", NumeroProcesso: "BBB"})
	save(t, e, ActivitySaveOptions{Data: "2024-03-20", NumeroProcesso: "CCC"})

	list, err := e.Repo.ListActivities(ctx, repo.ActivityFilters{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d", len(list))
	}
	if list[0].Data != "2024-06-15" || list[2].Data != "2024-01-01" {
		t.Errorf("order = %s, %s, %s", list[0].Data, list[1].Data, list[2].Data)
	}
}

func TestSearchMatchesStatusLabel(t *testing.T) {
	e := testEngine(t)
	ctx := context.Background()

	save(t, e, ActivitySaveOptions{Status: domain.StatusEmAndamento, NumeroProcesso: "proc-1"})
	save(t, e, ActivitySaveOptions{Status: domain.StatusPendente, NumeroProcesso: "proc-2", Observacao: "enviar cópias para DENARC"})

	byLabel, err := e.Search(ctx, "em andamento")
	if err != nil {
		t.Fatal(err)
	}
	if len(byLabel) != 1 || byLabel[0].NumeroProcesso != "proc-1" {
		t.Errorf("status label search = %+v", byLabel)
	}

	byObs, err := e.Search(ctx, "denarc")
	if err != nil {
		t.Fatal(err)
	}
	if len(byObs) != 1 || byObs[0].NumeroProcesso != "proc-2" {
		t.Errorf("observacao search = %+v", byObs)
	}

	none, err := e.Search(ctx, "zzz-no-match")
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("unexpected matches: %+v", none)
	}
}

func TestQuickStatusAndClearCompleted(t *testing.T) {
	e := testEngine(t)
	ctx := context.Background()

	a := save(t, e, ActivitySaveOptions{Status: domain.StatusNaoVerificado})
	b := save(t, e, ActivitySaveOptions{Status: domain.StatusConcluido})

	updated, err := e.QuickStatus(ctx, a.ID, domain.StatusConcluido, "tester")
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != domain.StatusConcluido {
		t.Errorf("status = %q", updated.Status)
	}

	n, err := e.ClearCompleted(ctx, "tester")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("cleared = %d, want 2", n)
	}
	if _, err := e.Repo.GetActivity(ctx, b.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("completed record survived clear: %v", err)
	}
}

func TestDeleteActivity(t *testing.T) {
	e := testEngine(t)
	ctx := context.Background()

	a := save(t, e, ActivitySaveOptions{})
	if err := e.DeleteActivity(ctx, a.ID, "tester"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Repo.GetActivity(ctx, a.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("record survived delete: %v", err)
	}
	if err := e.DeleteActivity(ctx, "missing", "tester"); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("deleting missing record: %v", err)
	}
}

func TestScreenFor(t *testing.T) {
	tests := []struct {
		tipo string
		want domain.Screen
	}{
		{"Pesquisa de NI", domain.ScreenPesquisaNI},
		{"Multa Penal", domain.ScreenMultaPenal},
		{"ANPP - Execuções", domain.ScreenANPP},
		{"ANPP - Dados Bancários", domain.ScreenANPP},
		{"Ofício", domain.ScreenOficio},
		{"Notícia de Fato", domain.ScreenSisDigital},
		{"Notificação - (Art. 28)", domain.ScreenSisDigital},
		{"Agendamento de Despacho", domain.ScreenSisDigital},
		{"Outros", domain.ScreenDashboard},
		{"Pedido de Arquivamento Urgente", domain.ScreenArquivamento},
		{"algo desconhecido", domain.ScreenDashboard},
	}
	for _, tt := range tests {
		if got := ScreenFor(tt.tipo); got != tt.want {
			t.Errorf("ScreenFor(%q) = %q, want %q", tt.tipo, got, tt.want)
		}
	}
}

func TestOpenActivityOverwritesCaseData(t *testing.T) {
	e := testEngine(t)
	ctx := context.Background()

	a := save(t, e, ActivitySaveOptions{
		Tipo:           "ANPP - Dados Bancários",
		Cargo:          "62º Promotor de Justiça Criminal",
		NumeroProcesso: "1502000-00.2024.8.26.0050",
	})
	res, err := e.OpenActivity(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if res.Screen != domain.ScreenANPP {
		t.Errorf("screen = %q", res.Screen)
	}
	if res.CaseData.NumeroProcesso != a.NumeroProcesso ||
		res.CaseData.Cargo != a.Cargo ||
		res.CaseData.Promotor != a.Promotor {
		t.Errorf("case data not overwritten: %+v", res.CaseData)
	}
}

func TestImportActivities(t *testing.T) {
	e := testEngine(t)
	ctx := context.Background()

	tasks := []domain.ImportedActivity{
		{NumeroProcesso: "1500123-45.2024.8.26.0050", Tipo: "Pesquisa de NI", Observacao: "Pedir NI para testemunha Felipe", Data: "2024-06-10"},
		{Observacao: "Enviar cópias para DENARC"},
	}
	got, err := e.ImportActivities(ctx, "62º Promotor de Justiça Criminal", tasks, "tester")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("imported = %d", len(got))
	}
	for _, a := range got {
		if a.Status != domain.StatusPendente {
			t.Errorf("imported status = %q", a.Status)
		}
		if a.Promotor != "Pedro Henrique da Silva Rosa" {
			t.Errorf("imported promotor = %q", a.Promotor)
		}
	}
	if got[1].Tipo != "Outros" {
		t.Errorf("default tipo = %q", got[1].Tipo)
	}
	if got[1].Data != "2024-06-15" {
		t.Errorf("default data = %q, want engine clock date", got[1].Data)
	}

	if _, err := e.ImportActivities(ctx, "", tasks, "tester"); err == nil {
		t.Errorf("import without cargo accepted")
	}
}

func TestEsajURL(t *testing.T) {
	e := testEngine(t)
	got := e.EsajURL("1500123-45.2024.8.26.0050")
	if !strings.HasPrefix(got, "https://esaj.tjsp.jus.br/cpopg/search.do?conversationId=&cbPesquisa=NUMPROC") {
		t.Errorf("url prefix wrong: %s", got)
	}
	for _, frag := range []string{
		"dadosConsulta.valorConsultaNuUnificado=&",
		"dadosConsulta.valorConsultaNuUnificado=UNIFICADO",
		"dadosConsulta.valorConsulta=1500123-45.2024.8.26.0050",
		"dadosConsulta.tipoNuProcesso=SAJ",
	} {
		if !strings.Contains(got, frag) {
			t.Errorf("missing %q in %s", frag, got)
		}
	}
}

func TestCargosOffline(t *testing.T) {
	e := testEngine(t)
	ctx := context.Background()

	id, err := e.EnsurePromotor(ctx, "Nina Pereira Malheiros")
	if err != nil {
		t.Fatal(err)
	}
	saved, err := e.SaveCargo(ctx, domain.CargoAcumulacao{
		CargoNome:         "64º Promotor de Justiça Criminal",
		EhAcumulacao:      true,
		PromotorTitularID: &id,
	}, "tester")
	if err != nil {
		t.Fatal(err)
	}
	if saved.ID == 0 {
		t.Errorf("no id assigned")
	}
	if saved.PromotorTitular != "Nina Pereira Malheiros" {
		t.Errorf("titular name not embedded: %+v", saved)
	}

	list, err := e.ListCargos(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("cargos = %d", len(list))
	}

	if err := e.DeleteCargo(ctx, saved.ID, "tester"); err != nil {
		t.Fatal(err)
	}
	list, err = e.ListCargos(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("cargo survived delete")
	}
}
