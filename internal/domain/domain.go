package domain

// Screen identifies which tool of the workbench is active.
type Screen string

const (
	ScreenDashboard    Screen = "DASHBOARD"
	ScreenPesquisaNI   Screen = "PESQUISA_NI"
	ScreenSisDigital   Screen = "SISDIGITAL"
	ScreenOficio       Screen = "OFICIO"
	ScreenANPP         Screen = "ANPP"
	ScreenMultaPenal   Screen = "MULTA_PENAL"
	ScreenArquivamento Screen = "PROMOCAO_ARQUIVAMENTO"
	ScreenActivities   Screen = "ACTIVITIES"
	ScreenMentor       Screen = "MENTOR"
)

// ActivityStatus is an unordered label set: any status may be set from any
// other. There is no transition graph.
type ActivityStatus string

const (
	StatusNaoVerificado          ActivityStatus = "NAO_VERIFICADO"
	StatusPendente               ActivityStatus = "PENDENTE"
	StatusRevisar                ActivityStatus = "REVISAR"
	StatusEmAndamento            ActivityStatus = "EM_ANDAMENTO"
	StatusAguardando             ActivityStatus = "AGUARDANDO"
	StatusFinalizadoNaoConcluido ActivityStatus = "FINALIZADO_NAO_CONCLUIDO"
	StatusConcluido              ActivityStatus = "CONCLUIDO"
	StatusFinalizado             ActivityStatus = "FINALIZADO"
)

// ActivityStatuses lists every status in display order.
var ActivityStatuses = []ActivityStatus{
	StatusNaoVerificado,
	StatusPendente,
	StatusRevisar,
	StatusEmAndamento,
	StatusAguardando,
	StatusFinalizadoNaoConcluido,
	StatusConcluido,
	StatusFinalizado,
}

var statusLabels = map[ActivityStatus]string{
	StatusNaoVerificado:          "Não Verificado",
	StatusPendente:               "Pendente",
	StatusRevisar:                "Revisar",
	StatusEmAndamento:            "Em Andamento",
	StatusAguardando:             "Aguardando",
	StatusFinalizadoNaoConcluido: "Finalizado / Não Concluído",
	StatusConcluido:              "Concluído",
	StatusFinalizado:             "Finalizado",
}

// Label returns the display label, or the raw value for unknown statuses.
func (s ActivityStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Valid reports whether s is one of the eight known statuses.
func (s ActivityStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Completed reports whether the status counts as done for metrics and for
// the clear-completed bulk delete.
func (s ActivityStatus) Completed() bool {
	return s == StatusConcluido || s == StatusFinalizado
}

// ActivityTypes lists the known activity categories. The field itself is
// free-form; these are the values the routing table recognizes.
var ActivityTypes = []string{
	"Multa Penal",
	"Pesquisa de NI",
	"Notificação - (Art. 28)",
	"ANPP - Execuções",
	"Ofício",
	"Agendamento de Despacho",
	"Outros",
	"ANPP - Dados Bancários",
	"Notícia de Fato",
}

// Activity is one personal task record.
type Activity struct {
	ID             string         `json:"id"`
	NumeroProcesso string         `json:"numero_processo"`
	Data           string         `json:"data" format:"date"`
	Status         ActivityStatus `json:"status" enum:"NAO_VERIFICADO,PENDENTE,REVISAR,EM_ANDAMENTO,AGUARDANDO,FINALIZADO_NAO_CONCLUIDO,CONCLUIDO,FINALIZADO"`
	Tipo           string         `json:"tipo"`
	Cargo          string         `json:"cargo"`
	Promotor       string         `json:"promotor"`
	Observacao     string         `json:"observacao,omitempty"`
	Synced         bool           `json:"synced"`
	CreatedAt      string         `json:"created_at" format:"date-time"`
	UpdatedAt      string         `json:"updated_at" format:"date-time"`
}

// Metrics aggregates the activity list.
type Metrics struct {
	Total          int    `json:"total"`
	Completed      int    `json:"completed"`
	Pending        int    `json:"pending"`
	CompletionRate int    `json:"completion_rate"`
	TopType        string `json:"top_type,omitempty"`
}

// CaseData is the shared case context pre-filled across tools.
type CaseData struct {
	NumeroProcesso string `json:"numero_processo"`
	Cargo          string `json:"cargo"`
	Promotor       string `json:"promotor"`
	DataAudiencia  string `json:"data_audiencia,omitempty" format:"date"`
}

// Person is a case party, entered manually or extracted by the AI adapter.
type Person struct {
	ID             string `json:"id"`
	Nome           string `json:"nome"`
	Folha          string `json:"folha,omitempty"`
	Nacionalidade  string `json:"nacionalidade,omitempty"`
	CPF            string `json:"cpf,omitempty"`
	RG             string `json:"rg,omitempty"`
	Pai            string `json:"pai,omitempty"`
	Mae            string `json:"mae,omitempty"`
	DataNascimento string `json:"data_nascimento,omitempty" format:"date"`
}

// ImportedActivity is one task pulled out of a pasted chat transcript before
// it becomes a stored Activity.
type ImportedActivity struct {
	NumeroProcesso string `json:"numeroProcesso,omitempty"`
	Tipo           string `json:"tipo"`
	Observacao     string `json:"observacao"`
	Data           string `json:"data,omitempty" format:"date"`
}

// MasterPromotor mirrors the remote staff roster table.
type MasterPromotor struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
}

// CargoAcumulacao links a post to its titular and optional covering
// prosecutor for a validity window.
type CargoAcumulacao struct {
	ID                  int64   `json:"id"`
	CargoNome           string  `json:"cargo_nome"`
	EhAcumulacao        bool    `json:"eh_acumulacao"`
	DataInicio          *string `json:"data_inicio,omitempty" format:"date"`
	DataFim             *string `json:"data_fim,omitempty" format:"date"`
	PromotorTitularID   *int64  `json:"promotor_titular_id,omitempty"`
	PromotorDesignadoID *int64  `json:"promotor_designado_id,omitempty"`
	PromotorTitular     string  `json:"promotor_titular,omitempty"`
	PromotorDesignado   string  `json:"promotor_designado,omitempty"`
}
