package server

import (
	"gabinete/internal/domain"
	"gabinete/internal/render"
)

// SaveActivityRequest creates or updates one activity. An empty id creates.
type SaveActivityRequest struct {
	ID             string                `json:"id,omitempty"`
	NumeroProcesso string                `json:"numero_processo"`
	Data           string                `json:"data" format:"date"`
	Status         domain.ActivityStatus `json:"status"`
	Tipo           string                `json:"tipo"`
	Cargo          string                `json:"cargo"`
	Promotor       string                `json:"promotor,omitempty"`
	Observacao     string                `json:"observacao,omitempty"`
}

// ActivityListResponse is one page of activities plus the cursor for the
// next one. An empty cursor means the listing is exhausted.
type ActivityListResponse struct {
	Activities []domain.Activity `json:"activities"`
	NextData   string            `json:"next_data,omitempty"`
	NextID     string            `json:"next_id,omitempty"`
}

// QuickStatusRequest sets the status of one activity.
type QuickStatusRequest struct {
	Status domain.ActivityStatus `json:"status"`
}

// SyncResponse reports how many pending records were pushed.
type SyncResponse struct {
	Pushed int    `json:"pushed"`
	Mode   string `json:"mode"`
}

// RosterEntry is one scheduled coverage window of a post.
type RosterEntry struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

// RosterPost is a post with its full schedule.
type RosterPost struct {
	Label    string        `json:"label"`
	Schedule []RosterEntry `json:"schedule"`
}

// ResolveResponse is the outcome of a duty lookup.
type ResolveResponse struct {
	Cargo     string `json:"cargo"`
	Data      string `json:"data,omitempty"`
	Promotor  string `json:"promotor"`
	Honorific string `json:"honorific"`
	CargoCode string `json:"cargo_code,omitempty"`
}

// NIRenderRequest renders the party-location letter.
type NIRenderRequest struct {
	CaseData domain.CaseData `json:"case_data"`
	People   []domain.Person `json:"people,omitempty"`
}

// OficioRenderRequest renders an official letter. When destinatario_key
// names a configured catalog entry, its addressee block fills any fields
// left empty here.
type OficioRenderRequest struct {
	Template            render.OficioTemplate `json:"template" enum:"GERAL_DP,INQUERITO_APARTADO,URGENCIA_IC,CORREGEDORIA,PEDIDO_COPIAS_JUIZO,GAESP_ABUSO,GERACAO_IA"`
	Cargo               string                `json:"cargo,omitempty"`
	Processo            string                `json:"processo,omitempty"`
	NumeroOficio        string                `json:"numero_oficio,omitempty"`
	DestinatarioKey     string                `json:"destinatario_key,omitempty"`
	Orgao               string                `json:"orgao,omitempty"`
	Destinatario        string                `json:"destinatario,omitempty"`
	Endereco            string                `json:"endereco,omitempty"`
	Email               string                `json:"email,omitempty"`
	TextoLivre          string                `json:"texto_livre,omitempty"`
	IdentificacaoObjeto string                `json:"identificacao_objeto,omitempty"`
	ReuNome             string                `json:"reu_nome,omitempty"`
	IABody              string                `json:"ia_body,omitempty"`
}

// TermoRenderRequest renders a SIS Digital termo.
type TermoRenderRequest struct {
	Termo      string `json:"termo" enum:"CONCLUSAO,JUNTADA"`
	Cargo      string `json:"cargo,omitempty"`
	DocID      string `json:"doc_id,omitempty"`
	TipoDoc    string `json:"tipo_doc" enum:"NF,ATENDIMENTO"`
	DocJuntado string `json:"doc_juntado,omitempty"`
	Folhas     string `json:"folhas,omitempty"`
}

// TermoRenderResponse carries the document plus the chat notice sent to the
// prosecutor after a conclusion.
type TermoRenderResponse struct {
	Document render.Document `json:"document"`
	Message  string          `json:"message,omitempty"`
}

// ANPPRenderRequest renders the SAAf request form.
type ANPPRenderRequest struct {
	Processo       string             `json:"processo,omitempty"`
	Tipo           string             `json:"tipo,omitempty" enum:"Digital,Físico"`
	Cargo          string             `json:"cargo,omitempty"`
	PrazoDefesa    string             `json:"prazo_defesa,omitempty"`
	TipoAnpp       string             `json:"tipo_anpp,omitempty" enum:"minuta,teams"`
	Observacao     string             `json:"observacao,omitempty"`
	ContatosVitima string             `json:"contatos_vitima,omitempty"`
	Partes         []render.ANPPParte `json:"partes,omitempty" maxItems:"8"`
}

// SaveCargoRequest creates one accumulation record.
type SaveCargoRequest struct {
	CargoNome           string  `json:"cargo_nome"`
	EhAcumulacao        bool    `json:"eh_acumulacao"`
	DataInicio          *string `json:"data_inicio,omitempty" format:"date"`
	DataFim             *string `json:"data_fim,omitempty" format:"date"`
	PromotorTitularID   *int64  `json:"promotor_titular_id,omitempty"`
	PromotorDesignadoID *int64  `json:"promotor_designado_id,omitempty"`
}

// FileUpload is an inline base64 document for the AI endpoints.
type FileUpload struct {
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// ExtractPersonRequest parses free text into a party.
type ExtractPersonRequest struct {
	Text string `json:"text" minLength:"1"`
}

// ExtractMultaRequest reads a fine certificate scan.
type ExtractMultaRequest struct {
	File FileUpload `json:"file"`
}

// CleanTextRequest extracts the clean text of an archiving promotion.
type CleanTextRequest struct {
	File FileUpload `json:"file"`
}

// DraftOficioRequest generates the body of an official letter.
type DraftOficioRequest struct {
	Orgao        string      `json:"orgao,omitempty"`
	Destinatario string      `json:"destinatario,omitempty"`
	Instrucao    string      `json:"instrucao" minLength:"1"`
	Contexto     string      `json:"contexto,omitempty"`
	File         *FileUpload `json:"file,omitempty"`
}

// ImportChatRequest mines a prosecutor chat for tasks and stores them.
type ImportChatRequest struct {
	Cargo string      `json:"cargo"`
	Text  string      `json:"text,omitempty"`
	File  *FileUpload `json:"file,omitempty"`
}

// ImportChatResponse lists the stored activities.
type ImportChatResponse struct {
	Imported   int               `json:"imported"`
	Activities []domain.Activity `json:"activities"`
}

// MentorRequest asks the legal mentor a question, optionally over a document.
type MentorRequest struct {
	Prompt string      `json:"prompt,omitempty"`
	File   *FileUpload `json:"file,omitempty"`
}

// MentorDraftRequest turns a prior analysis into an official document.
type MentorDraftRequest struct {
	Analysis  string `json:"analysis" minLength:"1"`
	Instrucao string `json:"instrucao" minLength:"1"`
}

// TextResponse is a plain generated text payload.
type TextResponse struct {
	Text string `json:"text"`
}

// ValidatePersonRequest checks and formats a party before it joins a case.
type ValidatePersonRequest struct {
	Person domain.Person `json:"person"`
}

// ValidatePersonResponse returns the party with CPF and RG masks applied.
type ValidatePersonResponse struct {
	Person domain.Person `json:"person"`
}

// EsajResponse carries the court lookup URL for a process number.
type EsajResponse struct {
	URL string `json:"url"`
}
