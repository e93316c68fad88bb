// Package render builds the HTML documents the workbench pastes into the
// office systems: the NI research letter, official letters, SIS Digital
// termos and the ANPP request form. Every renderer returns a Document with
// both the HTML body and a plain-text fallback, mirroring the dual-MIME
// clipboard payload the tools produce.
package render

import (
	"fmt"
	"html"
	"strings"
	"time"

	"gabinete/internal/domain"
	"gabinete/internal/roster"
)

const (
	blank      = "________________"
	blankWide  = "________________________________"
	blankCargo = "____________________"
	blankDocID = "____._______/____"
)

// Document is a rendered artifact ready for the clipboard or a file.
type Document struct {
	Title string `json:"title"`
	HTML  string `json:"html"`
	Text  string `json:"text"`
}

func newDocument(title, body string) Document {
	return Document{Title: title, HTML: body, Text: StripHTML(body)}
}

// StripHTML flattens an HTML fragment to plain text. Block-closing tags and
// <br> become newlines so pasted text keeps its paragraph structure.
func StripHTML(s string) string {
	var b strings.Builder
	inTag := false
	var tag strings.Builder
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
			tag.Reset()
		case r == '>' && inTag:
			inTag = false
			switch name := tagName(tag.String()); name {
			case "br", "/p", "/li", "/div", "/tr", "/ul", "/h2":
				b.WriteByte('\n')
			}
		case inTag:
			tag.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	lines := strings.Split(html.UnescapeString(b.String()), "\n")
	out := make([]string, 0, len(lines))
	blanks := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			blanks++
			if blanks > 1 {
				continue
			}
		} else {
			blanks = 0
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func tagName(raw string) string {
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "/")
	if i := strings.IndexAny(raw, " \t\n"); i >= 0 {
		raw = raw[:i]
	}
	return strings.ToLower(raw)
}

func esc(s string) string { return html.EscapeString(s) }

func orBlank(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// formatDate converts YYYY-MM-DD into DD/MM/YYYY, leaving anything else as is.
func formatDate(s string) string {
	parts := strings.Split(s, "-")
	if len(parts) == 3 {
		return parts[2] + "/" + parts[1] + "/" + parts[0]
	}
	return s
}

// NILetter renders the research request listing the parties to locate.
func NILetter(caseData domain.CaseData, people []domain.Person) Document {
	processo := orBlank(esc(caseData.NumeroProcesso), blank)
	promotor := orBlank(esc(caseData.Promotor), blank)
	cargo := orBlank(esc(caseData.Cargo), blank)
	code := roster.CargoCode(caseData.Cargo)

	var parties strings.Builder
	if len(people) == 0 {
		parties.WriteString(`<p style="color: #94a3b8; font-style: italic; margin-left: 40px;">Adicione partes para visualizar aqui...</p>`)
	}
	for _, p := range people {
		parties.WriteString(`<ul style="list-style-type: disc; margin-left: 40px; margin-bottom: 24px; padding-left: 0; font-size: 14px; color: #000;">` + "\n")
		fmt.Fprintf(&parties, `<li style="margin-bottom: 4px;"><b>Nome:</b> %s - (Fls. %s)</li>`+"\n", esc(p.Nome), esc(p.Folha))
		fmt.Fprintf(&parties, `<li style="margin-bottom: 4px;"><b>Nacionalidade:</b> %s</li>`+"\n", esc(p.Nacionalidade))
		fmt.Fprintf(&parties, `<li style="margin-bottom: 4px;"><b>CPF:</b> %s</li>`+"\n", esc(p.CPF))
		fmt.Fprintf(&parties, `<li style="margin-bottom: 4px;"><b>RG:</b> %s</li>`+"\n", esc(p.RG))
		fmt.Fprintf(&parties, `<li style="margin-bottom: 4px;"><b>Pai:</b> %s</li>`+"\n", esc(p.Pai))
		fmt.Fprintf(&parties, `<li style="margin-bottom: 4px;"><b>Mãe:</b> %s</li>`+"\n", esc(p.Mae))
		fmt.Fprintf(&parties, `<li style="margin-bottom: 4px;"><b>Data de Nascimento:</b> %s</li>`+"\n", esc(formatDate(p.DataNascimento)))
		parties.WriteString("</ul>\n")
	}

	title := strings.TrimSpace(fmt.Sprintf("Pesquisa - Autos - %s %s", orBlank(caseData.NumeroProcesso, blank), code))
	body := fmt.Sprintf(`<div style="font-family: 'Inter', sans-serif; color: #000; line-height: 1.6; font-size: 14px;">
<p style="margin-bottom: 24px;"><b>Pesquisa - Autos - %s %s</b></p>
<p style="margin-bottom: 24px;">Prezados,</p>
<p style="margin-bottom: 24px;">A pedido do(a). Dr.(a) <b>%s</b>, %s, solicito a localização de:</p>
<div style="margin-bottom: 32px;">
%s</div>
<p>Atenciosamente,</p>
</div>`, processo, code, promotor, cargo, parties.String())
	return newDocument(title, body)
}

// OficioTemplate selects one of the fixed letter bodies, or the AI-drafted one.
type OficioTemplate string

const (
	OficioGeralDP           OficioTemplate = "GERAL_DP"
	OficioInqueritoApartado OficioTemplate = "INQUERITO_APARTADO"
	OficioUrgenciaIC        OficioTemplate = "URGENCIA_IC"
	OficioCorregedoria      OficioTemplate = "CORREGEDORIA"
	OficioPedidoCopias      OficioTemplate = "PEDIDO_COPIAS_JUIZO"
	OficioGaespAbuso        OficioTemplate = "GAESP_ABUSO"
	OficioGeracaoIA         OficioTemplate = "GERACAO_IA"
)

// OficioTemplates lists the selectable templates in menu order.
var OficioTemplates = []OficioTemplate{
	OficioGeralDP,
	OficioInqueritoApartado,
	OficioUrgenciaIC,
	OficioCorregedoria,
	OficioPedidoCopias,
	OficioGaespAbuso,
	OficioGeracaoIA,
}

// OficioInput carries everything the letter renderer needs. Addressee fields
// come either from the configured catalog or from manual entry.
type OficioInput struct {
	Template     OficioTemplate
	Cargo        string
	Processo     string
	NumeroOficio string
	Unit         string

	Orgao        string
	Destinatario string
	Endereco     string
	Email        string

	TextoLivre          string
	IdentificacaoObjeto string
	ReuNome             string

	// IABody is trusted HTML produced by the drafting adapter.
	IABody string

	Now time.Time
}

// Oficio renders the official letter: fixed header, the selected body and
// the signature plus addressee footer.
func Oficio(in OficioInput) Document {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	unit := orBlank(in.Unit, "4ª PJCrim")
	year := now.Format("06")

	header := fmt.Sprintf(`<div style="margin-bottom: 20px;">
<p><b>Ofício nº %s/%s - %s</b><br>
<b>Autos nº: %s</b><br>
(Favor mencionar as referências acima)</p>
</div>
<p style="text-align: right;">São Paulo, data infra.</p>`,
		orBlank(esc(in.NumeroOficio), "____"), year, esc(unit), orBlank(esc(in.Processo), blank))

	lead := strings.ToUpper(roster.Lead(in.Cargo))
	acLine := ""
	if in.Destinatario != "" {
		acLine = "A/C " + esc(in.Destinatario) + "<br>\n"
	}
	footer := fmt.Sprintf(`<div style="text-align: center; margin-top: 60px; margin-bottom: 40px;">
<b>%s</b><br>
%s
</div>
<div style="font-size: 11px; color: #444; border-top: 1px solid #eee;">
<b>Ao: %s</b><br>
%s%s<br>
E-mail: %s
</div>`,
		orBlank(lead, blank),
		orBlank(esc(in.Cargo), "Promotor(a) de Justiça"),
		orBlank(esc(in.Orgao), blank),
		acLine,
		orBlank(esc(in.Endereco), "Endereço não informado"),
		orBlank(esc(in.Email), blank))

	body := fmt.Sprintf(`<div style="font-family: 'Times New Roman', Times, serif; font-size: 14px; color: #000; line-height: 1.5; text-align: justify;">
%s
%s
%s
</div>`, header, oficioBody(in), footer)

	title := fmt.Sprintf("Ofício nº %s/%s - %s", orBlank(in.NumeroOficio, "____"), year, unit)
	return newDocument(title, body)
}

func oficioBody(in OficioInput) string {
	switch in.Template {
	case OficioGeracaoIA:
		if in.IABody != "" {
			return in.IABody
		}
		return `<p style="color: #666;"><i>O corpo do ofício será gerado pela Inteligência Artificial e aparecerá aqui.</i></p>
<p style="color: #666;"><i>Preencha os dados de contexto no painel lateral para iniciar.</i></p>`
	case OficioUrgenciaIC:
		return fmt.Sprintf(`<p><b>EXCELENTÍSSIMO(A) SENHOR(A) DOUTOR(A) DIRETOR(A) DO INSTITUTO DE CRIMINALÍSTICA,</b></p>
<br>
<p>Pelo presente, encaminho cópia de requisição pericial referente aos autos em epígrafe e solicito a Vossa Excelência a elaboração e a remessa, <b>com urgência</b>, do Laudo Pericial solicitado referente ao objeto <b>%s</b>.</p>
<p>Ocorre que o referido objeto possui risco de perecimento da prova (ex: bateria de curta duração), o que causará prejuízo à elucidação dos fatos e à persecução penal.</p>
<p>Na oportunidade, apresento protestos de estima e consideração.</p>`,
			orBlank(esc(in.IdentificacaoObjeto), blank))
	case OficioInqueritoApartado:
		return fmt.Sprintf(`<p><b>EXCELENTÍSSIMO SENHOR DELEGADO DE POLÍCIA,</b></p>
<br>
<p>Pelo presente, encaminho o procedimento em epígrafe e, com fundamento no disposto nos artigos 103 e 104 da Lei Complementar nº 734/93, <b>REQUISITO</b> a Vossa Excelência a instauração de <b>INQUÉRITO POLICIAL APARTADO</b> para apurar <b>%s</b>, em relação a <b>%s</b>.</p>
<p>Aguardamos informações sobre o número do inquérito instaurado.</p>`,
			orBlank(esc(in.TextoLivre), blank), orBlank(esc(in.ReuNome), blank))
	case OficioCorregedoria:
		return `<p><b>EXCELENTÍSSIMO(A) SENHOR(A) DOUTOR(A) DELEGADO(A) DIRETOR(A) DA CORREGEDORIA GERAL DA POLÍCIA CIVIL,</b></p>
<br>
<p>Por dever de ofício, nos termos do art. 43, VIII da Lei 8.625/1993, encaminho cópias dos autos em epígrafe a fim de que seja apurada <b>eventual desídia e atraso injustificado</b> no trato da investigação.</p>
<p>Verifica-se que o feito retornou da repartição policial sem qualquer anotação ou diligência frutífera, apesar de sucessivos pedidos de dilação de prazo, o que compromete a celeridade processual em caso de gravidade notória.</p>
<p>Diante do exposto, requeiro adoção de providências para sanar a falha administrativa.</p>`
	case OficioPedidoCopias:
		return fmt.Sprintf(`<p><b>EXCELENTÍSSIMO(A) SENHOR(A) DOUTOR(A) JUIZ(A) DE DIREITO DA %s,</b></p>
<br>
<p>Pelo presente, venho, respeitosamente, à presença de Vossa Excelência solicitar a <b>remessa de cópias integrais</b> dos autos em referência, especificamente documentos relativos a <b>%s</b>.</p>
<p>Tais documentos são necessários para a instrução de Notícia de Fato Criminal em trâmite nesta Promotoria de Justiça para análise de eventual conduta delituosa.</p>
<p>Na oportunidade, apresento protestos de estima e consideração.</p>`,
			orBlank(esc(in.Orgao), "____ª VARA"), orBlank(esc(in.TextoLivre), blank))
	case OficioGaespAbuso:
		return `<p><b>EXCELENTÍSSIMO(A) SENHOR(A) DOUTOR(A) PROMOTOR(A) DE JUSTIÇA DO GAESP,</b></p>
<br>
<p>Encaminho cópia do processo em epígrafe a fim de solicitar providências quanto a indícios de <b>abuso de autoridade e controle inadequado do uso de BODYCAMs</b> por parte dos policiais militares envolvidos na operação.</p>
<p>As gravações evidenciam manuseio inadequado, com obstrução de lentes em momentos cruciais e entrada em domicílio sem mandado judicial ou situação de flagrante, além de agressão física registrada.</p>
<p>Encaminho em anexo a cronologia detalhada dos eventos captados pelas câmeras corporais.</p>`
	default:
		return fmt.Sprintf(`<p><b>EXCELENTÍSSIMO SENHOR DELEGADO DE POLÍCIA,</b></p>
<br>
<p>Pelo presente, venho solicitar a Vossa Senhoria esclarecimentos sobre o destino do BO nº <b>%s</b>, bem como informações sobre o atual estágio das investigações.</p>
<p>%s</p>
<p>Respeitosamente,</p>`,
			orBlank(esc(in.IdentificacaoObjeto), "____"),
			orBlank(esc(in.TextoLivre), "Diligências adicionais conforme cota ministerial anexa."))
	}
}

// Operator identifies who signs the procedural termos.
type Operator struct {
	Name      string
	Matricula string
	Role      string
}

// TermoInput parametrizes the SIS Digital termo renderers.
type TermoInput struct {
	Cargo      string
	DocID      string
	TipoDoc    string // "NF" or "ATENDIMENTO"
	DocJuntado string
	Folhas     string
	Operator   Operator
}

func (in TermoInput) docLabel() string {
	if in.TipoDoc == "NF" {
		return "Notícia de Fato"
	}
	return "Atendimento"
}

func (in TermoInput) docAbbr() string {
	if in.TipoDoc == "NF" {
		return "N.F"
	}
	return "Atendimento"
}

// Cortesia is the honorific used in termos and chat messages for the lead
// prosecutor of the post. Unknown posts get the neutral form.
func Cortesia(cargoLabel string) string {
	p, ok := roster.Find(cargoLabel)
	if !ok || len(p.Schedule) == 0 {
		return "Dr(a)."
	}
	if p.Schedule[0].Gender == "F" {
		return "Dra."
	}
	return "Dr."
}

func cargoNumber(label string) string {
	start := -1
	for i, r := range label {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return label[start:i]
		}
	}
	if start >= 0 {
		return label[start:]
	}
	return ""
}

// TermoConclusao renders the conclusion termo sending the record to the
// lead prosecutor of the selected post.
func TermoConclusao(in TermoInput) Document {
	promotor := orBlank(esc(roster.Lead(in.Cargo)), blank)
	body := fmt.Sprintf(`<div style="font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.5; color: #000;">
<p style="text-align: center; font-weight: bold; text-decoration: underline; margin-bottom: 20px;">TERMO DE CONCLUSÃO</p>
<p>%s n° %s.</p>
<p>Cargo: %s° Promotor de Justiça Criminal da Capital</p>
<br>
<p>Na data infra, eu, %s (assinatura eletrônica), %s, Matrícula %s, faço estes autos conclusos ao(à) %s <b>%s</b>.</p>
</div>`,
		in.docLabel(), orBlank(esc(in.DocID), blankDocID),
		orBlank(cargoNumber(in.Cargo), "____"),
		esc(in.Operator.Name), esc(in.Operator.Role), esc(in.Operator.Matricula),
		Cortesia(in.Cargo), promotor)
	return newDocument("TERMO DE CONCLUSÃO", body)
}

// TermoJuntada renders the filing termo for an attached document.
func TermoJuntada(in TermoInput) Document {
	body := fmt.Sprintf(`<div style="font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.5; color: #000;">
<p style="text-align: center; font-weight: bold; text-decoration: underline; margin-bottom: 20px;">TERMO DE JUNTADA</p>
<p>%s n° %s.</p>
<p>Cargo: %s° Promotor de Justiça Criminal da Capital</p>
<br>
<p>Nesta data, procedo à juntada do(a) <b>%s</b>, referente às fls. <b>%s</b>.</p>
<br>
<p>São Paulo, data infra.</p>
<br><br>
<p>%s (assinatura eletrônica)<br>%s<br>Matrícula %s</p>
</div>`,
		in.docLabel(), orBlank(esc(in.DocID), blankDocID),
		orBlank(cargoNumber(in.Cargo), "____"),
		orBlank(esc(in.DocJuntado), blank), orBlank(esc(in.Folhas), "____"),
		esc(in.Operator.Name), esc(in.Operator.Role), esc(in.Operator.Matricula))
	return newDocument("TERMO DE JUNTADA", body)
}

// ProsecutorMessage is the short chat notice sent after opening a conclusion.
func ProsecutorMessage(in TermoInput) string {
	lead := roster.Lead(in.Cargo)
	firstName := "Promotor(a)"
	if lead != "" {
		firstName = strings.Fields(lead)[0]
	}
	return fmt.Sprintf("%s %s, apenas para informar que foi aberto conclusão para análise na %s %s",
		Cortesia(in.Cargo), firstName, in.docAbbr(), orBlank(in.DocID, blankDocID))
}

// ANPPParte is one accused person on the SAAf request form.
type ANPPParte struct {
	Nome     string `json:"nome"`
	Endereco string `json:"endereco"`
	Contato  string `json:"contato"`
}

// ANPPInput parametrizes the plea-agreement request form. Tipo is the record
// format (Digital or Físico); TipoAnpp selects the celebration mode.
type ANPPInput struct {
	Processo       string
	Tipo           string
	Cargo          string
	PrazoDefesa    string
	TipoAnpp       string // "minuta" or "teams"
	Observacao     string
	ContatosVitima string
	Partes         []ANPPParte
	Unit           string
}

// FilledPartes drops entries without a name, matching how the form counts
// its accused.
func (in ANPPInput) FilledPartes() []ANPPParte {
	out := make([]ANPPParte, 0, len(in.Partes))
	for _, p := range in.Partes {
		if strings.TrimSpace(p.Nome) != "" {
			out = append(out, p)
		}
	}
	return out
}

func checkbox(checked bool, label string) string {
	mark := "&nbsp;"
	if checked {
		mark = "X"
	}
	return fmt.Sprintf(`<span style="border: 1px solid #000; padding: 0 4px; font-weight: bold;">%s</span> %s`, mark, strings.ToUpper(label))
}

// ANPPForm renders the SAAf request form for a non-prosecution agreement.
func ANPPForm(in ANPPInput) Document {
	unit := orBlank(in.Unit, "4ª Promotoria de Justiça Criminal da Capital")
	if in.PrazoDefesa == "" {
		in.PrazoDefesa = "60"
	}
	promotor := strings.ToUpper(roster.Lead(in.Cargo))
	cargoTitle := blankCargo
	if n := cargoNumber(in.Cargo); n != "" {
		cargoTitle = n + "º Promotor de Justiça Criminal"
	}

	partes := in.FilledPartes()
	total := len(partes)
	if total == 0 {
		partes = []ANPPParte{{}}
		total = 1
	}
	var rows strings.Builder
	for i, p := range partes {
		fmt.Fprintf(&rows, `<tr>
<td style="border: 1px solid #000; width: 40px; text-align: center; font-weight: bold; background: #ddd;">%d</td>
<td style="border: 1px solid #000; padding: 0;">
<table style="width: 100%%; border-collapse: collapse;">
<tr><td style="width: 15%%; background: #f0f0f0; font-weight: bold; padding: 2px 6px; font-size: 9px;">NOME COMPLETO</td><td style="padding: 2px 6px; font-weight: bold;">%s</td></tr>
<tr><td style="background: #f0f0f0; font-weight: bold; padding: 2px 6px; font-size: 9px;">ENDEREÇO</td><td style="padding: 2px 6px;">%s</td></tr>
<tr><td style="background: #f0f0f0; font-weight: bold; padding: 2px 6px; font-size: 9px;">CONTATOS</td><td style="padding: 2px 6px;">%s</td></tr>
</table>
</td>
</tr>
`, i+1,
			strings.ToUpper(orBlank(esc(p.Nome), blankWide)),
			strings.ToUpper(orBlank(esc(p.Endereco), blankWide)),
			strings.ToUpper(orBlank(esc(p.Contato), blankWide)))
	}

	body := fmt.Sprintf(`<div style="font-family: 'Arial', sans-serif; font-size: 13px; color: #000;">
<div style="border-bottom: 3px solid #000; padding-bottom: 12px; margin-bottom: 18px;">
<p style="margin: 0; font-weight: 900; font-size: 18px;">MINISTÉRIO PÚBLICO</p>
<p style="margin: 0; letter-spacing: 2px; text-transform: uppercase;">Do Estado de São Paulo</p>
<p style="margin: 0; font-weight: bold; color: #555;">%s</p>
<p style="margin: 4px 0 0; font-weight: bold; text-transform: uppercase;">SAAf - Apoio à Atividade Fim · Formulário de Solicitação</p>
</div>
<h2 style="text-align: center; text-transform: uppercase; border: 2px solid #000; padding: 6px; background: #f0f0f0;">Solicitação de Acordo de Não Persecução Penal</h2>
<table style="width: 100%%; border-collapse: collapse; margin-bottom: 18px;">
<tr>
<td style="border: 1px solid #000; background: #ddd; font-weight: bold; padding: 6px; width: 15%%;">Nº DOS AUTOS</td>
<td style="border: 1px solid #000; padding: 6px; font-weight: bold; width: 45%%;">%s</td>
<td style="border: 1px solid #000; background: #ddd; font-weight: bold; padding: 6px; width: 10%%;">FORMATO</td>
<td style="border: 1px solid #000; padding: 6px; width: 30%%;">%s &nbsp;&nbsp; %s</td>
</tr>
<tr>
<td style="border: 1px solid #000; background: #ddd; font-weight: bold; padding: 6px;">PROMOTOR(A)</td>
<td colspan="3" style="border: 1px solid #000; padding: 6px; font-weight: bold;">%s</td>
</tr>
<tr>
<td style="border: 1px solid #000; background: #ddd; font-weight: bold; padding: 6px;">CARGO</td>
<td style="border: 1px solid #000; padding: 6px; text-transform: uppercase;">%s</td>
<td style="border: 1px solid #000; background: #ddd; font-weight: bold; padding: 6px;">PRAZO DEFESA</td>
<td style="border: 1px solid #000; padding: 6px;">%s DIAS</td>
</tr>
</table>
<p style="background: #000; color: #fff; font-weight: bold; text-transform: uppercase; padding: 3px 8px; margin: 0;">Dados dos Imputados / Investigados · Total: %d</p>
<table style="width: 100%%; border-collapse: collapse; margin-bottom: 18px;">
%s</table>
<div style="border: 1px solid #000; margin-bottom: 18px;">
<p style="background: #ddd; font-weight: bold; text-transform: uppercase; padding: 3px 8px; margin: 0; border-bottom: 1px solid #000;">Dados / Contatos da Vítima (Se houver)</p>
<p style="padding: 10px; min-height: 40px; margin: 0; text-transform: uppercase;">%s</p>
</div>
<div style="border: 1px solid #000; margin-bottom: 18px;">
<p style="background: #ddd; font-weight: bold; text-transform: uppercase; padding: 3px 8px; margin: 0; border-bottom: 1px solid #000;">Observações Gerais / Diligências Pendentes</p>
<p style="padding: 10px; min-height: 60px; margin: 0; text-transform: uppercase; white-space: pre-wrap;">%s</p>
</div>
<div style="border: 2px solid #000; padding: 12px; background: #fafafa;">
<b style="text-transform: uppercase;">Forma de Celebração Sugerida:</b> &nbsp; %s &nbsp;&nbsp; %s
</div>
</div>`,
		esc(unit),
		strings.ToUpper(orBlank(esc(in.Processo), blankWide)),
		checkbox(in.Tipo == "Físico", "Físico"), checkbox(in.Tipo == "Digital", "Digital"),
		orBlank(promotor, blankWide+blankWide),
		cargoTitle,
		esc(in.PrazoDefesa),
		total,
		rows.String(),
		orBlank(esc(in.ContatosVitima), "Sem informações de contato."),
		esc(in.Observacao),
		checkbox(in.TipoAnpp == "minuta", "Minuta (Padrão)"),
		checkbox(in.TipoAnpp == "teams", "Audiência Virtual (Teams)"))

	return newDocument("Solicitação de Acordo de Não Persecução Penal", body)
}
