// Package ai wraps the Gemini API behind typed adapters: party and penalty
// certificate extraction, archiving promotion text cleanup, chat-to-activity
// import, official letter drafting and the legal mentor.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"gabinete/internal/domain"
)

const (
	// DefaultModel handles extraction and drafting.
	DefaultModel = "gemini-3-flash-preview"
	// DefaultProModel handles the mentor, where deeper reasoning pays off.
	DefaultProModel = "gemini-3-pro-preview"

	mentorThinkingBudget int32 = 2048
)

const mentorSystemInstruction = "Você é um Mentor Jurídico Sênior e Promotor de Justiça experiente do Ministério Público de São Paulo. Sua função é analisar documentos jurídicos (PDFs), identificar teses, sugerir estratégias processuais e responder a dúvidas do usuário com linguagem técnica, formal e fundamentada. Seja direto, cite artigos de lei quando pertinente e foque na melhor estratégia para a acusação ou fiscalização da lei."

// Options configures the client. Zero values fall back to the defaults.
type Options struct {
	APIKey     string
	Model      string
	ProModel   string
	MaxRetries int
	// Operator is the workbench owner's name, used to tell their side of a
	// chat transcript apart from the prosecutor's.
	Operator string
	Now      func() time.Time
}

// Client is a thin typed layer over the Gemini SDK.
type Client struct {
	genai      *genai.Client
	model      string
	proModel   string
	maxRetries int
	operator   string
	now        func() time.Time
}

// New dials the Gemini API. The key is required; everything else defaults.
func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("ai: missing API key")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: opts.APIKey})
	if err != nil {
		return nil, fmt.Errorf("ai: create client: %w", err)
	}
	c := &Client{
		genai:      gc,
		model:      opts.Model,
		proModel:   opts.ProModel,
		maxRetries: opts.MaxRetries,
		operator:   opts.Operator,
		now:        opts.Now,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.proModel == "" {
		c.proModel = DefaultProModel
	}
	if c.operator == "" {
		c.operator = "o usuário"
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

// Attachment is an uploaded document forwarded inline to the model.
type Attachment struct {
	MIMEType string
	Data     []byte
}

func (c *Client) generate(ctx context.Context, model string, parts []*genai.Part, cfg *genai.GenerateContentConfig) (string, error) {
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
		resp, err := c.genai.Models.GenerateContent(ctx, model, contents, cfg)
		if err != nil {
			lastErr = err
			continue
		}
		return resp.Text(), nil
	}
	return "", fmt.Errorf("ai: generate: %w", lastErr)
}

func stringSchema(props []string, required []string) *genai.Schema {
	p := make(map[string]*genai.Schema, len(props))
	for _, name := range props {
		p[name] = &genai.Schema{Type: genai.TypeString}
	}
	return &genai.Schema{Type: genai.TypeObject, Properties: p, Required: required}
}

// ExtractPerson parses free text pasted into the NI sidebar into a party.
func (c *Client) ExtractPerson(ctx context.Context, text string) (domain.Person, error) {
	prompt := fmt.Sprintf(`Extraia os dados desta pessoa para uma pesquisa de antecedentes (NI).
Texto: %q

Extraia rigorosamente:
- nome (Nome completo)
- folha (Número da folha no processo, se houver)
- nacionalidade (Ex: Brasileiro, Estrangeiro)
- cpf (Apenas números ou formatado)
- rg (Apenas números ou formatado)
- pai (Nome do pai)
- mae (Nome da mãe)
- dataNascimento (Data de nascimento no formato YYYY-MM-DD)`, text)

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: stringSchema(
			[]string{"nome", "folha", "nacionalidade", "cpf", "rg", "pai", "mae", "dataNascimento"},
			[]string{"nome"},
		),
	}
	out, err := c.generate(ctx, c.model, []*genai.Part{genai.NewPartFromText(prompt)}, cfg)
	if err != nil {
		return domain.Person{}, err
	}
	var raw struct {
		Nome           string `json:"nome"`
		Folha          string `json:"folha"`
		Nacionalidade  string `json:"nacionalidade"`
		CPF            string `json:"cpf"`
		RG             string `json:"rg"`
		Pai            string `json:"pai"`
		Mae            string `json:"mae"`
		DataNascimento string `json:"dataNascimento"`
	}
	if err := json.Unmarshal([]byte(out), &raw); err != nil {
		return domain.Person{}, fmt.Errorf("ai: parse person: %w", err)
	}
	return domain.Person{
		Nome:           raw.Nome,
		Folha:          raw.Folha,
		Nacionalidade:  raw.Nacionalidade,
		CPF:            domain.FormatCPF(raw.CPF),
		RG:             domain.FormatRG(raw.RG),
		Pai:            raw.Pai,
		Mae:            raw.Mae,
		DataNascimento: raw.DataNascimento,
	}, nil
}

// PenaltyCertificate is the data block read off a criminal fine certificate.
type PenaltyCertificate struct {
	NumeroProcesso string `json:"numeroProcesso"`
	NomeParte      string `json:"nomeParte"`
	CPF            string `json:"cpf"`
	CEP            string `json:"cep"`
	Endereco       string `json:"endereco"`
	Numero         string `json:"numero"`
	EstaPreso      string `json:"estaPreso"`
}

// ExtractPenaltyCertificate reads debtor data from a fine certificate scan.
// When an active prison unit appears in the certificate, the prison address
// takes precedence over the residential one.
func (c *Client) ExtractPenaltyCertificate(ctx context.Context, doc Attachment) (PenaltyCertificate, error) {
	prompt := `Extraia rigorosamente as seguintes informações desta certidão de multa penal:
1. Número do Processo
2. Nome da Parte (conforme consta em Dados do Devedor)
3. CPF
4. CEP
5. Endereço Completo (IMPORTANTE: Se no campo 'Local de Prisão' houver uma unidade prisional ATIVA e não apenas alvará de soltura, use o endereço da prisão. Caso contrário, use o endereço residencial em 'Dados do Devedor')
6. Número do endereço
7. Está preso? (Responda SIM ou NÃO. Se houver unidade prisional indicada em 'Local de Prisão', responda SIM)`

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: stringSchema(
			[]string{"numeroProcesso", "nomeParte", "cpf", "cep", "endereco", "numero", "estaPreso"},
			[]string{"numeroProcesso", "nomeParte", "cpf", "cep", "endereco", "numero", "estaPreso"},
		),
	}
	parts := []*genai.Part{
		genai.NewPartFromBytes(doc.Data, doc.MIMEType),
		genai.NewPartFromText(prompt),
	}
	out, err := c.generate(ctx, c.model, parts, cfg)
	if err != nil {
		return PenaltyCertificate{}, err
	}
	var cert PenaltyCertificate
	if err := json.Unmarshal([]byte(out), &cert); err != nil {
		return PenaltyCertificate{}, fmt.Errorf("ai: parse certificate: %w", err)
	}
	return cert, nil
}

// CleanArchivingText extracts the full text of an archiving promotion,
// dropping lateral signature metadata, barcodes and watermarks.
func (c *Client) CleanArchivingText(ctx context.Context, doc Attachment) (string, error) {
	prompt := `Extraia o texto integral desta PROMOÇÃO DE ARQUIVAMENTO ministerial.

REGRAS CRÍTICAS:
1. IGNORE completamente qualquer texto que esteja nas margens laterais (metadados de assinatura digital, links do esaj, códigos de barras laterais).
2. IGNORE cabeçalhos repetitivos de páginas se houver.
3. Mantenha a formatação de parágrafos.
4. Comece o texto pelo título (ex: EXCELENTÍSSIMO SENHOR JUIZ ou PROMOÇÃO DE ARQUIVAMENTO).
5. Remova as marcas d'água de "Cópia Digital" ou similares.
6. Retorne apenas o texto limpo e formatado.`

	parts := []*genai.Part{
		genai.NewPartFromBytes(doc.Data, doc.MIMEType),
		genai.NewPartFromText(prompt),
	}
	return c.generate(ctx, c.model, parts, nil)
}

// OficioDraftRequest feeds the letter body generator.
type OficioDraftRequest struct {
	Orgao        string
	Destinatario string
	Instrucao    string
	Contexto     string
	Doc          *Attachment
}

// DraftOficioBody writes the central text of an official letter. Header and
// signature are rendered separately, so the model is told to skip them.
func (c *Client) DraftOficioBody(ctx context.Context, req OficioDraftRequest) (string, error) {
	if strings.TrimSpace(req.Instrucao) == "" {
		return "", fmt.Errorf("ai: missing drafting instruction")
	}

	var parts []*genai.Part
	if req.Doc != nil {
		parts = append(parts,
			genai.NewPartFromBytes(req.Doc.Data, req.Doc.MIMEType),
			genai.NewPartFromText("CONTEXTO (Documento Anexo): Utilize as informações do documento acima como base factual."))
	}
	if strings.TrimSpace(req.Contexto) != "" {
		parts = append(parts, genai.NewPartFromText(fmt.Sprintf("CONTEXTO ADICIONAL (Texto): %q", req.Contexto)))
	}

	prompt := fmt.Sprintf(`Você é um Assistente Jurídico Sênior do Ministério Público de São Paulo.
Sua tarefa é redigir o CORPO DE TEXTO de um ofício formal.

NÃO inclua cabeçalho (número do ofício, processo) nem rodapé (assinatura), pois isso será inserido automaticamente pelo sistema.
Concentre-se apenas no texto central.

DADOS DO DESTINATÁRIO (Para vocativo adequado):
- Órgão: %s
- Responsável: %s

SUA MISSÃO (INSTRUÇÃO DO PROMOTOR):
%q

REGRAS DE REDAÇÃO:
1. Inicie com o vocativo adequado (Ex: Excelentíssimo Senhor...).
2. Use linguagem jurídica formal, culta, direta e IMPESSOAL.
3. Se houver documento anexo ou contexto, cite fatos específicos (nomes, datas, folhas) para fundamentar o pedido.
4. Use formatação HTML básica: <p> para parágrafos e <b> para destaques importantes.
5. Finalize com o fecho protocolar padrão (Ex: Apresento protestos de estima e consideração).`,
		req.Orgao, req.Destinatario, req.Instrucao)
	parts = append(parts, genai.NewPartFromText(prompt))

	return c.generate(ctx, c.model, parts, nil)
}

// ImportRequest is a chat transcript to mine for requested tasks. At least
// one of Text and Doc must be present.
type ImportRequest struct {
	Text string
	Doc  *Attachment
}

// ImportActivities reads a prosecutor chat (pasted text, screenshot or PDF)
// and returns the tasks requested in it.
func (c *Client) ImportActivities(ctx context.Context, req ImportRequest) ([]domain.ImportedActivity, error) {
	if strings.TrimSpace(req.Text) == "" && req.Doc == nil {
		return nil, fmt.Errorf("ai: empty import request")
	}
	today := c.now().Format("2006-01-02")

	var b strings.Builder
	fmt.Fprintf(&b, "DATA DE HOJE: %s\n\n", today)
	fmt.Fprintf(&b, `Analise o conteúdo do chat fornecido (que pode ser texto, imagem de screenshot ou PDF).
O usuário principal (dono do celular/print) é %q.
O interlocutor é o Promotor de Justiça.

REGRAS DE EXTRAÇÃO:
1. IGNORE mensagens enviadas pelo usuário principal (lado direito ou identificado como remetente), EXCETO se ele estiver confirmando uma tarefa pendente que ele mesmo anotou.
2. FOQUE nas solicitações do Promotor (ex: "Peça tal coisa", "Verifique o processo X").
3. IGNORE trechos de "Iniciar referência" ou citações de mensagens antigas. Foque na solicitação atual.

DATAS:
O chat contém cabeçalhos de data (ex: "quinta-feira", "11/11").
Use a DATA DE HOJE (%s) como referência para termos como "hoje", "ontem", "segunda-feira".
Associe cada tarefa à data provável da solicitação. Formato YYYY-MM-DD.

Extraia as tarefas solicitadas como uma lista de atividades.

Para cada tarefa, extraia:
1. numeroProcesso: O número do processo formato CNJ (0000000-00.0000.0.00.0000) se presente no texto ou na imagem.
2. tipo: Tente classificar em: 'Multa Penal', 'Pesquisa de NI', 'Notificação - (Art. 28)', 'ANPP - Execuções', 'Ofício', 'Agendamento de Despacho', 'Notícia de Fato', 'Outros'.
3. observacao: O resumo do que deve ser feito (Ex: "Pedir NI para testemunha Felipe", "Enviar cópias para DENARC").
4. data: A data da solicitação (YYYY-MM-DD).`, c.operator, today)
	if strings.TrimSpace(req.Text) != "" {
		fmt.Fprintf(&b, "\n\nTexto Complementar fornecido pelo usuário: %q", req.Text)
	}

	parts := []*genai.Part{genai.NewPartFromText(b.String())}
	if req.Doc != nil {
		parts = append(parts, genai.NewPartFromBytes(req.Doc.Data, req.Doc.MIMEType))
	}

	item := stringSchema(
		[]string{"numeroProcesso", "tipo", "observacao", "data"},
		[]string{"tipo", "observacao"},
	)
	item.Properties["data"].Description = "Data da solicitação YYYY-MM-DD"
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   &genai.Schema{Type: genai.TypeArray, Items: item},
	}

	out, err := c.generate(ctx, c.model, parts, cfg)
	if err != nil {
		return nil, err
	}
	var tasks []domain.ImportedActivity
	if err := json.Unmarshal([]byte(out), &tasks); err != nil {
		return nil, fmt.Errorf("ai: parse imported tasks: %w", err)
	}
	return tasks, nil
}

// MentorRequest is a question, optionally with a case document attached.
type MentorRequest struct {
	Prompt string
	Doc    *Attachment
}

// MentorConsult runs the senior legal mentor over a document or question,
// using the pro model with thinking enabled.
func (c *Client) MentorConsult(ctx context.Context, req MentorRequest) (string, error) {
	var parts []*genai.Part
	if req.Doc != nil {
		parts = append(parts, genai.NewPartFromBytes(req.Doc.Data, req.Doc.MIMEType))
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		prompt = "Analise este documento e forneça um resumo executivo com pontos de atenção para o Ministério Público."
	}
	parts = append(parts, genai.NewPartFromText(prompt))

	budget := mentorThinkingBudget
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(mentorSystemInstruction, genai.RoleUser),
		ThinkingConfig:    &genai.ThinkingConfig{ThinkingBudget: &budget},
	}
	return c.generate(ctx, c.proModel, parts, cfg)
}

// MentorDraft writes an official document grounded on a previous mentor
// analysis.
func (c *Client) MentorDraft(ctx context.Context, analysis, instruction string) (string, error) {
	if strings.TrimSpace(instruction) == "" || strings.TrimSpace(analysis) == "" {
		return "", fmt.Errorf("ai: mentor draft needs an analysis and an instruction")
	}
	prompt := fmt.Sprintf(`Você é um Promotor de Justiça experiente do MPSP. Sua tarefa é redigir documentos oficiais.

ANÁLISE JURÍDICA PRÉVIA (CONTEXTO):
---
%s
---

INSTRUÇÃO PARA O DOCUMENTO:
%q

Com base no contexto e na instrução, elabore o ofício solicitado. O documento deve ser formal, técnico e seguir o padrão do Ministério Público de São Paulo. Inclua placeholders para dados como número do ofício, processo, data e nome do promotor.`,
		analysis, instruction)
	return c.generate(ctx, c.proModel, []*genai.Part{genai.NewPartFromText(prompt)}, nil)
}
