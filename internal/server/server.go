package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"gabinete/internal/ai"
	"gabinete/internal/domain"
	"gabinete/internal/engine"
	"gabinete/internal/remote"
	"gabinete/internal/render"
	"gabinete/internal/repo"
	"gabinete/internal/roster"
)

// Config for the HTTP API handler.
type Config struct {
	Engine   engine.Engine
	AI       *ai.Client
	BasePath string
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"bad_request"`
	Message string         `json:"message" example:"numero_processo is required"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

type requestKey struct{}
type bodyBytesKey struct{}

// apiError models the error envelope.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns an HTTP handler exposing the Gabinete API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v0"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.DefaultArrayNullable = false
	// Override Huma errors to use the envelope above.
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(msg), "validation") {
			// Schema/request validation errors should be 400 bad_request
			status = http.StatusBadRequest
		}
		var details map[string]any
		if len(errs) > 0 {
			details = map[string]any{"errors": errs}
		}
		return newAPIError(status, "", msg, details)
	}

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bodyBytes, _ := io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			ctx := context.WithValue(r.Context(), requestKey{}, r)
			ctx = context.WithValue(ctx, bodyBytesKey{}, bodyBytes)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	hcfg := huma.DefaultConfig("Gabinete API", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	hcfg.DocsPath = "" // custom Swagger UI below
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerDocs(router, basePath)
	registerHealth(group)
	registerActivities(group, cfg.Engine)
	registerRoster(group)
	registerRender(group, cfg.Engine)
	registerCargos(group, cfg.Engine)
	registerAI(group, cfg.Engine, cfg.AI)
	registerOpenAPI(router, api, basePath)

	return router, nil
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	if errors.Is(err, repo.ErrNotFound) {
		return newAPIError(http.StatusNotFound, "not_found", err.Error(), nil)
	}
	if errors.Is(err, remote.ErrOffline) {
		return newAPIError(http.StatusConflict, "offline", err.Error(), nil)
	}
	msg := err.Error()
	lowered := strings.ToLower(msg)
	switch {
	case strings.Contains(lowered, "remote"):
		return newAPIError(http.StatusBadGateway, "remote_error", msg, nil)
	case strings.Contains(lowered, "invalid") || strings.Contains(lowered, "missing") || strings.Contains(lowered, "required"):
		return newAPIError(http.StatusBadRequest, "bad_request", msg, nil)
	default:
		return newAPIError(http.StatusInternalServerError, "internal_error", "internal error", map[string]any{"error": msg})
	}
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "validation_failed"
	case http.StatusBadGateway:
		return "remote_error"
	case http.StatusServiceUnavailable:
		return "ai_unavailable"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

func bodyBytes(ctx context.Context) []byte {
	b, _ := ctx.Value(bodyBytesKey{}).([]byte)
	return b
}

// actorID is the audit identity stamped on write events. There is no auth
// layer; the workbench is single-operator.
func actorID(e engine.Engine) string {
	if e.Config != nil && e.Config.Operator.Name != "" {
		return e.Config.Operator.Name
	}
	return "local"
}

func engineNow(e engine.Engine) time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func registerDocs(r chi.Router, basePath string) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, swaggerHTML(basePath))
	})
}

func registerOpenAPI(r chi.Router, api huma.API, basePath string) {
	var spec []byte
	specPath := path.Join(basePath, "openapi.json")
	r.Get(specPath, func(w http.ResponseWriter, r *http.Request) {
		if spec == nil {
			oas := api.OpenAPI()
			ensureDefaultErrorResponses(oas)
			spec, _ = json.Marshal(oas)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(spec)
	})
}

func ensureDefaultErrorResponses(oas *huma.OpenAPI) {
	if oas == nil || oas.Paths == nil {
		return
	}
	for _, item := range oas.Paths {
		for _, op := range []*huma.Operation{
			item.Get, item.Put, item.Post, item.Delete, item.Options, item.Head, item.Patch, item.Trace,
		} {
			if op == nil {
				continue
			}
			if op.Responses == nil {
				op.Responses = map[string]*huma.Response{}
			}
			op.Responses["default"] = &huma.Response{
				Description: "Error",
				Content: map[string]*huma.MediaType{
					"application/json": {
						Schema: &huma.Schema{Ref: "#/components/schemas/ApiError"},
					},
				},
			}
		}
	}
}

func swaggerHTML(basePath string) string {
	specURL := path.Join("/", path.Join(basePath, "openapi.json"))
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Gabinete API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
    <script>
      window.onload = () => {
        SwaggerUIBundle({
          url: '%s',
          dom_id: '#swagger-ui'
        });
      };
    </script>
  </body>
</html>`, specURL)
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerActivities(api huma.API, e engine.Engine) {
	type idPath struct {
		ID string `path:"id"`
	}

	huma.Register(api, huma.Operation{
		OperationID:   "save-activity",
		Method:        http.MethodPost,
		Path:          "/activities",
		Summary:       "Create or update an activity",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		Body SaveActivityRequest `json:"body"`
	}) (*struct {
		Body domain.Activity `json:"body"`
	}, error) {
		if len(bodyBytes(ctx)) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		a, err := e.SaveActivity(ctx, engine.ActivitySaveOptions{
			ID:             input.Body.ID,
			NumeroProcesso: input.Body.NumeroProcesso,
			Data:           input.Body.Data,
			Status:         input.Body.Status,
			Tipo:           input.Body.Tipo,
			Cargo:          input.Body.Cargo,
			Promotor:       input.Body.Promotor,
			Observacao:     input.Body.Observacao,
			ActorID:        actorID(e),
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Activity `json:"body"`
		}{Body: a}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-activities",
		Method:      http.MethodGet,
		Path:        "/activities",
		Summary:     "List activities",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Status     string `query:"status"`
		Tipo       string `query:"tipo"`
		Cargo      string `query:"cargo"`
		Limit      int    `query:"limit" minimum:"0" maximum:"500"`
		CursorData string `query:"cursor_data"`
		CursorID   string `query:"cursor_id"`
	}) (*struct {
		Body ActivityListResponse `json:"body"`
	}, error) {
		items, err := e.Repo.ListActivities(ctx, repo.ActivityFilters{
			Status:     input.Status,
			Tipo:       input.Tipo,
			Cargo:      input.Cargo,
			Limit:      input.Limit,
			CursorData: input.CursorData,
			CursorID:   input.CursorID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		out := ActivityListResponse{Activities: items}
		if input.Limit > 0 && len(items) == input.Limit {
			last := items[len(items)-1]
			out.NextData = last.Data
			out.NextID = last.ID
		}
		return &struct {
			Body ActivityListResponse `json:"body"`
		}{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "search-activities",
		Method:      http.MethodGet,
		Path:        "/activities/search",
		Summary:     "Search activities",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Q string `query:"q" minLength:"1"`
	}) (*struct {
		Body []domain.Activity `json:"body"`
	}, error) {
		items, err := e.Search(ctx, input.Q)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Activity `json:"body"`
		}{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "activity-metrics",
		Method:      http.MethodGet,
		Path:        "/activities/metrics",
		Summary:     "Dashboard metrics",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body domain.Metrics `json:"body"`
	}, error) {
		m, err := e.Metrics(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Metrics `json:"body"`
		}{Body: m}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "clear-completed-activities",
		Method:      http.MethodPost,
		Path:        "/activities/clear-completed",
		Summary:     "Delete completed and finalized activities",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]int `json:"body"`
	}, error) {
		n, err := e.ClearCompleted(ctx, actorID(e))
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body map[string]int `json:"body"`
		}{Body: map[string]int{"deleted": n}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "clear-activities",
		Method:      http.MethodDelete,
		Path:        "/activities",
		Summary:     "Delete all activities",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]int64 `json:"body"`
	}, error) {
		n, err := e.ClearAll(ctx, actorID(e))
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body map[string]int64 `json:"body"`
		}{Body: map[string]int64{"deleted": n}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "sync-activities",
		Method:      http.MethodPost,
		Path:        "/activities/sync",
		Summary:     "Push unsynced activities to the remote store",
		Errors:      []int{http.StatusBadGateway},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body SyncResponse `json:"body"`
	}, error) {
		mode := string(remote.Offline)
		if e.Remote != nil {
			mode = string(e.Remote.Mode())
		}
		n, err := e.SyncPending(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body SyncResponse `json:"body"`
		}{Body: SyncResponse{Pushed: n, Mode: mode}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-activity",
		Method:      http.MethodGet,
		Path:        "/activities/{id}",
		Summary:     "Get one activity",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *idPath) (*struct {
		Body domain.Activity `json:"body"`
	}, error) {
		a, err := e.Repo.GetActivity(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Activity `json:"body"`
		}{Body: a}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-activity-status",
		Method:      http.MethodPost,
		Path:        "/activities/{id}/status",
		Summary:     "Set the status of an activity",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, input *struct {
		ID   string             `path:"id"`
		Body QuickStatusRequest `json:"body"`
	}) (*struct {
		Body domain.Activity `json:"body"`
	}, error) {
		a, err := e.QuickStatus(ctx, input.ID, input.Body.Status, actorID(e))
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Activity `json:"body"`
		}{Body: a}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "open-activity",
		Method:      http.MethodPost,
		Path:        "/activities/{id}/open",
		Summary:     "Resolve the tool screen and case context for an activity",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *idPath) (*struct {
		Body engine.OpenResult `json:"body"`
	}, error) {
		res, err := e.OpenActivity(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body engine.OpenResult `json:"body"`
		}{Body: res}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-activity",
		Method:      http.MethodDelete,
		Path:        "/activities/{id}",
		Summary:     "Delete an activity",
		Errors: []int{
			http.StatusNotFound,
			http.StatusBadGateway,
		},
	}, func(ctx context.Context, input *idPath) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		if err := e.DeleteActivity(ctx, input.ID, actorID(e)); err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "deleted"}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "esaj-url",
		Method:      http.MethodGet,
		Path:        "/esaj",
		Summary:     "Build the ESAJ lookup URL for a process number",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Processo string `query:"processo" minLength:"1"`
	}) (*struct {
		Body EsajResponse `json:"body"`
	}, error) {
		return &struct {
			Body EsajResponse `json:"body"`
		}{Body: EsajResponse{URL: e.EsajURL(input.Processo)}}, nil
	})
}

func registerRoster(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-roster",
		Method:      http.MethodGet,
		Path:        "/roster",
		Summary:     "List duty posts and their schedules",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []RosterPost `json:"body"`
	}, error) {
		out := make([]RosterPost, 0, len(roster.Labels()))
		for _, label := range roster.Labels() {
			p, _ := roster.Find(label)
			entries := make([]RosterEntry, 0, len(p.Schedule))
			for _, en := range p.Schedule {
				entries = append(entries, RosterEntry{
					Name:   en.Name,
					Gender: en.Gender,
					Start:  en.Start,
					End:    en.End,
				})
			}
			out = append(out, RosterPost{Label: p.Label, Schedule: entries})
		}
		return &struct {
			Body []RosterPost `json:"body"`
		}{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "resolve-roster",
		Method:      http.MethodGet,
		Path:        "/roster/resolve",
		Summary:     "Resolve the prosecutor on duty for a post and date",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Cargo string `query:"cargo" minLength:"1"`
		Data  string `query:"data"`
	}) (*struct {
		Body ResolveResponse `json:"body"`
	}, error) {
		return &struct {
			Body ResolveResponse `json:"body"`
		}{Body: ResolveResponse{
			Cargo:     input.Cargo,
			Data:      input.Data,
			Promotor:  roster.Resolve(input.Cargo, input.Data),
			Honorific: roster.Honorific(input.Cargo),
			CargoCode: roster.CargoCode(input.Cargo),
		}}, nil
	})
}

func registerRender(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "validate-person",
		Method:      http.MethodPost,
		Path:        "/people/validate",
		Summary:     "Validate and format a case party",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body ValidatePersonRequest `json:"body"`
	}) (*struct {
		Body ValidatePersonResponse `json:"body"`
	}, error) {
		p := input.Body.Person
		if err := domain.ValidatePerson(p, engineNow(e)); err != nil {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", err.Error(), nil)
		}
		p.CPF = domain.FormatCPF(p.CPF)
		p.RG = domain.FormatRG(p.RG)
		return &struct {
			Body ValidatePersonResponse `json:"body"`
		}{Body: ValidatePersonResponse{Person: p}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "render-ni",
		Method:      http.MethodPost,
		Path:        "/render/ni",
		Summary:     "Render the party-location request letter",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body NIRenderRequest `json:"body"`
	}) (*struct {
		Body render.Document `json:"body"`
	}, error) {
		doc := render.NILetter(input.Body.CaseData, input.Body.People)
		return &struct {
			Body render.Document `json:"body"`
		}{Body: doc}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "render-oficio",
		Method:      http.MethodPost,
		Path:        "/render/oficio",
		Summary:     "Render an official letter",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, input *struct {
		Body OficioRenderRequest `json:"body"`
	}) (*struct {
		Body render.Document `json:"body"`
	}, error) {
		in := render.OficioInput{
			Template:            input.Body.Template,
			Cargo:               input.Body.Cargo,
			Processo:            input.Body.Processo,
			NumeroOficio:        input.Body.NumeroOficio,
			Orgao:               input.Body.Orgao,
			Destinatario:        input.Body.Destinatario,
			Endereco:            input.Body.Endereco,
			Email:               input.Body.Email,
			TextoLivre:          input.Body.TextoLivre,
			IdentificacaoObjeto: input.Body.IdentificacaoObjeto,
			ReuNome:             input.Body.ReuNome,
			IABody:              input.Body.IABody,
			Now:                 engineNow(e),
		}
		if e.Config != nil {
			in.Unit = e.Config.Operator.Unit
		}
		if key := input.Body.DestinatarioKey; key != "" {
			if e.Config == nil {
				return nil, newAPIError(http.StatusNotFound, "not_found", fmt.Sprintf("destinatario %q not configured", key), nil)
			}
			d, ok := e.Config.Oficio.Destinatarios[key]
			if !ok {
				return nil, newAPIError(http.StatusNotFound, "not_found", fmt.Sprintf("destinatario %q not configured", key), nil)
			}
			if in.Orgao == "" {
				in.Orgao = d.Orgao
			}
			if in.Destinatario == "" {
				in.Destinatario = d.Contato
			}
			if in.Endereco == "" {
				in.Endereco = d.Endereco
			}
			if in.Email == "" {
				in.Email = d.Email
			}
		}
		doc := render.Oficio(in)
		return &struct {
			Body render.Document `json:"body"`
		}{Body: doc}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "render-termo",
		Method:      http.MethodPost,
		Path:        "/render/termo",
		Summary:     "Render a SIS Digital termo",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body TermoRenderRequest `json:"body"`
	}) (*struct {
		Body TermoRenderResponse `json:"body"`
	}, error) {
		in := render.TermoInput{
			Cargo:      input.Body.Cargo,
			DocID:      input.Body.DocID,
			TipoDoc:    input.Body.TipoDoc,
			DocJuntado: input.Body.DocJuntado,
			Folhas:     input.Body.Folhas,
		}
		if e.Config != nil {
			in.Operator = render.Operator{
				Name:      e.Config.Operator.Name,
				Matricula: e.Config.Operator.Matricula,
				Role:      e.Config.Operator.Role,
			}
		}
		var out TermoRenderResponse
		switch input.Body.Termo {
		case "CONCLUSAO":
			out.Document = render.TermoConclusao(in)
			out.Message = render.ProsecutorMessage(in)
		case "JUNTADA":
			out.Document = render.TermoJuntada(in)
		default:
			return nil, newAPIError(http.StatusBadRequest, "bad_request", fmt.Sprintf("invalid termo %q", input.Body.Termo), nil)
		}
		return &struct {
			Body TermoRenderResponse `json:"body"`
		}{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "render-anpp",
		Method:      http.MethodPost,
		Path:        "/render/anpp",
		Summary:     "Render the ANPP hearing request form",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body ANPPRenderRequest `json:"body"`
	}) (*struct {
		Body render.Document `json:"body"`
	}, error) {
		in := render.ANPPInput{
			Processo:       input.Body.Processo,
			Tipo:           input.Body.Tipo,
			Cargo:          input.Body.Cargo,
			PrazoDefesa:    input.Body.PrazoDefesa,
			TipoAnpp:       input.Body.TipoAnpp,
			Observacao:     input.Body.Observacao,
			ContatosVitima: input.Body.ContatosVitima,
			Partes:         input.Body.Partes,
		}
		if e.Config != nil {
			in.Unit = e.Config.Operator.Unit
		}
		doc := render.ANPPForm(in)
		return &struct {
			Body render.Document `json:"body"`
		}{Body: doc}, nil
	})
}

func registerCargos(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-cargos",
		Method:      http.MethodGet,
		Path:        "/cargos",
		Summary:     "List cargo accumulations, refreshing from the remote when online",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.CargoAcumulacao `json:"body"`
	}, error) {
		items, err := e.RefreshCargos(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.CargoAcumulacao `json:"body"`
		}{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-cargo",
		Method:        http.MethodPost,
		Path:          "/cargos",
		Summary:       "Create a cargo accumulation",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusBadGateway,
		},
	}, func(ctx context.Context, input *struct {
		Body SaveCargoRequest `json:"body"`
	}) (*struct {
		Body domain.CargoAcumulacao `json:"body"`
	}, error) {
		if len(bodyBytes(ctx)) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		c, err := e.SaveCargo(ctx, domain.CargoAcumulacao{
			CargoNome:           input.Body.CargoNome,
			EhAcumulacao:        input.Body.EhAcumulacao,
			DataInicio:          input.Body.DataInicio,
			DataFim:             input.Body.DataFim,
			PromotorTitularID:   input.Body.PromotorTitularID,
			PromotorDesignadoID: input.Body.PromotorDesignadoID,
		}, actorID(e))
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.CargoAcumulacao `json:"body"`
		}{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-cargo",
		Method:      http.MethodDelete,
		Path:        "/cargos/{id}",
		Summary:     "Delete a cargo accumulation",
		Errors: []int{
			http.StatusNotFound,
			http.StatusBadGateway,
		},
	}, func(ctx context.Context, input *struct {
		ID int64 `path:"id"`
	}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		if err := e.DeleteCargo(ctx, input.ID, actorID(e)); err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "deleted"}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-promotores",
		Method:      http.MethodGet,
		Path:        "/promotores",
		Summary:     "List master prosecutors",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.MasterPromotor `json:"body"`
	}, error) {
		items, err := e.ListPromotores(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.MasterPromotor `json:"body"`
		}{Body: items}, nil
	})
}

func aiUnavailable() huma.StatusError {
	return newAPIError(http.StatusServiceUnavailable, "ai_unavailable", "gemini api key not configured", nil)
}

func attachment(f *FileUpload) *ai.Attachment {
	if f == nil {
		return nil
	}
	return &ai.Attachment{MIMEType: f.MIMEType, Data: f.Data}
}

func registerAI(api huma.API, e engine.Engine, client *ai.Client) {
	huma.Register(api, huma.Operation{
		OperationID: "ai-extract-person",
		Method:      http.MethodPost,
		Path:        "/ai/extract-person",
		Summary:     "Extract a case party from free text",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusServiceUnavailable,
		},
	}, func(ctx context.Context, input *struct {
		Body ExtractPersonRequest `json:"body"`
	}) (*struct {
		Body domain.Person `json:"body"`
	}, error) {
		if client == nil {
			return nil, aiUnavailable()
		}
		p, err := client.ExtractPerson(ctx, input.Body.Text)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Person `json:"body"`
		}{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "ai-extract-multa",
		Method:      http.MethodPost,
		Path:        "/ai/extract-multa",
		Summary:     "Read a penalty certificate document",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusServiceUnavailable,
		},
	}, func(ctx context.Context, input *struct {
		Body ExtractMultaRequest `json:"body"`
	}) (*struct {
		Body ai.PenaltyCertificate `json:"body"`
	}, error) {
		if client == nil {
			return nil, aiUnavailable()
		}
		cert, err := client.ExtractPenaltyCertificate(ctx, ai.Attachment{
			MIMEType: input.Body.File.MIMEType,
			Data:     input.Body.File.Data,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ai.PenaltyCertificate `json:"body"`
		}{Body: cert}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "ai-clean-arquivamento",
		Method:      http.MethodPost,
		Path:        "/ai/clean-arquivamento",
		Summary:     "Extract the clean text of an archiving promotion",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusServiceUnavailable,
		},
	}, func(ctx context.Context, input *struct {
		Body CleanTextRequest `json:"body"`
	}) (*struct {
		Body TextResponse `json:"body"`
	}, error) {
		if client == nil {
			return nil, aiUnavailable()
		}
		text, err := client.CleanArchivingText(ctx, ai.Attachment{
			MIMEType: input.Body.File.MIMEType,
			Data:     input.Body.File.Data,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body TextResponse `json:"body"`
		}{Body: TextResponse{Text: text}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "ai-draft-oficio",
		Method:      http.MethodPost,
		Path:        "/ai/oficio-body",
		Summary:     "Draft the body of an official letter",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusServiceUnavailable,
		},
	}, func(ctx context.Context, input *struct {
		Body DraftOficioRequest `json:"body"`
	}) (*struct {
		Body TextResponse `json:"body"`
	}, error) {
		if client == nil {
			return nil, aiUnavailable()
		}
		text, err := client.DraftOficioBody(ctx, ai.OficioDraftRequest{
			Orgao:        input.Body.Orgao,
			Destinatario: input.Body.Destinatario,
			Instrucao:    input.Body.Instrucao,
			Contexto:     input.Body.Contexto,
			Doc:          attachment(input.Body.File),
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body TextResponse `json:"body"`
		}{Body: TextResponse{Text: text}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "ai-import-activities",
		Method:      http.MethodPost,
		Path:        "/ai/import",
		Summary:     "Mine a prosecutor chat for tasks and store them as activities",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusServiceUnavailable,
		},
	}, func(ctx context.Context, input *struct {
		Body ImportChatRequest `json:"body"`
	}) (*struct {
		Body ImportChatResponse `json:"body"`
	}, error) {
		if client == nil {
			return nil, aiUnavailable()
		}
		if input.Body.Cargo == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "cargo is required", nil)
		}
		if input.Body.Text == "" && input.Body.File == nil {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "text or file is required", nil)
		}
		tasks, err := client.ImportActivities(ctx, ai.ImportRequest{
			Text: input.Body.Text,
			Doc:  attachment(input.Body.File),
		})
		if err != nil {
			return nil, handleError(err)
		}
		stored, err := e.ImportActivities(ctx, input.Body.Cargo, tasks, actorID(e))
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ImportChatResponse `json:"body"`
		}{Body: ImportChatResponse{Imported: len(stored), Activities: stored}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "ai-mentor",
		Method:      http.MethodPost,
		Path:        "/ai/mentor",
		Summary:     "Ask the legal mentor, optionally over a document",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusServiceUnavailable,
		},
	}, func(ctx context.Context, input *struct {
		Body MentorRequest `json:"body"`
	}) (*struct {
		Body TextResponse `json:"body"`
	}, error) {
		if client == nil {
			return nil, aiUnavailable()
		}
		text, err := client.MentorConsult(ctx, ai.MentorRequest{
			Prompt: input.Body.Prompt,
			Doc:    attachment(input.Body.File),
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body TextResponse `json:"body"`
		}{Body: TextResponse{Text: text}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "ai-mentor-draft",
		Method:      http.MethodPost,
		Path:        "/ai/mentor/draft",
		Summary:     "Turn a mentor analysis into a drafted document",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusServiceUnavailable,
		},
	}, func(ctx context.Context, input *struct {
		Body MentorDraftRequest `json:"body"`
	}) (*struct {
		Body TextResponse `json:"body"`
	}, error) {
		if client == nil {
			return nil, aiUnavailable()
		}
		text, err := client.MentorDraft(ctx, input.Body.Analysis, input.Body.Instrucao)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body TextResponse `json:"body"`
		}{Body: TextResponse{Text: text}}, nil
	})
}
