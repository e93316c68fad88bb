package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gabinete/internal/ai"
	"gabinete/internal/app"
	"gabinete/internal/config"
	"gabinete/internal/db"
	"gabinete/internal/domain"
	"gabinete/internal/engine"
	"gabinete/internal/remote"
	"gabinete/internal/render"
	"gabinete/internal/repo"
	"gabinete/internal/roster"
	"gabinete/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "gab",
	Short: "Gabinete CLI",
	Long: `Gabinete is a prosecutorial workbench for the São Paulo criminal units.
It keeps a local activity log, resolves the duty roster, renders the
recurring documents (ofícios, termos, ANPP forms) and mirrors the shared
cargo accumulation tables when a remote store is configured.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("GAB")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func registerCommands() {
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(activityCmd())
	rootCmd.AddCommand(rosterCmd())
	rootCmd.AddCommand(renderCmd())
	rootCmd.AddCommand(cargosCmd())
	rootCmd.AddCommand(esajCmd())
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default gabinete.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(viper.GetString("workspace"))
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault()), 0o644); err != nil {
				return err
			}
			fmt.Println("wrote", path)
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Open(cmd.Context(), viper.GetString("workspace"))
			if err != nil {
				return err
			}
			defer a.Close()
			handler, err := server.New(server.Config{Engine: a.Engine, AI: a.AI, BasePath: basePath})
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: addr, Handler: handler}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			fmt.Printf("Serving Gabinete API on http://%s%s (OpenAPI at /openapi.json, Swagger UI at /docs)\n", addr, basePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8787", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "/v0", "API base path")
	return cmd
}

func activityCmd() *cobra.Command {
	act := &cobra.Command{Use: "activity", Short: "Manage the activity log"}
	act.AddCommand(activityAddCmd())
	act.AddCommand(activityListCmd())
	act.AddCommand(activitySearchCmd())
	act.AddCommand(activityStatusCmd())
	act.AddCommand(activityOpenCmd())
	act.AddCommand(activityRmCmd())
	act.AddCommand(activityClearCompletedCmd())
	act.AddCommand(activityMetricsCmd())
	act.AddCommand(activitySyncCmd())
	act.AddCommand(activityImportCmd())
	return act
}

func activityAddCmd() *cobra.Command {
	var opts engine.ActivitySaveOptions
	var status string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create or update an activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				opts.Status = domain.ActivityStatus(status)
				opts.ActorID = actorID(a)
				saved, err := a.Engine.SaveActivity(ctx, opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(saved)
			})
		},
	}
	cmd.Flags().StringVar(&opts.ID, "id", "", "activity id (update when set)")
	cmd.Flags().StringVar(&opts.NumeroProcesso, "processo", "", "process number")
	cmd.Flags().StringVar(&opts.Data, "data", "", "date YYYY-MM-DD")
	cmd.Flags().StringVar(&status, "status", "PENDENTE", "status")
	cmd.Flags().StringVar(&opts.Tipo, "tipo", "Outros", "activity type")
	cmd.Flags().StringVar(&opts.Cargo, "cargo", "", "cargo label")
	cmd.Flags().StringVar(&opts.Promotor, "promotor", "", "override roster resolution")
	cmd.Flags().StringVar(&opts.Observacao, "obs", "", "observation")
	return cmd
}

func activityListCmd() *cobra.Command {
	var f repo.ActivityFilters
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List activities, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				items, err := a.Engine.Repo.ListActivities(ctx, f)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				renderActivityTable(items)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&f.Status, "status", "", "status filter")
	cmd.Flags().StringVar(&f.Tipo, "tipo", "", "type filter")
	cmd.Flags().StringVar(&f.Cargo, "cargo", "", "cargo filter")
	cmd.Flags().IntVar(&f.Limit, "limit", 0, "page size")
	return cmd
}

func activitySearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search by process number, type, observation or status label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				items, err := a.Engine.Search(ctx, args[0])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				renderActivityTable(items)
				return nil
			})
		},
	}
	return cmd
}

func activityStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Set the status of an activity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				updated, err := a.Engine.QuickStatus(ctx, args[0], domain.ActivityStatus(args[1]), actorID(a))
				if err != nil {
					return err
				}
				return printJSONOrTable(updated)
			})
		},
	}
	return cmd
}

func activityOpenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open <id>",
		Short: "Resolve the tool screen and case context for an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				res, err := a.Engine.OpenActivity(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(res)
			})
		},
	}
	return cmd
}

func activityRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if err := a.Engine.DeleteActivity(ctx, args[0], actorID(a)); err != nil {
					return err
				}
				fmt.Println("deleted", args[0])
				return nil
			})
		},
	}
	return cmd
}

func activityClearCompletedCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete completed and finalized activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if all {
					n, err := a.Engine.ClearAll(ctx, actorID(a))
					if err != nil {
						return err
					}
					fmt.Printf("deleted %d activities\n", n)
					return nil
				}
				n, err := a.Engine.ClearCompleted(ctx, actorID(a))
				if err != nil {
					return err
				}
				fmt.Printf("deleted %d completed activities\n", n)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "delete every activity, not just completed ones")
	return cmd
}

func activityMetricsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show dashboard metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				m, err := a.Engine.Metrics(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(m)
				}
				fmt.Printf("Total: %d\nCompleted: %d\nPending: %d\nCompletion: %d%%\n", m.Total, m.Completed, m.Pending, m.CompletionRate)
				if m.TopType != "" {
					fmt.Println("Top type:", m.TopType)
				}
				return nil
			})
		},
	}
	return cmd
}

func activitySyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push unsynced activities to the remote store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				mode := remote.Offline
				if a.Remote != nil {
					mode = a.Remote.Mode()
				}
				n, err := a.Engine.SyncPending(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("pushed %d activities (mode %s)\n", n, mode)
				return nil
			})
		},
	}
	return cmd
}

func activityImportCmd() *cobra.Command {
	var cargo, text, file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Mine a prosecutor chat for tasks and store them as activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if a.AI == nil {
					return fmt.Errorf("gemini api key not configured")
				}
				if cargo == "" {
					return fmt.Errorf("--cargo required")
				}
				req := ai.ImportRequest{Text: text}
				if file != "" {
					doc, err := readAttachment(file)
					if err != nil {
						return err
					}
					req.Doc = doc
				}
				tasks, err := a.AI.ImportActivities(ctx, req)
				if err != nil {
					return err
				}
				stored, err := a.Engine.ImportActivities(ctx, cargo, tasks, actorID(a))
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(stored)
				}
				fmt.Printf("imported %d activities\n", len(stored))
				renderActivityTable(stored)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&cargo, "cargo", "", "cargo label for the imported tasks")
	cmd.Flags().StringVar(&text, "text", "", "pasted chat text")
	cmd.Flags().StringVar(&file, "file", "", "chat screenshot or PDF")
	return cmd
}

func rosterCmd() *cobra.Command {
	ros := &cobra.Command{Use: "roster", Short: "Duty roster lookups"}
	ros.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List duty posts and their schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			if viper.GetBool("json") {
				out := make([]roster.Post, 0, len(roster.Labels()))
				for _, label := range roster.Labels() {
					p, _ := roster.Find(label)
					out = append(out, p)
				}
				return printJSON(out)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Cargo", "Promotor", "Days"})
			for _, label := range roster.Labels() {
				p, _ := roster.Find(label)
				for _, e := range p.Schedule {
					tw.AppendRow(table.Row{p.Label, e.Name, fmt.Sprintf("%d-%d", e.Start, e.End)})
				}
			}
			tw.Render()
			return nil
		},
	})
	resolve := &cobra.Command{
		Use:   "resolve <cargo>",
		Short: "Resolve the prosecutor on duty",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, _ := cmd.Flags().GetString("data")
			out := map[string]string{
				"cargo":     args[0],
				"promotor":  roster.Resolve(args[0], data),
				"honorific": roster.Honorific(args[0]),
			}
			if viper.GetBool("json") {
				return printJSON(out)
			}
			fmt.Println(out["promotor"])
			return nil
		},
	}
	resolve.Flags().String("data", "", "date YYYY-MM-DD (empty lists all names)")
	ros.AddCommand(resolve)
	return ros
}

func renderCmd() *cobra.Command {
	ren := &cobra.Command{Use: "render", Short: "Render documents"}
	ren.AddCommand(renderNICmd())
	ren.AddCommand(renderOficioCmd())
	ren.AddCommand(renderTermoCmd())
	ren.AddCommand(renderANPPCmd())
	return ren
}

func renderNICmd() *cobra.Command {
	var processo, cargo, promotor, peopleFile string
	cmd := &cobra.Command{
		Use:   "ni",
		Short: "Render the party-location request letter",
		RunE: func(cmd *cobra.Command, args []string) error {
			var people []domain.Person
			if peopleFile != "" {
				data, err := os.ReadFile(peopleFile)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(data, &people); err != nil {
					return fmt.Errorf("parse %s: %w", peopleFile, err)
				}
			}
			doc := render.NILetter(domain.CaseData{
				NumeroProcesso: processo,
				Cargo:          cargo,
				Promotor:       promotor,
			}, people)
			return printDocument(doc)
		},
	}
	cmd.Flags().StringVar(&processo, "processo", "", "process number")
	cmd.Flags().StringVar(&cargo, "cargo", "", "cargo label")
	cmd.Flags().StringVar(&promotor, "promotor", "", "prosecutor name")
	cmd.Flags().StringVar(&peopleFile, "people", "", "JSON file with the parties")
	return cmd
}

func renderOficioCmd() *cobra.Command {
	var in render.OficioInput
	var template, destinatarioKey string
	cmd := &cobra.Command{
		Use:   "oficio",
		Short: "Render an official letter",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				in.Template = render.OficioTemplate(template)
				in.Now = time.Now()
				if a.Config != nil {
					in.Unit = a.Config.Operator.Unit
					if destinatarioKey != "" {
						d, ok := a.Config.Oficio.Destinatarios[destinatarioKey]
						if !ok {
							return fmt.Errorf("destinatario %q not configured", destinatarioKey)
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
				}
				return printDocument(render.Oficio(in))
			})
		},
	}
	cmd.Flags().StringVar(&template, "template", string(render.OficioGeralDP), "letter template")
	cmd.Flags().StringVar(&in.Cargo, "cargo", "", "cargo label")
	cmd.Flags().StringVar(&in.Processo, "processo", "", "process number")
	cmd.Flags().StringVar(&in.NumeroOficio, "numero", "", "letter number")
	cmd.Flags().StringVar(&destinatarioKey, "dest", "", "configured addressee key")
	cmd.Flags().StringVar(&in.Orgao, "orgao", "", "addressee body")
	cmd.Flags().StringVar(&in.Destinatario, "contato", "", "addressee contact")
	cmd.Flags().StringVar(&in.Endereco, "endereco", "", "addressee address")
	cmd.Flags().StringVar(&in.Email, "email", "", "addressee email")
	cmd.Flags().StringVar(&in.TextoLivre, "texto", "", "free text body")
	cmd.Flags().StringVar(&in.IdentificacaoObjeto, "objeto", "", "object identification")
	cmd.Flags().StringVar(&in.ReuNome, "reu", "", "defendant name")
	return cmd
}

func renderTermoCmd() *cobra.Command {
	var in render.TermoInput
	var termo string
	cmd := &cobra.Command{
		Use:   "termo",
		Short: "Render a SIS Digital termo",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if a.Config != nil {
					in.Operator = render.Operator{
						Name:      a.Config.Operator.Name,
						Matricula: a.Config.Operator.Matricula,
						Role:      a.Config.Operator.Role,
					}
				}
				switch termo {
				case "conclusao":
					if err := printDocument(render.TermoConclusao(in)); err != nil {
						return err
					}
					fmt.Println()
					fmt.Println(render.ProsecutorMessage(in))
					return nil
				case "juntada":
					return printDocument(render.TermoJuntada(in))
				default:
					return fmt.Errorf("invalid --termo %q (conclusao or juntada)", termo)
				}
			})
		},
	}
	cmd.Flags().StringVar(&termo, "termo", "conclusao", "conclusao or juntada")
	cmd.Flags().StringVar(&in.Cargo, "cargo", "", "cargo label")
	cmd.Flags().StringVar(&in.DocID, "doc", "", "document id")
	cmd.Flags().StringVar(&in.TipoDoc, "tipo-doc", "NF", "NF or ATENDIMENTO")
	cmd.Flags().StringVar(&in.DocJuntado, "juntado", "", "document being attached")
	cmd.Flags().StringVar(&in.Folhas, "folhas", "", "sheet count")
	return cmd
}

func renderANPPCmd() *cobra.Command {
	var in render.ANPPInput
	var partesFile string
	cmd := &cobra.Command{
		Use:   "anpp",
		Short: "Render the ANPP hearing request form",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if partesFile != "" {
					data, err := os.ReadFile(partesFile)
					if err != nil {
						return err
					}
					if err := json.Unmarshal(data, &in.Partes); err != nil {
						return fmt.Errorf("parse %s: %w", partesFile, err)
					}
				}
				if a.Config != nil {
					in.Unit = a.Config.Operator.Unit
				}
				return printDocument(render.ANPPForm(in))
			})
		},
	}
	cmd.Flags().StringVar(&in.Processo, "processo", "", "process number")
	cmd.Flags().StringVar(&in.Tipo, "tipo", "Digital", "record type: Digital or Físico")
	cmd.Flags().StringVar(&in.Cargo, "cargo", "", "cargo label")
	cmd.Flags().StringVar(&in.PrazoDefesa, "prazo", "", "defense deadline in days")
	cmd.Flags().StringVar(&in.TipoAnpp, "anpp", "minuta", "minuta or teams")
	cmd.Flags().StringVar(&in.Observacao, "obs", "", "observation")
	cmd.Flags().StringVar(&in.ContatosVitima, "vitima", "", "victim contacts")
	cmd.Flags().StringVar(&partesFile, "partes", "", "JSON file with the accused")
	return cmd
}

func cargosCmd() *cobra.Command {
	car := &cobra.Command{Use: "cargos", Short: "Manage cargo accumulations"}
	car.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List cargo accumulations, refreshing from the remote when online",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				items, err := a.Engine.RefreshCargos(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Cargo", "Acumulação", "Titular", "Designado", "Início", "Fim"})
				for _, c := range items {
					tw.AppendRow(table.Row{
						c.ID, c.CargoNome, c.EhAcumulacao,
						c.PromotorTitular, c.PromotorDesignado,
						deref(c.DataInicio), deref(c.DataFim),
					})
				}
				tw.Render()
				return nil
			})
		},
	})
	car.AddCommand(cargosAddCmd())
	car.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a cargo accumulation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid id %q", args[0])
				}
				if err := a.Engine.DeleteCargo(ctx, id, actorID(a)); err != nil {
					return err
				}
				fmt.Println("deleted", args[0])
				return nil
			})
		},
	})
	car.AddCommand(&cobra.Command{
		Use:   "promotores",
		Short: "List master prosecutors",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				items, err := a.Engine.ListPromotores(ctx)
				if err != nil {
					return err
				}
				return printJSONOrTable(items)
			})
		},
	})
	return car
}

func cargosAddCmd() *cobra.Command {
	var c domain.CargoAcumulacao
	var inicio, fim, titular, designado string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a cargo accumulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if inicio != "" {
					c.DataInicio = &inicio
				}
				if fim != "" {
					c.DataFim = &fim
				}
				if titular != "" {
					id, err := a.Engine.EnsurePromotor(ctx, titular)
					if err != nil {
						return err
					}
					c.PromotorTitularID = &id
				}
				if designado != "" {
					id, err := a.Engine.EnsurePromotor(ctx, designado)
					if err != nil {
						return err
					}
					c.PromotorDesignadoID = &id
				}
				saved, err := a.Engine.SaveCargo(ctx, c, actorID(a))
				if err != nil {
					return err
				}
				return printJSONOrTable(saved)
			})
		},
	}
	cmd.Flags().StringVar(&c.CargoNome, "cargo", "", "cargo label")
	cmd.Flags().BoolVar(&c.EhAcumulacao, "acumulacao", false, "mark as accumulation")
	cmd.Flags().StringVar(&inicio, "inicio", "", "start date YYYY-MM-DD")
	cmd.Flags().StringVar(&fim, "fim", "", "end date YYYY-MM-DD")
	cmd.Flags().StringVar(&titular, "titular", "", "titular prosecutor name")
	cmd.Flags().StringVar(&designado, "designado", "", "designated prosecutor name")
	return cmd
}

func esajCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "esaj <processo>",
		Short: "Print the ESAJ lookup URL for a process number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				fmt.Println(a.Engine.EsajURL(args[0]))
				return nil
			})
		},
	}
	return cmd
}

func withApp(ctx context.Context, fn func(context.Context, *app.App) error) error {
	a, err := app.Open(ctx, viper.GetString("workspace"))
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func actorID(a *app.App) string {
	if a.Config != nil && a.Config.Operator.Name != "" {
		return a.Config.Operator.Name
	}
	return "local"
}

func readAttachment(path string) (*ai.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	mime := http.DetectContentType(data)
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		mime = "application/pdf"
	}
	return &ai.Attachment{MIMEType: mime, Data: data}, nil
}

func renderActivityTable(items []domain.Activity) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"ID", "Processo", "Data", "Status", "Tipo", "Promotor", "Synced"})
	for _, a := range items {
		tw.AppendRow(table.Row{shortID(a.ID), a.NumeroProcesso, a.Data, a.Status, a.Tipo, a.Promotor, a.Synced})
	}
	tw.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printDocument(doc render.Document) error {
	if viper.GetBool("json") {
		return printJSON(doc)
	}
	fmt.Println(doc.Text)
	return nil
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
