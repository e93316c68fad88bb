// Package remote syncs the local store with the hosted PostgREST database.
// Connectivity is decided once, here, as an explicit mode; callers never
// branch on sentinel user ids themselves.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/errgroup"

	"gabinete/internal/domain"
)

// Mode tells the data-access layer how to treat the hosted database.
type Mode string

const (
	// Online uses the anon key and respects row-level security.
	Online Mode = "online"
	// Offline disables every remote call; the local store is the only state.
	Offline Mode = "offline"
	// AdminBypass uses a service key and skips row-level security.
	AdminBypass Mode = "admin_bypass"
)

// Session sentinels kept from the original login flow.
const (
	sessionOffline      = "offline"
	sessionServiceAdmin = "service_admin"
	sessionOfflineAdmin = "offline_admin"
)

// ErrOffline is returned by every call while in Offline mode.
var ErrOffline = fmt.Errorf("remote: offline mode")

// ParseMode maps a session id onto a mode. Unknown ids are ordinary online
// sessions; an empty id with no configured URL means offline.
func ParseMode(session, baseURL string) Mode {
	switch session {
	case sessionOffline:
		return Offline
	case sessionServiceAdmin, sessionOfflineAdmin:
		return AdminBypass
	}
	if baseURL == "" {
		return Offline
	}
	return Online
}

// KeyClaims is what we read out of a PostgREST service key without
// verifying its signature: the signature check belongs to the server.
type KeyClaims struct {
	Role      string
	ExpiresAt time.Time
}

// IntrospectKey parses the key's claims and rejects expired keys. A key
// whose role claim is service_role grants AdminBypass.
func IntrospectKey(key string, now time.Time) (KeyClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return KeyClaims{}, fmt.Errorf("remote: parse key: %w", err)
	}
	out := KeyClaims{}
	if role, ok := claims["role"].(string); ok {
		out.Role = role
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return KeyClaims{}, fmt.Errorf("remote: key claims: %w", err)
	}
	if exp != nil {
		out.ExpiresAt = exp.Time
		if exp.Time.Before(now) {
			return KeyClaims{}, fmt.Errorf("remote: key expired at %s", exp.Time.Format(time.RFC3339))
		}
	}
	return out, nil
}

// IsServiceRole reports whether the key bypasses row-level security.
func (c KeyClaims) IsServiceRole() bool { return c.Role == "service_role" }

// Options configures the client.
type Options struct {
	BaseURL    string
	AnonKey    string
	ServiceKey string
	Session    string
	Timeout    time.Duration
	Now        func() time.Time
}

// Client is a PostgREST JSON client for the shared tables.
type Client struct {
	base string
	key  string
	mode Mode
	http *http.Client
}

// New resolves the mode from the session sentinel and the configured keys.
// In AdminBypass the service key is introspected and must carry the
// service_role claim.
func New(opts Options) (*Client, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	mode := ParseMode(opts.Session, opts.BaseURL)
	key := opts.AnonKey
	if mode == AdminBypass {
		if opts.ServiceKey == "" {
			return nil, fmt.Errorf("remote: admin session needs a service key")
		}
		claims, err := IntrospectKey(opts.ServiceKey, now())
		if err != nil {
			return nil, err
		}
		if !claims.IsServiceRole() {
			return nil, fmt.Errorf("remote: key role %q cannot bypass row-level security", claims.Role)
		}
		key = opts.ServiceKey
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		base: opts.BaseURL,
		key:  key,
		mode: mode,
		http: &http.Client{Timeout: timeout},
	}, nil
}

// Mode reports the resolved connectivity mode.
func (c *Client) Mode() Mode { return c.mode }

// Enabled reports whether remote calls will be attempted at all.
func (c *Client) Enabled() bool { return c != nil && c.mode != Offline }

func (c *Client) do(ctx context.Context, method, table string, query url.Values, body any, out any) error {
	if !c.Enabled() {
		return ErrOffline
	}
	u := c.base + "/rest/v1/" + table
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("remote: encode %s: %w", table, err)
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	var prefer []string
	if query.Has("on_conflict") {
		// PostgREST treats on_conflict as a plain insert unless the merge
		// resolution is asked for; without it a duplicate key answers 409.
		prefer = append(prefer, "resolution=merge-duplicates")
	}
	if out != nil && method != http.MethodGet {
		prefer = append(prefer, "return=representation")
	}
	if len(prefer) > 0 {
		req.Header.Set("Prefer", strings.Join(prefer, ","))
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote: %s %s: %w", method, table, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("remote: %s %s: status %d: %s", method, table, resp.StatusCode, bytes.TrimSpace(msg))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("remote: decode %s: %w", table, err)
	}
	return nil
}

type remoteName struct {
	Nome string `json:"nome"`
}

type remoteCargo struct {
	ID                  int64       `json:"id"`
	CargoNome           string      `json:"cargo_nome"`
	EhAcumulacao        bool        `json:"eh_acumulacao"`
	DataInicio          *string     `json:"data_inicio"`
	DataFim             *string     `json:"data_fim"`
	PromotorTitularID   *int64      `json:"promotor_titular_id"`
	PromotorDesignadoID *int64      `json:"promotor_designado_id"`
	PromotorTitular     *remoteName `json:"promotor_titular"`
	PromotorDesignado   *remoteName `json:"promotor_designado"`
}

func (rc remoteCargo) toDomain() domain.CargoAcumulacao {
	out := domain.CargoAcumulacao{
		ID:                  rc.ID,
		CargoNome:           rc.CargoNome,
		EhAcumulacao:        rc.EhAcumulacao,
		DataInicio:          rc.DataInicio,
		DataFim:             rc.DataFim,
		PromotorTitularID:   rc.PromotorTitularID,
		PromotorDesignadoID: rc.PromotorDesignadoID,
	}
	if rc.PromotorTitular != nil {
		out.PromotorTitular = rc.PromotorTitular.Nome
	}
	if rc.PromotorDesignado != nil {
		out.PromotorDesignado = rc.PromotorDesignado.Nome
	}
	return out
}

const cargoSelect = "*,promotor_titular:master_promotores!promotor_titular_id(nome),promotor_designado:master_promotores!promotor_designado_id(nome)"

// ListCargos fetches the accumulation records with both promotor names
// embedded through the foreign keys.
func (c *Client) ListCargos(ctx context.Context) ([]domain.CargoAcumulacao, error) {
	q := url.Values{"select": {cargoSelect}, "order": {"cargo_nome"}}
	var rows []remoteCargo
	if err := c.do(ctx, http.MethodGet, "tb_cargos_acumulacoes", q, nil, &rows); err != nil {
		return nil, err
	}
	out := make([]domain.CargoAcumulacao, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// InsertCargo creates the record remotely and returns it with its new id.
// Empty optional fields go up as nulls.
func (c *Client) InsertCargo(ctx context.Context, cargo domain.CargoAcumulacao) (domain.CargoAcumulacao, error) {
	payload := map[string]any{
		"cargo_nome":            cargo.CargoNome,
		"eh_acumulacao":         cargo.EhAcumulacao,
		"data_inicio":           cargo.DataInicio,
		"data_fim":              cargo.DataFim,
		"promotor_titular_id":   cargo.PromotorTitularID,
		"promotor_designado_id": cargo.PromotorDesignadoID,
	}
	var rows []remoteCargo
	if err := c.do(ctx, http.MethodPost, "tb_cargos_acumulacoes", nil, []any{payload}, &rows); err != nil {
		return domain.CargoAcumulacao{}, err
	}
	if len(rows) == 0 {
		return domain.CargoAcumulacao{}, fmt.Errorf("remote: insert cargo: empty response")
	}
	return rows[0].toDomain(), nil
}

// DeleteCargo removes the record by id.
func (c *Client) DeleteCargo(ctx context.Context, id int64) error {
	q := url.Values{"id": {"eq." + strconv.FormatInt(id, 10)}}
	return c.do(ctx, http.MethodDelete, "tb_cargos_acumulacoes", q, nil, nil)
}

// ListPromotores fetches the shared staff roster ordered by name.
func (c *Client) ListPromotores(ctx context.Context) ([]domain.MasterPromotor, error) {
	q := url.Values{"select": {"*"}, "order": {"nome"}}
	var rows []domain.MasterPromotor
	if err := c.do(ctx, http.MethodGet, "master_promotores", q, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// PushActivity upserts one activity into the shared table.
func (c *Client) PushActivity(ctx context.Context, a domain.Activity) error {
	q := url.Values{"on_conflict": {"id"}}
	payload := map[string]any{
		"id":              a.ID,
		"numero_processo": a.NumeroProcesso,
		"data":            a.Data,
		"status":          string(a.Status),
		"tipo":            a.Tipo,
		"cargo":           a.Cargo,
		"promotor":        a.Promotor,
		"observacao":      a.Observacao,
		"updated_at":      a.UpdatedAt,
	}
	if err := c.do(ctx, http.MethodPost, "user_activities", q, []any{payload}, nil); err != nil {
		return err
	}
	return nil
}

// DeleteActivity removes one activity from the shared table.
func (c *Client) DeleteActivity(ctx context.Context, id string) error {
	q := url.Values{"id": {"eq." + id}}
	return c.do(ctx, http.MethodDelete, "user_activities", q, nil, nil)
}

// Snapshot is everything the cargos screen needs in one round trip pair.
type Snapshot struct {
	Cargos     []domain.CargoAcumulacao
	Promotores []domain.MasterPromotor
}

// FetchSnapshot loads cargos and promotores concurrently. Either failure
// fails the whole snapshot; callers degrade to the local mirror.
func (c *Client) FetchSnapshot(ctx context.Context) (Snapshot, error) {
	if !c.Enabled() {
		return Snapshot{}, ErrOffline
	}
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cargos, err := c.ListCargos(ctx)
		if err != nil {
			return err
		}
		snap.Cargos = cargos
		return nil
	})
	g.Go(func() error {
		promotores, err := c.ListPromotores(ctx)
		if err != nil {
			return err
		}
		snap.Promotores = promotores
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
