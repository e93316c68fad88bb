package gabinetesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal Gabinete HTTP API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults. baseURL includes the API base
// path, e.g. "http://127.0.0.1:8787/v0".
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Activity represents the API activity model.
type Activity struct {
	ID             string `json:"id"`
	NumeroProcesso string `json:"numero_processo"`
	Data           string `json:"data"`
	Status         string `json:"status"`
	Tipo           string `json:"tipo"`
	Cargo          string `json:"cargo"`
	Promotor       string `json:"promotor"`
	Observacao     string `json:"observacao,omitempty"`
	Synced         bool   `json:"synced"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// ActivityPage is one listing page with its continuation cursor.
type ActivityPage struct {
	Activities []Activity `json:"activities"`
	NextData   string     `json:"next_data,omitempty"`
	NextID     string     `json:"next_id,omitempty"`
}

// Metrics aggregates the activity list.
type Metrics struct {
	Total          int    `json:"total"`
	Completed      int    `json:"completed"`
	Pending        int    `json:"pending"`
	CompletionRate int    `json:"completion_rate"`
	TopType        string `json:"top_type,omitempty"`
}

// OpenResult tells a front end which tool screen an activity opens and the
// case context it carries.
type OpenResult struct {
	Screen   string `json:"screen"`
	CaseData struct {
		NumeroProcesso string `json:"numero_processo"`
		Cargo          string `json:"cargo"`
		Promotor       string `json:"promotor"`
	} `json:"case_data"`
	Activity Activity `json:"activity"`
}

// Document is a rendered document in HTML and plain text.
type Document struct {
	Title string `json:"title"`
	HTML  string `json:"html"`
	Text  string `json:"text"`
}

// ResolveResult is a duty roster lookup.
type ResolveResult struct {
	Cargo     string `json:"cargo"`
	Data      string `json:"data,omitempty"`
	Promotor  string `json:"promotor"`
	Honorific string `json:"honorific"`
	CargoCode string `json:"cargo_code,omitempty"`
}

// SyncResult reports an explicit push of pending records.
type SyncResult struct {
	Pushed int    `json:"pushed"`
	Mode   string `json:"mode"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// SaveActivity creates or updates an activity. An empty ID creates.
func (c *Client) SaveActivity(ctx context.Context, a Activity) (Activity, error) {
	body := map[string]any{
		"id":              a.ID,
		"numero_processo": a.NumeroProcesso,
		"data":            a.Data,
		"status":          a.Status,
		"tipo":            a.Tipo,
		"cargo":           a.Cargo,
		"promotor":        a.Promotor,
		"observacao":      a.Observacao,
	}
	var resp Activity
	err := c.do(ctx, http.MethodPost, "activities", body, &resp)
	return resp, err
}

// ListActivities fetches one page. Zero limit returns everything.
func (c *Client) ListActivities(ctx context.Context, limit int, cursorData, cursorID string) (ActivityPage, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	if cursorData != "" {
		q.Set("cursor_data", cursorData)
		q.Set("cursor_id", cursorID)
	}
	endpoint := "activities"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	var resp ActivityPage
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// SearchActivities matches process numbers, types, observations and status
// labels.
func (c *Client) SearchActivities(ctx context.Context, term string) ([]Activity, error) {
	var resp []Activity
	err := c.do(ctx, http.MethodGet, "activities/search?q="+url.QueryEscape(term), nil, &resp)
	return resp, err
}

// GetActivity fetches one activity by id.
func (c *Client) GetActivity(ctx context.Context, id string) (Activity, error) {
	var resp Activity
	err := c.do(ctx, http.MethodGet, "activities/"+url.PathEscape(id), nil, &resp)
	return resp, err
}

// SetStatus updates one activity's status.
func (c *Client) SetStatus(ctx context.Context, id, status string) (Activity, error) {
	var resp Activity
	err := c.do(ctx, http.MethodPost, "activities/"+url.PathEscape(id)+"/status", map[string]any{"status": status}, &resp)
	return resp, err
}

// OpenActivity resolves the tool screen and case context for an activity.
func (c *Client) OpenActivity(ctx context.Context, id string) (OpenResult, error) {
	var resp OpenResult
	err := c.do(ctx, http.MethodPost, "activities/"+url.PathEscape(id)+"/open", nil, &resp)
	return resp, err
}

// DeleteActivity removes one activity.
func (c *Client) DeleteActivity(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "activities/"+url.PathEscape(id), nil, nil)
}

// ActivityMetrics fetches the dashboard aggregates.
func (c *Client) ActivityMetrics(ctx context.Context) (Metrics, error) {
	var resp Metrics
	err := c.do(ctx, http.MethodGet, "activities/metrics", nil, &resp)
	return resp, err
}

// Sync pushes unsynced activities to the remote store.
func (c *Client) Sync(ctx context.Context) (SyncResult, error) {
	var resp SyncResult
	err := c.do(ctx, http.MethodPost, "activities/sync", nil, &resp)
	return resp, err
}

// Resolve looks up the prosecutor on duty for a post and date.
func (c *Client) Resolve(ctx context.Context, cargo, data string) (ResolveResult, error) {
	q := url.Values{}
	q.Set("cargo", cargo)
	if data != "" {
		q.Set("data", data)
	}
	var resp ResolveResult
	err := c.do(ctx, http.MethodGet, "roster/resolve?"+q.Encode(), nil, &resp)
	return resp, err
}

// RenderTermo renders a SIS Digital termo ("CONCLUSAO" or "JUNTADA").
func (c *Client) RenderTermo(ctx context.Context, termo, cargo, docID, tipoDoc string) (Document, string, error) {
	body := map[string]any{
		"termo":    termo,
		"cargo":    cargo,
		"doc_id":   docID,
		"tipo_doc": tipoDoc,
	}
	var resp struct {
		Document Document `json:"document"`
		Message  string   `json:"message"`
	}
	err := c.do(ctx, http.MethodPost, "render/termo", body, &resp)
	return resp.Document, resp.Message, err
}

// EsajURL builds the court lookup URL for a process number.
func (c *Client) EsajURL(ctx context.Context, processo string) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	err := c.do(ctx, http.MethodGet, "esaj?processo="+url.QueryEscape(processo), nil, &resp)
	return resp.URL, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
