package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gabinete/internal/domain"
)

func signKey(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		session string
		baseURL string
		want    Mode
	}{
		{"offline", "https://db.example.com", Offline},
		{"service_admin", "https://db.example.com", AdminBypass},
		{"offline_admin", "https://db.example.com", AdminBypass},
		{"alex", "https://db.example.com", Online},
		{"", "https://db.example.com", Online},
		{"", "", Offline},
	}
	for _, tt := range tests {
		if got := ParseMode(tt.session, tt.baseURL); got != tt.want {
			t.Errorf("ParseMode(%q, %q) = %q, want %q", tt.session, tt.baseURL, got, tt.want)
		}
	}
}

func TestIntrospectKey(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	service := signKey(t, jwt.MapClaims{"role": "service_role", "exp": now.Add(time.Hour).Unix()})
	claims, err := IntrospectKey(service, now)
	if err != nil {
		t.Fatalf("IntrospectKey: %v", err)
	}
	if !claims.IsServiceRole() {
		t.Errorf("role = %q, want service_role", claims.Role)
	}

	anon := signKey(t, jwt.MapClaims{"role": "anon", "exp": now.Add(time.Hour).Unix()})
	claims, err = IntrospectKey(anon, now)
	if err != nil {
		t.Fatalf("IntrospectKey anon: %v", err)
	}
	if claims.IsServiceRole() {
		t.Errorf("anon key must not grant service role")
	}

	expired := signKey(t, jwt.MapClaims{"role": "service_role", "exp": now.Add(-time.Hour).Unix()})
	if _, err := IntrospectKey(expired, now); err == nil {
		t.Errorf("expired key accepted")
	}

	if _, err := IntrospectKey("not-a-jwt", now); err == nil {
		t.Errorf("garbage key accepted")
	}
}

func TestNewAdminRequiresServiceRole(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	anon := signKey(t, jwt.MapClaims{"role": "anon", "exp": now.Add(time.Hour).Unix()})

	_, err := New(Options{
		BaseURL:    "https://db.example.com",
		ServiceKey: anon,
		Session:    "service_admin",
		Now:        func() time.Time { return now },
	})
	if err == nil {
		t.Fatalf("admin session with anon key accepted")
	}

	service := signKey(t, jwt.MapClaims{"role": "service_role", "exp": now.Add(time.Hour).Unix()})
	c, err := New(Options{
		BaseURL:    "https://db.example.com",
		ServiceKey: service,
		Session:    "service_admin",
		Now:        func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Mode() != AdminBypass {
		t.Errorf("mode = %q, want %q", c.Mode(), AdminBypass)
	}
}

func TestOfflineShortCircuits(t *testing.T) {
	c, err := New(Options{Session: "offline"})
	if err != nil {
		t.Fatal(err)
	}
	if c.Enabled() {
		t.Fatalf("offline client reports enabled")
	}
	if _, err := c.ListCargos(context.Background()); !errors.Is(err, ErrOffline) {
		t.Errorf("ListCargos err = %v, want ErrOffline", err)
	}
	if err := c.DeleteActivity(context.Background(), "x"); !errors.Is(err, ErrOffline) {
		t.Errorf("DeleteActivity err = %v, want ErrOffline", err)
	}
}

func TestListCargosRequestShape(t *testing.T) {
	var gotPath, gotSelect, gotAuth, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSelect = r.URL.Query().Get("select")
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("apikey")
		json.NewEncoder(w).Encode([]map[string]any{
			{
				"id": 7, "cargo_nome": "64º Promotor de Justiça Criminal",
				"eh_acumulacao":    true,
				"promotor_titular": map[string]any{"nome": "Pedro Henrique Pavanelli Lima"},
			},
		})
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL, AnonKey: "anon-key", Session: "alex"})
	if err != nil {
		t.Fatal(err)
	}
	cargos, err := c.ListCargos(context.Background())
	if err != nil {
		t.Fatalf("ListCargos: %v", err)
	}
	if gotPath != "/rest/v1/tb_cargos_acumulacoes" {
		t.Errorf("path = %q", gotPath)
	}
	if gotSelect != cargoSelect {
		t.Errorf("select = %q", gotSelect)
	}
	if gotAuth != "Bearer anon-key" || gotKey != "anon-key" {
		t.Errorf("auth headers = %q / %q", gotAuth, gotKey)
	}
	if len(cargos) != 1 || cargos[0].PromotorTitular != "Pedro Henrique Pavanelli Lima" {
		t.Errorf("embedded promotor name not flattened: %+v", cargos)
	}
}

func TestPushActivityMergesDuplicates(t *testing.T) {
	seen := map[string]bool{}
	var gotConflict, gotPrefer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotConflict = r.URL.Query().Get("on_conflict")
		gotPrefer = r.Header.Get("Prefer")
		var rows []map[string]any
		if err := json.NewDecoder(r.Body).Decode(&rows); err != nil || len(rows) != 1 {
			http.Error(w, `{"message":"bad payload"}`, http.StatusBadRequest)
			return
		}
		id, _ := rows[0]["id"].(string)
		merge := strings.Contains(gotPrefer, "resolution=merge-duplicates")
		if seen[id] && !merge {
			// PostgREST answers a duplicate key with 409 unless the merge
			// resolution preference is sent.
			http.Error(w, `{"code":"23505"}`, http.StatusConflict)
			return
		}
		seen[id] = true
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL, AnonKey: "anon-key", Session: "alex"})
	if err != nil {
		t.Fatal(err)
	}
	a := domain.Activity{
		ID:             "11111111-2222-3333-4444-555555555555",
		NumeroProcesso: "1500123-45.2024.8.26.0050",
		Data:           "2024-06-10",
		Status:         domain.StatusPendente,
		Tipo:           "Outros",
		Cargo:          "64º Promotor de Justiça Criminal",
		Promotor:       "Pedro Henrique Pavanelli Lima",
	}
	if err := c.PushActivity(context.Background(), a); err != nil {
		t.Fatalf("first push: %v", err)
	}
	a.Status = domain.StatusConcluido
	if err := c.PushActivity(context.Background(), a); err != nil {
		t.Fatalf("second push of same id: %v", err)
	}
	if gotConflict != "id" {
		t.Errorf("on_conflict = %q", gotConflict)
	}
	if !strings.Contains(gotPrefer, "resolution=merge-duplicates") {
		t.Errorf("Prefer = %q, want merge resolution", gotPrefer)
	}
}

func TestDoSurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"permission denied"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL, AnonKey: "anon-key", Session: "alex"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.ListPromotores(context.Background()); err == nil {
		t.Fatalf("403 not surfaced")
	}
}

func TestFetchSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/v1/tb_cargos_acumulacoes":
			json.NewEncoder(w).Encode([]map[string]any{{"id": 1, "cargo_nome": "70º Promotor de Justiça Criminal"}})
		case "/rest/v1/master_promotores":
			json.NewEncoder(w).Encode([]map[string]any{{"id": 1, "nome": "Barbara da Cunha Defaveri"}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL, AnonKey: "anon-key", Session: "alex"})
	if err != nil {
		t.Fatal(err)
	}
	snap, err := c.FetchSnapshot(context.Background())
	if err != nil {
		t.Fatalf("FetchSnapshot: %v", err)
	}
	if len(snap.Cargos) != 1 || len(snap.Promotores) != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
}
