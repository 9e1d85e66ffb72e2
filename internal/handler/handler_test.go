// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/kasaserena/serena-go/internal/auth"
	"github.com/kasaserena/serena-go/internal/cache"
	"github.com/kasaserena/serena-go/internal/imaging"
	"github.com/kasaserena/serena-go/internal/middleware"
	"github.com/kasaserena/serena-go/internal/model"
	"github.com/kasaserena/serena-go/internal/store"
)

type testEnv struct {
	h      *Handler
	st     store.Storage
	sm     *scs.SessionManager
	srv    *httptest.Server
	client *http.Client
}

// newTestEnv starts a server with the full route table, an in-memory store
// and cache, and the mock AI gateways. The client carries cookies.
func newTestEnv(t *testing.T, design *mockDesign, vision *mockVision) *testEnv {
	t.Helper()

	st := store.NewMemStore()
	sm := scs.New()
	c := cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })

	cfg := Config{
		Store:    st,
		Sessions: sm,
		Cache:    c,
		Images:   imaging.NewProcessor(t.TempDir()),
		Log:      slog.New(slog.DiscardHandler),
	}
	// A nil *mockDesign must stay a nil interface for the 503 guard.
	if design != nil {
		cfg.Design = design
	}
	if vision != nil {
		cfg.Vision = vision
	}
	h := New(cfg)

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Use(middleware.LoadUser(sm, st))

	r.Group(func(r chi.Router) {
		r.Get("/api/health", h.Health)
		r.Post("/api/register", h.Register)
		r.Post("/api/login", h.Login)
		r.Post("/api/contact", h.Contact)
		r.Post("/api/design-chat", h.DesignChat)
		r.Get("/api/materials", h.ListMaterials)
		r.Get("/api/materials/type/{type}", h.ListMaterialsByType)
		r.Get("/api/distributors", h.ListDistributors)
		r.Get("/api/distributors/{id}", h.GetDistributor)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/api/logout", h.Logout)
		r.Get("/api/user", h.CurrentUser)
		r.Put("/api/user", h.UpdateProfile)
		r.Post("/api/projects", h.CreateProject)
		r.Get("/api/projects", h.ListProjects)
		r.Get("/api/projects/user", h.ListUserProjects)
		r.Get("/api/projects/{id}", h.GetProject)
		r.Put("/api/projects/{id}", h.UpdateProject)
		r.Delete("/api/projects/{id}", h.DeleteProject)
		r.Post("/api/quotes", h.CreateQuote)
		r.Get("/api/quotes", h.ListUserQuotes)
		r.Get("/api/quotes/{id}", h.GetQuote)
		r.Post("/api/design-generator", h.DesignGenerator)
		r.Post("/api/generate-preview", h.GeneratePreview)
		r.Post("/api/estimate-cost", h.EstimateCost)
		r.Post("/api/design-suggestions", h.DesignSuggestions)
		r.Post("/api/analyze-image", h.AnalyzeImage)
		r.Post("/api/analyze-image-gemini", h.AnalyzeImageGemini)
		r.Post("/api/convert-heic", h.ConvertHEIC)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/api/admin/messages", h.ListMessages)
		r.Put("/api/admin/messages/{id}/read", h.MarkMessageRead)
		r.Get("/api/admin/quotes", h.ListQuotes)
		r.Put("/api/admin/quotes/{id}/status", h.UpdateQuoteStatus)
		r.Get("/api/admin/stats", h.GetStats)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("creating cookie jar: %v", err)
	}

	return &testEnv{
		h:      h,
		st:     st,
		sm:     sm,
		srv:    srv,
		client: &http.Client{Jar: jar},
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return out
}

// register creates an account through the API, leaving the session cookie
// in the client jar.
func (e *testEnv) register(t *testing.T, username string) model.User {
	t.Helper()

	resp := e.do(t, http.MethodPost, "/api/register", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "contraseña123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status = %d", username, resp.StatusCode)
	}
	return decodeBody[model.User](t, resp)
}

// registerAdmin creates an admin directly in the store and logs in through
// the API.
func (e *testEnv) registerAdmin(t *testing.T) model.User {
	t.Helper()

	hash, err := auth.HashPassword("contraseña123")
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	if _, err := e.st.CreateUser(t.Context(), store.CreateUserParams{
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}); err != nil {
		t.Fatalf("creating admin: %v", err)
	}

	resp := e.do(t, http.MethodPost, "/api/login", map[string]string{
		"username": "admin",
		"password": "contraseña123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin login: status = %d", resp.StatusCode)
	}
	return decodeBody[model.User](t, resp)
}

func TestRegisterLoginFlow(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	user := env.register(t, "maria")
	if user.ID == 0 || user.Username != "maria" {
		t.Fatalf("unexpected user: %+v", user)
	}

	// Registration logs the user in.
	resp := env.do(t, http.MethodGet, "/api/user", nil)
	current := decodeBody[model.User](t, resp)
	if resp.StatusCode != http.StatusOK || current.ID != user.ID {
		t.Fatalf("current user after register: status = %d, id = %d", resp.StatusCode, current.ID)
	}

	resp = env.do(t, http.MethodPost, "/api/logout", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: status = %d", resp.StatusCode)
	}
	resp = env.do(t, http.MethodGet, "/api/user", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("current user after logout: status = %d", resp.StatusCode)
	}

	// Wrong password.
	resp = env.do(t, http.MethodPost, "/api/login", map[string]string{
		"username": "maria", "password": "equivocada",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad password login: status = %d", resp.StatusCode)
	}

	// Login by email.
	resp = env.do(t, http.MethodPost, "/api/login", map[string]string{
		"username": "maria@example.com", "password": "contraseña123",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("email login: status = %d", resp.StatusCode)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.register(t, "maria")

	resp := env.do(t, http.MethodPost, "/api/register", map[string]any{
		"username": "maria",
		"email":    "otra@example.com",
		"password": "contraseña123",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate register: status = %d", resp.StatusCode)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	resp := env.do(t, http.MethodPost, "/api/register", map[string]any{
		"username": "ab",
		"email":    "no-es-correo",
		"password": "corta",
	})
	body := decodeBody[ErrorResponse](t, resp)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, field := range []string{"username", "email", "password"} {
		if body.Error.Details[field] == "" {
			t.Errorf("missing validation detail for %q", field)
		}
	}
}

func TestProjectOwnership(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	env.register(t, "maria")
	resp := env.do(t, http.MethodPost, "/api/projects", map[string]string{
		"name": "Puerta principal", "type": model.ProjectTypePuerta,
	})
	project := decodeBody[model.Project](t, resp)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create project: status = %d", resp.StatusCode)
	}

	// Second session takes over the jar.
	env.register(t, "pedro")
	path := fmt.Sprintf("/api/projects/%d", project.ID)

	resp = env.do(t, http.MethodPut, path, map[string]string{"name": "Mía ahora"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign update: status = %d", resp.StatusCode)
	}
	resp = env.do(t, http.MethodDelete, path, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign delete: status = %d", resp.StatusCode)
	}

	// Owner can still update.
	resp = env.do(t, http.MethodPost, "/api/login", map[string]string{
		"username": "maria", "password": "contraseña123",
	})
	resp.Body.Close()
	resp = env.do(t, http.MethodPut, path, map[string]string{"status": model.ProjectStatusInProgress})
	updated := decodeBody[model.Project](t, resp)
	if resp.StatusCode != http.StatusOK || updated.Status != model.ProjectStatusInProgress {
		t.Fatalf("owner update: status = %d, project status = %q", resp.StatusCode, updated.Status)
	}
}

func TestProjectValidation(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.register(t, "maria")

	resp := env.do(t, http.MethodPost, "/api/projects", map[string]string{
		"name": "Algo", "type": "castillo",
	})
	body := decodeBody[ErrorResponse](t, resp)
	if resp.StatusCode != http.StatusBadRequest || body.Error.Details["type"] == "" {
		t.Fatalf("status = %d, details = %v", resp.StatusCode, body.Error.Details)
	}
}

func TestQuoteFlow(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	maria := env.register(t, "maria")
	resp := env.do(t, http.MethodPost, "/api/projects", map[string]string{
		"name": "Cocina nueva", "type": model.ProjectTypeCocina,
	})
	project := decodeBody[model.Project](t, resp)

	resp = env.do(t, http.MethodPost, "/api/quotes", map[string]any{
		"projectId": project.ID,
		"details":   map[string]string{"material": "roble"},
	})
	quote := decodeBody[model.Quote](t, resp)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create quote: status = %d", resp.StatusCode)
	}
	if quote.UserID != maria.ID || quote.Status != model.QuoteStatusPending {
		t.Fatalf("unexpected quote: %+v", quote)
	}

	resp = env.do(t, http.MethodGet, "/api/quotes", nil)
	quotes := decodeBody[[]model.Quote](t, resp)
	if len(quotes) != 1 || quotes[0].ID != quote.ID {
		t.Fatalf("list quotes: %+v", quotes)
	}

	// A quote against someone else's project is rejected.
	env.register(t, "pedro")
	resp = env.do(t, http.MethodPost, "/api/quotes", map[string]any{
		"projectId": project.ID,
		"details":   map[string]string{"material": "pino"},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign project quote: status = %d", resp.StatusCode)
	}

	// And pedro can't read maria's quote.
	resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/quotes/%d", quote.ID), nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign quote read: status = %d", resp.StatusCode)
	}
}

func TestAdminRoutes(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	env.register(t, "maria")
	resp := env.do(t, http.MethodPost, "/api/quotes", map[string]any{
		"details": map[string]string{"material": "roble"},
	})
	quote := decodeBody[model.Quote](t, resp)

	// Regular users are rejected.
	resp = env.do(t, http.MethodGet, "/api/admin/stats", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-admin stats: status = %d", resp.StatusCode)
	}

	env.registerAdmin(t)

	resp = env.do(t, http.MethodGet, "/api/admin/stats", nil)
	stats := decodeBody[store.Stats](t, resp)
	if resp.StatusCode != http.StatusOK || stats.Quotes != 1 || stats.PendingQuotes != 1 {
		t.Fatalf("stats: status = %d, %+v", resp.StatusCode, stats)
	}

	path := fmt.Sprintf("/api/admin/quotes/%d/status", quote.ID)
	resp = env.do(t, http.MethodPut, path, map[string]string{"status": "perdida"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid status: status = %d", resp.StatusCode)
	}

	cost := int64(250000)
	resp = env.do(t, http.MethodPut, path, map[string]any{
		"status": model.QuoteStatusApproved, "totalCost": cost,
	})
	updated := decodeBody[model.Quote](t, resp)
	if resp.StatusCode != http.StatusOK || updated.Status != model.QuoteStatusApproved {
		t.Fatalf("approve quote: status = %d, %+v", resp.StatusCode, updated)
	}
}

func TestContactSanitization(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	resp := env.do(t, http.MethodPost, "/api/contact", map[string]any{
		"name":    "María <script>alert(1)</script>",
		"email":   "Maria@Example.com",
		"subject": "Cocinas",
		"message": "Hola <img src=x onerror=alert(1)> quiero una cotización",
	})
	msg := decodeBody[model.Message](t, resp)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("contact: status = %d", resp.StatusCode)
	}
	if strings.Contains(msg.Name, "<") || strings.Contains(msg.Message, "<") {
		t.Fatalf("markup survived sanitization: %+v", msg)
	}
	if msg.Email != "maria@example.com" {
		t.Fatalf("email not normalized: %q", msg.Email)
	}

	env.registerAdmin(t)
	resp = env.do(t, http.MethodPut, fmt.Sprintf("/api/admin/messages/%d/read", msg.ID), nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("mark read: status = %d", resp.StatusCode)
	}
	resp = env.do(t, http.MethodGet, "/api/admin/messages", nil)
	messages := decodeBody[[]model.Message](t, resp)
	if len(messages) != 1 || !messages[0].IsRead {
		t.Fatalf("messages after mark read: %+v", messages)
	}
}

func TestCatalogCaching(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := t.Context()

	if err := store.Seed(ctx, env.st, slog.New(slog.DiscardHandler)); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	resp := env.do(t, http.MethodGet, "/api/materials", nil)
	first := decodeBody[[]model.Material](t, resp)
	if len(first) == 0 {
		t.Fatal("no seeded materials")
	}

	// A catalog write behind the cache isn't visible until the TTL expires.
	if _, err := env.st.CreateMaterial(ctx, store.CreateMaterialParams{
		Name: "Nogal", Category: "madera", Type: "madera", Unit: "m2", Price: 95,
	}); err != nil {
		t.Fatalf("creating material: %v", err)
	}
	resp = env.do(t, http.MethodGet, "/api/materials", nil)
	second := decodeBody[[]model.Material](t, resp)
	if len(second) != len(first) {
		t.Fatalf("cached list changed: %d != %d", len(second), len(first))
	}
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.register(t, "maria")

	resp := env.do(t, http.MethodPut, "/api/user", map[string]any{
		"email":          "nueva@example.com",
		"fullName":       "María Pérez",
		"isProfessional": true,
	})
	updated := decodeBody[model.User](t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update profile: status = %d", resp.StatusCode)
	}
	if updated.Email != "nueva@example.com" || !updated.IsProfessional {
		t.Fatalf("unexpected profile: %+v", updated)
	}
}
