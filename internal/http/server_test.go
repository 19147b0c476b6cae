package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trackmaster/internal/blob"
	"trackmaster/internal/core"
	"trackmaster/internal/services"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s := NewServer(":0", services.New(blob.NewMemoryStore()), []string{"*"})
	t.Cleanup(func() {
		s.limiter.Stop()
		s.cacheMgr.Stop()
	})
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func signupAndLogin(t *testing.T, s *Server) userPayload {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/api/auth/signup", signupRequest{
		Username: "alice", Email: "alice@example.com", Password: "Secret1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, body %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, s, http.MethodPost, "/api/auth/login", loginRequest{
		Identifier: "alice", Password: "Secret1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	return decode[userPayload](t, rec)
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, s, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	signupAndLogin(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/auth/signup", signupRequest{
		Username: "someone-else", Email: "ALICE@example.com", Password: "x",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if payload := decode[errorPayload](t, rec); payload.Error != "email already exists" {
		t.Errorf("error = %q", payload.Error)
	}
}

func TestLoginErrors(t *testing.T) {
	s := newTestServer(t)
	signupAndLogin(t, s)

	tests := []struct {
		name       string
		identifier string
		password   string
		wantStatus int
	}{
		{"unknown account", "nobody", "x", http.StatusNotFound},
		{"wrong password", "alice", "secret1", http.StatusUnauthorized},
		{"email identifier", " ALICE@EXAMPLE.COM ", "Secret1", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/api/auth/login", loginRequest{
				Identifier: tt.identifier, Password: tt.password,
			})
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/auth/session", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("session status = %d", rec.Code)
	}
	if resp := decode[sessionResponse](t, rec); resp.User != nil {
		t.Fatal("expected empty session before login")
	}

	user := signupAndLogin(t, s)

	rec = doJSON(t, s, http.MethodGet, "/api/auth/session", nil)
	resp := decode[sessionResponse](t, rec)
	if resp.User == nil || resp.User.ID != user.ID {
		t.Fatalf("session user = %+v, want id %s", resp.User, user.ID)
	}

	if rec = doJSON(t, s, http.MethodPost, "/api/auth/logout", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/auth/session", nil)
	if resp := decode[sessionResponse](t, rec); resp.User != nil {
		t.Fatal("expected empty session after logout")
	}
}

func TestExpenseCRUD(t *testing.T) {
	s := newTestServer(t)
	user := signupAndLogin(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/expenses/", core.ExpenseInput{
		UserID: user.ID, Title: "Coffee", Amount: 3.50,
		Category: core.Food, Date: "2026-08-26",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decode[core.Expense](t, rec)
	if created.ID == "" || created.CreatedAt == 0 {
		t.Fatalf("created expense missing id or createdAt: %+v", created)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/expenses/?userId="+user.ID, nil)
	if got := decode[[]core.Expense](t, rec); len(got) != 1 || got[0].ID != created.ID {
		t.Fatalf("list = %+v, want the created expense", got)
	}

	created.Title = "Espresso"
	rec = doJSON(t, s, http.MethodPut, "/api/expenses/"+created.ID, created)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodGet, "/api/expenses/?userId="+user.ID, nil)
	if got := decode[[]core.Expense](t, rec); got[0].Title != "Espresso" {
		t.Fatalf("title after update = %q", got[0].Title)
	}

	if rec = doJSON(t, s, http.MethodDelete, "/api/expenses/"+created.ID, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	// Idempotent: deleting again still succeeds
	if rec = doJSON(t, s, http.MethodDelete, "/api/expenses/"+created.ID, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("second delete status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/expenses/?userId="+user.ID, nil)
	if got := decode[[]core.Expense](t, rec); len(got) != 0 {
		t.Fatalf("list after delete = %+v, want empty", got)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	s := newTestServer(t)
	user := signupAndLogin(t, s)

	tests := []struct {
		name  string
		input core.ExpenseInput
	}{
		{"empty title", core.ExpenseInput{UserID: user.ID, Title: "  ", Amount: 1, Category: core.Food, Date: "2026-08-26"}},
		{"zero amount", core.ExpenseInput{UserID: user.ID, Title: "x", Amount: 0, Category: core.Food, Date: "2026-08-26"}},
		{"bad date", core.ExpenseInput{UserID: user.ID, Title: "x", Amount: 1, Category: core.Food, Date: "26/08/2026"}},
		{"bad category", core.ExpenseInput{UserID: user.ID, Title: "x", Amount: 1, Category: "Gadgets", Date: "2026-08-26"}},
		{"missing user", core.ExpenseInput{Title: "x", Amount: 1, Category: core.Food, Date: "2026-08-26"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/api/expenses/", tt.input)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/categories", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	cats := decode[[]core.Category](t, rec)
	if len(cats) != 8 || cats[0] != core.Food || cats[7] != core.Other {
		t.Fatalf("categories = %v", cats)
	}
}

func TestExpenseHistoryGroupsByDate(t *testing.T) {
	s := newTestServer(t)
	user := signupAndLogin(t, s)

	for i, date := range []string{"2026-08-26", "2026-08-26", "2026-08-25"} {
		rec := doJSON(t, s, http.MethodPost, "/api/expenses/", core.ExpenseInput{
			UserID: user.ID, Title: fmt.Sprintf("item %d", i), Amount: 10,
			Category: core.Shopping, Date: date,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create status = %d", rec.Code)
		}
	}

	rec := doJSON(t, s, http.MethodGet, "/api/expenses/history?userId="+user.ID, nil)
	groups := decode[[]core.DayGroup](t, rec)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Date != "2026-08-26" || groups[0].Total != 20 {
		t.Errorf("first group = %s total %v", groups[0].Date, groups[0].Total)
	}
	if groups[1].Date != "2026-08-25" {
		t.Errorf("second group date = %s", groups[1].Date)
	}
}

func TestReportSummary(t *testing.T) {
	s := newTestServer(t)
	user := signupAndLogin(t, s)

	today := time.Now().UTC().Format(time.DateOnly)
	rec := doJSON(t, s, http.MethodPost, "/api/expenses/", core.ExpenseInput{
		UserID: user.ID, Title: "Groceries", Amount: 25,
		Category: core.Food, Date: today,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/reports/summary?userId="+user.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d, body %s", rec.Code, rec.Body.String())
	}
	sum := decode[summaryResponse](t, rec)
	if sum.Totals.Today != 25 || sum.Total != 25 {
		t.Errorf("summary = %+v", sum)
	}
	if len(sum.Categories) != 1 || sum.Categories[0].Category != core.Food {
		t.Errorf("categories = %+v", sum.Categories)
	}
}

func TestReportCacheInvalidation(t *testing.T) {
	s := newTestServer(t)
	user := signupAndLogin(t, s)

	today := time.Now().UTC().Format(time.DateOnly)
	add := func(amount float64) {
		rec := doJSON(t, s, http.MethodPost, "/api/expenses/", core.ExpenseInput{
			UserID: user.ID, Title: "x", Amount: amount,
			Category: core.Food, Date: today,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create status = %d", rec.Code)
		}
	}

	add(10)
	rec := doJSON(t, s, http.MethodGet, "/api/reports/summary?userId="+user.ID, nil)
	if sum := decode[summaryResponse](t, rec); sum.Total != 10 {
		t.Fatalf("total = %v, want 10", sum.Total)
	}

	// A mutation must invalidate the cached report
	add(5)
	rec = doJSON(t, s, http.MethodGet, "/api/reports/summary?userId="+user.ID, nil)
	if sum := decode[summaryResponse](t, rec); sum.Total != 15 {
		t.Fatalf("total after second add = %v, want 15", sum.Total)
	}
}

func TestChartEndpoints(t *testing.T) {
	s := newTestServer(t)
	user := signupAndLogin(t, s)

	// No data yet
	rec := doJSON(t, s, http.MethodGet, "/api/reports/chart/categories.png?userId="+user.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("empty chart status = %d, want 404", rec.Code)
	}

	today := time.Now().UTC().Format(time.DateOnly)
	recAdd := doJSON(t, s, http.MethodPost, "/api/expenses/", core.ExpenseInput{
		UserID: user.ID, Title: "Bus", Amount: 2.40,
		Category: core.Transportation, Date: today,
	})
	if recAdd.Code != http.StatusCreated {
		t.Fatalf("create status = %d", recAdd.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/reports/chart/categories.png?userId="+user.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("chart status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %s", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte{0x89, 'P', 'N', 'G'}) {
		t.Error("expected PNG body")
	}

	rec = doJSON(t, s, http.MethodGet, "/api/reports/chart/daily.png?userId="+user.ID+"&days=7", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("daily chart status = %d", rec.Code)
	}
}

func TestMissingUserIDRejected(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{
		"/api/expenses/",
		"/api/expenses/history",
		"/api/reports/summary",
		"/api/reports/daily",
	} {
		rec := doJSON(t, s, http.MethodGet, path, nil)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s status = %d, want 422", path, rec.Code)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/categories", nil)
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}
