package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/form-autofill/internal/db"
	"github.com/jonathan/form-autofill/internal/jobcontext"
	"github.com/jonathan/form-autofill/internal/server/ratelimit"
	"github.com/jonathan/form-autofill/internal/types"
)

// memStore is an in-memory Store.
type memStore struct {
	mu        sync.Mutex
	profiles  map[uuid.UUID]*types.UserProfile
	runs      []db.FillRun
	recordErr error
}

func newMemStore() *memStore {
	return &memStore{profiles: make(map[uuid.UUID]*types.UserProfile)}
}

func (m *memStore) GetUserProfile(_ context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profiles[userID], nil
}

func (m *memStore) SaveUserProfile(_ context.Context, userID uuid.UUID, p *types.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[userID] = p
	return nil
}

func (m *memStore) RecordFillRun(_ context.Context, run *db.FillRun) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordErr != nil {
		return uuid.Nil, m.recordErr
	}
	r := *run
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	m.runs = append(m.runs, r)
	return r.ID, nil
}

func (m *memStore) ListFillRuns(_ context.Context, userID uuid.UUID, limit int) ([]db.FillRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.FillRun
	for _, r := range m.runs {
		if r.UserID != nil && *r.UserID == userID {
			out = append(out, r)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fixedAnswerer struct {
	answer string
	jobs   []types.JobContext
}

func (a *fixedAnswerer) Answer(_ context.Context, _ string, job types.JobContext, _ *types.UserProfile) (string, bool) {
	a.jobs = append(a.jobs, job)
	return a.answer, a.answer != ""
}

type testServer struct {
	*Server
	store    *memStore
	answerer *fixedAnswerer
	handler  http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := newMemStore()
	answerer := &fixedAnswerer{answer: "I build engines."}
	s := &Server{
		store:      store,
		answerer:   answerer,
		jobs:       jobcontext.NewCachedSource(jobcontext.NewExtractor(false), nil),
		jwtService: setupTestJWTService(t, 1),
	}
	return &testServer{Server: s, store: store, answerer: answerer, handler: s.Handler()}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func (ts *testServer) token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := ts.jwtService.GenerateToken(userID)
	require.NoError(t, err)
	return token
}

const applicationPage = `<html><head><title>Backend Engineer - Acme</title></head><body><form>
<label for="email">Email</label><input id="email" name="email" type="email">
<label for="why">Why do you want to work here?</label><textarea id="why" name="why"></textarea>
<input type="file" name="resume">
</form></body></html>`

const profileJSON = `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com",
"employment_history":[{"job_title":"Lead Engineer","company":"Engines Ltd","is_current":true}],"skills":["Go"]}`

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/health", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestScanEndpoint(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodPost, "/v1/scan", PageRequest{HTML: applicationPage, URL: "https://example.com/apply"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ScanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Fields, 3)
	assert.True(t, resp.Fields[0].TypeIs(types.Email))
	assert.True(t, resp.Fields[1].TypeIs(types.CustomQuestion))
	assert.Nil(t, resp.Fields[2].SemanticType)
	assert.Equal(t, types.JobContext{Title: "Backend Engineer", Company: "Acme"}, resp.Job)
}

func TestScanEndpoint_BadRequests(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name string
		body any
	}{
		{"not json", "{"},
		{"missing html", PageRequest{URL: "https://example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/v1/scan", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}

func TestAutofillEndpoint_InlineProfile(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodPost, "/v1/autofill", map[string]any{
		"html":    applicationPage,
		"url":     "https://example.com/apply",
		"profile": json.RawMessage(profileJSON),
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp AutofillResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Filled)
	assert.Equal(t, 1, resp.AIAnswered)
	assert.Contains(t, resp.HTML, `value="ada@example.com"`)
	assert.Contains(t, resp.HTML, "I build engines.</textarea>")
	assert.Equal(t, "Acme", resp.Job.Company)
	assert.Equal(t, []types.JobContext{{Title: "Backend Engineer", Company: "Acme"}}, ts.answerer.jobs)

	require.Len(t, ts.store.runs, 1)
	assert.Equal(t, resp.RunID, ts.store.runs[0].ID.String())
	assert.Nil(t, ts.store.runs[0].UserID)
}

func TestAutofillEndpoint_StoredProfile(t *testing.T) {
	ts := newTestServer(t)
	userID := uuid.New()
	ts.store.profiles[userID] = &types.UserProfile{Email: "stored@example.com"}

	w := ts.do(t, http.MethodPost, "/v1/autofill", PageRequest{HTML: applicationPage}, ts.token(t, userID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `stored@example.com`)

	require.Len(t, ts.store.runs, 1)
	require.NotNil(t, ts.store.runs[0].UserID)
	assert.Equal(t, userID, *ts.store.runs[0].UserID)
}

func TestAutofillEndpoint_Errors(t *testing.T) {
	ts := newTestServer(t)
	unknownUser := ts.token(t, uuid.New())

	tests := []struct {
		name   string
		body   any
		token  string
		status int
	}{
		{"no profile and anonymous", PageRequest{HTML: applicationPage}, "", http.StatusBadRequest},
		{"null profile and anonymous", `{"html":"<input>","profile":null}`, "", http.StatusBadRequest},
		{"invalid inline profile", `{"html":"<input>","profile":{"email":42}}`, "", http.StatusBadRequest},
		{"unknown field in profile", `{"html":"<input>","profile":{"nickname":"x"}}`, "", http.StatusBadRequest},
		{"bad email", `{"html":"<input>","profile":{"email":"not-an-email"}}`, "", http.StatusBadRequest},
		{"no stored profile", PageRequest{HTML: applicationPage}, unknownUser, http.StatusNotFound},
		{"invalid token", PageRequest{HTML: applicationPage}, "forged", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/v1/autofill", tt.body, tt.token)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
	assert.Empty(t, ts.store.runs)
}

func TestAutofillEndpoint_RecordFailureStillFills(t *testing.T) {
	ts := newTestServer(t)
	ts.store.recordErr = errors.New("db down")

	w := ts.do(t, http.MethodPost, "/v1/autofill", map[string]any{
		"html":    applicationPage,
		"profile": json.RawMessage(profileJSON),
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp AutofillResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.RunID)
	assert.Equal(t, 1, resp.Filled)
}

func TestProfileEndpoints(t *testing.T) {
	ts := newTestServer(t)
	userID := uuid.New()
	token := ts.token(t, userID)

	w := ts.do(t, http.MethodGet, "/v1/profile", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodPut, "/v1/profile", profileJSON, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodGet, "/v1/profile", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var got types.UserProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, "Engines Ltd", got.EmploymentHistory[0].Company)

	w = ts.do(t, http.MethodPut, "/v1/profile", `{"years_experience":200}`, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodGet, "/v1/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListRunsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	userID := uuid.New()
	token := ts.token(t, userID)
	ts.store.profiles[userID] = &types.UserProfile{Email: "a@example.com"}

	for i := 0; i < 3; i++ {
		w := ts.do(t, http.MethodPost, "/v1/autofill", PageRequest{HTML: applicationPage, URL: "https://example.com/apply"}, token)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := ts.do(t, http.MethodGet, "/v1/runs?limit=2", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Runs []db.FillRun `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Runs, 2)
	assert.Equal(t, "https://example.com/apply", resp.Runs[0].PageURL)

	w = ts.do(t, http.MethodGet, "/v1/runs?limit=-1", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodGet, "/v1/runs", nil, ts.token(t, uuid.New()))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"runs":[]}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodOptions, "/v1/autofill", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t)
	ts.rateLimiter = ratelimit.NewLimiter(&ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/v1/scan", Method: "POST", Limit: 1, Window: time.Hour, Burst: 1},
		},
	})
	defer ts.rateLimiter.Stop()
	handler := ts.Handler()

	send := func() *httptest.ResponseRecorder {
		body, _ := json.Marshal(PageRequest{HTML: applicationPage})
		req := httptest.NewRequest(http.MethodPost, "/v1/scan", bytes.NewReader(body))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send().Code)
	w := send()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
}
