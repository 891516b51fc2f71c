package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/demplar/character-vault/internal/config"
	"github.com/demplar/character-vault/internal/db"
	"github.com/demplar/character-vault/internal/roles"
	"github.com/demplar/character-vault/internal/session"
	"github.com/demplar/character-vault/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const testCookieName = "vault_sid"

type testServer struct {
	engine   *gin.Engine
	store    *storage.Storage
	sessions *session.Manager
	conn     *gorm.DB
}

// newTestServer builds a full router over a fresh sqlite database with the
// default master account and one readonly account.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := "file:" + filepath.Join(t.TempDir(), "api-test.db")
	conn, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	store := storage.New(conn)
	ctx := context.Background()
	if errBootstrap := store.InitializeDefaultUser(ctx, "", ""); errBootstrap != nil {
		t.Fatalf("bootstrap: %v", errBootstrap)
	}
	if _, errViewer := store.CreateUser(ctx, "viewer", "lookdonttouch", roles.RoleReadonly); errViewer != nil {
		t.Fatalf("create viewer: %v", errViewer)
	}

	sessions := session.NewManager(conn, time.Hour)
	cfg := config.Config{
		Session:        config.SessionConfig{TTL: time.Hour, CookieName: testCookieName},
		LoginRateLimit: 100,
	}

	engine := gin.New()
	RegisterRoutes(engine, conn, store, sessions, nil, cfg)
	return &testServer{engine: engine, store: store, sessions: sessions, conn: conn}
}

// do sends one request, optionally with a JSON body and a session cookie.
func (ts *testServer) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if errEncode := json.NewEncoder(&buf).Encode(body); errEncode != nil {
			t.Fatalf("encode body: %v", errEncode)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

// login authenticates and returns the issued session cookie.
func (ts *testServer) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/login", gin.H{"username": username, "password": password}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login %q: status %d body %s", username, w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookieName && c.Value != "" {
			return c
		}
	}
	t.Fatalf("login %q: no session cookie issued", username)
	return nil
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out := map[string]any{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return out
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/login", gin.H{"username": "master", "password": "password"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user object, got %v", body)
	}
	if user["username"] != "master" || user["role"] != "master" {
		t.Fatalf("unexpected user payload: %v", user)
	}

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookieName {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatalf("expected session cookie")
	}
	if !cookie.HttpOnly {
		t.Fatalf("session cookie must be http-only")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/login", gin.H{"username": "master", "password": "wrong"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", w.Code)
	}
	if decodeBody(t, w)["message"] != "Invalid credentials" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}

	w = ts.do(t, http.MethodPost, "/api/login", gin.H{"username": "master"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing password: status %d, want 400", w.Code)
	}
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, "master", "password")

	w := ts.do(t, http.MethodPost, "/api/logout", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: status %d", w.Code)
	}

	// The old sid must no longer authenticate.
	w = ts.do(t, http.MethodGet, "/api/characters", nil, cookie)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("revoked session: status %d, want 401", w.Code)
	}
}

func TestAuthStatus(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/auth/status", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if decodeBody(t, w)["authenticated"] != false {
		t.Fatalf("anonymous must be unauthenticated: %s", w.Body.String())
	}

	cookie := ts.login(t, "viewer", "lookdonttouch")
	w = ts.do(t, http.MethodGet, "/api/auth/status", nil, cookie)
	body := decodeBody(t, w)
	if body["authenticated"] != true {
		t.Fatalf("expected authenticated: %s", w.Body.String())
	}
	user := body["user"].(map[string]any)
	if user["role"] != "readonly" {
		t.Fatalf("unexpected role: %v", user)
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/characters", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", w.Code)
	}

	bogus := &http.Cookie{Name: testCookieName, Value: "not-a-real-sid"}
	w = ts.do(t, http.MethodGet, "/api/characters", nil, bogus)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bogus sid: status %d, want 401", w.Code)
	}
}

func TestReadonlyCannotMutate(t *testing.T) {
	ts := newTestServer(t)
	viewer := ts.login(t, "viewer", "lookdonttouch")

	// Reads are allowed.
	w := ts.do(t, http.MethodGet, "/api/characters", nil, viewer)
	if w.Code != http.StatusOK {
		t.Fatalf("viewer read: status %d", w.Code)
	}

	// Every mutation is refused.
	mutations := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodPost, "/api/characters", gin.H{"name": "X", "playerName": "Y", "className": "Z"}},
		{http.MethodPatch, "/api/characters/1", gin.H{"gold": 1}},
		{http.MethodDelete, "/api/characters/1", nil},
		{http.MethodPost, "/api/session-logs", gin.H{"characterId": 1, "title": "t", "description": "d", "sessionDate": "2026-08-30"}},
		{http.MethodPatch, "/api/session-logs/1", gin.H{"title": "t"}},
		{http.MethodDelete, "/api/session-logs/1", nil},
	}
	for _, m := range mutations {
		w := ts.do(t, m.method, m.path, m.body, viewer)
		if w.Code != http.StatusForbidden {
			t.Errorf("%s %s: status %d, want 403", m.method, m.path, w.Code)
		}
	}
}

func TestStaleSessionIsDestroyed(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	user, err := ts.store.CreateUser(ctx, "temp", "shortlived", roles.RoleReadonly)
	if err != nil {
		t.Fatalf("create temp user: %v", err)
	}
	cookie := ts.login(t, "temp", "shortlived")

	// Remove the account out from under the live session.
	if errDelete := ts.conn.Delete(user).Error; errDelete != nil {
		t.Fatalf("delete user: %v", errDelete)
	}

	w := ts.do(t, http.MethodGet, "/api/characters", nil, cookie)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("stale session: status %d, want 401", w.Code)
	}
	if decodeBody(t, w)["message"] != "Invalid session" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}

	// The session row itself must be gone, not just rejected.
	payload, errGet := ts.sessions.Get(ctx, cookie.Value)
	if errGet != nil {
		t.Fatalf("session lookup: %v", errGet)
	}
	if payload != nil {
		t.Fatalf("stale session must be destroyed")
	}
}

func TestCharacterEndpoints(t *testing.T) {
	ts := newTestServer(t)
	master := ts.login(t, "master", "password")

	w := ts.do(t, http.MethodPost, "/api/characters", gin.H{
		"name":       "Bron",
		"playerName": "Marcus",
		"className":  "Sentinel",
	}, master)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", w.Code, w.Body.String())
	}
	created := decodeBody(t, w)
	if created["strength"] != float64(50) || created["level"] != float64(1) {
		t.Fatalf("creation defaults missing: %v", created)
	}
	id := uint64(created["id"].(float64))

	w = ts.do(t, http.MethodGet, fmt.Sprintf("/api/characters/%d", id), nil, master)
	if w.Code != http.StatusOK {
		t.Fatalf("get: status %d", w.Code)
	}

	w = ts.do(t, http.MethodPatch, fmt.Sprintf("/api/characters/%d", id), gin.H{"gold": 100}, master)
	if w.Code != http.StatusOK {
		t.Fatalf("patch: status %d body %s", w.Code, w.Body.String())
	}
	patched := decodeBody(t, w)
	if patched["gold"] != float64(100) {
		t.Fatalf("gold not patched: %v", patched["gold"])
	}
	if patched["createdAt"] != created["createdAt"] {
		t.Fatalf("createdAt changed: %v -> %v", created["createdAt"], patched["createdAt"])
	}

	w = ts.do(t, http.MethodGet, "/api/characters/player/Marcus", nil, master)
	if w.Code != http.StatusOK {
		t.Fatalf("list by player: status %d", w.Code)
	}
	var roster []map[string]any
	if errDecode := json.Unmarshal(w.Body.Bytes(), &roster); errDecode != nil {
		t.Fatalf("decode roster: %v", errDecode)
	}
	if len(roster) != 1 || roster[0]["name"] != "Bron" {
		t.Fatalf("unexpected roster: %v", roster)
	}

	w = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/characters/%d", id), nil, master)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status %d", w.Code)
	}

	w = ts.do(t, http.MethodGet, fmt.Sprintf("/api/characters/%d", id), nil, master)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status %d, want 404", w.Code)
	}
}

func TestCharacterSearch(t *testing.T) {
	ts := newTestServer(t)
	master := ts.login(t, "master", "password")

	w := ts.do(t, http.MethodPost, "/api/characters", gin.H{
		"name":       "Bron",
		"playerName": "Marcus",
		"className":  "Sentinel",
	}, master)
	if w.Code != http.StatusCreated {
		t.Fatalf("seed: status %d", w.Code)
	}

	w = ts.do(t, http.MethodGet, "/api/characters/search?q=bro", nil, master)
	if w.Code != http.StatusOK {
		t.Fatalf("search: status %d", w.Code)
	}
	var hits []map[string]any
	if errDecode := json.Unmarshal(w.Body.Bytes(), &hits); errDecode != nil {
		t.Fatalf("decode hits: %v", errDecode)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}

	// A blank query yields an empty list, not an error.
	w = ts.do(t, http.MethodGet, "/api/characters/search?q=%20%20", nil, master)
	if w.Code != http.StatusOK {
		t.Fatalf("blank search: status %d", w.Code)
	}
	if w.Body.String() != "[]" {
		t.Fatalf("blank search body = %s, want []", w.Body.String())
	}
}

func TestCharacterValidationOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	master := ts.login(t, "master", "password")

	w := ts.do(t, http.MethodPost, "/api/characters", gin.H{"name": "Bron"}, master)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing fields: status %d, want 400", w.Code)
	}

	w = ts.do(t, http.MethodGet, "/api/characters/not-a-number", nil, master)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad id: status %d, want 400", w.Code)
	}

	w = ts.do(t, http.MethodPatch, "/api/characters/99999", gin.H{"gold": 5}, master)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown id: status %d, want 404", w.Code)
	}
}

func TestSessionLogEndpoints(t *testing.T) {
	ts := newTestServer(t)
	master := ts.login(t, "master", "password")

	w := ts.do(t, http.MethodPost, "/api/characters", gin.H{
		"name":       "Bron",
		"playerName": "Marcus",
		"className":  "Sentinel",
	}, master)
	if w.Code != http.StatusCreated {
		t.Fatalf("seed character: status %d", w.Code)
	}
	charID := uint64(decodeBody(t, w)["id"].(float64))

	w = ts.do(t, http.MethodPost, "/api/session-logs", gin.H{
		"characterId": charID,
		"title":       "Raid",
		"description": "Into the deep",
		"xpGained":    300,
		"sessionDate": "2026-08-30",
	}, master)
	if w.Code != http.StatusCreated {
		t.Fatalf("create log: status %d body %s", w.Code, w.Body.String())
	}
	logID := uint64(decodeBody(t, w)["id"].(float64))

	w = ts.do(t, http.MethodGet, fmt.Sprintf("/api/characters/%d/session-logs", charID), nil, master)
	if w.Code != http.StatusOK {
		t.Fatalf("list logs: status %d", w.Code)
	}
	var logs []map[string]any
	if errDecode := json.Unmarshal(w.Body.Bytes(), &logs); errDecode != nil {
		t.Fatalf("decode logs: %v", errDecode)
	}
	if len(logs) != 1 || logs[0]["xpGained"] != float64(300) {
		t.Fatalf("unexpected logs: %v", logs)
	}

	w = ts.do(t, http.MethodPatch, fmt.Sprintf("/api/session-logs/%d", logID), gin.H{"title": "Deep Raid"}, master)
	if w.Code != http.StatusOK {
		t.Fatalf("patch log: status %d body %s", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["title"] != "Deep Raid" {
		t.Fatalf("title not patched: %s", w.Body.String())
	}

	w = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/session-logs/%d", logID), nil, master)
	if w.Code != http.StatusOK {
		t.Fatalf("delete log: status %d", w.Code)
	}
	w = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/session-logs/%d", logID), nil, master)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete: status %d, want 404", w.Code)
	}
}

func TestLoginRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	dsn := "file:" + filepath.Join(t.TempDir(), "throttle-test.db")
	conn, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	store := storage.New(conn)
	if errBootstrap := store.InitializeDefaultUser(context.Background(), "", ""); errBootstrap != nil {
		t.Fatalf("bootstrap: %v", errBootstrap)
	}

	engine := gin.New()
	cfg := config.Config{
		Session:        config.SessionConfig{TTL: time.Hour, CookieName: testCookieName},
		LoginRateLimit: 2,
	}
	RegisterRoutes(engine, conn, store, session.NewManager(conn, time.Hour), nil, cfg)
	ts := &testServer{engine: engine}

	for i := 0; i < 2; i++ {
		w := ts.do(t, http.MethodPost, "/api/login", gin.H{"username": "master", "password": "wrong"}, nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status %d, want 401", i, w.Code)
		}
	}
	w := ts.do(t, http.MethodPost, "/api/login", gin.H{"username": "master", "password": "password"}, nil)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("throttled attempt: status %d, want 429", w.Code)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/healthz", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if decodeBody(t, w)["status"] != "ok" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}
