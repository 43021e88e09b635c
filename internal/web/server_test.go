// internal/web/server_test.go
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imune-bot/internal/state"
)

type fakeSaver struct {
	calls    int
	lastDesc string
	lastDoc  []byte
	fail     bool
}

func (f *fakeSaver) Save(ctx context.Context, doc []byte, message string) error {
	f.calls++
	f.lastDesc = message
	f.lastDoc = doc
	if f.fail {
		return context.DeadlineExceeded
	}
	return nil
}

func newTestServer(t *testing.T) (*Server, *state.Store, *fakeSaver) {
	store := state.NewStore()
	saver := &fakeSaver{}
	return NewServer(store, saver, "admin123", "test-secret"), store, saver
}

func login(t *testing.T, srv *Server) *http.Cookie {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"password":"admin123"}`))
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func doJSON(srv *Server, cookie *http.Cookie, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHomeKeepalive(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := doJSON(srv, nil, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Imune Bot is active!", rec.Body.String())
}

func TestLoginWrongPassword(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := doJSON(srv, nil, http.MethodPost, "/login", `{"password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIRequiresSession(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := doJSON(srv, nil, http.MethodGet, "/api/stats", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	bogus := &http.Cookie{Name: sessionCookie, Value: "forged"}
	rec = doJSON(srv, bogus, http.MethodGet, "/api/stats", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStats(t *testing.T) {
	srv, store, _ := newTestServer(t)
	store.AddXP("1", 30)
	store.AddWarn("1", "2", "spam")
	cookie := login(t, srv)

	rec := doJSON(srv, cookie, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats state.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalUsers)
	assert.Equal(t, 30, stats.TotalXP)
	assert.Equal(t, 1, stats.TotalWarns)
}

func TestUpdateConfigPersists(t *testing.T) {
	srv, store, saver := newTestServer(t)
	cookie := login(t, srv)

	rec := doJSON(srv, cookie, http.MethodPost, "/api/config",
		`{"welcome_channel":"700","welcome_message":"Olá {user}!","xp_rate":20}`)
	require.Equal(t, http.StatusOK, rec.Code)

	cfg := store.Config()
	assert.Equal(t, "700", cfg.WelcomeChannel)
	assert.Equal(t, "Olá {user}!", cfg.WelcomeMessage)
	require.NotNil(t, cfg.XPRate)
	assert.Equal(t, 20, *cfg.XPRate)

	assert.Equal(t, 1, saver.calls)
	assert.Contains(t, saver.lastDesc, "configuração")
	assert.Contains(t, string(saver.lastDoc), `"welcome_channel": "700"`)
}

func TestUpdateConfigRejectsNegativeRate(t *testing.T) {
	srv, _, saver := newTestServer(t)
	cookie := login(t, srv)

	rec := doJSON(srv, cookie, http.MethodPost, "/api/config", `{"xp_rate":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, saver.calls)
}

func TestSaveFailureIsReportedNotFatal(t *testing.T) {
	srv, store, saver := newTestServer(t)
	saver.fail = true
	cookie := login(t, srv)

	rec := doJSON(srv, cookie, http.MethodPost, "/api/config", `{"welcome_channel":"700"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"saved":false`)
	assert.Equal(t, "700", store.Config().WelcomeChannel, "in-memory mutation stands even when the save fails")
}

func TestLevelRolesAddRemove(t *testing.T) {
	srv, store, _ := newTestServer(t)
	cookie := login(t, srv)

	rec := doJSON(srv, cookie, http.MethodPost, "/api/level-roles", `{"action":"add","level":5,"role_id":"500"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	roleID, ok := store.LevelRole(5)
	require.True(t, ok)
	assert.Equal(t, "500", roleID)

	rec = doJSON(srv, cookie, http.MethodPost, "/api/level-roles", `{"action":"remove","level":5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	_, ok = store.LevelRole(5)
	assert.False(t, ok)

	rec = doJSON(srv, cookie, http.MethodPost, "/api/level-roles", `{"action":"remove","level":5}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReactionRolesRemoveLastPrunes(t *testing.T) {
	srv, store, _ := newTestServer(t)
	cookie := login(t, srv)

	doJSON(srv, cookie, http.MethodPost, "/api/reaction-roles", `{"action":"add","message_id":"900","emoji":"🎉","role_id":"500"}`)
	rec := doJSON(srv, cookie, http.MethodPost, "/api/reaction-roles", `{"action":"remove","message_id":"900","emoji":"🎉"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, store.ReactionRoles(), "900")
}

func TestRoleButtons(t *testing.T) {
	srv, store, _ := newTestServer(t)
	cookie := login(t, srv)

	rec := doJSON(srv, cookie, http.MethodPost, "/api/role-buttons", `{"action":"add","message_id":"901","label":"Gamer","role_id":"501"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	roleID, ok := store.RoleButton("901", "Gamer")
	require.True(t, ok)
	assert.Equal(t, "501", roleID)
}

func TestBlockedChannelsToggle(t *testing.T) {
	srv, store, _ := newTestServer(t)
	cookie := login(t, srv)

	rec := doJSON(srv, cookie, http.MethodPost, "/api/blocked-channels", `{"channel_id":"700"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, store.IsLinkBlocked("700"))

	doJSON(srv, cookie, http.MethodPost, "/api/blocked-channels", `{"channel_id":"700"}`)
	assert.False(t, store.IsLinkBlocked("700"))
}

func TestCommandChannels(t *testing.T) {
	srv, store, _ := newTestServer(t)
	cookie := login(t, srv)

	rec := doJSON(srv, cookie, http.MethodPost, "/api/command-channels", `{"action":"add","command":"rank","channel_id":"700"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, store.CommandAllowed("rank", "701"))
}

func TestWarnsEndpoints(t *testing.T) {
	srv, store, _ := newTestServer(t)
	cookie := login(t, srv)

	rec := doJSON(srv, cookie, http.MethodPost, "/api/warns", `{"user_id":"1","reason":"spam"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.Warns("1"), 1)

	rec = doJSON(srv, cookie, http.MethodGet, "/api/warns", "")
	assert.Contains(t, rec.Body.String(), "spam")

	rec = doJSON(srv, cookie, http.MethodPost, "/api/warns/clear", `{"user_id":"1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.Warns("1"))
}

func TestBackupIsRoundTrippable(t *testing.T) {
	srv, store, _ := newTestServer(t)
	store.AddXP("1", 45)
	cookie := login(t, srv)

	rec := doJSON(srv, cookie, http.MethodGet, "/api/backup", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	restored := state.NewStore()
	require.NoError(t, restored.MergeFrom(rec.Body.Bytes()))
	assert.Equal(t, 45, restored.XP("1"))
}

func TestLoginDisabledWithoutPassword(t *testing.T) {
	srv := NewServer(state.NewStore(), &fakeSaver{}, "", "secret")
	rec := doJSON(srv, nil, http.MethodPost, "/login", `{"password":""}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLogsEndpoint(t *testing.T) {
	srv, store, _ := newTestServer(t)
	store.AppendLog("primeiro")
	store.AppendLog("segundo")
	cookie := login(t, srv)

	rec := doJSON(srv, cookie, http.MethodGet, "/api/logs", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var logs []state.LogRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logs))
	require.Len(t, logs, 2)
	assert.Equal(t, "segundo", logs[0].Entry)
}
