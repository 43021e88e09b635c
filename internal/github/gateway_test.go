// internal/github/gateway_test.go
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo emulates the contents API endpoint for a single file.
type fakeRepo struct {
	content  []byte
	sha      string
	exists   bool
	lastPut  putPayload
	putCount int
}

func (f *fakeRepo) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token test-token", r.Header.Get("Authorization"))
		switch r.Method {
		case http.MethodGet:
			if !f.exists {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{
				"content": base64.StdEncoding.EncodeToString(f.content),
				"sha":     f.sha,
			})
		case http.MethodPut:
			var payload putPayload
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			f.lastPut = payload
			f.putCount++
			if f.exists && payload.SHA != f.sha {
				w.WriteHeader(http.StatusConflict)
				return
			}
			raw, err := base64.StdEncoding.DecodeString(payload.Content)
			require.NoError(t, err)
			status := http.StatusOK
			if !f.exists {
				status = http.StatusCreated
			}
			f.content = raw
			f.sha = fmt.Sprintf("sha-%d", f.putCount)
			f.exists = true
			w.WriteHeader(status)
		}
	})
}

func newTestGateway(t *testing.T, repo *fakeRepo) *Gateway {
	srv := httptest.NewServer(repo.handler(t))
	t.Cleanup(srv.Close)
	g := NewGateway("test-token", "imune", "imune-bot-data", "data.json", "main")
	g.baseURL = srv.URL
	return g
}

func TestLoadAbsentFile(t *testing.T) {
	g := newTestGateway(t, &fakeRepo{})
	raw, err := g.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, raw, "missing remote file must read as absent, not as an error")
}

func TestSaveCreatesWithoutSHA(t *testing.T) {
	repo := &fakeRepo{}
	g := newTestGateway(t, repo)

	require.NoError(t, g.Save(context.Background(), []byte(`{"xp":{}}`), "first save"))
	assert.Empty(t, repo.lastPut.SHA, "create must not carry a version token")
	assert.Equal(t, "main", repo.lastPut.Branch)
	assert.Contains(t, repo.lastPut.Message, "first save @ ")
}

func TestSaveUpdatesWithSHA(t *testing.T) {
	repo := &fakeRepo{exists: true, sha: "abc123", content: []byte("{}")}
	g := newTestGateway(t, repo)

	require.NoError(t, g.Save(context.Background(), []byte(`{"xp":{"1":15}}`), "XP update"))
	assert.Equal(t, "abc123", repo.lastPut.SHA)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	repo := &fakeRepo{}
	g := newTestGateway(t, repo)

	doc := []byte(`{"config":{"welcome_message":"Olá {user}, seja bem-vindo(a)! 🎉"},"logs":[{"ts":"t","entry":"açúcar"}]}`)
	require.NoError(t, g.Save(context.Background(), doc, "roundtrip"))

	raw, err := g.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, doc, raw)
}

func TestSaveReportsFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	g := NewGateway("test-token", "imune", "imune-bot-data", "data.json", "main")
	g.baseURL = srv.URL
	err := g.Save(context.Background(), []byte("{}"), "save")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestLoadUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewGateway("test-token", "imune", "imune-bot-data", "data.json", "main")
	g.baseURL = srv.URL
	_, err := g.Load(context.Background())
	assert.Error(t, err)
}
