// internal/web/server.go
package web

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"imune-bot/internal/state"
)

const sessionCookie = "panel_session"

// Saver is the slice of the persistence gateway the panel needs.
type Saver interface {
	Save(ctx context.Context, doc []byte, message string) error
}

// Server is the web panel: a keepalive route plus JSON APIs over the same
// shared store the bot mutates. Authentication is a single admin password
// exchanged for an opaque session cookie.
type Server struct {
	store    *state.Store
	saver    Saver
	password string
	secret   string
	mux      *http.ServeMux
}

func NewServer(store *state.Store, saver Saver, password, secret string) *Server {
	s := &Server{
		store:    store,
		saver:    saver,
		password: password,
		secret:   secret,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) routes() {
	s.mux.HandleFunc("GET /", s.handleHome)
	s.mux.HandleFunc("POST /login", s.handleLogin)
	s.mux.HandleFunc("POST /logout", s.handleLogout)

	s.mux.HandleFunc("GET /api/stats", s.auth(s.handleStats))
	s.mux.HandleFunc("GET /api/config", s.auth(s.handleGetConfig))
	s.mux.HandleFunc("POST /api/config", s.auth(s.handleUpdateConfig))
	s.mux.HandleFunc("GET /api/ranking", s.auth(s.handleRanking))
	s.mux.HandleFunc("GET /api/level-roles", s.auth(s.handleGetLevelRoles))
	s.mux.HandleFunc("POST /api/level-roles", s.auth(s.handleUpdateLevelRoles))
	s.mux.HandleFunc("GET /api/reaction-roles", s.auth(s.handleGetReactionRoles))
	s.mux.HandleFunc("POST /api/reaction-roles", s.auth(s.handleUpdateReactionRoles))
	s.mux.HandleFunc("GET /api/role-buttons", s.auth(s.handleGetRoleButtons))
	s.mux.HandleFunc("POST /api/role-buttons", s.auth(s.handleUpdateRoleButtons))
	s.mux.HandleFunc("GET /api/blocked-channels", s.auth(s.handleGetBlockedChannels))
	s.mux.HandleFunc("POST /api/blocked-channels", s.auth(s.handleUpdateBlockedChannels))
	s.mux.HandleFunc("GET /api/command-channels", s.auth(s.handleGetCommandChannels))
	s.mux.HandleFunc("POST /api/command-channels", s.auth(s.handleUpdateCommandChannels))
	s.mux.HandleFunc("GET /api/warns", s.auth(s.handleGetWarns))
	s.mux.HandleFunc("POST /api/warns", s.auth(s.handleAddWarn))
	s.mux.HandleFunc("POST /api/warns/clear", s.auth(s.handleClearWarns))
	s.mux.HandleFunc("GET /api/logs", s.auth(s.handleLogs))
	s.mux.HandleFunc("GET /api/backup", s.auth(s.handleBackup))
}

// sessionToken derives the opaque session value from the panel secret.
func (s *Server) sessionToken() string {
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte("imune-panel"))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil || !hmac.Equal([]byte(cookie.Value), []byte(s.sessionToken())) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "faça login para acessar o painel"})
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "corpo inválido"})
		return false
	}
	return true
}

// persist uploads the current document; the mutation already happened, so a
// failed save only flips the "saved" flag in the response.
func (s *Server) persist(ctx context.Context, description string) bool {
	snap, err := s.store.Snapshot()
	if err != nil {
		log.Printf("Error serializing document: %v", err)
		return false
	}
	if err := s.saver.Save(ctx, snap, description); err != nil {
		log.Printf("Error saving data to GitHub: %v", err)
		return false
	}
	return true
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	fmt.Fprint(w, "Imune Bot is active!")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.password == "" {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "painel desativado"})
		return
	}
	var req struct {
		Password string `json:"password"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if req.Password != s.password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "senha incorreta"})
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    s.sessionToken(),
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Now().Add(24 * time.Hour),
	})
	writeJSON(w, http.StatusOK, map[string]bool{"logged_in": true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]bool{"logged_in": false})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Stats())
}

func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.TopXP(10))
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Config())
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req state.Settings
	if !readJSON(w, r, &req) {
		return
	}
	if req.XPRate != nil && *req.XPRate < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "xp_rate não pode ser negativo"})
		return
	}
	s.store.UpdateConfig(func(c *state.Settings) { *c = req })
	saved := s.persist(r.Context(), "Atualização de configuração via painel")
	writeJSON(w, http.StatusOK, map[string]bool{"saved": saved})
}

func (s *Server) handleGetLevelRoles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.LevelRoles())
}

func (s *Server) handleUpdateLevelRoles(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string `json:"action"`
		Level  int    `json:"level"`
		RoleID string `json:"role_id"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	switch req.Action {
	case "add":
		if req.Level < 1 || req.RoleID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "nível e cargo são obrigatórios"})
			return
		}
		s.store.SetLevelRole(req.Level, req.RoleID)
	case "remove":
		if !s.store.RemoveLevelRole(req.Level) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "nível não encontrado"})
			return
		}
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "action deve ser add ou remove"})
		return
	}
	saved := s.persist(r.Context(), "Atualização de cargos por nível via painel")
	writeJSON(w, http.StatusOK, map[string]bool{"saved": saved})
}

func (s *Server) handleGetReactionRoles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.ReactionRoles())
}

func (s *Server) handleUpdateReactionRoles(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action    string `json:"action"`
		MessageID string `json:"message_id"`
		Emoji     string `json:"emoji"`
		RoleID    string `json:"role_id"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	switch req.Action {
	case "add":
		if req.MessageID == "" || req.Emoji == "" || req.RoleID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message_id, emoji e role_id são obrigatórios"})
			return
		}
		s.store.SetReactionRole(req.MessageID, req.Emoji, req.RoleID)
	case "remove":
		if _, ok := s.store.RemoveReactionRole(req.MessageID, req.Emoji); !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "mapeamento não encontrado"})
			return
		}
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "action deve ser add ou remove"})
		return
	}
	saved := s.persist(r.Context(), "Atualização de reaction roles via painel")
	writeJSON(w, http.StatusOK, map[string]bool{"saved": saved})
}

func (s *Server) handleGetRoleButtons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.RoleButtons())
}

func (s *Server) handleUpdateRoleButtons(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action    string `json:"action"`
		MessageID string `json:"message_id"`
		Label     string `json:"label"`
		RoleID    string `json:"role_id"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	switch req.Action {
	case "add":
		if req.MessageID == "" || req.Label == "" || req.RoleID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message_id, label e role_id são obrigatórios"})
			return
		}
		s.store.SetRoleButton(req.MessageID, req.Label, req.RoleID)
	case "remove":
		if !s.store.RemoveRoleButton(req.MessageID, req.Label) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "botão não encontrado"})
			return
		}
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "action deve ser add ou remove"})
		return
	}
	saved := s.persist(r.Context(), "Atualização de botões de cargo via painel")
	writeJSON(w, http.StatusOK, map[string]bool{"saved": saved})
}

func (s *Server) handleGetBlockedChannels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.BlockedLinkChannels())
}

func (s *Server) handleUpdateBlockedChannels(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChannelID string `json:"channel_id"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if req.ChannelID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "channel_id é obrigatório"})
		return
	}
	blocked := s.store.ToggleBlockedLinkChannel(req.ChannelID)
	saved := s.persist(r.Context(), "Atualização de canais bloqueados via painel")
	writeJSON(w, http.StatusOK, map[string]bool{"blocked": blocked, "saved": saved})
}

func (s *Server) handleGetCommandChannels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.CommandChannels())
}

func (s *Server) handleUpdateCommandChannels(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action    string `json:"action"`
		Command   string `json:"command"`
		ChannelID string `json:"channel_id"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if req.Command == "" || req.ChannelID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "command e channel_id são obrigatórios"})
		return
	}
	switch req.Action {
	case "add":
		s.store.AllowCommandChannel(req.Command, req.ChannelID)
	case "remove":
		if !s.store.DisallowCommandChannel(req.Command, req.ChannelID) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "canal não encontrado"})
			return
		}
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "action deve ser add ou remove"})
		return
	}
	saved := s.persist(r.Context(), "Atualização de canais de comando via painel")
	writeJSON(w, http.StatusOK, map[string]bool{"saved": saved})
}

func (s *Server) handleGetWarns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.AllWarns())
}

func (s *Server) handleAddWarn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
		Reason string `json:"reason"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id é obrigatório"})
		return
	}
	if req.Reason == "" {
		req.Reason = "Sem motivo informado"
	}
	s.store.AddWarn(req.UserID, "painel", req.Reason)
	s.store.AppendLog(fmt.Sprintf("warn: user=%s by=painel reason=%s", req.UserID, req.Reason))
	saved := s.persist(r.Context(), "Advertência via painel")
	writeJSON(w, http.StatusOK, map[string]bool{"saved": saved})
}

func (s *Server) handleClearWarns(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	n := s.store.ClearWarns(req.UserID)
	s.store.AppendLog(fmt.Sprintf("clear_warns: user=%s by=painel count=%d", req.UserID, n))
	saved := s.persist(r.Context(), "Limpeza de advertências via painel")
	writeJSON(w, http.StatusOK, map[string]any{"cleared": n, "saved": saved})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Logs(100))
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "falha ao serializar dados"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=backup_%s.json", time.Now().Format("20060102_150405")))
	w.Write(snap)
}
