// internal/state/store.go
package state

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"imune-bot/internal/leveling"
)

// historyLimit bounds the per-user recent message history used for
// repeat-spam detection.
const historyLimit = 5

// Store owns the shared bot document. Gateway handlers and the web panel
// both mutate it, so every read-modify-write sequence runs under one mutex.
type Store struct {
	mu  sync.Mutex
	doc Document
	now func() time.Time
}

func NewStore() *Store {
	return &Store{doc: newDocument(), now: func() time.Time { return time.Now().UTC() }}
}

// Snapshot serializes the whole document under the lock, ready for upload.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.MarshalIndent(s.doc, "", "  ")
}

// MergeFrom overwrites the document section by section with whatever top-level
// keys the payload carries. Sections absent from the payload keep their local
// value; sections present replace the local subtree wholesale. Every section
// is parsed before any is applied, so a malformed payload leaves the store
// exactly as it was.
func (s *Store) MergeFrom(raw []byte) error {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sections); err != nil {
		return fmt.Errorf("parse document: %w", err)
	}

	var staged []func()
	for key, val := range sections {
		var err error
		switch key {
		case "xp":
			m := map[string]int{}
			if err = json.Unmarshal(val, &m); err == nil {
				staged = append(staged, func() { s.doc.XP = m })
			}
		case "level":
			m := map[string]int{}
			if err = json.Unmarshal(val, &m); err == nil {
				staged = append(staged, func() { s.doc.Level = m })
			}
		case "warns":
			m := map[string][]WarnRecord{}
			if err = json.Unmarshal(val, &m); err == nil {
				staged = append(staged, func() { s.doc.Warns = m })
			}
		case "reaction_roles":
			m := map[string]map[string]string{}
			if err = json.Unmarshal(val, &m); err == nil {
				staged = append(staged, func() { s.doc.ReactionRoles = m })
			}
		case "role_buttons":
			m := map[string]map[string]string{}
			if err = json.Unmarshal(val, &m); err == nil {
				staged = append(staged, func() { s.doc.RoleButtons = m })
			}
		case "config":
			cfg := Settings{}
			if err = json.Unmarshal(val, &cfg); err == nil {
				staged = append(staged, func() { s.doc.Config = cfg })
			}
		case "level_roles":
			m := map[string]string{}
			if err = json.Unmarshal(val, &m); err == nil {
				staged = append(staged, func() { s.doc.LevelRoles = m })
			}
		case "command_channels":
			m := map[string][]string{}
			if err = json.Unmarshal(val, &m); err == nil {
				staged = append(staged, func() { s.doc.CommandChannels = m })
			}
		case "blocked_links_channels":
			var list []string
			if err = json.Unmarshal(val, &list); err == nil {
				staged = append(staged, func() { s.doc.BlockedLinkChannels = list })
			}
		case "last_messages":
			m := map[string][]string{}
			if err = json.Unmarshal(val, &m); err == nil {
				staged = append(staged, func() { s.doc.LastMessages = m })
			}
		case "logs":
			var logs []LogRecord
			if err = json.Unmarshal(val, &logs); err == nil {
				staged = append(staged, func() { s.doc.Logs = logs })
			}
		}
		if err != nil {
			return fmt.Errorf("merge %q: %w", key, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, apply := range staged {
		apply()
	}
	s.ensureMaps()
	return nil
}

func (s *Store) ensureMaps() {
	if s.doc.XP == nil {
		s.doc.XP = map[string]int{}
	}
	if s.doc.Level == nil {
		s.doc.Level = map[string]int{}
	}
	if s.doc.Warns == nil {
		s.doc.Warns = map[string][]WarnRecord{}
	}
	if s.doc.ReactionRoles == nil {
		s.doc.ReactionRoles = map[string]map[string]string{}
	}
	if s.doc.RoleButtons == nil {
		s.doc.RoleButtons = map[string]map[string]string{}
	}
	if s.doc.LevelRoles == nil {
		s.doc.LevelRoles = map[string]string{}
	}
	if s.doc.CommandChannels == nil {
		s.doc.CommandChannels = map[string][]string{}
	}
	if s.doc.LastMessages == nil {
		s.doc.LastMessages = map[string][]string{}
	}
}

// AppendLog appends a timestamped audit entry. The log only ever grows.
func (s *Store) AppendLog(entry string) LogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := LogRecord{TS: s.now().Format(time.RFC3339), Entry: entry}
	s.doc.Logs = append(s.doc.Logs, rec)
	return rec
}

// Logs returns up to limit entries, newest first. limit <= 0 returns all.
func (s *Store) Logs(limit int) []LogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.doc.Logs)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]LogRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.doc.Logs[i])
	}
	return out
}

// --- XP / levels ---

// AddXP grants points to a user and returns the new total.
func (s *Store) AddXP(userID string, points int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.XP[userID] += points
	return s.doc.XP[userID]
}

func (s *Store) XP(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.XP[userID]
}

// Level reports the stored level for a user, defaulting to 1.
func (s *Store) Level(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lvl, ok := s.doc.Level[userID]; ok {
		return lvl
	}
	return 1
}

// AdvanceLevel raises the stored level to lvl if that is an advance, and
// reports whether it changed. Levels never go down.
func (s *Store) AdvanceLevel(userID string, lvl int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.doc.Level[userID]
	if !ok {
		cur = 1
	}
	if lvl <= cur {
		return false
	}
	s.doc.Level[userID] = lvl
	return true
}

// RankEntry is one row of the XP leaderboard.
type RankEntry struct {
	UserID string `json:"user_id"`
	XP     int    `json:"xp"`
}

// TopXP returns the n highest XP totals in descending order.
func (s *Store) TopXP(n int) []RankEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]RankEntry, 0, len(s.doc.XP))
	for uid, xp := range s.doc.XP {
		entries = append(entries, RankEntry{UserID: uid, XP: xp})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].XP != entries[j].XP {
			return entries[i].XP > entries[j].XP
		}
		return entries[i].UserID < entries[j].UserID
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Rank returns the user's 1-based leaderboard position and the number of
// ranked users. A user with no XP entry ranks after everyone on the board.
func (s *Store) Rank(userID string) (int, int) {
	ranking := s.TopXP(0)
	for i, e := range ranking {
		if e.UserID == userID {
			return i + 1, len(ranking)
		}
	}
	return len(ranking) + 1, len(ranking)
}

// --- warnings ---

// AddWarn appends a warning for a user and returns the stored record.
func (s *Store) AddWarn(userID, by, reason string) WarnRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := WarnRecord{By: by, Reason: reason, TS: s.now().Format(time.RFC3339)}
	s.doc.Warns[userID] = append(s.doc.Warns[userID], rec)
	return rec
}

func (s *Store) Warns(userID string) []WarnRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]WarnRecord, len(s.doc.Warns[userID]))
	copy(out, s.doc.Warns[userID])
	return out
}

// ClearWarns removes every warning for a user, returning how many were held.
func (s *Store) ClearWarns(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.doc.Warns[userID])
	delete(s.doc.Warns, userID)
	return n
}

// AllWarns returns a copy of the full warning table.
func (s *Store) AllWarns() map[string][]WarnRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]WarnRecord, len(s.doc.Warns))
	for uid, warns := range s.doc.Warns {
		cp := make([]WarnRecord, len(warns))
		copy(cp, warns)
		out[uid] = cp
	}
	return out
}

// --- reaction roles / role buttons ---

func (s *Store) SetReactionRole(messageID, emojiKey, roleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.ReactionRoles[messageID] == nil {
		s.doc.ReactionRoles[messageID] = map[string]string{}
	}
	s.doc.ReactionRoles[messageID][emojiKey] = roleID
}

// ReactionRole resolves a binding, trying each candidate key in order.
func (s *Store) ReactionRole(messageID string, keys ...string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mapping := s.doc.ReactionRoles[messageID]
	if mapping == nil {
		return "", false
	}
	for _, k := range keys {
		if roleID, ok := mapping[k]; ok {
			return roleID, true
		}
	}
	return "", false
}

// RemoveReactionRole deletes a binding; when the message holds no further
// bindings its entry is pruned. Returns the key actually removed.
func (s *Store) RemoveReactionRole(messageID string, keys ...string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mapping := s.doc.ReactionRoles[messageID]
	if mapping == nil {
		return "", false
	}
	for _, k := range keys {
		if _, ok := mapping[k]; ok {
			delete(mapping, k)
			if len(mapping) == 0 {
				delete(s.doc.ReactionRoles, messageID)
			}
			return k, true
		}
	}
	return "", false
}

// ReactionRoles returns a deep copy of every binding.
func (s *Store) ReactionRoles() map[string]map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyBindings(s.doc.ReactionRoles)
}

func (s *Store) SetRoleButton(messageID, label, roleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.RoleButtons[messageID] == nil {
		s.doc.RoleButtons[messageID] = map[string]string{}
	}
	s.doc.RoleButtons[messageID][label] = roleID
}

func (s *Store) RoleButton(messageID, label string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	roleID, ok := s.doc.RoleButtons[messageID][label]
	return roleID, ok
}

func (s *Store) RemoveRoleButton(messageID, label string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	mapping := s.doc.RoleButtons[messageID]
	if _, ok := mapping[label]; !ok {
		return false
	}
	delete(mapping, label)
	if len(mapping) == 0 {
		delete(s.doc.RoleButtons, messageID)
	}
	return true
}

func (s *Store) RoleButtons() map[string]map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyBindings(s.doc.RoleButtons)
}

func copyBindings(src map[string]map[string]string) map[string]map[string]string {
	out := make(map[string]map[string]string, len(src))
	for msgID, mapping := range src {
		cp := make(map[string]string, len(mapping))
		for k, v := range mapping {
			cp[k] = v
		}
		out[msgID] = cp
	}
	return out
}

// --- configuration ---

func (s *Store) Config() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.doc.Config
	if cfg.XPRate != nil {
		rate := *cfg.XPRate
		cfg.XPRate = &rate
	}
	return cfg
}

// UpdateConfig applies a mutation to the settings under the lock.
func (s *Store) UpdateConfig(fn func(*Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.doc.Config)
}

// XPRate resolves the configured per-message XP, falling back to the default
// when unset.
func (s *Store) XPRate() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.Config.XPRate == nil {
		return leveling.DefaultRate
	}
	return *s.doc.Config.XPRate
}

// --- level roles ---

func (s *Store) SetLevelRole(level int, roleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.LevelRoles[fmt.Sprintf("%d", level)] = roleID
}

func (s *Store) RemoveLevelRole(level int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fmt.Sprintf("%d", level)
	if _, ok := s.doc.LevelRoles[key]; !ok {
		return false
	}
	delete(s.doc.LevelRoles, key)
	return true
}

func (s *Store) LevelRole(level int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	roleID, ok := s.doc.LevelRoles[fmt.Sprintf("%d", level)]
	return roleID, ok
}

func (s *Store) LevelRoles() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.doc.LevelRoles))
	for k, v := range s.doc.LevelRoles {
		out[k] = v
	}
	return out
}

// --- command channel allow-lists ---

func (s *Store) AllowCommandChannel(command, channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.doc.CommandChannels[command] {
		if ch == channelID {
			return
		}
	}
	s.doc.CommandChannels[command] = append(s.doc.CommandChannels[command], channelID)
}

// DisallowCommandChannel removes a channel from a command's allow-list,
// pruning the command entry when the list empties.
func (s *Store) DisallowCommandChannel(command, channelID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.doc.CommandChannels[command]
	for i, ch := range list {
		if ch == channelID {
			s.doc.CommandChannels[command] = append(list[:i], list[i+1:]...)
			if len(s.doc.CommandChannels[command]) == 0 {
				delete(s.doc.CommandChannels, command)
			}
			return true
		}
	}
	return false
}

// CommandAllowed reports whether a command may run in a channel. A command
// with no allow-list runs anywhere.
func (s *Store) CommandAllowed(command, channelID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, ok := s.doc.CommandChannels[command]
	if !ok || len(list) == 0 {
		return true
	}
	for _, ch := range list {
		if ch == channelID {
			return true
		}
	}
	return false
}

func (s *Store) CommandChannels() map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]string, len(s.doc.CommandChannels))
	for cmd, list := range s.doc.CommandChannels {
		cp := make([]string, len(list))
		copy(cp, list)
		out[cmd] = cp
	}
	return out
}

// --- link-blocked channels ---

// ToggleBlockedLinkChannel flips a channel's link-block flag and reports the
// new state.
func (s *Store) ToggleBlockedLinkChannel(channelID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, ch := range s.doc.BlockedLinkChannels {
		if ch == channelID {
			s.doc.BlockedLinkChannels = append(s.doc.BlockedLinkChannels[:i], s.doc.BlockedLinkChannels[i+1:]...)
			return false
		}
	}
	s.doc.BlockedLinkChannels = append(s.doc.BlockedLinkChannels, channelID)
	return true
}

func (s *Store) IsLinkBlocked(channelID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.doc.BlockedLinkChannels {
		if ch == channelID {
			return true
		}
	}
	return false
}

func (s *Store) BlockedLinkChannels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.doc.BlockedLinkChannels))
	copy(out, s.doc.BlockedLinkChannels)
	return out
}

// --- recent message history ---

// PushRecentMessage records a user's message text and reports whether it
// repeats their previous message verbatim. The per-user history keeps only
// the newest entries, bounded at historyLimit.
func (s *Store) PushRecentMessage(userID, content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.doc.LastMessages[userID]
	repeat := len(history) > 0 && history[len(history)-1] == content
	history = append(history, content)
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}
	s.doc.LastMessages[userID] = history
	return repeat
}

func (s *Store) RecentMessages(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.doc.LastMessages[userID]))
	copy(out, s.doc.LastMessages[userID])
	return out
}

// Stats summarizes the document for the panel dashboard.
type Stats struct {
	TotalUsers      int `json:"total_users"`
	TotalXP         int `json:"total_xp"`
	TotalWarns      int `json:"total_warns"`
	ReactionRoles   int `json:"reaction_roles"`
	RoleButtons     int `json:"role_buttons"`
	BlockedChannels int `json:"blocked_channels"`
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Stats{
		TotalUsers:      len(s.doc.XP),
		ReactionRoles:   len(s.doc.ReactionRoles),
		RoleButtons:     len(s.doc.RoleButtons),
		BlockedChannels: len(s.doc.BlockedLinkChannels),
	}
	for _, xp := range s.doc.XP {
		st.TotalXP += xp
	}
	for _, warns := range s.doc.Warns {
		st.TotalWarns += len(warns)
	}
	return st
}
