// internal/bot/handler.go
package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode"

	"imune-bot/internal/emoji"
	"imune-bot/internal/github"
	"imune-bot/internal/journal"
	"imune-bot/internal/leveling"
	"imune-bot/internal/state"

	"github.com/bwmarrin/discordgo"
)

// GatewayIntents is the intent mask the session must identify with. Guilds
// is required for GUILD_CREATE to populate the state cache the welcome path
// reads channels and member counts from.
const GatewayIntents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsGuildMessageReactions |
	discordgo.IntentsMessageContent

type BotHandler struct {
	store   *state.Store
	gateway *github.Gateway
	journal *journal.DB // nil when no database is configured
	session *discordgo.Session
	botID   string
	guildID string
}

func NewBotHandler(store *state.Store, gateway *github.Gateway, jdb *journal.DB, guildID string) *BotHandler {
	return &BotHandler{
		store:   store,
		gateway: gateway,
		journal: jdb,
		guildID: guildID,
	}
}

func (h *BotHandler) SetSession(s *discordgo.Session) {
	h.session = s
	user, err := s.User("@me")
	if err != nil {
		log.Printf("Error getting bot user: %v", err)
		return
	}
	h.botID = user.ID

	s.AddHandler(h.OnGuildMemberAdd)
	s.AddHandler(h.OnReactionAdd)
	s.AddHandler(h.OnReactionRemove)
	s.AddHandler(h.handleInteraction)
}

// persist uploads the whole document. Failures are logged and swallowed; the
// in-memory mutation that triggered the save stands either way.
func (h *BotHandler) persist(description string) {
	snap, err := h.store.Snapshot()
	if err != nil {
		log.Printf("Error serializing document: %v", err)
		return
	}
	if err := h.gateway.Save(context.Background(), snap, description); err != nil {
		log.Printf("Error saving data to GitHub: %v", err)
	}
}

// audit appends to the in-document log and mirrors the entry to the journal
// when one is configured.
func (h *BotHandler) audit(entry string) {
	h.store.AppendLog(entry)
	if h.journal != nil {
		if err := h.journal.RecordLog(entry); err != nil {
			log.Printf("Error archiving log entry: %v", err)
		}
	}
}

// warn records a warning in the document and the journal.
func (h *BotHandler) warn(userID, issuerID, reason string) {
	h.store.AddWarn(userID, issuerID, reason)
	h.audit(fmt.Sprintf("warn: user=%s by=%s reason=%s", userID, issuerID, reason))
	if h.journal != nil {
		if err := h.journal.RecordWarn(userID, issuerID, reason); err != nil {
			log.Printf("Error archiving warn: %v", err)
		}
	}
}

func (h *BotHandler) OnMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	uid := m.Author.ID
	content := strings.TrimSpace(m.Content)

	// Link-blocked channels: drop the message, no XP.
	if h.store.IsLinkBlocked(m.ChannelID) && containsLink(content) {
		if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
			log.Printf("Error deleting blocked link message: %v", err)
		}
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("🚫 %s, links não são permitidos neste canal!", m.Author.Mention()))
		h.audit(fmt.Sprintf("link blocked: user=%s channel=%s", uid, m.ChannelID))
		h.persist("Link blocked")
		return
	}

	// Repeat-spam: identical text twice in a row warns and grants no XP.
	if h.store.PushRecentMessage(uid, content) && content != "" {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("⚠️ %s, evite spam!", m.Author.Mention()))
		h.warn(uid, h.botID, "Spam detectado")
		h.persist("Auto-warn")
		return
	}

	if isExcessiveCaps(content) {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("⚠️ %s, evite escrever tudo em maiúsculas!", m.Author.Mention()))
		h.warn(uid, h.botID, "Uso excessivo de maiúsculas")
	}

	if points := leveling.XPForMessage(h.store.XPRate()); points > 0 {
		total := h.store.AddXP(uid, points)
		lvl := leveling.LevelForXP(total)
		if h.store.AdvanceLevel(uid, lvl) {
			h.announceLevelUp(s, m, lvl)
			h.assignLevelRole(s, m.GuildID, uid, lvl)
			h.audit(fmt.Sprintf("level_up: user=%s level=%d", uid, lvl))
			if h.journal != nil {
				if err := h.journal.RecordLevelUp(uid, lvl, total); err != nil {
					log.Printf("Error archiving level-up: %v", err)
				}
			}
		}
	}

	h.persist("XP update")
}

func (h *BotHandler) announceLevelUp(s *discordgo.Session, m *discordgo.MessageCreate, lvl int) {
	channelID := h.store.Config().LevelupChannel
	if channelID == "" {
		channelID = m.ChannelID
	}
	_, err := s.ChannelMessageSend(channelID, fmt.Sprintf("🎉 %s subiu para o nível **%d**!", m.Author.Mention(), lvl))
	if err != nil {
		log.Printf("Error announcing level up: %v", err)
	}
}

func (h *BotHandler) assignLevelRole(s *discordgo.Session, guildID, userID string, lvl int) {
	roleID, ok := h.store.LevelRole(lvl)
	if !ok {
		return
	}
	if err := s.GuildMemberRoleAdd(guildID, userID, roleID); err != nil {
		log.Printf("Error assigning level role %s: %v", roleID, err)
		return
	}
	h.audit(fmt.Sprintf("level_role: user=%s level=%d role=%s", userID, lvl, roleID))
}

func (h *BotHandler) OnGuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	guild, err := s.State.Guild(m.GuildID)
	if err != nil {
		log.Printf("Error getting guild for welcome: %v", err)
		return
	}

	channelID := pickWelcomeChannel(h.store.Config().WelcomeChannel, guild.Channels)
	if channelID == "" {
		// No configured channel and no "boas-vindas" channel: skip silently.
		h.audit(fmt.Sprintf("member_join: %s (no welcome channel)", m.User.ID))
		h.persist("Member join")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Seja bem-vindo(a)! 🎉",
		Description: formatWelcome(h.store.Config().WelcomeMessage, m.User.Mention(), guild.Name, guild.MemberCount),
		Color:       0x6EC1FF,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Membros: %d", guild.MemberCount)},
	}
	if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		log.Printf("Error sending welcome embed: %v", err)
	}
	h.audit(fmt.Sprintf("member_join: %s - %s", m.User.ID, m.User.Username))
	h.persist("Member join")
}

func (h *BotHandler) OnReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.UserID == h.botID {
		return
	}
	roleID, ok := h.resolveReactionRole(r.MessageReaction)
	if !ok {
		return
	}
	if err := s.GuildMemberRoleAdd(r.GuildID, r.UserID, roleID); err != nil {
		log.Printf("Error adding reaction role: %v", err)
		return
	}
	h.audit(fmt.Sprintf("reaction add: user=%s role=%s msg=%s", r.UserID, roleID, r.MessageID))
}

func (h *BotHandler) OnReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	if r.UserID == h.botID {
		return
	}
	roleID, ok := h.resolveReactionRole(r.MessageReaction)
	if !ok {
		return
	}
	if err := s.GuildMemberRoleRemove(r.GuildID, r.UserID, roleID); err != nil {
		log.Printf("Error removing reaction role: %v", err)
		return
	}
	h.audit(fmt.Sprintf("reaction remove: user=%s role=%s msg=%s", r.UserID, roleID, r.MessageID))
}

func (h *BotHandler) resolveReactionRole(r *discordgo.MessageReaction) (string, bool) {
	id := emoji.FromReaction(r.Emoji.Name, r.Emoji.ID)
	return h.store.ReactionRole(r.MessageID, id.Candidates()...)
}

// containsLink reports whether the text carries an URL or invite link.
func containsLink(content string) bool {
	lowered := strings.ToLower(content)
	for _, marker := range []string{"http://", "https://", "discord.gg/", "www."} {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// isExcessiveCaps reports whether a message longer than five characters is
// written entirely in upper case.
func isExcessiveCaps(content string) bool {
	if len([]rune(content)) <= 5 {
		return false
	}
	hasLetter := false
	for _, r := range content {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// pickWelcomeChannel resolves the welcome target: the configured channel id
// when set, otherwise a text channel literally named "boas-vindas", otherwise
// none.
func pickWelcomeChannel(configured string, channels []*discordgo.Channel) string {
	if configured != "" {
		return configured
	}
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildText && ch.Name == "boas-vindas" {
			return ch.ID
		}
	}
	return ""
}

// formatWelcome fills the welcome template. {user}, {server} and {count} are
// the supported placeholders.
func formatWelcome(template, mention, guildName string, memberCount int) string {
	if template == "" {
		template = "Olá {user}, seja bem-vindo(a)!"
	}
	out := strings.ReplaceAll(template, "{user}", mention)
	out = strings.ReplaceAll(out, "{server}", guildName)
	out = strings.ReplaceAll(out, "{count}", fmt.Sprintf("%d", memberCount))
	return out
}
