// internal/state/document.go
package state

// The document keeps the JSON shape the bot has always persisted: every
// Discord snowflake (user, role, channel, message) is stored as its decimal
// string form, so lookups compare strings against strings.

// WarnRecord is a single warning issued against a user.
type WarnRecord struct {
	By     string `json:"by"`
	Reason string `json:"reason"`
	TS     string `json:"ts"`
}

// LogRecord is one audit log line.
type LogRecord struct {
	TS    string `json:"ts"`
	Entry string `json:"entry"`
}

// Settings holds the flat named configuration the panel and the slash
// commands edit. A nil XPRate means "use the default".
type Settings struct {
	WelcomeChannel    string `json:"welcome_channel,omitempty"`
	WelcomeMessage    string `json:"welcome_message,omitempty"`
	WelcomeBackground string `json:"welcome_background,omitempty"`
	LevelupChannel    string `json:"levelup_channel,omitempty"`
	XPRate            *int   `json:"xp_rate,omitempty"`
}

// Document is the whole persisted state of the bot.
type Document struct {
	XP                  map[string]int               `json:"xp"`
	Level               map[string]int               `json:"level"`
	Warns               map[string][]WarnRecord      `json:"warns"`
	ReactionRoles       map[string]map[string]string `json:"reaction_roles"`
	RoleButtons         map[string]map[string]string `json:"role_buttons"`
	Config              Settings                     `json:"config"`
	LevelRoles          map[string]string            `json:"level_roles"`
	CommandChannels     map[string][]string          `json:"command_channels"`
	BlockedLinkChannels []string                     `json:"blocked_links_channels"`
	LastMessages        map[string][]string          `json:"last_messages"`
	Logs                []LogRecord                  `json:"logs"`
}

func newDocument() Document {
	return Document{
		XP:              map[string]int{},
		Level:           map[string]int{},
		Warns:           map[string][]WarnRecord{},
		ReactionRoles:   map[string]map[string]string{},
		RoleButtons:     map[string]map[string]string{},
		LevelRoles:      map[string]string{},
		CommandChannels: map[string][]string{},
		LastMessages:    map[string][]string{},
	}
}
