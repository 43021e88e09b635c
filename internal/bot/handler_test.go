// internal/bot/handler_test.go
package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestGatewayIntentsCoverStateCache(t *testing.T) {
	// Without Guilds the state cache never sees GUILD_CREATE and the welcome
	// path cannot resolve channels or member counts.
	assert.NotZero(t, GatewayIntents&discordgo.IntentsGuilds)
	assert.NotZero(t, GatewayIntents&discordgo.IntentsGuildMessages)
	assert.NotZero(t, GatewayIntents&discordgo.IntentsGuildMembers)
	assert.NotZero(t, GatewayIntents&discordgo.IntentsGuildMessageReactions)
	assert.NotZero(t, GatewayIntents&discordgo.IntentsMessageContent)
}

func TestContainsLink(t *testing.T) {
	assert.True(t, containsLink("veja https://example.com"))
	assert.True(t, containsLink("HTTP://EXAMPLE.COM"))
	assert.True(t, containsLink("entre no discord.gg/abc"))
	assert.True(t, containsLink("www.example.com"))
	assert.False(t, containsLink("sem link nenhum"))
	assert.False(t, containsLink(""))
}

func TestIsExcessiveCaps(t *testing.T) {
	assert.True(t, isExcessiveCaps("PAREM DE GRITAR"))
	assert.True(t, isExcessiveCaps("ATENÇÃO!!!"))
	assert.False(t, isExcessiveCaps("OK"), "short messages are exempt")
	assert.False(t, isExcessiveCaps("Parem de gritar"))
	assert.False(t, isExcessiveCaps("12345678"), "digits alone are not caps")
	assert.False(t, isExcessiveCaps(""))
}

func TestPickWelcomeChannel(t *testing.T) {
	channels := []*discordgo.Channel{
		{ID: "1", Name: "geral", Type: discordgo.ChannelTypeGuildText},
		{ID: "2", Name: "boas-vindas", Type: discordgo.ChannelTypeGuildVoice},
		{ID: "3", Name: "boas-vindas", Type: discordgo.ChannelTypeGuildText},
	}

	assert.Equal(t, "42", pickWelcomeChannel("42", channels), "configured channel wins")
	assert.Equal(t, "3", pickWelcomeChannel("", channels), "falls back to the text channel named boas-vindas")
	assert.Equal(t, "", pickWelcomeChannel("", channels[:2]), "no candidate means skip")
}

func TestFormatWelcome(t *testing.T) {
	got := formatWelcome("Olá {user}, bem-vindo(a) ao {server}! Você é o membro {count}.", "<@1>", "Imune", 42)
	assert.Equal(t, "Olá <@1>, bem-vindo(a) ao Imune! Você é o membro 42.", got)

	assert.Equal(t, "Olá <@1>, seja bem-vindo(a)!", formatWelcome("", "<@1>", "Imune", 42), "empty template uses the default")
}
