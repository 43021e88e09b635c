// internal/bot/commands.go
package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	"imune-bot/internal/emoji"
	"imune-bot/internal/leveling"
	"imune-bot/internal/state"

	"github.com/bwmarrin/discordgo"
)

// RegisterCommands registers the slash commands, guild-scoped when a guild id
// is configured so they sync fast.
func (h *BotHandler) RegisterCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "rank",
			Description: "Mostra seu rank",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "member", Description: "Membro a ver o rank (opcional)"},
			},
		},
		{
			Name:        "top",
			Description: "Mostra top 10 de XP",
		},
		{
			Name:        "warn",
			Description: "Advertir um membro (admin)",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "member", Description: "Membro a ser advertido", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "Motivo da advertência"},
			},
		},
		{
			Name:        "warns",
			Description: "Mostra advertências de um membro",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "member", Description: "Membro (opcional)"},
			},
		},
		{
			Name:        "clearwarns",
			Description: "Limpa advertências de um membro (admin)",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "member", Description: "Membro", Required: true},
			},
		},
		{
			Name:        "savedata",
			Description: "Força salvar dados no GitHub (admin)",
		},
		{
			Name:        "setwelcomechannel",
			Description: "Define canal de boas-vindas (admin)",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "Canal de texto"},
			},
		},
		{
			Name:        "setwelcomemessage",
			Description: "Define mensagem de boas-vindas (admin)",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "message", Description: "Use {user}, {server} e {count}", Required: true},
			},
		},
		{
			Name:        "setwelcomeimage",
			Description: "Define imagem de fundo das boas-vindas (admin)",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "url", Description: "URL da imagem", Required: true},
			},
		},
		{
			Name:        "setxprate",
			Description: "Define XP ganho por mensagem (admin)",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "rate", Description: "Pontos por mensagem (0 desativa)", Required: true},
			},
		},
		{
			Name:        "setlevelrole",
			Description: "Associa um cargo a um nível (admin)",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "level", Description: "Nível", Required: true},
				{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "Cargo (vazio remove)"},
			},
		},
		{
			Name:        "setcommandchannel",
			Description: "Restringe um comando a um canal (admin)",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "command", Description: "Nome do comando", Required: true},
				{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "Canal permitido", Required: true},
				{
					Type: discordgo.ApplicationCommandOptionString, Name: "action", Description: "add ou remove", Required: true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "add", Value: "add"},
						{Name: "remove", Value: "remove"},
					},
				},
			},
		},
		{
			Name:        "reactionrole",
			Description: "Gerenciar reaction roles (admin)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "create",
					Description: "Cria mensagem com reação mapeada para um cargo",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "Canal para enviar a mensagem", Required: true},
						{Type: discordgo.ApplicationCommandOptionString, Name: "content", Description: "Conteúdo da mensagem", Required: true},
						{Type: discordgo.ApplicationCommandOptionString, Name: "emoji", Description: "Emoji (custom <:name:id> ou unicode)", Required: true},
						{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "Cargo a ser atribuído", Required: true},
					},
				},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "remove",
					Description: "Remove mapeamento de uma mensagem",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "message_id", Description: "ID da mensagem", Required: true},
						{Type: discordgo.ApplicationCommandOptionString, Name: "emoji", Description: "Emoji usado quando criado", Required: true},
					},
				},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "list",
					Description: "Lista reaction-roles configurados",
				},
			},
		},
		{
			Name:        "rolebutton",
			Description: "Cria mensagem com botão de cargo (admin)",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "Canal para enviar a mensagem", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "content", Description: "Conteúdo da mensagem", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "label", Description: "Texto do botão", Required: true},
				{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "Cargo alternado pelo botão", Required: true},
			},
		},
		{
			Name:        "togglelinkblock",
			Description: "Alterna bloqueio de links em um canal (admin)",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "Canal (padrão: atual)"},
			},
		},
	}

	for _, cmd := range commands {
		if _, err := h.session.ApplicationCommandCreate(h.session.State.User.ID, h.guildID, cmd); err != nil {
			return fmt.Errorf("error creating '%s' command: %v", cmd.Name, err)
		}
	}

	log.Println("Slash commands registered successfully")
	return nil
}

func (h *BotHandler) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		h.handleCommand(s, i)
	case discordgo.InteractionMessageComponent:
		h.handleRoleButton(s, i)
	}
}

func (h *BotHandler) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	name := i.ApplicationCommandData().Name

	if !h.store.CommandAllowed(name, i.ChannelID) {
		respond(s, i, "Este comando não pode ser usado neste canal.", true)
		return
	}

	switch name {
	case "rank":
		h.cmdRank(s, i)
	case "top":
		h.cmdTop(s, i)
	case "warn":
		h.cmdWarn(s, i)
	case "warns":
		h.cmdWarns(s, i)
	case "clearwarns":
		h.cmdClearWarns(s, i)
	case "savedata":
		h.cmdSaveData(s, i)
	case "setwelcomechannel":
		h.cmdSetWelcomeChannel(s, i)
	case "setwelcomemessage":
		h.cmdSetWelcomeMessage(s, i)
	case "setwelcomeimage":
		h.cmdSetWelcomeImage(s, i)
	case "setxprate":
		h.cmdSetXPRate(s, i)
	case "setlevelrole":
		h.cmdSetLevelRole(s, i)
	case "setcommandchannel":
		h.cmdSetCommandChannel(s, i)
	case "reactionrole":
		h.cmdReactionRole(s, i)
	case "rolebutton":
		h.cmdRoleButton(s, i)
	case "togglelinkblock":
		h.cmdToggleLinkBlock(s, i)
	}
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	data := &discordgo.InteractionResponseData{Content: content}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		log.Printf("Error responding to interaction: %v", err)
	}
}

func isAdmin(i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		return false
	}
	elevated := int64(discordgo.PermissionAdministrator | discordgo.PermissionManageServer | discordgo.PermissionManageRoles)
	return i.Member.Permissions&elevated != 0
}

func requireAdmin(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if isAdmin(i) {
		return true
	}
	respond(s, i, "Você não tem permissão para usar este comando.", true)
	return false
}

func options(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	out := map[string]*discordgo.ApplicationCommandInteractionDataOption{}
	for _, opt := range i.ApplicationCommandData().Options {
		out[opt.Name] = opt
	}
	return out
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

func (h *BotHandler) cmdRank(s *discordgo.Session, i *discordgo.InteractionCreate) {
	target := interactionUser(i)
	if opt, ok := options(i)["member"]; ok {
		target = opt.UserValue(s)
	}
	uid := target.ID

	xp := h.store.XP(uid)
	lvl := h.store.Level(uid)
	if derived := leveling.LevelForXP(xp); derived > lvl {
		lvl = derived
	}
	pos, total := h.store.Rank(uid)

	span := leveling.NextLevelXP(lvl)
	progress := xp % span

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Rank de %s", target.Username),
		Color: 0x50B4FF,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Nível", Value: fmt.Sprintf("%d", lvl), Inline: true},
			{Name: "XP", Value: fmt.Sprintf("%d", xp), Inline: true},
			{Name: "Posição", Value: fmt.Sprintf("#%d de %d", pos, total), Inline: true},
			{Name: "Progresso", Value: fmt.Sprintf("%d / %d XP", progress, span)},
		},
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}},
	})
	if err != nil {
		log.Printf("Error responding to rank: %v", err)
	}
}

func (h *BotHandler) cmdTop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ranking := h.store.TopXP(10)
	if len(ranking) == 0 {
		respond(s, i, "Sem dados ainda.", false)
		return
	}
	var sb strings.Builder
	sb.WriteString("🏆 **Top 10 XP**\n")
	for n, entry := range ranking {
		fmt.Fprintf(&sb, "%d. <@%s> — %d XP\n", n+1, entry.UserID, entry.XP)
	}
	respond(s, i, sb.String(), false)
}

func (h *BotHandler) cmdWarn(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !requireAdmin(s, i) {
		return
	}
	opts := options(i)
	member := opts["member"].UserValue(s)
	reason := "Sem motivo informado"
	if opt, ok := opts["reason"]; ok {
		reason = opt.StringValue()
	}

	h.warn(member.ID, interactionUser(i).ID, reason)
	h.persist("New warn")
	respond(s, i, fmt.Sprintf("⚠️ %s advertido.\nMotivo: %s", member.Mention(), reason), false)
}

func (h *BotHandler) cmdWarns(s *discordgo.Session, i *discordgo.InteractionCreate) {
	target := interactionUser(i)
	if opt, ok := options(i)["member"]; ok {
		target = opt.UserValue(s)
	}
	warns := h.store.Warns(target.ID)
	if len(warns) == 0 {
		respond(s, i, fmt.Sprintf("%s não tem advertências.", target.Mention()), false)
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "⚠️ Advertências de %s:\n", target.Mention())
	for _, w := range warns {
		fmt.Fprintf(&sb, "- %s (por <@%s>) em %s\n", w.Reason, w.By, w.TS)
	}
	respond(s, i, sb.String(), false)
}

func (h *BotHandler) cmdClearWarns(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !requireAdmin(s, i) {
		return
	}
	member := options(i)["member"].UserValue(s)
	n := h.store.ClearWarns(member.ID)
	h.audit(fmt.Sprintf("clear_warns: user=%s by=%s count=%d", member.ID, interactionUser(i).ID, n))
	h.persist("Clear warns")
	respond(s, i, fmt.Sprintf("Advertências de %s removidas (%d).", member.Mention(), n), false)
}

func (h *BotHandler) cmdSaveData(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !requireAdmin(s, i) {
		return
	}
	snap, err := h.store.Snapshot()
	if err == nil {
		err = h.gateway.Save(context.Background(), snap, "Manual save via /savedata")
	}
	if err != nil {
		log.Printf("Error on manual save: %v", err)
		respond(s, i, "Falha ao salvar (veja logs).", false)
		return
	}
	respond(s, i, "Dados salvos no GitHub.", false)
}

func (h *BotHandler) cmdSetWelcomeChannel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !requireAdmin(s, i) {
		return
	}
	opt, ok := options(i)["channel"]
	if !ok {
		h.store.UpdateConfig(func(c *state.Settings) { c.WelcomeChannel = "" })
		h.persist("Unset welcome channel")
		respond(s, i, "Canal de boas-vindas removido.", false)
		return
	}
	channel := opt.ChannelValue(s)
	h.store.UpdateConfig(func(c *state.Settings) { c.WelcomeChannel = channel.ID })
	h.persist("Set welcome channel")
	respond(s, i, fmt.Sprintf("Canal de boas-vindas definido: <#%s>", channel.ID), false)
}

func (h *BotHandler) cmdSetWelcomeMessage(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !requireAdmin(s, i) {
		return
	}
	message := options(i)["message"].StringValue()
	h.store.UpdateConfig(func(c *state.Settings) { c.WelcomeMessage = message })
	h.persist("Set welcome message")
	respond(s, i, "Mensagem de boas-vindas atualizada.", false)
}

func (h *BotHandler) cmdSetWelcomeImage(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !requireAdmin(s, i) {
		return
	}
	url := options(i)["url"].StringValue()
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		respond(s, i, "URL inválida: use http:// ou https://.", true)
		return
	}
	h.store.UpdateConfig(func(c *state.Settings) { c.WelcomeBackground = url })
	h.persist("Set welcome image")
	respond(s, i, "Imagem de boas-vindas atualizada.", false)
}

func (h *BotHandler) cmdSetXPRate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !requireAdmin(s, i) {
		return
	}
	rate := int(options(i)["rate"].IntValue())
	if rate < 0 {
		respond(s, i, "A taxa de XP não pode ser negativa.", true)
		return
	}
	h.store.UpdateConfig(func(c *state.Settings) { c.XPRate = &rate })
	h.persist("Set XP rate")
	if rate == 0 {
		respond(s, i, "Ganho de XP desativado.", false)
		return
	}
	respond(s, i, fmt.Sprintf("XP por mensagem definido: %d.", rate), false)
}

func (h *BotHandler) cmdSetLevelRole(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !requireAdmin(s, i) {
		return
	}
	opts := options(i)
	level := int(opts["level"].IntValue())
	if level < 1 {
		respond(s, i, "Nível inválido: use um inteiro positivo.", true)
		return
	}
	opt, ok := opts["role"]
	if !ok {
		if h.store.RemoveLevelRole(level) {
			h.persist("Remove level role")
			respond(s, i, fmt.Sprintf("Cargo do nível %d removido.", level), false)
		} else {
			respond(s, i, fmt.Sprintf("Nível %d não tem cargo associado.", level), true)
		}
		return
	}
	role := opt.RoleValue(s, i.GuildID)
	h.store.SetLevelRole(level, role.ID)
	h.audit(fmt.Sprintf("level_role set: level=%d role=%s", level, role.ID))
	h.persist("Set level role")
	respond(s, i, fmt.Sprintf("Cargo %s associado ao nível %d.", role.Mention(), level), false)
}

func (h *BotHandler) cmdSetCommandChannel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !requireAdmin(s, i) {
		return
	}
	opts := options(i)
	command := strings.ToLower(strings.TrimPrefix(opts["command"].StringValue(), "/"))
	channel := opts["channel"].ChannelValue(s)
	action := opts["action"].StringValue()

	switch action {
	case "add":
		h.store.AllowCommandChannel(command, channel.ID)
		h.persist("Allow command channel")
		respond(s, i, fmt.Sprintf("Comando /%s permitido em <#%s>.", command, channel.ID), false)
	case "remove":
		if !h.store.DisallowCommandChannel(command, channel.ID) {
			respond(s, i, "Esse canal não estava na lista do comando.", true)
			return
		}
		h.persist("Disallow command channel")
		respond(s, i, fmt.Sprintf("Comando /%s não é mais restrito a <#%s>.", command, channel.ID), false)
	}
}

func (h *BotHandler) cmdReactionRole(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !requireAdmin(s, i) {
		return
	}
	sub := i.ApplicationCommandData().Options[0]
	switch sub.Name {
	case "create":
		h.reactionRoleCreate(s, i, sub)
	case "remove":
		h.reactionRoleRemove(s, i, sub)
	case "list":
		h.reactionRoleList(s, i)
	}
}

func subOptions(sub *discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	out := map[string]*discordgo.ApplicationCommandInteractionDataOption{}
	for _, opt := range sub.Options {
		out[opt.Name] = opt
	}
	return out
}

func (h *BotHandler) reactionRoleCreate(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	opts := subOptions(sub)
	channel := opts["channel"].ChannelValue(s)
	content := opts["content"].StringValue()
	role := opts["role"].RoleValue(s, i.GuildID)

	id, err := emoji.Parse(opts["emoji"].StringValue())
	if err != nil {
		respond(s, i, "Emoji inválido: use um emoji unicode ou <:nome:id>.", true)
		return
	}

	sent, err := s.ChannelMessageSend(channel.ID, content)
	if err != nil {
		respond(s, i, fmt.Sprintf("Falha ao enviar mensagem: %v", err), true)
		return
	}
	if err := s.MessageReactionAdd(channel.ID, sent.ID, id.APIName()); err != nil {
		respond(s, i, fmt.Sprintf("Falha ao reagir com o emoji: %v", err), true)
		return
	}

	h.store.SetReactionRole(sent.ID, id.Key(), role.ID)
	h.audit(fmt.Sprintf("reactionrole created msg=%s emoji=%s role=%s", sent.ID, id.Key(), role.ID))
	h.persist("reactionrole create")
	respond(s, i, fmt.Sprintf("Mensagem criada em <#%s> com ID `%s`. Reaja para receber o cargo %s.", channel.ID, sent.ID, role.Mention()), false)
}

func (h *BotHandler) reactionRoleRemove(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	opts := subOptions(sub)
	messageID := opts["message_id"].StringValue()

	id, err := emoji.Parse(opts["emoji"].StringValue())
	if err != nil {
		respond(s, i, "Emoji inválido.", true)
		return
	}

	key, ok := h.store.RemoveReactionRole(messageID, id.Candidates()...)
	if !ok {
		respond(s, i, "Emoji não encontrado no mapeamento da mensagem.", true)
		return
	}
	h.audit(fmt.Sprintf("reactionrole removed msg=%s emoji=%s", messageID, key))
	h.persist("reactionrole remove")
	respond(s, i, "Removido com sucesso.", false)
}

func (h *BotHandler) reactionRoleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	bindings := h.store.ReactionRoles()
	if len(bindings) == 0 {
		respond(s, i, "Nenhum reaction-role configurado.", true)
		return
	}
	var sb strings.Builder
	sb.WriteString("Reaction roles:\n")
	for msgID, mapping := range bindings {
		parts := make([]string, 0, len(mapping))
		for key, roleID := range mapping {
			parts = append(parts, fmt.Sprintf("%s→<@&%s>", key, roleID))
		}
		fmt.Fprintf(&sb, "Msg `%s`: %s\n", msgID, strings.Join(parts, ", "))
	}
	respond(s, i, sb.String(), false)
}

func (h *BotHandler) cmdRoleButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !requireAdmin(s, i) {
		return
	}
	opts := options(i)
	channel := opts["channel"].ChannelValue(s)
	content := opts["content"].StringValue()
	label := opts["label"].StringValue()
	role := opts["role"].RoleValue(s, i.GuildID)

	sent, err := s.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Content: content,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: label, Style: discordgo.PrimaryButton, CustomID: label},
			}},
		},
	})
	if err != nil {
		respond(s, i, fmt.Sprintf("Falha ao enviar mensagem: %v", err), true)
		return
	}

	h.store.SetRoleButton(sent.ID, label, role.ID)
	h.audit(fmt.Sprintf("rolebutton created msg=%s label=%s role=%s", sent.ID, label, role.ID))
	h.persist("rolebutton create")
	respond(s, i, fmt.Sprintf("Mensagem criada em <#%s> com ID `%s`. Clique no botão para alternar %s.", channel.ID, sent.ID, role.Mention()), false)
}

// handleRoleButton toggles role membership when a member clicks a bound
// button.
func (h *BotHandler) handleRoleButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil || i.Message == nil {
		return
	}
	label := i.MessageComponentData().CustomID
	roleID, ok := h.store.RoleButton(i.Message.ID, label)
	if !ok {
		return
	}

	userID := i.Member.User.ID
	has := false
	for _, r := range i.Member.Roles {
		if r == roleID {
			has = true
			break
		}
	}

	var err error
	if has {
		err = s.GuildMemberRoleRemove(i.GuildID, userID, roleID)
	} else {
		err = s.GuildMemberRoleAdd(i.GuildID, userID, roleID)
	}
	if err != nil {
		log.Printf("Error toggling role button: %v", err)
		respond(s, i, "Não consegui alterar seu cargo.", true)
		return
	}

	if has {
		h.audit(fmt.Sprintf("rolebutton remove: user=%s role=%s msg=%s", userID, roleID, i.Message.ID))
		respond(s, i, fmt.Sprintf("Cargo <@&%s> removido.", roleID), true)
	} else {
		h.audit(fmt.Sprintf("rolebutton add: user=%s role=%s msg=%s", userID, roleID, i.Message.ID))
		respond(s, i, fmt.Sprintf("Cargo <@&%s> adicionado.", roleID), true)
	}
}

func (h *BotHandler) cmdToggleLinkBlock(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !requireAdmin(s, i) {
		return
	}
	channelID := i.ChannelID
	if opt, ok := options(i)["channel"]; ok {
		channelID = opt.ChannelValue(s).ID
	}

	blocked := h.store.ToggleBlockedLinkChannel(channelID)
	h.audit(fmt.Sprintf("link block toggle: channel=%s blocked=%t", channelID, blocked))
	h.persist("Toggle link block")
	if blocked {
		respond(s, i, fmt.Sprintf("Links bloqueados em <#%s>.", channelID), false)
	} else {
		respond(s, i, fmt.Sprintf("Links liberados em <#%s>.", channelID), false)
	}
}
