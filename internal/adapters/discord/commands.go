package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/CureSaba/discord-join2create/internal/domain"
)

func commandDefs() []*discordgo.ApplicationCommand {
	limitMin := float64(0)
	return []*discordgo.ApplicationCommand{
		{
			Name:        "rename",
			Description: "Rename the channel.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "new_name",
					Description: "New name for the channel.",
					Required:    true,
				},
			},
		},
		{
			Name:        "limit",
			Description: "Set the user limit of the channel.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "limit",
					Description: "Maximum number of members, 0 for unlimited.",
					Required:    true,
					MinValue:    &limitMin,
					MaxValue:    99,
				},
			},
		},
		{
			Name:        "kick",
			Description: "Disconnect a user from the channel.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to disconnect.",
					Required:    true,
				},
			},
		},
		{
			Name:        "ping",
			Description: "Replies with Pong!",
		},
	}
}

func (b *Bot) registerCommands() error {
	appID := b.cfg.AppID
	if appID == "" {
		appID = b.session.State.User.ID
	}
	// An empty guild id registers the commands globally; a configured
	// one scopes them to a single guild, which propagates instantly
	// and suits development.
	_, err := b.session.ApplicationCommandBulkOverwrite(appID, b.cfg.GuildID, commandDefs())
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	log.Info().Str("module", "adapters.discord").Msg("registered application commands")
	return nil
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if i.Member == nil || i.Member.User == nil {
		// Commands only make sense inside a guild.
		return
	}
	data := i.ApplicationCommandData()
	guild := domain.GuildID(i.GuildID)
	requester := domain.UserID(i.Member.User.ID)

	var reply string
	switch data.Name {
	case "rename":
		reply = b.orch.Rename(b.ctx, guild, requester, data.Options[0].StringValue())
	case "limit":
		reply = b.orch.SetLimit(b.ctx, guild, requester, int(data.Options[0].IntValue()))
	case "kick":
		target := data.Options[0].UserValue(s)
		if target == nil {
			return
		}
		reply = b.orch.Kick(b.ctx, guild, requester, domain.UserID(target.ID), target.Username)
	case "ping":
		reply = b.orch.Ping()
	default:
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: reply},
	})
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.discord").Str("command", data.Name).Msg("failed to respond to interaction")
	}
}
