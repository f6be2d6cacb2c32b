// Package discord is the gateway adapter: it owns the discordgo
// session, translates gateway events into core events for the
// orchestrator, and answers slash-command interactions.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/CureSaba/discord-join2create/internal/app/orch"
	"github.com/CureSaba/discord-join2create/internal/config"
	"github.com/CureSaba/discord-join2create/internal/core"
	"github.com/CureSaba/discord-join2create/internal/domain"
)

type Bot struct {
	session *discordgo.Session
	orch    *orch.Orchestrator
	cfg     *config.Config

	// ctx is the process lifetime; every platform call made from an
	// event handler descends from it.
	ctx context.Context
}

func New(cfg *config.Config, o *orch.Orchestrator) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates

	b := &Bot{session: s, orch: o, cfg: cfg}
	s.AddHandler(b.onReady)
	s.AddHandler(b.onGuildCreate)
	s.AddHandler(b.onVoiceStateUpdate)
	s.AddHandler(b.onInteraction)
	return b, nil
}

// Session exposes the underlying session so main can build the
// platform implementation from it.
func (b *Bot) Session() *discordgo.Session { return b.session }

func (b *Bot) Open(ctx context.Context) error {
	b.ctx = ctx
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open gateway: %w", err)
	}
	if err := b.registerCommands(); err != nil {
		b.session.Close()
		return err
	}
	return nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Info().Str("module", "adapters.discord").Str("user", r.User.Username).Msg("logged in")
}

func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Info().Str("module", "adapters.discord").Str("guild", g.ID).Str("name", g.Name).Msg("guild available")
	if err := b.orch.EnsureLobby(b.ctx, domain.GuildID(g.ID)); err != nil {
		// Not fatal; re-attempted when the guild is announced again.
		log.Error().Err(err).Str("module", "adapters.discord").Str("guild", g.ID).Msg("lobby bootstrap failed")
	}
}

func (b *Bot) onVoiceStateUpdate(s *discordgo.Session, e *discordgo.VoiceStateUpdate) {
	prev := ""
	if e.BeforeUpdate != nil {
		prev = e.BeforeUpdate.ChannelID
	}
	if prev == e.ChannelID {
		// Mute/deafen toggles arrive on the same stream; no movement.
		return
	}
	ev := core.VoiceUpdate{
		Guild:       domain.GuildID(e.GuildID),
		User:        domain.UserID(e.UserID),
		DisplayName: b.displayName(e.GuildID, e.UserID),
		Prev:        domain.ChannelID(prev),
		Next:        domain.ChannelID(e.ChannelID),
	}
	b.orch.HandleVoiceUpdate(b.ctx, ev)
}

// displayName resolves the member's username, from the state cache
// when possible.
func (b *Bot) displayName(guildID, userID string) string {
	if m, err := b.session.State.Member(guildID, userID); err == nil && m.User != nil {
		return m.User.Username
	}
	m, err := b.session.GuildMember(guildID, userID)
	if err != nil || m.User == nil {
		log.Error().Err(err).Str("module", "adapters.discord").Str("user", userID).Msg("could not resolve member")
		return ""
	}
	return m.User.Username
}
