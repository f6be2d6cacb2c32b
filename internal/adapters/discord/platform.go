package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/CureSaba/discord-join2create/internal/core"
	"github.com/CureSaba/discord-join2create/internal/domain"
)

// sessionPlatform implements core.Platform over a discordgo session.
// Reads prefer the gateway state cache; mutations go through REST.
type sessionPlatform struct {
	s *discordgo.Session
}

func NewPlatform(s *discordgo.Session) core.Platform {
	return &sessionPlatform{s: s}
}

// staleOr maps the platform's "unknown channel" rejection onto
// core.ErrStaleRoom so callers can branch on it with errors.Is.
func staleOr(err error) error {
	var rerr *discordgo.RESTError
	if errors.As(err, &rerr) && rerr.Message != nil && rerr.Message.Code == discordgo.ErrCodeUnknownChannel {
		return fmt.Errorf("%w: %v", core.ErrStaleRoom, err)
	}
	return err
}

func (p *sessionPlatform) Channels(ctx context.Context, guild domain.GuildID) ([]domain.Channel, error) {
	channels, err := p.s.GuildChannels(string(guild), discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	out := make([]domain.Channel, 0, len(channels))
	for _, ch := range channels {
		if ch.Type != discordgo.ChannelTypeGuildVoice {
			continue
		}
		out = append(out, fromChannel(ch))
	}
	return out, nil
}

func (p *sessionPlatform) Channel(ctx context.Context, guild domain.GuildID, ch domain.ChannelID) (domain.Channel, error) {
	c, err := p.s.Channel(string(ch), discordgo.WithContext(ctx))
	if err != nil {
		return domain.Channel{}, staleOr(err)
	}
	return fromChannel(c), nil
}

func (p *sessionPlatform) VoiceMembers(ctx context.Context, guild domain.GuildID, ch domain.ChannelID) ([]domain.UserID, error) {
	// The voice-state scan yields an empty list for a deleted channel
	// too; resolve the channel first so callers can tell "empty" from
	// "gone". A state-cache miss alone is not proof of deletion, so
	// fall back to the REST lookup, which maps to ErrStaleRoom.
	if _, err := p.s.State.Channel(string(ch)); err != nil {
		if _, err := p.Channel(ctx, guild, ch); err != nil {
			return nil, err
		}
	}
	g, err := p.s.State.Guild(string(guild))
	if err != nil {
		return nil, err
	}
	p.s.State.RLock()
	defer p.s.State.RUnlock()
	var out []domain.UserID
	for _, vs := range g.VoiceStates {
		if vs.ChannelID == string(ch) {
			out = append(out, domain.UserID(vs.UserID))
		}
	}
	return out, nil
}

func (p *sessionPlatform) CreateVoiceChannel(ctx context.Context, guild domain.GuildID, name string, policy core.CreatePolicy) (domain.Channel, error) {
	data := discordgo.GuildChannelCreateData{
		Name: name,
		Type: discordgo.ChannelTypeGuildVoice,
	}
	if policy == core.LobbyPolicy {
		// Default members may connect, nothing else granted.
		data.PermissionOverwrites = []*discordgo.PermissionOverwrite{
			{
				ID:    string(guild),
				Type:  discordgo.PermissionOverwriteTypeRole,
				Allow: discordgo.PermissionVoiceConnect,
			},
		}
	}
	ch, err := p.s.GuildChannelCreateComplex(string(guild), data, discordgo.WithContext(ctx))
	if err != nil {
		return domain.Channel{}, err
	}
	return fromChannel(ch), nil
}

func (p *sessionPlatform) DeleteChannel(ctx context.Context, guild domain.GuildID, ch domain.ChannelID) error {
	_, err := p.s.ChannelDelete(string(ch), discordgo.WithContext(ctx))
	return staleOr(err)
}

func (p *sessionPlatform) RenameChannel(ctx context.Context, guild domain.GuildID, ch domain.ChannelID, name string) error {
	_, err := p.s.ChannelEdit(string(ch), &discordgo.ChannelEdit{Name: name}, discordgo.WithContext(ctx))
	return staleOr(err)
}

func (p *sessionPlatform) SetUserLimit(ctx context.Context, guild domain.GuildID, ch domain.ChannelID, limit int) error {
	_, err := p.s.ChannelEdit(string(ch), &discordgo.ChannelEdit{UserLimit: limit}, discordgo.WithContext(ctx))
	return staleOr(err)
}

func (p *sessionPlatform) MoveMember(ctx context.Context, guild domain.GuildID, user domain.UserID, ch domain.ChannelID) error {
	target := string(ch)
	return staleOr(p.s.GuildMemberMove(string(guild), string(user), &target, discordgo.WithContext(ctx)))
}

func (p *sessionPlatform) DisconnectMember(ctx context.Context, guild domain.GuildID, user domain.UserID) error {
	return p.s.GuildMemberMove(string(guild), string(user), nil, discordgo.WithContext(ctx))
}

func fromChannel(ch *discordgo.Channel) domain.Channel {
	return domain.Channel{
		ID:        domain.ChannelID(ch.ID),
		GuildID:   domain.GuildID(ch.GuildID),
		Name:      ch.Name,
		UserLimit: ch.UserLimit,
	}
}
