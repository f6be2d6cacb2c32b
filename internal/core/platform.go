package core

import (
	"context"

	"github.com/CureSaba/discord-join2create/internal/domain"
)

// CreatePolicy selects the permission shape for a new voice channel.
type CreatePolicy int

const (
	// DefaultPolicy inherits the guild's defaults (personal rooms).
	DefaultPolicy CreatePolicy = iota
	// LobbyPolicy grants default members connect and nothing else.
	LobbyPolicy
)

// Platform is the slice of the chat platform this system consumes.
// Implementations must be safe for concurrent use: a lifecycle handler
// may be suspended on one call while another event starts processing.
//
// Calls that resolve a channel return ErrStaleRoom (possibly wrapped)
// when the channel no longer exists; callers treat that as a normal,
// reportable outcome, never as a fault.
type Platform interface {
	// Channels lists the guild's voice channels.
	Channels(ctx context.Context, guild domain.GuildID) ([]domain.Channel, error)
	// Channel resolves a single channel.
	Channel(ctx context.Context, guild domain.GuildID, ch domain.ChannelID) (domain.Channel, error)
	// VoiceMembers lists users currently connected to a voice channel.
	VoiceMembers(ctx context.Context, guild domain.GuildID, ch domain.ChannelID) ([]domain.UserID, error)

	CreateVoiceChannel(ctx context.Context, guild domain.GuildID, name string, policy CreatePolicy) (domain.Channel, error)
	DeleteChannel(ctx context.Context, guild domain.GuildID, ch domain.ChannelID) error
	RenameChannel(ctx context.Context, guild domain.GuildID, ch domain.ChannelID, name string) error
	SetUserLimit(ctx context.Context, guild domain.GuildID, ch domain.ChannelID, limit int) error
	MoveMember(ctx context.Context, guild domain.GuildID, user domain.UserID, ch domain.ChannelID) error
	DisconnectMember(ctx context.Context, guild domain.GuildID, user domain.UserID) error
}
