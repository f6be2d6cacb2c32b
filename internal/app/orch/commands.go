package orch

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/CureSaba/discord-join2create/internal/core"
	"github.com/CureSaba/discord-join2create/internal/domain"
	"github.com/CureSaba/discord-join2create/internal/metrics"
)

// Voice channel user limits accepted by the platform; 0 means no limit.
const maxUserLimit = 99

// ownedRoom is the authorization gate: it resolves which room, if any,
// the requester owns, then resolves that room on the platform. It
// never mutates anything.
func (o *Orchestrator) ownedRoom(ctx context.Context, guild domain.GuildID, requester domain.UserID) (domain.Channel, error) {
	room, ok := o.Registry.RoomOf(requester)
	if !ok {
		return domain.Channel{}, core.ErrNotOwner
	}
	// The room can empty and vanish between the registry read and this
	// resolution; a stale id is a normal, reportable outcome.
	return o.Platform.Channel(ctx, guild, room)
}

// Rename renames the requester's room. Exactly one reply per call.
func (o *Orchestrator) Rename(ctx context.Context, guild domain.GuildID, requester domain.UserID, newName string) string {
	ch, err := o.ownedRoom(ctx, guild, requester)
	switch {
	case errors.Is(err, core.ErrNotOwner):
		metrics.Commands.WithLabelValues("rename", "not_owner").Inc()
		return "You do not have a channel to rename."
	case errors.Is(err, core.ErrStaleRoom):
		metrics.Commands.WithLabelValues("rename", "stale").Inc()
		return "Channel not found."
	case err != nil:
		metrics.Commands.WithLabelValues("rename", "error").Inc()
		log.Error().Err(err).Str("module", "app.orch").Str("user", string(requester)).Msg("rename: could not resolve room")
		return "Failed to rename the channel."
	}

	if err := o.Platform.RenameChannel(ctx, guild, ch.ID, newName); err != nil {
		metrics.Commands.WithLabelValues("rename", "error").Inc()
		log.Error().Err(err).Str("module", "app.orch").Str("room", string(ch.ID)).Msg("rename failed")
		return "Failed to rename the channel."
	}
	metrics.Commands.WithLabelValues("rename", "ok").Inc()
	return fmt.Sprintf("Renamed the channel to %s.", newName)
}

// SetLimit sets the member capacity of the requester's room.
func (o *Orchestrator) SetLimit(ctx context.Context, guild domain.GuildID, requester domain.UserID, limit int) string {
	if limit < 0 || limit > maxUserLimit {
		metrics.Commands.WithLabelValues("limit", "invalid").Inc()
		return fmt.Sprintf("User limit must be between 0 and %d.", maxUserLimit)
	}

	ch, err := o.ownedRoom(ctx, guild, requester)
	switch {
	case errors.Is(err, core.ErrNotOwner):
		metrics.Commands.WithLabelValues("limit", "not_owner").Inc()
		return "You do not have a channel to limit."
	case errors.Is(err, core.ErrStaleRoom):
		metrics.Commands.WithLabelValues("limit", "stale").Inc()
		return "Channel not found."
	case err != nil:
		metrics.Commands.WithLabelValues("limit", "error").Inc()
		log.Error().Err(err).Str("module", "app.orch").Str("user", string(requester)).Msg("limit: could not resolve room")
		return "Failed to set the user limit."
	}

	if err := o.Platform.SetUserLimit(ctx, guild, ch.ID, limit); err != nil {
		metrics.Commands.WithLabelValues("limit", "error").Inc()
		log.Error().Err(err).Str("module", "app.orch").Str("room", string(ch.ID)).Msg("set limit failed")
		return "Failed to set the user limit."
	}
	metrics.Commands.WithLabelValues("limit", "ok").Inc()
	return fmt.Sprintf("Set the user limit to %d.", limit)
}

// targetInRoom resolves whether target is currently connected to ch;
// absence is core.ErrTargetAbsent.
func (o *Orchestrator) targetInRoom(ctx context.Context, guild domain.GuildID, ch domain.ChannelID, target domain.UserID) error {
	members, err := o.Platform.VoiceMembers(ctx, guild, ch)
	if err != nil {
		return err
	}
	for _, m := range members {
		if m == target {
			return nil
		}
	}
	return core.ErrTargetAbsent
}

// Kick disconnects target from the requester's room. The target must
// currently be in the room; absence is its own user-visible outcome,
// not a generic failure.
func (o *Orchestrator) Kick(ctx context.Context, guild domain.GuildID, requester, target domain.UserID, targetName string) string {
	ch, err := o.ownedRoom(ctx, guild, requester)
	switch {
	case errors.Is(err, core.ErrNotOwner):
		metrics.Commands.WithLabelValues("kick", "not_owner").Inc()
		return "You do not have a channel to kick from."
	case errors.Is(err, core.ErrStaleRoom):
		metrics.Commands.WithLabelValues("kick", "stale").Inc()
		return "Channel not found."
	case err != nil:
		metrics.Commands.WithLabelValues("kick", "error").Inc()
		log.Error().Err(err).Str("module", "app.orch").Str("user", string(requester)).Msg("kick: could not resolve room")
		return "Failed to kick the user."
	}

	err = o.targetInRoom(ctx, guild, ch.ID, target)
	switch {
	case errors.Is(err, core.ErrTargetAbsent):
		metrics.Commands.WithLabelValues("kick", "target_absent").Inc()
		return "User not in channel."
	case err != nil:
		metrics.Commands.WithLabelValues("kick", "error").Inc()
		log.Error().Err(err).Str("module", "app.orch").Str("room", string(ch.ID)).Msg("kick: could not list members")
		return "Failed to kick the user."
	}

	if err := o.Platform.DisconnectMember(ctx, guild, target); err != nil {
		metrics.Commands.WithLabelValues("kick", "error").Inc()
		log.Error().Err(err).Str("module", "app.orch").Str("room", string(ch.ID)).Str("target", string(target)).Msg("kick failed")
		return "Failed to kick the user."
	}
	metrics.Commands.WithLabelValues("kick", "ok").Inc()
	return fmt.Sprintf("Kicked %s from the channel.", targetName)
}

func (o *Orchestrator) Ping() string {
	metrics.Commands.WithLabelValues("ping", "ok").Inc()
	return "Pong!"
}
