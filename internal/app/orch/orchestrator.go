// Package orch drives the room lifecycle: it reacts to membership
// events from the platform, keeps the ownership registry consistent
// with the platform's actual channel set, and answers administrative
// commands from room owners.
package orch

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/CureSaba/discord-join2create/internal/app"
	"github.com/CureSaba/discord-join2create/internal/core"
	"github.com/CureSaba/discord-join2create/internal/domain"
	"github.com/CureSaba/discord-join2create/internal/metrics"
)

type Orchestrator struct {
	Registry  *app.Registry
	Platform  core.Platform
	LobbyName string

	// locks serializes lifecycle transitions per (guild, display name)
	// so two interleaved joins cannot both decide to create.
	locks app.KeyedMutex
}

func lockKey(guild domain.GuildID, name string) string {
	return string(guild) + "\x00" + name
}

// HandleVoiceUpdate processes one membership-change event. Each call
// is one lifecycle transition: it either completes or fails terminally
// with a log line; nothing is retried.
func (o *Orchestrator) HandleVoiceUpdate(ctx context.Context, ev core.VoiceUpdate) {
	if ev.Joined() {
		o.handleJoin(ctx, ev)
	}
	if ev.Prev != "" {
		o.reclaimIfEmpty(ctx, ev.Guild, ev.Prev)
	}
}

// handleJoin runs the "member just joined voice" transition: find or
// create the member's personal room and move them into it. The keyed
// lock is held from the search until the member is moved, so a second
// join for the same name observes a completed creation.
func (o *Orchestrator) handleJoin(ctx context.Context, ev core.VoiceUpdate) {
	if ev.DisplayName == "" {
		log.Warn().Str("module", "app.orch").Str("user", string(ev.User)).Msg("no display name for member, skipping transition")
		return
	}
	if ev.DisplayName == o.LobbyName {
		// The lobby name is reserved; a room by that name must never
		// be created, so this member cannot get a personal room.
		log.Warn().Str("module", "app.orch").Str("user", string(ev.User)).Msg("display name matches lobby, skipping room creation")
		return
	}

	unlock := o.locks.Lock(lockKey(ev.Guild, ev.DisplayName))
	defer unlock()

	// Existing ownership wins over the name search: a renamed room
	// stays the owner's room, and an owner never gets a second one.
	if room, ok := o.Registry.RoomOf(ev.User); ok {
		ch, err := o.Platform.Channel(ctx, ev.Guild, room)
		switch {
		case err == nil:
			o.move(ctx, ev, ch.ID)
			return
		case errors.Is(err, core.ErrStaleRoom):
			o.Registry.Remove(room)
			metrics.ActiveRooms.Set(float64(o.Registry.Len()))
			log.Info().Str("module", "app.orch").Str("room", string(room)).Msg("dropped stale registry entry")
		default:
			log.Error().Err(err).Str("module", "app.orch").Str("room", string(room)).Msg("could not resolve owned room")
			return
		}
	}

	if target, ok := o.findByName(ctx, ev.Guild, ev.DisplayName); ok {
		owner, owned := o.Registry.OwnerOf(target.ID)
		if !owned || owner == ev.User {
			// The member's own room, or an untracked one left over
			// from a restart: reuse it rather than duplicate.
			o.move(ctx, ev, target.ID)
			return
		}
		// Another identity shares this display name. Names may
		// collide on the platform; the registry key keeps the two
		// rooms distinct.
		log.Info().Str("module", "app.orch").Str("name", ev.DisplayName).Str("owner", string(owner)).Msg("display name collision, creating a second room")
	}

	ch, err := o.Platform.CreateVoiceChannel(ctx, ev.Guild, ev.DisplayName, core.DefaultPolicy)
	if err != nil {
		// No registry entry on failure: an entry must never point at
		// a channel that was not created.
		log.Error().Err(err).Str("module", "app.orch").Str("name", ev.DisplayName).Msg("failed to create room")
		return
	}
	o.Registry.Put(ch.ID, ev.User)
	metrics.RoomsCreated.Inc()
	metrics.ActiveRooms.Set(float64(o.Registry.Len()))
	log.Info().Str("module", "app.orch").Str("room", string(ch.ID)).Str("owner", string(ev.User)).Msg("created room")

	o.move(ctx, ev, ch.ID)
}

func (o *Orchestrator) move(ctx context.Context, ev core.VoiceUpdate, to domain.ChannelID) {
	if err := o.Platform.MoveMember(ctx, ev.Guild, ev.User, to); err != nil {
		log.Error().Err(err).Str("module", "app.orch").Str("user", string(ev.User)).Str("room", string(to)).Msg("failed to move member")
	}
}

// reclaimIfEmpty deletes a tracked room once its member count reaches
// zero. The registry entry goes first, so a concurrent lookup never
// observes a deleted channel as owned. The lobby and channels this
// system did not create are never in the registry and never touched.
func (o *Orchestrator) reclaimIfEmpty(ctx context.Context, guild domain.GuildID, room domain.ChannelID) {
	if _, ok := o.Registry.OwnerOf(room); !ok {
		return
	}
	members, err := o.Platform.VoiceMembers(ctx, guild, room)
	if err != nil {
		if errors.Is(err, core.ErrStaleRoom) {
			// Already gone on the platform; drop our side.
			o.Registry.Remove(room)
			metrics.ActiveRooms.Set(float64(o.Registry.Len()))
			return
		}
		log.Error().Err(err).Str("module", "app.orch").Str("room", string(room)).Msg("could not count room members")
		return
	}
	if len(members) > 0 {
		return
	}

	o.Registry.Remove(room)
	metrics.ActiveRooms.Set(float64(o.Registry.Len()))
	if err := o.Platform.DeleteChannel(ctx, guild, room); err != nil {
		// Terminal for this transition; the platform's garbage state
		// is outside this system's authority.
		log.Error().Err(err).Str("module", "app.orch").Str("room", string(room)).Msg("failed to delete empty room")
		return
	}
	metrics.RoomsDeleted.Inc()
	log.Info().Str("module", "app.orch").Str("room", string(room)).Msg("reclaimed empty room")
}

// findByName looks up a voice channel by exact display name. The lobby
// is reserved and excluded from the search.
func (o *Orchestrator) findByName(ctx context.Context, guild domain.GuildID, name string) (domain.Channel, bool) {
	channels, err := o.Platform.Channels(ctx, guild)
	if err != nil {
		log.Error().Err(err).Str("module", "app.orch").Str("guild", string(guild)).Msg("failed to list channels")
		return domain.Channel{}, false
	}
	for _, ch := range channels {
		if ch.Name == name && ch.Name != o.LobbyName {
			return ch, true
		}
	}
	return domain.Channel{}, false
}
