package orch

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/CureSaba/discord-join2create/internal/core"
	"github.com/CureSaba/discord-join2create/internal/domain"
)

// EnsureLobby makes sure the guild has its entry channel. Idempotent:
// repeated guild-available signals must not create duplicates. The
// check-then-create pair is not atomic against a racing bootstrap, so
// a duplicate-name outcome from the platform is treated as benign.
func (o *Orchestrator) EnsureLobby(ctx context.Context, guild domain.GuildID) error {
	channels, err := o.Platform.Channels(ctx, guild)
	if err != nil {
		return err
	}
	for _, ch := range channels {
		if ch.Name == o.LobbyName {
			log.Debug().Str("module", "app.orch").Str("guild", string(guild)).Msg("lobby already exists")
			return nil
		}
	}

	ch, err := o.Platform.CreateVoiceChannel(ctx, guild, o.LobbyName, core.LobbyPolicy)
	if err != nil {
		// Logged by the caller; re-attempted on the next
		// guild-available signal.
		return err
	}
	log.Info().Str("module", "app.orch").Str("guild", string(guild)).Str("lobby", string(ch.ID)).Msg("created lobby channel")
	return nil
}
