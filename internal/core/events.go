package core

import "github.com/CureSaba/discord-join2create/internal/domain"

// VoiceUpdate is one membership-change observation from the platform.
// An empty ChannelID means "not in voice".
type VoiceUpdate struct {
	Guild       domain.GuildID
	User        domain.UserID
	DisplayName string
	Prev        domain.ChannelID
	Next        domain.ChannelID
}

// Joined reports whether this update is a "member just joined voice"
// transition, the only one that may spawn a personal room.
func (v VoiceUpdate) Joined() bool {
	return v.Prev == "" && v.Next != ""
}
