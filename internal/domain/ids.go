// Package domain contains entity without logic, just meta-data
package domain

type (
	GuildID   string
	ChannelID string
	UserID    string
)

// Channel is the observed view of a platform voice channel. The member
// set is not stored here; it is queried from the platform when needed.
type Channel struct {
	ID        ChannelID `json:"id"`
	GuildID   GuildID   `json:"guild_id"`
	Name      string    `json:"name"`
	UserLimit int       `json:"user_limit"`
}
