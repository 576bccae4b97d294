package types

import "time"

// Channel is a user's publishing channel. A user owns at most one channel.
type Channel struct {
	ID            int       `json:"id" db:"id"`
	OwnerUserID   int       `json:"owner" db:"owner_id"`
	ChannelName   string    `json:"channelName" db:"channel_name"`
	Description   string    `json:"description" db:"description"`
	ChannelBanner string    `json:"channelBanner" db:"channel_banner"`
	Subscribers   int       `json:"subscribers" db:"subscribers"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// OwnerID returns the user that created the channel.
func (c Channel) OwnerID() int {
	return c.OwnerUserID
}
