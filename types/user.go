package types

import "time"

// User represents an account in the system.
// It contains identity, channel profile, and audit metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Username is the unique login name chosen by the user.
	Username string `json:"username" db:"username"`

	// Email is the user's unique email address. It can be used
	// in place of the username when signing in.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// ProfilePic is a URL to the user's avatar image.
	ProfilePic string `json:"profilePic" db:"profile_pic"`

	// ChannelName is the display name shown next to the user's uploads.
	ChannelName string `json:"channelName" db:"channel_name"`

	// About is a free-form description of the user's channel.
	About string `json:"about" db:"about"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Summary returns the public projection of the user embedded in
// video and comment listings.
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		Username:    u.Username,
		ChannelName: u.ChannelName,
		ProfilePic:  u.ProfilePic,
		CreatedAt:   u.CreatedAt,
	}
}

// UserSummary is the author projection attached to videos and comments.
type UserSummary struct {
	ID          int       `json:"id"`
	Username    string    `json:"username"`
	ChannelName string    `json:"channelName"`
	ProfilePic  string    `json:"profilePic"`
	CreatedAt   time.Time `json:"createdAt"`
}
