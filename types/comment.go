package types

import "time"

// Comment is a message left by a user on a video.
type Comment struct {
	ID      int          `json:"id" db:"id"`
	UserID  int          `json:"userId" db:"user_id"`
	Author  *UserSummary `json:"user,omitempty" db:"-"`
	VideoID int          `json:"video" db:"video_id"`
	Message string       `json:"message" db:"message"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// OwnerID returns the author of the comment.
func (c Comment) OwnerID() int {
	return c.UserID
}
