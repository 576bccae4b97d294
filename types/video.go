package types

import "time"

const DefaultVideoType = "All"

// Video holds the metadata of an uploaded video. The media itself lives
// outside the service and is referenced by VideoLink.
type Video struct {
	// ID is the unique identifier of the video.
	ID int `json:"id" db:"id"`

	// UserID is the uploader. It is fixed at creation time.
	UserID int `json:"userId" db:"user_id"`

	// Uploader is the public projection of the uploading user.
	// It is populated on reads only.
	Uploader *UserSummary `json:"user,omitempty" db:"-"`

	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	VideoLink   string `json:"videoLink" db:"video_link"`
	VideoType   string `json:"videoType" db:"video_type"`
	Thumbnail   string `json:"thumbnail" db:"thumbnail"`

	// ThumbnailKey is the object storage key of an uploaded thumbnail,
	// empty when Thumbnail points at an external URL.
	ThumbnailKey string `json:"-" db:"thumbnail_key"`

	// Likes and Dislikes hold the ids of the users that reacted.
	Likes    []int `json:"likes" db:"-"`
	Dislikes []int `json:"dislike" db:"-"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// OwnerID returns the uploader of the video.
func (v Video) OwnerID() int {
	return v.UserID
}

// Reaction is a user's opinion of a video.
type Reaction string

const (
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)
