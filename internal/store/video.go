package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/tubeshare/apiserver/types"
)

const videoSelect = `
	SELECT v.id, v.user_id, v.title, v.description, v.video_link, v.video_type,
	       v.thumbnail, v.thumbnail_key, v.created_at, v.updated_at,
	       u.username, u.channel_name, u.profile_pic, u.created_at,
	       COALESCE(array_agg(r.user_id ORDER BY r.user_id) FILTER (WHERE r.kind = 'like'), '{}') AS likes,
	       COALESCE(array_agg(r.user_id ORDER BY r.user_id) FILTER (WHERE r.kind = 'dislike'), '{}') AS dislikes
	FROM videos v
	JOIN users u ON u.id = v.user_id
	LEFT JOIN video_reactions r ON r.video_id = v.id`

const videoGroupBy = `
	GROUP BY v.id, u.id`

// VideoRepository handles persistence for videos and their reactions.
type VideoRepository struct {
	db *sql.DB
}

func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) List(ctx context.Context) ([]types.Video, error) {
	query := videoSelect + videoGroupBy + ` ORDER BY v.created_at DESC, v.id DESC`
	return r.queryVideos(ctx, query)
}

func (r *VideoRepository) ListByUser(ctx context.Context, userID int) ([]types.Video, error) {
	query := videoSelect + ` WHERE v.user_id = $1` + videoGroupBy + ` ORDER BY v.created_at DESC, v.id DESC`
	return r.queryVideos(ctx, query, userID)
}

func (r *VideoRepository) Get(ctx context.Context, id int) (types.Video, error) {
	query := videoSelect + ` WHERE v.id = $1` + videoGroupBy
	video, err := scanVideo(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Video{}, ErrNotFound
		}
		return types.Video{}, err
	}
	return video, nil
}

func (r *VideoRepository) Create(ctx context.Context, video types.Video) (types.Video, error) {
	now := time.Now()
	video.CreatedAt = now
	video.UpdatedAt = now

	const query = `
		INSERT INTO videos (user_id, title, description, video_link, video_type, thumbnail, thumbnail_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		video.UserID,
		video.Title,
		video.Description,
		video.VideoLink,
		video.VideoType,
		video.Thumbnail,
		video.ThumbnailKey,
		video.CreatedAt,
		video.UpdatedAt,
	).Scan(&video.ID); err != nil {
		return types.Video{}, err
	}
	video.Likes = []int{}
	video.Dislikes = []int{}
	return video, nil
}

// Update rewrites the mutable metadata. The uploader never changes.
func (r *VideoRepository) Update(ctx context.Context, video types.Video) (types.Video, error) {
	video.UpdatedAt = time.Now()

	const query = `
		UPDATE videos
		SET title = $1,
			description = $2,
			video_link = $3,
			video_type = $4,
			thumbnail = $5,
			thumbnail_key = $6,
			updated_at = $7
		WHERE id = $8`
	result, err := r.db.ExecContext(
		ctx,
		query,
		video.Title,
		video.Description,
		video.VideoLink,
		video.VideoType,
		video.Thumbnail,
		video.ThumbnailKey,
		video.UpdatedAt,
		video.ID,
	)
	if err != nil {
		return types.Video{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Video{}, err
	}
	if affected == 0 {
		return types.Video{}, ErrNotFound
	}
	return video, nil
}

func (r *VideoRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM videos WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleReaction applies reaction for userID on the video. Repeating the
// current reaction removes it; the opposite reaction is replaced.
// It reports whether the reaction is set after the call.
func (r *VideoRepository) ToggleReaction(ctx context.Context, videoID, userID int, reaction types.Reaction) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var current string
	err = tx.QueryRowContext(
		ctx,
		`SELECT kind FROM video_reactions WHERE video_id = $1 AND user_id = $2`,
		videoID, userID,
	).Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("load reaction: %w", err)
	}

	active := true
	if current == string(reaction) {
		_, err = tx.ExecContext(ctx, `DELETE FROM video_reactions WHERE video_id = $1 AND user_id = $2`, videoID, userID)
		active = false
	} else {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO video_reactions (video_id, user_id, kind, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (video_id, user_id) DO UPDATE SET kind = EXCLUDED.kind, created_at = EXCLUDED.created_at`,
			videoID, userID, string(reaction), time.Now(),
		)
	}
	if err != nil {
		return false, fmt.Errorf("write reaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return active, nil
}

func (r *VideoRepository) queryVideos(ctx context.Context, query string, args ...any) ([]types.Video, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := make([]types.Video, 0)
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return videos, nil
}

func scanVideo(row rowScanner) (types.Video, error) {
	var video types.Video
	var uploader types.UserSummary
	var likes, dislikes []int64
	if err := row.Scan(
		&video.ID,
		&video.UserID,
		&video.Title,
		&video.Description,
		&video.VideoLink,
		&video.VideoType,
		&video.Thumbnail,
		&video.ThumbnailKey,
		&video.CreatedAt,
		&video.UpdatedAt,
		&uploader.Username,
		&uploader.ChannelName,
		&uploader.ProfilePic,
		&uploader.CreatedAt,
		pq.Array(&likes),
		pq.Array(&dislikes),
	); err != nil {
		return types.Video{}, err
	}
	uploader.ID = video.UserID
	video.Uploader = &uploader
	video.Likes = toInts(likes)
	video.Dislikes = toInts(dislikes)
	return video, nil
}
