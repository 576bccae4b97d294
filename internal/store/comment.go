package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tubeshare/apiserver/types"
)

const commentSelect = `
	SELECT c.id, c.user_id, c.video_id, c.message, c.created_at, c.updated_at,
	       u.username, u.channel_name, u.profile_pic, u.created_at
	FROM comments c
	JOIN users u ON u.id = c.user_id`

// CommentRepository handles persistence for comments.
type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Get(ctx context.Context, id int) (types.Comment, error) {
	query := commentSelect + ` WHERE c.id = $1`
	comment, err := scanComment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Comment{}, ErrNotFound
		}
		return types.Comment{}, err
	}
	return comment, nil
}

func (r *CommentRepository) ListByVideo(ctx context.Context, videoID int) ([]types.Comment, error) {
	query := commentSelect + ` WHERE c.video_id = $1 ORDER BY c.created_at, c.id`
	rows, err := r.db.QueryContext(ctx, query, videoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]types.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *CommentRepository) Create(ctx context.Context, comment types.Comment) (types.Comment, error) {
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	const query = `
		INSERT INTO comments (user_id, video_id, message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		comment.UserID,
		comment.VideoID,
		comment.Message,
		comment.CreatedAt,
		comment.UpdatedAt,
	).Scan(&comment.ID); err != nil {
		return types.Comment{}, err
	}
	return comment, nil
}

// Update rewrites the comment message.
func (r *CommentRepository) Update(ctx context.Context, comment types.Comment) (types.Comment, error) {
	comment.UpdatedAt = time.Now()

	const query = `
		UPDATE comments
		SET message = $1,
			updated_at = $2
		WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, comment.Message, comment.UpdatedAt, comment.ID)
	if err != nil {
		return types.Comment{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Comment{}, err
	}
	if affected == 0 {
		return types.Comment{}, ErrNotFound
	}
	return comment, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM comments WHERE id = $1`
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

func scanComment(row rowScanner) (types.Comment, error) {
	var comment types.Comment
	var author types.UserSummary
	if err := row.Scan(
		&comment.ID,
		&comment.UserID,
		&comment.VideoID,
		&comment.Message,
		&comment.CreatedAt,
		&comment.UpdatedAt,
		&author.Username,
		&author.ChannelName,
		&author.ProfilePic,
		&author.CreatedAt,
	); err != nil {
		return types.Comment{}, err
	}
	author.ID = comment.UserID
	comment.Author = &author
	return comment, nil
}
