package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tubeshare/apiserver/types"
)

const channelColumns = `id, owner_id, channel_name, description, channel_banner, subscribers, created_at, updated_at`

// ChannelRepository handles persistence for channels.
type ChannelRepository struct {
	db *sql.DB
}

func NewChannelRepository(db *sql.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

func (r *ChannelRepository) Get(ctx context.Context, id int) (types.Channel, error) {
	query := `SELECT ` + channelColumns + ` FROM channels WHERE id = $1`
	return scanChannel(r.db.QueryRowContext(ctx, query, id))
}

func (r *ChannelRepository) GetByOwner(ctx context.Context, ownerID int) (types.Channel, error) {
	query := `SELECT ` + channelColumns + ` FROM channels WHERE owner_id = $1`
	return scanChannel(r.db.QueryRowContext(ctx, query, ownerID))
}

func (r *ChannelRepository) CountByOwner(ctx context.Context, ownerID int) (int, error) {
	const query = `SELECT COUNT(1) FROM channels WHERE owner_id = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts the channel. The owner_id unique index turns a concurrent
// second channel into ErrConflict.
func (r *ChannelRepository) Create(ctx context.Context, channel types.Channel) (types.Channel, error) {
	now := time.Now()
	channel.CreatedAt = now
	channel.UpdatedAt = now

	const query = `
		INSERT INTO channels (owner_id, channel_name, description, channel_banner, subscribers, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		channel.OwnerUserID,
		channel.ChannelName,
		channel.Description,
		channel.ChannelBanner,
		channel.Subscribers,
		channel.CreatedAt,
		channel.UpdatedAt,
	).Scan(&channel.ID); err != nil {
		if isUniqueViolation(err) {
			return types.Channel{}, ErrConflict
		}
		return types.Channel{}, err
	}
	return channel, nil
}

func (r *ChannelRepository) Update(ctx context.Context, channel types.Channel) (types.Channel, error) {
	channel.UpdatedAt = time.Now()

	const query = `
		UPDATE channels
		SET channel_name = $1,
			description = $2,
			channel_banner = $3,
			updated_at = $4
		WHERE id = $5`
	result, err := r.db.ExecContext(
		ctx,
		query,
		channel.ChannelName,
		channel.Description,
		channel.ChannelBanner,
		channel.UpdatedAt,
		channel.ID,
	)
	if err != nil {
		return types.Channel{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Channel{}, err
	}
	if affected == 0 {
		return types.Channel{}, ErrNotFound
	}
	return channel, nil
}

func scanChannel(row rowScanner) (types.Channel, error) {
	var channel types.Channel
	err := row.Scan(
		&channel.ID,
		&channel.OwnerUserID,
		&channel.ChannelName,
		&channel.Description,
		&channel.ChannelBanner,
		&channel.Subscribers,
		&channel.CreatedAt,
		&channel.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Channel{}, ErrNotFound
		}
		return types.Channel{}, err
	}
	return channel, nil
}
