package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubeshare/apiserver/types"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

var userRowColumns = []string{"id", "username", "email", "password_hash", "profile_pic", "channel_name", "about", "created_at", "updated_at"}

func TestUserGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(1, "alice", "a@x.com", "$2a$hash", "", "Untitled Channel", "No description yet", now, now))

	user, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "$2a$hash", user.PasswordHash)
}

func TestUserGetByLoginNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE username = \$1 OR email = \$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByLogin(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserCreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "a@x.com", "hash", "", "Untitled Channel", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := repo.Create(context.Background(), types.User{
		Username:     "alice",
		Email:        "a@x.com",
		PasswordHash: "hash",
		ChannelName:  "Untitled Channel",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUserCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	user, err := repo.Create(context.Background(), types.User{Username: "alice", Email: "a@x.com", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Equal(t, 7, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestUserExistsByUsernameOrEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE username IN \(\$1, \$2\) OR email IN \(\$1, \$2\)\)`).
		WithArgs("alice", "a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByUsernameOrEmail(context.Background(), "alice", "a@x.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 3))
	assert.ErrorIs(t, repo.Delete(context.Background(), 4), ErrNotFound)
}

func TestChannelCreateConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChannelRepository(db)

	mock.ExpectQuery(`INSERT INTO channels`).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), types.Channel{OwnerUserID: 1, ChannelName: "alice tv"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestChannelCountByOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChannelRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(1\) FROM channels WHERE owner_id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	count, err := repo.CountByOwner(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestChannelUpdateNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChannelRepository(db)

	mock.ExpectExec(`UPDATE channels`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), types.Channel{ID: 3})
	assert.ErrorIs(t, err, ErrNotFound)
}

var videoRowColumns = []string{
	"id", "user_id", "title", "description", "video_link", "video_type", "thumbnail", "thumbnail_key",
	"created_at", "updated_at", "username", "channel_name", "profile_pic", "user_created_at", "likes", "dislikes",
}

func TestVideoGet(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVideoRepository(db)
	now := time.Now()

	mock.ExpectQuery(`(?s)FROM videos v\s.+WHERE v.id = \$1`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(videoRowColumns).AddRow(
			5, 1, "Intro", "", "https://cdn/v.mp4", "All", "https://cdn/t.png", "",
			now, now, "alice", "alice tv", "", now, []byte("{2,3}"), []byte("{}"),
		))

	video, err := repo.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Intro", video.Title)
	assert.Equal(t, []int{2, 3}, video.Likes)
	assert.Empty(t, video.Dislikes)
	require.NotNil(t, video.Uploader)
	assert.Equal(t, 1, video.Uploader.ID)
	assert.Equal(t, "alice", video.Uploader.Username)
}

func TestVideoGetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVideoRepository(db)

	mock.ExpectQuery(`FROM videos v`).WithArgs(5).WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVideoListByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVideoRepository(db)
	now := time.Now()

	mock.ExpectQuery(`(?s)FROM videos v\s.+WHERE v.user_id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(videoRowColumns).
			AddRow(6, 1, "B", "", "l", "All", "t", "", now, now, "alice", "", "", now, []byte("{}"), []byte("{4}")).
			AddRow(5, 1, "A", "", "l", "All", "t", "", now, now, "alice", "", "", now, []byte("{}"), []byte("{}")))

	videos, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, []int{4}, videos[0].Dislikes)
}

func TestVideoDeleteNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVideoRepository(db)

	mock.ExpectExec(`DELETE FROM videos WHERE id = \$1`).
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 9), ErrNotFound)
}

func TestVideoToggleReaction(t *testing.T) {
	cases := []struct {
		name       string
		current    string
		reaction   types.Reaction
		expectExec string
		wantActive bool
	}{
		{name: "new like", reaction: types.ReactionLike, expectExec: `INSERT INTO video_reactions`, wantActive: true},
		{name: "repeat like", current: "like", reaction: types.ReactionLike, expectExec: `DELETE FROM video_reactions`, wantActive: false},
		{name: "dislike replaces like", current: "like", reaction: types.ReactionDislike, expectExec: `INSERT INTO video_reactions`, wantActive: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewVideoRepository(db)

			mock.ExpectBegin()
			query := mock.ExpectQuery(`SELECT kind FROM video_reactions`).WithArgs(5, 2)
			if tc.current == "" {
				query.WillReturnError(sql.ErrNoRows)
			} else {
				query.WillReturnRows(sqlmock.NewRows([]string{"kind"}).AddRow(tc.current))
			}
			mock.ExpectExec(tc.expectExec).WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			active, err := repo.ToggleReaction(context.Background(), 5, 2, tc.reaction)
			require.NoError(t, err)
			assert.Equal(t, tc.wantActive, active)
		})
	}
}

func TestVideoToggleReactionRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVideoRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT kind FROM video_reactions`).WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO video_reactions`).WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	_, err := repo.ToggleReaction(context.Background(), 5, 2, types.ReactionLike)
	assert.ErrorContains(t, err, "db down")
}

var commentRowColumns = []string{"id", "user_id", "video_id", "message", "created_at", "updated_at", "username", "channel_name", "profile_pic", "user_created_at"}

func TestCommentListByVideo(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepository(db)
	now := time.Now()

	mock.ExpectQuery(`(?s)FROM comments c\s.+WHERE c.video_id = \$1`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(commentRowColumns).
			AddRow(1, 2, 5, "first", now, now, "bob", "bob tv", "", now))

	comments, err := repo.ListByVideo(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "first", comments[0].Message)
	assert.Equal(t, "bob", comments[0].Author.Username)
}

func TestCommentGetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectQuery(`(?s)FROM comments c\s.+WHERE c.id = \$1`).WithArgs(3).WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommentUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectExec(`UPDATE comments`).
		WithArgs("edited", sqlmock.AnyArg(), 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	comment, err := repo.Update(context.Background(), types.Comment{ID: 3, Message: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", comment.Message)
}
