package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tubeshare/apiserver/types"
)

type reactionKey struct {
	videoID int
	userID  int
}

// Memory is an in-process database backing the Memory* repositories.
// It mirrors the constraints of the Postgres schema: unique usernames,
// emails and channel owners, and cascading video deletes.
type Memory struct {
	mu        sync.Mutex
	nextID    int
	users     map[int]types.User
	channels  map[int]types.Channel
	videos    map[int]types.Video
	comments  map[int]types.Comment
	reactions map[reactionKey]types.Reaction
}

func NewMemory() *Memory {
	return &Memory{
		users:     make(map[int]types.User),
		channels:  make(map[int]types.Channel),
		videos:    make(map[int]types.Video),
		comments:  make(map[int]types.Comment),
		reactions: make(map[reactionKey]types.Reaction),
	}
}

func (m *Memory) id() int {
	m.nextID++
	return m.nextID
}

func (m *Memory) Users() *MemoryUserRepository       { return &MemoryUserRepository{m} }
func (m *Memory) Channels() *MemoryChannelRepository { return &MemoryChannelRepository{m} }
func (m *Memory) Videos() *MemoryVideoRepository     { return &MemoryVideoRepository{m} }
func (m *Memory) Comments() *MemoryCommentRepository { return &MemoryCommentRepository{m} }

type MemoryUserRepository struct{ m *Memory }

func (r *MemoryUserRepository) GetByID(_ context.Context, id int) (types.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user, ok := r.m.users[id]
	if !ok {
		return types.User{}, ErrNotFound
	}
	return user, nil
}

func (r *MemoryUserRepository) GetByLogin(_ context.Context, login string) (types.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var found types.User
	for _, user := range r.m.users {
		if user.Username != login && user.Email != login {
			continue
		}
		if found.ID == 0 || user.ID < found.ID {
			found = user
		}
	}
	if found.ID == 0 {
		return types.User{}, ErrNotFound
	}
	return found, nil
}

func (r *MemoryUserRepository) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.m.userTaken(username, email), nil
}

func (r *MemoryUserRepository) Create(_ context.Context, user types.User) (types.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.userTaken(user.Username, user.Email) {
		return types.User{}, ErrConflict
	}
	now := time.Now()
	user.ID = r.m.id()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.m.users[user.ID] = user
	return user, nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.m.users, id)
	for channelID, channel := range r.m.channels {
		if channel.OwnerUserID == id {
			delete(r.m.channels, channelID)
		}
	}
	for videoID, video := range r.m.videos {
		if video.UserID == id {
			r.m.deleteVideo(videoID)
		}
	}
	for commentID, comment := range r.m.comments {
		if comment.UserID == id {
			delete(r.m.comments, commentID)
		}
	}
	for key := range r.m.reactions {
		if key.userID == id {
			delete(r.m.reactions, key)
		}
	}
	return nil
}

func (m *Memory) userTaken(username, email string) bool {
	for _, user := range m.users {
		if user.Username == username || user.Username == email ||
			user.Email == username || user.Email == email {
			return true
		}
	}
	return false
}

type MemoryChannelRepository struct{ m *Memory }

func (r *MemoryChannelRepository) Get(_ context.Context, id int) (types.Channel, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	channel, ok := r.m.channels[id]
	if !ok {
		return types.Channel{}, ErrNotFound
	}
	return channel, nil
}

func (r *MemoryChannelRepository) GetByOwner(_ context.Context, ownerID int) (types.Channel, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, channel := range r.m.channels {
		if channel.OwnerUserID == ownerID {
			return channel, nil
		}
	}
	return types.Channel{}, ErrNotFound
}

func (r *MemoryChannelRepository) CountByOwner(_ context.Context, ownerID int) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	count := 0
	for _, channel := range r.m.channels {
		if channel.OwnerUserID == ownerID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryChannelRepository) Create(_ context.Context, channel types.Channel) (types.Channel, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.channels {
		if existing.OwnerUserID == channel.OwnerUserID {
			return types.Channel{}, ErrConflict
		}
	}
	now := time.Now()
	channel.ID = r.m.id()
	channel.CreatedAt = now
	channel.UpdatedAt = now
	r.m.channels[channel.ID] = channel
	return channel, nil
}

func (r *MemoryChannelRepository) Update(_ context.Context, channel types.Channel) (types.Channel, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	existing, ok := r.m.channels[channel.ID]
	if !ok {
		return types.Channel{}, ErrNotFound
	}
	existing.ChannelName = channel.ChannelName
	existing.Description = channel.Description
	existing.ChannelBanner = channel.ChannelBanner
	existing.UpdatedAt = time.Now()
	r.m.channels[channel.ID] = existing
	return existing, nil
}

type MemoryVideoRepository struct{ m *Memory }

func (r *MemoryVideoRepository) List(_ context.Context) ([]types.Video, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.m.listVideos(func(types.Video) bool { return true }), nil
}

func (r *MemoryVideoRepository) ListByUser(_ context.Context, userID int) ([]types.Video, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.m.listVideos(func(v types.Video) bool { return v.UserID == userID }), nil
}

func (r *MemoryVideoRepository) Get(_ context.Context, id int) (types.Video, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	video, ok := r.m.videos[id]
	if !ok {
		return types.Video{}, ErrNotFound
	}
	return r.m.hydrateVideo(video), nil
}

func (r *MemoryVideoRepository) Create(_ context.Context, video types.Video) (types.Video, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[video.UserID]; !ok {
		return types.Video{}, ErrNotFound
	}
	now := time.Now()
	video.ID = r.m.id()
	video.CreatedAt = now
	video.UpdatedAt = now
	video.Uploader = nil
	video.Likes = []int{}
	video.Dislikes = []int{}
	r.m.videos[video.ID] = video
	return video, nil
}

func (r *MemoryVideoRepository) Update(_ context.Context, video types.Video) (types.Video, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	existing, ok := r.m.videos[video.ID]
	if !ok {
		return types.Video{}, ErrNotFound
	}
	video.UserID = existing.UserID
	video.CreatedAt = existing.CreatedAt
	video.UpdatedAt = time.Now()
	r.m.videos[video.ID] = video
	return video, nil
}

func (r *MemoryVideoRepository) Delete(_ context.Context, id int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.videos[id]; !ok {
		return ErrNotFound
	}
	r.m.deleteVideo(id)
	return nil
}

func (m *Memory) deleteVideo(id int) {
	delete(m.videos, id)
	for commentID, comment := range m.comments {
		if comment.VideoID == id {
			delete(m.comments, commentID)
		}
	}
	for key := range m.reactions {
		if key.videoID == id {
			delete(m.reactions, key)
		}
	}
}

func (r *MemoryVideoRepository) ToggleReaction(_ context.Context, videoID, userID int, reaction types.Reaction) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.videos[videoID]; !ok {
		return false, ErrNotFound
	}
	key := reactionKey{videoID: videoID, userID: userID}
	if current, ok := r.m.reactions[key]; ok && current == reaction {
		delete(r.m.reactions, key)
		return false, nil
	}
	r.m.reactions[key] = reaction
	return true, nil
}

// listVideos returns matching videos newest first. Callers hold the lock.
func (m *Memory) listVideos(match func(types.Video) bool) []types.Video {
	videos := []types.Video{}
	for _, video := range m.videos {
		if match(video) {
			videos = append(videos, m.hydrateVideo(video))
		}
	}
	sort.Slice(videos, func(i, j int) bool { return videos[i].ID > videos[j].ID })
	return videos
}

func (m *Memory) hydrateVideo(video types.Video) types.Video {
	if user, ok := m.users[video.UserID]; ok {
		summary := user.Summary()
		video.Uploader = &summary
	}
	likes, dislikes := []int{}, []int{}
	for key, reaction := range m.reactions {
		if key.videoID != video.ID {
			continue
		}
		if reaction == types.ReactionLike {
			likes = append(likes, key.userID)
		} else {
			dislikes = append(dislikes, key.userID)
		}
	}
	sort.Ints(likes)
	sort.Ints(dislikes)
	video.Likes = likes
	video.Dislikes = dislikes
	return video
}

type MemoryCommentRepository struct{ m *Memory }

func (r *MemoryCommentRepository) Get(_ context.Context, id int) (types.Comment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	comment, ok := r.m.comments[id]
	if !ok {
		return types.Comment{}, ErrNotFound
	}
	return r.m.hydrateComment(comment), nil
}

func (r *MemoryCommentRepository) ListByVideo(_ context.Context, videoID int) ([]types.Comment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	comments := []types.Comment{}
	for _, comment := range r.m.comments {
		if comment.VideoID == videoID {
			comments = append(comments, r.m.hydrateComment(comment))
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (r *MemoryCommentRepository) Create(_ context.Context, comment types.Comment) (types.Comment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.videos[comment.VideoID]; !ok {
		return types.Comment{}, ErrNotFound
	}
	now := time.Now()
	comment.ID = r.m.id()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	comment.Author = nil
	r.m.comments[comment.ID] = comment
	return comment, nil
}

func (r *MemoryCommentRepository) Update(_ context.Context, comment types.Comment) (types.Comment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	existing, ok := r.m.comments[comment.ID]
	if !ok {
		return types.Comment{}, ErrNotFound
	}
	existing.Message = comment.Message
	existing.UpdatedAt = time.Now()
	r.m.comments[comment.ID] = existing
	return r.m.hydrateComment(existing), nil
}

func (r *MemoryCommentRepository) Delete(_ context.Context, id int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.comments[id]; !ok {
		return ErrNotFound
	}
	delete(r.m.comments, id)
	return nil
}

func (m *Memory) hydrateComment(comment types.Comment) types.Comment {
	if user, ok := m.users[comment.UserID]; ok {
		summary := user.Summary()
		comment.Author = &summary
	}
	return comment
}
