package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tubeshare/apiserver/internal/store"
	"github.com/tubeshare/apiserver/types"
)

const (
	defaultChannelName = "Untitled Channel"
	defaultAbout       = "No description yet"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByLogin(ctx context.Context, login string) (types.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Delete(ctx context.Context, id int) error
}

// PasswordHasher hashes and checks user passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenIssuer signs session tokens for a user id.
type TokenIssuer interface {
	Issue(userID int) (string, error)
}

// SignUpInput is the registration payload.
type SignUpInput struct {
	Username    string
	Email       string
	Password    string
	ProfilePic  string
	ChannelName string
	About       string
}

// UserService encapsulates account use-cases.
type UserService struct {
	repo   UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewUserService(repo UserRepository, hasher PasswordHasher, tokens TokenIssuer) *UserService {
	return &UserService{repo: repo, hasher: hasher, tokens: tokens}
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

// SignUp registers a new account. Username and email must both be unused.
func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (types.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return types.User{}, fmt.Errorf("%w: username, email and password are required", ErrInvalidInput)
	}

	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return types.User{}, err
	}
	if exists {
		return types.User{}, ErrDuplicateUser
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return types.User{}, err
	}

	user := types.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: digest,
		ProfilePic:   strings.TrimSpace(in.ProfilePic),
		ChannelName:  strings.TrimSpace(in.ChannelName),
		About:        strings.TrimSpace(in.About),
	}
	if user.ChannelName == "" {
		user.ChannelName = defaultChannelName
	}
	if user.About == "" {
		user.About = defaultAbout
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return types.User{}, ErrDuplicateUser
		}
		return types.User{}, err
	}
	created.PasswordHash = ""
	return created, nil
}

// SignIn checks the credentials of the user identified by username or email
// and issues a session token.
func (s *UserService) SignIn(ctx context.Context, login, password string) (types.User, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return types.User{}, "", fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	user, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, "", ErrInvalidCredentials
		}
		return types.User{}, "", err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return types.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return types.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	user.PasswordHash = ""
	return user, token, nil
}

// DeleteAccount removes the actor's account together with everything it owns.
// Tokens already issued to the account stop resolving to a user.
// TODO: publish video.deleted for the account's videos so the media cleaner
// also removes their thumbnails.
func (s *UserService) DeleteAccount(ctx context.Context, actor types.User) error {
	if actor.ID < 1 {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.repo.Delete(ctx, actor.ID)
}
