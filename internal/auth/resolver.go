package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/tubeshare/apiserver/internal/store"
	"github.com/tubeshare/apiserver/types"
)

// ErrUnauthenticated is returned when a request identity cannot be established.
var ErrUnauthenticated = errors.New("unauthenticated")

// UserFinder loads users by id.
type UserFinder interface {
	GetByID(ctx context.Context, id int) (types.User, error)
}

// IdentityResolver maps a verified user id to a live user record.
type IdentityResolver struct {
	users UserFinder
}

func NewIdentityResolver(users UserFinder) *IdentityResolver {
	return &IdentityResolver{users: users}
}

// Resolve loads the user without its password hash. A user that no longer
// exists yields ErrUnauthenticated, the same class as a forged token.
func (r *IdentityResolver) Resolve(ctx context.Context, userID int) (types.User, error) {
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, fmt.Errorf("%w: user %d not found", ErrUnauthenticated, userID)
		}
		return types.User{}, fmt.Errorf("resolve user %d: %w", userID, err)
	}
	user.PasswordHash = ""
	return user, nil
}
