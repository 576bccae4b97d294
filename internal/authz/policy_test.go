package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubeshare/apiserver/types"
)

func TestAuthorizeMutation(t *testing.T) {
	alice := types.User{ID: 1, Username: "alice"}
	bob := types.User{ID: 2, Username: "bob"}

	resources := map[string]Owned{
		"comment": types.Comment{ID: 10, UserID: alice.ID},
		"video":   types.Video{ID: 11, UserID: alice.ID},
		"channel": types.Channel{ID: 12, OwnerUserID: alice.ID},
	}

	for name, resource := range resources {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, AuthorizeMutation(alice, resource))
			assert.ErrorIs(t, AuthorizeMutation(bob, resource), ErrForbidden)
		})
	}
}

func TestAuthorizeMutationRejectsAnonymous(t *testing.T) {
	assert.ErrorIs(t, AuthorizeMutation(types.User{}, types.Comment{UserID: 0}), ErrForbidden)
	assert.ErrorIs(t, AuthorizeMutation(types.User{ID: 1}, nil), ErrForbidden)
}

func TestEnsureSingleChannel(t *testing.T) {
	assert.NoError(t, EnsureSingleChannel(0))
	assert.ErrorIs(t, EnsureSingleChannel(1), ErrChannelExists)
}
