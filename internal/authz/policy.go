// Package authz holds the ownership rules shared by every mutating endpoint.
package authz

import (
	"errors"

	"github.com/tubeshare/apiserver/types"
)

var (
	// ErrForbidden is returned when an authenticated user mutates a
	// resource created by someone else.
	ErrForbidden = errors.New("forbidden")

	// ErrChannelExists is returned when a user already owns a channel.
	ErrChannelExists = errors.New("user already has a channel")
)

// Owned is a resource whose creator is fixed at creation time.
type Owned interface {
	OwnerID() int
}

// AuthorizeMutation permits the change only when identity created resource.
// Callers confirm the resource exists before asking.
func AuthorizeMutation(identity types.User, resource Owned) error {
	if identity.ID < 1 || resource == nil {
		return ErrForbidden
	}
	if resource.OwnerID() != identity.ID {
		return ErrForbidden
	}
	return nil
}

// EnsureSingleChannel enforces at most one channel per owner given the
// number of channels the owner already has.
func EnsureSingleChannel(existing int) error {
	if existing > 0 {
		return ErrChannelExists
	}
	return nil
}
