package ui

import (
	"errors"

	"github.com/five82/snooze/internal/catalog"
	"github.com/five82/snooze/internal/reconcile"
	"github.com/five82/snooze/internal/storyapi"
)

// describeError turns a backend error into a short status message.
func describeError(err error) string {
	var verr *catalog.ValidationError
	var apiErr *storyapi.APIError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, reconcile.ErrToggleInFlight):
		return "Favorite update already in progress"
	case errors.Is(err, reconcile.ErrUnknownStory):
		return "Story is not in the current list; press r to refresh"
	case errors.Is(err, catalog.ErrAnonymous):
		return "Log in first"
	case errors.Is(err, storyapi.ErrNetwork):
		return "Service unreachable"
	case errors.Is(err, storyapi.ErrAuth):
		return "Invalid username, password or token"
	case errors.Is(err, storyapi.ErrConflict):
		return "That username is already taken"
	case errors.Is(err, storyapi.ErrNotOwner):
		return "You can only delete your own stories"
	case errors.Is(err, storyapi.ErrNotFound):
		return "Story no longer exists; press r to refresh"
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	default:
		return err.Error()
	}
}
