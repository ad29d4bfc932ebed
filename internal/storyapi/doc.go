// Package storyapi provides an HTTP client for the story service API.
//
// # Overview
//
// The service owns users, stories and per-user favorites. This package maps
// its JSON endpoints onto typed Go calls and its error responses onto sentinel
// errors. It keeps no state between calls; every method is one round trip.
//
// # Endpoints
//
//   - POST /login, POST /signup: exchange credentials for a token and user
//   - GET /users/{username}?token=: profile with favorites and own stories
//   - GET /stories: the full story list, newest first
//   - POST /stories, DELETE /stories/{id}?token=: create and remove stories
//   - POST, DELETE /users/{username}/favorites/{id}: add and remove favorites
//
// # Error Handling
//
// Non-2xx responses become *APIError, which unwraps to one of:
//
//   - ErrValidation: 400 or 422
//   - ErrAuth: 401, bad credentials or an invalid token
//   - ErrNotOwner: 403, deleting somebody else's story
//   - ErrNotFound: 404
//   - ErrConflict: 409, username already taken
//
// Transport failures wrap ErrNetwork. Nothing is retried here; callers decide
// how to surface a failure.
//
// # Usage
//
//	client, err := storyapi.NewClient("https://hack-or-snooze-v3.herokuapp.com")
//	if err != nil {
//		return err
//	}
//	stories, err := client.GetStories(ctx)
//	if errors.Is(err, storyapi.ErrNetwork) {
//		// offline
//	}
package storyapi
