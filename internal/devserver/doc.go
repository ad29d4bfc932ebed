// Package devserver is an in-memory implementation of the story service.
//
// It speaks the same JSON envelopes as the public service so the client
// packages can be exercised end to end through httptest, and so the TUI can
// be run against a local backend with cmd/snooze-devserver.
//
// Passwords are stored as bcrypt hashes and tokens are HS256 JWTs carrying
// the username. State lives only in memory and is lost on restart. Stories
// are listed newest first; deleting a story also removes it from every
// user's favorites.
package devserver
