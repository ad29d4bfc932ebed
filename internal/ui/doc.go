// Package ui implements the snooze terminal interface with Bubble Tea.
//
// The Model holds the current session (nil while anonymous) and the last
// loaded catalog. Display state is never cached: every render reclassifies
// the visible stories from the session's favorite and owned sets, so a
// confirmed toggle, login or refresh shows up on the next frame.
//
// Backend calls run as tea.Cmd closures and report back with typed messages.
// A failed call only sets the status line; session and catalog stay as they
// were. Favorite toggles are tracked per story so a second press while the
// first is in flight is refused.
//
// # Views
//
//   - All Stories: the catalog in server order (a reloads it)
//   - Favorites: the user's favorite records; stories deleted since are
//     listed as removed
//   - My Stories: stories the user submitted
//
// A star marks favorites and a cross marks stories the user may delete. The
// two are independent, so an owned favorite shows both.
package ui
