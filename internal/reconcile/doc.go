// Package reconcile keeps the session's favorite and ownership sets
// consistent with the story catalog.
//
// Display state is derived, never stored: Classify computes a story's
// variant from the current session on every call, so a row rendered after a
// toggle always reflects the latest set. Membership is by story id, which
// makes stories fetched at different times compare equal.
//
// ToggleFavorite checks that the story is in the current catalog snapshot,
// rejects a second toggle for the same story while the first is pending, and
// applies the result to the local favorite set only after the service
// confirms it. AfterMutation reloads both the catalog and the session after a
// create or delete, so a deleted story disappears from the favorites and a
// new story appears among the user's own stories.
package reconcile
