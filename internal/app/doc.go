// Package app is the composition root for snooze.
//
// Build loads the configuration and wires, in order: the file logger, the
// story API client, the credential store, the session manager, the story
// catalog and the reconciler. Run hands those to the TUI; List and Login
// serve the non-interactive command-line modes.
//
//	config.Load ─> logging.New ─> storyapi.NewClient
//	                                   │
//	          credstore.New ─> session.NewManager
//	                           catalog.New
//	                           reconcile.New ─> ui.Run
//
// Nothing polls in the background. The catalog is reloaded only when the
// user asks for it or after a story is created or deleted.
package app
