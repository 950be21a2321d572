// Package inspector serves a read-only debugging view of a store over HTTP.
//
// Routes:
//
//	GET /state          current root and revision as JSON
//	GET /state/{path}   value at a path ("$.todos[0]" or "todos.0")
//	GET /ws             websocket stream of snapshots
//
// The websocket sends a snapshot frame when a client connects and another
// after each store notification. Bursts of notifications are coalesced:
// clients always receive the newest root, never a backlog, and no more
// than the configured rate.
//
// The inspector never writes to the store.
//
//	insp := inspector.New(s, inspector.WithMaxRate(20))
//	defer insp.Close()
//	http.ListenAndServe(":7070", insp.Handler())
package inspector
