// Package storectx makes a store available to code deep in a call tree
// without threading it through every signature.
//
// Stores ride on context.Context under a typed Key. There is no fallback
// store: asking a context that was never given one is an error, so a
// forgotten binding shows up at the first read instead of as a silently
// empty state.
//
// Usage:
//
//	// Define the key once
//	var AppStore = storectx.Create[AppState]("app")
//
//	// Bind at the top of the tree
//	ctx = AppStore.With(ctx, store.New(AppState{}))
//
//	// Use anywhere below
//	func Header(ctx context.Context) string {
//	    s := AppStore.Must(ctx)
//	    return store.Select(s, func(st AppState) string { return st.User.Name })
//	}
package storectx
