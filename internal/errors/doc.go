// Package errors provides coded, human-readable errors for freedux.
//
// Every failure that reaches a user is described by a FreeduxError carrying
// a stable code:
//
//	F001  write targets an unreachable path
//	F002  written value does not fit the target slot
//	F003  no store bound to the context
//	F004  invalid path expression
//	F005  state file could not be loaded
//	F006  invalid configuration
//
// Errors compare by code, so errors.Is(err, New(CodeUnreachablePath)) holds
// for any F001 regardless of its path or wrapped cause.
//
// # Usage
//
//	err := errors.New(errors.CodeUnreachablePath).
//	    WithPath("$.a.b.c").
//	    WithSuggestion("Initialise $.a.b before writing below it")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR F001: Write to an unreachable path
//	//
//	//   at $.a.b.c
//	//
//	//   An intermediate value on the path is missing or is not a map,
//	//   slice, array or struct. The write was dropped.
//	//
//	//   Hint: Initialise $.a.b before writing below it
package errors
