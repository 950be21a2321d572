// Package path records where a selector goes inside a state tree.
//
// A write selector is a function over a Builder rather than over the real
// state. Every Get or At call on a Builder returns a new Builder that
// remembers one more key, so running the selector once against an empty
// Builder yields the key sequence it walked:
//
//	p := path.Infer(func(b path.Builder) path.Builder {
//	    return b.Get("a").Get("a1").Get("a11")
//	})
//	fmt.Println(p) // $.a.a1.a11
//
// The recorded keys are not visible through any Builder method; use Of to
// extract them. Selectors must be path-shaped: an unconditional chain of
// accesses with no branching on data.
//
// Paths can also be written as text with Parse, which accepts singular
// JSONPath queries ("$.items[0].name") and plain dotted keys ("items.0.name").
package path
