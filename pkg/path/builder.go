package path

// Builder is the traversal-recording handle handed to write selectors in
// place of the real state. The zero Builder stands for the root.
//
// Builder values are immutable: Get and At return a new Builder and leave
// the receiver untouched, so one Builder may be branched freely.
type Builder struct {
	keys Path
}

// Selector is a path-shaped selector used to locate a write target.
type Selector func(Builder) Builder

// Get records a property access. Numeric-looking names are normalized to
// index keys, so b.Get("0") and b.At(0) record the same key.
func (b Builder) Get(name string) Builder {
	return Builder{keys: b.keys.Append(Normalize(name))}
}

// At records an index access. It panics if i is negative.
func (b Builder) At(i int) Builder {
	return Builder{keys: b.keys.Append(Index(i))}
}

// Key records an arbitrary key as is.
func (b Builder) Key(k Key) Builder {
	return Builder{keys: b.keys.Append(k)}
}

// Of returns the path recorded by b.
func Of(b Builder) Path {
	return b.keys.Clone()
}

// Infer runs sel against a fresh root Builder and returns the path it
// walked. A nil selector addresses the root.
func Infer(sel Selector) Path {
	if sel == nil {
		return Path{}
	}
	p := Of(sel(Builder{}))
	if p == nil {
		return Path{}
	}
	return p
}
