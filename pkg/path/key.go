package path

import (
	"strconv"
	"strings"
)

// Key is one accessor in a Path: either a property name or a non-negative
// array index.
type Key struct {
	name    string
	index   int
	isIndex bool
}

// Name returns a property-name key. The name is kept verbatim; use Normalize
// to turn numeric-looking names into indexes.
func Name(name string) Key {
	return Key{name: name}
}

// Index returns an index key. It panics if i is negative.
func Index(i int) Key {
	if i < 0 {
		panic("path: negative index " + strconv.Itoa(i))
	}
	return Key{index: i, isIndex: true}
}

// Normalize converts a property name to a Key. Canonical non-negative
// decimal integers ("0", "12") become index keys; everything else,
// including "01" and "-1", stays a name.
func Normalize(name string) Key {
	if n, err := strconv.Atoi(name); err == nil && n >= 0 && strconv.Itoa(n) == name {
		return Index(n)
	}
	return Name(name)
}

// IsIndex reports whether k is an index key.
func (k Key) IsIndex() bool { return k.isIndex }

// Name returns the property name of a name key, or the decimal form of an
// index key.
func (k Key) Name() string {
	if k.isIndex {
		return strconv.Itoa(k.index)
	}
	return k.name
}

// Index returns the index of an index key and -1 for a name key.
func (k Key) Index() int {
	if !k.isIndex {
		return -1
	}
	return k.index
}

// String returns k as it would appear in a dotted path.
func (k Key) String() string { return k.Name() }

// Path is an ordered key sequence from the root of a state tree to one of
// its values. The empty Path addresses the root itself.
type Path []Key

// Append returns a new Path with keys added. The receiver's backing array is
// never shared with the result.
func (p Path) Append(keys ...Key) Path {
	out := make(Path, 0, len(p)+len(keys))
	out = append(out, p...)
	return append(out, keys...)
}

// Clone returns a copy of p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	return append(Path(nil), p...)
}

// Equal reports whether p and q hold the same keys in the same order.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether q is a prefix of p.
func (p Path) HasPrefix(q Path) bool {
	return len(q) <= len(p) && p[:len(q)].Equal(q)
}

// String renders p as a normalized JSONPath query, e.g. $.a.b[0]['x y'].
// Names that are not plain identifiers are bracket-quoted.
func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, k := range p {
		switch {
		case k.isIndex:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(k.index))
			b.WriteByte(']')
		case isIdentifier(k.name):
			b.WriteByte('.')
			b.WriteString(k.name)
		default:
			b.WriteString("['")
			b.WriteString(strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(k.name))
			b.WriteString("']")
		}
	}
	return b.String()
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
