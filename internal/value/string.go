package value

import "sync"

// Str is an immutable UTF-16 code-unit sequence, optionally interned. The
// content is stored as a Go string (UTF-8) internally for convenience;
// Len counts UTF-16 code units rather than bytes or code points.
type Str struct {
	data     string
	interned bool
	sealed   bool
}

// NewString creates a fresh, non-interned, sealed string. This is the
// ordinary constructor used by string-producing bytecode operations
// (concatenation, ToString, literal tables).
func NewString(s string) *Str {
	return &Str{data: s, sealed: true}
}

// Value returns the string's UTF-8 content.
func (s *Str) Value() string { return s.data }

// IsInterned reports whether s is a canonical, globally-unique-by-content
// string.
func (s *Str) IsInterned() bool { return s.interned }

// internTable is the global, append-only shared map of interned strings.
// It is never frozen or torn down: Go's garbage collector makes manual
// lifetime management moot here (nothing ever needs to be freed out from
// under a live interpreter), so this implementation
// keeps the table open for the process lifetime rather than modeling an
// explicit freeze step; see DESIGN.md.
var (
	internMu    sync.RWMutex
	internTable = map[string]*Str{}
)

// Intern returns the canonical *Str equal to s by content; repeated calls
// with equal content return the identical pointer, so equality reduces to
// pointer equality. Used for property names and identifiers,
// which are compared far more often than they are created.
func Intern(s string) *Str {
	internMu.RLock()
	if v, ok := internTable[s]; ok {
		internMu.RUnlock()
		return v
	}
	internMu.RUnlock()

	internMu.Lock()
	defer internMu.Unlock()
	if v, ok := internTable[s]; ok {
		return v
	}
	v := &Str{data: s, interned: true, sealed: true}
	internTable[s] = v
	return v
}

// Builder grows a string during its construction phase; once built via
// Seal, the result participates as an ordinary sealed Str: appendable
// only until sealed, immutable afterward.
type Builder struct {
	buf    []byte
	sealed bool
}

func (b *Builder) WriteString(s string) {
	if b.sealed {
		panic("value: write to sealed string builder")
	}
	b.buf = append(b.buf, s...)
}

// Seal finalizes the builder and returns the resulting immutable string.
// Calling Seal more than once, or writing after Seal, panics.
func (b *Builder) Seal() *Str {
	if b.sealed {
		panic("value: string builder sealed twice")
	}
	b.sealed = true
	return &Str{data: string(b.buf), sealed: true}
}

// Equal compares two strings' content (never identity) — used by the
// abstract/strict equality algorithms before falling back to pointer
// comparison for the interned fast path.
func (s *Str) Equal(o *Str) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil {
		return false
	}
	return s.data == o.data
}

// Less compares the stored UTF-8 bytes, which orders strings by code
// point; this differs from UTF-16 code-unit order only when a character
// above U+FFFF is compared with one in U+E000..U+FFFF.
func (s *Str) Less(o *Str) bool { return s.data < o.data }

// Len reports the length in UTF-16 code units: a character above U+FFFF
// counts twice, as a surrogate pair.
func (s *Str) Len() int {
	n := 0
	for _, r := range s.data {
		n++
		if r > 0xFFFF {
			n++
		}
	}
	return n
}
