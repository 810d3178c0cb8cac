package lexer

import (
	"bufio"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// BadChar is the sentinel rune yielded for an undecodable byte sequence
//.
const BadChar rune = utf8.RuneError

// Input is an abstract lazy sequence of Unicode code points with one-unit
// lookahead, an EOF flag, a filename, and a starting line number. Lexer is
// built on top of any Input.
type Input interface {
	// Next consumes and returns the next code point, or (0, true) at EOF.
	Next() (r rune, eof bool)
	// Name is the input's filename, or "" for anonymous/in-memory sources.
	Name() string
	// StartLine is the 1-based line number of the first character.
	StartLine() int
}

// stringInput is the concrete Input over an in-memory source string, used
// when evaluating a string of source text directly rather than a file.
type stringInput struct {
	s         string
	pos       int
	name      string
	startLine int
	unsafeUTF8 bool
}

// NewStringInput wraps an in-memory source string as an Input. This is the
// common case for Eval() and for compiling inline snippets.
func NewStringInput(s, name string) Input {
	return &stringInput{s: s, name: name, startLine: 1}
}

func (in *stringInput) Name() string    { return in.name }
func (in *stringInput) StartLine() int  { return in.startLine }

func (in *stringInput) Next() (rune, bool) {
	if in.pos >= len(in.s) {
		return 0, true
	}
	r, size := utf8.DecodeRuneInString(in.s[in.pos:])
	if r == utf8.RuneError && size <= 1 && !in.unsafeUTF8 {
		// Invalid or non-shortest-form sequence: yield BadChar and skip one
		// byte. With unsafeUTF8 set the path below yields the same
		// RuneError (== BadChar) and also advances one byte.
		in.pos++
		return BadChar, false
	}
	in.pos += size
	return r, false
}

// WithUnsafeUTF8 sets the UTF_UNSAFE compatibility flag on a string Input;
// any other Input is returned unchanged. Go's UTF-8 decoder rejects
// non-shortest-form sequences on its own, so the flag does not change what
// Next returns: such sequences yield BadChar whether or not it is set.
func WithUnsafeUTF8(in Input, unsafe bool) Input {
	if s, ok := in.(*stringInput); ok {
		s.unsafeUTF8 = unsafe
	}
	return in
}

// fileInput decodes an underlying byte stream after BOM sniffing
// (UCS-4BE/LE, UTF-16BE/LE, UTF-8, default 7-bit ASCII). UCS-4 (32-bit)
// BOMs are sniffed and stripped, but the bytes after them are decoded as
// UTF-8, since golang.org/x/text has no UCS-4 decoder.
type fileInput struct {
	r         *bufio.Reader
	name      string
	startLine int
}

// NewFileInput builds an Input over r, sniffing a leading byte-order mark
// to choose a decoder. name is used for error messages and tracebacks.
func NewFileInput(r io.Reader, name string) (Input, error) {
	br := bufio.NewReaderSize(r, 4096)
	peek, _ := br.Peek(4)

	switch {
	case hasPrefix(peek, 0xEF, 0xBB, 0xBF):
		must(br.Discard(3))
	case hasPrefix(peek, 0x00, 0x00, 0xFE, 0xFF), hasPrefix(peek, 0xFF, 0xFE, 0x00, 0x00):
		// UCS-4 BOM detected (checked before UTF-16LE, whose BOM is a
		// prefix of UCS-4LE's): strip it and fall through to UTF-8
		// decoding of the remaining bytes (see the doc comment above).
		must(br.Discard(4))
	case hasPrefix(peek, 0xFE, 0xFF):
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		return &fileInput{r: bufio.NewReader(transform.NewReader(br, dec)), name: name, startLine: 1}, nil
	case hasPrefix(peek, 0xFF, 0xFE):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		return &fileInput{r: bufio.NewReader(transform.NewReader(br, dec)), name: name, startLine: 1}, nil
	}
	return &fileInput{r: br, name: name, startLine: 1}, nil
}

func hasPrefix(b []byte, prefix ...byte) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if b[i] != p {
			return false
		}
	}
	return true
}

func must(_ int, err error) {
	if err != nil && err != io.EOF {
		panic(fmt.Errorf("lexer: input error: %w", err))
	}
}

func (in *fileInput) Name() string   { return in.name }
func (in *fileInput) StartLine() int { return in.startLine }

func (in *fileInput) Next() (rune, bool) {
	r, _, err := in.r.ReadRune()
	if err != nil {
		return 0, true
	}
	if r == utf8.RuneError {
		return BadChar, false
	}
	return r, false
}
