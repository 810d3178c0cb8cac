package bytecode

import (
	"regexp"
	"strings"
)

// RegexEngine is the swappable backend OpRegexp/RegExp.prototype.exec
// consult to turn an ed.3 §15.10 pattern/flags pair into something that can
// match against a subject string. The VM ships defaultRegexEngine, which
// delegates to Go's RE2-based regexp package (case-insensitive/multiline
// mapped onto RE2's own inline flags; for any construct RE2 rejects,
// Compile returns RE2's error and no CompiledRegex). An embedder wanting true ed.3 backtracking semantics (backrefs,
// lookahead) supplies its own RegexEngine instead — see DESIGN.md.
type RegexEngine interface {
	// Compile parses pattern under flags and returns a matcher; its
	// capture count and flags are read back through the CompiledRegex's
	// NumCaptures and Flags (defaultRegexEngine's Flags returns the flag
	// string exactly as it was given).
	Compile(pattern, flags string) (CompiledRegex, error)
}

// CompiledRegex is one compiled pattern, ready to match repeatedly.
type CompiledRegex interface {
	// Match reports whether the pattern matches anywhere in s.
	Match(s string) bool
	// Find returns the byte offsets of the overall match followed by each
	// capturing group's, flattened pairwise (Go's regexp.FindStringSubmatchIndex
	// shape), or nil if s does not match.
	Find(s string) []int
	// NumCaptures reports the pattern's capturing-group count, not
	// counting the whole-match group 0.
	NumCaptures() int
	Flags() string
}

// defaultRegexEngine is the RE2-backed RegexEngine every VM starts with.
type defaultRegexEngine struct{}

func (defaultRegexEngine) Compile(pattern, flags string) (CompiledRegex, error) {
	var inline string
	if strings.Contains(flags, "i") {
		inline += "i"
	}
	if strings.Contains(flags, "m") {
		inline += "m"
	}
	src := pattern
	if inline != "" {
		src = "(?" + inline + ")" + pattern
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, err
	}
	return &goRegex{re: re, flags: flags}, nil
}

type goRegex struct {
	re    *regexp.Regexp
	flags string
}

func (g *goRegex) Match(s string) bool { return g.re.MatchString(s) }
func (g *goRegex) Find(s string) []int { return g.re.FindStringSubmatchIndex(s) }
func (g *goRegex) NumCaptures() int    { return g.re.NumSubexp() }
func (g *goRegex) Flags() string       { return g.flags }
