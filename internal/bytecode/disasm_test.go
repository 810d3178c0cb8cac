package bytecode

import (
	"os"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/go-ecma3/ecma3/internal/parser"
)

// TestDisassemblySnapshots compiles a handful of representative programs and
// snapshots their listings, so a change to compileTryCatch/compileForIn/
// compileBreakContinue's emitted opcode sequence is caught even when no
// individual instruction-level assertion would have noticed it.
func TestDisassemblySnapshots(t *testing.T) {
	cases := map[string]string{
		"with_statement": `with (obj) { x = 1; }`,
		"try_catch": `
			try {
				throw "boom";
			} catch (e) {
				print(e);
			}
		`,
		"try_catch_finally": `
			try {
				throw "boom";
			} catch (e) {
				print(e);
			} finally {
				cleanup();
			}
		`,
		"for_in": `for (var k in obj) { print(k); }`,
		"labeled_continue": `
			outer: while (x) {
				inner: while (y) {
					continue outer;
				}
			}
		`,
	}

	for name, src := range cases {
		src := src
		t.Run(name, func(t *testing.T) {
			prog, errs := parser.Parse(src, "<snapshot>")
			if len(errs) > 0 {
				t.Fatalf("parse errors: %v", errs)
			}
			chunk := Compile(prog)
			var buf strings.Builder
			Disassemble(chunk, name, &buf)
			snaps.MatchSnapshot(t, buf.String())
		})
	}
}

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}
