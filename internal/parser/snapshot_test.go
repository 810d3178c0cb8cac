package parser

import (
	"fmt"
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestASTSnapshots golden-tests the parsed shape of a handful of
// representative programs, the same way cmd/ecma3 parse's `%#v` dump is
// meant to be inspected, so a grammar regression shows up as a snapshot
// diff rather than only as a downstream compiler/VM failure.
func TestASTSnapshots(t *testing.T) {
	cases := map[string]string{
		"var_and_function": `
			var x = 1;
			function add(a, b) { return a + b; }
			add(x, 2);
		`,
		"labeled_loops": `
			outer: for (var i = 0; i < 3; i++) {
				inner: while (i < 2) {
					continue outer;
				}
			}
		`,
		"try_catch_finally": `
			try {
				throw { code: 1 };
			} catch (e) {
				print(e);
			} finally {
				cleanup();
			}
		`,
	}

	for name, src := range cases {
		src := src
		t.Run(name, func(t *testing.T) {
			prog, errs := Parse(src, "<snapshot>")
			if len(errs) > 0 {
				t.Fatalf("parse errors: %v", errs)
			}
			snaps.MatchSnapshot(t, fmt.Sprintf("%#v", prog))
		})
	}
}

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}
