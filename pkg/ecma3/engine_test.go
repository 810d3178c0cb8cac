package ecma3

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalPrintsOutput(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	res, err := e.Eval(`println('Hello, World!');`)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "Hello, World!\n", res.Output)
}

func TestEvalReturnsExpressionValue(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	res, err := e.Eval(`1 + 2;`)
	require.NoError(t, err)
	assert.Equal(t, "3", res.Value)
}

func TestVariablesPersistAcrossRuns(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	_, err = e.Eval(`var count = 0;`)
	require.NoError(t, err)
	_, err = e.Eval(`count = count + 1;`)
	require.NoError(t, err)
	res, err := e.Eval(`count;`)
	require.NoError(t, err)
	assert.Equal(t, "1", res.Value)
}

func TestParseReportsCompileError(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	_, err = e.Parse(`var = ;`)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "parsing", ce.Stage)
	assert.NotEmpty(t, ce.Errors)
}

func TestUncaughtThrowReportsScriptError(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	_, err = e.Eval(`throw new TypeError("boom");`)
	require.Error(t, err)
	var se *ScriptError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "TypeError", se.Name)
	assert.Equal(t, "boom", se.Message)
}

func TestWithOutputMirrorsPrintedText(t *testing.T) {
	var buf bytes.Buffer
	e, err := New(WithOutput(&buf))
	require.NoError(t, err)
	_, err = e.Eval(`print('mirrored');`)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "mirrored")
}

func TestRegisterFunctionCallableFromScript(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	require.NoError(t, e.RegisterFunction("twice", func(n float64) float64 { return n * 2 }))
	res, err := e.Eval(`twice(21);`)
	require.NoError(t, err)
	assert.Equal(t, "42", res.Value)
}

func TestRegisterFunctionRejectsDuplicateName(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	require.NoError(t, e.RegisterFunction("fn", func() {}))
	assert.Error(t, e.RegisterFunction("fn", func() {}))
}

func TestRegisterFunctionRejectsUnsupportedType(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	assert.Error(t, e.RegisterFunction("chanFn", func(c chan int) {}))
}

func TestEvalReentersEnclosingScopeChain(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	res, err := e.Eval(`
		var x = 1;
		function bump() {
			var x = 41;
			eval("x = x + 1;");
			return x;
		}
		bump();
	`)
	require.NoError(t, err)
	assert.Equal(t, "42", res.Value)
}
