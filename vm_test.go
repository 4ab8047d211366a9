package thirdvm

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runScript(t *testing.T, withPrelude bool, script string) string {
	t.Helper()
	var out bytes.Buffer
	opts := []Option{WithOutput(&out)}
	if withPrelude {
		opts = append(opts, WithPrelude(bytesReader(Prelude), "<prelude>"))
	}
	// prompt reports a completed line at the top of the next quit-loop
	// iteration, so the appended newline is what makes the final line's
	// report appear before EOF; the trailing `0 drop` is harmless extra
	// input (scanning `drop` hits EOF, which ends the run).
	opts = append(opts, WithInput(bytesReader(script+"\n 0 drop")))

	vm, err := New(opts...)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, vm.Run(ctx))
	return out.String()
}

type bytesReaderType struct{ *bytes.Reader }

func bytesReader(s string) bytesReaderType { return bytesReaderType{bytes.NewReader([]byte(s))} }
func (bytesReaderType) Name() string       { return "<test>" }

func TestArithmeticAndPrompt(t *testing.T) {
	out := runScript(t, false, "3 4 +")
	assert.Contains(t, out, " ok")
}

func TestDotPrintsValue(t *testing.T) {
	out := runScript(t, true, "3 4 + .")
	assert.Contains(t, out, "7")
}

func TestColonDefinitionAndCall(t *testing.T) {
	out := runScript(t, true, ": double dup + ; 21 double .")
	assert.Contains(t, out, "42")
}

func TestUnknownWordReportsError(t *testing.T) {
	out := runScript(t, false, "frobnicate")
	assert.Contains(t, out, "unknown word frobnicate")
}

func TestIfElseThen(t *testing.T) {
	out := runScript(t, true, ": sign dup 0 < if drop 45 else drop 43 then emit ; 5 sign -5 sign")
	// the prelude/interactive boundary reports " ok\n>" before any output
	assert.Equal(t, " ok\n>+-", out[:7])
}

func TestBeginUntilLoop(t *testing.T) {
	out := runScript(t, true, ": count 0 begin 1+ dup . dup 3 = until drop ; count")
	assert.Contains(t, out, "1")
	assert.Contains(t, out, "2")
	assert.Contains(t, out, "3")
}

func TestVariableStoreFetch(t *testing.T) {
	out := runScript(t, true, "variable x 99 x ! x @ .")
	assert.Contains(t, out, "99")
}

func TestConstant(t *testing.T) {
	out := runScript(t, true, "42 constant answer answer .")
	assert.Contains(t, out, "42")
}

func TestDivisionByZeroTraps(t *testing.T) {
	out := runScript(t, false, "1 0 /mod")
	assert.Contains(t, out, "division by zero")
}

func TestRecurse(t *testing.T) {
	out := runScript(t, true, ": fact dup 1 > if dup 1- recurse * then ; 5 fact .")
	assert.Contains(t, out, "120")
}
