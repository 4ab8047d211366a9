package thirdvm

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineEndingReaderRewritesNewlines(t *testing.T) {
	r := lineEndingReader{strings.NewReader("3 4 +\n5 6 +\n")}
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "3 4 +\r5 6 +\r", string(b))
}

func TestSquashReaderFlattensLineEndings(t *testing.T) {
	r := squashReader{strings.NewReader(": x dup + ;\r\n: y 1+ ;\n")}
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, ": x dup + ;  : y 1+ ; ", string(b))
}

func TestPreludeReaderAppendsTrailingCR(t *testing.T) {
	r := newPreludeReader(strings.NewReader(": x dup + ;\n"), "prelude.f")
	assert.Equal(t, "prelude.f", r.Name())

	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, ": x dup + ; \r", string(b))
}
