package thirdvm

import (
	"io"
	"strings"
)

// lineEndingReader rewrites every '\n' byte to '\r' as it is read, so that
// input written with plain Unix line endings drives the VM's line-complete
// signal the same way a terminal's '\r' does. A "\r\n" pair still yields a
// single line-complete signal: the '\r' sets it, and the following
// '\n'-turned-'\r' is just whitespace consumed by the next scanWord.
type lineEndingReader struct {
	io.Reader
}

func (r lineEndingReader) Read(p []byte) (int, error) {
	n, err := r.Reader.Read(p)
	for i := 0; i < n; i++ {
		if p[i] == '\n' {
			p[i] = '\r'
		}
	}
	return n, err
}

// Name forwards the wrapped reader's name, if any, so fileinput's
// diagnostics still report the original source name.
func (r lineEndingReader) Name() string {
	if nom, ok := r.Reader.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return "<input>"
}

// squashReader flattens both line-ending bytes to spaces, so the wrapped
// source contributes no line-complete signal of its own.
type squashReader struct {
	io.Reader
}

func (r squashReader) Read(p []byte) (int, error) {
	n, err := r.Reader.Read(p)
	for i := 0; i < n; i++ {
		if p[i] == '\r' || p[i] == '\n' {
			p[i] = ' '
		}
	}
	return n, err
}

// preludeReader is a squashReader followed by a single trailing '\r', per
// spec.md §6: "carriage returns in the prelude are normalised to spaces; a
// single carriage return is appended between the prelude and the
// interactive stream to terminate any trailing unterminated line." This
// keeps prelude loading silent (no per-definition "ok" prompt) while still
// flushing exactly once at the prelude/interactive boundary.
type preludeReader struct {
	io.Reader
	name string
}

func newPreludeReader(r io.Reader, name string) preludeReader {
	return preludeReader{
		Reader: io.MultiReader(squashReader{r}, strings.NewReader("\r")),
		name:   name,
	}
}

func (p preludeReader) Name() string { return p.name }
