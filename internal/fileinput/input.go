// Package fileinput implements the byte source the VM reads from: a queue
// of io.Reader sources consumed in order (the prelude, then the
// interactive stream), with per-line location tracking for diagnostics.
package fileinput

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Location names a line in an input source.
type Location struct {
	Name string
	Line int
}

// Line combines a Location along with the bytes scanned so far on it.
type Line struct {
	Location
	bytes.Buffer
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }
func (il Line) String() string      { return fmt.Sprintf("%v %q", il.Location, il.Buffer.String()) }

// Input implements sequential byte reading through a Queue of one or more
// input sources. Both the current and last scanned lines are tracked to
// facilitate user-facing diagnostics (error messages, --verbose tracing).
//
// Bytes are delivered verbatim -- Input does no ASCII filtering of its own;
// that is left to callers such as the number parser and dictionary lookup.
type Input struct {
	br    *bufio.Reader
	Queue []io.Reader
	Last  Line
	Scan  Line
}

// ReadByte reads one byte from the current input source, appending it into
// the current Scan line, and rolling Scan over to Last after a line feed.
// When the current source is exhausted, the next source in Queue is opened
// automatically; io.EOF is only returned once Queue is drained.
func (in *Input) ReadByte() (byte, error) {
	if in.br == nil && !in.nextIn() {
		return 0, io.EOF
	}

	b, err := in.br.ReadByte()
	if err == nil {
		if b == '\n' {
			in.nextLine()
		} else {
			in.Scan.WriteByte(b)
		}
		return b, nil
	}

	if err == io.EOF && in.nextIn() {
		return in.ReadByte()
	}
	return 0, err
}

func (in *Input) nextLine() {
	in.Last.Reset()
	in.Last.Name = in.Scan.Name
	in.Last.Line = in.Scan.Line
	in.Last.Write(in.Scan.Bytes())
	in.Scan.Reset()
	in.Scan.Line++
}

func (in *Input) nextIn() bool {
	in.nextLine()
	in.br = nil
	if len(in.Queue) > 0 {
		r := in.Queue[0]
		in.Queue = in.Queue[1:]
		in.br = bufio.NewReader(r)
		in.Scan.Name = nameOf(r)
		in.Scan.Line = 1
	}
	return in.br != nil
}

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}
