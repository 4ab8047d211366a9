package thirdvm

import (
	"io"

	"github.com/jcorbin/thirdvm/internal/fileinput"
	"github.com/jcorbin/thirdvm/internal/flushio"
)

// Option configures a VM at construction time.
type Option func(vm *VM)

// WithInput queues r as an interactive-style byte source, read after any
// sources already queued. Its line endings are normalized to '\r' (the
// VM's sole line-complete signal, per spec.md §6) so ordinary Unix text --
// a piped script, a test fixture, a real terminal line -- reports " ok"
// per line the way spec.md §8's scenarios expect. Call once per source, in
// the order they should be consumed.
func WithInput(r io.Reader) Option {
	return queue(func(r io.Reader) io.Reader { return lineEndingReader{r} }, r)
}

// WithPrelude queues r as the prelude source: its own line endings are
// squashed to spaces rather than treated as line-complete signals (so
// loading it produces no per-definition "ok" prompt), with a single
// trailing '\r' appended to terminate any unterminated final line before
// whatever source is queued next, per spec.md §6.
func WithPrelude(r io.Reader, name string) Option {
	return queue(func(r io.Reader) io.Reader { return newPreludeReader(r, name) }, r)
}

func queue(wrap func(io.Reader) io.Reader, r io.Reader) Option {
	return func(vm *VM) {
		if vm.in == nil {
			vm.in = &fileinput.Input{}
		}
		vm.in.Queue = append(vm.in.Queue, wrap(r))
	}
}

// WithOutput sets the writer `emit` and `prompt` write to.
func WithOutput(w io.Writer) Option {
	return func(vm *VM) {
		vm.out = flushio.NewWriteFlusher(w)
	}
}

// WithTrace installs a per-step hook, called before each instruction
// fetch; used by cmd/thirdvm's --verbose flag.
func WithTrace(trace func(vm *VM)) Option {
	return func(vm *VM) { vm.trace = trace }
}
