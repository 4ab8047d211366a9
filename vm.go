// Package thirdvm implements a Forth-family byte-threaded virtual machine:
// a linear, monotonically-growing Image holds both dictionary and compiled
// code, a pair of 32-bit stacks drive execution, and a single-threaded step
// loop dispatches opcodes until the input source is exhausted.
package thirdvm

import (
	"context"
	"errors"
	"io"

	"github.com/jcorbin/thirdvm/internal/fileinput"
	"github.com/jcorbin/thirdvm/internal/flushio"
	"github.com/jcorbin/thirdvm/internal/panicerr"
)

// VM is one interpreter instance: its image, stacks, and the byte source
// and sink it was built with. A VM is not safe for concurrent use; callers
// coordinate around Run with a context the way cmd/thirdvm does.
type VM struct {
	img     *Image
	data    Stack
	ret     Stack
	pc      uint32
	entry   uint32
	running bool

	builtins map[string]uint32
	errs     []error

	in        *fileinput.Input
	out       flushio.WriteFlusher
	lineReady bool

	trace func(vm *VM)
}

// New builds a VM, bootstraps its dictionary, and applies opts. The
// returned VM is ready to Run.
func New(opts ...Option) (*VM, error) {
	vm := &VM{img: NewImage()}
	for _, opt := range opts {
		opt(vm)
	}
	if vm.out == nil {
		vm.out = flushio.NewWriteFlusher(io.Discard)
	}
	if vm.in == nil {
		vm.in = &fileinput.Input{}
	}
	if err := vm.bootstrap(); err != nil {
		return nil, err
	}
	vm.pc = vm.entry
	vm.running = true
	return vm, nil
}

// Run steps the VM until its input is exhausted, the error budget is
// spent, or ctx is cancelled. Panics from malformed bootstrap invariants
// are converted to errors via internal/panicerr, never crashing the host.
func (vm *VM) Run(ctx context.Context) error {
	return panicerr.Recover("thirdvm", func() error { return vm.run(ctx) })
}

func (vm *VM) run(ctx context.Context) error {
	for vm.running {
		if err := ctx.Err(); err != nil {
			return err
		}
		vm.step()
	}
	return nil
}

func (vm *VM) step() {
	if vm.trace != nil {
		vm.trace(vm)
	}
	err := vm.stepOnce()
	if err == nil {
		return
	}
	var terminated InputTerminatedError
	if errors.As(err, &terminated) {
		vm.running = false
		return
	}
	vm.errs = append(vm.errs, err)
	vm.ret.Clear()
	vm.pc = vm.entry
	if len(vm.errs) >= 10 {
		vm.terminateWithErrors()
	}
}

func (vm *VM) stepOnce() error {
	xt, err := vm.img.ReadU32(vm.pc)
	if err != nil {
		return err
	}
	vm.pc += 4
	return vm.dispatch(xt)
}

// dispatch runs the word whose code field starts at xt: threading into a
// colon-definition's body, or invoking the primitive named by its opcode
// byte.
func (vm *VM) dispatch(xt uint32) error {
	op, err := vm.img.ReadU8(xt)
	if err != nil {
		return err
	}
	if op == OpDoColonDef {
		vm.ret.Push(vm.pc)
		vm.pc = alignUp(xt + 1)
		return nil
	}
	fn := primitives[op]
	if fn == nil {
		return UnknownOpcodeError{op}
	}
	return fn(vm)
}

func (vm *VM) terminateWithErrors() {
	for _, e := range vm.errs {
		vm.out.Write([]byte(" " + e.Error() + "\n"))
	}
	vm.out.Flush()
	vm.errs = vm.errs[:0]
	vm.running = false
}

// readByteRaw reads one byte from the input queue, tracking line
// completion (a carriage return marks a line ready for prompt, per
// spec.md §6) and mapping a clean end of input to InputTerminatedError.
// Input sources that use a different line ending are normalized to '\r'
// before they ever reach the VM -- see WithInput/WithPrelude in
// options.go -- so this stays the single signal byte throughout the
// core interpreter, matching original_source's input_byte exactly.
func (vm *VM) readByteRaw() (byte, error) {
	b, err := vm.in.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, InputTerminatedError{}
		}
		return 0, IOError{err}
	}
	if b == '\r' {
		vm.lineReady = true
	}
	return b, nil
}

func isWhitespace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

// scanWord skips leading whitespace, then reads bytes into WORD_BUFFER
// until the next whitespace byte (consumed, not stored) or input ends.
// Tokens longer than 31 bytes are silently truncated in the buffer but
// fully consumed from input, per SPEC_FULL.md §9.
func (vm *VM) scanWord() (addr uint32, length uint32, err error) {
	var count uint32
	for {
		b, rerr := vm.readByteRaw()
		if rerr != nil {
			return 0, 0, rerr
		}
		if isWhitespace(b) {
			if count > 0 {
				break
			}
			continue
		}
		if count < WordBufferSize-1 {
			if werr := vm.img.WriteU8(AddrWordBuffer+count, b); werr != nil {
				return 0, 0, werr
			}
		}
		count++
	}
	if count > WordBufferSize-1 {
		count = WordBufferSize - 1
	}
	return AddrWordBuffer, count, nil
}

// interpretWord executes or compiles a dictionary hit found by interpret,
// per spec.md §4.4: executed when STATE is 0 or the word is immediate,
// compiled as a call otherwise.
func (vm *VM) interpretWord(h uint32) error {
	xt, err := vm.cfaOf(h)
	if err != nil {
		return err
	}
	flags, err := vm.img.ReadU8(h + 4)
	if err != nil {
		return err
	}
	state, err := vm.img.ReadU32(AddrState)
	if err != nil {
		return err
	}
	if state == 0 || isImmediate(flags) {
		return vm.dispatch(xt)
	}
	return vm.img.WriteU32Here(xt)
}

// interpretNumber parses the token at addr/length as a number under BASE,
// pushing it in interpret mode or compiling a literal in compile mode.
func (vm *VM) interpretNumber(addr, length uint32) error {
	token := make([]byte, length)
	if err := vm.img.LoadBytes(addr, token); err != nil {
		return err
	}
	base, err := vm.img.ReadU32(AddrBase)
	if err != nil {
		return err
	}
	value, unconsumed := parseNumber(token, base)
	if unconsumed != 0 {
		return UnknownWordError{Token: string(token)}
	}
	state, err := vm.img.ReadU32(AddrState)
	if err != nil {
		return err
	}
	if state == 0 {
		vm.data.Push(value)
		return nil
	}
	return vm.compileLit(value)
}
