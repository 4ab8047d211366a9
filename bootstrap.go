package thirdvm

// bootstrap populates the dictionary with every native primitive, then
// hand-compiles the words that cannot be defined any other way: `:`, `;`,
// the control-structure and defining words (`if` ... `constant`), and the
// entry-point word `quit`. This mirrors
// original_source's add_builtin_word/add_colon_word/set_entry_point
// sequence -- the host writes these bytes directly because `:` itself
// does not exist yet to do it.
func (vm *VM) bootstrap() error {
	vm.builtins = make(map[string]uint32, opCount)

	for op := OpDup; op < opCount; op++ {
		name, ok := opcodeNames[op]
		if !ok {
			continue
		}
		if err := vm.defineBuiltin(name, op); err != nil {
			return err
		}
	}

	// `[` must take effect while compiling, so it has to run even when
	// STATE is nonzero.
	if err := vm.toggleImmediate(vm.builtins["["]); err != nil {
		return err
	}

	if err := vm.defineColon(); err != nil {
		return err
	}
	if err := vm.defineSemicolon(); err != nil {
		return err
	}
	for _, def := range []func() error{
		vm.defineIf,
		vm.defineElse,
		vm.defineThen,
		vm.defineBegin,
		vm.defineWhile,
		vm.defineUntil,
		vm.defineRepeat,
		vm.defineRecurse,
		vm.defineVariable,
		vm.defineConstant,
	} {
		if err := def(); err != nil {
			return err
		}
	}
	if err := vm.defineQuit(); err != nil {
		return err
	}
	return nil
}

// defineBuiltin creates a header for name and writes opcode as its single
// code-field byte.
func (vm *VM) defineBuiltin(name string, opcode byte) error {
	if err := vm.beginHeader(name); err != nil {
		return err
	}
	if err := vm.img.WriteU8Here(opcode); err != nil {
		return err
	}
	vm.builtins[name] = vm.latest()
	return nil
}

// beginHeader stages name in WORD_BUFFER and creates a header for it; the
// caller writes the code field that follows.
func (vm *VM) beginHeader(name string) error {
	if err := vm.img.StoreBytes(AddrWordBuffer, []byte(name)); err != nil {
		return err
	}
	return vm.create(AddrWordBuffer, uint32(len(name)))
}

func (vm *VM) latest() uint32 {
	h, err := vm.img.ReadU32(AddrLatest)
	if err != nil {
		panic("bootstrap: LATEST unreadable: " + err.Error())
	}
	return h
}

// beginColon creates a colon-definition header for name and returns the
// address its body starts at (where the first compiled xt will land).
func (vm *VM) beginColon(name string) (uint32, error) {
	if err := vm.beginHeader(name); err != nil {
		return 0, err
	}
	if err := vm.img.WriteU8Here(OpDoColonDef); err != nil {
		return 0, err
	}
	if err := vm.img.Align(); err != nil {
		return 0, err
	}
	return vm.img.Here()
}

func (vm *VM) endColon(name string) {
	vm.builtins[name] = vm.latest()
}

// compileXT compiles a call to the named word.
func (vm *VM) compileXT(name string) error {
	h, ok := vm.builtins[name]
	if !ok {
		panic("bootstrap: undefined word " + name)
	}
	cfa, err := vm.cfaOf(h)
	if err != nil {
		return err
	}
	return vm.img.WriteU32Here(cfa)
}

// compileLit compiles `lit` followed by value.
func (vm *VM) compileLit(value uint32) error {
	if err := vm.compileXT("lit"); err != nil {
		return err
	}
	return vm.img.WriteU32Here(value)
}

// compileLitXT compiles `lit` followed by the xt of the named word -- a
// literal constant equal to that word's code field address, used to build
// `;`'s compiled-in `exit`.
func (vm *VM) compileLitXT(name string) error {
	h, ok := vm.builtins[name]
	if !ok {
		panic("bootstrap: undefined word " + name)
	}
	cfa, err := vm.cfaOf(h)
	if err != nil {
		return err
	}
	return vm.compileLit(cfa)
}

// defineColon hand-compiles `:`, per spec.md §4.5: read a name, create its
// header, write the DoColonDef opcode byte, align, hide the new header,
// and enter compile mode.
func (vm *VM) defineColon() error {
	if _, err := vm.beginColon(":"); err != nil {
		return err
	}
	steps := []string{"word", "create"}
	for _, name := range steps {
		if err := vm.compileXT(name); err != nil {
			return err
		}
	}
	if err := vm.compileLit(0); err != nil { // DoColonDef opcode value
		return err
	}
	if err := vm.compileXT("c,"); err != nil {
		return err
	}
	if err := vm.compileXT("align"); err != nil {
		return err
	}
	if err := vm.compileLit(AddrLatest); err != nil {
		return err
	}
	for _, name := range []string{"@", "hidden", "]", "exit"} {
		if err := vm.compileXT(name); err != nil {
			return err
		}
	}
	vm.endColon(":")
	return nil
}

// defineSemicolon hand-compiles `;`: compile a trailing `exit`, unhide the
// word just finished, return to interpret mode. It must be immediate so
// it runs during compilation rather than being compiled itself.
func (vm *VM) defineSemicolon() error {
	if _, err := vm.beginColon(";"); err != nil {
		return err
	}
	if err := vm.compileLitXT("exit"); err != nil {
		return err
	}
	if err := vm.compileXT(","); err != nil {
		return err
	}
	if err := vm.compileLit(AddrLatest); err != nil {
		return err
	}
	for _, name := range []string{"@", "hidden", "[", "exit"} {
		if err := vm.compileXT(name); err != nil {
			return err
		}
	}
	vm.endColon(";")
	return vm.toggleImmediate(vm.builtins[";"])
}

// defineQuit hand-compiles the entry point: `reset prompt interpret
// branch -12`, an unbounded loop with no exit. vm.entry is set to the
// address `reset`'s xt lands at.
func (vm *VM) defineQuit() error {
	body, err := vm.beginColon("quit")
	if err != nil {
		return err
	}
	for _, name := range []string{"reset", "prompt", "interpret", "branch"} {
		if err := vm.compileXT(name); err != nil {
			return err
		}
	}
	offset := int32(-12)
	if err := vm.img.WriteU32Here(uint32(offset)); err != nil {
		return err
	}
	vm.endColon("quit")
	vm.entry = body
	return nil
}

// patchBackref compiles the sequence that backpatches a forward reference
// left on the stack by `if`/`while`/`else`: given a marker (the address of
// a reserved offset cell), it stores (HERE - marker + 4) at marker, the
// offset that makes that cell's branch land here. Used by `then` and
// `repeat`.
func (vm *VM) patchBackref() error {
	for _, name := range []string{"dup", ">r"} {
		if err := vm.compileXT(name); err != nil {
			return err
		}
	}
	if err := vm.compileLit(AddrHere); err != nil {
		return err
	}
	if err := vm.compileXT("@"); err != nil {
		return err
	}
	if err := vm.compileLit(4); err != nil {
		return err
	}
	if err := vm.compileXT("+"); err != nil {
		return err
	}
	if err := vm.compileXT("r>"); err != nil {
		return err
	}
	for _, name := range []string{"-", "swap", "!"} {
		if err := vm.compileXT(name); err != nil {
			return err
		}
	}
	return nil
}

// compileForwardBranch compiles opcodeName (branch or 0branch) followed by
// a reserved offset cell, leaving the cell's own address -- the marker a
// later then/else/repeat will patch -- on the stack.
func (vm *VM) compileForwardBranch(opcodeName string) error {
	if err := vm.compileLitXT(opcodeName); err != nil {
		return err
	}
	if err := vm.compileXT(","); err != nil {
		return err
	}
	if err := vm.compileLit(AddrHere); err != nil {
		return err
	}
	if err := vm.compileXT("@"); err != nil {
		return err
	}
	if err := vm.compileLit(0); err != nil {
		return err
	}
	return vm.compileXT(",")
}

// defineIf hand-compiles `if ( -- marker )`: immediate, compiles a
// 0branch and reserves its offset cell for `then`/`else` to patch.
func (vm *VM) defineIf() error {
	if _, err := vm.beginColon("if"); err != nil {
		return err
	}
	if err := vm.compileForwardBranch("0branch"); err != nil {
		return err
	}
	if err := vm.compileXT("exit"); err != nil {
		return err
	}
	vm.endColon("if")
	return vm.toggleImmediate(vm.builtins["if"])
}

// defineElse hand-compiles `else ( marker1 -- marker2 )`: immediate,
// compiles an unconditional branch past the else-part (leaving marker2
// for `then`), and patches marker1 to land here.
func (vm *VM) defineElse() error {
	if _, err := vm.beginColon("else"); err != nil {
		return err
	}
	if err := vm.compileForwardBranch("branch"); err != nil {
		return err
	}
	if err := vm.compileXT("swap"); err != nil {
		return err
	}
	if err := vm.patchBackref(); err != nil {
		return err
	}
	if err := vm.compileXT("exit"); err != nil {
		return err
	}
	vm.endColon("else")
	return vm.toggleImmediate(vm.builtins["else"])
}

// defineThen hand-compiles `then ( marker -- )`: immediate, patches
// marker to land here.
func (vm *VM) defineThen() error {
	if _, err := vm.beginColon("then"); err != nil {
		return err
	}
	if err := vm.patchBackref(); err != nil {
		return err
	}
	if err := vm.compileXT("exit"); err != nil {
		return err
	}
	vm.endColon("then")
	return vm.toggleImmediate(vm.builtins["then"])
}

// defineBegin hand-compiles `begin ( -- marker )`: immediate, pushes the
// loop's start address for `until`/`while`+`repeat` to branch back to.
func (vm *VM) defineBegin() error {
	if _, err := vm.beginColon("begin"); err != nil {
		return err
	}
	if err := vm.compileLit(AddrHere); err != nil {
		return err
	}
	if err := vm.compileXT("@"); err != nil {
		return err
	}
	if err := vm.compileXT("exit"); err != nil {
		return err
	}
	vm.endColon("begin")
	return vm.toggleImmediate(vm.builtins["begin"])
}

// defineWhile hand-compiles `while ( marker1 -- marker1 marker2 )`: the
// same forward-0branch-and-reserve as `if`, leaving marker1 untouched
// underneath. Implemented by calling straight into `if`'s xt.
func (vm *VM) defineWhile() error {
	if _, err := vm.beginColon("while"); err != nil {
		return err
	}
	if err := vm.compileXT("if"); err != nil {
		return err
	}
	if err := vm.compileXT("exit"); err != nil {
		return err
	}
	vm.endColon("while")
	return vm.toggleImmediate(vm.builtins["while"])
}

// defineUntil hand-compiles `until ( marker -- )`: immediate, compiles a
// 0branch back to marker; the offset is known immediately, no patch
// needed.
func (vm *VM) defineUntil() error {
	if _, err := vm.beginColon("until"); err != nil {
		return err
	}
	if err := vm.compileLitXT("0branch"); err != nil {
		return err
	}
	if err := vm.compileXT(","); err != nil {
		return err
	}
	if err := vm.compileLit(AddrHere); err != nil {
		return err
	}
	if err := vm.compileXT("@"); err != nil {
		return err
	}
	if err := vm.compileXT("-"); err != nil {
		return err
	}
	if err := vm.compileLit(4); err != nil {
		return err
	}
	if err := vm.compileXT("+"); err != nil {
		return err
	}
	if err := vm.compileXT(","); err != nil {
		return err
	}
	if err := vm.compileXT("exit"); err != nil {
		return err
	}
	vm.endColon("until")
	return vm.toggleImmediate(vm.builtins["until"])
}

// defineRepeat hand-compiles `repeat ( marker1 marker2 -- )`: immediate,
// compiles an unconditional branch back to marker1 and patches marker2 to
// land here.
func (vm *VM) defineRepeat() error {
	if _, err := vm.beginColon("repeat"); err != nil {
		return err
	}
	if err := vm.compileXT(">r"); err != nil {
		return err
	}
	if err := vm.compileLitXT("branch"); err != nil {
		return err
	}
	if err := vm.compileXT(","); err != nil {
		return err
	}
	if err := vm.compileLit(AddrHere); err != nil {
		return err
	}
	if err := vm.compileXT("@"); err != nil {
		return err
	}
	if err := vm.compileXT("-"); err != nil {
		return err
	}
	if err := vm.compileLit(4); err != nil {
		return err
	}
	if err := vm.compileXT("+"); err != nil {
		return err
	}
	if err := vm.compileXT(","); err != nil {
		return err
	}
	if err := vm.compileXT("r>"); err != nil {
		return err
	}
	if err := vm.patchBackref(); err != nil {
		return err
	}
	if err := vm.compileXT("exit"); err != nil {
		return err
	}
	vm.endColon("repeat")
	return vm.toggleImmediate(vm.builtins["repeat"])
}

// defineRecurse hand-compiles `recurse ( -- )`: immediate, compiles a
// call to the word currently being defined (still hidden, so `find`
// cannot see it -- LATEST is read directly instead).
func (vm *VM) defineRecurse() error {
	if _, err := vm.beginColon("recurse"); err != nil {
		return err
	}
	if err := vm.compileLit(AddrLatest); err != nil {
		return err
	}
	if err := vm.compileXT("@"); err != nil {
		return err
	}
	if err := vm.compileXT(">cfa"); err != nil {
		return err
	}
	if err := vm.compileXT(","); err != nil {
		return err
	}
	if err := vm.compileXT("exit"); err != nil {
		return err
	}
	vm.endColon("recurse")
	return vm.toggleImmediate(vm.builtins["recurse"])
}

// defineVariable hand-compiles `variable ( "name" -- )`: reads a name,
// creates a colon-header whose body is `lit <dataAddr> exit`, followed by
// one zeroed data cell at dataAddr.
func (vm *VM) defineVariable() error {
	if _, err := vm.beginColon("variable"); err != nil {
		return err
	}
	if err := vm.compileXT("word"); err != nil {
		return err
	}
	if err := vm.compileXT("create"); err != nil {
		return err
	}
	if err := vm.compileLit(0); err != nil {
		return err
	}
	if err := vm.compileXT("c,"); err != nil {
		return err
	}
	if err := vm.compileXT("align"); err != nil {
		return err
	}
	if err := vm.compileLitXT("lit"); err != nil {
		return err
	}
	if err := vm.compileXT(","); err != nil {
		return err
	}
	if err := vm.compileLit(AddrHere); err != nil {
		return err
	}
	if err := vm.compileXT("@"); err != nil {
		return err
	}
	if err := vm.compileLit(8); err != nil {
		return err
	}
	if err := vm.compileXT("+"); err != nil {
		return err
	}
	if err := vm.compileXT(","); err != nil {
		return err
	}
	if err := vm.compileLitXT("exit"); err != nil {
		return err
	}
	if err := vm.compileXT(","); err != nil {
		return err
	}
	if err := vm.compileLit(0); err != nil {
		return err
	}
	if err := vm.compileXT(","); err != nil {
		return err
	}
	if err := vm.compileXT("exit"); err != nil {
		return err
	}
	vm.endColon("variable")
	return nil
}

// defineConstant hand-compiles `constant ( value "name" -- )`: reads a
// name, creates a colon-header whose body is `lit <value> exit`.
func (vm *VM) defineConstant() error {
	if _, err := vm.beginColon("constant"); err != nil {
		return err
	}
	if err := vm.compileXT("word"); err != nil {
		return err
	}
	if err := vm.compileXT("create"); err != nil {
		return err
	}
	if err := vm.compileLit(0); err != nil {
		return err
	}
	if err := vm.compileXT("c,"); err != nil {
		return err
	}
	if err := vm.compileXT("align"); err != nil {
		return err
	}
	if err := vm.compileLitXT("lit"); err != nil {
		return err
	}
	if err := vm.compileXT(","); err != nil {
		return err
	}
	if err := vm.compileXT(","); err != nil {
		return err
	}
	if err := vm.compileLitXT("exit"); err != nil {
		return err
	}
	if err := vm.compileXT(","); err != nil {
		return err
	}
	if err := vm.compileXT("exit"); err != nil {
		return err
	}
	vm.endColon("constant")
	return nil
}
