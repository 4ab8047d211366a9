package thirdvm

// Word header layout, per spec.md §3:
//
//	h+0..h+3   link to previous header (or 0)
//	h+4        flags-and-length byte: bits 0..4 name length, bit5 hidden, bit6 immediate
//	h+5..      ASCII name bytes
//	h+5+len    code field (CFA)
const (
	flagLenMask  byte = 0x1F
	flagHidden   byte = 1 << 5
	flagImmed    byte = 1 << 6
	maxNameLen        = int(flagLenMask)
)

// create implements the `create` primitive: align HERE, consume (addr,
// len) for a name from the data stack, append link+length+name, and set
// LATEST to the new header. No code field is written -- that is the
// caller's job (`:` writes DoColonDef; a builtin writes its opcode byte).
func (vm *VM) create(nameAddr, nameLen uint32) error {
	if err := vm.img.Align(); err != nil {
		return err
	}
	here, err := vm.img.Here()
	if err != nil {
		return err
	}
	latest, err := vm.img.ReadU32(AddrLatest)
	if err != nil {
		return err
	}
	if err := vm.img.WriteU32(AddrLatest, here); err != nil {
		return err
	}
	if err := vm.img.WriteU32Here(latest); err != nil {
		return err
	}
	if int(nameLen) > maxNameLen {
		nameLen = uint32(maxNameLen)
	}
	if err := vm.img.WriteU8Here(byte(nameLen)); err != nil {
		return err
	}
	name := make([]byte, nameLen)
	if err := vm.img.LoadBytes(nameAddr, name); err != nil {
		return err
	}
	for _, b := range name {
		if err := vm.img.WriteU8Here(b); err != nil {
			return err
		}
	}
	return nil
}

// findWord walks the dictionary chain from LATEST looking for a
// non-hidden header whose name matches the nameLen bytes at nameAddr.
// Returns the header address, or 0 if no match is found.
func (vm *VM) findWord(nameAddr, nameLen uint32) (uint32, error) {
	latest, err := vm.img.ReadU32(AddrLatest)
	if err != nil {
		return 0, err
	}
	want := make([]byte, nameLen)
	if err := vm.img.LoadBytes(nameAddr, want); err != nil {
		return 0, err
	}
	for h := latest; h != 0; {
		flags, err := vm.img.ReadU8(h + 4)
		if err != nil {
			return 0, err
		}
		if uint32(flags&flagLenMask) == nameLen && flags&flagHidden == 0 {
			match := true
			for i := uint32(0); i < nameLen; i++ {
				b, err := vm.img.ReadU8(h + 5 + i)
				if err != nil {
					return 0, err
				}
				if b != want[i] {
					match = false
					break
				}
			}
			if match {
				return h, nil
			}
		}
		prev, err := vm.img.ReadU32(h)
		if err != nil {
			return 0, err
		}
		h = prev
	}
	return 0, nil
}

// cfaOf returns the code field address of the header at h: h + 5 + namelen.
func (vm *VM) cfaOf(h uint32) (uint32, error) {
	flags, err := vm.img.ReadU8(h + 4)
	if err != nil {
		return 0, err
	}
	return h + 5 + uint32(flags&flagLenMask), nil
}

// toggleImmediate flips the immediate bit of the header at h.
func (vm *VM) toggleImmediate(h uint32) error {
	flags, err := vm.img.ReadU8(h + 4)
	if err != nil {
		return err
	}
	return vm.img.WriteU8(h+4, flags^flagImmed)
}

// toggleHidden flips the hidden bit of the header at h.
func (vm *VM) toggleHidden(h uint32) error {
	flags, err := vm.img.ReadU8(h + 4)
	if err != nil {
		return err
	}
	return vm.img.WriteU8(h+4, flags^flagHidden)
}

func isImmediate(flags byte) bool { return flags&flagImmed != 0 }
