package thirdvm

import (
	"fmt"
	"strings"
)

// String renders a compact one-line trace: pc, and both stacks top-last.
// Used by cmd/thirdvm's --verbose flag.
func (vm *VM) String() string {
	return fmt.Sprintf("pc=%d data=%v ret=%v", vm.pc, vm.data.Cells(), vm.ret.Cells())
}

// Dump renders the live image as hex+ASCII, 16 bytes per line, alongside
// the control cells and both stacks. Used by cmd/thirdvm's --dump flag.
func (vm *VM) Dump() string {
	var out strings.Builder
	latest, _ := vm.img.ReadU32(AddrLatest)
	base, _ := vm.img.ReadU32(AddrBase)
	state, _ := vm.img.ReadU32(AddrState)
	here, _ := vm.img.ReadU32(AddrHere)
	fmt.Fprintf(&out, "pc=%d entry=%d latest=%d base=%d state=%d here=%d\n", vm.pc, vm.entry, latest, base, state, here)
	fmt.Fprintf(&out, "data=%v\n", vm.data.Cells())
	fmt.Fprintf(&out, "ret=%v\n", vm.ret.Cells())

	size := vm.img.Size()
	for addr := uint32(0); addr < size; addr += 16 {
		end := addr + 16
		if end > size {
			end = size
		}
		row := make([]byte, end-addr)
		if err := vm.img.LoadBytes(addr, row); err != nil {
			break
		}
		fmt.Fprintf(&out, "%08x  ", addr)
		for i, b := range row {
			fmt.Fprintf(&out, "%02x ", b)
			if i == 7 {
				out.WriteByte(' ')
			}
		}
		for i := len(row); i < 16; i++ {
			out.WriteString("   ")
			if i == 7 {
				out.WriteByte(' ')
			}
		}
		out.WriteString(" |")
		for _, b := range row {
			if b >= 0x20 && b < 0x7f {
				out.WriteByte(b)
			} else {
				out.WriteByte('.')
			}
		}
		out.WriteString("|\n")
	}
	return out.String()
}
