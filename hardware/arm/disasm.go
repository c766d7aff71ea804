// This file is part of armsim.
//
// armsim is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// armsim is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with armsim.  If not, see <https://www.gnu.org/licenses/>.

package arm

import (
	"fmt"
	"strings"

	"github.com/armsim/armsim/hardware/arm/alu"
)

// DisasmEntry is the disassembly of a single instruction.
type DisasmEntry struct {
	// the address value. the formatted value is in the Address field
	Addr uint32

	// the opcode for the instruction
	Opcode uint32

	// the category the opcode was decoded as
	Category Category

	// formatted strings for use by disassemblies
	Address  string
	Operator string
	Operand  string
}

// String returns a very simple representation of the disassembly entry.
func (e DisasmEntry) String() string {
	if e.Operand == "" {
		return e.Operator
	}
	return fmt.Sprintf("%s %s", e.Operator, e.Operand)
}

// Disassemble the opcode at address. The address is used to calculate the
// targets of branch instructions and the addresses of PC relative loads.
func Disassemble(addr uint32, opcode uint32) DisasmEntry {
	e := DisasmEntry{
		Addr:     addr,
		Opcode:   opcode,
		Category: Decode(opcode),
		Address:  fmt.Sprintf("%08x", addr),
	}

	cond := Condition(opcode >> 28)
	suffix := ""
	if cond != AL {
		suffix = strings.ToLower(cond.String())
	}

	switch e.Category {
	case DataProcessing:
		disasmDataProcessing(&e, opcode, suffix)
	case PSRTransfer:
		disasmPSRTransfer(&e, opcode, suffix)
	case Multiply:
		rd := (opcode >> 16) & 0x0f
		rn := (opcode >> 12) & 0x0f
		rs := (opcode >> 8) & 0x0f
		rm := opcode & 0x0f
		if opcode&(1<<21) != 0 {
			e.Operator = "mla" + suffix + sBit(opcode)
			e.Operand = fmt.Sprintf("%s, %s, %s, %s", regName(rd), regName(rm), regName(rs), regName(rn))
		} else {
			e.Operator = "mul" + suffix + sBit(opcode)
			e.Operand = fmt.Sprintf("%s, %s, %s", regName(rd), regName(rm), regName(rs))
		}
	case MultiplyLong:
		op := "umull"
		switch (opcode >> 21) & 0x03 {
		case 0b01:
			op = "umlal"
		case 0b10:
			op = "smull"
		case 0b11:
			op = "smlal"
		}
		e.Operator = op + suffix + sBit(opcode)
		e.Operand = fmt.Sprintf("%s, %s, %s, %s", regName((opcode>>12)&0x0f), regName((opcode>>16)&0x0f),
			regName(opcode&0x0f), regName((opcode>>8)&0x0f))
	case Swap:
		e.Operator = "swp" + suffix
		if opcode&(1<<22) != 0 {
			e.Operator += "b"
		}
		e.Operand = fmt.Sprintf("%s, %s, [%s]", regName((opcode>>12)&0x0f), regName(opcode&0x0f), regName((opcode>>16)&0x0f))
	case BranchExchange:
		e.Operator = "bx" + suffix
		e.Operand = regName(opcode & 0x0f)
	case HalfwordTransfer:
		disasmHalfwordTransfer(&e, opcode, suffix)
	case SingleTransfer:
		disasmSingleTransfer(&e, opcode, suffix)
	case BlockTransfer:
		disasmBlockTransfer(&e, opcode, suffix)
	case Branch:
		e.Operator = "b"
		if opcode&(1<<24) != 0 {
			e.Operator = "bl"
		}
		e.Operator += suffix
		e.Operand = fmt.Sprintf("%08x", addr+8+alu.SignExtend((opcode&0x00ffffff)<<2, 26))
	case SoftwareInterrupt:
		e.Operator = "swi" + suffix
		e.Operand = fmt.Sprintf("#%#x", opcode&0x00ffffff)
	case CoprocessorTransfer, CoprocessorData, CoprocessorRegister:
		e.Operator = "cp" + suffix
		e.Operand = fmt.Sprintf("p%d, %s", (opcode>>8)&0x0f, strings.ToLower(e.Category.String()))
	default:
		e.Operator = "undefined"
		e.Operand = fmt.Sprintf("%08x", opcode)
	}

	return e
}

var registerNames = [NumRegisters]string{
	"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
	"r8", "r9", "r10", "r11", "r12", "sp", "lr", "pc",
}

func regName(r uint32) string {
	return registerNames[r&0x0f]
}

func sBit(opcode uint32) string {
	if opcode&(1<<20) != 0 {
		return "s"
	}
	return ""
}

func disasmShift(opcode uint32) string {
	rm := regName(opcode & 0x0f)
	shift := alu.Shift((opcode >> 5) & 0x03)

	if opcode&(1<<4) != 0 {
		return fmt.Sprintf("%s, %s %s", rm, strings.ToLower(shift.String()), regName((opcode>>8)&0x0f))
	}

	amount := (opcode >> 7) & 0x1f
	switch {
	case amount == 0 && shift == alu.LSL:
		return rm
	case amount == 0 && shift == alu.ROR:
		return fmt.Sprintf("%s, rrx", rm)
	case amount == 0:
		amount = 32
	}
	return fmt.Sprintf("%s, %s #%d", rm, strings.ToLower(shift.String()), amount)
}

func disasmDataProcessing(e *DisasmEntry, opcode uint32, suffix string) {
	op := alu.Opcode((opcode >> 21) & 0x0f)
	rn := regName((opcode >> 16) & 0x0f)
	rd := regName((opcode >> 12) & 0x0f)

	var op2 string
	if opcode&(1<<25) != 0 {
		op2 = fmt.Sprintf("#%#x", alu.RotateRight(opcode&0xff, ((opcode>>8)&0x0f)*2))
	} else {
		op2 = disasmShift(opcode)
	}

	e.Operator = strings.ToLower(op.String()) + suffix
	switch {
	case op.IsComparison():
		e.Operand = fmt.Sprintf("%s, %s", rn, op2)
	case !op.UsesFirstOperand():
		e.Operator += sBit(opcode)
		e.Operand = fmt.Sprintf("%s, %s", rd, op2)
	default:
		e.Operator += sBit(opcode)
		e.Operand = fmt.Sprintf("%s, %s, %s", rd, rn, op2)
	}
}

func disasmPSRTransfer(e *DisasmEntry, opcode uint32, suffix string) {
	psr := "cpsr"
	if opcode&(1<<22) != 0 {
		psr = "spsr"
	}

	if opcode&(1<<21) == 0 {
		e.Operator = "mrs" + suffix
		e.Operand = fmt.Sprintf("%s, %s", regName((opcode>>12)&0x0f), psr)
		return
	}

	fields := ""
	if opcode&(1<<19) != 0 {
		fields += "f"
	}
	if opcode&(1<<16) != 0 {
		fields += "c"
	}
	if fields != "" {
		psr = fmt.Sprintf("%s_%s", psr, fields)
	}

	var src string
	if opcode&(1<<25) != 0 {
		src = fmt.Sprintf("#%#x", alu.RotateRight(opcode&0xff, ((opcode>>8)&0x0f)*2))
	} else {
		src = regName(opcode & 0x0f)
	}

	e.Operator = "msr" + suffix
	e.Operand = fmt.Sprintf("%s, %s", psr, src)
}

// address formats the addressing mode of a single or halfword transfer.
func disasmAddress(opcode uint32, offset string) string {
	rn := regName((opcode >> 16) & 0x0f)
	sign := ""
	if opcode&(1<<23) == 0 {
		sign = "-"
	}

	if opcode&(1<<24) == 0 {
		return fmt.Sprintf("[%s], %s%s", rn, sign, offset)
	}

	wb := ""
	if opcode&(1<<21) != 0 {
		wb = "!"
	}
	return fmt.Sprintf("[%s, %s%s]%s", rn, sign, offset, wb)
}

func disasmSingleTransfer(e *DisasmEntry, opcode uint32, suffix string) {
	if opcode&(1<<20) != 0 {
		e.Operator = "ldr" + suffix
	} else {
		e.Operator = "str" + suffix
	}
	if opcode&(1<<22) != 0 {
		e.Operator += "b"
	}

	var offset string
	if opcode&(1<<25) != 0 {
		offset = disasmShift(opcode &^ (1 << 4))
	} else {
		offset = fmt.Sprintf("#%#x", opcode&0xfff)
	}

	e.Operand = fmt.Sprintf("%s, %s", regName((opcode>>12)&0x0f), disasmAddress(opcode, offset))
}

func disasmHalfwordTransfer(e *DisasmEntry, opcode uint32, suffix string) {
	var op string
	switch {
	case opcode&(1<<20) == 0:
		op = "strh"
	case opcode&(1<<6) == 0:
		op = "ldrh"
	case opcode&(1<<5) == 0:
		op = "ldrsb"
	default:
		op = "ldrsh"
	}
	e.Operator = op + suffix

	var offset string
	if opcode&(1<<22) != 0 {
		offset = fmt.Sprintf("#%#x", (opcode>>4)&0xf0|opcode&0x0f)
	} else {
		offset = regName(opcode & 0x0f)
	}

	e.Operand = fmt.Sprintf("%s, %s", regName((opcode>>12)&0x0f), disasmAddress(opcode, offset))
}

func disasmBlockTransfer(e *DisasmEntry, opcode uint32, suffix string) {
	if opcode&(1<<20) != 0 {
		e.Operator = "ldm" + suffix
	} else {
		e.Operator = "stm" + suffix
	}

	if opcode&(1<<23) != 0 {
		e.Operator += "i"
	} else {
		e.Operator += "d"
	}
	if opcode&(1<<24) != 0 {
		e.Operator += "b"
	} else {
		e.Operator += "a"
	}

	wb := ""
	if opcode&(1<<21) != 0 {
		wb = "!"
	}

	regs := make([]string, 0, NumRegisters)
	for i := uint32(0); i < NumRegisters; i++ {
		if opcode&(1<<i) != 0 {
			regs = append(regs, regName(i))
		}
	}

	user := ""
	if opcode&(1<<22) != 0 {
		user = "^"
	}

	e.Operand = fmt.Sprintf("%s%s, {%s}%s", regName((opcode>>16)&0x0f), wb, strings.Join(regs, ", "), user)
}
