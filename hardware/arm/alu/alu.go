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

package alu

import "fmt"

// Opcode is the 4 bit operation field of a data processing instruction.
type Opcode uint8

// List of valid Opcode values. The order is the encoding order.
const (
	AND Opcode = iota
	EOR
	SUB
	RSB
	ADD
	ADC
	SBC
	RSC
	TST
	TEQ
	CMP
	CMN
	ORR
	MOV
	BIC
	MVN
)

var opcodeNames = [...]string{
	"AND", "EOR", "SUB", "RSB", "ADD", "ADC", "SBC", "RSC",
	"TST", "TEQ", "CMP", "CMN", "ORR", "MOV", "BIC", "MVN",
}

func (op Opcode) String() string {
	if int(op) >= len(opcodeNames) {
		return fmt.Sprintf("opcode(%d)", op)
	}
	return opcodeNames[op]
}

// IsLogical returns true if the operation takes the C flag from the barrel
// shifter rather than from the adder.
func (op Opcode) IsLogical() bool {
	switch op {
	case AND, EOR, TST, TEQ, ORR, MOV, BIC, MVN:
		return true
	}
	return false
}

// IsComparison returns true for TST, TEQ, CMP and CMN. These operations always
// update the flags and never write a destination register.
func (op Opcode) IsComparison() bool {
	return op >= TST && op <= CMN
}

// UsesFirstOperand returns false for MOV and MVN, which ignore Rn.
func (op Opcode) UsesFirstOperand() bool {
	return op != MOV && op != MVN
}

// Flags are the condition flags of the status register.
type Flags struct {
	N bool
	Z bool
	C bool
	V bool
}

func (f Flags) String() string {
	b := []byte("nzcv")
	if f.N {
		b[0] = 'N'
	}
	if f.Z {
		b[1] = 'Z'
	}
	if f.C {
		b[2] = 'C'
	}
	if f.V {
		b[3] = 'V'
	}
	return string(b)
}

// Add returns a + b + carry along with the unsigned carry out and the signed
// overflow of the addition.
func Add(a, b uint32, carry bool) (result uint32, carryOut bool, overflow bool) {
	var c uint64
	if carry {
		c = 1
	}
	r := uint64(a) + uint64(b) + c
	result = uint32(r)
	carryOut = r > 0xffffffff
	overflow = (^(a ^ b)&(a^result))&0x80000000 == 0x80000000
	return result, carryOut, overflow
}

// Subtract returns a - b - !carry. The carry out is the inverse of the borrow.
// Call with carry set to true for a plain subtraction.
func Subtract(a, b uint32, carry bool) (result uint32, carryOut bool, overflow bool) {
	result, carryOut, _ = Add(a, ^b, carry)
	overflow = ((a^b)&(a^result))&0x80000000 == 0x80000000
	return result, carryOut, overflow
}

// Execute performs the data processing operation op on the two operands. The
// in argument is the current state of the flags. The shifterCarry argument is
// the carry out of the barrel shifter that produced op2.
//
// The returned flags are the flags as they would be after the instruction with
// the S bit set. It is up to the caller to decide whether to keep them.
func Execute(op Opcode, op1, op2 uint32, in Flags, shifterCarry bool) (uint32, Flags) {
	out := in

	var r uint32

	switch op {
	case AND, TST:
		r = op1 & op2
	case EOR, TEQ:
		r = op1 ^ op2
	case SUB, CMP:
		r, out.C, out.V = Subtract(op1, op2, true)
	case RSB:
		r, out.C, out.V = Subtract(op2, op1, true)
	case ADD, CMN:
		r, out.C, out.V = Add(op1, op2, false)
	case ADC:
		r, out.C, out.V = Add(op1, op2, in.C)
	case SBC:
		r, out.C, out.V = Subtract(op1, op2, in.C)
	case RSC:
		r, out.C, out.V = Subtract(op2, op1, in.C)
	case ORR:
		r = op1 | op2
	case MOV:
		r = op2
	case BIC:
		r = op1 &^ op2
	case MVN:
		r = ^op2
	}

	if op.IsLogical() {
		out.C = shifterCarry
	}

	out.N = r&0x80000000 == 0x80000000
	out.Z = r == 0

	return r, out
}
