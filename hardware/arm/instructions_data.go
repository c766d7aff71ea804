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
	"math/bits"

	"github.com/armsim/armsim/hardware/arm/alu"
)

// operand2 returns the second operand of a data processing instruction and
// the carry out of the barrel shifter. The third return value is the number
// of additional cycles required to produce the operand.
func (arm *ARM) operand2(opcode uint32) (uint32, bool, int) {
	carry := arm.status.Carry

	// rotated immediate
	if opcode&(1<<25) != 0 {
		imm := opcode & 0xff
		rot := (opcode >> 8) & 0x0f
		if rot == 0 {
			return imm, carry, 0
		}
		v := alu.RotateRight(imm, rot*2)
		return v, v&0x80000000 != 0, 0
	}

	regShift := opcode&(1<<4) != 0
	rm := arm.operandRegister(opcode&0x0f, regShift)
	shift := alu.Shift((opcode >> 5) & 0x03)

	// shift by register
	if regShift {
		rs := arm.registers[(opcode>>8)&0x0f]
		v, c := alu.ShiftRegister(shift, rm, rs, carry)
		return v, c, 1
	}

	// shift by immediate
	v, c := alu.ShiftImmediate(shift, rm, (opcode>>7)&0x1f, carry)
	return v, c, 0
}

// operandRegister returns the value of a register used as an operand. when
// the shift amount comes from a register the other registers are read a cycle
// later, by which time the PC is twelve bytes ahead of the instruction.
func (arm *ARM) operandRegister(r uint32, regShift bool) uint32 {
	if r == rPC && regShift {
		return arm.registers[rPC] + 4
	}
	return arm.registers[r]
}

func (arm *ARM) executeDataProcessing(opcode uint32) (int, error) {
	op := alu.Opcode((opcode >> 21) & 0x0f)
	setFlags := opcode&(1<<20) != 0 || op.IsComparison()
	rn := (opcode >> 16) & 0x0f
	rd := (opcode >> 12) & 0x0f

	cycles := 1

	op2, shifterCarry, extra := arm.operand2(opcode)
	cycles += extra

	regShift := opcode&(1<<25) == 0 && opcode&(1<<4) != 0
	result, flags := alu.Execute(op, arm.operandRegister(rn, regShift), op2, arm.status.Flags(), shifterCarry)

	if op.IsComparison() {
		arm.status.setFlags(flags)
		return cycles, nil
	}

	if rd == rPC {
		cycles++

		// with the S bit set, a write to the PC also restores the status
		// register from the SPSR. this is how an exception handler returns
		if setFlags {
			if spsr, ok := arm.SPSR(); ok {
				if err := arm.LoadCPSR(spsr); err != nil {
					return cycles, err
				}
			}
			setFlags = false
		}
	}

	if err := arm.writeRegister(rd, result); err != nil {
		return cycles, err
	}

	if setFlags {
		arm.status.setFlags(flags)
	}

	return cycles, nil
}

// field mask bits for the MSR instruction.
const (
	psrControlField = 1 << 16
	psrFlagsField   = 1 << 19
)

func (arm *ARM) executePSRTransfer(opcode uint32) (int, error) {
	useSPSR := opcode&(1<<22) != 0

	// MRS
	if opcode&(1<<21) == 0 {
		rd := (opcode >> 12) & 0x0f
		v := arm.status.Word()
		if useSPSR {
			// reading the SPSR in a mode without one reads the CPSR
			if spsr, ok := arm.SPSR(); ok {
				v = spsr
			}
		}
		arm.registers[rd] = v
		return 1, nil
	}

	// MSR
	var v uint32
	if opcode&(1<<25) != 0 {
		v = alu.RotateRight(opcode&0xff, ((opcode>>8)&0x0f)*2)
	} else {
		v = arm.registers[opcode&0x0f]
	}

	var mask uint32
	if opcode&psrFlagsField != 0 {
		mask |= 0xf0000000
	}
	if opcode&psrControlField != 0 && arm.status.Mode.Privileged() {
		mask |= 0x000000ff
	}

	if useSPSR {
		if spsr, ok := arm.SPSR(); ok {
			arm.SetSPSR((spsr &^ mask) | (v & mask))
		}
		return 1, nil
	}

	w := (arm.status.Word() &^ mask) | (v & mask)
	if err := arm.LoadCPSR(w); err != nil {
		return 1, err
	}

	return 1, nil
}

// multiplyCycles is the number of cycles taken by the multiplier array. the
// array processes eight bits of the multiplier at a time and stops early if
// the remaining bits are all zero.
func multiplyCycles(rs uint32) int {
	switch {
	case rs < 0x100:
		return 1
	case rs < 0x10000:
		return 2
	case rs < 0x1000000:
		return 3
	}
	return 4
}

func (arm *ARM) executeMultiply(opcode uint32) (int, error) {
	accumulate := opcode&(1<<21) != 0
	setFlags := opcode&(1<<20) != 0
	rd := (opcode >> 16) & 0x0f
	rn := (opcode >> 12) & 0x0f
	rs := arm.registers[(opcode>>8)&0x0f]
	rm := arm.registers[opcode&0x0f]

	cycles := 1 + multiplyCycles(rs)

	r := rm * rs
	if accumulate {
		r += arm.registers[rn]
		cycles++
	}

	if err := arm.writeRegister(rd, r); err != nil {
		return cycles, err
	}

	if setFlags {
		arm.status.Negative = r&0x80000000 != 0
		arm.status.Zero = r == 0
	}

	return cycles, nil
}

func (arm *ARM) executeMultiplyLong(opcode uint32) (int, error) {
	signed := opcode&(1<<22) != 0
	accumulate := opcode&(1<<21) != 0
	setFlags := opcode&(1<<20) != 0
	rdHi := (opcode >> 16) & 0x0f
	rdLo := (opcode >> 12) & 0x0f
	rs := arm.registers[(opcode>>8)&0x0f]
	rm := arm.registers[opcode&0x0f]

	cycles := 2 + multiplyCycles(rs)

	var hi, lo uint32
	if signed {
		r := int64(int32(rm)) * int64(int32(rs))
		hi = uint32(uint64(r) >> 32)
		lo = uint32(r)
	} else {
		hi, lo = bits.Mul32(rm, rs)
	}

	if accumulate {
		var c uint32
		lo, c = bits.Add32(lo, arm.registers[rdLo], 0)
		hi, _ = bits.Add32(hi, arm.registers[rdHi], c)
		cycles++
	}

	if err := arm.writeRegister(rdLo, lo); err != nil {
		return cycles, err
	}
	if err := arm.writeRegister(rdHi, hi); err != nil {
		return cycles, err
	}

	if setFlags {
		arm.status.Negative = hi&0x80000000 != 0
		arm.status.Zero = hi == 0 && lo == 0
	}

	return cycles, nil
}
