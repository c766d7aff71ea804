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
	"github.com/armsim/armsim/hardware/memory"
)

// transferCycles is the cost of a single load or store.
func transferCycles(load bool, rd uint32) int {
	if !load {
		return 2
	}
	if rd == rPC {
		return 5
	}
	return 3
}

func (arm *ARM) executeSingleTransfer(opcode uint32) (int, error) {
	pre := opcode&(1<<24) != 0
	up := opcode&(1<<23) != 0
	byteTransfer := opcode&(1<<22) != 0
	writeback := opcode&(1<<21) != 0
	load := opcode&(1<<20) != 0
	rn := (opcode >> 16) & 0x0f
	rd := (opcode >> 12) & 0x0f

	cycles := transferCycles(load, rd)

	var offset uint32
	if opcode&(1<<25) == 0 {
		offset = opcode & 0xfff
	} else {
		// register offset shifted by an immediate amount
		shift := alu.Shift((opcode >> 5) & 0x03)
		offset, _ = alu.ShiftImmediate(shift, arm.registers[opcode&0x0f], (opcode>>7)&0x1f, arm.status.Carry)
	}

	return cycles, arm.transfer(pre, up, writeback, load, rn, rd, offset, transferWidth(byteTransfer), false)
}

func transferWidth(byteTransfer bool) memory.DataType {
	if byteTransfer {
		return memory.Byte
	}
	return memory.Word
}

func (arm *ARM) executeHalfwordTransfer(opcode uint32) (int, error) {
	pre := opcode&(1<<24) != 0
	up := opcode&(1<<23) != 0
	immediate := opcode&(1<<22) != 0
	writeback := opcode&(1<<21) != 0
	load := opcode&(1<<20) != 0
	rn := (opcode >> 16) & 0x0f
	rd := (opcode >> 12) & 0x0f
	signed := opcode&(1<<6) != 0
	halfword := opcode&(1<<5) != 0

	cycles := transferCycles(load, rd)

	var offset uint32
	if immediate {
		offset = (opcode>>4)&0xf0 | opcode&0x0f
	} else {
		offset = arm.registers[opcode&0x0f]
	}

	dt := memory.Byte
	if halfword {
		dt = memory.Halfword
	}

	return cycles, arm.transfer(pre, up, writeback, load, rn, rd, offset, dt, signed && load)
}

// storeValue returns the value of register r for a store instruction. a
// stored PC is twelve bytes ahead of the instruction.
func (arm *ARM) storeValue(r uint32) uint32 {
	if r == rPC {
		return arm.registers[rPC] + 4
	}
	return arm.registers[r]
}

// transfer is the common part of the single data transfer instructions.
func (arm *ARM) transfer(pre, up, writeback, load bool, rn, rd uint32, offset uint32, dt memory.DataType, signExtend bool) error {
	base := arm.registers[rn]

	var addr uint32
	if up {
		addr = base + offset
	} else {
		addr = base - offset
	}

	access := base
	if pre {
		access = addr
	}

	var v uint32
	var err error

	if load {
		v, err = arm.mem.Read(access, dt)
	} else {
		err = arm.mem.Write(access, dt, arm.storeValue(rd))
	}
	if err != nil {
		return arm.dataAbort(err)
	}

	// post-indexed transfers always write back
	if writeback || !pre {
		if err := arm.writeRegister(rn, addr); err != nil {
			return err
		}
	}

	if load {
		if signExtend {
			if dt == memory.Halfword {
				v = alu.SignExtend(v, 16)
			} else {
				v = alu.SignExtend(v, 8)
			}
		}
		if err := arm.writeRegister(rd, v); err != nil {
			return err
		}
	}

	return nil
}

func (arm *ARM) executeBlockTransfer(opcode uint32) (int, error) {
	pre := opcode&(1<<24) != 0
	up := opcode&(1<<23) != 0
	psr := opcode&(1<<22) != 0
	writeback := opcode&(1<<21) != 0
	load := opcode&(1<<20) != 0
	rn := (opcode >> 16) & 0x0f
	list := opcode & 0xffff

	n := uint32(bits.OnesCount32(list))

	cycles := 1
	if load {
		cycles = 2
		if list&(1<<rPC) != 0 {
			cycles += 2
		}
	}
	cycles += int(n)

	// the S bit transfers the user bank registers unless this is a load that
	// includes the PC, in which case the CPSR is restored from the SPSR
	userBank := psr && !(load && list&(1<<rPC) != 0)
	restoreCPSR := psr && load && list&(1<<rPC) != 0

	base := arm.registers[rn]

	// registers are always transferred lowest register to lowest address. a
	// decrementing transfer is an incrementing transfer from the lowest
	// address
	var addr uint32
	var final uint32
	if up {
		addr = base
		final = base + n*4
	} else {
		addr = base - n*4
		final = addr
		pre = !pre
	}

	for i := 0; i < 16; i++ {
		if list&(1<<i) == 0 {
			continue
		}

		if pre {
			addr += 4
		}

		if load {
			v, err := arm.mem.Read(addr, memory.Word)
			if err != nil {
				return cycles, arm.dataAbort(err)
			}
			if userBank {
				arm.setUserRegister(i, v)
			} else if err := arm.writeRegister(uint32(i), v); err != nil {
				return cycles, err
			}
		} else {
			var v uint32
			if userBank && i != rPC {
				v = arm.userRegister(i)
			} else {
				v = arm.storeValue(uint32(i))
			}
			if err := arm.mem.Write(addr, memory.Word, v); err != nil {
				return cycles, arm.dataAbort(err)
			}
		}

		if !pre {
			addr += 4
		}
	}

	// a load that includes the base register takes the loaded value
	if writeback && !(load && list&(1<<rn) != 0) {
		arm.registers[rn] = final
	}

	if restoreCPSR {
		if spsr, ok := arm.SPSR(); ok {
			if err := arm.LoadCPSR(spsr); err != nil {
				return cycles, err
			}
		}
	}

	return cycles, nil
}

func (arm *ARM) executeSwap(opcode uint32) (int, error) {
	dt := transferWidth(opcode&(1<<22) != 0)
	rn := (opcode >> 16) & 0x0f
	rd := (opcode >> 12) & 0x0f
	rm := opcode & 0x0f

	addr := arm.registers[rn]

	v, err := arm.mem.Read(addr, dt)
	if err != nil {
		return 4, arm.dataAbort(err)
	}
	if err := arm.mem.Write(addr, dt, arm.registers[rm]); err != nil {
		return 4, arm.dataAbort(err)
	}

	return 4, arm.writeRegister(rd, v)
}
