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

	"github.com/armsim/armsim/curated"
	"github.com/armsim/armsim/hardware/memory"
	"github.com/armsim/armsim/hardware/preferences"
	"github.com/armsim/armsim/logger"
)

// Sentinal errors.
const (
	AlignmentError   = "ARM7: unaligned program counter (%08x)"
	UnsupportedState = "ARM7: unsupported state (%v)"
	MemoryFault      = "ARM7: memory fault: %v"
)

// register names.
const (
	rSP = 13 + iota
	rLR
	rPC
	NumRegisters
)

// Bus is the interface to the memory of the board.
type Bus interface {
	Read(address uint32, t memory.DataType) (uint32, error)
	Write(address uint32, t memory.DataType, value uint32) error
}

// ARM implements the ARM7TDMI processor.
type ARM struct {
	prefs *preferences.ARMPreferences
	mem   Bus

	registers [NumRegisters]uint32
	status    Status
	banked    [numBanks]bankedRegisters

	// state of the interrupt input lines. true means the interrupt is being
	// requested
	irq bool
	fiq bool

	// the address of the instruction being executed
	executingPC uint32

	// set by any instruction that changes the PC, including an instruction
	// that raises an exception
	pcWritten bool

	// totals since the last reset
	cycles       int64
	instructions int64
}

// NewARM is the preferred method of initialisation for the ARM type. The
// prefs argument can be nil, in which case the default preferences are used.
//
// The processor is reset before the function returns.
func NewARM(mem Bus, prefs *preferences.ARMPreferences) *ARM {
	arm := &ARM{
		prefs: prefs,
		mem:   mem,
	}
	arm.Reset()
	return arm
}

// Reset the processor. The processor starts in Supervisor mode with both
// interrupts disabled and the PC at the reset vector. The cycle and
// instruction counts are also reset.
func (arm *ARM) Reset() {
	arm.registers = [NumRegisters]uint32{}
	arm.banked = [numBanks]bankedRegisters{}
	arm.status = Status{Mode: ModeSupervisor}
	arm.irq = false
	arm.fiq = false
	arm.cycles = 0
	arm.instructions = 0
	arm.RaiseException(ExceptionReset)
}

func (arm *ARM) String() string {
	s := strings.Builder{}
	for i, r := range arm.registers {
		if i > 0 {
			if i%4 == 0 {
				s.WriteString("\n")
			} else {
				s.WriteString("\t\t")
			}
		}
		s.WriteString(fmt.Sprintf("R%-2d: %08x", i, r))
	}
	s.WriteString("\n")
	s.WriteString(arm.status.String())
	return s.String()
}

// Register returns the value of the register as seen in the current mode.
func (arm *ARM) Register(r int) uint32 {
	return arm.registers[r&0x0f]
}

// SetRegister sets the value of the register in the current mode. Setting the
// PC is the same as calling SetPC().
func (arm *ARM) SetRegister(r int, v uint32) error {
	r &= 0x0f
	if r == rPC {
		return arm.SetPC(v)
	}
	arm.registers[r] = v
	return nil
}

// Registers returns a copy of the registers as seen in the current mode.
func (arm *ARM) Registers() [NumRegisters]uint32 {
	return arm.registers
}

// PC returns the value of the program counter.
func (arm *ARM) PC() uint32 {
	return arm.registers[rPC]
}

// SetPC sets the value of the program counter. Fails with AlignmentError if
// the address is not word aligned.
func (arm *ARM) SetPC(v uint32) error {
	if v&0x03 != 0 {
		return curated.Errorf(AlignmentError, v)
	}
	arm.registers[rPC] = v
	arm.pcWritten = true
	return nil
}

// writeRegister is used by instructions to write the destination register.
func (arm *ARM) writeRegister(r uint32, v uint32) error {
	if r == rPC {
		return arm.SetPC(v)
	}
	arm.registers[r] = v
	return nil
}

// SetIRQ sets the state of the IRQ input line.
func (arm *ARM) SetIRQ(active bool) {
	arm.irq = active
}

// SetFIQ sets the state of the FIQ input line.
func (arm *ARM) SetFIQ(active bool) {
	arm.fiq = active
}

// Cycles returns the number of cycles since the last reset.
func (arm *ARM) Cycles() int64 {
	return arm.cycles
}

// Instructions returns the number of instructions executed since the last
// reset. Instructions that failed their condition are not counted.
func (arm *ARM) Instructions() int64 {
	return arm.instructions
}

// Step executes the instruction at the PC and returns the number of cycles
// used.
func (arm *ARM) Step() (int, error) {
	pc := arm.registers[rPC]

	opcode, err := arm.mem.Read(pc, memory.Word)
	if err != nil {
		return 0, err
	}

	arm.executingPC = pc

	cond := Condition(opcode >> 28)
	if !arm.status.CheckCondition(cond) {
		if cond == NV && arm.logReservedCondition() {
			logger.Logf(logger.Allow, "ARM7", "reserved condition code at %08x (%08x)", pc, opcode)
		}
		arm.registers[rPC] = pc + 4
		arm.cycles++
		return 1, nil
	}

	// the PC seen by an instruction is two instructions ahead because of the
	// pipeline
	arm.registers[rPC] = pc + 8
	arm.pcWritten = false

	cycles, err := instructionHandlers[Decode(opcode)](arm, opcode)
	arm.cycles += int64(cycles)
	arm.instructions++
	if err != nil {
		return cycles, err
	}

	if !arm.pcWritten {
		arm.registers[rPC] -= 4
	}

	return cycles, nil
}

// Run executes instructions until the number of cycles used is equal to or
// greater than the budget. The interrupt lines are sampled after every
// instruction.
//
// Returns the budget minus the number of cycles used. The value will be
// negative if the last instruction went over the budget.
func (arm *ARM) Run(budget int) (int, error) {
	consumed := 0
	for consumed < budget {
		c, err := arm.Step()
		consumed += c
		if err != nil {
			return budget - consumed, err
		}
		arm.checkInterrupts()
	}
	return budget - consumed, nil
}

// checkInterrupts raises an exception if an interrupt line is active and the
// interrupt is not disabled. FIQ has priority over IRQ.
func (arm *ARM) checkInterrupts() {
	var e Exception

	switch {
	case arm.fiq && !arm.status.FIQDisable:
		e = ExceptionFIQ
	case arm.irq && !arm.status.IRQDisable:
		e = ExceptionIRQ
	default:
		return
	}

	// the return address in the link register is the address of the next
	// instruction plus four, as if the exception had been raised while
	// executing that instruction
	arm.registers[rPC] += 8
	arm.RaiseException(e)
}

func (arm *ARM) logMemoryFaults() bool {
	return arm.prefs == nil || arm.prefs.LogMemoryFaults.Get().(bool)
}

func (arm *ARM) abortOnMemoryFault() bool {
	return arm.prefs != nil && arm.prefs.AbortOnMemoryFault.Get().(bool)
}

func (arm *ARM) logReservedCondition() bool {
	return arm.prefs == nil || arm.prefs.LogReservedCondition.Get().(bool)
}

// dataAbort is called by instructions when a data access fails. A bad address
// raises the data abort exception. Any other error is returned unchanged.
func (arm *ARM) dataAbort(err error) error {
	if !curated.Is(err, memory.BadAddress) {
		return err
	}

	if arm.logMemoryFaults() {
		logger.Logf(logger.Allow, "ARM7", "data abort at %08x: %v", arm.executingPC, err)
	}

	if arm.abortOnMemoryFault() {
		return curated.Errorf(MemoryFault, err)
	}

	arm.RaiseException(ExceptionData)
	return nil
}
