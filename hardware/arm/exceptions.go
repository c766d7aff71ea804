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

import "fmt"

// Exception is one of the seven exceptions of the processor. The value of
// each exception is the address of its vector.
type Exception uint32

// List of valid Exception values.
const (
	ExceptionReset     Exception = 0x00
	ExceptionUndefined Exception = 0x04
	ExceptionSoftware  Exception = 0x08
	ExceptionPrefetch  Exception = 0x0c
	ExceptionData      Exception = 0x10
	ExceptionIRQ       Exception = 0x18
	ExceptionFIQ       Exception = 0x1c
)

func (e Exception) String() string {
	switch e {
	case ExceptionReset:
		return "Reset"
	case ExceptionUndefined:
		return "Undefined"
	case ExceptionSoftware:
		return "Software Interrupt"
	case ExceptionPrefetch:
		return "Prefetch Abort"
	case ExceptionData:
		return "Data Abort"
	case ExceptionIRQ:
		return "IRQ"
	case ExceptionFIQ:
		return "FIQ"
	}
	return fmt.Sprintf("exception(%#02x)", uint32(e))
}

// the mode entered for each exception, indexed by the exception vector / 4.
// the entry for the unused vector at 0x14 is never used
var exceptionMode = [8]Mode{
	ModeSupervisor,
	ModeUndefined,
	ModeSupervisor,
	ModeAbort,
	ModeAbort,
	ModeSupervisor,
	ModeIRQ,
	ModeFIQ,
}

// RaiseException enters the exception. The return address is saved in the
// link register of the exception's mode: the current PC for a data abort and
// the PC minus four for every other exception. The reset exception does not
// save a return address.
//
// The previous status register is saved in the SPSR of the exception's mode.
// Interrupts are disabled and the PC is set to the exception vector.
func (arm *ARM) RaiseException(e Exception) {
	mode := exceptionMode[(e/4)&0x07]

	ret := arm.registers[rPC]
	if e != ExceptionData {
		ret -= 4
	}

	old := arm.status.Word()

	sr := arm.status
	sr.Mode = mode
	sr.IRQDisable = true
	if e == ExceptionReset || e == ExceptionFIQ {
		sr.FIQDisable = true
	}
	sr.Thumb = false

	arm.swapBank(bankOf(arm.status.Mode), bankOf(mode))
	arm.status = sr
	arm.SetSPSR(old)

	if e != ExceptionReset {
		arm.registers[rLR] = ret
	}

	// vectors are always aligned
	arm.registers[rPC] = uint32(e)
	arm.pcWritten = true
}
