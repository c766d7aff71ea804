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
	"github.com/armsim/armsim/curated"
	"github.com/armsim/armsim/hardware/arm/alu"
)

// branchCycles is the cost of any instruction that refills the pipeline.
const branchCycles = 3

func (arm *ARM) executeBranch(opcode uint32) (int, error) {
	offset := alu.SignExtend((opcode&0x00ffffff)<<2, 26)

	if opcode&(1<<24) != 0 {
		arm.registers[rLR] = arm.registers[rPC] - 4
	}

	return branchCycles, arm.SetPC(arm.registers[rPC] + offset)
}

func (arm *ARM) executeBranchExchange(opcode uint32) (int, error) {
	addr := arm.registers[opcode&0x0f]

	// switching to thumb state is not supported
	if addr&0x01 != 0 {
		return branchCycles, curated.Errorf(UnsupportedState, "thumb")
	}

	return branchCycles, arm.SetPC(addr)
}

func (arm *ARM) executeSoftwareInterrupt(_ uint32) (int, error) {
	arm.RaiseException(ExceptionSoftware)
	return branchCycles, nil
}

// coprocessor instructions are also undefined because there are no
// coprocessors.
func (arm *ARM) executeUndefined(_ uint32) (int, error) {
	arm.RaiseException(ExceptionUndefined)
	return branchCycles, nil
}
