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

// Category is the result of decoding an instruction.
type Category int

// List of valid Category values.
const (
	DataProcessing Category = iota
	PSRTransfer
	Multiply
	MultiplyLong
	Swap
	BranchExchange
	HalfwordTransfer
	SingleTransfer
	Undefined
	BlockTransfer
	Branch
	CoprocessorTransfer
	CoprocessorData
	CoprocessorRegister
	SoftwareInterrupt
	numCategories
)

var categoryNames = [numCategories]string{
	"DataProcessing",
	"PSRTransfer",
	"Multiply",
	"MultiplyLong",
	"Swap",
	"BranchExchange",
	"HalfwordTransfer",
	"SingleTransfer",
	"Undefined",
	"BlockTransfer",
	"Branch",
	"CoprocessorTransfer",
	"CoprocessorData",
	"CoprocessorRegister",
	"SoftwareInterrupt",
}

func (c Category) String() string {
	if c < 0 || c >= numCategories {
		return "unknown"
	}
	return categoryNames[c]
}

// Decode returns the category of the instruction. The condition field is
// ignored.
func Decode(opcode uint32) Category {
	switch (opcode >> 25) & 0x07 {
	case 0b000:
		if (opcode>>4)&0x1fffff == 0x12fff1 {
			return BranchExchange
		}

		b74 := (opcode >> 4) & 0x0f
		if b74 == 0b1001 {
			if opcode&(1<<24) != 0 {
				return Swap
			}
			if opcode&(1<<23) != 0 {
				return MultiplyLong
			}
			return Multiply
		}
		if b74 == 0b1011 || b74 == 0b1101 || b74 == 0b1111 {
			return HalfwordTransfer
		}
		if isPSRTransfer(opcode) {
			return PSRTransfer
		}
		if b74&0b1001 != 0b1001 {
			return DataProcessing
		}
		return Undefined

	case 0b001:
		if isPSRTransfer(opcode) {
			return PSRTransfer
		}
		return DataProcessing

	case 0b010:
		return SingleTransfer

	case 0b011:
		if opcode&(1<<4) != 0 {
			return Undefined
		}
		return SingleTransfer

	case 0b100:
		return BlockTransfer

	case 0b101:
		return Branch

	case 0b110:
		return CoprocessorTransfer
	}

	// 0b111
	if opcode&(1<<24) != 0 {
		return SoftwareInterrupt
	}
	if opcode&(1<<4) != 0 {
		return CoprocessorRegister
	}
	return CoprocessorData
}

// the comparison opcodes without the S bit are the MRS and MSR instructions.
func isPSRTransfer(opcode uint32) bool {
	return (opcode>>23)&0x03 == 0b10 && opcode&(1<<20) == 0
}

// instructionHandler executes an instruction and returns the number of
// cycles used.
type instructionHandler func(arm *ARM, opcode uint32) (int, error)

var instructionHandlers [numCategories]instructionHandler

func init() {
	instructionHandlers = [numCategories]instructionHandler{
		DataProcessing:      (*ARM).executeDataProcessing,
		PSRTransfer:         (*ARM).executePSRTransfer,
		Multiply:            (*ARM).executeMultiply,
		MultiplyLong:        (*ARM).executeMultiplyLong,
		Swap:                (*ARM).executeSwap,
		BranchExchange:      (*ARM).executeBranchExchange,
		HalfwordTransfer:    (*ARM).executeHalfwordTransfer,
		SingleTransfer:      (*ARM).executeSingleTransfer,
		Undefined:           (*ARM).executeUndefined,
		BlockTransfer:       (*ARM).executeBlockTransfer,
		Branch:              (*ARM).executeBranch,
		CoprocessorTransfer: (*ARM).executeUndefined,
		CoprocessorData:     (*ARM).executeUndefined,
		CoprocessorRegister: (*ARM).executeUndefined,
		SoftwareInterrupt:   (*ARM).executeSoftwareInterrupt,
	}
}
