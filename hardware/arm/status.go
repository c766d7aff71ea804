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
	"github.com/armsim/armsim/hardware/arm/alu"
)

// Mode is the operating mode of the processor.
type Mode uint8

// List of valid Mode values. The values are the encoding of the mode in the
// bottom five bits of the status register.
const (
	ModeUser       Mode = 0x10
	ModeFIQ        Mode = 0x11
	ModeIRQ        Mode = 0x12
	ModeSupervisor Mode = 0x13
	ModeAbort      Mode = 0x17
	ModeUndefined  Mode = 0x1b
	ModeSystem     Mode = 0x1f
)

func (m Mode) String() string {
	switch m {
	case ModeUser:
		return "User"
	case ModeFIQ:
		return "FIQ"
	case ModeIRQ:
		return "IRQ"
	case ModeSupervisor:
		return "Supervisor"
	case ModeAbort:
		return "Abort"
	case ModeUndefined:
		return "Undefined"
	case ModeSystem:
		return "System"
	}
	return fmt.Sprintf("mode(%#02x)", uint8(m))
}

// Valid returns true if the mode is one of the seven modes of the processor.
func (m Mode) Valid() bool {
	switch m {
	case ModeUser, ModeFIQ, ModeIRQ, ModeSupervisor, ModeAbort, ModeUndefined, ModeSystem:
		return true
	}
	return false
}

// Privileged returns true for every mode except User mode.
func (m Mode) Privileged() bool {
	return m != ModeUser
}

// bit positions in the status register.
const (
	bitN     = 31
	bitZ     = 30
	bitC     = 29
	bitV     = 28
	bitI     = 7
	bitF     = 6
	bitT     = 5
	modeMask = 0x1f
)

// Status is the program status register.
type Status struct {
	Negative bool
	Zero     bool
	Carry    bool
	Overflow bool

	// interrupt masks. a value of true means the interrupt is disabled
	IRQDisable bool
	FIQDisable bool

	// Thumb state. always false because Thumb state is not supported
	Thumb bool

	Mode Mode
}

// StatusFromWord decodes a status register word. A word with the T bit set
// or with an invalid mode fails with UnsupportedState.
func StatusFromWord(w uint32) (Status, error) {
	sr := Status{
		Negative:   w&(1<<bitN) != 0,
		Zero:       w&(1<<bitZ) != 0,
		Carry:      w&(1<<bitC) != 0,
		Overflow:   w&(1<<bitV) != 0,
		IRQDisable: w&(1<<bitI) != 0,
		FIQDisable: w&(1<<bitF) != 0,
		Thumb:      w&(1<<bitT) != 0,
		Mode:       Mode(w & modeMask),
	}

	if sr.Thumb {
		return Status{}, curated.Errorf(UnsupportedState, "thumb")
	}
	if !sr.Mode.Valid() {
		return Status{}, curated.Errorf(UnsupportedState, sr.Mode)
	}

	return sr, nil
}

// Word encodes the status register.
func (sr Status) Word() uint32 {
	w := uint32(sr.Mode) & modeMask
	if sr.Negative {
		w |= 1 << bitN
	}
	if sr.Zero {
		w |= 1 << bitZ
	}
	if sr.Carry {
		w |= 1 << bitC
	}
	if sr.Overflow {
		w |= 1 << bitV
	}
	if sr.IRQDisable {
		w |= 1 << bitI
	}
	if sr.FIQDisable {
		w |= 1 << bitF
	}
	if sr.Thumb {
		w |= 1 << bitT
	}
	return w
}

func (sr Status) String() string {
	s := strings.Builder{}

	flag := func(b bool, set, unset rune) {
		if b {
			s.WriteRune(set)
		} else {
			s.WriteRune(unset)
		}
	}

	flag(sr.Negative, 'N', 'n')
	flag(sr.Zero, 'Z', 'z')
	flag(sr.Carry, 'C', 'c')
	flag(sr.Overflow, 'V', 'v')
	s.WriteRune(' ')
	flag(sr.IRQDisable, 'I', 'i')
	flag(sr.FIQDisable, 'F', 'f')
	flag(sr.Thumb, 'T', 't')
	s.WriteRune(' ')
	s.WriteString(sr.Mode.String())

	return s.String()
}

// Flags returns the condition flags in the form used by the alu package.
func (sr Status) Flags() alu.Flags {
	return alu.Flags{
		N: sr.Negative,
		Z: sr.Zero,
		C: sr.Carry,
		V: sr.Overflow,
	}
}

func (sr *Status) setFlags(f alu.Flags) {
	sr.Negative = f.N
	sr.Zero = f.Z
	sr.Carry = f.C
	sr.Overflow = f.V
}

// Condition is the four bit condition field at the top of every instruction.
type Condition uint8

// List of valid Condition values.
const (
	EQ Condition = iota
	NE
	CS
	CC
	MI
	PL
	VS
	VC
	HI
	LS
	GE
	LT
	GT
	LE
	AL
	NV
)

var conditionNames = [...]string{
	"EQ", "NE", "CS", "CC", "MI", "PL", "VS", "VC",
	"HI", "LS", "GE", "LT", "GT", "LE", "", "NV",
}

func (c Condition) String() string {
	return conditionNames[c&0x0f]
}

// CheckCondition returns true if the condition passes for the current state
// of the condition flags. The reserved condition NV never passes.
func (sr Status) CheckCondition(cond Condition) bool {
	switch cond {
	case EQ:
		return sr.Zero
	case NE:
		return !sr.Zero
	case CS:
		return sr.Carry
	case CC:
		return !sr.Carry
	case MI:
		return sr.Negative
	case PL:
		return !sr.Negative
	case VS:
		return sr.Overflow
	case VC:
		return !sr.Overflow
	case HI:
		// unsigned higher C==1 and Z==0
		return sr.Carry && !sr.Zero
	case LS:
		// unsigned lower or same C==0 or Z==1
		return !sr.Carry || sr.Zero
	case GE:
		return sr.Negative == sr.Overflow
	case LT:
		return sr.Negative != sr.Overflow
	case GT:
		return !sr.Zero && sr.Negative == sr.Overflow
	case LE:
		return sr.Zero || sr.Negative != sr.Overflow
	case AL:
		return true
	}
	return false
}
