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

// bank is an index into the table of banked registers. User and System mode
// share a bank.
type bank int

const (
	bankUser bank = iota
	bankFIQ
	bankIRQ
	bankSupervisor
	bankAbort
	bankUndefined
	numBanks
)

func bankOf(m Mode) bank {
	switch m {
	case ModeFIQ:
		return bankFIQ
	case ModeIRQ:
		return bankIRQ
	case ModeSupervisor:
		return bankSupervisor
	case ModeAbort:
		return bankAbort
	case ModeUndefined:
		return bankUndefined
	}
	return bankUser
}

// the banked registers for one bank. the R8 to R12 slots are only used by the
// User and FIQ banks. every other mode shares R8 to R12 with User mode
type bankedRegisters struct {
	r    [7]uint32 // R8 to R14
	spsr uint32
}

const (
	firstBanked = 8
	firstFIQ    = 8
	firstShared = 13
)

// swapBank saves the active registers belonging to the from bank and loads
// the registers belonging to the to bank.
func (arm *ARM) swapBank(from, to bank) {
	if from == to {
		return
	}

	if from == bankFIQ {
		for i := firstFIQ; i <= rLR; i++ {
			arm.banked[bankFIQ].r[i-firstBanked] = arm.registers[i]
		}
	} else {
		for i := firstFIQ; i < firstShared; i++ {
			arm.banked[bankUser].r[i-firstBanked] = arm.registers[i]
		}
		for i := firstShared; i <= rLR; i++ {
			arm.banked[from].r[i-firstBanked] = arm.registers[i]
		}
	}

	if to == bankFIQ {
		for i := firstFIQ; i <= rLR; i++ {
			arm.registers[i] = arm.banked[bankFIQ].r[i-firstBanked]
		}
	} else {
		for i := firstFIQ; i < firstShared; i++ {
			arm.registers[i] = arm.banked[bankUser].r[i-firstBanked]
		}
		for i := firstShared; i <= rLR; i++ {
			arm.registers[i] = arm.banked[to].r[i-firstBanked]
		}
	}
}

// LoadCPSR replaces the status register with the decoded word, switching
// the banked registers if the mode changes. A word with the T bit set or with
// an invalid mode fails with UnsupportedState and leaves the processor
// unchanged.
//
// The SPSR of the new mode is not changed. Only exception entry writes the
// SPSR.
func (arm *ARM) LoadCPSR(w uint32) error {
	sr, err := StatusFromWord(w)
	if err != nil {
		return err
	}
	arm.swapBank(bankOf(arm.status.Mode), bankOf(sr.Mode))
	arm.status = sr
	return nil
}

// CPSR returns the current program status register.
func (arm *ARM) CPSR() Status {
	return arm.status
}

// SPSR returns the saved program status register of the current mode. User
// and System mode have no SPSR, in which case the second return value is
// false.
func (arm *ARM) SPSR() (uint32, bool) {
	b := bankOf(arm.status.Mode)
	if b == bankUser {
		return 0, false
	}
	return arm.banked[b].spsr, true
}

// SetSPSR sets the saved program status register of the current mode. It
// does nothing in User or System mode.
func (arm *ARM) SetSPSR(w uint32) {
	b := bankOf(arm.status.Mode)
	if b == bankUser {
		return
	}
	arm.banked[b].spsr = w
}

// BankedRegister returns the value of register r as seen in mode m, whatever
// the current mode. For registers that are not banked in that mode the value
// is the same as the value returned by Register().
func (arm *ARM) BankedRegister(m Mode, r int) uint32 {
	if r < firstBanked || r > rLR {
		return arm.registers[r]
	}

	cur := bankOf(arm.status.Mode)
	want := bankOf(m)

	// registers R8 to R12 are shared by every bank other than FIQ
	if r < firstShared {
		if (cur == bankFIQ) == (want == bankFIQ) {
			return arm.registers[r]
		}
		if want == bankFIQ {
			return arm.banked[bankFIQ].r[r-firstBanked]
		}
		return arm.banked[bankUser].r[r-firstBanked]
	}

	if cur == want {
		return arm.registers[r]
	}
	return arm.banked[want].r[r-firstBanked]
}

// userRegister and setUserRegister are used by the block transfer
// instructions with the S bit set.
func (arm *ARM) userRegister(r int) uint32 {
	return arm.BankedRegister(ModeUser, r)
}

func (arm *ARM) setUserRegister(r int, v uint32) {
	cur := bankOf(arm.status.Mode)
	switch {
	case r < firstBanked || r > rLR:
		arm.registers[r] = v
	case cur == bankUser:
		arm.registers[r] = v
	case r < firstShared && cur != bankFIQ:
		arm.registers[r] = v
	default:
		arm.banked[bankUser].r[r-firstBanked] = v
	}
}
