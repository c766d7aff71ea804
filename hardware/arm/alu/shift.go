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

import (
	"fmt"
	"math/bits"
)

// Shift is the type of barrel shift operation.
type Shift uint8

// List of valid Shift values. The order is the encoding order.
const (
	LSL Shift = iota
	LSR
	ASR
	ROR
)

func (s Shift) String() string {
	switch s {
	case LSL:
		return "LSL"
	case LSR:
		return "LSR"
	case ASR:
		return "ASR"
	case ROR:
		return "ROR"
	}
	return fmt.Sprintf("shift(%d)", s)
}

// RotateRight rotates v to the right by n bits.
func RotateRight(v uint32, n uint32) uint32 {
	return bits.RotateLeft32(v, -int(n&31))
}

// SignExtend extends the sign bit of a value that is width bits wide to the
// full 32 bits.
func SignExtend(v uint32, width uint) uint32 {
	if width == 0 || width >= 32 {
		return v
	}
	s := 32 - width
	return uint32(int32(v<<s) >> s)
}

// RRX rotates v to the right by one bit through the carry flag.
func RRX(v uint32, carry bool) (uint32, bool) {
	r := v >> 1
	if carry {
		r |= 0x80000000
	}
	return r, v&0x01 == 0x01
}

// ShiftImmediate applies a shift by a 5 bit immediate amount, as encoded in
// the instruction. An encoded amount of zero for LSR and ASR means a shift by
// 32 and for ROR it means RRX. LSL #0 leaves the value and carry unchanged.
func ShiftImmediate(s Shift, v uint32, amount uint32, carry bool) (uint32, bool) {
	amount &= 0x1f

	switch s {
	case LSL:
		return shiftLeft(v, amount, carry)
	case LSR:
		if amount == 0 {
			amount = 32
		}
		return shiftRight(v, amount, carry)
	case ASR:
		if amount == 0 {
			amount = 32
		}
		return shiftArithmetic(v, amount, carry)
	case ROR:
		if amount == 0 {
			return RRX(v, carry)
		}
		return rotate(v, amount, carry)
	}

	return v, carry
}

// ShiftRegister applies a shift by the amount held in the bottom byte of a
// register. An amount of zero leaves the value and carry unchanged.
func ShiftRegister(s Shift, v uint32, amount uint32, carry bool) (uint32, bool) {
	amount &= 0xff

	switch s {
	case LSL:
		return shiftLeft(v, amount, carry)
	case LSR:
		return shiftRight(v, amount, carry)
	case ASR:
		return shiftArithmetic(v, amount, carry)
	case ROR:
		if amount == 0 {
			return v, carry
		}
		// a multiple of 32 leaves the value unchanged but the carry is
		// bit 31
		if amount&0x1f == 0 {
			return v, v&0x80000000 == 0x80000000
		}
		return rotate(v, amount&0x1f, carry)
	}

	return v, carry
}

func shiftLeft(v uint32, amount uint32, carry bool) (uint32, bool) {
	switch {
	case amount == 0:
		return v, carry
	case amount < 32:
		return v << amount, (v>>(32-amount))&0x01 == 0x01
	case amount == 32:
		return 0, v&0x01 == 0x01
	}
	return 0, false
}

func shiftRight(v uint32, amount uint32, carry bool) (uint32, bool) {
	switch {
	case amount == 0:
		return v, carry
	case amount < 32:
		return v >> amount, (v>>(amount-1))&0x01 == 0x01
	case amount == 32:
		return 0, v&0x80000000 == 0x80000000
	}
	return 0, false
}

func shiftArithmetic(v uint32, amount uint32, carry bool) (uint32, bool) {
	switch {
	case amount == 0:
		return v, carry
	case amount < 32:
		return uint32(int32(v) >> amount), (v>>(amount-1))&0x01 == 0x01
	}
	// the sign bit fills the result and is also the carry
	if v&0x80000000 == 0x80000000 {
		return 0xffffffff, true
	}
	return 0, false
}

func rotate(v uint32, amount uint32, carry bool) (uint32, bool) {
	r := RotateRight(v, amount)
	return r, r&0x80000000 == 0x80000000
}
