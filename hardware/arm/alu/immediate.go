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
	"github.com/armsim/armsim/curated"
)

// Sentinal error returned by EncodeImmediate.
const (
	NotEncodable = "alu: value cannot be encoded as an immediate (%08x)"
)

// Immediate is the encoding of a constant as an 8 bit value rotated right by
// twice the Rotate value.
type Immediate struct {
	Imm8   uint8
	Rotate uint8

	// the encoding is of the bitwise inverse of the requested value. a MOV
	// must be assembled as MVN (and AND as BIC, etc.)
	Negated bool
}

// Value returns the constant the immediate represents, ignoring the Negated
// field.
func (imm Immediate) Value() uint32 {
	return RotateRight(uint32(imm.Imm8), uint32(imm.Rotate)*2)
}

// Field returns the 12 bit field for the operand 2 part of an instruction.
func (imm Immediate) Field() uint32 {
	return uint32(imm.Rotate)<<8 | uint32(imm.Imm8)
}

// EncodeImmediate searches for an encoding of v, or of its inverse, as a
// rotated 8 bit immediate.
func EncodeImmediate(v uint32) (Immediate, error) {
	for _, neg := range []bool{false, true} {
		w := v
		if neg {
			w = ^v
		}
		for rot := uint32(0); rot < 16; rot++ {
			// rotating left undoes the right rotation of the encoding
			r := RotateRight(w, 32-rot*2)
			if r <= 0xff {
				return Immediate{Imm8: uint8(r), Rotate: uint8(rot), Negated: neg}, nil
			}
		}
	}
	return Immediate{}, curated.Errorf(NotEncodable, v)
}
