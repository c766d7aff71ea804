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

package alu_test

import (
	"math/rand"
	"testing"

	"github.com/armsim/armsim/curated"
	"github.com/armsim/armsim/hardware/arm/alu"
	"github.com/armsim/armsim/test"
)

func TestAddSubtractRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(0x4152)) //nolint:gosec

	for i := 0; i < 10000; i++ {
		a := rnd.Uint32()
		b := rnd.Uint32()
		r, _ := alu.Execute(alu.ADD, a, b, alu.Flags{}, false)
		s, _ := alu.Execute(alu.SUB, r, b, alu.Flags{}, false)
		if !test.ExpectEquality(t, s, a, a, b) {
			return
		}
	}
}

func TestAddFlags(t *testing.T) {
	r, f := alu.Execute(alu.ADD, 0x7fffffff, 1, alu.Flags{}, false)
	test.ExpectEquality(t, r, uint32(0x80000000))
	test.ExpectEquality(t, f, alu.Flags{N: true, V: true})

	r, f = alu.Execute(alu.ADD, 0xffffffff, 1, alu.Flags{}, false)
	test.ExpectEquality(t, r, uint32(0))
	test.ExpectEquality(t, f, alu.Flags{Z: true, C: true})

	// carry in
	r, f = alu.Execute(alu.ADC, 0xfffffffe, 1, alu.Flags{C: true}, false)
	test.ExpectEquality(t, r, uint32(0))
	test.ExpectEquality(t, f, alu.Flags{Z: true, C: true})
}

func TestSubtractFlags(t *testing.T) {
	// no borrow means carry set
	r, f := alu.Execute(alu.SUB, 5, 3, alu.Flags{}, false)
	test.ExpectEquality(t, r, uint32(2))
	test.ExpectEquality(t, f, alu.Flags{C: true})

	r, f = alu.Execute(alu.CMP, 3, 5, alu.Flags{}, false)
	test.ExpectEquality(t, r, uint32(0xfffffffe))
	test.ExpectEquality(t, f, alu.Flags{N: true})

	r, f = alu.Execute(alu.CMP, 0x80000000, 1, alu.Flags{}, false)
	test.ExpectEquality(t, r, uint32(0x7fffffff))
	test.ExpectEquality(t, f, alu.Flags{C: true, V: true})

	r, f = alu.Execute(alu.RSB, 1, 0, alu.Flags{}, false)
	test.ExpectEquality(t, r, uint32(0xffffffff))
	test.ExpectEquality(t, f, alu.Flags{N: true})

	// SBC with carry clear subtracts one more
	r, _ = alu.Execute(alu.SBC, 10, 3, alu.Flags{}, false)
	test.ExpectEquality(t, r, uint32(6))
	r, _ = alu.Execute(alu.SBC, 10, 3, alu.Flags{C: true}, false)
	test.ExpectEquality(t, r, uint32(7))
	r, _ = alu.Execute(alu.RSC, 3, 10, alu.Flags{}, false)
	test.ExpectEquality(t, r, uint32(6))
}

func TestLogical(t *testing.T) {
	in := alu.Flags{V: true}

	r, f := alu.Execute(alu.AND, 0xf0f0, 0xff00, in, true)
	test.ExpectEquality(t, r, uint32(0xf000))
	test.ExpectEquality(t, f, alu.Flags{C: true, V: true})

	r, _ = alu.Execute(alu.EOR, 0xf0f0, 0xff00, in, false)
	test.ExpectEquality(t, r, uint32(0x0ff0))
	r, _ = alu.Execute(alu.ORR, 0xf0f0, 0xff00, in, false)
	test.ExpectEquality(t, r, uint32(0xfff0))
	r, _ = alu.Execute(alu.BIC, 0xf0f0, 0xff00, in, false)
	test.ExpectEquality(t, r, uint32(0x00f0))
	r, _ = alu.Execute(alu.MOV, 0xdead, 0x1234, in, false)
	test.ExpectEquality(t, r, uint32(0x1234))

	r, f = alu.Execute(alu.MVN, 0, 0, in, false)
	test.ExpectEquality(t, r, uint32(0xffffffff))
	test.ExpectEquality(t, f, alu.Flags{N: true, V: true})

	_, f = alu.Execute(alu.TEQ, 0x1234, 0x1234, alu.Flags{}, false)
	test.ExpectEquality(t, f, alu.Flags{Z: true})
}

func TestOpcodeClasses(t *testing.T) {
	for op := alu.AND; op <= alu.MVN; op++ {
		comparison := op == alu.TST || op == alu.TEQ || op == alu.CMP || op == alu.CMN
		test.ExpectEquality(t, op.IsComparison(), comparison, op)
	}
	test.ExpectSuccess(t, alu.MVN.IsLogical())
	test.ExpectFailure(t, alu.CMP.IsLogical())
	test.ExpectFailure(t, alu.MOV.UsesFirstOperand())
	test.ExpectEquality(t, alu.RSC.String(), "RSC")
}

func TestShiftImmediate(t *testing.T) {
	var r uint32
	var c bool

	// LSL #0 leaves carry alone
	r, c = alu.ShiftImmediate(alu.LSL, 0x80000001, 0, true)
	test.ExpectEquality(t, r, uint32(0x80000001))
	test.ExpectSuccess(t, c)

	r, c = alu.ShiftImmediate(alu.LSL, 0x80000001, 1, false)
	test.ExpectEquality(t, r, uint32(0x00000002))
	test.ExpectSuccess(t, c)

	// LSR #0 is LSR #32
	r, c = alu.ShiftImmediate(alu.LSR, 0x80000000, 0, false)
	test.ExpectEquality(t, r, uint32(0))
	test.ExpectSuccess(t, c)

	r, c = alu.ShiftImmediate(alu.LSR, 0x00000003, 1, false)
	test.ExpectEquality(t, r, uint32(1))
	test.ExpectSuccess(t, c)

	// ASR #0 is ASR #32
	r, c = alu.ShiftImmediate(alu.ASR, 0x80000000, 0, false)
	test.ExpectEquality(t, r, uint32(0xffffffff))
	test.ExpectSuccess(t, c)

	r, _ = alu.ShiftImmediate(alu.ASR, 0x80000000, 4, false)
	test.ExpectEquality(t, r, uint32(0xf8000000))

	// ROR #0 is RRX
	r, c = alu.ShiftImmediate(alu.ROR, 0x00000003, 0, true)
	test.ExpectEquality(t, r, uint32(0x80000001))
	test.ExpectSuccess(t, c)

	r, c = alu.ShiftImmediate(alu.ROR, 0x000000f1, 4, false)
	test.ExpectEquality(t, r, uint32(0x1000000f))
	test.ExpectFailure(t, c)
}

func TestShiftRegister(t *testing.T) {
	var r uint32
	var c bool

	// zero amount leaves carry alone for every shift type
	for s := alu.LSL; s <= alu.ROR; s++ {
		r, c = alu.ShiftRegister(s, 0x12345678, 0, true)
		test.ExpectEquality(t, r, uint32(0x12345678), s)
		test.ExpectSuccess(t, c, s)
	}

	// only the bottom byte of the register is used
	r, _ = alu.ShiftRegister(alu.LSL, 1, 0x104, false)
	test.ExpectEquality(t, r, uint32(0x10))

	r, c = alu.ShiftRegister(alu.LSL, 1, 32, false)
	test.ExpectEquality(t, r, uint32(0))
	test.ExpectSuccess(t, c)

	r, c = alu.ShiftRegister(alu.LSL, 1, 33, true)
	test.ExpectEquality(t, r, uint32(0))
	test.ExpectFailure(t, c)

	r, c = alu.ShiftRegister(alu.LSR, 0x80000000, 32, false)
	test.ExpectEquality(t, r, uint32(0))
	test.ExpectSuccess(t, c)

	r, c = alu.ShiftRegister(alu.ASR, 0x80000000, 40, false)
	test.ExpectEquality(t, r, uint32(0xffffffff))
	test.ExpectSuccess(t, c)

	r, c = alu.ShiftRegister(alu.ROR, 0x80000000, 32, false)
	test.ExpectEquality(t, r, uint32(0x80000000))
	test.ExpectSuccess(t, c)

	r, _ = alu.ShiftRegister(alu.ROR, 0x0000000f, 36, false)
	test.ExpectEquality(t, r, uint32(0xf0000000))
}

func TestSignExtend(t *testing.T) {
	test.ExpectEquality(t, alu.SignExtend(0x80, 8), uint32(0xffffff80))
	test.ExpectEquality(t, alu.SignExtend(0x7f, 8), uint32(0x7f))
	test.ExpectEquality(t, alu.SignExtend(0x8000, 16), uint32(0xffff8000))
	test.ExpectEquality(t, alu.SignExtend(0x00ffffff<<2, 26), uint32(0xfffffffc))
}

func TestEncodeImmediate(t *testing.T) {
	// every representable value survives the round trip
	for imm := uint32(0); imm <= 0xff; imm++ {
		for rot := uint32(0); rot < 16; rot++ {
			v := alu.RotateRight(imm, rot*2)
			e, err := alu.EncodeImmediate(v)
			if !test.ExpectSuccess(t, err, v) {
				return
			}
			test.ExpectFailure(t, e.Negated, v)
			test.ExpectEquality(t, alu.RotateRight(uint32(e.Imm8), uint32(e.Rotate)*2), v, v)
		}
	}

	// inverse encodings
	e, err := alu.EncodeImmediate(0xffffff00)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, e.Negated)
	test.ExpectEquality(t, ^e.Value(), uint32(0xffffff00))

	// unrepresentable values
	for _, v := range []uint32{0x101, 0x12345678, 0x1fe00001, 0x00fff000} {
		_, err = alu.EncodeImmediate(v)
		test.ExpectSuccess(t, curated.Is(err, alu.NotEncodable), v)
	}

	e, err = alu.EncodeImmediate(0x3fc)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, e.Field(), uint32(0xfff))
}
