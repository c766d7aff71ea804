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

package arm_test

import (
	"testing"

	"github.com/armsim/armsim/curated"
	"github.com/armsim/armsim/hardware/arm"
	"github.com/armsim/armsim/test"
)

func TestConditions(t *testing.T) {
	for f := 0; f < 16; f++ {
		sr := arm.Status{
			Negative: f&0x08 != 0,
			Zero:     f&0x04 != 0,
			Carry:    f&0x02 != 0,
			Overflow: f&0x01 != 0,
			Mode:     arm.ModeUser,
		}

		n, z, c, v := sr.Negative, sr.Zero, sr.Carry, sr.Overflow

		expected := map[arm.Condition]bool{
			arm.EQ: z,
			arm.NE: !z,
			arm.CS: c,
			arm.CC: !c,
			arm.MI: n,
			arm.PL: !n,
			arm.VS: v,
			arm.VC: !v,
			arm.HI: c && !z,
			arm.LS: !c || z,
			arm.GE: n == v,
			arm.LT: n != v,
			arm.GT: !z && n == v,
			arm.LE: z || n != v,
			arm.AL: true,
			arm.NV: false,
		}

		for cond, e := range expected {
			test.ExpectEquality(t, sr.CheckCondition(cond), e, cond, sr)
		}
	}
}

func TestStatusWord(t *testing.T) {
	sr := arm.Status{
		Negative:   true,
		Carry:      true,
		IRQDisable: true,
		Mode:       arm.ModeIRQ,
	}
	test.ExpectEquality(t, sr.Word(), uint32(0xa0000092))

	d, err := arm.StatusFromWord(0xa0000092)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, d, sr)

	// thumb state
	_, err = arm.StatusFromWord(0x000000f3)
	test.ExpectSuccess(t, curated.Is(err, arm.UnsupportedState))

	// invalid mode
	_, err = arm.StatusFromWord(0x00000005)
	test.ExpectSuccess(t, curated.Is(err, arm.UnsupportedState))
}

func TestDecode(t *testing.T) {
	pairs := []struct {
		opcode   uint32
		category arm.Category
	}{
		{0xe0904002, arm.DataProcessing},      // adds r4, r0, r2
		{0xe0a15003, arm.DataProcessing},      // adc r5, r1, r3
		{0xe280001a, arm.DataProcessing},      // add r0, r0, #26
		{0xe1510000, arm.DataProcessing},      // cmp r1, r0
		{0xeb000001, arm.Branch},              // bl 14
		{0xe12fff1e, arm.BranchExchange},      // bx lr
		{0xe3c99003, arm.DataProcessing},      // bic r9, r9, #3
		{0xee070f9a, arm.CoprocessorRegister}, // mcr 15, 0, r0, cr7, cr10, {4}
		{0xe59f2038, arm.SingleTransfer},      // ldr r2, [pc, #56]
		{0xe129f000, arm.PSRTransfer},         // msr CPSR_fc, r0
		{0xe10f1000, arm.PSRTransfer},         // mrs r1, CPSR
		{0xee080f17, arm.CoprocessorRegister}, // mcr 15, 0, r0, cr8, cr7, {0}
		{0xe3c33001, arm.DataProcessing},      // bic r3, r3, #1
		{0xee013f10, arm.CoprocessorRegister}, // mcr 15, 0, r3, cr1, cr0, {0}
		{0xe1a0f002, arm.DataProcessing},      // mov pc, r2
		{0xe59fc02c, arm.SingleTransfer},      // ldr ip, [pc, #44]
		{0xe3a000f3, arm.DataProcessing},      // mov r0, #243
		{0xe58c001f, arm.SingleTransfer},      // str r0, [ip, #31]
		{0xebfffffe, arm.Branch},              // bl 0
		{0xeafffffe, arm.Branch},              // b 58
		{0xe5901000, arm.SingleTransfer},      // ldr r1, [r0]
		{0xe3510000, arm.DataProcessing},      // cmp r1, #0
		{0x1a000000, arm.Branch},              // bne 6c
		{0xe5801000, arm.SingleTransfer},      // str r1, [r0]
		{0xe5901008, arm.SingleTransfer},      // ldr r1, [r0, #8]
		{0xe590200c, arm.SingleTransfer},      // ldr r2, [r0, #12]
		{0xe4d13001, arm.SingleTransfer},      // ldrb r3, [r1], #1
		{0x00000058, arm.DataProcessing},      // andeq r0, r0, r8, asr r0
		{0x00001341, arm.DataProcessing},      // andeq r1, r0, r1, asr #6
		{0x61750100, arm.DataProcessing},      // cmnvs r5, r0, lsl #2
		{0x01100962, arm.DataProcessing},      // tsteq r0, r2, ror #18
		{0x00000009, arm.DataProcessing},      // andeq r0, r0, r9
		{0x01180306, arm.DataProcessing},      // tsteq r8, r6, lsl #6
		{0xe0030190, arm.Multiply},            // mul r3, r0, r1
		{0xe0854290, arm.MultiplyLong},        // umull r4, r5, r0, r2
		{0xe1013090, arm.Swap},                // swp r3, r0, [r1]
		{0xe1d320b4, arm.HalfwordTransfer},    // ldrh r2, [r3, #4]
		{0xe8bd8010, arm.BlockTransfer},       // pop {r4, pc}
		{0xe7f000f0, arm.Undefined},           // undefined
		{0xed9f0a00, arm.CoprocessorTransfer}, // ldc
		{0xee000000, arm.CoprocessorData},     // cdp
		{0xef00000f, arm.SoftwareInterrupt},   // swi 15
	}

	for _, p := range pairs {
		test.ExpectEquality(t, arm.Decode(p.opcode), p.category, p.opcode)
	}
}

func TestDisassemble(t *testing.T) {
	entries := []struct {
		addr     uint32
		opcode   uint32
		expected string
	}{
		{0, 0xe0904002, "adds r4, r0, r2"},
		{0, 0xe280001a, "add r0, r0, #0x1a"},
		{0, 0xe1510000, "cmp r1, r0"},
		{0, 0x1a000000, "bne 00000008"},
		{0x38, 0xeb000002, "bl 00000048"},
		{0, 0xe12fff1e, "bx lr"},
		{0, 0xe59f2038, "ldr r2, [pc, #0x38]"},
		{0, 0xe4d13001, "ldrb r3, [r1], #0x1"},
		{0, 0xe51f0000, "ldr r0, [pc, -#0x0]"},
		{0, 0xe129f003, "msr cpsr_fc, r3"},
		{0, 0xe10f3000, "mrs r3, cpsr"},
		{0, 0xe1a000c0, "mov r0, r0, asr #1"},
		{0, 0xe0854290, "umull r4, r5, r0, r2"},
		{0, 0xe8bd8010, "ldmia sp!, {r4, pc}"},
		{0, 0xe1d320b4, "ldrh r2, [r3, #0x4]"},
		{0, 0xef00000f, "swi #0xf"},
	}

	for _, e := range entries {
		test.ExpectEquality(t, arm.Disassemble(e.addr, e.opcode).String(), e.expected)
	}
}

// the banking tests drive the register file directly through LoadCPSR
func newBankingCPU(t *testing.T) *arm.ARM {
	t.Helper()
	b := newBoard(t)
	return arm.NewARM(b.mem, nil)
}

func modeWord(m arm.Mode) uint32 {
	return arm.Status{IRQDisable: true, FIQDisable: true, Mode: m}.Word()
}

func TestSupervisorFIQRoundTrip(t *testing.T) {
	cpu := newBankingCPU(t)
	defer dumpOnFailure(t, cpu)

	test.DemandEquality(t, cpu.CPSR().Mode, arm.ModeSupervisor)
	test.DemandSuccess(t, cpu.SetRegister(13, 0x1000))
	test.DemandSuccess(t, cpu.SetRegister(14, 0x2000))
	cpu.SetSPSR(0x600000d3)

	test.DemandSuccess(t, cpu.LoadCPSR(modeWord(arm.ModeFIQ)))
	test.ExpectEquality(t, cpu.CPSR().Mode, arm.ModeFIQ)
	test.ExpectEquality(t, cpu.Register(13), uint32(0))
	test.DemandSuccess(t, cpu.SetRegister(13, 0x3000))
	test.DemandSuccess(t, cpu.SetRegister(14, 0x4000))
	cpu.SetSPSR(0x000000d1)

	test.DemandSuccess(t, cpu.LoadCPSR(modeWord(arm.ModeSupervisor)))
	test.ExpectEquality(t, cpu.Register(13), uint32(0x1000))
	test.ExpectEquality(t, cpu.Register(14), uint32(0x2000))
	spsr, ok := cpu.SPSR()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, spsr, uint32(0x600000d3))

	// the FIQ bank still holds its own values
	test.ExpectEquality(t, cpu.BankedRegister(arm.ModeFIQ, 13), uint32(0x3000))
	test.ExpectEquality(t, cpu.BankedRegister(arm.ModeFIQ, 14), uint32(0x4000))
}

func TestUserSystemShareBank(t *testing.T) {
	cpu := newBankingCPU(t)
	defer dumpOnFailure(t, cpu)

	test.DemandSuccess(t, cpu.LoadCPSR(modeWord(arm.ModeSystem)))
	for r := 8; r <= 14; r++ {
		test.DemandSuccess(t, cpu.SetRegister(r, uint32(r*0x100)))
	}

	_, ok := cpu.SPSR()
	test.ExpectFailure(t, ok)

	test.DemandSuccess(t, cpu.LoadCPSR(modeWord(arm.ModeUser)))
	for r := 8; r <= 14; r++ {
		test.ExpectEquality(t, cpu.Register(r), uint32(r*0x100), r)
	}
}

func TestFIQBanksHighRegisters(t *testing.T) {
	cpu := newBankingCPU(t)
	defer dumpOnFailure(t, cpu)

	test.DemandSuccess(t, cpu.LoadCPSR(modeWord(arm.ModeSystem)))
	test.DemandSuccess(t, cpu.SetRegister(8, 1))
	test.DemandSuccess(t, cpu.SetRegister(7, 7))

	test.DemandSuccess(t, cpu.LoadCPSR(modeWord(arm.ModeFIQ)))
	test.ExpectEquality(t, cpu.Register(8), uint32(0))
	test.ExpectEquality(t, cpu.Register(7), uint32(7))
	test.DemandSuccess(t, cpu.SetRegister(8, 2))

	// IRQ mode shares R8 with user mode
	test.DemandSuccess(t, cpu.LoadCPSR(modeWord(arm.ModeIRQ)))
	test.ExpectEquality(t, cpu.Register(8), uint32(1))
	test.ExpectEquality(t, cpu.BankedRegister(arm.ModeFIQ, 8), uint32(2))

	test.DemandSuccess(t, cpu.LoadCPSR(modeWord(arm.ModeSystem)))
	test.ExpectEquality(t, cpu.Register(8), uint32(1))
}

func TestLoadCPSRThumb(t *testing.T) {
	cpu := newBankingCPU(t)
	defer dumpOnFailure(t, cpu)

	err := cpu.LoadCPSR(modeWord(arm.ModeUser) | 0x20)
	test.ExpectSuccess(t, curated.Is(err, arm.UnsupportedState))

	// processor is unchanged
	test.ExpectEquality(t, cpu.CPSR().Mode, arm.ModeSupervisor)
}

func TestRaiseException(t *testing.T) {
	cpu := newBankingCPU(t)
	defer dumpOnFailure(t, cpu)

	test.DemandSuccess(t, cpu.LoadCPSR(arm.Status{Carry: true, Mode: arm.ModeUser}.Word()))
	test.DemandSuccess(t, cpu.SetPC(0x100))

	cpu.RaiseException(arm.ExceptionSoftware)
	test.ExpectEquality(t, cpu.PC(), uint32(0x08))
	test.ExpectEquality(t, cpu.CPSR().Mode, arm.ModeSupervisor)
	test.ExpectEquality(t, cpu.Register(14), uint32(0xfc))
	test.ExpectSuccess(t, cpu.CPSR().IRQDisable)
	test.ExpectFailure(t, cpu.CPSR().FIQDisable)
	test.ExpectSuccess(t, cpu.CPSR().Carry)

	spsr, ok := cpu.SPSR()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, spsr, arm.Status{Carry: true, Mode: arm.ModeUser}.Word())

	cpu.RaiseException(arm.ExceptionReset)
	test.ExpectEquality(t, cpu.PC(), uint32(0x00))
	test.ExpectSuccess(t, cpu.CPSR().IRQDisable)
	test.ExpectSuccess(t, cpu.CPSR().FIQDisable)

	// reset does not write the link register
	test.ExpectEquality(t, cpu.Register(14), uint32(0xfc))
}

func TestSetPCAlignment(t *testing.T) {
	cpu := newBankingCPU(t)
	err := cpu.SetPC(0x102)
	test.ExpectSuccess(t, curated.Is(err, arm.AlignmentError))
	test.ExpectEquality(t, cpu.PC(), uint32(0))
}
