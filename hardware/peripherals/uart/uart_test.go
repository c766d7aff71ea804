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

package uart_test

import (
	"testing"

	"github.com/armsim/armsim/hardware/memory"
	"github.com/armsim/armsim/hardware/peripherals/uart"
	"github.com/armsim/armsim/hardware/vm"
	"github.com/armsim/armsim/notifications"
	"github.com/armsim/armsim/test"
)

const base = 0xe0000000

// the virtual machine runs a single branch instruction forever
func newVM(t *testing.T) *vm.VM {
	t.Helper()
	rom := memory.NewRegion(0, 4, nil, nil)
	test.DemandSuccess(t, rom.Seed(memory.Image{Data: []byte{0xfe, 0xff, 0xff, 0xea}}))
	v, err := vm.NewVM(1e6, nil, rom)
	test.DemandSuccess(t, err)
	return v
}

// run the virtual machine for a number of simulated seconds
func runFor(t *testing.T, v *vm.VM, seconds float64) {
	t.Helper()
	end := v.TickCount() + seconds
	for v.TickCount() < end {
		_, err := v.Run(12)
		test.DemandSuccess(t, err)
	}
}

type fixture struct {
	v         *vm.VM
	u         *uart.UART
	sent      []byte
	interrupt bool
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{v: newVM(t)}
	f.u = uart.NewUART("UART0", base, func(active bool) {
		f.interrupt = active
	})
	test.DemandSuccess(t, f.v.RegisterDevice(f.u))
	f.v.On(notifications.NotifyUARTData, func(_ notifications.Notice, sender any, args any) {
		f.sent = append(f.sent, args.(uint8))
	})
	return f
}

func (f *fixture) read(t *testing.T, reg uint32) uint32 {
	t.Helper()
	v, err := f.v.Mem.Read(base+reg, memory.Word)
	test.DemandSuccess(t, err)
	return v
}

func (f *fixture) write(t *testing.T, reg uint32, value uint32) {
	t.Helper()
	test.DemandSuccess(t, f.v.Mem.Write(base+reg, memory.Word, value))
}

// 38400 baud, 8 bits, no parity, one stop bit
func (f *fixture) configure(t *testing.T, fcr uint32) {
	t.Helper()
	f.write(t, uart.IER, 0x00)
	f.write(t, uart.LCR, 0x80)
	f.write(t, uart.RBR, 0x03)
	f.write(t, uart.IER, 0x00)
	f.write(t, uart.LCR, 0x03)
	f.write(t, uart.IIR, fcr)
	f.write(t, uart.MCR, 0x0b)
}

// time to transfer one character at 38400 baud
const characterTime = 10.0 / 38400.0

func TestResetValues(t *testing.T) {
	f := newFixture(t)
	test.ExpectEquality(t, f.read(t, uart.IER), uint32(0x00))
	test.ExpectEquality(t, f.read(t, uart.IIR), uint32(0x01))
	test.ExpectEquality(t, f.read(t, uart.LCR), uint32(0x00))
	test.ExpectEquality(t, f.read(t, uart.MCR), uint32(0x00))
	test.ExpectEquality(t, f.read(t, uart.LSR), uint32(0x60))
}

func TestDivisorLatch(t *testing.T) {
	f := newFixture(t)
	f.write(t, uart.LCR, 0x80)
	f.write(t, uart.RBR, 0x03)
	f.write(t, uart.IER, 0x01)
	test.ExpectEquality(t, f.read(t, uart.RBR), uint32(0x03))
	test.ExpectEquality(t, f.read(t, uart.IER), uint32(0x01))
	test.ExpectApproximate(t, f.u.Baudrate(), 1843200.0/(16*0x0103), 1.0)

	// with DLAB cleared the same offsets are the data and interrupt enable
	// registers
	f.write(t, uart.LCR, 0x03)
	test.ExpectEquality(t, f.read(t, uart.IER), uint32(0x00))
}

func TestTransmit(t *testing.T) {
	f := newFixture(t)
	f.configure(t, 0xc7)

	for _, c := range []byte("Hello") {
		f.write(t, uart.RBR, uint32(c))
		runFor(t, f.v, 2*characterTime)
	}

	test.ExpectEquality(t, string(f.sent), "Hello")
	test.ExpectEquality(t, f.read(t, uart.LSR)&0x60, uint32(0x60))
}

func TestTransmitFIFO(t *testing.T) {
	f := newFixture(t)
	f.configure(t, 0xc7)

	// characters are queued in the FIFO
	for _, c := range []byte("Hello") {
		f.write(t, uart.RBR, uint32(c))
	}
	test.ExpectEquality(t, f.read(t, uart.LSR)&0x40, uint32(0x00))

	runFor(t, f.v, 10*characterTime)
	test.ExpectEquality(t, string(f.sent), "Hello")
}

func TestReceive(t *testing.T) {
	f := newFixture(t)
	f.configure(t, 0x00)
	f.write(t, uart.IER, 0x01)

	f.u.SerialInput('A')
	test.ExpectEquality(t, f.read(t, uart.LSR)&0x01, uint32(0x00))

	runFor(t, f.v, 2*characterTime)
	test.ExpectEquality(t, f.read(t, uart.LSR)&0x01, uint32(0x01))
	test.ExpectEquality(t, f.read(t, uart.IIR), uint32(0x04))
	test.ExpectSuccess(t, f.interrupt)

	test.ExpectEquality(t, f.read(t, uart.RBR), uint32('A'))
	test.ExpectEquality(t, f.read(t, uart.LSR)&0x01, uint32(0x00))
	test.ExpectFailure(t, f.interrupt)
}

func TestOverrun(t *testing.T) {
	f := newFixture(t)
	f.configure(t, 0x00)

	f.u.SerialInput('A')
	f.u.SerialInput('B')
	runFor(t, f.v, 3*characterTime)

	// the first character was lost
	test.ExpectEquality(t, f.read(t, uart.LSR)&0x03, uint32(0x03))
	test.ExpectEquality(t, f.read(t, uart.LSR)&0x03, uint32(0x01))
	test.ExpectEquality(t, f.read(t, uart.RBR), uint32('B'))
}

func TestReceiveFIFO(t *testing.T) {
	f := newFixture(t)
	f.configure(t, 0xc7)
	f.write(t, uart.IER, 0x01)

	for _, c := range []byte("abc") {
		f.u.SerialInput(c)
	}
	runFor(t, f.v, 4*characterTime)

	// below the trigger level of 14 characters
	test.ExpectEquality(t, f.read(t, uart.IIR), uint32(0xc1))

	// the character timeout indication is raised after four character times
	runFor(t, f.v, 5*characterTime)
	test.ExpectEquality(t, f.read(t, uart.IIR), uint32(0xcc))
	test.ExpectSuccess(t, f.interrupt)

	var s []byte
	for f.read(t, uart.LSR)&0x01 == 0x01 {
		s = append(s, uint8(f.read(t, uart.RBR)))
	}
	test.ExpectEquality(t, string(s), "abc")
	test.ExpectEquality(t, f.read(t, uart.IIR), uint32(0xc1))
}

func TestUnregister(t *testing.T) {
	f := newFixture(t)
	test.ExpectSuccess(t, f.v.UnregisterDevice(f.u))
	_, err := f.v.Mem.Read(base+uart.LSR, memory.Word)
	test.ExpectFailure(t, err)
}
