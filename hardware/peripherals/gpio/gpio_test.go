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

package gpio_test

import (
	"testing"

	"github.com/armsim/armsim/hardware/memory"
	"github.com/armsim/armsim/hardware/peripherals/gpio"
	"github.com/armsim/armsim/hardware/vm"
	"github.com/armsim/armsim/test"
)

const base = 0xe001c000

type fixture struct {
	v     *vm.VM
	g     *gpio.GPIO
	read  gpio.ReadFunc
	write gpio.WriteFunc
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	rom := memory.NewRegion(0, 4, nil, nil)
	test.DemandSuccess(t, rom.Seed(memory.Image{Data: []byte{0xfe, 0xff, 0xff, 0xea}}))
	v, err := vm.NewVM(1e6, nil, rom)
	test.DemandSuccess(t, err)

	f := &fixture{v: v}
	f.g = gpio.NewGPIO(base, 2, func(port int) uint32 {
		if f.read == nil {
			return 0
		}
		return f.read(port)
	}, func(port int, value uint32, set bool, clear bool, dir uint32) {
		if f.write != nil {
			f.write(port, value, set, clear, dir)
		}
	})
	test.DemandSuccess(t, v.RegisterDevice(f.g))
	return f
}

func (f *fixture) get(t *testing.T, reg uint32) uint32 {
	t.Helper()
	v, err := f.v.Mem.Read(base+reg, memory.Word)
	test.DemandSuccess(t, err)
	return v
}

func (f *fixture) put(t *testing.T, reg uint32, value uint32) {
	t.Helper()
	test.DemandSuccess(t, f.v.Mem.Write(base+reg, memory.Word, value))
}

func TestResetValues(t *testing.T) {
	f := newFixture(t)
	test.ExpectEquality(t, f.get(t, gpio.IODIR), 0)
	test.ExpectEquality(t, f.get(t, gpio.PortSize+gpio.IODIR), 0)

	// two ports only
	_, err := f.v.Mem.Read(base+2*gpio.PortSize, memory.Word)
	test.ExpectFailure(t, err)
}

func TestReadPort(t *testing.T) {
	f := newFixture(t)

	ports := []uint32{0x12345678, 0x87654321}
	f.read = func(port int) uint32 {
		return ports[port]
	}

	test.ExpectEquality(t, f.get(t, gpio.IOPIN), ports[0])
	test.ExpectEquality(t, f.get(t, gpio.PortSize+gpio.IOPIN), ports[1])
}

func TestWritePort(t *testing.T) {
	f := newFixture(t)

	ports := []uint32{0, 0}
	f.write = func(port int, value uint32, set bool, clear bool, _ uint32) {
		if set {
			ports[port] |= value
		}
		if clear {
			ports[port] &= value
		}
	}
	f.read = func(port int) uint32 {
		return ports[port]
	}

	// IOxPIN can be written whatever the direction of the pins
	test.ExpectEquality(t, f.get(t, gpio.IOPIN), 0)
	f.put(t, gpio.IOPIN, 0x12345678)
	test.ExpectEquality(t, f.get(t, gpio.IOPIN), 0x12345678)
	test.ExpectEquality(t, f.get(t, gpio.PortSize+gpio.IOPIN), 0)

	f.put(t, gpio.PortSize+gpio.IOPIN, 0x44444444)
	test.ExpectEquality(t, f.get(t, gpio.PortSize+gpio.IOPIN), 0x44444444)
	test.ExpectEquality(t, f.get(t, gpio.IOPIN), 0x12345678)

	// set and clear registers
	f.put(t, gpio.IOSET, 0x80000000)
	test.ExpectEquality(t, f.get(t, gpio.IOPIN), 0x92345678)
	f.put(t, gpio.IOCLR, 0x00000078)
	test.ExpectEquality(t, f.get(t, gpio.IOPIN), 0x92345600)

	// the set and clear registers read as zero
	test.ExpectEquality(t, f.get(t, gpio.IOSET), 0)
	test.ExpectEquality(t, f.get(t, gpio.IOCLR), 0)
}

func TestPinDirection(t *testing.T) {
	f := newFixture(t)

	// pin 0, pins 12 to 14 and pin 22 are outputs
	const m = 0x407001

	var calls int
	clearing := false
	f.write = func(_ int, value uint32, set bool, clear bool, dir uint32) {
		calls++
		test.ExpectEquality(t, dir, m)
		if clearing {
			test.ExpectFailure(t, set)
			test.ExpectSuccess(t, clear)
			test.ExpectEquality(t, value, 0)
		} else {
			test.ExpectSuccess(t, set)
			test.ExpectFailure(t, clear)
			test.ExpectEquality(t, value, m)
		}
	}

	f.put(t, gpio.IODIR, m)
	test.ExpectEquality(t, f.get(t, gpio.IODIR), m)

	f.put(t, gpio.IOSET, m)
	clearing = true
	f.put(t, gpio.IOCLR, 0xffffffff)
	test.ExpectEquality(t, calls, 2)
}
