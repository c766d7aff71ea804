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

package rtc_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/armsim/armsim/curated"
	"github.com/armsim/armsim/hardware/memory"
	"github.com/armsim/armsim/hardware/peripherals/rtc"
	"github.com/armsim/armsim/hardware/vm"
	"github.com/armsim/armsim/notifications"
	"github.com/armsim/armsim/test"
)

const base = 0xe0020000

// a slow clock so that hours of simulated time pass quickly
const clockRate = 100.0

type fixture struct {
	v      *vm.VM
	rtc    *rtc.RTC
	events []notifications.Notice
}

func newFixture(t *testing.T, start time.Time) *fixture {
	t.Helper()

	rom := memory.NewRegion(0, 4, nil, nil)
	test.DemandSuccess(t, rom.Seed(memory.Image{Data: []byte{0xfe, 0xff, 0xff, 0xea}}))
	v, err := vm.NewVM(clockRate, nil, rom)
	test.DemandSuccess(t, err)

	f := &fixture{v: v}
	f.rtc = rtc.NewRTC(base, start)
	test.DemandSuccess(t, v.RegisterDevice(f.rtc))

	record := func(notice notifications.Notice, _ any, args any) {
		test.ExpectEquality(t, len(args.([]uint8)), rtc.MemorySize)
		f.events = append(f.events, notice)
	}
	v.On(notifications.NotifyRTCTick, record)
	v.On(notifications.NotifyRTCDataWrite, record)

	return f
}

func (f *fixture) runFor(t *testing.T, seconds float64) {
	t.Helper()
	end := f.v.TickCount() + seconds
	for f.v.TickCount() < end {
		budget := int((end-f.v.TickCount())*clockRate) + 1
		if budget > 3000 {
			budget = 3000
		}
		_, err := f.v.Run(budget)
		test.DemandSuccess(t, err)
	}
}

// count the events of the type and remove them from the list
func (f *fixture) count(notice notifications.Notice) int {
	var n int
	var rest []notifications.Notice
	for _, e := range f.events {
		if e == notice {
			n++
		} else {
			rest = append(rest, e)
		}
	}
	f.events = rest
	return n
}

func (f *fixture) read(t *testing.T, reg uint32) uint8 {
	t.Helper()
	v, err := f.v.Mem.Read(base+reg, memory.Byte)
	test.DemandSuccess(t, err)
	return uint8(v)
}

func (f *fixture) write(t *testing.T, reg uint32, value uint8) {
	t.Helper()
	test.DemandSuccess(t, f.v.Mem.Write(base+reg, memory.Byte, uint32(value)))
}

func TestBCD(t *testing.T) {
	pairs := []struct {
		n   int
		bcd uint8
	}{
		{23, 0x23}, {18, 0x18}, {0, 0x00}, {9, 0x09}, {10, 0x10}, {99, 0x99},
	}
	for _, p := range pairs {
		test.ExpectEquality(t, rtc.ToBCD(p.n), p.bcd)
		test.ExpectEquality(t, rtc.FromBCD(p.bcd), p.n)
	}
}

func TestInitialTime(t *testing.T) {
	start := time.Date(2015, time.December, 17, 3, 24, 0, 0, time.UTC)
	f := newFixture(t, start)

	// thursday is day five
	expected := []uint8{0x00, 0x24, 0x03, 0x05, 0x17, 0x12, 0x15}
	for i, v := range expected {
		test.ExpectEquality(t, f.read(t, uint32(i)), v, i)
	}
	test.ExpectEquality(t, f.rtc.Time(), start)

	// RAM is cleared
	for i := uint32(rtc.RAM); i < rtc.MemorySize; i++ {
		test.ExpectEquality(t, f.read(t, i), 0)
	}
}

func TestTickTock(t *testing.T) {
	f := newFixture(t, time.Now())
	test.ExpectEquality(t, len(f.events), 0)
	f.runFor(t, 5.21)
	test.ExpectEquality(t, f.count(notifications.NotifyRTCTick), 5)
}

func TestOscillatorEnable(t *testing.T) {
	f := newFixture(t, time.Now())

	f.runFor(t, 43.284)
	test.ExpectEquality(t, f.count(notifications.NotifyRTCTick), 43)

	// setting the clock halt bit stops the oscillator
	seconds := f.read(t, rtc.Seconds)
	f.write(t, rtc.Seconds, seconds|0x80)
	test.ExpectEquality(t, f.count(notifications.NotifyRTCDataWrite), 1)

	f.runFor(t, 67.801)
	test.ExpectEquality(t, len(f.events), 0)
	test.ExpectEquality(t, f.read(t, rtc.Seconds), seconds|0x80)

	f.write(t, rtc.Seconds, seconds)
	f.runFor(t, 92.549)
	test.ExpectEquality(t, f.count(notifications.NotifyRTCTick), 92)
	test.ExpectEquality(t, f.count(notifications.NotifyRTCDataWrite), 1)
}

func TestSetTime(t *testing.T) {
	f := newFixture(t, time.Now())

	// thursday, december 17, 2015 03:24:00
	values := []uint8{0x00, 0x24, 0x03, 0x05, 0x17, 0x12, 0x15}
	for i, v := range values {
		f.write(t, uint32(i), v)
	}
	test.ExpectEquality(t, f.count(notifications.NotifyRTCDataWrite), len(values))

	// friday, december 18, 2015 15:24:00
	f.runFor(t, 60*60*36)
	expected := []uint8{0x00, 0x24, 0x15, 0x06, 0x18, 0x12, 0x15}
	for i, v := range expected {
		test.ExpectEquality(t, f.read(t, uint32(i)), v, i)
	}
}

func TestTwelveHourMode(t *testing.T) {
	f := newFixture(t, time.Now())

	// sunday, september 28, 2014 2:51:12 PM
	values := []uint8{0x12, 0x51, 0x02 | 0x40 | 0x20, 0x01, 0x28, 0x09, 0x14}
	for i, v := range values {
		f.write(t, uint32(i), v)
	}

	// monday, september 29, 2014 10:51:12 AM
	f.runFor(t, 60*60*20)
	expected := []uint8{0x12, 0x51, 0x10 | 0x40, 0x02, 0x29, 0x09, 0x14}
	for i, v := range expected {
		test.ExpectEquality(t, f.read(t, uint32(i)), v, i)
	}

	// 12 PM
	f.runFor(t, 60*60*2)
	test.ExpectEquality(t, f.read(t, rtc.Hours), 0x12|0x40|0x20)
}

func TestCalendar(t *testing.T) {
	// leap year
	f := newFixture(t, time.Date(2016, time.February, 28, 23, 59, 59, 0, time.UTC))
	f.runFor(t, 1.0)
	test.ExpectEquality(t, f.rtc.Time(), time.Date(2016, time.February, 29, 0, 0, 0, 0, time.UTC))
	f.runFor(t, 60*60*24)
	test.ExpectEquality(t, f.rtc.Time(), time.Date(2016, time.March, 1, 0, 0, 0, 0, time.UTC))

	// end of the century
	f = newFixture(t, time.Date(2099, time.December, 31, 23, 59, 59, 0, time.UTC))
	f.runFor(t, 1.0)
	test.ExpectEquality(t, f.rtc.Time(), time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC))
}

func TestMultiByteAccess(t *testing.T) {
	f := newFixture(t, time.Date(2015, time.December, 17, 3, 24, 0, 0, time.UTC))

	v, err := f.v.Mem.Read(base, memory.Word)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, 0x05032400)

	test.ExpectSuccess(t, f.v.Mem.Write(base+rtc.RAM, memory.Word, 0xdeadbeef))
	test.ExpectEquality(t, f.read(t, rtc.RAM), 0xef)
	test.ExpectEquality(t, f.read(t, rtc.RAM+3), 0xde)

	// the address wraps from the end of RAM to the clock registers
	test.ExpectSuccess(t, f.v.Mem.Write(base+0x3c, memory.Word, 0x11223344))
	v, err = f.rtc.Read(0x3e, memory.Word)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, 0x24001122)
}

func TestNVRAM(t *testing.T) {
	fn := filepath.Join(t.TempDir(), rtc.NVRAMFile)

	f := newFixture(t, time.Now())

	// loading a file that does not exist is not an error
	test.ExpectSuccess(t, f.rtc.LoadNVRAM(fn))

	for i := uint32(rtc.RAM); i < rtc.MemorySize; i++ {
		f.write(t, i, uint8(i))
	}
	test.DemandSuccess(t, f.rtc.SaveNVRAM(fn))

	g := newFixture(t, time.Now())
	test.DemandSuccess(t, g.rtc.LoadNVRAM(fn))
	for i := uint32(rtc.RAM); i < rtc.MemorySize; i++ {
		test.ExpectEquality(t, g.read(t, i), uint8(i))
	}

	// a file of the wrong length
	test.DemandSuccess(t, os.WriteFile(fn, []byte{1, 2, 3}, 0600))
	err := g.rtc.LoadNVRAM(fn)
	test.ExpectSuccess(t, curated.Is(err, rtc.BadNVRAMFile))
}

func TestUnregister(t *testing.T) {
	f := newFixture(t, time.Now())
	test.ExpectSuccess(t, f.v.UnregisterDevice(f.rtc))
	f.runFor(t, 10)
	test.ExpectEquality(t, len(f.events), 0)
}
