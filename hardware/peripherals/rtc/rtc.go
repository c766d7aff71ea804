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

package rtc

import (
	"fmt"
	"time"

	"github.com/armsim/armsim/hardware/memory"
	"github.com/armsim/armsim/hardware/vm"
	"github.com/armsim/armsim/notifications"
)

// MemorySize is the size of the device's memory.
const MemorySize = 0x40

// register offsets.
const (
	Seconds = 0x00
	Minutes = 0x01
	Hours   = 0x02
	Day     = 0x03
	Date    = 0x04
	Month   = 0x05
	Year    = 0x06
	Control = 0x07
	RAM     = 0x08
)

// bits in the seconds and hours registers.
const (
	clockHalt  = 0x80
	twelveHour = 0x40
	pm         = 0x20
)

// RTC is the DS1307 real time clock.
type RTC struct {
	base uint32

	svc    vm.Service
	region *memory.Region

	mem [MemorySize]uint8

	// tick count at which the oscillator was started and the number of
	// seconds counted since then
	started float64
	counted int64

	tick vm.Handle
}

// NewRTC is the preferred method of initialisation for the RTC type. The
// clock is set to the time t in 24 hour mode and the oscillator is enabled.
func NewRTC(base uint32, t time.Time) *RTC {
	rtc := &RTC{base: base}
	rtc.SetTime(t)
	return rtc
}

func (rtc *RTC) String() string {
	return fmt.Sprintf("DS1307: %s running=%v", rtc.Time().Format("2006-01-02 15:04:05"), rtc.oscillatorEnabled())
}

// ToBCD converts a value in the range 0 to 99 to binary coded decimal.
func ToBCD(n int) uint8 {
	return uint8((n/10)<<4 | n%10)
}

// FromBCD converts a binary coded decimal value to an integer.
func FromBCD(n uint8) int {
	return int(n>>4)*10 + int(n&0x0f)
}

// SetTime sets the clock registers to the time t in 24 hour mode. The
// oscillator is enabled. RAM is not changed.
func (rtc *RTC) SetTime(t time.Time) {
	rtc.mem[Seconds] = ToBCD(t.Second())
	rtc.mem[Minutes] = ToBCD(t.Minute())
	rtc.mem[Hours] = ToBCD(t.Hour())
	rtc.mem[Day] = uint8(t.Weekday()) + 1
	rtc.mem[Date] = ToBCD(t.Day())
	rtc.mem[Month] = ToBCD(int(t.Month()))
	rtc.mem[Year] = ToBCD(t.Year() % 100)
	rtc.enableOscillator(true)
}

// Time returns the time held in the clock registers. Years are assumed to be
// in the 21st century.
func (rtc *RTC) Time() time.Time {
	return time.Date(2000+FromBCD(rtc.mem[Year]), time.Month(FromBCD(rtc.mem[Month])), FromBCD(rtc.mem[Date]),
		rtc.hours24(), FromBCD(rtc.mem[Minutes]), FromBCD(rtc.mem[Seconds]&^clockHalt), 0, time.UTC)
}

// Memory returns a copy of the device's memory.
func (rtc *RTC) Memory() []uint8 {
	m := make([]uint8, MemorySize)
	copy(m, rtc.mem[:])
	return m
}

// OnRegister implements the vm.Device interface.
func (rtc *RTC) OnRegister(svc vm.Service) bool {
	rtc.svc = svc
	rtc.region = memory.NewRegion(rtc.base, MemorySize, rtc.Read, rtc.Write)
	rtc.region.Label = "DS1307"
	if !svc.Map(rtc.region) {
		return false
	}
	if rtc.oscillatorEnabled() {
		rtc.startOscillator()
	}
	return true
}

// OnUnregister implements the vm.Device interface.
func (rtc *RTC) OnUnregister() {
	rtc.stopOscillator()
	if rtc.region != nil {
		rtc.svc.Unmap(rtc.region)
		rtc.region = nil
	}
}

// Read implements the vm.Device interface. Multi-byte accesses are little
// endian and wrap around from the end of RAM to the start of the clock
// registers.
func (rtc *RTC) Read(offset uint32, t memory.DataType) (uint32, error) {
	var v uint32
	for i := uint32(0); i < t.Size(); i++ {
		v |= uint32(rtc.mem[(offset+i)%MemorySize]) << (i * 8)
	}
	return v, nil
}

// Write implements the vm.Device interface.
func (rtc *RTC) Write(offset uint32, t memory.DataType, value uint32) error {
	for i := uint32(0); i < t.Size(); i++ {
		o := (offset + i) % MemorySize
		rtc.mem[o] = uint8(value >> (i * 8))
		if o == Seconds {
			rtc.enableOscillator(rtc.mem[Seconds]&clockHalt == 0)
		}
	}
	rtc.svc.RaiseEvent(notifications.NotifyRTCDataWrite, rtc, rtc.Memory())
	return nil
}

func (rtc *RTC) oscillatorEnabled() bool {
	return rtc.mem[Seconds]&clockHalt == 0
}

func (rtc *RTC) enableOscillator(enable bool) {
	if enable {
		rtc.mem[Seconds] &^= clockHalt
		if !rtc.tick.Valid() {
			rtc.startOscillator()
		}
	} else {
		rtc.mem[Seconds] |= clockHalt
		rtc.stopOscillator()
	}
}

func (rtc *RTC) startOscillator() {
	if rtc.svc == nil {
		return
	}
	rtc.started = rtc.svc.TickCount()
	rtc.counted = 0
	rtc.schedule()
}

func (rtc *RTC) stopOscillator() {
	if rtc.tick.Valid() {
		rtc.svc.UnregisterCallback(rtc.tick)
		rtc.tick = vm.Handle{}
	}
}

// schedule the callback for the next whole second since the oscillator was
// started. scheduling from the start time rather than from the time the
// callback ran means the clock does not drift.
func (rtc *RTC) schedule() {
	next := rtc.started + float64(rtc.counted+1) - rtc.svc.TickCount()
	if next <= 0 {
		next = 1.0 / rtc.svc.ClockRate()
	}
	rtc.tick = rtc.svc.RegisterCallback(next, false, func() {
		rtc.tick = vm.Handle{}

		started := rtc.started
		elapsed := int64(rtc.svc.TickCount() - started)
		for rtc.counted < elapsed {
			rtc.advance()
			rtc.counted++
			rtc.svc.RaiseEvent(notifications.NotifyRTCTick, rtc, rtc.Memory())

			// a subscriber may have stopped or restarted the oscillator
			if !rtc.oscillatorEnabled() || rtc.started != started {
				return
			}
		}

		rtc.schedule()
	})
}

// the hours register as a value in the range 0 to 23.
func (rtc *RTC) hours24() int {
	h := rtc.mem[Hours]
	if h&twelveHour == 0 {
		return FromBCD(h & 0x3f)
	}
	n := FromBCD(h & 0x1f)
	if n == 12 {
		n = 0
	}
	if h&pm == pm {
		n += 12
	}
	return n
}

func (rtc *RTC) setHours24(n int) {
	if rtc.mem[Hours]&twelveHour == 0 {
		rtc.mem[Hours] = ToBCD(n)
		return
	}
	v := uint8(twelveHour)
	if n >= 12 {
		v |= pm
	}
	n %= 12
	if n == 0 {
		n = 12
	}
	rtc.mem[Hours] = v | ToBCD(n)
}

// advance the clock by one second.
func (rtc *RTC) advance() {
	s := FromBCD(rtc.mem[Seconds]&^clockHalt) + 1
	if s < 60 {
		rtc.mem[Seconds] = ToBCD(s)
		return
	}
	rtc.mem[Seconds] = 0

	m := FromBCD(rtc.mem[Minutes]) + 1
	if m < 60 {
		rtc.mem[Minutes] = ToBCD(m)
		return
	}
	rtc.mem[Minutes] = 0

	h := rtc.hours24() + 1
	if h < 24 {
		rtc.setHours24(h)
		return
	}
	rtc.setHours24(0)

	// the day of the week is independent of the date
	dow := rtc.mem[Day] + 1
	if dow > 7 {
		dow = 1
	}
	rtc.mem[Day] = dow

	year := 2000 + FromBCD(rtc.mem[Year])
	month := FromBCD(rtc.mem[Month])
	date := FromBCD(rtc.mem[Date]) + 1

	// day zero of the following month is the last day of this month
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if date <= last {
		rtc.mem[Date] = ToBCD(date)
		return
	}
	rtc.mem[Date] = 1

	month++
	if month <= 12 {
		rtc.mem[Month] = ToBCD(month)
		return
	}
	rtc.mem[Month] = 1
	rtc.mem[Year] = ToBCD((year + 1) % 100)
}
