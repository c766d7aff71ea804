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

package timer

import (
	"fmt"

	"github.com/armsim/armsim/hardware/memory"
	"github.com/armsim/armsim/hardware/vm"
)

// register offsets.
const (
	MODE  = 0x00
	COUNT = 0x04
	COMP  = 0x08
)

const registerBlockSize = 0x0c

// bits in the mode register.
const (
	modeClockSelect = 0x003
	modeZeroReturn  = 0x040
	modeCountEnable = 0x080
	modeCompareInt  = 0x100
	modeOverflowInt = 0x200
	modeEqualFlag   = 0x400
	modeOverflow    = 0x800
)

var clockDivide = [4]int64{1, 16, 256, 4096}

// the counter overflows when it reaches this value.
const overflow = 0x10000

// Timer is one of the board's timers.
type Timer struct {
	label string
	base  uint32

	svc    vm.Service
	region *memory.Region

	interrupt       func(active bool)
	interruptSignal bool

	mode  uint32
	count uint32
	comp  uint32

	// cycle count at which the counter was last brought up to date. any
	// remaining cycles that do not make a full timer tick are carried over
	synced int64

	event vm.Handle
}

// NewTimer is the preferred method of initialisation for the Timer type. The
// interrupt function can be nil.
func NewTimer(label string, base uint32, interrupt func(active bool)) *Timer {
	if interrupt == nil {
		interrupt = func(bool) {}
	}
	return &Timer{
		label:     label,
		base:      base,
		interrupt: interrupt,
	}
}

func (tmr *Timer) String() string {
	return fmt.Sprintf("%s: MODE=%03x COUNT=%04x COMP=%04x", tmr.label, tmr.mode, tmr.count, tmr.comp)
}

// OnRegister implements the vm.Device interface.
func (tmr *Timer) OnRegister(svc vm.Service) bool {
	tmr.svc = svc
	tmr.region = memory.NewRegion(tmr.base, registerBlockSize, tmr.Read, tmr.Write)
	tmr.region.Label = tmr.label
	return svc.Map(tmr.region)
}

// OnUnregister implements the vm.Device interface.
func (tmr *Timer) OnUnregister() {
	tmr.cancelEvent()
	if tmr.region != nil {
		tmr.svc.Unmap(tmr.region)
		tmr.region = nil
	}
}

func (tmr *Timer) enabled() bool {
	return tmr.mode&modeCountEnable == modeCountEnable
}

func (tmr *Timer) divider() int64 {
	return clockDivide[tmr.mode&modeClockSelect]
}

// Read implements the vm.Device interface.
func (tmr *Timer) Read(offset uint32, _ memory.DataType) (uint32, error) {
	switch offset {
	case MODE:
		return tmr.mode, nil
	case COUNT:
		tmr.sync()
		return tmr.count, nil
	case COMP:
		return tmr.comp, nil
	}
	return 0, nil
}

// Write implements the vm.Device interface.
func (tmr *Timer) Write(offset uint32, _ memory.DataType, value uint32) error {
	// bring the counter up to date under the old settings
	tmr.sync()

	switch offset {
	case MODE:
		wasEnabled := tmr.enabled()
		tmr.mode = value &^ (modeEqualFlag | modeOverflow)
		if tmr.enabled() && !wasEnabled {
			tmr.synced = tmr.svc.Cycles()
		}
	case COUNT:
		tmr.count = value & 0xffff
	case COMP:
		tmr.comp = value & 0xffff
	default:
		return nil
	}

	tmr.schedule()
	tmr.updateInterrupt()

	return nil
}

// sync advances the counter by the number of timer ticks since the last
// sync.
func (tmr *Timer) sync() {
	if !tmr.enabled() || tmr.svc == nil {
		return
	}

	div := tmr.divider()
	ticks := (tmr.svc.Cycles() - tmr.synced) / div
	if ticks <= 0 {
		return
	}
	tmr.synced += ticks * div
	tmr.advance(ticks)
}

// advance the counter by n ticks, setting the flags for every compare match
// and overflow along the way.
func (tmr *Timer) advance(n int64) {
	for n > 0 {
		step := tmr.ticksToEvent()
		if step > n {
			tmr.count += uint32(n)
			return
		}
		n -= step
		tmr.count += uint32(step)

		if tmr.count == tmr.comp {
			if tmr.mode&modeCompareInt == modeCompareInt {
				tmr.mode |= modeEqualFlag
			}
			if tmr.mode&modeZeroReturn == modeZeroReturn {
				tmr.count = 0
			}
		} else if tmr.count == overflow {
			tmr.count = 0
			if tmr.mode&modeOverflowInt == modeOverflowInt {
				tmr.mode |= modeOverflow
			}
		}
	}
}

// number of ticks until the next compare match or overflow.
func (tmr *Timer) ticksToEvent() int64 {
	n := int64(overflow - tmr.count)
	if tmr.comp > tmr.count {
		if c := int64(tmr.comp - tmr.count); c < n {
			n = c
		}
	}
	return n
}

func (tmr *Timer) cancelEvent() {
	if tmr.event.Valid() {
		tmr.svc.UnregisterCallback(tmr.event)
		tmr.event = vm.Handle{}
	}
}

// schedule a callback for the next compare match or overflow.
func (tmr *Timer) schedule() {
	tmr.cancelEvent()
	if !tmr.enabled() {
		return
	}

	// cycles until the event, less the cycles already counted towards the
	// next tick
	cycles := tmr.ticksToEvent()*tmr.divider() - (tmr.svc.Cycles() - tmr.synced)
	if cycles < 1 {
		cycles = 1
	}

	tmr.event = tmr.svc.RegisterCallback(float64(cycles)/tmr.svc.ClockRate(), false, func() {
		tmr.event = vm.Handle{}
		tmr.sync()
		tmr.schedule()
		tmr.updateInterrupt()
	})
}

// updateInterrupt sets the level of the interrupt output. the interrupt
// function is called on every change and for as long as the interrupt is
// active.
func (tmr *Timer) updateInterrupt() {
	old := tmr.interruptSignal
	tmr.interruptSignal = (tmr.mode&modeCompareInt != 0 && tmr.mode&modeEqualFlag != 0) ||
		(tmr.mode&modeOverflowInt != 0 && tmr.mode&modeOverflow != 0)
	if old != tmr.interruptSignal || tmr.interruptSignal {
		tmr.interrupt(tmr.interruptSignal)
	}
}
