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

package watchdog

import (
	"fmt"

	"github.com/armsim/armsim/hardware/memory"
	"github.com/armsim/armsim/hardware/vm"
	"github.com/armsim/armsim/logger"
	"github.com/armsim/armsim/notifications"
)

// register offsets.
const (
	DWCTRL = 0x00
	DWPRLD = 0x04
	DWKEY  = 0x08
	DWCNT  = 0x0c
)

const registerBlockSize = 0x10

// writing this value to the control register does not enable the counter.
const counterDisabled = 0x5312aced

// the two values that reload the counter when written to the key register in
// this order.
const (
	reloadKeyA = 0xe51a
	reloadKeyB = 0xa35c
)

// DefaultOscillator is the frequency of the watchdog's oscillator in Hz.
const DefaultOscillator = 4000000

// value of the counter register before the watchdog has been enabled.
const initialCounter = 0x01ffffff

// Watchdog is the digital watchdog.
type Watchdog struct {
	base uint32

	svc    vm.Service
	region *memory.Region

	control uint32
	preload uint32

	lastKey uint32

	// time of one step of the counter in seconds
	resolution float64

	// tick count at the time of the last reload
	reloaded float64

	expiry vm.Handle
}

// NewWatchdog is the preferred method of initialisation for the Watchdog
// type. An oscillator frequency of zero selects the DefaultOscillator.
func NewWatchdog(base uint32, oscillator float64) *Watchdog {
	if oscillator <= 0 {
		oscillator = DefaultOscillator
	}
	return &Watchdog{
		base:       base,
		control:    counterDisabled,
		preload:    0x0fff,
		resolution: float64(1<<13) / oscillator,
	}
}

func (wd *Watchdog) String() string {
	return fmt.Sprintf("DWD: CTRL=%08x PRLD=%03x active=%v", wd.control, wd.preload, wd.Active())
}

// OnRegister implements the vm.Device interface.
func (wd *Watchdog) OnRegister(svc vm.Service) bool {
	wd.svc = svc
	wd.region = memory.NewRegion(wd.base, registerBlockSize, wd.Read, wd.Write)
	wd.region.Label = "DWD"
	return svc.Map(wd.region)
}

// OnUnregister implements the vm.Device interface.
func (wd *Watchdog) OnUnregister() {
	if wd.expiry.Valid() {
		wd.svc.UnregisterCallback(wd.expiry)
		wd.expiry = vm.Handle{}
	}
	if wd.region != nil {
		wd.svc.Unmap(wd.region)
		wd.region = nil
	}
}

// Active returns true once the counter has been enabled.
func (wd *Watchdog) Active() bool {
	return wd.expiry.Valid()
}

// the time in seconds for the counter to reach zero after a reload.
func (wd *Watchdog) countdown() float64 {
	return wd.resolution * float64(wd.preload)
}

// Read implements the vm.Device interface.
func (wd *Watchdog) Read(offset uint32, _ memory.DataType) (uint32, error) {
	switch offset {
	case DWCTRL:
		return wd.control, nil
	case DWPRLD:
		return wd.preload, nil
	case DWKEY:
		return 0, nil
	case DWCNT:
		return wd.counter(), nil
	}
	return 0, nil
}

// Write implements the vm.Device interface.
func (wd *Watchdog) Write(offset uint32, _ memory.DataType, value uint32) error {
	switch offset {
	case DWCTRL:
		if wd.Active() || value == counterDisabled {
			return nil
		}
		wd.control = value
		wd.reload()
	case DWPRLD:
		if wd.Active() {
			return nil
		}
		wd.preload = value & 0x0fff
	case DWKEY:
		wd.writeKey(value)
	}
	return nil
}

func (wd *Watchdog) writeKey(v uint32) {
	if v != reloadKeyA && v != reloadKeyB {
		logger.Logf(logger.Allow, "DWD", "bad key (%#x)", v)
		wd.resetSystem()
		return
	}
	if wd.lastKey == reloadKeyA && v == reloadKeyB && wd.Active() {
		wd.reload()
	}
	wd.lastKey = v
}

func (wd *Watchdog) reload() {
	wd.reloaded = wd.svc.TickCount()
	if wd.expiry.Valid() {
		wd.svc.UnregisterCallback(wd.expiry)
	}
	wd.expiry = wd.svc.RegisterCallback(wd.countdown(), false, func() {
		// the watchdog stays active. the counter restarts from the preload
		// value in case the system reset is ignored
		wd.reload()
		wd.resetSystem()
	})
}

// the counter is interpolated from the time since the last reload.
func (wd *Watchdog) counter() uint32 {
	if !wd.Active() {
		return initialCounter
	}
	t := 1.0 - (wd.svc.TickCount()-wd.reloaded)/wd.countdown()
	if t < 0 {
		t = 0
	}
	return uint32(float64(wd.preload) * t)
}

func (wd *Watchdog) resetSystem() {
	logger.Log(logger.Allow, "DWD", "system reset")
	wd.svc.RaiseEvent(notifications.NotifyWatchdogReset, wd, nil)
}
