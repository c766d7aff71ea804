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

package vm

import (
	"fmt"
	"strings"

	"github.com/armsim/armsim/curated"
	"github.com/armsim/armsim/hardware/arm"
	"github.com/armsim/armsim/hardware/memory"
	"github.com/armsim/armsim/hardware/preferences"
	"github.com/armsim/armsim/logger"
	"github.com/armsim/armsim/notifications"
)

// Sentinal errors.
const (
	BadClockRate = "vm: bad clock rate (%v)"
)

// VM is the virtual machine.
type VM struct {
	ARM *arm.ARM
	Mem *memory.Memory

	clockRate float64

	devices []Device

	callbacks callbackQueue
	seq       uint64

	subscribers map[notifications.Notice][]notifications.Subscriber
}

// NewVM is the preferred method of initialisation for the VM type. The clock
// rate is in Hz. The regions are mapped before the processor is reset.
//
// The prefs argument can be nil.
func NewVM(clockRate float64, prefs *preferences.ARMPreferences, regions ...*memory.Region) (*VM, error) {
	if clockRate <= 0 {
		return nil, curated.Errorf(BadClockRate, clockRate)
	}

	vm := &VM{
		Mem:         memory.NewMemory(),
		clockRate:   clockRate,
		subscribers: make(map[notifications.Notice][]notifications.Subscriber),
	}

	for _, r := range regions {
		if !vm.Mem.Map(r) {
			return nil, curated.Errorf(memory.BadRegion, r)
		}
	}

	vm.ARM = arm.NewARM(vm.Mem, prefs)

	logger.Logf(logger.Allow, "vm", "clock rate %.0fHz", clockRate)

	return vm, nil
}

func (vm *VM) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("cycles: %d (%.6fs)\n", vm.Cycles(), vm.TickCount()))
	s.WriteString(vm.ARM.String())
	return s.String()
}

// Map implements the Service interface.
func (vm *VM) Map(region *memory.Region) bool {
	return vm.Mem.Map(region)
}

// Unmap implements the Service interface.
func (vm *VM) Unmap(region *memory.Region) bool {
	return vm.Mem.Unmap(region)
}

// ClockRate implements the Service interface.
func (vm *VM) ClockRate() float64 {
	return vm.clockRate
}

// Cycles implements the Service interface.
func (vm *VM) Cycles() int64 {
	return vm.ARM.Cycles()
}

// TickCount implements the Service interface.
func (vm *VM) TickCount() float64 {
	return float64(vm.ARM.Cycles()) / vm.clockRate
}

// On adds a subscriber to the notice. Subscribers are called in the order
// they were added.
func (vm *VM) On(notice notifications.Notice, sub notifications.Subscriber) {
	vm.subscribers[notice] = append(vm.subscribers[notice], sub)
}

// RaiseEvent calls every subscriber of the notice.
func (vm *VM) RaiseEvent(notice notifications.Notice, sender any, args any) {
	for _, sub := range vm.subscribers[notice] {
		sub(notice, sender, args)
	}
}

// Run the processor for the number of cycles in the budget and then run any
// callbacks that are due. Returns the difference between the budget and the
// number of cycles used. See arm.Run() for details.
func (vm *VM) Run(budget int) (int, error) {
	left, err := vm.ARM.Run(budget)
	if err != nil {
		return left, err
	}
	vm.drainCallbacks()
	return left, nil
}

// Step executes a single instruction and then runs any callbacks that are
// due. Returns the number of cycles used by the instruction.
func (vm *VM) Step() (int, error) {
	c, err := vm.ARM.Run(1)
	if err != nil {
		return 1 - c, err
	}
	vm.drainCallbacks()
	return 1 - c, nil
}
