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
	"github.com/armsim/armsim/hardware/memory"
	"github.com/armsim/armsim/notifications"
)

// Service is the set of services the virtual machine provides to devices.
type Service interface {
	notifications.Notify

	// map and unmap a region of the device's registers. a region can not
	// overlap any other region
	Map(region *memory.Region) bool
	Unmap(region *memory.Region) bool

	RegisterCallback(timeout float64, periodic bool, handler func()) Handle
	UnregisterCallback(h Handle) bool

	// clock rate of the processor in Hz
	ClockRate() float64

	// number of processor cycles since the machine was started
	Cycles() int64

	// number of simulated seconds since the machine was started
	TickCount() float64
}

// Device is implemented by every device attached to the virtual machine.
//
// Read() and Write() are called with an offset relative to the start of the
// device's register block. A device will usually map a region with
// memory.NewRegion() using these functions as the delegates.
type Device interface {
	// called when the device is registered with the virtual machine. the
	// device should map its registers. returning false will abort the
	// registration
	OnRegister(svc Service) bool

	// called when the device is removed from the virtual machine. the device
	// should unmap its registers and unregister any callbacks
	OnUnregister()

	Read(offset uint32, t memory.DataType) (uint32, error)
	Write(offset uint32, t memory.DataType, value uint32) error
}

// RegisterDevice adds the device to the virtual machine. Returns false if the
// device is already registered or if the device's OnRegister() function
// fails.
func (vm *VM) RegisterDevice(dev Device) bool {
	for _, d := range vm.devices {
		if d == dev {
			return false
		}
	}

	if !dev.OnRegister(vm) {
		return false
	}

	vm.devices = append(vm.devices, dev)
	return true
}

// UnregisterDevice removes the device from the virtual machine. Returns false
// if the device is not registered.
func (vm *VM) UnregisterDevice(dev Device) bool {
	for i, d := range vm.devices {
		if d == dev {
			dev.OnUnregister()
			vm.devices = append(vm.devices[:i], vm.devices[i+1:]...)
			return true
		}
	}
	return false
}

// Devices returns the list of registered devices in registration order.
func (vm *VM) Devices() []Device {
	return vm.devices
}
