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

package vm_test

import (
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/armsim/armsim/hardware/memory"
	"github.com/armsim/armsim/hardware/vm"
	"github.com/armsim/armsim/notifications"
	"github.com/armsim/armsim/test"
)

// a zeroed ROM is a sequence of ANDEQ instructions. the condition is never
// true after reset so every instruction takes exactly one cycle
func newIdleVM(t *testing.T, clockRate float64) *vm.VM {
	t.Helper()
	v, err := vm.NewVM(clockRate, nil, memory.NewRegion(0, 0x10000, nil, nil))
	test.DemandSuccess(t, err)
	return v
}

// runFor runs the VM one cycle at a time so that callbacks are run as soon as
// they are due.
func runFor(t *testing.T, v *vm.VM, cycles int) {
	t.Helper()
	for i := 0; i < cycles; i++ {
		_, err := v.Run(1)
		test.DemandSuccess(t, err)
	}
}

func TestBadClockRate(t *testing.T) {
	_, err := vm.NewVM(0, nil)
	test.ExpectFailure(t, err)
}

func TestOverlappingRegions(t *testing.T) {
	_, err := vm.NewVM(1.0, nil,
		memory.NewRegion(0, 0x100, nil, nil),
		memory.NewRegion(0x80, 0x100, nil, nil),
	)
	test.ExpectFailure(t, err)
}

func TestTickCount(t *testing.T) {
	v := newIdleVM(t, 1000.0)
	left, err := v.Run(500)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, left, 0)
	test.ExpectEquality(t, v.Cycles(), int64(500))
	test.ExpectApproximate(t, v.TickCount(), 0.5, 0.000001)
}

func TestPeriodicCallback(t *testing.T) {
	for _, chunk := range []int{1, 2, 3, 5, 7, 10} {
		v := newIdleVM(t, 1.0)

		var fired []float64
		v.RegisterCallback(10, true, func() {
			fired = append(fired, v.TickCount())
		})

		for v.Cycles()+int64(chunk) <= 35 {
			_, err := v.Run(chunk)
			test.DemandSuccess(t, err)
		}

		// the callback is run at the end of the first Run() that reaches the
		// due time. the due times themselves are always 10 apart
		test.ExpectEquality(t, len(fired), 3, chunk)
		for i, f := range fired {
			due := float64((i + 1) * 10)
			test.ExpectSuccess(t, f >= due, chunk)
			test.ExpectSuccess(t, f < due+float64(chunk), chunk)
		}
	}
}

func TestPeriodicCallbackMissedPeriods(t *testing.T) {
	v := newIdleVM(t, 1.0)

	var fired []float64
	v.RegisterCallback(10, true, func() {
		fired = append(fired, v.TickCount())
	})

	// the periods due at 10, 20 and 30 are run once and not in a burst
	_, err := v.Run(35)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, fmt.Sprint(fired), "[35]")

	// the next period is still due at 40
	runFor(t, v, 4)
	test.ExpectEquality(t, len(fired), 1)
	runFor(t, v, 1)
	test.ExpectEquality(t, fmt.Sprint(fired), "[35 40]")
}

func TestOneShotCallback(t *testing.T) {
	v := newIdleVM(t, 1.0)

	n := 0
	h := v.RegisterCallback(5, false, func() { n++ })
	test.ExpectSuccess(t, h.Valid())

	_, err := v.Run(20)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, n, 1)

	// a callback that has run can not be unregistered
	test.ExpectFailure(t, v.UnregisterCallback(h))
	test.ExpectFailure(t, v.UnregisterCallback(vm.Handle{}))
}

func TestUnregisterCallback(t *testing.T) {
	v := newIdleVM(t, 1.0)

	n := 0
	h := v.RegisterCallback(5, true, func() { n++ })

	runFor(t, v, 12)
	test.ExpectEquality(t, n, 2)

	test.ExpectSuccess(t, v.UnregisterCallback(h))
	test.ExpectFailure(t, v.UnregisterCallback(h))

	runFor(t, v, 20)
	test.ExpectEquality(t, n, 2)
}

func TestCancelDueCallback(t *testing.T) {
	v := newIdleVM(t, 1.0)

	var order []string
	var b vm.Handle

	// a is run first and cancels b even though b is already due
	v.RegisterCallback(3, false, func() {
		order = append(order, "a")
		v.UnregisterCallback(b)
	})
	b = v.RegisterCallback(3, false, func() {
		order = append(order, "b")
	})

	_, err := v.Run(5)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, fmt.Sprint(order), "[a]")
}

func TestCallbackOrder(t *testing.T) {
	v := newIdleVM(t, 1.0)

	var order []string
	v.RegisterCallback(4, false, func() { order = append(order, "late") })
	v.RegisterCallback(2, false, func() { order = append(order, "first") })
	v.RegisterCallback(2, false, func() { order = append(order, "second") })

	_, err := v.Run(10)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, fmt.Sprint(order), "[first second late]")
}

func TestEvents(t *testing.T) {
	v := newIdleVM(t, 1.0)

	var order []string
	v.On(notifications.NotifyUARTData, func(n notifications.Notice, sender any, args any) {
		order = append(order, fmt.Sprintf("1:%v", args))
	})
	v.On(notifications.NotifyUARTData, func(n notifications.Notice, sender any, args any) {
		order = append(order, fmt.Sprintf("2:%v", args))
	})
	v.On(notifications.NotifyWatchdogReset, func(n notifications.Notice, sender any, args any) {
		order = append(order, "reset")
	})

	v.RaiseEvent(notifications.NotifyUARTData, nil, 'A')
	v.RaiseEvent(notifications.NotifyLEDOn, nil, nil)
	test.ExpectEquality(t, fmt.Sprint(order), "[1:65 2:65]")
}

type mockDevice struct {
	region  *memory.Region
	svc     vm.Service
	refuse  bool
	value   uint32
	removed bool
}

func (dev *mockDevice) OnRegister(svc vm.Service) bool {
	if dev.refuse {
		return false
	}
	dev.svc = svc
	dev.region = memory.NewRegion(0xe0000000, 0x100, dev.Read, dev.Write)
	return svc.Map(dev.region)
}

func (dev *mockDevice) OnUnregister() {
	dev.svc.Unmap(dev.region)
	dev.removed = true
}

func (dev *mockDevice) Read(offset uint32, t memory.DataType) (uint32, error) {
	return dev.value + offset, nil
}

func (dev *mockDevice) Write(offset uint32, t memory.DataType, value uint32) error {
	dev.value = value
	return nil
}

func TestDeviceRegistration(t *testing.T) {
	v := newIdleVM(t, 1.0)

	dev := &mockDevice{}
	test.ExpectSuccess(t, v.RegisterDevice(dev))
	test.ExpectFailure(t, v.RegisterDevice(dev))
	test.ExpectEquality(t, len(v.Devices()), 1)

	// device registers are visible through the memory map
	test.ExpectSuccess(t, v.Mem.Write(0xe0000000, memory.Word, 0x100))
	r, err := v.Mem.Read(0xe0000004, memory.Word)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, r, uint32(0x104))

	// a second device at the same address can not map its registers
	test.ExpectFailure(t, v.RegisterDevice(&mockDevice{}))
	test.ExpectFailure(t, v.RegisterDevice(&mockDevice{refuse: true}))

	test.ExpectSuccess(t, v.UnregisterDevice(dev))
	test.ExpectSuccess(t, dev.removed)
	test.ExpectFailure(t, v.UnregisterDevice(dev))

	_, err = v.Mem.Read(0xe0000000, memory.Word)
	test.ExpectFailure(t, err)
}

// vector table and a loop that leaves consecutive fibonacci numbers in r0
// and r1 every time it reaches 0x40
const fibonacciImage = "0c0000ea050000ea050000ea050000ea050000ea0000a0e1040000ea040000ea" +
	"feffffeafeffffeafeffffeafeffffeafeffffeafeffffea" +
	"0100a0e30210a0e3030000eb0020a0e10100a0e10210a0e1faffffea010080e01eff2fe1"

func TestFibonacciImage(t *testing.T) {
	data, err := hex.DecodeString(fibonacciImage)
	test.DemandSuccess(t, err)

	rom := memory.NewRegion(0, 0x4000, nil, memory.NoWrite)
	test.DemandSuccess(t, rom.Seed(memory.Image{Data: data}))
	ram := memory.NewRegion(0x40000, 0x8000, nil, nil)

	v, err := vm.NewVM(6.9824e6, nil, rom, ram)
	test.DemandSuccess(t, err)

	expected := [][2]uint32{{1, 2}, {2, 3}, {3, 5}, {5, 8}, {8, 13}, {13, 21}}
	for _, e := range expected {
		for i := 0; ; i++ {
			if i > 100 {
				t.Fatalf("loop not reached\n%s", v)
			}
			_, err := v.Step()
			test.DemandSuccess(t, err)
			if v.ARM.PC() == 0x40 {
				break
			}
		}
		test.ExpectEquality(t, v.ARM.Register(0), e[0])
		test.ExpectEquality(t, v.ARM.Register(1), e[1])

		// step over the branch so that the loop is found again
		_, err := v.Step()
		test.DemandSuccess(t, err)
	}
}
